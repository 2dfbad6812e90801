package live

import (
	"encoding/json"
	"log"
	"math"
	"strings"

	"github.com/zwinkle/eduslide/internal/models"
)

// activitySlide resolves a slide and checks that it is configured for the
// expected activity kind. A mismatch means the client is acting on stale
// state; the event is ignored.
func (e *Engine) activitySlide(slideID, kind string) (*models.Slide, bool) {
	if slideID == "" {
		return nil, false
	}
	slide, err := e.slides.GetSlideByID(slideID)
	if err != nil || slide.InteractiveType != kind {
		return nil, false
	}
	return slide, true
}

func decodeSettings(slide *models.Slide, out interface{}) bool {
	if len(slide.Settings) == 0 {
		return false
	}
	return json.Unmarshal(slide.Settings, out) == nil
}

// --- Quiz ---

func (e *Engine) handleStartQuiz(client *Client, data json.RawMessage) {
	var p startActivityPayload
	if err := json.Unmarshal(data, &p); err != nil || p.SessionCode == "" {
		return
	}
	if e.registry.Get(p.SessionCode) == nil {
		return
	}

	slide, ok := e.activitySlide(p.SlideID, models.ActivityQuiz)
	if !ok {
		return
	}
	var settings models.QuizSettings
	if !decodeSettings(slide, &settings) {
		return
	}

	// The correct answer must never reach students.
	e.hub.Broadcast(p.SessionCode, WSMessage{
		Type: EventQuizStarted,
		Data: map[string]interface{}{
			"slide_id": slide.ID,
			"question": settings.Question,
			"options":  settings.Options,
		},
	})
	log.Printf("live: quiz started on slide %s in session %s", slide.ID, p.SessionCode)
}

func (e *Engine) handleSubmitQuizAnswer(client *Client, data json.RawMessage) {
	var p submitQuizAnswerPayload
	if err := json.Unmarshal(data, &p); err != nil ||
		p.SessionCode == "" || p.StudentID == "" {
		return
	}

	room := e.registry.Get(p.SessionCode)
	if room == nil {
		return
	}
	slide, ok := e.activitySlide(p.SlideID, models.ActivityQuiz)
	if !ok {
		return
	}
	var settings models.QuizSettings
	if !decodeSettings(slide, &settings) {
		return
	}

	correct := p.Answer == settings.CorrectAnswer
	client.Send(WSMessage{
		Type: EventQuizFeedback,
		Data: map[string]interface{}{"slide_id": slide.ID, "correct": correct},
	})

	if correct {
		if _, err := e.ledger.AddPoints(room.SessionID(), p.StudentID, p.Name, quizPoints); err != nil {
			log.Printf("live: quiz scoring failed for %s: %v", p.StudentID, err)
			return
		}
	}
	e.broadcastLeaderboard(room)
}

// --- Poll ---

func (e *Engine) handleStartPoll(client *Client, data json.RawMessage) {
	var p startActivityPayload
	if err := json.Unmarshal(data, &p); err != nil || p.SessionCode == "" {
		return
	}
	room := e.registry.Get(p.SessionCode)
	if room == nil {
		return
	}

	slide, ok := e.activitySlide(p.SlideID, models.ActivityPoll)
	if !ok {
		return
	}
	var settings models.PollSettings
	if !decodeSettings(slide, &settings) {
		return
	}

	tally := room.resetPoll(slide.ID, settings.Options)
	e.hub.Broadcast(p.SessionCode, WSMessage{
		Type: EventPollStarted,
		Data: map[string]interface{}{
			"slide_id": slide.ID,
			"question": settings.Question,
			"options":  settings.Options,
		},
	})
	e.hub.Broadcast(p.SessionCode, WSMessage{
		Type: EventUpdatePollResults,
		Data: map[string]interface{}{"slide_id": slide.ID, "results": tally},
	})
	log.Printf("live: poll started on slide %s in session %s", slide.ID, p.SessionCode)
}

func (e *Engine) handleSubmitVote(client *Client, data json.RawMessage) {
	var p submitVotePayload
	if err := json.Unmarshal(data, &p); err != nil ||
		p.SessionCode == "" || p.Option == "" || p.StudentID == "" {
		return
	}

	room := e.registry.Get(p.SessionCode)
	if room == nil {
		return
	}
	if _, ok := e.activitySlide(p.SlideID, models.ActivityPoll); !ok {
		return
	}

	// Only options seeded at poll start count; anything else is stale.
	tally, ok := room.countVote(p.SlideID, p.Option)
	if !ok {
		return
	}

	e.hub.Broadcast(p.SessionCode, WSMessage{
		Type: EventUpdatePollResults,
		Data: map[string]interface{}{"slide_id": p.SlideID, "results": tally},
	})

	if _, err := e.ledger.AddPoints(room.SessionID(), p.StudentID, p.Name, pollPoints); err != nil {
		log.Printf("live: vote scoring failed for %s: %v", p.StudentID, err)
		return
	}
	e.broadcastLeaderboard(room)
}

// --- Word cloud ---

func (e *Engine) handleStartWordCloud(client *Client, data json.RawMessage) {
	var p startActivityPayload
	if err := json.Unmarshal(data, &p); err != nil || p.SessionCode == "" {
		return
	}
	room := e.registry.Get(p.SessionCode)
	if room == nil {
		return
	}

	slide, ok := e.activitySlide(p.SlideID, models.ActivityWordCloud)
	if !ok {
		return
	}
	var settings models.WordCloudSettings
	if !decodeSettings(slide, &settings) {
		return
	}

	room.resetWordCloud(slide.ID)
	e.hub.Broadcast(p.SessionCode, WSMessage{
		Type: EventWordCloudStarted,
		Data: map[string]interface{}{"slide_id": slide.ID, "question": settings.Question},
	})
	e.hub.Broadcast(p.SessionCode, WSMessage{
		Type: EventUpdateWordCloudResults,
		Data: map[string]interface{}{"slide_id": slide.ID, "words": []string{}},
	})
}

func (e *Engine) handleSubmitWord(client *Client, data json.RawMessage) {
	var p submitWordPayload
	if err := json.Unmarshal(data, &p); err != nil ||
		p.SessionCode == "" || p.StudentID == "" {
		return
	}

	word := strings.ToLower(strings.TrimSpace(p.Word))
	if word == "" {
		return
	}

	room := e.registry.Get(p.SessionCode)
	if room == nil {
		return
	}
	if _, ok := e.activitySlide(p.SlideID, models.ActivityWordCloud); !ok {
		return
	}

	words, ok := room.addWord(p.SlideID, word)
	if !ok {
		return
	}

	e.hub.Broadcast(p.SessionCode, WSMessage{
		Type: EventUpdateWordCloudResults,
		Data: map[string]interface{}{"slide_id": p.SlideID, "words": words},
	})

	if _, err := e.ledger.AddPoints(room.SessionID(), p.StudentID, p.Name, wordCloudPoints); err != nil {
		log.Printf("live: word scoring failed for %s: %v", p.StudentID, err)
		return
	}
	e.broadcastLeaderboard(room)
}

// --- Bubble quiz ---

func (e *Engine) handleStartBubbleQuiz(client *Client, data json.RawMessage) {
	var p startActivityPayload
	if err := json.Unmarshal(data, &p); err != nil || p.SessionCode == "" {
		return
	}
	room := e.registry.Get(p.SessionCode)
	if room == nil {
		return
	}

	slide, ok := e.activitySlide(p.SlideID, models.ActivityBubbleQuiz)
	if !ok {
		return
	}
	var settings models.BubbleQuizSettings
	if !decodeSettings(slide, &settings) {
		return
	}

	room.resetBubbleClicks(slide.ID)

	// Students get the question only; the correct-area geometry would give
	// the answer away.
	e.hub.Broadcast(p.SessionCode, WSMessage{
		Type: EventBubbleQuizStarted,
		Data: map[string]interface{}{"slide_id": slide.ID, "question": settings.Question},
	})
}

func (e *Engine) handleSubmitBubbleClick(client *Client, data json.RawMessage) {
	var p submitBubbleClickPayload
	if err := json.Unmarshal(data, &p); err != nil ||
		p.SessionCode == "" || p.StudentID == "" {
		return
	}

	room := e.registry.Get(p.SessionCode)
	if room == nil {
		return
	}
	slide, ok := e.activitySlide(p.SlideID, models.ActivityBubbleQuiz)
	if !ok {
		return
	}
	var settings models.BubbleQuizSettings
	if !decodeSettings(slide, &settings) {
		return
	}

	correct := clickInAnyArea(p.X, p.Y, settings.Areas)
	clicks, ok := room.addBubbleClick(slide.ID, BubbleClick{
		Name:    p.Name,
		X:       p.X,
		Y:       p.Y,
		Correct: correct,
	})
	if !ok {
		return
	}

	e.hub.Broadcast(p.SessionCode, WSMessage{
		Type: EventUpdateBubbleQuizResults,
		Data: map[string]interface{}{"slide_id": slide.ID, "clicks": clicks},
	})

	if correct {
		if _, err := e.ledger.AddPoints(room.SessionID(), p.StudentID, p.Name, bubblePoints); err != nil {
			log.Printf("live: bubble scoring failed for %s: %v", p.StudentID, err)
			return
		}
	}
	e.broadcastLeaderboard(room)
}

func clickInAnyArea(x, y float64, areas []models.BubbleArea) bool {
	for _, area := range areas {
		if math.Hypot(x-area.X, y-area.Y) <= area.Radius {
			return true
		}
	}
	return false
}
