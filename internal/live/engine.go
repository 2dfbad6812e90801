package live

import (
	"encoding/json"
	"log"
	"time"

	"github.com/zwinkle/eduslide/internal/models"
	"github.com/zwinkle/eduslide/internal/services"
)

// Durable collaborators, injected so tests can run the engine against fakes.

type SessionStore interface {
	GetByCode(code string) (*models.Session, error)
	EndByCode(code string) (*models.Session, error)
	DeleteByCode(code string) error
}

type SlideStore interface {
	GetSlideByID(slideID string) (*models.Slide, error)
}

type Ledger interface {
	AddPoints(sessionID, studentID, studentName string, delta int) (*models.Score, error)
	Leaderboard(sessionID string, limit int) ([]services.LeaderboardEntry, error)
}

// Point values per activity.
const (
	quizPoints      = 100
	bubblePoints    = 75
	wordCloudPoints = 15
	pollPoints      = 10
)

// DefaultGracePeriod is how long a session survives its teacher's disconnect
// before being reclaimed.
const DefaultGracePeriod = 180 * time.Second

// Engine dispatches real-time events for live sessions: presence, slide
// control, the interactive activities and the teacher grace window. Malformed
// or stale events are dropped without an error to the sender; a flaky client
// must never take the room down with it.
type Engine struct {
	hub      *Hub
	registry *Registry
	sessions SessionStore
	slides   SlideStore
	ledger   Ledger
	grace    time.Duration
}

func NewEngine(hub *Hub, sessions SessionStore, slides SlideStore, ledger Ledger, grace time.Duration) *Engine {
	if grace <= 0 {
		grace = DefaultGracePeriod
	}
	return &Engine{
		hub:      hub,
		registry: NewRegistry(),
		sessions: sessions,
		slides:   slides,
		ledger:   ledger,
		grace:    grace,
	}
}

func (e *Engine) Registry() *Registry {
	return e.registry
}

// HandleMessage dispatches one inbound frame from a connection.
func (e *Engine) HandleMessage(client *Client, raw []byte) {
	var msg inboundMessage
	if err := json.Unmarshal(raw, &msg); err != nil {
		log.Printf("live: dropping unparseable frame from %s", client.ID)
		return
	}

	switch msg.Type {
	case EventTeacherJoin:
		e.handleTeacherJoin(client, msg.Data)
	case EventJoinSession:
		e.handleJoinSession(client, msg.Data)
	case EventStartPresentation:
		e.handleStartPresentation(client, msg.Data)
	case EventChangeSlide:
		e.handleChangeSlide(client, msg.Data)
	case EventStartQuiz:
		e.handleStartQuiz(client, msg.Data)
	case EventSubmitQuizAnswer:
		e.handleSubmitQuizAnswer(client, msg.Data)
	case EventStartPoll:
		e.handleStartPoll(client, msg.Data)
	case EventSubmitVote:
		e.handleSubmitVote(client, msg.Data)
	case EventStartWordCloud:
		e.handleStartWordCloud(client, msg.Data)
	case EventSubmitWord:
		e.handleSubmitWord(client, msg.Data)
	case EventStartBubbleQuiz:
		e.handleStartBubbleQuiz(client, msg.Data)
	case EventSubmitBubbleClick:
		e.handleSubmitBubbleClick(client, msg.Data)
	case EventPickRandomStudent:
		e.handlePickRandomStudent(client, msg.Data)
	case EventStartDrawing, EventDrawingEvent, EventClearCanvas, EventHideDrawing:
		e.handleDrawingRelay(client, msg.Type, msg.Data)
	case EventEndSession:
		e.handleEndSession(client, msg.Data)
	default:
		log.Printf("live: unknown event %q from %s", msg.Type, client.ID)
	}
}

// HandleDisconnect updates presence when a connection drops. A teacher
// disconnect arms the grace timer instead of tearing the session down; a
// student disconnect just shrinks the roster.
func (e *Engine) HandleDisconnect(client *Client) {
	room := e.registry.FindByConn(client.ID)
	if room == nil {
		return
	}

	if room.isTeacher(client.ID) {
		e.hub.Leave(room.Code, client.ID)
		e.armGraceTimer(room)
		log.Printf("live: teacher left session %s, grace timer armed (%s)", room.Code, e.grace)
		return
	}

	if room.removeParticipant(client.ID) {
		e.hub.Leave(room.Code, client.ID)
		e.broadcastRoster(room)
		log.Printf("live: participant %s left session %s", client.ID, room.Code)
	}
}

func (e *Engine) handleTeacherJoin(client *Client, data json.RawMessage) {
	var p sessionCodePayload
	if err := json.Unmarshal(data, &p); err != nil || p.SessionCode == "" {
		return
	}

	session, err := e.sessions.GetByCode(p.SessionCode)
	if err != nil {
		log.Printf("live: teacher_join for unknown code %s", p.SessionCode)
		return
	}

	room := e.registry.GetOrCreate(p.SessionCode)
	room.setSessionID(session.ID)
	room.setTeacher(client.ID)
	e.cancelGraceTimer(room)
	e.hub.JoinTeacher(p.SessionCode, client)
	log.Printf("live: teacher %s joined session %s", client.ID, p.SessionCode)

	client.Send(WSMessage{
		Type: EventUpdateParticipantList,
		Data: map[string]interface{}{"participants": room.roster()},
	})
	e.sendLeaderboard(client, session.ID)
}

func (e *Engine) handleJoinSession(client *Client, data json.RawMessage) {
	var p joinSessionPayload
	if err := json.Unmarshal(data, &p); err != nil || p.SessionCode == "" || p.StudentID == "" {
		return
	}
	if p.Name == "" {
		p.Name = "Anonymous"
	}

	session, err := e.sessions.GetByCode(p.SessionCode)
	if err != nil {
		log.Printf("live: join_session for unknown code %s", p.SessionCode)
		return
	}

	room := e.registry.GetOrCreate(p.SessionCode)
	room.setSessionID(session.ID)
	room.addParticipant(Participant{Name: p.Name, StudentID: p.StudentID, ConnID: client.ID})
	e.hub.Join(p.SessionCode, client)
	log.Printf("live: student %s (%s) joined session %s", p.Name, client.ID, p.SessionCode)

	e.broadcastRoster(room)
	client.Send(WSMessage{
		Type: EventJoinSuccess,
		Data: map[string]interface{}{"message": "Successfully joined room " + p.SessionCode},
	})
	e.sendLeaderboard(client, session.ID)
}

func (e *Engine) handleStartPresentation(client *Client, data json.RawMessage) {
	var p sessionCodePayload
	if err := json.Unmarshal(data, &p); err != nil || p.SessionCode == "" {
		return
	}
	e.hub.Broadcast(p.SessionCode, WSMessage{
		Type: EventSlideChanged,
		Data: map[string]interface{}{"page_number": 1},
	})
}

func (e *Engine) handleChangeSlide(client *Client, data json.RawMessage) {
	var p changeSlidePayload
	if err := json.Unmarshal(data, &p); err != nil || p.SessionCode == "" {
		return
	}
	e.hub.BroadcastExcept(p.SessionCode, client.ID, WSMessage{
		Type: EventSlideChanged,
		Data: map[string]interface{}{"page_number": p.PageNumber},
	})
}

func (e *Engine) handleEndSession(client *Client, data json.RawMessage) {
	var p sessionCodePayload
	if err := json.Unmarshal(data, &p); err != nil || p.SessionCode == "" {
		return
	}

	// Setting the end time is idempotent; a failure here aborts the
	// broadcasts but an already-ended session does not.
	if _, err := e.sessions.EndByCode(p.SessionCode); err != nil {
		log.Printf("live: end_session for %s failed: %v", p.SessionCode, err)
		return
	}

	e.hub.Broadcast(p.SessionCode, WSMessage{
		Type: EventSessionEnded,
		Data: map[string]interface{}{"message": "The teacher has ended the session."},
	})
	e.teardown(p.SessionCode)
	log.Printf("live: session %s ended by teacher", p.SessionCode)
}

func (e *Engine) handlePickRandomStudent(client *Client, data json.RawMessage) {
	var p sessionCodePayload
	if err := json.Unmarshal(data, &p); err != nil || p.SessionCode == "" {
		return
	}

	room := e.registry.Get(p.SessionCode)
	if room == nil {
		return
	}
	picked, ok := room.randomParticipant()
	if !ok {
		return
	}

	e.hub.Broadcast(p.SessionCode, WSMessage{
		Type: EventStudentPicked,
		Data: map[string]interface{}{
			"picked":       picked,
			"participants": room.roster(),
		},
	})
}

// handleDrawingRelay forwards drawing traffic verbatim to everyone but the
// sender. Nothing is retained.
func (e *Engine) handleDrawingRelay(client *Client, event string, data json.RawMessage) {
	var p sessionCodePayload
	if err := json.Unmarshal(data, &p); err != nil || p.SessionCode == "" {
		return
	}
	e.hub.BroadcastExcept(p.SessionCode, client.ID, WSMessage{
		Type: event,
		Data: json.RawMessage(data),
	})
}

// armGraceTimer schedules session reclamation. Bumping graceGen first means a
// timer that already fired but lost the race to a cancel sees a stale
// generation and backs off.
func (e *Engine) armGraceTimer(room *Room) {
	room.mu.Lock()
	defer room.mu.Unlock()
	room.graceGen++
	gen := room.graceGen
	if room.graceTimer != nil {
		room.graceTimer.Stop()
	}
	code := room.Code
	room.graceTimer = time.AfterFunc(e.grace, func() {
		e.expireSession(code, gen)
	})
}

func (e *Engine) cancelGraceTimer(room *Room) {
	room.mu.Lock()
	defer room.mu.Unlock()
	room.graceGen++
	if room.graceTimer != nil {
		room.graceTimer.Stop()
		room.graceTimer = nil
	}
}

func (e *Engine) expireSession(code string, gen uint64) {
	room := e.registry.Get(code)
	if room == nil {
		return
	}

	room.mu.Lock()
	if room.graceGen != gen || room.ended {
		room.mu.Unlock()
		return
	}
	room.ended = true
	room.mu.Unlock()

	if err := e.sessions.DeleteByCode(code); err != nil {
		// Memory still needs reclaiming; the durable row can be swept later.
		log.Printf("live: failed to delete expired session %s: %v", code, err)
	}

	e.hub.Broadcast(code, WSMessage{
		Type: EventSessionEnded,
		Data: map[string]interface{}{"message": "Session expired: the teacher did not return."},
	})
	e.teardown(code)
	log.Printf("live: session %s reclaimed after grace period", code)
}

func (e *Engine) teardown(code string) {
	if room := e.registry.Get(code); room != nil {
		e.cancelGraceTimer(room)
		room.mu.Lock()
		room.ended = true
		room.mu.Unlock()
	}
	e.hub.CloseRoom(code)
	e.registry.Delete(code)
}

func (e *Engine) broadcastRoster(room *Room) {
	e.hub.BroadcastTeachers(room.Code, WSMessage{
		Type: EventUpdateParticipantList,
		Data: map[string]interface{}{"participants": room.roster()},
	})
}

func (e *Engine) sendLeaderboard(client *Client, sessionID string) {
	entries, err := e.ledger.Leaderboard(sessionID, 0)
	if err != nil {
		log.Printf("live: leaderboard fetch failed: %v", err)
		return
	}
	client.Send(WSMessage{
		Type: EventUpdateLeaderboard,
		Data: map[string]interface{}{"leaderboard": entries},
	})
}

func (e *Engine) broadcastLeaderboard(room *Room) {
	entries, err := e.ledger.Leaderboard(room.SessionID(), 0)
	if err != nil {
		log.Printf("live: leaderboard fetch failed: %v", err)
		return
	}
	e.hub.Broadcast(room.Code, WSMessage{
		Type: EventUpdateLeaderboard,
		Data: map[string]interface{}{"leaderboard": entries},
	})
}
