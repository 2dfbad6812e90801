package live

import "encoding/json"

// WSMessage is the frame format for both directions: an event name plus a
// JSON payload.
type WSMessage struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

type inboundMessage struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// Inbound events.
const (
	EventTeacherJoin       = "teacher_join"
	EventJoinSession       = "join_session"
	EventStartPresentation = "start_presentation"
	EventChangeSlide       = "change_slide"
	EventStartQuiz         = "start_quiz"
	EventSubmitQuizAnswer  = "submit_quiz_answer"
	EventStartPoll         = "start_poll"
	EventSubmitVote        = "submit_vote"
	EventStartWordCloud    = "start_wordcloud"
	EventSubmitWord        = "submit_word"
	EventStartBubbleQuiz   = "start_bubble_quiz"
	EventSubmitBubbleClick = "submit_bubble_click"
	EventPickRandomStudent = "pick_random_student"
	EventStartDrawing      = "start_drawing"
	EventDrawingEvent      = "drawing_event"
	EventClearCanvas       = "clear_canvas"
	EventHideDrawing       = "hide_drawing"
	EventEndSession        = "end_session"
)

// Outbound events.
const (
	EventJoinSuccess             = "join_success"
	EventUpdateParticipantList   = "update_participant_list"
	EventUpdateLeaderboard       = "update_leaderboard"
	EventSlideChanged            = "slide_changed"
	EventQuizStarted             = "quiz_started"
	EventQuizFeedback            = "quiz_feedback"
	EventPollStarted             = "poll_started"
	EventUpdatePollResults       = "update_poll_results"
	EventWordCloudStarted        = "wordcloud_started"
	EventUpdateWordCloudResults  = "update_wordcloud_results"
	EventBubbleQuizStarted       = "bubble_quiz_started"
	EventUpdateBubbleQuizResults = "update_bubble_quiz_results"
	EventStudentPicked           = "student_picked"
	EventSessionEnded            = "session_ended"
)

type sessionCodePayload struct {
	SessionCode string `json:"session_code"`
}

type joinSessionPayload struct {
	SessionCode string `json:"session_code"`
	Name        string `json:"name"`
	StudentID   string `json:"student_id"`
}

type changeSlidePayload struct {
	SessionCode string `json:"session_code"`
	PageNumber  int    `json:"page_number"`
}

type startActivityPayload struct {
	SessionCode string `json:"session_code"`
	SlideID     string `json:"slide_id"`
}

type submitQuizAnswerPayload struct {
	SessionCode string `json:"session_code"`
	SlideID     string `json:"slide_id"`
	Answer      string `json:"answer"`
	Name        string `json:"name"`
	StudentID   string `json:"student_id"`
}

type submitVotePayload struct {
	SessionCode string `json:"session_code"`
	SlideID     string `json:"slide_id"`
	Option      string `json:"option"`
	Name        string `json:"name"`
	StudentID   string `json:"student_id"`
}

type submitWordPayload struct {
	SessionCode string `json:"session_code"`
	SlideID     string `json:"slide_id"`
	Word        string `json:"word"`
	Name        string `json:"name"`
	StudentID   string `json:"student_id"`
}

type submitBubbleClickPayload struct {
	SessionCode string  `json:"session_code"`
	SlideID     string  `json:"slide_id"`
	X           float64 `json:"x"`
	Y           float64 `json:"y"`
	Name        string  `json:"name"`
	StudentID   string  `json:"student_id"`
}
