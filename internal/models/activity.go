package models

// Typed views of Slide.Settings, one per activity kind. The settings column
// is authoritative; the live core only ever reads these.

type QuizSettings struct {
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correct_answer"`
}

type PollSettings struct {
	Question string   `json:"question"`
	Options  []string `json:"options"`
}

type WordCloudSettings struct {
	Question string `json:"question"`
}

// BubbleArea is a circular correct area in normalized [0,1]x[0,1] slide
// coordinates.
type BubbleArea struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Radius float64 `json:"radius"`
}

type BubbleQuizSettings struct {
	Question string       `json:"question"`
	ImageURL string       `json:"image_url,omitempty"`
	Areas    []BubbleArea `json:"areas"`
}
