package models

import (
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Activity kinds a slide can be configured with. A slide with an empty
// InteractiveType is a plain content slide.
const (
	ActivityQuiz       = "quiz"
	ActivityPoll       = "poll"
	ActivityWordCloud  = "word_cloud"
	ActivityBubbleQuiz = "bubble_quiz"
)

type Slide struct {
	ID              string         `gorm:"type:uuid;primaryKey" json:"id"`
	PresentationID  string         `gorm:"type:uuid;not null;index" json:"presentation_id"`
	PageNumber      int            `gorm:"not null" json:"page_number"`
	ContentURL      string         `gorm:"size:500" json:"content_url,omitempty"`
	InteractiveType string         `gorm:"size:20" json:"interactive_type,omitempty"`
	Settings        datatypes.JSON `json:"settings,omitempty"`
}

func (s *Slide) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}
