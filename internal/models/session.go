package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Session is one live run of a presentation. EndTime stays nil while the
// session is live; it is set exactly once when the teacher ends the session.
// The row is deleted outright when the teacher-disconnect grace period
// expires without a reconnect.
type Session struct {
	ID             string     `gorm:"type:uuid;primaryKey" json:"id"`
	PresentationID string     `gorm:"type:uuid;not null;index" json:"presentation_id"`
	Code           string     `gorm:"size:8;uniqueIndex;not null" json:"code"`
	StartTime      time.Time  `gorm:"autoCreateTime" json:"start_time"`
	EndTime        *time.Time `json:"end_time,omitempty"`
}

func (s *Session) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}
