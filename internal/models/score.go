package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Score is the durable per-(session, student) point accumulator. The unique
// index makes concurrent get-or-create calls converge on a single row; points
// only ever grow via additive SQL increments.
type Score struct {
	ID          string    `gorm:"type:uuid;primaryKey" json:"-"`
	SessionID   string    `gorm:"type:uuid;not null;uniqueIndex:idx_session_student" json:"session_id"`
	StudentID   string    `gorm:"size:64;not null;uniqueIndex:idx_session_student" json:"student_id"`
	StudentName string    `gorm:"size:100;not null" json:"student_name"`
	Points      int       `gorm:"not null;default:0" json:"points"`
	CreatedAt   time.Time `json:"-"`
}

func (s *Score) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}
