package services

import (
	"errors"
	"math/rand"
	"time"

	"github.com/zwinkle/eduslide/internal/models"

	"gorm.io/gorm"
)

// codeAlphabet leaves out easily-confused characters (0/O, 1/I) since codes
// are read aloud or typed from a projector.
const (
	codeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	codeLength   = 6
)

type SessionService struct {
	db *gorm.DB
}

func NewSessionService(db *gorm.DB) *SessionService {
	return &SessionService{db: db}
}

func (s *SessionService) Create(presentationID string) (*models.Session, error) {
	code, err := s.generateUniqueCode()
	if err != nil {
		return nil, err
	}

	session := models.Session{
		PresentationID: presentationID,
		Code:           code,
	}
	if err := s.db.Create(&session).Error; err != nil {
		return nil, err
	}
	return &session, nil
}

// GetByCode resolves a live session. Ended sessions are treated as expired
// codes.
func (s *SessionService) GetByCode(code string) (*models.Session, error) {
	var session models.Session
	if err := s.db.Where("code = ? AND end_time IS NULL", code).
		First(&session).Error; err != nil {
		return nil, errors.New("session not found or has expired")
	}
	return &session, nil
}

// EndByCode sets the session's end time. Calling it again is a no-op that
// returns the already-ended session unchanged.
func (s *SessionService) EndByCode(code string) (*models.Session, error) {
	var session models.Session
	if err := s.db.Where("code = ?", code).First(&session).Error; err != nil {
		return nil, errors.New("session not found")
	}

	if session.EndTime == nil {
		now := time.Now()
		if err := s.db.Model(&session).Update("end_time", now).Error; err != nil {
			return nil, err
		}
		session.EndTime = &now
	}
	return &session, nil
}

// DeleteByCode removes the session row outright. Used by the grace-period
// supervisor when a teacher abandons a session.
func (s *SessionService) DeleteByCode(code string) error {
	return s.db.Where("code = ?", code).Delete(&models.Session{}).Error
}

func (s *SessionService) generateUniqueCode() (string, error) {
	for attempt := 0; attempt < 100; attempt++ {
		buf := make([]byte, codeLength)
		for i := range buf {
			buf[i] = codeAlphabet[rand.Intn(len(codeAlphabet))]
		}
		code := string(buf)

		var count int64
		if err := s.db.Model(&models.Session{}).
			Where("code = ?", code).
			Count(&count).Error; err != nil {
			return "", err
		}
		if count == 0 {
			return code, nil
		}
	}
	return "", errors.New("could not generate a unique session code")
}
