package services

import (
	"errors"

	"github.com/zwinkle/eduslide/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const defaultLeaderboardLimit = 10

// ScoreService is the durable point ledger. Concurrent callers racing on the
// same (session, student) key are resolved by the unique index plus
// ON CONFLICT DO NOTHING, and increments run as a single SQL update so a
// read-modify-write race cannot lose points.
type ScoreService struct {
	db *gorm.DB
}

func NewScoreService(db *gorm.DB) *ScoreService {
	return &ScoreService{db: db}
}

type LeaderboardEntry struct {
	StudentName string `json:"student_name"`
	StudentID   string `json:"student_id"`
	Points      int    `json:"points"`
}

func (s *ScoreService) GetOrCreate(sessionID, studentID, studentName string) (*models.Score, error) {
	return s.getOrCreate(s.db, sessionID, studentID, studentName)
}

func (s *ScoreService) getOrCreate(db *gorm.DB, sessionID, studentID, studentName string) (*models.Score, error) {
	score := models.Score{
		SessionID:   sessionID,
		StudentID:   studentID,
		StudentName: studentName,
	}
	if err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "session_id"}, {Name: "student_id"}},
		DoNothing: true,
	}).Create(&score).Error; err != nil {
		return nil, err
	}

	// Read back regardless of who won the insert race.
	var existing models.Score
	if err := db.Where("session_id = ? AND student_id = ?", sessionID, studentID).
		First(&existing).Error; err != nil {
		return nil, err
	}
	return &existing, nil
}

func (s *ScoreService) AddPoints(sessionID, studentID, studentName string, delta int) (*models.Score, error) {
	if delta <= 0 {
		return nil, errors.New("point delta must be positive")
	}

	var result models.Score
	err := s.db.Transaction(func(tx *gorm.DB) error {
		score, err := s.getOrCreate(tx, sessionID, studentID, studentName)
		if err != nil {
			return err
		}

		if err := tx.Model(&models.Score{}).
			Where("id = ?", score.ID).
			Update("points", gorm.Expr("points + ?", delta)).Error; err != nil {
			return err
		}

		return tx.First(&result, "id = ?", score.ID).Error
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// Leaderboard returns the top scores for a session, highest first. Ties keep
// insertion order.
func (s *ScoreService) Leaderboard(sessionID string, limit int) ([]LeaderboardEntry, error) {
	if limit <= 0 {
		limit = defaultLeaderboardLimit
	}

	var scores []models.Score
	if err := s.db.Where("session_id = ?", sessionID).
		Order("points DESC, created_at ASC").
		Limit(limit).
		Find(&scores).Error; err != nil {
		return nil, err
	}

	entries := make([]LeaderboardEntry, len(scores))
	for i, score := range scores {
		entries[i] = LeaderboardEntry{
			StudentName: score.StudentName,
			StudentID:   score.StudentID,
			Points:      score.Points,
		}
	}
	return entries, nil
}
