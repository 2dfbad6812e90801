package services

import (
	"encoding/json"
	"errors"

	"github.com/zwinkle/eduslide/internal/models"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// PresentationService owns the durable presentation/slide records. The live
// core only reads slides through GetSlideByID; everything else is teacher-side
// CRUD.
type PresentationService struct {
	db *gorm.DB
}

func NewPresentationService(db *gorm.DB) *PresentationService {
	return &PresentationService{db: db}
}

func (s *PresentationService) Create(title, ownerID string) (*models.Presentation, error) {
	presentation := models.Presentation{
		Title:   title,
		OwnerID: ownerID,
	}
	if err := s.db.Create(&presentation).Error; err != nil {
		return nil, err
	}
	return &presentation, nil
}

func (s *PresentationService) ListByOwner(ownerID string) ([]models.Presentation, error) {
	var presentations []models.Presentation
	if err := s.db.Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Find(&presentations).Error; err != nil {
		return nil, err
	}
	return presentations, nil
}

// GetByID fetches a presentation with its slides. An empty ownerID skips the
// ownership filter.
func (s *PresentationService) GetByID(presentationID, ownerID string) (*models.Presentation, error) {
	query := s.db.Where("id = ?", presentationID).
		Preload("Slides", func(db *gorm.DB) *gorm.DB {
			return db.Order("page_number ASC")
		})
	if ownerID != "" {
		query = query.Where("owner_id = ?", ownerID)
	}

	var presentation models.Presentation
	if err := query.First(&presentation).Error; err != nil {
		return nil, errors.New("presentation not found")
	}
	return &presentation, nil
}

func (s *PresentationService) UpdateTitle(presentationID, ownerID, title string) (*models.Presentation, error) {
	presentation, err := s.GetByID(presentationID, ownerID)
	if err != nil {
		return nil, err
	}
	presentation.Title = title
	if err := s.db.Save(presentation).Error; err != nil {
		return nil, err
	}
	return presentation, nil
}

func (s *PresentationService) Delete(presentationID, ownerID string) error {
	presentation, err := s.GetByID(presentationID, ownerID)
	if err != nil {
		return err
	}
	return s.db.Select("Slides").Delete(presentation).Error
}

func (s *PresentationService) AddSlide(presentationID, ownerID string, pageNumber int, contentURL string) (*models.Slide, error) {
	presentation, err := s.GetByID(presentationID, ownerID)
	if err != nil {
		return nil, err
	}

	slide := models.Slide{
		PresentationID: presentation.ID,
		PageNumber:     pageNumber,
		ContentURL:     contentURL,
	}
	if err := s.db.Create(&slide).Error; err != nil {
		return nil, err
	}
	return &slide, nil
}

// GetSlideByID is the read-only lookup the live core uses to resolve a
// slide's activity kind and settings.
func (s *PresentationService) GetSlideByID(slideID string) (*models.Slide, error) {
	var slide models.Slide
	if err := s.db.First(&slide, "id = ?", slideID).Error; err != nil {
		return nil, errors.New("slide not found")
	}
	return &slide, nil
}

func (s *PresentationService) SetSlideQuiz(slideID string, settings models.QuizSettings) (*models.Slide, error) {
	return s.setSlideActivity(slideID, models.ActivityQuiz, settings)
}

func (s *PresentationService) SetSlidePoll(slideID string, settings models.PollSettings) (*models.Slide, error) {
	return s.setSlideActivity(slideID, models.ActivityPoll, settings)
}

func (s *PresentationService) SetSlideWordCloud(slideID string, settings models.WordCloudSettings) (*models.Slide, error) {
	return s.setSlideActivity(slideID, models.ActivityWordCloud, settings)
}

func (s *PresentationService) SetSlideBubbleQuiz(slideID string, settings models.BubbleQuizSettings) (*models.Slide, error) {
	return s.setSlideActivity(slideID, models.ActivityBubbleQuiz, settings)
}

func (s *PresentationService) ClearSlideActivity(slideID string) (*models.Slide, error) {
	slide, err := s.GetSlideByID(slideID)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{"interactive_type": "", "settings": nil}
	if err := s.db.Model(slide).Updates(updates).Error; err != nil {
		return nil, err
	}
	slide.InteractiveType = ""
	slide.Settings = nil
	return slide, nil
}

func (s *PresentationService) setSlideActivity(slideID, kind string, settings interface{}) (*models.Slide, error) {
	slide, err := s.GetSlideByID(slideID)
	if err != nil {
		return nil, err
	}

	raw, err := json.Marshal(settings)
	if err != nil {
		return nil, err
	}

	slide.InteractiveType = kind
	slide.Settings = datatypes.JSON(raw)
	if err := s.db.Save(slide).Error; err != nil {
		return nil, err
	}
	return slide, nil
}
