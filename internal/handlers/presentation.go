package handlers

import (
	"net/http"

	"github.com/zwinkle/eduslide/internal/models"
	"github.com/zwinkle/eduslide/internal/services"

	"github.com/gin-gonic/gin"
)

type PresentationHandler struct {
	presentations *services.PresentationService
	sessions      *services.SessionService
}

func NewPresentationHandler(presentations *services.PresentationService, sessions *services.SessionService) *PresentationHandler {
	return &PresentationHandler{presentations: presentations, sessions: sessions}
}

type PresentationRequest struct {
	Title string `json:"title" binding:"required,min=1,max=255" example:"Intro to Photosynthesis"`
}

type AddSlideRequest struct {
	PageNumber int    `json:"page_number" binding:"required,min=1"`
	ContentURL string `json:"content_url" binding:"omitempty,max=500"`
}

type QuizRequest struct {
	Question      string   `json:"question" binding:"required,min=1,max=255"`
	Options       []string `json:"options" binding:"required,min=2,max=8,dive,required"`
	CorrectAnswer string   `json:"correct_answer" binding:"required"`
}

type PollRequest struct {
	Question string   `json:"question" binding:"required,min=1,max=255"`
	Options  []string `json:"options" binding:"required,min=2,max=8,dive,required"`
}

type WordCloudRequest struct {
	Question string `json:"question" binding:"required,min=1,max=255"`
}

type BubbleAreaRequest struct {
	X      float64 `json:"x" binding:"min=0,max=1"`
	Y      float64 `json:"y" binding:"min=0,max=1"`
	Radius float64 `json:"radius" binding:"required,gt=0,max=1"`
}

type BubbleQuizRequest struct {
	Question string              `json:"question" binding:"required,min=1,max=255"`
	ImageURL string              `json:"image_url" binding:"omitempty,max=500"`
	Areas    []BubbleAreaRequest `json:"areas" binding:"required,min=1,dive"`
}

// Create godoc
// @Summary      Create a presentation
// @Tags         presentations
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body PresentationRequest true "Presentation data"
// @Success      201 {object} Presentation
// @Failure      400 {object} ErrorResponse
// @Router       /api/v1/presentations [post]
func (h *PresentationHandler) Create(c *gin.Context) {
	var req PresentationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	presentation, err := h.presentations.Create(req.Title, c.GetString("user_id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusCreated, presentation)
}

// List godoc
// @Summary      List own presentations
// @Tags         presentations
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} Presentation
// @Router       /api/v1/presentations [get]
func (h *PresentationHandler) List(c *gin.Context) {
	presentations, err := h.presentations.ListByOwner(c.GetString("user_id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, presentations)
}

// Get godoc
// @Summary      Get a presentation with slides
// @Tags         presentations
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Presentation ID"
// @Success      200 {object} Presentation
// @Failure      404 {object} ErrorResponse
// @Router       /api/v1/presentations/{id} [get]
func (h *PresentationHandler) Get(c *gin.Context) {
	presentation, err := h.presentations.GetByID(c.Param("id"), c.GetString("user_id"))
	if err != nil {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, presentation)
}

// Update godoc
// @Summary      Rename a presentation
// @Tags         presentations
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Presentation ID"
// @Param        request body PresentationRequest true "New title"
// @Success      200 {object} Presentation
// @Failure      404 {object} ErrorResponse
// @Router       /api/v1/presentations/{id} [put]
func (h *PresentationHandler) Update(c *gin.Context) {
	var req PresentationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	presentation, err := h.presentations.UpdateTitle(c.Param("id"), c.GetString("user_id"), req.Title)
	if err != nil {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, presentation)
}

// Delete godoc
// @Summary      Delete a presentation
// @Tags         presentations
// @Security     BearerAuth
// @Param        id path string true "Presentation ID"
// @Success      204
// @Failure      404 {object} ErrorResponse
// @Router       /api/v1/presentations/{id} [delete]
func (h *PresentationHandler) Delete(c *gin.Context) {
	if err := h.presentations.Delete(c.Param("id"), c.GetString("user_id")); err != nil {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}

// AddSlide godoc
// @Summary      Add a slide to a presentation
// @Tags         presentations
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Presentation ID"
// @Param        request body AddSlideRequest true "Slide data"
// @Success      201 {object} Slide
// @Failure      404 {object} ErrorResponse
// @Router       /api/v1/presentations/{id}/slides [post]
func (h *PresentationHandler) AddSlide(c *gin.Context) {
	var req AddSlideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	slide, err := h.presentations.AddSlide(c.Param("id"), c.GetString("user_id"), req.PageNumber, req.ContentURL)
	if err != nil {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusCreated, slide)
}

// SetQuiz godoc
// @Summary      Configure a quiz on a slide
// @Tags         slides
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Slide ID"
// @Param        request body QuizRequest true "Quiz settings"
// @Success      200 {object} Slide
// @Failure      404 {object} ErrorResponse
// @Router       /api/v1/slides/{id}/quiz [put]
func (h *PresentationHandler) SetQuiz(c *gin.Context) {
	var req QuizRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	slide, err := h.presentations.SetSlideQuiz(c.Param("id"), models.QuizSettings{
		Question:      req.Question,
		Options:       req.Options,
		CorrectAnswer: req.CorrectAnswer,
	})
	if err != nil {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, slide)
}

// SetPoll godoc
// @Summary      Configure a poll on a slide
// @Tags         slides
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Slide ID"
// @Param        request body PollRequest true "Poll settings"
// @Success      200 {object} Slide
// @Failure      404 {object} ErrorResponse
// @Router       /api/v1/slides/{id}/poll [put]
func (h *PresentationHandler) SetPoll(c *gin.Context) {
	var req PollRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	slide, err := h.presentations.SetSlidePoll(c.Param("id"), models.PollSettings{
		Question: req.Question,
		Options:  req.Options,
	})
	if err != nil {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, slide)
}

// SetWordCloud godoc
// @Summary      Configure a word cloud on a slide
// @Tags         slides
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Slide ID"
// @Param        request body WordCloudRequest true "Word cloud settings"
// @Success      200 {object} Slide
// @Failure      404 {object} ErrorResponse
// @Router       /api/v1/slides/{id}/wordcloud [put]
func (h *PresentationHandler) SetWordCloud(c *gin.Context) {
	var req WordCloudRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	slide, err := h.presentations.SetSlideWordCloud(c.Param("id"), models.WordCloudSettings{
		Question: req.Question,
	})
	if err != nil {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, slide)
}

// SetBubbleQuiz godoc
// @Summary      Configure a bubble quiz on a slide
// @Tags         slides
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Slide ID"
// @Param        request body BubbleQuizRequest true "Bubble quiz settings"
// @Success      200 {object} Slide
// @Failure      404 {object} ErrorResponse
// @Router       /api/v1/slides/{id}/bubble-quiz [put]
func (h *PresentationHandler) SetBubbleQuiz(c *gin.Context) {
	var req BubbleQuizRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	settings := models.BubbleQuizSettings{
		Question: req.Question,
		ImageURL: req.ImageURL,
	}
	for _, area := range req.Areas {
		settings.Areas = append(settings.Areas, models.BubbleArea{
			X:      area.X,
			Y:      area.Y,
			Radius: area.Radius,
		})
	}

	slide, err := h.presentations.SetSlideBubbleQuiz(c.Param("id"), settings)
	if err != nil {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, slide)
}

// ClearActivity godoc
// @Summary      Remove the activity from a slide
// @Tags         slides
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Slide ID"
// @Success      200 {object} Slide
// @Failure      404 {object} ErrorResponse
// @Router       /api/v1/slides/{id}/activity [delete]
func (h *PresentationHandler) ClearActivity(c *gin.Context) {
	slide, err := h.presentations.ClearSlideActivity(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, slide)
}

// CreateSession godoc
// @Summary      Start a live session for a presentation
// @Tags         presentations
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Presentation ID"
// @Success      201 {object} Session
// @Failure      404 {object} ErrorResponse
// @Router       /api/v1/presentations/{id}/sessions [post]
func (h *PresentationHandler) CreateSession(c *gin.Context) {
	presentation, err := h.presentations.GetByID(c.Param("id"), c.GetString("user_id"))
	if err != nil {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})
		return
	}

	session, err := h.sessions.Create(presentation.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusCreated, session)
}
