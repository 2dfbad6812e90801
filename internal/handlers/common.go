package handlers

import "github.com/zwinkle/eduslide/internal/models"

type ErrorResponse struct {
	Error string `json:"error" example:"something went wrong"`
}

type MessageResponse struct {
	Message string `json:"message" example:"operation successful"`
}

// Type aliases so swag can resolve models in annotations.
type Presentation = models.Presentation
type Slide = models.Slide
type Session = models.Session
