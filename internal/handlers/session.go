package handlers

import (
	"fmt"
	"net/http"

	"github.com/zwinkle/eduslide/internal/services"

	"github.com/gin-gonic/gin"
	qrcode "github.com/skip2/go-qrcode"
)

type SessionHandler struct {
	sessions *services.SessionService
	scores   *services.ScoreService
	joinURL  string
}

// NewSessionHandler wires the session lookup surface. joinURL is the frontend
// page students land on after scanning the QR code.
func NewSessionHandler(sessions *services.SessionService, scores *services.ScoreService, joinURL string) *SessionHandler {
	return &SessionHandler{sessions: sessions, scores: scores, joinURL: joinURL}
}

// Validate godoc
// @Summary      Validate a session code
// @Tags         sessions
// @Produce      json
// @Param        code path string true "Session code"
// @Success      200 {object} Session
// @Failure      404 {object} ErrorResponse
// @Router       /api/v1/sessions/{code} [get]
func (h *SessionHandler) Validate(c *gin.Context) {
	session, err := h.sessions.GetByCode(c.Param("code"))
	if err != nil {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, session)
}

// Leaderboard godoc
// @Summary      Current leaderboard for a session
// @Tags         sessions
// @Produce      json
// @Param        code path string true "Session code"
// @Success      200 {array} services.LeaderboardEntry
// @Failure      404 {object} ErrorResponse
// @Router       /api/v1/sessions/{code}/leaderboard [get]
func (h *SessionHandler) Leaderboard(c *gin.Context) {
	session, err := h.sessions.GetByCode(c.Param("code"))
	if err != nil {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})
		return
	}

	entries, err := h.scores.Leaderboard(session.ID, 0)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, entries)
}

// QRCode godoc
// @Summary      QR code pointing students at the join page
// @Tags         sessions
// @Produce      png
// @Param        code path string true "Session code"
// @Success      200 {string} binary "PNG image"
// @Failure      404 {object} ErrorResponse
// @Router       /api/v1/sessions/{code}/qr [get]
func (h *SessionHandler) QRCode(c *gin.Context) {
	session, err := h.sessions.GetByCode(c.Param("code"))
	if err != nil {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})
		return
	}

	png, err := qrcode.Encode(fmt.Sprintf("%s/%s", h.joinURL, session.Code), qrcode.Medium, 256)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}
	c.Data(http.StatusOK, "image/png", png)
}
