// README: Session handlers: create, read, submit preferences, start over, accordion, PDF.
package handlers

import (
	"bytes"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"wanderplan/internal/modules/itinerary"
	"wanderplan/internal/modules/planner"
	"wanderplan/internal/types"
)

type SessionHandler struct {
	planner *planner.Service
	mapsKey string
	log     *zap.Logger
}

func NewSessionHandler(svc *planner.Service, mapsKey string, log *zap.Logger) *SessionHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &SessionHandler{planner: svc, mapsKey: mapsKey, log: log}
}

func (h *SessionHandler) snapshot(s *planner.Session) planner.Snapshot {
	return s.Snapshot(h.planner.Now(), h.mapsKey)
}

// Create handles POST /api/sessions.
func (h *SessionHandler) Create(c *gin.Context) {
	sess, err := h.planner.CreateSession(c.Request.Context())
	if err != nil {
		writeSessionError(c, err)
		return
	}
	writeJSON(c, http.StatusCreated, h.snapshot(sess))
}

// Get handles GET /api/sessions/:id.
func (h *SessionHandler) Get(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}
	sess, err := h.planner.Get(c.Request.Context(), id)
	if err != nil {
		writeSessionError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, h.snapshot(sess))
}

// Submit handles POST /api/sessions/:id/itinerary.
func (h *SessionHandler) Submit(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}
	var prefs types.Preferences
	if err := c.ShouldBindJSON(&prefs); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	prefs.Destination = strings.TrimSpace(prefs.Destination)
	if prefs.Pace == "" {
		prefs.Pace = types.PaceModerate
	}

	sess, err := h.planner.Submit(c.Request.Context(), id, c.ClientIP(), prefs)
	if err != nil {
		writeSessionError(c, err)
		return
	}
	writeJSON(c, http.StatusAccepted, h.snapshot(sess))
}

// Reset handles POST /api/sessions/:id/reset.
func (h *SessionHandler) Reset(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}
	sess, err := h.planner.StartOver(c.Request.Context(), id)
	if err != nil {
		writeSessionError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, h.snapshot(sess))
}

// ToggleDay handles POST /api/sessions/:id/days/:day/toggle.
func (h *SessionHandler) ToggleDay(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}
	day, err := strconv.Atoi(c.Param("day"))
	if err != nil || day < 1 {
		writeError(c, http.StatusBadRequest, "invalid day")
		return
	}
	sess, err := h.planner.ToggleDay(c.Request.Context(), id, day)
	if err != nil {
		writeSessionError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, h.snapshot(sess))
}

// PDF handles GET /api/sessions/:id/itinerary.pdf.
func (h *SessionHandler) PDF(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}
	sess, err := h.planner.Get(c.Request.Context(), id)
	if err != nil {
		writeSessionError(c, err)
		return
	}
	if sess.State != planner.StateSuccess || sess.Itinerary == nil || sess.Preferences == nil {
		writeSessionError(c, planner.ErrNoItinerary)
		return
	}

	v := itinerary.NewView(sess.Itinerary, *sess.Preferences, sess.Accordion.Open, h.mapsKey)
	var buf bytes.Buffer
	if err := itinerary.RenderPDF(&buf, v); err != nil {
		h.log.Error("render pdf", zap.String("session", id), zap.Error(err))
		writeError(c, http.StatusInternalServerError, "Failed to generate PDF")
		return
	}
	c.Header("Content-Disposition", "attachment; filename=itinerary-"+id+".pdf")
	c.Data(http.StatusOK, "application/pdf", buf.Bytes())
}
