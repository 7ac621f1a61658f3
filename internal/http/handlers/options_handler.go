package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"wanderplan/internal/modules/booking"
	"wanderplan/internal/modules/planner"
	"wanderplan/internal/modules/preference"
)

type OptionsHandler struct {
	planner *planner.Service
	log     *zap.Logger
}

func NewOptionsHandler(svc *planner.Service, log *zap.Logger) *OptionsHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &OptionsHandler{planner: svc, log: log}
}

// optionsResponse omits generationsRemaining when no quota is configured.
type optionsResponse struct {
	preference.Options
	Genders              []string `json:"genders"`
	MaxTravellers        int      `json:"maxTravellers"`
	GenerationsRemaining *int     `json:"generationsRemaining,omitempty"`
}

// Get handles GET /api/options.
func (h *OptionsHandler) Get(c *gin.Context) {
	resp := optionsResponse{
		Options:       preference.FormOptions(h.planner.Now()),
		Genders:       booking.Genders,
		MaxTravellers: booking.MaxTravellers,
	}
	remaining, ok, err := h.planner.Remaining(c.Request.Context(), c.ClientIP())
	if err != nil {
		h.log.Warn("failed to read generation quota", zap.Error(err))
	} else if ok {
		resp.GenerationsRemaining = &remaining
	}
	writeJSON(c, http.StatusOK, resp)
}
