package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"wanderplan/internal/modules/booking"
	"wanderplan/internal/modules/planner"
	"wanderplan/internal/types"
)

// ConfirmationMessage is shown once the booking form validates.
const ConfirmationMessage = "Your trip is booked. A confirmation email has been sent with all the details."

type BookingHandler struct {
	planner *planner.Service
	log     *zap.Logger
}

func NewBookingHandler(svc *planner.Service, log *zap.Logger) *BookingHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &BookingHandler{planner: svc, log: log}
}

type bookingReq struct {
	Travellers []types.Traveller `json:"travellers"`
}

type bookingResp struct {
	Confirmed  bool              `json:"confirmed"`
	Travellers int               `json:"travellers"`
	Message    string            `json:"message,omitempty"`
	Errors     map[string]string `json:"errors,omitempty"`
}

// Submit handles POST /api/sessions/:id/booking. The form is validated and
// discarded; nothing is stored or forwarded.
func (h *BookingHandler) Submit(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}
	var req bookingReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	if len(req.Travellers) > booking.MaxTravellers {
		writeError(c, http.StatusBadRequest, "at most 10 travellers per booking")
		return
	}

	sess, err := h.planner.Get(c.Request.Context(), id)
	if err != nil {
		writeSessionError(c, err)
		return
	}
	if sess.State != planner.StateSuccess {
		writeSessionError(c, planner.ErrNoItinerary)
		return
	}

	form := booking.NewForm(h.planner.Now())
	form.Load(req.Travellers)
	errs := form.Submit()
	if !form.Confirmed() {
		writeJSON(c, http.StatusUnprocessableEntity, bookingResp{Travellers: form.Count(), Errors: errs})
		return
	}

	h.log.Info("booking confirmed", zap.String("session", id), zap.Int("travellers", form.Count()))
	writeJSON(c, http.StatusOK, bookingResp{Confirmed: true, Travellers: form.Count(), Message: ConfirmationMessage})
}
