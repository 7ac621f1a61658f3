// README: Per-session controller state machine (idle -> submitting -> success | failed).
package planner

import (
	"errors"
	"time"

	"wanderplan/internal/ai"
	"wanderplan/internal/modules/itinerary"
	"wanderplan/internal/modules/preference"
	"wanderplan/internal/types"
)

type State string

const (
	StateIdle       State = "idle"
	StateSubmitting State = "submitting"
	StateSuccess    State = "success"
	StateFailed     State = "failed"
)

// AllowedTransitions is the controller flow as code. Submitting -> Idle is
// start-over during a request.
var AllowedTransitions = map[State][]State{
	StateIdle:       {StateSubmitting},
	StateSubmitting: {StateSuccess, StateFailed, StateIdle},
	StateSuccess:    {StateIdle},
	StateFailed:     {StateIdle},
}

func CanTransition(from, to State) bool {
	next, ok := AllowedTransitions[from]
	if !ok {
		return false
	}
	for _, s := range next {
		if s == to {
			return true
		}
	}
	return false
}

var (
	ErrNotFound    = errors.New("session not found")
	ErrNotIdle     = errors.New("a trip is already being planned for this session")
	ErrNoItinerary = errors.New("session has no itinerary")
	ErrUnknownDay  = errors.New("itinerary has no such day")
	ErrStale       = errors.New("result belongs to a previous attempt")
)

// FailureMessage is what the end user sees for every generation failure.
const FailureMessage = "Failed to generate itinerary. The model may be unavailable or the request timed out. Please try again later."

// LoadingMessages rotate while a request is in flight.
var LoadingMessages = []string{
	"Crafting your perfect journey...",
	"Consulting the travel globes...",
	"Packing your virtual bags...",
	"Charting the best routes...",
	"Finding hidden gems...",
}

// LoadingInterval is how long each loading message is shown.
const LoadingInterval = 3 * time.Second

// Session is one controller. Pointer fields are replaced, never mutated in place.
type Session struct {
	ID          string              `json:"id"`
	State       State               `json:"state"`
	Attempt     int                 `json:"attempt"`
	Version     int64               `json:"version"`
	Preferences *types.Preferences  `json:"preferences,omitempty"`
	Itinerary   *types.Itinerary    `json:"itinerary,omitempty"`
	Place       *types.Destination  `json:"place,omitempty"`
	Error       string              `json:"error,omitempty"`
	FailureKind ai.FailureKind      `json:"failureKind,omitempty"`
	Accordion   itinerary.Accordion `json:"accordion"`
	SubmittedAt time.Time           `json:"submittedAt,omitempty"`
	UpdatedAt   time.Time           `json:"updatedAt"`
}

func NewSession(id string, now time.Time) *Session {
	return &Session{ID: id, State: StateIdle, UpdatedAt: now}
}

// Submit validates prefs and starts a new attempt. Invalid preferences
// leave the session untouched.
func (s *Session) Submit(prefs types.Preferences, now time.Time) error {
	if !CanTransition(s.State, StateSubmitting) {
		return ErrNotIdle
	}
	if err := preference.Validate(prefs); err != nil {
		return err
	}
	p := prefs.Clone()
	s.Attempt++
	s.State = StateSubmitting
	s.Preferences = &p
	s.Itinerary = nil
	s.Place = nil
	s.Error = ""
	s.FailureKind = ""
	s.SubmittedAt = now
	return nil
}

func (s *Session) accepts(attempt int) bool {
	return s.State == StateSubmitting && attempt == s.Attempt
}

// Complete records the itinerary of attempt.
func (s *Session) Complete(attempt int, it *types.Itinerary) error {
	if !s.accepts(attempt) {
		return ErrStale
	}
	s.State = StateSuccess
	s.Itinerary = it
	s.Accordion = itinerary.NewAccordion()
	return nil
}

// Fail records a generation failure of attempt.
func (s *Session) Fail(attempt int, kind ai.FailureKind) error {
	if !s.accepts(attempt) {
		return ErrStale
	}
	s.State = StateFailed
	s.Error = FailureMessage
	s.FailureKind = kind
	return nil
}

// Enrich attaches destination details to a successful attempt.
func (s *Session) Enrich(attempt int, place *types.Destination) error {
	if s.State != StateSuccess || attempt != s.Attempt {
		return ErrStale
	}
	s.Place = place
	return nil
}

// Abandon returns a submitting attempt to idle before any request was made.
func (s *Session) Abandon(attempt int) error {
	if !s.accepts(attempt) {
		return ErrStale
	}
	s.StartOver()
	return nil
}

// StartOver clears preferences, itinerary and error together. Any in-flight
// attempt becomes stale.
func (s *Session) StartOver() {
	if s.State != StateIdle {
		s.Attempt++
	}
	s.State = StateIdle
	s.Preferences = nil
	s.Itinerary = nil
	s.Place = nil
	s.Error = ""
	s.FailureKind = ""
	s.Accordion = itinerary.Accordion{}
	s.SubmittedAt = time.Time{}
}

func (s *Session) ToggleDay(day int) error {
	if s.State != StateSuccess || s.Itinerary == nil {
		return ErrNoItinerary
	}
	if _, ok := s.Itinerary.Day(day); !ok {
		return ErrUnknownDay
	}
	s.Accordion.Toggle(day)
	return nil
}

// LoadingMessage is the message to show at now, or "" when not submitting.
func (s *Session) LoadingMessage(now time.Time) string {
	if s.State != StateSubmitting {
		return ""
	}
	elapsed := now.Sub(s.SubmittedAt)
	if elapsed < 0 {
		elapsed = 0
	}
	return LoadingMessages[int(elapsed/LoadingInterval)%len(LoadingMessages)]
}

// Snapshot is the client-facing view of a session.
type Snapshot struct {
	ID             string             `json:"id"`
	State          State              `json:"state"`
	Attempt        int                `json:"attempt"`
	Version        int64              `json:"version"`
	LoadingMessage string             `json:"loadingMessage,omitempty"`
	Preferences    *types.Preferences `json:"preferences,omitempty"`
	Itinerary      *itinerary.View    `json:"itinerary,omitempty"`
	Error          string             `json:"error,omitempty"`
	FailureKind    ai.FailureKind     `json:"failureKind,omitempty"`
}

func (s *Session) Snapshot(now time.Time, mapsKey string) Snapshot {
	out := Snapshot{
		ID:             s.ID,
		State:          s.State,
		Attempt:        s.Attempt,
		Version:        s.Version,
		LoadingMessage: s.LoadingMessage(now),
		Preferences:    s.Preferences,
		Error:          s.Error,
		FailureKind:    s.FailureKind,
	}
	if s.State == StateSuccess && s.Itinerary != nil && s.Preferences != nil {
		v := itinerary.NewView(s.Itinerary, *s.Preferences, s.Accordion.Open, mapsKey)
		v.Place = s.Place
		out.Itinerary = &v
	}
	return out
}
