// README: Three-step preference wizard (where & when, style, interests).
package preference

import (
	"slices"
	"strconv"
	"strings"
	"time"

	"wanderplan/internal/types"
)

// Wizard holds one mutable preferences draft and the current step.
// It is not safe for concurrent use.
type Wizard struct {
	step  int
	draft types.Preferences
	today time.Time
}

func NewWizard(today time.Time) *Wizard {
	y, m, d := today.Date()
	day := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &Wizard{step: FirstStep, draft: Defaults(day), today: day}
}

func (w *Wizard) Step() int { return w.step }

// Next advances one step, stopping at the last one.
func (w *Wizard) Next() int {
	w.step = min(w.step+1, LastStep)
	return w.step
}

// Back returns one step, stopping at the first one.
func (w *Wizard) Back() int {
	w.step = max(w.step-1, FirstStep)
	return w.step
}

// Draft returns a copy of the current draft.
func (w *Wizard) Draft() types.Preferences { return w.draft.Clone() }

func (w *Wizard) SetDestination(v string) {
	w.draft.Destination = strings.TrimSpace(v)
}

// SetStartDate rejects dates before today. An end date that would now precede
// the start is moved to the start date.
func (w *Wizard) SetStartDate(v string) error {
	start, err := time.Parse(types.DateLayout, v)
	if err != nil {
		return ErrInvalidDate
	}
	if start.Before(w.today) {
		return ErrStartInPast
	}
	w.draft.StartDate = v
	if end, err := time.Parse(types.DateLayout, w.draft.EndDate); err == nil && end.Before(start) {
		w.draft.EndDate = v
	}
	return nil
}

// SetEndDate rejects dates before the current start date.
func (w *Wizard) SetEndDate(v string) error {
	end, err := time.Parse(types.DateLayout, v)
	if err != nil {
		return ErrInvalidDate
	}
	if start, err := time.Parse(types.DateLayout, w.draft.StartDate); err == nil && end.Before(start) {
		return ErrDateRange
	}
	w.draft.EndDate = v
	return nil
}

func (w *Wizard) SetBudget(v string) error {
	v = strings.TrimSpace(v)
	n, err := strconv.ParseFloat(v, 64)
	if err != nil || n < MinBudget {
		return ErrInvalidBudget
	}
	w.draft.Budget = v
	return nil
}

func (w *Wizard) SetPace(p types.Pace) error {
	if !p.Valid() {
		return ErrInvalidPace
	}
	w.draft.Pace = p
	return nil
}

// ToggleInterest adds the tag if absent, removes it otherwise, and reports whether it is now selected.
func (w *Wizard) ToggleInterest(tag string) (bool, error) {
	tag = strings.TrimSpace(tag)
	if tag == "" {
		return false, ErrEmptyInterest
	}
	if i := slices.Index(w.draft.Interests, tag); i >= 0 {
		w.draft.Interests = slices.Delete(w.draft.Interests, i, i+1)
		return false, nil
	}
	w.draft.Interests = append(w.draft.Interests, tag)
	return true, nil
}

// Submit hands back the completed preferences. The draft is kept so the user can go back and edit it.
func (w *Wizard) Submit() (types.Preferences, error) {
	if w.step != LastStep {
		return types.Preferences{}, ErrNotFinalStep
	}
	if len(w.draft.Interests) == 0 {
		return types.Preferences{}, ErrNoInterests
	}
	return w.draft.Clone(), nil
}
