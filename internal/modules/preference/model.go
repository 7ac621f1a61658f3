// README: Preference capture rules, defaults and the interest catalogue.
package preference

import (
	"errors"
	"strings"
	"time"

	"wanderplan/internal/types"
)

var (
	ErrNoInterests   = errors.New("Please select at least one interest.")
	ErrInvalidDate   = errors.New("dates must use the YYYY-MM-DD format")
	ErrDateRange     = errors.New("end date cannot be before the start date")
	ErrStartInPast   = errors.New("start date cannot be before today")
	ErrInvalidBudget = errors.New("budget must be a number of at least 100")
	ErrInvalidPace   = errors.New("pace must be relaxed, moderate or packed")
	ErrNotFinalStep  = errors.New("preferences can only be submitted from the last step")
	ErrEmptyInterest = errors.New("interest cannot be empty")
)

const (
	FirstStep = 1
	LastStep  = 3

	DefaultBudget = "1000"
	MinBudget     = 100
	// DefaultTripDays is the offset of the default end date from today.
	DefaultTripDays = 7
)

// InterestOptions is the catalogue offered by the form.
var InterestOptions = []string{
	"Adventure", "Culture", "Nightlife", "Wellness", "Shopping", "Family-Friendly", "Foodie", "History", "Nature",
}

// Options describes the form so a client can render it.
type Options struct {
	Interests []string          `json:"interests"`
	Paces     []types.Pace      `json:"paces"`
	Defaults  types.Preferences `json:"defaults"`
	MinBudget int               `json:"minBudget"`
	MinStart  string            `json:"minStartDate"`
}

// Defaults returns the initial draft for a form opened on today.
func Defaults(today time.Time) types.Preferences {
	return types.Preferences{
		Budget:    DefaultBudget,
		StartDate: today.Format(types.DateLayout),
		EndDate:   today.AddDate(0, 0, DefaultTripDays).Format(types.DateLayout),
		Interests: []string{},
		Pace:      types.PaceModerate,
	}
}

func FormOptions(today time.Time) Options {
	return Options{
		Interests: append([]string(nil), InterestOptions...),
		Paces:     append([]types.Pace(nil), types.Paces...),
		Defaults:  Defaults(today),
		MinBudget: MinBudget,
		MinStart:  today.Format(types.DateLayout),
	}
}

// Validate is the submission check. Date floors and budget bounds are input-level
// constraints owned by the Wizard and are not re-checked here.
func Validate(p types.Preferences) error {
	if len(p.Interests) == 0 {
		return ErrNoInterests
	}
	for _, tag := range p.Interests {
		if strings.TrimSpace(tag) == "" {
			return ErrEmptyInterest
		}
	}
	start, end, err := p.Dates()
	if err != nil {
		return ErrInvalidDate
	}
	if end.Before(start) {
		return ErrDateRange
	}
	if !p.Pace.Valid() {
		return ErrInvalidPace
	}
	return nil
}
