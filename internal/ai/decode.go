package ai

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"wanderplan/internal/types"
)

// Wire shapes use pointers so that absent fields can be told apart from zero values.
type wireItinerary struct {
	TripTitle     *string     `json:"tripTitle"`
	Destination   *string     `json:"destination"`
	Duration      *string     `json:"duration"`
	TotalCost     *float64    `json:"totalCost"`
	DailyPlan     *[]wireDay  `json:"dailyPlan"`
	CostBreakdown *[]wireCost `json:"costBreakdown"`
}

type wireDay struct {
	Day        *int            `json:"day"`
	Date       *string         `json:"date"`
	Theme      *string         `json:"theme"`
	Activities *[]wireActivity `json:"activities"`
}

type wireActivity struct {
	Time        *string  `json:"time"`
	Description *string  `json:"description"`
	Type        *string  `json:"type"`
	Cost        *float64 `json:"cost"`
}

type wireCost struct {
	Category *string  `json:"category"`
	Amount   *float64 `json:"amount"`
}

// DecodeItinerary parses model output and validates it field by field.
// Syntax errors yield ErrMalformedResponse; type mismatches and contract
// violations yield a *ValidationError.
func DecodeItinerary(text string) (*types.Itinerary, error) {
	clean := cleanJSONString(text)
	if clean == "" {
		return nil, fmt.Errorf("%w: empty response text", ErrMalformedResponse)
	}

	var w wireItinerary
	if err := json.Unmarshal([]byte(clean), &w); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return nil, &ValidationError{Problems: []string{
				fmt.Sprintf("%s: expected %s, got %s", typeErr.Field, typeErr.Type, typeErr.Value),
			}}
		}
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	v := &validator{}
	it := v.itinerary(w)
	if len(v.problems) > 0 {
		return nil, &ValidationError{Problems: v.problems}
	}
	return it, nil
}

type validator struct {
	problems []string
}

func (v *validator) addf(format string, args ...any) {
	v.problems = append(v.problems, fmt.Sprintf(format, args...))
}

func (v *validator) str(path string, s *string) string {
	if s == nil {
		v.addf("%s: missing", path)
		return ""
	}
	if strings.TrimSpace(*s) == "" {
		v.addf("%s: empty", path)
	}
	return *s
}

func (v *validator) amount(path string, f *float64) float64 {
	if f == nil {
		v.addf("%s: missing", path)
		return 0
	}
	if *f < 0 {
		v.addf("%s: negative amount %v", path, *f)
	}
	return *f
}

func (v *validator) itinerary(w wireItinerary) *types.Itinerary {
	it := &types.Itinerary{
		TripTitle:   v.str("tripTitle", w.TripTitle),
		Destination: v.str("destination", w.Destination),
		Duration:    v.str("duration", w.Duration),
		TotalCost:   v.amount("totalCost", w.TotalCost),
	}

	switch {
	case w.DailyPlan == nil:
		v.addf("dailyPlan: missing")
	case len(*w.DailyPlan) == 0:
		v.addf("dailyPlan: empty")
	default:
		for i, d := range *w.DailyPlan {
			it.DailyPlan = append(it.DailyPlan, v.day(i, d))
		}
	}

	switch {
	case w.CostBreakdown == nil:
		v.addf("costBreakdown: missing")
	case len(*w.CostBreakdown) == 0:
		v.addf("costBreakdown: empty")
	default:
		for i, c := range *w.CostBreakdown {
			path := fmt.Sprintf("costBreakdown[%d]", i)
			it.CostBreakdown = append(it.CostBreakdown, types.CostItem{
				Category: v.str(path+".category", c.Category),
				Amount:   v.amount(path+".amount", c.Amount),
			})
		}
	}
	return it
}

func (v *validator) day(i int, d wireDay) types.DayPlan {
	path := fmt.Sprintf("dailyPlan[%d]", i)
	out := types.DayPlan{
		Date:  v.str(path+".date", d.Date),
		Theme: v.str(path+".theme", d.Theme),
	}

	// Days must be numbered 1..n in order.
	switch {
	case d.Day == nil:
		v.addf("%s.day: missing", path)
	case *d.Day != i+1:
		v.addf("%s.day: expected %d, got %d", path, i+1, *d.Day)
	}
	if d.Day != nil {
		out.Day = *d.Day
	}

	switch {
	case d.Activities == nil:
		v.addf("%s.activities: missing", path)
	case len(*d.Activities) == 0:
		v.addf("%s.activities: empty", path)
	default:
		for j, a := range *d.Activities {
			out.Activities = append(out.Activities, v.activity(fmt.Sprintf("%s.activities[%d]", path, j), a))
		}
	}
	return out
}

func (v *validator) activity(path string, a wireActivity) types.Activity {
	out := types.Activity{
		Time:        v.str(path+".time", a.Time),
		Description: v.str(path+".description", a.Description),
		Cost:        v.amount(path+".cost", a.Cost),
	}
	if a.Type == nil {
		v.addf("%s.type: missing", path)
		return out
	}
	t := types.ActivityType(strings.TrimSpace(*a.Type))
	if !t.Valid() {
		v.addf("%s.type: unknown activity type %q", path, *a.Type)
	}
	out.Type = t
	return out
}

// cleanJSONString removes markdown code fences if present (e.g. ```json ... ```).
func cleanJSONString(input string) string {
	input = strings.TrimSpace(input)
	input = strings.TrimPrefix(input, "```json")
	input = strings.TrimPrefix(input, "```")
	input = strings.TrimSuffix(input, "```")
	return strings.TrimSpace(input)
}
