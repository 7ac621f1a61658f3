package itinerary

import (
	"fmt"
	"math"

	"wanderplan/internal/types"
)

// costTolerance is the relative difference accepted between totals.
const costTolerance = 0.01

// Audit reports arithmetic and date inconsistencies in a generated itinerary.
// It never rejects an itinerary.
type Audit struct {
	ActivityTotal  float64  `json:"activityTotal"`
	BreakdownTotal float64  `json:"breakdownTotal"`
	RequestedDays  int      `json:"requestedDays"`
	Warnings       []string `json:"warnings,omitempty"`
}

func (a Audit) OK() bool { return len(a.Warnings) == 0 }

func Check(it *types.Itinerary, prefs types.Preferences) Audit {
	a := Audit{RequestedDays: prefs.Days()}
	for _, d := range it.DailyPlan {
		a.ActivityTotal += d.ActivityCost()
	}
	for _, c := range it.CostBreakdown {
		a.BreakdownTotal += c.Amount
	}

	if !withinTolerance(a.ActivityTotal, it.TotalCost) {
		a.Warnings = append(a.Warnings, fmt.Sprintf("activity costs sum to %s, total is %s",
			types.FormatUSD(a.ActivityTotal), types.FormatUSD(it.TotalCost)))
	}
	if !withinTolerance(a.BreakdownTotal, it.TotalCost) {
		a.Warnings = append(a.Warnings, fmt.Sprintf("cost breakdown sums to %s, total is %s",
			types.FormatUSD(a.BreakdownTotal), types.FormatUSD(it.TotalCost)))
	}
	if a.RequestedDays > 0 && len(it.DailyPlan) != a.RequestedDays {
		a.Warnings = append(a.Warnings, fmt.Sprintf("plan has %d days, %d requested", len(it.DailyPlan), a.RequestedDays))
	}
	return a
}

func withinTolerance(got, want float64) bool {
	diff := math.Abs(got - want)
	if want == 0 {
		return diff == 0
	}
	return diff/math.Abs(want) <= costTolerance
}
