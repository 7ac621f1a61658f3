// README: Presentation model for a generated itinerary (summary, days, cost chart, map).
package itinerary

import (
	"fmt"
	"math"

	"wanderplan/internal/maps"
	"wanderplan/internal/types"
)

// Palette is the cost chart colour cycle.
var Palette = []string{"#0088FE", "#00C49F", "#FFBB28", "#FF8042", "#8884d8", "#ff4d4d"}

type CostSlice struct {
	Category string  `json:"category"`
	Amount   float64 `json:"amount"`
	Label    string  `json:"label"`
	Percent  int     `json:"percent"`
	Color    string  `json:"color"`
}

type ActivityView struct {
	Time        string             `json:"time"`
	Description string             `json:"description"`
	Type        types.ActivityType `json:"type"`
	Cost        string             `json:"cost"`
}

type DayView struct {
	Day        int            `json:"day"`
	Date       string         `json:"date"`
	Theme      string         `json:"theme"`
	Open       bool           `json:"open"`
	Activities []ActivityView `json:"activities"`
}

type View struct {
	Title       string             `json:"title"`
	Destination string             `json:"destination"`
	Duration    string             `json:"duration"`
	Total       string             `json:"total"`
	Days        []DayView          `json:"days"`
	Costs       []CostSlice        `json:"costs"`
	MapEmbedURL string             `json:"mapEmbedUrl"`
	MapLinkURL  string             `json:"mapLinkUrl"`
	Place       *types.Destination `json:"place,omitempty"`
	Audit       Audit              `json:"audit"`
}

// NewView builds the presentation of it for the preferences that produced it.
// openDay is the expanded day number, 0 for none.
func NewView(it *types.Itinerary, prefs types.Preferences, openDay int, mapsKey string) View {
	v := View{
		Title:       it.TripTitle,
		Destination: it.Destination,
		Duration:    fmt.Sprintf("%s (%s to %s)", it.Duration, prefs.StartDate, prefs.EndDate),
		Total:       "Est. Total: " + types.FormatUSD(it.TotalCost),
		Costs:       CostSlices(it.CostBreakdown),
		MapEmbedURL: maps.EmbedURL(mapsKey, it.Destination),
		MapLinkURL:  maps.SearchURL(it.Destination),
		Audit:       Check(it, prefs),
	}
	for _, d := range it.DailyPlan {
		dv := DayView{Day: d.Day, Date: d.Date, Theme: d.Theme, Open: d.Day == openDay}
		for _, a := range d.Activities {
			dv.Activities = append(dv.Activities, ActivityView{
				Time:        a.Time,
				Description: a.Description,
				Type:        a.Type,
				Cost:        "Est. Cost: " + types.FormatUSD(a.Cost),
			})
		}
		v.Days = append(v.Days, dv)
	}
	return v
}

// CostSlices turns the breakdown into one chart slice per category.
func CostSlices(items []types.CostItem) []CostSlice {
	var sum float64
	for _, c := range items {
		sum += c.Amount
	}
	out := make([]CostSlice, 0, len(items))
	for i, c := range items {
		pct := 0
		if sum > 0 {
			pct = int(math.Round(c.Amount / sum * 100))
		}
		out = append(out, CostSlice{
			Category: c.Category,
			Amount:   c.Amount,
			Label:    fmt.Sprintf("%s %d%%", c.Category, pct),
			Percent:  pct,
			Color:    Palette[i%len(Palette)],
		})
	}
	return out
}
