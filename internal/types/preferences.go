// README: Trip preferences captured from the user before generation.
package types

import "time"

// DateLayout is the calendar date format used by every date field.
const DateLayout = "2006-01-02"

type Pace string

const (
	PaceRelaxed  Pace = "relaxed"
	PaceModerate Pace = "moderate"
	PacePacked   Pace = "packed"
)

// Paces lists the accepted pace values in display order.
var Paces = []Pace{PaceRelaxed, PaceModerate, PacePacked}

func (p Pace) Valid() bool {
	switch p {
	case PaceRelaxed, PaceModerate, PacePacked:
		return true
	}
	return false
}

type Preferences struct {
	Destination string   `json:"destination"`
	Budget      string   `json:"budget"`
	StartDate   string   `json:"startDate"`
	EndDate     string   `json:"endDate"`
	Interests   []string `json:"interests"`
	Pace        Pace     `json:"pace"`
}

// Clone returns a copy that shares no slices with p.
func (p Preferences) Clone() Preferences {
	out := p
	out.Interests = append([]string(nil), p.Interests...)
	return out
}

// Dates parses the start and end dates.
func (p Preferences) Dates() (start, end time.Time, err error) {
	start, err = time.Parse(DateLayout, p.StartDate)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	end, err = time.Parse(DateLayout, p.EndDate)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return start, end, nil
}

// Days is the inclusive number of calendar days between start and end, or 0 if the dates do not parse.
func (p Preferences) Days() int {
	start, end, err := p.Dates()
	if err != nil || end.Before(start) {
		return 0
	}
	return int(end.Sub(start).Hours()/24) + 1
}
