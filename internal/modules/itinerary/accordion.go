package itinerary

// FirstDay is expanded when an itinerary is first shown.
const FirstDay = 1

// Accordion tracks which day section is expanded. At most one is open.
type Accordion struct {
	Open int `json:"open"`
}

func NewAccordion() Accordion {
	return Accordion{Open: FirstDay}
}

// Toggle opens day, or closes it when it is already open.
func (a *Accordion) Toggle(day int) {
	if a.Open == day {
		a.Open = 0
		return
	}
	a.Open = day
}

func (a Accordion) IsOpen(day int) bool {
	return day != 0 && a.Open == day
}
