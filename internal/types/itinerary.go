// README: Itinerary records returned by the generation client.
package types

type ActivityType string

const (
	ActivityDining        ActivityType = "Dining"
	ActivityActivity      ActivityType = "Activity"
	ActivityTravel        ActivityType = "Travel"
	ActivityAccommodation ActivityType = "Accommodation"
	ActivityOther         ActivityType = "Other"
)

// ActivityTypes lists every accepted activity type.
var ActivityTypes = []ActivityType{ActivityDining, ActivityActivity, ActivityTravel, ActivityAccommodation, ActivityOther}

func (t ActivityType) Valid() bool {
	for _, v := range ActivityTypes {
		if v == t {
			return true
		}
	}
	return false
}

type Activity struct {
	Time        string       `json:"time"`
	Description string       `json:"description"`
	Type        ActivityType `json:"type"`
	Cost        float64      `json:"cost"`
}

type DayPlan struct {
	Day        int        `json:"day"`
	Date       string     `json:"date"`
	Theme      string     `json:"theme"`
	Activities []Activity `json:"activities"`
}

// ActivityCost sums the cost of every activity of the day.
func (d DayPlan) ActivityCost() float64 {
	var total float64
	for _, a := range d.Activities {
		total += a.Cost
	}
	return total
}

type CostItem struct {
	Category string  `json:"category"`
	Amount   float64 `json:"amount"`
}

type Itinerary struct {
	TripTitle     string     `json:"tripTitle"`
	Destination   string     `json:"destination"`
	Duration      string     `json:"duration"`
	TotalCost     float64    `json:"totalCost"`
	DailyPlan     []DayPlan  `json:"dailyPlan"`
	CostBreakdown []CostItem `json:"costBreakdown"`
}

// Day returns the plan for day number n.
func (it *Itinerary) Day(n int) (DayPlan, bool) {
	for _, d := range it.DailyPlan {
		if d.Day == n {
			return d, true
		}
	}
	return DayPlan{}, false
}

// Traveller is booking form input. It is never persisted.
type Traveller struct {
	ID             int    `json:"id"`
	FullName       string `json:"fullName"`
	Gender         string `json:"gender"`
	DateOfBirth    string `json:"dateOfBirth"`
	VerificationID string `json:"verificationId"`
}
