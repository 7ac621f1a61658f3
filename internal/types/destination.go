package types

// Place is a point of interest near the destination.
type Place struct {
	Name             string  `json:"name"`
	Address          string  `json:"address"`
	Rating           float32 `json:"rating"`
	PlaceID          string  `json:"placeId"`
	UserRatingsTotal int     `json:"userRatingsTotal"`
}

// Destination is the geocoded trip destination with its top attractions.
type Destination struct {
	Query            string  `json:"query"`
	FormattedAddress string  `json:"formattedAddress"`
	Lat              float64 `json:"lat"`
	Lng              float64 `json:"lng"`
	Attractions      []Place `json:"attractions"`
}
