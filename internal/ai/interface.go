package ai

import (
	"context"

	"wanderplan/internal/types"
)

// ItineraryGenerator turns trip preferences into a validated itinerary.
// Implementations issue exactly one request to the model per call and never retry.
type ItineraryGenerator interface {
	Generate(ctx context.Context, prefs types.Preferences) (*types.Itinerary, error)
}
