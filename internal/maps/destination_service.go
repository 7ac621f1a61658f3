package maps

import (
	"context"
	"fmt"
	"strings"

	"googlemaps.github.io/maps"

	"wanderplan/internal/types"
)

// MaxAttractions caps the attraction list attached to a destination.
const MaxAttractions = 5

// minRating filters out low-quality attraction results.
const minRating = 4.0

// DestinationService geocodes trip destinations and finds their attractions.
type DestinationService struct {
	client *maps.Client
}

// NewDestinationService creates a DestinationService with the given API key.
// Extra options (e.g. maps.WithBaseURL) are passed to the client.
func NewDestinationService(apiKey string, opts ...maps.ClientOption) (*DestinationService, error) {
	client, err := maps.NewClient(append([]maps.ClientOption{maps.WithAPIKey(apiKey)}, opts...)...)
	if err != nil {
		return nil, fmt.Errorf("failed to create maps client: %w", err)
	}
	return &DestinationService{client: client}, nil
}

// Lookup geocodes the destination and searches "tourist attractions in <destination>",
// the same query the map embed uses.
func (s *DestinationService) Lookup(ctx context.Context, destination string) (*types.Destination, error) {
	destination = strings.TrimSpace(destination)
	if destination == "" {
		return nil, fmt.Errorf("empty destination")
	}

	geo, err := s.client.Geocode(ctx, &maps.GeocodingRequest{Address: destination})
	if err != nil {
		return nil, fmt.Errorf("geocoding api error: %w", err)
	}
	if len(geo) == 0 {
		return nil, fmt.Errorf("no geocoding result for %q", destination)
	}

	out := &types.Destination{
		Query:            destination,
		FormattedAddress: geo[0].FormattedAddress,
		Lat:              geo[0].Geometry.Location.Lat,
		Lng:              geo[0].Geometry.Location.Lng,
	}

	resp, err := s.client.TextSearch(ctx, &maps.TextSearchRequest{
		Query: "tourist attractions in " + destination,
	})
	if err != nil {
		return nil, fmt.Errorf("places api error: %w", err)
	}

	seen := make(map[string]bool)
	for _, r := range resp.Results {
		if r.Rating < minRating || seen[r.PlaceID] {
			continue
		}
		seen[r.PlaceID] = true
		out.Attractions = append(out.Attractions, types.Place{
			Name:             r.Name,
			Address:          r.FormattedAddress,
			Rating:           r.Rating,
			PlaceID:          r.PlaceID,
			UserRatingsTotal: r.UserRatingsTotal,
		})
		if len(out.Attractions) >= MaxAttractions {
			break
		}
	}
	return out, nil
}
