package ai

import (
	"context"
	"fmt"
	"strings"

	"wanderplan/internal/config"
	"wanderplan/internal/types"
)

// NewGenerator builds the generator selected by cfg. The returned close func is never nil.
// A missing credential does not fail construction: the generator fails every call instead.
func NewGenerator(ctx context.Context, cfg config.AIConfig) (ItineraryGenerator, func(), error) {
	noop := func() {}
	key := strings.TrimSpace(cfg.APIKey())
	if key == "" {
		return missingCredential{provider: cfg.Provider}, noop, nil
	}

	switch cfg.Provider {
	case "", "gemini":
		p, err := NewGeminiProvider(ctx, key, cfg.Model)
		if err != nil {
			return nil, noop, err
		}
		return p, p.Close, nil
	case "openai":
		return NewOpenAIProvider(key, cfg.Model), noop, nil
	default:
		return nil, noop, fmt.Errorf("unknown AI provider %q", cfg.Provider)
	}
}

type missingCredential struct {
	provider string
}

func (m missingCredential) Generate(context.Context, types.Preferences) (*types.Itinerary, error) {
	return nil, fmt.Errorf("%w: %s: missing api key", ErrCommunication, m.provider)
}
