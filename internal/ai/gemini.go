package ai

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"wanderplan/internal/types"
)

const DefaultGeminiModel = "gemini-2.5-flash"

// GeminiProvider implements ItineraryGenerator using Google's Gemini models.
type GeminiProvider struct {
	client *genai.Client
	model  *genai.GenerativeModel
}

// NewGeminiProvider initializes a new Gemini client.
// An empty modelName selects DefaultGeminiModel.
func NewGeminiProvider(ctx context.Context, apiKey, modelName string) (*GeminiProvider, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	if modelName == "" {
		modelName = DefaultGeminiModel
	}

	model := client.GenerativeModel(modelName)

	// Constrain output to the itinerary schema.
	model.ResponseMIMEType = "application/json"
	model.ResponseSchema = ItinerarySchema()

	return &GeminiProvider{client: client, model: model}, nil
}

// Close cleans up the Gemini client resources.
func (p *GeminiProvider) Close() {
	p.client.Close()
}

// Generate issues one GenerateContent call and decodes the reply.
func (p *GeminiProvider) Generate(ctx context.Context, prefs types.Preferences) (*types.Itinerary, error) {
	resp, err := p.model.GenerateContent(ctx, genai.Text(BuildPrompt(prefs)))
	if err != nil {
		return nil, fmt.Errorf("%w: gemini generation error: %w", ErrCommunication, err)
	}
	text := responseText(resp)
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%w: no response candidates from Gemini", ErrCommunication)
	}
	return DecodeItinerary(text)
}

func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			b.WriteString(string(txt))
		}
	}
	return b.String()
}
