package ai

import (
	"github.com/google/generative-ai-go/genai"

	"wanderplan/internal/types"
)

// ItinerarySchema is the output contract attached to every generation request.
func ItinerarySchema() *genai.Schema {
	activityTypes := make([]string, len(types.ActivityTypes))
	for i, t := range types.ActivityTypes {
		activityTypes[i] = string(t)
	}

	activity := &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"time":        {Type: genai.TypeString, Description: `The suggested time for the activity (e.g., "09:00 AM").`},
			"description": {Type: genai.TypeString, Description: "A detailed description of the activity."},
			"type": {
				Type:        genai.TypeString,
				Format:      "enum",
				Enum:        activityTypes,
				Description: "The type of activity (Dining, Activity, Travel, Accommodation, Other).",
			},
			"cost": {Type: genai.TypeNumber, Description: "Estimated cost for this activity in USD."},
		},
		Required: []string{"time", "description", "type", "cost"},
	}

	day := &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"day":   {Type: genai.TypeInteger, Description: "The day number (e.g., 1, 2, 3)."},
			"date":  {Type: genai.TypeString, Description: `The specific date for this day's plan (e.g., "2024-09-15").`},
			"theme": {Type: genai.TypeString, Description: `A theme for the day, like "Cultural Exploration" or "Relaxing Beach Day".`},
			"activities": {
				Type:        genai.TypeArray,
				Description: "A list of activities planned for the day.",
				Items:       activity,
			},
		},
		Required: []string{"day", "date", "theme", "activities"},
	}

	cost := &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"category": {Type: genai.TypeString, Description: `The cost category (e.g., "Flights", "Accommodation", "Food", "Activities").`},
			"amount":   {Type: genai.TypeNumber, Description: "The estimated amount for this category in USD."},
		},
		Required: []string{"category", "amount"},
	}

	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"tripTitle":   {Type: genai.TypeString, Description: "A creative and catchy title for the trip."},
			"destination": {Type: genai.TypeString, Description: "The primary destination city and country."},
			"duration":    {Type: genai.TypeString, Description: `The total duration of the trip, e.g., "7 Days, 6 Nights".`},
			"totalCost":   {Type: genai.TypeNumber, Description: "The estimated total cost of the trip in USD."},
			"dailyPlan": {
				Type:        genai.TypeArray,
				Description: "An array of objects, where each object represents one day of the itinerary.",
				Items:       day,
			},
			"costBreakdown": {
				Type:        genai.TypeArray,
				Description: "A breakdown of the total estimated cost by category.",
				Items:       cost,
			},
		},
		Required: []string{"tripTitle", "destination", "duration", "totalCost", "dailyPlan", "costBreakdown"},
	}
}

// JSONSchema converts a genai schema into a plain JSON Schema document, for
// providers that take JSON Schema instead of the Gemini type.
func JSONSchema(s *genai.Schema) map[string]any {
	out := map[string]any{"type": jsonType(s.Type)}
	if s.Description != "" {
		out["description"] = s.Description
	}
	if len(s.Enum) > 0 {
		out["enum"] = s.Enum
	}
	if s.Items != nil {
		out["items"] = JSONSchema(s.Items)
	}
	if len(s.Properties) > 0 {
		props := make(map[string]any, len(s.Properties))
		for name, p := range s.Properties {
			props[name] = JSONSchema(p)
		}
		out["properties"] = props
		out["required"] = s.Required
		out["additionalProperties"] = false
	}
	return out
}

func jsonType(t genai.Type) string {
	switch t {
	case genai.TypeString:
		return "string"
	case genai.TypeNumber:
		return "number"
	case genai.TypeInteger:
		return "integer"
	case genai.TypeBoolean:
		return "boolean"
	case genai.TypeArray:
		return "array"
	default:
		return "object"
	}
}
