package ai

import (
	"fmt"
	"strings"

	"wanderplan/internal/types"
)

// BuildPrompt embeds every preference field verbatim into the generation instruction.
func BuildPrompt(p types.Preferences) string {
	return fmt.Sprintf(`Create a personalized trip itinerary based on the following user preferences.
Please adhere strictly to the provided JSON schema for the output.

User Preferences:
- Destination: %s
- Budget: %s USD
- Travel Dates: %s to %s
- Interests: %s
- Preferred Pace: %s

Instructions:
1. Generate a detailed, day-by-day itinerary.
2. Include a variety of activities that align with the user's interests.
3. Suggest specific times for each activity.
4. Estimate costs for each activity and provide a total cost breakdown.
5. The entire plan must be realistic and fit within the specified budget.
6. The dates in the daily plan must correspond to the travel dates provided.
7. Ensure the total cost is calculated correctly from the individual activity costs and cost breakdown.
8. The output MUST be a valid JSON object matching the defined schema.
`,
		p.Destination,
		p.Budget,
		p.StartDate, p.EndDate,
		strings.Join(p.Interests, ", "),
		p.Pace,
	)
}
