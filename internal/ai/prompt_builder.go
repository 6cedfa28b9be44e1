package ai

import (
	"fmt"
	"strings"

	"goto-quest-backend/internal/profile"
)

// placeUnknown is the sentinel the prediction pipeline writes when it
// has no location for a customer.
const placeUnknown = "null"

// BuildQuestPrompt formats the user-role prompt for one customer.
func BuildQuestPrompt(customerID string, p profile.Profile) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Generate a personalized gamified quest, at least 5 quest, for customer %s with context:\n\n", customerID)

	b.WriteString("Payment Preferences (all of this should be called GoPay):\n")
	for i, pref := range p.PaymentPreferences {
		fmt.Fprintf(&b, "%d. %s\n", i+1, pref)
	}
	b.WriteString("\n")

	b.WriteString("Available Promotions:\n")
	fmt.Fprintf(&b, "- GoFood: %s\n", p.Promotions["food"])
	fmt.Fprintf(&b, "- GoRide: %s\n", p.Promotions["ride"])
	fmt.Fprintf(&b, "- GoCar: %s\n", p.Promotions["car"])
	b.WriteString("\n")

	b.WriteString("Favorite Places:\n")
	fmt.Fprintf(&b, "- GoRide frequent destination: %s\n", placeOrFallback(p.FavoritePlaces["ride"]))
	fmt.Fprintf(&b, "- GoCar frequent destination: %s\n", placeOrFallback(p.FavoritePlaces["car"]))
	fmt.Fprintf(&b, "- Favorite restaurants: %s\n", placeOrFallback(p.FavoritePlaces["food"]))
	b.WriteString("\n")

	b.WriteString(`Create an engaging quest that:
1. Incorporates available promotions into quest objectives, matching each platform's specific voucher
2. Uses their preferred payment methods for GoPay-related tasks
3. Includes location-based challenges using their frequent destinations
4. Suggests food orders from their favorite restaurants when applicable
5. Adapts difficulty based on their completion rate
6. Combines transport and food tasks in a logical sequence
7. Creates a narrative that connects their usual locations with food preferences

`)

	b.WriteString(questSchemaBlock)

	return b.String()
}

func placeOrFallback(place string) string {
	if place == placeUnknown {
		return "Not available"
	}
	return place
}

const questSchemaBlock = `Return ONLY a JSON object with structure:
{
    "quest_id": "unique_identifier",
    "title": "quest_title",
    "narrative": "story_description",
    "type": "quest_type",
    "difficulty": "level",
    "duration": "time_to_complete",
    "objectives": [
        {
            "id": "objective_id",
            "platform": "platform_name",
            "description": "objective_description",
            "points": points_value,
            "required": boolean,
            "location": "location_name",
            "promotion": "promotion_code"
        }
    ],
    "rewards": {
        "xp": xp_value,
        "vouchers": ["voucher_code"],
        "achievements": ["achievement"]
    },
    "game_rules": ["rule"],
    "progress_tracking": {
        "metrics": ["metric"],
        "milestones": [
            {
                "threshold": value,
                "reward": "reward_description"
            }
        ]
    }
}`
