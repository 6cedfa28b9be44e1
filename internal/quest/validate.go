package quest

import "fmt"

var (
	requiredQuestFields = []string{
		"quest_id", "title", "narrative", "objectives",
		"rewards", "game_rules", "progress_tracking",
	}
	requiredObjectiveFields = []string{"id", "platform", "description", "points", "required"}
	requiredRewardFields    = []string{"xp", "vouchers", "achievements"}
)

// Validate runs the shallow schema check over a decoded quest and
// returns every violated constraint. Checks are key-presence only, plus
// string typing for the optional objective fields; value types of
// points, xp, milestones and the rest are deliberately not inspected.
func Validate(quest map[string]any) []string {
	var violations []string

	for _, field := range requiredQuestFields {
		if _, ok := quest[field]; !ok {
			violations = append(violations, fmt.Sprintf("missing required field %q", field))
		}
	}

	if raw, ok := quest["objectives"]; ok {
		objectives, ok := raw.([]any)
		if !ok {
			violations = append(violations, "objectives is not a list")
		}
		for i, o := range objectives {
			obj, ok := o.(map[string]any)
			if !ok {
				violations = append(violations, fmt.Sprintf("objective %d is not an object", i))
				continue
			}
			for _, field := range requiredObjectiveFields {
				if _, ok := obj[field]; !ok {
					violations = append(violations, fmt.Sprintf("objective %d missing field %q", i, field))
				}
			}
			// Location and promotion are optional but must be strings
			// when present.
			if v, ok := obj["location"]; ok {
				if _, ok := v.(string); !ok {
					violations = append(violations, fmt.Sprintf("objective %d location is not a string", i))
				}
			}
			if v, ok := obj["promotion"]; ok {
				if _, ok := v.(string); !ok {
					violations = append(violations, fmt.Sprintf("objective %d promotion is not a string", i))
				}
			}
		}
	}

	if raw, ok := quest["rewards"]; ok {
		rewards, ok := raw.(map[string]any)
		if !ok {
			violations = append(violations, "rewards is not an object")
		}
		for _, field := range requiredRewardFields {
			if _, ok := rewards[field]; !ok {
				violations = append(violations, fmt.Sprintf("rewards missing field %q", field))
			}
		}
	}

	return violations
}
