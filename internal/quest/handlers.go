package quest

import (
	"encoding/json"
	"net/http"

	"goto-quest-backend/internal/profile"
	"goto-quest-backend/internal/questlog"
	"goto-quest-backend/internal/web"
)

// GenerateQuestHandler runs the synthesis pipeline. Every failure mode
// collapses to one generic 500; callers get no detail beyond the logs.
func GenerateQuestHandler(g *Generator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		customerID := r.PathValue("customerId")

		quest, err := g.GenerateQuest(r.Context(), customerID)
		if err != nil {
			web.Error(w, http.StatusInternalServerError, "Failed to generate quest")
			return
		}

		web.JSON(w, http.StatusOK, quest)
	}
}

// CompleteQuestHandler records a quest outcome: profile stats first,
// then a completed log row carrying only the quest id.
func CompleteQuestHandler(profiles *profile.Store, qlog *questlog.Log) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		customerID := r.PathValue("customerId")
		questID := r.PathValue("questId")

		var body struct {
			Success bool `json:"success"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			web.Error(w, http.StatusInternalServerError, err.Error())
			return
		}

		if err := profiles.RecordQuestOutcome(customerID, body.Success); err != nil {
			web.Error(w, http.StatusInternalServerError, err.Error())
			return
		}

		if err := qlog.Append(customerID, map[string]any{"quest_id": questID}, questlog.StatusCompleted); err != nil {
			web.Error(w, http.StatusInternalServerError, err.Error())
			return
		}

		web.JSON(w, http.StatusOK, map[string]any{
			"message": "Quest completion recorded",
			"success": body.Success,
		})
	}
}
