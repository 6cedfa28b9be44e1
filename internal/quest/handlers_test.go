package quest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"goto-quest-backend/internal/profile"
	"goto-quest-backend/internal/questlog"
	"goto-quest-backend/internal/web"
)

// newTestMux mirrors the route table in cmd/api.
func newTestMux(fx *fixture) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		web.JSON(w, http.StatusOK, map[string]string{
			"status":  "healthy",
			"message": "Quest generator service is running",
		})
	})
	mux.HandleFunc("GET /user-stats/{customerId}", profile.UserStatsHandler(fx.profiles))
	mux.HandleFunc("GET /generate-quest/{customerId}", GenerateQuestHandler(fx.gen))
	mux.HandleFunc("POST /complete-quest/{customerId}/{questId}", CompleteQuestHandler(fx.profiles, fx.qlog))
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		web.Error(w, http.StatusNotFound, "Resource not found")
	})
	return mux
}

func doRequest(mux *http.ServeMux, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	return w
}

func TestHealthEndpoint(t *testing.T) {
	mux := newTestMux(newFixture(t, serviceQuestJSON(t), http.StatusOK))

	w := doRequest(mux, "GET", "/health", "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, "healthy", resp["status"])
	require.NotEmpty(t, resp["message"])
}

func TestUserStatsEndpoint(t *testing.T) {
	mux := newTestMux(newFixture(t, serviceQuestJSON(t), http.StatusOK))

	w := doRequest(mux, "GET", "/user-stats/42", "")
	require.Equal(t, http.StatusOK, w.Code)

	var p profile.Profile
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &p))
	require.Equal(t, "42", p.CustomerID)
	require.Len(t, p.PaymentPreferences, 3)
	require.Equal(t, "OVO", p.PaymentPreferences[0])

	w = doRequest(mux, "GET", "/user-stats/99", "")
	require.Equal(t, http.StatusNotFound, w.Code)
	var errResp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &errResp))
	require.NotEmpty(t, errResp["error"])
}

func TestGenerateQuestEndpoint(t *testing.T) {
	fx := newFixture(t, serviceQuestJSON(t), http.StatusOK)
	mux := newTestMux(fx)

	w := doRequest(mux, "GET", "/generate-quest/42", "")
	require.Equal(t, http.StatusOK, w.Code)

	var quest map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &quest))
	id, _ := quest["quest_id"].(string)
	require.NotEmpty(t, id)
	require.NotEqual(t, serviceQuestID, id)
	require.Len(t, quest["objectives"], 5)

	entries := fx.qlog.Entries()
	require.Len(t, entries, 1)
	require.Equal(t, questlog.StatusGenerated, entries[0].Status)
	require.Equal(t, id, entries[0].QuestID)
}

func TestGenerateQuestEndpointFailure(t *testing.T) {
	fx := newFixture(t, "not json at all", http.StatusOK)
	mux := newTestMux(fx)

	w := doRequest(mux, "GET", "/generate-quest/42", "")
	require.Equal(t, http.StatusInternalServerError, w.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, "Failed to generate quest", resp["error"])
	require.Empty(t, fx.qlog.Entries())
}

func TestGenerateQuestEndpointUnknownCustomer(t *testing.T) {
	// Not-found and generation failures are indistinguishable to callers.
	fx := newFixture(t, serviceQuestJSON(t), http.StatusOK)
	mux := newTestMux(fx)

	w := doRequest(mux, "GET", "/generate-quest/99", "")
	require.Equal(t, http.StatusInternalServerError, w.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, "Failed to generate quest", resp["error"])
}

func TestCompleteQuestEndpoint(t *testing.T) {
	fx := newFixture(t, serviceQuestJSON(t), http.StatusOK)
	mux := newTestMux(fx)

	w := doRequest(mux, "POST", "/complete-quest/42/Q1", `{"success":true}`)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Message string `json:"message"`
		Success bool   `json:"success"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, "Quest completion recorded", resp.Message)
	require.True(t, resp.Success)

	p, err := fx.profiles.GetProfile("42")
	require.NoError(t, err)
	require.Equal(t, 1, p.CompletedQuests)
	require.Equal(t, 100.0, p.QuestCompletionRate)

	entries := fx.qlog.Entries()
	require.Len(t, entries, 1)
	require.Equal(t, "Q1", entries[0].QuestID)
	require.Equal(t, questlog.StatusCompleted, entries[0].Status)
}

func TestCompleteQuestEndpointUnknownCustomer(t *testing.T) {
	fx := newFixture(t, serviceQuestJSON(t), http.StatusOK)
	mux := newTestMux(fx)

	w := doRequest(mux, "POST", "/complete-quest/99/Q1", `{"success":true}`)
	require.Equal(t, http.StatusInternalServerError, w.Code)
	require.Empty(t, fx.qlog.Entries())
}

func TestCatchAllNotFound(t *testing.T) {
	mux := newTestMux(newFixture(t, serviceQuestJSON(t), http.StatusOK))

	w := doRequest(mux, "GET", "/no-such-route", "")
	require.Equal(t, http.StatusNotFound, w.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, "Resource not found", resp["error"])
}
