package profile

import (
	"net/http"

	"goto-quest-backend/internal/web"
)

// UserStatsHandler returns the stored profile context for one customer.
func UserStatsHandler(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		customerID := r.PathValue("customerId")

		p, err := store.GetProfile(customerID)
		if err != nil {
			web.Error(w, http.StatusNotFound, err.Error())
			return
		}

		web.JSON(w, http.StatusOK, p)
	}
}
