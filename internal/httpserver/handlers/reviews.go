package handlers

import (
	"net/http"

	"github.com/MrSnakeDoc/toolscout/internal/httpserver/deps"
	"github.com/MrSnakeDoc/toolscout/internal/logger"
)

// ListReviews serves GET /reviews, newest published first.
func ListReviews(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		reviews, err := d.Store.ListReviews(r.Context())
		if err != nil {
			d.Logger.Error("failed to list reviews", logger.Error(err))
			writeError(w, http.StatusInternalServerError, "failed to list reviews")
			return
		}
		writeJSON(w, http.StatusOK, reviews)
	}
}
