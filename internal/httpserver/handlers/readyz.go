package handlers

import (
	"net/http"

	"github.com/MrSnakeDoc/toolscout/internal/httpserver/deps"
	"github.com/MrSnakeDoc/toolscout/internal/logger"
)

type readyzResponse struct {
	Ready bool `json:"ready"`
}

// Readyz reports whether the catalog store answers. The cache is
// deliberately not part of readiness; losing it degrades, not breaks.
func Readyz(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := d.Store.Ping(r.Context()); err != nil {
			d.Logger.Warn("readiness check failed", logger.Error(err))
			writeJSON(w, http.StatusServiceUnavailable, readyzResponse{Ready: false})
			return
		}
		writeJSON(w, http.StatusOK, readyzResponse{Ready: true})
	}
}
