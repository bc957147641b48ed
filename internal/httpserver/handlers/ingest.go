package handlers

import (
	"net/http"

	"github.com/MrSnakeDoc/toolscout/internal/httpserver/deps"
	"github.com/MrSnakeDoc/toolscout/internal/logger"
)

type ingestResponse struct {
	Status string `json:"status"`
}

// Ingest triggers a manual ingestion run. The trigger channel holds at
// most one pending run, so piling requests onto a run already in
// flight answers 429 instead of queueing.
func Ingest(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		select {
		case d.IngestTrigger <- struct{}{}:
			d.Logger.Info("manual ingestion triggered via endpoint",
				logger.String("remote_ip", r.RemoteAddr))
			writeJSON(w, http.StatusAccepted, ingestResponse{Status: "run triggered"})
		default:
			d.Logger.Warn("ingestion already in progress",
				logger.String("remote_ip", r.RemoteAddr))
			writeJSON(w, http.StatusTooManyRequests, ingestResponse{Status: "run already in progress"})
		}
	}
}
