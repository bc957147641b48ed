package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/toolscout/internal/httpserver/deps"
	"github.com/MrSnakeDoc/toolscout/internal/httpserver/handlers"
)

func init() { Register(registerIngest) }

func registerIngest(r chi.Router, d deps.Deps) {
	r.Post("/ingest", handlers.Ingest(d))
}
