package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/toolscout/internal/httpserver/deps"
	"github.com/MrSnakeDoc/toolscout/internal/httpserver/handlers"
)

func init() { Register(registerTools) }

func registerTools(r chi.Router, d deps.Deps) {
	r.Get("/tools", handlers.ListTools(d))
	r.Get("/tools/{slug}", handlers.GetTool(d))
}
