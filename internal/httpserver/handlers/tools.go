package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/toolscout/internal/httpserver/deps"
	"github.com/MrSnakeDoc/toolscout/internal/logger"
	"github.com/MrSnakeDoc/toolscout/internal/store/sqlstore"
)

// ListTools serves GET /tools with optional q= and tag= filters.
func ListTools(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filter := sqlstore.ToolFilter{
			Query: r.URL.Query().Get("q"),
			Tag:   r.URL.Query().Get("tag"),
		}

		tools, err := d.Store.ListTools(r.Context(), filter)
		if err != nil {
			d.Logger.Error("failed to list tools", logger.Error(err))
			writeError(w, http.StatusInternalServerError, "failed to list tools")
			return
		}
		writeJSON(w, http.StatusOK, tools)
	}
}

// GetTool serves GET /tools/{slug}, read-through cached when a cache
// is configured. Cache errors degrade to a plain store read.
func GetTool(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slug := chi.URLParam(r, "slug")

		if d.Cache != nil {
			cached, err := d.Cache.GetTool(r.Context(), slug)
			if err != nil {
				d.Logger.Warn("cache read failed", logger.String("slug", slug), logger.Error(err))
			} else if cached != nil {
				writeJSON(w, http.StatusOK, cached)
				return
			}
		}

		tool, err := d.Store.GetToolWithMentions(r.Context(), slug)
		if err != nil {
			if errors.Is(err, sqlstore.ErrNotFound) {
				writeError(w, http.StatusNotFound, "tool not found")
				return
			}
			d.Logger.Error("failed to get tool", logger.String("slug", slug), logger.Error(err))
			writeError(w, http.StatusInternalServerError, "failed to get tool")
			return
		}

		if d.Cache != nil {
			if err := d.Cache.SetTool(r.Context(), tool); err != nil {
				d.Logger.Warn("cache write failed", logger.String("slug", slug), logger.Error(err))
			}
		}
		writeJSON(w, http.StatusOK, tool)
	}
}
