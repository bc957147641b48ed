package app

import (
	"github.com/MrSnakeDoc/toolscout/internal/config"
	"github.com/MrSnakeDoc/toolscout/internal/ingest"
	"github.com/MrSnakeDoc/toolscout/internal/logger"
	"github.com/MrSnakeDoc/toolscout/internal/sources"
	"github.com/MrSnakeDoc/toolscout/internal/sources/github"
	"github.com/MrSnakeDoc/toolscout/internal/sources/hackernews"
	"github.com/MrSnakeDoc/toolscout/internal/sources/stackexchange"
	"github.com/MrSnakeDoc/toolscout/internal/store/sqlstore"
	"github.com/MrSnakeDoc/toolscout/internal/sweep"
)

// buildAdapters wires the three source adapters from configuration.
// They share one HTTP client; per-source knobs come from the config.
func buildAdapters(cfg *config.Config) []sources.Adapter {
	client := sources.NewHTTPClient(cfg.HTTPTimeout)
	return []sources.Adapter{
		hackernews.New(hackernews.Config{
			MaxItems: cfg.HNMaxItems,
			Pause:    cfg.RequestPause,
			Client:   client,
		}),
		stackexchange.New(stackexchange.Config{
			Sites:  cfg.SESites,
			Pages:  cfg.SEPages,
			Key:    cfg.SEKey,
			Pause:  cfg.RequestPause,
			Client: client,
		}),
		github.New(github.Config{
			Pages:          cfg.GHPages,
			MinStars:       cfg.GHMinStars,
			MaxStars:       cfg.GHMaxStars,
			QueryAdditions: cfg.GHQueryAdditions,
			Token:          cfg.GHToken,
			Pause:          cfg.RequestPause,
			Client:         client,
		}),
	}
}

// buildRunner assembles the full ingestion pipeline over an open store.
func buildRunner(cfg *config.Config, store *sqlstore.Store, cache ingest.Flusher, log logger.Logger) *ingest.Runner {
	sweeper := sweep.New(store, cfg.ProbeTimeout, log)
	return ingest.NewRunner(store, ingest.NewEngine(log), buildAdapters(cfg), sweeper, cache, log)
}
