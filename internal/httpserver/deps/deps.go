package deps

import (
	"time"

	"github.com/MrSnakeDoc/toolscout/internal/logger"
	"github.com/MrSnakeDoc/toolscout/internal/store/cache"
	"github.com/MrSnakeDoc/toolscout/internal/store/sqlstore"
)

type Deps struct {
	Logger        logger.Logger
	StartTime     time.Time
	Version       string
	Commit        string
	BuildDate     string
	GoVersion     string
	Store         *sqlstore.Store // catalog store, the source of truth
	Cache         *cache.Cache    // optional read cache, nil when disabled
	IngestTrigger chan struct{}   // channel to trigger a manual ingestion run
}
