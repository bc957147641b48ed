// Package hackernews discovers tools from recent "Show HN" stories via
// the official Firebase API (https://github.com/HackerNews/API).
package hackernews

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/MrSnakeDoc/toolscout/internal/domain"
	"github.com/MrSnakeDoc/toolscout/internal/sources"
)

const (
	// DefaultBaseURL is the Hacker News Firebase API root.
	DefaultBaseURL = "https://hacker-news.firebaseio.com/v0"
	// DefaultMentionBase is where story permalinks live.
	DefaultMentionBase = "https://news.ycombinator.com"

	titlePrefix = "Show HN: "
)

// Config tunes the adapter. Zero values pick sane defaults; BaseURL and
// MentionBase are overridable so tests can point at a local server.
type Config struct {
	BaseURL     string
	MentionBase string
	MaxItems    int
	Pause       time.Duration
	Client      *http.Client
}

type Adapter struct {
	cfg Config
}

func New(cfg Config) *Adapter {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.MentionBase == "" {
		cfg.MentionBase = DefaultMentionBase
	}
	if cfg.MaxItems <= 0 {
		cfg.MaxItems = 40
	}
	if cfg.Client == nil {
		cfg.Client = sources.NewHTTPClient(0)
	}
	return &Adapter{cfg: cfg}
}

func (a *Adapter) Kind() domain.SourceKind { return domain.SourceHackerNews }

// story is the subset of the HN item payload the adapter cares about.
type story struct {
	ID          int    `json:"id"`
	Title       string `json:"title"`
	URL         string `json:"url"`
	Score       int    `json:"score"`
	Descendants int    `json:"descendants"`
	Time        int64  `json:"time"`
}

// Discover fetches the most recent Show HN story IDs, then each story.
// Stories without a destination URL or title are skipped.
func (a *Adapter) Discover(ctx context.Context, emit sources.EmitFunc) error {
	var ids []int
	if err := sources.GetJSON(ctx, a.cfg.Client, a.cfg.BaseURL+"/showstories.json", nil, &ids); err != nil {
		return fmt.Errorf("hackernews: list show stories: %w", err)
	}
	if len(ids) > a.cfg.MaxItems {
		ids = ids[:a.cfg.MaxItems]
	}

	for _, id := range ids {
		var item story
		url := fmt.Sprintf("%s/item/%d.json", a.cfg.BaseURL, id)
		if err := sources.GetJSON(ctx, a.cfg.Client, url, nil, &item); err != nil {
			return fmt.Errorf("hackernews: fetch item %d: %w", id, err)
		}
		if item.Title == "" || item.URL == "" {
			continue
		}

		name := strings.TrimSpace(strings.TrimPrefix(item.Title, titlePrefix))
		published := time.Unix(item.Time, 0).UTC().Format(time.RFC3339)

		ev := sources.DiscoveredTool{
			Name:        name,
			Description: "Discovered via Show HN.",
			Homepage:    item.URL,
			Tags:        []string{"hn", "show-hn"},
			Mention: sources.Mention{
				SourceURL:   fmt.Sprintf("%s/item?id=%d", a.cfg.MentionBase, id),
				Snippet:     fmt.Sprintf("%s (score %d, %d comments)", item.Title, item.Score, item.Descendants),
				PublishedAt: published,
			},
		}
		if err := emit(ev); err != nil {
			return err
		}
		if err := sources.Pause(ctx, a.cfg.Pause); err != nil {
			return err
		}
	}
	return nil
}
