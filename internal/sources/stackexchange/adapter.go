// Package stackexchange discovers tools from recent questions via the
// Stack Exchange search API (v2.3).
package stackexchange

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/MrSnakeDoc/toolscout/internal/domain"
	"github.com/MrSnakeDoc/toolscout/internal/sources"
)

// DefaultBaseURL is the Stack Exchange API root.
const DefaultBaseURL = "https://api.stackexchange.com/2.3"

// maxNameLen caps question titles used as tool names.
const maxNameLen = 100

// Config tunes the adapter. Zero values pick sane defaults.
type Config struct {
	BaseURL string
	Sites   []string
	Pages   int
	Key     string // optional API key, raises quota
	Pause   time.Duration
	Client  *http.Client
}

type Adapter struct {
	cfg Config
}

func New(cfg Config) *Adapter {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if len(cfg.Sites) == 0 {
		cfg.Sites = []string{"stackoverflow"}
	}
	if cfg.Pages <= 0 {
		cfg.Pages = 1
	}
	if cfg.Client == nil {
		cfg.Client = sources.NewHTTPClient(0)
	}
	return &Adapter{cfg: cfg}
}

func (a *Adapter) Kind() domain.SourceKind { return domain.SourceStackExchange }

type searchResponse struct {
	Items   []question `json:"items"`
	HasMore bool       `json:"has_more"`
}

type question struct {
	Title        string `json:"title"`
	Link         string `json:"link"`
	CreationDate int64  `json:"creation_date"`
}

// Discover queries each configured site for recent questions matching a
// fixed tag/keyword filter, paginating until the API reports no further
// pages or the page budget is spent. Questions without a title or link
// are skipped.
func (a *Adapter) Discover(ctx context.Context, emit sources.EmitFunc) error {
	for _, site := range a.cfg.Sites {
		for page := 1; page <= a.cfg.Pages; page++ {
			data, err := a.search(ctx, site, page)
			if err != nil {
				return fmt.Errorf("stackexchange: search %s page %d: %w", site, page, err)
			}

			for _, q := range data.Items {
				if q.Title == "" || q.Link == "" {
					continue
				}
				name := q.Title
				if len([]rune(name)) > maxNameLen {
					name = string([]rune(name)[:maxNameLen])
				}
				published := time.Unix(q.CreationDate, 0).UTC().Format(time.RFC3339)

				ev := sources.DiscoveredTool{
					Name:        name,
					Description: fmt.Sprintf("Discussed on %s", site),
					Tags:        []string{site, "stackexchange"},
					Mention: sources.Mention{
						SourceURL:   q.Link,
						Snippet:     q.Title,
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

			if !data.HasMore {
				break
			}
		}
	}
	return nil
}

func (a *Adapter) search(ctx context.Context, site string, page int) (*searchResponse, error) {
	qs := url.Values{}
	qs.Set("order", "desc")
	qs.Set("sort", "creation")
	qs.Set("site", site)
	qs.Set("intitle", "recommendation OR tool")
	qs.Set("tagged", "tool;open-source;productivity")
	qs.Set("filter", "default")
	qs.Set("pagesize", "20")
	qs.Set("page", strconv.Itoa(page))
	if a.cfg.Key != "" {
		qs.Set("key", a.cfg.Key)
	}

	var data searchResponse
	if err := sources.GetJSON(ctx, a.cfg.Client, a.cfg.BaseURL+"/search?"+qs.Encode(), nil, &data); err != nil {
		return nil, err
	}
	return &data, nil
}
