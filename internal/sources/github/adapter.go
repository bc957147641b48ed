// Package github discovers tools through the GitHub repository search
// API, targeting a configurable star range of recently pushed repos.
package github

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/MrSnakeDoc/toolscout/internal/domain"
	"github.com/MrSnakeDoc/toolscout/internal/sources"
)

// DefaultBaseURL is the GitHub REST API root.
const DefaultBaseURL = "https://api.github.com"

// pushedWindow restricts results to repositories pushed within the last year.
const pushedWindow = 365 * 24 * time.Hour

// Config tunes the adapter. Zero values pick sane defaults.
type Config struct {
	BaseURL        string
	Pages          int
	MinStars       int
	MaxStars       int
	QueryAdditions string // extra search terms, e.g. "cli OR tui"
	Token          string // optional bearer token, raises rate limits
	Pause          time.Duration
	Client         *http.Client
}

type Adapter struct {
	cfg Config
}

func New(cfg Config) *Adapter {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Pages <= 0 {
		cfg.Pages = 1
	}
	if cfg.MinStars <= 0 {
		cfg.MinStars = 10
	}
	if cfg.MaxStars <= 0 {
		cfg.MaxStars = 600
	}
	if cfg.Client == nil {
		cfg.Client = sources.NewHTTPClient(0)
	}
	return &Adapter{cfg: cfg}
}

func (a *Adapter) Kind() domain.SourceKind { return domain.SourceGitHub }

type searchResponse struct {
	Items []repository `json:"items"`
}

type repository struct {
	FullName        string   `json:"full_name"`
	Description     string   `json:"description"`
	Homepage        string   `json:"homepage"`
	HTMLURL         string   `json:"html_url"`
	Language        string   `json:"language"`
	Topics          []string `json:"topics"`
	StargazersCount int      `json:"stargazers_count"`
}

// Discover searches repositories in the configured star range, pushed
// within the last year, sorted by stars descending, across the
// configured number of pages.
func (a *Adapter) Discover(ctx context.Context, emit sources.EmitFunc) error {
	pushed := time.Now().UTC().Add(-pushedWindow).Format("2006-01-02")
	parts := []string{
		fmt.Sprintf("stars:%d..%d", a.cfg.MinStars, a.cfg.MaxStars),
		fmt.Sprintf("pushed:>%s", pushed),
	}
	if add := strings.TrimSpace(a.cfg.QueryAdditions); add != "" {
		parts = append(parts, "("+add+")")
	}
	q := strings.Join(parts, " ")

	var header http.Header
	if a.cfg.Token != "" {
		header = http.Header{"Authorization": []string{"Bearer " + a.cfg.Token}}
	}

	for page := 1; page <= a.cfg.Pages; page++ {
		qs := url.Values{}
		qs.Set("q", q)
		qs.Set("sort", "stars")
		qs.Set("order", "desc")
		qs.Set("per_page", "30")
		qs.Set("page", strconv.Itoa(page))

		var data searchResponse
		searchURL := a.cfg.BaseURL + "/search/repositories?" + qs.Encode()
		if err := sources.GetJSON(ctx, a.cfg.Client, searchURL, header, &data); err != nil {
			return fmt.Errorf("github: search page %d: %w", page, err)
		}

		for _, repo := range data.Items {
			homepage := repo.Homepage
			if homepage == "" {
				homepage = repo.HTMLURL
			}
			tags := repo.Topics
			if len(tags) == 0 {
				tags = []string{"github"}
			}
			desc := repo.Description
			if desc == "" {
				desc = "No description"
			}

			ev := sources.DiscoveredTool{
				Name:        repo.FullName,
				Description: repo.Description,
				Homepage:    homepage,
				RepoURL:     repo.HTMLURL,
				Language:    repo.Language,
				Tags:        tags,
				Mention: sources.Mention{
					SourceURL: repo.HTMLURL,
					Snippet:   fmt.Sprintf("%s — ⭐ %d", desc, repo.StargazersCount),
				},
			}
			if err := emit(ev); err != nil {
				return err
			}
			if err := sources.Pause(ctx, a.cfg.Pause); err != nil {
				return err
			}
		}
	}
	return nil
}
