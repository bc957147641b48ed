package stackexchange

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/MrSnakeDoc/toolscout/internal/sources"
)

func TestDiscoverPaginatesUntilNoMore(t *testing.T) {
	var pagesServed []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		page := r.URL.Query().Get("page")
		pagesServed = append(pagesServed, page)
		switch page {
		case "1":
			fmt.Fprint(w, `{"items":[{"title":"Best tool for X?","link":"https://so.example/q/1","creation_date":1700000000}],"has_more":true}`)
		default:
			fmt.Fprint(w, `{"items":[{"title":"Tool recommendation","link":"https://so.example/q/2","creation_date":1700000100}],"has_more":false}`)
		}
	}))
	t.Cleanup(srv.Close)

	a := New(Config{BaseURL: srv.URL, Sites: []string{"stackoverflow"}, Pages: 5, Client: srv.Client()})
	var got []sources.DiscoveredTool
	err := a.Discover(context.Background(), func(ev sources.DiscoveredTool) error {
		got = append(got, ev)
		return nil
	})
	if err != nil {
		t.Fatalf("Discover() error = %v", err)
	}

	if len(got) != 2 {
		t.Fatalf("Discover() emitted %d events, want 2", len(got))
	}
	if len(pagesServed) != 2 {
		t.Errorf("fetched pages %v, want to stop after has_more=false", pagesServed)
	}
	if got[0].Description != "Discussed on stackoverflow" {
		t.Errorf("Description = %q", got[0].Description)
	}
	wantTags := []string{"stackoverflow", "stackexchange"}
	if len(got[0].Tags) != 2 || got[0].Tags[0] != wantTags[0] || got[0].Tags[1] != wantTags[1] {
		t.Errorf("Tags = %v, want %v", got[0].Tags, wantTags)
	}
}

func TestDiscoverTruncatesLongTitles(t *testing.T) {
	long := strings.Repeat("x", 150)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `{"items":[{"title":%q,"link":"https://so.example/q/1","creation_date":1700000000}],"has_more":false}`, long)
	}))
	t.Cleanup(srv.Close)

	a := New(Config{BaseURL: srv.URL, Client: srv.Client()})
	var got []sources.DiscoveredTool
	if err := a.Discover(context.Background(), func(ev sources.DiscoveredTool) error {
		got = append(got, ev)
		return nil
	}); err != nil {
		t.Fatalf("Discover() error = %v", err)
	}

	if len(got) != 1 {
		t.Fatalf("Discover() emitted %d events, want 1", len(got))
	}
	if len(got[0].Name) != 100 {
		t.Errorf("Name length = %d, want 100", len(got[0].Name))
	}
	if got[0].Mention.Snippet != long {
		t.Error("Snippet should keep the full title, truncation happens at persistence")
	}
}

func TestDiscoverSkipsItemsMissingTitleOrLink(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"items":[{"title":"","link":"https://so.example/q/1"},{"title":"ok","link":""},{"title":"kept","link":"https://so.example/q/3","creation_date":1700000000}],"has_more":false}`)
	}))
	t.Cleanup(srv.Close)

	a := New(Config{BaseURL: srv.URL, Client: srv.Client()})
	var got []sources.DiscoveredTool
	if err := a.Discover(context.Background(), func(ev sources.DiscoveredTool) error {
		got = append(got, ev)
		return nil
	}); err != nil {
		t.Fatalf("Discover() error = %v", err)
	}
	if len(got) != 1 || got[0].Name != "kept" {
		t.Errorf("Discover() = %v, want only the complete item", got)
	}
}

func TestDiscoverQueriesEachSite(t *testing.T) {
	var sites []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sites = append(sites, r.URL.Query().Get("site"))
		fmt.Fprint(w, `{"items":[],"has_more":false}`)
	}))
	t.Cleanup(srv.Close)

	a := New(Config{BaseURL: srv.URL, Sites: []string{"stackoverflow", "superuser"}, Client: srv.Client()})
	if err := a.Discover(context.Background(), func(sources.DiscoveredTool) error { return nil }); err != nil {
		t.Fatalf("Discover() error = %v", err)
	}
	if len(sites) != 2 || sites[0] != "stackoverflow" || sites[1] != "superuser" {
		t.Errorf("queried sites %v, want both configured sites", sites)
	}
}

func TestDiscoverAbortsOnThrottle(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "throttled", http.StatusTooManyRequests)
	}))
	t.Cleanup(srv.Close)

	a := New(Config{BaseURL: srv.URL, Client: srv.Client()})
	err := a.Discover(context.Background(), func(sources.DiscoveredTool) error { return nil })
	if err == nil {
		t.Fatal("Discover() should propagate a non-2xx response")
	}
}
