// Package sources defines the discovery contract shared by the three
// source adapters and the HTTP plumbing they have in common.
package sources

import (
	"context"

	"github.com/MrSnakeDoc/toolscout/internal/domain"
)

// Mention is the nested occurrence record of a discovery event.
type Mention struct {
	SourceURL   string // required, where the tool was seen
	Snippet     string // short excerpt, truncated at persistence time
	PublishedAt string // ISO-8601 timestamp, "" when the source has none
}

// DiscoveredTool is one normalized discovery event. Optional string
// fields use "" for absent; validation happens at the adapter boundary,
// so downstream code never sees an event without Name and a mention URL.
type DiscoveredTool struct {
	Name        string
	Description string
	Homepage    string
	RepoURL     string
	Language    string
	Tags        []string
	Mention     Mention
}

// EmitFunc receives one event. Returning a non-nil error aborts the
// discovery immediately; the adapter returns that error verbatim so the
// caller can tell its own failures apart from source fetch failures.
type EmitFunc func(DiscoveredTool) error

// Adapter produces a lazy, finite sequence of discovery events for one
// run. Discover re-queries the source from scratch on every call and
// emits events strictly in sequence: emit returns before the next item
// is fetched, which bounds memory and lets the politeness pause apply
// per item.
type Adapter interface {
	Kind() domain.SourceKind
	Discover(ctx context.Context, emit EmitFunc) error
}
