package domain

import "time"

// Tool is the canonical catalog entity for one discovered product.
// The slug is derived from the name once and never changes; optional
// scalar fields are filled by the first event that carries them and
// never overwritten, while tags accumulate as a set union.
type Tool struct {
	ID          int64     `db:"id" json:"id"`
	Slug        string    `db:"slug" json:"slug"`
	Name        string    `db:"name" json:"name"`
	Description *string   `db:"description" json:"description"`
	Homepage    *string   `db:"homepage" json:"homepage"`
	RepoURL     *string   `db:"repo_url" json:"repo_url"`
	Language    *string   `db:"language" json:"language"`
	Tags        Tags      `db:"tags" json:"tags"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// Origin records the first time one specific source occurrence was seen.
// (source_kind, raw_ref) is unique: repeated runs over the same
// occurrence never create a second row.
type Origin struct {
	ID           int64      `db:"id" json:"id"`
	ToolID       int64      `db:"tool_id" json:"tool_id"`
	SourceKind   SourceKind `db:"source_kind" json:"source_kind"`
	RawRef       string     `db:"raw_ref" json:"raw_ref"`
	SourceURL    string     `db:"source_url" json:"source_url"`
	DiscoveredAt time.Time  `db:"discovered_at" json:"discovered_at"`
}

// Review is an append-only snapshot of one appearance of a tool in a
// source. Every ingestion run that observes the tool appends a new row;
// only the liveness sweeper mutates status and last_checked_at afterwards.
type Review struct {
	ID            int64        `db:"id" json:"id"`
	ToolID        int64        `db:"tool_id" json:"tool_id"`
	SourceKind    SourceKind   `db:"source_kind" json:"source_kind"`
	SourceURL     string       `db:"source_url" json:"source_url"`
	Snippet       string       `db:"snippet" json:"snippet"`
	Sentiment     *string      `db:"sentiment" json:"sentiment"`
	PublishedAt   *time.Time   `db:"published_at" json:"published_at"`
	LastCheckedAt time.Time    `db:"last_checked_at" json:"last_checked_at"`
	Status        ReviewStatus `db:"status" json:"status"`
}

// ToolWithMentions is the fully-populated composite returned by the read
// API: the tool plus all its reviews, loaded in one explicit query (no
// on-access I/O).
type ToolWithMentions struct {
	Tool
	Reviews []Review `json:"reviews"`
}
