package domain

import (
	"database/sql/driver"
	"fmt"
)

// SourceKind identifies the external source an event came from.
// One value per adapter.
type SourceKind string

const (
	SourceHackerNews    SourceKind = "hacker_news"
	SourceStackExchange SourceKind = "stack_exchange"
	SourceGitHub        SourceKind = "github"
)

// ParseSourceKind validates a raw string coming from storage or transport.
func ParseSourceKind(s string) (SourceKind, error) {
	switch SourceKind(s) {
	case SourceHackerNews, SourceStackExchange, SourceGitHub:
		return SourceKind(s), nil
	default:
		return "", fmt.Errorf("unknown source kind: %q", s)
	}
}

func (k SourceKind) String() string { return string(k) }

// Value implements driver.Valuer. Unknown kinds never reach the database.
func (k SourceKind) Value() (driver.Value, error) {
	if _, err := ParseSourceKind(string(k)); err != nil {
		return nil, err
	}
	return string(k), nil
}

// Scan implements sql.Scanner and rejects unknown values at the storage boundary.
func (k *SourceKind) Scan(src interface{}) error {
	var raw string
	switch v := src.(type) {
	case string:
		raw = v
	case []byte:
		raw = string(v)
	default:
		return fmt.Errorf("cannot scan %T into SourceKind", src)
	}
	parsed, err := ParseSourceKind(raw)
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}
