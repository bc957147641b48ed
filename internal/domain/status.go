package domain

import (
	"database/sql/driver"
	"fmt"
)

// ReviewStatus is the liveness state of a mention's source URL.
type ReviewStatus string

const (
	StatusActive   ReviewStatus = "active"
	StatusArchived ReviewStatus = "archived"
	// StatusGone is reserved for manual curation. The sweeper never
	// assigns it, but it must round-trip through storage.
	StatusGone ReviewStatus = "gone"
)

// ParseReviewStatus validates a raw string coming from storage or transport.
func ParseReviewStatus(s string) (ReviewStatus, error) {
	switch ReviewStatus(s) {
	case StatusActive, StatusArchived, StatusGone:
		return ReviewStatus(s), nil
	default:
		return "", fmt.Errorf("unknown review status: %q", s)
	}
}

func (s ReviewStatus) String() string { return string(s) }

// Value implements driver.Valuer. Unknown statuses never reach the database.
func (s ReviewStatus) Value() (driver.Value, error) {
	if _, err := ParseReviewStatus(string(s)); err != nil {
		return nil, err
	}
	return string(s), nil
}

// Scan implements sql.Scanner and rejects unknown values at the storage boundary.
func (s *ReviewStatus) Scan(src interface{}) error {
	var raw string
	switch v := src.(type) {
	case string:
		raw = v
	case []byte:
		raw = string(v)
	default:
		return fmt.Errorf("cannot scan %T into ReviewStatus", src)
	}
	parsed, err := ParseReviewStatus(raw)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
