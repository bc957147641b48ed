package domain

import (
	"database/sql/driver"
	"fmt"
	"sort"
	"strings"
)

// Tags is a set of labels attached to a tool. It is semantically a set:
// persistence joins it into a sorted comma-separated string, JSON keeps
// it as an array.
type Tags []string

// NewTags deduplicates and sorts raw labels, dropping empties.
func NewTags(raw []string) Tags {
	seen := make(map[string]struct{}, len(raw))
	out := make(Tags, 0, len(raw))
	for _, t := range raw {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

// Union returns the set union of t and other, sorted.
func (t Tags) Union(other []string) Tags {
	return NewTags(append(append([]string{}, t...), other...))
}

// Contains reports whether any tag matches sub case-insensitively
// (substring match, mirroring the read API's tag filter).
func (t Tags) Contains(sub string) bool {
	sub = strings.ToLower(sub)
	for _, tag := range t {
		if strings.Contains(strings.ToLower(tag), sub) {
			return true
		}
	}
	return false
}

// Value implements driver.Valuer. An empty set is stored as NULL.
func (t Tags) Value() (driver.Value, error) {
	if len(t) == 0 {
		return nil, nil
	}
	return strings.Join(NewTags(t), ","), nil
}

// Scan implements sql.Scanner for the comma-joined representation.
func (t *Tags) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*t = nil
		return nil
	case string:
		*t = NewTags(strings.Split(v, ","))
		return nil
	case []byte:
		*t = NewTags(strings.Split(string(v), ","))
		return nil
	default:
		return fmt.Errorf("cannot scan %T into Tags", src)
	}
}
