// Package identity derives stable identifiers for catalog entities:
// the URL-safe slug that keys a tool, and the per-occurrence raw
// reference that deduplicates discovery events.
package identity

import (
	"crypto/sha1"
	"encoding/hex"
	"regexp"
	"strings"
)

var nonAlnum = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify returns a URL-friendly slug generated from a name.
// Runs of non-alphanumeric characters collapse to a single hyphen and
// leading/trailing hyphens are trimmed. Names that normalize to nothing
// (emoji-only, punctuation-only) fall back to a short content hash so
// the result is never empty.
func Slugify(name string) string {
	s := nonAlnum.ReplaceAllString(strings.ToLower(strings.TrimSpace(name)), "-")
	s = strings.Trim(s, "-")
	if s == "" {
		s = shaHex(name)[:8]
	}
	return s
}

// RawRef returns the stable dedup key for one discovery occurrence:
// the first 12 hex characters of a content hash of the mention URL and
// the tool name. Scoped per source kind by the storage constraint.
func RawRef(sourceURL, name string) string {
	return shaHex(sourceURL + name)[:12]
}

func shaHex(s string) string {
	sum := sha1.Sum([]byte(s))
	return hex.EncodeToString(sum[:])
}
