// Package mention extracts user references embedded in comment text as
// markers of the form @[displayName](userId).
package mention

import "regexp"

var markerPattern = regexp.MustCompile(`@\[([^\]]+)\]\(([^)]+)\)`)

// Extract returns the user ids referenced by mention markers in text, in the
// order they appear. Malformed markers simply do not match and are skipped.
// Duplicates are preserved; callers dedupe before notifying.
func Extract(text string) []string {
	matches := markerPattern.FindAllStringSubmatch(text, -1)
	ids := make([]string, 0, len(matches))
	for _, m := range matches {
		ids = append(ids, m[2])
	}
	return ids
}

// Unique returns ids with duplicates removed, preserving first-seen order.
func Unique(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
