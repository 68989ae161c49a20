package domain

import (
	"sort"

	"github.com/google/uuid"
)

// ReactionCount is one row of an emoji summary.
type ReactionCount struct {
	Emoji string `json:"emoji"`
	Count int    `json:"count"`
}

// ReplaceReaction returns the reaction set with any existing entry for
// incoming.UserID replaced by incoming. The incoming entry always lands at
// the end of the set, so a changed emoji also moves in summary order.
func ReplaceReaction(set []Reaction, incoming Reaction) []Reaction {
	out := make([]Reaction, 0, len(set)+1)
	for _, r := range set {
		if r.UserID != incoming.UserID {
			out = append(out, r)
		}
	}
	return append(out, incoming)
}

// RemoveOwnReaction returns the set with the reaction identified by
// reactionID removed, but only when that reaction belongs to requesterID.
// The second return reports whether anything was removed; ownership
// mismatch and absence are indistinguishable to the caller.
func RemoveOwnReaction(set []Reaction, reactionID, requesterID uuid.UUID) ([]Reaction, bool) {
	out := make([]Reaction, 0, len(set))
	removed := false
	for _, r := range set {
		if r.ID == reactionID && r.UserID == requesterID {
			removed = true
			continue
		}
		out = append(out, r)
	}
	return out, removed
}

// SummarizeReactions groups the set by emoji. Emojis appear in the order
// they first occur chronologically among the surviving reactions, not
// alphabetically.
func SummarizeReactions(set []Reaction) []ReactionCount {
	ordered := make([]Reaction, len(set))
	copy(ordered, set)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].CreatedAt.Before(ordered[j].CreatedAt)
	})

	index := make(map[string]int)
	var counts []ReactionCount
	for _, r := range ordered {
		if i, ok := index[r.Emoji]; ok {
			counts[i].Count++
			continue
		}
		index[r.Emoji] = len(counts)
		counts = append(counts, ReactionCount{Emoji: r.Emoji, Count: 1})
	}
	return counts
}
