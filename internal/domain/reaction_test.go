package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func reactionAt(userID uuid.UUID, emoji string, offset time.Duration) Reaction {
	return Reaction{
		ID:        uuid.New(),
		UserID:    userID,
		UserName:  "user",
		Emoji:     emoji,
		CreatedAt: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC).Add(offset),
	}
}

func TestReplaceReaction_ReplacesNotAppends(t *testing.T) {
	user := uuid.New()
	set := []Reaction{reactionAt(user, "👍", 0)}

	set = ReplaceReaction(set, reactionAt(user, "🔥", time.Minute))

	require.Len(t, set, 1)
	assert.Equal(t, "🔥", set[0].Emoji)
	assert.Equal(t, user, set[0].UserID)
}

func TestReplaceReaction_OtherUsersUntouched(t *testing.T) {
	alice, bob := uuid.New(), uuid.New()
	set := []Reaction{
		reactionAt(alice, "👍", 0),
		reactionAt(bob, "❤️", time.Second),
	}

	set = ReplaceReaction(set, reactionAt(alice, "🎉", time.Minute))

	require.Len(t, set, 2)
	assert.Equal(t, "❤️", set[0].Emoji)
	assert.Equal(t, "🎉", set[1].Emoji)
}

func TestRemoveOwnReaction_OwnershipEnforced(t *testing.T) {
	alice, bob := uuid.New(), uuid.New()
	target := reactionAt(alice, "👍", 0)
	set := []Reaction{target, reactionAt(bob, "❤️", time.Second)}

	// Bob cannot remove Alice's reaction.
	out, removed := RemoveOwnReaction(set, target.ID, bob)
	assert.False(t, removed)
	assert.Len(t, out, 2)

	// Alice can.
	out, removed = RemoveOwnReaction(set, target.ID, alice)
	assert.True(t, removed)
	require.Len(t, out, 1)
	assert.Equal(t, bob, out[0].UserID)
}

func TestRemoveOwnReaction_UnknownIDIsNoop(t *testing.T) {
	alice := uuid.New()
	set := []Reaction{reactionAt(alice, "👍", 0)}

	out, removed := RemoveOwnReaction(set, uuid.New(), alice)
	assert.False(t, removed)
	assert.Len(t, out, 1)
}

func TestSummarizeReactions_GroupsByFirstAppearance(t *testing.T) {
	a, b, c := uuid.New(), uuid.New(), uuid.New()
	set := []Reaction{
		reactionAt(a, "🔥", 0),
		reactionAt(b, "👍", time.Second),
		reactionAt(c, "🔥", 2*time.Second),
	}

	counts := SummarizeReactions(set)

	require.Len(t, counts, 2)
	assert.Equal(t, ReactionCount{Emoji: "🔥", Count: 2}, counts[0])
	assert.Equal(t, ReactionCount{Emoji: "👍", Count: 1}, counts[1])
}

func TestSummarizeReactions_ChronologicalOrderNotInputOrder(t *testing.T) {
	a, b := uuid.New(), uuid.New()
	// Input slice ordered backwards relative to creation time.
	set := []Reaction{
		reactionAt(a, "👍", time.Minute),
		reactionAt(b, "🎉", 0),
	}

	counts := SummarizeReactions(set)

	require.Len(t, counts, 2)
	assert.Equal(t, "🎉", counts[0].Emoji, "oldest surviving reaction's emoji comes first")
	assert.Equal(t, "👍", counts[1].Emoji)
}

func TestSummarizeReactions_Empty(t *testing.T) {
	assert.Empty(t, SummarizeReactions(nil))
}
