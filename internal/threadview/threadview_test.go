package threadview

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taskhive/backend/internal/dto"
)

func makeComment(content string) dto.CommentResponse {
	return dto.CommentResponse{
		ID:      uuid.New(),
		Content: content,
	}
}

func TestLoadSnapshot_ReplacesViewInServerOrder(t *testing.T) {
	v := New(uuid.New())
	v.InsertLocal(makeComment("stale optimistic insert"))

	a := makeComment("newest")
	b := makeComment("older")
	v.LoadSnapshot([]dto.CommentResponse{a, b})

	comments := v.Comments()
	require.Len(t, comments, 2)
	assert.Equal(t, a.ID, comments[0].ID)
	assert.Equal(t, b.ID, comments[1].ID)

	_, state, ok := v.Get(a.ID)
	require.True(t, ok)
	assert.Equal(t, StateConfirmed, state)
}

func TestInsertLocal_ThenBroadcastEcho_OneCopy(t *testing.T) {
	v := New(uuid.New())
	existing := makeComment("already here")
	v.LoadSnapshot([]dto.CommentResponse{existing})

	mine := makeComment("my new comment")
	v.InsertLocal(mine)

	_, state, ok := v.Get(mine.ID)
	require.True(t, ok)
	assert.Equal(t, StatePendingLocal, state)

	// The server echoes the same comment back on the broadcast channel.
	v.ApplyCommentAdded(mine)

	assert.Equal(t, 2, v.Len(), "echo must not duplicate the optimistic insert")
	_, state, ok = v.Get(mine.ID)
	require.True(t, ok)
	assert.Equal(t, StateConfirmed, state)

	comments := v.Comments()
	assert.Equal(t, mine.ID, comments[0].ID, "newest comment stays at the head")
}

func TestApplyCommentAdded_FromOtherUserInsertsAtHead(t *testing.T) {
	v := New(uuid.New())
	v.LoadSnapshot([]dto.CommentResponse{makeComment("first")})

	theirs := makeComment("from someone else")
	v.ApplyCommentAdded(theirs)

	comments := v.Comments()
	require.Len(t, comments, 2)
	assert.Equal(t, theirs.ID, comments[0].ID)
}

func TestApplyCommentUpdated_UnknownIDIsSilent(t *testing.T) {
	v := New(uuid.New())
	known := makeComment("before")
	v.LoadSnapshot([]dto.CommentResponse{known})

	v.ApplyCommentUpdated(uuid.New(), "should vanish")
	assert.Equal(t, 1, v.Len())

	v.ApplyCommentUpdated(known.ID, "after")
	got, _, ok := v.Get(known.ID)
	require.True(t, ok)
	assert.Equal(t, "after", got.Content)
	assert.True(t, got.IsEdited)
	assert.NotNil(t, got.EditedAt)
}

func TestApplyCommentDeleted_AbsentIDIsNoOp(t *testing.T) {
	v := New(uuid.New())
	a := makeComment("keep")
	b := makeComment("remove")
	v.LoadSnapshot([]dto.CommentResponse{a, b})

	v.ApplyCommentDeleted(uuid.New())
	assert.Equal(t, 2, v.Len())

	v.ApplyCommentDeleted(b.ID)
	require.Equal(t, 1, v.Len())
	_, _, ok := v.Get(b.ID)
	assert.False(t, ok)
	assert.Equal(t, a.ID, v.Comments()[0].ID)
}

func TestApplyReactionAdded_ReplacesSameUserReaction(t *testing.T) {
	v := New(uuid.New())
	c := makeComment("react to me")
	v.LoadSnapshot([]dto.CommentResponse{c})

	ann := uuid.New()
	bob := uuid.New()

	v.ApplyReactionAdded(c.ID, "👍", ann, "Ann")
	v.ApplyReactionAdded(c.ID, "👍", bob, "Bob")
	// Ann changes her mind; events may arrive in any order relative to her
	// first reaction, the view must still hold one reaction for her.
	v.ApplyReactionAdded(c.ID, "🔥", ann, "Ann")

	got, _, ok := v.Get(c.ID)
	require.True(t, ok)
	require.Len(t, got.Reactions, 2)

	byUser := map[uuid.UUID]string{}
	for _, r := range got.Reactions {
		byUser[r.UserID] = r.Emoji
	}
	assert.Equal(t, "🔥", byUser[ann])
	assert.Equal(t, "👍", byUser[bob])

	require.Len(t, got.ReactionSummary, 2)
	total := 0
	for _, s := range got.ReactionSummary {
		total += s.Count
	}
	assert.Equal(t, 2, total)
}

func TestApplyReactionAdded_UnknownCommentIsSilent(t *testing.T) {
	v := New(uuid.New())
	v.ApplyReactionAdded(uuid.New(), "👍", uuid.New(), "Ann")
	assert.Equal(t, 0, v.Len())
}
