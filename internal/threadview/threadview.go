// Package threadview maintains a locally reconciled copy of one task's
// comment thread. It merges three input streams — the initial REST fetch,
// the user's own optimistic writes, and inbound broadcast events — into one
// ordered view. It has no authority of its own: it is a read-side cache kept
// consistent with best effort, never a source of truth.
package threadview

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/taskhive/backend/internal/domain"
	"github.com/taskhive/backend/internal/dto"
)

// State tracks how a comment entered the local view.
type State int

const (
	// StatePendingLocal marks an optimistic insert not yet echoed back by
	// the broadcast channel.
	StatePendingLocal State = iota
	// StateConfirmed marks a comment present in REST or broadcast truth.
	StateConfirmed
)

type entry struct {
	comment dto.CommentResponse
	state   State
}

type ThreadView struct {
	mu      sync.RWMutex
	taskID  uuid.UUID
	order   []uuid.UUID // newest first
	entries map[uuid.UUID]*entry
}

func New(taskID uuid.UUID) *ThreadView {
	return &ThreadView{
		taskID:  taskID,
		entries: make(map[uuid.UUID]*entry),
	}
}

func (v *ThreadView) TaskID() uuid.UUID { return v.taskID }

// LoadSnapshot replaces the view with the authoritative REST page, keeping
// the server's order. Every loaded comment is confirmed.
func (v *ThreadView) LoadSnapshot(comments []dto.CommentResponse) {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.order = v.order[:0]
	v.entries = make(map[uuid.UUID]*entry, len(comments))
	for _, c := range comments {
		if _, ok := v.entries[c.ID]; ok {
			continue
		}
		v.order = append(v.order, c.ID)
		v.entries[c.ID] = &entry{comment: c, state: StateConfirmed}
	}
}

// InsertLocal optimistically inserts the user's own freshly created comment
// at the head of the view, without waiting for the broadcast echo. Inserting
// an id already present is a no-op.
func (v *ThreadView) InsertLocal(c dto.CommentResponse) {
	v.insert(c, StatePendingLocal)
}

// ApplyCommentAdded folds a broadcast comment-added event in. If the comment
// is already present (the local optimistic insert beat the echo), no
// duplicate is inserted; the existing entry is just confirmed.
func (v *ThreadView) ApplyCommentAdded(c dto.CommentResponse) {
	v.insert(c, StateConfirmed)
}

func (v *ThreadView) insert(c dto.CommentResponse, state State) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if existing, ok := v.entries[c.ID]; ok {
		if state == StateConfirmed {
			existing.state = StateConfirmed
		}
		return
	}
	v.order = append([]uuid.UUID{c.ID}, v.order...)
	v.entries[c.ID] = &entry{comment: c, state: state}
}

// ApplyCommentUpdated replaces the content of a known comment and marks it
// edited. An unknown id is silently ignored: the local view may legitimately
// lag the full thread.
func (v *ThreadView) ApplyCommentUpdated(commentID uuid.UUID, content string) {
	v.mu.Lock()
	defer v.mu.Unlock()

	e, ok := v.entries[commentID]
	if !ok {
		return
	}
	now := time.Now()
	e.comment.Content = content
	e.comment.IsEdited = true
	e.comment.EditedAt = &now
}

// ApplyCommentDeleted removes a comment by id; absent ids are a no-op.
func (v *ThreadView) ApplyCommentDeleted(commentID uuid.UUID) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if _, ok := v.entries[commentID]; !ok {
		return
	}
	delete(v.entries, commentID)
	for i, id := range v.order {
		if id == commentID {
			v.order = append(v.order[:i], v.order[i+1:]...)
			break
		}
	}
}

// ApplyReactionAdded mirrors the server's replace semantics: any existing
// reaction from the same user is dropped before the new one is appended, so
// the view never shows two reactions for one user even when events arrive
// out of order.
func (v *ThreadView) ApplyReactionAdded(commentID uuid.UUID, emoji string, userID uuid.UUID, userName string) {
	v.mu.Lock()
	defer v.mu.Unlock()

	e, ok := v.entries[commentID]
	if !ok {
		return
	}

	filtered := make([]dto.ReactionResponse, 0, len(e.comment.Reactions)+1)
	for _, r := range e.comment.Reactions {
		if r.UserID != userID {
			filtered = append(filtered, r)
		}
	}
	e.comment.Reactions = append(filtered, dto.ReactionResponse{
		UserID:    userID,
		UserName:  userName,
		Emoji:     emoji,
		CreatedAt: time.Now(),
	})
	e.comment.ReactionSummary = summarize(e.comment.Reactions)
}

func summarize(reactions []dto.ReactionResponse) []domain.ReactionCount {
	set := make([]domain.Reaction, 0, len(reactions))
	for _, r := range reactions {
		set = append(set, domain.Reaction{
			UserID:    r.UserID,
			UserName:  r.UserName,
			Emoji:     r.Emoji,
			CreatedAt: r.CreatedAt,
		})
	}
	return domain.SummarizeReactions(set)
}

// Comments returns a copy of the thread in view order, newest first.
func (v *ThreadView) Comments() []dto.CommentResponse {
	v.mu.RLock()
	defer v.mu.RUnlock()

	out := make([]dto.CommentResponse, 0, len(v.order))
	for _, id := range v.order {
		out = append(out, v.entries[id].comment)
	}
	return out
}

// Get returns one comment and its reconciliation state.
func (v *ThreadView) Get(commentID uuid.UUID) (dto.CommentResponse, State, bool) {
	v.mu.RLock()
	defer v.mu.RUnlock()

	e, ok := v.entries[commentID]
	if !ok {
		return dto.CommentResponse{}, StateConfirmed, false
	}
	return e.comment, e.state, true
}

func (v *ThreadView) Len() int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return len(v.order)
}
