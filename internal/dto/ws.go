package dto

import "github.com/google/uuid"

// WebSocket event types. Client-to-server types mirror the socket verbs the
// front end emits; server-to-client types are the rebroadcast names.
const (
	// client -> server
	WSTypeJoinTask       = "join-task"
	WSTypeLeaveTask      = "leave-task"
	WSTypeNewComment     = "new-comment"
	WSTypeCommentUpdated = "comment-updated"
	WSTypeCommentDeleted = "comment-deleted"
	WSTypeEmojiReaction  = "emoji-reaction"
	WSTypePing           = "ping"

	// server -> client
	WSTypeCommentAdded  = "comment-added"
	WSTypeReactionAdded = "reaction-added"
	WSTypeUserMentioned = "user-mentioned"
	WSTypePong          = "pong"
)

// WSEvent is the envelope for every frame in both directions.
type WSEvent struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload,omitempty"`
}

type WSJoinTask struct {
	TaskID uuid.UUID `json:"taskId"`
}

type WSNewComment struct {
	TaskID         uuid.UUID       `json:"taskId"`
	Comment        CommentResponse `json:"comment"`
	MentionedUsers []string        `json:"mentionedUsers,omitempty"`
}

type WSCommentUpdated struct {
	TaskID    uuid.UUID `json:"taskId"`
	CommentID uuid.UUID `json:"commentId"`
	Content   string    `json:"content"`
}

type WSCommentDeleted struct {
	TaskID    uuid.UUID `json:"taskId"`
	CommentID uuid.UUID `json:"commentId"`
}

type WSEmojiReaction struct {
	TaskID    uuid.UUID `json:"taskId"`
	CommentID uuid.UUID `json:"commentId"`
	Emoji     string    `json:"emoji"`
	UserID    uuid.UUID `json:"userId"`
	UserName  string    `json:"userName"`
}

type WSUserMentioned struct {
	UserID    string    `json:"userId"`
	TaskID    uuid.UUID `json:"taskId"`
	Comment   string    `json:"comment"`
	Commenter string    `json:"commenter"`
}
