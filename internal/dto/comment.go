package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/taskhive/backend/internal/domain"
)

type CreateCommentRequest struct {
	TaskID  uuid.UUID `json:"taskId"`
	Content string    `json:"content"`
	// Mentions is accepted for wire compatibility with older clients but is
	// never trusted: mentioned users are re-extracted from Content on the
	// server.
	Mentions      []string   `json:"mentions,omitempty"`
	ParentComment *uuid.UUID `json:"parentComment,omitempty"`
}

type UpdateCommentRequest struct {
	Content  string   `json:"content"`
	Mentions []string `json:"mentions,omitempty"`
}

type AddReactionRequest struct {
	Emoji string `json:"emoji"`
}

type ReactionResponse struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"userId"`
	UserName  string    `json:"userName"`
	Emoji     string    `json:"emoji"`
	CreatedAt time.Time `json:"createdAt"`
}

type CommentResponse struct {
	ID               uuid.UUID              `json:"id"`
	TaskID           uuid.UUID              `json:"taskId"`
	AuthorID         uuid.UUID              `json:"authorId"`
	AuthorName       string                 `json:"authorName"`
	Content          string                 `json:"content"`
	MentionedUserIDs []string               `json:"mentionedUserIds"`
	Reactions        []ReactionResponse     `json:"reactions"`
	ReactionSummary  []domain.ReactionCount `json:"reactionSummary,omitempty"`
	IsEdited         bool                   `json:"isEdited"`
	EditedAt         *time.Time             `json:"editedAt,omitempty"`
	ParentCommentID  *uuid.UUID             `json:"parentCommentId,omitempty"`
	CreatedAt        time.Time              `json:"createdAt"`
	UpdatedAt        time.Time              `json:"updatedAt"`
}

func ToCommentResponse(c *domain.Comment) CommentResponse {
	resp := CommentResponse{
		ID:               c.ID,
		TaskID:           c.TaskID,
		AuthorID:         c.AuthorID,
		AuthorName:       c.AuthorName,
		Content:          c.Content,
		MentionedUserIDs: append([]string{}, c.MentionedUserIDs...),
		Reactions:        make([]ReactionResponse, 0, len(c.Reactions)),
		ReactionSummary:  domain.SummarizeReactions(c.Reactions),
		IsEdited:         c.IsEdited,
		EditedAt:         c.EditedAt,
		ParentCommentID:  c.ParentCommentID,
		CreatedAt:        c.CreatedAt,
		UpdatedAt:        c.UpdatedAt,
	}
	for _, r := range c.Reactions {
		resp.Reactions = append(resp.Reactions, ReactionResponse{
			ID:        r.ID,
			UserID:    r.UserID,
			UserName:  r.UserName,
			Emoji:     r.Emoji,
			CreatedAt: r.CreatedAt,
		})
	}
	return resp
}

func ToCommentResponses(comments []domain.Comment) []CommentResponse {
	out := make([]CommentResponse, 0, len(comments))
	for i := range comments {
		out = append(out, ToCommentResponse(&comments[i]))
	}
	return out
}
