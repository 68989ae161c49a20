package repository

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/taskhive/backend/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CommentRepository struct {
	db *gorm.DB
}

func NewCommentRepository(db *gorm.DB) *CommentRepository {
	return &CommentRepository{db: db}
}

func (r *CommentRepository) Create(comment *domain.Comment) error {
	return r.db.Create(comment).Error
}

func (r *CommentRepository) FindByID(id uuid.UUID) (*domain.Comment, error) {
	var comment domain.Comment
	err := r.db.Preload("Reactions", func(db *gorm.DB) *gorm.DB {
		return db.Order("created_at ASC")
	}).First(&comment, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &comment, nil
}

// UpdateContent mutates only the edit-related columns. The whole row is never
// rewritten, so concurrent reaction writes on the same comment are not lost.
func (r *CommentRepository) UpdateContent(id uuid.UUID, content string, mentionedUserIDs []string, editedAt time.Time) error {
	return r.db.Model(&domain.Comment{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"content":            content,
			"mentioned_user_ids": pq.StringArray(mentionedUserIDs),
			"is_edited":          true,
			"edited_at":          editedAt,
		}).Error
}

// Delete hard-deletes a comment, its reactions, and its direct replies (and
// their reactions) in one transaction. Replies never cascade further because
// a reply cannot have replies of its own in this design.
func (r *CommentRepository) Delete(id uuid.UUID) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var replyIDs []uuid.UUID
		if err := tx.Model(&domain.Comment{}).
			Where("parent_comment_id = ?", id).
			Pluck("id", &replyIDs).Error; err != nil {
			return err
		}

		ids := append(replyIDs, id)
		if err := tx.Where("comment_id IN ?", ids).Delete(&domain.Reaction{}).Error; err != nil {
			return err
		}
		return tx.Where("id IN ?", ids).Delete(&domain.Comment{}).Error
	})
}

// GetByTaskID returns one page of a task's comments, newest first, plus the
// total count for pagination.
func (r *CommentRepository) GetByTaskID(taskID uuid.UUID, page, limit int) ([]domain.Comment, int64, error) {
	var comments []domain.Comment
	var total int64

	query := r.db.Model(&domain.Comment{}).Where("task_id = ?", taskID)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	err := r.db.Preload("Reactions", func(db *gorm.DB) *gorm.DB {
		return db.Order("created_at ASC")
	}).
		Where("task_id = ?", taskID).
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&comments).Error
	if err != nil {
		return nil, 0, err
	}

	return comments, total, nil
}

// UpsertReaction inserts the reaction, or replaces the emoji in place when the
// user already has one on this comment. The UNIQUE(comment_id, user_id) index
// makes replace-not-append atomic at the store level.
func (r *CommentRepository) UpsertReaction(reaction *domain.Reaction) error {
	return r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "comment_id"}, {Name: "user_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"emoji":      reaction.Emoji,
			"user_name":  reaction.UserName,
			"created_at": reaction.CreatedAt,
		}),
	}).Create(reaction).Error
}

// DeleteReaction removes the reaction only when it exists on the comment and
// belongs to userID. It reports whether a row was removed; callers cannot
// distinguish "absent" from "not yours".
func (r *CommentRepository) DeleteReaction(commentID, reactionID, userID uuid.UUID) (bool, error) {
	res := r.db.Where("id = ? AND comment_id = ? AND user_id = ?", reactionID, commentID, userID).
		Delete(&domain.Reaction{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
