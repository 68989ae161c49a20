package service

import (
	"errors"
	"log"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/taskhive/backend/internal/domain"
	"github.com/taskhive/backend/internal/mention"
	"github.com/taskhive/backend/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrTaskNotFound     = errors.New("task not found")
	ErrCommentNotFound  = errors.New("comment not found")
	ErrNotCommentAuthor = errors.New("you can only modify your own comments")
	ErrReactionNotFound = errors.New("reaction not found")
	ErrInvalidEmoji     = errors.New("emoji is required and must be a non-empty string")
	ErrInvalidParent    = errors.New("parent comment must be a top-level comment on the same task")
)

// CommentServiceOptions carries behavior switches resolved from config.
type CommentServiceOptions struct {
	// RenotifyOnEdit re-extracts mentions when a comment is edited and
	// notifies users not mentioned before the edit. Off by default: only
	// creation triggers mention notifications.
	RenotifyOnEdit bool
}

type CommentService struct {
	commentRepo         *repository.CommentRepository
	taskRepo            *repository.TaskRepository
	notificationService *NotificationService
	opts                CommentServiceOptions
}

func NewCommentService(
	commentRepo *repository.CommentRepository,
	taskRepo *repository.TaskRepository,
	notificationService *NotificationService,
	opts CommentServiceOptions,
) *CommentService {
	return &CommentService{
		commentRepo:         commentRepo,
		taskRepo:            taskRepo,
		notificationService: notificationService,
		opts:                opts,
	}
}

// Create persists a new comment after validating the task exists. Mentioned
// user ids are extracted from the content itself (duplicates preserved);
// notification fan-out deduplicates and skips the author.
func (s *CommentService) Create(taskID, authorID uuid.UUID, authorName, content string, parentID *uuid.UUID) (*domain.Comment, error) {
	task, err := s.taskRepo.FindByID(taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, err
	}

	if parentID != nil {
		parent, err := s.commentRepo.FindByID(*parentID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrCommentNotFound
			}
			return nil, err
		}
		// Replies nest one level deep.
		if parent.TaskID != taskID || parent.ParentCommentID != nil {
			return nil, ErrInvalidParent
		}
	}

	comment := &domain.Comment{
		TaskID:           taskID,
		AuthorID:         authorID,
		AuthorName:       authorName,
		Content:          content,
		MentionedUserIDs: mention.Extract(content),
		ParentCommentID:  parentID,
	}

	if err := s.commentRepo.Create(comment); err != nil {
		return nil, err
	}

	s.notifyMentions(comment.MentionedUserIDs, nil, authorID, task, comment)

	return s.commentRepo.FindByID(comment.ID)
}

// Update replaces the content of the author's own comment and marks it
// edited. Mention re-extraction on edit is governed by RenotifyOnEdit; when
// off, the persisted mention list is left as extracted at creation.
func (s *CommentService) Update(commentID, requestingUserID uuid.UUID, newContent string) (*domain.Comment, error) {
	comment, err := s.findComment(commentID)
	if err != nil {
		return nil, err
	}
	if comment.AuthorID != requestingUserID {
		return nil, ErrNotCommentAuthor
	}

	mentionedIDs := []string(comment.MentionedUserIDs)
	if s.opts.RenotifyOnEdit {
		mentionedIDs = mention.Extract(newContent)
	}

	if err := s.commentRepo.UpdateContent(commentID, newContent, mentionedIDs, time.Now()); err != nil {
		return nil, err
	}

	if s.opts.RenotifyOnEdit {
		if task, err := s.taskRepo.FindByID(comment.TaskID); err == nil {
			s.notifyMentions(mentionedIDs, comment.MentionedUserIDs, requestingUserID, task, comment)
		}
	}

	return s.commentRepo.FindByID(commentID)
}

// Delete hard-deletes the author's own comment together with its replies.
func (s *CommentService) Delete(commentID, requestingUserID uuid.UUID) error {
	comment, err := s.findComment(commentID)
	if err != nil {
		return err
	}
	if comment.AuthorID != requestingUserID {
		return ErrNotCommentAuthor
	}
	return s.commentRepo.Delete(commentID)
}

// AddReaction records the user's reaction, replacing any reaction they
// already have on this comment.
func (s *CommentService) AddReaction(commentID, userID uuid.UUID, userName, emoji string) (*domain.Comment, error) {
	if emoji == "" {
		return nil, ErrInvalidEmoji
	}

	if _, err := s.findComment(commentID); err != nil {
		return nil, err
	}

	reaction := &domain.Reaction{
		CommentID: commentID,
		UserID:    userID,
		UserName:  userName,
		Emoji:     emoji,
		CreatedAt: time.Now(),
	}
	if err := s.commentRepo.UpsertReaction(reaction); err != nil {
		return nil, err
	}

	return s.commentRepo.FindByID(commentID)
}

// RemoveReaction removes the requester's own reaction. A reaction that does
// not exist and a reaction owned by someone else both come back as
// ErrReactionNotFound, so callers learn nothing about other users' reactions.
func (s *CommentService) RemoveReaction(commentID, reactionID, requestingUserID uuid.UUID) (*domain.Comment, error) {
	if _, err := s.findComment(commentID); err != nil {
		return nil, err
	}

	removed, err := s.commentRepo.DeleteReaction(commentID, reactionID, requestingUserID)
	if err != nil {
		return nil, err
	}
	if !removed {
		return nil, ErrReactionNotFound
	}

	return s.commentRepo.FindByID(commentID)
}

// List returns one newest-first page of a task's comments plus pagination
// totals.
func (s *CommentService) List(taskID uuid.UUID, page, pageSize int) ([]domain.Comment, int64, int, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}

	comments, total, err := s.commentRepo.GetByTaskID(taskID, page, pageSize)
	if err != nil {
		return nil, 0, 0, err
	}

	totalPages := int(math.Ceil(float64(total) / float64(pageSize)))
	return comments, total, totalPages, nil
}

func (s *CommentService) findComment(id uuid.UUID) (*domain.Comment, error) {
	comment, err := s.commentRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCommentNotFound
		}
		return nil, err
	}
	return comment, nil
}

// notifyMentions fans out mention notifications: unique targets only, the
// author never notifies themselves, and ids already notified before an edit
// are skipped. A sink failure is logged, never rolled back into the write.
func (s *CommentService) notifyMentions(mentionedIDs, alreadyNotified []string, authorID uuid.UUID, task *domain.Task, comment *domain.Comment) {
	previous := make(map[string]bool, len(alreadyNotified))
	for _, id := range alreadyNotified {
		previous[id] = true
	}

	var targets []uuid.UUID
	for _, id := range mention.Unique(mentionedIDs) {
		if previous[id] {
			continue
		}
		userID, err := uuid.Parse(id)
		if err != nil || userID == authorID {
			continue
		}
		targets = append(targets, userID)
	}

	if err := s.notificationService.NotifyMentioned(targets, task, comment); err != nil {
		log.Printf("failed to create mention notifications for comment %s: %v", comment.ID, err)
	}
}
