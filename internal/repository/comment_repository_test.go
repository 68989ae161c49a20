package repository

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taskhive/backend/internal/domain"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupTestDB creates an in-memory SQLite database for testing
func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&domain.User{},
		&domain.Task{},
		&domain.Comment{},
		&domain.Reaction{},
		&domain.Notification{},
	)
	require.NoError(t, err)

	return db
}

func createTask(t *testing.T, db *gorm.DB) *domain.Task {
	task := &domain.Task{Title: "Design landing page"}
	require.NoError(t, db.Create(task).Error)
	return task
}

func createComment(t *testing.T, repo *CommentRepository, taskID, authorID uuid.UUID, content string) *domain.Comment {
	comment := &domain.Comment{
		TaskID:     taskID,
		AuthorID:   authorID,
		AuthorName: "Ann",
		Content:    content,
	}
	require.NoError(t, repo.Create(comment))
	return comment
}

func TestGetByTaskID_PaginationTotals(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCommentRepository(db)
	task := createTask(t, db)
	author := uuid.New()

	base := time.Now().Add(-time.Hour)
	for i := 0; i < 45; i++ {
		comment := &domain.Comment{
			TaskID:     task.ID,
			AuthorID:   author,
			AuthorName: "Ann",
			Content:    fmt.Sprintf("comment %d", i),
		}
		comment.CreatedAt = base.Add(time.Duration(i) * time.Second)
		require.NoError(t, repo.Create(comment))
	}

	page1, total, err := repo.GetByTaskID(task.ID, 1, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(45), total)
	assert.Len(t, page1, 20)

	page3, _, err := repo.GetByTaskID(task.ID, 3, 20)
	require.NoError(t, err)
	assert.Len(t, page3, 5)
}

func TestGetByTaskID_NewestFirst(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCommentRepository(db)
	task := createTask(t, db)
	author := uuid.New()

	old := createComment(t, repo, task.ID, author, "old")
	require.NoError(t, db.Model(old).Update("created_at", time.Now().Add(-time.Hour)).Error)
	createComment(t, repo, task.ID, author, "new")

	comments, _, err := repo.GetByTaskID(task.ID, 1, 20)
	require.NoError(t, err)
	require.Len(t, comments, 2)
	assert.Equal(t, "new", comments[0].Content)
	assert.Equal(t, "old", comments[1].Content)
}

func TestUpsertReaction_OneRowPerUser(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCommentRepository(db)
	task := createTask(t, db)
	comment := createComment(t, repo, task.ID, uuid.New(), "react to me")
	user := uuid.New()

	emojis := []string{"👍", "❤️", "🔥"}
	for i, emoji := range emojis {
		err := repo.UpsertReaction(&domain.Reaction{
			CommentID: comment.ID,
			UserID:    user,
			UserName:  "Ann",
			Emoji:     emoji,
			CreatedAt: time.Now().Add(time.Duration(i) * time.Second),
		})
		require.NoError(t, err)
	}

	reloaded, err := repo.FindByID(comment.ID)
	require.NoError(t, err)
	require.Len(t, reloaded.Reactions, 1, "repeated reactions from one user collapse to one row")
	assert.Equal(t, "🔥", reloaded.Reactions[0].Emoji, "last emoji submitted wins")
	assert.Equal(t, user, reloaded.Reactions[0].UserID)
}

func TestUpsertReaction_DistinctUsersKept(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCommentRepository(db)
	task := createTask(t, db)
	comment := createComment(t, repo, task.ID, uuid.New(), "react to me")

	for i := 0; i < 3; i++ {
		err := repo.UpsertReaction(&domain.Reaction{
			CommentID: comment.ID,
			UserID:    uuid.New(),
			UserName:  "user",
			Emoji:     "👍",
			CreatedAt: time.Now(),
		})
		require.NoError(t, err)
	}

	reloaded, err := repo.FindByID(comment.ID)
	require.NoError(t, err)
	assert.Len(t, reloaded.Reactions, 3)
}

func TestDeleteReaction_OwnershipCollapsedIntoExistence(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCommentRepository(db)
	task := createTask(t, db)
	comment := createComment(t, repo, task.ID, uuid.New(), "react to me")
	owner := uuid.New()

	reaction := &domain.Reaction{
		CommentID: comment.ID,
		UserID:    owner,
		UserName:  "Ann",
		Emoji:     "👍",
		CreatedAt: time.Now(),
	}
	require.NoError(t, repo.UpsertReaction(reaction))

	// Someone else's delete looks exactly like deleting a missing reaction.
	removed, err := repo.DeleteReaction(comment.ID, reaction.ID, uuid.New())
	require.NoError(t, err)
	assert.False(t, removed)

	reloaded, err := repo.FindByID(comment.ID)
	require.NoError(t, err)
	assert.Len(t, reloaded.Reactions, 1, "foreign delete must not mutate state")

	removed, err = repo.DeleteReaction(comment.ID, reaction.ID, owner)
	require.NoError(t, err)
	assert.True(t, removed)

	reloaded, err = repo.FindByID(comment.ID)
	require.NoError(t, err)
	assert.Empty(t, reloaded.Reactions)
}

func TestDelete_CascadesRepliesAndReactions(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCommentRepository(db)
	task := createTask(t, db)
	author := uuid.New()

	parent := createComment(t, repo, task.ID, author, "parent")
	reply := &domain.Comment{
		TaskID:          task.ID,
		AuthorID:        author,
		AuthorName:      "Ann",
		Content:         "reply",
		ParentCommentID: &parent.ID,
	}
	require.NoError(t, repo.Create(reply))
	require.NoError(t, repo.UpsertReaction(&domain.Reaction{
		CommentID: reply.ID,
		UserID:    uuid.New(),
		UserName:  "Bob",
		Emoji:     "👍",
		CreatedAt: time.Now(),
	}))

	require.NoError(t, repo.Delete(parent.ID))

	_, err := repo.FindByID(parent.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	_, err = repo.FindByID(reply.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound, "replies are deleted with their parent")

	var orphaned int64
	db.Model(&domain.Reaction{}).Where("comment_id = ?", reply.ID).Count(&orphaned)
	assert.Equal(t, int64(0), orphaned, "reply reactions must not be left behind")
}

func TestUpdateContent_TargetedColumnsOnly(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCommentRepository(db)
	task := createTask(t, db)
	comment := createComment(t, repo, task.ID, uuid.New(), "original")

	// A reaction added after the comment was loaded must survive the edit.
	require.NoError(t, repo.UpsertReaction(&domain.Reaction{
		CommentID: comment.ID,
		UserID:    uuid.New(),
		UserName:  "Bob",
		Emoji:     "👍",
		CreatedAt: time.Now(),
	}))

	editedAt := time.Now()
	require.NoError(t, repo.UpdateContent(comment.ID, "edited", []string{"u1"}, editedAt))

	reloaded, err := repo.FindByID(comment.ID)
	require.NoError(t, err)
	assert.Equal(t, "edited", reloaded.Content)
	assert.True(t, reloaded.IsEdited)
	require.NotNil(t, reloaded.EditedAt)
	assert.Equal(t, []string{"u1"}, []string(reloaded.MentionedUserIDs))
	assert.Len(t, reloaded.Reactions, 1, "edit must not clobber concurrent reaction writes")
}
