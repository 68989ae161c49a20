package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

type NotificationType string

const (
	NotifMention NotificationType = "mention"
)

// Base model shared by all entities. IDs are assigned in BeforeCreate so the
// same models work on Postgres and on the in-memory SQLite used in tests.
type BaseModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"createdAt"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updatedAt"`
}

func (b *BaseModel) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

// User
type User struct {
	BaseModel
	Name         string `gorm:"type:varchar(100);not null" json:"name"`
	Email        string `gorm:"type:varchar(255);not null;uniqueIndex" json:"email"`
	PasswordHash string `gorm:"type:varchar(255);not null" json:"-"`
	IsActive     bool   `gorm:"not null;default:true" json:"isActive"`
}

func (User) TableName() string { return "users" }

// Task is the comment subsystem's view of a task: existence plus title. Task
// lifecycle (stages, teams, assets) is owned elsewhere.
type Task struct {
	BaseModel
	Title string `gorm:"type:varchar(255);not null" json:"title"`
}

func (Task) TableName() string { return "tasks" }

// Comment
type Comment struct {
	BaseModel
	TaskID           uuid.UUID      `gorm:"type:uuid;not null;index:idx_comments_task_created,priority:1" json:"taskId"`
	AuthorID         uuid.UUID      `gorm:"type:uuid;not null;index" json:"authorId"`
	AuthorName       string         `gorm:"type:varchar(100);not null" json:"authorName"`
	Content          string         `gorm:"type:text;not null" json:"content"`
	MentionedUserIDs pq.StringArray `gorm:"type:text[]" json:"mentionedUserIds"`
	IsEdited         bool           `gorm:"default:false" json:"isEdited"`
	EditedAt         *time.Time     `json:"editedAt,omitempty"`
	ParentCommentID  *uuid.UUID     `gorm:"type:uuid;index" json:"parentCommentId,omitempty"`
	Reactions        []Reaction     `gorm:"foreignKey:CommentID;constraint:OnDelete:CASCADE" json:"reactions"`
}

func (Comment) TableName() string { return "comments" }

// Reaction rows carry a UNIQUE(comment_id, user_id) index so "at most one
// reaction per user per comment" is structural: a second reaction from the
// same user is an upsert, never a second row.
type Reaction struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CommentID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_reactions_comment_user,priority:1" json:"-"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_reactions_comment_user,priority:2" json:"userId"`
	UserName  string    `gorm:"type:varchar(100);not null" json:"userName"`
	Emoji     string    `gorm:"type:varchar(32);not null" json:"emoji"`
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"createdAt"`
}

func (Reaction) TableName() string { return "comment_reactions" }

func (r *Reaction) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// Notification is the mention sink: one row per notified user.
type Notification struct {
	ID        uuid.UUID        `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID        `gorm:"type:uuid;not null;index" json:"userId"`
	Type      NotificationType `gorm:"type:varchar(32);not null" json:"type"`
	TaskID    uuid.UUID        `gorm:"type:uuid;not null" json:"taskId"`
	Text      string           `gorm:"type:text;not null" json:"text"`
	IsRead    bool             `gorm:"default:false" json:"isRead"`
	CreatedAt time.Time        `gorm:"not null;default:CURRENT_TIMESTAMP" json:"createdAt"`
}

func (Notification) TableName() string { return "notifications" }

func (n *Notification) BeforeCreate(tx *gorm.DB) error {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	return nil
}
