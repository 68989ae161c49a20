package repository

import (
	"github.com/google/uuid"
	"github.com/taskhive/backend/internal/domain"
	"gorm.io/gorm"
)

// TaskRepository is the comment subsystem's read-only view of tasks. Task
// CRUD belongs to the task service; this exists only to answer "does this
// task exist, and what is it called".
type TaskRepository struct {
	db *gorm.DB
}

func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

func (r *TaskRepository) FindByID(id uuid.UUID) (*domain.Task, error) {
	var task domain.Task
	err := r.db.First(&task, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &task, nil
}
