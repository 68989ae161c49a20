package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/taskhive/backend/internal/dto"
	"github.com/taskhive/backend/internal/repository"
	"gorm.io/gorm"
)

// TaskHandler exposes the task lookup contract the comment subsystem
// consumes: existence plus title, nothing more.
type TaskHandler struct {
	taskRepo *repository.TaskRepository
}

func NewTaskHandler(taskRepo *repository.TaskRepository) *TaskHandler {
	return &TaskHandler{taskRepo: taskRepo}
}

// GetByID - GET /api/task/:id
func (h *TaskHandler) GetByID(c *fiber.Ctx) error {
	taskID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.Fail("Invalid task ID"))
	}

	task, err := h.taskRepo.FindByID(taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.Fail("Task not found"))
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.Fail("Something went wrong"))
	}

	return c.JSON(dto.Response{
		Status: true,
		Task:   &dto.TaskResponse{ID: task.ID, Title: task.Title},
	})
}
