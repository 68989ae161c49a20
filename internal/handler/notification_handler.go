package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/taskhive/backend/internal/dto"
	"github.com/taskhive/backend/internal/middleware"
	"github.com/taskhive/backend/internal/service"
)

type NotificationHandler struct {
	service *service.NotificationService
}

func NewNotificationHandler(service *service.NotificationService) *NotificationHandler {
	return &NotificationHandler{service: service}
}

// List - GET /api/notifications?page&limit&unread
func (h *NotificationHandler) List(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.Fail("Not authorized. Try login again."))
	}

	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", 20)
	unreadOnly := c.QueryBool("unread", false)

	notifications, total, err := h.service.GetForUser(userID, unreadOnly, page, limit)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.Fail("Failed to load notifications"))
	}

	return c.JSON(fiber.Map{
		"status":        true,
		"notifications": notifications,
		"total":         total,
		"currentPage":   page,
	})
}

// MarkRead - PATCH /api/notifications/:id/read
func (h *NotificationHandler) MarkRead(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.Fail("Not authorized. Try login again."))
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.Fail("Invalid notification ID"))
	}

	if err := h.service.MarkAsRead(id, userID); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.Fail("Failed to mark notification as read"))
	}

	return c.JSON(dto.Success("Notification marked as read"))
}
