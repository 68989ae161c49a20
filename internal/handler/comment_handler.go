package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/taskhive/backend/internal/dto"
	"github.com/taskhive/backend/internal/middleware"
	"github.com/taskhive/backend/internal/service"
)

type CommentHandler struct {
	service *service.CommentService
}

func NewCommentHandler(service *service.CommentService) *CommentHandler {
	return &CommentHandler{service: service}
}

// GetTaskComments - GET /api/comment/task/:taskId?page&limit
func (h *CommentHandler) GetTaskComments(c *fiber.Ctx) error {
	taskID, err := uuid.Parse(c.Params("taskId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.Fail("Invalid task ID"))
	}

	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", 20)

	comments, total, totalPages, err := h.service.List(taskID, page, limit)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.Fail("Failed to load comments"))
	}

	return c.JSON(dto.Response{
		Status:        true,
		Comments:      dto.ToCommentResponses(comments),
		CurrentPage:   page,
		TotalPages:    totalPages,
		TotalComments: total,
	})
}

// Create - POST /api/comment
func (h *CommentHandler) Create(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.Fail("Not authorized. Try login again."))
	}
	userName := middleware.GetUserName(c)

	var req dto.CreateCommentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.Fail("Invalid request body"))
	}
	if req.Content == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.Fail("Content is required"))
	}

	comment, err := h.service.Create(req.TaskID, userID, userName, req.Content, req.ParentComment)
	if err != nil {
		return h.commentError(c, err)
	}

	resp := dto.ToCommentResponse(comment)
	return c.Status(fiber.StatusCreated).JSON(dto.Response{
		Status:  true,
		Message: "Comment created successfully",
		Comment: &resp,
	})
}

// Update - PUT /api/comment/:commentId
func (h *CommentHandler) Update(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.Fail("Not authorized. Try login again."))
	}

	commentID, err := uuid.Parse(c.Params("commentId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.Fail("Invalid comment ID"))
	}

	var req dto.UpdateCommentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.Fail("Invalid request body"))
	}
	if req.Content == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.Fail("Content is required"))
	}

	comment, err := h.service.Update(commentID, userID, req.Content)
	if err != nil {
		return h.commentError(c, err)
	}

	resp := dto.ToCommentResponse(comment)
	return c.JSON(dto.Response{
		Status:  true,
		Message: "Comment updated successfully",
		Comment: &resp,
	})
}

// Delete - DELETE /api/comment/:commentId
func (h *CommentHandler) Delete(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.Fail("Not authorized. Try login again."))
	}

	commentID, err := uuid.Parse(c.Params("commentId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.Fail("Invalid comment ID"))
	}

	if err := h.service.Delete(commentID, userID); err != nil {
		return h.commentError(c, err)
	}

	return c.JSON(dto.Success("Comment deleted successfully"))
}

// AddReaction - POST /api/comment/:commentId/reactions
func (h *CommentHandler) AddReaction(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.Fail("Not authorized. Try login again."))
	}
	userName := middleware.GetUserName(c)

	commentID, err := uuid.Parse(c.Params("commentId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.Fail("Invalid comment ID"))
	}

	var req dto.AddReactionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.Fail("Invalid request body"))
	}

	comment, err := h.service.AddReaction(commentID, userID, userName, req.Emoji)
	if err != nil {
		return h.commentError(c, err)
	}

	resp := dto.ToCommentResponse(comment)
	return c.JSON(dto.Response{
		Status:  true,
		Message: "Reaction saved",
		Comment: &resp,
	})
}

// RemoveReaction - DELETE /api/comment/:commentId/reactions/:reactionId
func (h *CommentHandler) RemoveReaction(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.Fail("Not authorized. Try login again."))
	}

	commentID, err := uuid.Parse(c.Params("commentId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.Fail("Invalid comment ID"))
	}
	reactionID, err := uuid.Parse(c.Params("reactionId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.Fail("Invalid reaction ID"))
	}

	comment, err := h.service.RemoveReaction(commentID, reactionID, userID)
	if err != nil {
		return h.commentError(c, err)
	}

	resp := dto.ToCommentResponse(comment)
	return c.JSON(dto.Response{
		Status:  true,
		Message: "Reaction removed successfully",
		Comment: &resp,
	})
}

// commentError maps service sentinel errors onto the response envelope.
func (h *CommentHandler) commentError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrTaskNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.Fail("Task not found"))
	case errors.Is(err, service.ErrCommentNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.Fail("Comment not found"))
	case errors.Is(err, service.ErrReactionNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.Fail("Reaction not found"))
	case errors.Is(err, service.ErrNotCommentAuthor):
		return c.Status(fiber.StatusForbidden).JSON(dto.Fail("Not authorized to modify this comment"))
	case errors.Is(err, service.ErrInvalidEmoji):
		return c.Status(fiber.StatusBadRequest).JSON(dto.Fail("Emoji is required and must be a string"))
	case errors.Is(err, service.ErrInvalidParent):
		return c.Status(fiber.StatusBadRequest).JSON(dto.Fail("Invalid parent comment"))
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.Fail("Something went wrong"))
	}
}
