package server

import (
	"quill/internal/models"

	"github.com/gofiber/fiber/v2"
)

type addCommentRequest struct {
	Content string `json:"content" form:"content"`
}

func (s *Server) handleAddComment(c *fiber.Ctx) error {
	postID, err := parseID(c)
	if err != nil {
		return s.respondError(c, err)
	}

	var req addCommentRequest
	if err := c.BodyParser(&req); err != nil {
		return s.respondError(c, models.NewValidationError("Invalid request body"))
	}

	comment, err := s.commentService.Create(c.UserContext(), currentUserID(c), postID, req.Content)
	if err != nil {
		return s.respondError(c, err)
	}

	return respondSuccess(c, fiber.StatusCreated, "Comment added successfully", newCommentResource(comment))
}

func (s *Server) handleDeleteComment(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return s.respondError(c, err)
	}

	if err := s.commentService.Delete(c.UserContext(), currentUserID(c), id); err != nil {
		return s.respondError(c, err)
	}
	return respondSuccess(c, fiber.StatusOK, "Comment deleted successfully", nil)
}
