package server

import (
	"log/slog"
	"strconv"

	"quill/internal/middleware"
	"quill/internal/models"

	"github.com/gofiber/fiber/v2"
)

// parseID parses the :id route parameter.
func parseID(c *fiber.Ctx) (uint, error) {
	raw := c.Params("id")
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		return 0, models.NewValidationError("Invalid ID format")
	}
	return uint(id), nil
}

// parsePage parses the page query parameter, defaulting to 1.
func parsePage(c *fiber.Ctx) int {
	page, err := strconv.Atoi(c.Query("page", "1"))
	if err != nil || page < 1 {
		return 1
	}
	return page
}

// statusForError maps service error codes to HTTP statuses.
func statusForError(err error) int {
	appErr, ok := err.(*models.AppError)
	if !ok {
		return fiber.StatusInternalServerError
	}
	switch appErr.Code {
	case models.CodeValidation:
		return fiber.StatusUnprocessableEntity
	case models.CodeUnauthorized:
		return fiber.StatusUnauthorized
	case models.CodeForbidden:
		return fiber.StatusForbidden
	case models.CodeNotFound:
		return fiber.StatusNotFound
	default:
		return fiber.StatusInternalServerError
	}
}

// respondError renders err in the error envelope. Internal errors are logged
// with their cause and surfaced with a generic message.
func (s *Server) respondError(c *fiber.Ctx, err error) error {
	status := statusForError(err)
	if status == fiber.StatusInternalServerError {
		middleware.Logger.ErrorContext(c.UserContext(), "handler error",
			slog.String("path", c.Path()), slog.Any("error", err))
		return models.RespondWithError(c, status, models.NewInternalError(nil))
	}
	return models.RespondWithError(c, status, err)
}

// respondSuccess renders data in the success envelope.
func respondSuccess(c *fiber.Ctx, status int, message string, data any) error {
	return c.Status(status).JSON(models.Response{
		Status:  models.StatusSuccess,
		Message: message,
		Data:    data,
	})
}

// respondPage renders a list page with pagination metadata.
func respondPage(c *fiber.Ctx, data any, meta *models.Meta) error {
	return c.JSON(models.Response{
		Status: models.StatusSuccess,
		Data:   data,
		Meta:   meta,
	})
}
