package server

import (
	"context"
	"strings"

	"quill/internal/middleware"
	"quill/internal/models"

	"github.com/gofiber/fiber/v2"
)

// AuthRequired resolves the bearer token to a user and rejects the request when
// it is missing, unknown or revoked.
func (s *Server) AuthRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		plaintext := bearerToken(c)
		if plaintext == "" {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Unauthenticated"))
		}

		user, err := s.authService.Verify(c.UserContext(), plaintext)
		if err != nil {
			if appErr, ok := err.(*models.AppError); ok && appErr.Code == models.CodeUnauthorized {
				return models.RespondWithError(c, fiber.StatusUnauthorized, appErr)
			}
			return s.respondError(c, err)
		}

		c.Locals("userID", user.ID)
		c.SetUserContext(context.WithValue(c.UserContext(), middleware.UserIDKey, user.ID))
		return c.Next()
	}
}

// currentUserID returns the authenticated user set by AuthRequired.
func currentUserID(c *fiber.Ctx) uint {
	id, _ := c.Locals("userID").(uint)
	return id
}

// optionalUserID resolves a bearer token on a public route so responses can
// carry is_owner. An absent or invalid token is simply an anonymous request.
func (s *Server) optionalUserID(c *fiber.Ctx) uint {
	plaintext := bearerToken(c)
	if plaintext == "" {
		return 0
	}
	user, err := s.authService.Verify(c.UserContext(), plaintext)
	if err != nil {
		return 0
	}
	return user.ID
}

func bearerToken(c *fiber.Ctx) string {
	header := c.Get(fiber.HeaderAuthorization)
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return ""
	}
	return strings.TrimSpace(header[len(prefix):])
}
