package server

import (
	"quill/internal/models"
	"quill/internal/service"

	"github.com/gofiber/fiber/v2"
)

type updateUserRequest struct {
	Name     *string `json:"name" form:"name"`
	Email    *string `json:"email" form:"email"`
	Password *string `json:"password" form:"password"`
}

func (s *Server) handleCurrentUser(c *fiber.Ctx) error {
	user, err := s.userService.Get(c.UserContext(), currentUserID(c))
	if err != nil {
		return s.respondError(c, err)
	}
	return respondSuccess(c, fiber.StatusOK, "", newUserResource(user))
}

func (s *Server) handleUpdateUser(c *fiber.Ctx) error {
	var req updateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return s.respondError(c, models.NewValidationError("Invalid request body"))
	}

	user, err := s.userService.UpdateProfile(c.UserContext(), currentUserID(c), service.UpdateProfileInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return s.respondError(c, err)
	}

	return respondSuccess(c, fiber.StatusOK, "Profile updated successfully", newUserResource(user))
}
