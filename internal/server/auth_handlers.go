package server

import (
	"quill/internal/models"
	"quill/internal/service"

	"github.com/gofiber/fiber/v2"
)

type registerRequest struct {
	Name     string `json:"name" form:"name"`
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

type loginRequest struct {
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

// authPayload is the data section returned by register and login.
type authPayload struct {
	User        UserResource `json:"user"`
	AccessToken string       `json:"access_token"`
	TokenType   string       `json:"token_type"`
}

func (s *Server) handleRegister(c *fiber.Ctx) error {
	var req registerRequest
	if err := c.BodyParser(&req); err != nil {
		return s.respondError(c, models.NewValidationError("Invalid request body"))
	}

	user, token, err := s.authService.Register(c.UserContext(), service.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return s.respondError(c, err)
	}

	return respondSuccess(c, fiber.StatusCreated, "User registered successfully", authPayload{
		User:        newUserResource(user),
		AccessToken: token,
		TokenType:   "Bearer",
	})
}

func (s *Server) handleLogin(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return s.respondError(c, models.NewValidationError("Invalid request body"))
	}

	user, token, err := s.authService.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return s.respondError(c, err)
	}

	return respondSuccess(c, fiber.StatusOK, "Login successful", authPayload{
		User:        newUserResource(user),
		AccessToken: token,
		TokenType:   "Bearer",
	})
}

func (s *Server) handleLogout(c *fiber.Ctx) error {
	if err := s.authService.Logout(c.UserContext(), currentUserID(c)); err != nil {
		return s.respondError(c, err)
	}
	return respondSuccess(c, fiber.StatusOK, "Logged out successfully", nil)
}

func (s *Server) handleVerifyToken(c *fiber.Ctx) error {
	// AuthRequired already rejected invalid tokens
	return respondSuccess(c, fiber.StatusOK, "", fiber.Map{"valid": true})
}
