// Package service contains the business logic of the application.
package service

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"quill/internal/models"
	"quill/internal/observability"
	"quill/internal/repository"
	"quill/internal/validation"

	"golang.org/x/crypto/bcrypt"
)

// RegisterInput carries the fields of a registration request.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

// AuthService handles registration, login and API token verification.
type AuthService struct {
	userRepo  repository.UserRepository
	tokenRepo repository.TokenRepository
}

// NewAuthService creates a new auth service
func NewAuthService(userRepo repository.UserRepository, tokenRepo repository.TokenRepository) *AuthService {
	return &AuthService{userRepo: userRepo, tokenRepo: tokenRepo}
}

// Register creates a user account and issues its first API token.
// The returned token is the plaintext; only its hash is stored.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*models.User, string, error) {
	fields := map[string][]string{}
	if err := validation.ValidateName(input.Name); err != nil {
		fields["name"] = append(fields["name"], err.Error())
	}
	if err := validation.ValidateEmail(input.Email); err != nil {
		fields["email"] = append(fields["email"], err.Error())
	}
	if err := validation.ValidatePassword(input.Password); err != nil {
		fields["password"] = append(fields["password"], err.Error())
	}
	if len(fields) > 0 {
		return nil, "", models.NewFieldValidationError("The given data was invalid", fields)
	}

	existing, err := s.userRepo.GetByEmail(ctx, input.Email)
	if err != nil {
		return nil, "", models.NewInternalError(err)
	}
	if existing != nil {
		return nil, "", models.NewFieldValidationError("The given data was invalid", map[string][]string{
			"email": {"The email has already been taken"},
		})
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", models.NewInternalError(err)
	}

	user := &models.User{
		Name:     input.Name,
		Email:    input.Email,
		Password: string(hashed),
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		// Concurrent registration with the same address
		if repository.IsUniqueViolation(err) {
			return nil, "", models.NewFieldValidationError("The given data was invalid", map[string][]string{
				"email": {"The email has already been taken"},
			})
		}
		return nil, "", models.NewInternalError(err)
	}

	token, err := s.issueToken(ctx, user.ID, "register")
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// Login verifies credentials and issues a fresh API token. Whether the email
// is unknown or the password wrong, the caller sees the same error.
func (s *AuthService) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, "", models.NewInternalError(err)
	}
	if user == nil {
		return nil, "", models.NewUnauthorizedError("Invalid login credentials")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, "", models.NewUnauthorizedError("Invalid login credentials")
	}

	token, err := s.issueToken(ctx, user.ID, "login")
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// Logout revokes every token of the user. Logging out twice is not an error.
func (s *AuthService) Logout(ctx context.Context, userID uint) error {
	if err := s.tokenRepo.DeleteAllForUser(ctx, userID); err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

// Verify resolves a plaintext bearer token to its user and records the use.
func (s *AuthService) Verify(ctx context.Context, plaintext string) (*models.User, error) {
	if plaintext == "" {
		return nil, models.NewUnauthorizedError("Unauthenticated")
	}

	token, err := s.tokenRepo.GetByHash(ctx, hashToken(plaintext))
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	if token == nil {
		return nil, models.NewUnauthorizedError("Unauthenticated")
	}

	// Best effort; verification must not fail on a bookkeeping write
	_ = s.tokenRepo.TouchLastUsed(ctx, token.ID)

	return &token.User, nil
}

func (s *AuthService) issueToken(ctx context.Context, userID uint, trigger string) (string, error) {
	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return "", models.NewInternalError(fmt.Errorf("generate token: %w", err))
	}
	plaintext := hex.EncodeToString(raw)

	token := &models.Token{
		UserID: userID,
		Name:   trigger,
		Hash:   hashToken(plaintext),
	}
	if err := s.tokenRepo.Create(ctx, token); err != nil {
		return "", models.NewInternalError(err)
	}

	observability.TokensIssued.WithLabelValues(trigger).Inc()
	return plaintext, nil
}

func hashToken(plaintext string) string {
	sum := sha256.Sum256([]byte(plaintext))
	return hex.EncodeToString(sum[:])
}
