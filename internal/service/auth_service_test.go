package service

import (
	"context"
	"testing"

	"quill/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestRegisterIssuesToken(t *testing.T) {
	userRepo := noopUserRepo()
	tokenRepo := noopTokenRepo()

	var createdToken *models.Token
	tokenRepo.createFn = func(_ context.Context, tok *models.Token) error {
		tok.ID = 1
		createdToken = tok
		return nil
	}

	svc := NewAuthService(userRepo, tokenRepo)
	user, plaintext, err := svc.Register(context.Background(), RegisterInput{
		Name: "Ada", Email: "ada@example.com", Password: "secret-password",
	})
	require.NoError(t, err)
	assert.Equal(t, "Ada", user.Name)
	assert.Len(t, plaintext, 64, "32 random bytes hex encoded")

	require.NotNil(t, createdToken)
	assert.NotEqual(t, plaintext, createdToken.Hash, "plaintext must never be stored")
	assert.Equal(t, hashToken(plaintext), createdToken.Hash)

	// Stored password is a bcrypt hash of the input
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.Password), []byte("secret-password")))
}

func TestRegisterValidatesFields(t *testing.T) {
	svc := NewAuthService(noopUserRepo(), noopTokenRepo())

	_, _, err := svc.Register(context.Background(), RegisterInput{
		Name: "", Email: "bad", Password: "short",
	})
	require.Error(t, err)

	appErr, ok := err.(*models.AppError)
	require.True(t, ok)
	assert.Equal(t, models.CodeValidation, appErr.Code)
	assert.Contains(t, appErr.Fields, "name")
	assert.Contains(t, appErr.Fields, "email")
	assert.Contains(t, appErr.Fields, "password")
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	userRepo := noopUserRepo()
	userRepo.getByEmailFn = func(_ context.Context, email string) (*models.User, error) {
		return &models.User{ID: 1, Email: email}, nil
	}

	svc := NewAuthService(userRepo, noopTokenRepo())
	_, _, err := svc.Register(context.Background(), RegisterInput{
		Name: "Ada", Email: "taken@example.com", Password: "secret-password",
	})
	require.Error(t, err)

	appErr, ok := err.(*models.AppError)
	require.True(t, ok)
	assert.Equal(t, models.CodeValidation, appErr.Code)
	assert.Contains(t, appErr.Fields, "email")
}

func TestLoginSuccess(t *testing.T) {
	hashed, err := bcrypt.GenerateFromPassword([]byte("correct-horse"), bcrypt.DefaultCost)
	require.NoError(t, err)

	userRepo := noopUserRepo()
	userRepo.getByEmailFn = func(_ context.Context, _ string) (*models.User, error) {
		return &models.User{ID: 3, Email: "ada@example.com", Password: string(hashed)}, nil
	}

	svc := NewAuthService(userRepo, noopTokenRepo())
	user, token, err := svc.Login(context.Background(), "ada@example.com", "correct-horse")
	require.NoError(t, err)
	assert.Equal(t, uint(3), user.ID)
	assert.NotEmpty(t, token)
}

func TestLoginWrongPassword(t *testing.T) {
	hashed, _ := bcrypt.GenerateFromPassword([]byte("correct-horse"), bcrypt.DefaultCost)

	userRepo := noopUserRepo()
	userRepo.getByEmailFn = func(_ context.Context, _ string) (*models.User, error) {
		return &models.User{ID: 3, Password: string(hashed)}, nil
	}

	svc := NewAuthService(userRepo, noopTokenRepo())
	_, _, err := svc.Login(context.Background(), "ada@example.com", "wrong")
	require.Error(t, err)

	appErr, ok := err.(*models.AppError)
	require.True(t, ok)
	assert.Equal(t, models.CodeUnauthorized, appErr.Code)
	assert.Equal(t, "Invalid login credentials", appErr.Message)
}

func TestLoginUnknownEmailSameError(t *testing.T) {
	svc := NewAuthService(noopUserRepo(), noopTokenRepo())

	_, _, err := svc.Login(context.Background(), "nobody@example.com", "whatever")
	require.Error(t, err)

	appErr, ok := err.(*models.AppError)
	require.True(t, ok)
	assert.Equal(t, "Invalid login credentials", appErr.Message,
		"unknown email and wrong password must be indistinguishable")
}

func TestLogoutRevokesAllTokens(t *testing.T) {
	tokenRepo := noopTokenRepo()
	var revokedFor uint
	tokenRepo.deleteAllForUserFn = func(_ context.Context, userID uint) error {
		revokedFor = userID
		return nil
	}

	svc := NewAuthService(noopUserRepo(), tokenRepo)
	require.NoError(t, svc.Logout(context.Background(), 7))
	assert.Equal(t, uint(7), revokedFor)

	// Second logout with nothing left to revoke is fine
	assert.NoError(t, svc.Logout(context.Background(), 7))
}

func TestVerifyResolvesUserAndTouchesToken(t *testing.T) {
	tokenRepo := noopTokenRepo()
	touched := uint(0)
	tokenRepo.getByHashFn = func(_ context.Context, hash string) (*models.Token, error) {
		assert.Equal(t, hashToken("the-plaintext"), hash)
		return &models.Token{ID: 9, UserID: 4, User: models.User{ID: 4, Name: "Ada"}}, nil
	}
	tokenRepo.touchLastUsedFn = func(_ context.Context, id uint) error {
		touched = id
		return nil
	}

	svc := NewAuthService(noopUserRepo(), tokenRepo)
	user, err := svc.Verify(context.Background(), "the-plaintext")
	require.NoError(t, err)
	assert.Equal(t, uint(4), user.ID)
	assert.Equal(t, uint(9), touched)
}

func TestVerifyRejectsUnknownToken(t *testing.T) {
	svc := NewAuthService(noopUserRepo(), noopTokenRepo())

	_, err := svc.Verify(context.Background(), "revoked-or-bogus")
	require.Error(t, err)

	appErr, ok := err.(*models.AppError)
	require.True(t, ok)
	assert.Equal(t, models.CodeUnauthorized, appErr.Code)

	_, err = svc.Verify(context.Background(), "")
	assert.Error(t, err)
}
