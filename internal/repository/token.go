package repository

import (
	"context"
	"errors"
	"time"

	"quill/internal/models"

	"gorm.io/gorm"
)

// TokenRepository defines the interface for API token data operations
type TokenRepository interface {
	Create(ctx context.Context, token *models.Token) error
	GetByHash(ctx context.Context, hash string) (*models.Token, error)
	TouchLastUsed(ctx context.Context, id uint) error
	DeleteAllForUser(ctx context.Context, userID uint) error
}

// tokenRepository implements TokenRepository
type tokenRepository struct {
	db *gorm.DB
}

// NewTokenRepository creates a new token repository
func NewTokenRepository(db *gorm.DB) TokenRepository {
	return &tokenRepository{db: db}
}

func (r *tokenRepository) Create(ctx context.Context, token *models.Token) error {
	return r.db.WithContext(ctx).Create(token).Error
}

// GetByHash returns (nil, nil) when no token matches the hash.
func (r *tokenRepository) GetByHash(ctx context.Context, hash string) (*models.Token, error) {
	var token models.Token
	err := r.db.WithContext(ctx).Preload("User").Where("hash = ?", hash).First(&token).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &token, nil
}

func (r *tokenRepository) TouchLastUsed(ctx context.Context, id uint) error {
	now := time.Now().UTC()
	return r.db.WithContext(ctx).Model(&models.Token{}).Where("id = ?", id).Update("last_used_at", now).Error
}

// DeleteAllForUser revokes every token of the user. Deleting zero rows is fine.
func (r *tokenRepository) DeleteAllForUser(ctx context.Context, userID uint) error {
	return r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&models.Token{}).Error
}
