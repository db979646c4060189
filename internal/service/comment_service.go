package service

import (
	"context"
	"errors"
	"unicode/utf8"

	"quill/internal/authz"
	"quill/internal/models"
	"quill/internal/repository"

	"gorm.io/gorm"
)

// CommentService handles comment business logic
type CommentService struct {
	commentRepo repository.CommentRepository
	postRepo    repository.PostRepository
}

// NewCommentService creates a new comment service
func NewCommentService(commentRepo repository.CommentRepository, postRepo repository.PostRepository) *CommentService {
	return &CommentService{commentRepo: commentRepo, postRepo: postRepo}
}

// Create adds a comment by userID to the given post.
func (s *CommentService) Create(ctx context.Context, userID, postID uint, content string) (*models.Comment, error) {
	if content == "" {
		return nil, models.NewFieldValidationError("The given data was invalid", map[string][]string{
			"content": {"content is required"},
		})
	}
	if utf8.RuneCountInString(content) > 500 {
		return nil, models.NewFieldValidationError("The given data was invalid", map[string][]string{
			"content": {"content must not exceed 500 characters"},
		})
	}

	if _, err := s.postRepo.GetByID(ctx, postID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Post", postID)
		}
		return nil, models.NewInternalError(err)
	}

	comment := &models.Comment{
		Content: content,
		UserID:  userID,
		PostID:  postID,
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, models.NewInternalError(err)
	}
	return comment, nil
}

// Delete removes a comment the actor owns.
func (s *CommentService) Delete(ctx context.Context, actorID, commentID uint) error {
	comment, err := s.commentRepo.GetByID(ctx, commentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.NewNotFoundError("Comment", commentID)
		}
		return models.NewInternalError(err)
	}
	if !authz.CanMutateComment(actorID, comment) {
		return models.NewForbiddenError("You are not allowed to modify this comment")
	}

	if err := s.commentRepo.Delete(ctx, commentID); err != nil {
		return models.NewInternalError(err)
	}
	return nil
}
