package service

import (
	"context"
	"errors"
	"log/slog"
	"time"
	"unicode/utf8"

	"quill/internal/authz"
	"quill/internal/middleware"
	"quill/internal/models"
	"quill/internal/repository"

	"gorm.io/gorm"
)

// DefaultPerPage is the fixed page size of the post listing.
const DefaultPerPage = 10

// ImageStore abstracts image persistence for posts.
type ImageStore interface {
	Save(content []byte, filename string) (string, error)
	Delete(rel string) error
	URL(rel string) string
}

// CreatePostInput carries the fields of a post creation request.
type CreatePostInput struct {
	Title       string
	Content     string
	PublishedAt *time.Time
	// Image is the raw upload; nil means no image.
	Image         []byte
	ImageFilename string
}

// UpdatePostInput carries the fields of a post update request. Nil pointers
// leave the corresponding field unchanged.
type UpdatePostInput struct {
	Title       *string
	Content     *string
	PublishedAt *time.Time
	// ClearPublishedAt reverts the post to a draft.
	ClearPublishedAt bool
	Image            []byte
	ImageFilename    string
}

// ListPostsInput narrows the post listing.
type ListPostsInput struct {
	Search   string
	AuthorID uint
	Page     int
}

// PostService handles post business logic
type PostService struct {
	postRepo repository.PostRepository
	images   ImageStore
}

// NewPostService creates a new post service
func NewPostService(postRepo repository.PostRepository, images ImageStore) *PostService {
	return &PostService{postRepo: postRepo, images: images}
}

// List returns one page of posts plus pagination metadata.
func (s *PostService) List(ctx context.Context, input ListPostsInput) ([]*models.Post, *models.Meta, error) {
	page := input.Page
	if page < 1 {
		page = 1
	}

	posts, total, err := s.postRepo.List(ctx, repository.PostFilter{
		Search:   input.Search,
		AuthorID: input.AuthorID,
		Page:     page,
		PerPage:  DefaultPerPage,
	})
	if err != nil {
		return nil, nil, models.NewInternalError(err)
	}

	lastPage := int(total / DefaultPerPage)
	if total%DefaultPerPage != 0 {
		lastPage++
	}
	if lastPage < 1 {
		lastPage = 1
	}

	meta := &models.Meta{
		CurrentPage: page,
		LastPage:    lastPage,
		PerPage:     DefaultPerPage,
		Total:       total,
	}
	return posts, meta, nil
}

// Create validates and stores a new post owned by userID.
func (s *PostService) Create(ctx context.Context, userID uint, input CreatePostInput) (*models.Post, error) {
	if err := validatePostFields(input.Title, input.Content); err != nil {
		return nil, err
	}

	post := &models.Post{
		Title:       input.Title,
		Content:     input.Content,
		PublishedAt: input.PublishedAt,
		UserID:      userID,
	}

	if len(input.Image) > 0 {
		rel, err := s.images.Save(input.Image, input.ImageFilename)
		if err != nil {
			return nil, err
		}
		post.ImagePath = rel
	}

	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, models.NewInternalError(err)
	}
	return s.get(ctx, post.ID)
}

// Get returns a post with its comments and author.
func (s *PostService) Get(ctx context.Context, id uint) (*models.Post, error) {
	post, err := s.postRepo.GetByIDWithComments(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Post", id)
		}
		return nil, models.NewInternalError(err)
	}
	return post, nil
}

// Update applies the changes to a post the actor owns.
func (s *PostService) Update(ctx context.Context, actorID, postID uint, input UpdatePostInput) (*models.Post, error) {
	post, err := s.get(ctx, postID)
	if err != nil {
		return nil, err
	}
	if !authz.CanMutatePost(actorID, post) {
		return nil, models.NewForbiddenError("You are not allowed to modify this post")
	}

	title := post.Title
	if input.Title != nil {
		title = *input.Title
	}
	content := post.Content
	if input.Content != nil {
		content = *input.Content
	}
	if err := validatePostFields(title, content); err != nil {
		return nil, err
	}
	post.Title = title
	post.Content = content

	switch {
	case input.ClearPublishedAt:
		post.PublishedAt = nil
	case input.PublishedAt != nil:
		post.PublishedAt = input.PublishedAt
	}

	oldImage := ""
	if len(input.Image) > 0 {
		rel, err := s.images.Save(input.Image, input.ImageFilename)
		if err != nil {
			return nil, err
		}
		if post.ImagePath != rel {
			oldImage = post.ImagePath
		}
		post.ImagePath = rel
	}

	if err := s.postRepo.Update(ctx, post); err != nil {
		return nil, models.NewInternalError(err)
	}

	if oldImage != "" {
		if err := s.images.Delete(oldImage); err != nil {
			middleware.Logger.WarnContext(ctx, "failed to delete replaced post image",
				slog.String("path", oldImage), slog.Any("error", err))
		}
	}
	return s.get(ctx, post.ID)
}

// Delete removes a post the actor owns, along with its comments and image.
func (s *PostService) Delete(ctx context.Context, actorID, postID uint) error {
	post, err := s.get(ctx, postID)
	if err != nil {
		return err
	}
	if !authz.CanMutatePost(actorID, post) {
		return models.NewForbiddenError("You are not allowed to modify this post")
	}

	if err := s.postRepo.Delete(ctx, postID); err != nil {
		return models.NewInternalError(err)
	}

	if post.ImagePath != "" {
		if err := s.images.Delete(post.ImagePath); err != nil {
			middleware.Logger.WarnContext(ctx, "failed to delete post image",
				slog.String("path", post.ImagePath), slog.Any("error", err))
		}
	}
	return nil
}

// ImageURL returns the public URL for a post's image, or "" when it has none.
func (s *PostService) ImageURL(post *models.Post) string {
	return s.images.URL(post.ImagePath)
}

// get fetches without comments and translates a missing row to NotFound.
func (s *PostService) get(ctx context.Context, id uint) (*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Post", id)
		}
		return nil, models.NewInternalError(err)
	}
	return post, nil
}

func validatePostFields(title, content string) error {
	fields := map[string][]string{}
	if title == "" {
		fields["title"] = append(fields["title"], "title is required")
	} else if utf8.RuneCountInString(title) > 255 {
		fields["title"] = append(fields["title"], "title must not exceed 255 characters")
	}
	if content == "" {
		fields["content"] = append(fields["content"], "content is required")
	}
	if len(fields) > 0 {
		return models.NewFieldValidationError("The given data was invalid", fields)
	}
	return nil
}
