package service

import (
	"context"
	"fmt"

	"quill/internal/models"
	"quill/internal/repository"

	"gorm.io/gorm"
)

// userRepoStub is a stub for repository.UserRepository.
type userRepoStub struct {
	createFn     func(context.Context, *models.User) error
	getByIDFn    func(context.Context, uint) (*models.User, error)
	getByEmailFn func(context.Context, string) (*models.User, error)
	updateFn     func(context.Context, *models.User) error
}

func (s *userRepoStub) Create(ctx context.Context, user *models.User) error {
	return s.createFn(ctx, user)
}
func (s *userRepoStub) GetByID(ctx context.Context, id uint) (*models.User, error) {
	return s.getByIDFn(ctx, id)
}
func (s *userRepoStub) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.getByEmailFn(ctx, email)
}
func (s *userRepoStub) Update(ctx context.Context, user *models.User) error {
	return s.updateFn(ctx, user)
}

func noopUserRepo() *userRepoStub {
	return &userRepoStub{
		createFn: func(_ context.Context, u *models.User) error {
			u.ID = 1
			return nil
		},
		getByIDFn:    func(_ context.Context, id uint) (*models.User, error) { return &models.User{ID: id}, nil },
		getByEmailFn: func(_ context.Context, _ string) (*models.User, error) { return nil, nil },
		updateFn:     func(_ context.Context, _ *models.User) error { return nil },
	}
}

// tokenRepoStub is a stub for repository.TokenRepository.
type tokenRepoStub struct {
	createFn           func(context.Context, *models.Token) error
	getByHashFn        func(context.Context, string) (*models.Token, error)
	touchLastUsedFn    func(context.Context, uint) error
	deleteAllForUserFn func(context.Context, uint) error
}

func (s *tokenRepoStub) Create(ctx context.Context, token *models.Token) error {
	return s.createFn(ctx, token)
}
func (s *tokenRepoStub) GetByHash(ctx context.Context, hash string) (*models.Token, error) {
	return s.getByHashFn(ctx, hash)
}
func (s *tokenRepoStub) TouchLastUsed(ctx context.Context, id uint) error {
	return s.touchLastUsedFn(ctx, id)
}
func (s *tokenRepoStub) DeleteAllForUser(ctx context.Context, userID uint) error {
	return s.deleteAllForUserFn(ctx, userID)
}

func noopTokenRepo() *tokenRepoStub {
	return &tokenRepoStub{
		createFn: func(_ context.Context, tok *models.Token) error {
			tok.ID = 1
			return nil
		},
		getByHashFn:        func(_ context.Context, _ string) (*models.Token, error) { return nil, nil },
		touchLastUsedFn:    func(_ context.Context, _ uint) error { return nil },
		deleteAllForUserFn: func(_ context.Context, _ uint) error { return nil },
	}
}

// postRepoStub is a stub for repository.PostRepository.
type postRepoStub struct {
	createFn              func(context.Context, *models.Post) error
	getByIDFn             func(context.Context, uint) (*models.Post, error)
	getByIDWithCommentsFn func(context.Context, uint) (*models.Post, error)
	listFn                func(context.Context, repository.PostFilter) ([]*models.Post, int64, error)
	updateFn              func(context.Context, *models.Post) error
	deleteFn              func(context.Context, uint) error
}

func (s *postRepoStub) Create(ctx context.Context, post *models.Post) error {
	return s.createFn(ctx, post)
}
func (s *postRepoStub) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	return s.getByIDFn(ctx, id)
}
func (s *postRepoStub) GetByIDWithComments(ctx context.Context, id uint) (*models.Post, error) {
	return s.getByIDWithCommentsFn(ctx, id)
}
func (s *postRepoStub) List(ctx context.Context, filter repository.PostFilter) ([]*models.Post, int64, error) {
	return s.listFn(ctx, filter)
}
func (s *postRepoStub) Update(ctx context.Context, post *models.Post) error {
	return s.updateFn(ctx, post)
}
func (s *postRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}

func noopPostRepo() *postRepoStub {
	return &postRepoStub{
		createFn: func(_ context.Context, p *models.Post) error {
			p.ID = 1
			return nil
		},
		getByIDFn: func(_ context.Context, id uint) (*models.Post, error) {
			return &models.Post{ID: id}, nil
		},
		getByIDWithCommentsFn: func(_ context.Context, id uint) (*models.Post, error) {
			return &models.Post{ID: id}, nil
		},
		listFn: func(_ context.Context, _ repository.PostFilter) ([]*models.Post, int64, error) {
			return nil, 0, nil
		},
		updateFn: func(_ context.Context, _ *models.Post) error { return nil },
		deleteFn: func(_ context.Context, _ uint) error { return nil },
	}
}

// commentRepoStub is a stub for repository.CommentRepository.
type commentRepoStub struct {
	createFn  func(context.Context, *models.Comment) error
	getByIDFn func(context.Context, uint) (*models.Comment, error)
	deleteFn  func(context.Context, uint) error
}

func (s *commentRepoStub) Create(ctx context.Context, comment *models.Comment) error {
	return s.createFn(ctx, comment)
}
func (s *commentRepoStub) GetByID(ctx context.Context, id uint) (*models.Comment, error) {
	return s.getByIDFn(ctx, id)
}
func (s *commentRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}

func noopCommentRepo() *commentRepoStub {
	return &commentRepoStub{
		createFn: func(_ context.Context, c *models.Comment) error {
			c.ID = 1
			return nil
		},
		getByIDFn: func(_ context.Context, id uint) (*models.Comment, error) {
			return &models.Comment{ID: id}, nil
		},
		deleteFn: func(_ context.Context, _ uint) error { return nil },
	}
}

// imageStoreStub records saves and deletes in memory.
type imageStoreStub struct {
	saved   []string
	deleted []string
	saveErr error
	nextRel string
}

func (s *imageStoreStub) Save(content []byte, filename string) (string, error) {
	if s.saveErr != nil {
		return "", s.saveErr
	}
	rel := s.nextRel
	if rel == "" {
		rel = fmt.Sprintf("posts/stub-%d.png", len(s.saved))
	}
	s.saved = append(s.saved, rel)
	return rel, nil
}

func (s *imageStoreStub) Delete(rel string) error {
	s.deleted = append(s.deleted, rel)
	return nil
}

func (s *imageStoreStub) URL(rel string) string {
	if rel == "" {
		return ""
	}
	return "http://test/storage/" + rel
}

var errNotFound = gorm.ErrRecordNotFound
