package server

import (
	"context"

	"quill/internal/models"
	"quill/internal/service"

	"github.com/stretchr/testify/mock"
)

// MockAuthService is a mock of the AuthService interface
type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Register(ctx context.Context, input service.RegisterInput) (*models.User, string, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, "", args.Error(2)
	}
	return args.Get(0).(*models.User), args.String(1), args.Error(2)
}

func (m *MockAuthService) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, "", args.Error(2)
	}
	return args.Get(0).(*models.User), args.String(1), args.Error(2)
}

func (m *MockAuthService) Logout(ctx context.Context, userID uint) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *MockAuthService) Verify(ctx context.Context, plaintext string) (*models.User, error) {
	args := m.Called(ctx, plaintext)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

// MockPostService is a mock of the PostService interface
type MockPostService struct {
	mock.Mock
}

func (m *MockPostService) List(ctx context.Context, input service.ListPostsInput) ([]*models.Post, *models.Meta, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).([]*models.Post), args.Get(1).(*models.Meta), args.Error(2)
}

func (m *MockPostService) Create(ctx context.Context, userID uint, input service.CreatePostInput) (*models.Post, error) {
	args := m.Called(ctx, userID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Post), args.Error(1)
}

func (m *MockPostService) Get(ctx context.Context, id uint) (*models.Post, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Post), args.Error(1)
}

func (m *MockPostService) Update(ctx context.Context, actorID, postID uint, input service.UpdatePostInput) (*models.Post, error) {
	args := m.Called(ctx, actorID, postID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Post), args.Error(1)
}

func (m *MockPostService) Delete(ctx context.Context, actorID, postID uint) error {
	args := m.Called(ctx, actorID, postID)
	return args.Error(0)
}

func (m *MockPostService) ImageURL(post *models.Post) string {
	if post.ImagePath == "" {
		return ""
	}
	return "http://test/storage/" + post.ImagePath
}

// MockCommentService is a mock of the CommentService interface
type MockCommentService struct {
	mock.Mock
}

func (m *MockCommentService) Create(ctx context.Context, userID, postID uint, content string) (*models.Comment, error) {
	args := m.Called(ctx, userID, postID, content)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Comment), args.Error(1)
}

func (m *MockCommentService) Delete(ctx context.Context, actorID, commentID uint) error {
	args := m.Called(ctx, actorID, commentID)
	return args.Error(0)
}

// MockUserService is a mock of the UserService interface
type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) Get(ctx context.Context, id uint) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserService) UpdateProfile(ctx context.Context, userID uint, input service.UpdateProfileInput) (*models.User, error) {
	args := m.Called(ctx, userID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}
