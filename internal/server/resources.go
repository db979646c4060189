package server

import (
	"time"
	"unicode/utf8"

	"quill/internal/authz"
	"quill/internal/models"
)

// listExcerptLen is how much post content the list view shows.
const listExcerptLen = 150

// UserSummary is the owner projection embedded in posts and comments.
type UserSummary struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

// UserResource is the full projection of a user's own profile.
type UserResource struct {
	ID        uint      `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// PostResource is the list projection of a post. Content is an excerpt.
type PostResource struct {
	ID            uint        `json:"id"`
	Title         string      `json:"title"`
	Content       string      `json:"content"`
	ImageURL      *string     `json:"image_url"`
	PublishedAt   *time.Time  `json:"published_at"`
	User          UserSummary `json:"user"`
	CommentsCount int         `json:"comments_count"`
	CreatedAt     time.Time   `json:"created_at"`
	UpdatedAt     time.Time   `json:"updated_at"`
}

// PostDetailResource is the full projection of a post with its comments.
type PostDetailResource struct {
	ID            uint              `json:"id"`
	Title         string            `json:"title"`
	Content       string            `json:"content"`
	ImageURL      *string           `json:"image_url"`
	PublishedAt   *time.Time        `json:"published_at"`
	User          UserSummary       `json:"user"`
	Comments      []CommentResource `json:"comments"`
	CommentsCount int               `json:"comments_count"`
	IsOwner       bool              `json:"is_owner"`
	CreatedAt     time.Time         `json:"created_at"`
	UpdatedAt     time.Time         `json:"updated_at"`
}

// CommentResource is the projection of a comment with its author summary.
type CommentResource struct {
	ID        uint        `json:"id"`
	Content   string      `json:"content"`
	User      UserSummary `json:"user"`
	CreatedAt time.Time   `json:"created_at"`
}

func newUserSummary(u models.User) UserSummary {
	return UserSummary{ID: u.ID, Name: u.Name}
}

func newUserResource(u *models.User) UserResource {
	return UserResource{ID: u.ID, Name: u.Name, Email: u.Email, CreatedAt: u.CreatedAt}
}

func newCommentResource(c *models.Comment) CommentResource {
	return CommentResource{
		ID:        c.ID,
		Content:   c.Content,
		User:      newUserSummary(c.User),
		CreatedAt: c.CreatedAt,
	}
}

func (s *Server) newPostResource(p *models.Post) PostResource {
	return PostResource{
		ID:            p.ID,
		Title:         p.Title,
		Content:       excerpt(p.Content, listExcerptLen),
		ImageURL:      s.imageURL(p),
		PublishedAt:   p.PublishedAt,
		User:          newUserSummary(p.User),
		CommentsCount: p.CommentsCount,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}

func (s *Server) newPostDetailResource(p *models.Post, actorID uint) PostDetailResource {
	comments := make([]CommentResource, 0, len(p.Comments))
	for i := range p.Comments {
		comments = append(comments, newCommentResource(&p.Comments[i]))
	}
	return PostDetailResource{
		ID:            p.ID,
		Title:         p.Title,
		Content:       p.Content,
		ImageURL:      s.imageURL(p),
		PublishedAt:   p.PublishedAt,
		User:          newUserSummary(p.User),
		Comments:      comments,
		CommentsCount: p.CommentsCount,
		IsOwner:       authz.CanMutatePost(actorID, p),
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}

// imageURL returns the public URL of the post image, or nil when it has none.
func (s *Server) imageURL(p *models.Post) *string {
	url := s.postService.ImageURL(p)
	if url == "" {
		return nil
	}
	return &url
}

// excerpt shortens text to at most n runes, appending an ellipsis when cut.
func excerpt(text string, n int) string {
	if utf8.RuneCountInString(text) <= n {
		return text
	}
	runes := []rune(text)
	return string(runes[:n]) + "..."
}
