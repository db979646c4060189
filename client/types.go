package client

import (
	"fmt"
	"time"

	"quill/internal/authz"
)

// User is a user profile as returned by the API.
type User struct {
	ID        uint      `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// UserSummary is the owner projection embedded in posts and comments.
type UserSummary struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

// Post is a post row from the listing. Content is an excerpt.
type Post struct {
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

// PostDetail is a full post with its comments.
type PostDetail struct {
	ID            uint        `json:"id"`
	Title         string      `json:"title"`
	Content       string      `json:"content"`
	ImageURL      *string     `json:"image_url"`
	PublishedAt   *time.Time  `json:"published_at"`
	User          UserSummary `json:"user"`
	Comments      []Comment   `json:"comments"`
	CommentsCount int         `json:"comments_count"`
	IsOwner       bool        `json:"is_owner"`
	CreatedAt     time.Time   `json:"created_at"`
	UpdatedAt     time.Time   `json:"updated_at"`
}

// Comment is a comment with its author summary.
type Comment struct {
	ID        uint        `json:"id"`
	Content   string      `json:"content"`
	User      UserSummary `json:"user"`
	CreatedAt time.Time   `json:"created_at"`
}

// Meta is the pagination metadata of list responses.
type Meta struct {
	CurrentPage int64 `json:"current_page"`
	LastPage    int64 `json:"last_page"`
	PerPage     int64 `json:"per_page"`
	Total       int64 `json:"total"`
}

// AuthResult is the payload of register and login.
type AuthResult struct {
	User        User   `json:"user"`
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// APIError is a non-2xx response from the server.
type APIError struct {
	StatusCode int
	Message    string
	// Errors holds field-level validation messages on 422 responses.
	Errors map[string][]string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Message)
}

// IsUnauthorized reports whether err is a 401 response.
func IsUnauthorized(err error) bool {
	apiErr, ok := err.(*APIError)
	return ok && apiErr.StatusCode == 401
}

// CanEditPost reports whether the viewer may edit or delete the post. It is
// the same ownership rule the server enforces; the UI uses it only to decide
// what to show.
func CanEditPost(viewerID uint, p *Post) bool {
	return p != nil && authz.Owns(viewerID, p.User.ID)
}

// CanEditComment reports whether the viewer may delete the comment.
func CanEditComment(viewerID uint, c *Comment) bool {
	return c != nil && authz.Owns(viewerID, c.User.ID)
}
