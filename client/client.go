// Package client is a Go client for the Quill API. It wraps the REST
// endpoints, carries the bearer token between calls and decodes the response
// envelope into typed results.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// Client talks to a Quill API server. It is safe for sequential use; guard it
// yourself when sharing across goroutines while logging in or out.
type Client struct {
	httpClient *http.Client
	logger     *slog.Logger
	baseURL    string
	token      string
}

// NewClient creates a client for the server at baseURL
// (e.g. "http://localhost:8480"). httpClient may be nil.
func NewClient(baseURL string, httpClient *http.Client, logger *slog.Logger) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		httpClient: httpClient,
		logger:     logger,
		baseURL:    trimSlash(baseURL),
	}
}

// SetToken installs a previously obtained bearer token.
func (c *Client) SetToken(token string) { c.token = token }

// Token returns the current bearer token, empty when logged out.
func (c *Client) Token() string { return c.token }

// envelope mirrors the server's response wrapper.
type envelope struct {
	Status  string              `json:"status"`
	Message string              `json:"message"`
	Data    json.RawMessage     `json:"data"`
	Meta    *Meta               `json:"meta"`
	Errors  map[string][]string `json:"errors"`
}

// Register creates an account and stores the returned token on the client.
func (c *Client) Register(ctx context.Context, name, email, password string) (*AuthResult, error) {
	var result AuthResult
	err := c.doJSON(ctx, http.MethodPost, "/api/register", map[string]string{
		"name": name, "email": email, "password": password,
	}, &result, nil)
	if err != nil {
		return nil, err
	}
	c.token = result.AccessToken
	return &result, nil
}

// Login authenticates and stores the returned token on the client.
func (c *Client) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	var result AuthResult
	err := c.doJSON(ctx, http.MethodPost, "/api/login", map[string]string{
		"email": email, "password": password,
	}, &result, nil)
	if err != nil {
		return nil, err
	}
	c.token = result.AccessToken
	return &result, nil
}

// Logout revokes all tokens server-side and clears the local one.
func (c *Client) Logout(ctx context.Context) error {
	err := c.doJSON(ctx, http.MethodPost, "/api/logout", nil, nil, nil)
	c.token = ""
	return err
}

// VerifyToken reports whether the stored token is still accepted.
func (c *Client) VerifyToken(ctx context.Context) (bool, error) {
	var result struct {
		Valid bool `json:"valid"`
	}
	err := c.doJSON(ctx, http.MethodGet, "/api/verify-token", nil, &result, nil)
	if err != nil {
		if IsUnauthorized(err) {
			return false, nil
		}
		return false, err
	}
	return result.Valid, nil
}

// ListPostsOptions narrows the post listing.
type ListPostsOptions struct {
	Search   string
	AuthorID uint
	Page     int
}

// ListPosts fetches one page of posts.
func (c *Client) ListPosts(ctx context.Context, opts ListPostsOptions) ([]Post, *Meta, error) {
	q := url.Values{}
	if opts.Search != "" {
		q.Set("search", opts.Search)
	}
	if opts.AuthorID != 0 {
		q.Set("author", strconv.FormatUint(uint64(opts.AuthorID), 10))
	}
	if opts.Page > 1 {
		q.Set("page", strconv.Itoa(opts.Page))
	}

	path := "/api/posts"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var posts []Post
	var meta *Meta
	err := c.doJSON(ctx, http.MethodGet, path, nil, &posts, &meta)
	if err != nil {
		return nil, nil, err
	}
	return posts, meta, nil
}

// GetPost fetches a post with its comments.
func (c *Client) GetPost(ctx context.Context, id uint) (*PostDetail, error) {
	var post PostDetail
	if err := c.doJSON(ctx, http.MethodGet, fmt.Sprintf("/api/posts/%d", id), nil, &post, nil); err != nil {
		return nil, err
	}
	return &post, nil
}

// CreatePostInput carries the fields of a post creation request.
type CreatePostInput struct {
	Title       string
	Content     string
	PublishedAt *time.Time
	// Image is the raw upload; nil means no image. When set the request is
	// sent as multipart form data.
	Image         []byte
	ImageFilename string
}

// CreatePost creates a post owned by the authenticated user.
func (c *Client) CreatePost(ctx context.Context, input CreatePostInput) (*PostDetail, error) {
	fields := map[string]string{
		"title":   input.Title,
		"content": input.Content,
	}
	if input.PublishedAt != nil {
		fields["published_at"] = input.PublishedAt.Format(time.RFC3339)
	}

	var post PostDetail
	var err error
	if len(input.Image) > 0 {
		err = c.doMultipart(ctx, http.MethodPost, "/api/posts/create", fields, input.Image, input.ImageFilename, &post)
	} else {
		err = c.doJSON(ctx, http.MethodPost, "/api/posts/create", fields, &post, nil)
	}
	if err != nil {
		return nil, err
	}
	return &post, nil
}

// UpdatePostInput carries the fields of a post update request. Nil pointers
// leave the corresponding field unchanged; an empty PublishedAt string reverts
// the post to a draft.
type UpdatePostInput struct {
	Title         *string
	Content       *string
	PublishedAt   *string
	Image         []byte
	ImageFilename string
}

// UpdatePost updates a post the authenticated user owns.
func (c *Client) UpdatePost(ctx context.Context, id uint, input UpdatePostInput) (*PostDetail, error) {
	path := fmt.Sprintf("/api/posts/%d", id)

	var post PostDetail
	var err error
	if len(input.Image) > 0 {
		fields := map[string]string{}
		if input.Title != nil {
			fields["title"] = *input.Title
		}
		if input.Content != nil {
			fields["content"] = *input.Content
		}
		if input.PublishedAt != nil {
			fields["published_at"] = *input.PublishedAt
		}
		err = c.doMultipart(ctx, http.MethodPut, path, fields, input.Image, input.ImageFilename, &post)
	} else {
		body := map[string]*string{}
		if input.Title != nil {
			body["title"] = input.Title
		}
		if input.Content != nil {
			body["content"] = input.Content
		}
		if input.PublishedAt != nil {
			body["published_at"] = input.PublishedAt
		}
		err = c.doJSON(ctx, http.MethodPut, path, body, &post, nil)
	}
	if err != nil {
		return nil, err
	}
	return &post, nil
}

// DeletePost deletes a post the authenticated user owns.
func (c *Client) DeletePost(ctx context.Context, id uint) error {
	return c.doJSON(ctx, http.MethodDelete, fmt.Sprintf("/api/posts/%d", id), nil, nil, nil)
}

// AddComment comments on a post as the authenticated user.
func (c *Client) AddComment(ctx context.Context, postID uint, content string) (*Comment, error) {
	var comment Comment
	err := c.doJSON(ctx, http.MethodPost, fmt.Sprintf("/api/posts/%d/comments", postID),
		map[string]string{"content": content}, &comment, nil)
	if err != nil {
		return nil, err
	}
	return &comment, nil
}

// DeleteComment deletes a comment the authenticated user owns.
func (c *Client) DeleteComment(ctx context.Context, id uint) error {
	return c.doJSON(ctx, http.MethodDelete, fmt.Sprintf("/api/comments/%d", id), nil, nil, nil)
}

// CurrentUser fetches the authenticated user's profile.
func (c *Client) CurrentUser(ctx context.Context) (*User, error) {
	var user User
	if err := c.doJSON(ctx, http.MethodGet, "/api/user", nil, &user, nil); err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateUserInput carries the fields of a profile update request. Nil pointers
// leave the corresponding field unchanged.
type UpdateUserInput struct {
	Name     *string `json:"name,omitempty"`
	Email    *string `json:"email,omitempty"`
	Password *string `json:"password,omitempty"`
}

// UpdateCurrentUser updates the authenticated user's profile.
func (c *Client) UpdateCurrentUser(ctx context.Context, input UpdateUserInput) (*User, error) {
	var user User
	if err := c.doJSON(ctx, http.MethodPut, "/api/user", input, &user, nil); err != nil {
		return nil, err
	}
	return &user, nil
}

// doJSON sends a JSON request and decodes the envelope's data into out.
// metaOut, when non-nil, receives the pagination metadata.
func (c *Client) doJSON(ctx context.Context, method, path string, body any, out any, metaOut **Meta) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.do(req, out, metaOut)
}

// doMultipart sends a multipart form with an image part.
func (c *Client) doMultipart(ctx context.Context, method, path string, fields map[string]string, image []byte, filename string, out any) error {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for key, value := range fields {
		if err := w.WriteField(key, value); err != nil {
			return fmt.Errorf("write form field: %w", err)
		}
	}
	if filename == "" {
		filename = "image"
	}
	part, err := w.CreateFormFile("image", filename)
	if err != nil {
		return fmt.Errorf("create image part: %w", err)
	}
	if _, err := part.Write(image); err != nil {
		return fmt.Errorf("write image part: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("finish multipart body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, &buf)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", w.FormDataContentType())
	return c.do(req, out, nil)
}

func (c *Client) do(req *http.Request, out any, metaOut **Meta) error {
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("request failed",
			slog.String("method", req.Method),
			slog.String("path", req.URL.Path),
			slog.String("error", err.Error()),
		)
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response body: %w", err)
	}

	var env envelope
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &env); err != nil {
			return fmt.Errorf("decode response (status %d): %w", resp.StatusCode, err)
		}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		// A dead token is no longer worth holding on to
		if resp.StatusCode == http.StatusUnauthorized {
			c.token = ""
		}
		message := env.Message
		if message == "" {
			message = http.StatusText(resp.StatusCode)
		}
		return &APIError{StatusCode: resp.StatusCode, Message: message, Errors: env.Errors}
	}

	if metaOut != nil {
		*metaOut = env.Meta
	}
	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("decode response data: %w", err)
		}
	}
	return nil
}

func trimSlash(s string) string {
	for len(s) > 0 && s[len(s)-1] == '/' {
		s = s[:len(s)-1]
	}
	return s
}
