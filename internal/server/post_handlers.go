package server

import (
	"io"
	"strconv"
	"time"

	"quill/internal/models"
	"quill/internal/service"

	"github.com/gofiber/fiber/v2"
)

type createPostRequest struct {
	Title       string `json:"title" form:"title"`
	Content     string `json:"content" form:"content"`
	PublishedAt string `json:"published_at" form:"published_at"`
}

type updatePostRequest struct {
	Title       *string `json:"title" form:"title"`
	Content     *string `json:"content" form:"content"`
	PublishedAt *string `json:"published_at" form:"published_at"`
}

func (s *Server) handleListPosts(c *fiber.Ctx) error {
	var authorID uint
	if raw := c.Query("author"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			return s.respondError(c, models.NewValidationError("Invalid author filter"))
		}
		authorID = uint(id)
	}

	posts, meta, err := s.postService.List(c.UserContext(), service.ListPostsInput{
		Search:   c.Query("search"),
		AuthorID: authorID,
		Page:     parsePage(c),
	})
	if err != nil {
		return s.respondError(c, err)
	}

	resources := make([]PostResource, 0, len(posts))
	for _, p := range posts {
		resources = append(resources, s.newPostResource(p))
	}
	return respondPage(c, resources, meta)
}

func (s *Server) handleGetPost(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return s.respondError(c, err)
	}

	post, err := s.postService.Get(c.UserContext(), id)
	if err != nil {
		return s.respondError(c, err)
	}

	return respondSuccess(c, fiber.StatusOK, "", s.newPostDetailResource(post, s.optionalUserID(c)))
}

func (s *Server) handleCreatePost(c *fiber.Ctx) error {
	var req createPostRequest
	if err := c.BodyParser(&req); err != nil {
		return s.respondError(c, models.NewValidationError("Invalid request body"))
	}

	publishedAt, err := parsePublishedAt(req.PublishedAt)
	if err != nil {
		return s.respondError(c, err)
	}

	image, filename, err := s.formImage(c)
	if err != nil {
		return s.respondError(c, err)
	}

	userID := currentUserID(c)
	post, err := s.postService.Create(c.UserContext(), userID, service.CreatePostInput{
		Title:         req.Title,
		Content:       req.Content,
		PublishedAt:   publishedAt,
		Image:         image,
		ImageFilename: filename,
	})
	if err != nil {
		return s.respondError(c, err)
	}

	return respondSuccess(c, fiber.StatusCreated, "Post created successfully",
		s.newPostDetailResource(post, userID))
}

func (s *Server) handleUpdatePost(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return s.respondError(c, err)
	}

	var req updatePostRequest
	if err := c.BodyParser(&req); err != nil {
		return s.respondError(c, models.NewValidationError("Invalid request body"))
	}

	input := service.UpdatePostInput{
		Title:   req.Title,
		Content: req.Content,
	}
	if req.PublishedAt != nil {
		if *req.PublishedAt == "" {
			input.ClearPublishedAt = true
		} else {
			t, err := parsePublishedAt(*req.PublishedAt)
			if err != nil {
				return s.respondError(c, err)
			}
			input.PublishedAt = t
		}
	}

	input.Image, input.ImageFilename, err = s.formImage(c)
	if err != nil {
		return s.respondError(c, err)
	}

	userID := currentUserID(c)
	post, err := s.postService.Update(c.UserContext(), userID, id, input)
	if err != nil {
		return s.respondError(c, err)
	}

	return respondSuccess(c, fiber.StatusOK, "Post updated successfully",
		s.newPostDetailResource(post, userID))
}

func (s *Server) handleDeletePost(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return s.respondError(c, err)
	}

	if err := s.postService.Delete(c.UserContext(), currentUserID(c), id); err != nil {
		return s.respondError(c, err)
	}
	return respondSuccess(c, fiber.StatusOK, "Post deleted successfully", nil)
}

// formImage reads the optional multipart "image" field. JSON requests have no
// multipart form and yield no image.
func (s *Server) formImage(c *fiber.Ctx) ([]byte, string, error) {
	fh, err := c.FormFile("image")
	if err != nil {
		return nil, "", nil
	}

	f, err := fh.Open()
	if err != nil {
		return nil, "", models.NewInternalError(err)
	}
	defer f.Close()

	content, err := io.ReadAll(f)
	if err != nil {
		return nil, "", models.NewInternalError(err)
	}
	return content, fh.Filename, nil
}

func parsePublishedAt(raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, models.NewFieldValidationError("The given data was invalid", map[string][]string{
			"published_at": {"published_at must be an RFC 3339 timestamp"},
		})
	}
	return &t, nil
}
