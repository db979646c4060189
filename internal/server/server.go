// Package server wires the HTTP layer: routing, middleware and handlers.
package server

import (
	"context"
	"strings"
	"time"

	"quill/internal/cache"
	"quill/internal/config"
	"quill/internal/database"
	"quill/internal/middleware"
	"quill/internal/models"
	"quill/internal/repository"
	"quill/internal/service"
	"quill/internal/storage"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
)

// AuthService is the surface of the auth service used by handlers.
type AuthService interface {
	Register(ctx context.Context, input service.RegisterInput) (*models.User, string, error)
	Login(ctx context.Context, email, password string) (*models.User, string, error)
	Logout(ctx context.Context, userID uint) error
	Verify(ctx context.Context, plaintext string) (*models.User, error)
}

// PostService is the surface of the post service used by handlers.
type PostService interface {
	List(ctx context.Context, input service.ListPostsInput) ([]*models.Post, *models.Meta, error)
	Create(ctx context.Context, userID uint, input service.CreatePostInput) (*models.Post, error)
	Get(ctx context.Context, id uint) (*models.Post, error)
	Update(ctx context.Context, actorID, postID uint, input service.UpdatePostInput) (*models.Post, error)
	Delete(ctx context.Context, actorID, postID uint) error
	ImageURL(post *models.Post) string
}

// CommentService is the surface of the comment service used by handlers.
type CommentService interface {
	Create(ctx context.Context, userID, postID uint, content string) (*models.Comment, error)
	Delete(ctx context.Context, actorID, commentID uint) error
}

// UserService is the surface of the user service used by handlers.
type UserService interface {
	Get(ctx context.Context, id uint) (*models.User, error)
	UpdateProfile(ctx context.Context, userID uint, input service.UpdateProfileInput) (*models.User, error)
}

// Server holds the Fiber app and the services the handlers depend on.
type Server struct {
	app            *fiber.App
	config         *config.Config
	promMiddleware *fiberprometheus.FiberPrometheus

	authService    AuthService
	postService    PostService
	commentService CommentService
	userService    UserService
}

// NewServer builds a server over the global database connection.
func NewServer(cfg *config.Config) *Server {
	userRepo := repository.NewUserRepository(database.DB)
	tokenRepo := repository.NewTokenRepository(database.DB)
	postRepo := repository.NewPostRepository(database.DB)
	commentRepo := repository.NewCommentRepository(database.DB)

	images := storage.NewImageStore(cfg.StorageDir, cfg.BaseURL)

	return newServer(cfg, middleware.InitMetrics("quill-api"),
		service.NewAuthService(userRepo, tokenRepo),
		service.NewPostService(postRepo, images),
		service.NewCommentService(commentRepo, postRepo),
		service.NewUserService(userRepo),
	)
}

// NewServerWithDeps builds a server with explicit services. Used by tests. No
// Prometheus middleware: it registers in the global registry, which only the
// real server may touch.
func NewServerWithDeps(cfg *config.Config, auth AuthService, posts PostService, comments CommentService, users UserService) *Server {
	return newServer(cfg, nil, auth, posts, comments, users)
}

func newServer(cfg *config.Config, prom *fiberprometheus.FiberPrometheus, auth AuthService, posts PostService, comments CommentService, users UserService) *Server {
	s := &Server{
		app: fiber.New(fiber.Config{
			AppName:   "quill",
			BodyLimit: 10 * 1024 * 1024,
		}),
		config:         cfg,
		promMiddleware: prom,
		authService:    auth,
		postService:    posts,
		commentService: comments,
		userService:    users,
	}

	s.SetupMiddleware()
	s.SetupRoutes()
	return s
}

// App exposes the underlying Fiber app for tests.
func (s *Server) App() *fiber.App {
	return s.app
}

// SetupMiddleware installs the global middleware chain. Order matters: recover
// first, then request identity, then everything that logs or measures.
func (s *Server) SetupMiddleware() {
	s.app.Use(recover.New())
	s.app.Use(requestid.New())
	s.app.Use(middleware.ContextMiddleware())

	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(s.app, "/metrics")
		s.app.Use(middleware.MetricsMiddleware(s.promMiddleware))
	}

	s.app.Use(helmet.New())
	s.app.Use(middleware.TracingMiddleware())
	s.app.Use(middleware.StructuredLogger())

	s.app.Use(cors.New(cors.Config{
		AllowOrigins: s.config.AllowedOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET, POST, PUT, DELETE, OPTIONS",
	}))

	s.app.Use(limiter.New(limiter.Config{
		Max:        300,
		Expiration: 1 * time.Minute,
		Next: func(c *fiber.Ctx) bool {
			return strings.HasPrefix(c.Path(), "/health")
		},
	}))
}

// SetupRoutes registers the API routes.
func (s *Server) SetupRoutes() {
	s.app.Static("/storage", s.config.StorageDir)

	s.app.Get("/health/live", s.handleHealthLive)
	s.app.Get("/health/ready", s.handleHealthReady)

	rdb := cache.GetClient()

	api := s.app.Group("/api")

	api.Post("/register", middleware.RateLimit(rdb, 3, 10*time.Minute, "register"), s.handleRegister)
	api.Post("/login", middleware.RateLimit(rdb, 10, 5*time.Minute, "login"), s.handleLogin)
	api.Get("/posts", s.handleListPosts)
	api.Get("/posts/:id", s.handleGetPost)

	auth := api.Group("", s.AuthRequired())
	auth.Post("/logout", s.handleLogout)
	auth.Get("/verify-token", s.handleVerifyToken)
	auth.Get("/user", s.handleCurrentUser)
	auth.Put("/user", s.handleUpdateUser)
	auth.Post("/posts/create", s.handleCreatePost)
	auth.Put("/posts/:id", s.handleUpdatePost)
	auth.Delete("/posts/:id", s.handleDeletePost)
	auth.Post("/posts/:id/comments", s.handleAddComment)
	auth.Delete("/comments/:id", s.handleDeleteComment)
}

// Start begins listening on the configured port.
func (s *Server) Start() error {
	return s.app.Listen(":" + s.config.Port)
}

// Shutdown gracefully drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.ShutdownWithContext(ctx)
}

func (s *Server) handleHealthLive(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

func (s *Server) handleHealthReady(c *fiber.Ctx) error {
	if database.DB != nil {
		sqlDB, err := database.DB.DB()
		if err != nil || sqlDB.PingContext(c.UserContext()) != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "unavailable"})
		}
	}
	return c.JSON(fiber.Map{"status": "ok"})
}
