package server

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/taskward/taskward/auth"
	"github.com/taskward/taskward/tasks"
)

// Logger is the structured logger surface shared across packages.
type Logger = auth.Logger

// Deps carries the wired services the HTTP layer exposes.
type Deps struct {
	Auth     *auth.Auther
	Register *auth.RegisterUserHandler
	Tokens   auth.TokenService
	Users    auth.UserStore
	Tasks    *tasks.Service
	Logger   Logger
	Debug    bool
}

type Server struct {
	app    *fiber.App
	deps   Deps
	logger Logger
}

func New(deps Deps) *Server {
	logger := deps.Logger
	if logger == nil {
		logger = auth.DefaultLogger()
	}

	app := fiber.New(fiber.Config{
		AppName:      "taskward",
		ErrorHandler: ErrorHandler(logger, deps.Debug),
	})

	s := &Server{
		app:    app,
		deps:   deps,
		logger: logger,
	}

	s.routes()

	return s
}

func (s *Server) routes() {
	s.app.Use(auth.ResolveIdentity(auth.IdentityResolverConfig{
		Tokens: s.deps.Tokens,
		Users:  s.deps.Users,
		Logger: s.logger,
	}))

	api := s.app.Group("/api")

	authGroup := api.Group("/auth")
	authGroup.Post("/signup", s.handleSignup)
	authGroup.Post("/signin", s.handleSignin)

	taskGroup := api.Group("/tasks", auth.RequireIdentity())
	taskGroup.Post("/", s.handleCreateTask)
	taskGroup.Get("/", s.handleListTasks)
	taskGroup.Get("/:id", s.handleGetTask)
	taskGroup.Put("/:id", s.handleUpdateTask)
	taskGroup.Delete("/:id", s.handleDeleteTask)
}

// App exposes the underlying fiber app, mostly for tests.
func (s *Server) App() *fiber.App {
	return s.app
}

func (s *Server) Listen(addr string) error {
	s.logger.Info("http server listening", "addr", addr)
	return s.app.Listen(addr)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.ShutdownWithContext(ctx)
}
