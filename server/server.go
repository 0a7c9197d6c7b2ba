// Package server is the HTTP boundary of the Book Note API: fiber routing,
// bearer-token middleware, payload validation, and the mapping from the
// domain error taxonomy onto transport status codes.
package server

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	booknote "github.com/TheEmeraldArt/BookNoteProject"
)

// Config carries the collaborators every handler shares.
type Config struct {
	Repo     booknote.RepositoryManager
	Sessions *booknote.SessionProvider
	Auther   *booknote.Auther
	Hasher   *booknote.PasswordHasher
	Logger   booknote.Logger
}

// Server owns the fiber app and its dependencies.
type Server struct {
	app      *fiber.App
	repo     booknote.RepositoryManager
	sessions *booknote.SessionProvider
	auther   *booknote.Auther
	hasher   *booknote.PasswordHasher
	logger   booknote.Logger
}

// New builds the app and registers every route.
func New(cfg Config) *Server {
	s := &Server{
		repo:     cfg.Repo,
		sessions: cfg.Sessions,
		auther:   cfg.Auther,
		hasher:   cfg.Hasher,
		logger:   cfg.Logger,
	}

	s.app = fiber.New(fiber.Config{
		AppName:      "Book Note API",
		ErrorHandler: s.errorHandler,
	})

	s.app.Use(requestid.New())
	s.app.Use(recover.New())
	s.app.Use(s.observeRequests())
	s.app.Use(s.withSession())

	s.registerRoutes()

	return s
}

func (s *Server) registerRoutes() {
	protected := s.protected()
	admin := s.requireAdmin()

	s.app.Get("/", s.root)
	s.app.Get("/health", protected, admin, s.health)
	s.app.Get("/test-db", protected, admin, s.testDB)
	s.app.Get("/metrics", s.metricsEndpoint)

	auth := s.app.Group("/auth")
	auth.Post("/register", s.register)
	auth.Post("/login", s.login)
	auth.Get("/me", protected, s.me)
	auth.Get("/protected", protected, s.protectedRoute)
	auth.Get("/role", protected, s.role)
	auth.Get("/get_user", protected, admin, s.getUser)
	auth.Get("/get_all_users", protected, admin, s.getAllUsers)
	auth.Put("/update_user/:id", protected, admin, s.updateUser)
	auth.Delete("/delete_user/:id", protected, admin, s.deleteUser)

	books := s.app.Group("/books", protected)
	books.Post("/add_book", s.addBook)
	books.Get("/get_books", s.getBooks)
	books.Get("/get_book", s.getBook)
	books.Put("/update_book/:id", s.updateBook)
	books.Delete("/delete_book/:id", s.deleteBook)
}

// App exposes the fiber app, mainly for tests.
func (s *Server) App() *fiber.App {
	return s.app
}

// Listen blocks serving on addr.
func (s *Server) Listen(addr string) error {
	return s.app.Listen(addr)
}

// Shutdown drains in-flight requests and stops the listener.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}
