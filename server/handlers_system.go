package server

import (
	"time"

	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/fiber/v2"

	"github.com/TheEmeraldArt/BookNoteProject/metrics"
)

func (s *Server) root(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"message": "Welcome to the Book Note API"})
}

// health reports liveness plus who asked. Admin-only, so it doubles as a
// quick token sanity check.
func (s *Server) health(c *fiber.Ctx) error {
	identity := identityFrom(c)
	return c.JSON(fiber.Map{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"user":      identity.Username(),
	})
}

// testDB exercises the request's unit of work with real queries and
// reports table counts.
func (s *Server) testDB(c *fiber.Ctx) error {
	sess := sessionFrom(c)

	users, err := s.repo.Users().CountTx(c.UserContext(), sess.DB())
	if err != nil {
		return err
	}

	books, err := s.repo.Books().CountTx(c.UserContext(), sess.DB())
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"status": "ok",
		"users":  users,
		"books":  books,
	})
}

// metricsEndpoint refreshes the table gauges and delegates to the
// Prometheus text handler.
func (s *Server) metricsEndpoint(c *fiber.Ctx) error {
	sess := sessionFrom(c)

	if users, err := s.repo.Users().CountTx(c.UserContext(), sess.DB()); err == nil {
		metrics.SetUsersCount(users)
	}
	if books, err := s.repo.Books().CountTx(c.UserContext(), sess.DB()); err == nil {
		metrics.SetBooksCount(books)
	}

	return adaptor.HTTPHandler(metrics.Handler())(c)
}
