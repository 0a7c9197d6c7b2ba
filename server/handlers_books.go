package server

import (
	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-errors"

	booknote "github.com/TheEmeraldArt/BookNoteProject"
)

// addBook creates a book record for any authenticated caller.
func (s *Server) addBook(c *fiber.Ctx) error {
	payload := BookPayload{}
	if err := c.BodyParser(&payload); err != nil {
		return errors.Wrap(err, errors.CategoryBadInput, "Invalid request body")
	}

	if err := payload.Validate(); err != nil {
		return err
	}

	sess := sessionFrom(c)
	record, err := s.repo.Books().CreateTx(c.UserContext(), sess.DB(), &booknote.Book{
		Title:  payload.Title,
		Author: payload.Author,
	})
	if err != nil {
		return err
	}

	if err := sess.Commit(); err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(record)
}

// getBooks lists the whole collection; an empty table is a 404.
func (s *Server) getBooks(c *fiber.Ctx) error {
	sess := sessionFrom(c)
	records, err := s.repo.Books().ListTx(c.UserContext(), sess.DB())
	if err != nil {
		return err
	}

	if len(records) == 0 {
		return booknote.NewNotFound("books not found")
	}

	return c.JSON(records)
}

// getBook fetches a single book by the id query parameter.
func (s *Server) getBook(c *fiber.Ctx) error {
	id, err := queryID(c)
	if err != nil {
		return err
	}

	sess := sessionFrom(c)
	record, err := s.repo.Books().GetByIDTx(c.UserContext(), sess.DB(), id)
	if err != nil {
		return err
	}

	return c.JSON(record)
}

// updateBook replaces a book's title and author.
func (s *Server) updateBook(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	payload := BookPayload{}
	if err := c.BodyParser(&payload); err != nil {
		return errors.Wrap(err, errors.CategoryBadInput, "Invalid request body")
	}

	if err := payload.Validate(); err != nil {
		return err
	}

	sess := sessionFrom(c)
	record, err := s.repo.Books().GetByIDTx(c.UserContext(), sess.DB(), id)
	if err != nil {
		return err
	}

	record.Title = payload.Title
	record.Author = payload.Author

	record, err = s.repo.Books().UpdateTx(c.UserContext(), sess.DB(), record)
	if err != nil {
		return err
	}

	if err := sess.Commit(); err != nil {
		return err
	}

	return c.JSON(record)
}

// deleteBook removes a book and echoes the removed record.
func (s *Server) deleteBook(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	sess := sessionFrom(c)
	record, err := s.repo.Books().DeleteTx(c.UserContext(), sess.DB(), id)
	if err != nil {
		return err
	}

	if err := sess.Commit(); err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"message": "Book deleted successfully",
		"book":    record,
	})
}

// queryID parses the id query parameter.
func queryID(c *fiber.Ctx) (int64, error) {
	id := c.QueryInt("id")
	if id <= 0 {
		return 0, errors.New("Query parameter id must be a positive integer", errors.CategoryBadInput)
	}
	return int64(id), nil
}
