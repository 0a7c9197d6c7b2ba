package server

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-errors"

	booknote "github.com/TheEmeraldArt/BookNoteProject"
)

// register creates a user account with the default role. Duplicate
// usernames or emails surface as a 400 without leaking which field
// collided beyond the shared message.
func (s *Server) register(c *fiber.Ctx) error {
	payload := RegisterPayload{}
	if err := c.BodyParser(&payload); err != nil {
		return errors.Wrap(err, errors.CategoryBadInput, "Invalid request body")
	}

	if err := payload.Validate(); err != nil {
		return err
	}

	hash, err := s.hasher.HashPassword(payload.Password)
	if err != nil {
		return err
	}

	sess := sessionFrom(c)
	record, err := s.repo.Users().CreateTx(c.UserContext(), sess.DB(), &booknote.User{
		Username:     payload.Username,
		Email:        payload.Email,
		PasswordHash: hash,
		Role:         booknote.RoleUser,
	})
	if err != nil {
		return err
	}

	if err := sess.Commit(); err != nil {
		return err
	}

	s.logger.Info("user registered", "username", record.Username)

	return c.Status(fiber.StatusCreated).JSON(newUserOut(record))
}

// login exchanges form credentials for a bearer token. Unknown users and
// wrong passwords produce the identical response.
func (s *Server) login(c *fiber.Ctx) error {
	username := c.FormValue("username")
	password := c.FormValue("password")

	sess := sessionFrom(c)
	token, err := s.auther.Login(c.UserContext(), sess.DB(), username, password)
	if err != nil {
		return err
	}

	return c.JSON(TokenOut{
		AccessToken: token,
		TokenType:   "bearer",
	})
}

// me returns the authenticated caller's own record.
func (s *Server) me(c *fiber.Ctx) error {
	identity := identityFrom(c)
	sess := sessionFrom(c)

	record, err := s.repo.Users().GetByUsernameTx(c.UserContext(), sess.DB(), identity.Username())
	if err != nil {
		return err
	}

	return c.JSON(newUserOut(record))
}

func (s *Server) protectedRoute(c *fiber.Ctx) error {
	identity := identityFrom(c)
	return c.JSON(fiber.Map{
		"message": "Hello, " + identity.Username() + "! This is a protected route.",
	})
}

func (s *Server) role(c *fiber.Ctx) error {
	identity := identityFrom(c)
	return c.JSON(fiber.Map{
		"username": identity.Username(),
		"role":     identity.Role(),
	})
}

// getUser looks a user up by the id query parameter.
func (s *Server) getUser(c *fiber.Ctx) error {
	id, err := queryID(c)
	if err != nil {
		return err
	}

	sess := sessionFrom(c)
	record, err := s.repo.Users().GetByIDTx(c.UserContext(), sess.DB(), id)
	if err != nil {
		return err
	}

	return c.JSON(newUserOut(record))
}

// getAllUsers lists every account. An empty table is a 404 to match the
// rest of the collection endpoints.
func (s *Server) getAllUsers(c *fiber.Ctx) error {
	sess := sessionFrom(c)
	records, err := s.repo.Users().ListTx(c.UserContext(), sess.DB())
	if err != nil {
		return err
	}

	if len(records) == 0 {
		return booknote.NewNotFound("users not found")
	}

	return c.JSON(newUserList(records))
}

// updateUser replaces a user's profile fields. A password in the payload
// is re-hashed; an absent one leaves the stored hash untouched.
func (s *Server) updateUser(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	payload := UpdateUserPayload{}
	if err := c.BodyParser(&payload); err != nil {
		return errors.Wrap(err, errors.CategoryBadInput, "Invalid request body")
	}

	if err := payload.Validate(); err != nil {
		return err
	}

	sess := sessionFrom(c)
	record, err := s.repo.Users().GetByIDTx(c.UserContext(), sess.DB(), id)
	if err != nil {
		return err
	}

	record.Username = payload.Username
	record.Email = payload.Email
	if payload.Password != "" {
		hash, err := s.hasher.HashPassword(payload.Password)
		if err != nil {
			return err
		}
		record.PasswordHash = hash
	}

	record, err = s.repo.Users().UpdateTx(c.UserContext(), sess.DB(), record)
	if err != nil {
		return err
	}

	if err := sess.Commit(); err != nil {
		return err
	}

	return c.JSON(newUserOut(record))
}

// deleteUser removes an account by id.
func (s *Server) deleteUser(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	sess := sessionFrom(c)
	if err := s.repo.Users().DeleteTx(c.UserContext(), sess.DB(), id); err != nil {
		return err
	}

	if err := sess.Commit(); err != nil {
		return err
	}

	s.logger.Info("user deleted", "id", id)

	return c.JSON(fiber.Map{"message": "User deleted successfully"})
}

// pathID parses the :id route parameter.
func pathID(c *fiber.Ctx) (int64, error) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.New("Path parameter id must be a positive integer", errors.CategoryBadInput)
	}
	return id, nil
}
