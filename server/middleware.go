package server

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"

	booknote "github.com/TheEmeraldArt/BookNoteProject"
	"github.com/TheEmeraldArt/BookNoteProject/metrics"
)

const (
	sessionKey  = "booknote_session"
	identityKey = "booknote_identity"

	authScheme = "Bearer"
)

// withSession opens one unit of work per request and guarantees release on
// every exit path. Handlers that write call Commit explicitly; everything
// else rolls back here, including panics unwound by the recover middleware
// and requests aborted mid-flight.
func (s *Server) withSession() fiber.Handler {
	return func(c *fiber.Ctx) error {
		sess, err := s.sessions.Acquire(c.UserContext())
		if err != nil {
			return err
		}
		defer sess.Close()

		c.Locals(sessionKey, sess)
		return c.Next()
	}
}

func sessionFrom(c *fiber.Ctx) *booknote.Session {
	sess, _ := c.Locals(sessionKey).(*booknote.Session)
	return sess
}

func identityFrom(c *fiber.Ctx) booknote.Identity {
	identity, _ := c.Locals(identityKey).(booknote.Identity)
	return identity
}

// protected resolves the bearer token into a live identity before the
// handler runs. Missing headers, bad tokens, and deleted subjects all fail
// the same way; the error handler adds the WWW-Authenticate challenge.
func (s *Server) protected() fiber.Handler {
	return func(c *fiber.Ctx) error {
		raw, ok := bearerToken(c)
		if !ok {
			return booknote.ErrUnauthenticated
		}

		sess := sessionFrom(c)
		if sess == nil {
			return booknote.ErrUnavailable
		}

		identity, err := s.auther.ResolveIdentity(c.UserContext(), sess.DB(), raw)
		if err != nil {
			return err
		}

		c.Locals(identityKey, identity)
		return c.Next()
	}
}

// requireAdmin gates a route on the admin role. Composes after protected;
// a valid identity with the user role gets a terminal 403.
func (s *Server) requireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, err := booknote.RequireAdmin(identityFrom(c)); err != nil {
			return err
		}
		return c.Next()
	}
}

func bearerToken(c *fiber.Ctx) (string, bool) {
	header := c.Get(fiber.HeaderAuthorization)
	if header == "" {
		return "", false
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], authScheme) {
		return "", false
	}

	token := strings.TrimSpace(parts[1])
	return token, token != ""
}

// observeRequests feeds the Prometheus request counters. Routes are labeled
// by their registered pattern, not the raw path, to keep cardinality flat.
func (s *Server) observeRequests() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		// Label values outlive the request; fiber's strings are backed by
		// a reused buffer, so copy before retaining them.
		method := utils.CopyString(c.Method())
		endpoint := utils.CopyString(c.Route().Path)

		status := c.Response().StatusCode()
		if err != nil {
			status = statusForError(err)
		}

		metrics.ObserveRequest(method, endpoint, status, time.Since(start))
		return err
	}
}
