package server

import (
	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-errors"
)

// errorHandler is the single place domain errors become transport status
// codes. By the time it runs the request's unit of work has already rolled
// back (the session middleware's deferred Close fires while the error
// propagates up the chain).
func (s *Server) errorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return c.Status(fe.Code).JSON(fiber.Map{"detail": fe.Message})
	}

	var rich *errors.Error
	if !errors.As(err, &rich) {
		rich = errors.Wrap(err, errors.CategoryInternal, "An unexpected server error occurred")
	}

	status := statusForError(rich)
	if status >= fiber.StatusInternalServerError {
		s.logger.Error("request failed",
			"status", status,
			"error", rich.Message,
			"category", rich.Category,
			"path", c.OriginalURL(),
		)
	}

	if status == fiber.StatusUnauthorized {
		c.Set(fiber.HeaderWWWAuthenticate, authScheme)
	}

	body := fiber.Map{"detail": rich.Message}
	if rich.TextCode != "" {
		body["text_code"] = rich.TextCode
	}
	if rich.Category == errors.CategoryValidation {
		if vm := rich.ValidationMap(); len(vm) > 0 {
			body["validation"] = vm
		}
	}

	return c.Status(status).JSON(body)
}

// statusForError maps the error taxonomy onto HTTP statuses. Conflicts map
// to 400 so duplicate registrations read as bad requests, not 409s.
func statusForError(err error) int {
	var rich *errors.Error
	if !errors.As(err, &rich) {
		if fe, ok := err.(*fiber.Error); ok {
			return fe.Code
		}
		return fiber.StatusInternalServerError
	}

	switch rich.Category {
	case errors.CategoryAuth:
		return fiber.StatusUnauthorized
	case errors.CategoryAuthz:
		return fiber.StatusForbidden
	case errors.CategoryNotFound:
		return fiber.StatusNotFound
	case errors.CategoryConflict, errors.CategoryValidation, errors.CategoryBadInput:
		return fiber.StatusBadRequest
	case errors.CategoryOperation:
		return fiber.StatusServiceUnavailable
	default:
		if rich.Code >= fiber.StatusBadRequest && rich.Code <= fiber.StatusNetworkAuthenticationRequired {
			return rich.Code
		}
		return fiber.StatusInternalServerError
	}
}
