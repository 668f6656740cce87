package server

import (
	"errors"
	"memosbridge/internal/domain"
	"memosbridge/internal/upstream"
	"net/http"

	"github.com/gofiber/fiber/v2"
)

// statusFor maps component errors to the HTTP status returned to MemosBBS.
func statusFor(err error) (int, string) {
	var (
		fiberErr     *fiber.Error
		statusErr    *upstream.StatusError
		unreachable  *upstream.UnreachableError
		decodeErr    *upstream.DecodeError
		malformedErr *domain.MalformedPostError
	)

	switch {
	case errors.As(err, &fiberErr):
		return fiberErr.Code, fiberErr.Message
	case errors.Is(err, domain.ErrInvalidID):
		return http.StatusBadRequest, "Invalid memo ID"
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, "Memo not found"
	case errors.As(err, &statusErr):
		if statusErr.Code >= 400 && statusErr.Code < 500 {
			return statusErr.Code, "Upstream rejected the request"
		}

		return http.StatusBadGateway, "Upstream is unavailable"
	case errors.As(err, &unreachable):
		return http.StatusBadGateway, "Upstream is unreachable"
	case errors.As(err, &decodeErr), errors.As(err, &malformedErr):
		return http.StatusBadGateway, "Upstream returned a malformed post"
	default:
		return http.StatusInternalServerError, "Internal server error"
	}
}

func (s *Server) handleError(c *fiber.Ctx, err error) error {
	code, detail := statusFor(err)

	if code >= http.StatusInternalServerError {
		s.log.ErrorContext(c.UserContext(), "Failed to serve request",
			"error", err,
			"method", c.Method(),
			"path", c.Path(),
			"status", code)
	} else {
		s.log.DebugContext(c.UserContext(), "Request is rejected",
			"error", err,
			"path", c.Path(),
			"status", code)
	}

	return c.Status(code).JSON(fiber.Map{"detail": detail})
}
