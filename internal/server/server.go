package server

import (
	"context"
	"errors"
	"log/slog"
	"memosbridge/internal/domain"
	"memosbridge/internal/memo"
	"memosbridge/internal/redirect"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	jsoniter "github.com/json-iterator/go"
)

const (
	appName         = "memosbridge"
	shutdownTimeout = 10 * time.Second
)

// Content is forwarded byte for byte, so HTML is not escaped in JSON output.
var jsonAPI = jsoniter.Config{
	EscapeHTML:             false,
	SortMapKeys:            true,
	ValidateJsonRawMessage: true,
}.Froze()

type MemoService interface {
	ListMemos(ctx context.Context, filter memo.Filter) ([]domain.Memo, error)
	GetMemo(ctx context.Context, pathID string) (domain.Memo, error)
	Username(ctx context.Context) (string, error)
}

type Server struct {
	app      *fiber.App
	svc      MemoService
	resolver *redirect.Resolver
	now      func() time.Time
	log      *slog.Logger
}

func New(svc MemoService, resolver *redirect.Resolver, log *slog.Logger) *Server {
	s := &Server{
		svc:      svc,
		resolver: resolver,
		now:      time.Now,
		log:      log,
	}

	s.app = fiber.New(fiber.Config{
		AppName:               appName,
		DisableStartupMessage: true,
		JSONEncoder:           jsonAPI.Marshal,
		JSONDecoder:           jsonAPI.Unmarshal,
		ErrorHandler:          s.handleError,
	})

	s.app.Use(recover.New())
	s.app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,HEAD,OPTIONS",
	}))
	s.app.Use(s.logRequests)

	s.routes()

	return s
}

// ListenAndServe blocks until ctx is cancelled or the listener fails.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	errCh := make(chan error, 1)

	go func() {
		errCh <- s.app.Listen(addr)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := s.app.ShutdownWithContext(shutdownCtx); err != nil {
		return err
	}

	if err := <-errCh; err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	return nil
}

func (s *Server) logRequests(c *fiber.Ctx) error {
	start := time.Now()
	err := c.Next()

	// Errors are rendered by handleError after the chain unwinds.
	status := c.Response().StatusCode()
	if err != nil {
		status, _ = statusFor(err)
	}

	s.log.InfoContext(c.UserContext(), "Request is served",
		"method", c.Method(),
		"path", c.Path(),
		"status", status,
		"elapsedMs", time.Since(start).Milliseconds())

	return err
}
