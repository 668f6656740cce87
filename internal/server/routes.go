package server

import (
	"fmt"
	"memosbridge/internal/domain"
	"memosbridge/internal/memo"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
)

const (
	rssAliasPrefix = "@"
	rssAliasSuffix = ".rss"

	statusTimeLayout = "2006-01-02 15:04:05"
	unknownUsername  = "unknown"
)

func (s *Server) routes() {
	s.app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	api := s.app.Group("/api/v1")
	api.Get("/status", s.handleStatus)
	api.Get("/memo", s.handleListMemos)
	api.Get("/memo/:memoID", s.handleGetMemo)

	s.app.Get("/m/:memoID", s.handleMemoRedirect)

	// "/@{username}.rss" is matched by hand since the whole segment is one
	// token for the router.
	s.app.Get("/:alias", s.handleRSSAlias)
}

func (s *Server) handleListMemos(c *fiber.Ctx) error {
	filter, err := parseFilter(c)
	if err != nil {
		return err
	}

	memos, err := s.svc.ListMemos(c.UserContext(), filter)
	if err != nil {
		return err
	}

	return c.JSON(memos)
}

func (s *Server) handleGetMemo(c *fiber.Ctx) error {
	m, err := s.svc.GetMemo(c.UserContext(), c.Params("memoID"))
	if err != nil {
		return err
	}

	return c.JSON(m)
}

func (s *Server) handleMemoRedirect(c *fiber.Ctx) error {
	location, err := s.resolver.ResolveMemo(c.UserContext(), c.Params("memoID"))
	if err != nil {
		return err
	}

	return c.Redirect(location, fiber.StatusMovedPermanently)
}

func (s *Server) handleRSSAlias(c *fiber.Ctx) error {
	alias := c.Params("alias")
	if !strings.HasPrefix(alias, rssAliasPrefix) || !strings.HasSuffix(alias, rssAliasSuffix) {
		return fiber.ErrNotFound
	}

	username := strings.TrimSuffix(strings.TrimPrefix(alias, rssAliasPrefix), rssAliasSuffix)

	location, err := s.resolver.ResolveRSS(username)
	if err != nil {
		return err
	}

	return c.Redirect(location, fiber.StatusMovedPermanently)
}

// handleStatus reports the bridge clock and the upstream login. A failed
// account lookup degrades to "unknown" instead of failing the endpoint.
func (s *Server) handleStatus(c *fiber.Ctx) error {
	ctx := c.UserContext()

	username, err := s.svc.Username(ctx)
	if err != nil {
		s.log.WarnContext(ctx, "Failed to resolve username for status",
			"error", err)

		username = unknownUsername
	}

	c.Set(fiber.HeaderContentType, fiber.MIMETextPlainCharsetUTF8)

	return c.SendString(fmt.Sprintf(
		"Current Date and Time (UTC - YYYY-MM-DD HH:MM:SS formatted): %s\nCurrent User's Login: %s\n",
		s.now().UTC().Format(statusTimeLayout),
		username,
	))
}

func parseFilter(c *fiber.Ctx) (memo.Filter, error) {
	// An explicit empty rowStatus disables the filter; only a missing one
	// defaults to NORMAL.
	filter := memo.Filter{RowStatus: domain.RowStatusNormal}
	if c.Context().QueryArgs().Has("rowStatus") {
		filter.RowStatus = c.Query("rowStatus")
	}

	if raw := c.Query("creatorId"); raw != "" {
		creatorID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return memo.Filter{}, fiber.NewError(fiber.StatusBadRequest, "invalid creatorId")
		}
		filter.CreatorID = &creatorID
	}

	if raw := c.Query("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 0 {
			return memo.Filter{}, fiber.NewError(fiber.StatusBadRequest, "invalid limit")
		}
		filter.Limit = limit
	}

	return filter, nil
}
