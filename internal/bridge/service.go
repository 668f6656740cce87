package bridge

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"memosbridge/internal/dialect"
	"memosbridge/internal/domain"
	"memosbridge/internal/memo"
	"strings"
)

// Upstream is the subset of upstream.Client the service needs.
type Upstream interface {
	FetchStatuses(ctx context.Context, accountID string, limit int) ([]json.RawMessage, error)
	FetchStatus(ctx context.Context, statusID string) (json.RawMessage, error)
	FetchAccount(ctx context.Context, accountID string) (json.RawMessage, error)
}

type Service struct {
	upstream   Upstream
	dialect    dialect.Dialect
	translator *memo.Translator
	accountID  string
	username   string
	log        *slog.Logger
}

// New wires the service. username may be empty, in which case it is looked
// up from the account endpoint whenever it is needed.
func New(
	up Upstream,
	d dialect.Dialect,
	translator *memo.Translator,
	accountID string,
	username string,
	log *slog.Logger,
) *Service {
	return &Service{
		upstream:   up,
		dialect:    d,
		translator: translator,
		accountID:  accountID,
		username:   username,
		log:        log,
	}
}

func (s *Service) Dialect() dialect.Dialect {
	return s.dialect
}

// ListMemos fetches the account's statuses once and returns them as memos in
// upstream order. A single malformed status fails the whole listing.
func (s *Service) ListMemos(ctx context.Context, filter memo.Filter) ([]domain.Memo, error) {
	posts, err := s.fetchPosts(ctx, filter.EffectiveLimit())
	if err != nil {
		return nil, err
	}

	memos := filter.Apply(s.translator.TranslateAll(ctx, posts))

	s.log.DebugContext(ctx, "Memos are listed",
		"dialect", s.dialect.Name(),
		"upstreamCount", len(posts),
		"memoCount", len(memos))

	return memos, nil
}

func (s *Service) GetMemo(ctx context.Context, pathID string) (domain.Memo, error) {
	statusID, raw, err := s.resolve(ctx, pathID)
	if err != nil {
		return domain.Memo{}, err
	}

	if raw == nil {
		raw, err = s.upstream.FetchStatus(ctx, statusID)
		if err != nil {
			return domain.Memo{}, fmt.Errorf("fetch status: %w", err)
		}
	}

	post, err := s.dialect.Normalize(raw)
	if err != nil {
		return domain.Memo{}, fmt.Errorf("normalize status: %w", err)
	}

	return s.translator.Translate(ctx, post), nil
}

// ResolveStatusID maps a path ID to an upstream status ID. Dialects with
// decimal status IDs use it as is and reject anything else. For the others
// a non-decimal path ID is already upstream's, while a decimal one is first
// matched as a hashed memo ID against the account's statuses and otherwise
// asked of upstream directly, since FlakeId instances keep legacy integer IDs.
func (s *Service) ResolveStatusID(ctx context.Context, pathID string) (string, error) {
	statusID, _, err := s.resolve(ctx, pathID)

	return statusID, err
}

// resolve returns the status body too when it had to be fetched already.
func (s *Service) resolve(ctx context.Context, pathID string) (string, json.RawMessage, error) {
	pathID = strings.TrimSpace(pathID)
	if pathID == "" {
		return "", nil, domain.ErrNotFound
	}

	if s.dialect.NumericIDs() {
		if !dialect.IsDecimal(pathID) {
			return "", nil, fmt.Errorf("%w: %q", domain.ErrInvalidID, pathID)
		}

		return pathID, nil, nil
	}

	if !dialect.IsDecimal(pathID) {
		return pathID, nil, nil
	}

	statuses, err := s.upstream.FetchStatuses(ctx, s.accountID, memo.MaxLimit)
	if err != nil {
		return "", nil, fmt.Errorf("fetch statuses: %w", err)
	}

	want := dialect.MemoID(pathID)
	for _, raw := range statuses {
		post, normalizeErr := s.dialect.Normalize(raw)
		if normalizeErr != nil {
			s.log.WarnContext(ctx, "Skipping malformed status during ID lookup",
				"error", normalizeErr,
				"memoID", pathID)

			continue
		}

		if dialect.MemoID(post.ID) == want {
			return post.ID, raw, nil
		}
	}

	raw, err := s.upstream.FetchStatus(ctx, pathID)
	if err != nil {
		return "", nil, fmt.Errorf("resolve memo ID %s: %w", pathID, err)
	}

	return pathID, raw, nil
}

// Username returns the configured username or the account's current one.
func (s *Service) Username(ctx context.Context) (string, error) {
	if s.username != "" {
		return s.username, nil
	}

	raw, err := s.upstream.FetchAccount(ctx, s.accountID)
	if err != nil {
		return "", fmt.Errorf("fetch account: %w", err)
	}

	acc, err := dialect.ParseAccount(raw)
	if err != nil {
		return "", fmt.Errorf("parse account: %w", err)
	}

	if acc.Username == "" {
		return "", &domain.MalformedPostError{PostID: s.accountID, Field: "username"}
	}

	return acc.Username, nil
}

func (s *Service) fetchPosts(ctx context.Context, limit int) ([]domain.Post, error) {
	statuses, err := s.upstream.FetchStatuses(ctx, s.accountID, limit)
	if err != nil {
		return nil, fmt.Errorf("fetch statuses: %w", err)
	}

	posts := make([]domain.Post, 0, len(statuses))
	for _, raw := range statuses {
		post, normalizeErr := s.dialect.Normalize(raw)
		if normalizeErr != nil {
			return nil, fmt.Errorf("normalize status: %w", normalizeErr)
		}

		posts = append(posts, post)
	}

	return posts, nil
}
