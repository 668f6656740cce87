package redirect_test

import (
	"context"
	"errors"
	"memosbridge/internal/dialect"
	"memosbridge/internal/domain"
	"memosbridge/internal/redirect"
	"testing"
)

type stubLookup struct {
	statusID      string
	username      string
	err           error
	usernameCalls int
}

func (s *stubLookup) ResolveStatusID(_ context.Context, pathID string) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	if s.statusID != "" {
		return s.statusID, nil
	}

	return pathID, nil
}

func (s *stubLookup) Username(context.Context) (string, error) {
	s.usernameCalls++

	return s.username, nil
}

func TestResolveMemoPerDialect(t *testing.T) {
	cases := []struct {
		instanceType  string
		statusID      string
		want          string
		usernameCalls int
	}{
		{dialect.Mastodon, "", "https://example.social/@sun/110", 1},
		{dialect.GoToSocial, "01F8MH1H7YV1Z7D2C8K2730QBF", "https://example.social/@sun/statuses/01F8MH1H7YV1Z7D2C8K2730QBF", 1},
		{dialect.Pleroma, "AdT3SHpLeqqi2VBHii", "https://example.social/notice/AdT3SHpLeqqi2VBHii", 0},
	}

	for _, tc := range cases {
		t.Run(tc.instanceType, func(t *testing.T) {
			lookup := &stubLookup{statusID: tc.statusID, username: "sun"}
			r := redirect.NewResolver("https://example.social", "sun", dialect.For(tc.instanceType), lookup)

			got, err := r.ResolveMemo(context.Background(), "110")
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Fatalf("got %q want %q", got, tc.want)
			}
			if lookup.usernameCalls != tc.usernameCalls {
				t.Fatalf("expected %d username lookups, got %d", tc.usernameCalls, lookup.usernameCalls)
			}
		})
	}
}

func TestResolveMemoPropagatesLookupError(t *testing.T) {
	r := redirect.NewResolver("https://example.social", "sun", dialect.For(dialect.Mastodon),
		&stubLookup{err: domain.ErrNotFound})

	if _, err := r.ResolveMemo(context.Background(), "1"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestResolveRSS(t *testing.T) {
	r := redirect.NewResolver("https://example.social", "sun", dialect.For(dialect.Mastodon), &stubLookup{})

	got, err := r.ResolveRSS("sun")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "/u/1/rss.xml" {
		t.Fatalf("unexpected destination: %q", got)
	}

	for _, username := range []string{"other", "Sun", "", "sun "} {
		if _, err = r.ResolveRSS(username); !errors.Is(err, domain.ErrNotFound) {
			t.Fatalf("expected ErrNotFound for %q, got %v", username, err)
		}
	}
}
