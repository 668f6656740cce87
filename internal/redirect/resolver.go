package redirect

import (
	"context"
	"fmt"
	"memosbridge/internal/dialect"
	"memosbridge/internal/domain"
)

// RSSPath is where the RSS alias points; MemosBBS serves the feed of
// creator 1 there.
const RSSPath = "/u/1/rss.xml"

type StatusLookup interface {
	ResolveStatusID(ctx context.Context, pathID string) (string, error)
	Username(ctx context.Context) (string, error)
}

type Resolver struct {
	baseURL     string
	rssUsername string
	dialect     dialect.Dialect
	lookup      StatusLookup
}

func NewResolver(
	baseURL string,
	rssUsername string,
	d dialect.Dialect,
	lookup StatusLookup,
) *Resolver {
	return &Resolver{
		baseURL:     baseURL,
		rssUsername: rssUsername,
		dialect:     d,
		lookup:      lookup,
	}
}

// ResolveMemo returns the instance's web URL of the status behind memoID.
func (r *Resolver) ResolveMemo(ctx context.Context, memoID string) (string, error) {
	statusID, err := r.lookup.ResolveStatusID(ctx, memoID)
	if err != nil {
		return "", fmt.Errorf("resolve status ID: %w", err)
	}

	var username string
	if r.dialect.NeedsUsername() {
		if username, err = r.lookup.Username(ctx); err != nil {
			return "", fmt.Errorf("resolve username: %w", err)
		}
	}

	return r.dialect.PostURL(r.baseURL, username, statusID), nil
}

func (r *Resolver) ResolveRSS(username string) (string, error) {
	if username == "" || username != r.rssUsername {
		return "", fmt.Errorf("RSS alias %q: %w", username, domain.ErrNotFound)
	}

	return RSSPath, nil
}
