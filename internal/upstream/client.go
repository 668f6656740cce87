package upstream

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const (
	userAgent = "memosbridge/1.0 (+https://github.com/usememos/memos)"

	maxResponseBytes = 8 << 20
	maxErrorBodyLen  = 512
)

// Client talks to the Mastodon-compatible REST API shared by Mastodon,
// GoToSocial and Pleroma. It makes exactly one attempt per call.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	log        *slog.Logger
}

func NewClient(
	baseURL string,
	token string,
	timeout time.Duration,
	log *slog.Logger,
) *Client {
	return &Client{
		baseURL:    strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		token:      strings.TrimSpace(token),
		httpClient: &http.Client{Timeout: timeout},
		log:        log,
	}
}

// FetchStatuses returns the raw statuses of an account, newest first.
// A limit <= 0 leaves the page size to upstream.
func (c *Client) FetchStatuses(
	ctx context.Context,
	accountID string,
	limit int,
) ([]json.RawMessage, error) {
	query := url.Values{}
	if limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}

	body, err := c.get(ctx, "/api/v1/accounts/"+url.PathEscape(accountID)+"/statuses", query)
	if err != nil {
		return nil, err
	}

	var statuses []json.RawMessage
	if err = json.Unmarshal(body, &statuses); err != nil {
		return nil, &DecodeError{Path: "statuses", Err: err}
	}

	return statuses, nil
}

func (c *Client) FetchStatus(ctx context.Context, statusID string) (json.RawMessage, error) {
	body, err := c.get(ctx, "/api/v1/statuses/"+url.PathEscape(statusID), nil)
	if err != nil {
		return nil, err
	}

	if !json.Valid(body) {
		return nil, &DecodeError{Path: "status", Err: errors.New("invalid JSON")}
	}

	return body, nil
}

func (c *Client) FetchAccount(ctx context.Context, accountID string) (json.RawMessage, error) {
	body, err := c.get(ctx, "/api/v1/accounts/"+url.PathEscape(accountID), nil)
	if err != nil {
		return nil, err
	}

	if !json.Valid(body) {
		return nil, &DecodeError{Path: "account", Err: errors.New("invalid JSON")}
	}

	return body, nil
}

func (c *Client) get(ctx context.Context, path string, query url.Values) ([]byte, error) {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	start := time.Now()

	resp, err := c.httpClient.Do(req) //nolint:gosec // URL is built from configuration
	if err != nil {
		return nil, &UnreachableError{URL: endpoint, Err: err}
	}
	defer func() {
		if err = resp.Body.Close(); err != nil {
			c.log.ErrorContext(ctx, "Failed to close response body",
				"error", err,
				"url", endpoint)
		}
	}()

	c.log.DebugContext(ctx, "Upstream responded",
		"url", endpoint,
		"status", resp.StatusCode,
		"elapsedMs", time.Since(start).Milliseconds())

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyLen))

		return nil, &StatusError{
			URL:  endpoint,
			Code: resp.StatusCode,
			Body: strings.TrimSpace(string(snippet)),
		}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, &UnreachableError{URL: endpoint, Err: fmt.Errorf("read body: %w", err)}
	}

	return body, nil
}
