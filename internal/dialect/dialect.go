// Package dialect normalizes the statuses of the Mastodon-compatible APIs
// served by Mastodon, GoToSocial and Pleroma into domain.Post.
package dialect

import (
	"fmt"
	"hash/fnv"
	"memosbridge/internal/domain"
	"strconv"
	"strings"
	"time"

	"github.com/tidwall/gjson"
)

const (
	Mastodon   = "mastodon"
	GoToSocial = "gotosocial"
	Pleroma    = "pleroma"

	// Keeps hashed memo IDs exact in JavaScript numbers.
	maxSafeInteger = 1<<53 - 1
)

type Dialect interface {
	Name() string
	Normalize(raw []byte) (domain.Post, error)
	// PostURL is the public web URL of a status on the instance.
	PostURL(baseURL string, username string, statusID string) string
	// NeedsUsername reports whether PostURL uses the username.
	NeedsUsername() bool
	// NumericIDs reports whether upstream status IDs are decimal integers.
	NumericIDs() bool
}

// For selects a dialect by instance type. Unknown values get Mastodon.
func For(instanceType string) Dialect {
	switch strings.ToLower(strings.TrimSpace(instanceType)) {
	case GoToSocial:
		return goToSocial{}
	case Pleroma:
		return pleroma{}
	default:
		return mastodon{}
	}
}

// MemoID maps an upstream status ID to the integer ID of its memo. Decimal
// IDs keep their value; anything else (ULID, FlakeId) is hashed.
func MemoID(statusID string) int64 {
	if n, err := strconv.ParseInt(statusID, 10, 64); err == nil && n >= 0 {
		return n
	}

	h := fnv.New64a()
	_, _ = h.Write([]byte(statusID))

	return int64(h.Sum64() & maxSafeInteger)
}

func IsDecimal(id string) bool {
	if id == "" {
		return false
	}

	for _, r := range id {
		if r < '0' || r > '9' {
			return false
		}
	}

	return true
}

func ParseAccount(raw []byte) (domain.Account, error) {
	if !gjson.ValidBytes(raw) {
		return domain.Account{}, &domain.MalformedPostError{Field: "account", Err: fmt.Errorf("invalid JSON")}
	}

	return parseAccount(gjson.ParseBytes(raw)), nil
}

func parseAccount(acc gjson.Result) domain.Account {
	return domain.Account{
		ID:          acc.Get("id").String(),
		Username:    acc.Get("username").String(),
		Acct:        acc.Get("acct").String(),
		DisplayName: acc.Get("display_name").String(),
	}
}

// normalizeCommon reads the fields all three dialects agree on.
func normalizeCommon(raw []byte) (domain.Post, gjson.Result, error) {
	if !gjson.ValidBytes(raw) {
		return domain.Post{}, gjson.Result{}, &domain.MalformedPostError{
			Field: "body",
			Err:   fmt.Errorf("invalid JSON"),
		}
	}

	status := gjson.ParseBytes(raw)

	id := strings.TrimSpace(status.Get("id").String())
	if id == "" {
		return domain.Post{}, status, &domain.MalformedPostError{Field: "id"}
	}

	createdAtRaw := strings.TrimSpace(status.Get("created_at").String())
	if createdAtRaw == "" {
		return domain.Post{}, status, &domain.MalformedPostError{PostID: id, Field: "created_at"}
	}

	createdAt, err := parseTimestamp(createdAtRaw)
	if err != nil {
		return domain.Post{}, status, &domain.MalformedPostError{PostID: id, Field: "created_at", Err: err}
	}

	attachments := make([]domain.Attachment, 0, len(status.Get("media_attachments").Array()))
	for _, media := range status.Get("media_attachments").Array() {
		attachments = append(attachments, domain.Attachment{
			Type:      media.Get("type").String(),
			URL:       media.Get("url").String(),
			RemoteURL: media.Get("remote_url").String(),
		})
	}

	return domain.Post{
		ID:          id,
		Account:     parseAccount(status.Get("account")),
		CreatedAt:   createdAt,
		Content:     status.Get("content").String(),
		Attachments: attachments,
		Visibility:  status.Get("visibility").String(),
		Pinned:      status.Get("pinned").Bool(),
	}, status, nil
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05.999999999Z0700",
}

// parseTimestamp accepts RFC 3339 and the zone-less and colon-less offset
// forms seen from older Pleroma releases. Zone-less values are UTC.
func parseTimestamp(raw string) (time.Time, error) {
	var firstErr error

	for _, layout := range timestampLayouts {
		t, err := time.Parse(layout, raw)
		if err == nil {
			return t.UTC(), nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}

	return time.Time{}, fmt.Errorf("parse timestamp: %w", firstErr)
}
