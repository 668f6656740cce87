package dialect

import (
	"memosbridge/internal/domain"
	"net/url"
	"strings"

	"github.com/tidwall/gjson"
)

type mastodon struct{}

func (mastodon) Name() string { return Mastodon }

func (mastodon) Normalize(raw []byte) (domain.Post, error) {
	post, _, err := normalizeCommon(raw)
	if err != nil {
		return domain.Post{}, err
	}

	fillMissingMediaURLs(post.Attachments)

	return post, nil
}

// PostURL follows the web UI route /@username/id.
func (mastodon) PostURL(baseURL string, username string, statusID string) string {
	return baseURL + "/@" + url.PathEscape(username) + "/" + url.PathEscape(statusID)
}

func (mastodon) NeedsUsername() bool { return true }

func (mastodon) NumericIDs() bool { return true }

// goToSocial omits pinned on most endpoints and uses ULID status IDs. Its
// "text" field is the authored source markup, so Text is left empty and the
// rendered content is flattened instead.
type goToSocial struct{}

func (goToSocial) Name() string { return GoToSocial }

func (goToSocial) Normalize(raw []byte) (domain.Post, error) {
	post, _, err := normalizeCommon(raw)
	if err != nil {
		return domain.Post{}, err
	}

	fillMissingMediaURLs(post.Attachments)

	return post, nil
}

func (goToSocial) PostURL(baseURL string, username string, statusID string) string {
	return baseURL + "/@" + url.PathEscape(username) + "/statuses/" + url.PathEscape(statusID)
}

func (goToSocial) NeedsUsername() bool { return true }

func (goToSocial) NumericIDs() bool { return false }

// pleroma nests extensions under "pleroma": a plain-text rendition of the
// content and the MIME type of attachments it could not classify.
type pleroma struct{}

func (pleroma) Name() string { return Pleroma }

func (pleroma) Normalize(raw []byte) (domain.Post, error) {
	post, status, err := normalizeCommon(raw)
	if err != nil {
		return domain.Post{}, err
	}

	post.Text = status.Get(`pleroma.content.text/plain`).String()

	media := status.Get("media_attachments").Array()
	for i := range post.Attachments {
		if i >= len(media) {
			break
		}

		if t := post.Attachments[i].Type; t == "" || t == "unknown" {
			post.Attachments[i].Type = typeFromMIME(media[i].Get("pleroma.mime_type"), t)
		}
	}

	fillMissingMediaURLs(post.Attachments)

	return post, nil
}

// PostURL uses /notice/id, which needs no username.
func (pleroma) PostURL(baseURL string, _ string, statusID string) string {
	return baseURL + "/notice/" + url.PathEscape(statusID)
}

func (pleroma) NeedsUsername() bool { return false }

func (pleroma) NumericIDs() bool { return false }

func typeFromMIME(mime gjson.Result, fallback string) string {
	major, _, _ := strings.Cut(strings.ToLower(mime.String()), "/")

	switch major {
	case "image", "video", "audio":
		return major
	default:
		return fallback
	}
}

// fillMissingMediaURLs covers remote media that was never cached locally:
// upstream then sends url null and only remote_url.
func fillMissingMediaURLs(attachments []domain.Attachment) {
	for i := range attachments {
		if attachments[i].URL == "" {
			attachments[i].URL = attachments[i].RemoteURL
		}
	}
}
