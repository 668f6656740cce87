package memo

import (
	"context"
	"log/slog"
	"memosbridge/internal/dialect"
	"memosbridge/internal/domain"
)

type ContentFormat string

const (
	FormatHTML     ContentFormat = "html"
	FormatText     ContentFormat = "text"
	FormatMarkdown ContentFormat = "markdown"

	publicVisibility = "public"
)

// Translator turns normalized posts into memos. It holds no per-request
// state and is safe for concurrent use.
type Translator struct {
	format    ContentFormat
	converter *markdownConverter
	log       *slog.Logger
}

func NewTranslator(format ContentFormat, log *slog.Logger) *Translator {
	t := &Translator{format: format, log: log}
	if format == FormatMarkdown {
		t.converter = newMarkdownConverter()
	}

	return t
}

func (t *Translator) Translate(ctx context.Context, post domain.Post) domain.Memo {
	ts := post.CreatedAt.Unix()

	resources := make([]domain.Resource, 0, len(post.Attachments))
	for _, a := range post.Attachments {
		resources = append(resources, toResource(a))
	}

	return domain.Memo{
		ID:              dialect.MemoID(post.ID),
		CreatorID:       domain.CreatorID,
		CreatorName:     post.Account.DisplayName,
		CreatorUsername: post.Account.Username,
		CreatedTs:       ts,
		UpdatedTs:       ts,
		DisplayTs:       ts,
		Content:         t.content(ctx, post),
		ResourceList:    resources,
		RelationList:    []domain.Relation{},
		Visibility:      Visibility(post.Visibility),
		Pinned:          post.Pinned,
		RowStatus:       domain.RowStatusNormal,
	}
}

// TranslateAll keeps the upstream order.
func (t *Translator) TranslateAll(ctx context.Context, posts []domain.Post) []domain.Memo {
	memos := make([]domain.Memo, 0, len(posts))
	for _, post := range posts {
		memos = append(memos, t.Translate(ctx, post))
	}

	return memos
}

// Visibility collapses the four upstream levels into Memos' two.
func Visibility(upstream string) string {
	if upstream == publicVisibility {
		return domain.VisibilityPublic
	}

	return domain.VisibilityPrivate
}

func toResource(a domain.Attachment) domain.Resource {
	external := a.RemoteURL
	if external == "" {
		external = a.URL
	}

	return domain.Resource{
		Type:         a.Type,
		Link:         a.URL,
		ExternalLink: external,
	}
}

func (t *Translator) content(ctx context.Context, post domain.Post) string {
	switch t.format {
	case FormatText:
		if post.Text != "" {
			return post.Text
		}

		text, err := htmlToText(post.Content)
		if err != nil {
			t.log.WarnContext(ctx, "Failed to flatten content so raw content will be used",
				"error", err,
				"postID", post.ID)

			return post.Content
		}

		return text
	case FormatMarkdown:
		md, err := t.converter.convert(post.Content)
		if err != nil {
			t.log.WarnContext(ctx, "Failed to convert content to markdown so raw content will be used",
				"error", err,
				"postID", post.ID)

			return post.Content
		}

		return md
	default:
		return post.Content
	}
}
