package memo

import (
	"fmt"
	"html"
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/PuerkitoBio/goquery"
)

const blockSelector = "p, div, li, blockquote, pre, h1, h2, h3, h4, h5, h6"

// htmlToText flattens status HTML into plain lines. Links whose text differs
// from their target become "text (href)"; blank lines are dropped.
func htmlToText(content string) (string, error) {
	if strings.TrimSpace(content) == "" {
		return "", nil
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(content))
	if err != nil {
		return "", fmt.Errorf("create document from reader: %w", err)
	}

	doc.Find("a").Each(func(_ int, a *goquery.Selection) {
		href := strings.TrimSpace(a.AttrOr("href", ""))
		text := strings.TrimSpace(a.Text())

		replacement := text
		if href != "" && text != "" && href != text {
			replacement = fmt.Sprintf("%s (%s)", text, href)
		}

		a.ReplaceWithHtml(html.EscapeString(replacement))
	})

	doc.Find("br").Each(func(_ int, br *goquery.Selection) {
		br.ReplaceWithHtml("\n")
	})

	doc.Find(blockSelector).Each(func(_ int, block *goquery.Selection) {
		block.BeforeHtml("\n")
		block.AfterHtml("\n")
	})

	var lines []string
	for _, line := range strings.Split(doc.Text(), "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			lines = append(lines, trimmed)
		}
	}

	return strings.Join(lines, "\n"), nil
}

type markdownConverter struct {
	conv *md.Converter
}

func newMarkdownConverter() *markdownConverter {
	return &markdownConverter{conv: md.NewConverter("", true, nil)}
}

func (c *markdownConverter) convert(content string) (string, error) {
	if strings.TrimSpace(content) == "" {
		return "", nil
	}

	out, err := c.conv.ConvertString(content)
	if err != nil {
		return "", fmt.Errorf("convert to markdown: %w", err)
	}

	return strings.TrimSpace(out), nil
}
