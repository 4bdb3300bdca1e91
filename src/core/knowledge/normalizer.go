package knowledge

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/tmc/langchaingo/documentloaders"
)

// Pre-compiled expressions for HTML stripping
var (
	scriptTag  = regexp.MustCompile(`(?is)<script[^>]*>.*?</script>`)
	styleTag   = regexp.MustCompile(`(?is)<style[^>]*>.*?</style>`)
	htmlTag    = regexp.MustCompile(`<[^>]+>`)
	whitespace = regexp.MustCompile(`\s+`)
)

// Normalizer converts raw document payloads (HTML or PDF) into plain text.
type Normalizer struct{}

func NewNormalizer() *Normalizer {
	return &Normalizer{}
}

// Normalize extracts plain text from data. The content-type hint or a .pdf
// URL suffix selects PDF extraction; everything else is treated as HTML.
func (n *Normalizer) Normalize(ctx context.Context, data []byte, contentType, url string) (string, error) {
	if isPDF(contentType, url) {
		return n.extractPDF(ctx, data)
	}
	return stripHTML(string(data)), nil
}

// extractPDF extracts text page by page and joins pages with a paragraph
// separator before collapsing whitespace.
func (n *Normalizer) extractPDF(ctx context.Context, data []byte) (string, error) {
	loader := documentloaders.NewPDF(bytes.NewReader(data), int64(len(data)))

	docs, err := loader.Load(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to extract pdf text: %w", err)
	}

	pages := make([]string, 0, len(docs))
	for _, doc := range docs {
		pages = append(pages, doc.PageContent)
	}

	return collapseWhitespace(strings.Join(pages, "\n\n")), nil
}

// stripHTML removes script and style blocks, strips the remaining tags and
// collapses whitespace runs to single spaces.
func stripHTML(html string) string {
	text := scriptTag.ReplaceAllString(html, "")
	text = styleTag.ReplaceAllString(text, "")
	text = htmlTag.ReplaceAllString(text, " ")
	return collapseWhitespace(text)
}

func collapseWhitespace(s string) string {
	return strings.TrimSpace(whitespace.ReplaceAllString(s, " "))
}

func isPDF(contentType, url string) bool {
	if strings.Contains(strings.ToLower(contentType), "pdf") {
		return true
	}
	return strings.HasSuffix(strings.ToLower(url), ".pdf")
}
