package render

import (
	"bytes"
	"fmt"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

var markdown = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
)

// LedgerHTML converts a markdown ledger produced by LedgerMarkdown to an HTML fragment.
func LedgerHTML(md string) (string, error) {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(md), &buf); err != nil {
		return "", fmt.Errorf("failed to convert ledger to HTML: %w", err)
	}
	return buf.String(), nil
}
