package render

import (
	"bytes"
	"html/template"
	"sync"

	"github.com/alecthomas/chroma/v2/quick"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// markdownInstance is initialized once and reused. The converter
// configuration never changes and goldmark.Markdown is safe to share.
var (
	markdownInstance goldmark.Markdown
	markdownOnce     sync.Once
)

func getMarkdown() goldmark.Markdown {
	markdownOnce.Do(func() {
		markdownInstance = goldmark.New(
			goldmark.WithExtensions(
				extension.GFM,
			),
		)
	})
	return markdownInstance
}

func renderMarkdown(source string) (template.HTML, error) {
	var buf bytes.Buffer
	if err := getMarkdown().Convert([]byte(source), &buf); err != nil {
		return "", err
	}
	return template.HTML(buf.String()), nil
}

// highlightSource renders code with chroma's HTML formatter. An
// unknown language falls back to chroma's plaintext lexer, so this
// only errors when the formatter itself fails.
func highlightSource(source, language string) (template.HTML, error) {
	var buf bytes.Buffer
	if err := quick.Highlight(&buf, source, language, "html", "github"); err != nil {
		return "", err
	}
	return template.HTML(buf.String()), nil
}
