package render

import (
	"fmt"
	"html/template"
	"strings"

	"github.com/idleartist/voila/internal/nbformat"
)

// Options controls cell conversion and page handling.
type Options struct {
	// StripSources drops code cell sources from the output, leaving
	// only their results. This is the read-only dashboard default.
	StripSources bool

	// Cache serves the first successful render for the handler's
	// lifetime instead of re-reading the notebook per request.
	Cache bool
}

// ConvertCells turns notebook cells into HTML fragments, one per cell,
// in notebook order. Raw cells pass through untouched inside a <pre>;
// markdown goes through the markdown converter; code cells render
// their (optionally stripped) source plus their outputs.
func ConvertCells(nb *nbformat.Notebook, opts Options) ([]template.HTML, error) {
	language := nb.Language()
	fragments := make([]template.HTML, 0, len(nb.Cells))

	for i, cell := range nb.Cells {
		var frag template.HTML
		var err error

		switch cell.Type {
		case nbformat.CellMarkdown:
			frag, err = convertMarkdownCell(cell)
		case nbformat.CellCode:
			frag, err = convertCodeCell(cell, language, opts)
		case nbformat.CellRaw:
			frag = wrap("voila-cell voila-raw", pre(cell.Source.String()))
		default:
			// Unknown cell types are skipped rather than failing the
			// whole page.
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("cell %d: %w", i, err)
		}
		fragments = append(fragments, frag)
	}

	return fragments, nil
}

func convertMarkdownCell(cell nbformat.Cell) (template.HTML, error) {
	body, err := renderMarkdown(cell.Source.String())
	if err != nil {
		return "", err
	}
	return wrap("voila-cell voila-markdown", body), nil
}

func convertCodeCell(cell nbformat.Cell, language string, opts Options) (template.HTML, error) {
	var parts []template.HTML

	if !opts.StripSources && strings.TrimSpace(cell.Source.String()) != "" {
		source, err := highlightSource(cell.Source.String(), language)
		if err != nil {
			return "", err
		}
		parts = append(parts, wrap("voila-source", source))
	}

	for _, out := range cell.Outputs {
		parts = append(parts, convertOutput(out))
	}

	return wrap("voila-cell voila-code", join(parts)), nil
}

func convertOutput(out nbformat.Output) template.HTML {
	switch out.Type {
	case nbformat.OutputStream:
		class := "voila-stream voila-stream-" + out.Name
		return wrap(class, pre(out.Text.String()))

	case nbformat.OutputDisplayData, nbformat.OutputExecuteResult:
		return wrap("voila-output", richData(out.Data))

	case nbformat.OutputError:
		text := strings.Join(out.Traceback, "\n")
		if text == "" {
			text = out.ErrName + ": " + out.ErrValue
		}
		return wrap("voila-error", pre(stripANSI(text)))
	}
	return ""
}

// richData picks the richest representation the browser can show:
// HTML as-is, then PNG as a data URI, then escaped plain text.
func richData(data map[string]nbformat.MultilineText) template.HTML {
	if v, ok := data["text/html"]; ok {
		return template.HTML(v.String())
	}
	if v, ok := data["image/png"]; ok {
		src := "data:image/png;base64," + strings.TrimSpace(v.String())
		return template.HTML(`<img src="` + src + `"/>`)
	}
	if v, ok := data["text/plain"]; ok {
		return pre(v.String())
	}
	return ""
}

func pre(text string) template.HTML {
	return template.HTML("<pre>" + template.HTMLEscapeString(text) + "</pre>")
}

func wrap(class string, inner template.HTML) template.HTML {
	return template.HTML(`<div class="`+class+`">`) + inner + template.HTML("</div>")
}

func join(parts []template.HTML) template.HTML {
	var b strings.Builder
	for _, p := range parts {
		b.WriteString(string(p))
	}
	return template.HTML(b.String())
}

// stripANSI removes terminal color escapes from tracebacks; kernels
// emit them for console display and they are noise in HTML.
func stripANSI(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == 0x1b && i+1 < len(s) && s[i+1] == '[' {
			i += 2
			for i < len(s) && !isANSIFinal(s[i]) {
				i++
			}
			continue
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

func isANSIFinal(c byte) bool {
	return c >= 0x40 && c <= 0x7e
}
