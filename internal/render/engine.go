// Package render converts notebooks to HTML pages: markdown cells
// through goldmark, code cells through chroma, the whole page through
// an html/template looked up on the resolved template search path.
package render

import (
	"errors"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
)

// Page template filenames looked up on the template search path.
const (
	PageTemplateName = "index.html"
	TreeTemplateName = "tree.html"
)

// ErrNoTemplate reports that no directory on the search path provides
// the requested template file.
var ErrNoTemplate = errors.New("no template found in search path")

// LoadTemplate parses the named template from the first directory on
// the search path that contains it. Directories that do not exist are
// skipped; a directory that contains the file but fails to parse is a
// hard error (an author wrote a broken template, hiding it behind a
// base's copy would be confusing).
func LoadTemplate(paths []string, name string) (*template.Template, error) {
	for _, dir := range paths {
		full := filepath.Join(dir, name)
		if _, err := os.Stat(full); err != nil {
			continue
		}
		tmpl, err := template.ParseFiles(full)
		if err != nil {
			return nil, fmt.Errorf("parsing %s: %w", full, err)
		}
		return tmpl, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrNoTemplate, name)
}

// PageData is what a page template executes against.
type PageData struct {
	Title      string
	Cells      []template.HTML
	StaticBase string
}
