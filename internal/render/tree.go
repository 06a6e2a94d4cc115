package render

import (
	"bytes"
	"errors"
	"html/template"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/idleartist/voila/internal/logging"
)

// builtinTreeTemplate backs the tree view when no template package
// provides a tree.html. Unlike the page template there is always a
// usable default: the listing must work even with an empty search
// path, or there would be no way to reach a notebook at all.
const builtinTreeTemplate = `<!DOCTYPE html>
<html>
<head><title>{{.Title}}</title></head>
<body>
<h1>{{.Title}}</h1>
<ul>
{{- range .Entries}}
<li><a href="{{.URL}}">{{.Name}}</a></li>
{{- end}}
</ul>
</body>
</html>
`

var (
	builtinTree     *template.Template
	builtinTreeOnce sync.Once
)

func getBuiltinTree() *template.Template {
	builtinTreeOnce.Do(func() {
		builtinTree = template.Must(template.New(TreeTemplateName).Parse(builtinTreeTemplate))
	})
	return builtinTree
}

// TreeEntry is one row in a directory listing.
type TreeEntry struct {
	Name  string
	URL   string
	IsDir bool
}

// TreeData is what the tree template executes against.
type TreeData struct {
	Title      string
	Path       string
	Entries    []TreeEntry
	StaticBase string
}

// TreeHandler lists notebooks under a root directory: subdirectories
// link back into the tree view, .ipynb files link into the render
// view. Everything else is hidden.
type TreeHandler struct {
	root          string
	prefix        string
	templatePaths []string
	log           *zap.SugaredLogger
}

func NewTreeHandler(root, prefix string, templatePaths []string, log *zap.SugaredLogger) *TreeHandler {
	if log == nil {
		log = logging.Nop()
	}
	return &TreeHandler{root: root, prefix: prefix, templatePaths: templatePaths, log: log}
}

func (h *TreeHandler) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	rel := strings.TrimPrefix(req.URL.Path, h.prefix)
	rel = strings.TrimPrefix(rel, "/")
	relFS := filepath.FromSlash(rel)
	if relFS == "" {
		relFS = "."
	}
	if relFS != "." && !filepath.IsLocal(relFS) {
		http.NotFound(w, req)
		return
	}

	dir := filepath.Join(h.root, relFS)
	entries, err := os.ReadDir(dir)
	if err != nil {
		http.NotFound(w, req)
		return
	}

	data := TreeData{
		Title:      filepath.Base(dir),
		Path:       rel,
		StaticBase: StaticBase,
	}
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}
		child := path.Join(rel, name)
		switch {
		case entry.IsDir():
			data.Entries = append(data.Entries, TreeEntry{
				Name:  name + "/",
				URL:   "/voila/tree/" + child,
				IsDir: true,
			})
		case strings.HasSuffix(name, ".ipynb"):
			data.Entries = append(data.Entries, TreeEntry{
				Name: name,
				URL:  "/voila/render/" + child,
			})
		}
	}
	sort.Slice(data.Entries, func(i, j int) bool {
		if data.Entries[i].IsDir != data.Entries[j].IsDir {
			return data.Entries[i].IsDir
		}
		return data.Entries[i].Name < data.Entries[j].Name
	})

	tmpl, err := LoadTemplate(h.templatePaths, TreeTemplateName)
	if err != nil {
		if !errors.Is(err, ErrNoTemplate) {
			h.log.Errorw("broken tree template", "error", err)
			http.Error(w, "broken tree template", http.StatusInternalServerError)
			return
		}
		tmpl = getBuiltinTree()
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		h.log.Errorw("tree template execution failed", "error", err)
		http.Error(w, "tree template execution failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}
