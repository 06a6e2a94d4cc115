package render

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"path/filepath"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/idleartist/voila/internal/logging"
	"github.com/idleartist/voila/internal/nbformat"
)

// StaticBase is the URL prefix templates use to reference static
// assets.
const StaticBase = "/voila/static"

// PageHandler renders one fixed notebook. Without Options.Cache the
// notebook file is read on every request so edits show up on reload;
// the template search path is fixed for the handler's lifetime either
// way.
type PageHandler struct {
	notebookPath  string
	templatePaths []string
	opts          Options
	log           *zap.SugaredLogger

	mu     sync.Mutex
	cached []byte
}

func NewPageHandler(notebookPath string, templatePaths []string, opts Options, log *zap.SugaredLogger) *PageHandler {
	if log == nil {
		log = logging.Nop()
	}
	return &PageHandler{
		notebookPath:  notebookPath,
		templatePaths: templatePaths,
		opts:          opts,
		log:           log,
	}
}

func (h *PageHandler) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	if !h.opts.Cache {
		serveNotebook(w, req, h.notebookPath, h.templatePaths, h.opts, h.log)
		return
	}

	h.mu.Lock()
	cached := h.cached
	h.mu.Unlock()
	if cached == nil {
		page, err := renderPage(h.notebookPath, h.templatePaths, h.opts)
		if err != nil {
			writeRenderError(w, req, err, h.log)
			return
		}
		h.mu.Lock()
		h.cached = page
		cached = page
		h.mu.Unlock()
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(cached)
}

// DirectoryHandler renders notebooks under a root directory, with the
// notebook's relative path taken from the request URL below prefix.
type DirectoryHandler struct {
	root          string
	prefix        string
	templatePaths []string
	opts          Options
	log           *zap.SugaredLogger
}

func NewDirectoryHandler(root, prefix string, templatePaths []string, opts Options, log *zap.SugaredLogger) *DirectoryHandler {
	if log == nil {
		log = logging.Nop()
	}
	return &DirectoryHandler{
		root:          root,
		prefix:        prefix,
		templatePaths: templatePaths,
		opts:          opts,
		log:           log,
	}
}

func (h *DirectoryHandler) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	rel := strings.TrimPrefix(req.URL.Path, h.prefix)
	rel = filepath.FromSlash(rel)
	if rel == "" || !filepath.IsLocal(rel) || filepath.Ext(rel) != ".ipynb" {
		http.NotFound(w, req)
		return
	}
	serveNotebook(w, req, filepath.Join(h.root, rel), h.templatePaths, h.opts, h.log)
}

func serveNotebook(w http.ResponseWriter, req *http.Request, path string, templatePaths []string, opts Options, log *zap.SugaredLogger) {
	page, err := renderPage(path, templatePaths, opts)
	if err != nil {
		writeRenderError(w, req, err, log)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(page)
}

func renderPage(path string, templatePaths []string, opts Options) ([]byte, error) {
	nb, err := nbformat.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cells, err := ConvertCells(nb, opts)
	if err != nil {
		return nil, fmt.Errorf("converting %s: %w", path, err)
	}

	tmpl, err := LoadTemplate(templatePaths, PageTemplateName)
	if err != nil {
		return nil, err
	}

	data := PageData{
		Title:      strings.TrimSuffix(filepath.Base(path), ".ipynb"),
		Cells:      cells,
		StaticBase: StaticBase,
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("executing page template: %w", err)
	}
	return buf.Bytes(), nil
}

func writeRenderError(w http.ResponseWriter, req *http.Request, err error, log *zap.SugaredLogger) {
	switch {
	case errors.Is(err, fs.ErrNotExist):
		http.NotFound(w, req)
	case errors.Is(err, ErrNoTemplate):
		// This is where a fully-unresolvable template configuration
		// finally surfaces: the server starts fine, the first render
		// does not.
		log.Errorw("no usable page template", "error", err)
		http.Error(w, "no usable page template", http.StatusInternalServerError)
	default:
		log.Errorw("failed to render notebook", "error", err)
		http.Error(w, "failed to render notebook", http.StatusInternalServerError)
	}
}
