// Package static serves files from an ordered list of directories,
// probing each in turn until one contains the requested path.
package static

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/idleartist/voila/internal/logging"
)

// Handler probes its directory list in order and serves the first
// match. Directories that do not exist simply never match, so a
// search path may carry dead entries. Requests naming a directory are
// served as <dir>/<defaultFilename>.
type Handler struct {
	dirs            []string
	defaultFilename string
	log             *zap.SugaredLogger
}

// NewHandler returns a handler over dirs, highest priority first.
// Request paths are taken relative to each directory; mount behind
// http.StripPrefix when serving under a sub-path.
func NewHandler(dirs []string, defaultFilename string, log *zap.SugaredLogger) *Handler {
	if log == nil {
		log = logging.Nop()
	}
	return &Handler{dirs: dirs, defaultFilename: defaultFilename, log: log}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	rel := strings.TrimPrefix(req.URL.Path, "/")
	if rel == "" {
		rel = "."
	}
	rel = filepath.FromSlash(rel)
	if rel != "." && !filepath.IsLocal(rel) {
		http.NotFound(w, req)
		return
	}

	for _, dir := range h.dirs {
		full := filepath.Join(dir, rel)
		info, err := os.Stat(full)
		if err != nil {
			continue
		}
		if info.IsDir() {
			if h.defaultFilename == "" {
				continue
			}
			full = filepath.Join(full, h.defaultFilename)
			info, err = os.Stat(full)
			if err != nil || info.IsDir() {
				continue
			}
		}
		h.serveFile(w, req, full, info)
		return
	}

	http.NotFound(w, req)
}

func (h *Handler) serveFile(w http.ResponseWriter, req *http.Request, full string, info os.FileInfo) {
	file, err := os.Open(full)
	if err != nil {
		h.log.Warnw("static file became unreadable", "path", full, "error", err)
		http.NotFound(w, req)
		return
	}
	defer func() {
		_ = file.Close()
	}()

	http.ServeContent(w, req, info.Name(), info.ModTime(), file)
}
