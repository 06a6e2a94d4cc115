package kernel

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/idleartist/voila/internal/logging"
)

// APIHandler exposes the kernel manager under /api/kernels/. It only
// translates HTTP to Manager calls; kernel semantics stay behind the
// interface. The channels endpoint (the kernel wire protocol) is not
// implemented here and answers 501.
type APIHandler struct {
	manager Manager
	prefix  string
	log     *zap.SugaredLogger
}

func NewAPIHandler(manager Manager, prefix string, log *zap.SugaredLogger) *APIHandler {
	if manager == nil {
		manager = NopManager{}
	}
	if log == nil {
		log = logging.Nop()
	}
	return &APIHandler{manager: manager, prefix: prefix, log: log}
}

func (h *APIHandler) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	rest := strings.Trim(strings.TrimPrefix(req.URL.Path, h.prefix), "/")
	parts := strings.Split(rest, "/")

	switch {
	case len(parts) == 1 && parts[0] != "":
		h.serveKernel(w, req, parts[0])
	case len(parts) == 2 && parts[1] == "channels":
		http.Error(w, "kernel channels are handled by the kernel backend", http.StatusNotImplemented)
	case len(parts) == 2 && parts[1] == "interrupt":
		h.serveInterrupt(w, req, parts[0])
	default:
		http.NotFound(w, req)
	}
}

func (h *APIHandler) serveKernel(w http.ResponseWriter, req *http.Request, id string) {
	switch req.Method {
	case http.MethodPost:
		info, err := h.manager.Start(req.Context(), id)
		if err != nil {
			h.backendError(w, "start", id, err)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(info)
	case http.MethodDelete:
		if err := h.manager.Shutdown(req.Context(), id); err != nil {
			h.backendError(w, "shutdown", id, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *APIHandler) serveInterrupt(w http.ResponseWriter, req *http.Request, id string) {
	if req.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if err := h.manager.Interrupt(req.Context(), id); err != nil {
		h.backendError(w, "interrupt", id, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *APIHandler) backendError(w http.ResponseWriter, op, id string, err error) {
	if errors.Is(err, ErrNoBackend) {
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
		return
	}
	h.log.Errorw("kernel operation failed", "op", op, "kernel_id", id, "error", err)
	http.Error(w, "kernel operation failed", http.StatusInternalServerError)
}
