// Package kernel defines the narrow surface the server uses to talk
// to a kernel-management backend, plus the lifecycle of the connection
// file directory handed to that backend. Kernel processes and their
// wire protocol live entirely behind the Manager interface.
package kernel

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/idleartist/voila/internal/logging"
)

// ErrNoBackend reports that no kernel backend is configured.
var ErrNoBackend = errors.New("no kernel backend configured")

// Info describes a running kernel.
type Info struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Manager is everything the server needs from a kernel backend.
type Manager interface {
	Start(ctx context.Context, name string) (Info, error)
	Interrupt(ctx context.Context, id string) error
	Shutdown(ctx context.Context, id string) error
}

// NopManager satisfies Manager without any backend. Every call fails
// with ErrNoBackend; the server still serves rendered notebooks and
// static assets.
type NopManager struct{}

func (NopManager) Start(context.Context, string) (Info, error) { return Info{}, ErrNoBackend }
func (NopManager) Interrupt(context.Context, string) error     { return ErrNoBackend }
func (NopManager) Shutdown(context.Context, string) error      { return ErrNoBackend }

// ConnectionDir is the per-process directory kernel connection files
// are written to. It is created before the server starts accepting
// connections and removed on shutdown.
type ConnectionDir struct {
	path string
	log  *zap.SugaredLogger
}

// NewConnectionDir creates a fresh voila_<uuid> directory under root,
// or under the system temp directory when root is empty.
func NewConnectionDir(root string, log *zap.SugaredLogger) (*ConnectionDir, error) {
	if log == nil {
		log = logging.Nop()
	}
	if root == "" {
		root = os.TempDir()
	}
	path := filepath.Join(root, "voila_"+uuid.NewString())
	if err := os.MkdirAll(path, 0o700); err != nil {
		return nil, fmt.Errorf("creating connection dir: %w", err)
	}
	log.Infow("storing connection files", "dir", path)
	return &ConnectionDir{path: path, log: log}, nil
}

func (d *ConnectionDir) Path() string { return d.path }

// Cleanup removes the directory and everything in it.
func (d *ConnectionDir) Cleanup() error {
	if d == nil || d.path == "" {
		return nil
	}
	if err := os.RemoveAll(d.path); err != nil {
		return fmt.Errorf("removing connection dir: %w", err)
	}
	d.log.Debugw("removed connection dir", "dir", d.path)
	return nil
}
