// Package voila turns a Jupyter notebook, or a tree of them, into a
// read-only web application. Template packages are resolved once at
// startup into ordered search paths for page templates, static assets,
// and conversion templates; kernel management stays behind the
// kernel.Manager interface.
package voila

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/idleartist/voila/internal/config"
	"github.com/idleartist/voila/internal/kernel"
	"github.com/idleartist/voila/internal/logging"
	"github.com/idleartist/voila/internal/paths"
	"github.com/idleartist/voila/internal/render"
	"github.com/idleartist/voila/internal/static"
	"github.com/idleartist/voila/internal/templates"
)

// Config is re-exported so embedders do not need to import internal
// packages.
type Config = config.Config

// DefaultConfig returns the baseline configuration with environment
// fallbacks applied.
func DefaultConfig() Config { return config.Default() }

// LoadConfig parses command line arguments into a Config.
func LoadConfig(args []string) (Config, error) { return config.Load(args) }

// App is a configured voila server: an immutable template resolution
// plus the route table built from it.
type App struct {
	cfg        Config
	log        *zap.SugaredLogger
	roots      []string
	resolution *templates.Resolution
	manager    kernel.Manager
	connDir    *kernel.ConnectionDir
	treeMode   bool
}

type router interface {
	http.Handler
	Handle(pattern string, handler http.Handler)
}

// Option customizes App construction.
type Option func(*App)

// WithLogger sets the logger; the default discards everything.
func WithLogger(log *zap.SugaredLogger) Option {
	return func(a *App) { a.log = log }
}

// WithKernelManager plugs in a kernel backend. Without one, kernel API
// routes answer 503 and everything else still works.
func WithKernelManager(m kernel.Manager) Option {
	return func(a *App) { a.manager = m }
}

// WithTemplateRoots overrides the candidate root directories searched
// for template packages. The default list comes from paths.TemplateRoots.
func WithTemplateRoots(roots ...string) Option {
	return func(a *App) { a.roots = roots }
}

// New resolves the configured template and prepares the server. The
// resolution runs exactly once, synchronously, before any request can
// be served; its result is never mutated afterwards. A missing or
// partially broken template degrades to warnings, an inheritance
// cycle is a hard error.
func New(cfg Config, opts ...Option) (*App, error) {
	app := &App{cfg: cfg, manager: kernel.NopManager{}}
	for _, opt := range opts {
		opt(app)
	}
	if app.log == nil {
		app.log = logging.Nop()
	}

	exeDir := executableDir()
	if app.roots == nil {
		home, _ := os.UserHomeDir()
		app.roots = paths.TemplateRoots(paths.OSEnv{}, home, exeDir)
	}
	staticRoot := cfg.StaticRoot
	if staticRoot == "" {
		staticRoot = paths.DefaultStaticRoot(exeDir)
	}

	res, err := templates.NewResolver(app.roots, staticRoot, app.log).Resolve(cfg.Template)
	if err != nil {
		return nil, err
	}
	app.resolution = res

	if cfg.NotebookPath != "" {
		info, err := os.Stat(cfg.NotebookPath)
		if err != nil {
			return nil, fmt.Errorf("notebook path: %w", err)
		}
		app.treeMode = info.IsDir()
	} else {
		// No notebook given: browse the working directory.
		app.treeMode = true
	}

	connDir, err := kernel.NewConnectionDir(cfg.ConnectionDirRoot, app.log)
	if err != nil {
		return nil, err
	}
	app.connDir = connDir

	return app, nil
}

// Resolution exposes the immutable template resolution, mainly for
// logging and inspection.
func (a *App) Resolution() *templates.Resolution { return a.resolution }

// Addr is the listen address derived from the configured port.
func (a *App) Addr() string { return fmt.Sprintf(":%d", a.cfg.Port) }

// Wrap registers the voila routes on the given router and returns it
// as the handler to serve.
func (a *App) Wrap(api router) http.Handler {
	if api == nil {
		panic("voila: nil router passed to Wrap; use app.Handler()")
	}

	opts := render.Options{
		StripSources: a.cfg.StripSources,
		Cache:        !a.cfg.Autoreload,
	}
	templatePaths := a.resolution.TemplatePaths

	api.Handle("/api/kernels/", kernel.NewAPIHandler(a.manager, "/api/kernels", a.log))
	api.Handle("/voila/static/", http.StripPrefix("/voila/static",
		static.NewHandler(a.resolution.StaticPaths, "index.html", a.log)))

	if a.treeMode {
		root := a.cfg.NotebookPath
		if root == "" {
			root = "."
		}
		api.Handle("/voila/tree/", render.NewTreeHandler(root, "/voila/tree", templatePaths, a.log))
		api.Handle("/voila/render/", render.NewDirectoryHandler(root, "/voila/render/", templatePaths, opts, a.log))
		api.Handle("/", render.NewTreeHandler(root, "/", templatePaths, a.log))
	} else {
		api.Handle("/", render.NewPageHandler(a.cfg.NotebookPath, templatePaths, opts, a.log))
	}

	return api
}

// Handler wraps a fresh ServeMux.
func (a *App) Handler() http.Handler {
	return a.Wrap(http.NewServeMux())
}

// Stop releases process-lifetime resources, removing the connection
// file directory.
func (a *App) Stop() error {
	return a.connDir.Cleanup()
}

func executableDir() string {
	exe, err := os.Executable()
	if err != nil {
		return "."
	}
	return filepath.Dir(exe)
}
