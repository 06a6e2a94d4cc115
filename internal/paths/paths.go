// Package paths computes the ordered filesystem locations searched for
// template packages, plus the built-in static asset directory.
package paths

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// Env is the interface for environment variable lookups.
// Implementations must return "" for unset variables.
type Env interface {
	Get(key string) string
}

// OSEnv reads from the real process environment.
type OSEnv struct{}

func (OSEnv) Get(key string) string { return os.Getenv(key) }

// TemplateRoots returns the candidate root directories searched for a
// named template package, highest priority first:
//
//  1. entries of VOILA_TEMPLATE_PATH (list-separated), verbatim
//  2. the development tree next to the executable
//     (<exeDir>/../share/jupyter/voila/template)
//  3. the user data directory
//     (macOS: ~/Library/Jupyter, else $XDG_DATA_HOME/jupyter or
//     ~/.local/share/jupyter), suffixed voila/template
//  4. /usr/local/share/jupyter/voila/template
//  5. /usr/share/jupyter/voila/template
//
// The function does not touch the filesystem; nonexistent roots are
// simply never matched by the resolver.
func TemplateRoots(env Env, homeDir, exeDir string) []string {
	return templateRootsWithOS(env, homeDir, exeDir, runtime.GOOS == "darwin")
}

func templateRootsWithOS(env Env, homeDir, exeDir string, isDarwin bool) []string {
	var roots []string

	if v := env.Get("VOILA_TEMPLATE_PATH"); v != "" {
		for _, p := range strings.Split(v, string(os.PathListSeparator)) {
			if p != "" {
				roots = append(roots, p)
			}
		}
	}

	roots = append(roots, filepath.Join(exeDir, "..", "share", "jupyter", "voila", "template"))
	roots = append(roots, filepath.Join(userDataDir(env, homeDir, isDarwin), "voila", "template"))
	roots = append(roots,
		filepath.Join("/usr", "local", "share", "jupyter", "voila", "template"),
		filepath.Join("/usr", "share", "jupyter", "voila", "template"),
	)

	return roots
}

func userDataDir(env Env, homeDir string, isDarwin bool) string {
	if isDarwin {
		return filepath.Join(homeDir, "Library", "Jupyter")
	}
	if v := env.Get("XDG_DATA_HOME"); v != "" {
		return filepath.Join(v, "jupyter")
	}
	return filepath.Join(homeDir, ".local", "share", "jupyter")
}

// DefaultStaticRoot returns the built-in static asset directory shipped
// next to the executable. It backs every static search path regardless
// of template configuration.
func DefaultStaticRoot(exeDir string) string {
	return filepath.Join(exeDir, "static")
}
