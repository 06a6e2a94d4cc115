package paths

import (
	"path/filepath"
	"testing"
)

// mapEnv is a simple map-backed Env implementation for testing.
type mapEnv map[string]string

func (m mapEnv) Get(key string) string {
	return m[key]
}

func TestTemplateRootsOrder(t *testing.T) {
	home := filepath.FromSlash("/home/testuser")
	exe := filepath.FromSlash("/opt/voila/bin")

	roots := templateRootsWithOS(mapEnv{}, home, exe, false)

	want := []string{
		filepath.FromSlash("/opt/voila/bin/../share/jupyter/voila/template"),
		filepath.FromSlash("/home/testuser/.local/share/jupyter/voila/template"),
		filepath.FromSlash("/usr/local/share/jupyter/voila/template"),
		filepath.FromSlash("/usr/share/jupyter/voila/template"),
	}

	if len(roots) != len(want) {
		t.Fatalf("got %d roots, want %d: %v", len(roots), len(want), roots)
	}
	for i := range want {
		if roots[i] != want[i] {
			t.Errorf("roots[%d] = %q, want %q", i, roots[i], want[i])
		}
	}
}

func TestTemplateRootsEnvOverrideFirst(t *testing.T) {
	env := mapEnv{"VOILA_TEMPLATE_PATH": "/custom/a" + string(filepath.ListSeparator) + "/custom/b"}

	roots := templateRootsWithOS(env, "/home/u", "/opt/bin", false)

	if roots[0] != "/custom/a" || roots[1] != "/custom/b" {
		t.Errorf("env roots not first: %v", roots[:2])
	}
	if len(roots) != 6 {
		t.Errorf("got %d roots, want 6: %v", len(roots), roots)
	}
}

func TestTemplateRootsXDGDataHome(t *testing.T) {
	env := mapEnv{"XDG_DATA_HOME": "/xdg/data"}

	roots := templateRootsWithOS(env, "/home/u", "/opt/bin", false)

	want := filepath.FromSlash("/xdg/data/jupyter/voila/template")
	if roots[1] != want {
		t.Errorf("user data root = %q, want %q", roots[1], want)
	}
}

func TestTemplateRootsDarwin(t *testing.T) {
	roots := templateRootsWithOS(mapEnv{"XDG_DATA_HOME": "/ignored"}, "/Users/u", "/opt/bin", true)

	want := filepath.FromSlash("/Users/u/Library/Jupyter/voila/template")
	if roots[1] != want {
		t.Errorf("user data root = %q, want %q", roots[1], want)
	}
}

func TestDefaultStaticRoot(t *testing.T) {
	got := DefaultStaticRoot(filepath.FromSlash("/opt/voila/bin"))
	want := filepath.FromSlash("/opt/voila/bin/static")
	if got != want {
		t.Errorf("DefaultStaticRoot = %q, want %q", got, want)
	}
}
