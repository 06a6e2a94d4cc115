package render

import (
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const handlerNotebook = `{
  "cells": [
    {"cell_type": "markdown", "metadata": {}, "source": "# Report"}
  ],
  "metadata": {},
  "nbformat": 4,
  "nbformat_minor": 5
}`

const pageTemplate = `<html><head><title>{{.Title}}</title></head>
<body>{{range .Cells}}{{.}}{{end}}</body></html>`

func writeNotebook(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(handlerNotebook), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func templateDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	writeTemplateFile(t, dir, PageTemplateName, pageTemplate)
	return dir
}

func serve(t *testing.T, h http.Handler, path string) (int, string) {
	t.Helper()
	req := httptest.NewRequest("GET", path, nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	body, _ := io.ReadAll(rr.Result().Body)
	return rr.Code, string(body)
}

func TestPageHandlerRenders(t *testing.T) {
	nb := writeNotebook(t, t.TempDir(), "report.ipynb")
	h := NewPageHandler(nb, []string{templateDir(t)}, Options{StripSources: true}, nil)

	code, body := serve(t, h, "/")
	if code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", code, body)
	}
	if !strings.Contains(body, "<title>report</title>") {
		t.Errorf("title missing: %s", body)
	}
	if !strings.Contains(body, "Report") {
		t.Errorf("cell content missing: %s", body)
	}
}

func TestPageHandlerMissingNotebook(t *testing.T) {
	h := NewPageHandler(filepath.Join(t.TempDir(), "gone.ipynb"), []string{templateDir(t)}, Options{}, nil)

	code, _ := serve(t, h, "/")
	if code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", code)
	}
}

func TestPageHandlerNoTemplateIsServerError(t *testing.T) {
	nb := writeNotebook(t, t.TempDir(), "report.ipynb")
	// Empty search path: the server came up with nothing beyond the
	// static fallback, so the failure surfaces here, at first render.
	h := NewPageHandler(nb, nil, Options{}, nil)

	code, _ := serve(t, h, "/")
	if code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", code)
	}
}

func TestPageHandlerCacheSurvivesNotebookRemoval(t *testing.T) {
	dir := t.TempDir()
	nb := writeNotebook(t, dir, "report.ipynb")
	h := NewPageHandler(nb, []string{templateDir(t)}, Options{Cache: true}, nil)

	code, first := serve(t, h, "/")
	if code != http.StatusOK {
		t.Fatalf("status = %d", code)
	}

	if err := os.Remove(nb); err != nil {
		t.Fatal(err)
	}

	code, second := serve(t, h, "/")
	if code != http.StatusOK {
		t.Fatalf("cached serve status = %d, want 200", code)
	}
	if second != first {
		t.Error("cached response differs from first render")
	}
}

func TestDirectoryHandlerRendersRelativePath(t *testing.T) {
	root := t.TempDir()
	sub := filepath.Join(root, "reports")
	if err := os.MkdirAll(sub, 0o755); err != nil {
		t.Fatal(err)
	}
	writeNotebook(t, sub, "q3.ipynb")

	h := NewDirectoryHandler(root, "/voila/render/", []string{templateDir(t)}, Options{}, nil)

	code, body := serve(t, h, "/voila/render/reports/q3.ipynb")
	if code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", code, body)
	}
	if !strings.Contains(body, "<title>q3</title>") {
		t.Errorf("wrong page: %s", body)
	}
}

func TestDirectoryHandlerRejectsNonNotebook(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, "secrets.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	h := NewDirectoryHandler(root, "/voila/render/", []string{templateDir(t)}, Options{}, nil)

	code, _ := serve(t, h, "/voila/render/secrets.txt")
	if code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", code)
	}
}

func TestTreeHandlerListsNotebooksAndDirs(t *testing.T) {
	root := t.TempDir()
	writeNotebook(t, root, "a.ipynb")
	if err := os.MkdirAll(filepath.Join(root, "nested"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(root, "notes.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	h := NewTreeHandler(root, "/voila/tree", nil, nil)

	code, body := serve(t, h, "/voila/tree")
	if code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", code, body)
	}
	if !strings.Contains(body, `href="/voila/render/a.ipynb"`) {
		t.Errorf("notebook link missing: %s", body)
	}
	if !strings.Contains(body, `href="/voila/tree/nested"`) {
		t.Errorf("directory link missing: %s", body)
	}
	if strings.Contains(body, "notes.txt") {
		t.Errorf("non-notebook file listed: %s", body)
	}
}

func TestTreeHandlerUsesTemplateWhenPresent(t *testing.T) {
	root := t.TempDir()
	writeNotebook(t, root, "a.ipynb")
	dir := t.TempDir()
	writeTemplateFile(t, dir, TreeTemplateName, "custom tree: {{len .Entries}}")

	h := NewTreeHandler(root, "/voila/tree", []string{dir}, nil)

	code, body := serve(t, h, "/voila/tree")
	if code != http.StatusOK {
		t.Fatal(code)
	}
	if body != "custom tree: 1" {
		t.Errorf("body = %q", body)
	}
}
