package nbformat

import (
	"os"
	"path/filepath"
	"testing"
)

const sampleNotebook = `{
  "cells": [
    {
      "cell_type": "markdown",
      "metadata": {},
      "source": ["# Title\n", "Some *text*.\n"]
    },
    {
      "cell_type": "code",
      "metadata": {},
      "source": "print('hi')",
      "outputs": [
        {"output_type": "stream", "name": "stdout", "text": ["hi\n"]},
        {
          "output_type": "execute_result",
          "data": {"text/plain": ["'hi'"]}
        }
      ]
    }
  ],
  "metadata": {"language_info": {"name": "python"}},
  "nbformat": 4,
  "nbformat_minor": 5
}`

func TestParse(t *testing.T) {
	nb, err := Parse([]byte(sampleNotebook))
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}

	if len(nb.Cells) != 2 {
		t.Fatalf("got %d cells, want 2", len(nb.Cells))
	}
	if nb.Cells[0].Type != CellMarkdown {
		t.Errorf("cell 0 type = %q, want markdown", nb.Cells[0].Type)
	}
	if got := nb.Cells[0].Source.String(); got != "# Title\nSome *text*.\n" {
		t.Errorf("multiline source joined wrong: %q", got)
	}
	if got := nb.Cells[1].Source.String(); got != "print('hi')" {
		t.Errorf("plain string source = %q", got)
	}

	outs := nb.Cells[1].Outputs
	if len(outs) != 2 {
		t.Fatalf("got %d outputs, want 2", len(outs))
	}
	if outs[0].Type != OutputStream || outs[0].Text.String() != "hi\n" {
		t.Errorf("stream output = %+v", outs[0])
	}
	if outs[1].Data["text/plain"].String() != "'hi'" {
		t.Errorf("execute_result data = %+v", outs[1].Data)
	}

	if nb.Language() != "python" {
		t.Errorf("Language = %q, want python", nb.Language())
	}
}

func TestLanguageDefault(t *testing.T) {
	nb := &Notebook{}
	if nb.Language() != "python" {
		t.Errorf("Language = %q, want python fallback", nb.Language())
	}
}

func TestReadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sample.ipynb")
	if err := os.WriteFile(path, []byte(sampleNotebook), 0o644); err != nil {
		t.Fatal(err)
	}

	nb, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile error: %v", err)
	}
	if nb.NBFormat != 4 {
		t.Errorf("NBFormat = %d, want 4", nb.NBFormat)
	}
}

func TestReadFileMissing(t *testing.T) {
	if _, err := ReadFile(filepath.Join(t.TempDir(), "nope.ipynb")); err == nil {
		t.Error("expected error for missing notebook")
	}
}

func TestParseMalformed(t *testing.T) {
	if _, err := Parse([]byte("{not json")); err == nil {
		t.Error("expected error for malformed notebook")
	}
}
