// Package nbformat models the subset of the Jupyter notebook format
// (nbformat v4) the renderer needs: cells, sources, and outputs.
package nbformat

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// Cell types.
const (
	CellMarkdown = "markdown"
	CellCode     = "code"
	CellRaw      = "raw"
)

// Output types.
const (
	OutputStream        = "stream"
	OutputDisplayData   = "display_data"
	OutputExecuteResult = "execute_result"
	OutputError         = "error"
)

// MultilineText is a notebook text field that may be stored either as
// a single string or as an array of line strings. It always unmarshals
// to the joined form.
type MultilineText string

func (m *MultilineText) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*m = MultilineText(s)
		return nil
	}
	var lines []string
	if err := json.Unmarshal(data, &lines); err != nil {
		return fmt.Errorf("text field is neither string nor string array: %w", err)
	}
	*m = MultilineText(strings.Join(lines, ""))
	return nil
}

func (m MultilineText) String() string { return string(m) }

type Notebook struct {
	Cells         []Cell         `json:"cells"`
	Metadata      map[string]any `json:"metadata"`
	NBFormat      int            `json:"nbformat"`
	NBFormatMinor int            `json:"nbformat_minor"`
}

type Cell struct {
	Type     string         `json:"cell_type"`
	Source   MultilineText  `json:"source"`
	Metadata map[string]any `json:"metadata"`
	Outputs  []Output       `json:"outputs,omitempty"`
}

// Output covers the four nbformat output types in one struct; which
// fields are populated depends on Type.
type Output struct {
	Type string `json:"output_type"`

	// stream
	Name string        `json:"name,omitempty"`
	Text MultilineText `json:"text,omitempty"`

	// display_data / execute_result, keyed by MIME type
	Data map[string]MultilineText `json:"data,omitempty"`

	// error
	ErrName   string   `json:"ename,omitempty"`
	ErrValue  string   `json:"evalue,omitempty"`
	Traceback []string `json:"traceback,omitempty"`
}

// Language returns the notebook's kernel language, defaulting to
// "python" when the metadata does not carry one.
func (nb *Notebook) Language() string {
	if info, ok := nb.Metadata["language_info"].(map[string]any); ok {
		if name, ok := info["name"].(string); ok && name != "" {
			return name
		}
	}
	return "python"
}

// Parse unmarshals notebook JSON.
func Parse(data []byte) (*Notebook, error) {
	var nb Notebook
	if err := json.Unmarshal(data, &nb); err != nil {
		return nil, fmt.Errorf("parsing notebook: %w", err)
	}
	return &nb, nil
}

// ReadFile reads and parses a notebook from disk.
func ReadFile(path string) (*Notebook, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	nb, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return nb, nil
}
