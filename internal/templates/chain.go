package templates

import (
	"errors"
	"fmt"
)

// DefaultName is the distinguished template every other template
// implicitly inherits from.
const DefaultName = "default"

// ErrInheritanceCycle reports a base_template declaration that points
// back into its own inheritance chain.
var ErrInheritanceCycle = errors.New("template inheritance cycle")

// Chain computes the inheritance order for name, most derived first.
// lookup reports the manifest for a template name and whether a
// package by that name exists at all; it is the only way Chain learns
// about the outside world, which keeps the override-order computation
// separate from directory probing.
//
// Every template implicitly inherits from "default" unless it is
// "default" itself; "default" only has a base when its manifest
// explicitly declares one. A name whose package cannot be found still
// appears in the chain (the caller warns and contributes nothing for
// it) and terminates the walk.
func Chain(name string, lookup func(string) (*Manifest, bool)) ([]string, error) {
	var layers []string
	visited := make(map[string]bool)

	for current := name; ; {
		if visited[current] {
			return nil, fmt.Errorf("%w: %q already appears in chain %v", ErrInheritanceCycle, current, layers)
		}
		visited[current] = true
		layers = append(layers, current)

		man, found := lookup(current)
		if !found {
			break
		}

		base := ""
		if man != nil {
			base = man.BaseTemplate
		}
		if current == DefaultName && base == "" {
			break
		}
		if base == "" {
			base = DefaultName
		}
		current = base
	}

	return layers, nil
}
