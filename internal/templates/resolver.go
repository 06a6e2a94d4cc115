// Package templates locates on-disk template packages and merges each
// package with its declared base template, Jupyter-style, producing
// the ordered search paths consumed by the page renderer, the static
// file handler, and the notebook conversion collaborator.
package templates

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/idleartist/voila/internal/logging"
)

// Conventional subdirectory names inside a template package, one per
// output sequence.
const (
	ConversionDirName = "nbconvert_templates"
	StaticDirName     = "static"
	TemplateDirName   = "templates"
)

// Warning kinds.
const (
	WarnTemplateNotFound = "template_not_found"
	WarnSubdirMissing    = "subdir_missing"
	WarnBadManifest      = "bad_manifest"
)

// Warning is a soft fault collected during resolution. Every warning
// is also logged; keeping them on the Resolution lets callers and
// tests inspect exactly what degraded.
type Warning struct {
	Kind  string
	Layer string // template name of the contributing layer
	Path  string // the path in question, when there is one
	Err   error  // set for manifest failures
}

func (w Warning) String() string {
	switch w.Kind {
	case WarnTemplateNotFound:
		return fmt.Sprintf("template %q not found in any candidate root", w.Layer)
	case WarnSubdirMissing:
		return fmt.Sprintf("template %q: %s does not exist", w.Layer, w.Path)
	case WarnBadManifest:
		return fmt.Sprintf("template %q: unusable manifest %s: %v", w.Layer, w.Path, w.Err)
	}
	return fmt.Sprintf("template %q: %s", w.Layer, w.Kind)
}

// Resolution is the immutable product of one resolver run: three
// ordered search paths, most derived layer first, plus the warnings
// collected along the way. Consumers treat each list as
// "probe in order until found".
type Resolution struct {
	TemplateName    string
	TemplatePaths   []string
	StaticPaths     []string
	ConversionPaths []string
	Warnings        []Warning
}

// Resolver walks a template inheritance chain against a fixed list of
// candidate roots. It only reads the filesystem; it never writes.
type Resolver struct {
	roots         []string
	builtinStatic string
	log           *zap.SugaredLogger
}

// NewResolver returns a resolver over the given candidate roots,
// highest priority first. builtinStatic is the built-in static asset
// directory appended to every resolution's static search path.
func NewResolver(roots []string, builtinStatic string, log *zap.SugaredLogger) *Resolver {
	if log == nil {
		log = logging.Nop()
	}
	return &Resolver{roots: roots, builtinStatic: builtinStatic, log: log}
}

// Resolve expands name into the three search paths. The inheritance
// order is computed first (Chain), then each layer's package
// contributes its three conventional subdirectories in chain order, so
// a derived template's directories always precede its base's. A layer
// missing from every root, a missing subdirectory, or an unusable
// manifest degrade to warnings; the only hard failure is an
// inheritance cycle. An empty name skips the walk entirely and yields
// just the built-in static fallback.
func (r *Resolver) Resolve(name string) (*Resolution, error) {
	res := &Resolution{TemplateName: name}

	if name != "" {
		// Package directories and manifests are discovered during the
		// chain walk; remember them so materialization does not probe
		// the filesystem a second time.
		dirs := make(map[string]string)
		lookup := func(layer string) (*Manifest, bool) {
			dir, ok := r.findPackage(layer)
			if !ok {
				return nil, false
			}
			dirs[layer] = dir
			man, err := LoadManifest(dir)
			if err != nil {
				res.warn(r.log, Warning{
					Kind:  WarnBadManifest,
					Layer: layer,
					Path:  filepath.Join(dir, ManifestFilename),
					Err:   err,
				})
				return nil, true
			}
			return man, true
		}

		layers, err := Chain(name, lookup)
		if err != nil {
			return nil, fmt.Errorf("resolving template %q: %w", name, err)
		}

		for _, layer := range layers {
			dir, ok := dirs[layer]
			if !ok {
				res.warn(r.log, Warning{Kind: WarnTemplateNotFound, Layer: layer})
				continue
			}
			res.ConversionPaths = r.contribute(res, res.ConversionPaths, layer, dir, ConversionDirName)
			res.StaticPaths = r.contribute(res, res.StaticPaths, layer, dir, StaticDirName)
			res.TemplatePaths = r.contribute(res, res.TemplatePaths, layer, dir, TemplateDirName)
		}
	}

	// The built-in fallback serves even when no template is requested.
	res.StaticPaths = append(res.StaticPaths, r.builtinStatic)

	r.log.Debugw("template resolution complete",
		"template", name,
		"template_paths", res.TemplatePaths,
		"static_paths", res.StaticPaths,
		"conversion_paths", res.ConversionPaths,
	)

	return res, nil
}

// findPackage returns the first candidate root containing a directory
// named name. Once a root matches, later roots are never consulted
// for that name.
func (r *Resolver) findPackage(name string) (string, bool) {
	for _, root := range r.roots {
		dir := filepath.Join(root, name)
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			return dir, true
		}
	}
	return "", false
}

// contribute appends <dir>/<subdir> to list. The path is registered
// even when the subdirectory does not exist on disk (consumers
// tolerate dead entries in a search path; registering keeps the
// layer's precedence slot), with a warning. A path already present in
// the list keeps its original, more derived position.
func (r *Resolver) contribute(res *Resolution, list []string, layer, dir, subdir string) []string {
	p := filepath.Join(dir, subdir)
	if _, err := os.Stat(p); err != nil {
		res.warn(r.log, Warning{Kind: WarnSubdirMissing, Layer: layer, Path: p})
	}
	for _, existing := range list {
		if existing == p {
			return list
		}
	}
	return append(list, p)
}

func (res *Resolution) warn(log *zap.SugaredLogger, w Warning) {
	res.Warnings = append(res.Warnings, w)
	log.Warnw(w.String(), "template", w.Layer, "kind", w.Kind)
}
