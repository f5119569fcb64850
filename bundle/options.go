package bundle

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// PublicPathAuto is the public path that asks for the path to be worked out
// at runtime. It is the default when no public path is configured.
const PublicPathAuto = "auto"

// NormalizePublicPath returns the prefix that, joined with a file name, gives
// the URL the file is referenced by.
//
// A missing, empty or automatic public path has no prefix; otherwise the
// path is returned with a trailing slash.
func NormalizePublicPath(path *string) string {
	if path == nil || *path == "" || *path == PublicPathAuto {
		return ""
	}

	if strings.HasSuffix(*path, "/") {
		return *path
	}

	return *path + "/"
}

// Options configures a Compiler.
type Options struct {
	// Context is the directory, within the input filesystem, that entry
	// imports are resolved against.
	Context      string              `yaml:"context"`
	Entry        []Entry             `yaml:"entry"`
	Output       *OutputOptions      `yaml:"output"`
	Optimization OptimizationOptions `yaml:"optimization"`
	Devtool      string              `yaml:"devtool"`
}

// Entry names a starting module for the build.
type Entry struct {
	Name   string `yaml:"name"`
	Import string `yaml:"import"`
}

// OutputOptions controls where and how generated files are written.
type OutputOptions struct {
	Path       string  `yaml:"path"`
	PublicPath *string `yaml:"public_path"`
	Filename   string  `yaml:"filename"`
}

// OptimizationOptions holds the chunk optimisation settings.
type OptimizationOptions struct {
	RuntimeChunk RuntimeChunk `yaml:"runtime_chunk"`
}

// RuntimeChunk selects how the module loading bootstrap is split out of the
// entry chunks.
type RuntimeChunk string

// Runtime chunk modes.
const (
	RuntimeChunkNone     RuntimeChunk = ""
	RuntimeChunkSingle   RuntimeChunk = "single"
	RuntimeChunkMultiple RuntimeChunk = "multiple"
)

// Enabled reports whether runtime chunks are split from entry chunks.
func (r RuntimeChunk) Enabled() bool {
	return r != RuntimeChunkNone
}

// Valid reports whether r is a known mode.
func (r RuntimeChunk) Valid() bool {
	switch r {
	case RuntimeChunkNone, RuntimeChunkSingle, RuntimeChunkMultiple:
		return true
	}

	return false
}

// UnmarshalYAML accepts a mode name or a boolean, where true means single.
func (r *RuntimeChunk) UnmarshalYAML(value *yaml.Node) error {
	var b bool

	if err := value.Decode(&b); err == nil {
		if b {
			*r = RuntimeChunkSingle
		} else {
			*r = RuntimeChunkNone
		}

		return nil
	}

	var s string

	if err := value.Decode(&s); err != nil {
		return err
	}

	mode := RuntimeChunk(strings.ToLower(strings.TrimSpace(s)))
	if !mode.Valid() {
		return fmt.Errorf("%q: %w", s, ErrInvalidRuntimeChunk)
	}

	*r = mode

	return nil
}

// Validate checks the options for errors that would prevent a build.
func (o *Options) Validate() error {
	if len(o.Entry) == 0 {
		return ErrNoEntries
	}

	seen := make(map[string]struct{}, len(o.Entry))

	for _, e := range o.Entry {
		if e.Name == "" || e.Import == "" {
			return fmt.Errorf("entry %q: %w", e.Name, ErrInvalidEntry)
		}

		if _, ok := seen[e.Name]; ok {
			return fmt.Errorf("entry %q: %w", e.Name, ErrDuplicateEntry)
		}

		seen[e.Name] = struct{}{}
	}

	if !o.Optimization.RuntimeChunk.Valid() {
		return fmt.Errorf("%q: %w", o.Optimization.RuntimeChunk, ErrInvalidRuntimeChunk)
	}

	if _, err := parseDevtool(o.Devtool); err != nil {
		return err
	}

	return nil
}

func (o Options) withDefaults() Options {
	if o.Context == "" {
		o.Context = "."
	}

	out := OutputOptions{}

	if o.Output != nil {
		out = *o.Output
	}

	if out.Path == "" {
		out.Path = "dist"
	}

	if out.Filename == "" {
		out.Filename = "[name].js"
	}

	if out.PublicPath == nil {
		auto := PublicPathAuto
		out.PublicPath = &auto
	}

	o.Output = &out
	o.Entry = append([]Entry(nil), o.Entry...)

	return o
}
