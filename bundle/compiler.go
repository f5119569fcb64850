// Package bundle is a small compiler that turns a set of entry scripts into
// chunks, with the module loading runtime either embedded in each entry
// chunk or split out into runtime chunks.
package bundle

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"

	"go.uber.org/zap"
	"vimagination.zapto.org/inlineruntime/hook"
)

// Plugin extends a Compiler by tapping its hooks.
type Plugin interface {
	Apply(*Compiler)
}

// CompilerHooks are the extension points of a Compiler.
type CompilerHooks struct {
	// Compilation is called with each new compilation, before it is built.
	Compilation *hook.Sync[*Compilation]
	// Done is called after a successful compilation has been emitted.
	Done *hook.Sync[*Stats]
}

// Compiler builds Options into assets.
type Compiler struct {
	// Options are the options the compiler was created with, with defaults
	// applied.
	Options Options
	Hooks   CompilerHooks

	input   fs.FS
	output  OutputFileSystem
	logger  *zap.Logger
	plugins []Plugin
}

// Option configures a Compiler.
type Option func(*Compiler)

// InputFS sets the filesystem entries are read from. The default is the
// current directory.
func InputFS(fsys fs.FS) Option {
	return func(c *Compiler) {
		c.input = fsys
	}
}

// OutputFS sets the filesystem assets are written to.
func OutputFS(ofs OutputFileSystem) Option {
	return func(c *Compiler) {
		c.output = ofs
	}
}

// Logger sets the logger for the compiler and its plugins.
func Logger(logger *zap.Logger) Option {
	return func(c *Compiler) {
		c.logger = logger
	}
}

// Plugins adds plugins to the compiler. Plugins are applied in order.
func Plugins(plugins ...Plugin) Option {
	return func(c *Compiler) {
		c.plugins = append(c.plugins, plugins...)
	}
}

// New creates a Compiler and applies its plugins.
func New(opts Options, options ...Option) *Compiler {
	c := &Compiler{
		Options: opts.withDefaults(),
		Hooks: CompilerHooks{
			Compilation: hook.NewSync[*Compilation]("compilation"),
			Done:        hook.NewSync[*Stats]("done"),
		},
		input:  os.DirFS("."),
		output: OSFileSystem{},
		logger: zap.NewNop(),
	}

	for _, o := range options {
		o(c)
	}

	for _, p := range c.plugins {
		p.Apply(c)
	}

	return c
}

// Logger returns a logger for the named plugin.
func (c *Compiler) Logger(name string) *zap.Logger {
	return c.logger.Named(name)
}

// InputFS returns the filesystem entries are read from.
func (c *Compiler) InputFS() fs.FS {
	return c.input
}

// Run builds the entries and writes the resulting assets to the output
// filesystem.
//
// When the compilation fails nothing is written, and the returned error is
// the failure recorded by the compilation.
func (c *Compiler) Run(ctx context.Context) (*Stats, error) {
	if err := c.Options.Validate(); err != nil {
		return nil, err
	}

	comp := newCompilation(c)

	comp.logger.Info("compilation started", zap.Int("entries", len(c.Options.Entry)))
	c.Hooks.Compilation.Call(comp)
	comp.build()

	if _, err := comp.Hooks.ProcessAssets.Call(ctx, comp); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			if errors.Is(err, ctxErr) {
				return nil, ctxErr
			}

			return nil, errors.Join(ctxErr, err)
		}

		comp.AddError(err)
	}

	comp.hash()

	stats := newStats(comp)

	if err := comp.Err(); err != nil {
		comp.logger.Error("compilation failed", zap.Error(err))

		return stats, err
	}

	if err := c.emit(comp); err != nil {
		return stats, err
	}

	comp.logger.Info("compilation finished", zap.String("hash", comp.Hash), zap.Int("assets", comp.Assets.Len()))
	c.Hooks.Done.Call(stats)

	return stats, nil
}

func (c *Compiler) emit(comp *Compilation) error {
	dir := c.Options.Output.Path

	for _, name := range comp.Assets.Names() {
		s, _ := comp.Assets.Get(name)

		data, err := sourceBytes(s)
		if err != nil {
			return fmt.Errorf("error emitting %s: %w", name, err)
		}

		file := path.Join(dir, name)

		if err := c.output.MkdirAll(path.Dir(file), 0o755); err != nil {
			return fmt.Errorf("error creating directory for %s: %w", name, err)
		}

		if err := c.output.WriteFile(file, data, 0o644); err != nil {
			return fmt.Errorf("error writing %s: %w", name, err)
		}
	}

	return nil
}
