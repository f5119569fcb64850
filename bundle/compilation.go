package bundle

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"strings"
	"sync"

	"github.com/KarpelesLab/rndstr"
	"go.uber.org/zap"
	"vimagination.zapto.org/inlineruntime/hook"
)

// Chunk is a generated output unit.
type Chunk struct {
	Name  string
	ID    string
	Files []string

	// Runtime is set when the chunk contains the module loading bootstrap.
	Runtime bool
	// Entry is set when the chunk contains the modules of an entrypoint.
	Entry bool
}

// Entrypoint is a named starting module and the chunks it needs.
type Entrypoint struct {
	Name   string
	Import string

	runtimeChunk *Chunk
	entryChunk   *Chunk
}

// RuntimeChunk returns the separate chunk holding this entrypoint's runtime,
// or nil when the runtime is part of the entry chunk.
func (e *Entrypoint) RuntimeChunk() *Chunk {
	return e.runtimeChunk
}

// Chunks returns the chunks needed by the entrypoint in load order.
func (e *Entrypoint) Chunks() []*Chunk {
	chunks := make([]*Chunk, 0, 2)

	if e.runtimeChunk != nil {
		chunks = append(chunks, e.runtimeChunk)
	}

	if e.entryChunk != nil {
		chunks = append(chunks, e.entryChunk)
	}

	return chunks
}

// Files returns the files of the entrypoint's chunks in load order.
func (e *Entrypoint) Files() []string {
	var files []string

	for _, c := range e.Chunks() {
		files = append(files, c.Files...)
	}

	return files
}

// CompilationHooks are the extension points of a single compilation.
type CompilationHooks struct {
	// ProcessAssets is called once every chunk has been generated.
	ProcessAssets *hook.AsyncSeriesWaterfall[*Compilation]
}

// Compilation is a single build of a Compiler's entries.
type Compilation struct {
	ID          string
	Hash        string
	Compiler    *Compiler
	Hooks       CompilationHooks
	Entrypoints []*Entrypoint
	Chunks      []*Chunk
	Assets      *AssetTable

	logger  *zap.Logger
	errors  []error
	devtool devtool

	mu     sync.Mutex
	values map[any]any
}

func newCompilation(c *Compiler) *Compilation {
	id := rndstr.Simple(16, rndstr.Alnum)

	return &Compilation{
		ID:       id,
		Compiler: c,
		Hooks: CompilationHooks{
			ProcessAssets: hook.NewAsyncSeriesWaterfall[*Compilation]("processAssets"),
		},
		Assets: NewAssetTable(),
		logger: c.logger.With(zap.String("compilation", id)),
		values: make(map[any]any),
	}
}

// Value returns the value stored under key, calling init to create it the
// first time it is requested.
func (c *Compilation) Value(key any, init func() any) any {
	c.mu.Lock()
	defer c.mu.Unlock()

	v, ok := c.values[key]
	if !ok {
		v = init()
		c.values[key] = v
	}

	return v
}

// AddError records a failure of the compilation. Errors that have already
// been recorded, including those returned by Err, are ignored.
func (c *Compilation) AddError(err error) {
	if err == nil || c.recorded(err) {
		return
	}

	c.errors = append(c.errors, err)
}

func (c *Compilation) recorded(err error) bool {
	if j, ok := err.(interface{ Unwrap() []error }); ok {
		for _, e := range j.Unwrap() {
			if !c.recorded(e) {
				return false
			}
		}

		return true
	}

	for _, e := range c.errors {
		if e == err {
			return true
		}
	}

	return false
}

// Errors returns the recorded failures.
func (c *Compilation) Errors() []error {
	return append([]error(nil), c.errors...)
}

// Err returns nil when the compilation succeeded, the single recorded error
// when there was one, and the joined errors otherwise.
func (c *Compilation) Err() error {
	switch len(c.errors) {
	case 0:
		return nil
	case 1:
		return c.errors[0]
	}

	return errors.Join(c.errors...)
}

// EmitAsset adds a generated file to the compilation.
func (c *Compilation) EmitAsset(name string, s Source) {
	c.logger.Debug("emitting asset", zap.String("asset", name))
	c.Assets.Set(name, s)
}

func (c *Compilation) build() {
	opts := &c.Compiler.Options

	dt, err := parseDevtool(opts.Devtool)
	if err != nil {
		c.AddError(err)

		return
	}

	c.devtool = dt

	runtime, err := runtimeSource()
	if err != nil {
		c.AddError(err)

		return
	}

	var shared *Chunk

	for _, e := range opts.Entry {
		file := path.Join(opts.Context, strings.TrimPrefix(path.Clean("/"+e.Import), "/"))

		src, err := fs.ReadFile(c.Compiler.input, file)
		if err != nil {
			c.AddError(fmt.Errorf("error reading entry %s: %w", e.Name, err))

			continue
		}

		code, err := entryCode(e.Name, e.Import, string(src))
		if err != nil {
			c.AddError(err)

			continue
		}

		ep := &Entrypoint{Name: e.Name, Import: e.Import}
		origins := []origin{{name: moduleID(e.Import), content: string(src)}}

		switch opts.Optimization.RuntimeChunk {
		case RuntimeChunkSingle:
			if shared == nil {
				shared = c.addChunk("runtime", runtime, []origin{{name: "runtime", content: runtimeJS}}, true, false)
			}

			ep.runtimeChunk = shared
		case RuntimeChunkMultiple:
			ep.runtimeChunk = c.addChunk("runtime~"+e.Name, runtime, []origin{{name: "runtime", content: runtimeJS}}, true, false)
		default:
			code = runtime + "\n" + code
			origins = append([]origin{{name: "runtime", content: runtimeJS}}, origins...)
		}

		ep.entryChunk = c.addChunk(e.Name, code, origins, !opts.Optimization.RuntimeChunk.Enabled(), true)
		c.Entrypoints = append(c.Entrypoints, ep)

		c.logger.Debug("built entrypoint", zap.String("entry", e.Name), zap.Strings("files", ep.Files()))
	}
}

func (c *Compilation) addChunk(name, code string, origins []origin, runtime, entry bool) *Chunk {
	chunk := &Chunk{
		Name:    name,
		ID:      name,
		Runtime: runtime,
		Entry:   entry,
	}

	file := c.filename(name, code)

	code, smap, err := c.devtool.attach(file, code, origins)
	if err != nil {
		c.AddError(err)

		return chunk
	}

	chunk.Files = append(chunk.Files, file)
	c.EmitAsset(file, RawSource(code))

	if smap != nil {
		c.EmitAsset(file+".map", BufferSource(smap))
	}

	c.Chunks = append(c.Chunks, chunk)

	return chunk
}

func (c *Compilation) filename(name, code string) string {
	hash := sha256.Sum256([]byte(code))

	return strings.NewReplacer(
		"[name]", name,
		"[id]", name,
		"[contenthash]", hex.EncodeToString(hash[:])[:20],
	).Replace(c.Compiler.Options.Output.Filename)
}

func (c *Compilation) hash() {
	h := sha256.New()

	for _, name := range c.Assets.Names() {
		s, _ := c.Assets.Get(name)

		data, err := sourceBytes(s)
		if err != nil {
			c.AddError(fmt.Errorf("error hashing %s: %w", name, err))

			continue
		}

		h.Write([]byte(name))
		h.Write(data)
	}

	c.Hash = hex.EncodeToString(h.Sum(nil))[:20]
}
