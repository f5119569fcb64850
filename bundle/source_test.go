package bundle

import (
	"io/fs"
	"testing"
	"unicode/utf16"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestAssetTable(t *testing.T) {
	a := NewAssetTable()

	a.Set("b.js", RawSource("b"))
	a.Set("a.js", RawSource("a"))
	a.Set("b.js", RawSource("bb"))

	assert.Equal(t, []string{"b.js", "a.js"}, a.Names())
	assert.Equal(t, 2, a.Len())

	s, ok := a.Get("b.js")

	require.True(t, ok)
	assert.Equal(t, "bb", s.Source())

	_, ok = a.Get("missing.js")

	assert.False(t, ok)
}

type stringer struct{}

func (stringer) String() string { return "stringer" }

type stringerSource struct{}

func (stringerSource) Source() any { return stringer{} }

type intSource struct{}

func (intSource) Source() any { return 1 }

func TestSourceBytes(t *testing.T) {
	for _, test := range [...]struct {
		name   string
		source Source
		want   string
		err    error
	}{
		{name: "raw", source: RawSource("text"), want: "text"},
		{name: "buffer", source: BufferSource("buffer"), want: "buffer"},
		{name: "utf16", source: UTF16Source(utf16.Encode([]rune("wide ☃"))), want: "wide ☃"},
		{name: "stringer", source: stringerSource{}, want: "stringer"},
		{name: "unknown", source: intSource{}, err: ErrUnknownSource},
	} {
		data, err := sourceBytes(test.source)

		if test.err != nil {
			assert.ErrorIs(t, err, test.err, test.name)

			continue
		}

		require.NoError(t, err, test.name)
		assert.Equal(t, test.want, string(data), test.name)
	}
}

func TestMemFS(t *testing.T) {
	m := NewMemFS()

	require.NoError(t, m.MkdirAll("/out", 0o755))
	require.NoError(t, m.WriteFile("/out/./a.js", []byte("a"), 0o644))

	data, err := m.ReadFile("/out/a.js")

	require.NoError(t, err)
	assert.Equal(t, "a", string(data))
	assert.Equal(t, []string{"/out/a.js"}, m.Names())

	_, err = m.ReadFile("/out/b.js")

	assert.ErrorIs(t, err, fs.ErrNotExist)
}

func TestRuntimeChunkYAML(t *testing.T) {
	for _, test := range [...]struct {
		input string
		want  RuntimeChunk
		err   error
	}{
		{input: "runtime_chunk: single", want: RuntimeChunkSingle},
		{input: "runtime_chunk: Multiple", want: RuntimeChunkMultiple},
		{input: "runtime_chunk: true", want: RuntimeChunkSingle},
		{input: "runtime_chunk: false", want: RuntimeChunkNone},
		{input: "runtime_chunk: ''", want: RuntimeChunkNone},
		{input: "runtime_chunk: all", err: ErrInvalidRuntimeChunk},
	} {
		var o OptimizationOptions

		err := yaml.Unmarshal([]byte(test.input), &o)

		if test.err != nil {
			assert.ErrorIs(t, err, test.err, test.input)

			continue
		}

		require.NoError(t, err, test.input)
		assert.Equal(t, test.want, o.RuntimeChunk, test.input)
		assert.Equal(t, test.want != RuntimeChunkNone, o.RuntimeChunk.Enabled(), test.input)
	}
}

func TestParseDevtool(t *testing.T) {
	for _, test := range [...]struct {
		input string
		want  devtool
	}{
		{input: "", want: devtool{}},
		{input: "eval", want: devtool{eval: true}},
		{input: "source-map", want: devtool{sourceMap: true}},
		{input: "inline-nosources-cheap-module-source-map", want: devtool{sourceMap: true, inline: true, noSources: true}},
		{input: "eval-cheap-source-map", want: devtool{sourceMap: true, eval: true}},
		{input: "hidden-source-map", want: devtool{sourceMap: true, hidden: true}},
	} {
		got, err := parseDevtool(test.input)

		require.NoError(t, err, test.input)
		assert.Equal(t, test.want, got, test.input)
	}

	_, err := parseDevtool("cheap-eval-source-map")

	assert.ErrorIs(t, err, ErrInvalidDevtool)
}

func TestNormalizePublicPath(t *testing.T) {
	str := func(s string) *string { return &s }

	for _, test := range [...]struct {
		input *string
		want  string
	}{
		{input: nil, want: ""},
		{input: str(""), want: ""},
		{input: str(PublicPathAuto), want: ""},
		{input: str("/assets"), want: "/assets/"},
		{input: str("/assets/"), want: "/assets/"},
	} {
		assert.Equal(t, test.want, NormalizePublicPath(test.input))
	}
}
