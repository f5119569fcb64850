package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"vimagination.zapto.org/inlineruntime/bundle"
	"vimagination.zapto.org/inlineruntime/htmlplugin"
)

const testConfig = `
build:
  entry:
    - name: main
      import: src/main.js
    - name: admin
      import: src/admin.js
  output:
    path: public
    public_path: /static
    filename: "[name].[contenthash].js"
  optimization:
    runtime_chunk: true
  devtool: hidden-source-map
html:
  template: src/index.html
  inject: head
  title: Example
inline_runtime:
  remove_source_map: true
`

func TestParse(t *testing.T) {
	cfg, err := Parse([]byte(testConfig))

	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, []bundle.Entry{
		{Name: "main", Import: "src/main.js"},
		{Name: "admin", Import: "src/admin.js"},
	}, cfg.Build.Entry)
	assert.Equal(t, ".", cfg.Build.Context)
	require.NotNil(t, cfg.Build.Output)
	assert.Equal(t, "public", cfg.Build.Output.Path)
	assert.Equal(t, "[name].[contenthash].js", cfg.Build.Output.Filename)
	require.NotNil(t, cfg.Build.Output.PublicPath)
	assert.Equal(t, "/static", *cfg.Build.Output.PublicPath)
	assert.Equal(t, bundle.RuntimeChunkSingle, cfg.Build.Optimization.RuntimeChunk)
	assert.Equal(t, "hidden-source-map", cfg.Build.Devtool)

	assert.Equal(t, "index.html", cfg.HTML.Filename)
	assert.Equal(t, "src/index.html", cfg.HTML.Template)
	assert.Equal(t, htmlplugin.InjectHead, cfg.HTML.Inject)
	assert.Equal(t, "Example", cfg.HTML.Title)

	assert.True(t, cfg.Inline.RemoveSourceMap)
}

func TestParseEmpty(t *testing.T) {
	cfg, err := Parse(nil)

	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.ErrorIs(t, cfg.Validate(), bundle.ErrNoEntries)
}

func TestParseErrors(t *testing.T) {
	for _, input := range [...]string{
		"build: [",
		"unknown: true",
		"build:\n  optimization:\n    runtime_chunk: sometimes",
	} {
		_, err := Parse([]byte(input))

		assert.Error(t, err, input)
	}
}

func TestValidate(t *testing.T) {
	for _, test := range [...]struct {
		input string
		err   error
	}{
		{
			input: "build:\n  entry:\n    - name: a\n      import: a.js\n    - name: a\n      import: b.js",
			err:   bundle.ErrDuplicateEntry,
		},
		{
			input: "build:\n  entry:\n    - import: a.js",
			err:   bundle.ErrInvalidEntry,
		},
		{
			input: "build:\n  entry:\n    - name: a\n      import: a.js\n  devtool: sometimes-source-map",
			err:   bundle.ErrInvalidDevtool,
		},
		{
			input: "build:\n  entry:\n    - name: a\n      import: a.js\nhtml:\n  inject: footer",
			err:   htmlplugin.ErrInvalidInject,
		},
	} {
		cfg, err := Parse([]byte(test.input))

		require.NoError(t, err, test.input)
		assert.ErrorIs(t, cfg.Validate(), test.err, test.input)
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "inlineruntime.yaml")

	require.NoError(t, os.WriteFile(path, []byte(testConfig), 0o600))

	cfg, err := Load(path)

	require.NoError(t, err)
	assert.Len(t, cfg.Build.Entry, 2)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))

	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestPlugins(t *testing.T) {
	cfg, err := Parse([]byte(testConfig))

	require.NoError(t, err)

	plugins := cfg.Plugins()

	require.Len(t, plugins, 2)
	assert.IsType(t, &htmlplugin.Plugin{}, plugins[0])
}
