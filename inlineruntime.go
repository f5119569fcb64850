// Package inlineruntime is a compiler plugin that replaces the script tags
// loading runtime chunks with inline scripts holding the chunk source.
//
// It works alongside the htmlplugin, altering the tags of every generated
// document, and only does anything when the compiler is configured to split
// runtime chunks out of the entry chunks.
package inlineruntime

import (
	"go.uber.org/zap"
	"vimagination.zapto.org/inlineruntime/bundle"
	"vimagination.zapto.org/inlineruntime/hook"
	"vimagination.zapto.org/inlineruntime/htmlplugin"
)

// PluginName is the name the plugin taps hooks with.
const PluginName = "InlineRuntimeChunkPlugin"

// Options configures the plugin.
type Options struct {
	// RemoveSourceMap removes a trailing source map comment from inlined
	// source.
	RemoveSourceMap bool `yaml:"remove_source_map"`
}

// Option is a configuration option for New.
type Option func(*Plugin)

// RemoveSourceMap is an Option that strips source map comments from inlined
// runtime chunks.
func RemoveSourceMap(p *Plugin) {
	p.options.RemoveSourceMap = true
}

// WithOptions is an Option that sets all of the plugin options.
func WithOptions(o Options) Option {
	return func(p *Plugin) {
		p.options = o
	}
}

// Logger is an Option that sets the logger used by the plugin. By default the
// compiler's logger is used.
func Logger(logger *zap.Logger) Option {
	return func(p *Plugin) {
		p.logger = logger
	}
}

// Plugin inlines runtime chunks into generated HTML.
type Plugin struct {
	options Options
	logger  *zap.Logger
}

// New creates a Plugin.
func New(opts ...Option) *Plugin {
	p := new(Plugin)

	for _, o := range opts {
		o(p)
	}

	return p
}

// Options returns the options of the plugin.
func (p *Plugin) Options() Options {
	return p.options
}

// Apply implements the bundle.Plugin interface.
func (p *Plugin) Apply(c *bundle.Compiler) {
	logger := p.logger
	if logger == nil {
		logger = c.Logger(PluginName)
	}

	c.Hooks.Compilation.Tap(PluginName, func(comp *bundle.Compilation) {
		if !c.Options.Optimization.RuntimeChunk.Enabled() {
			logger.Debug("runtime chunks disabled, nothing to inline")

			return
		}

		htmlplugin.HooksFor(comp).AlterAssetTags.TapAsync(PluginName, func(data *htmlplugin.AlterAssetTagsData, cb hook.Callback[*htmlplugin.AlterAssetTagsData]) {
			p.alterAssetTags(comp, data, logger, cb)
		})
	})
}

func (p *Plugin) alterAssetTags(comp *bundle.Compilation, data *htmlplugin.AlterAssetTagsData, logger *zap.Logger, cb hook.Callback[*htmlplugin.AlterAssetTagsData]) {
	if err := comp.Err(); err != nil {
		cb(err, data)

		return
	}

	publicPath := NormalizePublicPath(configuredPublicPath(comp.Compiler.Options.Output))
	refs := CollectRuntimeReferences(publicPath, comp.Entrypoints)
	inlined := InlineRuntimeChunks(refs, comp.Assets, data.AssetTags.Scripts, p.options.RemoveSourceMap)

	logger.Debug("inlined runtime chunks",
		zap.String("document", data.OutputName),
		zap.Int("references", len(refs)),
		zap.Int("inlined", inlined))

	cb(nil, data)
}
