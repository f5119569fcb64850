// Package htmlplugin generates an HTML document that loads the chunks of
// every entrypoint of a compilation.
package htmlplugin

import (
	"fmt"
	"io/fs"
	"path"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
	"vimagination.zapto.org/inlineruntime/bundle"
	"vimagination.zapto.org/inlineruntime/hook"
)

// PluginName is the name the plugin taps hooks with.
const PluginName = "HTMLPlugin"

const defaultTemplate = `<!DOCTYPE html>
<html>
	<head>
		<meta charset="utf-8">
		<title>App</title>
	</head>
	<body>
	</body>
</html>
`

// Injection points.
const (
	InjectHead = "head"
	InjectBody = "body"
)

// Options configures the HTML plugin.
type Options struct {
	// Filename is the name of the emitted document, relative to the output
	// path. The default is index.html.
	Filename string `yaml:"filename"`
	// Template is the path, in the compiler's input filesystem, of the
	// document to inject tags into.
	Template string `yaml:"template"`
	// TemplateContent is used as the template when Template is not set.
	TemplateContent string `yaml:"template_content"`
	// Inject is where script tags are placed, head or body.
	Inject string `yaml:"inject"`
	// PublicPath overrides the compiler's public path for tag URLs.
	PublicPath *string `yaml:"public_path"`
	Title      string  `yaml:"title"`
}

// Validate checks the options for unknown values.
func (o *Options) Validate() error {
	switch o.Inject {
	case "", InjectHead, InjectBody:
		return nil
	}

	return fmt.Errorf("%q: %w", o.Inject, ErrInvalidInject)
}

// Plugin emits an HTML document for a compilation.
type Plugin struct {
	options Options
}

// New creates an HTML plugin.
func New(opts Options) *Plugin {
	if opts.Filename == "" {
		opts.Filename = "index.html"
	}

	if opts.Inject == "" {
		opts.Inject = InjectBody
	}

	return &Plugin{options: opts}
}

// Apply implements the bundle.Plugin interface.
func (p *Plugin) Apply(c *bundle.Compiler) {
	logger := c.Logger(PluginName)

	c.Hooks.Compilation.Tap(PluginName, func(comp *bundle.Compilation) {
		comp.Hooks.ProcessAssets.TapAsync(PluginName, func(comp *bundle.Compilation, cb hook.Callback[*bundle.Compilation]) {
			p.generate(comp, logger, func(err error) {
				cb(err, comp)
			})
		})
	})
}

func (p *Plugin) generate(comp *bundle.Compilation, logger *zap.Logger, done func(error)) {
	template, err := p.template(comp)
	if err != nil {
		done(err)

		return
	}

	publicPath := p.publicPath(comp)
	hooks := HooksFor(comp)
	data := &AlterAssetTagsData{
		AssetTags:  assetTags(comp, publicPath),
		OutputName: p.options.Filename,
		PublicPath: publicPath,
	}

	hooks.AlterAssetTags.CallAsync(data, func(err error, data *AlterAssetTagsData) {
		if err != nil {
			done(err)

			return
		}

		doc, err := render(template, p.options, data.AssetTags)
		if err != nil {
			done(fmt.Errorf("error rendering %s: %w", p.options.Filename, err))

			return
		}

		hooks.BeforeEmit.CallAsync(&BeforeEmitData{HTML: doc, OutputName: p.options.Filename}, func(err error, data *BeforeEmitData) {
			if err != nil {
				done(err)

				return
			}

			comp.EmitAsset(p.options.Filename, bundle.RawSource(data.HTML))
			logger.Debug("emitted document", zap.String("filename", p.options.Filename), zap.Int("size", len(data.HTML)))
			done(nil)
		})
	})
}

func (p *Plugin) template(comp *bundle.Compilation) (string, error) {
	if p.options.Template != "" {
		data, err := fs.ReadFile(comp.Compiler.InputFS(), strings.TrimPrefix(path.Clean("/"+p.options.Template), "/"))
		if err != nil {
			return "", fmt.Errorf("error reading template: %w", err)
		}

		return string(data), nil
	}

	if p.options.TemplateContent != "" {
		return p.options.TemplateContent, nil
	}

	return defaultTemplate, nil
}

func (p *Plugin) publicPath(comp *bundle.Compilation) string {
	pp := p.options.PublicPath

	if pp == nil && comp.Compiler.Options.Output != nil {
		pp = comp.Compiler.Options.Output.PublicPath
	}

	return bundle.NormalizePublicPath(pp)
}

func assetTags(comp *bundle.Compilation, publicPath string) AssetTags {
	var (
		tags AssetTags
		seen = make(map[string]struct{})
	)

	for _, e := range comp.Entrypoints {
		for _, file := range e.Files() {
			if _, ok := seen[file]; ok {
				continue
			}

			seen[file] = struct{}{}

			switch path.Ext(file) {
			case ".js", ".mjs":
				tags.Scripts = append(tags.Scripts, ScriptTag(publicPath+file))
			case ".css":
				tags.Styles = append(tags.Styles, StyleTag(publicPath+file))
			}
		}
	}

	return tags
}

func render(template string, opts Options, tags AssetTags) (string, error) {
	doc, err := html.Parse(strings.NewReader(template))
	if err != nil {
		return "", err
	}

	head := findElement(doc, atom.Head)
	body := findElement(doc, atom.Body)

	if head == nil || body == nil {
		return "", ErrInvalidTemplate
	}

	if opts.Title != "" {
		setTitle(head, opts.Title)
	}

	for _, t := range tags.Meta {
		head.AppendChild(t.node())
	}

	for _, t := range tags.Styles {
		head.AppendChild(t.node())
	}

	scripts := body

	if opts.Inject == InjectHead {
		scripts = head
	}

	for _, t := range tags.Scripts {
		scripts.AppendChild(t.node())
	}

	var sb strings.Builder

	if err := html.Render(&sb, doc); err != nil {
		return "", err
	}

	return sb.String(), nil
}

func findElement(n *html.Node, a atom.Atom) *html.Node {
	if n.Type == html.ElementNode && n.DataAtom == a {
		return n
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if f := findElement(c, a); f != nil {
			return f
		}
	}

	return nil
}

func setTitle(head *html.Node, title string) {
	t := findElement(head, atom.Title)
	if t == nil {
		t = &html.Node{Type: html.ElementNode, Data: "title", DataAtom: atom.Title}

		head.AppendChild(t)
	}

	for c := t.FirstChild; c != nil; c = t.FirstChild {
		t.RemoveChild(c)
	}

	t.AppendChild(&html.Node{Type: html.TextNode, Data: title})
}
