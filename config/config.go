// Package config loads build configuration from YAML files.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
	"vimagination.zapto.org/inlineruntime"
	"vimagination.zapto.org/inlineruntime/bundle"
	"vimagination.zapto.org/inlineruntime/htmlplugin"
)

// Config holds the settings for a build and the plugins taking part in it.
type Config struct {
	Build  bundle.Options        `yaml:"build"`
	HTML   htmlplugin.Options    `yaml:"html"`
	Inline inlineruntime.Options `yaml:"inline_runtime"`
}

// Default returns a configuration with every optional setting filled in.
func Default() *Config {
	return &Config{
		Build: bundle.Options{
			Context: ".",
			Output: &bundle.OutputOptions{
				Path:     "dist",
				Filename: "[name].js",
			},
		},
		HTML: htmlplugin.Options{
			Filename: "index.html",
			Inject:   htmlplugin.InjectBody,
		},
	}
}

// Load reads and parses the configuration file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading config: %w", err)
	}

	return Parse(data)
}

// Parse decodes YAML configuration over the defaults. Unknown keys are an
// error.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))

	dec.KnownFields(true)

	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}

	return cfg, nil
}

// Validate checks that the configuration describes a runnable build.
func (c *Config) Validate() error {
	if err := c.Build.Validate(); err != nil {
		return fmt.Errorf("build: %w", err)
	}

	if err := c.HTML.Validate(); err != nil {
		return fmt.Errorf("html: %w", err)
	}

	return nil
}

// Plugins returns the plugins the configuration enables, in the order they
// must be applied.
func (c *Config) Plugins(opts ...inlineruntime.Option) []bundle.Plugin {
	return []bundle.Plugin{
		htmlplugin.New(c.HTML),
		inlineruntime.New(append([]inlineruntime.Option{inlineruntime.WithOptions(c.Inline)}, opts...)...),
	}
}
