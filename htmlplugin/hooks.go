package htmlplugin

import (
	"vimagination.zapto.org/inlineruntime/bundle"
	"vimagination.zapto.org/inlineruntime/hook"
)

// AssetTags are the tags injected into the template.
type AssetTags struct {
	Scripts []*Tag
	Styles  []*Tag
	Meta    []*Tag
}

// AlterAssetTagsData is passed through the AlterAssetTags hook. Taps may
// change the tags in place.
type AlterAssetTagsData struct {
	AssetTags  AssetTags
	OutputName string
	PublicPath string
}

// BeforeEmitData is passed through the BeforeEmit hook.
type BeforeEmitData struct {
	HTML       string
	OutputName string
}

// Hooks are the extension points of the HTML plugin for one compilation.
type Hooks struct {
	AlterAssetTags *hook.AsyncSeriesWaterfall[*AlterAssetTagsData]
	BeforeEmit     *hook.AsyncSeriesWaterfall[*BeforeEmitData]
}

type hooksKey struct{}

// HooksFor returns the hooks for the given compilation, creating them the
// first time they are requested.
func HooksFor(c *bundle.Compilation) *Hooks {
	return c.Value(hooksKey{}, func() any {
		return &Hooks{
			AlterAssetTags: hook.NewAsyncSeriesWaterfall[*AlterAssetTagsData]("alterAssetTags"),
			BeforeEmit:     hook.NewAsyncSeriesWaterfall[*BeforeEmitData]("beforeEmit"),
		}
	}).(*Hooks)
}
