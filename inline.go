package inlineruntime

import (
	"regexp"

	"vimagination.zapto.org/inlineruntime/htmlplugin"
)

var sourceMappingURL = regexp.MustCompile(`//# sourceMappingURL=([^\r\n\x{2028}\x{2029}]+)$`)

// StripSourceMap removes a source map comment from the end of src.
func StripSourceMap(src string) string {
	return sourceMappingURL.ReplaceAllString(src, "")
}

// InlineRuntimeChunks replaces the src of every script tag that references a
// runtime chunk with the chunk's source, returning the number of tags
// changed.
//
// Tags whose chunk source is missing, empty or not text are left as they
// are.
func InlineRuntimeChunks(refs []RuntimeReference, assets AssetTable, tags []*htmlplugin.Tag, removeSourceMap bool) int {
	inlined := 0

	for _, tag := range tags {
		src, ok := tag.Src()
		if !ok {
			continue
		}

		ref, ok := findReference(refs, src)
		if !ok {
			continue
		}

		text, ok := SourceText(assets, ref.File)
		if !ok || text == "" {
			continue
		}

		if removeSourceMap {
			text = StripSourceMap(text)
		}

		tag.InnerHTML = text

		delete(tag.Attributes, "src")

		inlined++
	}

	return inlined
}
