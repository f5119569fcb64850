package htmlplugin

import (
	"sort"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Tag describes an HTML element that will be injected into the template.
type Tag struct {
	TagName    string
	Attributes map[string]string
	InnerHTML  string
	VoidTag    bool
}

// Src returns the src attribute of the tag, and whether one is present.
func (t *Tag) Src() (string, bool) {
	src, ok := t.Attributes["src"]

	return src, ok && src != ""
}

// ScriptTag creates a script tag referencing src.
func ScriptTag(src string) *Tag {
	return &Tag{
		TagName: "script",
		Attributes: map[string]string{
			"src": src,
		},
	}
}

// StyleTag creates a link tag referencing the stylesheet at href.
func StyleTag(href string) *Tag {
	return &Tag{
		TagName: "link",
		Attributes: map[string]string{
			"href": href,
			"rel":  "stylesheet",
		},
		VoidTag: true,
	}
}

func (t *Tag) node() *html.Node {
	n := &html.Node{
		Type:     html.ElementNode,
		Data:     t.TagName,
		DataAtom: atom.Lookup([]byte(t.TagName)),
	}

	keys := make([]string, 0, len(t.Attributes))

	for key := range t.Attributes {
		keys = append(keys, key)
	}

	sort.Strings(keys)

	for _, key := range keys {
		n.Attr = append(n.Attr, html.Attribute{Key: key, Val: t.Attributes[key]})
	}

	if !t.VoidTag && t.InnerHTML != "" {
		n.AppendChild(&html.Node{
			Type: html.TextNode,
			Data: t.InnerHTML,
		})
	}

	return n
}
