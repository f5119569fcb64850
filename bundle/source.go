package bundle

import (
	"fmt"
	"unicode/utf16"
)

// Source is the generated content of an asset.
//
// Source returns either a string, a []byte or a []uint16 of UTF-16 code
// units.
type Source interface {
	Source() any
}

// RawSource is textual content.
type RawSource string

// Source implements the Source interface.
func (r RawSource) Source() any {
	return string(r)
}

// BufferSource is binary content.
type BufferSource []byte

// Source implements the Source interface.
func (b BufferSource) Source() any {
	return []byte(b)
}

// UTF16Source is content held as UTF-16 code units.
type UTF16Source []uint16

// Source implements the Source interface.
func (u UTF16Source) Source() any {
	return []uint16(u)
}

func sourceBytes(s Source) ([]byte, error) {
	switch v := s.Source().(type) {
	case string:
		return []byte(v), nil
	case []byte:
		return v, nil
	case []uint16:
		return []byte(string(utf16.Decode(v))), nil
	case fmt.Stringer:
		return []byte(v.String()), nil
	}

	return nil, ErrUnknownSource
}

// AssetTable maps generated file names to their content, remembering the
// order in which the files were emitted.
type AssetTable struct {
	names   []string
	sources map[string]Source
}

// NewAssetTable creates an empty AssetTable.
func NewAssetTable() *AssetTable {
	return &AssetTable{sources: make(map[string]Source)}
}

// Get returns the source of the named asset.
func (a *AssetTable) Get(name string) (Source, bool) {
	s, ok := a.sources[name]

	return s, ok
}

// Set adds, or replaces, the named asset.
func (a *AssetTable) Set(name string, s Source) {
	if _, ok := a.sources[name]; !ok {
		a.names = append(a.names, name)
	}

	a.sources[name] = s
}

// Names returns the asset names in emission order.
func (a *AssetTable) Names() []string {
	return append([]string(nil), a.names...)
}

// Len returns the number of assets.
func (a *AssetTable) Len() int {
	return len(a.names)
}
