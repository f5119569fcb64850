package inlineruntime

import (
	"bytes"
	"fmt"
	"unicode/utf16"
	"unicode/utf8"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
	"vimagination.zapto.org/inlineruntime/bundle"
)

// AssetTable gives access to the generated files of a compilation.
type AssetTable interface {
	Get(name string) (bundle.Source, bool)
}

// SourceText returns the text of the named asset. It returns false when the
// asset doesn't exist or its content cannot be read as text.
func SourceText(assets AssetTable, file string) (string, bool) {
	s, ok := assets.Get(file)
	if !ok || s == nil {
		return "", false
	}

	text, err := Decode(s)
	if err != nil {
		return "", false
	}

	return text, true
}

// Decode converts the content of a source to a string.
//
// Binary content is read as UTF-8, unless it starts with a UTF-16 byte order
// mark.
func Decode(s bundle.Source) (string, error) {
	switch v := s.Source().(type) {
	case string:
		return v, nil
	case []byte:
		return decodeBytes(v)
	case []uint16:
		return string(utf16.Decode(v)), nil
	case fmt.Stringer:
		return v.String(), nil
	}

	return "", ErrUnsupportedSource
}

var (
	bomBE = []byte{0xfe, 0xff}
	bomLE = []byte{0xff, 0xfe}
)

func decodeBytes(b []byte) (string, error) {
	if !bytes.HasPrefix(b, bomBE) && !bytes.HasPrefix(b, bomLE) && !utf8.Valid(b) {
		return "", ErrNotText
	}

	text, _, err := transform.Bytes(unicode.BOMOverride(unicode.UTF8.NewDecoder()), b)
	if err != nil {
		return "", fmt.Errorf("error decoding source: %w", err)
	}

	return string(text), nil
}
