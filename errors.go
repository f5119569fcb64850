package inlineruntime

import "errors"

// Errors.
var (
	ErrNotText           = errors.New("source is not valid text")
	ErrUnsupportedSource = errors.New("unsupported source type")
)
