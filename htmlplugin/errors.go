package htmlplugin

import "errors"

// Errors.
var (
	ErrInvalidTemplate = errors.New("template has no head or body")
	ErrInvalidInject   = errors.New("inject must be head or body")
)
