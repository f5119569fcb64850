package bundle

import "errors"

// Errors.
var (
	ErrNoEntries           = errors.New("no entries")
	ErrDuplicateEntry      = errors.New("duplicate entry name")
	ErrInvalidEntry        = errors.New("entries require a name and an import")
	ErrModuleSyntax        = errors.New("import and export declarations are not supported")
	ErrInvalidDevtool      = errors.New("invalid devtool")
	ErrInvalidRuntimeChunk = errors.New("invalid runtime chunk mode")
	ErrUnknownSource       = errors.New("unknown source type")
)
