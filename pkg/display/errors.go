package display

import "errors"

// ErrUnknownFormat indicates an unrecognized output format name.
var ErrUnknownFormat = errors.New("unknown output format")
