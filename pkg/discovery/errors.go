package discovery

import "errors"

// Common errors returned by the discovery package.
var (
	// ErrNoDataRoots is returned when none of the configured data roots
	// exist on disk. This is the one fatal discovery condition: nothing
	// can be reported.
	ErrNoDataRoots = errors.New("no log data root exists")
)
