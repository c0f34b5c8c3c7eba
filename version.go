package lattice

import _ "embed"

// Version is the release version, trimmed by callers.
//
//go:embed VERSION
var Version string
