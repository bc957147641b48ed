package version

import "runtime"

// Populated at build time via -ldflags.
var (
	Version   = "dev"             // ex: v0.1.0
	Commit    = "none"            // ex: abcd123
	BuildDate = "unknown"         // ex: 2026-08-28T10:00:00Z
	GoVersion = runtime.Version() // go version
)
