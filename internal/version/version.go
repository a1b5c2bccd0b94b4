// Package version provides build and version information.
package version

// Version is the current application version.
const Version = "0.3.0"

// Milestones:
// 0.3.0 - JPL DE ephemeris files (--ephemeris jpl), metrics textfile, interactive browser
// 0.2.0 - Horizons precise service with built-in fallback, in-place BJD_TDB write-back
// 0.1.0 - Initial release: UTC -> TT -> TDB with linear platform extrapolation
