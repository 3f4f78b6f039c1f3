// Package version carries the build version reported by the health surface.
package version

// Version is overridable at build time via -ldflags.
var Version = "1.0.0"
