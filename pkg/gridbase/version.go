// Package gridbase holds module-level metadata.
package gridbase

// Version is the gridbase release version.
const Version = "v0.1.0"
