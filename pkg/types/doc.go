// Package types defines the Store interface, entity types, view
// configuration, filters, pagination cursors, and standard errors for the
// Gridbase storage system.
package types
