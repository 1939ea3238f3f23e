// Package types defines the Storage and store interfaces, entity types,
// the change-feed Diff, and the standard error values for the Tracker
// storage core.
package types
