// Package tracker carries project-wide metadata.
package tracker

// Version is the current release version of the tracker core.
const Version = "0.1.0"
