// Package vdisplay manages the headless X display the primary image backend
// renders against.
//
// The display is established lazily on first use and reused for the life of
// the Manager. A mutex guards the check-then-start sequence within the
// process and a file lock guards it across processes, so concurrent jobs
// never launch two servers for the same display number. Callers receive a
// Display handle and pass it explicitly to child processes through their
// environment; the parent environment is never modified.
package vdisplay
