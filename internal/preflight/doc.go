// Package preflight provides readiness checks for the tools and directories
// mediaforge depends on.
//
// The CLI "deps" command prints every check. "watch" calls RunAll before it
// starts and refuses to run when a required check fails. "run" skips it, so
// a missing tool surfaces as a failure on each item.
//
// Checks for the primary image backend are informational: image jobs fall
// back to the built-in backend when it is missing.
package preflight
