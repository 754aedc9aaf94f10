// Package procexec runs external tools with an enforced deadline.
//
// Every child is started in its own process group so that a timeout or a
// cancelled context kills the tool together with anything it forked (ffmpeg
// helpers, the image interpreter's children). Captured stdout and stderr are
// always returned, including on failure, so callers can surface diagnostics.
package procexec
