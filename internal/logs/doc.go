// Package logs reads the mediaforge log file for the CLI.
//
// Last returns the final lines with bounded memory, optionally filtered (for
// example to one batch ID). Follow streams lines appended after an offset and
// wakes on filesystem notifications instead of polling.
package logs
