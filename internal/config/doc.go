// Package config loads, normalizes, and validates mediaforge configuration.
//
// Configuration lives in a TOML file (by default ~/.config/mediaforge/config.toml)
// and is decoded over built-in defaults. Load expands user paths, applies the
// MEDIAFORGE_* environment overrides, and validates numeric ranges before any
// pipeline component sees the values. CreateSample writes the annotated sample
// file used by `mediaforge config init`.
package config
