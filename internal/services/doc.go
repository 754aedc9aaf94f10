// Package services defines shared utilities consumed by the pipeline
// components and the external tool wrappers.
//
// Key responsibilities:
//   - Context helpers that stamp batch IDs, item indexes, and stage names for
//     logging.
//   - Structured error markers plus the Wrap helper, and KindOf which maps any
//     wrapped failure onto the job error taxonomy (invalid input, probe
//     failure, invalid duration, backend unavailable, execution failure).
//   - ToolError, which carries the exit code and captured stderr of a failed
//     external process.
//
// Use these helpers when wiring new pipeline logic so failures classify the
// same way everywhere.
package services
