// Package logging assembles structured slog loggers for mediaforge.
//
// New and NewFromConfig pick between a console handler tuned for terminals and
// a JSON handler for machine consumption. WithContext stamps batch IDs, item
// indexes, and stage names carried on a context so every line a job emits can
// be traced back to its batch slot.
package logging
