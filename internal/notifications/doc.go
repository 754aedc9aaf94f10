// Package notifications announces finished batches over ntfy.
//
// NewService returns a no-op notifier when no topic is configured, so the
// orchestrator can always call it.
package notifications
