// Package history persists batch outcomes in SQLite.
//
// Each finished batch is written as one row in batches plus one row per item
// in batch_items, inside a single transaction. The store tolerates concurrent
// writers from separate processes by retrying on SQLITE_BUSY with backoff.
package history
