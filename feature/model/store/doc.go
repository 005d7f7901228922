// Package store persists canonical entities as scoped database records.
//
// Each record is unique per scope and identity key. Writes come in two
// shapes: batched insert-or-merge upserts that always force the row back to
// active status, and batched soft deletes that flip the status to deleted.
// Rows are never hard-deleted, so an entity that disappears and later
// reappears in the source reclaims its original row.
package store
