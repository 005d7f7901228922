// Package session orchestrates the fetch, diff and apply phases of a sync
// run as an explicit state machine.
//
// A session belongs to one scope and moves through fetching, diffed,
// applying and finally done or failed. At most one session per scope may be
// fetching or applying; a finished session stays queryable until the next
// fetch replaces it. Applying a computed plan always requires an explicit
// confirmation, and an applying session can be cancelled between batches
// while keeping the partial result it produced.
//
// The package also binds the domain types to the generic reconcile engine:
// an adapter exposing canonical entities and persisted records to the diff,
// and an applier translating plan batches into repository upserts and soft
// deletes.
package session
