// Package reconcile provides a generic engine for keeping a relational store
// eventually consistent with a periodically-changing external entity set.
//
// The engine compares the freshly fetched entity set against a snapshot of the
// store's active records and partitions the union of identity keys into four
// disjoint lists: added, updated, removed and unchanged. Change detection is
// linkage-based: an intersecting key counts as updated exactly when its stored
// source object id differs from the fetched one.
//
// # Architecture
//
// The package consists of three main components:
//
//  1. Diff: the set-diff over identity keys producing an immutable Plan. It
//     fails fast on duplicate fetched keys instead of silently picking one.
//
//  2. Adapter: a model-specific view over the concrete fetched and persisted
//     types, extracting identity keys, source linkages and activity flags.
//
//  3. Apply: the batched executor. It chunks the plan into bounded batches,
//     runs the upsert and removal streams concurrently under a small fan-out
//     limit, isolates failures per batch, and reports totals plus failed
//     batch ranges in a write-once Result.
//
// # Failure model
//
// A failed batch never aborts the run; it is recorded with its item range and
// HTTP status (when the collaborator error carries one) so the caller can see
// exactly which subset is outstanding. Re-running the whole
// fetch-diff-apply cycle is always safe: the diff recomputes from current
// persisted state, so failed batches are naturally re-included.
//
// # Usage Example
//
//	plan, err := reconcile.Diff(fetched, persisted, adapter)
//	if err != nil {
//	    return err
//	}
//	result, err := reconcile.Apply(ctx, plan, applier, reconcile.Config{BatchSize: 500})
package reconcile
