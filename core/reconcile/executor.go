package reconcile

import (
	"context"
	"errors"

	"golang.org/x/sync/errgroup"
)

// Applier executes one batch of mutations against the persisted store.
// Both operations must be safe for concurrent use: the upsert and removal
// streams operate on disjoint identity-key sets by construction.
type Applier interface {
	// UpsertBatch sends one insert-or-merge batch keyed by identity key.
	// A previously soft-deleted row carrying the same key is reactivated.
	UpsertBatch(ctx context.Context, items []SourceItem) error

	// RemoveBatch marks the given identity keys as deleted in one conditional
	// multi-row update. Rows are never hard-deleted.
	RemoveBatch(ctx context.Context, keys []string) error
}

// Apply executes a reconciliation plan against the store in bounded batches.
//
// Added and updated entities form the upsert stream, removed keys the removal
// stream; the streams run concurrently and are not transactional with respect
// to each other. A failed batch is recorded in the result and the run
// continues with the next batch.
//
// Cancellation is honored between batches, never mid-batch: when ctx is
// cancelled the remaining batches are skipped and Apply returns the partial
// result together with the context error.
func Apply(ctx context.Context, plan *Plan, applier Applier, cfg Config) (*Result, error) {
	batchSize := cfg.BatchSize
	if batchSize <= 0 {
		batchSize = 500
	}
	fanout := cfg.Fanout
	if fanout <= 0 {
		fanout = 1
	}

	upserts := make([]SourceItem, 0, len(plan.Added)+len(plan.Updated))
	upserts = append(upserts, plan.Added...)
	upserts = append(upserts, plan.Updated...)

	upsertErrs := make([]error, numBatches(len(upserts), batchSize))
	removeErrs := make([]error, numBatches(len(plan.Removed), batchSize))

	// Batch goroutines record their outcome in a dedicated slot and always
	// return nil, so one failed batch never cancels its siblings.
	g := &errgroup.Group{}
	g.SetLimit(fanout)

	upsertScheduled := 0
	removeScheduled := 0
	cancelled := false

	for i := range upsertErrs {
		if ctx.Err() != nil {
			cancelled = true
			break
		}
		i := i
		start, end := batchRange(i, batchSize, len(upserts))
		g.Go(func() error {
			upsertErrs[i] = applier.UpsertBatch(ctx, upserts[start:end])
			return nil
		})
		upsertScheduled++
	}

	if !cancelled {
		for i := range removeErrs {
			if ctx.Err() != nil {
				cancelled = true
				break
			}
			i := i
			start, end := batchRange(i, batchSize, len(plan.Removed))
			g.Go(func() error {
				removeErrs[i] = applier.RemoveBatch(ctx, plan.Removed[start:end])
				return nil
			})
			removeScheduled++
		}
	}

	_ = g.Wait()

	result := &Result{}
	for i := 0; i < upsertScheduled; i++ {
		start, end := batchRange(i, batchSize, len(upserts))
		if err := upsertErrs[i]; err != nil {
			result.FailedBatches = append(result.FailedBatches, newFailure(StreamUpsert, start, end, err))
			continue
		}
		// Split the batch's contribution between inserted and updated: the
		// upsert stream is added entities followed by updated entities.
		result.Inserted += overlap(start, end, 0, len(plan.Added))
		result.Updated += overlap(start, end, len(plan.Added), len(upserts))
	}
	for i := 0; i < removeScheduled; i++ {
		start, end := batchRange(i, batchSize, len(plan.Removed))
		if err := removeErrs[i]; err != nil {
			result.FailedBatches = append(result.FailedBatches, newFailure(StreamRemove, start, end, err))
			continue
		}
		result.Deleted += end - start
	}

	if cancelled {
		return result, ctx.Err()
	}
	return result, nil
}

// numBatches returns how many batches of at most size are needed for n items.
func numBatches(n, size int) int {
	if n == 0 {
		return 0
	}
	return (n + size - 1) / size
}

// batchRange returns the half-open item range [start, end) of batch i.
func batchRange(i, size, total int) (int, int) {
	start := i * size
	end := start + size
	if end > total {
		end = total
	}
	return start, end
}

// overlap returns the size of the intersection of [aStart, aEnd) and [bStart, bEnd).
func overlap(aStart, aEnd, bStart, bEnd int) int {
	start := aStart
	if bStart > start {
		start = bStart
	}
	end := aEnd
	if bEnd < end {
		end = bEnd
	}
	if end <= start {
		return 0
	}
	return end - start
}

// newFailure builds a BatchFailure, extracting the HTTP status when the
// collaborator error carries one.
func newFailure(stream Stream, start, end int, err error) BatchFailure {
	status := 0
	var sc StatusCoder
	if errors.As(err, &sc) {
		status = sc.StatusCode()
	}
	return BatchFailure{
		Stream:  stream,
		Start:   start,
		End:     end,
		Status:  status,
		Message: err.Error(),
	}
}
