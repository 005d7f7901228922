package reconcile

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeApplier records batches and fails the ones selected by the hooks.
type fakeApplier struct {
	mu            sync.Mutex
	upsertBatches [][]SourceItem
	removeBatches [][]string

	failUpsert func(batch []SourceItem) error
	failRemove func(keys []string) error
}

func (f *fakeApplier) UpsertBatch(ctx context.Context, items []SourceItem) error {
	f.mu.Lock()
	f.upsertBatches = append(f.upsertBatches, items)
	f.mu.Unlock()
	if f.failUpsert != nil {
		return f.failUpsert(items)
	}
	return nil
}

func (f *fakeApplier) RemoveBatch(ctx context.Context, keys []string) error {
	f.mu.Lock()
	f.removeBatches = append(f.removeBatches, keys)
	f.mu.Unlock()
	if f.failRemove != nil {
		return f.failRemove(keys)
	}
	return nil
}

// statusError mimics a collaborator error carrying an HTTP status.
type statusError struct {
	status int
	msg    string
}

func (e *statusError) Error() string   { return e.msg }
func (e *statusError) StatusCode() int { return e.status }

func entities(keys ...string) []SourceItem {
	items := make([]SourceItem, 0, len(keys))
	for _, key := range keys {
		items = append(items, srcEntity{key: key, linkage: "obj-" + key})
	}
	return items
}

func TestApply_SingleInsert(t *testing.T) {
	plan := &Plan{Added: entities("E1")}
	applier := &fakeApplier{}

	result, err := Apply(context.Background(), plan, applier, Config{BatchSize: 500, Fanout: 1})
	require.NoError(t, err)

	assert.Equal(t, 1, result.Inserted)
	assert.Equal(t, 0, result.Updated)
	assert.Equal(t, 0, result.Deleted)
	assert.Empty(t, result.FailedBatches)
	assert.False(t, result.Partial())
	assert.Len(t, applier.upsertBatches, 1)
	assert.Empty(t, applier.removeBatches)
}

func TestApply_EmptyPlanIssuesNothing(t *testing.T) {
	plan := &Plan{Unchanged: []string{"E1"}}
	applier := &fakeApplier{}

	result, err := Apply(context.Background(), plan, applier, Config{})
	require.NoError(t, err)

	assert.Equal(t, &Result{}, result)
	assert.Empty(t, applier.upsertBatches)
	assert.Empty(t, applier.removeBatches)
}

func TestApply_BatchChunking(t *testing.T) {
	plan := &Plan{Added: entities("A", "B", "C", "D", "E")}
	applier := &fakeApplier{}

	result, err := Apply(context.Background(), plan, applier, Config{BatchSize: 2, Fanout: 1})
	require.NoError(t, err)

	assert.Equal(t, 5, result.Inserted)
	assert.Len(t, applier.upsertBatches, 3)
	assert.Len(t, applier.upsertBatches[0], 2)
	assert.Len(t, applier.upsertBatches[2], 1)
}

// TestApply_BatchIsolation verifies that a failing middle batch neither aborts
// the run nor leaks into the counts: only batches 1 and 3 are counted and the
// failure identifies batch 2's range.
func TestApply_BatchIsolation(t *testing.T) {
	plan := &Plan{Added: entities("A", "B", "C", "D", "E", "F")}
	applier := &fakeApplier{
		failUpsert: func(batch []SourceItem) error {
			if batch[0].(srcEntity).key == "C" {
				return fmt.Errorf("connection reset")
			}
			return nil
		},
	}

	result, err := Apply(context.Background(), plan, applier, Config{BatchSize: 2, Fanout: 1})
	require.NoError(t, err)

	assert.Equal(t, 4, result.Inserted)
	require.Len(t, result.FailedBatches, 1)
	failure := result.FailedBatches[0]
	assert.Equal(t, StreamUpsert, failure.Stream)
	assert.Equal(t, 2, failure.Start)
	assert.Equal(t, 4, failure.End)
	assert.Equal(t, 0, failure.Status)
	assert.Contains(t, failure.Message, "connection reset")
	assert.True(t, result.Partial())
}

func TestApply_InsertedUpdatedSplit(t *testing.T) {
	plan := &Plan{
		Added:   entities("A", "B", "C"),
		Updated: entities("D", "E"),
	}
	applier := &fakeApplier{}

	// Batch size 2 puts the added/updated boundary inside batch 2.
	result, err := Apply(context.Background(), plan, applier, Config{BatchSize: 2, Fanout: 1})
	require.NoError(t, err)

	assert.Equal(t, 3, result.Inserted)
	assert.Equal(t, 2, result.Updated)
	assert.Len(t, applier.upsertBatches, 3)
}

func TestApply_RemovalStream(t *testing.T) {
	plan := &Plan{Removed: []string{"A", "B", "C"}}
	applier := &fakeApplier{}

	result, err := Apply(context.Background(), plan, applier, Config{BatchSize: 2, Fanout: 1})
	require.NoError(t, err)

	assert.Equal(t, 3, result.Deleted)
	assert.Len(t, applier.removeBatches, 2)
	assert.Equal(t, []string{"A", "B"}, applier.removeBatches[0])
	assert.Equal(t, []string{"C"}, applier.removeBatches[1])
}

func TestApply_RemovalFailureRecorded(t *testing.T) {
	plan := &Plan{Removed: []string{"A", "B", "C"}}
	applier := &fakeApplier{
		failRemove: func(keys []string) error {
			if keys[0] == "C" {
				return &statusError{status: 503, msg: "service unavailable"}
			}
			return nil
		},
	}

	result, err := Apply(context.Background(), plan, applier, Config{BatchSize: 2, Fanout: 1})
	require.NoError(t, err)

	assert.Equal(t, 2, result.Deleted)
	require.Len(t, result.FailedBatches, 1)
	assert.Equal(t, StreamRemove, result.FailedBatches[0].Stream)
	assert.Equal(t, 503, result.FailedBatches[0].Status)
}

func TestApply_StatusCodeExtraction(t *testing.T) {
	plan := &Plan{Added: entities("A")}
	applier := &fakeApplier{
		failUpsert: func(batch []SourceItem) error {
			return fmt.Errorf("upsert rejected: %w", &statusError{status: 409, msg: "conflict"})
		},
	}

	result, err := Apply(context.Background(), plan, applier, Config{BatchSize: 1, Fanout: 1})
	require.NoError(t, err)

	require.Len(t, result.FailedBatches, 1)
	assert.Equal(t, 409, result.FailedBatches[0].Status)
}

func TestApply_ConcurrentFanout(t *testing.T) {
	plan := &Plan{
		Added:   entities("A", "B", "C", "D", "E", "F", "G", "H"),
		Removed: []string{"X", "Y", "Z"},
	}
	applier := &fakeApplier{}

	result, err := Apply(context.Background(), plan, applier, Config{BatchSize: 2, Fanout: 4})
	require.NoError(t, err)

	assert.Equal(t, 8, result.Inserted)
	assert.Equal(t, 3, result.Deleted)
	assert.Empty(t, result.FailedBatches)
}

func TestApply_CancelledBetweenBatches(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	plan := &Plan{Added: entities("A", "B", "C", "D", "E", "F")}
	applier := &fakeApplier{
		failUpsert: func(batch []SourceItem) error {
			// Cancel after the first batch completes; later batches must not run.
			if batch[0].(srcEntity).key == "A" {
				cancel()
			}
			return nil
		},
	}

	result, err := Apply(ctx, plan, applier, Config{BatchSize: 2, Fanout: 1})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)

	// The completed batch is still counted; skipped batches are neither
	// counted nor reported as failures.
	assert.LessOrEqual(t, result.Inserted, 4)
	assert.GreaterOrEqual(t, result.Inserted, 2)
	assert.Empty(t, result.FailedBatches)
}

func TestNumBatches(t *testing.T) {
	assert.Equal(t, 0, numBatches(0, 500))
	assert.Equal(t, 1, numBatches(1, 500))
	assert.Equal(t, 1, numBatches(500, 500))
	assert.Equal(t, 2, numBatches(501, 500))
}
