package session

import (
	"context"

	"model-sync/core/reconcile"
	"model-sync/feature/model/canonical"
	"model-sync/feature/model/store"
)

// RecordStore is the slice of the record repository the session layer needs.
type RecordStore interface {
	ListActive(ctx context.Context, scope string) ([]store.Record, error)
	UpsertBatch(ctx context.Context, records []store.Record) error
	MarkStatus(ctx context.Context, scope string, keys []string, status string) (int64, error)
}

// entityAdapter exposes canonical entities and persisted records to the
// generic diff engine.
type entityAdapter struct{}

func (entityAdapter) Name() string { return "model" }

func (entityAdapter) SourceKey(item reconcile.SourceItem) string {
	return item.(canonical.Entity).IdentityKey
}

func (entityAdapter) SourceLinkage(item reconcile.SourceItem) string {
	return item.(canonical.Entity).SourceObjectID
}

func (entityAdapter) StoreKey(item reconcile.StoreItem) string {
	return item.(store.Record).IdentityKey
}

func (entityAdapter) StoreLinkage(item reconcile.StoreItem) string {
	return item.(store.Record).SourceObjectID
}

func (entityAdapter) StoreActive(item reconcile.StoreItem) bool {
	return item.(store.Record).IsActive()
}

// recordApplier executes plan batches against the record repository for one
// scope.
type recordApplier struct {
	repo  RecordStore
	scope string
}

func (a *recordApplier) UpsertBatch(ctx context.Context, items []reconcile.SourceItem) error {
	records := make([]store.Record, 0, len(items))
	for _, item := range items {
		records = append(records, toRecord(item.(canonical.Entity), a.scope))
	}
	return a.repo.UpsertBatch(ctx, records)
}

func (a *recordApplier) RemoveBatch(ctx context.Context, keys []string) error {
	_, err := a.repo.MarkStatus(ctx, a.scope, keys, store.StatusDeleted)
	return err
}

// toRecord converts a canonical entity into its persisted form.
func toRecord(entity canonical.Entity, scope string) store.Record {
	return store.Record{
		Scope:          scope,
		IdentityKey:    entity.IdentityKey,
		Kind:           string(entity.Kind),
		DisplayName:    entity.DisplayName,
		SourceObjectID: entity.SourceObjectID,
		Measures:       entity.Measures,
		Attributes:     entity.Attributes,
		SyncStatus:     store.StatusActive,
	}
}

// asSourceItems widens a canonical entity slice for the diff engine.
func asSourceItems(entities []canonical.Entity) []reconcile.SourceItem {
	items := make([]reconcile.SourceItem, len(entities))
	for i, e := range entities {
		items[i] = e
	}
	return items
}

// asStoreItems widens a record slice for the diff engine.
func asStoreItems(records []store.Record) []reconcile.StoreItem {
	items := make([]reconcile.StoreItem, len(records))
	for i, r := range records {
		items[i] = r
	}
	return items
}
