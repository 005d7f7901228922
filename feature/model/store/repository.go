package store

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository persists canonical entities as scoped records.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a record repository on top of a gorm connection.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Migrate creates or updates the record table schema.
func (r *Repository) Migrate(ctx context.Context) error {
	if err := r.db.WithContext(ctx).AutoMigrate(&Record{}); err != nil {
		return fmt.Errorf("failed to migrate record table: %w", err)
	}
	return nil
}

// ListActive returns all active records of a scope. Soft-deleted rows are
// excluded here so the diff never sees them.
func (r *Repository) ListActive(ctx context.Context, scope string) ([]Record, error) {
	var records []Record
	err := r.db.WithContext(ctx).
		Where("scope = ? AND sync_status = ?", scope, StatusActive).
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list active records: %w", err)
	}
	return records, nil
}

// UpsertBatch inserts or merges one batch of records keyed by scope and
// identity key. The merge forces sync_status back to active, which is what
// revives a previously soft-deleted row when its entity reappears.
func (r *Repository) UpsertBatch(ctx context.Context, records []Record) error {
	if len(records) == 0 {
		return nil
	}
	for i := range records {
		records[i].SyncStatus = StatusActive
	}

	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "scope"}, {Name: "identity_key"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"kind", "display_name", "source_object_id",
				"measures", "attributes", "sync_status", "updated_at",
			}),
		}).
		Create(&records).Error
	if err != nil {
		return fmt.Errorf("failed to upsert record batch: %w", err)
	}
	return nil
}

// MarkStatus flips the sync status of the given identity keys in one
// multi-row update and returns how many rows changed.
func (r *Repository) MarkStatus(ctx context.Context, scope string, keys []string, status string) (int64, error) {
	if len(keys) == 0 {
		return 0, nil
	}

	result := r.db.WithContext(ctx).
		Model(&Record{}).
		Where("scope = ? AND identity_key IN ?", scope, keys).
		Update("sync_status", status)
	if result.Error != nil {
		return 0, fmt.Errorf("failed to mark records %s: %w", status, result.Error)
	}
	return result.RowsAffected, nil
}
