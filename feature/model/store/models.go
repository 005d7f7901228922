package store

import (
	"time"

	"model-sync/feature/model/decode"
)

// Sync status values for persisted records. Records are never hard-deleted;
// removal flips the status to deleted and a later upsert revives the row.
const (
	StatusActive  = "active"
	StatusDeleted = "deleted"
)

// Record is the persisted form of a canonical entity, scoped to one sync
// target. The scope plus identity key pair is unique, so an upsert always
// lands on the same row regardless of the entity's soft-delete history.
type Record struct {
	ID             uint                        `gorm:"column:id;primaryKey;autoIncrement"`
	Scope          string                      `gorm:"column:scope;size:64;uniqueIndex:idx_scope_identity"`
	IdentityKey    string                      `gorm:"column:identity_key;size:191;uniqueIndex:idx_scope_identity"`
	Kind           string                      `gorm:"column:kind;size:16"`
	DisplayName    string                      `gorm:"column:display_name;size:255"`
	SourceObjectID string                      `gorm:"column:source_object_id;size:191"`
	Measures       map[string]float64          `gorm:"column:measures;serializer:json"`
	Attributes     map[string]decode.Primitive `gorm:"column:attributes;serializer:json"`
	SyncStatus     string                      `gorm:"column:sync_status;size:16;index"`
	CreatedAt      time.Time                   `gorm:"column:created_at"`
	UpdatedAt      time.Time                   `gorm:"column:updated_at"`
}

// TableName overrides the table name.
func (Record) TableName() string {
	return "model_records"
}

// IsActive reports whether the record is visible to the diff.
func (r Record) IsActive() bool {
	return r.SyncStatus == StatusActive
}
