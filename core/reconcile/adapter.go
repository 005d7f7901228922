package reconcile

// Adapter defines the interface for model-specific diff logic.
// The engine compares the fetched entity set against the persisted snapshot
// purely through identity keys and source linkages; the adapter knows how to
// extract both from the concrete types.
type Adapter interface {
	// Name returns the unique name of this adapter (e.g., "model").
	Name() string

	// SourceKey returns the identity key of a fetched entity.
	SourceKey(item SourceItem) string

	// SourceLinkage returns the source object id a fetched entity points at.
	SourceLinkage(item SourceItem) string

	// StoreKey returns the identity key of a persisted record.
	StoreKey(item StoreItem) string

	// StoreLinkage returns the source object id stored on a persisted record.
	StoreLinkage(item StoreItem) string

	// StoreActive reports whether a persisted record is active (not soft-deleted).
	// Inactive records are invisible to the diff; a reappearing identity key is
	// classified as added and revived by the upsert.
	StoreActive(item StoreItem) bool
}
