package reconcile

// SourceItem represents a canonical entity fetched from the model source.
// The model feature defines the concrete type; the engine only needs keys.
type SourceItem any

// StoreItem represents a persisted record from the relational store.
// The model feature defines the concrete type; the engine only needs keys.
type StoreItem any

// Plan is the computed partition of entities into added, updated, removed and
// unchanged. It is immutable once computed and is the sole input to Apply.
//
// Invariant: the four lists partition the union of fetched keys and persisted
// active keys, with no identity key in more than one list.
type Plan struct {
	// Added contains fetched entities whose identity key is not persisted.
	Added []SourceItem `json:"added"`

	// Updated contains fetched entities whose persisted counterpart points at a
	// different source object.
	Updated []SourceItem `json:"updated"`

	// Removed contains identity keys persisted as active but absent from the fetch.
	Removed []string `json:"removed"`

	// Unchanged contains identity keys whose source linkage did not move.
	Unchanged []string `json:"unchanged"`

	// Summary provides aggregate counts for review displays.
	Summary Summary `json:"summary"`
}

// Summary provides aggregate statistics for a reconciliation plan.
type Summary struct {
	// Fetched is the number of canonical entities in the fetch result.
	Fetched int `json:"fetched"`

	// Persisted is the number of active persisted records considered.
	Persisted int `json:"persisted"`

	// Added counts entities that will be inserted.
	Added int `json:"added"`

	// Updated counts entities that will be re-upserted.
	Updated int `json:"updated"`

	// Removed counts records that will be soft-deleted.
	Removed int `json:"removed"`

	// Unchanged counts records left untouched.
	Unchanged int `json:"unchanged"`
}

// Stream identifies which apply stream a batch belongs to.
type Stream string

const (
	// StreamUpsert is the insert-or-merge stream for added and updated entities.
	StreamUpsert Stream = "upsert"
	// StreamRemove is the soft-delete stream for removed identity keys.
	StreamRemove Stream = "remove"
)

// BatchFailure records one failed batch. Start and End are item offsets within
// the stream (End exclusive), so a caller can identify exactly which subset
// needs a retry.
type BatchFailure struct {
	// Stream is the apply stream the batch belonged to.
	Stream Stream `json:"stream"`

	// Start is the offset of the first item of the batch within its stream.
	Start int `json:"start"`

	// End is the offset one past the last item of the batch.
	End int `json:"end"`

	// Status is the HTTP status reported by the collaborator, or 0 for
	// transport and database errors.
	Status int `json:"status"`

	// Message describes the failure.
	Message string `json:"message"`
}

// Result summarizes one apply run. Counts reflect successful batches only; a
// retry produces a new Result, this one is never mutated afterward.
type Result struct {
	// Inserted is the number of added entities upserted successfully.
	Inserted int `json:"inserted"`

	// Updated is the number of updated entities upserted successfully.
	Updated int `json:"updated"`

	// Deleted is the number of identity keys soft-deleted successfully.
	Deleted int `json:"deleted"`

	// FailedBatches lists every batch that failed. The run continues past
	// individual failures, so this can be non-empty on an otherwise complete run.
	FailedBatches []BatchFailure `json:"failed_batches"`
}

// Partial reports whether the apply run left failed batches behind.
func (r *Result) Partial() bool {
	return len(r.FailedBatches) > 0
}

// Config controls the batched apply step.
type Config struct {
	// BatchSize is the maximum number of rows sent in one network operation.
	BatchSize int `mapstructure:"batch_size" default:"500"`
	// Fanout is the maximum number of batches in flight at once.
	Fanout int `mapstructure:"fanout" default:"4"`
}

// StatusCoder is implemented by collaborator errors that carry an HTTP status.
type StatusCoder interface {
	StatusCode() int
}
