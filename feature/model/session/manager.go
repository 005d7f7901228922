package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"model-sync/core/reconcile"
	"model-sync/feature/model/archive"
	"model-sync/feature/model/canonical"
	"model-sync/feature/model/decode"
	"model-sync/feature/model/source"
	"model-sync/feature/model/store"
)

// Fetcher retrieves the full node set of a model snapshot.
type Fetcher interface {
	Fetch(ctx context.Context, snapshotRef string) (*source.FetchResult, error)
}

// Archiver persists finished session snapshots. Archival failures never fail
// the session.
type Archiver interface {
	Store(ctx context.Context, snapshot archive.Snapshot) error
}

// Status is an immutable snapshot of a session handed to handlers and the
// CLI.
type Status struct {
	ID          string            `json:"id"`
	Scope       string            `json:"scope"`
	Kind        canonical.Kind    `json:"kind"`
	SnapshotRef string            `json:"snapshotRef"`
	State       State             `json:"state"`
	Summary     reconcile.Summary `json:"summary"`
	Result      *reconcile.Result `json:"result,omitempty"`
	Error       string            `json:"error,omitempty"`
	StartedAt   time.Time         `json:"startedAt"`
	UpdatedAt   time.Time         `json:"updatedAt"`
}

// session is the mutable state of one sync run. All access goes through the
// manager's lock.
type session struct {
	id          string
	scope       string
	kind        canonical.Kind
	snapshotRef string
	state       State
	summary     reconcile.Summary
	result      *reconcile.Result
	errMsg      string
	startedAt   time.Time
	updatedAt   time.Time

	plan   *reconcile.Plan
	cancel context.CancelFunc
}

func (s *session) snapshot() Status {
	status := Status{
		ID:          s.id,
		Scope:       s.scope,
		Kind:        s.kind,
		SnapshotRef: s.snapshotRef,
		State:       s.state,
		Summary:     s.summary,
		Error:       s.errMsg,
		StartedAt:   s.startedAt,
		UpdatedAt:   s.updatedAt,
	}
	if s.result != nil {
		result := *s.result
		status.Result = &result
	}
	return status
}

// Manager owns the sync sessions, one in-flight session per scope at most.
// A finished session stays queryable until the next fetch replaces it.
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*session

	fetcher  Fetcher
	repo     RecordStore
	archiver Archiver
	profile  decode.Profile
	cfg      reconcile.Config
	logger   *zap.Logger
}

// NewManager creates a session manager. The archiver may be nil when no
// object storage is configured.
func NewManager(fetcher Fetcher, repo RecordStore, archiver Archiver, profile decode.Profile, cfg reconcile.Config, logger *zap.Logger) *Manager {
	return &Manager{
		sessions: make(map[string]*session),
		fetcher:  fetcher,
		repo:     repo,
		archiver: archiver,
		profile:  profile,
		cfg:      cfg,
		logger:   logger,
	}
}

// Fetch runs the fetch and diff phases for a scope and leaves the session in
// the diffed state awaiting confirmation. A busy session of the same scope
// rejects the call; a finished one is replaced.
func (m *Manager) Fetch(ctx context.Context, scope string, kind canonical.Kind, snapshotRef string) (Status, error) {
	m.mu.Lock()
	if existing, ok := m.sessions[scope]; ok && existing.state.busy() {
		status := existing.snapshot()
		m.mu.Unlock()
		return status, ErrSessionBusy
	}
	now := time.Now().UTC()
	sess := &session{
		id:          uuid.NewString(),
		scope:       scope,
		kind:        kind,
		snapshotRef: snapshotRef,
		state:       StateFetching,
		startedAt:   now,
		updatedAt:   now,
	}
	m.sessions[scope] = sess
	m.mu.Unlock()

	m.logger.Info("Sync fetch started",
		zap.String("session_id", sess.id),
		zap.String("scope", scope),
		zap.String("kind", string(kind)),
		zap.String("snapshot_ref", snapshotRef))

	// Fetch the source and list the store concurrently; both must succeed
	// before anything is diffed.
	var fetched *source.FetchResult
	var persisted []store.Record
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		fetched, err = m.fetcher.Fetch(gctx, snapshotRef)
		return err
	})
	g.Go(func() error {
		var err error
		persisted, err = m.repo.ListActive(gctx, scope)
		return err
	})
	if err := g.Wait(); err != nil {
		return m.fail(sess, err), err
	}

	decoded := decode.DecodeAll(fetched.Nodes, m.profile)
	entities := canonical.Canonicalize(decoded, m.profile, kind)

	plan, err := reconcile.Diff(asSourceItems(entities), asStoreItems(persisted), entityAdapter{})
	if err != nil {
		return m.fail(sess, err), err
	}

	m.mu.Lock()
	sess.plan = plan
	sess.summary = plan.Summary
	sess.snapshotRef = fetched.SnapshotRef
	sess.state = StateDiffed
	sess.updatedAt = time.Now().UTC()
	status := sess.snapshot()
	m.mu.Unlock()

	m.logger.Info("Sync plan computed",
		zap.String("session_id", sess.id),
		zap.Int("fetched", plan.Summary.Fetched),
		zap.Int("added", plan.Summary.Added),
		zap.Int("updated", plan.Summary.Updated),
		zap.Int("removed", plan.Summary.Removed),
		zap.Int("unchanged", plan.Summary.Unchanged))
	return status, nil
}

// Apply executes the pending plan of a scope. It requires the session to be
// diffed and the confirm flag to be set; without confirmation the plan stays
// pending.
func (m *Manager) Apply(ctx context.Context, scope string, confirm bool) (Status, error) {
	m.mu.Lock()
	sess, ok := m.sessions[scope]
	if !ok {
		m.mu.Unlock()
		return Status{}, ErrNoSession
	}
	if sess.state.busy() {
		status := sess.snapshot()
		m.mu.Unlock()
		return status, ErrSessionBusy
	}
	if sess.state != StateDiffed {
		status := sess.snapshot()
		m.mu.Unlock()
		return status, ErrNotDiffed
	}
	if !confirm {
		status := sess.snapshot()
		m.mu.Unlock()
		return status, ErrConfirmRequired
	}

	applyCtx, cancel := context.WithCancel(ctx)
	sess.cancel = cancel
	sess.state = StateApplying
	sess.updatedAt = time.Now().UTC()
	plan := sess.plan
	m.mu.Unlock()
	defer cancel()

	m.logger.Info("Sync apply started",
		zap.String("session_id", sess.id),
		zap.String("scope", scope))

	result, applyErr := reconcile.Apply(applyCtx, plan, &recordApplier{repo: m.repo, scope: scope}, m.cfg)

	m.mu.Lock()
	sess.result = result
	sess.cancel = nil
	sess.updatedAt = time.Now().UTC()
	if applyErr != nil {
		sess.state = StateFailed
		sess.errMsg = applyErr.Error()
	} else {
		sess.state = StateDone
	}
	status := sess.snapshot()
	m.mu.Unlock()

	m.archiveSession(status)

	if applyErr != nil {
		m.logger.Warn("Sync apply aborted",
			zap.String("session_id", sess.id),
			zap.Error(applyErr))
		return status, applyErr
	}
	m.logger.Info("Sync apply finished",
		zap.String("session_id", sess.id),
		zap.Int("inserted", result.Inserted),
		zap.Int("updated", result.Updated),
		zap.Int("deleted", result.Deleted),
		zap.Int("failed_batches", len(result.FailedBatches)))
	return status, nil
}

// Cancel aborts the scope's session. A diffed session is discarded; an
// applying session stops between batches and ends up failed with its partial
// result retained.
func (m *Manager) Cancel(scope string) (Status, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	sess, ok := m.sessions[scope]
	if !ok {
		return Status{}, ErrNoSession
	}

	switch sess.state {
	case StateDiffed:
		sess.plan = nil
		sess.state = StateFailed
		sess.errMsg = "cancelled before apply"
		sess.updatedAt = time.Now().UTC()
		return sess.snapshot(), nil
	case StateApplying:
		if sess.cancel != nil {
			sess.cancel()
		}
		return sess.snapshot(), nil
	default:
		return sess.snapshot(), ErrNotCancellable
	}
}

// Status returns the current session snapshot of a scope.
func (m *Manager) Status(scope string) (Status, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	sess, ok := m.sessions[scope]
	if !ok {
		return Status{}, ErrNoSession
	}
	return sess.snapshot(), nil
}

// Plan returns the pending plan of a diffed session, for detailed reporting.
func (m *Manager) Plan(scope string) (*reconcile.Plan, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	sess, ok := m.sessions[scope]
	if !ok {
		return nil, ErrNoSession
	}
	if sess.state != StateDiffed || sess.plan == nil {
		return nil, ErrNotDiffed
	}
	return sess.plan, nil
}

// fail marks a session failed and returns its snapshot.
func (m *Manager) fail(sess *session, err error) Status {
	m.mu.Lock()
	defer m.mu.Unlock()

	sess.state = StateFailed
	sess.errMsg = err.Error()
	sess.updatedAt = time.Now().UTC()
	m.logger.Error("Sync session failed",
		zap.String("session_id", sess.id),
		zap.String("scope", sess.scope),
		zap.Error(err))
	return sess.snapshot()
}

// archiveSession writes the finished session to object storage, best effort.
func (m *Manager) archiveSession(status Status) {
	if m.archiver == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	snapshot := archive.Snapshot{
		SessionID:   status.ID,
		Scope:       status.Scope,
		SnapshotRef: status.SnapshotRef,
		Kind:        string(status.Kind),
		CreatedAt:   time.Now().UTC(),
		Summary:     status.Summary,
		Result:      status.Result,
	}
	if err := m.archiver.Store(ctx, snapshot); err != nil {
		m.logger.Warn("Failed to archive session snapshot",
			zap.String("session_id", status.ID),
			zap.Error(err))
	}
}
