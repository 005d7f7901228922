package model

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"model-sync/core/reconcile"
	"model-sync/feature/model/archive"
	"model-sync/feature/model/canonical"
	"model-sync/feature/model/session"
)

// SnapshotLister lists archived session snapshots.
type SnapshotLister interface {
	List(ctx context.Context, scope string) ([]archive.Entry, error)
}

// Service exposes the sync session lifecycle to the HTTP handler and the
// CLI.
type Service struct {
	manager   *session.Manager
	snapshots SnapshotLister
	scope     string
	logger    *zap.Logger
}

// NewService creates a sync service. The snapshot lister may be nil when no
// object storage is configured.
func NewService(manager *session.Manager, snapshots SnapshotLister, scope string, logger *zap.Logger) *Service {
	return &Service{
		manager:   manager,
		snapshots: snapshots,
		scope:     scope,
		logger:    logger,
	}
}

// DefaultScope returns the scope used when a request names none.
func (s *Service) DefaultScope() string {
	return s.scope
}

// Fetch runs the fetch and diff phases and leaves a plan pending.
func (s *Service) Fetch(ctx context.Context, scope, kind, snapshotRef string) (session.Status, error) {
	if kind == "" {
		kind = string(canonical.KindAssembly)
	}
	if !canonical.IsValidKind(kind) {
		return session.Status{}, fmt.Errorf("unknown entity kind %q", kind)
	}
	return s.manager.Fetch(ctx, scope, canonical.Kind(kind), snapshotRef)
}

// Apply executes the pending plan of a scope.
func (s *Service) Apply(ctx context.Context, scope string, confirm bool) (session.Status, error) {
	return s.manager.Apply(ctx, scope, confirm)
}

// Cancel aborts the scope's session.
func (s *Service) Cancel(scope string) (session.Status, error) {
	return s.manager.Cancel(scope)
}

// Status returns the scope's session snapshot.
func (s *Service) Status(scope string) (session.Status, error) {
	return s.manager.Status(scope)
}

// Plan returns the pending plan of a diffed session.
func (s *Service) Plan(scope string) (*reconcile.Plan, error) {
	return s.manager.Plan(scope)
}

// ListSnapshots returns the archived snapshots of a scope, newest first.
func (s *Service) ListSnapshots(ctx context.Context, scope string) ([]archive.Entry, error) {
	if s.snapshots == nil {
		return []archive.Entry{}, nil
	}
	return s.snapshots.List(ctx, scope)
}
