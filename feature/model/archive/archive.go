package archive

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"

	"model-sync/core/reconcile"
	"model-sync/core/storage"
)

// Snapshot is the archived outcome of one sync session.
type Snapshot struct {
	SessionID   string            `json:"sessionId"`
	Scope       string            `json:"scope"`
	SnapshotRef string            `json:"snapshotRef"`
	Kind        string            `json:"kind"`
	CreatedAt   time.Time         `json:"createdAt"`
	Summary     reconcile.Summary `json:"summary"`
	Result      *reconcile.Result `json:"result,omitempty"`
}

// Entry describes one archived snapshot object.
type Entry struct {
	Key          string    `json:"key"`
	Size         int64     `json:"size"`
	LastModified time.Time `json:"lastModified"`
}

// Archive writes session snapshots to object storage. Archival is best
// effort: a failed write is logged and never fails the session it belongs
// to.
type Archive struct {
	client storage.Client
	bucket string
	logger *zap.Logger
}

// NewArchive creates a snapshot archive on top of a storage client.
func NewArchive(client storage.Client, bucket string, logger *zap.Logger) *Archive {
	return &Archive{client: client, bucket: bucket, logger: logger}
}

// EnsureBucket creates the archive bucket when missing.
func (a *Archive) EnsureBucket(ctx context.Context) error {
	exists, err := a.client.BucketExists(ctx, a.bucket)
	if err != nil {
		return fmt.Errorf("failed to check archive bucket: %w", err)
	}
	if exists {
		return nil
	}
	if err := a.client.MakeBucket(ctx, a.bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("failed to create archive bucket: %w", err)
	}
	return nil
}

// Store writes one session snapshot as a JSON object under the scope's
// prefix.
func (a *Archive) Store(ctx context.Context, snapshot Snapshot) error {
	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	objName := objectName(snapshot.Scope, snapshot.SessionID)
	_, err = a.client.PutObject(ctx, a.bucket, objName, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: "application/json",
	})
	if err != nil {
		return fmt.Errorf("failed to upload snapshot %s: %w", objName, err)
	}

	a.logger.Info("Archived session snapshot",
		zap.String("object", objName),
		zap.Int("bytes", len(data)))
	return nil
}

// List returns the archived snapshots of a scope, newest first.
func (a *Archive) List(ctx context.Context, scope string) ([]Entry, error) {
	prefix := "snapshots/" + scope + "/"
	entries := []Entry{}
	for obj := range a.client.ListObjects(ctx, a.bucket, minio.ListObjectsOptions{Prefix: prefix, Recursive: true}) {
		if obj.Err != nil {
			return nil, fmt.Errorf("failed to list snapshots: %w", obj.Err)
		}
		if !strings.HasSuffix(obj.Key, ".json") {
			continue
		}
		entries = append(entries, Entry{
			Key:          obj.Key,
			Size:         obj.Size,
			LastModified: obj.LastModified,
		})
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].LastModified.After(entries[j].LastModified)
	})
	return entries, nil
}

func objectName(scope, sessionID string) string {
	return fmt.Sprintf("snapshots/%s/%s.json", scope, sessionID)
}
