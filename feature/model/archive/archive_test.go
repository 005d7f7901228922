package archive

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"model-sync/core/reconcile"
	"model-sync/core/storage/mocks"
)

func testSnapshot() Snapshot {
	return Snapshot{
		SessionID:   "sess-1",
		Scope:       "site-a",
		SnapshotRef: "model-1",
		Kind:        "assembly",
		CreatedAt:   time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		Summary:     reconcile.Summary{Fetched: 3, Added: 1, Updated: 1, Removed: 1},
		Result:      &reconcile.Result{Inserted: 1, Updated: 1, Deleted: 1},
	}
}

func TestStore_WritesScopedJSONObject(t *testing.T) {
	client := &mocks.Client{}
	arch := NewArchive(client, "model-sync", zap.NewNop())

	var uploaded []byte
	client.On("PutObject", mock.Anything, "model-sync", "snapshots/site-a/sess-1.json",
		mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			reader := args.Get(3).(io.Reader)
			uploaded, _ = io.ReadAll(reader)
		}).
		Return(minio.UploadInfo{}, nil)

	err := arch.Store(context.Background(), testSnapshot())
	require.NoError(t, err)

	client.AssertExpectations(t)
	assert.Contains(t, string(uploaded), `"sessionId": "sess-1"`)
	assert.Contains(t, string(uploaded), `"inserted": 1`)
}

func TestStore_UploadFailure(t *testing.T) {
	client := &mocks.Client{}
	arch := NewArchive(client, "model-sync", zap.NewNop())

	client.On("PutObject", mock.Anything, mock.Anything, mock.Anything,
		mock.Anything, mock.Anything, mock.Anything).
		Return(minio.UploadInfo{}, errors.New("connection refused"))

	err := arch.Store(context.Background(), testSnapshot())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to upload snapshot")
}

func TestList_NewestFirst(t *testing.T) {
	client := &mocks.Client{}
	arch := NewArchive(client, "model-sync", zap.NewNop())

	ch := make(chan minio.ObjectInfo, 3)
	ch <- minio.ObjectInfo{Key: "snapshots/site-a/old.json", Size: 10, LastModified: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	ch <- minio.ObjectInfo{Key: "snapshots/site-a/new.json", Size: 20, LastModified: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)}
	ch <- minio.ObjectInfo{Key: "snapshots/site-a/notes.txt", Size: 5, LastModified: time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)}
	close(ch)

	client.On("ListObjects", mock.Anything, "model-sync", mock.MatchedBy(func(opts minio.ListObjectsOptions) bool {
		return opts.Prefix == "snapshots/site-a/"
	})).Return((<-chan minio.ObjectInfo)(ch))

	entries, err := arch.List(context.Background(), "site-a")
	require.NoError(t, err)

	require.Len(t, entries, 2)
	assert.Equal(t, "snapshots/site-a/new.json", entries[0].Key)
	assert.Equal(t, "snapshots/site-a/old.json", entries[1].Key)
}

func TestList_ObjectError(t *testing.T) {
	client := &mocks.Client{}
	arch := NewArchive(client, "model-sync", zap.NewNop())

	ch := make(chan minio.ObjectInfo, 1)
	ch <- minio.ObjectInfo{Err: errors.New("access denied")}
	close(ch)

	client.On("ListObjects", mock.Anything, mock.Anything, mock.Anything).
		Return((<-chan minio.ObjectInfo)(ch))

	_, err := arch.List(context.Background(), "site-a")
	require.Error(t, err)
}

func TestEnsureBucket_CreatesWhenMissing(t *testing.T) {
	client := &mocks.Client{}
	arch := NewArchive(client, "model-sync", zap.NewNop())

	client.On("BucketExists", mock.Anything, "model-sync").Return(false, nil)
	client.On("MakeBucket", mock.Anything, "model-sync", mock.Anything).Return(nil)

	require.NoError(t, arch.EnsureBucket(context.Background()))
	client.AssertExpectations(t)
}

func TestEnsureBucket_SkipsExisting(t *testing.T) {
	client := &mocks.Client{}
	arch := NewArchive(client, "model-sync", zap.NewNop())

	client.On("BucketExists", mock.Anything, "model-sync").Return(true, nil)

	require.NoError(t, arch.EnsureBucket(context.Background()))
	client.AssertNotCalled(t, "MakeBucket", mock.Anything, mock.Anything, mock.Anything)
}
