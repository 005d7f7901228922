package store

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("Failed to open mock sql db: %v", err)
	}

	dialector := mysql.New(mysql.Config{
		Conn:                      db,
		SkipInitializeWithVersion: true,
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to open gorm db: %v", err)
	}

	return gormDB, mock
}

func TestListActive_FiltersScopeAndStatus(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewRepository(db)

	rows := sqlmock.NewRows([]string{"id", "scope", "identity_key", "kind", "display_name", "source_object_id", "measures", "attributes", "sync_status"})
	rows.AddRow(1, "site-a", "g1", "assembly", "Truss-A", "obj-1", `{"WEIGHT":200}`, `{"GRADE":"S355"}`, "active")
	rows.AddRow(2, "site-a", "g2", "assembly", "Truss-B", "obj-2", `{"WEIGHT":80}`, `{}`, "active")

	mock.ExpectQuery("SELECT \\* FROM `model_records` WHERE scope = \\? AND sync_status = \\?").
		WithArgs("site-a", StatusActive).
		WillReturnRows(rows)

	records, err := repo.ListActive(context.Background(), "site-a")
	require.NoError(t, err)

	require.Len(t, records, 2)
	assert.Equal(t, "g1", records[0].IdentityKey)
	assert.Equal(t, 200.0, records[0].Measures["WEIGHT"])
	assert.True(t, records[0].IsActive())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpsertBatch_ForcesActiveStatus(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewRepository(db)

	records := []Record{
		{Scope: "site-a", IdentityKey: "g1", Kind: "assembly", SyncStatus: StatusDeleted},
		{Scope: "site-a", IdentityKey: "g2", Kind: "assembly"},
	}

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `model_records` .* ON DUPLICATE KEY UPDATE").
		WillReturnResult(sqlmock.NewResult(1, 2))
	mock.ExpectCommit()

	err := repo.UpsertBatch(context.Background(), records)
	require.NoError(t, err)

	// The merge path revives soft-deleted rows.
	assert.Equal(t, StatusActive, records[0].SyncStatus)
	assert.Equal(t, StatusActive, records[1].SyncStatus)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpsertBatch_EmptyIsNoop(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewRepository(db)

	err := repo.UpsertBatch(context.Background(), nil)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMarkStatus_UpdatesMatchingKeys(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `model_records` SET .* WHERE scope = \\? AND identity_key IN").
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectCommit()

	affected, err := repo.MarkStatus(context.Background(), "site-a", []string{"g1", "g2", "g3"}, StatusDeleted)
	require.NoError(t, err)
	assert.Equal(t, int64(3), affected)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMarkStatus_EmptyIsNoop(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewRepository(db)

	affected, err := repo.MarkStatus(context.Background(), "site-a", nil, StatusDeleted)
	require.NoError(t, err)
	assert.Zero(t, affected)
	assert.NoError(t, mock.ExpectationsWereMet())
}
