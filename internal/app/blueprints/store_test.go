package blueprints

import (
	"context"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"github.com/jmoiron/sqlx/reflectx"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"blueprintforge/internal/blueprint"

	_ "modernc.org/sqlite"
)

func newTestSQLiteDB(t *testing.T) *sqlx.DB {
	t.Helper()

	db, err := sqlx.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	db.Mapper = reflectx.NewMapperFunc("json", strings.ToLower)

	_, err = db.Exec(`
CREATE TABLE blueprints (
  id TEXT PRIMARY KEY,
  status TEXT NOT NULL,
  request_payload TEXT NOT NULL,
  document_payload TEXT NULL,
  error TEXT NULL,
  created_by TEXT NULL,
  created_at_ms INTEGER NOT NULL,
  updated_at_ms INTEGER NOT NULL
);
`)
	require.NoError(t, err)

	return db
}

func newTestStore(t *testing.T) *Store {
	t.Helper()
	return &Store{
		conn:      newTestSQLiteDB(t),
		logger:    zap.NewNop().Sugar(),
		validator: validator.New(),
	}
}

func TestStoreUpsertQueuedThenReady(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	ctx := context.Background()

	id, err := s.UpsertQueued(ctx, UpsertQueuedInput{
		EventID:        "bp_1",
		RequestPayload: `{"topic":"onboarding"}`,
		CreatedBy:      "enqueue",
	})
	require.NoError(t, err)
	require.Equal(t, "bp_1", id)

	row, err := s.GetByID(ctx, "bp_1")
	require.NoError(t, err)
	require.Equal(t, StatusQueued, row.Status)
	require.False(t, row.DocumentPayload.Valid)

	doc := blueprint.Document{
		"metadata": map[string]any{"title": "T", "organization": "O", "role": "R", "generated_at": "2026-08-28T00:00:00Z"},
		"overview": map[string]any{"displayType": "markdown", "content": "hi"},
	}
	id, err = s.UpsertResult(ctx, UpsertResultInput{
		EventID:        "bp_1",
		RequestPayload: `{"topic":"onboarding"}`,
		CreatedBy:      "worker",
		Document:       doc,
	})
	require.NoError(t, err)
	require.Equal(t, "bp_1", id)

	row, err = s.GetByID(ctx, "bp_1")
	require.NoError(t, err)
	require.Equal(t, StatusReady, row.Status)
	require.True(t, row.DocumentPayload.Valid)
	require.Contains(t, row.DocumentPayload.String, `"displayType":"markdown"`)
	require.False(t, row.Error.Valid)
}

func TestStoreUpsertResult_Failure(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.UpsertResult(ctx, UpsertResultInput{
		EventID:        "bp_2",
		RequestPayload: `{"topic":"x"}`,
		Err:            &blueprint.Error{Code: blueprint.CodeInvalidJSON, Message: "unparseable"},
	})
	require.NoError(t, err)

	row, err := s.GetByID(ctx, "bp_2")
	require.NoError(t, err)
	require.Equal(t, StatusFailed, row.Status)
	require.True(t, row.Error.Valid)
	require.Equal(t, "INVALID_JSON: unparseable", row.Error.String)
	require.False(t, row.DocumentPayload.Valid)
}

func TestStoreUpsertQueued_Validation(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	_, err := s.UpsertQueued(context.Background(), UpsertQueuedInput{EventID: "", RequestPayload: ""})
	require.Error(t, err)
}
