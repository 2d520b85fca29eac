package blueprints

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"blueprintforge/db"
	"blueprintforge/internal/blueprint"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const (
	StatusQueued = "QUEUED"
	StatusReady  = "READY"
	StatusFailed = "FAILED"
)

type Store struct {
	conn      db.Conn
	logger    *zap.SugaredLogger
	validator *validator.Validate
}

type NewStoreParams struct {
	fx.In

	Conn   db.Conn `name:"sqlite"`
	Logger *zap.SugaredLogger
}

func NewStore(p NewStoreParams) *Store {
	return &Store{
		conn:      p.Conn,
		logger:    p.Logger,
		validator: validator.New(),
	}
}

type Row struct {
	ID              string         `json:"id"`
	Status          string         `json:"status"`
	RequestPayload  string         `json:"request_payload"`
	DocumentPayload sql.NullString `json:"document_payload"`
	Error           sql.NullString `json:"error"`
	CreatedBy       sql.NullString `json:"created_by"`
	CreatedAtMs     int64          `json:"created_at_ms"`
	UpdatedAtMs     int64          `json:"updated_at_ms"`
}

type UpsertQueuedInput struct {
	EventID        string `validate:"required"`
	RequestPayload string `validate:"required"`
	CreatedBy      string
}

// UpsertQueued records an accepted generation request before any worker
// picks it up. Re-enqueueing the same event id resets the row to QUEUED.
func (s *Store) UpsertQueued(ctx context.Context, in UpsertQueuedInput) (blueprintID string, err error) {
	_ = ctx

	if err := s.validator.Struct(in); err != nil {
		return "", fmt.Errorf("validate queued input: %w", err)
	}

	blueprintID = in.EventID
	now := time.Now().UnixMilli()

	q := s.conn.Rebind(`
INSERT INTO blueprints (
  id,
  status,
  request_payload,
  document_payload,
  error,
  created_by,
  created_at_ms,
  updated_at_ms
) VALUES (?, ?, ?, NULL, NULL, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
  status = excluded.status,
  request_payload = excluded.request_payload,
  document_payload = NULL,
  error = NULL,
  updated_at_ms = excluded.updated_at_ms
`)

	createdBy := nullString(in.CreatedBy)
	if _, err := s.conn.Exec(q, blueprintID, StatusQueued, in.RequestPayload, createdBy, now, now); err != nil {
		if errors.Is(err, db.ErrSQLiteDisabled) {
			s.logger.Infow("turso_sqlite_disabled_skip_persist", "reason", err.Error())
			return blueprintID, nil
		}
		return "", fmt.Errorf("upsert queued blueprint: %w", err)
	}

	s.logger.Infow("blueprint_queued", "id", blueprintID)
	return blueprintID, nil
}

type UpsertResultInput struct {
	EventID        string `validate:"required"`
	RequestPayload string
	CreatedBy      string

	// Document is the normalized blueprint; nil marks a failed generation.
	Document blueprint.Document
	Err      error
}

// UpsertResult persists the outcome of a generation attempt: READY with the
// normalized document, or FAILED with the pipeline/provider error text.
func (s *Store) UpsertResult(ctx context.Context, in UpsertResultInput) (blueprintID string, err error) {
	_ = ctx

	if err := s.validator.Struct(in); err != nil {
		return "", fmt.Errorf("validate result input: %w", err)
	}

	blueprintID = in.EventID
	if blueprintID == "" {
		blueprintID = uuid.NewString()
	}

	status := StatusReady
	docCol := sql.NullString{}
	errCol := sql.NullString{}

	if in.Document != nil {
		payload, merr := json.Marshal(in.Document)
		if merr != nil {
			return "", fmt.Errorf("marshal blueprint document: %w", merr)
		}
		docCol = sql.NullString{String: string(payload), Valid: true}
	} else {
		status = StatusFailed
		errCol = nullString(errorText(in.Err))
	}

	now := time.Now().UnixMilli()

	q := s.conn.Rebind(`
INSERT INTO blueprints (
  id,
  status,
  request_payload,
  document_payload,
  error,
  created_by,
  created_at_ms,
  updated_at_ms
) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
  status = excluded.status,
  document_payload = excluded.document_payload,
  error = excluded.error,
  updated_at_ms = excluded.updated_at_ms
`)

	createdBy := nullString(in.CreatedBy)
	if _, err := s.conn.Exec(q, blueprintID, status, in.RequestPayload, docCol, errCol, createdBy, now, now); err != nil {
		if errors.Is(err, db.ErrSQLiteDisabled) {
			s.logger.Infow("turso_sqlite_disabled_skip_persist", "reason", err.Error())
			return blueprintID, nil
		}
		return "", fmt.Errorf("upsert blueprint result: %w", err)
	}

	s.logger.Infow("blueprint_result_upserted", "id", blueprintID, "status", status)
	return blueprintID, nil
}

func (s *Store) GetByID(ctx context.Context, id string) (Row, error) {
	_ = ctx

	var row Row
	q := s.conn.Rebind(`
SELECT id, status, request_payload, document_payload, error, created_by, created_at_ms, updated_at_ms
FROM blueprints
WHERE id = ?
`)
	if err := s.conn.QueryRowx(q, id).StructScan(&row); err != nil {
		return Row{}, err
	}
	return row, nil
}

func errorText(err error) string {
	if err == nil {
		return "generation failed"
	}
	var perr *blueprint.Error
	if errors.As(err, &perr) {
		return perr.Error()
	}
	return err.Error()
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
