package blueprints

import (
	"context"
	"sync"
	"time"

	"blueprintforge/db"

	"github.com/jmoiron/sqlx"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// ActivityLog records request activity in Postgres. Best effort: when
// postgres is disabled the log is a no-op, blueprint persistence itself
// lives in the sqlite store.
type ActivityLog struct {
	pg     *sqlx.DB
	logger *zap.SugaredLogger

	ensureOnce sync.Once
	ensureErr  error
}

type NewActivityLogParams struct {
	fx.In

	PG     *sqlx.DB `optional:"true"`
	Logger *zap.SugaredLogger
}

func NewActivityLog(p NewActivityLogParams) *ActivityLog {
	return &ActivityLog{
		pg:     p.PG,
		logger: p.Logger,
	}
}

func (a *ActivityLog) Record(ctx context.Context, eventID, action, topic string) {
	if a == nil || a.pg == nil {
		return
	}

	if err := a.ensureSchema(ctx); err != nil {
		a.logger.Warnw("activity_schema_failed", "err", err)
		return
	}

	_, err := db.Tx(ctx, a.pg, func(tx *sqlx.Tx) (struct{}, error) {
		_, err := tx.ExecContext(ctx, `
INSERT INTO blueprint_activity (event_id, action, topic, created_at)
VALUES ($1, $2, $3, $4)
`, eventID, action, topic, time.Now().UTC())
		return struct{}{}, err
	})
	if err != nil {
		a.logger.Warnw("activity_record_failed", "event_id", eventID, "action", action, "err", err)
	}
}

func (a *ActivityLog) ensureSchema(ctx context.Context) error {
	a.ensureOnce.Do(func() {
		_, a.ensureErr = a.pg.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS blueprint_activity (
  id BIGSERIAL PRIMARY KEY,
  event_id TEXT NOT NULL,
  action TEXT NOT NULL,
  topic TEXT NOT NULL DEFAULT '',
  created_at TIMESTAMPTZ NOT NULL
)
`)
	})
	return a.ensureErr
}
