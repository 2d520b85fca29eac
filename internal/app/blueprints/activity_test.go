package blueprints

import (
	"context"
	"testing"

	"go.uber.org/zap"
)

func TestActivityLogNoopWithoutPostgres(t *testing.T) {
	t.Parallel()

	a := NewActivityLog(NewActivityLogParams{PG: nil, Logger: zap.NewNop().Sugar()})
	a.Record(context.Background(), "evt", "enqueued", "topic")

	var nilLog *ActivityLog
	nilLog.Record(context.Background(), "evt", "enqueued", "topic")
}
