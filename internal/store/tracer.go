package store

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
)

type traceKey struct{}

type traceStart struct {
	sql   string
	start time.Time
}

// queryTracer logs every statement with its duration.
type queryTracer struct {
	log zerolog.Logger
}

func (t *queryTracer) TraceQueryStart(ctx context.Context, _ *pgx.Conn, data pgx.TraceQueryStartData) context.Context {
	return context.WithValue(ctx, traceKey{}, traceStart{sql: data.SQL, start: time.Now()})
}

func (t *queryTracer) TraceQueryEnd(ctx context.Context, _ *pgx.Conn, data pgx.TraceQueryEndData) {
	ts, ok := ctx.Value(traceKey{}).(traceStart)
	if !ok {
		return
	}
	level := zerolog.DebugLevel
	if data.Err != nil {
		level = zerolog.WarnLevel
	}
	t.log.WithLevel(level).
		Err(data.Err).
		Str("sql", compactSQL(ts.sql)).
		Dur("took", time.Since(ts.start)).
		Int64("rows", data.CommandTag.RowsAffected()).
		Msg("query")
}
