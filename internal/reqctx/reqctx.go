package reqctx

import (
	"context"
	"time"

	"github.com/rs/xid"
	"github.com/rs/zerolog"
)

type key int

const runKey key = 0

// RunContext identifies one report run
type RunContext struct {
	RunID     string
	StartTime time.Time
}

// WithRunContext attaches a fresh run ID to ctx
func WithRunContext(ctx context.Context) context.Context {
	return context.WithValue(ctx, runKey, &RunContext{
		RunID:     xid.New().String(),
		StartTime: time.Now(),
	})
}

// GetRunContext returns the run attached to ctx, or an "unknown" one
func GetRunContext(ctx context.Context) *RunContext {
	if rc, ok := ctx.Value(runKey).(*RunContext); ok {
		return rc
	}
	return &RunContext{
		RunID:     "unknown",
		StartTime: time.Now(),
	}
}

// Logger returns base with the run ID attached
func Logger(ctx context.Context, base zerolog.Logger) zerolog.Logger {
	return base.With().Str("run_id", GetRunContext(ctx).RunID).Logger()
}
