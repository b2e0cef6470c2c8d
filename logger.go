package payermint

import (
	"context"

	"go.uber.org/zap"
)

type loggerContextKey int

const contextKeyLogger loggerContextKey = 0

// WithLogger attaches a structured logger to this context. All handlers and
// decorators should log through it so entries carry the same fields.
func WithLogger(ctx Context, logger *zap.SugaredLogger) Context {
	return context.WithValue(ctx, contextKeyLogger, logger)
}

// GetLogger returns the logger attached to this context, or a no-op logger
// if none was set. The result is never nil.
func GetLogger(ctx Context) *zap.SugaredLogger {
	if logger, ok := ctx.Value(contextKeyLogger).(*zap.SugaredLogger); ok {
		return logger
	}
	return zap.NewNop().Sugar()
}
