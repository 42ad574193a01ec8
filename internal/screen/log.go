package screen

import (
	"context"

	"github.com/sirupsen/logrus"
)

type ctxKeyLog struct{}

// WithLogger returns a copy of ctx carrying log.
func WithLogger(ctx context.Context, log logrus.FieldLogger) context.Context {
	return context.WithValue(ctx, ctxKeyLog{}, log)
}

// Logger returns the request logger stored in ctx, or the standard logger.
func Logger(ctx context.Context) logrus.FieldLogger {
	if log, ok := ctx.Value(ctxKeyLog{}).(logrus.FieldLogger); ok {
		return log
	}
	return logrus.StandardLogger()
}
