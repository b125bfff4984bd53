package log

import (
	"context"

	"github.com/cockroachdb/cockroach/pkg/util/log"
)

// simpleLogger forwards to the cockroach logger
type simpleLogger struct {
}

func (s *simpleLogger) Info(ctx context.Context, args ...interface{}) {
	log.Info(ctx, args...)
}

func (s *simpleLogger) Infof(ctx context.Context, format string, args ...interface{}) {
	log.Infof(ctx, format, args...)
}

func (s *simpleLogger) Warning(ctx context.Context, args ...interface{}) {
	log.Warning(ctx, args...)
}

func (s *simpleLogger) Warningf(ctx context.Context, format string, args ...interface{}) {
	log.Warningf(ctx, format, args...)
}

func (s *simpleLogger) Error(ctx context.Context, args ...interface{}) {
	log.Error(ctx, args...)
}

func (s *simpleLogger) Errorf(ctx context.Context, format string, args ...interface{}) {
	log.Errorf(ctx, format, args...)
}

func (s *simpleLogger) Fatal(ctx context.Context, args ...interface{}) {
	log.Fatal(ctx, args...)
}

func (s *simpleLogger) Fatalf(ctx context.Context, format string, args ...interface{}) {
	log.Fatalf(ctx, format, args...)
}

func (s *simpleLogger) V(level int32) bool {
	return log.V(level)
}

func (s *simpleLogger) WithLogTag(ctx context.Context, name string, value interface{}) context.Context {
	return log.WithLogTag(ctx, name, value)
}

func (s *simpleLogger) Flush() {
	log.Flush()
}
