package log

import "context"

type noOpLogger struct {
}

func (n noOpLogger) Info(ctx context.Context, args ...interface{}) {}

func (n noOpLogger) Infof(ctx context.Context, format string, args ...interface{}) {}

func (n noOpLogger) Warning(ctx context.Context, args ...interface{}) {}

func (n noOpLogger) Warningf(ctx context.Context, format string, args ...interface{}) {}

func (n noOpLogger) Error(ctx context.Context, args ...interface{}) {}

func (n noOpLogger) Errorf(ctx context.Context, format string, args ...interface{}) {}

func (n noOpLogger) Fatal(ctx context.Context, args ...interface{}) {}

func (n noOpLogger) Fatalf(ctx context.Context, format string, args ...interface{}) {}

func (n noOpLogger) V(level int32) bool {
	return false
}

func (n noOpLogger) WithLogTag(ctx context.Context, name string, value interface{}) context.Context {
	return ctx
}

func (n noOpLogger) Flush() {}

// NoOpLogger discards everything. Tools which print to stdout install it so
// log lines do not interleave with their output.
var NoOpLogger Logger = &noOpLogger{}
