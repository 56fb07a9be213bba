package logging

import (
	"context"

	"github.com/charmbracelet/log"
)

// loggerKey carries the command logger through a run.
type loggerKey struct{}

// WithLogger attaches logger to ctx. Commands install it once in the root
// PersistentPreRun so every subcommand and worker shares its level.
func WithLogger(ctx context.Context, logger *log.Logger) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, loggerKey{}, logger)
}

// FromContext returns the logger attached to ctx, falling back to Default.
func FromContext(ctx context.Context) *log.Logger {
	if ctx != nil {
		if logger, ok := ctx.Value(loggerKey{}).(*log.Logger); ok && logger != nil {
			return logger
		}
	}
	return Default()
}

// WithInput returns ctx with a logger that tags every entry with the
// document being processed. Workers call it so interleaved output from
// parallel files stays attributable.
func WithInput(ctx context.Context, input string) context.Context {
	return WithLogger(ctx, FromContext(ctx).With(FieldInput, input))
}
