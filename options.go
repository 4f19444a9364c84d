package xlwrite

import "log/slog"

// Options holds configuration for a WriteContext.
type Options struct {
	logger  *slog.Logger
	backend Backend
}

func defaultOptions() *Options {
	return &Options{
		logger:  slog.New(slog.DiscardHandler),
		backend: NewExcelizeBackend(),
	}
}

// Option configures a WriteContext.
type Option func(*Options)

// WithLogger sets the logger scope transitions are reported to (default: discard).
func WithLogger(l *slog.Logger) Option {
	return func(o *Options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithBackend sets the document backend (default: excelize).
func WithBackend(b Backend) Option {
	return func(o *Options) {
		if b != nil {
			o.backend = b
		}
	}
}
