package logger

import (
	"io"
	"log/slog"
)

// Option configures the logger built by Init.
type Option func(*options)

type options struct {
	out   io.Writer
	level slog.Level
}

// WithWriter directs log output to w. Nil writers are ignored.
func WithWriter(w io.Writer) Option {
	return func(o *options) {
		if w != nil {
			o.out = w
		}
	}
}

// WithLevel sets the initial level. SetLevelString changes it at runtime.
func WithLevel(level slog.Level) Option {
	return func(o *options) {
		o.level = level
	}
}
