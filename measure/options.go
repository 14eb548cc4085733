package measure

import (
	"github.com/NoliDD/assessment-tool/pkg/logger"
)

// Option applies a configuration option to feed decoding.
type Option func(*decodeOptions)

type decodeOptions struct {
	strictDuplicates bool
	log              logger.Logger
}

// WithStrictDuplicates makes duplicate attribute records a decode error
// instead of keep-first.
func WithStrictDuplicates(strict bool) Option {
	return func(o *decodeOptions) {
		o.strictDuplicates = strict
	}
}

// WithLogger sets the logger used for decode warnings.
func WithLogger(l logger.Logger) Option {
	return func(o *decodeOptions) {
		if l != nil {
			o.log = l
		}
	}
}
