package evidence

import "errors"

// ErrUnsupportedFormat is returned by Write for formats it cannot render.
var ErrUnsupportedFormat = errors.New("unsupported evidence format")
