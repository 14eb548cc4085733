package measure

import (
	"errors"
)

// Sentinel errors for measurement feed handling.
var (
	ErrFeedDecode           = errors.New("measurement feed decode failed")
	ErrDuplicateMeasurement = errors.New("duplicate measurement for attribute")
	ErrBadCoverage          = errors.New("invalid coverage value")
)
