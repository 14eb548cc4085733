package ruleset

import (
	"errors"
)

// Sentinel errors for rule document handling.
var (
	// ErrRuleLoad wraps every document validation failure. It surfaces at
	// load or replace time, never during evaluation.
	ErrRuleLoad = errors.New("invalid rule document")

	// ErrUnknownVertical surfaces at resolve time when neither the
	// requested vertical nor a baseline exists in the document.
	ErrUnknownVertical = errors.New("unknown vertical")
)
