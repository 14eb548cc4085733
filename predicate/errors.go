package predicate

import (
	"errors"
)

// Sentinel errors for predicate registration and compilation.
var (
	ErrUnknownPredicate   = errors.New("unknown predicate")
	ErrDuplicatePredicate = errors.New("predicate already registered")
	ErrUnnamedPredicate   = errors.New("predicate has no name")
	ErrInvalidExpression  = errors.New("invalid predicate expression")
)
