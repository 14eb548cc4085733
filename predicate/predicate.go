// Package predicate defines the named qualitative checks rule documents
// reference. Documents bind predicates by name at load time, so a typo
// fails the load and evaluation never meets an unknown name.
package predicate

import (
	"github.com/NoliDD/assessment-tool/measure"
)

// Predicate is a named check over an attribute's issue flags.
type Predicate interface {
	// Name is the identifier rule documents reference.
	Name() string
	// Holds reports whether the check fires for the given issue flags.
	Holds(flags measure.FlagSet) (bool, error)
}

type flagMatch struct {
	name  string
	flags measure.FlagSet
	all   bool
}

// FlagAny builds a predicate that holds when any of the given flags is
// present.
func FlagAny(name string, flags ...string) Predicate {
	return &flagMatch{name: name, flags: measure.NewFlagSet(flags...)}
}

// FlagAll builds a predicate that holds only when every given flag is
// present.
func FlagAll(name string, flags ...string) Predicate {
	return &flagMatch{name: name, flags: measure.NewFlagSet(flags...), all: true}
}

func (p *flagMatch) Name() string { return p.name }

func (p *flagMatch) Holds(flags measure.FlagSet) (bool, error) {
	if p.flags.Len() == 0 {
		return false, nil
	}
	if p.all {
		for _, want := range p.flags.Sorted() {
			if !flags.Has(want) {
				return false, nil
			}
		}
		return true, nil
	}
	return flags.ContainsAny(p.flags), nil
}
