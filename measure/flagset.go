package measure

import (
	"encoding/json"
	"sort"
	"strings"
)

// FlagSet is a set of normalized flag tokens. The JSON form is a sorted
// array so renderings never depend on map iteration order.
type FlagSet map[string]struct{}

// NewFlagSet builds a set from the given flags. Empty tokens are dropped.
func NewFlagSet(flags ...string) FlagSet {
	s := make(FlagSet, len(flags))
	for _, f := range flags {
		s.Add(f)
	}
	return s
}

// Add inserts a flag after normalization. Empty tokens are ignored.
func (s FlagSet) Add(flag string) {
	key := NormalizeKey(flag)
	if key == "" {
		return
	}
	s[key] = struct{}{}
}

// Has reports whether the set contains flag.
func (s FlagSet) Has(flag string) bool {
	_, ok := s[NormalizeKey(flag)]
	return ok
}

// Intersect returns the flags present in both sets, sorted.
func (s FlagSet) Intersect(other FlagSet) []string {
	if len(s) == 0 || len(other) == 0 {
		return nil
	}
	var shared []string
	for f := range s {
		if _, ok := other[f]; ok {
			shared = append(shared, f)
		}
	}
	sort.Strings(shared)
	return shared
}

// ContainsAny reports whether any flag of other is present in s.
func (s FlagSet) ContainsAny(other FlagSet) bool {
	for f := range other {
		if _, ok := s[f]; ok {
			return true
		}
	}
	return false
}

// Sorted returns the flags in sorted order.
func (s FlagSet) Sorted() []string {
	if len(s) == 0 {
		return nil
	}
	flags := make([]string, 0, len(s))
	for f := range s {
		flags = append(flags, f)
	}
	sort.Strings(flags)
	return flags
}

// Len returns the number of flags in the set.
func (s FlagSet) Len() int { return len(s) }

// Clone returns an independent copy of the set.
func (s FlagSet) Clone() FlagSet {
	if s == nil {
		return nil
	}
	out := make(FlagSet, len(s))
	for f := range s {
		out[f] = struct{}{}
	}
	return out
}

// MarshalJSON renders the set as a sorted array.
func (s FlagSet) MarshalJSON() ([]byte, error) {
	flags := s.Sorted()
	if flags == nil {
		flags = []string{}
	}
	return json.Marshal(flags)
}

// UnmarshalJSON reads the set from an array of tokens.
func (s *FlagSet) UnmarshalJSON(data []byte) error {
	var flags []string
	if err := json.Unmarshal(data, &flags); err != nil {
		return err
	}
	*s = NewFlagSet(flags...)
	return nil
}

func (s FlagSet) String() string {
	return strings.Join(s.Sorted(), ", ")
}
