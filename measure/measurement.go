// Package measure holds the catalog measurement inputs consumed by the
// assessment engine. Measurements arrive from upstream attribute checkers
// and the AI enrichment stage; this package never computes them.
package measure

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Measurement is the upstream assessment of a single catalog attribute:
// what fraction of the catalog carries a usable value, which deterministic
// checks raised issues, and what the enrichment stage flagged.
type Measurement struct {
	Attribute   string   `json:"attribute"`
	Coverage    Coverage `json:"coverage"`
	SKUsCovered int      `json:"skus_covered,omitempty"`
	SKUsTotal   int      `json:"skus_total,omitempty"`
	IssueFlags  FlagSet  `json:"issue_flags,omitempty"`
	AIFlags     FlagSet  `json:"ai_flags,omitempty"`
}

// Coverage is a fraction of catalog SKUs in [0,1]. Feeds carry it as a bare
// fraction (0.8), a percentage number (80, read as 80% when above 1), or a
// string with optional percent sign and thousands separators ("80%").
type Coverage float64

// UnmarshalJSON accepts both numeric and string coverage forms.
func (c *Coverage) UnmarshalJSON(data []byte) error {
	var num float64
	if err := json.Unmarshal(data, &num); err == nil {
		parsed, err := NormalizeCoverage(num)
		if err != nil {
			return err
		}
		*c = parsed
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("%w: %s", ErrBadCoverage, string(data))
	}
	parsed, err := ParseCoverage(s)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// ParseCoverage converts a textual coverage cell to a fraction.
func ParseCoverage(s string) (Coverage, error) {
	trimmed := strings.TrimSpace(s)
	trimmed = strings.TrimSuffix(trimmed, "%")
	trimmed = strings.ReplaceAll(trimmed, ",", "")
	if trimmed == "" {
		return 0, fmt.Errorf("%w: %q", ErrBadCoverage, s)
	}
	num, err := strconv.ParseFloat(trimmed, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrBadCoverage, s)
	}
	return NormalizeCoverage(num)
}

// NormalizeCoverage maps a raw number to the fraction form: values in
// (1,100] are read as percentages, values outside [0,100] are invalid.
func NormalizeCoverage(num float64) (Coverage, error) {
	switch {
	case num >= 0 && num <= 1:
		return Coverage(num), nil
	case num > 1 && num <= 100:
		return Coverage(num / 100), nil
	default:
		return 0, fmt.Errorf("%w: %v", ErrBadCoverage, num)
	}
}

// NormalizeKey canonicalizes attribute and vertical names for lookup:
// surrounding and repeated whitespace collapses, case folds.
func NormalizeKey(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}
