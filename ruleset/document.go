// Package ruleset loads, validates, and resolves eligibility rule
// documents. A document maps business verticals to ordered attribute
// rules; the reserved "All Verticals" entry is the baseline every other
// vertical overrides rule-by-rule.
package ruleset

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/NoliDD/assessment-tool/measure"
	"github.com/NoliDD/assessment-tool/predicate"
)

// VerticalAll is the reserved baseline vertical.
const VerticalAll = "All Verticals"

// universalSynonyms are the spellings rule authors use for the baseline.
var universalSynonyms = map[string]bool{
	"":              true,
	"all":           true,
	"all verticals": true,
	"any":           true,
	"general":       true,
	"*":             true,
}

// normalizeVertical canonicalizes a vertical name for lookup, folding the
// universal synonyms into the baseline key.
func normalizeVertical(name string) string {
	key := measure.NormalizeKey(name)
	if universalSynonyms[key] {
		return measure.NormalizeKey(VerticalAll)
	}
	return key
}

// Condition pairs a bound predicate with the reason reported when it fires.
type Condition struct {
	Predicate predicate.Predicate
	Reason    string
}

// Rule is one attribute's eligibility rule after validation and predicate
// binding. A nil CoverageThreshold means no quantitative gate.
type Rule struct {
	Attribute         string
	Required          bool
	CoverageThreshold *float64
	Conditions        []Condition
	UnusableTriggers  measure.FlagSet
}

type verticalRules struct {
	display string
	rules   []Rule
}

// Document is a validated rule document. Rule order within a vertical is
// declaration order and survives resolution.
type Document struct {
	verticals map[string]verticalRules
}

// NewDocument validates rules built in code. Vertical keys may use any
// baseline synonym; rule slices keep their order.
func NewDocument(verticals map[string][]Rule) (*Document, error) {
	doc := &Document{verticals: make(map[string]verticalRules, len(verticals))}
	var issues []error

	for name, rules := range verticals {
		key := normalizeVertical(name)
		display := strings.TrimSpace(name)
		if key == normalizeVertical(VerticalAll) {
			display = VerticalAll
		}
		if _, ok := doc.verticals[key]; ok {
			issues = append(issues, fmt.Errorf("vertical %q declared more than once", display))
			continue
		}

		seen := make(map[string]bool, len(rules))
		kept := make([]Rule, 0, len(rules))
		for i, r := range rules {
			attr := strings.TrimSpace(r.Attribute)
			if attr == "" {
				issues = append(issues, fmt.Errorf("vertical %q: rule %d has no attribute name", display, i))
				continue
			}
			akey := measure.NormalizeKey(attr)
			if seen[akey] {
				issues = append(issues, fmt.Errorf("vertical %q: duplicate rule for attribute %q", display, attr))
				continue
			}
			seen[akey] = true

			if t := r.CoverageThreshold; t != nil && (*t < 0 || *t > 1) {
				issues = append(issues, fmt.Errorf("vertical %q: attribute %q: threshold %v outside [0,1]", display, attr, *t))
				continue
			}
			for _, c := range r.Conditions {
				if c.Predicate == nil {
					issues = append(issues, fmt.Errorf("vertical %q: attribute %q: condition has no predicate", display, attr))
				}
				if strings.TrimSpace(c.Reason) == "" {
					issues = append(issues, fmt.Errorf("vertical %q: attribute %q: condition has no reason", display, attr))
				}
			}

			r.Attribute = attr
			kept = append(kept, r)
		}
		doc.verticals[key] = verticalRules{display: display, rules: kept}
	}

	if len(issues) > 0 {
		return nil, fmt.Errorf("%w: %w", ErrRuleLoad, errors.Join(issues...))
	}
	return doc, nil
}

// Verticals returns the declared vertical display names, sorted, with the
// baseline first when present.
func (d *Document) Verticals() []string {
	names := make([]string, 0, len(d.verticals))
	for _, v := range d.verticals {
		if v.display == VerticalAll {
			continue
		}
		names = append(names, v.display)
	}
	sort.Strings(names)
	if _, ok := d.verticals[normalizeVertical(VerticalAll)]; ok {
		names = append([]string{VerticalAll}, names...)
	}
	return names
}

// RuleCount returns the number of rules across all verticals.
func (d *Document) RuleCount() int {
	n := 0
	for _, v := range d.verticals {
		n += len(v.rules)
	}
	return n
}

func (d *Document) rulesFor(key string) ([]Rule, bool) {
	v, ok := d.verticals[key]
	if !ok {
		return nil, false
	}
	return v.rules, true
}

func (d *Document) displayFor(key string) (string, bool) {
	v, ok := d.verticals[key]
	if !ok {
		return "", false
	}
	return v.display, true
}
