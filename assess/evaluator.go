// Package assess implements attribute evaluation and verdict aggregation:
// one rule plus one measurement in, one three-state verdict out, folded
// into an overall eligibility assessment.
package assess

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/NoliDD/assessment-tool/measure"
	"github.com/NoliDD/assessment-tool/ruleset"
	"github.com/NoliDD/assessment-tool/verdict"
)

// ReasonNoMeasurement is reported when the feed has no record for a
// rule's attribute.
const ReasonNoMeasurement = "no measurement available"

// Evaluate renders the verdict for one attribute rule against its
// measurement. A nil measurement means the feed had no record for the
// attribute. The function is pure: it never mutates its inputs and
// identical inputs yield identical verdicts.
//
// The ladder runs in order and stops at the first decisive rung; within a
// rung every reason that triggers is collected.
func Evaluate(rule ruleset.Rule, m *measure.Measurement) verdict.Attribute {
	out := verdict.Attribute{
		Name:     rule.Attribute,
		Required: rule.Required,
	}

	if m == nil {
		out.Status = verdict.StatusUnknown
		out.Reasons = []string{ReasonNoMeasurement}
		return out
	}

	cov := float64(m.Coverage)
	out.Coverage = &cov
	if rule.CoverageThreshold != nil {
		thr := *rule.CoverageThreshold
		out.Threshold = &thr
	}

	// An AI-unusable attribute is unknowable, not failed.
	if hits := m.AIFlags.Intersect(rule.UnusableTriggers); len(hits) > 0 {
		out.Status = verdict.StatusUnknown
		out.Reasons = []string{"AI flagged attribute as missing/unusable: " + strings.Join(hits, ", ")}
		return out
	}

	var fired []string
	var broken []string
	for _, cond := range rule.Conditions {
		ok, err := cond.Predicate.Holds(m.IssueFlags)
		if err != nil {
			// A predicate that cannot run makes the verdict unknown; the
			// engine still completes the assessment.
			broken = append(broken, fmt.Sprintf("condition %q could not be evaluated: %v", cond.Predicate.Name(), err))
			continue
		}
		if ok {
			fired = append(fired, cond.Reason)
		}
	}
	if len(broken) > 0 {
		out.Status = verdict.StatusUnknown
		out.Reasons = append(broken, fired...)
		return out
	}
	if len(fired) > 0 {
		out.Status = verdict.StatusFail
		out.Reasons = fired
		return out
	}

	// Quantitative gate; equality passes.
	if rule.CoverageThreshold != nil && cov < *rule.CoverageThreshold {
		out.Status = verdict.StatusFail
		out.Reasons = []string{fmt.Sprintf("coverage %s below required %s",
			formatFraction(cov), formatFraction(*rule.CoverageThreshold))}
		return out
	}

	out.Status = verdict.StatusPass
	return out
}

func formatFraction(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
