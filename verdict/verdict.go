// Package verdict contains the verdict types produced by the assessment
// engine.
package verdict

import "time"

// Status is the three-state outcome of one attribute evaluation. Unknown is
// deliberately distinct from Fail: it means the engine could not tell, not
// that the attribute is bad.
type Status string

const (
	StatusPass    Status = "pass"
	StatusFail    Status = "fail"
	StatusUnknown Status = "unknown"
)

// Overall eligibility labels as they appear in merchant-facing reports.
const (
	LabelEligible    = "Eligible for GP"
	LabelNotEligible = "Not Eligible for GP"
)

// Attribute is the verdict for a single catalog attribute.
type Attribute struct {
	Name     string   `json:"attribute"`
	Status   Status   `json:"status"`
	Required bool     `json:"required"`
	Reasons  []string `json:"reasons"`

	// Coverage and Threshold are present when a measurement existed and a
	// quantitative gate applied, for the evidence trail.
	Coverage  *float64 `json:"coverage,omitempty"`
	Threshold *float64 `json:"threshold,omitempty"`
}

// Blocks reports whether this verdict alone prevents eligibility.
func (a Attribute) Blocks() bool {
	return a.Required && a.Status != StatusPass
}

// Assessment is the aggregate verdict over one catalog and vertical.
// Attributes preserves rule-declaration order; Blocking is the required
// non-pass subsequence in that same order.
type Assessment struct {
	RunID       string      `json:"run_id"`
	Vertical    string      `json:"vertical"`
	Eligible    bool        `json:"eligible"`
	Attributes  []Attribute `json:"attributes"`
	Blocking    []Attribute `json:"blocking_attributes"`
	GeneratedAt time.Time   `json:"generated_at"`
}

// Label returns the merchant-facing eligibility string.
func (a *Assessment) Label() string {
	if a.Eligible {
		return LabelEligible
	}
	return LabelNotEligible
}

// Counts tallies verdicts by class for reporting.
type Counts struct {
	RequiredPass    int `json:"required_pass" yaml:"required_pass"`
	RequiredFail    int `json:"required_fail" yaml:"required_fail"`
	RequiredUnknown int `json:"required_unknown" yaml:"required_unknown"`
	AdvisoryIssues  int `json:"advisory_issues" yaml:"advisory_issues"`
	Total           int `json:"total_attributes" yaml:"total_attributes"`
}

// Count summarizes the assessment's verdicts.
func (a *Assessment) Count() Counts {
	c := Counts{Total: len(a.Attributes)}
	for _, attr := range a.Attributes {
		switch {
		case attr.Required && attr.Status == StatusPass:
			c.RequiredPass++
		case attr.Required && attr.Status == StatusFail:
			c.RequiredFail++
		case attr.Required && attr.Status == StatusUnknown:
			c.RequiredUnknown++
		case !attr.Required && attr.Status != StatusPass:
			c.AdvisoryIssues++
		}
	}
	return c
}
