// Package evidence renders assessments into a portable evidence bundle: a
// stable, self-describing document that backs up the eligibility label with
// per-attribute verdicts and reasons.
package evidence

import (
	"time"

	"github.com/NoliDD/assessment-tool/verdict"
)

// SchemaVersion identifies the bundle layout for downstream consumers.
const SchemaVersion = 1

// Attribute is one attribute's entry in the evidence trail. Reasons is
// always present, empty for passes.
type Attribute struct {
	Attribute string         `json:"attribute" yaml:"attribute"`
	Status    verdict.Status `json:"status" yaml:"status"`
	Required  bool           `json:"required" yaml:"required"`
	Reasons   []string       `json:"reasons" yaml:"reasons"`
	Coverage  *float64       `json:"coverage,omitempty" yaml:"coverage,omitempty"`
	Threshold *float64       `json:"threshold,omitempty" yaml:"threshold,omitempty"`
}

// Bundle is the complete evidence document for one assessment run.
type Bundle struct {
	SchemaVersion int            `json:"schema_version" yaml:"schema_version"`
	RunID         string         `json:"run_id" yaml:"run_id"`
	Vertical      string         `json:"vertical" yaml:"vertical"`
	Eligible      bool           `json:"eligible" yaml:"eligible"`
	Eligibility   string         `json:"eligibility" yaml:"eligibility"`
	GeneratedAt   time.Time      `json:"generated_at" yaml:"generated_at"`
	Counts        verdict.Counts `json:"counts" yaml:"counts"`
	Attributes    []Attribute    `json:"attributes" yaml:"attributes"`
	Blocking      []Attribute    `json:"blocking_attributes" yaml:"blocking_attributes"`
	Advisory      []Attribute    `json:"advisory_issues" yaml:"advisory_issues"`
}

// Export snapshots an assessment into a bundle. The bundle owns its memory:
// later mutation of the assessment never shows through, and vice versa.
func Export(a *verdict.Assessment) *Bundle {
	b := &Bundle{
		SchemaVersion: SchemaVersion,
		RunID:         a.RunID,
		Vertical:      a.Vertical,
		Eligible:      a.Eligible,
		Eligibility:   a.Label(),
		GeneratedAt:   a.GeneratedAt.UTC(),
		Counts:        a.Count(),
		Attributes:    make([]Attribute, 0, len(a.Attributes)),
		Blocking:      []Attribute{},
		Advisory:      []Attribute{},
	}
	for _, attr := range a.Attributes {
		b.Attributes = append(b.Attributes, copyAttribute(attr))
		switch {
		case attr.Required && attr.Status != verdict.StatusPass:
			b.Blocking = append(b.Blocking, copyAttribute(attr))
		case !attr.Required && attr.Status != verdict.StatusPass:
			b.Advisory = append(b.Advisory, copyAttribute(attr))
		}
	}
	return b
}

func copyAttribute(src verdict.Attribute) Attribute {
	out := Attribute{
		Attribute: src.Name,
		Status:    src.Status,
		Required:  src.Required,
		Reasons:   make([]string, len(src.Reasons)),
	}
	copy(out.Reasons, src.Reasons)
	if src.Coverage != nil {
		v := *src.Coverage
		out.Coverage = &v
	}
	if src.Threshold != nil {
		v := *src.Threshold
		out.Threshold = &v
	}
	return out
}
