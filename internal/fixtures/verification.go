package fixtures

import (
	"bytes"
	"fmt"

	"github.com/NoliDD/assessment-tool/verdict"
)

// verifyDeterminism confirms every run serialized to identical bytes.
func verifyDeterminism(outputs [][]byte) error {
	if len(outputs) == 0 {
		return fmt.Errorf("no runs to verify")
	}
	for i := 1; i < len(outputs); i++ {
		if !bytes.Equal(outputs[0], outputs[i]) {
			return fmt.Errorf("run %d produced different evidence than run 1", i+1)
		}
	}
	return nil
}

// verifyAssessment checks the structural invariants of a verdict: blocking
// must be exactly the required non-pass verdicts in attribute order, and
// the eligibility bit must agree with it.
func verifyAssessment(a *verdict.Assessment) error {
	var want []string
	for _, attr := range a.Attributes {
		if attr.Blocks() {
			want = append(want, attr.Name)
		}
	}

	if len(a.Blocking) != len(want) {
		return fmt.Errorf("blocking list has %d entries, want %d", len(a.Blocking), len(want))
	}
	for i, attr := range a.Blocking {
		if attr.Name != want[i] {
			return fmt.Errorf("blocking entry %d is %q, want %q", i, attr.Name, want[i])
		}
		if !attr.Blocks() {
			return fmt.Errorf("blocking entry %q does not block", attr.Name)
		}
	}
	if a.Eligible != (len(want) == 0) {
		return fmt.Errorf("eligibility %t disagrees with %d blocking attributes", a.Eligible, len(want))
	}
	return nil
}
