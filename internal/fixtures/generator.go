package fixtures

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/NoliDD/assessment-tool/measure"
	"github.com/NoliDD/assessment-tool/predicate"
	"github.com/NoliDD/assessment-tool/ruleset"
)

// Catalog attributes used for synthetic rule documents, in the order they
// appear in the generated baseline.
var attributePool = []string{
	"MSID",
	"Item Name",
	"Brand",
	"UPC",
	"Size",
	"Unit of Measurement",
	"Weighted Item Flag",
	"Image URL",
	"Other Images",
	"Product Group",
	"L1 Category",
	"L2 Category",
	"Short Description",
	"Average Weight Per Each",
	"SNAP Eligibility",
	"Tax Rate",
}

// Issue flags sprinkled onto synthetic measurements.
var issueFlagPool = []string{
	"placeholder_value",
	"generic_value",
	"generic_brand",
	"duplicate_values",
	"invalid_format",
	"brand_in_item_name",
}

// Constants for coverage band cases.
const (
	caseFullCoverage     = 0
	caseHighCoverage     = 1
	caseBoundaryCoverage = 2
	caseLowCoverage      = 3
	caseZeroCoverage     = 4
	caseAIUnusable       = 5
	caseIssueFlagged     = 6
	caseUnmeasured       = 7
	bandCount            = 8
)

// Constants for coverage generation ranges.
const (
	highCoverageMin   = 0.85
	highCoverageRange = 0.15
	lowCoverageMin    = 0.05
	lowCoverageRange  = 0.55
	thresholdMin      = 0.5
	thresholdRange    = 0.5
	skuTotalMin       = 100
	skuTotalRange     = 9900
)

// generateRules synthesizes a rule document: a universal baseline over the
// attribute pool plus an Alcohol override that relaxes Brand and adds an
// age-restriction attribute.
func generateRules(cfg *Config, rng *rand.Rand) map[string][]ruleset.Rule {
	count := cfg.Attributes
	if count <= 0 {
		count = DefaultAttributes
	}

	baseline := make([]ruleset.Rule, 0, count)
	for i := 0; i < count; i++ {
		rule := ruleset.Rule{
			Attribute:        attributeName(i),
			Required:         rng.Intn(4) != 0, // roughly a quarter advisory
			UnusableTriggers: measure.NewFlagSet("missing_or_unusable"),
		}
		if rng.Intn(3) != 0 {
			rule.CoverageThreshold = randomThreshold(rng)
		}
		if rule.Attribute == "Brand" {
			rule.Conditions = []ruleset.Condition{
				{Predicate: predicate.FlagAny("generic-brand", "generic_brand"), Reason: "brand looks generic"},
				{Predicate: predicate.FlagAny("brand-in-item-name", "brand_in_item_name"), Reason: "brand embedded in item name"},
			}
		}
		if rng.Intn(3) == 0 {
			rule.Conditions = append(rule.Conditions, ruleset.Condition{
				Predicate: predicate.FlagAny("placeholder-value", "placeholder_value", "generic_value"),
				Reason:    "placeholder or generic values detected",
			})
		}
		baseline = append(baseline, rule)
	}

	verticals := map[string][]ruleset.Rule{
		ruleset.VerticalAll: baseline,
	}
	if len(baseline) > 2 {
		verticals["Alcohol"] = []ruleset.Rule{
			{Attribute: baseline[2].Attribute, Required: true, CoverageThreshold: fixedThreshold(0.6)},
			{Attribute: "Age-Restricted Item Identification", Required: true, CoverageThreshold: fixedThreshold(1.0)},
		}
	}
	return verticals
}

// generateFeed synthesizes one measurement per attribute, spread across
// coverage bands so every verdict shape shows up. Generation is serial:
// a given seed must always produce the same feed.
func generateFeed(rng *rand.Rand, rules []ruleset.Rule) []measure.Measurement {
	measurements := make([]measure.Measurement, 0, len(rules))
	for _, rule := range rules {
		band := rng.Intn(bandCount)
		if band == caseUnmeasured {
			continue
		}

		m := measure.Measurement{Attribute: rule.Attribute}
		switch band {
		case caseFullCoverage:
			m.Coverage = 1.0
		case caseHighCoverage:
			m.Coverage = measure.Coverage(highCoverageMin + rng.Float64()*highCoverageRange)
		case caseBoundaryCoverage:
			// Exactly at the gate, which must pass.
			m.Coverage = 1.0
			if rule.CoverageThreshold != nil {
				m.Coverage = measure.Coverage(*rule.CoverageThreshold)
			}
		case caseLowCoverage:
			m.Coverage = measure.Coverage(lowCoverageMin + rng.Float64()*lowCoverageRange)
		case caseZeroCoverage:
			m.Coverage = 0
		case caseAIUnusable:
			m.Coverage = measure.Coverage(highCoverageMin + rng.Float64()*highCoverageRange)
			m.AIFlags = measure.NewFlagSet("missing_or_unusable")
		case caseIssueFlagged:
			m.Coverage = 1.0
			m.IssueFlags = measure.NewFlagSet(issueFlagPool[rng.Intn(len(issueFlagPool))])
		}

		m.SKUsTotal = skuTotalMin + rng.Intn(skuTotalRange)
		m.SKUsCovered = int(float64(m.Coverage) * float64(m.SKUsTotal))
		measurements = append(measurements, m)
	}
	return measurements
}

func attributeName(i int) string {
	if i < len(attributePool) {
		return attributePool[i]
	}
	return fmt.Sprintf("Custom Attribute %02d", i+1)
}

func randomThreshold(rng *rand.Rand) *float64 {
	v := math.Round((thresholdMin+rng.Float64()*thresholdRange)*100) / 100
	return &v
}

func fixedThreshold(v float64) *float64 {
	return &v
}
