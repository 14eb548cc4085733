package ruleset_test

import (
	"errors"
	"testing"

	predicate "github.com/NoliDD/assessment-tool/predicate"
	ruleset "github.com/NoliDD/assessment-tool/ruleset"
	. "github.com/smartystreets/goconvey/convey"
)

func threshold(v float64) *float64 { return &v }

func TestNewDocument(t *testing.T) {
	Convey("Given rules built in code", t, func() {
		Convey("When the document is well-formed", func() {
			doc, err := ruleset.NewDocument(map[string][]ruleset.Rule{
				"all": {
					{Attribute: "Brand", Required: true, CoverageThreshold: threshold(0.8)},
					{Attribute: "Item Name", Required: true},
				},
				"Beauty": {
					{Attribute: "UPC", Required: true, CoverageThreshold: threshold(0.7)},
				},
			})

			Convey("Then it validates and canonicalizes", func() {
				So(err, ShouldBeNil)
				So(doc.RuleCount(), ShouldEqual, 3)
				So(doc.Verticals(), ShouldResemble, []string{"All Verticals", "Beauty"})
			})
		})

		Convey("When a vertical is declared under two spellings", func() {
			_, err := ruleset.NewDocument(map[string][]ruleset.Rule{
				"Beauty":  {{Attribute: "UPC"}},
				"beauty ": {{Attribute: "Brand"}},
			})

			Convey("Then the document is rejected", func() {
				So(err, ShouldNotBeNil)
				So(errors.Is(err, ruleset.ErrRuleLoad), ShouldBeTrue)
				So(err.Error(), ShouldContainSubstring, "declared more than once")
			})
		})

		Convey("When rules carry structural problems", func() {
			_, err := ruleset.NewDocument(map[string][]ruleset.Rule{
				"All Verticals": {
					{Attribute: ""},
					{Attribute: "Brand", CoverageThreshold: threshold(1.5)},
					{Attribute: "brand"},
					{Attribute: "Size", Conditions: []ruleset.Condition{{Predicate: nil, Reason: ""}}},
				},
			})

			Convey("Then every issue is reported, not just the first", func() {
				So(err, ShouldNotBeNil)
				So(errors.Is(err, ruleset.ErrRuleLoad), ShouldBeTrue)
				So(err.Error(), ShouldContainSubstring, "no attribute name")
				So(err.Error(), ShouldContainSubstring, "outside [0,1]")
				So(err.Error(), ShouldContainSubstring, "duplicate rule")
				So(err.Error(), ShouldContainSubstring, "no predicate")
				So(err.Error(), ShouldContainSubstring, "no reason")
			})
		})

		Convey("When conditions are bound", func() {
			doc, err := ruleset.NewDocument(map[string][]ruleset.Rule{
				"All Verticals": {
					{
						Attribute: "Brand",
						Required:  true,
						Conditions: []ruleset.Condition{
							{Predicate: predicate.FlagAny("generic-brand", "generic_value"), Reason: "brand values are placeholders"},
						},
					},
				},
			})

			Convey("Then the document accepts them", func() {
				So(err, ShouldBeNil)
				So(doc.RuleCount(), ShouldEqual, 1)
			})
		})

		Convey("When the document is empty", func() {
			doc, err := ruleset.NewDocument(nil)

			So(err, ShouldBeNil)
			So(doc.RuleCount(), ShouldEqual, 0)
			So(doc.Verticals(), ShouldBeEmpty)
		})
	})
}
