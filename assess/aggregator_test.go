package assess_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/NoliDD/assessment-tool/assess"
	"github.com/NoliDD/assessment-tool/measure"
	"github.com/NoliDD/assessment-tool/predicate"
	"github.com/NoliDD/assessment-tool/ruleset"
	"github.com/NoliDD/assessment-tool/verdict"
)

var fixedTime = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func fixedAggregator(extra ...assess.Option) *assess.Aggregator {
	opts := []assess.Option{
		assess.WithClock(func() time.Time { return fixedTime }),
		assess.WithRunIDFunc(func() string { return "run-0001" }),
	}
	return assess.NewAggregator(append(opts, extra...)...)
}

func groceryRuleSet() *ruleset.ResolvedRuleSet {
	return &ruleset.ResolvedRuleSet{
		Vertical: "CnG",
		Rules: []ruleset.Rule{
			{Attribute: "MSID", Required: true, CoverageThreshold: threshold(1.0)},
			{
				Attribute:         "Brand",
				Required:          true,
				CoverageThreshold: threshold(0.8),
				Conditions: []ruleset.Condition{
					{Predicate: predicate.FlagAny("generic-brand", "generic_brand"), Reason: "brand looks generic"},
				},
			},
			{
				Attribute:        "UPC",
				Required:         true,
				UnusableTriggers: measure.NewFlagSet("missing_or_unusable"),
			},
			{Attribute: "Size", Required: false, CoverageThreshold: threshold(0.5)},
		},
	}
}

func groceryFeed() *measure.Feed {
	return measure.NewFeed(
		measure.Measurement{Attribute: "MSID", Coverage: 1.0},
		measure.Measurement{Attribute: "Brand", Coverage: 0.62},
		measure.Measurement{Attribute: "UPC", Coverage: 0.9, AIFlags: measure.NewFlagSet("missing_or_unusable")},
		measure.Measurement{Attribute: "Size", Coverage: 0.2},
	)
}

func TestAggregateMixedVerdicts(t *testing.T) {
	Convey("Given a vertical with passing, failing and unknown attributes", t, func() {
		agg := fixedAggregator(assess.WithParallelism(1))

		Convey("When the assessment runs", func() {
			got, err := agg.Aggregate(context.Background(), groceryRuleSet(), groceryFeed())
			So(err, ShouldBeNil)

			Convey("Then the merchant is not eligible", func() {
				So(got.Eligible, ShouldBeFalse)
				So(got.Label(), ShouldEqual, verdict.LabelNotEligible)
				So(got.RunID, ShouldEqual, "run-0001")
				So(got.Vertical, ShouldEqual, "CnG")
				So(got.GeneratedAt, ShouldEqual, fixedTime)
			})

			Convey("Then verdicts keep rule declaration order", func() {
				names := make([]string, 0, len(got.Attributes))
				for _, a := range got.Attributes {
					names = append(names, a.Name)
				}
				So(names, ShouldResemble, []string{"MSID", "Brand", "UPC", "Size"})
			})

			Convey("Then blocking lists only required non-passes, in order", func() {
				So(got.Blocking, ShouldHaveLength, 2)
				So(got.Blocking[0].Name, ShouldEqual, "Brand")
				So(got.Blocking[0].Status, ShouldEqual, verdict.StatusFail)
				So(got.Blocking[1].Name, ShouldEqual, "UPC")
				So(got.Blocking[1].Status, ShouldEqual, verdict.StatusUnknown)
			})

			Convey("Then the advisory failure is reported but does not block", func() {
				size := got.Attributes[3]
				So(size.Status, ShouldEqual, verdict.StatusFail)
				So(size.Required, ShouldBeFalse)
			})

			Convey("Then the counts add up", func() {
				c := got.Count()
				So(c.RequiredPass, ShouldEqual, 1)
				So(c.RequiredFail, ShouldEqual, 1)
				So(c.RequiredUnknown, ShouldEqual, 1)
				So(c.AdvisoryIssues, ShouldEqual, 1)
				So(c.Total, ShouldEqual, 4)
			})
		})
	})
}

func TestAggregateAdvisoryOnlyIssues(t *testing.T) {
	Convey("Given only advisory attributes fall short", t, func() {
		rs := &ruleset.ResolvedRuleSet{
			Vertical: "CnG",
			Rules: []ruleset.Rule{
				{Attribute: "Brand", Required: true, CoverageThreshold: threshold(0.8)},
				{Attribute: "Size", Required: false, CoverageThreshold: threshold(0.5)},
			},
		}
		feed := measure.NewFeed(
			measure.Measurement{Attribute: "Brand", Coverage: 0.95},
			measure.Measurement{Attribute: "Size", Coverage: 0.1},
		)

		Convey("When the assessment runs", func() {
			got, err := fixedAggregator().Aggregate(context.Background(), rs, feed)
			So(err, ShouldBeNil)

			Convey("Then the merchant stays eligible with an empty blocking list", func() {
				So(got.Eligible, ShouldBeTrue)
				So(got.Label(), ShouldEqual, verdict.LabelEligible)
				So(got.Blocking, ShouldBeEmpty)
			})
		})
	})
}

func TestAggregateEmptyRuleSet(t *testing.T) {
	Convey("Given a vertical with no rules", t, func() {
		rs := &ruleset.ResolvedRuleSet{Vertical: "Office"}

		Convey("When the assessment runs against an empty feed", func() {
			got, err := fixedAggregator().Aggregate(context.Background(), rs, measure.NewFeed())
			So(err, ShouldBeNil)

			Convey("Then the merchant is vacuously eligible", func() {
				So(got.Eligible, ShouldBeTrue)
				So(got.Attributes, ShouldBeEmpty)
				So(got.Blocking, ShouldBeEmpty)
			})
		})
	})
}

func TestAggregateParallelMatchesSerial(t *testing.T) {
	Convey("Given a wide rule set and a sparse feed", t, func() {
		var rules []ruleset.Rule
		var ms []measure.Measurement
		for i := 0; i < 40; i++ {
			name := fmt.Sprintf("Attr %02d", i)
			rules = append(rules, ruleset.Rule{
				Attribute:         name,
				Required:          i%3 != 0,
				CoverageThreshold: threshold(0.5),
			})
			if i%4 != 0 { // every fourth attribute goes unmeasured
				ms = append(ms, measure.Measurement{
					Attribute: name,
					Coverage:  measure.Coverage(float64(i) / 40),
				})
			}
		}
		rs := &ruleset.ResolvedRuleSet{Vertical: "CnG", Rules: rules}
		feed := measure.NewFeed(ms...)

		Convey("When assessed serially and with eight workers", func() {
			serial, err := fixedAggregator(assess.WithParallelism(1)).Aggregate(context.Background(), rs, feed)
			So(err, ShouldBeNil)
			parallel, err := fixedAggregator(assess.WithParallelism(8)).Aggregate(context.Background(), rs, feed)
			So(err, ShouldBeNil)

			Convey("Then both assessments are identical", func() {
				So(parallel, ShouldResemble, serial)
			})
		})
	})
}

func TestAggregateCancelledContext(t *testing.T) {
	Convey("Given a cancelled context", t, func() {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		Convey("When the assessment runs", func() {
			serial, err := fixedAggregator(assess.WithParallelism(1)).Aggregate(ctx, groceryRuleSet(), groceryFeed())
			So(serial, ShouldBeNil)
			So(errors.Is(err, context.Canceled), ShouldBeTrue)

			parallel, perr := fixedAggregator(assess.WithParallelism(4)).Aggregate(ctx, groceryRuleSet(), groceryFeed())
			So(parallel, ShouldBeNil)
			So(errors.Is(perr, context.Canceled), ShouldBeTrue)
		})
	})
}

func TestAggregateDeterministicReruns(t *testing.T) {
	Convey("Given a fixed clock and run-ID source", t, func() {
		agg := fixedAggregator(assess.WithParallelism(4))

		Convey("When the same inputs are assessed twice", func() {
			first, err := agg.Aggregate(context.Background(), groceryRuleSet(), groceryFeed())
			So(err, ShouldBeNil)
			second, err := agg.Aggregate(context.Background(), groceryRuleSet(), groceryFeed())
			So(err, ShouldBeNil)

			Convey("Then the assessments match exactly", func() {
				So(second, ShouldResemble, first)
			})
		})
	})
}
