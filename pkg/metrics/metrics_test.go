package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	. "github.com/smartystreets/goconvey/convey"
)

func TestManagerCreation(t *testing.T) {
	Convey("Given a metrics manager", t, func() {
		Convey("When creating with a custom registry", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(WithPrometheusRegistry(registry))

			Convey("Then it should register its collectors there", func() {
				So(manager, ShouldNotBeNil)

				families, err := registry.Gather()
				So(err, ShouldBeNil)

				names := make(map[string]bool, len(families))
				for _, f := range families {
					names[f.GetName()] = true
				}
				So(names["assessment_eligibility_rule_loads_total"], ShouldBeTrue)
				So(names["assessment_eligibility_assessments_total"], ShouldBeFalse) // vec with no samples yet
			})
		})

		Convey("When creating with custom namespace and subsystem", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(
				WithNamespace("catalog"),
				WithSubsystem("checks"),
				WithHistogramBuckets([]float64{1, 10, 100}),
				WithPrometheusRegistry(registry),
			)

			Convey("Then metric names should carry them", func() {
				So(manager, ShouldNotBeNil)

				families, err := registry.Gather()
				So(err, ShouldBeNil)

				found := false
				for _, f := range families {
					if f.GetName() == "catalog_checks_rule_loads_total" {
						found = true
					}
				}
				So(found, ShouldBeTrue)
			})
		})

		Convey("When options receive zero values", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(
				WithNamespace(""),
				WithSubsystem(""),
				WithHistogramBuckets(nil),
				WithPrometheusRegistry(registry),
			)

			Convey("Then defaults should hold", func() {
				So(manager, ShouldNotBeNil)
				So(manager.namespace, ShouldEqual, "assessment")
				So(manager.subsystem, ShouldEqual, "eligibility")
			})
		})
	})
}

func TestPackageHelpers(t *testing.T) {
	Convey("Given the package-level recording helpers", t, func() {
		Convey("When recording rule store activity", func() {
			So(func() {
				RecordRuleLoad()
				RecordRuleLoadError()
				RecordRuleReload()
				RecordResolution(ResolveComputed)
				RecordResolution(ResolveCacheHit)
				RecordResolution(ResolveUnknownVertical)
				UpdateRuleCount(12)
			}, ShouldNotPanic)
		})

		Convey("When recording evaluation activity", func() {
			So(func() {
				RecordEvaluation("pass")
				RecordEvaluation("fail")
				RecordEvaluation("unknown")
				RecordAssessment(OutcomeEligible)
				RecordAssessment(OutcomeNotEligible)
				RecordBlockingAttributes(2)
				RecordAssessmentDuration(3.5)
				UpdateEvaluationWorkers(8)
			}, ShouldNotPanic)
		})

		Convey("When recording feed and export activity", func() {
			So(func() {
				RecordDuplicateMeasurement()
				RecordEvidenceExport("json")
				RecordEvidenceExport("yaml")
			}, ShouldNotPanic)
		})

		Convey("When asking for the scrape surface", func() {
			So(GetRegistry(), ShouldNotBeNil)
			So(Handler(), ShouldNotBeNil)
		})
	})
}
