package measure_test

import (
	"encoding/json"
	"testing"

	measure "github.com/NoliDD/assessment-tool/measure"
	. "github.com/smartystreets/goconvey/convey"
)

func TestCoverageForms(t *testing.T) {
	Convey("Given coverage values in the wire forms feeds use", t, func() {
		Convey("When decoding numeric fractions", func() {
			var m measure.Measurement
			err := json.Unmarshal([]byte(`{"attribute":"Brand","coverage":0.8}`), &m)

			So(err, ShouldBeNil)
			So(float64(m.Coverage), ShouldAlmostEqual, 0.8)
		})

		Convey("When decoding percentage numbers", func() {
			var m measure.Measurement
			err := json.Unmarshal([]byte(`{"attribute":"Brand","coverage":80}`), &m)

			So(err, ShouldBeNil)
			So(float64(m.Coverage), ShouldAlmostEqual, 0.8)
		})

		Convey("When decoding percentage strings", func() {
			var m measure.Measurement
			err := json.Unmarshal([]byte(`{"attribute":"Brand","coverage":" 80% "}`), &m)

			So(err, ShouldBeNil)
			So(float64(m.Coverage), ShouldAlmostEqual, 0.8)
		})

		Convey("When decoding fraction strings", func() {
			var m measure.Measurement
			err := json.Unmarshal([]byte(`{"attribute":"Brand","coverage":"0.35"}`), &m)

			So(err, ShouldBeNil)
			So(float64(m.Coverage), ShouldAlmostEqual, 0.35)
		})

		Convey("When the value sits exactly on a boundary", func() {
			for raw, want := range map[string]float64{
				`0`:   0.0,
				`1`:   1.0,
				`100`: 1.0,
			} {
				var m measure.Measurement
				err := json.Unmarshal([]byte(`{"attribute":"Brand","coverage":`+raw+`}`), &m)

				So(err, ShouldBeNil)
				So(float64(m.Coverage), ShouldAlmostEqual, want)
			}
		})

		Convey("When the value is outside any accepted range", func() {
			for _, raw := range []string{`150`, `-0.2`, `"1,000"`, `"n/a"`, `""`} {
				var m measure.Measurement
				err := json.Unmarshal([]byte(`{"attribute":"Brand","coverage":`+raw+`}`), &m)

				So(err, ShouldNotBeNil)
				So(err.Error(), ShouldContainSubstring, "invalid coverage")
			}
		})
	})
}

func TestParseCoverage(t *testing.T) {
	Convey("Given textual coverage cells", t, func() {
		Convey("Then recognized forms normalize to fractions", func() {
			c, err := measure.ParseCoverage("92.5%")
			So(err, ShouldBeNil)
			So(float64(c), ShouldAlmostEqual, 0.925)

			c, err = measure.ParseCoverage("0.5")
			So(err, ShouldBeNil)
			So(float64(c), ShouldAlmostEqual, 0.5)
		})

		Convey("Then junk is rejected", func() {
			_, err := measure.ParseCoverage("most of them")
			So(err, ShouldNotBeNil)
		})
	})
}

func TestNormalizeKey(t *testing.T) {
	Convey("Given attribute and vertical names as humans type them", t, func() {
		So(measure.NormalizeKey("  Item   Name "), ShouldEqual, "item name")
		So(measure.NormalizeKey("UPC"), ShouldEqual, "upc")
		So(measure.NormalizeKey(""), ShouldEqual, "")
	})
}
