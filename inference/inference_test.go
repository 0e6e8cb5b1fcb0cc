// Copyright 2025 StatLab Authors

// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at

//     http://www.apache.org/licenses/LICENSE-2.0

// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package inference

import (
	"math"
	"testing"

	"github.com/stockparfait/testutil"

	. "github.com/smartystreets/goconvey/convey"
	"gonum.org/v1/gonum/stat/distuv"
)

func TestStandardErrors(t *testing.T) {
	t.Parallel()

	Convey("StandardErrorMean works", t, func() {
		se, err := StandardErrorMean(10.0, 25)
		So(err, ShouldBeNil)
		So(se, ShouldEqual, 2.0)

		_, err = StandardErrorMean(10.0, 0)
		So(err, ShouldNotBeNil)
		_, err = StandardErrorMean(-1.0, 25)
		So(err, ShouldNotBeNil)
	})

	Convey("StandardErrorProportion works", t, func() {
		se, err := StandardErrorProportion(0.5, 100)
		So(err, ShouldBeNil)
		So(se, ShouldEqual, 0.05)

		_, err = StandardErrorProportion(1.5, 100)
		So(err, ShouldNotBeNil)
		_, err = StandardErrorProportion(0.5, -1)
		So(err, ShouldNotBeNil)
	})

	Convey("FinitePopulationCorrection works", t, func() {
		So(FinitePopulationCorrection(100, 100), ShouldEqual, 0.0)
		So(FinitePopulationCorrection(100, 150), ShouldEqual, 0.0)
		So(FinitePopulationCorrection(1, 0), ShouldEqual, 0.0)
		So(testutil.Round(FinitePopulationCorrection(10000, 100), 3),
			ShouldEqual, 0.995)
		So(FinitePopulationCorrection(100, 1), ShouldEqual, 1.0)
	})
}

func TestCriticalValues(t *testing.T) {
	t.Parallel()

	Convey("ZCritical works", t, func() {
		z, err := ZCritical(0.05)
		So(err, ShouldBeNil)
		So(math.Abs(z-1.96), ShouldBeLessThan, 0.01)

		z, err = ZCritical(0.01)
		So(err, ShouldBeNil)
		So(math.Abs(z-2.576), ShouldBeLessThan, 0.01)

		_, err = ZCritical(0.0)
		So(err, ShouldNotBeNil)
		_, err = ZCritical(1.0)
		So(err, ShouldNotBeNil)
	})

	Convey("TCritical works", t, func() {
		_, err := TCritical(0.05, 0)
		So(err, ShouldNotBeNil)

		Convey("approximates the Student-t table", func() {
			ref := func(df int) float64 {
				d := distuv.StudentsT{Mu: 0.0, Sigma: 1.0, Nu: float64(df)}
				return d.Quantile(0.975)
			}
			for _, tc := range []struct {
				df  int
				tol float64
			}{{5, 0.03}, {10, 0.02}, {30, 0.02}, {100, 0.02}} {
				tcrit, err := TCritical(0.05, tc.df)
				So(err, ShouldBeNil)
				So(math.Abs(tcrit-ref(tc.df)), ShouldBeLessThan, tc.tol)
			}
		})

		Convey("exceeds z for small df", func() {
			z, err := ZCritical(0.05)
			So(err, ShouldBeNil)
			tcrit, err := TCritical(0.05, 10)
			So(err, ShouldBeNil)
			So(tcrit, ShouldBeGreaterThan, z)
		})

		Convey("falls back to z for large df", func() {
			z, err := ZCritical(0.05)
			So(err, ShouldBeNil)
			tcrit, err := TCritical(0.05, 2000)
			So(err, ShouldBeNil)
			So(tcrit, ShouldEqual, z)
		})
	})
}

func TestConfidenceIntervals(t *testing.T) {
	t.Parallel()

	Convey("MeanInterval works", t, func() {
		sample := []float64{1, 2, 3, 4, 5}
		ci, err := MeanInterval(sample, 0.95)
		So(err, ShouldBeNil)
		So(ci.Estimate, ShouldEqual, 3.0)
		So(ci.Confidence, ShouldEqual, 0.95)
		So(ci.Lower, ShouldBeLessThan, ci.Estimate)
		So(ci.Upper, ShouldBeGreaterThan, ci.Estimate)

		Convey("margin is t*SE", func() {
			tcrit, err := TCritical(0.05, 4)
			So(err, ShouldBeNil)
			se := math.Sqrt(2.5) / math.Sqrt(5.0)
			So(testutil.Round(ci.MarginOfError, 8), ShouldEqual,
				testutil.Round(tcrit*se, 8))
			So(ci.Lower, ShouldEqual, ci.Estimate-ci.MarginOfError)
			So(ci.Upper, ShouldEqual, ci.Estimate+ci.MarginOfError)
		})

		Convey("widens as confidence grows", func() {
			wide, err := MeanInterval(sample, 0.99)
			So(err, ShouldBeNil)
			So(wide.MarginOfError, ShouldBeGreaterThan, ci.MarginOfError)
		})

		Convey("validation errors", func() {
			_, err := MeanInterval([]float64{1.0}, 0.95)
			So(err, ShouldNotBeNil)
			_, err = MeanInterval(sample, 0.0)
			So(err, ShouldNotBeNil)
			_, err = MeanInterval(sample, 1.0)
			So(err, ShouldNotBeNil)
		})
	})

	Convey("ProportionInterval works", t, func() {
		ci, err := ProportionInterval(0.5, 100, 0.95)
		So(err, ShouldBeNil)
		So(ci.Estimate, ShouldEqual, 0.5)
		So(math.Abs(ci.MarginOfError-0.098), ShouldBeLessThan, 0.001)
		So(testutil.Round(ci.Lower, 3), ShouldEqual,
			testutil.Round(0.5-ci.MarginOfError, 3))

		Convey("clamps to [0, 1]", func() {
			low, err := ProportionInterval(0.02, 50, 0.99)
			So(err, ShouldBeNil)
			So(low.Lower, ShouldEqual, 0.0)
			high, err := ProportionInterval(0.99, 50, 0.99)
			So(err, ShouldBeNil)
			So(high.Upper, ShouldEqual, 1.0)
		})

		Convey("validation errors", func() {
			_, err := ProportionInterval(1.5, 100, 0.95)
			So(err, ShouldNotBeNil)
			_, err = ProportionInterval(0.5, 100, 0.0)
			So(err, ShouldNotBeNil)
		})
	})
}

func TestSampleSizePlanning(t *testing.T) {
	t.Parallel()

	Convey("SampleSizeMean works", t, func() {
		n, err := SampleSizeMean(15.0, 5.0, 0.95)
		So(err, ShouldBeNil)
		So(n, ShouldEqual, 35)

		_, err = SampleSizeMean(0.0, 5.0, 0.95)
		So(err, ShouldNotBeNil)
		_, err = SampleSizeMean(15.0, 0.0, 0.95)
		So(err, ShouldNotBeNil)
	})

	Convey("SampleSizeProportion works", t, func() {
		n, err := SampleSizeProportion(0.5, 0.03, 0.95)
		So(err, ShouldBeNil)
		// The exact value is 1067.07; the quantile approximation may land on
		// either side of the next integer.
		So(n, ShouldBeBetweenOrEqual, 1067, 1069)

		Convey("worst case at p=0.5", func() {
			skewed, err := SampleSizeProportion(0.2, 0.03, 0.95)
			So(err, ShouldBeNil)
			So(skewed, ShouldBeLessThan, n)
		})

		_, err = SampleSizeProportion(-0.1, 0.03, 0.95)
		So(err, ShouldNotBeNil)
	})

	Convey("SampleSizeTwoSample works", t, func() {
		n, err := SampleSizeTwoSample(10.0, 5.0, 0.05, 0.8)
		So(err, ShouldBeNil)
		// The exact value is 62.79 per group.
		So(n, ShouldBeBetweenOrEqual, 62, 64)

		Convey("higher power needs more samples", func() {
			n2, err := SampleSizeTwoSample(10.0, 5.0, 0.05, 0.95)
			So(err, ShouldBeNil)
			So(n2, ShouldBeGreaterThan, n)
		})

		_, err = SampleSizeTwoSample(10.0, 0.0, 0.05, 0.8)
		So(err, ShouldNotBeNil)
		_, err = SampleSizeTwoSample(10.0, 5.0, 0.05, 1.0)
		So(err, ShouldNotBeNil)
	})
}
