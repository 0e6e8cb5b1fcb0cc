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

package stats

import (
	"math"
	"testing"

	"github.com/stockparfait/testutil"

	. "github.com/smartystreets/goconvey/convey"
	"gonum.org/v1/gonum/stat/distuv"
)

// checkMonotoneCDF verifies that d.CDF is non-decreasing over [lo, hi].
func checkMonotoneCDF(d Distribution, lo, hi, step float64) bool {
	prev := d.CDF(lo)
	for x := lo + step; x <= hi; x += step {
		c := d.CDF(x)
		if c < prev {
			return false
		}
		prev = c
	}
	return true
}

// sampleMean averages n draws from d.
func sampleMean(d Distribution, n int) float64 {
	sum := 0.0
	for i := 0; i < n; i++ {
		sum += d.Rand()
	}
	return sum / float64(n)
}

func TestSafeLog(t *testing.T) {
	t.Parallel()

	Convey("SafeLog works", t, func() {
		So(SafeLog(math.E), ShouldAlmostEqual, 1.0, 1e-12)
		So(SafeLog(1.0), ShouldEqual, 0.0)
		So(math.IsInf(SafeLog(0.0), -1), ShouldBeTrue)
		So(math.IsInf(SafeLog(-1.0), -1), ShouldBeTrue)
	})
}

func TestNormal(t *testing.T) {
	t.Parallel()
	seed := uint64(42)

	Convey("Standard normal helpers", t, func() {
		So(math.Abs(StdNormalCDF(1.96)-0.975), ShouldBeLessThan, 0.001)
		So(math.Abs(StdNormalQuantile(0.975)-1.96), ShouldBeLessThan, 0.01)
		So(StdNormalCDF(0.0), ShouldAlmostEqual, 0.5, 1e-7)
		So(math.IsInf(StdNormalQuantile(0.0), -1), ShouldBeTrue)
		So(math.IsInf(StdNormalQuantile(1.0), 1), ShouldBeTrue)

		Convey("quantile matches the reference within 5e-4", func() {
			ref := distuv.Normal{Mu: 0.0, Sigma: 1.0}
			for _, p := range []float64{0.001, 0.01, 0.1, 0.25, 0.5, 0.75,
				0.9, 0.99, 0.999} {
				So(math.Abs(StdNormalQuantile(p)-ref.Quantile(p)),
					ShouldBeLessThan, 5e-4)
			}
		})
	})

	Convey("Normal distribution works", t, func() {
		_, err := NewNormal(0.0, 0.0)
		So(err, ShouldNotBeNil)

		d, err := NewNormal(2.0, 3.0)
		So(err, ShouldBeNil)
		d.Seed(seed)

		Convey("Prob matches the reference", func() {
			ref := distuv.Normal{Mu: 2.0, Sigma: 3.0}
			for _, x := range []float64{-4.0, 0.0, 2.0, 5.0} {
				So(d.Prob(x), ShouldAlmostEqual, ref.Prob(x), 1e-10)
			}
		})

		Convey("CDF is monotone", func() {
			So(checkMonotoneCDF(d, -10.0, 14.0, 0.25), ShouldBeTrue)
		})

		Convey("Quantile inverts CDF", func() {
			for _, x := range []float64{-1.0, 1.5, 2.0, 4.0, 7.0} {
				So(math.Abs(d.Quantile(d.CDF(x))-x), ShouldBeLessThan, 0.01)
			}
		})

		Convey("Rand converges to the mean", func() {
			So(math.Abs(sampleMean(d, 10000)-2.0), ShouldBeLessThan, 0.15)
		})

		Convey("Seed resets the Box-Muller spare", func() {
			d.Seed(seed)
			first := d.Rand()
			d.Seed(seed)
			So(d.Rand(), ShouldEqual, first)
		})

		Convey("Moments", func() {
			m := d.Moments()
			So(m.Mean, ShouldEqual, 2.0)
			So(m.Variance, ShouldEqual, 9.0)
			So(m.StdDev, ShouldEqual, 3.0)
			So(m.Modes, ShouldResemble, []float64{2.0})
			So(m.Skewness, ShouldEqual, 0.0)
		})

		Convey("Copy samples independently", func() {
			d2 := d.Copy()
			So(math.Abs(sampleMean(d2, 5000)-2.0), ShouldBeLessThan, 0.2)
		})
	})
}

func TestBinomial(t *testing.T) {
	t.Parallel()
	seed := uint64(42)

	Convey("Binomial distribution works", t, func() {
		_, err := NewBinomial(-1, 0.5)
		So(err, ShouldNotBeNil)
		_, err = NewBinomial(10, 1.5)
		So(err, ShouldNotBeNil)

		d, err := NewBinomial(10, 0.5)
		So(err, ShouldBeNil)
		d.Seed(seed)

		Convey("Prob known value", func() {
			// C(10,5) * 0.5^10 = 252/1024.
			So(d.Prob(5.0), ShouldAlmostEqual, 0.24609375, 1e-9)
			So(d.Prob(-1.0), ShouldEqual, 0.0)
			So(d.Prob(11.0), ShouldEqual, 0.0)
		})

		Convey("PMF sums to 1", func() {
			for _, tc := range []struct {
				n int
				p float64
			}{{10, 0.5}, {25, 0.1}, {100, 0.9}, {500, 0.37}} {
				b, err := NewBinomial(tc.n, tc.p)
				So(err, ShouldBeNil)
				sum := 0.0
				for k := 0; k <= tc.n; k++ {
					sum += b.Prob(float64(k))
				}
				So(math.Abs(sum-1.0), ShouldBeLessThan, 1e-6)
			}
		})

		Convey("degenerate p", func() {
			b, err := NewBinomial(5, 0.0)
			So(err, ShouldBeNil)
			So(b.Prob(0.0), ShouldEqual, 1.0)
			So(b.Prob(1.0), ShouldEqual, 0.0)
			b, err = NewBinomial(5, 1.0)
			So(err, ShouldBeNil)
			So(b.Prob(5.0), ShouldEqual, 1.0)
			So(b.Prob(4.0), ShouldEqual, 0.0)
		})

		Convey("CDF is monotone and clamped", func() {
			So(checkMonotoneCDF(d, -1.0, 11.0, 0.5), ShouldBeTrue)
			So(d.CDF(-0.5), ShouldEqual, 0.0)
			So(d.CDF(10.0), ShouldEqual, 1.0)
		})

		Convey("Quantile by binary search", func() {
			So(d.Quantile(0.5), ShouldEqual, 5.0)
			So(d.Quantile(0.0), ShouldEqual, 0.0)
			So(d.Quantile(1.0), ShouldEqual, 10.0)
			// CDF(7) ~ 0.945, CDF(8) ~ 0.989.
			So(d.Quantile(0.975), ShouldEqual, 8.0)
		})

		Convey("Rand: Bernoulli trials for small n", func() {
			So(math.Abs(sampleMean(d, 10000)-5.0), ShouldBeLessThan, 0.1)
		})

		Convey("Rand: normal approximation for large n", func() {
			b, err := NewBinomial(1000, 0.3)
			So(err, ShouldBeNil)
			b.Seed(seed)
			m := sampleMean(b, 5000)
			So(math.Abs(m-300.0), ShouldBeLessThan, 2.0)
			x := b.Rand()
			So(x, ShouldBeGreaterThanOrEqualTo, 0.0)
			So(x, ShouldBeLessThanOrEqualTo, 1000.0)
			So(x, ShouldEqual, math.Floor(x)) // integer valued
		})

		Convey("Moments", func() {
			m := d.Moments()
			So(m.Mean, ShouldEqual, 5.0)
			So(m.Variance, ShouldEqual, 2.5)
			So(testutil.Round(m.StdDev, 5), ShouldEqual, 1.5811)
			So(m.Modes, ShouldResemble, []float64{5.0})
			So(m.Skewness, ShouldEqual, 0.0)
		})
	})
}

func TestPoisson(t *testing.T) {
	t.Parallel()
	seed := uint64(42)

	Convey("Poisson distribution works", t, func() {
		_, err := NewPoisson(-0.1)
		So(err, ShouldNotBeNil)

		d, err := NewPoisson(5.0)
		So(err, ShouldBeNil)
		d.Seed(seed)

		Convey("Prob known value", func() {
			So(d.Prob(0.0), ShouldAlmostEqual, math.Exp(-5.0), 1e-9)
			So(d.Prob(-1.0), ShouldEqual, 0.0)
		})

		Convey("PMF sums to 1", func() {
			sum := 0.0
			for k := 0; k < 100; k++ {
				sum += d.Prob(float64(k))
			}
			So(math.Abs(sum-1.0), ShouldBeLessThan, 1e-6)
		})

		Convey("lambda=0 is a point mass at 0", func() {
			p0, err := NewPoisson(0.0)
			So(err, ShouldBeNil)
			So(p0.Prob(0.0), ShouldEqual, 1.0)
			So(p0.Prob(1.0), ShouldEqual, 0.0)
			So(p0.Rand(), ShouldEqual, 0.0)
		})

		Convey("CDF is monotone and cheap for huge x", func() {
			So(checkMonotoneCDF(d, -1.0, 20.0, 0.5), ShouldBeTrue)
			So(d.CDF(1e12), ShouldEqual, 1.0)
		})

		Convey("Quantile forward scan", func() {
			So(d.Quantile(0.0), ShouldEqual, 0.0)
			So(math.IsInf(d.Quantile(1.0), 1), ShouldBeTrue)
			So(d.Quantile(0.5), ShouldEqual, 5.0)
		})

		Convey("Quantile iteration cap surfaces as +Inf", func() {
			big, err := NewPoisson(2000.0)
			So(err, ShouldBeNil)
			So(math.IsInf(big.Quantile(0.5), 1), ShouldBeTrue)
		})

		Convey("Rand: Knuth for small lambda", func() {
			So(math.Abs(sampleMean(d, 10000)-5.0), ShouldBeLessThan, 0.1)
		})

		Convey("Rand: normal approximation for large lambda", func() {
			big, err := NewPoisson(100.0)
			So(err, ShouldBeNil)
			big.Seed(seed)
			m := sampleMean(big, 5000)
			So(math.Abs(m-100.0), ShouldBeLessThan, 1.0)
			x := big.Rand()
			So(x, ShouldBeGreaterThanOrEqualTo, 0.0)
			So(x, ShouldEqual, math.Floor(x))
		})

		Convey("Moments", func() {
			m := d.Moments()
			So(m.Mean, ShouldEqual, 5.0)
			So(m.Variance, ShouldEqual, 5.0)
			So(m.Modes, ShouldResemble, []float64{5.0})
			So(testutil.Round(m.Skewness, 5), ShouldEqual,
				testutil.Round(1.0/math.Sqrt(5.0), 5))
		})
	})
}

func TestExponential(t *testing.T) {
	t.Parallel()
	seed := uint64(42)

	Convey("Exponential distribution works", t, func() {
		_, err := NewExponential(0.0)
		So(err, ShouldNotBeNil)

		d, err := NewExponential(2.0)
		So(err, ShouldBeNil)
		d.Seed(seed)

		Convey("Prob and CDF", func() {
			So(d.Prob(-1.0), ShouldEqual, 0.0)
			So(d.Prob(0.0), ShouldEqual, 2.0)
			So(d.CDF(-1.0), ShouldEqual, 0.0)
			So(d.CDF(0.0), ShouldEqual, 0.0)
			So(checkMonotoneCDF(d, -1.0, 10.0, 0.1), ShouldBeTrue)
		})

		Convey("Quantile inverts CDF analytically", func() {
			for _, x := range []float64{0.1, 0.5, 1.0, 3.0} {
				So(d.Quantile(d.CDF(x)), ShouldAlmostEqual, x, 1e-9)
			}
			So(d.Quantile(0.0), ShouldEqual, 0.0)
			So(math.IsInf(d.Quantile(1.0), 1), ShouldBeTrue)
		})

		Convey("Rand converges to 1/lambda", func() {
			So(math.Abs(sampleMean(d, 20000)-0.5), ShouldBeLessThan, 0.02)
		})

		Convey("Moments", func() {
			m := d.Moments()
			So(m.Mean, ShouldEqual, 0.5)
			So(m.Variance, ShouldEqual, 0.25)
			So(m.StdDev, ShouldEqual, 0.5)
			So(m.Modes, ShouldResemble, []float64{0.0})
			So(m.Skewness, ShouldEqual, 2.0)
		})
	})
}

func TestUniform(t *testing.T) {
	t.Parallel()
	seed := uint64(42)

	Convey("Uniform distribution works", t, func() {
		_, err := NewUniform(1.0, 1.0)
		So(err, ShouldNotBeNil)

		d, err := NewUniform(-1.0, 3.0)
		So(err, ShouldBeNil)
		d.Seed(seed)

		Convey("Prob and CDF", func() {
			So(d.Prob(-2.0), ShouldEqual, 0.0)
			So(d.Prob(0.0), ShouldEqual, 0.25)
			So(d.Prob(4.0), ShouldEqual, 0.0)
			So(d.CDF(-1.0), ShouldEqual, 0.0)
			So(d.CDF(1.0), ShouldEqual, 0.5)
			So(d.CDF(3.0), ShouldEqual, 1.0)
			So(checkMonotoneCDF(d, -2.0, 4.0, 0.1), ShouldBeTrue)
		})

		Convey("Quantile inverts CDF analytically", func() {
			for _, x := range []float64{-0.5, 0.0, 1.0, 2.5} {
				So(d.Quantile(d.CDF(x)), ShouldAlmostEqual, x, 1e-9)
			}
			So(d.Quantile(0.0), ShouldEqual, -1.0)
			So(d.Quantile(1.0), ShouldEqual, 3.0)
		})

		Convey("Rand stays in range and converges to the midpoint", func() {
			for i := 0; i < 100; i++ {
				x := d.Rand()
				So(x, ShouldBeGreaterThanOrEqualTo, -1.0)
				So(x, ShouldBeLessThan, 3.0)
			}
			So(math.Abs(sampleMean(d, 20000)-1.0), ShouldBeLessThan, 0.05)
		})

		Convey("Moments", func() {
			m := d.Moments()
			So(m.Mean, ShouldEqual, 1.0)
			So(testutil.Round(m.Variance, 5), ShouldEqual,
				testutil.Round(16.0/12.0, 5))
			So(len(m.Modes), ShouldEqual, 0)
			So(m.Skewness, ShouldEqual, 0.0)
		})
	})
}
