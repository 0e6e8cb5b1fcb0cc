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

// Package inference implements the inferential layer over the distribution
// engine: standard errors, critical values, confidence intervals, bootstrap
// resampling and sample-size planning.
package inference

import (
	"math"

	"github.com/statlab/statlab/stats"
	"github.com/stockparfait/errors"
)

// largeSampleDF is the degrees-of-freedom threshold past which the Student-t
// critical value is taken directly as the normal one.
const largeSampleDF = 1000

// StandardErrorMean computes the standard error of a sample mean, s/sqrt(n).
func StandardErrorMean(stdDev float64, n int) (float64, error) {
	if n <= 0 {
		return 0, errors.Reason("sample size=%d must be positive", n)
	}
	if stdDev < 0 {
		return 0, errors.Reason("standard deviation=%f must be non-negative", stdDev)
	}
	return stdDev / math.Sqrt(float64(n)), nil
}

// StandardErrorProportion computes the standard error of a sample
// proportion, sqrt(p*(1-p)/n).
func StandardErrorProportion(p float64, n int) (float64, error) {
	if n <= 0 {
		return 0, errors.Reason("sample size=%d must be positive", n)
	}
	if p < 0 || p > 1 {
		return 0, errors.Reason("proportion=%f must be within [0, 1]", p)
	}
	return math.Sqrt(p * (1.0 - p) / float64(n)), nil
}

// FinitePopulationCorrection computes sqrt((N-n)/(N-1)), the factor reducing
// the standard error when sampling without replacement from a bounded
// population. It returns 0 when n >= N or N <= 1.
func FinitePopulationCorrection(populationSize, sampleSize int) float64 {
	if sampleSize >= populationSize || populationSize <= 1 {
		return 0.0
	}
	return math.Sqrt(float64(populationSize-sampleSize) /
		float64(populationSize-1))
}

// ZCritical computes the two-sided normal critical value for significance
// alpha: -Phi^-1(alpha/2).
func ZCritical(alpha float64) (float64, error) {
	if alpha <= 0 || alpha >= 1 {
		return 0, errors.Reason("alpha=%f must be within (0, 1)", alpha)
	}
	return -stats.StdNormalQuantile(alpha / 2.0), nil
}

// TCritical computes the two-sided Student-t critical value for significance
// alpha at df degrees of freedom, using a Cornish-Fisher expansion around the
// normal critical value. For df > 1000 the normal value is returned directly
// (large-sample equivalence).
func TCritical(alpha float64, df int) (float64, error) {
	if df < 1 {
		return 0, errors.Reason("degrees of freedom=%d must be >= 1", df)
	}
	z, err := ZCritical(alpha)
	if err != nil {
		return 0, errors.Annotate(err, "invalid significance")
	}
	if df > largeSampleDF {
		return z, nil
	}
	v := float64(df)
	g1 := (z*z*z + z) / 4.0
	g2 := (5.0*z*z*z*z*z + 16.0*z*z*z + 3.0*z) / 96.0
	return z + g1/v + g2/(v*v), nil
}

// Interval is a confidence interval around a point estimate.
type Interval struct {
	Lower         float64
	Upper         float64
	Estimate      float64
	MarginOfError float64
	Confidence    float64 // within (0, 1)
}

// MeanIntervalFromStats builds the t-based confidence interval for a mean
// from its summary statistics, with df = n-1.
func MeanIntervalFromStats(mean, stdDev float64, n int, confidence float64) (*Interval, error) {
	if n < 2 {
		return nil, errors.Reason("sample size=%d must be >= 2", n)
	}
	if confidence <= 0 || confidence >= 1 {
		return nil, errors.Reason("confidence=%f must be within (0, 1)", confidence)
	}
	se, err := StandardErrorMean(stdDev, n)
	if err != nil {
		return nil, errors.Annotate(err, "invalid standard error inputs")
	}
	t, err := TCritical(1.0-confidence, n-1)
	if err != nil {
		return nil, errors.Annotate(err, "invalid critical value inputs")
	}
	moe := t * se
	return &Interval{
		Lower:         mean - moe,
		Upper:         mean + moe,
		Estimate:      mean,
		MarginOfError: moe,
		Confidence:    confidence,
	}, nil
}

// MeanInterval builds the t-based confidence interval for the mean of a raw
// sample.
func MeanInterval(sample []float64, confidence float64) (*Interval, error) {
	s := stats.NewSample().Init(sample)
	ci, err := MeanIntervalFromStats(s.Mean(), s.SampleSigma(), len(sample), confidence)
	if err != nil {
		return nil, errors.Annotate(err, "failed to build mean interval")
	}
	return ci, nil
}

// ProportionInterval builds the z-based confidence interval for a
// proportion, clamped to [0, 1].
func ProportionInterval(p float64, n int, confidence float64) (*Interval, error) {
	if confidence <= 0 || confidence >= 1 {
		return nil, errors.Reason("confidence=%f must be within (0, 1)", confidence)
	}
	se, err := StandardErrorProportion(p, n)
	if err != nil {
		return nil, errors.Annotate(err, "invalid standard error inputs")
	}
	z, err := ZCritical(1.0 - confidence)
	if err != nil {
		return nil, errors.Annotate(err, "invalid critical value inputs")
	}
	moe := z * se
	lower := p - moe
	if lower < 0 {
		lower = 0
	}
	upper := p + moe
	if upper > 1 {
		upper = 1
	}
	return &Interval{
		Lower:         lower,
		Upper:         upper,
		Estimate:      p,
		MarginOfError: moe,
		Confidence:    confidence,
	}, nil
}

// SampleSizeMean plans the sample size needed to estimate a mean within the
// given margin of error: ceil((z*sigma/E)^2).
func SampleSizeMean(stdDev, margin, confidence float64) (int, error) {
	if stdDev <= 0 {
		return 0, errors.Reason("standard deviation=%f must be positive", stdDev)
	}
	if margin <= 0 {
		return 0, errors.Reason("margin of error=%f must be positive", margin)
	}
	z, err := ZCritical(1.0 - confidence)
	if err != nil {
		return 0, errors.Annotate(err, "invalid confidence")
	}
	return int(math.Ceil(math.Pow(z*stdDev/margin, 2.0))), nil
}

// SampleSizeProportion plans the sample size needed to estimate a proportion
// within the given margin of error: ceil(z^2*p*(1-p)/E^2). Use p=0.5 for the
// conservative worst case.
func SampleSizeProportion(p, margin, confidence float64) (int, error) {
	if p < 0 || p > 1 {
		return 0, errors.Reason("proportion=%f must be within [0, 1]", p)
	}
	if margin <= 0 {
		return 0, errors.Reason("margin of error=%f must be positive", margin)
	}
	z, err := ZCritical(1.0 - confidence)
	if err != nil {
		return 0, errors.Annotate(err, "invalid confidence")
	}
	return int(math.Ceil(z * z * p * (1.0 - p) / (margin * margin))), nil
}

// SampleSizeTwoSample plans the per-group size for detecting a mean
// difference delta between two groups with the given significance and power:
// ceil(2*((z_alpha+z_beta)*sigma/delta)^2).
func SampleSizeTwoSample(stdDev, delta, alpha, power float64) (int, error) {
	if stdDev <= 0 {
		return 0, errors.Reason("standard deviation=%f must be positive", stdDev)
	}
	if delta <= 0 {
		return 0, errors.Reason("detectable difference=%f must be positive", delta)
	}
	if power <= 0 || power >= 1 {
		return 0, errors.Reason("power=%f must be within (0, 1)", power)
	}
	zAlpha, err := ZCritical(alpha)
	if err != nil {
		return 0, errors.Annotate(err, "invalid significance")
	}
	zBeta := stats.StdNormalQuantile(power)
	return int(math.Ceil(2.0 * math.Pow((zAlpha+zBeta)*stdDev/delta, 2.0))), nil
}
