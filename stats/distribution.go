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

// Package stats implements the distribution engine: five parametric families
// (normal, binomial, Poisson, exponential, uniform) behind a common
// Distribution interface, a tagged Spec for dispatch and validation,
// histogram binning, and descriptive sample statistics.
package stats

import (
	"math"
	"time"

	"golang.org/x/exp/rand"
)

// SafeLog is a "safe" natural logarithm, which for x <= 0 returns -Inf.
func SafeLog(x float64) float64 {
	if x <= 0 {
		return math.Inf(-1)
	}
	return math.Log(x)
}

// Moments holds the closed-form moments of a distribution, derived purely
// from its parameters, never from samples.
type Moments struct {
	Mean     float64
	Variance float64
	StdDev   float64
	Modes    []float64 // empty when the distribution has no mode
	Skewness float64
}

// Distribution API for common operations. Parameter domains are validated
// once by the family constructors; the operations themselves never re-check
// them and only branch on numeric edge conditions of their arguments.
type Distribution interface {
	// Prob is the p.d.f. for continuous families and the p.m.f. for discrete
	// ones. It returns 0 outside the support.
	Prob(x float64) float64
	// CDF returns P(X <= x), non-decreasing in x.
	CDF(x float64) float64
	// Quantile is the inverse CDF: the smallest x with CDF(x) >= p.
	// Out-of-range p maps to the support boundary (possibly +-Inf).
	Quantile(p float64) float64
	// Rand draws a single pseudo-random value.
	Rand() float64
	// Moments returns the closed-form moments.
	Moments() Moments
	// Copy shallow-copies the distribution with a new rand.Source instance.
	Copy() Distribution
	// Seed sets the random seed. Mostly used in tests.
	Seed(uint64)
}

// newRand creates a time-seeded generator for a fresh distribution instance.
func newRand() *rand.Rand {
	return rand.New(rand.NewSource(uint64(time.Now().UnixNano())))
}
