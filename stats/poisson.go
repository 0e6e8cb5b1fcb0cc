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

	"github.com/statlab/statlab/mathx"
	"github.com/stockparfait/errors"

	"golang.org/x/exp/rand"
)

// maxQuantileSteps caps the forward scan in Poisson.Quantile. Reaching the
// cap returns +Inf rather than searching an unbounded support forever.
const maxQuantileSteps = 1000

// maxKnuthLambda is the largest lambda for which Rand uses Knuth's exact
// multiplicative algorithm; above it a rounded and clamped normal
// approximation bounds the running time.
const maxKnuthLambda = 30.0

// Poisson distribution with rate Lambda.
type Poisson struct {
	lambda float64
	rand   *rand.Rand
}

var _ Distribution = &Poisson{}

// NewPoisson creates a Poisson distribution. Lambda must be non-negative.
func NewPoisson(lambda float64) (*Poisson, error) {
	if lambda < 0 {
		return nil, errors.Reason("lambda=%f must be non-negative", lambda)
	}
	return &Poisson{lambda: lambda, rand: newRand()}, nil
}

// Lambda is the rate parameter.
func (d *Poisson) Lambda() float64 { return d.lambda }

// Prob is the p.m.f. at k=floor(x), computed in log space as
// k*ln(lambda) - lambda - ln(k!) and exponentiated once.
func (d *Poisson) Prob(x float64) float64 {
	k := int(math.Floor(x))
	if k < 0 {
		return 0.0
	}
	if d.lambda == 0.0 {
		if k == 0 {
			return 1.0
		}
		return 0.0
	}
	lf, err := mathx.LogFactorial(k)
	if err != nil {
		panic(errors.Annotate(err, "log-factorial failed for k=%d >= 0", k))
	}
	return math.Exp(float64(k)*SafeLog(d.lambda) - d.lambda - lf)
}

// CDF is the running sum of the p.m.f. up to floor(x), clamped to 1. The
// sum stops early once it is within 1e-15 of 1, so huge x stays cheap.
func (d *Poisson) CDF(x float64) float64 {
	if x < 0 {
		return 0.0
	}
	k := int(math.Floor(x))
	sum := 0.0
	for i := 0; i <= k; i++ {
		sum += d.Prob(float64(i))
		if sum >= 1.0-1e-15 {
			return 1.0
		}
	}
	if sum > 1.0 {
		sum = 1.0
	}
	return sum
}

// Quantile scans the support forward accumulating the p.m.f. until it
// reaches p. The scan is capped at 1000 steps; hitting the cap returns +Inf
// as the documented failure value for extreme inputs.
func (d *Poisson) Quantile(p float64) float64 {
	if p <= 0 {
		return 0.0
	}
	if p >= 1 {
		return math.Inf(1)
	}
	sum := 0.0
	for k := 0; k < maxQuantileSteps; k++ {
		sum += d.Prob(float64(k))
		if sum >= p {
			return float64(k)
		}
	}
	return math.Inf(1)
}

// Rand uses Knuth's multiplicative algorithm for lambda <= 30, and a rounded,
// clamped normal approximation for larger lambda.
func (d *Poisson) Rand() float64 {
	if d.lambda == 0.0 {
		return 0.0
	}
	if d.lambda <= maxKnuthLambda {
		threshold := math.Exp(-d.lambda)
		k := 0
		prod := d.rand.Float64()
		for prod > threshold {
			k++
			prod *= d.rand.Float64()
		}
		return float64(k)
	}
	x := math.Round(d.lambda + math.Sqrt(d.lambda)*boxMuller(d.rand))
	if x < 0 {
		x = 0
	}
	return x
}

func (d *Poisson) Moments() Moments {
	return Moments{
		Mean:     d.lambda,
		Variance: d.lambda,
		StdDev:   math.Sqrt(d.lambda),
		Modes:    []float64{math.Floor(d.lambda)},
		Skewness: 1.0 / math.Sqrt(d.lambda), // +Inf at lambda=0
	}
}

func (d *Poisson) Copy() Distribution {
	return &Poisson{lambda: d.lambda,
		rand: rand.New(rand.NewSource(d.rand.Uint64()))}
}

func (d *Poisson) Seed(seed uint64) {
	d.rand = rand.New(rand.NewSource(seed))
}
