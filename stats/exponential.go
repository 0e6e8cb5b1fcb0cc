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

	"github.com/stockparfait/errors"

	"golang.org/x/exp/rand"
)

// Exponential distribution with rate Lambda.
type Exponential struct {
	lambda float64
	rand   *rand.Rand
}

var _ Distribution = &Exponential{}

// NewExponential creates an exponential distribution. Lambda must be
// positive.
func NewExponential(lambda float64) (*Exponential, error) {
	if lambda <= 0 {
		return nil, errors.Reason("lambda=%f must be positive", lambda)
	}
	return &Exponential{lambda: lambda, rand: newRand()}, nil
}

// Lambda is the rate parameter.
func (d *Exponential) Lambda() float64 { return d.lambda }

func (d *Exponential) Prob(x float64) float64 {
	if x < 0 {
		return 0.0
	}
	return d.lambda * math.Exp(-d.lambda*x)
}

func (d *Exponential) CDF(x float64) float64 {
	if x < 0 {
		return 0.0
	}
	return 1.0 - math.Exp(-d.lambda*x)
}

// Quantile inverts the CDF analytically: -ln(1-p)/lambda.
func (d *Exponential) Quantile(p float64) float64 {
	if p <= 0 {
		return 0.0
	}
	if p >= 1 {
		return math.Inf(1)
	}
	return -math.Log(1.0-p) / d.lambda
}

// Rand uses inverse-transform sampling.
func (d *Exponential) Rand() float64 {
	return -math.Log(1.0-d.rand.Float64()) / d.lambda
}

func (d *Exponential) Moments() Moments {
	mean := 1.0 / d.lambda
	return Moments{
		Mean:     mean,
		Variance: mean * mean,
		StdDev:   mean,
		Modes:    []float64{0.0},
		Skewness: 2.0,
	}
}

func (d *Exponential) Copy() Distribution {
	return &Exponential{lambda: d.lambda,
		rand: rand.New(rand.NewSource(d.rand.Uint64()))}
}

func (d *Exponential) Seed(seed uint64) {
	d.rand = rand.New(rand.NewSource(seed))
}
