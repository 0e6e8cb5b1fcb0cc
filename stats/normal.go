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

// StdNormalCDF computes Phi(x), the standard normal CDF, via the error
// function.
func StdNormalCDF(x float64) float64 {
	return 0.5 * (1.0 + mathx.Erf(x/math.Sqrt2))
}

// StdNormalQuantile computes Phi^-1(p) using the Abramowitz & Stegun 26.2.23
// rational approximation, with absolute error below 4.5e-4. It returns -Inf
// for p <= 0 and +Inf for p >= 1.
func StdNormalQuantile(p float64) float64 {
	if p <= 0 {
		return math.Inf(-1)
	}
	if p >= 1 {
		return math.Inf(1)
	}
	if p > 0.5 { // approximate the lower tail, mirror the upper
		return -StdNormalQuantile(1.0 - p)
	}
	const (
		c0 = 2.515517
		c1 = 0.802853
		c2 = 0.010328
		d1 = 1.432788
		d2 = 0.189269
		d3 = 0.001308
	)
	t := math.Sqrt(-2.0 * math.Log(p))
	return -(t - (c0+t*(c1+t*c2))/(1.0+t*(d1+t*(d2+t*d3))))
}

// Normal distribution with mean Mu and standard deviation Sigma.
type Normal struct {
	mu    float64
	sigma float64
	rand  *rand.Rand
	// Box-Muller produces draws in pairs; the second one is cached here.
	spare    float64
	hasSpare bool
}

var _ Distribution = &Normal{}

// NewNormal creates a normal distribution. Sigma must be positive.
func NewNormal(mu, sigma float64) (*Normal, error) {
	if sigma <= 0 {
		return nil, errors.Reason("sigma=%f must be positive", sigma)
	}
	return &Normal{mu: mu, sigma: sigma, rand: newRand()}, nil
}

// Mu is the mean parameter.
func (d *Normal) Mu() float64 { return d.mu }

// Sigma is the standard deviation parameter.
func (d *Normal) Sigma() float64 { return d.sigma }

func (d *Normal) Prob(x float64) float64 {
	z := (x - d.mu) / d.sigma
	return math.Exp(-0.5*z*z) / (d.sigma * math.Sqrt(2.0*math.Pi))
}

func (d *Normal) CDF(x float64) float64 {
	return StdNormalCDF((x - d.mu) / d.sigma)
}

func (d *Normal) Quantile(p float64) float64 {
	z := StdNormalQuantile(p)
	if math.IsInf(z, 0) {
		return z
	}
	return d.mu + d.sigma*z
}

// Rand draws from the distribution using the Box-Muller transform.
func (d *Normal) Rand() float64 {
	if d.hasSpare {
		d.hasSpare = false
		return d.mu + d.sigma*d.spare
	}
	var u float64
	for u == 0.0 { // log(0) guard
		u = d.rand.Float64()
	}
	v := d.rand.Float64()
	r := math.Sqrt(-2.0 * math.Log(u))
	d.spare = r * math.Sin(2.0*math.Pi*v)
	d.hasSpare = true
	return d.mu + d.sigma*r*math.Cos(2.0*math.Pi*v)
}

func (d *Normal) Moments() Moments {
	return Moments{
		Mean:     d.mu,
		Variance: d.sigma * d.sigma,
		StdDev:   d.sigma,
		Modes:    []float64{d.mu},
		Skewness: 0.0,
	}
}

func (d *Normal) Copy() Distribution {
	return &Normal{mu: d.mu, sigma: d.sigma,
		rand: rand.New(rand.NewSource(d.rand.Uint64()))}
}

// Seed resets the generator and drops the cached Box-Muller spare, so that
// equal seeds produce equal streams.
func (d *Normal) Seed(seed uint64) {
	d.rand = rand.New(rand.NewSource(seed))
	d.hasSpare = false
}
