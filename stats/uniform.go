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

// Uniform distribution over [Min, Max].
type Uniform struct {
	min  float64
	max  float64
	rand *rand.Rand
}

var _ Distribution = &Uniform{}

// NewUniform creates a uniform distribution. Min must be less than Max.
func NewUniform(min, max float64) (*Uniform, error) {
	if min >= max {
		return nil, errors.Reason("invalid interval: min=%f >= max=%f", min, max)
	}
	return &Uniform{min: min, max: max, rand: newRand()}, nil
}

// Min is the lower bound of the support.
func (d *Uniform) Min() float64 { return d.min }

// Max is the upper bound of the support.
func (d *Uniform) Max() float64 { return d.max }

func (d *Uniform) Prob(x float64) float64 {
	if x < d.min || x > d.max {
		return 0.0
	}
	return 1.0 / (d.max - d.min)
}

func (d *Uniform) CDF(x float64) float64 {
	if x < d.min {
		return 0.0
	}
	if x >= d.max {
		return 1.0
	}
	return (x - d.min) / (d.max - d.min)
}

func (d *Uniform) Quantile(p float64) float64 {
	if p <= 0 {
		return d.min
	}
	if p >= 1 {
		return d.max
	}
	return d.min + p*(d.max-d.min)
}

// Rand uses inverse-transform sampling.
func (d *Uniform) Rand() float64 {
	return d.min + (d.max-d.min)*d.rand.Float64()
}

func (d *Uniform) Moments() Moments {
	w := d.max - d.min
	return Moments{
		Mean:     (d.min + d.max) / 2.0,
		Variance: w * w / 12.0,
		StdDev:   w / math.Sqrt(12.0),
		Modes:    nil, // every point is equally likely; no mode
		Skewness: 0.0,
	}
}

func (d *Uniform) Copy() Distribution {
	return &Uniform{min: d.min, max: d.max,
		rand: rand.New(rand.NewSource(d.rand.Uint64()))}
}

func (d *Uniform) Seed(seed uint64) {
	d.rand = rand.New(rand.NewSource(seed))
}
