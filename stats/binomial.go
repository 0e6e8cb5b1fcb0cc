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

// maxBernoulliTrials is the largest N for which Rand simulates individual
// Bernoulli trials; above it a rounded and clamped normal approximation
// bounds the running time.
const maxBernoulliTrials = 100

// Binomial distribution: the number of successes in N independent Bernoulli
// trials with success probability P.
type Binomial struct {
	n    int
	p    float64
	rand *rand.Rand
}

var _ Distribution = &Binomial{}

// NewBinomial creates a binomial distribution. N must be non-negative and P
// within [0, 1].
func NewBinomial(n int, p float64) (*Binomial, error) {
	if n < 0 {
		return nil, errors.Reason("n=%d must be non-negative", n)
	}
	if p < 0.0 || p > 1.0 {
		return nil, errors.Reason("p=%f must be within [0, 1]", p)
	}
	return &Binomial{n: n, p: p, rand: newRand()}, nil
}

// N is the number of trials.
func (d *Binomial) N() int { return d.n }

// P is the per-trial success probability.
func (d *Binomial) P() float64 { return d.p }

// Prob is the p.m.f. at k=floor(x), computed in log space as
// logC(n,k) + k*ln(p) + (n-k)*ln(1-p) and exponentiated once, so it stays
// stable for large n.
func (d *Binomial) Prob(x float64) float64 {
	k := int(math.Floor(x))
	if k < 0 || k > d.n {
		return 0.0
	}
	// Degenerate p: the log-space sum would produce 0*(-Inf).
	if d.p == 0.0 {
		if k == 0 {
			return 1.0
		}
		return 0.0
	}
	if d.p == 1.0 {
		if k == d.n {
			return 1.0
		}
		return 0.0
	}
	logPmf := mathx.LogChoose(d.n, k) +
		float64(k)*SafeLog(d.p) + float64(d.n-k)*SafeLog(1.0-d.p)
	return math.Exp(logPmf)
}

// CDF is the running sum of the p.m.f. up to floor(x), clamped to 1 to
// absorb floating-point drift.
func (d *Binomial) CDF(x float64) float64 {
	if x < 0 {
		return 0.0
	}
	if x >= float64(d.n) {
		return 1.0
	}
	k := int(math.Floor(x))
	sum := 0.0
	for i := 0; i <= k; i++ {
		sum += d.Prob(float64(i))
	}
	if sum > 1.0 {
		sum = 1.0
	}
	return sum
}

// Quantile finds the smallest k with CDF(k) >= p by binary search over the
// integer support.
func (d *Binomial) Quantile(p float64) float64 {
	if p <= 0 {
		return 0.0
	}
	if p >= 1 {
		return float64(d.n)
	}
	lo, hi := 0, d.n
	for lo < hi {
		mid := (lo + hi) / 2
		if d.CDF(float64(mid)) < p {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	return float64(lo)
}

// Rand simulates N Bernoulli trials directly for N <= 100, and otherwise
// draws from the normal approximation rounded and clamped to [0, N].
func (d *Binomial) Rand() float64 {
	if d.n <= maxBernoulliTrials {
		k := 0
		for i := 0; i < d.n; i++ {
			if d.rand.Float64() < d.p {
				k++
			}
		}
		return float64(k)
	}
	m := d.Moments()
	x := math.Round(m.Mean + m.StdDev*boxMuller(d.rand))
	if x < 0 {
		x = 0
	}
	if x > float64(d.n) {
		x = float64(d.n)
	}
	return x
}

func (d *Binomial) Moments() Moments {
	n := float64(d.n)
	v := n * d.p * (1.0 - d.p)
	mode := math.Floor((n + 1.0) * d.p)
	if mode > n {
		mode = n
	}
	skew := 0.0
	if v > 0 {
		skew = (1.0 - 2.0*d.p) / math.Sqrt(v)
	}
	return Moments{
		Mean:     n * d.p,
		Variance: v,
		StdDev:   math.Sqrt(v),
		Modes:    []float64{mode},
		Skewness: skew,
	}
}

func (d *Binomial) Copy() Distribution {
	return &Binomial{n: d.n, p: d.p,
		rand: rand.New(rand.NewSource(d.rand.Uint64()))}
}

func (d *Binomial) Seed(seed uint64) {
	d.rand = rand.New(rand.NewSource(seed))
}

// boxMuller draws a single standard normal value. Used by the normal
// approximation samplers, which have no spare cache to manage.
func boxMuller(r *rand.Rand) float64 {
	var u float64
	for u == 0.0 {
		u = r.Float64()
	}
	return math.Sqrt(-2.0*math.Log(u)) * math.Cos(2.0*math.Pi*r.Float64())
}
