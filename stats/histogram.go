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

	"gonum.org/v1/gonum/floats"
)

// Bounds on the bin count selected by Sturges' rule.
const (
	MinBins = 3
	MaxBins = 30
)

// Bin is one interval of a binned sample. Density is count/(n*width), so
// that the densities integrate to 1 over all bins.
type Bin struct {
	Start   float64
	End     float64
	Count   int
	Density float64
}

// Histogram is a binned sample: equal-width bins over [min, max] of the
// data, except for the degenerate all-equal sample, which collapses into a
// single zero-width bin.
type Histogram struct {
	Bins []Bin
	Size int // total sample count
}

// SturgesBins computes the default bin count ceil(log2(n)+1), clamped to
// [MinBins, MaxBins].
func SturgesBins(n int) int {
	if n < 1 {
		return MinBins
	}
	k := int(math.Ceil(math.Log2(float64(n)) + 1.0))
	if k < MinBins {
		k = MinBins
	}
	if k > MaxBins {
		k = MaxBins
	}
	return k
}

// NewHistogram bins data into numBins equal-width bins over the data range.
// numBins <= 0 selects Sturges' rule. It fails on an empty sample.
func NewHistogram(data []float64, numBins int) (*Histogram, error) {
	n := len(data)
	if n == 0 {
		return nil, errors.Reason("cannot bin an empty sample")
	}
	if numBins <= 0 {
		numBins = SturgesBins(n)
	}
	min := floats.Min(data)
	max := floats.Max(data)
	if min == max {
		// Degenerate sample: one zero-width bin with the full count. The
		// density is undefined for zero width and reported as 0.
		return &Histogram{
			Bins: []Bin{{Start: min, End: max, Count: n}},
			Size: n,
		}, nil
	}
	width := (max - min) / float64(numBins)
	counts := make([]int, numBins)
	for _, x := range data {
		i := int(math.Floor((x - min) / width))
		if i >= numBins { // the maximum value lands in the last bin
			i = numBins - 1
		}
		counts[i]++
	}
	bins := make([]Bin, numBins)
	for i, c := range counts {
		bins[i] = Bin{
			Start:   min + float64(i)*width,
			End:     min + float64(i+1)*width,
			Count:   c,
			Density: float64(c) / (float64(n) * width),
		}
	}
	return &Histogram{Bins: bins, Size: n}, nil
}

// Counts lists the per-bin counts.
func (h *Histogram) Counts() []int {
	res := make([]int, len(h.Bins))
	for i, b := range h.Bins {
		res[i] = b.Count
	}
	return res
}

// Densities lists the per-bin density values.
func (h *Histogram) Densities() []float64 {
	res := make([]float64, len(h.Bins))
	for i, b := range h.Bins {
		res[i] = b.Density
	}
	return res
}
