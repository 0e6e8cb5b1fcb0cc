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

// Package sampling implements four strategies for drawing a sample from a
// finite population: simple random, stratified, systematic and cluster
// sampling. Every strategy reports the selected indices in the original
// population's ordering, plus summary statistics of the selected values.
package sampling

import (
	"math"

	"github.com/statlab/statlab/stats"
	"github.com/stockparfait/errors"

	"golang.org/x/exp/rand"
)

// Result of a sampling strategy. Indices reference the original population
// ordering and are unique within a single result.
type Result struct {
	Indices []int
	Values  []float64
	Mean    float64
	StdDev  float64 // Bessel-corrected sample standard deviation
	StdErr  float64 // StdDev / sqrt(n)
}

// newResult assembles a Result from selected population indices.
func newResult(population []float64, indices []int) *Result {
	values := make([]float64, len(indices))
	for i, idx := range indices {
		values[i] = population[idx]
	}
	s := stats.NewSample().Init(values)
	return &Result{
		Indices: indices,
		Values:  values,
		Mean:    s.Mean(),
		StdDev:  s.SampleSigma(),
		StdErr:  s.StdErr(),
	}
}

// drawWithoutReplacement picks n unique values from [0, size) by repeatedly
// choosing a random index from a shrinking pool of the remaining candidates.
func drawWithoutReplacement(r *rand.Rand, size, n int) []int {
	pool := make([]int, size)
	for i := range pool {
		pool[i] = i
	}
	picked := make([]int, n)
	for i := 0; i < n; i++ {
		j := r.Intn(len(pool))
		picked[i] = pool[j]
		pool[j] = pool[len(pool)-1]
		pool = pool[:len(pool)-1]
	}
	return picked
}

// SimpleRandom draws a simple random sample of sampleSize without
// replacement.
func SimpleRandom(r *rand.Rand, population []float64, sampleSize int) (*Result, error) {
	if sampleSize <= 0 {
		return nil, errors.Reason("sample size=%d must be positive", sampleSize)
	}
	if sampleSize > len(population) {
		return nil, errors.Reason("sample size=%d exceeds population size=%d",
			sampleSize, len(population))
	}
	return newResult(population, drawWithoutReplacement(
		r, len(population), sampleSize)), nil
}

// Stratum is one named partition of a stratified population. The strata are
// expected to partition the combined population in order: the population
// index of Values[i] in stratum k is i plus the total size of strata 0..k-1.
type Stratum struct {
	Name   string
	Values []float64
}

// Allocation selects how a stratified sample is split across strata.
type Allocation uint8

// Values of Allocation:
// - ProportionalAllocation sizes each stratum sample proportionally to the
//   stratum's share of the population, rounded, with a floor of 1 for
//   non-empty strata. The total always equals the requested size; the floor
//   yields when the request is smaller than the number of strata.
// - EqualAllocation splits the total evenly, with the remainder assigned to
//   the last stratum.
const (
	ProportionalAllocation Allocation = iota
	EqualAllocation
)

// stratumSizes computes the per-stratum sample sizes for a total request.
// The sizes always sum to totalSize: rounding and the floor of 1 for
// non-empty strata are walked off one element at a time rather than absorbed
// by a single stratum.
func stratumSizes(strata []Stratum, popSize, totalSize int, alloc Allocation) []int {
	sizes := make([]int, len(strata))
	switch alloc {
	case EqualAllocation:
		per := totalSize / len(strata)
		for i := range sizes {
			sizes[i] = per
		}
		sizes[len(sizes)-1] += totalSize - per*len(strata)
		// Cap at the stratum size.
		for i, st := range strata {
			if sizes[i] > len(st.Values) {
				sizes[i] = len(st.Values)
			}
		}
	default: // proportional
		allocated := 0
		for i, st := range strata {
			w := float64(len(st.Values)) / float64(popSize)
			n := int(math.Round(float64(totalSize) * w))
			if n < 1 && len(st.Values) > 0 {
				n = 1
			}
			if n > len(st.Values) {
				n = len(st.Values)
			}
			sizes[i] = n
			allocated += n
		}
		for allocated > totalSize {
			shrinkOne(strata, sizes, popSize, totalSize)
			allocated--
		}
		for allocated < totalSize && growOne(strata, sizes) {
			allocated++
		}
	}
	return sizes
}

// shrinkOne removes one element from the proportional allocation: it prefers
// strata above the floor of 1 and, among the candidates, picks the one
// exceeding its exact proportional share the most.
func shrinkOne(strata []Stratum, sizes []int, popSize, totalSize int) {
	for _, floor := range []int{2, 1} {
		pick := -1
		pickOver := math.Inf(-1)
		for i, st := range strata {
			if sizes[i] < floor {
				continue
			}
			over := float64(sizes[i]) -
				float64(totalSize)*float64(len(st.Values))/float64(popSize)
			if over > pickOver {
				pick, pickOver = i, over
			}
		}
		if pick >= 0 {
			sizes[pick]--
			return
		}
	}
}

// growOne adds one element to the stratum with the most remaining capacity.
// It reports false when every stratum is exhausted.
func growOne(strata []Stratum, sizes []int) bool {
	pick := -1
	for i, st := range strata {
		spare := len(st.Values) - sizes[i]
		if spare <= 0 {
			continue
		}
		if pick < 0 || spare > len(strata[pick].Values)-sizes[pick] {
			pick = i
		}
	}
	if pick < 0 {
		return false
	}
	sizes[pick]++
	return true
}

// Stratified draws an independent simple random sample from each stratum and
// concatenates the results, with indices shifted into the combined
// population's ordering.
func Stratified(r *rand.Rand, strata []Stratum, totalSize int, alloc Allocation) (*Result, error) {
	if len(strata) == 0 {
		return nil, errors.Reason("at least one stratum is required")
	}
	popSize := 0
	population := []float64{}
	for _, st := range strata {
		popSize += len(st.Values)
		population = append(population, st.Values...)
	}
	if totalSize <= 0 {
		return nil, errors.Reason("sample size=%d must be positive", totalSize)
	}
	if totalSize > popSize {
		return nil, errors.Reason("sample size=%d exceeds population size=%d",
			totalSize, popSize)
	}
	sizes := stratumSizes(strata, popSize, totalSize, alloc)
	var indices []int
	offset := 0
	for i, st := range strata {
		for _, local := range drawWithoutReplacement(r, len(st.Values), sizes[i]) {
			indices = append(indices, offset+local)
		}
		offset += len(st.Values)
	}
	return newResult(population, indices), nil
}

// Proportions returns each stratum's share of the combined population, in
// stratum order. The shares sum to 1 for a non-empty population.
func Proportions(strata []Stratum) []float64 {
	total := 0
	for _, st := range strata {
		total += len(st.Values)
	}
	res := make([]float64, len(strata))
	if total == 0 {
		return res
	}
	for i, st := range strata {
		res[i] = float64(len(st.Values)) / float64(total)
	}
	return res
}

// Systematic selects every k-th element, k = floor(N/n), starting from a
// random offset in [0, k) when randomStart is set, and from 0 otherwise. The
// selection stops at the population boundary.
func Systematic(r *rand.Rand, population []float64, sampleSize int, randomStart bool) (*Result, error) {
	n := len(population)
	if sampleSize <= 0 {
		return nil, errors.Reason("sample size=%d must be positive", sampleSize)
	}
	if sampleSize > n {
		return nil, errors.Reason("sample size=%d exceeds population size=%d",
			sampleSize, n)
	}
	k := n / sampleSize
	start := 0
	if randomStart && k > 1 {
		start = r.Intn(k)
	}
	var indices []int
	for i := start; i < n && len(indices) < sampleSize; i += k {
		indices = append(indices, i)
	}
	return newResult(population, indices), nil
}

// Cluster partitions the population into numClusters contiguous clusters of
// size ceil(N/numClusters), randomly selects sampleClusters whole clusters
// without replacement, and includes every member of each selected cluster.
func Cluster(r *rand.Rand, population []float64, numClusters, sampleClusters int) (*Result, error) {
	n := len(population)
	if numClusters <= 0 || numClusters > n {
		return nil, errors.Reason("number of clusters=%d must be within [1, %d]",
			numClusters, n)
	}
	if sampleClusters <= 0 || sampleClusters > numClusters {
		return nil, errors.Reason(
			"clusters to sample=%d must be within [1, %d]",
			sampleClusters, numClusters)
	}
	clusterSize := (n + numClusters - 1) / numClusters
	var indices []int
	for _, c := range drawWithoutReplacement(r, numClusters, sampleClusters) {
		for i := c * clusterSize; i < (c+1)*clusterSize && i < n; i++ {
			indices = append(indices, i)
		}
	}
	return newResult(population, indices), nil
}
