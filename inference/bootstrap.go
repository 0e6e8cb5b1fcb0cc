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

package inference

import (
	"context"
	"sort"

	"github.com/statlab/statlab/stats"
	"github.com/stockparfait/errors"
	"github.com/stockparfait/parallel"

	"golang.org/x/exp/rand"
)

// Statistic computes a scalar statistic of a sample, e.g. its mean.
type Statistic func([]float64) float64

// Mean is the default bootstrap statistic.
func Mean(sample []float64) float64 {
	return stats.NewSample().Init(sample).Mean()
}

// BootstrapResult is a resampling-based estimate of a statistic's sampling
// distribution.
type BootstrapResult struct {
	Stats    []float64 // per-resample statistic values; len == iterations
	Original float64   // the statistic of the original sample
	StdErr   float64   // standard deviation of Stats
	Interval Interval  // percentile interval at the requested confidence
}

// resample draws len(sample) values from sample with replacement into buf.
func resample(r *rand.Rand, sample, buf []float64) {
	for i := range buf {
		buf[i] = sample[r.Intn(len(sample))]
	}
}

// percentileInterval builds the percentile interval over the resample
// statistics at indices floor(alpha/2*B) and floor((1-alpha/2)*B)-1 of the
// sorted slice.
func percentileInterval(resStats []float64, original, confidence float64) Interval {
	sorted := make([]float64, len(resStats))
	copy(sorted, resStats)
	sort.Float64s(sorted)
	alpha := 1.0 - confidence
	b := float64(len(sorted))
	lo := int(alpha / 2.0 * b)
	hi := int((1.0-alpha/2.0)*b) - 1
	if hi < lo {
		hi = lo
	}
	if hi >= len(sorted) {
		hi = len(sorted) - 1
	}
	return Interval{
		Lower:         sorted[lo],
		Upper:         sorted[hi],
		Estimate:      original,
		MarginOfError: (sorted[hi] - sorted[lo]) / 2.0,
		Confidence:    confidence,
	}
}

func checkBootstrapArgs(sample []float64, iterations int, confidence float64) error {
	if len(sample) == 0 {
		return errors.Reason("cannot bootstrap an empty sample")
	}
	if iterations <= 0 {
		return errors.Reason("iterations=%d must be positive", iterations)
	}
	if confidence <= 0 || confidence >= 1 {
		return errors.Reason("confidence=%f must be within (0, 1)", confidence)
	}
	return nil
}

func newBootstrapResult(resStats []float64, original, confidence float64) *BootstrapResult {
	return &BootstrapResult{
		Stats:    resStats,
		Original: original,
		StdErr:   stats.NewSample().Init(resStats).SampleSigma(),
		Interval: percentileInterval(resStats, original, confidence),
	}
}

// Bootstrap resamples the sample with replacement `iterations` times,
// computing stat (default: Mean) on each resample. It derives a bootstrap
// standard error from the resample distribution and a percentile interval at
// the given confidence.
func Bootstrap(r *rand.Rand, sample []float64, iterations int, confidence float64, stat Statistic) (*BootstrapResult, error) {
	if err := checkBootstrapArgs(sample, iterations, confidence); err != nil {
		return nil, errors.Annotate(err, "invalid bootstrap arguments")
	}
	if stat == nil {
		stat = Mean
	}
	resStats := make([]float64, iterations)
	buf := make([]float64, len(sample))
	for i := 0; i < iterations; i++ {
		resample(r, sample, buf)
		resStats[i] = stat(buf)
	}
	return newBootstrapResult(resStats, stat(sample), confidence), nil
}

// bootstrapJobsIter splits bootstrap iterations into batches for a worker
// pool. Each batch owns a generator seeded from the base one, so workers
// never share RNG state.
type bootstrapJobsIter struct {
	sample    []float64
	stat      Statistic
	batchSize int
	remaining int
	rand      *rand.Rand
}

var _ parallel.JobsIter = &bootstrapJobsIter{}

func (it *bootstrapJobsIter) Next() (parallel.Job, error) {
	if it.remaining <= 0 {
		return nil, parallel.Done
	}
	n := it.batchSize
	if n > it.remaining {
		n = it.remaining
	}
	it.remaining -= n
	r := rand.New(rand.NewSource(it.rand.Uint64()))
	job := func() interface{} {
		resStats := make([]float64, n)
		buf := make([]float64, len(it.sample))
		for i := 0; i < n; i++ {
			resample(r, it.sample, buf)
			resStats[i] = it.stat(buf)
		}
		return resStats
	}
	return job, nil
}

// BootstrapParallel is Bootstrap distributed over a worker pool. The
// resample order is not deterministic across runs with more than one worker,
// but the resulting distribution is governed entirely by the caller-seeded
// base generator.
func BootstrapParallel(ctx context.Context, workers int, r *rand.Rand, sample []float64, iterations int, confidence float64, stat Statistic) (*BootstrapResult, error) {
	if err := checkBootstrapArgs(sample, iterations, confidence); err != nil {
		return nil, errors.Annotate(err, "invalid bootstrap arguments")
	}
	if workers <= 0 {
		return nil, errors.Reason("workers=%d must be positive", workers)
	}
	if stat == nil {
		stat = Mean
	}
	batchSize := (iterations + workers - 1) / workers
	m := parallel.Map(ctx, workers, &bootstrapJobsIter{
		sample:    sample,
		stat:      stat,
		batchSize: batchSize,
		remaining: iterations,
		rand:      r,
	})
	resStats := make([]float64, 0, iterations)
	for {
		v, err := m.Next()
		if err != nil { // can only be parallel.Done
			break
		}
		resStats = append(resStats, v.([]float64)...)
	}
	return newBootstrapResult(resStats, stat(sample), confidence), nil
}
