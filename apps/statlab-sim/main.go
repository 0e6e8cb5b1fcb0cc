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

package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/statlab/statlab/inference"
	"github.com/statlab/statlab/sampling"
	"github.com/statlab/statlab/stats"
	"github.com/statlab/statlab/table"
	"github.com/stockparfait/errors"
	"github.com/stockparfait/logging"

	toml "github.com/pelletier/go-toml/v2"
	"golang.org/x/exp/rand"
)

type Flags struct {
	Config   string // required
	LogLevel logging.Level
	Seed     uint64 // 0 = seed from the wall clock
	CSV      bool   // dump CSV format; default: text.
}

func parseFlags(args []string) (*Flags, error) {
	var flags Flags
	fs := flag.NewFlagSet("statlab-sim", flag.ExitOnError)
	fs.StringVar(&flags.Config, "config", "", "path to the TOML config (required)")
	flags.LogLevel = logging.Info
	fs.Var(&flags.LogLevel, "log-level", "Log level: debug, info, warning, error")
	fs.Uint64Var(&flags.Seed, "seed", 0,
		"RNG seed; 0 seeds from the current time")
	fs.BoolVar(&flags.CSV, "csv", false, "print tables in CSV format; default: text")

	err := fs.Parse(args)
	if err != nil {
		return nil, err
	}
	if flags.Config == "" {
		return nil, errors.Reason("missing required -config argument")
	}
	return &flags, err
}

// Sampling method names accepted in the config.
const (
	simpleMethod     = "simple"
	stratifiedMethod = "stratified"
	systematicMethod = "systematic"
	clusterMethod    = "cluster"
)

type populationConfig struct {
	Dist stats.Spec `toml:"dist"`
	Size int        `toml:"size"`
	Bins int        `toml:"bins"` // histogram bins; 0 = Sturges' rule
}

type sampleConfig struct {
	Method       string `toml:"method"` // simple, stratified, systematic, cluster
	Size         int    `toml:"size"`
	Strata       int    `toml:"strata"`       // stratified: contiguous strata count
	Allocation   string `toml:"allocation"`   // stratified: proportional or equal
	RandomStart  bool   `toml:"random_start"` // systematic
	Clusters     int    `toml:"clusters"`     // cluster: partition count
	PickClusters int    `toml:"pick_clusters"`
}

type inferenceConfig struct {
	Confidence float64 `toml:"confidence"`
	Bootstrap  int     `toml:"bootstrap"` // iterations; 0 skips the bootstrap
	Workers    int     `toml:"workers"`   // >1 runs the bootstrap in parallel
}

type Config struct {
	Population populationConfig `toml:"population"`
	Sample     sampleConfig     `toml:"sample"`
	Inference  inferenceConfig  `toml:"inference"`
}

func parseConfig(filePath string) (*Config, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return nil, errors.Annotate(err, "failed to open config file %s", filePath)
	}
	defer f.Close()

	d := toml.NewDecoder(f)
	c := Config{
		Sample:    sampleConfig{Method: simpleMethod, Allocation: "proportional"},
		Inference: inferenceConfig{Confidence: 0.95, Workers: 1},
	}
	if err := d.Decode(&c); err != nil {
		return nil, errors.Annotate(err, "failed to read config file %s", filePath)
	}
	if errs := c.Population.Dist.Validate(); len(errs) > 0 {
		msg := ""
		for _, e := range errs {
			msg += "\n  " + e.String()
		}
		return nil, errors.Reason("invalid population dist:%s", msg)
	}
	if c.Population.Size <= 0 {
		return nil, errors.Reason("population size=%d must be positive",
			c.Population.Size)
	}
	switch c.Sample.Method {
	case simpleMethod, systematicMethod:
	case stratifiedMethod:
		if c.Sample.Strata <= 0 {
			return nil, errors.Reason("strata=%d must be positive", c.Sample.Strata)
		}
		if c.Sample.Allocation != "proportional" && c.Sample.Allocation != "equal" {
			return nil, errors.Reason("unknown allocation %q", c.Sample.Allocation)
		}
	case clusterMethod:
		if c.Sample.Clusters <= 0 || c.Sample.PickClusters <= 0 {
			return nil, errors.Reason(
				"cluster sampling requires positive clusters=%d and pick_clusters=%d",
				c.Sample.Clusters, c.Sample.PickClusters)
		}
	default:
		return nil, errors.Reason("unknown sampling method %q", c.Sample.Method)
	}
	if c.Sample.Size <= 0 {
		return nil, errors.Reason("sample size=%d must be positive", c.Sample.Size)
	}
	if c.Inference.Confidence <= 0 || c.Inference.Confidence >= 1 {
		return nil, errors.Reason("confidence=%f must be within (0, 1)",
			c.Inference.Confidence)
	}
	return &c, nil
}

// contiguousStrata cuts the population into k contiguous strata of near-equal
// size, preserving the population order assumed by sampling.Stratified.
func contiguousStrata(population []float64, k int) []sampling.Stratum {
	strata := make([]sampling.Stratum, k)
	size := (len(population) + k - 1) / k
	for i := 0; i < k; i++ {
		lo := i * size
		hi := lo + size
		if hi > len(population) {
			hi = len(population)
		}
		if lo > hi {
			lo = hi
		}
		strata[i] = sampling.Stratum{
			Name:   fmt.Sprintf("stratum-%d", i+1),
			Values: population[lo:hi],
		}
	}
	return strata
}

func drawSample(r *rand.Rand, c *Config, population []float64) (*sampling.Result, error) {
	switch c.Sample.Method {
	case stratifiedMethod:
		alloc := sampling.ProportionalAllocation
		if c.Sample.Allocation == "equal" {
			alloc = sampling.EqualAllocation
		}
		return sampling.Stratified(
			r, contiguousStrata(population, c.Sample.Strata), c.Sample.Size, alloc)
	case systematicMethod:
		return sampling.Systematic(r, population, c.Sample.Size, c.Sample.RandomStart)
	case clusterMethod:
		return sampling.Cluster(r, population, c.Sample.Clusters, c.Sample.PickClusters)
	}
	return sampling.SimpleRandom(r, population, c.Sample.Size)
}

func momentsTable(m stats.Moments) *table.Table {
	tbl := table.New("statistic", "value")
	tbl.AddRow(
		table.KV{Name: "mean", Value: m.Mean},
		table.KV{Name: "variance", Value: m.Variance},
		table.KV{Name: "stddev", Value: m.StdDev},
		table.KV{Name: "skewness", Value: m.Skewness},
	)
	for _, mode := range m.Modes {
		tbl.AddRow(table.KV{Name: "mode", Value: mode})
	}
	return tbl
}

func sampleTable(res *sampling.Result, popSize int) *table.Table {
	tbl := table.New("statistic", "value")
	fpc := inference.FinitePopulationCorrection(popSize, len(res.Values))
	tbl.AddRow(
		table.KV{Name: "size", Value: float64(len(res.Values))},
		table.KV{Name: "mean", Value: res.Mean},
		table.KV{Name: "stddev", Value: res.StdDev},
		table.KV{Name: "stderr", Value: res.StdErr},
		table.KV{Name: "stderr_fpc", Value: res.StdErr * fpc},
	)
	return tbl
}

type binRow struct {
	bin stats.Bin
}

func (b binRow) Cells() []string {
	return []string{
		fmt.Sprintf("%g", b.bin.Start),
		fmt.Sprintf("%g", b.bin.End),
		fmt.Sprintf("%d", b.bin.Count),
		fmt.Sprintf("%g", b.bin.Density),
	}
}

func histogramTable(h *stats.Histogram) *table.Table {
	tbl := table.New("start", "end", "count", "density")
	for _, b := range h.Bins {
		tbl.AddRow(binRow{b})
	}
	return tbl
}

func intervalTable(ci *inference.Interval) *table.Table {
	tbl := table.New("statistic", "value")
	tbl.AddRow(
		table.KV{Name: "estimate", Value: ci.Estimate},
		table.KV{Name: "lower", Value: ci.Lower},
		table.KV{Name: "upper", Value: ci.Upper},
		table.KV{Name: "margin", Value: ci.MarginOfError},
		table.KV{Name: "confidence", Value: ci.Confidence},
	)
	return tbl
}

func bootstrapTable(res *inference.BootstrapResult) *table.Table {
	tbl := table.New("statistic", "value")
	tbl.AddRow(
		table.KV{Name: "estimate", Value: res.Original},
		table.KV{Name: "stderr", Value: res.StdErr},
		table.KV{Name: "lower", Value: res.Interval.Lower},
		table.KV{Name: "upper", Value: res.Interval.Upper},
	)
	return tbl
}

func writeTable(w io.Writer, flags *Flags, title string, tbl *table.Table) error {
	if _, err := fmt.Fprintf(w, "%s:\n", title); err != nil {
		return errors.Annotate(err, "failed to write title")
	}
	if flags.CSV {
		if err := tbl.WriteCSV(w); err != nil {
			return errors.Annotate(err, "failed to print CSV")
		}
	} else {
		if err := tbl.WriteText(w); err != nil {
			return errors.Annotate(err, "failed to print text")
		}
	}
	_, err := fmt.Fprintln(w)
	return err
}

func run(ctx context.Context, flags *Flags, w io.Writer) error {
	c, err := parseConfig(flags.Config)
	if err != nil {
		return errors.Annotate(err, "failed to parse config")
	}
	seed := flags.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	d, err := c.Population.Dist.Distribution()
	if err != nil {
		return errors.Annotate(err, "failed to create distribution")
	}
	d.Seed(seed)
	r := rand.New(rand.NewSource(seed))

	logging.Infof(ctx, "generating %s population of %d values",
		c.Population.Dist.Type, c.Population.Size)
	population := make([]float64, c.Population.Size)
	for i := range population {
		population[i] = d.Rand()
	}

	if err := writeTable(w, flags, "Population moments",
		momentsTable(d.Moments())); err != nil {
		return errors.Annotate(err, "failed to print population moments")
	}

	res, err := drawSample(r, c, population)
	if err != nil {
		return errors.Annotate(err, "failed to draw a %s sample", c.Sample.Method)
	}
	logging.Infof(ctx, "drew %s sample of %d values",
		c.Sample.Method, len(res.Values))
	if err := writeTable(w, flags, "Sample summary",
		sampleTable(res, c.Population.Size)); err != nil {
		return errors.Annotate(err, "failed to print sample summary")
	}

	h, err := stats.NewHistogram(res.Values, c.Population.Bins)
	if err != nil {
		return errors.Annotate(err, "failed to bin the sample")
	}
	if err := writeTable(w, flags, "Sample histogram", histogramTable(h)); err != nil {
		return errors.Annotate(err, "failed to print histogram")
	}

	ci, err := inference.MeanInterval(res.Values, c.Inference.Confidence)
	if err != nil {
		return errors.Annotate(err, "failed to build mean interval")
	}
	if err := writeTable(w, flags, "Mean confidence interval",
		intervalTable(ci)); err != nil {
		return errors.Annotate(err, "failed to print mean interval")
	}

	if c.Inference.Bootstrap > 0 {
		var b *inference.BootstrapResult
		if c.Inference.Workers > 1 {
			b, err = inference.BootstrapParallel(ctx, c.Inference.Workers, r,
				res.Values, c.Inference.Bootstrap, c.Inference.Confidence, nil)
		} else {
			b, err = inference.Bootstrap(r, res.Values, c.Inference.Bootstrap,
				c.Inference.Confidence, nil)
		}
		if err != nil {
			return errors.Annotate(err, "failed to bootstrap the sample mean")
		}
		if err := writeTable(w, flags, "Bootstrap of the mean",
			bootstrapTable(b)); err != nil {
			return errors.Annotate(err, "failed to print bootstrap results")
		}
	}
	return nil
}

func main() {
	ctx := context.Background()
	flags, err := parseFlags(os.Args[1:])
	if err != nil {
		ctx = logging.Use(ctx, logging.DefaultGoLogger(logging.Info))
		logging.Errorf(ctx, "failed to parse flags: %s", err.Error())
		os.Exit(1)
	}
	ctx = logging.Use(ctx, logging.DefaultGoLogger(flags.LogLevel))

	if err := run(ctx, flags, os.Stdout); err != nil {
		logging.Errorf(ctx, err.Error())
		os.Exit(1)
	}
}
