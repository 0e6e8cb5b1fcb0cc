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
	"fmt"

	"github.com/stockparfait/errors"
)

// Distribution type tags accepted by Spec.
const (
	NormalType      = "normal"
	BinomialType    = "binomial"
	PoissonType     = "poisson"
	ExponentialType = "exponential"
	UniformType     = "uniform"
)

// Spec is a tagged distribution specification, the single record the rest of
// the system is written against. Only the parameter fields relevant to Type
// are consulted; adding a family means one new tag plus one new case in
// Distribution() and Validate().
type Spec struct {
	Type   string  `toml:"type" json:"type"`
	Mu     float64 `toml:"mu" json:"mu"`         // normal
	Sigma  float64 `toml:"sigma" json:"sigma"`   // normal
	N      int     `toml:"n" json:"n"`           // binomial
	P      float64 `toml:"p" json:"p"`           // binomial
	Lambda float64 `toml:"lambda" json:"lambda"` // poisson, exponential
	Min    float64 `toml:"min" json:"min"`       // uniform
	Max    float64 `toml:"max" json:"max"`       // uniform
}

// Distribution dispatches the spec to its family implementation. Parameter
// domain violations surface as errors from the family constructors.
func (s *Spec) Distribution() (Distribution, error) {
	switch s.Type {
	case NormalType:
		d, err := NewNormal(s.Mu, s.Sigma)
		if err != nil {
			return nil, errors.Annotate(err, "invalid normal spec")
		}
		return d, nil
	case BinomialType:
		d, err := NewBinomial(s.N, s.P)
		if err != nil {
			return nil, errors.Annotate(err, "invalid binomial spec")
		}
		return d, nil
	case PoissonType:
		d, err := NewPoisson(s.Lambda)
		if err != nil {
			return nil, errors.Annotate(err, "invalid poisson spec")
		}
		return d, nil
	case ExponentialType:
		d, err := NewExponential(s.Lambda)
		if err != nil {
			return nil, errors.Annotate(err, "invalid exponential spec")
		}
		return d, nil
	case UniformType:
		d, err := NewUniform(s.Min, s.Max)
		if err != nil {
			return nil, errors.Annotate(err, "invalid uniform spec")
		}
		return d, nil
	}
	return nil, errors.Reason("unknown distribution type %q", s.Type)
}

// Moments computes the closed-form moments for the spec.
func (s *Spec) Moments() (Moments, error) {
	d, err := s.Distribution()
	if err != nil {
		return Moments{}, err
	}
	return d.Moments(), nil
}

// ParamError describes a single invalid parameter for form-level display.
type ParamError struct {
	Param   string
	Message string
}

func (e ParamError) String() string {
	return fmt.Sprintf("%s: %s", e.Param, e.Message)
}

// Validate is the non-throwing counterpart of Distribution(): it reports
// every violated parameter domain as a ParamError, one per parameter, and
// returns nil for a valid spec. Callers needing user-facing feedback call it
// first; already-validated pipelines go straight to Distribution().
func (s *Spec) Validate() []ParamError {
	var errs []ParamError
	switch s.Type {
	case NormalType:
		if s.Sigma <= 0 {
			errs = append(errs, ParamError{"sigma", "must be positive"})
		}
	case BinomialType:
		if s.N < 0 {
			errs = append(errs, ParamError{"n", "must be non-negative"})
		}
		if s.P < 0 || s.P > 1 {
			errs = append(errs, ParamError{"p", "must be within [0, 1]"})
		}
	case PoissonType:
		if s.Lambda < 0 {
			errs = append(errs, ParamError{"lambda", "must be non-negative"})
		}
	case ExponentialType:
		if s.Lambda <= 0 {
			errs = append(errs, ParamError{"lambda", "must be positive"})
		}
	case UniformType:
		if s.Min >= s.Max {
			errs = append(errs, ParamError{"min", "must be less than max"})
		}
	default:
		errs = append(errs, ParamError{"type",
			fmt.Sprintf("unknown distribution type %q", s.Type)})
	}
	return errs
}
