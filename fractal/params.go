package fractal

import (
	"fmt"
	"math"

	"NewtonsFractal/misc"
)

const (
	DefaultColorMultiplier = 5
	DefaultEpsilon         = 1e-9
	DefaultMaxIterations   = 100
	DefaultResolution      = 1
	DefaultSweeps          = 4
	MaxResolution          = 5
)

// Params is the full parameter record of one render. It is built before the
// render starts and is not changed while it runs.
type Params struct {
	ColorMultiplier float64
	Epsilon         float64
	MaxIterations   int
	Mode            Mode
	Resolution      int
	Sweeps          int
}

func DefaultParams() Params {
	return Params{
		ColorMultiplier: DefaultColorMultiplier,
		Epsilon:         DefaultEpsilon,
		MaxIterations:   DefaultMaxIterations,
		Mode:            Gradient,
		Resolution:      DefaultResolution,
		Sweeps:          DefaultSweeps,
	}
}

// Verify fills zero values with defaults, so a zero field always means the
// default whether it comes from a settings file or a params command.
func (p *Params) Verify() error {
	if p.ColorMultiplier == 0 {
		p.ColorMultiplier = DefaultColorMultiplier
	}
	if p.Epsilon == 0 {
		p.Epsilon = DefaultEpsilon
	}
	if p.MaxIterations == 0 {
		p.MaxIterations = DefaultMaxIterations
	}
	if p.Resolution == 0 {
		p.Resolution = DefaultResolution
	}
	if p.Sweeps == 0 {
		p.Sweeps = DefaultSweeps
	}
	return p.Validate()
}

// Validate reports the first parameter a render cannot run with.
func (p Params) Validate() error {
	if p.MaxIterations <= 0 {
		return misc.NewConfigError("maxIterations", p.MaxIterations, "must be positive")
	}
	if p.Resolution < 1 || p.Resolution > MaxResolution {
		return misc.NewConfigError("resolution", p.Resolution, fmt.Sprintf("must be between 1 and %d", MaxResolution))
	}
	if p.Sweeps < 1 {
		return misc.NewConfigError("sweeps", p.Sweeps, "must be positive")
	}
	if !(p.Epsilon > 0) {
		return misc.NewConfigError("epsilon", p.Epsilon, "must be positive")
	}
	if !(p.ColorMultiplier >= 0) || math.IsInf(p.ColorMultiplier, 1) {
		return misc.NewConfigError("colorMultiplier", p.ColorMultiplier, "must be finite and not negative")
	}
	if p.Mode != Gradient && p.Mode != NearestRoot {
		return misc.NewConfigError("mode", p.Mode, "must be gradient or nearest-root")
	}
	return nil
}

func (p Params) String() string {
	output := "{Params "
	output += fmt.Sprintf("Mode: %s ", p.Mode)
	output += fmt.Sprintf("Max Iterations: %d ", p.MaxIterations)
	output += fmt.Sprintf("Resolution: %d ", p.Resolution)
	output += fmt.Sprintf("Sweeps: %d ", p.Sweeps)
	output += fmt.Sprintf("Epsilon: %g ", p.Epsilon)
	output += fmt.Sprintf("Color Multiplier: %g}", p.ColorMultiplier)
	return output
}
