package fractal

import (
	"context"
	"errors"
	"fmt"
	"image/color"
	"time"

	"NewtonsFractal/misc"
	"NewtonsFractal/newton"
	"NewtonsFractal/plane"
	"NewtonsFractal/surface"

	"github.com/BrugadaSyndrome/bslogger"
)

// Region is the part of a viewport the renderer sweeps.
type Region interface {
	Bounds() plane.Bounds
}

type Renderer struct {
	logger bslogger.Logger
}

func NewRenderer(logger bslogger.Logger) *Renderer {
	return &Renderer{logger: logger}
}

type Result struct {
	Canceled  bool
	Columns   int
	Converged int
	Elapsed   time.Duration
	Samples   int
	Singular  int
}

func (r Result) String() string {
	output := "{Result "
	output += fmt.Sprintf("Samples: %d ", r.Samples)
	output += fmt.Sprintf("Converged: %d ", r.Converged)
	output += fmt.Sprintf("Singular: %d ", r.Singular)
	output += fmt.Sprintf("Columns: %d ", r.Columns)
	output += fmt.Sprintf("Canceled: %t ", r.Canceled)
	output += fmt.Sprintf("Elapsed: %s}", r.Elapsed)
	return output
}

// Render sweeps the region in params.Sweeps interleaved passes. Pass s
// covers the columns xMin + (s + k*sweeps)*rStep, so a coarse picture of the
// whole region appears before any part of it is complete. The display is
// flushed after every column and ctx is checked before each one; a canceled
// render returns with Result.Canceled set and a nil error.
func (r *Renderer) Render(ctx context.Context, view Region, fn newton.Function, params Params, display surface.Display) (Result, error) {
	var result Result
	if err := params.Validate(); err != nil {
		return result, err
	}
	width, height := display.Dimensions()
	if width < 1 || height < 1 {
		return result, misc.NewConfigError("dimensions", fmt.Sprintf("%dx%d", width, height), "must be positive")
	}

	bounds := view.Bounds()
	rStep := float64(params.Resolution) * bounds.Width() / float64(width)
	iStep := float64(params.Resolution) * bounds.Height() / float64(height)

	startTime := time.Now()
	r.logger.Infof("Rendering %s over %s with %s", fn.Expression(), bounds, params)

	for sweep := 0; sweep < params.Sweeps; sweep++ {
		for column := sweep; ; column += params.Sweeps {
			x := bounds.XMin + float64(column)*rStep
			if !(x < bounds.XMax) {
				break
			}
			if ctx.Err() != nil {
				result.Canceled = true
				result.Elapsed = time.Since(startTime)
				r.logger.Warningf("Render canceled during sweep %d: %s", sweep+1, result)
				return result, nil
			}

			for row := 0; ; row++ {
				y := bounds.YMin + float64(row)*iStep
				if !(y < bounds.YMax) {
					break
				}
				c, converged, singular := r.sample(complex(x, y), fn, params)
				display.Plot(x, y, c)

				result.Samples++
				if converged {
					result.Converged++
				}
				if singular {
					result.Singular++
				}
			}
			result.Columns++
			display.Flush()
		}
		r.logger.Debugf("Sweep %d of %d done, %d samples so far", sweep+1, params.Sweeps, result.Samples)
	}

	result.Elapsed = time.Since(startTime)
	r.logger.Infof("Rendered %s", result)
	return result, nil
}

// sample iterates one start value and colors it. A singular derivative is
// colored as a sample that used the whole iteration budget.
func (r *Renderer) sample(z complex128, fn newton.Function, params Params) (color.RGBA, bool, bool) {
	if params.Mode == NearestRoot {
		value, err := newton.IterateFixed(z, fn, params.MaxIterations)
		singular := errors.Is(err, newton.ErrSingular)
		return ColorFor(value, fn, params.MaxIterations, params.MaxIterations, NearestRoot, params.ColorMultiplier), false, singular
	}

	result, err := newton.Iterate(z, fn, params.MaxIterations, params.Epsilon)
	if errors.Is(err, newton.ErrSingular) {
		return ColorFor(result.Value, fn, params.MaxIterations, params.MaxIterations, Gradient, params.ColorMultiplier), false, true
	}
	return ColorFor(result.Value, fn, result.Iterations, params.MaxIterations, Gradient, params.ColorMultiplier), result.Converged, false
}
