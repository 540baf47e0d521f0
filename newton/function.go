package newton

import (
	"fmt"
	"image/color"
	"math"
	"math/cmplx"

	"NewtonsFractal/misc"
)

// Function is an immutable Newton target: f, its derivative and its known
// roots. The order of the roots fixes the color index of each basin.
type Function struct {
	colors     []color.RGBA
	derivative func(complex128) complex128
	expression string
	f          func(complex128) complex128
	roots      []complex128
}

// NewFunction copies roots and colors so later changes to the slices do not
// leak into the descriptor. A root without a color reuses the palette cyclically.
func NewFunction(expression string, f, derivative func(complex128) complex128, roots []complex128, colors []color.RGBA) (Function, error) {
	if f == nil || derivative == nil {
		return Function{}, misc.NewConfigError("function", expression, "needs both f and its derivative")
	}
	if len(roots) == 0 {
		return Function{}, misc.NewConfigError("roots", expression, "needs at least one known root")
	}
	if len(colors) == 0 {
		return Function{}, misc.NewConfigError("colors", expression, "needs at least one root color")
	}

	fn := Function{
		colors:     make([]color.RGBA, len(roots)),
		derivative: derivative,
		expression: expression,
		f:          f,
		roots:      make([]complex128, len(roots)),
	}
	copy(fn.roots, roots)
	for i := range fn.colors {
		fn.colors[i] = colors[i%len(colors)]
	}
	return fn, nil
}

func (fn Function) Expression() string {
	return fn.expression
}

func (fn Function) Eval(z complex128) complex128 {
	return fn.f(z)
}

func (fn Function) Derivative(z complex128) complex128 {
	return fn.derivative(z)
}

func (fn Function) RootCount() int {
	return len(fn.roots)
}

func (fn Function) Root(i int) complex128 {
	return fn.roots[i]
}

func (fn Function) Color(i int) color.RGBA {
	return fn.colors[i]
}

// Roots returns a copy of the known roots.
func (fn Function) Roots() []complex128 {
	out := make([]complex128, len(fn.roots))
	copy(out, fn.roots)
	return out
}

// NearestRoot returns the index of the root closest to z and its distance.
// Ties go to the lowest index.
func (fn Function) NearestRoot(z complex128) (int, float64) {
	index := 0
	distance := cmplx.Abs(z - fn.roots[0])
	for i := 1; i < len(fn.roots); i++ {
		d := cmplx.Abs(z - fn.roots[i])
		if d < distance || math.IsNaN(distance) && !math.IsNaN(d) {
			distance = d
			index = i
		}
	}
	return index, distance
}

func (fn Function) String() string {
	output := "{Function "
	output += fmt.Sprintf("Expression: %s ", fn.expression)
	output += fmt.Sprintf("Roots: %v}", fn.roots)
	return output
}
