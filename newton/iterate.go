package newton

import (
	"errors"
	"fmt"
)

// ErrSingular is returned when the derivative vanishes and the Newton step
// is undefined.
var ErrSingular = errors.New("derivative is zero")

type IterationResult struct {
	Value      complex128
	Iterations int
	Converged  bool
}

func (r IterationResult) String() string {
	output := "{IterationResult "
	output += fmt.Sprintf("Value: %v ", r.Value)
	output += fmt.Sprintf("Iterations: %d ", r.Iterations)
	output += fmt.Sprintf("Converged: %t}", r.Converged)
	return output
}

// Iterate applies z = z - f(z)/f'(z) until z is within epsilon of a known
// root or maxIterations updates have been made. On ErrSingular the result
// holds the last valid z and the updates completed before it.
func Iterate(z complex128, fn Function, maxIterations int, epsilon float64) (IterationResult, error) {
	iterations := 0
	_, distance := fn.NearestRoot(z)
	for iterations < maxIterations && !(distance < epsilon) {
		d := fn.Derivative(z)
		if d == 0 {
			return IterationResult{Value: z, Iterations: iterations}, fmt.Errorf("%w at %v after %d iterations", ErrSingular, z, iterations)
		}
		z = z - fn.Eval(z)/d
		iterations++
		_, distance = fn.NearestRoot(z)
	}

	return IterationResult{Value: z, Iterations: iterations, Converged: distance < epsilon}, nil
}

// IterateFixed applies exactly n Newton updates with no early stop.
func IterateFixed(z complex128, fn Function, n int) (complex128, error) {
	for i := 0; i < n; i++ {
		d := fn.Derivative(z)
		if d == 0 {
			return z, fmt.Errorf("%w at %v after %d iterations", ErrSingular, z, i)
		}
		z = z - fn.Eval(z)/d
	}
	return z, nil
}
