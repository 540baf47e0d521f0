package newton

import (
	"fmt"
	"image/color"
	"sort"

	"NewtonsFractal/misc"
)

// Palette is the base color of each root, by root index.
var Palette = []color.RGBA{
	{R: 0, G: 255, B: 0, A: 255},
	{R: 255, G: 0, B: 0, A: 255},
	{R: 0, G: 0, B: 255, A: 255},
	{R: 255, G: 255, B: 0, A: 255},
	{R: 255, G: 0, B: 255, A: 255},
	{R: 0, G: 255, B: 255, A: 255},
}

// Registry resolves a small integer id to a Function before rendering.
type Registry struct {
	functions map[int]Function
}

func NewRegistry() Registry {
	return Registry{functions: make(map[int]Function)}
}

// DefaultRegistry holds the three functions of the explorer, ids 1 to 3.
func DefaultRegistry() Registry {
	r := NewRegistry()
	r.mustRegister(1, "(z-1)*(z+1)",
		func(z complex128) complex128 { return (z - 1) * (z + 1) },
		func(z complex128) complex128 { return 2 * z },
		[]complex128{1, -1})
	r.mustRegister(2, "z*(z*z-1)",
		func(z complex128) complex128 { return z * (z - 1) * (z + 1) },
		func(z complex128) complex128 { return 3*z*z - 1 },
		[]complex128{0, 1, -1})
	r.mustRegister(3, "z*z*z*z-1",
		func(z complex128) complex128 { return z*z*z*z - 1 },
		func(z complex128) complex128 { return 4 * z * z * z },
		[]complex128{1, -1, complex(0, 1), complex(0, -1)})
	return r
}

func (r Registry) mustRegister(id int, expression string, f, derivative func(complex128) complex128, roots []complex128) {
	fn, err := NewFunction(expression, f, derivative, roots, Palette)
	if err != nil {
		panic(err)
	}
	r.functions[id] = fn
}

func (r Registry) Register(id int, fn Function) {
	r.functions[id] = fn
}

func (r Registry) Lookup(id int) (Function, error) {
	fn, ok := r.functions[id]
	if !ok {
		return Function{}, misc.NewConfigError("function", id, fmt.Sprintf("is not one of %v", r.IDs()))
	}
	return fn, nil
}

// IDs lists the registered ids in ascending order.
func (r Registry) IDs() []int {
	ids := make([]int, 0, len(r.functions))
	for id := range r.functions {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}
