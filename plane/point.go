package plane

import "fmt"

// WorldPoint is a location in the complex plane.
type WorldPoint struct {
	X float64
	Y float64
}

func (p WorldPoint) Complex() complex128 {
	return complex(p.X, p.Y)
}

func (p WorldPoint) String() string {
	output := "{WorldPoint "
	output += fmt.Sprintf("X: %f ", p.X)
	output += fmt.Sprintf("Y: %f}", p.Y)
	return output
}

// ScreenPoint is a pixel location, rows increasing downward.
type ScreenPoint struct {
	Column int
	Row    int
}

func (p ScreenPoint) String() string {
	output := "{ScreenPoint "
	output += fmt.Sprintf("Column: %d ", p.Column)
	output += fmt.Sprintf("Row: %d}", p.Row)
	return output
}
