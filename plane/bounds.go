package plane

import (
	"fmt"

	"NewtonsFractal/misc"
)

// Bounds is a world rectangle with XMin < XMax and YMin < YMax.
type Bounds struct {
	XMin float64
	YMin float64
	XMax float64
	YMax float64
}

// NewBounds orders the endpoints of each axis and rejects empty spans.
func NewBounds(x1, y1, x2, y2 float64) (Bounds, error) {
	if x1 > x2 {
		x1, x2 = x2, x1
	}
	if y1 > y2 {
		y1, y2 = y2, y1
	}
	b := Bounds{XMin: x1, YMin: y1, XMax: x2, YMax: y2}
	return b, b.Validate()
}

func (b Bounds) Validate() error {
	if !(b.XMin < b.XMax) {
		return misc.NewConfigError("bounds.x", fmt.Sprintf("[%g, %g]", b.XMin, b.XMax), "must span a non-empty interval")
	}
	if !(b.YMin < b.YMax) {
		return misc.NewConfigError("bounds.y", fmt.Sprintf("[%g, %g]", b.YMin, b.YMax), "must span a non-empty interval")
	}
	return nil
}

func (b Bounds) Width() float64 {
	return b.XMax - b.XMin
}

func (b Bounds) Height() float64 {
	return b.YMax - b.YMin
}

// Contains reports whether p lies inside b, edges included.
func (b Bounds) Contains(x, y float64) bool {
	return b.XMin <= x && x <= b.XMax && b.YMin <= y && y <= b.YMax
}

// Expand grows each axis symmetrically by the margin fraction of its span.
func (b Bounds) Expand(m Margin) Bounds {
	width := b.Width()
	height := b.Height()
	return Bounds{
		XMin: b.XMin - m.Horizontal*width,
		YMin: b.YMin - m.Vertical*height,
		XMax: b.XMax + m.Horizontal*width,
		YMax: b.YMax + m.Vertical*height,
	}
}

func (b Bounds) String() string {
	return fmt.Sprintf("[%03.4f,%03.4f,%03.4f,%03.4f]", b.XMin, b.YMin, b.XMax, b.YMax)
}

// Margin holds the horizontal and vertical border fractions, each in [0, 0.5).
type Margin struct {
	Horizontal float64
	Vertical   float64
}

// NewMargin replaces any fraction outside [0, 0.5) with 0.
func NewMargin(horizontal, vertical float64) Margin {
	return Margin{Horizontal: clampFraction(horizontal), Vertical: clampFraction(vertical)}
}

// Clamped reports the margin with out of range fractions replaced by 0.
func (m Margin) Clamped() Margin {
	return NewMargin(m.Horizontal, m.Vertical)
}

func clampFraction(f float64) float64 {
	if !(0 <= f && f < 0.5) {
		return 0
	}
	return f
}
