package plane

import (
	"fmt"

	"NewtonsFractal/misc"
)

// Transform maps world coordinates onto a width x height raster.
// The world point (XMin, YMax) lands on pixel (0, 0).
type Transform struct {
	originX float64
	originY float64
	scaleX  float64
	scaleY  float64
	width   int
	height  int
}

func NewTransform(b Bounds, width int, height int) (Transform, error) {
	if width < 2 {
		return Transform{}, misc.NewConfigError("width", width, "must be at least 2 pixels")
	}
	if height < 2 {
		return Transform{}, misc.NewConfigError("height", height, "must be at least 2 pixels")
	}
	if err := b.Validate(); err != nil {
		return Transform{}, err
	}

	t := Transform{
		originX: b.XMin,
		originY: b.YMax,
		scaleX:  b.Width() / float64(width-1),
		scaleY:  b.Height() / float64(height-1),
		width:   width,
		height:  height,
	}
	if !(t.scaleX > 0) || !(t.scaleY > 0) {
		return Transform{}, misc.NewConfigError("bounds", b, fmt.Sprintf("gives a non-positive scale (%g, %g)", t.scaleX, t.scaleY))
	}
	return t, nil
}

// ToScreen rounds half away from zero onto the pixel grid.
func (t Transform) ToScreen(x, y float64) (int, int) {
	column := misc.Round((x - t.originX) / t.scaleX)
	row := misc.Round((t.originY - y) / t.scaleY)
	return column, row
}

func (t Transform) ToWorld(column, row int) (float64, float64) {
	x := float64(column)*t.scaleX + t.originX
	y := t.originY - float64(row)*t.scaleY
	return x, y
}

func (t Transform) ScreenPoint(p WorldPoint) ScreenPoint {
	column, row := t.ToScreen(p.X, p.Y)
	return ScreenPoint{Column: column, Row: row}
}

func (t Transform) WorldPoint(p ScreenPoint) WorldPoint {
	x, y := t.ToWorld(p.Column, p.Row)
	return WorldPoint{X: x, Y: y}
}

func (t Transform) Scale() (float64, float64) {
	return t.scaleX, t.scaleY
}

func (t Transform) Dimensions() (int, int) {
	return t.width, t.height
}

func (t Transform) String() string {
	output := "{Transform "
	output += fmt.Sprintf("OriginX: %f ", t.originX)
	output += fmt.Sprintf("OriginY: %f ", t.originY)
	output += fmt.Sprintf("ScaleX: %g ", t.scaleX)
	output += fmt.Sprintf("ScaleY: %g}", t.scaleY)
	return output
}
