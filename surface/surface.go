// Package surface holds the display and input contracts the renderer draws
// through, and the in-memory raster that implements them.
package surface

import (
	"context"
	"image/color"

	"NewtonsFractal/plane"
)

// Display is a pixel sink addressed in world coordinates.
type Display interface {
	// Plot writes one pixel. Points outside the current bounds are ignored.
	Plot(x float64, y float64, c color.RGBA)
	Clear()
	// Flush makes buffered drawing visible. It is called once per rendered
	// column and must be cheap.
	Flush()
	Dimensions() (int, int)
}

// Input blocks until the user selects a point.
type Input interface {
	BlockingPoint(ctx context.Context) (plane.WorldPoint, error)
}

// Projection is the view a surface translates world coordinates through.
type Projection interface {
	Bounds() plane.Bounds
	Transform() plane.Transform
}
