package viewport

import (
	"errors"
	"fmt"

	"NewtonsFractal/plane"

	"github.com/BrugadaSyndrome/bslogger"
)

var ErrDegenerateZoom = errors.New("zoom rectangle has no area")

// Viewport owns the world region shown on a fixed size raster. The logical
// bounds, the margin expanded bounds and the transform are always replaced
// together.
type Viewport struct {
	defaults  plane.Bounds
	expanded  plane.Bounds
	height    int
	history   history
	logger    bslogger.Logger
	logical   plane.Bounds
	margin    plane.Margin
	onChange  []func(plane.Bounds)
	transform plane.Transform
	width     int
}

func NewViewport(width int, height int, defaults plane.Bounds, margin plane.Margin, logger bslogger.Logger) (*Viewport, error) {
	v := &Viewport{
		height: height,
		logger: logger,
		margin: margin.Clamped(),
		width:  width,
	}

	var err error
	v.defaults, err = plane.NewBounds(defaults.XMin, defaults.YMin, defaults.XMax, defaults.YMax)
	if err != nil {
		return nil, fmt.Errorf("default bounds: %w", err)
	}
	if err = v.SetBounds(v.defaults.XMin, v.defaults.YMin, v.defaults.XMax, v.defaults.YMax); err != nil {
		return nil, err
	}
	return v, nil
}

// OnChange registers a hook run after every successful bounds or margin change.
func (v *Viewport) OnChange(hook func(plane.Bounds)) {
	v.onChange = append(v.onChange, hook)
}

// SetBounds makes (x1, y1)-(x2, y2) the logical bounds. The zoom history is
// left untouched. On error the previous state is kept.
func (v *Viewport) SetBounds(x1, y1, x2, y2 float64) error {
	logical, err := plane.NewBounds(x1, y1, x2, y2)
	if err != nil {
		return err
	}
	return v.apply(logical, v.margin)
}

// ZoomIn pushes the current bounds onto the history and shows the rectangle
// spanned by the two corners.
func (v *Viewport) ZoomIn(a plane.WorldPoint, b plane.WorldPoint) error {
	if a.X == b.X || a.Y == b.Y {
		return fmt.Errorf("%w: corners (%g, %g) and (%g, %g)", ErrDegenerateZoom, a.X, a.Y, b.X, b.Y)
	}

	v.history.push(v.logical)
	if err := v.SetBounds(a.X, a.Y, b.X, b.Y); err != nil {
		v.history.pop()
		return err
	}
	v.logger.Infof("Zoomed in to %s", v.logical)
	return nil
}

// ZoomOut drops the whole history and returns to the default bounds.
func (v *Viewport) ZoomOut() error {
	v.logger.Infof("Zooming out to %s", v.defaults)
	if err := v.SetBounds(v.defaults.XMin, v.defaults.YMin, v.defaults.XMax, v.defaults.YMax); err != nil {
		return err
	}
	v.history.clear()
	return nil
}

// SetMargin clamps m and recomputes the transform from the logical bounds.
func (v *Viewport) SetMargin(m plane.Margin) error {
	clamped := m.Clamped()
	if clamped != m {
		v.logger.Warningf("Margin %+v is outside [0, 0.5), using %+v", m, clamped)
	}
	return v.apply(v.logical, clamped)
}

func (v *Viewport) apply(logical plane.Bounds, margin plane.Margin) error {
	expanded := logical.Expand(margin)
	transform, err := plane.NewTransform(expanded, v.width, v.height)
	if err != nil {
		return err
	}

	v.logical = logical
	v.margin = margin
	v.expanded = expanded
	v.transform = transform
	v.logger.Debugf("Bounds %s expanded to %s", logical, expanded)

	for _, hook := range v.onChange {
		hook(logical)
	}
	return nil
}

// Bounds is the logical region, before margin expansion.
func (v *Viewport) Bounds() plane.Bounds {
	return v.logical
}

// Expanded is the region the transform maps onto the raster.
func (v *Viewport) Expanded() plane.Bounds {
	return v.expanded
}

func (v *Viewport) Default() plane.Bounds {
	return v.defaults
}

func (v *Viewport) Margin() plane.Margin {
	return v.margin
}

func (v *Viewport) Transform() plane.Transform {
	return v.transform
}

func (v *Viewport) Dimensions() (int, int) {
	return v.width, v.height
}

// History returns the zoom history, oldest first.
func (v *Viewport) History() []plane.Bounds {
	return v.history.list()
}

func (v *Viewport) String() string {
	output := "{Viewport "
	output += fmt.Sprintf("Bounds: %s ", v.logical)
	output += fmt.Sprintf("Margin: %+v ", v.margin)
	output += fmt.Sprintf("Size: %dx%d ", v.width, v.height)
	output += fmt.Sprintf("Zoom Depth: %d}", v.history.len())
	return output
}
