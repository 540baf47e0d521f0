package viewport

import (
	"errors"
	"math"
	"testing"

	"NewtonsFractal/misc"
	"NewtonsFractal/plane"

	"github.com/BrugadaSyndrome/bslogger"
	"github.com/stretchr/testify/assert"
)

var defaultBounds = plane.Bounds{XMin: -10, YMin: -10, XMax: 10, YMax: 10}

func newTestViewport(t *testing.T, margin plane.Margin) *Viewport {
	v, err := NewViewport(400, 400, defaultBounds, margin, bslogger.NewLogger("Viewport", bslogger.Normal, nil))
	assert.NoError(t, err)
	return v
}

func TestViewport_StartsAtDefaults(t *testing.T) {
	v := newTestViewport(t, plane.Margin{})
	assert.Equal(t, defaultBounds, v.Bounds())
	assert.Equal(t, defaultBounds, v.Expanded())
	assert.Empty(t, v.History())

	col, row := v.Transform().ToScreen(-10, 10)
	assert.Equal(t, 0, col)
	assert.Equal(t, 0, row)
}

func TestViewport_RejectsDegenerateDefaults(t *testing.T) {
	_, err := NewViewport(400, 400, plane.Bounds{XMin: 1, YMin: 0, XMax: 1, YMax: 1}, plane.Margin{}, bslogger.NewLogger("Viewport", bslogger.Normal, nil))
	assert.True(t, errors.Is(err, misc.ErrConfiguration))

	_, err = NewViewport(1, 400, defaultBounds, plane.Margin{}, bslogger.NewLogger("Viewport", bslogger.Normal, nil))
	assert.True(t, errors.Is(err, misc.ErrConfiguration))
}

func TestViewport_ZoomInRejectsIdenticalCorners(t *testing.T) {
	v := newTestViewport(t, plane.Margin{})
	changes := 0
	v.OnChange(func(plane.Bounds) { changes++ })

	points := []plane.WorldPoint{{X: 0, Y: 0}, {X: 3.5, Y: -2}, {X: -10, Y: 10}}
	for _, p := range points {
		err := v.ZoomIn(p, p)
		assert.True(t, errors.Is(err, ErrDegenerateZoom))
	}

	err := v.ZoomIn(plane.WorldPoint{X: 1, Y: 1}, plane.WorldPoint{X: 1, Y: 4})
	assert.True(t, errors.Is(err, ErrDegenerateZoom))
	err = v.ZoomIn(plane.WorldPoint{X: 1, Y: 1}, plane.WorldPoint{X: 4, Y: 1})
	assert.True(t, errors.Is(err, ErrDegenerateZoom))

	assert.Equal(t, defaultBounds, v.Bounds())
	assert.Empty(t, v.History())
	assert.Equal(t, 0, changes)
}

func TestViewport_ZoomInToUnitSquare(t *testing.T) {
	v := newTestViewport(t, plane.Margin{Horizontal: 0.1, Vertical: 0.2})
	var seen []plane.Bounds
	v.OnChange(func(b plane.Bounds) { seen = append(seen, b) })

	err := v.ZoomIn(plane.WorldPoint{X: 0, Y: 0}, plane.WorldPoint{X: 1, Y: 1})
	assert.NoError(t, err)

	unit := plane.Bounds{XMin: 0, YMin: 0, XMax: 1, YMax: 1}
	assert.Equal(t, unit, v.Bounds())
	assert.Equal(t, unit.Expand(plane.Margin{Horizontal: 0.1, Vertical: 0.2}), v.Expanded())
	assert.Equal(t, []plane.Bounds{defaultBounds}, v.History())
	assert.Equal(t, []plane.Bounds{unit}, seen)

	// The transform follows the expanded bounds.
	col, row := v.Transform().ToScreen(v.Expanded().XMin, v.Expanded().YMax)
	assert.Equal(t, 0, col)
	assert.Equal(t, 0, row)
}

func TestViewport_ZoomInNormalizesCorners(t *testing.T) {
	v := newTestViewport(t, plane.Margin{})
	assert.NoError(t, v.ZoomIn(plane.WorldPoint{X: 2, Y: -1}, plane.WorldPoint{X: -3, Y: 4}))
	assert.Equal(t, plane.Bounds{XMin: -3, YMin: -1, XMax: 2, YMax: 4}, v.Bounds())

	assert.NoError(t, v.ZoomIn(plane.WorldPoint{X: 0, Y: 0}, plane.WorldPoint{X: 1, Y: 1}))
	assert.Len(t, v.History(), 2)
	assert.Equal(t, plane.Bounds{XMin: -3, YMin: -1, XMax: 2, YMax: 4}, v.History()[1])
}

func TestViewport_ZoomOutIsIdempotent(t *testing.T) {
	v := newTestViewport(t, plane.Margin{})
	assert.NoError(t, v.ZoomIn(plane.WorldPoint{X: 0, Y: 0}, plane.WorldPoint{X: 1, Y: 1}))
	assert.NoError(t, v.ZoomIn(plane.WorldPoint{X: 0.2, Y: 0.2}, plane.WorldPoint{X: 0.4, Y: 0.3}))

	assert.NoError(t, v.ZoomOut())
	once := v.Bounds()
	onceTransform := v.Transform()
	assert.NoError(t, v.ZoomOut())

	assert.Equal(t, defaultBounds, once)
	assert.Equal(t, once, v.Bounds())
	assert.Equal(t, onceTransform, v.Transform())
	assert.Empty(t, v.History())
}

func TestViewport_SetBoundsKeepsHistory(t *testing.T) {
	v := newTestViewport(t, plane.Margin{})
	assert.NoError(t, v.ZoomIn(plane.WorldPoint{X: 0, Y: 0}, plane.WorldPoint{X: 1, Y: 1}))
	assert.NoError(t, v.SetBounds(5, 5, -5, -5))
	assert.Equal(t, plane.Bounds{XMin: -5, YMin: -5, XMax: 5, YMax: 5}, v.Bounds())
	assert.Len(t, v.History(), 1)
}

func TestViewport_SetBoundsFailureKeepsState(t *testing.T) {
	v := newTestViewport(t, plane.Margin{})
	before := v.Transform()
	err := v.SetBounds(1, 1, 1, 2)
	assert.True(t, errors.Is(err, misc.ErrConfiguration))
	assert.Equal(t, defaultBounds, v.Bounds())
	assert.Equal(t, before, v.Transform())
}

func TestViewport_SetMarginClampsAndRepaints(t *testing.T) {
	v := newTestViewport(t, plane.Margin{})
	changes := 0
	v.OnChange(func(plane.Bounds) { changes++ })

	assert.NoError(t, v.SetMargin(plane.Margin{Horizontal: 0.25, Vertical: 0.7}))
	assert.Equal(t, plane.Margin{Horizontal: 0.25, Vertical: 0}, v.Margin())
	assert.Equal(t, defaultBounds, v.Bounds())
	assert.Equal(t, plane.Bounds{XMin: -15, YMin: -10, XMax: 15, YMax: 10}, v.Expanded())
	assert.Equal(t, 1, changes)

	// Margins do not compound on repeated calls.
	assert.NoError(t, v.SetMargin(plane.Margin{Horizontal: 0.25}))
	assert.Equal(t, plane.Bounds{XMin: -15, YMin: -10, XMax: 15, YMax: 10}, v.Expanded())
}

func TestViewport_ZoomInRecordsHistoryBeforeHooks(t *testing.T) {
	v := newTestViewport(t, plane.Margin{})
	var depths []int
	v.OnChange(func(plane.Bounds) {
		depths = append(depths, len(v.History()))
	})

	assert.NoError(t, v.ZoomIn(plane.WorldPoint{X: 0, Y: 0}, plane.WorldPoint{X: 1, Y: 1}))
	assert.NoError(t, v.ZoomIn(plane.WorldPoint{X: 0, Y: 0}, plane.WorldPoint{X: 0.5, Y: 0.5}))
	assert.Equal(t, []int{1, 2}, depths)
}

func TestViewport_FailedZoomInLeavesHistory(t *testing.T) {
	v := newTestViewport(t, plane.Margin{})
	err := v.ZoomIn(plane.WorldPoint{X: math.NaN(), Y: 0}, plane.WorldPoint{X: 1, Y: 1})
	assert.True(t, errors.Is(err, misc.ErrConfiguration))
	assert.Empty(t, v.History())
	assert.Equal(t, defaultBounds, v.Bounds())
}
