package surface

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"NewtonsFractal/newton"

	"github.com/gogpu/gg"
)

const (
	NoAxes Axes = iota
	ClassicAxes
	BoxAxes
)

// Axes selects the guide lines drawn over a render.
type Axes int

func (a Axes) String() string {
	return []string{
		"none", "classic", "box",
	}[a]
}

func ParseAxes(s string) (Axes, error) {
	switch s {
	case "", "none":
		return NoAxes, nil
	case "classic":
		return ClassicAxes, nil
	case "box":
		return BoxAxes, nil
	default:
		return NoAxes, fmt.Errorf("unknown axes %q", s)
	}
}

const (
	// boxInset is the fraction of each span the box guides sit inside the edges.
	boxInset = 0.1
	// dotSizeRatio sizes root dots relative to the x span.
	dotSizeRatio = 0.01
)

// Overlay draws root markers and axis guides on top of a finished render.
type Overlay struct {
	Axes      Axes
	AxisColor color.RGBA
	RootDots  bool
}

func (o Overlay) Enabled() bool {
	return o.RootDots || o.Axes != NoAxes
}

// Draw paints the overlay onto img, which must match the projection's raster.
func (o Overlay) Draw(img *image.RGBA, projection Projection, fn newton.Function) error {
	if !o.Enabled() {
		return nil
	}

	dc := gg.NewContextForImage(img)
	defer dc.Close()

	t := projection.Transform()
	b := projection.Bounds()
	line := func(x1, y1, x2, y2 float64) error {
		c1, r1 := t.ToScreen(x1, y1)
		c2, r2 := t.ToScreen(x2, y2)
		dc.DrawLine(float64(c1), float64(r1), float64(c2), float64(r2))
		return dc.Stroke()
	}

	dc.SetColor(o.AxisColor)
	dc.SetLineWidth(1)
	dc.SetDash(2, 2)
	var err error
	switch o.Axes {
	case ClassicAxes:
		if err = line(b.XMin, 0, b.XMax, 0); err == nil {
			err = line(0, b.YMin, 0, b.YMax)
		}
	case BoxAxes:
		dx := boxInset * b.Width()
		dy := boxInset * b.Height()
		segments := [][4]float64{
			{b.XMin, b.YMax - dy, b.XMax, b.YMax - dy},
			{b.XMin, b.YMin + dy, b.XMax, b.YMin + dy},
			{b.XMin + dx, b.YMin, b.XMin + dx, b.YMax},
			{b.XMax - dx, b.YMin, b.XMax - dx, b.YMax},
		}
		for _, s := range segments {
			if err = line(s[0], s[1], s[2], s[3]); err != nil {
				break
			}
		}
	}
	if err != nil {
		return fmt.Errorf("drawing axes: %w", err)
	}
	dc.ClearDash()

	if o.RootDots {
		scaleX, _ := t.Scale()
		radius := dotSizeRatio * b.Width() / scaleX
		for i := 0; i < fn.RootCount(); i++ {
			root := fn.Root(i)
			column, row := t.ToScreen(real(root), imag(root))
			dc.DrawCircle(float64(column), float64(row), radius)
			dc.SetColor(fn.Color(i))
			if err = dc.FillPreserve(); err != nil {
				return fmt.Errorf("filling root dot %d: %w", i, err)
			}
			dc.SetColor(Black)
			if err = dc.Stroke(); err != nil {
				return fmt.Errorf("outlining root dot %d: %w", i, err)
			}
		}
	}

	draw.Draw(img, img.Rect, dc.Image(), image.Point{}, draw.Src)
	return nil
}
