package surface

import (
	"image"
	"image/color"
	"image/draw"
)

var Black = color.RGBA{A: 255}

// Raster is a Display backed by an RGBA image. Every Flush passes the image
// to the registered hooks, which must not keep it past the call.
type Raster struct {
	background color.RGBA
	flushes    int
	hooks      []func(*image.RGBA)
	img        *image.RGBA
	projection Projection
}

func NewRaster(width int, height int, projection Projection, background color.RGBA) *Raster {
	r := &Raster{
		background: background,
		img:        image.NewRGBA(image.Rect(0, 0, width, height)),
		projection: projection,
	}
	r.Clear()
	return r
}

func (r *Raster) OnFlush(hook func(*image.RGBA)) {
	r.hooks = append(r.hooks, hook)
}

func (r *Raster) Plot(x float64, y float64, c color.RGBA) {
	if !r.projection.Bounds().Contains(x, y) {
		return
	}
	column, row := r.projection.Transform().ToScreen(x, y)
	if !(image.Point{X: column, Y: row}).In(r.img.Rect) {
		return
	}
	r.img.SetRGBA(column, row, c)
}

func (r *Raster) Clear() {
	draw.Draw(r.img, r.img.Rect, &image.Uniform{C: r.background}, image.Point{}, draw.Src)
}

func (r *Raster) Flush() {
	r.flushes++
	for _, hook := range r.hooks {
		hook(r.img)
	}
}

func (r *Raster) Dimensions() (int, int) {
	return r.img.Rect.Dx(), r.img.Rect.Dy()
}

// At reads back one pixel in screen coordinates.
func (r *Raster) At(column int, row int) color.RGBA {
	return r.img.RGBAAt(column, row)
}

// Flushes counts the Flush calls since the raster was created.
func (r *Raster) Flushes() int {
	return r.flushes
}

// Image returns a copy of the current pixels.
func (r *Raster) Image() *image.RGBA {
	out := image.NewRGBA(r.img.Rect)
	copy(out.Pix, r.img.Pix)
	return out
}

// Paint runs fn on the live pixels. Nothing is flushed.
func (r *Raster) Paint(fn func(img *image.RGBA) error) error {
	return fn(r.img)
}
