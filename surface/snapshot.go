package surface

import (
	"fmt"
	"image"
	"io"
	"path/filepath"
	"strings"

	"NewtonsFractal/misc"

	"github.com/disintegration/imaging"
	"golang.org/x/image/bmp"
)

// Encode writes img to w in the format named by the extension of name,
// png when name has none. A scale above 1 enlarges each pixel to a
// scale x scale block first.
func Encode(w io.Writer, name string, img image.Image, scale int) error {
	if scale > 1 {
		b := img.Bounds()
		img = imaging.Resize(img, b.Dx()*scale, b.Dy()*scale, imaging.NearestNeighbor)
	}

	ext := strings.ToLower(filepath.Ext(name))
	switch ext {
	case "":
		return imaging.Encode(w, img, imaging.PNG)
	case ".bmp":
		return bmp.Encode(w, img)
	default:
		format, err := imaging.FormatFromExtension(ext)
		if err != nil {
			return fmt.Errorf("unsupported image format %q: %w", ext, err)
		}
		return imaging.Encode(w, img, format, imaging.JPEGQuality(100))
	}
}

// Save encodes img into the file at path, creating its directory.
func Save(path string, img image.Image, scale int) error {
	file, err := misc.CreateFile(filepath.Dir(path), path)
	if err != nil {
		return err
	}
	if err = Encode(file, path, img, scale); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}
