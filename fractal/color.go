package fractal

import (
	"encoding/json"
	"fmt"
	"image/color"

	"NewtonsFractal/misc"
	"NewtonsFractal/newton"
)

const (
	Gradient Mode = iota
	NearestRoot
)

// Mode selects how samples are iterated and colored.
type Mode int

func (m Mode) String() string {
	switch m {
	case Gradient:
		return "gradient"
	case NearestRoot:
		return "nearest-root"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

func ParseMode(s string) (Mode, error) {
	switch s {
	case "gradient":
		return Gradient, nil
	case "nearest-root":
		return NearestRoot, nil
	default:
		return Gradient, misc.NewConfigError("mode", s, "must be gradient or nearest-root")
	}
}

func (m Mode) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.String())
}

func (m *Mode) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseMode(s)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// ColorFor colors a finished sample by the root nearest to value.
//
// In Gradient mode each channel is
//
//	(255 - |round(iterations / maxIterations * multiplier * base)|) mod 255
//
// where the modulo wraps rather than clamps, so fast and slow basins band.
// NearestRoot returns the base color untouched.
func ColorFor(value complex128, fn newton.Function, iterations int, maxIterations int, mode Mode, multiplier float64) color.RGBA {
	index, _ := fn.NearestRoot(value)
	base := fn.Color(index)
	if mode == NearestRoot {
		return base
	}

	fraction := 0.0
	if maxIterations > 0 {
		fraction = float64(iterations) / float64(maxIterations)
	}
	channel := func(c uint8) uint8 {
		scaled := misc.Abs(misc.Round(fraction * multiplier * float64(c)))
		return uint8(misc.FloorMod(255-scaled, 255))
	}
	return color.RGBA{R: channel(base.R), G: channel(base.G), B: channel(base.B), A: 255}
}
