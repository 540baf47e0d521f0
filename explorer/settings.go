package explorer

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"NewtonsFractal/fractal"
	"NewtonsFractal/misc"
	"NewtonsFractal/plane"
	"NewtonsFractal/surface"

	"github.com/BrugadaSyndrome/bslogger"
)

const (
	defaultFunctionID    = 3
	defaultFrameInterval = 100
	defaultHeight        = 400
	defaultRpcPort       = "51000"
	defaultWebPort       = "8080"
	defaultWidth         = 400
)

var defaultBounds = plane.Bounds{XMin: -5, YMin: -5, XMax: 5, YMax: 5}

type Settings struct {
	logger bslogger.Logger

	Axes            string
	DefaultBounds   plane.Bounds
	FrameIntervalMs int
	FunctionID      int
	Height          int
	Margin          plane.Margin
	Params          fractal.Params
	RootDots        bool
	RpcAddress      string
	RunName         string
	SavePath        string
	Verbose         bool
	WebAddress      string
	Width           int
}

// NewSettings reads a JSON settings file and fills in defaults. An empty
// file name gives the defaults alone.
func NewSettings(settingsFile string) (Settings, error) {
	s := Settings{
		logger: misc.NewLogger("ExplorerSettings", false),
	}
	if settingsFile != "" {
		fileBytes, err := misc.ReadFile(settingsFile)
		if err != nil {
			return s, err
		}
		if err = json.Unmarshal(fileBytes, &s); err != nil {
			return s, fmt.Errorf("parsing settings file %s: %w", settingsFile, err)
		}
	}
	if err := s.Verify(); err != nil {
		return s, err
	}
	s.logger.Debug(s.String())
	return s, nil
}

func (s *Settings) String() string {
	output := "{Settings "
	output += fmt.Sprintf("Width: %d ", s.Width)
	output += fmt.Sprintf("Height: %d ", s.Height)
	output += fmt.Sprintf("DefaultBounds: %s ", s.DefaultBounds)
	output += fmt.Sprintf("Margin: %v ", s.Margin)
	output += fmt.Sprintf("FunctionID: %d ", s.FunctionID)
	output += fmt.Sprintf("Params: %s ", s.Params)
	output += fmt.Sprintf("Axes: %s ", s.Axes)
	output += fmt.Sprintf("RootDots: %t ", s.RootDots)
	output += fmt.Sprintf("WebAddress: %s ", s.WebAddress)
	output += fmt.Sprintf("RpcAddress: %s ", s.RpcAddress)
	output += fmt.Sprintf("FrameIntervalMs: %d ", s.FrameIntervalMs)
	output += fmt.Sprintf("RunName: %s ", s.RunName)
	output += fmt.Sprintf("SavePath: %s}", s.SavePath)
	return output
}

// Verify replaces zero values with defaults and rejects what is left invalid.
func (s *Settings) Verify() error {
	if s.Width == 0 {
		s.Width = defaultWidth
	}
	if s.Height == 0 {
		s.Height = defaultHeight
	}
	if s.Width < 2 {
		return misc.NewConfigError("width", s.Width, "must be at least 2")
	}
	if s.Height < 2 {
		return misc.NewConfigError("height", s.Height, "must be at least 2")
	}

	if s.DefaultBounds == (plane.Bounds{}) {
		s.DefaultBounds = defaultBounds
	}
	bounds, err := plane.NewBounds(s.DefaultBounds.XMin, s.DefaultBounds.YMin, s.DefaultBounds.XMax, s.DefaultBounds.YMax)
	if err != nil {
		return err
	}
	s.DefaultBounds = bounds

	s.Margin = s.Margin.Clamped()

	if s.FunctionID == 0 {
		s.FunctionID = defaultFunctionID
	}
	if err = s.Params.Verify(); err != nil {
		return err
	}

	if s.Axes == "" {
		s.Axes = surface.NoAxes.String()
	}
	if _, err = surface.ParseAxes(s.Axes); err != nil {
		return err
	}

	if s.FrameIntervalMs == 0 {
		s.FrameIntervalMs = defaultFrameInterval
	}
	if s.FrameIntervalMs < 0 {
		return misc.NewConfigError("frameIntervalMs", s.FrameIntervalMs, "must not be negative")
	}

	if s.RunName == "" {
		s.RunName = "run_" + time.Now().Format("2006_01_02-03_04_05")
	}
	if s.SavePath == "" {
		s.SavePath, _ = os.Getwd()
	}
	if s.WebAddress == "" {
		s.WebAddress = fmt.Sprintf("%s:%s", misc.GetListenAddress(), defaultWebPort)
	}
	if s.RpcAddress == "" {
		s.RpcAddress = fmt.Sprintf("%s:%s", misc.GetListenAddress(), defaultRpcPort)
	}
	return nil
}

// FrameInterval is the minimum time between frames sent to web clients.
func (s *Settings) FrameInterval() time.Duration {
	return time.Duration(s.FrameIntervalMs) * time.Millisecond
}

// Overlay builds the overlay the settings describe. Verify must have passed.
func (s *Settings) Overlay() surface.Overlay {
	axes, _ := surface.ParseAxes(s.Axes)
	return surface.Overlay{
		Axes:      axes,
		AxisColor: surface.Black,
		RootDots:  s.RootDots,
	}
}
