package explorer

import (
	"context"
	"errors"
	"image"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"NewtonsFractal/fractal"
	"NewtonsFractal/misc"
	"NewtonsFractal/plane"
	"NewtonsFractal/surface"
	"NewtonsFractal/viewport"

	"github.com/stretchr/testify/assert"
)

type fakeInput struct {
	asked  chan struct{}
	points chan plane.WorldPoint
}

func newFakeInput(points ...plane.WorldPoint) *fakeInput {
	in := &fakeInput{
		asked:  make(chan struct{}, 16),
		points: make(chan plane.WorldPoint, len(points)),
	}
	for _, p := range points {
		in.points <- p
	}
	return in
}

func (in *fakeInput) BlockingPoint(ctx context.Context) (plane.WorldPoint, error) {
	in.asked <- struct{}{}
	select {
	case p := <-in.points:
		return p, nil
	case <-ctx.Done():
		return plane.WorldPoint{}, ctx.Err()
	}
}

func testSettings(t *testing.T) Settings {
	return Settings{
		DefaultBounds: plane.Bounds{XMin: -2, YMin: -2, XMax: 2, YMax: 2},
		Height:        32,
		Params:        fractal.Params{MaxIterations: 20, Sweeps: 2},
		RunName:       "test",
		SavePath:      t.TempDir(),
		Width:         32,
	}
}

func newTestExplorer(t *testing.T) *Explorer {
	e, err := NewExplorer(testSettings(t))
	assert.NoError(t, err)
	return e
}

func TestNewSettings_Defaults(t *testing.T) {
	s, err := NewSettings("")
	assert.NoError(t, err)
	assert.Equal(t, 400, s.Width)
	assert.Equal(t, 400, s.Height)
	assert.Equal(t, plane.Bounds{XMin: -5, YMin: -5, XMax: 5, YMax: 5}, s.DefaultBounds)
	assert.Equal(t, 3, s.FunctionID)
	assert.Equal(t, fractal.DefaultParams(), s.Params)
	assert.Equal(t, "none", s.Axes)
	assert.Equal(t, 100*time.Millisecond, s.FrameInterval())
	assert.NotEmpty(t, s.RunName)
	assert.NotEmpty(t, s.WebAddress)
	assert.NotEmpty(t, s.RpcAddress)
}

func TestNewSettings_File(t *testing.T) {
	file := filepath.Join(t.TempDir(), "settings.json")
	content := `{
		"Width": 64,
		"Height": 48,
		"DefaultBounds": {"XMin": 3, "YMin": 1, "XMax": -3, "YMax": -1},
		"Margin": {"Horizontal": 0.1, "Vertical": 0.9},
		"FunctionID": 1,
		"Params": {"Mode": "nearest-root", "Sweeps": 2},
		"Axes": "box",
		"RootDots": true
	}`
	assert.NoError(t, os.WriteFile(file, []byte(content), 0644))

	s, err := NewSettings(file)
	assert.NoError(t, err)
	assert.Equal(t, 64, s.Width)
	assert.Equal(t, 48, s.Height)
	assert.Equal(t, plane.Bounds{XMin: -3, YMin: -1, XMax: 3, YMax: 1}, s.DefaultBounds)
	assert.Equal(t, plane.Margin{Horizontal: 0.1, Vertical: 0}, s.Margin)
	assert.Equal(t, 1, s.FunctionID)
	assert.Equal(t, fractal.NearestRoot, s.Params.Mode)
	assert.Equal(t, 2, s.Params.Sweeps)
	assert.Equal(t, fractal.DefaultMaxIterations, s.Params.MaxIterations)
	assert.Equal(t, surface.Overlay{Axes: surface.BoxAxes, AxisColor: surface.Black, RootDots: true}, s.Overlay())
}

func TestNewSettings_Rejects(t *testing.T) {
	dir := t.TempDir()
	testCases := map[string]string{
		"axes":     `{"Axes": "spiral"}`,
		"width":    `{"Width": 1}`,
		"bounds":   `{"DefaultBounds": {"XMin": 1, "YMin": -1, "XMax": 1, "YMax": 1}}`,
		"params":   `{"Params": {"Resolution": 9}}`,
		"interval": `{"FrameIntervalMs": -5}`,
		"json":     `{"Width": `,
	}
	for name, content := range testCases {
		file := filepath.Join(dir, name+".json")
		assert.NoError(t, os.WriteFile(file, []byte(content), 0644))
		_, err := NewSettings(file)
		assert.Error(t, err, name)
	}

	_, err := NewSettings(filepath.Join(dir, "missing.json"))
	assert.Error(t, err)

	_, err = NewSettings(filepath.Join(dir, "width.json"))
	assert.True(t, errors.Is(err, misc.ErrConfiguration))
}

func TestParseCommand(t *testing.T) {
	testCases := []struct {
		line     string
		expected Command
	}{
		{"draw", Command{Kind: Draw}},
		{"clear", Command{Kind: Clear}},
		{"toggle-mode", Command{Kind: ToggleMode}},
		{"zoom-out", Command{Kind: ZoomOut}},
		{"zoom-in", Command{Kind: ZoomIn}},
		{" zoom-in 0 1  1 0 ", Command{Kind: ZoomIn, Corners: []plane.WorldPoint{{X: 0, Y: 1}, {X: 1, Y: 0}}}},
		{"function 2", Command{Kind: SetFunction, FunctionID: 2}},
		{"params maxIterations=50 mode=nearest-root", Command{Kind: SetParams, Updates: []ParamUpdate{
			{Name: "maxIterations", Value: "50"}, {Name: "mode", Value: "nearest-root"},
		}}},
		{"margin 0.1 0.2", Command{Kind: SetMargin, Margin: plane.Margin{Horizontal: 0.1, Vertical: 0.2}}},
		{"roots", Command{Kind: ToggleRoots}},
		{"axes classic", Command{Kind: SetAxes, Axes: surface.ClassicAxes}},
		{"save out.png", Command{Kind: Save, Path: "out.png", Scale: 1}},
		{"save out.bmp 4", Command{Kind: Save, Path: "out.bmp", Scale: 4}},
	}
	for _, tc := range testCases {
		command, err := ParseCommand(tc.line)
		assert.NoError(t, err, tc.line)
		assert.Equal(t, tc.expected, command, tc.line)
	}

	for _, line := range []string{
		"", "explode", "draw now", "zoom-in 1 2 3", "zoom-in a b c d", "function", "function x",
		"params", "params sweeps", "margin 0.1", "axes diagonal", "save", "save a.png 0",
	} {
		_, err := ParseCommand(line)
		assert.Error(t, err, line)
	}
}

func TestExplorer_Draw(t *testing.T) {
	e := newTestExplorer(t)
	frames := 0
	e.OnFrame(func(*image.RGBA) { frames++ })

	assert.NoError(t, e.Execute(context.Background(), Command{Kind: Draw}))
	state := e.State()
	assert.Equal(t, 32*32, state.Last.Samples)
	assert.False(t, state.Last.Canceled)
	assert.Equal(t, 32, frames)
	assert.Equal(t, "z*z*z*z-1", state.Expression)
}

func TestExplorer_ZoomWithCorners(t *testing.T) {
	e := newTestExplorer(t)
	command, err := ParseCommand("zoom-in 1 0 0 1")
	assert.NoError(t, err)

	assert.NoError(t, e.Execute(context.Background(), command))
	state := e.State()
	assert.Equal(t, plane.Bounds{XMin: 0, YMin: 0, XMax: 1, YMax: 1}, state.Bounds)
	assert.Equal(t, []plane.Bounds{{XMin: -2, YMin: -2, XMax: 2, YMax: 2}}, state.History)
	assert.Equal(t, 32*32, state.Last.Samples)

	assert.NoError(t, e.Execute(context.Background(), Command{Kind: ZoomOut}))
	state = e.State()
	assert.Equal(t, plane.Bounds{XMin: -2, YMin: -2, XMax: 2, YMax: 2}, state.Bounds)
	assert.Empty(t, state.History)
}

func TestExplorer_DegenerateCornersAreRejected(t *testing.T) {
	e := newTestExplorer(t)
	command := Command{Kind: ZoomIn, Corners: []plane.WorldPoint{{X: 1, Y: 0}, {X: 1, Y: 2}}}

	err := e.Execute(context.Background(), command)
	assert.True(t, errors.Is(err, viewport.ErrDegenerateZoom))
	assert.Equal(t, plane.Bounds{XMin: -2, YMin: -2, XMax: 2, YMax: 2}, e.State().Bounds)
	assert.Equal(t, 0, e.State().Last.Samples)
}

func TestExplorer_PromptedZoomAsksAgain(t *testing.T) {
	e := newTestExplorer(t)
	input := newFakeInput(
		plane.WorldPoint{X: 0, Y: 0},
		plane.WorldPoint{X: 0, Y: 1},
		plane.WorldPoint{X: 1, Y: 1},
	)
	e.SetInput(input)

	assert.NoError(t, e.Execute(context.Background(), Command{Kind: ZoomIn}))
	assert.Equal(t, plane.Bounds{XMin: 0, YMin: 0, XMax: 1, YMax: 1}, e.State().Bounds)
	assert.Len(t, input.asked, 3)
}

func TestExplorer_PromptWithoutInput(t *testing.T) {
	e := newTestExplorer(t)
	err := e.Execute(context.Background(), Command{Kind: ZoomIn})
	assert.True(t, errors.Is(err, ErrNoInput))
}

func TestExplorer_Params(t *testing.T) {
	e := newTestExplorer(t)
	command, err := ParseCommand("params maxIterations=10 sweeps=1 colorMultiplier=2.5")
	assert.NoError(t, err)
	assert.NoError(t, e.Execute(context.Background(), command))

	params := e.State().Params
	assert.Equal(t, 10, params.MaxIterations)
	assert.Equal(t, 1, params.Sweeps)
	assert.Equal(t, 2.5, params.ColorMultiplier)

	command, err = ParseCommand("params resolution=6")
	assert.NoError(t, err)
	assert.Error(t, e.Execute(context.Background(), command))
	assert.Equal(t, params, e.State().Params)

	// zero selects the default, as it does in a settings file
	command, err = ParseCommand("params colorMultiplier=0 maxIterations=0")
	assert.NoError(t, err)
	assert.NoError(t, e.Execute(context.Background(), command))
	assert.Equal(t, float64(fractal.DefaultColorMultiplier), e.State().Params.ColorMultiplier)
	assert.Equal(t, fractal.DefaultMaxIterations, e.State().Params.MaxIterations)

	command, err = ParseCommand("params colorMultiplier=+Inf")
	assert.NoError(t, err)
	assert.Error(t, e.Execute(context.Background(), command))

	command, err = ParseCommand("params depth=3")
	assert.NoError(t, err)
	assert.Error(t, e.Execute(context.Background(), command))

	replacement := fractal.DefaultParams()
	replacement.MaxIterations = 7
	assert.NoError(t, e.Execute(context.Background(), Command{Kind: SetParams, Params: &replacement}))
	assert.Equal(t, replacement, e.State().Params)
}

func TestExplorer_ToggleModeAndFunction(t *testing.T) {
	e := newTestExplorer(t)

	assert.NoError(t, e.Execute(context.Background(), Command{Kind: ToggleMode}))
	assert.Equal(t, fractal.NearestRoot, e.State().Params.Mode)
	assert.NoError(t, e.Execute(context.Background(), Command{Kind: ToggleMode}))
	assert.Equal(t, fractal.Gradient, e.State().Params.Mode)

	assert.NoError(t, e.Execute(context.Background(), Command{Kind: SetFunction, FunctionID: 1}))
	assert.Equal(t, 1, e.State().FunctionID)
	assert.Equal(t, "(z-1)*(z+1)", e.State().Expression)

	err := e.Execute(context.Background(), Command{Kind: SetFunction, FunctionID: 42})
	assert.True(t, errors.Is(err, misc.ErrConfiguration))
	assert.Equal(t, 1, e.State().FunctionID)
}

func TestExplorer_MarginRedraws(t *testing.T) {
	e := newTestExplorer(t)
	assert.NoError(t, e.Execute(context.Background(), Command{Kind: SetMargin, Margin: plane.Margin{Horizontal: 0.25, Vertical: 0.25}}))

	state := e.State()
	assert.Equal(t, plane.Bounds{XMin: -3, YMin: -3, XMax: 3, YMax: 3}, state.Expanded)
	assert.Equal(t, plane.Bounds{XMin: -2, YMin: -2, XMax: 2, YMax: 2}, state.Bounds)
	assert.Equal(t, 32*32, state.Last.Samples)

	// the margin is left at the background color
	img := e.Image()
	assert.Equal(t, surface.Black, img.RGBAAt(0, 0))
	assert.Equal(t, surface.Black, img.RGBAAt(31, 31))
}

func TestExplorer_ClearKeepsState(t *testing.T) {
	e := newTestExplorer(t)
	assert.NoError(t, e.Execute(context.Background(), Command{Kind: Draw}))
	last := e.State().Last

	assert.NoError(t, e.Execute(context.Background(), Command{Kind: Clear}))
	assert.Equal(t, last, e.State().Last)
	img := e.Image()
	for i := 0; i < len(img.Pix); i += 4 {
		assert.Equal(t, uint8(0), img.Pix[i])
		assert.Equal(t, uint8(0), img.Pix[i+1])
		assert.Equal(t, uint8(0), img.Pix[i+2])
	}
}

func TestExplorer_OverlayChangesFrame(t *testing.T) {
	e := newTestExplorer(t)
	assert.NoError(t, e.Execute(context.Background(), Command{Kind: Draw}))
	plain := e.Image()

	assert.NoError(t, e.Execute(context.Background(), Command{Kind: SetAxes, Axes: surface.ClassicAxes}))
	assert.Equal(t, "classic", e.State().Axes)
	assert.NotEqual(t, plain.Pix, e.Image().Pix)

	assert.NoError(t, e.Execute(context.Background(), Command{Kind: ToggleRoots}))
	assert.True(t, e.State().RootDots)
}

func TestExplorer_Save(t *testing.T) {
	settings := testSettings(t)
	e, err := NewExplorer(settings)
	assert.NoError(t, err)
	assert.NoError(t, e.Execute(context.Background(), Command{Kind: Draw}))

	assert.NoError(t, e.Execute(context.Background(), Command{Kind: Save, Path: "frame.png", Scale: 2}))
	info, err := os.Stat(filepath.Join(settings.SavePath, settings.RunName, "frame.png"))
	assert.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}

func TestExplorer_SaveStaysInSavePath(t *testing.T) {
	settings := testSettings(t)
	e, err := NewExplorer(settings)
	assert.NoError(t, err)
	outside := t.TempDir()

	for _, name := range []string{
		filepath.Join(outside, "outside.png"),
		"../escaped.png",
		"nested/../../escaped.png",
	} {
		command, err := ParseCommand("save " + name)
		assert.NoError(t, err)
		err = e.Execute(context.Background(), command)
		assert.True(t, errors.Is(err, misc.ErrConfiguration), name)
	}

	_, err = os.Stat(filepath.Join(outside, "outside.png"))
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(filepath.Join(settings.SavePath, "escaped.png"))
	assert.True(t, os.IsNotExist(err))

	assert.NoError(t, e.Execute(context.Background(), Command{Kind: Save, Path: "nested/frame.png", Scale: 1}))
	_, err = os.Stat(filepath.Join(settings.SavePath, settings.RunName, "nested", "frame.png"))
	assert.NoError(t, err)
}

func TestExplorer_InterruptStopsRender(t *testing.T) {
	e := newTestExplorer(t)
	e.OnFrame(func(*image.RGBA) {
		e.Interrupt()
	})

	assert.NoError(t, e.Execute(context.Background(), Command{Kind: Draw}))
	last := e.State().Last
	assert.True(t, last.Canceled)
	assert.Equal(t, 1, last.Columns)
}

func TestExplorer_RunAndSubmit(t *testing.T) {
	e := newTestExplorer(t)
	input := newFakeInput()
	e.SetInput(input)

	ctx, cancel := context.WithCancel(context.Background())
	var wg sync.WaitGroup
	wg.Add(1)
	var runErr error
	go func() {
		defer wg.Done()
		runErr = e.Run(ctx)
	}()

	state, err := e.Submit(ctx, Command{Kind: SetFunction, FunctionID: 2})
	assert.NoError(t, err)
	assert.Equal(t, 2, state.FunctionID)
	assert.Equal(t, 32*32, state.Last.Samples)

	// an interrupt releases a waiting corner prompt
	done := make(chan error, 1)
	go func() {
		_, err := e.Submit(ctx, Command{Kind: ZoomIn})
		done <- err
	}()
	<-input.asked
	e.Interrupt()
	assert.True(t, errors.Is(<-done, context.Canceled))
	assert.Equal(t, plane.Bounds{XMin: -2, YMin: -2, XMax: 2, YMax: 2}, e.State().Bounds)

	cancel()
	wg.Wait()
	assert.True(t, errors.Is(runErr, context.Canceled))

	_, err = e.Submit(ctx, Command{Kind: Draw})
	assert.True(t, errors.Is(err, context.Canceled))
}
