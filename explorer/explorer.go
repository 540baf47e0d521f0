package explorer

import (
	"context"
	"errors"
	"fmt"
	"image"
	"path/filepath"
	"sync"

	"NewtonsFractal/fractal"
	"NewtonsFractal/misc"
	"NewtonsFractal/newton"
	"NewtonsFractal/plane"
	"NewtonsFractal/surface"
	"NewtonsFractal/viewport"

	"github.com/BrugadaSyndrome/bslogger"
)

var ErrNoInput = errors.New("no input surface to pick zoom corners")

// State is what the explorer shows after a command.
type State struct {
	Axes       string
	Bounds     plane.Bounds
	Expanded   plane.Bounds
	Expression string
	FunctionID int
	History    []plane.Bounds
	Last       fractal.Result
	Margin     plane.Margin
	Params     fractal.Params
	RootDots   bool
}

func (s State) String() string {
	output := "{State "
	output += fmt.Sprintf("Function: %d %s ", s.FunctionID, s.Expression)
	output += fmt.Sprintf("Bounds: %s ", s.Bounds)
	output += fmt.Sprintf("Margin: %v ", s.Margin)
	output += fmt.Sprintf("Zooms: %d ", len(s.History))
	output += fmt.Sprintf("Params: %s ", s.Params)
	output += fmt.Sprintf("Last: %s}", s.Last)
	return output
}

type request struct {
	command Command
	reply   chan response
}

type response struct {
	state State
	err   error
}

// Explorer is one interactive session: a viewport, the active function, the
// render parameters and the raster they are drawn on. Commands are executed
// one at a time by Run; other goroutines only Submit and Interrupt.
type Explorer struct {
	cancel     context.CancelFunc
	dirty      bool
	function   newton.Function
	functionID int
	input      surface.Input
	last       fractal.Result
	logger     bslogger.Logger
	mutex      sync.Mutex
	overlay    surface.Overlay
	params     fractal.Params
	raster     *surface.Raster
	registry   newton.Registry
	renderer   *fractal.Renderer
	requests   chan request
	savePath   string
	state      State
	viewport   *viewport.Viewport
}

func NewExplorer(settings Settings) (*Explorer, error) {
	if err := settings.Verify(); err != nil {
		return nil, err
	}

	e := &Explorer{
		logger:   misc.NewLogger("Explorer", settings.Verbose),
		overlay:  settings.Overlay(),
		params:   settings.Params,
		registry: newton.DefaultRegistry(),
		renderer: fractal.NewRenderer(misc.NewLogger("Renderer", settings.Verbose)),
		requests: make(chan request),
		savePath: filepath.Join(settings.SavePath, settings.RunName),
	}

	var err error
	e.function, err = e.registry.Lookup(settings.FunctionID)
	if err != nil {
		return nil, err
	}
	e.functionID = settings.FunctionID

	e.viewport, err = viewport.NewViewport(settings.Width, settings.Height, settings.DefaultBounds, settings.Margin,
		misc.NewLogger("Viewport", settings.Verbose))
	if err != nil {
		return nil, err
	}
	e.viewport.OnChange(func(plane.Bounds) {
		e.dirty = true
	})
	e.raster = surface.NewRaster(settings.Width, settings.Height, e.viewport, surface.Black)
	e.publish()
	return e, nil
}

// SetInput sets the surface interactive zooms read corners from.
func (e *Explorer) SetInput(input surface.Input) {
	e.input = input
}

// OnFrame registers a hook that receives the raster after every flush. It
// runs on the explorer goroutine and must not keep the image.
func (e *Explorer) OnFrame(hook func(*image.RGBA)) {
	e.raster.OnFlush(hook)
}

func (e *Explorer) Viewport() *viewport.Viewport {
	return e.viewport
}

// Image returns a copy of the current raster.
func (e *Explorer) Image() *image.RGBA {
	return e.raster.Image()
}

// State returns the state published after the last command. It is safe to
// call while a command runs.
func (e *Explorer) State() State {
	e.mutex.Lock()
	defer e.mutex.Unlock()
	return e.state
}

// Run executes submitted commands until ctx is done.
func (e *Explorer) Run(ctx context.Context) error {
	e.logger.Info("Explorer is running")
	for {
		select {
		case <-ctx.Done():
			e.logger.Info("Explorer is shutting down")
			return ctx.Err()
		case req := <-e.requests:
			err := e.Execute(ctx, req.command)
			req.reply <- response{state: e.State(), err: err}
		}
	}
}

// Submit queues a command for Run and waits for it to finish.
func (e *Explorer) Submit(ctx context.Context, command Command) (State, error) {
	req := request{command: command, reply: make(chan response, 1)}
	select {
	case e.requests <- req:
	case <-ctx.Done():
		return State{}, ctx.Err()
	}
	select {
	case resp := <-req.reply:
		return resp.state, resp.err
	case <-ctx.Done():
		return State{}, ctx.Err()
	}
}

// Interrupt cancels the command in flight: a render stops before its next
// column and a corner prompt returns.
func (e *Explorer) Interrupt() {
	e.mutex.Lock()
	defer e.mutex.Unlock()
	if e.cancel == nil {
		e.logger.Debug("Nothing to interrupt")
		return
	}
	e.logger.Info("Interrupting current command")
	e.cancel()
}

// Execute runs one command on the calling goroutine. It must not be used
// while Run is active.
func (e *Explorer) Execute(ctx context.Context, command Command) error {
	ctx, cancel := context.WithCancel(ctx)
	e.mutex.Lock()
	e.cancel = cancel
	e.mutex.Unlock()
	defer func() {
		e.mutex.Lock()
		e.cancel = nil
		e.mutex.Unlock()
		cancel()
		e.publish()
	}()

	e.logger.Debugf("Executing %s", command)
	e.dirty = false
	err := e.execute(ctx, command)
	if err != nil {
		e.logger.Warningf("Command %s failed: %s", command.Kind, err)
		return err
	}
	if e.dirty {
		return e.draw(ctx)
	}
	return nil
}

func (e *Explorer) execute(ctx context.Context, command Command) error {
	switch command.Kind {
	case Draw:
		e.dirty = true
	case Clear:
		e.raster.Clear()
		e.raster.Flush()
	case ToggleMode:
		if e.params.Mode == fractal.Gradient {
			e.params.Mode = fractal.NearestRoot
		} else {
			e.params.Mode = fractal.Gradient
		}
		e.logger.Infof("Coloring by %s", e.params.Mode)
		e.dirty = true
	case ZoomIn:
		return e.zoomIn(ctx, command.Corners)
	case ZoomOut:
		return e.viewport.ZoomOut()
	case SetFunction:
		fn, err := e.registry.Lookup(command.FunctionID)
		if err != nil {
			return err
		}
		e.function = fn
		e.functionID = command.FunctionID
		e.logger.Infof("Function is now %s", fn)
		e.dirty = true
	case SetParams:
		params := e.params
		if command.Params != nil {
			params = *command.Params
		}
		params, err := apply(params, command.Updates)
		if err != nil {
			return err
		}
		if err = params.Verify(); err != nil {
			return err
		}
		e.params = params
		e.logger.Infof("Params are now %s", params)
		e.dirty = true
	case SetMargin:
		return e.viewport.SetMargin(command.Margin)
	case ToggleRoots:
		e.overlay.RootDots = !e.overlay.RootDots
		e.dirty = true
	case SetAxes:
		e.overlay.Axes = command.Axes
		e.dirty = true
	case Save:
		return e.save(command.Path, command.Scale)
	default:
		return fmt.Errorf("unknown command %s", command.Kind)
	}
	return nil
}

// zoomIn zooms to the given corners, or prompts for them. A prompted
// rectangle with no area asks for the opposite corner again.
func (e *Explorer) zoomIn(ctx context.Context, corners []plane.WorldPoint) error {
	if len(corners) == 2 {
		return e.viewport.ZoomIn(corners[0], corners[1])
	}
	if len(corners) != 0 {
		return fmt.Errorf("zoom needs two corners, got %d", len(corners))
	}
	if e.input == nil {
		return ErrNoInput
	}

	e.logger.Info("Pick the first corner")
	first, err := e.input.BlockingPoint(ctx)
	if err != nil {
		return err
	}
	for {
		e.logger.Info("Pick the opposite corner")
		second, err := e.input.BlockingPoint(ctx)
		if err != nil {
			return err
		}
		err = e.viewport.ZoomIn(first, second)
		if !errors.Is(err, viewport.ErrDegenerateZoom) {
			return err
		}
		e.logger.Warningf("%s", err)
	}
}

// draw clears the raster and renders the current view. The overlay is only
// painted over a render that ran to the end.
func (e *Explorer) draw(ctx context.Context) error {
	e.raster.Clear()
	result, err := e.renderer.Render(ctx, e.viewport, e.function, e.params, e.raster)
	if err != nil {
		return err
	}
	e.last = result
	if result.Canceled {
		return nil
	}

	if e.overlay.Enabled() {
		err = e.raster.Paint(func(img *image.RGBA) error {
			return e.overlay.Draw(img, e.viewport, e.function)
		})
		if err != nil {
			return err
		}
		e.raster.Flush()
	}
	return nil
}

func (e *Explorer) save(name string, scale int) error {
	if name == "" {
		return fmt.Errorf("save needs a file name")
	}
	if !filepath.IsLocal(name) {
		return misc.NewConfigError("path", name, "must stay inside the run directory")
	}
	path := filepath.Join(e.savePath, name)
	if err := surface.Save(path, e.raster.Image(), scale); err != nil {
		return err
	}
	e.logger.Infof("Saved %s", path)
	return nil
}

func (e *Explorer) publish() {
	axes := e.overlay.Axes.String()
	state := State{
		Axes:       axes,
		Bounds:     e.viewport.Bounds(),
		Expanded:   e.viewport.Expanded(),
		Expression: e.function.Expression(),
		FunctionID: e.functionID,
		History:    e.viewport.History(),
		Last:       e.last,
		Margin:     e.viewport.Margin(),
		Params:     e.params,
		RootDots:   e.overlay.RootDots,
	}
	e.mutex.Lock()
	e.state = state
	e.mutex.Unlock()
}
