package rpc

import (
	"context"

	"NewtonsFractal/explorer"
	"NewtonsFractal/fractal"
	"NewtonsFractal/plane"

	"github.com/BrugadaSyndrome/bslogger"
)

type Nothing struct{}

// Session is the explorer a remote client drives.
type Session interface {
	Submit(ctx context.Context, command explorer.Command) (explorer.State, error)
	Interrupt()
	State() explorer.State
}

type Corners struct {
	A plane.WorldPoint
	B plane.WorldPoint
}

// Explorer exposes a session over net/rpc. Every method except Cancel and
// State waits for the command, and any redraw it causes, to finish.
type Explorer struct {
	ctx     context.Context
	logger  bslogger.Logger
	session Session
}

func NewExplorer(ctx context.Context, session Session, logger bslogger.Logger) *Explorer {
	return &Explorer{
		ctx:     ctx,
		logger:  logger,
		session: session,
	}
}

func (e *Explorer) submit(command explorer.Command, reply *explorer.State) error {
	e.logger.Debugf("Remote %s", command)
	state, err := e.session.Submit(e.ctx, command)
	if err != nil {
		return err
	}
	*reply = state
	return nil
}

func (e *Explorer) Draw(_ Nothing, reply *explorer.State) error {
	return e.submit(explorer.Command{Kind: explorer.Draw}, reply)
}

func (e *Explorer) ZoomIn(corners Corners, reply *explorer.State) error {
	return e.submit(explorer.Command{Kind: explorer.ZoomIn, Corners: []plane.WorldPoint{corners.A, corners.B}}, reply)
}

func (e *Explorer) ZoomOut(_ Nothing, reply *explorer.State) error {
	return e.submit(explorer.Command{Kind: explorer.ZoomOut}, reply)
}

func (e *Explorer) SetFunction(id int, reply *explorer.State) error {
	return e.submit(explorer.Command{Kind: explorer.SetFunction, FunctionID: id}, reply)
}

func (e *Explorer) SetParams(params fractal.Params, reply *explorer.State) error {
	return e.submit(explorer.Command{Kind: explorer.SetParams, Params: &params}, reply)
}

// Command runs one command in its text form.
func (e *Explorer) Command(line string, reply *explorer.State) error {
	command, err := explorer.ParseCommand(line)
	if err != nil {
		return err
	}
	return e.submit(command, reply)
}

func (e *Explorer) Cancel(_ Nothing, reply *bool) error {
	e.session.Interrupt()
	*reply = true
	return nil
}

func (e *Explorer) State(_ Nothing, reply *explorer.State) error {
	*reply = e.session.State()
	return nil
}
