package rpc

import (
	"NewtonsFractal/explorer"
	"NewtonsFractal/fractal"
	"NewtonsFractal/plane"

	"github.com/BrugadaSyndrome/bslogger"
)

// Client calls a remote Explorer.
type Client struct {
	*TcpClient
}

func NewClient(serverAddress string, logger bslogger.Logger) *Client {
	return &Client{TcpClient: NewTcpClient(serverAddress, logger)}
}

func (c *Client) call(method string, request interface{}) (explorer.State, error) {
	var state explorer.State
	err := c.Call("Explorer."+method, request, &state)
	return state, err
}

func (c *Client) Draw() (explorer.State, error) {
	return c.call("Draw", Nothing{})
}

func (c *Client) ZoomIn(a, b plane.WorldPoint) (explorer.State, error) {
	return c.call("ZoomIn", Corners{A: a, B: b})
}

func (c *Client) ZoomOut() (explorer.State, error) {
	return c.call("ZoomOut", Nothing{})
}

func (c *Client) SetFunction(id int) (explorer.State, error) {
	return c.call("SetFunction", id)
}

func (c *Client) SetParams(params fractal.Params) (explorer.State, error) {
	return c.call("SetParams", params)
}

func (c *Client) Command(line string) (explorer.State, error) {
	return c.call("Command", line)
}

func (c *Client) State() (explorer.State, error) {
	return c.call("State", Nothing{})
}

func (c *Client) Cancel() error {
	var ok bool
	return c.Call("Explorer.Cancel", Nothing{}, &ok)
}
