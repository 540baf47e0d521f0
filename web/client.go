package web

import (
	"context"

	"NewtonsFractal/explorer"

	"github.com/BrugadaSyndrome/bslogger"
	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
)

const (
	CancelMessage  = "cancel"
	ClickMessage   = "click"
	CommandMessage = "command"
	ErrorMessage   = "error"
	PromptMessage  = "prompt"
	StateMessage   = "state"
)

// Message is the JSON envelope exchanged with the page. Frames travel as
// binary PNG messages instead.
type Message struct {
	Type    string
	Column  int             `json:",omitempty"`
	Command string          `json:",omitempty"`
	Error   string          `json:",omitempty"`
	Row     int             `json:",omitempty"`
	State   *explorer.State `json:",omitempty"`
}

type outgoing struct {
	frame   []byte
	message *Message
}

type client struct {
	conn   *websocket.Conn
	logger bslogger.Logger
	send   chan outgoing
}

// queue drops the message when the browser is not keeping up.
func (c *client) queue(out outgoing) {
	select {
	case c.send <- out:
	default:
		c.logger.Debug("Dropping message for slow browser")
	}
}

func (c *client) writer(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case out := <-c.send:
			writeCtx, cancel := context.WithTimeout(ctx, writeTimeout)
			var err error
			if out.message != nil {
				err = wsjson.Write(writeCtx, c.conn, out.message)
			} else {
				err = c.conn.Write(writeCtx, websocket.MessageBinary, out.frame)
			}
			cancel()
			if err != nil {
				c.logger.Debugf("Writing to browser - %s", err)
				return
			}
		}
	}
}
