package web

import (
	"bytes"
	"context"
	_ "embed"
	"errors"
	"fmt"
	"image"
	"image/png"
	"net"
	"net/http"
	"sync"
	"time"

	"NewtonsFractal/explorer"
	"NewtonsFractal/plane"
	"NewtonsFractal/surface"

	"github.com/BrugadaSyndrome/bslogger"
	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
)

//go:embed index.html
var indexPage []byte

const (
	clientQueue  = 8
	writeTimeout = 5 * time.Second
)

// Controller is the session the browser drives.
type Controller interface {
	Submit(ctx context.Context, command explorer.Command) (explorer.State, error)
	Interrupt()
	State() explorer.State
}

// Server shows the raster in a browser and turns clicks into input points.
// Frames are PNG encoded at most once per frame interval.
type Server struct {
	address    string
	clients    map[*client]struct{}
	controller Controller
	dirty      bool
	frame      []byte
	interval   time.Duration
	listener   net.Listener
	logger     bslogger.Logger
	mutex      sync.Mutex
	pending    *image.RGBA
	projection surface.Projection
	prompt     chan plane.ScreenPoint
	server     *http.Server
	shutdown   chan bool
	stopped    sync.Once

	WG *sync.WaitGroup
}

func NewServer(address string, interval time.Duration, projection surface.Projection, controller Controller, logger bslogger.Logger) *Server {
	s := &Server{
		address:    address,
		clients:    make(map[*client]struct{}),
		controller: controller,
		interval:   interval,
		logger:     logger,
		projection: projection,
		shutdown:   make(chan bool, 1),
		WG:         &sync.WaitGroup{},
	}
	s.server = &http.Server{
		Addr:              address,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.websocketHandler)
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write(indexPage)
	})
	return mux
}

func (s *Server) Run() error {
	var err error
	s.listener, err = net.Listen("tcp", s.address)
	if err != nil {
		s.logger.Errorf("Listening at address %s", s.address)
		return err
	}

	s.WG.Add(2)
	go func() {
		defer s.WG.Done()
		err := s.server.Serve(s.listener)
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Errorf("Serving http at address %s - %s", s.address, err)
		}
	}()
	go s.frames()

	s.logger.Infof("Running web server at http://%s", s.Address())
	return nil
}

// Address is the address the server listens on once running.
func (s *Server) Address() string {
	if s.listener == nil {
		return s.address
	}
	return s.listener.Addr().String()
}

// Stop closes every browser connection and shuts the server down. Later
// calls return nil.
func (s *Server) Stop(ctx context.Context) error {
	var err error
	s.stopped.Do(func() {
		s.logger.Infof("Shutting down web server at address %s", s.Address())
		close(s.shutdown)

		s.mutex.Lock()
		clients := make([]*client, 0, len(s.clients))
		for c := range s.clients {
			clients = append(clients, c)
		}
		s.mutex.Unlock()
		for _, c := range clients {
			c.conn.Close(websocket.StatusGoingAway, "server shutting down")
		}

		err = s.server.Shutdown(ctx)
		s.WG.Wait()
	})
	return err
}

// Publish takes a copy of a flushed raster. It runs on the explorer goroutine
// so it never encodes.
func (s *Server) Publish(img *image.RGBA) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	if s.pending == nil || s.pending.Rect != img.Rect {
		s.pending = image.NewRGBA(img.Rect)
	}
	copy(s.pending.Pix, img.Pix)
	s.dirty = true
}

func (s *Server) frames() {
	defer s.WG.Done()
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.shutdown:
			return
		case <-ticker.C:
			frame, err := s.encodePending()
			if err != nil {
				s.logger.Errorf("Encoding frame - %s", err)
				continue
			}
			if frame != nil {
				s.broadcast(outgoing{frame: frame})
			}
		}
	}
}

func (s *Server) encodePending() ([]byte, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	if !s.dirty {
		return nil, nil
	}
	s.dirty = false

	var buffer bytes.Buffer
	if err := png.Encode(&buffer, s.pending); err != nil {
		return nil, err
	}
	s.frame = buffer.Bytes()
	return s.frame, nil
}

// BlockingPoint waits for the next click in any browser and maps it through
// the projection's current transform.
func (s *Server) BlockingPoint(ctx context.Context) (plane.WorldPoint, error) {
	ch := make(chan plane.ScreenPoint, 1)
	s.mutex.Lock()
	s.prompt = ch
	s.mutex.Unlock()
	defer func() {
		s.mutex.Lock()
		if s.prompt == ch {
			s.prompt = nil
		}
		s.mutex.Unlock()
	}()

	s.broadcast(outgoing{message: &Message{Type: PromptMessage}})
	select {
	case p := <-ch:
		world := s.projection.Transform().WorldPoint(p)
		s.logger.Debugf("Clicked %s at %s", p, world)
		return world, nil
	case <-ctx.Done():
		return plane.WorldPoint{}, ctx.Err()
	}
}

func (s *Server) click(p plane.ScreenPoint) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	if s.prompt == nil {
		s.logger.Debugf("Ignoring click at %s, nothing asked for a point", p)
		return
	}
	s.prompt <- p
	s.prompt = nil
}

func (s *Server) broadcast(out outgoing) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	for c := range s.clients {
		c.queue(out)
	}
}

func (s *Server) websocketHandler(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, nil)
	if err != nil {
		s.logger.Warningf("Accepting websocket - %s", err)
		return
	}

	c := &client{
		conn:   conn,
		logger: s.logger,
		send:   make(chan outgoing, clientQueue),
	}
	state := s.controller.State()
	s.mutex.Lock()
	s.clients[c] = struct{}{}
	frame := s.frame
	s.mutex.Unlock()
	s.logger.Infof("Browser connected from %s", r.RemoteAddr)

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()
	go c.writer(ctx)

	c.queue(outgoing{message: &Message{Type: StateMessage, State: &state}})
	if frame != nil {
		c.queue(outgoing{frame: frame})
	}

	for {
		var msg Message
		if err := wsjson.Read(ctx, conn, &msg); err != nil {
			if websocket.CloseStatus(err) != websocket.StatusNormalClosure && websocket.CloseStatus(err) != websocket.StatusGoingAway {
				s.logger.Debugf("Reading from %s - %s", r.RemoteAddr, err)
			}
			break
		}
		s.handle(ctx, c, msg)
	}

	s.mutex.Lock()
	delete(s.clients, c)
	s.mutex.Unlock()
	conn.Close(websocket.StatusNormalClosure, "")
	s.logger.Infof("Browser at %s disconnected", r.RemoteAddr)
}

func (s *Server) handle(ctx context.Context, c *client, msg Message) {
	switch msg.Type {
	case ClickMessage:
		s.click(plane.ScreenPoint{Column: msg.Column, Row: msg.Row})
	case CancelMessage:
		s.controller.Interrupt()
	case CommandMessage:
		command, err := explorer.ParseCommand(msg.Command)
		if err != nil {
			c.queue(outgoing{message: &Message{Type: ErrorMessage, Error: err.Error()}})
			return
		}
		// Submit blocks for the whole render, so clicks and cancels have to
		// keep being read meanwhile.
		go func() {
			state, err := s.controller.Submit(ctx, command)
			if err != nil {
				c.queue(outgoing{message: &Message{Type: ErrorMessage, Error: err.Error()}})
				return
			}
			s.broadcast(outgoing{message: &Message{Type: StateMessage, State: &state}})
		}()
	default:
		c.queue(outgoing{message: &Message{Type: ErrorMessage, Error: fmt.Sprintf("unknown message type %q", msg.Type)}})
	}
}
