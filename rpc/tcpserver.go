package rpc

import (
	"errors"
	"net"
	"net/rpc"
	"sync"
	"time"

	"github.com/BrugadaSyndrome/bslogger"
)

type TcpServer struct {
	address  string
	listener *net.TCPListener
	object   interface{}
	shutdown chan bool

	Logger bslogger.Logger
	WG     *sync.WaitGroup
}

func NewTcpServer(object interface{}, address string, logger bslogger.Logger) *TcpServer {
	return &TcpServer{
		address:  address,
		object:   object,
		shutdown: make(chan bool, 1),
		Logger:   logger,
		WG:       &sync.WaitGroup{},
	}
}

func (ts *TcpServer) Run() error {
	handler := rpc.NewServer()
	err := handler.Register(ts.object)
	if err != nil {
		ts.Logger.Error("Registering object")
		return err
	}

	tcpAddress, err := net.ResolveTCPAddr("tcp", ts.address)
	if err != nil {
		ts.Logger.Errorf("Resolving tcp address %s", ts.address)
		return err
	}

	ts.listener, err = net.ListenTCP("tcp", tcpAddress)
	if err != nil {
		ts.Logger.Errorf("Listening at address %s", ts.address)
		return err
	}

	ts.WG.Add(1)
	go func() {
		defer ts.WG.Done()
		for {
			select {
			case <-ts.shutdown:
				// Server has been given the signal to shutdown
				err := ts.listener.Close()
				if err != nil {
					ts.Logger.Infof("Server closed listener - %s", err)
				}
				return
			default:
				// Poll this connection periodically
				ts.listener.SetDeadline(time.Now().Add(time.Second))
			}

			conn, err := ts.listener.Accept()
			if err != nil {
				var netErr net.Error
				if errors.As(err, &netErr) && netErr.Timeout() {
					// Deadline timeout has occurred
					continue
				}
				ts.Logger.Warningf("Accepting connection at address %s - %s", ts.Address(), err)
				continue
			}

			ts.Logger.Infof("Server opened connection to client at address %s", conn.RemoteAddr())
			go handler.ServeConn(conn)
		}
	}()

	ts.Logger.Infof("Running server at address %s", ts.Address())
	return nil
}

// Address is the bound address once running, so a zero port can be used.
func (ts *TcpServer) Address() string {
	if ts.listener == nil {
		return ts.address
	}
	return ts.listener.Addr().String()
}

func (ts *TcpServer) Stop() error {
	ts.Logger.Infof("Shutting down server at address %s", ts.Address())
	close(ts.shutdown)
	ts.WG.Wait()
	return nil
}
