// Package rpc serves and calls net/rpc objects over TCP.
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
	stopOnce sync.Once

	Logger bslogger.Logger
	Name   string
	WG     *sync.WaitGroup
}

// NewTcpServer prepares a server for object. An address with port 0 picks a
// free port once Run is called; Addr reports it.
func NewTcpServer(object interface{}, address string, name string) *TcpServer {
	return &TcpServer{
		address:  address,
		object:   object,
		shutdown: make(chan bool, 1),
		Logger:   bslogger.NewLogger(name, bslogger.Normal, nil),
		Name:     name,
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
	ts.address = ts.listener.Addr().String()

	ts.WG.Add(1)
	go func() {
		defer ts.WG.Done()
		for {
			select {
			case <-ts.shutdown:
				err := ts.listener.Close()
				if err != nil {
					ts.Logger.Infof("Server closed listener - %s", err)
				}
				return
			default:
				// Poll so shutdown is noticed
				ts.listener.SetDeadline(time.Now().Add(250 * time.Millisecond))
			}

			conn, err := ts.listener.Accept()
			if err != nil {
				var netErr net.Error
				if errors.As(err, &netErr) && netErr.Timeout() {
					continue
				}
				ts.Logger.Warningf("Accepting connection at address %s - %s", ts.address, err)
				continue
			}

			ts.Logger.Infof("Server opened connection to client at address %s", conn.RemoteAddr())
			go handler.ServeConn(conn)
		}
	}()

	ts.Logger.Infof("Running server at address %s", ts.address)
	return nil
}

// Addr returns the address the server listens on.
func (ts *TcpServer) Addr() string {
	return ts.address
}

// Stop closes the listener and waits for the accept loop to exit. Open
// connections finish their calls on their own.
func (ts *TcpServer) Stop() error {
	ts.stopOnce.Do(func() {
		ts.Logger.Infof("Shutting down server at address %s", ts.address)
		close(ts.shutdown)
		ts.WG.Wait()
	})
	return nil
}
