package http

import (
	"errors"
	"sync"
)

const sendBufferSize = 256

var (
	errConnClosed     = errors.New("connection closed")
	errSendBufferFull = errors.New("send buffer full")
)

// wsConn is the core.Conn side of a websocket. Send never blocks the world
// loop; frames are queued for the connection's writer goroutine.
type wsConn struct {
	id   string
	addr string
	out  chan string

	done      chan struct{}
	closeOnce sync.Once
}

func newWSConn(id, addr string) *wsConn {
	return &wsConn{
		id:   id,
		addr: addr,
		out:  make(chan string, sendBufferSize),
		done: make(chan struct{}),
	}
}

func (c *wsConn) Send(raw string) error {
	select {
	case <-c.done:
		return errConnClosed
	default:
	}
	select {
	case c.out <- raw:
		return nil
	default:
		return errSendBufferFull
	}
}

func (c *wsConn) RemoteAddr() string { return c.addr }

// Close asks the writer to flush what is queued and end the connection.
func (c *wsConn) Close() error {
	c.closeOnce.Do(func() { close(c.done) })
	return nil
}
