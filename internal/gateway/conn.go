package gateway

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// conn is one connected client. A single writer goroutine drains send, so
// per-connection message order matches enqueue order and a slow socket never
// blocks anyone but itself.
//
// The send channel is never closed; teardown is signaled through done so a
// concurrent enqueue can never hit a closed channel.
type conn struct {
	id        uuid.UUID
	sock      *websocket.Conn
	send      chan []byte
	done      chan struct{}
	closeOnce sync.Once
}

func newConn(sock *websocket.Conn, buffer int) *conn {
	return &conn{
		id:   uuid.New(),
		sock: sock,
		send: make(chan []byte, buffer),
		done: make(chan struct{}),
	}
}

// close tears the connection down exactly once. Closing the socket unblocks
// the reader; closing done unblocks the writer.
func (c *conn) close() {
	c.closeOnce.Do(func() {
		close(c.done)
		_ = c.sock.Close()
	})
}

// writePump drains the send queue onto the socket, pinging on idle. Exits on
// teardown or a failed write; a failed write closes the socket, which the
// read side notices and unregisters.
func (c *conn) writePump(writeTimeout, pingInterval time.Duration) {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-c.done:
			_ = c.sock.WriteControl(websocket.CloseMessage, nil, time.Now().Add(writeTimeout))
			return
		case msg := <-c.send:
			_ = c.sock.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := c.sock.WriteMessage(websocket.TextMessage, msg); err != nil {
				_ = c.sock.Close()
				return
			}
		case <-ticker.C:
			_ = c.sock.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := c.sock.WriteMessage(websocket.PingMessage, nil); err != nil {
				_ = c.sock.Close()
				return
			}
		}
	}
}
