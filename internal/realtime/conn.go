package realtime

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/happyharvest/garden/internal/logger"
)

// conn wraps a websocket connection with a buffered outbound channel.
// All writes go through writePump; gorilla connections only allow one
// concurrent writer.
type conn struct {
	ws   *websocket.Conn
	send chan Message

	closeOnce sync.Once
	done      chan struct{}
}

func newConn(ws *websocket.Conn) *conn {
	return &conn{
		ws:   ws,
		send: make(chan Message, ConnSendBuffer),
		done: make(chan struct{}),
	}
}

// Send queues a message for delivery. Returns false when the buffer is
// full or the connection is closing.
func (c *conn) Send(msg Message) bool {
	select {
	case <-c.done:
		return false
	default:
	}

	select {
	case c.send <- msg:
		return true
	default:
		return false
	}
}

// Close stops the write pump. Safe to call multiple times.
func (c *conn) Close() {
	c.closeOnce.Do(func() {
		close(c.done)
	})
}

// writePump drains the send channel onto the wire and keeps the
// connection alive with pings. Runs until Close or a write error.
func (c *conn) writePump() {
	ticker := time.NewTicker(PingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.ws.Close()
	}()

	for {
		select {
		case msg := <-c.send:
			_ = c.ws.SetWriteDeadline(time.Now().Add(WriteWait))
			data, err := json.Marshal(msg)
			if err != nil {
				logger.Error("Failed to marshal realtime message", "error", err, "type", msg.Type)
				continue
			}
			if err := c.ws.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}

		case <-ticker.C:
			_ = c.ws.SetWriteDeadline(time.Now().Add(WriteWait))
			if err := c.ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-c.done:
			_ = c.ws.SetWriteDeadline(time.Now().Add(WriteWait))
			_ = c.ws.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		}
	}
}
