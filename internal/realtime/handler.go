package realtime

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/happyharvest/garden/internal/logger"
)

// GardenAccess answers whether a user may watch a garden. The garden
// service backs it with the membership cache.
type GardenAccess interface {
	CanWatch(ctx context.Context, gardenID, userID string) (bool, error)
}

// UserResolver extracts the authenticated user ID from a request. The
// auth middleware stores it on the context.
type UserResolver func(r *http.Request) (string, bool)

// clientCommand is the only inbound message shape clients send
type clientCommand struct {
	Command  string `json:"command"`
	GardenID string `json:"garden_id"`
}

// commandAck confirms a subscribe/unsubscribe back to the client
type commandAck struct {
	Type     string `json:"type"`
	Command  string `json:"command"`
	GardenID string `json:"garden_id"`
	OK       bool   `json:"ok"`
	Error    string `json:"error,omitempty"`
}

// Handler upgrades HTTP requests to websocket sessions bound to the hub
type Handler struct {
	hub      *Hub
	access   GardenAccess
	resolve  UserResolver
	pongWait time.Duration
	upgrader websocket.Upgrader
}

// NewHandler creates a websocket Handler
func NewHandler(hub *Hub, access GardenAccess, resolve UserResolver) *Handler {
	return &Handler{
		hub:      hub,
		access:   access,
		resolve:  resolve,
		pongWait: PongWait,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  ReadBufferSize,
			WriteBufferSize: WriteBufferSize,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
}

// ServeHTTP upgrades the connection and runs the session until the
// client disconnects.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	userID, ok := h.resolve(r)
	if !ok {
		http.Error(w, "unauthenticated", http.StatusUnauthorized)
		return
	}

	ws, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn(LogMsgUpgradeFailed, "error", err, "user_id", userID)
		return
	}

	c := newConn(ws)
	connID := h.hub.RegisterConnection(userID, c)
	log.Info(LogMsgClientConnected, "user_id", userID, "conn_id", connID)

	go c.writePump()
	h.readLoop(r.Context(), ws, c, connID, userID)

	h.hub.RemoveConnection(connID)
	log.Info(LogMsgClientDisconnected, "user_id", userID, "conn_id", connID)
}

// readLoop consumes subscribe/unsubscribe commands until the peer
// closes or errors.
func (h *Handler) readLoop(ctx context.Context, ws *websocket.Conn, c *conn, connID, userID string) {
	log := logger.FromContext(ctx)

	ws.SetReadLimit(MaxMessageSize)
	_ = ws.SetReadDeadline(time.Now().Add(h.pongWait))
	ws.SetPongHandler(func(string) error {
		return ws.SetReadDeadline(time.Now().Add(h.pongWait))
	})

	for {
		_, payload, err := ws.ReadMessage()
		if err != nil {
			return
		}

		var cmd clientCommand
		if err := json.Unmarshal(payload, &cmd); err != nil {
			log.Warn(LogMsgMalformedCommand, "error", err, "user_id", userID)
			continue
		}

		switch cmd.Command {
		case CommandSubscribe:
			allowed, err := h.access.CanWatch(ctx, cmd.GardenID, userID)
			if err != nil {
				c.Send(NewMessage("command_ack", commandAck{
					Type: "command_ack", Command: cmd.Command, GardenID: cmd.GardenID,
					OK: false, Error: "access check failed",
				}))
				continue
			}
			if !allowed {
				c.Send(NewMessage("command_ack", commandAck{
					Type: "command_ack", Command: cmd.Command, GardenID: cmd.GardenID,
					OK: false, Error: "not a member",
				}))
				continue
			}
			h.hub.Subscribe(cmd.GardenID, userID)
			c.Send(NewMessage("command_ack", commandAck{
				Type: "command_ack", Command: cmd.Command, GardenID: cmd.GardenID, OK: true,
			}))

		case CommandUnsubscribe:
			h.hub.Unsubscribe(cmd.GardenID, userID)
			c.Send(NewMessage("command_ack", commandAck{
				Type: "command_ack", Command: cmd.Command, GardenID: cmd.GardenID, OK: true,
			}))

		default:
			log.Warn(LogMsgMalformedCommand, "command", cmd.Command, "user_id", userID)
		}
	}
}
