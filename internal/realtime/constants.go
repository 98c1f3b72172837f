package realtime

import "time"

// Buffer sizes
const (
	// ConnSendBuffer is the buffer size for each connection's outbound channel
	ConnSendBuffer = 50
)

// Websocket connection settings
const (
	// WriteWait is the timeout for writing a frame to the peer
	WriteWait = 10 * time.Second

	// PongWait is how long to wait for a pong before dropping the peer
	PongWait = 60 * time.Second

	// PingPeriod is how often to ping; must be less than PongWait
	PingPeriod = (PongWait * 9) / 10

	// MaxMessageSize bounds inbound frames; clients only send small
	// subscribe/unsubscribe commands
	MaxMessageSize = 1024

	// ReadBufferSize and WriteBufferSize size the upgrader's buffers
	ReadBufferSize  = 1024
	WriteBufferSize = 1024
)

// Client command names
const (
	CommandSubscribe   = "subscribe"
	CommandUnsubscribe = "unsubscribe"
)

// Log messages
const (
	LogMsgClientConnected    = "Realtime client connected"
	LogMsgClientDisconnected = "Realtime client disconnected"
	LogMsgUpgradeFailed      = "Websocket upgrade failed"
	LogMsgMalformedCommand   = "Discarding malformed client command"
	LogMsgSendBufferFull     = "Client send buffer full, dropping event"
)
