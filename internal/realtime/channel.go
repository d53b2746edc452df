package realtime

import (
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"taskflow/internal/errors"
)

// Websocket keepalive and flow-control parameters.
var (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = int64(1024)
	sendBuffer     = 256
)

// Delivery failures that the broadcaster swallows per channel.
var (
	ErrChannelClosed    = errors.New("channel closed")
	ErrChannelSaturated = errors.New("channel send buffer full")
)

// WSChannel is the websocket-backed Channel implementation. Events are
// enqueued on a buffered send channel and drained by a single write
// pump, which gives per-channel FIFO delivery in publish order.
type WSChannel struct {
	id     string
	userID uuid.UUID
	conn   *websocket.Conn
	send   chan []byte
	done   chan struct{}
	once   sync.Once
	logger *slog.Logger
}

// NewWSChannel wraps an upgraded connection for the given authenticated
// user. The caller admits the channel to a registry and then calls Serve.
func NewWSChannel(conn *websocket.Conn, userID uuid.UUID, logger *slog.Logger) *WSChannel {
	return &WSChannel{
		id:     uuid.NewString(),
		userID: userID,
		conn:   conn,
		send:   make(chan []byte, sendBuffer),
		done:   make(chan struct{}),
		logger: logger,
	}
}

// ID returns the opaque per-connection identifier.
func (c *WSChannel) ID() string { return c.id }

// UserID returns the channel owner, immutable after admission.
func (c *WSChannel) UserID() uuid.UUID { return c.userID }

// Deliver enqueues one event frame without blocking. A closed channel
// or a full buffer returns an error for the registry to log and skip.
func (c *WSChannel) Deliver(ev Event) error {
	frame, err := EncodeEvent(ev)
	if err != nil {
		return err
	}

	select {
	case <-c.done:
		return ErrChannelClosed
	default:
	}

	select {
	case c.send <- frame:
		return nil
	case <-c.done:
		return ErrChannelClosed
	default:
		return ErrChannelSaturated
	}
}

// Close tears the channel down. Safe to call more than once.
func (c *WSChannel) Close() {
	c.once.Do(func() {
		close(c.done)
		_ = c.conn.Close()
	})
}

// Serve runs the read and write pumps until the connection drops, then
// removes the channel from the registry. It blocks for the lifetime of
// the connection.
func (c *WSChannel) Serve(reg *Registry) {
	defer func() {
		reg.Remove(c)
		c.Close()
	}()

	go c.writePump()
	c.readPump()
}

// readPump consumes client frames. Clients send nothing meaningful on
// this channel today; the pump exists to answer pings and notice closes.
func (c *WSChannel) readPump() {
	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Debug("websocket read failed",
					slog.String("channelID", c.id),
					slog.Any("error", err))
			}

			return
		}
	}
}

func (c *WSChannel) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Close()
	}()

	for {
		select {
		case frame := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-c.done:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})

			return
		}
	}
}
