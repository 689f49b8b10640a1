package ws

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"notify-gateway/internal/gateway"

	"github.com/gorilla/websocket"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 4096

	sendBuffer = 256
)

// EventSink is the gateway side of the transport: socket lifecycle and
// inbound frames are reported here and processed by the gateway's event
// loop.
type EventSink interface {
	Open(s gateway.Sender)
	Receive(s gateway.Sender, data []byte)
	Closed(s gateway.Sender)
	Failed(s gateway.Sender, err error)
}

// Client owns one websocket and pumps frames between the peer and the
// gateway. It implements gateway.Sender; outbound pushes never block.
type Client struct {
	conn *websocket.Conn
	sink EventSink
	send chan []byte

	closed     int32
	sendClosed int32

	logger *slog.Logger
}

func NewClient(conn *websocket.Conn, sink EventSink, logger *slog.Logger) *Client {
	return &Client{
		conn:   conn,
		sink:   sink,
		send:   make(chan []byte, sendBuffer),
		logger: logger,
	}
}

// Start announces the socket to the gateway and starts the pumps.
func (c *Client) Start() {
	c.sink.Open(c)
	go c.writePump()
	go c.readPump()
}

// Send marshals v and queues it for the peer. When the peer cannot drain
// its buffer the connection is treated as broken rather than stalling the
// caller.
func (c *Client) Send(v any) error {
	if atomic.LoadInt32(&c.closed) == 1 || atomic.LoadInt32(&c.sendClosed) == 1 {
		return gateway.ErrConnectionBroken
	}
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal outbound frame: %w", err)
	}
	select {
	case c.send <- data:
		return nil
	default:
		c.logger.Warn("send buffer full, dropping connection")
		c.closeSend()
		return fmt.Errorf("%w: send buffer full", gateway.ErrConnectionBroken)
	}
}

// Close tears the socket down. Safe to call more than once.
func (c *Client) Close() error {
	if !atomic.CompareAndSwapInt32(&c.closed, 0, 1) {
		return nil
	}
	c.closeSend()
	return c.conn.Close()
}

func (c *Client) closeSend() {
	if atomic.CompareAndSwapInt32(&c.sendClosed, 0, 1) {
		close(c.send)
	}
}

func (c *Client) readPump() {
	defer c.conn.Close()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if atomic.LoadInt32(&c.closed) == 1 {
				// Torn down locally; the registry entry is already gone.
				return
			}
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure, websocket.CloseNormalClosure) {
				c.sink.Failed(c, err)
			} else {
				c.sink.Closed(c)
			}
			return
		}
		c.sink.Receive(c, data)
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case data, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				c.logger.Debug("write failed", "error", err)
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.logger.Debug("ping failed", "error", err)
				return
			}
		}
	}
}
