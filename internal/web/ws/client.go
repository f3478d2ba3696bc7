package ws

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/mcoot/minesboomer/internal/model"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 4096

	// Default buffer size for outgoing messages
	defaultSendBufferSize = 256
)

// Handler receives the inbound side of every connection
type Handler interface {
	// OnConnect is called once the connection is registered
	OnConnect(ctx context.Context, conn model.ConnectionID)
	// Handle is called for every inbound text frame, in order
	Handle(ctx context.Context, conn model.ConnectionID, raw []byte)
	// OnDisconnect is called once, after the connection is unregistered
	OnDisconnect(ctx context.Context, conn model.ConnectionID)
	// Identified reports whether the connection has identified itself
	Identified(conn model.ConnectionID) bool
}

// Client is a single WebSocket connection. Only the write pump writes data
// frames to the socket.
type Client struct {
	id          model.ConnectionID
	conn        *websocket.Conn
	send        chan []byte
	done        chan struct{}
	closeOnce   sync.Once
	connectedAt time.Time
}

// NewClient creates a new client with an outbound queue of bufferSize messages
func NewClient(conn *websocket.Conn, bufferSize int) *Client {
	if bufferSize <= 0 {
		bufferSize = defaultSendBufferSize
	}
	return &Client{
		conn:        conn,
		send:        make(chan []byte, bufferSize),
		done:        make(chan struct{}),
		connectedAt: time.Now(),
	}
}

// ID returns the connection id assigned by the hub
func (c *Client) ID() model.ConnectionID {
	return c.id
}

// Done is closed when either pump has stopped
func (c *Client) Done() <-chan struct{} {
	return c.done
}

// closeWith stops both pumps, sending a close frame with the given code first
func (c *Client) closeWith(code int, reason string) {
	c.closeOnce.Do(func() {
		close(c.done)
		if c.conn == nil {
			return
		}
		if code != 0 {
			msg := websocket.FormatCloseMessage(code, reason)
			_ = c.conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeWait))
		}
		_ = c.conn.Close()
	})
}

func (c *Client) close() {
	c.closeWith(0, "")
}

// readPump delivers inbound frames to the handler until the socket fails
func (c *Client) readPump(ctx context.Context, handler Handler, logger *slog.Logger) {
	defer c.close()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		msgType, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				logger.Warn("ws read error", slog.Any("error", err))
			}
			return
		}
		if msgType != websocket.TextMessage {
			continue
		}
		handler.Handle(ctx, c.id, data)
	}
}

// writePump drains the outbound queue to the socket, one frame per message
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// The hub closed the queue
				_ = c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-c.done:
			return
		}
	}
}

// Options configures the WebSocket endpoint
type Options struct {
	// IdentifyTimeout closes connections that have not identified in time.
	// Zero disables the timeout.
	IdentifyTimeout time.Duration
	SendBufferSize  int
}

// Server upgrades HTTP requests and runs the pumps for each connection
type Server struct {
	hub      *Hub
	handler  Handler
	upgrader websocket.Upgrader
	opts     Options
	logger   *slog.Logger
}

// NewServer creates a new WebSocket endpoint
func NewServer(hub *Hub, handler Handler, opts Options, logger *slog.Logger) *Server {
	return &Server{
		hub:     hub,
		handler: handler,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Game clients are not browsers
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		opts:   opts,
		logger: logger.With(slog.String("component", "ws")),
	}
}

// ServeHTTP handles one WebSocket connection for its whole lifetime
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("ws upgrade failed", slog.Any("error", err))
		return
	}

	client := NewClient(conn, s.opts.SendBufferSize)
	id := s.hub.Register(client)
	logger := s.logger.With(
		slog.String("connection_id", string(id)),
		slog.String("remote_addr", r.RemoteAddr))
	ctx := context.WithoutCancel(r.Context())

	go client.writePump()

	if s.opts.IdentifyTimeout > 0 {
		timer := time.AfterFunc(s.opts.IdentifyTimeout, func() {
			if !s.handler.Identified(id) {
				logger.Info("ws identification timeout",
					slog.Duration("timeout", s.opts.IdentifyTimeout))
				client.closeWith(websocket.ClosePolicyViolation, "identification timeout")
			}
		})
		defer timer.Stop()
	}

	s.handler.OnConnect(ctx, id)
	client.readPump(ctx, s.handler, logger)

	s.hub.Unregister(id)
	s.handler.OnDisconnect(ctx, id)
}
