// Package websocket provides the WebSocket server and connection handling.
// file: websocket/connection.go
package websocket

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go-gym-classes/logger"
	"go-gym-classes/views"
)

// WSConn is an interface for the WebSocket connection.
type WSConn interface {
	WriteMessage(messageType int, data []byte) error
	SetWriteDeadline(t time.Time) error
	ReadMessage() (int, []byte, error)
	Close() error
	RemoteAddr() net.Addr
	SetReadLimit(limit int64)
	SetReadDeadline(t time.Time) error
	SetPongHandler(h func(string) error)
}

// Connection is one calendar widget attached to its own TimetableView.
type Connection struct {
	conn   WSConn
	send   chan []byte
	view   *views.TimetableView
	cfg    WidgetConfig
	ctx    context.Context
	cancel context.CancelFunc
}

// Configuration constants.
const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 2048
)

var (
	connectionsMu sync.Mutex
	connections   = make(map[*Connection]bool)
)

var (
	originsMu      sync.RWMutex
	allowedOrigins = map[string]bool{"http://localhost:8080": true}
)

// SetAllowedOrigins replaces the origins allowed to open a widget bridge.
func SetAllowedOrigins(origins ...string) {
	originsMu.Lock()
	defer originsMu.Unlock()
	allowedOrigins = make(map[string]bool, len(origins))
	for _, o := range origins {
		allowedOrigins[o] = true
	}
}

// Upgrader upgrades HTTP requests to WebSocket connections.
var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		originsMu.RLock()
		defer originsMu.RUnlock()
		return allowedOrigins[origin]
	},
}

// ServeTimetable upgrades the request and attaches the widget to view.
// The view is loaded immediately and closed when the socket goes away.
func ServeTimetable(w http.ResponseWriter, r *http.Request, view *views.TimetableView, cfg WidgetConfig) {
	logger.Info.Printf("[ServeTimetable] Upgrading to WS: remoteAddr=%v", r.RemoteAddr)
	wsConn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Error.Printf("[ServeTimetable] WebSocket upgrade error: %v", err)
		// the upgrader has already replied with an HTTP error
		view.Close()
		return
	}

	c := newConnection(wsConn, view, cfg)
	registerConnection(c)

	go c.readPump()
	go c.writePump()
	go c.reload()
}

func newConnection(conn WSConn, view *views.TimetableView, cfg WidgetConfig) *Connection {
	ctx, cancel := context.WithCancel(context.Background())
	return &Connection{
		conn:   conn,
		send:   make(chan []byte, 16),
		view:   view,
		cfg:    cfg,
		ctx:    ctx,
		cancel: cancel,
	}
}

// readPump handles inbound messages from the widget.
func (c *Connection) readPump() {
	defer c.shutdown()

	c.conn.SetReadLimit(maxMessageSize)
	if err := c.conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		return
	}
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		messageType, message, err := c.conn.ReadMessage()
		if err != nil {
			logger.Debug.Printf("[readPump] Read error from %v: %v", c.conn.RemoteAddr(), err)
			return
		}
		if messageType != websocket.TextMessage {
			logger.Debug.Printf("[readPump] Ignoring non-text messageType=%d", messageType)
			continue
		}

		var msg InboundMessage
		if err := json.Unmarshal(message, &msg); err != nil {
			logger.Warn.Printf("[readPump] Invalid JSON from %v: %v", c.conn.RemoteAddr(), err)
			continue
		}
		c.handleIncoming(msg)
	}
}

// writePump handles outbound messages to the widget, including periodic pings.
func (c *Connection) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case <-c.ctx.Done():
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
			return

		case message := <-c.send:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				logger.Warn.Printf("[writePump] Error writing to %v: %v", c.conn.RemoteAddr(), err)
				return
			}

		case <-ticker.C:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				return
			}
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				logger.Warn.Printf("[writePump] Ping error for %v: %v", c.conn.RemoteAddr(), err)
				return
			}
		}
	}
}

// handleIncoming processes one widget message.
func (c *Connection) handleIncoming(msg InboundMessage) {
	logger.Debug.Printf("[handleIncoming] Action=%s id=%q width=%d", msg.Action, msg.ID, msg.Width)
	switch msg.Action {
	case "eventClick":
		path, ok := c.view.EventClick(msg.ID)
		if !ok {
			return
		}
		c.queueJSON(NavigateMessage{Action: "navigate", Path: path})
	case "resize":
		if msg.Width <= 0 {
			logger.Warn.Printf("[handleIncoming] Ignoring resize with width=%d", msg.Width)
			return
		}
		viewType := c.view.Resize(msg.Width)
		c.queueJSON(ViewTypeMessage{Action: "setViewType", ViewType: string(viewType)})
	case "refresh":
		go c.reload()
	default:
		logger.Debug.Printf("Unhandled action: %s", msg.Action)
	}
}

// reload refetches the listing and pushes it unless a newer load or a close superseded it.
func (c *Connection) reload() {
	if !c.view.Load(c.ctx) {
		return
	}
	c.queueJSON(NewSetEventsMessage(c.view.Snapshot(), c.cfg))
}

// queueJSON marshals v onto the send queue, dropping it when the queue is full or closed.
func (c *Connection) queueJSON(v interface{}) {
	out, err := json.Marshal(v)
	if err != nil {
		logger.Error.Printf("Error marshaling widget message: %v", err)
		return
	}
	if c.ctx.Err() != nil {
		return
	}
	select {
	case c.send <- out:
	default:
		logger.Warn.Printf("Dropping widget message for connection %v", c.conn.RemoteAddr())
	}
}

// shutdown detaches the connection and discards any in-flight load.
func (c *Connection) shutdown() {
	unregisterConnection(c)
	c.view.Close()
	c.cancel()
	_ = c.conn.Close()
}

// registerConnection adds the given connection to the global connections map.
func registerConnection(c *Connection) {
	connectionsMu.Lock()
	defer connectionsMu.Unlock()
	connections[c] = true
}

// unregisterConnection removes the given connection from the global connections map.
func unregisterConnection(c *Connection) {
	connectionsMu.Lock()
	defer connectionsMu.Unlock()
	delete(connections, c)
}

// activeConnections returns a snapshot of the registered connections.
func activeConnections() []*Connection {
	connectionsMu.Lock()
	defer connectionsMu.Unlock()
	out := make([]*Connection, 0, len(connections))
	for c := range connections {
		out = append(out, c)
	}
	return out
}
