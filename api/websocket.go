package api

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 8192
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return isAllowedOrigin(r.Header.Get("Origin"))
	},
}

// liftEventNames is the closed set of event names a client may subscribe
// to; requests naming anything else are rejected with an error ack.
var liftEventNames = map[string]EventType{
	"layout": EventTypeLayout,
	"log":    EventTypeLog,
	"error":  EventTypeLiftError,
}

// wsRequest is the one message shape a client sends over the socket:
// subscribe to a session's lift events (optionally filtered by name), or
// drop the current subscription.
type wsRequest struct {
	Action    string   `json:"action"` // "subscribe" or "unsubscribe"
	SessionID string   `json:"sessionId,omitempty"`
	Events    []string `json:"events,omitempty"`
}

// wsAck is the server's direct reply to a wsRequest, interleaved with
// broadcast events on the same socket.
type wsAck struct {
	Type      string `json:"type"` // "ack" or "requestError"
	SessionID string `json:"sessionId,omitempty"`
	Message   string `json:"message,omitempty"`
}

// wsClient is one WebSocket subscriber to lift events. Everything written
// to the socket (acks and broadcast events alike) funnels through outbound
// so writePump is the only writer.
type wsClient struct {
	conn        *websocket.Conn
	broadcaster *Broadcaster
	outbound    chan interface{}

	mu  sync.Mutex
	sub *Subscription
}

// handleWebSocket handles GET /api/v1/ws: upgrade, then serve lift events
// for whatever session the client subscribes to.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade error: %v", err)
		return
	}

	client := &wsClient{
		conn:        conn,
		broadcaster: s.broadcaster,
		outbound:    make(chan interface{}, 256),
	}

	go client.writePump()
	go client.readPump()
}

// readPump parses client requests until the connection drops, then tears
// down any live subscription.
func (c *wsClient) readPump() {
	defer func() {
		c.dropSubscription()
		if err := c.conn.Close(); err != nil {
			log.Printf("WebSocket close error: %v", err)
		}
	}()

	c.conn.SetReadLimit(maxMessageSize)
	if err := c.conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		log.Printf("SetReadDeadline error: %v", err)
		return
	}
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket error: %v", err)
			}
			return
		}

		var req wsRequest
		if err := json.Unmarshal(message, &req); err != nil {
			c.reply(wsAck{Type: "requestError", Message: "malformed request"})
			continue
		}
		c.handleRequest(req)
	}
}

// handleRequest applies one subscribe/unsubscribe request and acks it.
func (c *wsClient) handleRequest(req wsRequest) {
	switch req.Action {
	case "subscribe":
		events, err := parseEventNames(req.Events)
		if err != nil {
			c.reply(wsAck{Type: "requestError", Message: err.Error()})
			return
		}
		c.resubscribe(req.SessionID, events)
		c.reply(wsAck{Type: "ack", SessionID: req.SessionID})

	case "unsubscribe":
		c.dropSubscription()
		c.reply(wsAck{Type: "ack"})

	default:
		c.reply(wsAck{Type: "requestError", Message: fmt.Sprintf("unknown action %q", req.Action)})
	}
}

// parseEventNames resolves requested event names against the closed set;
// an empty list means all event types.
func parseEventNames(names []string) ([]EventType, error) {
	events := make([]EventType, 0, len(names))
	for _, name := range names {
		et, ok := liftEventNames[name]
		if !ok {
			return nil, fmt.Errorf("unknown event type %q", name)
		}
		events = append(events, et)
	}
	return events, nil
}

// resubscribe replaces the client's subscription and starts a forwarder
// draining it into outbound. The old forwarder exits when Unsubscribe
// closes its channel.
func (c *wsClient) resubscribe(sessionID string, events []EventType) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.sub != nil {
		c.broadcaster.Unsubscribe(c.sub)
	}
	sub := c.broadcaster.Subscribe(sessionID, events)
	c.sub = sub

	go func() {
		for event := range sub.Channel {
			c.reply(event)
		}
	}()
}

// dropSubscription removes the current subscription, if any.
func (c *wsClient) dropSubscription() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.sub != nil {
		c.broadcaster.Unsubscribe(c.sub)
		c.sub = nil
	}
}

// reply enqueues a message for writePump, dropping it if the client has
// fallen too far behind to keep the broadcaster unblocked.
func (c *wsClient) reply(msg interface{}) {
	select {
	case c.outbound <- msg:
	default:
	}
}

// writePump is the sole socket writer: it drains outbound and keeps the
// connection alive with pings.
func (c *wsClient) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		if err := c.conn.Close(); err != nil {
			log.Printf("WebSocket close error: %v", err)
		}
	}()

	for {
		select {
		case msg := <-c.outbound:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				log.Printf("SetWriteDeadline error: %v", err)
				return
			}
			if err := c.conn.WriteJSON(msg); err != nil {
				log.Printf("WriteJSON error: %v", err)
				return
			}

		case <-ticker.C:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				log.Printf("SetWriteDeadline error: %v", err)
				return
			}
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
