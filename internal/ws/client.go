package ws

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10

	maxMessageSize = 4096
	sendBuffer     = 64
)

// Client is one websocket connection with a verified identity.
type Client struct {
	AccountID string
	Name      string

	conn *websocket.Conn
	send chan Event

	closeOnce sync.Once
}

// NewClient wraps an upgraded connection. The conn may be nil in tests; only
// the pumps touch it.
func NewClient(conn *websocket.Conn, accountID, name string) *Client {
	return &Client{
		AccountID: accountID,
		Name:      name,
		conn:      conn,
		send:      make(chan Event, sendBuffer),
	}
}

// Send queues an event for delivery, dropping it if the client is backed up.
func (c *Client) trySend(event Event) {
	select {
	case c.send <- event:
	default:
		// slow consumer, drop
	}
}

// SendError queues a typed error event for this client.
func (c *Client) SendError(code, message string) {
	c.trySend(ErrorEvent(code, message))
}

func (c *Client) close() {
	c.closeOnce.Do(func() {
		close(c.send)
	})
}

// WritePump serializes queued events onto the connection and keeps it alive
// with periodic pings. Runs as a goroutine, one per connection.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case event, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteJSON(event); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// ReadPump reads inbound events and hands them to the dispatcher. Blocks
// until the connection drops; malformed frames yield a typed error event
// rather than closing the connection.
func (c *Client) ReadPump(dispatch func(*Client, Inbound)) {
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
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("ws: read error for account %s: %v", c.AccountID, err)
			}
			return
		}

		var inbound Inbound
		if err := json.Unmarshal(data, &inbound); err != nil {
			c.SendError("invalid_event", "event payload is not valid JSON")
			continue
		}
		dispatch(c, inbound)
	}
}
