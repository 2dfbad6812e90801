package live

import (
	"encoding/json"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// wsConn is the slice of *websocket.Conn the hub needs; tests substitute a
// recording stub.
type wsConn interface {
	WriteMessage(messageType int, data []byte) error
	Close() error
}

// Client is one connected socket. The ID is minted per connection and changes
// across reconnects; it identifies presence, never scoring.
type Client struct {
	ID   string
	conn wsConn
	mu   sync.Mutex
}

func NewClient(conn wsConn) *Client {
	return &Client{ID: uuid.NewString(), conn: conn}
}

func (c *Client) Send(msg WSMessage) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteMessage(websocket.TextMessage, data)
}

func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.Close()
}
