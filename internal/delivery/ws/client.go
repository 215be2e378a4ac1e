package ws

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/mmuslimabdulj/quickmeet/internal/domain"
	"github.com/mmuslimabdulj/quickmeet/internal/metrics"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10 // must stay below pongWait

	sendBuffer = 256 // frames queued per tab before new ones are dropped
)

// Client is one browser tab connected to a room
type Client struct {
	ID   string
	hub  *Hub
	conn *websocket.Conn
	send chan []byte
}

// NewClient creates a new Client
func NewClient(hub *Hub, conn *websocket.Conn) *Client {
	return &Client{
		ID:   uuid.New().String(),
		hub:  hub,
		conn: conn,
		send: make(chan []byte, sendBuffer),
	}
}

// ReadPump decodes intents from the tab and submits them to the hub.
// It owns the connection's read side and unregisters the tab on exit.
func (c *Client) ReadPump() {
	metrics.IncrementWSConnections()
	defer func() {
		metrics.DecrementWSConnections()
		c.hub.Unregister(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(c.hub.maxMessageSize)
	c.extendReadDeadline()
	c.conn.SetPongHandler(func(string) error {
		c.extendReadDeadline()
		return nil
	})

	for {
		in, err := c.readIntent()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Debug().Err(err).Str("client", c.ID).Msg("websocket closed")
			}
			return
		}
		if in.Type == "" {
			continue
		}
		c.hub.Submit(c, in)
	}
}

// readIntent reads one frame. Malformed frames yield an empty intent.
// Frame contents carry chat text and are never logged.
func (c *Client) readIntent() (domain.Intent, error) {
	_, frame, err := c.conn.ReadMessage()
	if err != nil {
		return domain.Intent{}, err
	}
	var in domain.Intent
	if err := json.Unmarshal(frame, &in); err != nil {
		log.Debug().Str("client", c.ID).Int("bytes", len(frame)).Msg("dropped malformed frame")
		return domain.Intent{}, nil
	}
	return in, nil
}

func (c *Client) extendReadDeadline() {
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
}

// WritePump sends queued envelopes and keepalive pings to the tab
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case first, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// Room stopped or tab unregistered
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.writeBatch(first); err != nil {
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

// writeBatch writes first plus whatever is already queued as one
// newline-separated text frame
func (c *Client) writeBatch(first []byte) error {
	w, err := c.conn.NextWriter(websocket.TextMessage)
	if err != nil {
		return err
	}
	w.Write(first)
	for queued := len(c.send); queued > 0; queued-- {
		w.Write([]byte{'\n'})
		w.Write(<-c.send)
	}
	return w.Close()
}

// Send queues an envelope without blocking. A full queue drops it;
// the next state envelope supersedes anything lost.
func (c *Client) Send(msg []byte) {
	select {
	case c.send <- msg:
	default:
		log.Debug().Str("client", c.ID).Msg("send queue full")
	}
}
