package websocket

import (
	"encoding/json"
	"sort"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 4 * 1024

	sendBufferSize = 256
)

var newline = []byte{'\n'}

// ClientCommand is sent by a client to change its subscriptions
type ClientCommand struct {
	Action string   `json:"action"` // "subscribe" or "unsubscribe"
	Tables []string `json:"tables"`
}

// Client is a middleman between the websocket connection and the hub
type Client struct {
	hub  *Hub
	conn *websocket.Conn
	addr string

	// Buffered channel of outbound messages
	send chan []byte

	userID int64
	role   string

	// institutionID scopes what a non-admin client receives
	institutionID int64

	// Tables this client receives events for. Owned by the hub goroutine.
	tables map[string]bool

	logger zerolog.Logger
}

func newClient(hub *Hub, conn *websocket.Conn, addr string, userID int64, role string, institutionID int64, tables []string, logger zerolog.Logger) *Client {
	set := make(map[string]bool, len(tables))
	for _, t := range tables {
		set[t] = true
	}
	return &Client{
		hub:           hub,
		conn:          conn,
		addr:          addr,
		send:          make(chan []byte, sendBufferSize),
		userID:        userID,
		role:          role,
		institutionID: institutionID,
		tables:        set,
		logger:        logger,
	}
}

// canSee reports whether event belongs to what the client may observe
func (c *Client) canSee(event *ChangeEvent) bool {
	if c.role == roleAdmin {
		return true
	}
	return event.InstitutionID != nil && *event.InstitutionID == c.institutionID
}

func (c *Client) tableList() []string {
	out := make([]string, 0, len(c.tables))
	for t := range c.tables {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

// readPump handles subscription commands until the connection closes
func (c *Client) readPump() {
	defer func() {
		enqueue(c.hub, c.hub.unregister, c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error { c.conn.SetReadDeadline(time.Now().Add(pongWait)); return nil })

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				c.logger.Info().Int64("userID", c.userID).Msg("WebSocket closed normally")
			} else if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.Warn().Err(err).Int64("userID", c.userID).Msg("Unexpected WebSocket close")
			} else {
				c.logger.Debug().Err(err).Int64("userID", c.userID).Msg("WebSocket read error")
			}
			break
		}

		var cmd ClientCommand
		if err := json.Unmarshal(message, &cmd); err != nil {
			c.logger.Debug().Err(err).Int64("userID", c.userID).Msg("Ignoring malformed client command")
			continue
		}
		c.handleCommand(cmd)
	}
}

func (c *Client) handleCommand(cmd ClientCommand) {
	switch cmd.Action {
	case "subscribe":
		if err := AuthorizeTables(c.role, cmd.Tables); err != nil {
			c.logger.Warn().Err(err).Int64("userID", c.userID).Strs("tables", cmd.Tables).Msg("Subscription refused")
			return
		}
		enqueue(c.hub, c.hub.subscribe, subscription{client: c, tables: cmd.Tables, subscribe: true})
	case "unsubscribe":
		enqueue(c.hub, c.hub.subscribe, subscription{client: c, tables: cmd.Tables, subscribe: false})
	default:
		c.logger.Debug().Str("action", cmd.Action).Msg("Unknown client command")
	}
}

// writePump pumps messages from the hub to the websocket connection
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// The hub closed the channel
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := c.conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message)

			// Coalesce queued events into the same frame
			n := len(c.send)
			for i := 0; i < n; i++ {
				w.Write(newline)
				w.Write(<-c.send)
			}

			if err := w.Close(); err != nil {
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
