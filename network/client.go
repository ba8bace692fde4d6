package network

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"pixeldown_server/logger"
	"pixeldown_server/logic"
)

const (
	writeWait  = 5 * time.Second
	maxMsgSize = 1 << 20
)

// Pings must outpace the read deadline or idle-but-healthy
// connections get severed mid-match. Vars so tests can shrink the
// windows.
var (
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Demo deployment: all origins accepted.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Client is one websocket connection. It is bound to at most one room
// at a time; the binding is owned by the readPump goroutine.
type Client struct {
	registry *Registry
	conn     *websocket.Conn
	send     chan []byte
	done     chan struct{}

	id   string
	room *Room
}

// ServeWS upgrades the connection and starts the pumps.
func ServeWS(reg *Registry, w http.ResponseWriter, r *http.Request) {
	ws, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Log.Warnw("ws upgrade failed", "err", err)
		return
	}

	c := &Client{
		registry: reg,
		conn:     ws,
		send:     make(chan []byte, 64),
		done:     make(chan struct{}),
		id:       uuid.NewString(),
	}

	go c.writePump()
	go c.readPump()
}

// PlayerID implements Conn.
func (c *Client) PlayerID() string { return c.id }

// Enqueue implements Conn: non-blocking so a slow subscriber never
// stalls a room tick. Reports whether the message was queued.
func (c *Client) Enqueue(msg []byte) bool {
	select {
	case c.send <- msg:
		return true
	default:
		return false
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
		case msg := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			// Keepalive; the peer's pong refreshes the read deadline.
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-c.done:
			c.conn.WriteMessage(websocket.CloseMessage, []byte{})
			return
		}
	}
}

func (c *Client) readPump() {
	defer func() {
		if c.room != nil {
			c.room.Leave(c.id)
			c.room = nil
		}
		close(c.done)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMsgSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, payload, err := c.conn.ReadMessage()
		if err != nil {
			return
		}
		var env clientEnvelope
		if err := json.Unmarshal(payload, &env); err != nil {
			continue
		}
		c.route(env)
	}
}

// route validates and forwards one inbound message. Messages for a
// session this connection is not bound to are no-ops.
func (c *Client) route(env clientEnvelope) {
	switch env.Type {
	case MsgJoinGame:
		var p joinGamePayload
		if env.Payload != nil {
			if err := json.Unmarshal(env.Payload, &p); err != nil {
				return
			}
		}
		c.handleJoin(p)

	case MsgFindRandomGame:
		room := c.registry.FindJoinable()
		c.Enqueue(encodeEvent(EvtRandomGameResult, randomGameResultPayload{
			RoomID:      room.ID,
			PlayerCount: room.PlayerCount(),
			MaxPlayers:  c.registry.cfg.Server.MaxPlayers,
		}))

	case MsgMove:
		var p movePayload
		if err := json.Unmarshal(env.Payload, &p); err != nil || c.room == nil {
			return
		}
		c.room.Submit(moveCmd{playerID: c.id, forward: p.Forward, backward: p.Backward, angle: p.Angle})

	case MsgShoot:
		var p shootPayload
		if err := json.Unmarshal(env.Payload, &p); err != nil || c.room == nil {
			return
		}
		c.room.Submit(shootCmd{playerID: c.id, origin: logic.Vector2{X: p.X, Y: p.Y}, angle: p.Angle})

	case MsgBuyBuff:
		var p buyBuffPayload
		if err := json.Unmarshal(env.Payload, &p); err != nil || c.room == nil {
			return
		}
		c.room.Submit(buyCmd{playerID: c.id, buffType: p.BuffType})

	case MsgPing:
		c.Enqueue(encodeEvent(EvtPong, nil))
	}
}

func (c *Client) handleJoin(p joinGamePayload) {
	roomID := p.RoomID
	if roomID == "" {
		roomID = uuid.NewString()
	}

	room := c.registry.GetOrCreate(roomID)
	if c.room != nil && c.room != room {
		c.room.Leave(c.id)
		c.room = nil
	}

	coins := c.registry.StartingCoins(p.UserID)
	out := room.Join(c, p.DisplayName, p.UserID, coins)
	if out.Success {
		c.room = room
	}

	c.Enqueue(encodeEvent(EvtJoinResult, joinResultPayload{
		Success:     out.Success,
		RoomID:      roomID,
		Reason:      out.Reason,
		PlayerCount: out.PlayerCount,
		MaxPlayers:  c.registry.cfg.Server.MaxPlayers,
	}))
}
