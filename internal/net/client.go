package net

import (
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/vmihailenco/msgpack/v5"

	rl "github.com/gen2brain/raylib-go/raylib"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
	sendBufSize    = 64
	pendingBufSize = 256
)

// Handlers receive decoded remote events. They are invoked from Drain on the
// frame goroutine, never from the read pump, so a handler may touch
// controller state with plain field assignments.
type Handlers struct {
	OnPos    func(PosUpdate)
	OnWarp   func(WarpMsg)
	OnAttack func(AttackEvent)
	OnHealth func(HealthEvent)
	OnLeave  func(string)
}

// Client is a websocket connection to the arena server. Incoming events are
// queued and applied between frames via Drain.
type Client struct {
	conn      *websocket.Conn
	send      chan []byte
	pending   chan func(h Handlers)
	done      chan struct{}
	closeOnce sync.Once
	handlers  Handlers
}

// Dial connects, announces the player, and starts the read/write pumps.
func Dial(url, playerName string, handlers Handlers) (*Client, error) {
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		return nil, err
	}

	c := &Client{
		conn:     conn,
		send:     make(chan []byte, sendBufSize),
		pending:  make(chan func(h Handlers), pendingBufSize),
		done:     make(chan struct{}),
		handlers: handlers,
	}

	if frame, err := Encode(MsgJoin, JoinMsg{Name: playerName}); err == nil {
		c.send <- frame
	}

	go c.readPump()
	go c.writePump()
	return c, nil
}

// SendPosition reports our authoritative position. Non-blocking: a full send
// buffer drops the report, the next frame's report supersedes it anyway.
func (c *Client) SendPosition(id string, pos rl.Vector3) {
	frame, err := Encode(MsgPos, PosUpdate{ID: id, X: pos.X, Y: pos.Y, Z: pos.Z})
	if err != nil {
		return
	}
	select {
	case c.send <- frame:
	default:
	}
}

// Drain applies all queued remote events on the caller's goroutine. Call once
// per frame, between controller updates.
func (c *Client) Drain() {
	for {
		select {
		case apply := <-c.pending:
			apply(c.handlers)
		default:
			return
		}
	}
}

// Close tears down the connection and stops both pumps. Both pumps and the
// frame goroutine may call it at the same time when the connection drops.
func (c *Client) Close() {
	c.closeOnce.Do(func() {
		close(c.done)
		if c.conn != nil {
			c.conn.Close()
		}
	})
}

func (c *Client) readPump() {
	defer c.Close()

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
				log.Printf("net: read error: %v", err)
			}
			return
		}
		c.dispatch(data)
	}
}

// dispatch decodes one frame and queues its handler call. Unknown or
// malformed frames are dropped with a log, never fatal.
func (c *Client) dispatch(data []byte) {
	var env Envelope
	if err := msgpack.Unmarshal(data, &env); err != nil {
		log.Printf("net: bad envelope: %v", err)
		return
	}

	var apply func(h Handlers)
	switch env.T {
	case MsgPos:
		var m PosUpdate
		if msgpack.Unmarshal(env.D, &m) != nil {
			return
		}
		apply = func(h Handlers) {
			if h.OnPos != nil {
				h.OnPos(m)
			}
		}
	case MsgWarp:
		var m WarpMsg
		if msgpack.Unmarshal(env.D, &m) != nil {
			return
		}
		apply = func(h Handlers) {
			if h.OnWarp != nil {
				h.OnWarp(m)
			}
		}
	case MsgAttack:
		var m AttackEvent
		if msgpack.Unmarshal(env.D, &m) != nil {
			return
		}
		apply = func(h Handlers) {
			if h.OnAttack != nil {
				h.OnAttack(m)
			}
		}
	case MsgHealth:
		var m HealthEvent
		if msgpack.Unmarshal(env.D, &m) != nil {
			return
		}
		apply = func(h Handlers) {
			if h.OnHealth != nil {
				h.OnHealth(m)
			}
		}
	case MsgLeave:
		var m LeaveMsg
		if msgpack.Unmarshal(env.D, &m) != nil {
			return
		}
		apply = func(h Handlers) {
			if h.OnLeave != nil {
				h.OnLeave(m.ID)
			}
		}
	default:
		log.Printf("net: unknown message type %q", env.T)
		return
	}

	select {
	case c.pending <- apply:
	default:
		log.Printf("net: pending queue full, dropping %q", env.T)
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Close()
	}()

	for {
		select {
		case frame := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.BinaryMessage, frame); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-c.done:
			return
		}
	}
}
