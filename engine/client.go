package engine

import (
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"github.com/minaorangina/boss/protocol"
	uuid "github.com/satori/go.uuid"
	"go.uber.org/zap"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Default maximum message size allowed from peer.
	maxMessageSize = 4096

	sendBufferSize = 64
)

var (
	ErrClientClosed = errors.New("client connection closed")
	ErrSlowClient   = errors.New("client send buffer full")
)

// NewID constructs a connection ID
func NewID() string {
	return uuid.NewV4().String()
}

// Lobby creates and finds rooms for clients that are not in one yet
type Lobby interface {
	CreateRoom() (*Room, error)
	FindRoom(code string) (*Room, error)
}

type ClientOpts struct {
	Lobby          Lobby
	Logger         *zap.Logger
	MaxMessageSize int64
}

// Client is one websocket connection. It is in at most one room.
type Client struct {
	id             string
	conn           *websocket.Conn
	send           chan []byte
	done           chan struct{}
	lobby          Lobby
	room           *Room
	logger         *zap.Logger
	maxMessageSize int64
}

func NewClient(conn *websocket.Conn, opts ClientOpts) *Client {
	id := NewID()
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	size := opts.MaxMessageSize
	if size <= 0 {
		size = maxMessageSize
	}

	return &Client{
		id:             id,
		conn:           conn,
		send:           make(chan []byte, sendBufferSize),
		done:           make(chan struct{}),
		lobby:          opts.Lobby,
		logger:         logger.With(zap.String("conn", id)),
		maxMessageSize: size,
	}
}

func (c *Client) ID() string {
	return c.id
}

// Send queues msg for the write pump. It never blocks.
func (c *Client) Send(msg protocol.OutboundMessage) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	select {
	case <-c.done:
		return ErrClientClosed
	default:
	}

	select {
	case c.send <- data:
		return nil
	default:
		return ErrSlowClient
	}
}

// Run pumps messages until the connection ends, then leaves the client's room
func (c *Client) Run() {
	go c.writePump()
	c.readPump()
}

func (c *Client) readPump() {
	defer func() {
		if c.room != nil {
			c.room.Leave(c)
		}
		close(c.done)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(c.maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Warn("connection closed unexpectedly", zap.Error(err))
			}
			return
		}

		var msg protocol.InboundMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			c.reply(protocol.ErrorMessage("Invalid JSON"))
			continue
		}

		c.receive(msg)
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
			w, err := c.conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(msg)
			if err := w.Close(); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-c.done:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			c.conn.WriteMessage(websocket.CloseMessage, []byte{})
			return
		}
	}
}

func (c *Client) receive(msg protocol.InboundMessage) {
	if c.room != nil {
		c.room.Receive(c, msg)
		return
	}

	switch msg.Type {
	case protocol.CreateRoom, protocol.JoinRoom:
		c.enter(msg)
	default:
		c.reply(protocol.ErrorMessage(ErrNotInRoom.Error()))
	}
}

// enter creates or finds a room and joins it. The room answers a successful join.
func (c *Client) enter(msg protocol.InboundMessage) {
	if strings.TrimSpace(msg.PlayerName) == "" {
		c.reply(protocol.ErrorMessage(ErrNameRequired.Error()))
		return
	}

	var room *Room
	var err error
	if msg.Type == protocol.CreateRoom {
		room, err = c.lobby.CreateRoom()
	} else {
		room, err = c.lobby.FindRoom(msg.RoomCode)
	}
	if err == nil {
		_, err = room.Join(msg.PlayerName, c)
	}
	if err != nil {
		c.reply(protocol.ErrorMessage(err.Error()))
		return
	}

	c.room = room
	c.logger.Debug("entered room", zap.String("room", room.Code()))
}

func (c *Client) reply(msg protocol.OutboundMessage) {
	if err := c.Send(msg); err != nil {
		c.logger.Warn("could not reply", zap.String("type", string(msg.Type)), zap.Error(err))
	}
}
