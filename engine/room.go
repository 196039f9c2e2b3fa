package engine

import (
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/minaorangina/boss/deck"
	"github.com/minaorangina/boss/game"
	"github.com/minaorangina/boss/protocol"
	"go.uber.org/zap"
)

const hostID = 0

// Sender is a connection a room can deliver messages to
type Sender interface {
	ID() string
	Send(msg protocol.OutboundMessage) error
}

type RoomOpts struct {
	Code   string
	Rand   game.RandomSource
	Logger *zap.Logger
	// OnEmpty is called from the room's goroutine when the last connected player leaves
	OnEmpty func(code string)
}

// RoomInfo is a snapshot of a room for lookups and sweeping
type RoomInfo struct {
	Code      string            `json:"roomCode"`
	Players   []protocol.Player `json:"players"`
	Started   bool              `json:"started"`
	Connected int               `json:"-"`
}

type seat struct {
	id   int
	name string
	conn Sender
}

func (s *seat) connected() bool {
	return s.conn != nil
}

type joinReply struct {
	playerID int
	err      error
}

type joinRequest struct {
	name  string
	conn  Sender
	reply chan joinReply
}

type inbound struct {
	conn Sender
	msg  protocol.InboundMessage
}

// Room hosts one game. All of its state is owned by the Listen goroutine.
type Room struct {
	code    string
	seats   []*seat
	game    *game.Game
	rng     game.RandomSource
	logger  *zap.Logger
	onEmpty func(code string)

	joinCh    chan joinRequest
	leaveCh   chan Sender
	inboundCh chan inbound
	infoCh    chan chan RoomInfo
	quit      chan struct{}
	done      chan struct{}
	closeOnce sync.Once
}

// NewRoom constructs a Room and starts its Listen goroutine
func NewRoom(opts RoomOpts) *Room {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	rng := opts.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	r := &Room{
		code:      opts.Code,
		rng:       rng,
		logger:    logger.With(zap.String("room", opts.Code)),
		onEmpty:   opts.OnEmpty,
		joinCh:    make(chan joinRequest),
		leaveCh:   make(chan Sender),
		inboundCh: make(chan inbound),
		infoCh:    make(chan chan RoomInfo),
		quit:      make(chan struct{}),
		done:      make(chan struct{}),
	}

	go r.Listen()

	return r
}

func (r *Room) Code() string {
	return r.code
}

// Join seats a new player. The first player to join is the host.
func (r *Room) Join(name string, conn Sender) (int, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return 0, ErrNameRequired
	}

	req := joinRequest{name: name, conn: conn, reply: make(chan joinReply, 1)}
	select {
	case r.joinCh <- req:
	case <-r.done:
		return 0, ErrRoomClosed
	}

	reply := <-req.reply
	return reply.playerID, reply.err
}

// Leave marks the player using conn as disconnected. Their seat is kept.
func (r *Room) Leave(conn Sender) {
	select {
	case r.leaveCh <- conn:
	case <-r.done:
	}
}

// Receive queues a message from conn for the room
func (r *Room) Receive(conn Sender, msg protocol.InboundMessage) {
	select {
	case r.inboundCh <- inbound{conn: conn, msg: msg}:
	case <-r.done:
	}
}

// Info reports the room's players. ok is false once the room has closed.
func (r *Room) Info() (info RoomInfo, ok bool) {
	reply := make(chan RoomInfo, 1)
	select {
	case r.infoCh <- reply:
	case <-r.done:
		return RoomInfo{}, false
	}
	return <-reply, true
}

// Close stops the room. It does not wait for the Listen goroutine.
func (r *Room) Close() {
	r.closeOnce.Do(func() {
		close(r.quit)
	})
}

// Done is closed once the room has stopped
func (r *Room) Done() <-chan struct{} {
	return r.done
}

// Listen processes joins, leaves and messages one at a time until the room is closed
func (r *Room) Listen() {
	defer close(r.done)

	for {
		select {
		case req := <-r.joinCh:
			id, err := r.join(req.name, req.conn)
			req.reply <- joinReply{playerID: id, err: err}

		case conn := <-r.leaveCh:
			r.leave(conn)

		case in := <-r.inboundCh:
			r.handle(in.conn, in.msg)

		case reply := <-r.infoCh:
			reply <- r.info()

		case <-r.quit:
			r.logger.Info("room closed")
			return
		}
	}
}

func (r *Room) join(name string, conn Sender) (int, error) {
	if r.seatFor(conn) != nil {
		return 0, ErrAlreadyInRoom
	}
	if r.game != nil {
		return 0, ErrRoomStarted
	}
	if len(r.seats) >= game.MaxPlayers {
		return 0, ErrRoomFull
	}

	s := &seat{id: len(r.seats), name: name, conn: conn}
	r.seats = append(r.seats, s)
	players := r.players()

	if s.id == hostID {
		r.send(s, protocol.RoomCreatedMessage(r.code, s.id, players))
	} else {
		r.send(s, protocol.RoomJoinedMessage(r.code, s.id, players))
		r.broadcastExcept(s.id, protocol.PlayerJoinedMessage(s.id, s.name, players))
	}

	r.logger.Info("player joined", zap.Int("player", s.id), zap.String("name", name))

	return s.id, nil
}

func (r *Room) leave(conn Sender) {
	s := r.seatFor(conn)
	if s == nil {
		return
	}

	s.conn = nil
	r.broadcast(protocol.PlayerDisconnectedMessage(s.id, s.name, r.players()))
	r.logger.Info("player disconnected", zap.Int("player", s.id))

	if r.connectedCount() == 0 && r.onEmpty != nil {
		r.onEmpty(r.code)
	}
}

func (r *Room) handle(conn Sender, msg protocol.InboundMessage) {
	s := r.seatFor(conn)
	if s == nil {
		r.sendTo(conn, protocol.ErrorMessage(ErrNotInRoom.Error()))
		return
	}

	switch {
	case msg.Type == protocol.CreateRoom, msg.Type == protocol.JoinRoom:
		r.send(s, protocol.ErrorMessage(ErrAlreadyInRoom.Error()))

	case msg.Type == protocol.StartGame:
		if err := r.start(s); err != nil {
			r.send(s, protocol.ErrorMessage(err.Error()))
		}

	case msg.Type == protocol.GetState:
		r.sendState(s)

	case msg.Type.IsGameAction():
		r.act(s, msg)

	default:
		r.send(s, protocol.ErrorMessage("Unknown message type"))
	}
}

func (r *Room) canStart() bool {
	return r.game == nil && len(r.seats) >= game.MinPlayers && len(r.seats) <= game.MaxPlayers
}

func (r *Room) start(s *seat) error {
	if s.id != hostID {
		return ErrNotHost
	}
	if r.game != nil {
		return ErrRoomStarted
	}
	if !r.canStart() {
		return ErrCannotStart
	}

	names := make([]string, len(r.seats))
	for i, seat := range r.seats {
		names[i] = seat.name
	}

	g, err := game.New(names, game.Opts{Rand: r.rng, Logger: r.logger})
	if err != nil {
		return err
	}
	r.game = g

	for _, seat := range r.seats {
		if !seat.connected() {
			continue
		}
		viewer := game.PlayerID(seat.id)
		r.send(seat, protocol.GameStartedMessage(g.State(&viewer)))
	}

	r.logger.Info("game started", zap.Int("players", len(names)))

	return nil
}

func (r *Room) sendState(s *seat) {
	if r.game == nil {
		r.send(s, protocol.LobbyStateMessage(r.code, r.players(), s.id == hostID, r.canStart()))
		return
	}

	viewer := game.PlayerID(s.id)
	r.send(s, protocol.GameStateMessage(r.game.State(&viewer)))
}

// act applies a game action, then shows everyone the new state before answering the actor
func (r *Room) act(s *seat, msg protocol.InboundMessage) {
	if r.game == nil {
		r.send(s, protocol.ErrorMessage(ErrNotStarted.Error()))
		return
	}

	result, err := r.apply(game.PlayerID(s.id), msg)
	if err != nil {
		r.logger.Debug("action rejected",
			zap.Int("player", s.id),
			zap.String("action", msg.Type.Action()),
			zap.Error(err),
		)
		result = protocol.ActionFailed(msg.Type, err.Error())
	}

	for _, seat := range r.seats {
		if seat.connected() {
			r.sendState(seat)
		}
	}
	r.send(s, result)

	if result.GameOver != nil && *result.GameOver {
		if winner, ok := r.game.Winner(); ok {
			r.logger.Info("game over", zap.Int("winner", int(winner.ID)), zap.Int("cash", winner.Cash))
		}
	}
}

func (r *Room) apply(player game.PlayerID, msg protocol.InboundMessage) (protocol.OutboundMessage, error) {
	g := r.game
	none := protocol.OutboundMessage{}

	switch msg.Type {
	case protocol.RollDie:
		res, err := g.RollDie(player)
		if err != nil {
			return none, err
		}
		return protocol.ActionSucceeded(msg.Type, "").WithRoll(res), nil

	case protocol.DrawCards:
		res, err := g.DrawCards(player)
		if err != nil {
			return none, err
		}
		return protocol.ActionSucceeded(msg.Type, "").WithDraw(res), nil

	case protocol.MakeDeal:
		res, err := g.StartNegotiation(player)
		if err != nil {
			return none, err
		}
		return protocol.ActionSucceeded(msg.Type, "").WithNegotiation(res), nil

	case protocol.MakeOffer:
		if msg.ToPlayerID == nil || msg.Amount == nil {
			return none, ErrOfferFields
		}
		if err := g.MakeOffer(player, game.PlayerID(*msg.ToPlayerID), *msg.Amount); err != nil {
			return none, err
		}
		return protocol.ActionSucceeded(msg.Type, g.LastEvent().Message), nil

	case protocol.RespondOffer:
		if msg.Accept == nil {
			return none, ErrAcceptMissing
		}
		if err := g.RespondToOffer(player, *msg.Accept); err != nil {
			return none, err
		}
		return protocol.ActionSucceeded(msg.Type, g.LastEvent().Message), nil

	case protocol.PlayCard:
		if msg.CardID == nil {
			return none, ErrCardMissing
		}
		target := deck.NoColor
		if msg.TargetColor != "" {
			c, ok := deck.ParseColor(msg.TargetColor)
			if !ok {
				return none, ErrUnknownColor
			}
			target = c
		}
		if err := g.PlayCard(player, *msg.CardID, target); err != nil {
			return none, err
		}
		return protocol.ActionSucceeded(msg.Type, g.LastEvent().Message), nil

	case protocol.CloseDeal:
		res, err := g.CloseDeal(player)
		if err != nil {
			return none, err
		}
		return protocol.ActionSucceeded(msg.Type, "").WithClose(res), nil

	case protocol.NoDeal:
		if err := g.FailDeal(player); err != nil {
			return none, err
		}
		return protocol.ActionSucceeded(msg.Type, g.LastEvent().Message), nil
	}

	return none, RoomError("Unknown message type")
}

func (r *Room) info() RoomInfo {
	return RoomInfo{
		Code:      r.code,
		Players:   r.players(),
		Started:   r.game != nil,
		Connected: r.connectedCount(),
	}
}

func (r *Room) players() []protocol.Player {
	players := make([]protocol.Player, len(r.seats))
	for i, s := range r.seats {
		players[i] = protocol.Player{
			ID:          s.id,
			Name:        s.name,
			IsConnected: s.connected(),
			IsHost:      s.id == hostID,
		}
	}
	return players
}

func (r *Room) connectedCount() int {
	n := 0
	for _, s := range r.seats {
		if s.connected() {
			n++
		}
	}
	return n
}

func (r *Room) seatFor(conn Sender) *seat {
	if conn == nil {
		return nil
	}
	for _, s := range r.seats {
		if s.connected() && s.conn.ID() == conn.ID() {
			return s
		}
	}
	return nil
}

func (r *Room) send(s *seat, msg protocol.OutboundMessage) {
	if !s.connected() {
		return
	}
	r.sendTo(s.conn, msg)
}

func (r *Room) sendTo(conn Sender, msg protocol.OutboundMessage) {
	if err := conn.Send(msg); err != nil {
		r.logger.Warn("could not send message",
			zap.String("conn", conn.ID()),
			zap.String("type", string(msg.Type)),
			zap.Error(err),
		)
	}
}

func (r *Room) broadcast(msg protocol.OutboundMessage) {
	for _, s := range r.seats {
		r.send(s, msg)
	}
}

func (r *Room) broadcastExcept(playerID int, msg protocol.OutboundMessage) {
	for _, s := range r.seats {
		if s.id != playerID {
			r.send(s, msg)
		}
	}
}
