package protocol

import (
	"github.com/minaorangina/boss/deck"
	"github.com/minaorangina/boss/game"
)

// Player is a seat in a room
type Player struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	IsConnected bool   `json:"isConnected"`
	IsHost      bool   `json:"isHost"`
}

// InboundMessage is a message from a client to its room.
// Optional fields are pointers so a missing field can be told apart from a zero.
type InboundMessage struct {
	Type        Type   `json:"type"`
	PlayerName  string `json:"playerName,omitempty"`
	RoomCode    string `json:"roomCode,omitempty"`
	ToPlayerID  *int   `json:"toPlayerId,omitempty"`
	Amount      *int   `json:"amount,omitempty"`
	Accept      *bool  `json:"accept,omitempty"`
	CardID      *int   `json:"cardId,omitempty"`
	TargetColor string `json:"targetColor,omitempty"`
}

// OutboundMessage is a message from a room to a client
type OutboundMessage struct {
	Type       Type              `json:"type"`
	RoomCode   string            `json:"roomCode,omitempty"`
	PlayerID   *int              `json:"playerId,omitempty"`
	PlayerName string            `json:"playerName,omitempty"`
	Players    []Player          `json:"players,omitempty"`
	IsHost     *bool             `json:"isHost,omitempty"`
	CanStart   *bool             `json:"canStart,omitempty"`
	State      *game.PublicState `json:"state,omitempty"`

	Action  string `json:"action,omitempty"`
	Success *bool  `json:"success,omitempty"`
	Message string `json:"message,omitempty"`

	Roll              *int          `json:"roll,omitempty"`
	NewPosition       *int          `json:"newPosition,omitempty"`
	DrawnCount        *int          `json:"drawnCount,omitempty"`
	DiscardedCount    *int          `json:"discardedCount,omitempty"`
	Pot               *int          `json:"pot,omitempty"`
	RequiredInvestors []deck.Color  `json:"requiredInvestors,omitempty"`
	Space             *game.Space   `json:"space,omitempty"`
	Payouts           []game.Payout `json:"payouts,omitempty"`
	BossShare         *int          `json:"bossShare,omitempty"`
	GameOver          *bool         `json:"gameOver,omitempty"`
	EndRoll           *int          `json:"endRoll,omitempty"`
}

func intPtr(i int) *int {
	return &i
}

func boolPtr(b bool) *bool {
	return &b
}

// ErrorMessage builds an error message for a client
func ErrorMessage(message string) OutboundMessage {
	return OutboundMessage{Type: Error, Message: message}
}

func RoomCreatedMessage(code string, playerID int, players []Player) OutboundMessage {
	return OutboundMessage{Type: RoomCreated, RoomCode: code, PlayerID: intPtr(playerID), Players: players}
}

func RoomJoinedMessage(code string, playerID int, players []Player) OutboundMessage {
	return OutboundMessage{Type: RoomJoined, RoomCode: code, PlayerID: intPtr(playerID), Players: players}
}

func PlayerJoinedMessage(playerID int, name string, players []Player) OutboundMessage {
	return OutboundMessage{Type: PlayerJoined, PlayerID: intPtr(playerID), PlayerName: name, Players: players}
}

func PlayerDisconnectedMessage(playerID int, name string, players []Player) OutboundMessage {
	return OutboundMessage{Type: PlayerDisconnected, PlayerID: intPtr(playerID), PlayerName: name, Players: players}
}

func LobbyStateMessage(code string, players []Player, isHost, canStart bool) OutboundMessage {
	return OutboundMessage{
		Type:     LobbyState,
		RoomCode: code,
		Players:  players,
		IsHost:   boolPtr(isHost),
		CanStart: boolPtr(canStart),
	}
}

func GameStartedMessage(state game.PublicState) OutboundMessage {
	return OutboundMessage{Type: GameStarted, State: &state}
}

func GameStateMessage(state game.PublicState) OutboundMessage {
	return OutboundMessage{Type: GameState, State: &state}
}

// ActionFailed reports a rejected action to the player who sent it
func ActionFailed(t Type, message string) OutboundMessage {
	return OutboundMessage{Type: ActionResult, Action: t.Action(), Success: boolPtr(false), Message: message}
}

// ActionSucceeded reports a successful action. Use the With* methods to add its result.
func ActionSucceeded(t Type, message string) OutboundMessage {
	return OutboundMessage{Type: ActionResult, Action: t.Action(), Success: boolPtr(true), Message: message}
}

func (m OutboundMessage) WithRoll(r game.RollResult) OutboundMessage {
	m.Roll = intPtr(r.Roll)
	m.NewPosition = intPtr(r.NewPosition)
	return m
}

func (m OutboundMessage) WithDraw(r game.DrawResult) OutboundMessage {
	m.DrawnCount = intPtr(r.DrawnCount)
	m.DiscardedCount = intPtr(r.DiscardedCount)
	return m
}

func (m OutboundMessage) WithNegotiation(r game.NegotiationStart) OutboundMessage {
	space := r.Space
	m.Pot = intPtr(r.Pot)
	m.RequiredInvestors = r.Required
	m.Space = &space
	return m
}

func (m OutboundMessage) WithClose(r game.CloseResult) OutboundMessage {
	m.Pot = intPtr(r.Pot)
	m.Payouts = r.Payouts
	m.BossShare = intPtr(r.BossShare)
	m.GameOver = boolPtr(r.GameOver)
	if r.EndRoll > 0 {
		m.EndRoll = intPtr(r.EndRoll)
	}
	return m
}
