package protocol

// Type is the "type" field of every message
type Type string

// client to server
const (
	CreateRoom   Type = "create_room"
	JoinRoom     Type = "join_room"
	StartGame    Type = "start_game"
	RollDie      Type = "roll_die"
	DrawCards    Type = "draw_cards"
	MakeDeal     Type = "make_deal"
	MakeOffer    Type = "make_offer"
	RespondOffer Type = "respond_offer"
	PlayCard     Type = "play_card"
	CloseDeal    Type = "close_deal"
	NoDeal       Type = "no_deal"
	GetState     Type = "get_state"
)

// server to client
const (
	RoomCreated        Type = "room_created"
	RoomJoined         Type = "room_joined"
	PlayerJoined       Type = "player_joined"
	PlayerDisconnected Type = "player_disconnected"
	LobbyState         Type = "lobby_state"
	GameStarted        Type = "game_started"
	GameState          Type = "game_state"
	ActionResult       Type = "action_result"
	Error              Type = "error"
)

// actionNames are the names reported back in action_result
var actionNames = map[Type]string{
	RollDie:      "rollDie",
	DrawCards:    "drawCards",
	MakeDeal:     "startNegotiation",
	MakeOffer:    "makeOffer",
	RespondOffer: "respondOffer",
	PlayCard:     "playCard",
	CloseDeal:    "closeDeal",
	NoDeal:       "noDeal",
}

// IsGameAction reports whether t acts on a running game
func (t Type) IsGameAction() bool {
	_, ok := actionNames[t]
	return ok
}

// Action is the action name for a game action, or "" for anything else
func (t Type) Action() string {
	return actionNames[t]
}
