package engine

import "errors"

// ErrRoom is matched by every room-level failure
var ErrRoom = errors.New("room error")

// RoomError is a room-level failure whose text is shown to the player
type RoomError string

func (e RoomError) Error() string {
	return string(e)
}

func (e RoomError) Unwrap() error {
	return ErrRoom
}

var (
	ErrNameRequired  error = RoomError("Player name required")
	ErrRoomFull      error = RoomError("Room is full")
	ErrRoomStarted   error = RoomError("Game already started")
	ErrRoomClosed    error = RoomError("Room is closed")
	ErrNotHost       error = RoomError("Only host can start game")
	ErrCannotStart   error = RoomError("Need 3-6 players to start")
	ErrNotStarted    error = RoomError("Game not started")
	ErrNotInRoom     error = RoomError("Not in a room")
	ErrAlreadyInRoom error = RoomError("Already in a room")
)

// malformed game actions
var (
	ErrOfferFields   error = RoomError("An offer needs toPlayerId and amount")
	ErrAcceptMissing error = RoomError("A response needs accept")
	ErrCardMissing   error = RoomError("A card play needs cardId")
	ErrUnknownColor  error = RoomError("Unknown color")
)
