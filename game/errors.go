package game

import (
	"errors"
	"fmt"
)

var (
	ErrTooFewPlayers  = errors.New("minimum of 3 players required")
	ErrTooManyPlayers = errors.New("maximum of 6 players allowed")

	ErrInvalidPhase         = errors.New("action not allowed in this phase")
	ErrNotYourTurn          = errors.New("not your turn")
	ErrNotBoss              = errors.New("only the boss can do that")
	ErrInvalidCard          = errors.New("invalid card")
	ErrInvalidTarget        = errors.New("invalid target")
	ErrInsufficientResource = errors.New("insufficient resource")
)

// RuleError is a rule violation. Message is meant for the player,
// Kind is one of the sentinel errors above.
type RuleError struct {
	Kind    error
	Message string
}

func (e *RuleError) Error() string {
	return e.Message
}

func (e *RuleError) Unwrap() error {
	return e.Kind
}

func ruleErr(kind error, format string, args ...interface{}) error {
	return &RuleError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}
