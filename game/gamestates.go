package game

import (
	"encoding/json"
	"fmt"
)

// Phase represents the main phases of a game
type Phase int

const (
	Setup Phase = iota
	TurnStart
	Rolled
	Negotiating
	GameOver
)

var phaseNames = []string{"setup", "turn_start", "rolled", "negotiation", "game_over"}

func (p Phase) String() string {
	if p < Setup || p > GameOver {
		return "unknown"
	}
	return phaseNames[p]
}

func (p Phase) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.String())
}

func (p *Phase) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	for i, n := range phaseNames {
		if n == name {
			*p = Phase(i)
			return nil
		}
	}
	return fmt.Errorf("unknown phase %q", name)
}
