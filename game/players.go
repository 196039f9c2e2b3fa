package game

import (
	"fmt"

	"github.com/minaorangina/boss/deck"
)

// PlayerID is a seat index, starting at 0
type PlayerID int

type Player struct {
	ID       PlayerID
	Name     string
	Cash     int
	Placards []deck.Color
	Hand     []deck.Card
}

func NewPlayer(id PlayerID, name string) *Player {
	return &Player{
		ID:       id,
		Name:     name,
		Placards: []deck.Color{},
		Hand:     []deck.Card{},
	}
}

func (p *Player) HasPlacard(c deck.Color) bool {
	return containsColor(p.Placards, c)
}

func (p *Player) cardIndex(cardID int) int {
	for i, c := range p.Hand {
		if c.ID == cardID {
			return i
		}
	}
	return -1
}

func (p *Player) removeCard(cardID int) (deck.Card, bool) {
	idx := p.cardIndex(cardID)
	if idx < 0 {
		return deck.Card{}, false
	}

	card := p.Hand[idx]
	p.Hand = append(p.Hand[:idx], p.Hand[idx+1:]...)
	return card, true
}

func (p *Player) countKind(k deck.Kind) int {
	count := 0
	for _, c := range p.Hand {
		if c.Kind == k {
			count++
		}
	}
	return count
}

// Roster holds the players in seat order
type Roster []*Player

func NewRoster(names []string) Roster {
	r := Roster{}
	for i, name := range names {
		r = append(r, NewPlayer(PlayerID(i), name))
	}
	return r
}

// Get panics on an unknown id
func (r Roster) Get(id PlayerID) *Player {
	if !r.Exists(id) {
		panic(fmt.Sprintf("unknown player id %d", id))
	}
	return r[id]
}

func (r Roster) Exists(id PlayerID) bool {
	return id >= 0 && int(id) < len(r)
}

// PlacardOwner returns the player holding the placard for c, if any
func (r Roster) PlacardOwner(c deck.Color) (*Player, bool) {
	for _, p := range r {
		if p.HasPlacard(c) {
			return p, true
		}
	}
	return nil, false
}

// LeftOf returns the next seat
func (r Roster) LeftOf(id PlayerID) PlayerID {
	return PlayerID((int(id) + 1) % len(r))
}

func (r Roster) handCards() int {
	total := 0
	for _, p := range r {
		total += len(p.Hand)
	}
	return total
}
