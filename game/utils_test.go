package game

import (
	"testing"

	"github.com/minaorangina/boss/deck"
	utils "github.com/minaorangina/boss/internal"
)

// scriptedRand returns die faces in order and never shuffles
type scriptedRand struct {
	faces []int
	next  int
}

func rolls(faces ...int) *scriptedRand {
	return &scriptedRand{faces: faces}
}

func (s *scriptedRand) Intn(n int) int {
	if len(s.faces) == 0 {
		return 0
	}
	face := s.faces[s.next%len(s.faces)]
	s.next++
	return face - 1
}

func (s *scriptedRand) Shuffle(int, func(i, j int)) {}

func (s *scriptedRand) used() int {
	return s.next
}

func newTestGame(t *testing.T, opts Opts, names ...string) *Game {
	t.Helper()

	if opts.Rand == nil {
		opts.Rand = rolls(1)
	}
	if len(names) == 0 {
		names = []string{"A", "B", "C"}
	}

	g, err := New(names, opts)
	utils.AssertNoError(t, err)

	return g
}

// boardWith replaces the first space of the standard board
func boardWith(first Space) []Space {
	b := DefaultBoard()
	first.ID = 0
	b[0] = first
	return b
}

// openBoard has no requirements anywhere, so every deal can close at once
func openBoard() []Space {
	b := []Space{}
	for i := 0; i < 16; i++ {
		b = append(b, Space{ID: i, Dividends: 1})
	}
	return b
}

func setPlacards(g *Game, placards ...[]deck.Color) {
	for i, colors := range placards {
		g.players[i].Placards = colors
	}
}

var testCardID = 1000

// giveCard puts a card that is not part of the deck into a player's hand
func giveCard(g *Game, id PlayerID, kind deck.Kind, color deck.Color) deck.Card {
	testCardID++
	card := deck.Card{ID: testCardID, Kind: kind, Color: color}
	p := g.players.Get(id)
	p.Hand = append(p.Hand, card)
	return card
}

func handContains(p *Player, cardID int) bool {
	return p.cardIndex(cardID) >= 0
}

func assertRuleError(t *testing.T, err error, kind error) {
	t.Helper()

	utils.AssertErrored(t, err)
	re, ok := err.(*RuleError)
	if !ok {
		t.Fatalf("expected a *RuleError, got %T", err)
	}
	if re.Kind != kind {
		utils.FailureMessage(t, re.Kind, kind)
	}
	utils.AssertNotEmptyString(t, re.Message)
}
