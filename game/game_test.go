package game

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/minaorangina/boss/deck"
	utils "github.com/minaorangina/boss/internal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	t.Run("validates the number of players", func(t *testing.T) {
		_, err := New([]string{"A", "B"}, Opts{})
		assert.ErrorIs(t, err, ErrTooFewPlayers)

		_, err = New([]string{"A", "B", "C", "D", "E", "F", "G"}, Opts{})
		assert.ErrorIs(t, err, ErrTooManyPlayers)
	})

	t.Run("sets up a fresh game", func(t *testing.T) {
		t.Log("Given three players")
		g := newTestGame(t, Opts{})

		t.Log("Then the game waits for the first turn")
		assert.Equal(t, TurnStart, g.Phase())
		assert.Equal(t, 0, g.board.Position())
		assert.Empty(t, g.board.Covered())
		assert.Equal(t, 0, g.dealIndex)

		t.Log("And everyone has a starting hand and no money")
		for _, p := range g.players {
			utils.AssertEqual(t, len(p.Hand), StartingHandSize)
			utils.AssertEqual(t, p.Cash, 0)
		}
		utils.AssertEqual(t, g.cardsInPlay(), deck.TotalCards)
	})

	cases := []struct {
		name          string
		names         []string
		placards      [][]deck.Color
		extras        []deck.Color
		expectedFirst PlayerID
	}{
		{
			name:  "three players get two placards each",
			names: []string{"A", "B", "C"},
			placards: [][]deck.Color{
				{deck.Red, deck.Blue}, {deck.Yellow, deck.Magenta}, {deck.Orange, deck.Green},
			},
			extras:        []deck.Color{},
			expectedFirst: 0,
		},
		{
			name:  "four players get one each and two are left over",
			names: []string{"A", "B", "C", "D"},
			placards: [][]deck.Color{
				{deck.Red}, {deck.Blue}, {deck.Yellow}, {deck.Magenta},
			},
			extras:        []deck.Color{deck.Orange, deck.Green},
			expectedFirst: 1,
		},
		{
			name:  "five players get one each and one is left over",
			names: []string{"A", "B", "C", "D", "E"},
			placards: [][]deck.Color{
				{deck.Red}, {deck.Blue}, {deck.Yellow}, {deck.Magenta}, {deck.Orange},
			},
			extras:        []deck.Color{deck.Green},
			expectedFirst: 1,
		},
		{
			name:  "six players get one each",
			names: []string{"A", "B", "C", "D", "E", "F"},
			placards: [][]deck.Color{
				{deck.Red}, {deck.Blue}, {deck.Yellow}, {deck.Magenta}, {deck.Orange}, {deck.Green},
			},
			extras:        []deck.Color{},
			expectedFirst: 1,
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			g := newTestGame(t, Opts{}, c.names...)

			for i, p := range g.players {
				assert.Equal(t, c.placards[i], p.Placards, p.Name)
			}
			assert.Equal(t, c.extras, g.extraPlacards)
			assert.Equal(t, c.expectedFirst, g.CurrentPlayer())
		})
	}

	t.Run("the first player holds the alphabetically earliest color", func(t *testing.T) {
		for seed := int64(1); seed <= 20; seed++ {
			g := newTestGame(t, Opts{Rand: rand.New(rand.NewSource(seed))}, "A", "B", "C", "D")

			seen := map[deck.Color]int{}
			earliest := ""
			var holder PlayerID = -1
			for _, p := range g.players {
				for _, c := range p.Placards {
					seen[c]++
					if earliest == "" || c.Name() < earliest {
						earliest = c.Name()
						holder = p.ID
					}
				}
			}
			for _, c := range g.extraPlacards {
				seen[c]++
			}

			require.Len(t, seen, len(deck.Colors))
			for _, n := range seen {
				utils.AssertEqual(t, n, 1)
			}
			utils.AssertEqual(t, g.CurrentPlayer(), holder)
		}
	})
}

func TestTurns(t *testing.T) {
	t.Run("a turn is roll then draw", func(t *testing.T) {
		g := newTestGame(t, Opts{Rand: rolls(2)})

		t.Log("When the current player rolls a 2")
		res, err := g.RollDie(0)
		utils.AssertNoError(t, err)

		t.Log("Then the marker moves two spaces")
		utils.AssertEqual(t, res.Roll, 2)
		utils.AssertEqual(t, res.NewPosition, 2)
		utils.AssertEqual(t, g.Phase(), Rolled)

		t.Log("And they cannot roll again")
		_, err = g.RollDie(0)
		assertRuleError(t, err, ErrInvalidPhase)

		t.Log("And nobody else can draw for them")
		_, err = g.DrawCards(1)
		assertRuleError(t, err, ErrNotYourTurn)

		t.Log("When they draw")
		draw, err := g.DrawCards(0)
		utils.AssertNoError(t, err)
		utils.AssertEqual(t, draw.DrawnCount, CardsToDraw)
		utils.AssertEqual(t, draw.DiscardedCount, 0)
		utils.AssertEqual(t, len(g.players[0].Hand), StartingHandSize+CardsToDraw)

		t.Log("Then the turn passes to the left")
		utils.AssertEqual(t, g.CurrentPlayer(), PlayerID(1))
		utils.AssertEqual(t, g.Phase(), TurnStart)
	})

	t.Run("cannot draw before rolling", func(t *testing.T) {
		g := newTestGame(t, Opts{})
		_, err := g.DrawCards(0)
		assertRuleError(t, err, ErrInvalidPhase)
	})

	t.Run("other players cannot roll", func(t *testing.T) {
		g := newTestGame(t, Opts{})
		_, err := g.RollDie(2)
		assertRuleError(t, err, ErrNotYourTurn)
	})

	t.Run("drawing over the hand limit discards the newest cards", func(t *testing.T) {
		g := newTestGame(t, Opts{})
		p := g.players[0]
		for len(p.Hand) < MaxHandSize-1 {
			giveCard(g, 0, deck.Recruitment, deck.NoColor)
		}
		before := append([]deck.Card{}, p.Hand...)

		_, err := g.RollDie(0)
		utils.AssertNoError(t, err)
		res, err := g.DrawCards(0)
		utils.AssertNoError(t, err)

		utils.AssertEqual(t, res.DrawnCount, 3)
		utils.AssertEqual(t, res.DiscardedCount, 2)
		utils.AssertEqual(t, len(p.Hand), MaxHandSize)
		assert.Equal(t, before, p.Hand[:MaxHandSize-1])
		utils.AssertEqual(t, g.deck.DiscardCount(), 2)
	})

	t.Run("a negotiation can start without rolling", func(t *testing.T) {
		g := newTestGame(t, Opts{})

		start, err := g.StartNegotiation(0)
		utils.AssertNoError(t, err)

		utils.AssertEqual(t, g.Phase(), Negotiating)
		utils.AssertEqual(t, start.Pot, 6)
		assert.Equal(t, []deck.Color{deck.Red, deck.Blue, deck.Yellow, deck.Magenta, deck.Orange, deck.Green}, start.Required)
		utils.AssertEqual(t, g.Boss(), PlayerID(0))
	})

	t.Run("a negotiation can start after rolling", func(t *testing.T) {
		g := newTestGame(t, Opts{Rand: rolls(4)})
		_, err := g.RollDie(0)
		utils.AssertNoError(t, err)

		start, err := g.StartNegotiation(0)
		utils.AssertNoError(t, err)
		utils.AssertEqual(t, start.Space.ID, 4)
	})

	t.Run("negotiation actions need a negotiation", func(t *testing.T) {
		g := newTestGame(t, Opts{})

		assertRuleError(t, g.MakeOffer(0, 1, 1), ErrInvalidPhase)
		assertRuleError(t, g.RespondToOffer(1, true), ErrInvalidPhase)
		assertRuleError(t, g.PlayCard(1, 0, deck.NoColor), ErrInvalidPhase)
		assertRuleError(t, g.FailDeal(0), ErrInvalidPhase)
		_, err := g.CloseDeal(0)
		assertRuleError(t, err, ErrInvalidPhase)
	})

	t.Run("the next turn goes to the left of whoever is boss", func(t *testing.T) {
		g := newTestGame(t, Opts{})
		_, err := g.StartNegotiation(0)
		utils.AssertNoError(t, err)

		t.Log("When player 2 takes over as boss")
		card := giveCard(g, 2, deck.Boss, deck.NoColor)
		utils.AssertNoError(t, g.PlayCard(2, card.ID, deck.NoColor))
		utils.AssertEqual(t, g.Boss(), PlayerID(2))

		t.Log("Then the old boss can no longer end the deal")
		assertRuleError(t, g.FailDeal(0), ErrNotBoss)

		t.Log("And when the new boss ends it, play passes to their left")
		utils.AssertNoError(t, g.FailDeal(2))
		utils.AssertEqual(t, g.CurrentPlayer(), PlayerID(0))
	})

	t.Run("failing a deal covers nothing and returns clan cards", func(t *testing.T) {
		g := newTestGame(t, Opts{})
		setPlacards(g, []deck.Color{deck.Red}, []deck.Color{deck.Blue}, []deck.Color{deck.Green})
		_, err := g.StartNegotiation(0)
		utils.AssertNoError(t, err)

		clan := giveCard(g, 1, deck.Clan, deck.Yellow)
		utils.AssertNoError(t, g.PlayCard(1, clan.ID, deck.Yellow))
		assert.False(t, handContains(g.players[1], clan.ID))

		utils.AssertNoError(t, g.FailDeal(0))

		assert.True(t, handContains(g.players[1], clan.ID))
		assert.Empty(t, g.board.Covered())
		utils.AssertEqual(t, g.dealIndex, 0)
		utils.AssertEqual(t, g.CurrentPlayer(), PlayerID(1))
		assert.Nil(t, g.Negotiation())
	})
}

func TestMarkerMovement(t *testing.T) {
	t.Run("covered spaces are skipped and not counted", func(t *testing.T) {
		g := newTestGame(t, Opts{Rand: rolls(3)})
		g.board.covered[2] = true
		g.board.covered[5] = true

		res, err := g.RollDie(g.CurrentPlayer())
		utils.AssertNoError(t, err)

		utils.AssertEqual(t, res.NewPosition, 4)
	})

	t.Run("the marker wraps around the board", func(t *testing.T) {
		b := NewBoard(DefaultBoard())
		b.position = 14
		b.covered[15] = true
		b.covered[0] = true

		utils.AssertEqual(t, b.Advance(2), 2)
	})

	t.Run("never lands on a covered space", func(t *testing.T) {
		r := rand.New(rand.NewSource(3))
		b := NewBoard(DefaultBoard())
		for i := 0; i < 15; i++ {
			b.covered[r.Intn(16)] = true
		}
		for i := 0; i < 100; i++ {
			pos := b.Advance(r.Intn(6) + 1)
			assert.False(t, b.IsCovered(pos))
		}
	})
}

func TestCloseDeal(t *testing.T) {
	t.Run("covers the space, advances the deal and passes the turn", func(t *testing.T) {
		g := newTestGame(t, Opts{Board: openBoard()})
		_, err := g.StartNegotiation(0)
		utils.AssertNoError(t, err)

		res, err := g.CloseDeal(0)
		utils.AssertNoError(t, err)

		assert.False(t, res.GameOver)
		assert.Equal(t, []int{0}, g.board.Covered())
		utils.AssertEqual(t, g.board.Position(), 1)
		utils.AssertEqual(t, g.dealIndex, 1)
		utils.AssertEqual(t, g.CurrentDealTile().Number, 2)
		utils.AssertEqual(t, g.CurrentPlayer(), PlayerID(1))
		utils.AssertEqual(t, g.Phase(), TurnStart)
	})

	t.Run("only the boss can close", func(t *testing.T) {
		g := newTestGame(t, Opts{Board: openBoard()})
		_, err := g.StartNegotiation(0)
		utils.AssertNoError(t, err)

		_, err = g.CloseDeal(1)
		assertRuleError(t, err, ErrNotBoss)
	})

	t.Run("a failed close keeps the negotiation going", func(t *testing.T) {
		g := newTestGame(t, Opts{})
		_, err := g.StartNegotiation(0)
		utils.AssertNoError(t, err)

		_, err = g.CloseDeal(0)
		assertRuleError(t, err, ErrInvalidTarget)
		assert.Contains(t, err.Error(), "Yellow")
		utils.AssertEqual(t, g.Phase(), Negotiating)
	})

	t.Run("pot is shared between the boss and accepted offers", func(t *testing.T) {
		g := newTestGame(t, Opts{
			Board:     boardWith(Space{Dividends: 6, Mandatory: []deck.Color{deck.Red}}),
			DealTiles: []DealTile{{Number: 5, SharePrice: 5}},
		})
		setPlacards(g, []deck.Color{deck.Red}, []deck.Color{deck.Blue}, []deck.Color{deck.Green})

		start, err := g.StartNegotiation(0)
		utils.AssertNoError(t, err)
		utils.AssertEqual(t, start.Pot, 30)

		utils.AssertNoError(t, g.MakeOffer(0, 1, 7))
		utils.AssertNoError(t, g.MakeOffer(0, 2, 5))
		utils.AssertNoError(t, g.RespondToOffer(1, true))
		utils.AssertNoError(t, g.RespondToOffer(2, true))

		res, err := g.CloseDeal(0)
		utils.AssertNoError(t, err)

		utils.AssertEqual(t, res.BossShare, 18)
		utils.AssertEqual(t, g.players[0].Cash, 18)
		utils.AssertEqual(t, g.players[1].Cash, 7)
		utils.AssertEqual(t, g.players[2].Cash, 5)

		total := 0
		for _, p := range res.Payouts {
			total += p.Amount
		}
		utils.AssertEqual(t, total, 30)
	})

	t.Run("rejected offers are not paid", func(t *testing.T) {
		g := newTestGame(t, Opts{
			Board:     boardWith(Space{Dividends: 4}),
			DealTiles: []DealTile{{Number: 1, SharePrice: 2}},
		})
		utils.AssertNoError(t, firstErr(g.StartNegotiation(0)))
		utils.AssertNoError(t, g.MakeOffer(0, 1, 3))
		utils.AssertNoError(t, g.RespondToOffer(1, false))

		res, err := g.CloseDeal(0)
		utils.AssertNoError(t, err)
		utils.AssertEqual(t, res.BossShare, 8)
		utils.AssertEqual(t, g.players[1].Cash, 0)
	})

	t.Run("clan cards are discarded on close", func(t *testing.T) {
		g := newTestGame(t, Opts{Board: boardWith(Space{Dividends: 2, Mandatory: []deck.Color{deck.Orange}})})
		setPlacards(g, []deck.Color{deck.Red}, []deck.Color{deck.Blue}, []deck.Color{deck.Green})
		utils.AssertNoError(t, firstErr(g.StartNegotiation(0)))

		clan := giveCard(g, 2, deck.Clan, deck.Orange)
		utils.AssertNoError(t, g.PlayCard(2, clan.ID, deck.Orange))

		discards := g.deck.DiscardCount()
		_, err := g.CloseDeal(0)
		utils.AssertNoError(t, err)
		utils.AssertEqual(t, g.deck.DiscardCount(), discards+1)
	})
}

func TestEndGame(t *testing.T) {
	closeOn := func(t *testing.T, tileIndex int, rng *scriptedRand) (*Game, CloseResult) {
		t.Helper()
		g := newTestGame(t, Opts{Rand: rng, Board: openBoard()})
		g.dealIndex = tileIndex
		utils.AssertNoError(t, firstErr(g.StartNegotiation(0)))
		res, err := g.CloseDeal(0)
		utils.AssertNoError(t, err)
		return g, res
	}

	t.Run("the final deal always ends the game", func(t *testing.T) {
		for face := 1; face <= 6; face++ {
			rng := rolls(face)
			g, res := closeOn(t, 14, rng)

			assert.True(t, res.GameOver)
			utils.AssertEqual(t, res.EndRoll, 0)
			utils.AssertEqual(t, rng.used(), 0)
			utils.AssertEqual(t, g.Phase(), GameOver)
			assert.Contains(t, g.LastEvent().Message, "Game over after the final deal!")
		}
	})

	t.Run("deal 10 ends on a 1 or a 2", func(t *testing.T) {
		for face := 1; face <= 6; face++ {
			g, res := closeOn(t, 9, rolls(face))

			expected := face <= 2
			utils.AssertEqual(t, res.GameOver, expected)
			utils.AssertEqual(t, res.EndRoll, face)
			utils.AssertEqual(t, g.Phase() == GameOver, expected)
			if expected {
				assert.Contains(t, g.LastEvent().Message, "Game over after the end roll!")
			}
		}
	})

	t.Run("early deals never roll", func(t *testing.T) {
		rng := rolls(1)
		_, res := closeOn(t, 0, rng)

		assert.False(t, res.GameOver)
		utils.AssertEqual(t, rng.used(), 0)
	})

	t.Run("the end roll uses the tile of the deal that closed", func(t *testing.T) {
		rng := rolls(1)
		_, res := closeOn(t, 8, rng)

		t.Log("Deal 9 has no end numbers even though the next tile is 10")
		assert.False(t, res.GameOver)
		utils.AssertEqual(t, rng.used(), 0)
	})

	t.Run("nothing but queries after the game is over", func(t *testing.T) {
		g, _ := closeOn(t, 14, rolls(1))

		_, err := g.RollDie(g.CurrentPlayer())
		assertRuleError(t, err, ErrInvalidPhase)
		_, err = g.StartNegotiation(g.CurrentPlayer())
		assertRuleError(t, err, ErrInvalidPhase)

		winner, ok := g.Winner()
		assert.True(t, ok)
		utils.AssertEqual(t, winner.ID, PlayerID(0))
	})
}

func TestScenario(t *testing.T) {
	t.Log("Given A, B and C, with A holding red and B holding blue")
	g := newTestGame(t, Opts{
		Board:     boardWith(Space{Dividends: 6, Mandatory: []deck.Color{deck.Red, deck.Blue}}),
		DealTiles: []DealTile{{Number: 1, SharePrice: 1}},
	})
	setPlacards(g,
		[]deck.Color{deck.Red},
		[]deck.Color{deck.Blue},
		[]deck.Color{deck.Yellow, deck.Magenta, deck.Orange, deck.Green},
	)

	t.Log("When A makes a deal")
	start, err := g.StartNegotiation(0)
	utils.AssertNoError(t, err)
	utils.AssertEqual(t, start.Pot, 6)

	t.Log("Then red is there through A's placard")
	f, ok := g.Negotiation().Fulfillment(deck.Red)
	require.True(t, ok)
	utils.AssertEqual(t, f.Source, SourcePlacard)
	assert.False(t, g.Negotiation().CanClose())

	t.Log("When A offers B 2 and B accepts")
	utils.AssertNoError(t, g.MakeOffer(0, 1, 2))
	utils.AssertNoError(t, g.RespondToOffer(1, true))

	f, ok = g.Negotiation().Fulfillment(deck.Blue)
	require.True(t, ok)
	utils.AssertEqual(t, f.Source, SourceAcceptedOffer)

	t.Log("Then the deal closes with A getting 4 and B getting 2")
	res, err := g.CloseDeal(0)
	utils.AssertNoError(t, err)
	utils.AssertEqual(t, res.Pot, 6)
	utils.AssertEqual(t, g.players[0].Cash, 4)
	utils.AssertEqual(t, g.players[1].Cash, 2)
	utils.AssertEqual(t, g.players[2].Cash, 0)
}

func TestDeckConservation(t *testing.T) {
	for seed := int64(1); seed <= 10; seed++ {
		g := newTestGame(t, Opts{Rand: rand.New(rand.NewSource(seed))}, "A", "B", "C", "D")
		driver := rand.New(rand.NewSource(seed * 101))

		for step := 0; step < 500 && g.Phase() != GameOver; step++ {
			randomAction(g, driver)

			if got := g.cardsInPlay(); got != deck.TotalCards {
				t.Fatalf("seed %d step %d: %d cards in play, want %d", seed, step, got, deck.TotalCards)
			}
			for _, p := range g.players {
				if p.Cash < 0 {
					t.Fatalf("seed %d step %d: %s has negative cash", seed, step, p.Name)
				}
			}
		}
	}
}

func randomAction(g *Game, r *rand.Rand) {
	someone := PlayerID(r.Intn(g.NumPlayers()))

	switch r.Intn(8) {
	case 0:
		g.RollDie(g.CurrentPlayer())
	case 1:
		g.DrawCards(g.CurrentPlayer())
	case 2:
		g.StartNegotiation(g.CurrentPlayer())
	case 3:
		p := g.players.Get(someone)
		if len(p.Hand) > 0 {
			card := p.Hand[r.Intn(len(p.Hand))]
			target := card.Color
			if target == deck.NoColor {
				target = deck.Colors[r.Intn(len(deck.Colors))]
			}
			g.PlayCard(someone, card.ID, target)
		}
	case 4:
		g.MakeOffer(g.Boss(), someone, r.Intn(10))
	case 5:
		g.RespondToOffer(someone, r.Intn(2) == 0)
	case 6:
		g.CloseDeal(g.Boss())
	case 7:
		g.FailDeal(g.Boss())
	}
}

func TestRuleError(t *testing.T) {
	err := ruleErr(ErrNotBoss, "Only %s can do that", "the Boss")

	assert.True(t, errors.Is(err, ErrNotBoss))
	assert.False(t, errors.Is(err, ErrNotYourTurn))
	utils.AssertEqual(t, err.Error(), "Only the Boss can do that")
}

func firstErr(_ NegotiationStart, err error) error {
	return err
}
