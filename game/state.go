package game

import (
	"sort"

	"github.com/minaorangina/boss/deck"
)

type PlayerView struct {
	ID        PlayerID     `json:"id"`
	Name      string       `json:"name"`
	Placards  []deck.Color `json:"placards"`
	HandCount int          `json:"handCount"`
	Cash      int          `json:"cash"`
	IsBoss    bool         `json:"isBoss"`
}

type Score struct {
	ID   PlayerID `json:"id"`
	Name string   `json:"name"`
	Cash int      `json:"cash"`
}

type OfferView struct {
	PlayerID PlayerID `json:"toPlayerId"`
	Amount   int      `json:"amount"`
	Status   string   `json:"status"`
}

type FulfillmentView struct {
	Source   string   `json:"type"`
	PlayerID PlayerID `json:"playerId"`
	CardID   *int     `json:"cardId,omitempty"`
}

type EffectView struct {
	Kind     string     `json:"type"`
	PlayerID PlayerID   `json:"playerId"`
	Color    deck.Color `json:"targetColor,omitempty"`
}

type NegotiationView struct {
	Pot         int                            `json:"pot"`
	Space       Space                          `json:"space"`
	DealTile    DealTile                       `json:"dealTile"`
	BossID      PlayerID                       `json:"bossId"`
	Required    []deck.Color                   `json:"requiredInvestors"`
	Fulfilled   map[deck.Color]FulfillmentView `json:"presentInvestors"`
	Traveled    []deck.Color                   `json:"traveledColors"`
	Offers      []OfferView                    `json:"offers"`
	CanClose    bool                           `json:"canClose"`
	Unfulfilled []deck.Color                   `json:"unfulfilled"`
	LastEffect  *EffectView                    `json:"lastEffect"`
}

// PublicState is what a player is allowed to see. Hands are private
// except for the viewer's own.
type PublicState struct {
	Phase           Phase            `json:"phase"`
	CurrentDealTile DealTile         `json:"currentDealTile"`
	DealIndex       int              `json:"dealIndex"`
	DollarPosition  int              `json:"dollarPosition"`
	CurrentSpace    Space            `json:"currentSpace"`
	CoveredSpaces   []int            `json:"coveredSpaces"`
	CurrentPlayerID PlayerID         `json:"currentPlayerId"`
	BossID          PlayerID         `json:"bossId"`
	Players         []PlayerView     `json:"players"`
	ExtraPlacards   []deck.Color     `json:"extraPlacards"`
	DrawCount       int              `json:"drawPileCount"`
	DiscardCount    int              `json:"discardPileCount"`
	Negotiation     *NegotiationView `json:"negotiation"`
	Log             []LogEntry       `json:"log"`

	YourPlayerID *PlayerID   `json:"yourPlayerId,omitempty"`
	YourHand     []deck.Card `json:"yourHand,omitempty"`

	Winner      *PlayerView `json:"winner,omitempty"`
	FinalScores []Score     `json:"finalScores,omitempty"`
}

// State builds the view of the game for viewer. A nil viewer gets the
// public view only.
func (g *Game) State(viewer *PlayerID) PublicState {
	boss := g.Boss()

	s := PublicState{
		Phase:           g.phase,
		CurrentDealTile: g.CurrentDealTile(),
		DealIndex:       g.dealIndex,
		DollarPosition:  g.board.Position(),
		CurrentSpace:    g.board.Current(),
		CoveredSpaces:   g.board.Covered(),
		CurrentPlayerID: g.current,
		BossID:          boss,
		Players:         []PlayerView{},
		ExtraPlacards:   append([]deck.Color{}, g.extraPlacards...),
		DrawCount:       g.deck.Remaining(),
		DiscardCount:    g.deck.DiscardCount(),
		Log:             g.log.Tail(logTail),
	}

	for _, p := range g.players {
		s.Players = append(s.Players, g.playerView(p, boss))
	}

	if g.negotiation != nil {
		s.Negotiation = buildNegotiationView(g.negotiation)
	}

	if viewer != nil && g.players.Exists(*viewer) {
		id := *viewer
		s.YourPlayerID = &id
		s.YourHand = append([]deck.Card{}, g.players.Get(id).Hand...)
	}

	if g.phase == GameOver {
		winner := g.playerView(g.players.Get(g.winner()), boss)
		s.Winner = &winner
		s.FinalScores = g.Standings()
	}

	return s
}

func (g *Game) playerView(p *Player, boss PlayerID) PlayerView {
	return PlayerView{
		ID:        p.ID,
		Name:      p.Name,
		Placards:  append([]deck.Color{}, p.Placards...),
		HandCount: len(p.Hand),
		Cash:      p.Cash,
		IsBoss:    g.negotiation != nil && p.ID == boss,
	}
}

func buildNegotiationView(n *Negotiation) *NegotiationView {
	v := &NegotiationView{
		Pot:         n.Pot,
		Space:       n.Space,
		DealTile:    n.Tile,
		BossID:      n.Boss,
		Required:    append([]deck.Color{}, n.Required...),
		Fulfilled:   map[deck.Color]FulfillmentView{},
		Traveled:    []deck.Color{},
		Offers:      []OfferView{},
		CanClose:    n.CanClose(),
		Unfulfilled: n.Unfulfilled(),
	}

	for _, c := range deck.Colors {
		if n.traveled[c] {
			v.Traveled = append(v.Traveled, c)
		}
		if f, ok := n.fulfilled[c]; ok {
			fv := FulfillmentView{Source: f.Source.String(), PlayerID: f.Owner}
			if f.Card != nil {
				id := f.Card.ID
				fv.CardID = &id
			}
			v.Fulfilled[c] = fv
		}
	}

	for _, p := range n.roster {
		if o, ok := n.offers[p.ID]; ok {
			v.Offers = append(v.Offers, OfferView{PlayerID: p.ID, Amount: o.Amount, Status: o.Status.String()})
		}
	}

	if e := n.lastEffect; e != nil {
		v.LastEffect = &EffectView{Kind: e.Kind.String(), PlayerID: e.Player, Color: e.Color}
	}

	return v
}

// Standings ranks players by cash, richest first. Ties keep seat order.
func (g *Game) Standings() []Score {
	scores := []Score{}
	for _, p := range g.players {
		scores = append(scores, Score{ID: p.ID, Name: p.Name, Cash: p.Cash})
	}
	sort.SliceStable(scores, func(i, j int) bool {
		return scores[i].Cash > scores[j].Cash
	})
	return scores
}

// Winner is only known once the game is over
func (g *Game) Winner() (Score, bool) {
	if g.phase != GameOver {
		return Score{}, false
	}
	p := g.players.Get(g.winner())
	return Score{ID: p.ID, Name: p.Name, Cash: p.Cash}, true
}
