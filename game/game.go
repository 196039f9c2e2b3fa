package game

import (
	"math/rand"
	"time"

	"github.com/minaorangina/boss/deck"
	"go.uber.org/zap"
)

const (
	MinPlayers       = 3
	MaxPlayers       = 6
	MaxHandSize      = 12
	CardsToDraw      = 3
	StartingHandSize = 5
)

// RandomSource supplies die rolls and shuffles. *rand.Rand satisfies it.
type RandomSource interface {
	Intn(n int) int
	Shuffle(n int, swap func(i, j int))
}

type Opts struct {
	Rand      RandomSource
	Board     []Space
	DealTiles []DealTile
	Logger    *zap.Logger
	Now       func() time.Time
}

// Game is one game of I'm the Boss!
// It is not safe for concurrent use; callers serialise actions.
type Game struct {
	phase         Phase
	players       Roster
	deck          *deck.Deck
	board         *Board
	tiles         []DealTile
	dealIndex     int
	current       PlayerID
	negotiation   *Negotiation
	extraPlacards []deck.Color
	endGame       EndGameEvaluator
	log           *Log
	rng           RandomSource
	logger        *zap.Logger
}

type RollResult struct {
	Roll        int `json:"roll"`
	NewPosition int `json:"newPosition"`
}

type DrawResult struct {
	DrawnCount     int `json:"drawnCount"`
	DiscardedCount int `json:"discardedCount"`
}

type NegotiationStart struct {
	Pot      int          `json:"pot"`
	Required []deck.Color `json:"requiredInvestors"`
	Space    Space        `json:"space"`
}

type CloseResult struct {
	Pot       int      `json:"pot"`
	Payouts   []Payout `json:"payouts"`
	BossShare int      `json:"bossShare"`
	GameOver  bool     `json:"gameOver"`
	EndRoll   int      `json:"endRoll,omitempty"`
}

// New sets up a game: placards, starting hands and the first player
func New(names []string, opts Opts) (*Game, error) {
	if len(names) < MinPlayers {
		return nil, ErrTooFewPlayers
	}
	if len(names) > MaxPlayers {
		return nil, ErrTooManyPlayers
	}

	if opts.Rand == nil {
		opts.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if opts.Board == nil {
		opts.Board = DefaultBoard()
	}
	if opts.DealTiles == nil {
		opts.DealTiles = DefaultDealTiles()
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	g := &Game{
		phase:   Setup,
		players: NewRoster(names),
		deck:    deck.New(opts.Rand),
		board:   NewBoard(opts.Board),
		tiles:   opts.DealTiles,
		endGame: NewEndGameEvaluator(opts.Rand),
		log:     NewLog(logCapacity, opts.Now),
		rng:     opts.Rand,
		logger:  opts.Logger,
	}

	g.deck.Shuffle()
	g.distributePlacards()
	for _, p := range g.players {
		p.Hand = append(p.Hand, g.deck.Draw(StartingHandSize)...)
	}
	g.current = g.firstPlayer()

	g.phase = TurnStart
	g.record(LogImportant, "Game started with %d players!", len(g.players))
	g.record(LogInfo, "%s's turn", g.players.Get(g.current).Name)

	return g, nil
}

// distributePlacards shuffles the colors and deals them out evenly.
// Whatever cannot be shared evenly stays face up as extra placards.
func (g *Game) distributePlacards() {
	colors := append([]deck.Color{}, deck.Colors...)
	g.rng.Shuffle(len(colors), func(i, j int) {
		colors[i], colors[j] = colors[j], colors[i]
	})

	each := len(colors) / len(g.players)
	for i, p := range g.players {
		p.Placards = append(p.Placards, colors[i*each:(i+1)*each]...)
	}
	g.extraPlacards = append([]deck.Color{}, colors[each*len(g.players):]...)
}

// firstPlayer holds the color whose name comes first alphabetically
func (g *Game) firstPlayer() PlayerID {
	first := PlayerID(0)
	firstName := ""
	for _, p := range g.players {
		for _, c := range p.Placards {
			if firstName == "" || c.Name() < firstName {
				first = p.ID
				firstName = c.Name()
			}
		}
	}
	return first
}

func (g *Game) record(kind LogKind, format string, args ...interface{}) {
	entry := g.log.Add(kind, format, args...)
	g.logger.Debug(entry.Message,
		zap.String("kind", string(kind)),
		zap.Stringer("phase", g.phase),
	)
}

func (g *Game) reject(action string, err error) error {
	g.logger.Debug("action rejected",
		zap.String("action", action),
		zap.Stringer("phase", g.phase),
		zap.Error(err),
	)
	return err
}

func (g *Game) Phase() Phase {
	return g.phase
}

func (g *Game) CurrentPlayer() PlayerID {
	return g.current
}

// Boss is the boss of the running negotiation, otherwise the current player
func (g *Game) Boss() PlayerID {
	if g.negotiation != nil {
		return g.negotiation.Boss
	}
	return g.current
}

func (g *Game) Negotiation() *Negotiation {
	return g.negotiation
}

func (g *Game) CurrentDealTile() DealTile {
	idx := g.dealIndex
	if idx >= len(g.tiles) {
		idx = len(g.tiles) - 1
	}
	return g.tiles[idx]
}

func (g *Game) NumPlayers() int {
	return len(g.players)
}

// LastEvent is the most recent log entry
func (g *Game) LastEvent() LogEntry {
	entry, _ := g.log.Last()
	return entry
}

func (g *Game) checkTurn(action string, player PlayerID, phases ...Phase) error {
	allowed := false
	for _, ph := range phases {
		if g.phase == ph {
			allowed = true
		}
	}
	if !allowed {
		return g.reject(action, ruleErr(ErrInvalidPhase, "Cannot %s now", action))
	}
	if player != g.current {
		return g.reject(action, ruleErr(ErrNotYourTurn, "It's not your turn"))
	}
	return nil
}

func (g *Game) checkNegotiation(action string) error {
	if g.phase != Negotiating || g.negotiation == nil {
		return g.reject(action, ruleErr(ErrInvalidPhase, "No active negotiation"))
	}
	return nil
}

// RollDie moves the dollar marker
func (g *Game) RollDie(player PlayerID) (RollResult, error) {
	if err := g.checkTurn("roll", player, TurnStart); err != nil {
		return RollResult{}, err
	}

	roll := rollDie(g.rng)
	pos := g.board.Advance(roll)
	g.phase = Rolled

	g.record(LogInfo, "%s rolled a %d", g.players.Get(player).Name, roll)
	g.record(LogInfo, "$ marker moved to space %d", pos+1)

	return RollResult{Roll: roll, NewPosition: pos}, nil
}

// DrawCards draws cards for the current player and ends the turn.
// Cards beyond the hand limit are discarded, newest first.
func (g *Game) DrawCards(player PlayerID) (DrawResult, error) {
	if err := g.checkTurn("draw", player, Rolled); err != nil {
		return DrawResult{}, err
	}

	p := g.players.Get(player)
	drawn := g.deck.Draw(CardsToDraw)
	p.Hand = append(p.Hand, drawn...)

	discarded := []deck.Card{}
	if over := len(p.Hand) - MaxHandSize; over > 0 {
		discarded = append(discarded, p.Hand[MaxHandSize:]...)
		p.Hand = p.Hand[:MaxHandSize]
		g.deck.Discard(discarded...)
	}

	g.record(LogInfo, "%s drew %d cards", p.Name, len(drawn))
	if len(discarded) > 0 {
		g.record(LogDanger, "%s discarded %d cards over the hand limit", p.Name, len(discarded))
	}
	g.endTurn(player)

	return DrawResult{DrawnCount: len(drawn), DiscardedCount: len(discarded)}, nil
}

// StartNegotiation makes the current player the boss of a deal on the current space
func (g *Game) StartNegotiation(player PlayerID) (NegotiationStart, error) {
	if err := g.checkTurn("make a deal", player, TurnStart, Rolled); err != nil {
		return NegotiationStart{}, err
	}

	g.negotiation = newNegotiation(player, g.board.Current(), g.CurrentDealTile(), g.players, g.deck)
	g.phase = Negotiating

	n := g.negotiation
	g.record(LogImportant, "%s announces: \"Let's make a deal!\" (Pot: $%dM)", g.players.Get(player).Name, n.Pot)

	return NegotiationStart{
		Pot:      n.Pot,
		Required: append([]deck.Color{}, n.Required...),
		Space:    n.Space,
	}, nil
}

func (g *Game) MakeOffer(player, to PlayerID, amount int) error {
	if err := g.checkNegotiation("offer"); err != nil {
		return err
	}

	msg, err := g.negotiation.MakeOffer(player, to, amount)
	if err != nil {
		return g.reject("offer", err)
	}
	g.record(LogInfo, "%s", msg)

	return nil
}

func (g *Game) RespondToOffer(player PlayerID, accept bool) error {
	if err := g.checkNegotiation("respond"); err != nil {
		return err
	}
	if !g.players.Exists(player) {
		return g.reject("respond", ruleErr(ErrInvalidTarget, "No offer found for this player"))
	}

	msg, err := g.negotiation.RespondToOffer(player, accept)
	if err != nil {
		return g.reject("respond", err)
	}
	kind := LogSuccess
	if !accept {
		kind = LogDanger
	}
	g.record(kind, "%s", msg)

	return nil
}

// PlayCard plays a card during a negotiation. Any player may play cards.
func (g *Game) PlayCard(player PlayerID, cardID int, target deck.Color) error {
	if err := g.checkNegotiation("play a card"); err != nil {
		return err
	}
	if !g.players.Exists(player) {
		return g.reject("play", ruleErr(ErrInvalidCard, "Player not found"))
	}

	msg, err := g.negotiation.PlayCard(player, cardID, target)
	if err != nil {
		return g.reject("play", err)
	}
	g.record(LogImportant, "%s", msg)

	return nil
}

// CloseDeal pays out the pot, covers the space and checks for the end of the game
func (g *Game) CloseDeal(player PlayerID) (CloseResult, error) {
	if err := g.checkNegotiation("close"); err != nil {
		return CloseResult{}, err
	}
	n := g.negotiation
	if player != n.Boss {
		return CloseResult{}, g.reject("close", ruleErr(ErrNotBoss, "Only the Boss can close the deal"))
	}

	payouts, err := n.close()
	if err != nil {
		return CloseResult{}, g.reject("close", err)
	}

	result := CloseResult{Pot: n.Pot, Payouts: payouts}
	for _, p := range payouts {
		if p.IsBoss {
			result.BossShare = p.Amount
		}
	}
	g.record(LogSuccess, "Deal closed! %s receives $%dM", g.players.Get(n.Boss).Name, result.BossShare)

	g.board.CoverCurrent()
	if g.dealIndex < len(g.tiles)-1 {
		g.dealIndex++
	}
	g.board.MoveToNextUncovered()

	end := g.endGame.Evaluate(n.Tile)
	result.GameOver = end.GameOver
	result.EndRoll = end.Roll
	if end.Roll > 0 {
		g.record(LogInfo, "End game roll: %d (ends on: %v)", end.Roll, n.Tile.EndNumbers)
	}

	if end.GameOver {
		g.negotiation = nil
		g.phase = GameOver
		g.record(LogImportant, "Game over after the %s! %s wins", end.Reason, g.players.Get(g.winner()).Name)
		return result, nil
	}

	g.endTurn(n.Boss)

	return result, nil
}

// FailDeal ends the negotiation with nothing paid and nothing covered
func (g *Game) FailDeal(player PlayerID) error {
	if err := g.checkNegotiation("end the negotiation"); err != nil {
		return err
	}
	n := g.negotiation
	if player != n.Boss {
		return g.reject("no deal", ruleErr(ErrNotBoss, "Only the Boss can end the negotiation"))
	}

	n.fail()
	g.record(LogDanger, "Deal failed - no agreement reached")
	g.endTurn(n.Boss)

	return nil
}

// endTurn passes play to the left of the player holding the boss role
func (g *Game) endTurn(boss PlayerID) {
	g.negotiation = nil
	g.current = g.players.LeftOf(boss)
	g.phase = TurnStart
	g.record(LogInfo, "%s's turn", g.players.Get(g.current).Name)
}

// winner has the most cash, earliest seat on ties
func (g *Game) winner() PlayerID {
	best := g.players[0]
	for _, p := range g.players {
		if p.Cash > best.Cash {
			best = p
		}
	}
	return best.ID
}

// cardsInPlay counts every card the game knows about
func (g *Game) cardsInPlay() int {
	total := g.deck.Remaining() + g.deck.DiscardCount() + g.players.handCards()
	if g.negotiation != nil {
		total += g.negotiation.tableCards()
	}
	return total
}
