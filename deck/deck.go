package deck

// Card counts per kind
const (
	ClanPerColor     = 4
	TravelPerColor   = 3
	WildTravel       = 3
	RecruitmentCount = 33
	BossCount        = 10
	StopCount        = 10

	// TotalCards is fixed for the lifetime of a game
	TotalCards = ClanPerColor*6 + TravelPerColor*6 + WildTravel + RecruitmentCount + BossCount + StopCount
)

// Shuffler is the source of randomness used for shuffling.
// *rand.Rand satisfies it.
type Shuffler interface {
	Shuffle(n int, swap func(i, j int))
}

// Deck represents the draw pile and the discard pile.
// The top of the draw pile is the end of the slice.
type Deck struct {
	draw    []Card
	discard []Card
	rng     Shuffler
}

// New creates the full, unshuffled set of cards
func New(rng Shuffler) *Deck {
	cards := make([]Card, 0, TotalCards)
	id := 0
	add := func(kind Kind, color Color, n int) {
		for i := 0; i < n; i++ {
			card, err := NewCard(id, kind, color)
			if err != nil {
				panic(err)
			}
			cards = append(cards, card)
			id++
		}
	}

	for _, color := range Colors {
		add(Clan, color, ClanPerColor)
	}
	for _, color := range Colors {
		add(Travel, color, TravelPerColor)
	}
	add(Travel, NoColor, WildTravel)
	add(Recruitment, NoColor, RecruitmentCount)
	add(Boss, NoColor, BossCount)
	add(Stop, NoColor, StopCount)

	return &Deck{draw: cards, discard: []Card{}, rng: rng}
}

// FromPiles builds a deck with explicit piles
func FromPiles(draw, discard []Card, rng Shuffler) *Deck {
	if draw == nil {
		draw = []Card{}
	}
	if discard == nil {
		discard = []Card{}
	}
	return &Deck{draw: draw, discard: discard, rng: rng}
}

// Shuffle shuffles the draw pile
func (d *Deck) Shuffle() {
	if d.rng == nil {
		return
	}
	d.rng.Shuffle(len(d.draw), func(i, j int) {
		d.draw[i], d.draw[j] = d.draw[j], d.draw[i]
	})
}

// Draw takes up to n cards from the top of the draw pile.
// When the draw pile runs out, the discard pile is shuffled back in.
// Fewer than n cards are returned only if both piles are exhausted.
func (d *Deck) Draw(n int) []Card {
	drawn := []Card{}
	for i := 0; i < n; i++ {
		if len(d.draw) == 0 {
			d.reshuffleDiscard()
		}
		if len(d.draw) == 0 {
			break
		}
		top := len(d.draw) - 1
		drawn = append(drawn, d.draw[top])
		d.draw = d.draw[:top]
	}
	return drawn
}

// Discard puts cards on the discard pile
func (d *Deck) Discard(cards ...Card) {
	d.discard = append(d.discard, cards...)
}

func (d *Deck) reshuffleDiscard() {
	if len(d.discard) == 0 {
		return
	}
	d.draw = append(d.draw, d.discard...)
	d.discard = []Card{}
	d.Shuffle()
}

// Remaining is the size of the draw pile
func (d *Deck) Remaining() int {
	return len(d.draw)
}

// DiscardCount is the size of the discard pile
func (d *Deck) DiscardCount() int {
	return len(d.discard)
}
