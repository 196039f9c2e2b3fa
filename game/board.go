package game

import "github.com/minaorangina/boss/deck"

const (
	// FinalDealTile always ends the game once its deal closes
	FinalDealTile = 15
	dieFaces      = 6
)

// Space is a square on the board
type Space struct {
	ID            int          `json:"id"`
	Dividends     int          `json:"dividends"`
	Mandatory     []deck.Color `json:"mandatory"`
	OptionalCount int          `json:"optionalCount"`
}

// DealTile sets the share price of a deal, and whether closing it can end the game
type DealTile struct {
	Number     int   `json:"number"`
	SharePrice int   `json:"sharePrice"`
	EndNumbers []int `json:"endNumbers"`
}

func (t DealTile) endsOn(roll int) bool {
	return containsInt(t.EndNumbers, roll)
}

func space(id, dividends int, optional int, mandatory ...deck.Color) Space {
	return Space{ID: id, Dividends: dividends, Mandatory: mandatory, OptionalCount: optional}
}

// DefaultBoard returns the standard 16 space layout
func DefaultBoard() []Space {
	const (
		r = deck.Red
		b = deck.Blue
		y = deck.Yellow
		m = deck.Magenta
		o = deck.Orange
		g = deck.Green
	)

	return []Space{
		space(0, 6, 2, r, b, y, m),
		space(1, 4, 2, r, g),
		space(2, 2, 1, b),
		space(3, 4, 2, y, o),
		space(4, 6, 2, r, b, g, o),
		space(5, 4, 2, m, y),
		space(6, 3, 0, r, b),
		space(7, 5, 1, g, o, m),
		space(8, 6, 2, b, y, m, g),
		space(9, 4, 2, r, o),
		space(10, 2, 1, y),
		space(11, 5, 1, b, m, g),
		space(12, 6, 2, r, y, o, g),
		space(13, 4, 2, b, m),
		space(14, 3, 0, r, o),
		space(15, 5, 1, y, g, m),
	}
}

// DefaultDealTiles returns tiles 1 to 15
func DefaultDealTiles() []DealTile {
	endNumbers := map[int][]int{
		10: {1, 2},
		11: {1, 2, 3},
		12: {1, 2, 3, 4},
		13: {1, 2, 3, 4, 5},
		14: {1, 2, 3, 4, 5},
	}

	tiles := make([]DealTile, 0, FinalDealTile)
	for n := 1; n <= FinalDealTile; n++ {
		ends := endNumbers[n]
		if ends == nil {
			ends = []int{}
		}
		tiles = append(tiles, DealTile{Number: n, SharePrice: n, EndNumbers: ends})
	}

	return tiles
}

// requiredInvestors lists the mandatory colors followed by the first
// OptionalCount colors, in global order, that are not mandatory
func requiredInvestors(s Space) []deck.Color {
	required := append([]deck.Color{}, s.Mandatory...)

	mandatory := map[deck.Color]bool{}
	for _, c := range s.Mandatory {
		mandatory[c] = true
	}

	added := 0
	for _, c := range deck.Colors {
		if added == s.OptionalCount {
			break
		}
		if !mandatory[c] {
			required = append(required, c)
			added++
		}
	}

	return required
}

// Board tracks the dollar marker and the covered spaces
type Board struct {
	spaces   []Space
	covered  map[int]bool
	position int
}

func NewBoard(spaces []Space) *Board {
	return &Board{
		spaces:  spaces,
		covered: map[int]bool{},
	}
}

func (b *Board) Position() int {
	return b.position
}

func (b *Board) Current() Space {
	return b.spaces[b.position]
}

// Covered returns the covered space ids in ascending order
func (b *Board) Covered() []int {
	ids := []int{}
	for id := range b.spaces {
		if b.covered[id] {
			ids = append(ids, id)
		}
	}
	return ids
}

func (b *Board) IsCovered(id int) bool {
	return b.covered[id]
}

func (b *Board) uncoveredCount() int {
	return len(b.spaces) - len(b.covered)
}

// Advance moves the marker forward by steps uncovered spaces.
// Covered spaces are skipped and not counted.
func (b *Board) Advance(steps int) int {
	if b.uncoveredCount() == 0 {
		return b.position
	}

	moved := 0
	for moved < steps {
		b.position = (b.position + 1) % len(b.spaces)
		if !b.covered[b.position] {
			moved++
		}
	}

	return b.position
}

// CoverCurrent covers the space under the marker
func (b *Board) CoverCurrent() {
	b.covered[b.position] = true
}

// MoveToNextUncovered moves the marker to the next uncovered space
func (b *Board) MoveToNextUncovered() int {
	for i := 0; i < len(b.spaces); i++ {
		b.position = (b.position + 1) % len(b.spaces)
		if !b.covered[b.position] {
			break
		}
	}
	return b.position
}
