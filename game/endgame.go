package game

// EndResult is the outcome of the end of game check that follows a closed deal
type EndResult struct {
	GameOver bool
	// Roll is 0 when no roll was needed
	Roll   int
	Reason string
}

// EndGameEvaluator decides whether the game ends after a deal closes
type EndGameEvaluator struct {
	rng RandomSource
}

func NewEndGameEvaluator(rng RandomSource) EndGameEvaluator {
	return EndGameEvaluator{rng: rng}
}

// Evaluate checks the tile of the deal that just closed
func (e EndGameEvaluator) Evaluate(tile DealTile) EndResult {
	if tile.Number == FinalDealTile {
		return EndResult{GameOver: true, Reason: "final deal"}
	}

	if len(tile.EndNumbers) == 0 {
		return EndResult{}
	}

	roll := rollDie(e.rng)
	if tile.endsOn(roll) {
		return EndResult{GameOver: true, Roll: roll, Reason: "end roll"}
	}

	return EndResult{Roll: roll}
}

func rollDie(rng RandomSource) int {
	return rng.Intn(dieFaces) + 1
}
