package cli

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/minaorangina/boss/deck"
	"github.com/minaorangina/boss/game"
)

// Session plays one game at a single terminal. Everyone shares the keyboard.
type Session struct {
	game *game.Game
	in   io.Reader
	out  io.Writer
}

func NewSession(g *game.Game, in io.Reader, out io.Writer) *Session {
	return &Session{game: g, in: in, out: out}
}

// Run reads commands until the game ends, input runs out or a player quits
func (s *Session) Run() error {
	scanner := bufio.NewScanner(s.in)

	SendText(s.out, welcomeText)
	s.showState()

	for {
		SendText(s.out, promptText, s.actorName())
		if !scanner.Scan() {
			return scanner.Err()
		}

		if quit := s.Execute(scanner.Text()); quit {
			SendText(s.out, goodbyeText)
			return nil
		}

		if s.game.Phase() == game.GameOver {
			s.showState()
			return nil
		}
	}
}

// actorName is whoever acts next: the Boss during a negotiation, otherwise the current player
func (s *Session) actorName() string {
	state := s.game.State(nil)
	for _, p := range state.Players {
		if p.ID == s.game.Boss() {
			return p.Name
		}
	}
	return ""
}

// Execute runs one command line and reports whether the player quit
func (s *Session) Execute(line string) bool {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false
	}

	g := s.game
	args := fields[1:]

	switch strings.ToLower(fields[0]) {
	case "quit", "exit":
		return true

	case "help":
		SendText(s.out, helpText)

	case "state":
		s.showState()

	case "hand":
		player, ok := s.playerArg(args, 0, "hand <player>")
		if !ok {
			return false
		}
		state := g.State(&player)
		SendText(s.out, buildHandText(state.Players[player].Name, state.YourHand))

	case "roll":
		res, err := g.RollDie(g.CurrentPlayer())
		if s.report(err) {
			SendText(s.out, successText, fmt.Sprintf("Rolled a %d, the marker moves to space %d", res.Roll, res.NewPosition))
		}

	case "draw":
		res, err := g.DrawCards(g.CurrentPlayer())
		if s.report(err) {
			SendText(s.out, successText, fmt.Sprintf("Drew %d cards, discarded %d", res.DrawnCount, res.DiscardedCount))
			s.showEvent()
		}

	case "deal":
		res, err := g.StartNegotiation(g.CurrentPlayer())
		if s.report(err) {
			SendText(s.out, successText, fmt.Sprintf("Negotiating for $%dM, needs %s", res.Pot, colorNames(res.Required)))
		}

	case "offer":
		to, ok := s.playerArg(args, 0, "offer <player> <amount>")
		if !ok {
			return false
		}
		amount, ok := s.intArg(args, 1, "offer <player> <amount>")
		if !ok {
			return false
		}
		if s.report(g.MakeOffer(g.Boss(), to, amount)) {
			s.showEvent()
		}

	case "respond":
		player, ok := s.playerArg(args, 0, "respond <player> yes|no")
		if !ok {
			return false
		}
		if len(args) < 2 {
			SendText(s.out, usageText, "respond <player> yes|no")
			return false
		}
		accept := strings.HasPrefix(strings.ToLower(args[1]), "y")
		if s.report(g.RespondToOffer(player, accept)) {
			s.showEvent()
		}

	case "play":
		player, ok := s.playerArg(args, 0, "play <player> <cardId> [color]")
		if !ok {
			return false
		}
		cardID, ok := s.intArg(args, 1, "play <player> <cardId> [color]")
		if !ok {
			return false
		}
		target := deck.NoColor
		if len(args) > 2 {
			c, known := deck.ParseColor(strings.ToLower(args[2]))
			if !known {
				SendText(s.out, failureText, "Unknown color "+args[2])
				return false
			}
			target = c
		}
		if s.report(g.PlayCard(player, cardID, target)) {
			s.showEvent()
		}

	case "close":
		res, err := g.CloseDeal(g.Boss())
		if s.report(err) {
			SendText(s.out, successText, fmt.Sprintf("Deal closed: the Boss keeps $%dM of $%dM", res.BossShare, res.Pot))
			if res.EndRoll > 0 {
				SendText(s.out, "End roll: %d\n", res.EndRoll)
			}
		}

	case "nodeal":
		if s.report(g.FailDeal(g.Boss())) {
			s.showEvent()
		}

	default:
		SendText(s.out, unknownCommandText, fields[0])
	}

	return false
}

// report prints a failure and returns true when there was none
func (s *Session) report(err error) bool {
	if err != nil {
		SendText(s.out, failureText, err.Error())
		return false
	}
	return true
}

func (s *Session) showState() {
	SendText(s.out, "%s", buildStateText(s.game.State(nil)))
}

func (s *Session) showEvent() {
	SendText(s.out, successText, s.game.LastEvent().Message)
}

func (s *Session) intArg(args []string, i int, usage string) (int, bool) {
	if i >= len(args) {
		SendText(s.out, usageText, usage)
		return 0, false
	}
	n, err := strconv.Atoi(args[i])
	if err != nil {
		SendText(s.out, failureText, fmt.Sprintf("%q is not a number", args[i]))
		return 0, false
	}
	return n, true
}

func (s *Session) playerArg(args []string, i int, usage string) (game.PlayerID, bool) {
	n, ok := s.intArg(args, i, usage)
	if !ok {
		return 0, false
	}
	if n < 0 || n >= s.game.NumPlayers() {
		SendText(s.out, failureText, fmt.Sprintf("No player %d", n))
		return 0, false
	}
	return game.PlayerID(n), true
}
