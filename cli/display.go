package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/minaorangina/boss/deck"
	"github.com/minaorangina/boss/game"
)

const (
	welcomeText        = "Welcome to I'm the Boss! Type \"help\" for the commands.\n"
	promptText         = "\n%s> "
	unknownCommandText = "Unknown command %q. Type \"help\" for the commands.\n"
	usageText          = "Usage: %s\n"
	failureText        = "✗ %s\n"
	successText        = "✓ %s\n"
	goodbyeText        = "Goodbye!\n"
	helpText           = `Commands:
  state                          show the table
  hand <player>                  show a player's hand
  roll                           roll the die (current player)
  draw                           draw cards and end the turn (current player)
  deal                           start a negotiation (current player)
  offer <player> <amount>        the Boss offers money to a player
  respond <player> yes|no        a player answers the Boss's offer
  play <player> <cardId> [color] a player plays a card
  close                          the Boss closes the deal
  nodeal                         the Boss ends the negotiation without a deal
  quit                           leave the game
`
)

func SendText(w io.Writer, text string, a ...interface{}) {
	fmt.Fprintf(w, text, a...)
}

func colorNames(colors []deck.Color) string {
	if len(colors) == 0 {
		return "-"
	}
	names := make([]string, len(colors))
	for i, c := range colors {
		names[i] = c.Name()
	}
	return strings.Join(names, ", ")
}

func buildStateText(s game.PublicState) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Phase: %s | Deal tile %d ($%dM a share) | Space %d pays %d\n",
		s.Phase, s.CurrentDealTile.Number, s.CurrentDealTile.SharePrice, s.CurrentSpace.ID, s.CurrentSpace.Dividends)
	fmt.Fprintf(&b, "Needs: %s plus %d more | Covered: %v\n",
		colorNames(s.CurrentSpace.Mandatory), s.CurrentSpace.OptionalCount, s.CoveredSpaces)
	fmt.Fprintf(&b, "Draw pile: %d | Discards: %d\n\n", s.DrawCount, s.DiscardCount)

	for _, p := range s.Players {
		marker := "  "
		if p.ID == s.CurrentPlayerID {
			marker = "> "
		}
		boss := ""
		if p.IsBoss {
			boss = " [BOSS]"
		}
		fmt.Fprintf(&b, "%s%d %s%s: $%dM, %d cards, placards %s\n",
			marker, p.ID, p.Name, boss, p.Cash, p.HandCount, colorNames(p.Placards))
	}
	if len(s.ExtraPlacards) > 0 {
		fmt.Fprintf(&b, "  Unowned placards: %s\n", colorNames(s.ExtraPlacards))
	}

	if n := s.Negotiation; n != nil {
		b.WriteString(buildNegotiationText(*n))
	}

	if s.Winner != nil {
		fmt.Fprintf(&b, "\nGame over! %s wins with $%dM\n", s.Winner.Name, s.Winner.Cash)
		for i, score := range s.FinalScores {
			fmt.Fprintf(&b, "%d. %s $%dM\n", i+1, score.Name, score.Cash)
		}
	}

	return b.String()
}

func buildNegotiationText(n game.NegotiationView) string {
	var b strings.Builder

	fmt.Fprintf(&b, "\nNegotiation: pot $%dM, Boss is player %d\n", n.Pot, n.BossID)
	fmt.Fprintf(&b, "  Required: %s\n", colorNames(n.Required))
	for _, c := range n.Required {
		if f, ok := n.Fulfilled[c]; ok {
			fmt.Fprintf(&b, "  %s: %s (player %d)\n", c.Name(), f.Source, f.PlayerID)
		}
	}
	if len(n.Traveled) > 0 {
		fmt.Fprintf(&b, "  Traveled: %s\n", colorNames(n.Traveled))
	}
	for _, o := range n.Offers {
		fmt.Fprintf(&b, "  Offer to player %d: $%dM (%s)\n", o.PlayerID, o.Amount, o.Status)
	}
	if n.CanClose {
		b.WriteString("  The deal can close\n")
	} else {
		fmt.Fprintf(&b, "  Missing: %s\n", colorNames(n.Unfulfilled))
	}

	return b.String()
}

func buildHandText(name string, hand []deck.Card) string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s holds %d cards\n", name, len(hand))
	for _, c := range hand {
		fmt.Fprintf(&b, "- [%d] %s\n", c.ID, c)
	}

	return b.String()
}
