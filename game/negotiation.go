package game

import (
	"fmt"

	"github.com/minaorangina/boss/deck"
)

// RecruitmentCardsNeeded is the number of recruitment cards a recruitment play needs
const RecruitmentCardsNeeded = 3

// Source is how a required color came to be fulfilled
type Source int

const (
	SourcePlacard Source = iota
	SourceClan
	SourceAcceptedOffer
)

func (s Source) String() string {
	switch s {
	case SourcePlacard:
		return "placard"
	case SourceClan:
		return "clan"
	case SourceAcceptedOffer:
		return "accepted_offer"
	}
	return "unknown"
}

type Fulfillment struct {
	Source Source
	Owner  PlayerID
	// Card is the clan card on the table, for SourceClan only
	Card *deck.Card
}

type OfferStatus int

const (
	OfferPending OfferStatus = iota
	OfferAccepted
	OfferRejected
)

func (s OfferStatus) String() string {
	switch s {
	case OfferPending:
		return "pending"
	case OfferAccepted:
		return "accepted"
	case OfferRejected:
		return "rejected"
	}
	return "unknown"
}

type Offer struct {
	Amount int
	Status OfferStatus
}

type EffectKind int

const (
	EffectClan EffectKind = iota
	EffectTravel
	EffectBossTransfer
	EffectRecruitment
)

func (k EffectKind) String() string {
	switch k {
	case EffectClan:
		return "clan"
	case EffectTravel:
		return "travel"
	case EffectBossTransfer:
		return "boss"
	case EffectRecruitment:
		return "recruitment"
	}
	return "unknown"
}

func (k EffectKind) cancelable() bool {
	return k == EffectTravel || k == EffectBossTransfer || k == EffectRecruitment
}

// Effect is the most recent card effect. Only one is ever kept.
type Effect struct {
	Kind   EffectKind
	Player PlayerID
	Color  deck.Color

	// what a boss transfer replaced
	prevBoss      PlayerID
	prevOffers    map[PlayerID]Offer
	prevFulfilled map[deck.Color]Fulfillment
}

// Payout is money paid to one player when a deal closes
type Payout struct {
	Player PlayerID `json:"playerId"`
	Amount int      `json:"amount"`
	IsBoss bool     `json:"isBoss,omitempty"`
}

// Negotiation lives for one negotiation phase, bound to a space and a deal tile
type Negotiation struct {
	Boss     PlayerID
	Space    Space
	Tile     DealTile
	Pot      int
	Required []deck.Color

	fulfilled  map[deck.Color]Fulfillment
	traveled   map[deck.Color]bool
	offers     map[PlayerID]Offer
	lastEffect *Effect

	roster Roster
	deck   *deck.Deck
}

func newNegotiation(boss PlayerID, s Space, tile DealTile, roster Roster, d *deck.Deck) *Negotiation {
	n := &Negotiation{
		Boss:      boss,
		Space:     s,
		Tile:      tile,
		Pot:       s.Dividends * tile.SharePrice,
		Required:  requiredInvestors(s),
		fulfilled: map[deck.Color]Fulfillment{},
		traveled:  map[deck.Color]bool{},
		offers:    map[PlayerID]Offer{},
		roster:    roster,
		deck:      d,
	}

	n.fulfilBossPlacards()

	return n
}

func (n *Negotiation) isRequired(c deck.Color) bool {
	return containsColor(n.Required, c)
}

func (n *Negotiation) fulfilBossPlacards() {
	boss := n.roster.Get(n.Boss)
	for _, c := range n.Required {
		if n.traveled[c] {
			continue
		}
		if _, ok := n.fulfilled[c]; ok {
			continue
		}
		if boss.HasPlacard(c) {
			n.fulfilled[c] = Fulfillment{Source: SourcePlacard, Owner: boss.ID}
		}
	}
}

// present reports whether an investor of color c is at the table
func (n *Negotiation) present(c deck.Color) bool {
	if n.traveled[c] {
		return false
	}
	if f, ok := n.fulfilled[c]; ok && f.Source == SourceClan {
		return true
	}
	_, owned := n.roster.PlacardOwner(c)
	return owned
}

func (n *Negotiation) satisfied(c deck.Color) bool {
	if n.traveled[c] {
		return true
	}
	_, ok := n.fulfilled[c]
	return ok
}

// Unfulfilled lists the required colors still missing, in requirement order
func (n *Negotiation) Unfulfilled() []deck.Color {
	missing := []deck.Color{}
	for _, c := range n.Required {
		if !n.satisfied(c) {
			missing = append(missing, c)
		}
	}
	return missing
}

func (n *Negotiation) CanClose() bool {
	return len(n.Unfulfilled()) == 0
}

func (n *Negotiation) Traveled(c deck.Color) bool {
	return n.traveled[c]
}

func (n *Negotiation) Fulfillment(c deck.Color) (Fulfillment, bool) {
	f, ok := n.fulfilled[c]
	return f, ok
}

func (n *Negotiation) Offer(to PlayerID) (Offer, bool) {
	o, ok := n.offers[to]
	return o, ok
}

func (n *Negotiation) LastEffect() *Effect {
	return n.lastEffect
}

func (n *Negotiation) acceptedTotal() int {
	total := 0
	for _, o := range n.offers {
		if o.Status == OfferAccepted {
			total += o.Amount
		}
	}
	return total
}

// clanCards returns the clan cards on the table
func (n *Negotiation) clanCards() []Fulfillment {
	clans := []Fulfillment{}
	for _, c := range deck.Colors {
		if f, ok := n.fulfilled[c]; ok && f.Source == SourceClan {
			clans = append(clans, f)
		}
	}
	return clans
}

func (n *Negotiation) tableCards() int {
	return len(n.clanCards())
}

// PlayCard plays a card from the player's hand. target is the color the
// card acts on, and is only needed for travel cards.
func (n *Negotiation) PlayCard(playerID PlayerID, cardID int, target deck.Color) (string, error) {
	p := n.roster.Get(playerID)

	idx := p.cardIndex(cardID)
	if idx < 0 {
		return "", ruleErr(ErrInvalidCard, "Card not found in hand")
	}
	card := p.Hand[idx]

	switch card.Kind {
	case deck.Clan:
		return n.playClan(p, card, target)
	case deck.Travel:
		return n.playTravel(p, card, target)
	case deck.Recruitment:
		return n.playRecruitment(p)
	case deck.Boss:
		return n.playBoss(p, card)
	case deck.Stop:
		return n.playStop(p, card)
	}

	return "", ruleErr(ErrInvalidCard, "Unknown card type")
}

func (n *Negotiation) playClan(p *Player, card deck.Card, target deck.Color) (string, error) {
	color := card.Color
	if target != deck.NoColor && target != color {
		return "", ruleErr(ErrInvalidCard, "This clan card can only represent %s", color.Name())
	}
	if n.traveled[color] {
		return "", ruleErr(ErrInvalidTarget, "%s has been traveled", color.Name())
	}
	if _, ok := n.fulfilled[color]; ok {
		return "", ruleErr(ErrInvalidTarget, "%s is already present", color.Name())
	}

	p.removeCard(card.ID)
	n.fulfilled[color] = Fulfillment{Source: SourceClan, Owner: p.ID, Card: &card}
	n.lastEffect = &Effect{Kind: EffectClan, Player: p.ID, Color: color}

	return fmt.Sprintf("%s plays %s", p.Name, card), nil
}

func (n *Negotiation) playTravel(p *Player, card deck.Card, target deck.Color) (string, error) {
	if target == deck.NoColor {
		return "", ruleErr(ErrInvalidTarget, "Must select a color to travel")
	}
	if _, ok := deck.ParseColor(string(target)); !ok {
		return "", ruleErr(ErrInvalidTarget, "Unknown color %q", target)
	}
	if !card.IsWild() && card.Color != target {
		return "", ruleErr(ErrInvalidCard, "This travel card can only target %s", card.Color.Name())
	}
	if !n.present(target) {
		return "", ruleErr(ErrInvalidTarget, "%s is not present", target.Name())
	}

	if f, ok := n.fulfilled[target]; ok && f.Source == SourceClan {
		n.deck.Discard(*f.Card)
	}
	delete(n.fulfilled, target)
	n.traveled[target] = true

	p.removeCard(card.ID)
	n.deck.Discard(card)
	n.lastEffect = &Effect{Kind: EffectTravel, Player: p.ID, Color: target}

	return fmt.Sprintf("%s travels %s!", p.Name, target.Name()), nil
}

func (n *Negotiation) playRecruitment(p *Player) (string, error) {
	if have := p.countKind(deck.Recruitment); have < RecruitmentCardsNeeded {
		return "", ruleErr(ErrInsufficientResource,
			"Recruitment requires %d cards (you have %d)", RecruitmentCardsNeeded, have)
	}
	return "", ruleErr(ErrInvalidCard, "Recruitment is not available")
}

func (n *Negotiation) playBoss(p *Player, card deck.Card) (string, error) {
	if p.ID == n.Boss {
		return "", ruleErr(ErrInvalidTarget, "You are already the Boss!")
	}

	effect := &Effect{
		Kind:          EffectBossTransfer,
		Player:        p.ID,
		prevBoss:      n.Boss,
		prevOffers:    n.offers,
		prevFulfilled: copyFulfilled(n.fulfilled),
	}
	previous := n.roster.Get(n.Boss)

	n.Boss = p.ID
	n.offers = map[PlayerID]Offer{}
	for c, f := range n.fulfilled {
		if f.Source != SourceClan {
			delete(n.fulfilled, c)
		}
	}
	n.fulfilBossPlacards()

	p.removeCard(card.ID)
	n.deck.Discard(card)
	n.lastEffect = effect

	return fmt.Sprintf("%s plays \"I'm the Boss!\" and takes over from %s!", p.Name, previous.Name), nil
}

func (n *Negotiation) playStop(p *Player, card deck.Card) (string, error) {
	last := n.lastEffect
	if last == nil {
		return "", ruleErr(ErrInvalidTarget, "Nothing to stop!")
	}
	if !last.Kind.cancelable() {
		return "", ruleErr(ErrInvalidTarget, "Can only stop Travel, Boss, or Recruitment cards")
	}

	switch last.Kind {
	case EffectTravel:
		n.undoTravel(last.Color)
	case EffectBossTransfer:
		n.Boss = last.prevBoss
		n.offers = last.prevOffers
		n.fulfilled = last.prevFulfilled
	case EffectRecruitment:
		// recruitment never resolves, so there is nothing to reverse
	}

	p.removeCard(card.ID)
	n.deck.Discard(card)
	n.lastEffect = nil

	return fmt.Sprintf("%s plays Stop! Cancelling %s!", p.Name, last.Kind), nil
}

// undoTravel brings c back and re-derives its fulfilment from placard ownership
func (n *Negotiation) undoTravel(c deck.Color) {
	delete(n.traveled, c)

	if !n.isRequired(c) {
		return
	}
	owner, ok := n.roster.PlacardOwner(c)
	if !ok {
		return
	}

	if owner.ID == n.Boss {
		n.fulfilled[c] = Fulfillment{Source: SourcePlacard, Owner: owner.ID}
		return
	}
	if o, ok := n.offers[owner.ID]; ok && o.Status == OfferAccepted {
		n.fulfilled[c] = Fulfillment{Source: SourceAcceptedOffer, Owner: owner.ID}
	}
}

// MakeOffer offers part of the pot to another player
func (n *Negotiation) MakeOffer(from, to PlayerID, amount int) (string, error) {
	if from != n.Boss {
		return "", ruleErr(ErrNotBoss, "Only the Boss can make offers")
	}
	if !n.roster.Exists(to) || to == n.Boss {
		return "", ruleErr(ErrInvalidTarget, "Invalid offer recipient")
	}
	if amount < 0 || amount > n.Pot {
		return "", ruleErr(ErrInvalidTarget, "Invalid offer amount")
	}
	if o, ok := n.offers[to]; ok && o.Status == OfferAccepted {
		return "", ruleErr(ErrInvalidTarget, "%s has already accepted an offer", n.roster.Get(to).Name)
	}

	n.offers[to] = Offer{Amount: amount, Status: OfferPending}

	return fmt.Sprintf("%s offers $%dM to %s", n.roster.Get(from).Name, amount, n.roster.Get(to).Name), nil
}

// RespondToOffer accepts or rejects the pending offer made to playerID
func (n *Negotiation) RespondToOffer(playerID PlayerID, accept bool) (string, error) {
	o, ok := n.offers[playerID]
	if !ok || o.Status != OfferPending {
		return "", ruleErr(ErrInvalidTarget, "No offer found for this player")
	}
	p := n.roster.Get(playerID)

	if !accept {
		o.Status = OfferRejected
		n.offers[playerID] = o
		return fmt.Sprintf("%s rejects the offer", p.Name), nil
	}

	if n.acceptedTotal()+o.Amount > n.Pot {
		return "", ruleErr(ErrInvalidTarget, "Accepting would exceed the pot")
	}

	o.Status = OfferAccepted
	n.offers[playerID] = o

	for _, c := range n.Required {
		if p.HasPlacard(c) && !n.satisfied(c) {
			n.fulfilled[c] = Fulfillment{Source: SourceAcceptedOffer, Owner: p.ID}
		}
	}

	return fmt.Sprintf("%s accepts the offer", p.Name), nil
}

// close pays out the pot. The boss gets whatever was not promised.
func (n *Negotiation) close() ([]Payout, error) {
	if missing := n.Unfulfilled(); len(missing) > 0 {
		return nil, ruleErr(ErrInvalidTarget,
			"Cannot close deal: %s is required but not present", missing[0].Name())
	}

	payouts := []Payout{}
	total := 0
	for _, p := range n.roster {
		o, ok := n.offers[p.ID]
		if !ok || o.Status != OfferAccepted {
			continue
		}
		total += o.Amount
		p.Cash += o.Amount
		payouts = append(payouts, Payout{Player: p.ID, Amount: o.Amount})
	}

	bossShare := n.Pot - total
	n.roster.Get(n.Boss).Cash += bossShare
	payouts = append(payouts, Payout{Player: n.Boss, Amount: bossShare, IsBoss: true})

	for _, f := range n.clanCards() {
		n.deck.Discard(*f.Card)
	}
	n.fulfilled = map[deck.Color]Fulfillment{}

	return payouts, nil
}

// fail hands the clan cards on the table back to their owners
func (n *Negotiation) fail() {
	for _, f := range n.clanCards() {
		owner := n.roster.Get(f.Owner)
		owner.Hand = append(owner.Hand, *f.Card)
	}
	n.fulfilled = map[deck.Color]Fulfillment{}
}

func copyFulfilled(m map[deck.Color]Fulfillment) map[deck.Color]Fulfillment {
	c := make(map[deck.Color]Fulfillment, len(m))
	for k, v := range m {
		c[k] = v
	}
	return c
}
