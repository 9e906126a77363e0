package player

import (
	"cmp"
	"slices"

	"github.com/bradylowe/pinochle/internal/engine"
)

// SimpleBot bids up to its meld plus headroom and calls its best-ranked suit.
// In play it pays tricks its partner is taking and cashes aces that win.
type SimpleBot struct {
	*RandomBot
}

func NewSimpleBot(seed uint64) *SimpleBot {
	return &SimpleBot{RandomBot: NewRandomBot(seed)}
}

func (b *SimpleBot) Kind() string { return KindSimple }

func (b *SimpleBot) PlaceBid(p *engine.Player, current, increment int) (int, error) {
	if next := current + increment; next <= maxBid(p) {
		return next, nil
	}
	return 0, nil
}

func (b *SimpleBot) ChooseTrump(p *engine.Player) (engine.Suit, error) {
	return p.Meld.BestSuit(), nil
}

func (b *SimpleBot) ChooseCard(p *engine.Player, t *engine.Trick) (engine.Card, error) {
	options := t.LegalPlays(p.Hand)
	if len(options) == 0 {
		return engine.Card{}, engine.ErrEmptyHand
	}
	fallback := options[len(options)-1]

	if shouldPay(p, t) {
		if c, ok := lowest(options, engine.Card.IsCounter); ok {
			return c, nil
		}
		return fallback, nil
	}
	if top := options[0]; top.Rank == engine.Ace && canBeat(t, top) {
		return top, nil
	}
	if c, ok := highest(options, func(c engine.Card) bool { return !c.IsCounter() }); ok {
		return c, nil
	}
	return fallback, nil
}

// ChooseDiscards keeps the bidder's trump and counters and feeds the bidder
// trump and aces when passing as the partner.
func (b *SimpleBot) ChooseDiscards(p *engine.Player, trump engine.Suit, n int) ([]engine.Card, error) {
	cards := p.Hand.Cards()
	if len(cards) < n {
		return nil, engine.ErrEmptyHand
	}
	keep := func(c engine.Card) int {
		score := int(c.Rank)
		if c.IsCounter() {
			score += 10
		}
		if c.Suit == trump {
			score += 20
		}
		return score
	}
	if p.IsHighBidder {
		slices.SortStableFunc(cards, func(a, b engine.Card) int { return cmp.Compare(keep(a), keep(b)) })
	} else {
		give := func(c engine.Card) int {
			if c.Rank == engine.Ace && c.Suit != trump {
				return keep(c) + 20
			}
			return keep(c)
		}
		slices.SortStableFunc(cards, func(a, b engine.Card) int { return cmp.Compare(give(b), give(a)) })
	}
	return cards[:n], nil
}

// shouldPay reports whether the partner is, or is likely to end up, taking the trick.
func shouldPay(p *engine.Player, t *engine.Trick) bool {
	if t.Len() == 0 || p.Partner == nil {
		return false
	}
	if t.Winner() == p.Partner {
		return true
	}
	best, _ := t.Best()
	return t.HasPlayed(p.Partner) && best.Rank != engine.Ace
}

func canBeat(t *engine.Trick, c engine.Card) bool {
	best, ok := t.Best()
	if !ok {
		return true
	}
	if c.Suit == best.Suit {
		return c.Beats(best)
	}
	return c.Suit == t.Trump()
}

func lowest(cards []engine.Card, keep func(engine.Card) bool) (engine.Card, bool) {
	var out engine.Card
	found := false
	for _, c := range cards {
		if keep(c) && (!found || c.Rank < out.Rank) {
			out, found = c, true
		}
	}
	return out, found
}

func highest(cards []engine.Card, keep func(engine.Card) bool) (engine.Card, bool) {
	var out engine.Card
	found := false
	for _, c := range cards {
		if keep(c) && (!found || c.Rank > out.Rank) {
			out, found = c, true
		}
	}
	return out, found
}
