package player

import (
	"math/rand/v2"

	"github.com/bradylowe/pinochle/internal/engine"
)

// bidHeadroom is how far past its own meld a bot will push the auction.
const bidHeadroom = 20

// RandomBot makes uniformly random legal choices. It never bids past its meld
// plus headroom.
type RandomBot struct {
	rng *rand.Rand
}

func NewRandomBot(seed uint64) *RandomBot {
	return &RandomBot{rng: rand.New(rand.NewPCG(seed, seed+1))}
}

func (b *RandomBot) Kind() string { return KindRandom }

func (b *RandomBot) PlaceBid(p *engine.Player, current, increment int) (int, error) {
	next := current + increment
	if next > maxBid(p) || b.rng.IntN(2) == 0 {
		return 0, nil
	}
	return next, nil
}

func (b *RandomBot) ChooseTrump(p *engine.Player) (engine.Suit, error) {
	if suits := p.Hand.MarriageSuits(); len(suits) > 0 {
		return suits[b.rng.IntN(len(suits))], nil
	}
	return p.Hand.ChooseRandomSuit(b.rng)
}

func (b *RandomBot) ChooseCard(p *engine.Player, t *engine.Trick) (engine.Card, error) {
	legal := t.LegalPlays(p.Hand)
	if len(legal) == 0 {
		return engine.Card{}, engine.ErrEmptyHand
	}
	return legal[b.rng.IntN(len(legal))], nil
}

func (b *RandomBot) ChooseDiscards(p *engine.Player, _ engine.Suit, n int) ([]engine.Card, error) {
	cards := p.Hand.Cards()
	if len(cards) < n {
		return nil, engine.ErrEmptyHand
	}
	b.rng.Shuffle(len(cards), func(i, j int) { cards[i], cards[j] = cards[j], cards[i] })
	return cards[:n], nil
}

func maxBid(p *engine.Player) int {
	return p.Meld.Total[p.Meld.BestSuit()] + bidHeadroom
}
