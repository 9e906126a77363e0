package engine

import (
	"fmt"
	"testing"

	"go.uber.org/zap/zaptest"
)

// firstLegal always passes the auction and takes the first legal option elsewhere.
type firstLegal struct{}

func (firstLegal) Kind() string { return "first" }

func (firstLegal) PlaceBid(*Player, int, int) (int, error) { return 0, nil }

func (firstLegal) ChooseTrump(p *Player) (Suit, error) {
	if s := p.Hand.MarriageSuits(); len(s) > 0 {
		return s[0], nil
	}
	return Spades, nil
}

func (firstLegal) ChooseCard(p *Player, t *Trick) (Card, error) {
	legal := t.LegalPlays(p.Hand)
	if len(legal) == 0 {
		return Card{}, ErrEmptyHand
	}
	return legal[0], nil
}

func (firstLegal) ChooseDiscards(p *Player, _ Suit, n int) ([]Card, error) {
	cards := p.Hand.Cards()
	if len(cards) < n {
		return nil, ErrEmptyHand
	}
	return cards[:n], nil
}

func resolveFirst(kind string, index int) (Strategy, error) {
	if kind != "first" {
		return nil, fmt.Errorf("unknown kind %q for player %d", kind, index)
	}
	return firstLegal{}, nil
}

func newPlayers(n int) []*Player {
	out := make([]*Player, n)
	for i := range out {
		out[i] = NewPlayer(fmt.Sprintf("P%d", i), firstLegal{})
	}
	return out
}

func newTestGame(t *testing.T, v Variant, opts ...Option) *Game {
	t.Helper()
	opts = append([]Option{WithLogger(zaptest.NewLogger(t)), WithSeed(1)}, opts...)
	g, err := NewGame(v, newPlayers(v.Players), opts...)
	if err != nil {
		t.Fatalf("NewGame: %v", err)
	}
	return g
}

func cards(cs ...Card) []Card { return cs }

// stepUntil drives the game through its strategies until cond holds.
func stepUntil(t *testing.T, g *Game, cond func(*Game) bool) {
	t.Helper()
	for i := 0; !cond(g); i++ {
		if i > 1000 {
			t.Fatalf("condition not reached, phase %v", g.Phase)
		}
		if err := g.Step(); err != nil {
			t.Fatalf("step in %v: %v", g.Phase, err)
		}
	}
}

// bidderHand is a single-deck hand with a heart marriage and a spade lead.
var bidderHand = cards(
	Card{Spades, Ace}, Card{Spades, Ace}, Card{Spades, Ten}, Card{Spades, Ten},
	Card{Hearts, King}, Card{Hearts, Queen},
	Card{Clubs, Ace}, Card{Clubs, Ace}, Card{Clubs, Ten}, Card{Clubs, Ten},
	Card{Diamonds, Ace}, Card{Diamonds, Ace},
)

// secondHand holds spades that cannot beat the bidder's ace.
var secondHand = cards(
	Card{Spades, King}, Card{Spades, King}, Card{Spades, Nine},
	Card{Hearts, Jack}, Card{Hearts, Jack}, Card{Hearts, Nine},
	Card{Clubs, King}, Card{Clubs, Nine}, Card{Clubs, Nine},
	Card{Diamonds, Nine}, Card{Diamonds, Nine}, Card{Diamonds, King},
)

// setupPlay deals a single-deck hand with seat 0 holding the bid at 25 in
// hearts and leaves the game at the first card of trick play.
func setupPlay(t *testing.T, opts ...Option) *Game {
	t.Helper()
	g := newTestGame(t, Single(), opts...)
	if err := g.BeginHand(); err != nil {
		t.Fatalf("BeginHand: %v", err)
	}
	if err := g.Deal(map[int][]Card{0: bidderHand, 1: secondHand}); err != nil {
		t.Fatalf("Deal: %v", err)
	}
	if err := g.AssignBid(0, 25); err != nil {
		t.Fatalf("AssignBid: %v", err)
	}
	if err := g.SetPartners(); err != nil {
		t.Fatalf("SetPartners: %v", err)
	}
	if err := g.CallTrump(0, Hearts); err != nil {
		t.Fatalf("CallTrump: %v", err)
	}
	passed := g.Players[2].Hand.Cards()[:3]
	if err := g.PassCards(2, passed); err != nil {
		t.Fatalf("partner pass: %v", err)
	}
	if err := g.PassCards(0, passed); err != nil {
		t.Fatalf("bidder pass: %v", err)
	}
	if err := g.DeclareMeld(); err != nil {
		t.Fatalf("DeclareMeld: %v", err)
	}
	if g.Phase != PhasePlay {
		t.Fatalf("expected play phase, got %v", g.Phase)
	}
	return g
}
