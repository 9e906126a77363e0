package engine

import (
	"errors"
	"math/rand/v2"
	"slices"
	"testing"
)

func TestHandOrdering(t *testing.T) {
	h := NewHand(Card{Hearts, Queen}, Card{Spades, Nine}, Card{Spades, Ace}, Card{Diamonds, Ten})
	want := cards(Card{Spades, Ace}, Card{Spades, Nine}, Card{Hearts, Queen}, Card{Diamonds, Ten})
	if got := h.Cards(); !slices.Equal(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	if s := h.String(); s != "A♠, 9♠ | Q♥ | None | 10♦" {
		t.Fatalf("unexpected string %q", s)
	}
}

func TestHandRemove(t *testing.T) {
	h := NewHand(Card{Spades, Ace}, Card{Spades, Ace}, Card{Hearts, King})
	if err := h.Remove(Card{Clubs, Ace}); !errors.Is(err, ErrInvalidCard) {
		t.Fatalf("expected ErrInvalidCard, got %v", err)
	}
	if err := h.Remove(Card{Spades, Ace}); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if h.Count(Spades, Ace) != 1 {
		t.Fatalf("expected one ace left")
	}
	if err := h.RemoveAll(cards(Card{Hearts, King}, Card{Hearts, King})); !errors.Is(err, ErrCardNotInHand) {
		t.Fatalf("expected ErrCardNotInHand, got %v", err)
	}
	if h.Len() != 2 {
		t.Fatalf("failed RemoveAll changed the hand")
	}
}

func TestHandMarriages(t *testing.T) {
	h := NewHand(Card{Hearts, King}, Card{Hearts, Queen}, Card{Clubs, King}, Card{Diamonds, Queen}, Card{Diamonds, King})
	if got := h.MarriageSuits(); !slices.Equal(got, []Suit{Hearts, Diamonds}) {
		t.Fatalf("got %v", got)
	}
	if h.HasMarriage(Clubs) {
		t.Fatalf("lone king is not a marriage")
	}
}

func TestHandRandomChoices(t *testing.T) {
	r := rand.New(rand.NewPCG(3, 3))
	empty := NewHand()
	if _, err := empty.ChooseRandom(r); !errors.Is(err, ErrEmptyCollection) {
		t.Fatalf("expected ErrEmptyCollection, got %v", err)
	}
	if _, err := empty.ChooseRandomSuit(r); !errors.Is(err, ErrEmptyHand) {
		t.Fatalf("expected ErrEmptyHand, got %v", err)
	}
	h := NewHand(Card{Clubs, Jack}, Card{Clubs, Ace})
	if _, err := h.ChooseRandomOfSuit(r, Hearts); !errors.Is(err, ErrSuitNotPresent) {
		t.Fatalf("expected ErrSuitNotPresent, got %v", err)
	}
	for range 20 {
		c, err := h.ChooseRandomOfSuit(r, Clubs)
		if err != nil || c.Suit != Clubs {
			t.Fatalf("got %v, %v", c, err)
		}
		s, err := h.ChooseRandomSuit(r)
		if err != nil || s != Clubs {
			t.Fatalf("got %v, %v", s, err)
		}
	}
}

func TestHandCloneIsIndependent(t *testing.T) {
	h := NewHand(Card{Spades, Ten})
	c := h.Clone()
	_ = c.Remove(Card{Spades, Ten})
	if h.Len() != 1 || c.Len() != 0 {
		t.Fatalf("clone shares storage")
	}
}

func TestParseCard(t *testing.T) {
	type tc struct {
		text string
		want Card
		ok   bool
	}
	cases := []tc{
		{"10 of Hearts", Card{Hearts, Ten}, true},
		{" Q♠ ", Card{Spades, Queen}, true},
		{"A♦", Card{Diamonds, Ace}, true},
		{"8♣", Card{}, false},
		{"K of Cups", Card{}, false},
		{"ace", Card{}, false},
	}
	for _, c := range cases {
		t.Run(c.text, func(t *testing.T) {
			got, err := ParseCard(c.text)
			if (err == nil) != c.ok || got != c.want {
				t.Fatalf("got %v, %v", got, err)
			}
			if err != nil && !errors.Is(err, ErrInvalidCard) {
				t.Fatalf("expected ErrInvalidCard, got %v", err)
			}
		})
	}
	for _, c := range NewDeck(Single()).Cards() {
		if got, err := ParseCard(c.Short()); err != nil || got != c {
			t.Fatalf("%s does not round-trip: %v", c.Short(), err)
		}
	}
}

func TestEnumText(t *testing.T) {
	for p := PhaseInit; p <= PhaseGameOver; p++ {
		b, err := p.MarshalText()
		if err != nil {
			t.Fatalf("MarshalText(%d): %v", int(p), err)
		}
		var got Phase
		if err := got.UnmarshalText(b); err != nil || got != p {
			t.Fatalf("phase %q round-trips to %v, %v", b, got, err)
		}
	}
	if PhaseHandEnd.String() != "hand end" || Ten.String() != "10" || Diamonds.String() != "Diamonds" {
		t.Fatalf("unexpected enum names")
	}
	if _, err := Phase(42).MarshalText(); err == nil {
		t.Fatalf("expected error for unknown phase")
	}
	if s := Suit(9).String(); s != "Suit(9)" {
		t.Fatalf("got %q", s)
	}
	if _, err := ParseSuit("♦"); err != nil {
		t.Fatalf("ParseSuit glyph: %v", err)
	}
}
