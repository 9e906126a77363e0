package engine

import (
	"errors"
	"math/rand/v2"
	"slices"
	"testing"
)

func TestVariantsAreConsistent(t *testing.T) {
	want := map[string]struct{ deck, counters int }{
		VariantSingle:    {48, 25},
		VariantDouble:    {80, 50},
		VariantFirehouse: {80, 50},
	}
	for _, name := range VariantNames() {
		t.Run(name, func(t *testing.T) {
			v, err := VariantByName(name)
			if err != nil {
				t.Fatalf("VariantByName: %v", err)
			}
			if err := v.Validate(); err != nil {
				t.Fatalf("Validate: %v", err)
			}
			if v.DeckSize() != want[name].deck || v.MaxCounters() != want[name].counters {
				t.Fatalf("deck %d counters %d, want %+v", v.DeckSize(), v.MaxCounters(), want[name])
			}
			if v.OpeningBid()+v.BidIncrement != v.MinimumBid {
				t.Fatalf("opening bid %d does not lead to the floor", v.OpeningBid())
			}
		})
	}
	if _, err := VariantByName("cutthroat"); err == nil {
		t.Fatalf("expected unknown variant error")
	}
}

func TestNewDeckCounts(t *testing.T) {
	d := NewDeck(Double())
	if d.Len() != 80 {
		t.Fatalf("double deck has %d cards", d.Len())
	}
	if d.Remaining(Hearts, Nine) != 0 || d.Remaining(Hearts, Ace) != 4 {
		t.Fatalf("unexpected rank counts in double deck")
	}
	if d.RemainingSuit(Clubs) != 20 {
		t.Fatalf("clubs has %d cards", d.RemainingSuit(Clubs))
	}
}

func TestDeckDealAndExhaust(t *testing.T) {
	d := NewDeck(Single())
	d.Shuffle(rand.New(rand.NewPCG(1, 2)))
	for range 4 {
		if _, err := d.Deal(12); err != nil {
			t.Fatalf("Deal: %v", err)
		}
	}
	if d.Len() != 0 {
		t.Fatalf("%d cards left", d.Len())
	}
	if _, err := d.Deal(1); !errors.Is(err, ErrEmptyCollection) {
		t.Fatalf("expected ErrEmptyCollection, got %v", err)
	}
}

func TestDeckShuffleIsSeeded(t *testing.T) {
	a, b := NewDeck(Single()), NewDeck(Single())
	a.Shuffle(rand.New(rand.NewPCG(7, 7)))
	b.Shuffle(rand.New(rand.NewPCG(7, 7)))
	if !slices.Equal(a.Cards(), b.Cards()) {
		t.Fatalf("same seed produced different orders")
	}
}

func TestDeckDiscardAllIsAtomic(t *testing.T) {
	d := NewDeck(Single())
	ace := Card{Spades, Ace}
	if err := d.DiscardAll(cards(ace, ace, ace)); !errors.Is(err, ErrInvalidCard) {
		t.Fatalf("expected ErrInvalidCard, got %v", err)
	}
	if d.Len() != 48 || d.Remaining(Spades, Ace) != 2 {
		t.Fatalf("failed discard removed cards")
	}
	if err := d.DiscardAll(cards(ace, ace)); err != nil {
		t.Fatalf("DiscardAll: %v", err)
	}
	if err := d.Discard(ace); !errors.Is(err, ErrCardNotFound) {
		t.Fatalf("expected ErrCardNotFound, got %v", err)
	}
}
