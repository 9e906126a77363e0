package engine

import (
	"fmt"
	"math/rand/v2"
	"slices"
)

// Deck is an ordered multiset of cards. It is built once per hand and consumed by dealing.
type Deck struct {
	cards []Card
}

// NewDeck builds the unshuffled deck for a variant: every suit × rank, repeated per instance.
func NewDeck(v Variant) *Deck {
	cards := make([]Card, 0, v.DeckSize())
	for range v.Instances {
		for _, s := range Suits {
			for _, r := range v.Ranks {
				cards = append(cards, Card{Suit: s, Rank: r})
			}
		}
	}
	return &Deck{cards: cards}
}

// NewDeckFromCards wraps an existing card sequence.
func NewDeckFromCards(cards []Card) *Deck {
	return &Deck{cards: slices.Clone(cards)}
}

// Shuffle applies a uniform random permutation.
func (d *Deck) Shuffle(r *rand.Rand) {
	r.Shuffle(len(d.cards), func(i, j int) { d.cards[i], d.cards[j] = d.cards[j], d.cards[i] })
}

// Deal removes and returns the first n cards.
func (d *Deck) Deal(n int) ([]Card, error) {
	if n < 0 || n > len(d.cards) {
		return nil, fmt.Errorf("deal %d from %d cards: %w", n, len(d.cards), ErrEmptyCollection)
	}
	out := slices.Clone(d.cards[:n])
	d.cards = slices.Delete(d.cards, 0, n)
	return out, nil
}

// Discard removes one instance of c.
func (d *Deck) Discard(c Card) error {
	i := slices.Index(d.cards, c)
	if i < 0 {
		return fmt.Errorf("%s: %w", c, ErrCardNotFound)
	}
	d.cards = slices.Delete(d.cards, i, i+1)
	return nil
}

// DiscardAll removes every card in cs, or none of them if any is missing.
func (d *Deck) DiscardAll(cs []Card) error {
	if err := containsAll(d.cards, cs); err != nil {
		return fmt.Errorf("%w: %w", err, ErrCardNotFound)
	}
	for _, c := range cs {
		i := slices.Index(d.cards, c)
		d.cards = slices.Delete(d.cards, i, i+1)
	}
	return nil
}

// Remaining counts the live instances of one card identity.
func (d *Deck) Remaining(s Suit, r Rank) int {
	n := 0
	for _, c := range d.cards {
		if c.Suit == s && c.Rank == r {
			n++
		}
	}
	return n
}

// RemainingSuit counts the live cards of a suit.
func (d *Deck) RemainingSuit(s Suit) int {
	n := 0
	for _, c := range d.cards {
		if c.Suit == s {
			n++
		}
	}
	return n
}

func (d *Deck) Len() int { return len(d.cards) }

// Cards returns a copy of the remaining cards in deck order.
func (d *Deck) Cards() []Card { return slices.Clone(d.cards) }

// containsAll reports the first card of want that pool cannot supply, counting duplicates.
func containsAll(pool, want []Card) error {
	counts := make(map[Card]int, len(pool))
	for _, c := range pool {
		counts[c]++
	}
	for _, c := range want {
		if counts[c] == 0 {
			return fmt.Errorf("%s not available", c)
		}
		counts[c]--
	}
	return nil
}
