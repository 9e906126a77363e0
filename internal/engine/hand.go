package engine

import (
	"cmp"
	"fmt"
	"math/rand/v2"
	"slices"
	"strings"
)

// Hand is the set of cards held by one player, partitioned by suit and kept
// sorted by descending rank.
type Hand struct {
	bySuit [NumSuits][]Card
}

// NewHand builds a hand from cards.
func NewHand(cards ...Card) *Hand {
	h := &Hand{}
	h.Add(cards...)
	return h
}

// Add puts cards into the hand.
func (h *Hand) Add(cards ...Card) {
	touched := [NumSuits]bool{}
	for _, c := range cards {
		h.bySuit[c.Suit] = append(h.bySuit[c.Suit], c)
		touched[c.Suit] = true
	}
	for s, ok := range touched {
		if ok {
			slices.SortFunc(h.bySuit[s], func(a, b Card) int { return cmp.Compare(b.Rank, a.Rank) })
		}
	}
}

// Remove takes one instance of c out of the hand.
func (h *Hand) Remove(c Card) error {
	if !c.Suit.Valid() {
		return fmt.Errorf("%s: %w", c, ErrCardNotInHand)
	}
	cards := h.bySuit[c.Suit]
	i := slices.Index(cards, c)
	if i < 0 {
		return fmt.Errorf("%s: %w", c, ErrCardNotInHand)
	}
	h.bySuit[c.Suit] = slices.Delete(cards, i, i+1)
	return nil
}

// RemoveAll takes every card in cs out of the hand, or none of them if any is missing.
func (h *Hand) RemoveAll(cs []Card) error {
	if err := containsAll(h.Cards(), cs); err != nil {
		return fmt.Errorf("%w: %w", err, ErrCardNotInHand)
	}
	for _, c := range cs {
		_ = h.Remove(c)
	}
	return nil
}

// Has reports whether at least one instance of c is held.
func (h *Hand) Has(c Card) bool {
	return c.Suit.Valid() && slices.Contains(h.bySuit[c.Suit], c)
}

// Count returns how many instances of the identity are held.
func (h *Hand) Count(s Suit, r Rank) int {
	n := 0
	for _, c := range h.bySuit[s] {
		if c.Rank == r {
			n++
		}
	}
	return n
}

func (h *Hand) Len() int {
	n := 0
	for _, cards := range h.bySuit {
		n += len(cards)
	}
	return n
}

func (h *Hand) Empty() bool { return h.Len() == 0 }

func (h *Hand) HasSuit(s Suit) bool { return len(h.bySuit[s]) > 0 }

// Suit returns the held cards of s, highest first.
func (h *Hand) Suit(s Suit) []Card { return slices.Clone(h.bySuit[s]) }

// HasMarriage reports whether the King and Queen of s are both held.
func (h *Hand) HasMarriage(s Suit) bool {
	return h.Has(Card{Suit: s, Rank: King}) && h.Has(Card{Suit: s, Rank: Queen})
}

// MarriageSuits lists the suits in which a marriage is held.
func (h *Hand) MarriageSuits() []Suit {
	var out []Suit
	for _, s := range Suits {
		if h.HasMarriage(s) {
			out = append(out, s)
		}
	}
	return out
}

// Cards enumerates the hand grouped by suit in canonical order, highest rank first.
// The order is stable and is used to number choices.
func (h *Hand) Cards() []Card {
	out := make([]Card, 0, h.Len())
	for _, cards := range h.bySuit {
		out = append(out, cards...)
	}
	return out
}

// ChooseRandom picks a uniformly random card.
func (h *Hand) ChooseRandom(r *rand.Rand) (Card, error) {
	cards := h.Cards()
	if len(cards) == 0 {
		return Card{}, ErrEmptyHand
	}
	return cards[r.IntN(len(cards))], nil
}

// ChooseRandomOfSuit picks a uniformly random card of suit s.
func (h *Hand) ChooseRandomOfSuit(r *rand.Rand, s Suit) (Card, error) {
	if h.Empty() {
		return Card{}, ErrEmptyHand
	}
	cards := h.bySuit[s]
	if len(cards) == 0 {
		return Card{}, fmt.Errorf("%s: %w", s, ErrSuitNotPresent)
	}
	return cards[r.IntN(len(cards))], nil
}

// ChooseRandomSuit picks a uniformly random suit among those held.
func (h *Hand) ChooseRandomSuit(r *rand.Rand) (Suit, error) {
	var held []Suit
	for _, s := range Suits {
		if h.HasSuit(s) {
			held = append(held, s)
		}
	}
	if len(held) == 0 {
		return 0, ErrEmptyHand
	}
	return held[r.IntN(len(held))], nil
}

// Clone returns an independent copy.
func (h *Hand) Clone() *Hand {
	out := &Hand{}
	for s := range h.bySuit {
		out.bySuit[s] = slices.Clone(h.bySuit[s])
	}
	return out
}

func (h *Hand) String() string {
	parts := make([]string, 0, NumSuits)
	for _, cards := range h.bySuit {
		if len(cards) == 0 {
			parts = append(parts, "None")
			continue
		}
		names := make([]string, len(cards))
		for i, c := range cards {
			names[i] = c.Short()
		}
		parts = append(parts, strings.Join(names, ", "))
	}
	return strings.Join(parts, " | ")
}
