//go:generate stringer -type=Phase,Suit,Rank -linecomment

package engine

import (
	"fmt"
	"strings"
)

// Suit represents a card suit.
type Suit int

const (
	Spades   Suit = iota // Spades
	Hearts               // Hearts
	Clubs                // Clubs
	Diamonds             // Diamonds
)

// NumSuits is the number of canonical suits.
const NumSuits = 4

// Suits lists the suits in canonical order.
var Suits = [NumSuits]Suit{Spades, Hearts, Clubs, Diamonds}

var suitSymbols = [NumSuits]string{"♠", "♥", "♣", "♦"}

// Symbol returns the one-rune suit glyph.
func (s Suit) Symbol() string {
	if !s.Valid() {
		return "?"
	}
	return suitSymbols[s]
}

// Valid reports whether s is one of the four canonical suits.
func (s Suit) Valid() bool { return s >= Spades && s <= Diamonds }

// Red reports whether the suit is printed in red.
func (s Suit) Red() bool { return s == Hearts || s == Diamonds }

func (s Suit) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("invalid suit %d", int(s))
	}
	return []byte(s.String()), nil
}

func (s *Suit) UnmarshalText(b []byte) error {
	v, err := ParseSuit(string(b))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// ParseSuit accepts a suit name ("Hearts") or glyph ("♥").
func ParseSuit(text string) (Suit, error) {
	for _, s := range Suits {
		if text == s.String() || text == suitSymbols[s] {
			return s, nil
		}
	}
	return 0, fmt.Errorf("unknown suit %q", text)
}

// Rank represents a card rank. Constants are ordered by trick-taking strength.
type Rank int

const (
	Nine  Rank = iota // 9
	Jack              // J
	Queen             // Q
	King              // K
	Ten               // 10
	Ace               // A
)

func (r Rank) MarshalText() ([]byte, error) {
	if r < Nine || r > Ace {
		return nil, fmt.Errorf("invalid rank %d", int(r))
	}
	return []byte(r.String()), nil
}

func (r *Rank) UnmarshalText(b []byte) error {
	v, err := ParseRank(string(b))
	if err != nil {
		return err
	}
	*r = v
	return nil
}

// ParseRank parses "9", "J", "Q", "K", "10" or "A".
func ParseRank(text string) (Rank, error) {
	for r := Nine; r <= Ace; r++ {
		if text == r.String() {
			return r, nil
		}
	}
	return 0, fmt.Errorf("unknown rank %q", text)
}

// IsCounter reports whether a card of this rank scores a counter when taken in a trick.
func (r Rank) IsCounter() bool { return r == King || r == Ten || r == Ace }

// Card represents a playing card. Two cards with the same suit and rank are interchangeable.
type Card struct {
	Suit Suit `json:"suit"`
	Rank Rank `json:"rank"`
}

// C is shorthand for building a card.
func C(r Rank, s Suit) Card { return Card{Suit: s, Rank: r} }

func (c Card) String() string { return fmt.Sprintf("%s of %s", c.Rank, c.Suit) }

// Short renders the card as rank plus suit glyph, e.g. "10♥".
func (c Card) Short() string { return c.Rank.String() + c.Suit.Symbol() }

// ParseCard accepts the long form ("10 of Hearts") or the short form ("10♥").
func ParseCard(text string) (Card, error) {
	text = strings.TrimSpace(text)
	if rank, suit, ok := strings.Cut(text, " of "); ok {
		return parseCardParts(rank, suit, text)
	}
	for _, sym := range suitSymbols {
		if rank, ok := strings.CutSuffix(text, sym); ok {
			return parseCardParts(rank, sym, text)
		}
	}
	return Card{}, fmt.Errorf("cannot parse card %q: %w", text, ErrInvalidCard)
}

func parseCardParts(rank, suit, text string) (Card, error) {
	r, err := ParseRank(rank)
	if err != nil {
		return Card{}, fmt.Errorf("card %q: %w: %w", text, err, ErrInvalidCard)
	}
	s, err := ParseSuit(suit)
	if err != nil {
		return Card{}, fmt.Errorf("card %q: %w: %w", text, err, ErrInvalidCard)
	}
	return Card{Suit: s, Rank: r}, nil
}

// Beats reports whether c outranks o. Both cards are assumed to be of the same suit.
func (c Card) Beats(o Card) bool { return c.Rank > o.Rank }

// IsCounter reports whether the card is worth a counter.
func (c Card) IsCounter() bool { return c.Rank.IsCounter() }

// Phase represents the hand phase.
type Phase int

const (
	PhaseInit     Phase = iota // init
	PhaseDeal                  // deal
	PhaseBid                   // bid
	PhasePartners              // partners
	PhaseTrump                 // trump
	PhasePass                  // pass
	PhaseMeld                  // meld
	PhasePlay                  // play
	PhaseScore                 // score
	PhaseHandEnd               // hand end
	PhaseGameOver              // game over
)

func (p Phase) MarshalText() ([]byte, error) {
	if p < PhaseInit || p > PhaseGameOver {
		return nil, fmt.Errorf("invalid phase %d", int(p))
	}
	return []byte(p.String()), nil
}

func (p *Phase) UnmarshalText(b []byte) error {
	for v := PhaseInit; v <= PhaseGameOver; v++ {
		if string(b) == v.String() {
			*p = v
			return nil
		}
	}
	return fmt.Errorf("unknown phase %q", string(b))
}
