package engine

import (
	"fmt"
	"strings"
)

// TrickState is the lifecycle of a trick.
type TrickState int

const (
	TrickEmpty TrickState = iota
	TrickInProgress
	TrickComplete
)

// Play represents a single play in a trick.
type Play struct {
	Card   Card
	Player *Player
}

// Trick holds one round of card play.
type Trick struct {
	players int
	trump   Suit
	plays   []Play
	best    Card
}

// NewTrick starts an empty trick for the given number of players.
func NewTrick(players int, trump Suit) *Trick {
	return &Trick{players: players, trump: trump, plays: make([]Play, 0, players)}
}

func (t *Trick) Trump() Suit    { return t.trump }
func (t *Trick) Players() int   { return t.players }
func (t *Trick) Len() int       { return len(t.plays) }
func (t *Trick) Complete() bool { return len(t.plays) == t.players }

// Plays returns the plays in order.
func (t *Trick) Plays() []Play { return append([]Play(nil), t.plays...) }

func (t *Trick) State() TrickState {
	switch {
	case len(t.plays) == 0:
		return TrickEmpty
	case t.Complete():
		return TrickComplete
	default:
		return TrickInProgress
	}
}

// LeadingSuit is the suit of the first card played.
func (t *Trick) LeadingSuit() (Suit, bool) {
	if len(t.plays) == 0 {
		return 0, false
	}
	return t.plays[0].Card.Suit, true
}

// Best is the card currently winning the trick.
func (t *Trick) Best() (Card, bool) {
	if len(t.plays) == 0 {
		return Card{}, false
	}
	return t.best, true
}

// TrumpPlayed reports whether the winning card so far is a trump. Once any trump
// is played the best card stays a trump, so this also means "a trump has been played".
func (t *Trick) TrumpPlayed() bool {
	return len(t.plays) > 0 && t.best.Suit == t.trump
}

// Add records a play and updates the best card.
func (t *Trick) Add(c Card, p *Player) error {
	if t.Complete() {
		return PhaseError("trick is complete")
	}
	t.plays = append(t.plays, Play{Card: c, Player: p})
	switch {
	case len(t.plays) == 1:
		t.best = c
	case c.Suit == t.trump:
		if t.best.Suit != t.trump || c.Beats(t.best) {
			t.best = c
		}
	case c.Suit == t.best.Suit && c.Beats(t.best):
		t.best = c
	}
	return nil
}

// Beating filters cards, assumed to share a suit with the best card, down to those that outrank it.
func (t *Trick) Beating(cards []Card) []Card {
	if len(t.plays) == 0 {
		return cards
	}
	var out []Card
	for _, c := range cards {
		if c.Beats(t.best) {
			out = append(out, c)
		}
	}
	return out
}

// LegalPlays returns the cards in h that may be played next. It reads the trick
// as it stands before the card being chosen is added.
func (t *Trick) LegalPlays(h *Hand) []Card {
	lead, ok := t.LeadingSuit()
	if !ok {
		return h.Cards()
	}
	if h.HasSuit(lead) {
		follow := h.Suit(lead)
		if t.TrumpPlayed() && t.trump != lead {
			return follow
		}
		if beat := t.Beating(follow); len(beat) > 0 {
			return beat
		}
		return follow
	}
	if h.HasSuit(t.trump) {
		trumps := h.Suit(t.trump)
		if t.TrumpPlayed() {
			if beat := t.Beating(trumps); len(beat) > 0 {
				return beat
			}
		}
		return trumps
	}
	return h.Cards()
}

// IsLegal reports whether c may be played from h.
func (t *Trick) IsLegal(h *Hand, c Card) bool {
	for _, l := range t.LegalPlays(h) {
		if l == c {
			return true
		}
	}
	return false
}

// Winner is the player who played the first instance of the best card.
func (t *Trick) Winner() *Player {
	for _, p := range t.plays {
		if p.Card == t.best {
			return p.Player
		}
	}
	return nil
}

// HasPlayed reports whether p already played to this trick.
func (t *Trick) HasPlayed(p *Player) bool {
	for _, pl := range t.plays {
		if pl.Player == p {
			return true
		}
	}
	return false
}

// Counters counts the counter cards in the trick.
func (t *Trick) Counters() int {
	n := 0
	for _, p := range t.plays {
		if p.Card.IsCounter() {
			n++
		}
	}
	return n
}

func (t *Trick) String() string {
	parts := make([]string, len(t.plays))
	for i, p := range t.plays {
		parts[i] = p.Card.Short()
	}
	return fmt.Sprintf("[%s] trump %s", strings.Join(parts, " | "), t.trump)
}
