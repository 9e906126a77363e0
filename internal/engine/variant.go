package engine

import (
	"fmt"
	"slices"
)

// PartnerRule assigns partners once the rotation has been turned so that the
// high bidder sits at index 0. kitty is nil for variants without a kitty.
type PartnerRule func(rotation []*Player, kitty *Player)

// EligibilityCheck carries what the gate before trick play needs to know.
type EligibilityCheck struct {
	Bid           int
	Meld          int
	MaxCounters   int
	TrumpMarriage bool
}

// EligibilityRule decides whether the bidder may play out the hand.
type EligibilityRule func(EligibilityCheck) bool

// Variant is the fixed bundle of rules for one flavour of Pinochle.
type Variant struct {
	Name           string
	Ranks          []Rank // ascending strength
	Instances      int
	Players        int
	HandSize       int
	KittySize      int
	PassCount      int
	MinimumBid     int
	BidIncrement   int
	DroppedBid     int
	LastTrickBonus int

	// PartnerScoringAllowed is false when the bidder has no partner to credit.
	PartnerScoringAllowed bool

	Partners PartnerRule
	Eligible EligibilityRule
}

const (
	VariantSingle    = "single"
	VariantDouble    = "double"
	VariantFirehouse = "firehouse"
)

// Single is four-handed single-deck Pinochle.
func Single() Variant {
	return Variant{
		Name:                  VariantSingle,
		Ranks:                 []Rank{Nine, Jack, Queen, King, Ten, Ace},
		Instances:             2,
		Players:               4,
		HandSize:              12,
		PassCount:             3,
		MinimumBid:            30,
		BidIncrement:          5,
		DroppedBid:            25,
		LastTrickBonus:        1,
		PartnerScoringAllowed: true,
		Partners:              PartnersAcross,
		Eligible:              DefaultEligibility,
	}
}

// Double is four-handed double-deck Pinochle (no nines).
func Double() Variant {
	return Variant{
		Name:                  VariantDouble,
		Ranks:                 []Rank{Jack, Queen, King, Ten, Ace},
		Instances:             4,
		Players:               4,
		HandSize:              20,
		PassCount:             3,
		MinimumBid:            60,
		BidIncrement:          10,
		DroppedBid:            50,
		LastTrickBonus:        2,
		PartnerScoringAllowed: true,
		Partners:              PartnersAcross,
		Eligible:              DefaultEligibility,
	}
}

// Firehouse is three-handed double-deck Pinochle where the bidder exchanges with a kitty.
func Firehouse() Variant {
	v := Double()
	v.Name = VariantFirehouse
	v.Players = 3
	v.HandSize = 25
	v.KittySize = 5
	v.PassCount = 5
	v.PartnerScoringAllowed = false
	v.Partners = PartnerWithKitty
	return v
}

// VariantByName returns a fresh copy of a built-in variant.
func VariantByName(name string) (Variant, error) {
	switch name {
	case VariantSingle:
		return Single(), nil
	case VariantDouble:
		return Double(), nil
	case VariantFirehouse:
		return Firehouse(), nil
	default:
		return Variant{}, fmt.Errorf("unknown variant %q", name)
	}
}

// VariantNames lists the built-in variants.
func VariantNames() []string {
	return []string{VariantSingle, VariantDouble, VariantFirehouse}
}

// DeckSize is the number of physical cards in the variant's deck.
func (v Variant) DeckSize() int { return NumSuits * len(v.Ranks) * v.Instances }

// HasRank reports whether the rank is part of the variant's deck.
func (v Variant) HasRank(r Rank) bool { return slices.Contains(v.Ranks, r) }

// RankIndex is the position of r in the variant's rank set, or -1.
func (v Variant) RankIndex(r Rank) int { return slices.Index(v.Ranks, r) }

// TotalCounters is the number of counters in the whole deck.
func (v Variant) TotalCounters() int {
	n := 0
	for _, r := range v.Ranks {
		if r.IsCounter() {
			n++
		}
	}
	return n * NumSuits * v.Instances
}

// MaxCounters is every counter in the deck plus the last-trick bonus.
func (v Variant) MaxCounters() int { return v.TotalCounters() + v.LastTrickBonus }

// OpeningBid is the value the auction starts from; the first real bid must exceed it.
func (v Variant) OpeningBid() int { return v.MinimumBid - v.BidIncrement }

// Validate checks the variant constants against each other.
func (v Variant) Validate() error {
	if len(v.Ranks) == 0 || v.Instances <= 0 {
		return fmt.Errorf("variant %q: empty deck", v.Name)
	}
	for i := 1; i < len(v.Ranks); i++ {
		if v.Ranks[i] <= v.Ranks[i-1] {
			return fmt.Errorf("variant %q: ranks must be strictly ascending", v.Name)
		}
	}
	if v.Players < 2 {
		return fmt.Errorf("variant %q: need at least 2 players", v.Name)
	}
	if v.HandSize*v.Players+v.KittySize != v.DeckSize() {
		return fmt.Errorf("variant %q: %d hands of %d plus kitty %d does not exhaust %d cards",
			v.Name, v.Players, v.HandSize, v.KittySize, v.DeckSize())
	}
	if v.BidIncrement <= 0 || v.MinimumBid%v.BidIncrement != 0 {
		return fmt.Errorf("variant %q: minimum bid %d is not a multiple of %d", v.Name, v.MinimumBid, v.BidIncrement)
	}
	if v.DroppedBid >= v.MinimumBid {
		return fmt.Errorf("variant %q: dropped bid must be below the minimum", v.Name)
	}
	if v.PassCount < 0 || v.PassCount > v.HandSize {
		return fmt.Errorf("variant %q: invalid pass count %d", v.Name, v.PassCount)
	}
	if v.KittySize > 0 && v.PassCount != v.KittySize {
		return fmt.Errorf("variant %q: kitty exchange must pass the whole kitty", v.Name)
	}
	if v.Partners == nil || v.Eligible == nil {
		return fmt.Errorf("variant %q: partner and eligibility rules are required", v.Name)
	}
	return nil
}

// PartnersAcross pairs players sitting opposite each other.
func PartnersAcross(rotation []*Player, _ *Player) {
	n := len(rotation)
	for i, p := range rotation {
		p.Partner = rotation[(i+n/2)%n]
	}
}

// PartnerWithKitty makes the kitty the bidder's partner and pairs the defenders.
func PartnerWithKitty(rotation []*Player, kitty *Player) {
	bidder := rotation[0]
	bidder.Partner = kitty
	if kitty != nil {
		kitty.Partner = bidder
	}
	rest := rotation[1:]
	if len(rest) == 2 {
		rest[0].Partner = rest[1]
		rest[1].Partner = rest[0]
	}
}

// DefaultEligibility requires a marriage in trump and a bid that meld plus every
// counter could still reach.
func DefaultEligibility(c EligibilityCheck) bool {
	return c.TrumpMarriage && c.Bid <= c.Meld+c.MaxCounters
}
