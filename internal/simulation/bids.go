package simulation

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"slices"

	"github.com/bradylowe/pinochle/internal/engine"
	"github.com/bradylowe/pinochle/internal/player"
)

// bidHeadroom is the mean number of points a bidder expects to pick up in play.
const bidHeadroom = 20

// BidConfig describes a Monte Carlo bid test of one fixed hand.
type BidConfig struct {
	Variant engine.Variant
	Hand    []engine.Card
	Trump   engine.Suit
	Trials  int
	Seed    uint64
	// Bots is the kind driving every seat, including the tested hand in play.
	Bots string
}

// BidTrial is the outcome of playing the hand out once at a random bid.
type BidTrial struct {
	Bid      int  `json:"bid"`
	Meld     int  `json:"meld"`
	Counters int  `json:"counters"`
	Eligible bool `json:"eligible"`
	Saved    bool `json:"saved"`
}

// BidReport aggregates bid trials by bid amount.
type BidReport struct {
	Trials    []BidTrial  `json:"trials"`
	Attempted map[int]int `json:"attempted"`
	Saved     map[int]int `json:"saved"`
}

// Bids lists the bid amounts tried, ascending.
func (r BidReport) Bids() []int {
	out := make([]int, 0, len(r.Attempted))
	for b := range r.Attempted {
		out = append(out, b)
	}
	slices.Sort(out)
	return out
}

// SaveRate is the share of attempts at bid that were saved.
func (r BidReport) SaveRate(bid int) float64 {
	if r.Attempted[bid] == 0 {
		return 0
	}
	return float64(r.Saved[bid]) / float64(r.Attempted[bid])
}

// HighestSafeBid is the largest bid saved at least rate of the time, or 0.
func (r BidReport) HighestSafeBid(rate float64) int {
	best := 0
	for _, b := range r.Bids() {
		if r.SaveRate(b) >= rate {
			best = b
		}
	}
	return best
}

func (c BidConfig) validate() error {
	if err := c.Variant.Validate(); err != nil {
		return err
	}
	if len(c.Hand) != c.Variant.HandSize {
		return fmt.Errorf("hand has %d cards, want %d", len(c.Hand), c.Variant.HandSize)
	}
	if c.Trials <= 0 {
		return errors.New("trials must be positive")
	}
	h := engine.NewHand(c.Hand...)
	if !h.HasMarriage(c.Trump) && len(h.MarriageSuits()) > 0 {
		return fmt.Errorf("no marriage in %s: %w", c.Trump, engine.ErrInvalidTrump)
	}
	_, err := player.ByKind(c.Bots)
	return err
}

// BidTrials seats the hand in seat 0, deals the rest at random, hands it the bid
// and plays out each trial. The bid is drawn once the partner's cards are in,
// from a normal distribution around meld plus headroom.
func BidTrials(ctx context.Context, r *Runner, c BidConfig) (BidReport, error) {
	if err := c.validate(); err != nil {
		return BidReport{}, err
	}
	trials, err := Run(ctx, r, "bids", c.Trials, func(_ context.Context, i int) (BidTrial, error) {
		return bidTrial(c, c.Seed+uint64(i))
	})
	if err != nil {
		return BidReport{}, err
	}
	rep := BidReport{Trials: trials, Attempted: map[int]int{}, Saved: map[int]int{}}
	for _, t := range trials {
		rep.Attempted[t.Bid]++
		if t.Saved {
			rep.Saved[t.Bid]++
		}
	}
	return rep, nil
}

func bidTrial(c BidConfig, seed uint64) (BidTrial, error) {
	v := c.Variant
	players, err := player.NewBots(c.Bots, v.Players, seed)
	if err != nil {
		return BidTrial{}, err
	}
	g, err := engine.NewGame(v, players, engine.WithSeed(seed))
	if err != nil {
		return BidTrial{}, err
	}
	steps := []func() error{
		g.BeginHand,
		func() error { return g.Deal(map[int][]engine.Card{0: c.Hand}) },
		func() error { return g.AssignBid(0, v.MinimumBid) },
		g.SetPartners,
		func() error { return g.CallTrump(0, c.Trump) },
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return BidTrial{}, err
		}
	}
	for g.Phase == engine.PhasePass {
		if err := g.Step(); err != nil {
			return BidTrial{}, err
		}
	}

	bidder := g.HighBidder
	meld := engine.Evaluate(bidder.Hand, v).Total[c.Trump]
	rng := rand.New(rand.NewPCG(seed, ^seed))
	g.HighBid = drawBid(rng, meld, v)

	res, err := g.PlayHand()
	if err != nil {
		return BidTrial{}, err
	}
	return BidTrial{
		Bid:      res.Bid,
		Meld:     res.Meld,
		Counters: res.Counters,
		Eligible: res.Eligible,
		Saved:    res.Saved,
	}, nil
}

// drawBid samples around meld plus headroom with a standard deviation of its
// square root, rounded to the bid increment and floored at the minimum bid.
func drawBid(rng *rand.Rand, meld int, v engine.Variant) int {
	mu := float64(meld + bidHeadroom)
	x := math.Sqrt(mu)*rng.NormFloat64() + mu
	bid := int(math.Round(x/float64(v.BidIncrement))) * v.BidIncrement
	return max(v.MinimumBid, bid)
}
