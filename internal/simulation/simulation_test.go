package simulation

import (
	"context"
	"errors"
	"math/rand/v2"
	"slices"
	"sync/atomic"
	"testing"

	"github.com/bradylowe/pinochle/internal/engine"
	"github.com/bradylowe/pinochle/internal/player"
	"go.uber.org/zap/zaptest"
)

func newRunner(t *testing.T) *Runner {
	return NewRunner(4, zaptest.NewLogger(t))
}

func TestRunKeepsJobOrder(t *testing.T) {
	got, err := Run(context.Background(), newRunner(t), "squares", 50, func(_ context.Context, i int) (int, error) {
		return i * i, nil
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	for i, v := range got {
		if v != i*i {
			t.Fatalf("result %d = %d", i, v)
		}
	}
	if out, err := Run(context.Background(), newRunner(t), "none", 0, func(context.Context, int) (int, error) { return 1, nil }); err != nil || out != nil {
		t.Fatalf("empty batch: %v %v", out, err)
	}
}

func TestRunStopsOnError(t *testing.T) {
	boom := errors.New("boom")
	var ran atomic.Int32
	_, err := Run(context.Background(), NewRunner(1, nil), "fail", 100, func(ctx context.Context, i int) (int, error) {
		ran.Add(1)
		if i == 3 {
			return 0, boom
		}
		return i, nil
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	if ran.Load() == 100 {
		t.Fatalf("jobs kept running after the failure")
	}
}

func TestRunHonoursCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Run(ctx, newRunner(t), "cancelled", 10, func(context.Context, int) (int, error) { return 0, nil }); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

// marriedHand is a single-deck hand with a spade marriage and plenty of counters.
var marriedHand = []engine.Card{
	{Suit: engine.Spades, Rank: engine.Ace}, {Suit: engine.Spades, Rank: engine.Ten},
	{Suit: engine.Spades, Rank: engine.King}, {Suit: engine.Spades, Rank: engine.Queen},
	{Suit: engine.Spades, Rank: engine.Jack}, {Suit: engine.Spades, Rank: engine.Nine},
	{Suit: engine.Hearts, Rank: engine.Ace}, {Suit: engine.Hearts, Rank: engine.Ten},
	{Suit: engine.Clubs, Rank: engine.Ace}, {Suit: engine.Clubs, Rank: engine.Ten},
	{Suit: engine.Diamonds, Rank: engine.Ace}, {Suit: engine.Diamonds, Rank: engine.Jack},
}

func TestBidTrials(t *testing.T) {
	c := BidConfig{Variant: engine.Single(), Hand: marriedHand, Trump: engine.Spades, Trials: 40, Seed: 1, Bots: player.KindSimple}
	rep, err := BidTrials(context.Background(), newRunner(t), c)
	if err != nil {
		t.Fatalf("BidTrials: %v", err)
	}
	if len(rep.Trials) != 40 {
		t.Fatalf("ran %d trials", len(rep.Trials))
	}
	total := 0
	for _, b := range rep.Bids() {
		if b < 30 || b%5 != 0 {
			t.Fatalf("drew bid %d", b)
		}
		if rep.Saved[b] > rep.Attempted[b] {
			t.Fatalf("saved more than attempted at %d", b)
		}
		total += rep.Attempted[b]
	}
	if total != 40 {
		t.Fatalf("attempted %d", total)
	}
	for _, tr := range rep.Trials {
		if tr.Saved != (tr.Eligible && tr.Meld+tr.Counters >= tr.Bid) {
			t.Fatalf("inconsistent trial %+v", tr)
		}
	}

	again, err := BidTrials(context.Background(), NewRunner(1, nil), c)
	if err != nil {
		t.Fatalf("BidTrials again: %v", err)
	}
	if !slices.Equal(rep.Trials, again.Trials) {
		t.Fatalf("trials depend on scheduling")
	}
}

func TestBidTrialsValidation(t *testing.T) {
	type tc struct {
		name   string
		mutate func(*BidConfig)
	}
	cases := []tc{
		{"short hand", func(c *BidConfig) { c.Hand = c.Hand[:5] }},
		{"trump without marriage", func(c *BidConfig) { c.Trump = engine.Hearts }},
		{"no trials", func(c *BidConfig) { c.Trials = 0 }},
		{"unknown bots", func(c *BidConfig) { c.Bots = "oracle" }},
	}
	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			c := BidConfig{Variant: engine.Single(), Hand: marriedHand, Trump: engine.Spades, Trials: 1, Bots: player.KindRandom}
			tt.mutate(&c)
			if _, err := BidTrials(context.Background(), newRunner(t), c); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}

func TestDrawBid(t *testing.T) {
	v := engine.Double()
	rng := rand.New(rand.NewPCG(1, 2))
	for range 200 {
		b := drawBid(rng, 40, v)
		if b < v.MinimumBid || b%v.BidIncrement != 0 {
			t.Fatalf("drew %d", b)
		}
	}
}

func decisionPoint(t *testing.T) engine.Snapshot {
	t.Helper()
	players, err := player.NewBots(player.KindSimple, 4, 2)
	if err != nil {
		t.Fatalf("NewBots: %v", err)
	}
	g, err := engine.NewGame(engine.Single(), players, engine.WithSeed(2))
	if err != nil {
		t.Fatalf("NewGame: %v", err)
	}
	steps := []func() error{
		g.BeginHand,
		func() error { return g.Deal(map[int][]engine.Card{0: marriedHand}) },
		func() error { return g.AssignBid(0, 30) },
		g.SetPartners,
		func() error { return g.CallTrump(0, engine.Spades) },
	}
	for _, step := range steps {
		if err := step(); err != nil {
			t.Fatalf("setup: %v", err)
		}
	}
	for g.Phase != engine.PhasePlay || g.Trick == nil || g.Trick.Len() != 1 {
		if g.Phase == engine.PhaseScore {
			t.Fatalf("hand ended before a decision point")
		}
		if err := g.Step(); err != nil {
			t.Fatalf("step: %v", err)
		}
	}
	s, err := g.Snapshot()
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	return s
}

func TestEvaluatePlays(t *testing.T) {
	s := decisionPoint(t)
	base, err := engine.Restore(s, player.Resolver(0, player.KindRandom))
	if err != nil {
		t.Fatalf("Restore: %v", err)
	}
	legal := slices.Compact(base.LegalPlays())

	evals, err := EvaluatePlays(context.Background(), newRunner(t), PlayConfig{State: s, Trials: 6, Seed: 3})
	if err != nil {
		t.Fatalf("EvaluatePlays: %v", err)
	}
	if len(evals) != len(legal) {
		t.Fatalf("evaluated %d cards, %d legal", len(evals), len(legal))
	}
	for i, e := range evals {
		if !slices.Contains(legal, e.Card) || e.Trials != 6 {
			t.Fatalf("unexpected evaluation %+v", e)
		}
		if e.MeanCounters < 0 || e.MeanCounters > float64(engine.Single().MaxCounters()) {
			t.Fatalf("mean counters out of range: %+v", e)
		}
		if i > 0 && e.MeanCounters > evals[i-1].MeanCounters {
			t.Fatalf("evaluations not ranked")
		}
	}
}

func TestEvaluatePlaysRejectsOtherPhases(t *testing.T) {
	players, _ := player.NewBots(player.KindRandom, 4, 1)
	g, _ := engine.NewGame(engine.Single(), players)
	s, err := g.Snapshot()
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	var pe engine.PhaseError
	if _, err := EvaluatePlays(context.Background(), newRunner(t), PlayConfig{State: s, Trials: 1}); !errors.As(err, &pe) {
		t.Fatalf("expected PhaseError, got %v", err)
	}
}

func TestRunGames(t *testing.T) {
	c := GamesConfig{Variant: engine.Double(), Bots: player.KindSimple, Games: 6, MaxHands: 3, Seed: 4}
	rep, err := RunGames(context.Background(), newRunner(t), c)
	if err != nil {
		t.Fatalf("RunGames: %v", err)
	}
	if rep.Games != 6 || rep.Hands != 18 {
		t.Fatalf("games %d hands %d", rep.Games, rep.Hands)
	}
	wins := 0
	for _, w := range rep.Wins {
		wins += w
	}
	if wins != 6 || rep.Saved > rep.Hands || rep.SavedRate() > 1 {
		t.Fatalf("inconsistent report %+v", rep)
	}
	if _, err := RunGames(context.Background(), newRunner(t), GamesConfig{Variant: engine.Double(), Bots: player.KindSimple, Games: 1}); err == nil {
		t.Fatalf("expected unbounded games to be rejected")
	}
}
