package simulation

import (
	"context"
	"errors"

	"github.com/bradylowe/pinochle/internal/engine"
	"github.com/bradylowe/pinochle/internal/player"
)

// GamesConfig describes a batch of bot-only games.
type GamesConfig struct {
	Variant      engine.Variant
	Bots         string
	Games        int
	MaxHands     int
	WinningScore int
	Seed         uint64
}

// GamesReport aggregates every hand of every game in a batch.
type GamesReport struct {
	Games        int         `json:"games"`
	Hands        int         `json:"hands"`
	Dropped      int         `json:"dropped"`
	Saved        int         `json:"saved"`
	Ineligible   int         `json:"ineligible"`
	MeanBid      float64     `json:"mean_bid"`
	MeanMeld     float64     `json:"mean_meld"`
	MeanCounters float64     `json:"mean_counters"`
	Wins         []int       `json:"wins"`
	BidCounts    map[int]int `json:"bid_counts"`
}

// SavedRate is the share of all hands in which the bidder saved.
func (r GamesReport) SavedRate() float64 {
	if r.Hands == 0 {
		return 0
	}
	return float64(r.Saved) / float64(r.Hands)
}

type gameOutcome struct {
	results []engine.HandResult
	winner  int
}

// RunGames plays independent games in parallel and aggregates their ledgers.
func RunGames(ctx context.Context, r *Runner, c GamesConfig) (GamesReport, error) {
	if c.Games <= 0 {
		return GamesReport{}, errors.New("games must be positive")
	}
	if c.MaxHands <= 0 && c.WinningScore <= 0 {
		return GamesReport{}, errors.New("games need a hand limit or a winning score")
	}
	if err := c.Variant.Validate(); err != nil {
		return GamesReport{}, err
	}
	outcomes, err := Run(ctx, r, "games", c.Games, func(ctx context.Context, i int) (gameOutcome, error) {
		seed := c.Seed + uint64(i)
		players, err := player.NewBots(c.Bots, c.Variant.Players, seed)
		if err != nil {
			return gameOutcome{}, err
		}
		g, err := engine.NewGame(c.Variant, players, engine.WithSeed(seed), engine.WithWinningScore(c.WinningScore))
		if err != nil {
			return gameOutcome{}, err
		}
		for hands := 0; c.MaxHands <= 0 || hands < c.MaxHands; hands++ {
			if err := ctx.Err(); err != nil {
				return gameOutcome{}, err
			}
			if _, err := g.PlayHand(); err != nil {
				return gameOutcome{}, err
			}
			if g.Phase == engine.PhaseGameOver {
				break
			}
		}
		return gameOutcome{results: g.Ledger.Results, winner: leader(g.Players)}, nil
	})
	if err != nil {
		return GamesReport{}, err
	}

	rep := GamesReport{Games: c.Games, Wins: make([]int, c.Variant.Players), BidCounts: map[int]int{}}
	var bids, melds, counters int
	for _, o := range outcomes {
		rep.Wins[o.winner]++
		for _, h := range o.results {
			rep.Hands++
			rep.BidCounts[h.Bid]++
			bids += h.Bid
			melds += h.Meld
			counters += h.Counters
			if h.Dropped {
				rep.Dropped++
			}
			if h.Saved {
				rep.Saved++
			}
			if !h.Eligible {
				rep.Ineligible++
			}
		}
	}
	if rep.Hands > 0 {
		n := float64(rep.Hands)
		rep.MeanBid = float64(bids) / n
		rep.MeanMeld = float64(melds) / n
		rep.MeanCounters = float64(counters) / n
	}
	return rep, nil
}

func leader(players []*engine.Player) int {
	best := 0
	for i, p := range players {
		if p.Score > players[best].Score {
			best = i
		}
	}
	return best
}
