package simulation

import (
	"cmp"
	"context"
	"errors"
	"slices"

	"github.com/bradylowe/pinochle/internal/engine"
	"github.com/bradylowe/pinochle/internal/player"
)

// PlayConfig asks which card to play from a recorded decision point.
type PlayConfig struct {
	State  engine.Snapshot
	Trials int
	Seed   uint64
	// Fallback is the bot kind used for seats that were not bots, such as humans.
	Fallback string
}

// PlayEvaluation summarizes the rollouts that started with one candidate card.
type PlayEvaluation struct {
	Card         engine.Card `json:"card"`
	Trials       int         `json:"trials"`
	MeanCounters float64     `json:"mean_counters"`
	// SavedRate is the share of rollouts in which the bid was saved.
	SavedRate float64 `json:"saved_rate"`
}

type rollout struct {
	counters int
	saved    bool
}

// EvaluatePlays forks the state once per legal card and trial, plays every fork
// to the end of the hand and ranks the cards by the counters the acting
// player's side took, best first.
func EvaluatePlays(ctx context.Context, r *Runner, c PlayConfig) ([]PlayEvaluation, error) {
	if c.Trials <= 0 {
		return nil, errors.New("trials must be positive")
	}
	if c.Fallback == "" {
		c.Fallback = player.KindRandom
	}
	base, err := engine.Restore(c.State, player.Resolver(c.Seed, c.Fallback))
	if err != nil {
		return nil, err
	}
	if base.Phase != engine.PhasePlay {
		return nil, engine.PhaseError("state is not a card play decision")
	}
	actor := base.ToAct().Index
	legal := slices.Compact(base.LegalPlays())

	outcomes, err := Run(ctx, r, "plays", len(legal)*c.Trials, func(_ context.Context, i int) (rollout, error) {
		seed := c.Seed + uint64(i)
		g, err := engine.Restore(c.State, player.Resolver(seed, c.Fallback), engine.WithSeed(seed))
		if err != nil {
			return rollout{}, err
		}
		if err := g.PlayCard(actor, legal[i/c.Trials]); err != nil {
			return rollout{}, err
		}
		res, err := g.PlayHand()
		if err != nil {
			return rollout{}, err
		}
		p, _ := g.Player(actor)
		n := p.Counters(g.Variant.LastTrickBonus)
		if p.Partner != nil {
			n += p.Partner.Counters(g.Variant.LastTrickBonus)
		}
		return rollout{counters: n, saved: res.Saved}, nil
	})
	if err != nil {
		return nil, err
	}

	evals := make([]PlayEvaluation, len(legal))
	for ci, card := range legal {
		e := PlayEvaluation{Card: card, Trials: c.Trials}
		saved := 0
		for _, o := range outcomes[ci*c.Trials : (ci+1)*c.Trials] {
			e.MeanCounters += float64(o.counters)
			if o.saved {
				saved++
			}
		}
		e.MeanCounters /= float64(c.Trials)
		e.SavedRate = float64(saved) / float64(c.Trials)
		evals[ci] = e
	}
	slices.SortStableFunc(evals, func(a, b PlayEvaluation) int { return cmp.Compare(b.MeanCounters, a.MeanCounters) })
	return evals, nil
}
