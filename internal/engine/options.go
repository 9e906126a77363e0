package engine

import (
	"math/rand/v2"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Option configures a Game.
type Option func(*Game)

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(g *Game) {
		if l != nil {
			g.logger = l
		}
	}
}

// WithSeed makes shuffling deterministic.
func WithSeed(seed uint64) Option {
	return func(g *Game) { g.src = newSource(seed) }
}

// WithWinningScore ends the game once a player reaches score.
func WithWinningScore(score int) Option {
	return func(g *Game) { g.WinningScore = score }
}

// WithPartnerScoring credits the bidder's partner with its meld when the bid is saved.
func WithPartnerScoring(on bool) Option {
	return func(g *Game) { g.PartnerScoring = on }
}

// WithStateSnapshots records a full snapshot in the action log before every decision.
func WithStateSnapshots(on bool) Option {
	return func(g *Game) { g.recordStates = on }
}

// WithActionLog appends to an existing log instead of a fresh one.
func WithActionLog(l *ActionLog) Option {
	return func(g *Game) {
		if l != nil {
			g.Log = l
		}
	}
}

// WithID overrides the generated game ID.
func WithID(id uuid.UUID) Option {
	return func(g *Game) { g.ID = id }
}

func newSource(seed uint64) *rand.PCG {
	return rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)
}
