package player

import (
	"fmt"
	"slices"

	"github.com/bradylowe/pinochle/internal/engine"
)

const (
	KindRandom = "random"
	KindSimple = "simple"
	KindHuman  = "human"
)

// Factory builds a bot strategy with its own random stream.
type Factory func(seed uint64) engine.Strategy

var factories = map[string]Factory{
	KindRandom: func(seed uint64) engine.Strategy { return NewRandomBot(seed) },
	KindSimple: func(seed uint64) engine.Strategy { return NewSimpleBot(seed) },
}

// ByKind returns the factory registered for a bot kind.
func ByKind(kind string) (Factory, error) {
	f, ok := factories[kind]
	if !ok {
		return nil, fmt.Errorf("unknown bot kind %q", kind)
	}
	return f, nil
}

// Kinds lists the registered bot kinds.
func Kinds() []string {
	out := make([]string, 0, len(factories))
	for k := range factories {
		out = append(out, k)
	}
	slices.Sort(out)
	return out
}

// NewBots seats n players of one kind, named after their seat.
func NewBots(kind string, n int, seed uint64) ([]*engine.Player, error) {
	f, err := ByKind(kind)
	if err != nil {
		return nil, err
	}
	out := make([]*engine.Player, n)
	for i := range out {
		out[i] = engine.NewPlayer(fmt.Sprintf("%s-%d", kind, i), f(seed+uint64(i)))
	}
	return out, nil
}

// Resolver rebuilds bots from the kinds recorded in a snapshot. Seats whose
// kind is not a bot (a human, say) get the fallback kind instead.
func Resolver(seed uint64, fallback string) engine.StrategyResolver {
	return func(kind string, index int) (engine.Strategy, error) {
		f, err := ByKind(kind)
		if err != nil {
			if f, err = ByKind(fallback); err != nil {
				return nil, err
			}
		}
		return f(seed + uint64(index+1)), nil
	}
}
