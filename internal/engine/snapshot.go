package engine

import (
	"encoding/json"
	"fmt"
	"math/rand/v2"
	"slices"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SnapshotVersion is bumped whenever the snapshot layout changes.
const SnapshotVersion = 1

// TrickSnapshot is a trick with players replaced by their indices.
type TrickSnapshot struct {
	Players int    `json:"players"`
	Trump   Suit   `json:"trump"`
	Cards   []Card `json:"cards"`
	Seats   []int  `json:"seats"`
	Best    Card   `json:"best"`
}

// PlayerSnapshot is one seat with partner and tricks flattened to indices.
type PlayerSnapshot struct {
	Index         int             `json:"index"`
	Name          string          `json:"name"`
	Kind          string          `json:"kind"`
	Score         int             `json:"score"`
	Hand          []Card          `json:"hand"`
	Meld          Meld            `json:"meld"`
	Tricks        []TrickSnapshot `json:"tricks"`
	Partner       int             `json:"partner"`
	TookLastTrick bool            `json:"took_last_trick"`
	IsHighBidder  bool            `json:"is_high_bidder"`
	Position      int             `json:"position"`
}

// AuctionSnapshot is the running state of the bidding round.
type AuctionSnapshot struct {
	Current int    `json:"current"`
	Turn    int    `json:"turn"`
	Passed  []bool `json:"passed"`
	Raised  bool   `json:"raised"`
}

// Snapshot is the whole game state as a flat, cycle-free structure.
type Snapshot struct {
	Version        int              `json:"version"`
	GameID         uuid.UUID        `json:"game_id"`
	Variant        string           `json:"variant"`
	Phase          Phase            `json:"phase"`
	HandCount      int              `json:"hand_count"`
	Players        []PlayerSnapshot `json:"players"`
	Kitty          *PlayerSnapshot  `json:"kitty,omitempty"`
	Current        []int            `json:"current"`
	Deck           []Card           `json:"deck"`
	Trump          Suit             `json:"trump"`
	HighBid        int              `json:"high_bid"`
	HighBidder     int              `json:"high_bidder"`
	BidDropped     bool             `json:"bid_dropped"`
	Eligible       bool             `json:"eligible"`
	Auction        AuctionSnapshot  `json:"auction"`
	PassStage      int              `json:"pass_stage"`
	Trick          *TrickSnapshot   `json:"trick,omitempty"`
	LastTrick      *TrickSnapshot   `json:"last_trick,omitempty"`
	TricksPlayed   int              `json:"tricks_played"`
	PartnerScoring bool             `json:"partner_scoring"`
	WinningScore   int              `json:"winning_score"`
	Ledger         []HandResult     `json:"ledger"`
	RNG            []byte           `json:"rng"`
}

// StrategyResolver supplies the strategy for a restored seat from its recorded kind.
type StrategyResolver func(kind string, index int) (Strategy, error)

func indexOf(p *Player) int {
	if p == nil {
		return NoPlayer
	}
	return p.Index
}

func snapshotTrick(t *Trick) TrickSnapshot {
	ts := TrickSnapshot{
		Players: t.players,
		Trump:   t.trump,
		Cards:   make([]Card, len(t.plays)),
		Seats:   make([]int, len(t.plays)),
		Best:    t.best,
	}
	for i, p := range t.plays {
		ts.Cards[i] = p.Card
		ts.Seats[i] = indexOf(p.Player)
	}
	return ts
}

func snapshotPlayer(p *Player) PlayerSnapshot {
	ps := PlayerSnapshot{
		Index:         p.Index,
		Name:          p.Name,
		Kind:          p.Kind(),
		Score:         p.Score,
		Hand:          p.Hand.Cards(),
		Meld:          p.Meld,
		Partner:       indexOf(p.Partner),
		TookLastTrick: p.TookLastTrick,
		IsHighBidder:  p.IsHighBidder,
		Position:      p.Position,
	}
	for _, t := range p.Tricks {
		ps.Tricks = append(ps.Tricks, snapshotTrick(t))
	}
	return ps
}

// Snapshot captures the full game state, including the shuffle source.
func (g *Game) Snapshot() (Snapshot, error) {
	rng, err := g.src.MarshalBinary()
	if err != nil {
		return Snapshot{}, fmt.Errorf("marshal rng: %w", err)
	}
	s := Snapshot{
		Version:        SnapshotVersion,
		GameID:         g.ID,
		Variant:        g.Variant.Name,
		Phase:          g.Phase,
		HandCount:      g.HandCount,
		Trump:          g.Trump,
		HighBid:        g.HighBid,
		HighBidder:     indexOf(g.HighBidder),
		BidDropped:     g.BidDropped,
		Eligible:       g.Eligible,
		PassStage:      g.passStage,
		TricksPlayed:   g.TricksPlayed,
		PartnerScoring: g.PartnerScoring,
		WinningScore:   g.WinningScore,
		Ledger:         append([]HandResult(nil), g.Ledger.Results...),
		RNG:            rng,
		Auction: AuctionSnapshot{
			Current: g.auction.current,
			Turn:    g.auction.turn,
			Passed:  append([]bool(nil), g.auction.passed...),
			Raised:  g.auction.raised,
		},
	}
	for _, p := range g.Players {
		s.Players = append(s.Players, snapshotPlayer(p))
	}
	if g.Kitty != nil {
		k := snapshotPlayer(g.Kitty)
		s.Kitty = &k
	}
	for _, p := range g.Current {
		s.Current = append(s.Current, p.Index)
	}
	if g.Deck != nil {
		s.Deck = g.Deck.Cards()
	}
	if g.Trick != nil {
		t := snapshotTrick(g.Trick)
		s.Trick = &t
	}
	if g.LastTrick != nil {
		t := snapshotTrick(g.LastTrick)
		s.LastTrick = &t
	}
	return s, nil
}

// MarshalJSON lets a game be written straight out as its snapshot.
func (g *Game) MarshalJSON() ([]byte, error) {
	s, err := g.Snapshot()
	if err != nil {
		return nil, err
	}
	return json.Marshal(s)
}

// Restore rebuilds a game from a snapshot. Objects are built first and player
// indices are resolved to live references in a second pass. Options are applied
// after the shuffle source is restored, so WithSeed forks a new random stream.
func Restore(s Snapshot, resolve StrategyResolver, opts ...Option) (*Game, error) {
	if s.Version != SnapshotVersion {
		return nil, fmt.Errorf("snapshot version %d, want %d: %w", s.Version, SnapshotVersion, ErrStateResolution)
	}
	v, err := VariantByName(s.Variant)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", err, ErrStateResolution)
	}
	g := &Game{
		ID:             s.GameID,
		Variant:        v,
		Phase:          s.Phase,
		HandCount:      s.HandCount,
		Trump:          s.Trump,
		HighBid:        s.HighBid,
		BidDropped:     s.BidDropped,
		Eligible:       s.Eligible,
		TricksPlayed:   s.TricksPlayed,
		PartnerScoring: s.PartnerScoring,
		WinningScore:   s.WinningScore,
		Ledger:         &Ledger{Results: append([]HandResult(nil), s.Ledger...)},
		Log:            NewActionLog(),
		logger:         zap.NewNop(),
		passStage:      s.PassStage,
		auction: auction{
			current: s.Auction.Current,
			turn:    s.Auction.Turn,
			passed:  append([]bool(nil), s.Auction.Passed...),
			raised:  s.Auction.Raised,
		},
	}
	if s.Deck != nil {
		g.Deck = NewDeckFromCards(s.Deck)
	}

	// Build pass.
	for i, ps := range s.Players {
		if ps.Index != i {
			return nil, fmt.Errorf("player %d recorded at position %d: %w", ps.Index, i, ErrStateResolution)
		}
		strat, err := resolve(ps.Kind, ps.Index)
		if err != nil {
			return nil, fmt.Errorf("resolve player %d: %w", ps.Index, err)
		}
		g.Players = append(g.Players, buildPlayer(ps, strat, false))
	}
	if s.Kitty != nil {
		g.Kitty = buildPlayer(*s.Kitty, nil, true)
	} else if v.KittySize > 0 {
		return nil, fmt.Errorf("variant %s snapshot has no kitty: %w", v.Name, ErrStateResolution)
	}

	// Resolve pass.
	lookup := func(index int) (*Player, error) {
		if index == NoPlayer {
			return nil, nil
		}
		return g.Player(index)
	}
	resolvePlayer := func(p *Player, ps PlayerSnapshot) error {
		partner, err := lookup(ps.Partner)
		if err != nil {
			return err
		}
		p.Partner = partner
		for _, ts := range ps.Tricks {
			t, err := g.restoreTrick(ts)
			if err != nil {
				return err
			}
			p.Tricks = append(p.Tricks, t)
		}
		return nil
	}
	for i, ps := range s.Players {
		if err := resolvePlayer(g.Players[i], ps); err != nil {
			return nil, err
		}
	}
	if s.Kitty != nil {
		if err := resolvePlayer(g.Kitty, *s.Kitty); err != nil {
			return nil, err
		}
	}
	for _, idx := range s.Current {
		p, err := g.Player(idx)
		if err != nil {
			return nil, err
		}
		g.Current = append(g.Current, p)
	}
	if g.HighBidder, err = lookup(s.HighBidder); err != nil {
		return nil, err
	}
	if s.Trick != nil {
		if g.Trick, err = g.restoreTrick(*s.Trick); err != nil {
			return nil, err
		}
	}
	if s.LastTrick != nil {
		if g.LastTrick, err = g.restoreTrick(*s.LastTrick); err != nil {
			return nil, err
		}
	}

	if err := g.checkRestored(); err != nil {
		return nil, err
	}

	g.src = &rand.PCG{}
	if err := g.src.UnmarshalBinary(s.RNG); err != nil {
		return nil, fmt.Errorf("restore rng: %w: %w", err, ErrStateResolution)
	}
	for _, opt := range opts {
		opt(g)
	}
	g.rng = rand.New(g.src)
	g.logger = g.logger.With(zap.String("game_id", g.ID.String()), zap.String("variant", v.Name))
	return g, nil
}

// checkRestored rejects restored states that the phase machine cannot act on.
func (g *Game) checkRestored() error {
	fail := func(format string, args ...any) error {
		return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), ErrStateResolution)
	}
	if g.Phase < PhaseInit || g.Phase > PhaseGameOver {
		return fail("unknown phase %d", int(g.Phase))
	}
	n := g.Variant.Players
	if g.Phase == PhaseInit {
		if len(g.Current) != 0 {
			return fail("rotation recorded before the first hand")
		}
	} else if len(g.Current) != n {
		return fail("rotation has %d seats, want %d", len(g.Current), n)
	}
	for i, p := range g.Current {
		if p.IsKitty() || slices.Index(g.Current, p) != i {
			return fail("seat %d is not a distinct player", i)
		}
	}

	inHand := g.Phase > PhaseDeal && g.Phase < PhaseHandEnd
	if g.Phase == PhaseBid {
		a := g.auction
		if len(a.passed) != n {
			return fail("auction tracks %d seats, want %d", len(a.passed), n)
		}
		if a.turn < 0 || a.turn >= n || a.passed[a.turn] {
			return fail("auction turn %d cannot act", a.turn)
		}
	}
	if inHand && g.Phase >= PhasePartners {
		if g.HighBidder == nil || !g.seated(g.HighBidder) {
			return fail("no seated high bidder during %s", g.Phase)
		}
		if g.Phase >= PhaseTrump && g.HighBidder.Partner == nil {
			return fail("high bidder has no partner during %s", g.Phase)
		}
	}
	if g.Phase == PhasePass {
		if g.passStage < 0 || g.passStage > 1 {
			return fail("pass stage %d", g.passStage)
		}
	}
	if g.Trick != nil {
		if g.Phase != PhasePlay {
			return fail("trick in progress during %s", g.Phase)
		}
		if g.Trick.players != n || g.Trick.Complete() {
			return fail("trick in progress has %d of %d plays", g.Trick.Len(), g.Trick.players)
		}
		for i, pl := range g.Trick.plays {
			if pl.Player != g.Current[i] {
				return fail("trick play %d is out of seat order", i)
			}
		}
	}
	return nil
}

func buildPlayer(ps PlayerSnapshot, s Strategy, kitty bool) *Player {
	return &Player{
		Index:         ps.Index,
		Name:          ps.Name,
		Strategy:      s,
		Score:         ps.Score,
		Hand:          NewHand(ps.Hand...),
		Meld:          ps.Meld,
		TookLastTrick: ps.TookLastTrick,
		IsHighBidder:  ps.IsHighBidder,
		Position:      ps.Position,
		kitty:         kitty,
	}
}

func (g *Game) restoreTrick(ts TrickSnapshot) (*Trick, error) {
	if len(ts.Cards) != len(ts.Seats) || len(ts.Cards) > ts.Players {
		return nil, fmt.Errorf("trick has %d cards for %d seats: %w", len(ts.Cards), len(ts.Seats), ErrStateResolution)
	}
	t := NewTrick(ts.Players, ts.Trump)
	for i, c := range ts.Cards {
		p, err := g.Player(ts.Seats[i])
		if err != nil {
			return nil, err
		}
		t.plays = append(t.plays, Play{Card: c, Player: p})
	}
	t.best = ts.Best
	return t, nil
}
