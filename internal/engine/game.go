package engine

import (
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type auction struct {
	current int
	turn    int
	passed  []bool
	raised  bool
}

// Game is the root state container and the state machine that sequences hands.
type Game struct {
	ID      uuid.UUID
	Variant Variant
	Players []*Player
	Kitty   *Player
	// Current is this hand's seating rotation. Index 0 leads the next trick.
	Current []*Player

	Phase     Phase
	HandCount int
	Deck      *Deck

	Trump      Suit
	HighBid    int
	HighBidder *Player
	BidDropped bool
	Eligible   bool

	Trick        *Trick
	LastTrick    *Trick
	TricksPlayed int

	PartnerScoring bool
	WinningScore   int
	Ledger         *Ledger
	Log            *ActionLog

	auction   auction
	passStage int

	src          *rand.PCG
	rng          *rand.Rand
	logger       *zap.Logger
	recordStates bool
}

// NewGame seats players for a variant. At least Variant.Players players are
// needed; with more, seats rotate in and out hand by hand.
func NewGame(v Variant, players []*Player, opts ...Option) (*Game, error) {
	if err := v.Validate(); err != nil {
		return nil, err
	}
	if len(players) < v.Players {
		return nil, fmt.Errorf("variant %s needs %d players, got %d", v.Name, v.Players, len(players))
	}
	for i, p := range players {
		if p == nil || p.Strategy == nil {
			return nil, fmt.Errorf("player %d has no strategy", i)
		}
		p.Index = i
	}
	g := &Game{
		ID:      uuid.New(),
		Variant: v,
		Players: players,
		Phase:   PhaseInit,
		Ledger:  &Ledger{},
		Log:     NewActionLog(),
		logger:  zap.NewNop(),
	}
	if v.KittySize > 0 {
		g.Kitty = NewKitty()
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.PartnerScoring && !v.PartnerScoringAllowed {
		return nil, fmt.Errorf("variant %s has no partner to credit with meld", v.Name)
	}
	if g.src == nil {
		g.src = newSource(rand.Uint64())
	}
	g.rng = rand.New(g.src)
	g.logger = g.logger.With(zap.String("game_id", g.ID.String()), zap.String("variant", v.Name))
	return g, nil
}

// Player looks a player up by index; KittyIndex returns the kitty.
func (g *Game) Player(index int) (*Player, error) {
	if index == KittyIndex && g.Kitty != nil {
		return g.Kitty, nil
	}
	if index < 0 || index >= len(g.Players) {
		return nil, fmt.Errorf("no player %d: %w", index, ErrStateResolution)
	}
	return g.Players[index], nil
}

// Scores returns every player's running score by index.
func (g *Game) Scores() []int {
	out := make([]int, len(g.Players))
	for i, p := range g.Players {
		out[i] = p.Score
	}
	return out
}

// CurrentBid is the highest bid so far in the running auction.
func (g *Game) CurrentBid() int { return g.auction.current }

// ToAct returns the player whose decision is outstanding, or nil during automatic phases.
func (g *Game) ToAct() *Player {
	switch g.Phase {
	case PhaseBid:
		return g.Current[g.auction.turn]
	case PhaseTrump:
		return g.HighBidder
	case PhasePass:
		if g.passStage == 0 {
			return g.HighBidder.Partner
		}
		return g.HighBidder
	case PhasePlay:
		if g.Trick == nil {
			return g.Current[0]
		}
		return g.Current[g.Trick.Len()]
	default:
		return nil
	}
}

// LegalPlays returns the legal cards for the player to act during trick play.
func (g *Game) LegalPlays() []Card {
	p := g.ToAct()
	if g.Phase != PhasePlay || p == nil {
		return nil
	}
	if g.Trick == nil {
		return p.Hand.Cards()
	}
	return g.Trick.LegalPlays(p.Hand)
}

// BeginHand rotates the seats for the next hand and resets per-hand state.
func (g *Game) BeginHand() error {
	if g.Phase != PhaseInit && g.Phase != PhaseHandEnd {
		return PhaseError("cannot begin a hand during " + g.Phase.String())
	}
	n, total := g.Variant.Players, len(g.Players)
	g.Current = make([]*Player, n)
	for i := range n {
		g.Current[i] = g.Players[(g.HandCount+i)%total]
	}
	for _, p := range g.Players {
		p.resetHand()
	}
	if g.Kitty != nil {
		g.Kitty.resetHand()
	}
	g.HandCount++
	g.Deck = nil
	g.Trump = 0
	g.HighBid = 0
	g.HighBidder = nil
	g.BidDropped = false
	g.Eligible = false
	g.Trick = nil
	g.LastTrick = nil
	g.TricksPlayed = 0
	g.passStage = 0
	g.auction = auction{}
	g.Phase = PhaseDeal
	return nil
}

// Deal shuffles a fresh deck and deals every seat. preset fixes the cards of
// some seats (keyed by player index, KittyIndex for the kitty); those cards are
// taken out of the deck before shuffling.
func (g *Game) Deal(preset map[int][]Card) error {
	if g.Phase != PhaseDeal {
		return PhaseError("not in deal phase")
	}
	v := g.Variant
	deck := NewDeck(v)
	var fixed []Card
	for idx, cards := range preset {
		p, err := g.Player(idx)
		if err != nil {
			return err
		}
		want := v.HandSize
		if p.IsKitty() {
			want = v.KittySize
		} else if !g.seated(p) {
			return fmt.Errorf("player %d is not seated this hand", idx)
		}
		if len(cards) != want {
			return fmt.Errorf("preset for player %d has %d cards, want %d", idx, len(cards), want)
		}
		fixed = append(fixed, cards...)
	}
	if err := deck.DiscardAll(fixed); err != nil {
		return err
	}
	deck.Shuffle(g.rng)

	hands := make([][]Card, len(g.Current))
	for i, p := range g.Current {
		if cards, ok := preset[p.Index]; ok {
			hands[i] = cards
			continue
		}
		cards, err := deck.Deal(v.HandSize)
		if err != nil {
			return err
		}
		hands[i] = cards
	}
	var kitty []Card
	if g.Kitty != nil {
		if cards, ok := preset[KittyIndex]; ok {
			kitty = cards
		} else {
			cards, err := deck.Deal(v.KittySize)
			if err != nil {
				return err
			}
			kitty = cards
		}
	}

	for i, p := range g.Current {
		p.Hand = NewHand(hands[i]...)
		p.Meld = Evaluate(p.Hand, v)
	}
	if g.Kitty != nil {
		g.Kitty.Hand = NewHand(kitty...)
	}
	g.Deck = deck
	g.auction = auction{current: v.OpeningBid(), passed: make([]bool, len(g.Current))}
	g.Log.Add("DEAL HAND %d", g.HandCount)
	g.logger.Debug("dealt", zap.Int("hand", g.HandCount), zap.Int("undealt", deck.Len()))
	g.Phase = PhaseBid
	return nil
}

func (g *Game) seated(p *Player) bool {
	for _, c := range g.Current {
		if c == p {
			return true
		}
	}
	return false
}

// PlaceBid records a bid for the player to act. A value of 0 passes.
func (g *Game) PlaceBid(index, value int) error {
	if g.Phase != PhaseBid {
		return PhaseError("not in bid phase")
	}
	v := g.Variant
	p := g.ToAct()
	if p.Index != index {
		return wrongTurn(index)
	}
	a := &g.auction
	if value == 0 {
		a.passed[a.turn] = true
		g.Log.Add("PLAYER %d PASSES", index)
	} else {
		if value <= a.current || value < v.MinimumBid || value%v.BidIncrement != 0 {
			return fmt.Errorf("bid %d over %d in steps of %d: %w", value, a.current, v.BidIncrement, ErrInvalidBid)
		}
		a.current = value
		a.raised = true
		g.HighBid = value
		g.HighBidder = p
		g.Log.Add("PLAYER %d BID %d", index, value)
	}
	g.logger.Debug("bid", zap.Int("player", index), zap.Int("value", value))

	passed := 0
	for _, ok := range a.passed {
		if ok {
			passed++
		}
	}
	switch {
	case passed == len(a.passed):
		g.HighBidder = p
		g.HighBid = v.DroppedBid
		g.BidDropped = true
		g.Log.Add("BID DROPPED ON PLAYER %d AT %d", index, g.HighBid)
		g.closeAuction()
	case passed == len(a.passed)-1 && a.raised:
		g.closeAuction()
	default:
		for {
			a.turn = (a.turn + 1) % len(a.passed)
			if !a.passed[a.turn] {
				break
			}
		}
	}
	return nil
}

// AssignBid ends the auction with a chosen bidder and amount. It is used to set
// up simulations that skip bidding.
func (g *Game) AssignBid(index, amount int) error {
	if g.Phase != PhaseBid {
		return PhaseError("not in bid phase")
	}
	p, err := g.Player(index)
	if err != nil {
		return err
	}
	if p.IsKitty() || !g.seated(p) {
		return fmt.Errorf("player %d cannot take the bid: %w", index, ErrInvalidBid)
	}
	if amount <= 0 {
		return fmt.Errorf("bid %d: %w", amount, ErrInvalidBid)
	}
	g.HighBidder = p
	g.HighBid = amount
	g.auction.current = amount
	g.closeAuction()
	return nil
}

func (g *Game) closeAuction() {
	g.HighBidder.IsHighBidder = true
	g.Log.Add("PLAYER %d TAKES THE BID AT %d", g.HighBidder.Index, g.HighBid)
	g.logger.Debug("auction closed",
		zap.Int("bidder", g.HighBidder.Index),
		zap.Int("bid", g.HighBid),
		zap.Bool("dropped", g.BidDropped))
	g.Phase = PhasePartners
}

// SetPartners turns the rotation so the bidder leads and assigns partners.
func (g *Game) SetPartners() error {
	if g.Phase != PhasePartners {
		return PhaseError("not in partners phase")
	}
	g.setLead(g.HighBidder)
	g.Variant.Partners(g.Current, g.Kitty)
	for i, p := range g.Current {
		p.Position = i
	}
	g.Phase = PhaseTrump
	return nil
}

// CallTrump fixes trump for the hand. A bidder holding any marriage must call one
// of those suits.
func (g *Game) CallTrump(index int, s Suit) error {
	if g.Phase != PhaseTrump {
		return PhaseError("not in trump phase")
	}
	if g.HighBidder.Index != index {
		return wrongTurn(index)
	}
	if !s.Valid() {
		return fmt.Errorf("suit %d: %w", int(s), ErrInvalidTrump)
	}
	hand := g.HighBidder.Hand
	if !hand.HasMarriage(s) && len(hand.MarriageSuits()) > 0 {
		return fmt.Errorf("no marriage in %s: %w", s, ErrInvalidTrump)
	}
	g.Trump = s
	g.Log.Add("PLAYER %d CALLS %s", index, s)
	g.logger.Debug("trump called", zap.Int("player", index), zap.Stringer("trump", s))
	g.passStage = 0
	g.Phase = PhasePass
	if g.Variant.PassCount == 0 || g.HighBidder.Partner == nil {
		g.Phase = PhaseMeld
	}
	return nil
}

// PassCards moves cards from the player to act: first from the partner (or kitty)
// to the bidder, then the same number back from the bidder.
func (g *Game) PassCards(index int, cards []Card) error {
	if g.Phase != PhasePass {
		return PhaseError("not in pass phase")
	}
	giver := g.ToAct()
	if giver.Index != index {
		return wrongTurn(index)
	}
	if len(cards) != g.Variant.PassCount {
		return fmt.Errorf("must pass exactly %d cards, got %d: %w", g.Variant.PassCount, len(cards), ErrInvalidCard)
	}
	receiver := g.HighBidder
	if g.passStage == 1 {
		receiver = g.HighBidder.Partner
	}
	if err := giver.Hand.RemoveAll(cards); err != nil {
		return err
	}
	receiver.Hand.Add(cards...)
	if !giver.IsKitty() {
		giver.Meld = Evaluate(giver.Hand, g.Variant)
	}
	if !receiver.IsKitty() {
		receiver.Meld = Evaluate(receiver.Hand, g.Variant)
	}
	g.Log.Add("PLAYER %d PASSES %d CARDS TO PLAYER %d", giver.Index, len(cards), receiver.Index)
	g.logger.Debug("cards passed", zap.Int("from", giver.Index), zap.Int("to", receiver.Index))

	g.passStage++
	if g.passStage == 2 {
		g.Phase = PhaseMeld
	}
	return nil
}

// DeclareMeld freezes every seat's meld against trump and applies the
// eligibility gate to the bidder.
func (g *Game) DeclareMeld() error {
	if g.Phase != PhaseMeld {
		return PhaseError("not in meld phase")
	}
	for _, p := range g.Current {
		p.Meld = Evaluate(p.Hand, g.Variant).WithTrump(g.Trump)
		g.Log.Add("PLAYER %d MELDS %d", p.Index, p.Meld.Final)
	}
	bidder := g.HighBidder
	g.Eligible = g.Variant.Eligible(EligibilityCheck{
		Bid:           g.HighBid,
		Meld:          bidder.Meld.Final,
		MaxCounters:   g.Variant.MaxCounters(),
		TrumpMarriage: bidder.Hand.HasMarriage(g.Trump),
	})
	if !g.Eligible {
		g.Log.Add("PLAYER %d CANNOT PLAY THE HAND", bidder.Index)
		g.logger.Debug("bidder not eligible", zap.Int("bidder", bidder.Index))
		g.Phase = PhaseScore
		return nil
	}
	g.Phase = PhasePlay
	return nil
}

// PlayCard plays a card for the player to act and settles the trick once it is complete.
func (g *Game) PlayCard(index int, c Card) error {
	if g.Phase != PhasePlay {
		return PhaseError("not in play phase")
	}
	p := g.ToAct()
	if p.Index != index {
		return wrongTurn(index)
	}
	t := g.openTrick()
	if !t.IsLegal(p.Hand, c) {
		return fmt.Errorf("%s is not a legal play: %w", c, ErrInvalidCard)
	}
	if err := p.Hand.Remove(c); err != nil {
		return err
	}
	if err := t.Add(c, p); err != nil {
		return err
	}
	g.Trick = t
	g.Log.Add("PLAYER %d PLAYS %s", index, c)
	g.logger.Debug("card played", zap.Int("player", index), zap.Stringer("card", c))
	if !t.Complete() {
		return nil
	}

	w := t.Winner()
	w.Tricks = append(w.Tricks, t)
	g.LastTrick = t
	g.Trick = nil
	g.TricksPlayed++
	g.Log.Add("PLAYER %d TAKES TRICK %d", w.Index, g.TricksPlayed)
	g.setLead(w)
	if g.HighBidder.Hand.Empty() {
		w.TookLastTrick = true
		g.Phase = PhaseScore
	}
	return nil
}

// openTrick returns the trick in progress, or a fresh one that is only stored
// once a card has been played to it.
func (g *Game) openTrick() *Trick {
	if g.Trick == nil {
		return NewTrick(g.Variant.Players, g.Trump)
	}
	return g.Trick
}

// Score settles the hand against the bid and records it in the ledger.
func (g *Game) Score() (HandResult, error) {
	if g.Phase != PhaseScore {
		return HandResult{}, PhaseError("not in score phase")
	}
	v := g.Variant
	bidder, partner := g.HighBidder, g.HighBidder.Partner
	counters := bidder.Counters(v.LastTrickBonus)
	if partner != nil {
		counters += partner.Counters(v.LastTrickBonus)
	}
	res := HandResult{
		Hand:     g.HandCount,
		Bidder:   bidder.Index,
		Bid:      g.HighBid,
		Dropped:  g.BidDropped,
		Trump:    g.Trump,
		Meld:     bidder.Meld.Final,
		Counters: counters,
		Eligible: g.Eligible,
		Partner:  NoPlayer,
	}
	if partner != nil {
		res.Partner = partner.Index
	}

	if g.Eligible && counters+res.Meld >= g.HighBid {
		res.Saved = true
		res.Points = counters + res.Meld
		if g.PartnerScoring && partner != nil && !partner.IsKitty() {
			res.PartnerPoints = partner.Meld.Final
			partner.Score += res.PartnerPoints
		}
		g.Log.Add("PLAYER %d SAVED %d", bidder.Index, res.Points)
	} else {
		res.Points = -g.HighBid
		g.Log.Add("PLAYER %d WAS SET %d", bidder.Index, g.HighBid)
	}
	bidder.Score += res.Points
	g.Ledger.Record(res)
	g.logger.Info("hand scored",
		zap.Int("hand", res.Hand),
		zap.Int("bidder", res.Bidder),
		zap.Int("bid", res.Bid),
		zap.Int("meld", res.Meld),
		zap.Int("counters", res.Counters),
		zap.Bool("saved", res.Saved))

	g.Phase = PhaseHandEnd
	if g.WinningScore > 0 {
		for _, p := range g.Players {
			if p.Score >= g.WinningScore {
				g.Phase = PhaseGameOver
				g.Log.Add("PLAYER %d WINS WITH %d", p.Index, p.Score)
				break
			}
		}
	}
	return res, nil
}

// Winner returns the highest-scoring player once the game is over.
func (g *Game) Winner() (*Player, bool) {
	if g.Phase != PhaseGameOver {
		return nil, false
	}
	best := g.Players[0]
	for _, p := range g.Players[1:] {
		if p.Score > best.Score {
			best = p
		}
	}
	return best, true
}

// Step advances the game by one decision or automatic transition, asking the
// player to act for its choice.
func (g *Game) Step() error {
	switch g.Phase {
	case PhaseInit, PhaseHandEnd:
		return g.BeginHand()
	case PhaseDeal:
		return g.Deal(nil)
	case PhaseBid:
		p := g.ToAct()
		if err := g.recordState(); err != nil {
			return err
		}
		bid, err := p.Strategy.PlaceBid(p, g.auction.current, g.Variant.BidIncrement)
		if err != nil {
			return fmt.Errorf("player %d bid: %w", p.Index, err)
		}
		return g.PlaceBid(p.Index, bid)
	case PhasePartners:
		return g.SetPartners()
	case PhaseTrump:
		p := g.HighBidder
		if err := g.recordState(); err != nil {
			return err
		}
		s, err := p.Strategy.ChooseTrump(p)
		if err != nil {
			return fmt.Errorf("player %d trump: %w", p.Index, err)
		}
		return g.CallTrump(p.Index, s)
	case PhasePass:
		p := g.ToAct()
		if p.IsKitty() {
			return g.PassCards(p.Index, p.Hand.Cards())
		}
		if err := g.recordState(); err != nil {
			return err
		}
		cards, err := p.Strategy.ChooseDiscards(p, g.Trump, g.Variant.PassCount)
		if err != nil {
			return fmt.Errorf("player %d discards: %w", p.Index, err)
		}
		return g.PassCards(p.Index, cards)
	case PhaseMeld:
		return g.DeclareMeld()
	case PhasePlay:
		p := g.ToAct()
		t := g.openTrick()
		if err := g.recordState(); err != nil {
			return err
		}
		c, err := p.Strategy.ChooseCard(p, t)
		if err != nil {
			return fmt.Errorf("player %d card: %w", p.Index, err)
		}
		return g.PlayCard(p.Index, c)
	case PhaseScore:
		_, err := g.Score()
		return err
	case PhaseGameOver:
		return PhaseError("game is over")
	default:
		return PhaseError("unknown phase " + g.Phase.String())
	}
}

// PlayHand runs the current hand to completion, starting a new one if the
// previous hand is finished.
func (g *Game) PlayHand() (HandResult, error) {
	if g.Phase == PhaseGameOver {
		return HandResult{}, PhaseError("game is over")
	}
	if g.Phase == PhaseInit || g.Phase == PhaseHandEnd {
		if err := g.Step(); err != nil {
			return HandResult{}, err
		}
	}
	for g.Phase != PhaseHandEnd && g.Phase != PhaseGameOver {
		if err := g.Step(); err != nil {
			return HandResult{}, err
		}
	}
	res, _ := g.Ledger.Last()
	return res, nil
}

// Play runs hands until the winning score is reached or maxHands have been
// played (0 means no limit).
func (g *Game) Play(maxHands int) error {
	if g.WinningScore <= 0 && maxHands <= 0 {
		return errors.New("play needs a winning score or a hand limit")
	}
	for played := 0; maxHands <= 0 || played < maxHands; played++ {
		if _, err := g.PlayHand(); err != nil {
			return err
		}
		if g.Phase == PhaseGameOver {
			return nil
		}
	}
	return nil
}

func (g *Game) setLead(p *Player) {
	for i, c := range g.Current {
		if c == p {
			n := len(g.Current)
			rotated := make([]*Player, n)
			for j := range n {
				rotated[j] = g.Current[(i+j)%n]
			}
			g.Current = rotated
			return
		}
	}
}

func (g *Game) recordState() error {
	if !g.recordStates {
		return nil
	}
	s, err := g.Snapshot()
	if err != nil {
		return err
	}
	g.Log.AddState(s)
	return nil
}
