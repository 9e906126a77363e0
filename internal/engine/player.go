package engine

const (
	// KittyIndex is the reserved player index of the kitty.
	KittyIndex = -1
	// NoPlayer marks an unset player reference.
	NoPlayer = -2

	kittyKind = "kitty"
)

// Strategy makes the decisions for a seat. Implementations other than human input
// must only ever return legal choices; the game rejects anything else.
type Strategy interface {
	Kind() string
	// PlaceBid returns a bid above current that is a multiple of increment, or 0 to pass.
	PlaceBid(p *Player, current, increment int) (int, error)
	// ChooseTrump returns a suit in which p holds a marriage, if there is one.
	ChooseTrump(p *Player) (Suit, error)
	// ChooseCard returns one of t.LegalPlays(p.Hand).
	ChooseCard(p *Player, t *Trick) (Card, error)
	// ChooseDiscards returns n cards from p.Hand, to pass to the bidder or back to the partner.
	ChooseDiscards(p *Player, trump Suit, n int) ([]Card, error)
}

// Player is a seat at the table: identity, running score and per-hand state.
type Player struct {
	Index    int
	Name     string
	Strategy Strategy
	Score    int

	Hand          *Hand
	Meld          Meld
	Tricks        []*Trick
	Partner       *Player
	TookLastTrick bool
	IsHighBidder  bool
	Position      int

	kitty bool
}

// NewPlayer creates a player driven by s.
func NewPlayer(name string, s Strategy) *Player {
	p := &Player{Name: name, Strategy: s}
	p.resetHand()
	return p
}

// NewKitty creates the undealt hand used by variants with a kitty.
func NewKitty() *Player {
	p := &Player{Index: KittyIndex, Name: "Kitty", kitty: true}
	p.resetHand()
	return p
}

func (p *Player) IsKitty() bool { return p.kitty }

// Kind names the strategy driving the player.
func (p *Player) Kind() string {
	if p.kitty {
		return kittyKind
	}
	if p.Strategy == nil {
		return ""
	}
	return p.Strategy.Kind()
}

// Counters is the number of counters this player collected, plus the last-trick
// bonus when it took the final trick. The kitty owns the counters buried in it.
func (p *Player) Counters(lastTrickBonus int) int {
	n := 0
	if p.kitty {
		for _, c := range p.Hand.Cards() {
			if c.IsCounter() {
				n++
			}
		}
	} else {
		for _, t := range p.Tricks {
			n += t.Counters()
		}
	}
	if p.TookLastTrick {
		n += lastTrickBonus
	}
	return n
}

func (p *Player) resetHand() {
	p.Hand = NewHand()
	p.Meld = Meld{}
	p.Tricks = nil
	p.Partner = nil
	p.TookLastTrick = false
	p.IsHighBidder = false
	p.Position = -1
}

func (p *Player) String() string { return p.Name }
