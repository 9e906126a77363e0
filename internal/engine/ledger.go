package engine

// HandResult is the settled outcome of one hand.
type HandResult struct {
	Hand          int  `json:"hand"`
	Bidder        int  `json:"bidder"`
	Bid           int  `json:"bid"`
	Dropped       bool `json:"dropped"`
	Trump         Suit `json:"trump"`
	Meld          int  `json:"meld"`
	Counters      int  `json:"counters"`
	Eligible      bool `json:"eligible"`
	Saved         bool `json:"saved"`
	Points        int  `json:"points"`
	Partner       int  `json:"partner"`
	PartnerPoints int  `json:"partner_points"`
}

// Ledger is the history of settled hands across a game.
type Ledger struct {
	Results []HandResult `json:"results"`
}

func (l *Ledger) Record(r HandResult) { l.Results = append(l.Results, r) }

func (l *Ledger) Len() int { return len(l.Results) }

// Last returns the most recent result.
func (l *Ledger) Last() (HandResult, bool) {
	if len(l.Results) == 0 {
		return HandResult{}, false
	}
	return l.Results[len(l.Results)-1], true
}

// SavedRate is the share of hands in which the bidder saved the bid.
func (l *Ledger) SavedRate() float64 {
	if len(l.Results) == 0 {
		return 0
	}
	saved := 0
	for _, r := range l.Results {
		if r.Saved {
			saved++
		}
	}
	return float64(saved) / float64(len(l.Results))
}

// NetFor sums the score changes the ledger recorded for a player index.
func (l *Ledger) NetFor(index int) int {
	net := 0
	for _, r := range l.Results {
		if r.Bidder == index {
			net += r.Points
		}
		if r.Partner == index {
			net += r.PartnerPoints
		}
	}
	return net
}
