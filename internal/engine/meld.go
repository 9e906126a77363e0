package engine

import (
	"fmt"
	"strings"
)

const (
	marriageWorth   = 2
	trumpNineWorth  = 1
	suitRankFactor  = 5
	maxMeldMultiple = 4
)

var (
	aroundWorth = []struct {
		Rank  Rank
		Worth int
	}{{Jack, 4}, {Queen, 6}, {King, 8}, {Ace, 10}}
	familyWorth   = [maxMeldMultiple + 1]int{0, 11, 110, 1100, 11000}
	pinochleWorth = [maxMeldMultiple + 1]int{0, 4, 30, 90, 1000}
	familyRanks   = []Rank{Jack, Queen, King, Ten, Ace}
)

// Meld is the scoring breakdown of one hand. It owns no cards.
type Meld struct {
	Marriages    [NumSuits]int `json:"marriages"`
	Pinochle     int           `json:"pinochle"`
	Around       int           `json:"around"`
	WithoutTrump int           `json:"without_trump"`
	Families     [NumSuits]int `json:"families"`
	Nines        [NumSuits]int `json:"nines"`
	Total        [NumSuits]int `json:"total"`
	Power        [NumSuits]int `json:"power"`
	Rank         [NumSuits]int `json:"rank"`

	HasTrump bool `json:"has_trump"`
	Trump    Suit `json:"trump"`
	Final    int  `json:"final"`
}

// Evaluate scores a hand under the variant's rank set.
func Evaluate(h *Hand, v Variant) Meld {
	var counts [NumSuits][Ace + 1]int
	for _, c := range h.Cards() {
		counts[c.Suit][c.Rank]++
	}

	var m Meld
	for _, s := range Suits {
		m.Marriages[s] = marriageWorth * min(counts[s][Queen], counts[s][King])
	}
	m.Pinochle = pinochleWorth[min(counts[Spades][Queen], counts[Diamonds][Jack], maxMeldMultiple)]
	for _, a := range aroundWorth {
		if !v.HasRank(a.Rank) {
			continue
		}
		n := counts[Spades][a.Rank]
		for _, s := range Suits[1:] {
			n = min(n, counts[s][a.Rank])
		}
		if n > 0 {
			m.Around += a.Worth * pow10(n-1)
		}
	}
	m.WithoutTrump = m.Pinochle + m.Around
	for _, s := range Suits {
		m.WithoutTrump += m.Marriages[s]
	}

	for _, s := range Suits {
		fam := counts[s][familyRanks[0]]
		for _, r := range familyRanks[1:] {
			fam = min(fam, counts[s][r])
		}
		m.Families[s] = familyWorth[min(fam, maxMeldMultiple)]
		if v.HasRank(Nine) {
			m.Nines[s] = trumpNineWorth * counts[s][Nine]
		}
		m.Total[s] = m.WithoutTrump + m.Marriages[s] + m.Families[s] + m.Nines[s]

		for idx, r := range v.Ranks {
			m.Power[s] += idx * idx * counts[s][r]
		}
		if m.Marriages[s] > 0 {
			m.Rank[s] = m.Total[s]*suitRankFactor + m.Power[s]
		}
	}
	return m
}

func pow10(n int) int {
	out := 1
	for range n {
		out *= 10
	}
	return out
}

// WithTrump fixes trump and freezes the final meld value.
func (m Meld) WithTrump(s Suit) Meld {
	m.HasTrump = true
	m.Trump = s
	m.Final = m.Total[s]
	return m
}

// HasMarriage reports whether a marriage of s was scored.
func (m Meld) HasMarriage(s Suit) bool { return m.Marriages[s] > 0 }

// BestSuit is the suit with the highest rank, defaulting to the first suit when nothing ranks.
func (m Meld) BestSuit() Suit {
	best, bestRank := Suits[0], 0
	for _, s := range Suits {
		if m.Rank[s] > bestRank {
			best, bestRank = s, m.Rank[s]
		}
	}
	return best
}

func (m Meld) String() string {
	parts := make([]string, NumSuits)
	for i, s := range Suits {
		parts[i] = fmt.Sprintf("%s - %d", s, m.Total[s])
	}
	return strings.Join(parts, " | ")
}
