package engine

import (
	"fmt"
	"math/rand/v2"
	"regexp"
	"strconv"
	"time"
)

var cardPlayPattern = regexp.MustCompile(`^PLAYER (\d+) PLAYS (A|10|K|Q|J|9) of (Spades|Hearts|Clubs|Diamonds)$`)

// Entry is one line of the action log: either an action tag or a full state.
type Entry struct {
	Action string    `json:"action,omitempty"`
	State  *Snapshot `json:"state,omitempty"`
}

// ActionLog is an append-only record of what happened during a game.
type ActionLog struct {
	Started time.Time `json:"timestamp"`
	Entries []Entry   `json:"state_log"`
}

func NewActionLog() *ActionLog {
	return &ActionLog{Started: time.Now().UTC()}
}

// Add appends an action tag.
func (l *ActionLog) Add(format string, args ...any) {
	l.Entries = append(l.Entries, Entry{Action: fmt.Sprintf(format, args...)})
}

// AddState appends a full snapshot.
func (l *ActionLog) AddState(s Snapshot) {
	l.Entries = append(l.Entries, Entry{State: &s})
}

func (l *ActionLog) Len() int { return len(l.Entries) }

// Actions returns the action tags in order, without the snapshots.
func (l *ActionLog) Actions() []string {
	var out []string
	for _, e := range l.Entries {
		if e.State == nil {
			out = append(out, e.Action)
		}
	}
	return out
}

// State returns the snapshot stored at entry i.
func (l *ActionLog) State(i int) (Snapshot, error) {
	if i < 0 || i >= len(l.Entries) || l.Entries[i].State == nil {
		return Snapshot{}, fmt.Errorf("entry %d is not a state: %w", i, ErrStateResolution)
	}
	return *l.Entries[i].State, nil
}

// StateIndexBefore is the last state entry before index i, or -1.
func (l *ActionLog) StateIndexBefore(i int) int {
	return l.scanBack(i, func(e Entry) bool { return e.State != nil })
}

// StateIndexAfter is the first state entry after index i, or -1.
func (l *ActionLog) StateIndexAfter(i int) int {
	return l.scanForward(i, func(e Entry) bool { return e.State != nil })
}

// ActionIndexBefore is the last action entry before index i, or -1.
func (l *ActionLog) ActionIndexBefore(i int) int {
	return l.scanBack(i, func(e Entry) bool { return e.State == nil })
}

// ActionIndexAfter is the first action entry after index i, or -1.
func (l *ActionLog) ActionIndexAfter(i int) int {
	return l.scanForward(i, func(e Entry) bool { return e.State == nil })
}

func (l *ActionLog) scanBack(i int, match func(Entry) bool) int {
	for j := min(i, len(l.Entries)) - 1; j >= 0; j-- {
		if match(l.Entries[j]) {
			return j
		}
	}
	return -1
}

func (l *ActionLog) scanForward(i int, match func(Entry) bool) int {
	for j := max(i+1, 0); j < len(l.Entries); j++ {
		if match(l.Entries[j]) {
			return j
		}
	}
	return -1
}

// CardPlayIndices returns, for every card play, the index of the state recorded
// just before it (or just after it when after is set). Plays without a
// neighbouring state are skipped.
func (l *ActionLog) CardPlayIndices(after bool) []int {
	var out []int
	for i, e := range l.Entries {
		if e.State != nil || !cardPlayPattern.MatchString(e.Action) {
			continue
		}
		idx := l.StateIndexBefore(i)
		if after {
			idx = l.StateIndexAfter(i)
		}
		if idx >= 0 {
			out = append(out, idx)
		}
	}
	return out
}

// RandomCardPlay picks the state before a uniformly chosen card play.
func (l *ActionLog) RandomCardPlay(r *rand.Rand) (int, error) {
	indices := l.CardPlayIndices(false)
	if len(indices) == 0 {
		return -1, fmt.Errorf("no recorded card plays: %w", ErrEmptyCollection)
	}
	return indices[r.IntN(len(indices))], nil
}

// ParseCardPlay decodes a "PLAYER n PLAYS card" tag.
func ParseCardPlay(action string) (int, Card, bool) {
	m := cardPlayPattern.FindStringSubmatch(action)
	if m == nil {
		return 0, Card{}, false
	}
	player, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, Card{}, false
	}
	rank, err := ParseRank(m[2])
	if err != nil {
		return 0, Card{}, false
	}
	suit, err := ParseSuit(m[3])
	if err != nil {
		return 0, Card{}, false
	}
	return player, Card{Suit: suit, Rank: rank}, true
}
