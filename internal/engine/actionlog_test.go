package engine

import (
	"encoding/json"
	"errors"
	"math/rand/v2"
	"testing"
)

func TestParseCardPlay(t *testing.T) {
	type tc struct {
		action string
		player int
		card   Card
		ok     bool
	}
	cases := []tc{
		{"PLAYER 0 PLAYS 10 of Hearts", 0, Card{Hearts, Ten}, true},
		{"PLAYER 3 PLAYS A of Spades", 3, Card{Spades, Ace}, true},
		{"PLAYER 2 BID 75", 0, Card{}, false},
		{"PLAYER 1 PLAYS 8 of Clubs", 0, Card{}, false},
	}
	for _, c := range cases {
		t.Run(c.action, func(t *testing.T) {
			p, card, ok := ParseCardPlay(c.action)
			if ok != c.ok || p != c.player || card != c.card {
				t.Fatalf("got %d %v %v", p, card, ok)
			}
		})
	}
	if _, _, ok := ParseCardPlay("PLAYER 1 PLAYS " + Card{Diamonds, Queen}.String()); !ok {
		t.Fatalf("card strings should round-trip through the tag")
	}
}

func TestActionLogStates(t *testing.T) {
	g := setupPlay(t, WithStateSnapshots(true))
	if _, err := g.PlayHand(); err != nil {
		t.Fatalf("PlayHand: %v", err)
	}
	log := g.Log
	before := log.CardPlayIndices(false)
	if len(before) != 48 {
		t.Fatalf("found %d card plays with states, want 48", len(before))
	}
	for _, i := range before {
		s, err := log.State(i)
		if err != nil {
			t.Fatalf("State(%d): %v", i, err)
		}
		if s.Phase != PhasePlay {
			t.Fatalf("state before a play is in %v", s.Phase)
		}
		a := log.ActionIndexAfter(i)
		if _, _, ok := ParseCardPlay(log.Entries[a].Action); !ok {
			t.Fatalf("state %d is not followed by a card play: %q", i, log.Entries[a].Action)
		}
	}
	if _, err := log.State(log.ActionIndexAfter(before[0])); !errors.Is(err, ErrStateResolution) {
		t.Fatalf("expected action entry to not be a state")
	}
	i, err := log.RandomCardPlay(rand.New(rand.NewPCG(1, 1)))
	if err != nil {
		t.Fatalf("RandomCardPlay: %v", err)
	}
	s, _ := log.State(i)
	if _, err := Restore(s, resolveFirst); err != nil {
		t.Fatalf("Restore logged state: %v", err)
	}
	if _, err := json.Marshal(log); err != nil {
		t.Fatalf("marshal log: %v", err)
	}
}

func TestActionLogEmpty(t *testing.T) {
	log := NewActionLog()
	if _, err := log.RandomCardPlay(rand.New(rand.NewPCG(1, 1))); !errors.Is(err, ErrEmptyCollection) {
		t.Fatalf("expected ErrEmptyCollection, got %v", err)
	}
	log.Add("PLAYER %d BID %d", 2, 75)
	if log.StateIndexBefore(1) != -1 || log.ActionIndexBefore(1) != 0 || log.Actions()[0] != "PLAYER 2 BID 75" {
		t.Fatalf("unexpected index lookups")
	}
}
