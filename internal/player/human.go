package player

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"

	"github.com/bradylowe/pinochle/internal/engine"
)

// ErrNoInput is returned when the input stream ends before a valid answer.
var ErrNoInput = errors.New("input closed")

// Human reads decisions line by line and asks again until the answer is valid.
type Human struct {
	in  *bufio.Scanner
	out io.Writer
}

func NewHuman(in io.Reader, out io.Writer) *Human {
	return &Human{in: bufio.NewScanner(in), out: out}
}

func (h *Human) Kind() string { return KindHuman }

func (h *Human) ask(prompt string) (string, error) {
	fmt.Fprint(h.out, prompt)
	if !h.in.Scan() {
		if err := h.in.Err(); err != nil {
			return "", err
		}
		return "", ErrNoInput
	}
	return strings.TrimSpace(h.in.Text()), nil
}

func (h *Human) askIndex(prompt string, n int) (int, error) {
	for {
		line, err := h.ask(prompt)
		if err != nil {
			return 0, err
		}
		i, err := strconv.Atoi(line)
		if err != nil {
			fmt.Fprintln(h.out, "Please enter a number with no spaces.")
			continue
		}
		if i < 0 || i >= n {
			fmt.Fprintln(h.out, "Invalid choice.")
			continue
		}
		return i, nil
	}
}

func (h *Human) PlaceBid(p *engine.Player, current, increment int) (int, error) {
	fmt.Fprintf(h.out, "\nHand: %s\nMeld: %s\n", p.Hand, p.Meld)
	fmt.Fprintf(h.out, "The minimum bid is %d, in steps of %d.\n", current+increment, increment)
	for {
		line, err := h.ask("Bid (press Enter to pass): ")
		if err != nil {
			return 0, err
		}
		if line == "" {
			return 0, nil
		}
		bid, err := strconv.Atoi(line)
		switch {
		case err != nil:
			fmt.Fprintln(h.out, "Please enter a whole number.")
		case bid <= current:
			fmt.Fprintf(h.out, "The bid must be more than %d.\n", current)
		case bid%increment != 0:
			fmt.Fprintf(h.out, "The bid must be a multiple of %d.\n", increment)
		default:
			return bid, nil
		}
	}
}

func (h *Human) ChooseTrump(p *engine.Player) (engine.Suit, error) {
	married := p.Hand.MarriageSuits()
	choices := make([]string, engine.NumSuits)
	for i, s := range engine.Suits {
		choices[i] = fmt.Sprintf("%d: %s", i, s)
	}
	fmt.Fprintf(h.out, "\nHand: %s\nChoose trump (%s)\n", p.Hand, strings.Join(choices, ", "))
	for {
		i, err := h.askIndex("Choice: ", engine.NumSuits)
		if err != nil {
			return 0, err
		}
		s := engine.Suits[i]
		if len(married) > 0 && !slices.Contains(married, s) {
			fmt.Fprintf(h.out, "You have no marriage in %s.\n", s)
			continue
		}
		return s, nil
	}
}

func (h *Human) ChooseCard(p *engine.Player, t *engine.Trick) (engine.Card, error) {
	legal := t.LegalPlays(p.Hand)
	if len(legal) == 0 {
		return engine.Card{}, engine.ErrEmptyHand
	}
	fmt.Fprintf(h.out, "\nTrick: %s\nHand: %s\nLegal plays: %s\n", t, p.Hand, enumerate(legal))
	i, err := h.askIndex("Choice: ", len(legal))
	if err != nil {
		return engine.Card{}, err
	}
	return legal[i], nil
}

func (h *Human) ChooseDiscards(p *engine.Player, trump engine.Suit, n int) ([]engine.Card, error) {
	cards := p.Hand.Cards()
	if len(cards) < n {
		return nil, engine.ErrEmptyHand
	}
	fmt.Fprintf(h.out, "\nTrump is %s. Choose %d cards to pass.\n%s\n", trump, n, enumerate(cards))
	var picked []int
	for len(picked) < n {
		i, err := h.askIndex("Choice (one at a time): ", len(cards))
		if err != nil {
			return nil, err
		}
		if slices.Contains(picked, i) {
			fmt.Fprintln(h.out, "Cannot choose the same card twice.")
			continue
		}
		picked = append(picked, i)
	}
	out := make([]engine.Card, n)
	for j, i := range picked {
		out[j] = cards[i]
	}
	return out, nil
}

func enumerate(cards []engine.Card) string {
	parts := make([]string, len(cards))
	for i, c := range cards {
		parts[i] = fmt.Sprintf("%d: %s", i, c)
	}
	return strings.Join(parts, ", ")
}
