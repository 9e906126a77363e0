package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"math/rand/v2"
	"os"
	"os/signal"
	"strings"

	"github.com/pterm/pterm"
	"go.uber.org/zap"

	"github.com/bradylowe/pinochle/internal/config"
	"github.com/bradylowe/pinochle/internal/engine"
	"github.com/bradylowe/pinochle/internal/player"
	"github.com/bradylowe/pinochle/internal/simulation"
)

const usage = `usage: pinochle <command> [flags]

commands:
  play       play against bots from the terminal
  simulate   run bot-only games and report statistics
  bids       Monte Carlo test of the bids one hand can save
  analyze    rank the legal cards at a recorded card play`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(2)
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var err error
	switch os.Args[1] {
	case "play":
		err = runPlay(ctx, os.Args[2:])
	case "simulate":
		err = runSimulate(ctx, os.Args[2:])
	case "bids":
		err = runBids(ctx, os.Args[2:])
	case "analyze":
		err = runAnalyze(ctx, os.Args[2:])
	default:
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(2)
	}
	if err != nil {
		pterm.Error.Println(err)
		os.Exit(1)
	}
}

// setup parses the common flags and loads configuration and logger.
func setup(name string, args []string, extra func(*flag.FlagSet)) (config.Config, *zap.Logger, error) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	path := fs.String("config", "", "path to a JSON config file")
	if extra != nil {
		extra(fs)
	}
	if err := fs.Parse(args); err != nil {
		return config.Config{}, nil, err
	}
	c, err := config.Load(*path)
	if err != nil {
		return config.Config{}, nil, err
	}
	logger, err := c.Logger()
	if err != nil {
		return config.Config{}, nil, err
	}
	return c, logger, nil
}

func runPlay(_ context.Context, args []string) error {
	var logPath, name string
	c, logger, err := setup("play", args, func(fs *flag.FlagSet) {
		fs.StringVar(&logPath, "log", "", "write the action log with states to this file")
		fs.StringVar(&name, "name", "You", "your name at the table")
	})
	if err != nil {
		return err
	}
	defer logger.Sync()

	v := c.GameVariant()
	bots, err := player.NewBots(c.Bots, v.Players-1, c.Seed)
	if err != nil {
		return err
	}
	human := engine.NewPlayer(name, player.NewHuman(os.Stdin, os.Stdout))
	opts := append(c.GameOptions(logger), engine.WithStateSnapshots(logPath != ""))
	g, err := engine.NewGame(v, append([]*engine.Player{human}, bots...), opts...)
	if err != nil {
		return err
	}

	pterm.DefaultSection.Printf("%s pinochle, game %s", v.Name, g.ID)
	for hands := 0; hands < c.MaxHands || c.MaxHands == 0; hands++ {
		res, err := g.PlayHand()
		if errors.Is(err, player.ErrNoInput) {
			break
		}
		if err != nil {
			return err
		}
		renderHand(g, res)
		if g.Phase == engine.PhaseGameOver {
			break
		}
	}
	if g.Ledger.Len() > 0 {
		pterm.Info.Printfln("bids saved in %.0f%% of %d hands", 100*g.Ledger.SavedRate(), g.Ledger.Len())
	}
	if w, ok := g.Winner(); ok {
		pterm.Success.Printfln("%s wins with %d", w.Name, w.Score)
	}
	if logPath != "" {
		return writeJSON(logPath, g.Log)
	}
	return nil
}

func runSimulate(ctx context.Context, args []string) error {
	c, logger, err := setup("simulate", args, nil)
	if err != nil {
		return err
	}
	defer logger.Sync()

	spinner, _ := pterm.DefaultSpinner.Start(fmt.Sprintf("playing %d games", c.Games))
	rep, err := simulation.RunGames(ctx, simulation.NewRunner(c.Workers, logger), simulation.GamesConfig{
		Variant:      c.GameVariant(),
		Bots:         c.Bots,
		Games:        c.Games,
		MaxHands:     c.MaxHands,
		WinningScore: c.WinningScore,
		Seed:         seedOrRandom(c.Seed),
	})
	if err != nil {
		spinner.Fail(err.Error())
		return err
	}
	spinner.Success("done")
	renderGames(rep)
	return nil
}

func runBids(ctx context.Context, args []string) error {
	var handText, trumpText string
	c, logger, err := setup("bids", args, func(fs *flag.FlagSet) {
		fs.StringVar(&handText, "hand", "", "comma separated cards, e.g. \"A♠,10♠,K♠\"")
		fs.StringVar(&trumpText, "trump", "", "trump suit (default: best ranked suit of the hand)")
	})
	if err != nil {
		return err
	}
	defer logger.Sync()

	v := c.GameVariant()
	hand, err := parseHand(handText)
	if err != nil {
		return err
	}
	trump := engine.Evaluate(engine.NewHand(hand...), v).BestSuit()
	if trumpText != "" {
		if trump, err = engine.ParseSuit(trumpText); err != nil {
			return err
		}
	}

	pterm.DefaultSection.Printf("%d trials of %s with %s trump", c.Trials, engine.NewHand(hand...), trump)
	rep, err := simulation.BidTrials(ctx, simulation.NewRunner(c.Workers, logger), simulation.BidConfig{
		Variant: v,
		Hand:    hand,
		Trump:   trump,
		Trials:  c.Trials,
		Seed:    seedOrRandom(c.Seed),
		Bots:    c.Bots,
	})
	if err != nil {
		return err
	}
	renderBids(rep)
	return nil
}

func runAnalyze(ctx context.Context, args []string) error {
	var logPath string
	var index int
	c, logger, err := setup("analyze", args, func(fs *flag.FlagSet) {
		fs.StringVar(&logPath, "log", "", "action log written by play -log")
		fs.IntVar(&index, "index", -1, "log entry holding the state (default: a random card play)")
	})
	if err != nil {
		return err
	}
	defer logger.Sync()
	if logPath == "" {
		return errors.New("analyze needs -log")
	}

	data, err := os.ReadFile(logPath)
	if err != nil {
		return err
	}
	var log engine.ActionLog
	if err := json.Unmarshal(data, &log); err != nil {
		return fmt.Errorf("failed to read action log: %w", err)
	}
	seed := seedOrRandom(c.Seed)
	if index < 0 {
		if index, err = log.RandomCardPlay(rand.New(rand.NewPCG(seed, seed))); err != nil {
			return err
		}
	}
	state, err := log.State(index)
	if err != nil {
		return err
	}
	if a := log.ActionIndexAfter(index); a >= 0 {
		pterm.Info.Printfln("recorded: %s", log.Entries[a].Action)
	}

	evals, err := simulation.EvaluatePlays(ctx, simulation.NewRunner(c.Workers, logger), simulation.PlayConfig{
		State:    state,
		Trials:   c.Trials,
		Seed:     seed,
		Fallback: c.Bots,
	})
	if err != nil {
		return err
	}
	renderPlays(evals)
	return nil
}

func parseHand(text string) ([]engine.Card, error) {
	if strings.TrimSpace(text) == "" {
		return nil, errors.New("bids needs -hand")
	}
	var out []engine.Card
	for _, part := range strings.Split(text, ",") {
		c, err := engine.ParseCard(part)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

func seedOrRandom(seed uint64) uint64 {
	if seed != 0 {
		return seed
	}
	return rand.Uint64()
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return err
	}
	pterm.Info.Printfln("wrote %s", path)
	return nil
}
