package main

import (
	"fmt"
	"strconv"

	"github.com/pterm/pterm"

	"github.com/bradylowe/pinochle/internal/engine"
	"github.com/bradylowe/pinochle/internal/simulation"
)

func cardText(c engine.Card) string {
	if c.Suit.Red() {
		return pterm.Red(c.Short())
	}
	return pterm.LightCyan(c.Short())
}

func renderHand(g *engine.Game, res engine.HandResult) {
	bidder, _ := g.Player(res.Bidder)
	title := fmt.Sprintf("Hand %d", res.Hand)

	lines := fmt.Sprintf("Bidder: %s at %d\nTrump: %s\nMeld: %d\nCounters: %d\n",
		bidder.Name, res.Bid, res.Trump.Symbol(), res.Meld, res.Counters)
	switch {
	case res.Dropped:
		lines += "Bid dropped\n"
	case !res.Eligible:
		lines += "Not eligible to play\n"
	}
	if res.Saved {
		lines += pterm.Green(fmt.Sprintf("Saved %+d", res.Points))
	} else {
		lines += pterm.Red(fmt.Sprintf("Set %d", res.Points))
	}
	summary := pterm.DefaultBox.WithTitle(title).Sprint(lines)

	data := pterm.TableData{{"Player", "Meld", "Net", "Score"}}
	for _, p := range g.Players {
		data = append(data, []string{
			p.Name,
			strconv.Itoa(p.Meld.Final),
			fmt.Sprintf("%+d", g.Ledger.NetFor(p.Index)),
			strconv.Itoa(p.Score),
		})
	}
	scores, _ := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()

	_ = pterm.DefaultPanel.WithPanels(pterm.Panels{
		{{Data: summary}, {Data: scores}},
	}).Render()

	if t := g.LastTrick; t != nil {
		var played string
		for _, pl := range t.Plays() {
			played += pl.Player.Name + " " + cardText(pl.Card) + "  "
		}
		pterm.Info.Printfln("last trick: %s", played)
	}
}

func renderGames(r simulation.GamesReport) {
	pterm.DefaultSection.Println("Games")
	data := pterm.TableData{
		{"Metric", "Value"},
		{"Games", strconv.Itoa(r.Games)},
		{"Hands", strconv.Itoa(r.Hands)},
		{"Dropped bids", strconv.Itoa(r.Dropped)},
		{"Not eligible", strconv.Itoa(r.Ineligible)},
		{"Saved", fmt.Sprintf("%d (%.1f%%)", r.Saved, 100*r.SavedRate())},
		{"Mean bid", fmt.Sprintf("%.1f", r.MeanBid)},
		{"Mean meld", fmt.Sprintf("%.1f", r.MeanMeld)},
		{"Mean counters", fmt.Sprintf("%.1f", r.MeanCounters)},
	}
	_ = pterm.DefaultTable.WithHasHeader().WithData(data).Render()

	var bars pterm.Bars
	for seat, w := range r.Wins {
		bars = append(bars, pterm.Bar{Label: fmt.Sprintf("seat %d", seat), Value: w})
	}
	pterm.DefaultSection.WithLevel(2).Println("Wins")
	_ = pterm.DefaultBarChart.WithBars(bars).WithHorizontal().WithShowValue().Render()
}

func renderBids(r simulation.BidReport) {
	data := pterm.TableData{{"Bid", "Attempted", "Saved", "Rate"}}
	var bars pterm.Bars
	for _, b := range r.Bids() {
		rate := r.SaveRate(b)
		data = append(data, []string{
			strconv.Itoa(b),
			strconv.Itoa(r.Attempted[b]),
			strconv.Itoa(r.Saved[b]),
			fmt.Sprintf("%.0f%%", 100*rate),
		})
		bars = append(bars, pterm.Bar{Label: strconv.Itoa(b), Value: int(100 * rate)})
	}
	_ = pterm.DefaultTable.WithHasHeader().WithData(data).Render()
	_ = pterm.DefaultBarChart.WithBars(bars).WithHorizontal().WithShowValue().Render()

	if safe := r.HighestSafeBid(0.5); safe > 0 {
		pterm.Success.Printfln("highest bid saved at least half the time: %d", safe)
	} else {
		pterm.Warning.Println("no bid was saved at least half the time")
	}
}

func renderPlays(evals []simulation.PlayEvaluation) {
	data := pterm.TableData{{"Card", "Trials", "Mean counters", "Saved"}}
	for _, e := range evals {
		data = append(data, []string{
			cardText(e.Card),
			strconv.Itoa(e.Trials),
			fmt.Sprintf("%.2f", e.MeanCounters),
			fmt.Sprintf("%.0f%%", 100*e.SavedRate),
		})
	}
	_ = pterm.DefaultTable.WithHasHeader().WithData(data).Render()
	if len(evals) > 0 {
		pterm.Success.Printfln("best play: %s", cardText(evals[0].Card))
	}
}
