package actors

import (
	"math"
	"sort"

	"github.com/tcgarvin/spacesim2/internal/catalog"
	"github.com/tcgarvin/spacesim2/internal/production"
)

// IndustrialistBrain is the specialist strategy: run one process chain,
// buy its inputs, sell its outputs.
type IndustrialistBrain struct {
	ProcessID string
}

// Input stock depth the industrialist tries to hold, in recipe runs.
const industrialistInputRuns = 3

func (b *IndustrialistBrain) DecideEconomicAction(ctx *Context, a *Actor) Command {
	p := ctx.Catalog.Processes.Get(b.ProcessID)
	if p != nil && production.CanExecute(p, a.Inventory()) {
		return ProcessCommand{Process: p}
	}
	// Inputs stuck in transit or on order; earn while waiting.
	return GovernmentWorkCommand{}
}

func (b *IndustrialistBrain) DecideMarketActions(ctx *Context, a *Actor) []Command {
	p := ctx.Catalog.Processes.Get(b.ProcessID)
	if p == nil {
		return nil
	}
	market := a.Planet.Market
	inv := a.Inventory()
	var cmds []Command

	buys, sells := market.OrdersFor(a)
	for _, o := range append(buys, sells...) {
		cmds = append(cmds, CancelOrderCommand{Order: o})
	}

	// Keep enough inputs banked for a few runs. One budget across the
	// input bids so they can't collectively overcommit, placed in a
	// stable order.
	budget := inv.AvailableMoney()
	for _, c := range sortedCommodities(p.Inputs) {
		want := p.Inputs[c]*industrialistInputRuns - inv.Quantity(c)
		if want <= 0 {
			continue
		}
		price := buyPrice(a, c)
		if afford := budget / price; int64(want) > afford {
			want = int(afford)
		}
		if want > 0 {
			budget -= int64(want) * price
			cmds = append(cmds, PlaceBuyOrderCommand{Commodity: c, Quantity: want, Price: price})
		}
	}

	// Move everything the chain produces.
	for _, c := range sortedCommodities(p.Outputs) {
		stock := inv.Available(c)
		if stock == 0 {
			continue
		}
		price := int64(2)
		if avg, ok := market.AvgPrice(c); ok {
			price = int64(math.Round(avg * 1.05))
		} else if bid, ok := market.BestBid(c); ok {
			price = bid
		}
		if price < 2 {
			price = 2
		}
		cmds = append(cmds, PlaceSellOrderCommand{Commodity: c, Quantity: stock, Price: price})
	}
	return cmds
}

// sortedCommodities returns a recipe map's keys in ID order, so order
// placement and budget allocation don't depend on map iteration.
func sortedCommodities(m map[*catalog.Commodity]int) []*catalog.Commodity {
	out := make([]*catalog.Commodity, 0, len(m))
	for c := range m {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
