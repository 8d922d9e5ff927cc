package actors

import (
	"math"

	"github.com/tcgarvin/spacesim2/internal/catalog"
	"github.com/tcgarvin/spacesim2/internal/production"
)

// ColonistBrain is the generalist strategy: keep the pantry stocked, run
// whatever process beats government work at current prices, and trade the
// drive goods around recent averages.
type ColonistBrain struct{}

const (
	colonistPantryLow    = 5
	colonistPantryTarget = 10
	colonistFoodKeep     = 6
	// Gathering on a planet below this availability isn't worth the turn.
	gatherAvailabilityFloor = 0.15
)

func (b *ColonistBrain) DecideEconomicAction(ctx *Context, a *Actor) Command {
	food := ctx.Catalog.Commodities.MustGet("food")

	// Needs first: make food when the pantry runs low.
	if a.Inventory().Available(food) < colonistPantryLow {
		if p := ctx.Catalog.Processes.Get("make_food"); p != nil && production.CanExecute(p, a.Inventory()) {
			return ProcessCommand{Process: p}
		}
		if p := ctx.Catalog.Processes.Get("gather_biomass"); p != nil && b.worthGathering(p, a) && production.CanExecute(p, a.Inventory()) {
			return ProcessCommand{Process: p}
		}
	}

	if p := b.mostProfitable(ctx, a); p != nil {
		return ProcessCommand{Process: p}
	}
	return GovernmentWorkCommand{}
}

// worthGathering gates extraction work on the planet's resource
// availability.
func (b *ColonistBrain) worthGathering(p *catalog.Process, a *Actor) bool {
	for c := range p.Outputs {
		if a.Planet.Attributes.Availability(c.ID) < gatherAvailabilityFloor {
			return false
		}
	}
	return true
}

// mostProfitable scans the catalog for the executable process with the
// best expected margin at recent market prices, if it beats the
// government wage.
func (b *ColonistBrain) mostProfitable(ctx *Context, a *Actor) *catalog.Process {
	market := a.Planet.Market
	var best *catalog.Process
	bestProfit := float64(GovernmentWage)

	for _, p := range ctx.Catalog.Processes.All() {
		if !production.CanExecute(p, a.Inventory()) || !b.worthGathering(p, a) {
			continue
		}
		cost := 0.0
		for _, c := range sortedCommodities(p.Inputs) {
			if price, ok := market.AvgPrice(c); ok {
				cost += price * float64(p.Inputs[c])
			}
		}
		value := 0.0
		for _, c := range sortedCommodities(p.Outputs) {
			if price, ok := market.AvgPrice(c); ok {
				value += price * float64(p.Outputs[c])
			}
		}
		if profit := value - cost; profit > bestProfit {
			best = p
			bestProfit = profit
		}
	}
	return best
}

func (b *ColonistBrain) DecideMarketActions(ctx *Context, a *Actor) []Command {
	market := a.Planet.Market
	var cmds []Command

	// Re-quote from scratch each turn.
	buys, sells := market.OrdersFor(a)
	for _, o := range append(buys, sells...) {
		cmds = append(cmds, CancelOrderCommand{Order: o})
	}

	food := ctx.Catalog.Commodities.MustGet("food")
	clothing := ctx.Catalog.Commodities.MustGet("clothing")
	structural := ctx.Catalog.Commodities.MustGet("structural_component")

	// One budget across all the bids below so they can't collectively
	// overcommit the actor's money.
	budget := a.Inventory().AvailableMoney()
	cmds = append(cmds, tradeCommands(a, food, colonistFoodKeep, colonistPantryTarget, &budget)...)
	cmds = append(cmds, tradeCommands(a, clothing, 1, 2, &budget)...)
	cmds = append(cmds, tradeCommands(a, structural, 1, 3, &budget)...)
	return cmds
}

// tradeCommands buys a commodity up to target holdings and sells any
// surplus above keep. Prices lean on the book first, history second.
func tradeCommands(a *Actor, c *catalog.Commodity, keep, target int, budget *int64) []Command {
	inv := a.Inventory()
	var cmds []Command

	// The cancellations issued alongside these commands run first, so
	// price from the book but size from total holdings.
	held := inv.Quantity(c)

	if held < target {
		price := buyPrice(a, c)
		afford := *budget / price
		qty := target - held
		if int64(qty) > afford {
			qty = int(afford)
		}
		if qty > 0 {
			*budget -= int64(qty) * price
			cmds = append(cmds, PlaceBuyOrderCommand{Commodity: c, Quantity: qty, Price: price})
		}
	}

	// Sell only well above the buy target so the brain doesn't churn
	// against its own orders.
	if surplus := held - target - keep; surplus > 0 {
		cmds = append(cmds, PlaceSellOrderCommand{Commodity: c, Quantity: surplus, Price: sellPrice(a, c)})
	}
	return cmds
}

func buyPrice(a *Actor, c *catalog.Commodity) int64 {
	market := a.Planet.Market
	if ask, ok := market.BestAsk(c); ok {
		return ask
	}
	if avg, ok := market.AvgPrice(c); ok {
		return int64(math.Ceil(avg))
	}
	return 2
}

func sellPrice(a *Actor, c *catalog.Commodity) int64 {
	market := a.Planet.Market
	if avg, ok := market.AvgPrice(c); ok {
		p := int64(math.Round(avg * 1.1))
		if p < 2 {
			p = 2
		}
		return p
	}
	if bid, ok := market.BestBid(c); ok {
		return bid
	}
	return 2
}
