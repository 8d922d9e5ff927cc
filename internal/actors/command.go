package actors

import (
	"fmt"

	"github.com/tcgarvin/spacesim2/internal/catalog"
	"github.com/tcgarvin/spacesim2/internal/economy"
	"github.com/tcgarvin/spacesim2/internal/production"
)

// Command is one discrete action a brain has decided on. The scheduler
// executes commands on the actor's behalf so failures surface in one
// place.
type Command interface {
	Execute(ctx *Context, a *Actor) error
}

// GovernmentWage is the fixed payout for a turn of government work, the
// fallback action when nothing better is available.
const GovernmentWage = 10

// Skill improvement per successful process execution; a multiplier hit
// teaches a little more.
const (
	skillGainOnSuccess    = 0.01
	skillGainOnMultiplier = 0.02
)

// GovernmentWorkCommand earns the fixed wage.
type GovernmentWorkCommand struct{}

func (GovernmentWorkCommand) Execute(ctx *Context, a *Actor) error {
	a.Inventory().AddMoney(GovernmentWage)
	a.LastAction = fmt.Sprintf("government work for %d credits", GovernmentWage)
	a.LastOutcome = OutcomeNone
	return nil
}

// ProcessCommand runs one production process through the executor.
type ProcessCommand struct {
	Process *catalog.Process
}

func (c ProcessCommand) Execute(ctx *Context, a *Actor) error {
	p := c.Process

	// Processes with no relevant skills always succeed outright.
	rating := 1.0
	if len(p.Skills) > 0 {
		rating = a.Skills.CombinedRating(p.Skills)
	}

	res, err := production.Execute(p, a.Inventory(), rating, ctx.Rng)
	if err != nil {
		a.LastAction = fmt.Sprintf("could not run %s: %v", p.Name, err)
		a.LastOutcome = OutcomeNone
		return err
	}

	if res.Outcome == production.Failed {
		a.LastAction = fmt.Sprintf("failed process: %s", p.Name)
		a.LastOutcome = OutcomeProductionFailed
		return nil
	}

	gain := skillGainOnSuccess
	if res.MultiplierApplied {
		gain += skillGainOnMultiplier
	}
	for _, skillID := range p.Skills {
		a.Skills.Improve(skillID, gain)
	}

	if res.MultiplierApplied {
		a.LastAction = fmt.Sprintf("executed process: %s (x2)", p.Name)
	} else {
		a.LastAction = fmt.Sprintf("executed process: %s", p.Name)
	}
	a.LastOutcome = OutcomeProduced
	return nil
}

// PlaceBuyOrderCommand rests a bid on the actor's local market.
type PlaceBuyOrderCommand struct {
	Commodity *catalog.Commodity
	Quantity  int
	Price     int64
}

func (c PlaceBuyOrderCommand) Execute(ctx *Context, a *Actor) error {
	order, err := a.Planet.Market.PlaceOrder(a, c.Commodity, economy.Buy, c.Price, c.Quantity, ctx.Turn)
	if err != nil {
		return err
	}
	a.ActiveOrders[order.ID] = "buy " + c.Commodity.ID
	return nil
}

// PlaceSellOrderCommand rests an ask on the actor's local market.
type PlaceSellOrderCommand struct {
	Commodity *catalog.Commodity
	Quantity  int
	Price     int64
}

func (c PlaceSellOrderCommand) Execute(ctx *Context, a *Actor) error {
	order, err := a.Planet.Market.PlaceOrder(a, c.Commodity, economy.Sell, c.Price, c.Quantity, ctx.Turn)
	if err != nil {
		return err
	}
	a.ActiveOrders[order.ID] = "sell " + c.Commodity.ID
	return nil
}

// CancelOrderCommand pulls one of the actor's resting orders.
type CancelOrderCommand struct {
	Order *economy.Order
}

func (c CancelOrderCommand) Execute(ctx *Context, a *Actor) error {
	if err := a.Planet.Market.Cancel(c.Order); err != nil {
		return err
	}
	delete(a.ActiveOrders, c.Order.ID)
	return nil
}
