package actors

import (
	"math"

	"github.com/tcgarvin/spacesim2/internal/catalog"
)

// MarketMakerBrain quotes both sides of one commodity around its moving
// average, earning the spread and giving thin books a resting price.
type MarketMakerBrain struct {
	CommodityID string
	// Spread is the fractional distance between bid and ask, e.g. 0.2
	// quotes 10% below and above the mid.
	Spread float64
	// MaxPosition caps how much stock the maker will sit on.
	MaxPosition int
}

const makerFallbackMid = 10.0

func (b *MarketMakerBrain) DecideEconomicAction(ctx *Context, a *Actor) Command {
	// Makers don't produce; wage work keeps quoting capital topped up.
	return GovernmentWorkCommand{}
}

func (b *MarketMakerBrain) DecideMarketActions(ctx *Context, a *Actor) []Command {
	c := ctx.Catalog.Commodities.Get(b.CommodityID)
	if c == nil {
		return nil
	}
	market := a.Planet.Market
	inv := a.Inventory()
	var cmds []Command

	buys, sells := market.OrdersFor(a)
	for _, o := range append(buys, sells...) {
		cmds = append(cmds, CancelOrderCommand{Order: o})
	}

	mid := b.midPrice(a, c)
	bid := int64(math.Floor(mid * (1 - b.Spread/2)))
	ask := int64(math.Ceil(mid * (1 + b.Spread/2)))
	if bid < 1 {
		bid = 1
	}
	if ask <= bid {
		ask = bid + 1
	}

	// Bid for stock up to the position cap.
	room := b.MaxPosition - inv.Quantity(c)
	if room > 0 {
		if afford := inv.AvailableMoney() / bid; int64(room) > afford {
			room = int(afford)
		}
		if room > 0 {
			cmds = append(cmds, PlaceBuyOrderCommand{Commodity: c, Quantity: room, Price: bid})
		}
	}

	// Offer everything held.
	if stock := inv.Available(c); stock > 0 {
		cmds = append(cmds, PlaceSellOrderCommand{Commodity: c, Quantity: stock, Price: ask})
	}
	return cmds
}

func (b *MarketMakerBrain) midPrice(a *Actor, c *catalog.Commodity) float64 {
	market := a.Planet.Market
	if avg, ok := market.MovingAverage(c, 30); ok {
		return avg
	}
	q := market.BidAskSpread(c)
	switch {
	case q.HasBid && q.HasAsk:
		return float64(q.Bid+q.Ask) / 2
	case q.HasAsk:
		return float64(q.Ask)
	case q.HasBid:
		return float64(q.Bid)
	}
	return makerFallbackMid
}
