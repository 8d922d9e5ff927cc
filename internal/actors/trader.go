package actors

import (
	"fmt"
	"math"

	"github.com/tcgarvin/spacesim2/internal/catalog"
	"github.com/tcgarvin/spacesim2/internal/economy"
	"github.com/tcgarvin/spacesim2/internal/world"
)

// TraderBrain hauls one commodity between planets, buying where it is
// cheap and selling where it is dear.
type TraderBrain struct {
	CommodityID string
}

const (
	traderFallbackFuelPrice  int64 = 5
	traderFallbackCargoPrice int64 = 10
	traderMarginFloor              = 1.1 // minimum sell/buy ratio worth a trip
)

func NewTraderBrain(commodityID string) *TraderBrain {
	return &TraderBrain{CommodityID: commodityID}
}

func (b *TraderBrain) DecideTradeActions(ctx *Context, s *Ship) {
	market := s.Planet.Market
	s.cancelAllOrders()

	fuel := ctx.Catalog.Commodities.MustGet("nova_fuel")
	cargo := ctx.Catalog.Commodities.MustGet(b.CommodityID)
	inv := s.Inventory()

	// Keep the tank at least half full before committing hold space to
	// cargo.
	if stock := inv.Quantity(fuel); stock < s.FuelCapacity/2 {
		price := marketBuyPrice(s.Planet, fuel, traderFallbackFuelPrice)
		qty := s.FuelCapacity - stock
		if space := s.CargoSpace(); qty > space {
			qty = space
		}
		if afford := int(inv.AvailableMoney() / price); qty > afford {
			qty = afford
		}
		if qty > 0 {
			if o, err := market.PlaceOrder(s, fuel, economy.Buy, price, qty, ctx.Turn); err == nil {
				s.ActiveOrders[o.ID] = fuel.ID
				s.LastAction = fmt.Sprintf("bid for %d %s at %d", qty, fuel.ID, price)
			}
		}
		return
	}

	if held := inv.Available(cargo); held > 0 {
		// Only unload where no reachable market pays better.
		if best := bestSellPlanet(ctx, s, cargo); best == s.Planet {
			price := marketSellPrice(s.Planet, cargo, traderFallbackCargoPrice)
			if o, err := market.PlaceOrder(s, cargo, economy.Sell, price, held, ctx.Turn); err == nil {
				s.ActiveOrders[o.ID] = cargo.ID
				s.LastAction = fmt.Sprintf("offered %d %s at %d", held, cargo.ID, price)
			}
		}
		return
	}

	// Empty hold: load up where goods are cheapest.
	if cheapest := bestBuyPlanet(ctx, s, cargo); cheapest == s.Planet {
		price := marketBuyPrice(s.Planet, cargo, traderFallbackCargoPrice)
		qty := s.CargoSpace()
		if afford := int(inv.AvailableMoney() / price); qty > afford {
			qty = afford
		}
		if qty > 0 {
			if o, err := market.PlaceOrder(s, cargo, economy.Buy, price, qty, ctx.Turn); err == nil {
				s.ActiveOrders[o.ID] = cargo.ID
				s.LastAction = fmt.Sprintf("bid for %d %s at %d", qty, cargo.ID, price)
			}
		}
	}
}

func (b *TraderBrain) DecideTravel(ctx *Context, s *Ship) *world.Planet {
	if s.Status != ShipDocked {
		return nil
	}
	cargo := ctx.Catalog.Commodities.MustGet(b.CommodityID)

	if s.Inventory().Quantity(cargo) > 0 {
		if best := bestSellPlanet(ctx, s, cargo); best != s.Planet {
			// A trip only pays if the spread clears the margin floor.
			here := float64(marketSellPrice(s.Planet, cargo, traderFallbackCargoPrice))
			there := float64(marketSellPrice(best, cargo, traderFallbackCargoPrice))
			if there >= here*traderMarginFloor {
				return best
			}
		}
		return nil
	}

	if cheapest := bestBuyPlanet(ctx, s, cargo); cheapest != s.Planet {
		return cheapest
	}
	return nil
}

// bestSellPlanet returns the reachable planet (current included) with the
// highest expected sale price for c.
func bestSellPlanet(ctx *Context, s *Ship, c *catalog.Commodity) *world.Planet {
	best := s.Planet
	bestPrice := marketSellPrice(s.Planet, c, traderFallbackCargoPrice)
	for _, p := range s.ReachablePlanets(ctx) {
		if price := marketSellPrice(p, c, traderFallbackCargoPrice); price > bestPrice {
			best, bestPrice = p, price
		}
	}
	return best
}

// bestBuyPlanet returns the reachable planet (current included) where c
// is cheapest to acquire.
func bestBuyPlanet(ctx *Context, s *Ship, c *catalog.Commodity) *world.Planet {
	best := s.Planet
	bestPrice := marketBuyPrice(s.Planet, c, traderFallbackCargoPrice)
	for _, p := range s.ReachablePlanets(ctx) {
		if price := marketBuyPrice(p, c, traderFallbackCargoPrice); price < bestPrice {
			best, bestPrice = p, price
		}
	}
	return best
}

// marketBuyPrice estimates what it costs to acquire c on p right now.
func marketBuyPrice(p *world.Planet, c *catalog.Commodity, fallback int64) int64 {
	if ask, ok := p.Market.BestAsk(c); ok {
		return ask
	}
	if avg, ok := p.Market.AvgPrice(c); ok {
		return int64(math.Ceil(avg))
	}
	return fallback
}

// marketSellPrice estimates what c fetches on p right now.
func marketSellPrice(p *world.Planet, c *catalog.Commodity, fallback int64) int64 {
	if avg, ok := p.Market.AvgPrice(c); ok {
		price := int64(math.Round(avg * 1.05))
		if price < 2 {
			price = 2
		}
		return price
	}
	if bid, ok := p.Market.BestBid(c); ok {
		return bid
	}
	return fallback
}
