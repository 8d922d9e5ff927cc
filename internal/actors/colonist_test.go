package actors

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tcgarvin/spacesim2/internal/economy"
	"github.com/tcgarvin/spacesim2/internal/entropy"
	"github.com/tcgarvin/spacesim2/internal/world"
)

func barrenAttributes() world.Attributes {
	return world.Attributes{
		Biomass:           0.05,
		Fiber:             0.05,
		Wood:              0.05,
		CommonMetalOre:    0.05,
		NovaFuelOre:       0.05,
		BuildingMaterials: 0.05,
	}
}

func TestColonistMakesFoodWhenPantryLow(t *testing.T) {
	cat := loadTestCatalog(t)
	a := newTestActor(t, cat, 0)
	a.Inventory().Add(cat.Commodities.MustGet("biomass"), 2)
	ctx := testContext(cat, entropy.NewSequence())

	cmd := a.Brain.DecideEconomicAction(ctx, a)
	pc, ok := cmd.(ProcessCommand)
	require.True(t, ok)
	require.Equal(t, "make_food", pc.Process.ID)
}

func TestColonistGathersWhenNoBiomass(t *testing.T) {
	cat := loadTestCatalog(t)
	a := newTestActor(t, cat, 0)
	ctx := testContext(cat, entropy.NewSequence())

	cmd := a.Brain.DecideEconomicAction(ctx, a)
	pc, ok := cmd.(ProcessCommand)
	require.True(t, ok)
	require.Equal(t, "gather_biomass", pc.Process.ID)
}

func TestColonistSkipsGatheringOnBarrenPlanet(t *testing.T) {
	cat := loadTestCatalog(t)
	a := newTestActor(t, cat, 0)
	a.Planet.Attributes = barrenAttributes()
	ctx := testContext(cat, entropy.NewSequence())

	// With every resource effectively absent, nothing beats the
	// government wage on an empty market.
	cmd := a.Brain.DecideEconomicAction(ctx, a)
	_, ok := cmd.(GovernmentWorkCommand)
	require.True(t, ok)
}

func TestColonistFallsBackToGovernmentWorkWhenFed(t *testing.T) {
	cat := loadTestCatalog(t)
	a := newTestActor(t, cat, 0)
	a.Inventory().Add(cat.Commodities.MustGet("food"), colonistPantryTarget)

	// No market history means no process shows a profit over the wage;
	// rule out gathering too.
	a.Planet.Attributes = barrenAttributes()
	ctx := testContext(cat, entropy.NewSequence())

	cmd := a.Brain.DecideEconomicAction(ctx, a)
	_, ok := cmd.(GovernmentWorkCommand)
	require.True(t, ok)
}

func TestColonistBuysDriveGoods(t *testing.T) {
	cat := loadTestCatalog(t)
	a := newTestActor(t, cat, 100)
	food := cat.Commodities.MustGet("food")
	ctx := testContext(cat, entropy.NewSequence())

	cmds := a.Brain.DecideMarketActions(ctx, a)
	require.NotEmpty(t, cmds)

	var foodBuy *PlaceBuyOrderCommand
	for _, cmd := range cmds {
		if buy, ok := cmd.(PlaceBuyOrderCommand); ok && buy.Commodity == food {
			foodBuy = &buy
		}
	}
	require.NotNil(t, foodBuy)
	require.Equal(t, colonistPantryTarget, foodBuy.Quantity)
	// No book, no history: the fallback bid.
	require.Equal(t, int64(2), foodBuy.Price)
}

func TestColonistBuyQuantityCappedByMoney(t *testing.T) {
	cat := loadTestCatalog(t)
	a := newTestActor(t, cat, 6)
	food := cat.Commodities.MustGet("food")
	ctx := testContext(cat, entropy.NewSequence())

	cmds := a.Brain.DecideMarketActions(ctx, a)
	for _, cmd := range cmds {
		if buy, ok := cmd.(PlaceBuyOrderCommand); ok && buy.Commodity == food {
			// 6 credits at the fallback price of 2 affords 3 units.
			require.Equal(t, 3, buy.Quantity)
			return
		}
	}
	t.Fatal("expected a food buy order")
}

func TestColonistSellsSurplusFood(t *testing.T) {
	cat := loadTestCatalog(t)
	a := newTestActor(t, cat, 0)
	food := cat.Commodities.MustGet("food")
	a.Inventory().Add(food, 20)
	ctx := testContext(cat, entropy.NewSequence())

	cmds := a.Brain.DecideMarketActions(ctx, a)
	var foodSell *PlaceSellOrderCommand
	for _, cmd := range cmds {
		if sell, ok := cmd.(PlaceSellOrderCommand); ok && sell.Commodity == food {
			foodSell = &sell
		}
	}
	require.NotNil(t, foodSell)
	require.Equal(t, 20-colonistPantryTarget-colonistFoodKeep, foodSell.Quantity)
}

func TestColonistRequotesEachTurn(t *testing.T) {
	cat := loadTestCatalog(t)
	a := newTestActor(t, cat, 100)
	ctx := testContext(cat, entropy.NewSequence())

	for _, cmd := range a.Brain.DecideMarketActions(ctx, a) {
		require.NoError(t, cmd.Execute(ctx, a))
	}
	buys, _ := a.Planet.Market.OrdersFor(a)
	require.NotEmpty(t, buys)

	// The next decision starts with cancels for every resting order.
	cancels := 0
	for _, cmd := range a.Brain.DecideMarketActions(ctx, a) {
		if _, ok := cmd.(CancelOrderCommand); ok {
			cancels++
		}
	}
	require.Equal(t, len(buys), cancels)
}

func TestBuyAndSellPriceFallbacks(t *testing.T) {
	cat := loadTestCatalog(t)
	a := newTestActor(t, cat, 100)
	seller := newTestActor(t, cat, 0)
	seller.Planet = a.Planet
	food := cat.Commodities.MustGet("food")

	require.Equal(t, int64(2), buyPrice(a, food))
	require.Equal(t, int64(2), sellPrice(a, food))

	// A resting ask sets the buy price directly.
	seller.Inventory().Add(food, 5)
	_, err := a.Planet.Market.PlaceOrder(seller, food, economy.Sell, 7, 5, 1)
	require.NoError(t, err)
	require.Equal(t, int64(7), buyPrice(a, food))

	// A crossing bid fills at the ask of 7; trade history at 7 pushes
	// the colonist's own ask to round(7 * 1.1) = 8.
	buyer := newTestActor(t, cat, 100)
	buyer.Planet = a.Planet
	_, err = a.Planet.Market.PlaceOrder(buyer, food, economy.Buy, 10, 2, 1)
	require.NoError(t, err)
	_, err = a.Planet.Market.Settle(1)
	require.NoError(t, err)
	require.Equal(t, int64(8), sellPrice(a, food))
}
