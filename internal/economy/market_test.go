package economy

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

type testTrader struct {
	name string
	inv  *Inventory
}

func (t *testTrader) Name() string          { return t.name }
func (t *testTrader) Inventory() *Inventory { return t.inv }

func newTestTrader(name string, money int64) *testTrader {
	inv := NewInventory()
	inv.AddMoney(money)
	return &testTrader{name: name, inv: inv}
}

func TestPlaceOrderValidation(t *testing.T) {
	m := NewMarket()
	food := testCommodity("food")
	a := newTestTrader("a", 100)

	_, err := m.PlaceOrder(a, food, Buy, 5, 0, 1)
	require.Error(t, err)

	_, err = m.PlaceOrder(a, food, Buy, 0, 3, 1)
	require.Error(t, err)

	// A buy reserves price*qty money.
	o, err := m.PlaceOrder(a, food, Buy, 5, 3, 1)
	require.NoError(t, err)
	require.Equal(t, int64(15), a.inv.ReservedMoney())
	require.Equal(t, 3, o.Remaining)

	// A sell without stock fails and leaves nothing resting.
	_, err = m.PlaceOrder(a, food, Sell, 5, 1, 1)
	require.ErrorIs(t, err, ErrInsufficientAvailable)

	buys, sells := m.OrdersFor(a)
	require.Len(t, buys, 1)
	require.Empty(t, sells)
}

func TestSettleBasicTrade(t *testing.T) {
	m := NewMarket()
	food := testCommodity("food")

	seller := newTestTrader("seller", 0)
	seller.inv.Add(food, 3)
	buyer := newTestTrader("buyer", 100)

	_, err := m.PlaceOrder(seller, food, Sell, 5, 3, 1)
	require.NoError(t, err)
	_, err = m.PlaceOrder(buyer, food, Buy, 6, 2, 1)
	require.NoError(t, err)

	txs, err := m.Settle(1)
	require.NoError(t, err)
	require.Len(t, txs, 1)
	require.Equal(t, 2, txs[0].Quantity)
	require.Equal(t, int64(5), txs[0].Price)

	// Trade executes at the seller's ask; the buyer's excess bid
	// reservation comes back.
	require.Equal(t, int64(90), buyer.inv.Money())
	require.Equal(t, int64(90), buyer.inv.AvailableMoney())
	require.Equal(t, 2, buyer.inv.Quantity(food))

	require.Equal(t, int64(10), seller.inv.Money())
	require.Equal(t, 1, seller.inv.Quantity(food))
	require.Equal(t, 1, seller.inv.Reserved(food))

	// The seller's remainder rests in the book.
	_, sells := m.OrdersFor(seller)
	require.Len(t, sells, 1)
	require.Equal(t, 1, sells[0].Remaining)
}

func TestSettlePriceTimePriority(t *testing.T) {
	m := NewMarket()
	food := testCommodity("food")

	low := newTestTrader("low", 100)
	high := newTestTrader("high", 100)
	seller := newTestTrader("seller", 0)
	seller.inv.Add(food, 1)

	// The lower bid arrives first, but the higher bid wins the fill.
	_, err := m.PlaceOrder(low, food, Buy, 10, 1, 1)
	require.NoError(t, err)
	_, err = m.PlaceOrder(high, food, Buy, 12, 1, 1)
	require.NoError(t, err)
	_, err = m.PlaceOrder(seller, food, Sell, 11, 1, 1)
	require.NoError(t, err)

	txs, err := m.Settle(1)
	require.NoError(t, err)
	require.Len(t, txs, 1)
	require.Equal(t, high, txs[0].Buyer)
	require.Equal(t, int64(11), txs[0].Price)
	require.Equal(t, 1, high.inv.Quantity(food))
	require.Equal(t, int64(89), high.inv.Money())

	// The losing bid stays fully reserved in the book.
	require.Equal(t, int64(10), low.inv.ReservedMoney())
	require.Equal(t, 0, low.inv.Quantity(food))
}

func TestSettleTimePriorityAtEqualPrice(t *testing.T) {
	m := NewMarket()
	food := testCommodity("food")

	first := newTestTrader("first", 100)
	second := newTestTrader("second", 100)
	seller := newTestTrader("seller", 0)
	seller.inv.Add(food, 1)

	_, err := m.PlaceOrder(first, food, Buy, 10, 1, 1)
	require.NoError(t, err)
	_, err = m.PlaceOrder(second, food, Buy, 10, 1, 2)
	require.NoError(t, err)
	_, err = m.PlaceOrder(seller, food, Sell, 10, 1, 2)
	require.NoError(t, err)

	txs, err := m.Settle(2)
	require.NoError(t, err)
	require.Len(t, txs, 1)
	require.Equal(t, first, txs[0].Buyer)
}

func TestPartialFillKeepsTimePriority(t *testing.T) {
	m := NewMarket()
	food := testCommodity("food")

	buyer := newTestTrader("buyer", 100)
	s1 := newTestTrader("s1", 0)
	s1.inv.Add(food, 4)

	bid, err := m.PlaceOrder(buyer, food, Buy, 10, 6, 1)
	require.NoError(t, err)
	_, err = m.PlaceOrder(s1, food, Sell, 10, 4, 1)
	require.NoError(t, err)

	txs, err := m.Settle(1)
	require.NoError(t, err)
	require.Len(t, txs, 1)
	require.Equal(t, 4, txs[0].Quantity)
	require.Equal(t, 2, bid.Remaining)
	require.Equal(t, int64(20), buyer.inv.ReservedMoney())

	// A younger equal-priced bid joins; the remainder still fills first.
	late := newTestTrader("late", 100)
	_, err = m.PlaceOrder(late, food, Buy, 10, 2, 2)
	require.NoError(t, err)

	s2 := newTestTrader("s2", 0)
	s2.inv.Add(food, 2)
	_, err = m.PlaceOrder(s2, food, Sell, 10, 2, 2)
	require.NoError(t, err)

	txs, err = m.Settle(2)
	require.NoError(t, err)
	require.Len(t, txs, 1)
	require.Equal(t, buyer, txs[0].Buyer)
	require.Equal(t, 6, buyer.inv.Quantity(food))
	require.Equal(t, int64(0), buyer.inv.ReservedMoney())
}

func TestSettleConservesMoneyAndGoods(t *testing.T) {
	m := NewMarket()
	food := testCommodity("food")

	traders := []*testTrader{
		newTestTrader("a", 50),
		newTestTrader("b", 80),
		newTestTrader("c", 0),
		newTestTrader("d", 0),
	}
	traders[2].inv.Add(food, 5)
	traders[3].inv.Add(food, 7)

	_, err := m.PlaceOrder(traders[0], food, Buy, 4, 5, 1)
	require.NoError(t, err)
	_, err = m.PlaceOrder(traders[1], food, Buy, 6, 3, 1)
	require.NoError(t, err)
	_, err = m.PlaceOrder(traders[2], food, Sell, 3, 5, 1)
	require.NoError(t, err)
	_, err = m.PlaceOrder(traders[3], food, Sell, 5, 7, 1)
	require.NoError(t, err)

	_, err = m.Settle(1)
	require.NoError(t, err)

	var money int64
	var goods int
	for _, tr := range traders {
		money += tr.inv.Money()
		goods += tr.inv.Quantity(food)
	}
	require.Equal(t, int64(130), money)
	require.Equal(t, 12, goods)
}

func TestCancelRestoresReservation(t *testing.T) {
	m := NewMarket()
	food := testCommodity("food")

	buyer := newTestTrader("buyer", 100)
	seller := newTestTrader("seller", 0)
	seller.inv.Add(food, 5)

	bid, err := m.PlaceOrder(buyer, food, Buy, 10, 3, 1)
	require.NoError(t, err)
	ask, err := m.PlaceOrder(seller, food, Sell, 12, 5, 1)
	require.NoError(t, err)

	require.NoError(t, m.Cancel(bid))
	require.Equal(t, int64(0), buyer.inv.ReservedMoney())

	require.NoError(t, m.CancelByID(ask.ID))
	require.Equal(t, 5, seller.inv.Available(food))

	err = m.Cancel(bid)
	require.ErrorIs(t, err, ErrOrderNotFound)
	err = m.CancelByID(uuid.New())
	require.ErrorIs(t, err, ErrOrderNotFound)

	txs, err := m.Settle(1)
	require.NoError(t, err)
	require.Empty(t, txs)
}

func TestModifyAdjustsReservationKeepsPriority(t *testing.T) {
	m := NewMarket()
	food := testCommodity("food")

	buyer := newTestTrader("buyer", 100)
	rival := newTestTrader("rival", 100)
	seller := newTestTrader("seller", 0)
	seller.inv.Add(food, 1)

	bid, err := m.PlaceOrder(buyer, food, Buy, 5, 2, 1)
	require.NoError(t, err)
	require.Equal(t, int64(10), buyer.inv.ReservedMoney())

	require.NoError(t, m.Modify(bid, 8))
	require.Equal(t, int64(16), buyer.inv.ReservedMoney())

	require.NoError(t, m.Modify(bid, 6))
	require.Equal(t, int64(12), buyer.inv.ReservedMoney())

	// A rival bidding the same price later still loses: the modified
	// order keeps its original timestamp.
	_, err = m.PlaceOrder(rival, food, Buy, 6, 1, 2)
	require.NoError(t, err)
	_, err = m.PlaceOrder(seller, food, Sell, 6, 1, 2)
	require.NoError(t, err)

	txs, err := m.Settle(2)
	require.NoError(t, err)
	require.Len(t, txs, 1)
	require.Equal(t, buyer, txs[0].Buyer)
}

func TestModifyInsufficientMoneyFails(t *testing.T) {
	m := NewMarket()
	food := testCommodity("food")

	buyer := newTestTrader("buyer", 10)
	bid, err := m.PlaceOrder(buyer, food, Buy, 5, 2, 1)
	require.NoError(t, err)

	err = m.Modify(bid, 50)
	require.ErrorIs(t, err, ErrInsufficientAvailable)
	require.Equal(t, int64(5), bid.Price)
	require.Equal(t, int64(10), buyer.inv.ReservedMoney())
}

func TestNoCrossNoTrade(t *testing.T) {
	m := NewMarket()
	food := testCommodity("food")

	buyer := newTestTrader("buyer", 100)
	seller := newTestTrader("seller", 0)
	seller.inv.Add(food, 1)

	_, err := m.PlaceOrder(buyer, food, Buy, 4, 1, 1)
	require.NoError(t, err)
	_, err = m.PlaceOrder(seller, food, Sell, 5, 1, 1)
	require.NoError(t, err)

	txs, err := m.Settle(1)
	require.NoError(t, err)
	require.Empty(t, txs)

	// Both orders rest across turns until they cross or are cancelled.
	require.Equal(t, 2, m.OpenOrders())
}
