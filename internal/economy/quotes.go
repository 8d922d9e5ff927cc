package economy

import "github.com/tcgarvin/spacesim2/internal/catalog"

// Default history windows for price queries.
const (
	AvgPriceWindow      = 10
	MovingAverageWindow = 30
)

// BestBid returns the highest resting buy price. ok is false when no buy
// orders rest in the book.
func (m *Market) BestBid(c *catalog.Commodity) (int64, bool) {
	b, exists := m.books[c]
	if !exists || len(b.buys) == 0 {
		return 0, false
	}
	best := b.buys[0].Price
	for _, o := range b.buys[1:] {
		if o.Price > best {
			best = o.Price
		}
	}
	return best, true
}

// BestAsk returns the lowest resting sell price. ok is false when no sell
// orders rest in the book.
func (m *Market) BestAsk(c *catalog.Commodity) (int64, bool) {
	b, exists := m.books[c]
	if !exists || len(b.sells) == 0 {
		return 0, false
	}
	best := b.sells[0].Price
	for _, o := range b.sells[1:] {
		if o.Price < best {
			best = o.Price
		}
	}
	return best, true
}

// Quote is a point-in-time bid/ask snapshot for one commodity.
type Quote struct {
	Bid    int64
	HasBid bool
	Ask    int64
	HasAsk bool
}

// BidAskSpread returns the best resting prices on both sides.
func (m *Market) BidAskSpread(c *catalog.Commodity) Quote {
	q := Quote{}
	q.Bid, q.HasBid = m.BestBid(c)
	q.Ask, q.HasAsk = m.BestAsk(c)
	return q
}

// AvgPrice is the quantity-weighted average over the last AvgPriceWindow
// trades. ok is false when the commodity has no trade history.
func (m *Market) AvgPrice(c *catalog.Commodity) (float64, bool) {
	return m.MovingAverage(c, AvgPriceWindow)
}

// MovingAverage is the quantity-weighted average price over the last
// window trades of the commodity.
func (m *Market) MovingAverage(c *catalog.Commodity, window int) (float64, bool) {
	hist := m.history[c]
	if len(hist) == 0 || window <= 0 {
		return 0, false
	}
	if len(hist) > window {
		hist = hist[len(hist)-window:]
	}
	var value int64
	var units int64
	for _, tx := range hist {
		value += tx.Price * int64(tx.Quantity)
		units += int64(tx.Quantity)
	}
	if units == 0 {
		return 0, false
	}
	return float64(value) / float64(units), true
}

// History returns the commodity's full trade log for this run.
func (m *Market) History(c *catalog.Commodity) []Transaction {
	return m.history[c]
}

// OpenOrders returns how many orders rest across all books.
func (m *Market) OpenOrders() int {
	return len(m.byID)
}
