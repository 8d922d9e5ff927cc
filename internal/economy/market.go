package economy

import (
	"fmt"
	"sort"

	"github.com/google/uuid"

	"github.com/tcgarvin/spacesim2/internal/catalog"
)

// Transaction records one settled trade. Created only by Settle, immutable
// once created, appended to the market's history.
type Transaction struct {
	Commodity *catalog.Commodity
	Price     int64
	Quantity  int
	Buyer     Participant
	Seller    Participant
	Turn      int
}

// book holds the outstanding orders for one commodity.
type book struct {
	buys  []*Order
	sells []*Order
}

// Market is one planet's trading venue: one order book per commodity and
// a rolling trade history per commodity for price queries. Orders are
// placed and cancelled during the action phase; matching runs exactly
// once per turn in Settle.
type Market struct {
	books   map[*catalog.Commodity]*book
	byID    map[uuid.UUID]*Order
	history map[*catalog.Commodity][]Transaction
	nextSeq uint64
}

func NewMarket() *Market {
	return &Market{
		books:   make(map[*catalog.Commodity]*book),
		byID:    make(map[uuid.UUID]*Order),
		history: make(map[*catalog.Commodity][]Transaction),
	}
}

// PlaceOrder validates and reserves the committed resource (money for a
// buy, goods for a sell) on the owner's inventory, then rests the order
// in the book. Reservation failure aborts the whole placement.
func (m *Market) PlaceOrder(owner Participant, c *catalog.Commodity, side Side, price int64, qty int, turn int) (*Order, error) {
	if qty <= 0 {
		return nil, fmt.Errorf("order quantity must be positive, got %d", qty)
	}
	if price <= 0 {
		return nil, fmt.Errorf("order price must be positive, got %d", price)
	}

	inv := owner.Inventory()
	if side == Buy {
		if err := inv.ReserveMoney(price * int64(qty)); err != nil {
			return nil, err
		}
	} else {
		if err := inv.Reserve(c, qty); err != nil {
			return nil, err
		}
	}

	o := &Order{
		ID:        uuid.New(),
		Owner:     owner,
		Commodity: c,
		Side:      side,
		Price:     price,
		Quantity:  qty,
		Remaining: qty,
		Turn:      turn,
		seq:       m.nextSeq,
	}
	m.nextSeq++

	b := m.bookFor(c)
	if side == Buy {
		b.buys = append(b.buys, o)
	} else {
		b.sells = append(b.sells, o)
	}
	m.byID[o.ID] = o
	return o, nil
}

// Cancel removes an order from the book and fully reverses its
// reservation. An order may be cancelled any time before settlement
// consumes it.
func (m *Market) Cancel(o *Order) error {
	if _, ok := m.byID[o.ID]; !ok {
		return fmt.Errorf("cancel %s: %w", o.ID, ErrOrderNotFound)
	}

	inv := o.Owner.Inventory()
	if o.Side == Buy {
		if err := inv.UnreserveMoney(o.Price * int64(o.Remaining)); err != nil {
			return err
		}
	} else {
		if err := inv.Unreserve(o.Commodity, o.Remaining); err != nil {
			return err
		}
	}

	m.removeOrder(o)
	return nil
}

// CancelByID cancels by order ID.
func (m *Market) CancelByID(id uuid.UUID) error {
	o, ok := m.byID[id]
	if !ok {
		return fmt.Errorf("cancel %s: %w", id, ErrOrderNotFound)
	}
	return m.Cancel(o)
}

// Modify changes an order's price in place, adjusting the money
// reservation for buys. Time priority is kept: the order's timestamp is
// unchanged.
func (m *Market) Modify(o *Order, newPrice int64) error {
	if _, ok := m.byID[o.ID]; !ok {
		return fmt.Errorf("modify %s: %w", o.ID, ErrOrderNotFound)
	}
	if newPrice <= 0 {
		return fmt.Errorf("order price must be positive, got %d", newPrice)
	}
	if o.Side == Buy {
		delta := (newPrice - o.Price) * int64(o.Remaining)
		inv := o.Owner.Inventory()
		if delta > 0 {
			if err := inv.ReserveMoney(delta); err != nil {
				return err
			}
		} else if delta < 0 {
			if err := inv.UnreserveMoney(-delta); err != nil {
				return err
			}
		}
	}
	o.Price = newPrice
	return nil
}

// OrdersFor returns the owner's resting orders, buys then sells.
func (m *Market) OrdersFor(owner Participant) (buys, sells []*Order) {
	for _, o := range m.byID {
		if o.Owner != owner {
			continue
		}
		if o.Side == Buy {
			buys = append(buys, o)
		} else {
			sells = append(sells, o)
		}
	}
	return buys, sells
}

// fill is one buffered match, applied in batch after the walk so a
// mid-settlement error cannot leave a commodity partially applied.
type fill struct {
	buy, sell *Order
	qty       int
	price     int64 // seller's ask
}

// Settle runs the matching pass for every commodity book. Buys sort by
// price descending then age, sells by price ascending then age; the two
// sorted lists are walked while the best bid meets the best ask. Matches
// execute at the resting seller's ask price; the buyer's excess
// reservation (bid minus ask) is refunded. Exhausted orders leave the
// book; partial remainders persist with their original timestamps.
//
// Returns the transactions created this turn. A non-nil error means the
// reservation accounting was inconsistent, which is a bug, not a market
// condition.
func (m *Market) Settle(turn int) ([]Transaction, error) {
	var settled []Transaction

	for _, c := range m.commoditiesInBookOrder() {
		b := m.books[c]
		fills := matchBook(b)
		if len(fills) == 0 {
			continue
		}

		// Apply the commodity's fills as one batch.
		for _, f := range fills {
			if err := m.applyFill(f); err != nil {
				return settled, fmt.Errorf("settle %s: %w", c.ID, err)
			}
			tx := Transaction{
				Commodity: c,
				Price:     f.price,
				Quantity:  f.qty,
				Buyer:     f.buy.Owner,
				Seller:    f.sell.Owner,
				Turn:      turn,
			}
			m.history[c] = append(m.history[c], tx)
			settled = append(settled, tx)
		}

		m.compactBook(c, b)
	}

	return settled, nil
}

// matchBook sorts both sides by price-time priority and walks them with
// two pointers, buffering matches. Remaining quantities are decremented
// here; inventory effects wait for the batch apply.
func matchBook(b *book) []fill {
	sort.SliceStable(b.buys, func(i, j int) bool {
		if b.buys[i].Price != b.buys[j].Price {
			return b.buys[i].Price > b.buys[j].Price
		}
		return b.buys[i].before(b.buys[j])
	})
	sort.SliceStable(b.sells, func(i, j int) bool {
		if b.sells[i].Price != b.sells[j].Price {
			return b.sells[i].Price < b.sells[j].Price
		}
		return b.sells[i].before(b.sells[j])
	})

	var fills []fill
	bi, si := 0, 0
	for bi < len(b.buys) && si < len(b.sells) {
		buy, sell := b.buys[bi], b.sells[si]
		if buy.Price < sell.Price {
			break
		}
		qty := buy.Remaining
		if sell.Remaining < qty {
			qty = sell.Remaining
		}
		fills = append(fills, fill{buy: buy, sell: sell, qty: qty, price: sell.Price})
		buy.Remaining -= qty
		sell.Remaining -= qty
		if buy.Remaining == 0 {
			bi++
		}
		if sell.Remaining == 0 {
			si++
		}
	}
	return fills
}

// applyFill moves reserved money buyer→seller and reserved goods
// seller→buyer. The buyer reserved at their bid; the trade executes at
// the ask, so the difference returns to the buyer's available money.
func (m *Market) applyFill(f fill) error {
	buyerInv := f.buy.Owner.Inventory()
	sellerInv := f.sell.Owner.Inventory()
	q := int64(f.qty)

	if err := buyerInv.spendReservedMoney(q * f.buy.Price); err != nil {
		return err
	}
	if refund := q * (f.buy.Price - f.price); refund > 0 {
		buyerInv.AddMoney(refund)
	}
	sellerInv.AddMoney(q * f.price)

	if err := sellerInv.takeReserved(f.buy.Commodity, f.qty); err != nil {
		return err
	}
	buyerInv.Add(f.buy.Commodity, f.qty)
	return nil
}

// compactBook drops exhausted orders from the book and the ID index.
func (m *Market) compactBook(c *catalog.Commodity, b *book) {
	keepBuys := b.buys[:0]
	for _, o := range b.buys {
		if o.Remaining > 0 {
			keepBuys = append(keepBuys, o)
		} else {
			delete(m.byID, o.ID)
		}
	}
	b.buys = keepBuys

	keepSells := b.sells[:0]
	for _, o := range b.sells {
		if o.Remaining > 0 {
			keepSells = append(keepSells, o)
		} else {
			delete(m.byID, o.ID)
		}
	}
	b.sells = keepSells

	if len(b.buys) == 0 && len(b.sells) == 0 {
		delete(m.books, c)
	}
}

func (m *Market) bookFor(c *catalog.Commodity) *book {
	b, ok := m.books[c]
	if !ok {
		b = &book{}
		m.books[c] = b
	}
	return b
}

// commoditiesInBookOrder returns commodities with open books, sorted by
// ID so settlement order is deterministic.
func (m *Market) commoditiesInBookOrder() []*catalog.Commodity {
	out := make([]*catalog.Commodity, 0, len(m.books))
	for c := range m.books {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (m *Market) removeOrder(o *Order) {
	b, ok := m.books[o.Commodity]
	if !ok {
		return
	}
	side := &b.buys
	if o.Side == Sell {
		side = &b.sells
	}
	for i, existing := range *side {
		if existing == o {
			*side = append((*side)[:i], (*side)[i+1:]...)
			break
		}
	}
	delete(m.byID, o.ID)
	if len(b.buys) == 0 && len(b.sells) == 0 {
		delete(m.books, o.Commodity)
	}
}
