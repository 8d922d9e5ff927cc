// Package economy implements the economic core: per-entity inventories
// with an available/reserved split, per-commodity order books, and the
// once-per-turn price-time-priority settlement pass.
package economy

import (
	"fmt"

	"github.com/tcgarvin/spacesim2/internal/catalog"
)

// holding tracks one commodity line. Invariant: 0 <= reserved <= total.
type holding struct {
	total    int
	reserved int
}

// Inventory is one entity's holding of commodities plus money. Money uses
// the identical reserve/unreserve contract as goods. Reservation marks
// stock or cash as committed to a pending order, so an entity cannot
// spend the same unit twice between order placement and deferred
// settlement.
type Inventory struct {
	goods         map[*catalog.Commodity]holding
	money         int64
	reservedMoney int64
}

func NewInventory() *Inventory {
	return &Inventory{goods: make(map[*catalog.Commodity]holding)}
}

// Add increases total holdings. Non-positive quantities are a no-op.
func (inv *Inventory) Add(c *catalog.Commodity, qty int) {
	if qty <= 0 {
		return
	}
	h := inv.goods[c]
	h.total += qty
	inv.goods[c] = h
}

// Remove unconditionally removes unreserved stock. Removing more than the
// total holding is a caller bug (ErrInsufficientQuantity); removing into
// the reserved portion would corrupt the reservation accounting and fails
// with ErrInvariantViolation.
func (inv *Inventory) Remove(c *catalog.Commodity, qty int) error {
	if qty <= 0 {
		return nil
	}
	h := inv.goods[c]
	if qty > h.total {
		return fmt.Errorf("remove %d %s (have %d): %w", qty, c.ID, h.total, ErrInsufficientQuantity)
	}
	if h.total-qty < h.reserved {
		return fmt.Errorf("remove %d %s would cut into %d reserved: %w", qty, c.ID, h.reserved, ErrInvariantViolation)
	}
	h.total -= qty
	inv.setOrDelete(c, h)
	return nil
}

// Reserve marks qty units as committed to a pending order.
func (inv *Inventory) Reserve(c *catalog.Commodity, qty int) error {
	if qty <= 0 {
		return nil
	}
	h := inv.goods[c]
	if qty > h.total-h.reserved {
		return fmt.Errorf("reserve %d %s (available %d): %w", qty, c.ID, h.total-h.reserved, ErrInsufficientAvailable)
	}
	h.reserved += qty
	inv.goods[c] = h
	return nil
}

// Unreserve releases a reservation back to available stock.
func (inv *Inventory) Unreserve(c *catalog.Commodity, qty int) error {
	if qty <= 0 {
		return nil
	}
	h := inv.goods[c]
	if qty > h.reserved {
		return fmt.Errorf("unreserve %d %s (reserved %d): %w", qty, c.ID, h.reserved, ErrInvariantViolation)
	}
	h.reserved -= qty
	inv.goods[c] = h
	return nil
}

// takeReserved removes qty units out of the reserved portion. Settlement
// uses it to transfer sold goods out of the seller's reservation.
func (inv *Inventory) takeReserved(c *catalog.Commodity, qty int) error {
	if qty <= 0 {
		return nil
	}
	h := inv.goods[c]
	if qty > h.reserved {
		return fmt.Errorf("take %d reserved %s (reserved %d): %w", qty, c.ID, h.reserved, ErrInvariantViolation)
	}
	h.reserved -= qty
	h.total -= qty
	inv.setOrDelete(c, h)
	return nil
}

func (inv *Inventory) setOrDelete(c *catalog.Commodity, h holding) {
	if h.total == 0 && h.reserved == 0 {
		delete(inv.goods, c)
		return
	}
	inv.goods[c] = h
}

// Quantity returns total holdings (available + reserved).
func (inv *Inventory) Quantity(c *catalog.Commodity) int {
	return inv.goods[c].total
}

// Available returns total minus reserved. All order-placement and
// process-execution pre-checks go through this.
func (inv *Inventory) Available(c *catalog.Commodity) int {
	h := inv.goods[c]
	return h.total - h.reserved
}

// Reserved returns the quantity committed to pending orders.
func (inv *Inventory) Reserved(c *catalog.Commodity) int {
	return inv.goods[c].reserved
}

// Has reports whether at least qty units are available (unreserved).
func (inv *Inventory) Has(c *catalog.Commodity, qty int) bool {
	return inv.Available(c) >= qty
}

// TotalQuantity sums every commodity line, reserved included. Ships use
// it against cargo capacity.
func (inv *Inventory) TotalQuantity() int {
	total := 0
	for _, h := range inv.goods {
		total += h.total
	}
	return total
}

// Commodities returns the commodities currently held (in map order).
func (inv *Inventory) Commodities() []*catalog.Commodity {
	out := make([]*catalog.Commodity, 0, len(inv.goods))
	for c := range inv.goods {
		out = append(out, c)
	}
	return out
}

// Money returns total money, reserved included.
func (inv *Inventory) Money() int64 {
	return inv.money
}

// AvailableMoney returns money not committed to pending buy orders.
func (inv *Inventory) AvailableMoney() int64 {
	return inv.money - inv.reservedMoney
}

// ReservedMoney returns money committed to pending buy orders.
func (inv *Inventory) ReservedMoney() int64 {
	return inv.reservedMoney
}

func (inv *Inventory) AddMoney(amount int64) {
	if amount <= 0 {
		return
	}
	inv.money += amount
}

func (inv *Inventory) RemoveMoney(amount int64) error {
	if amount <= 0 {
		return nil
	}
	if amount > inv.money {
		return fmt.Errorf("remove %d credits (have %d): %w", amount, inv.money, ErrInsufficientQuantity)
	}
	if inv.money-amount < inv.reservedMoney {
		return fmt.Errorf("remove %d credits would cut into %d reserved: %w", amount, inv.reservedMoney, ErrInvariantViolation)
	}
	inv.money -= amount
	return nil
}

func (inv *Inventory) ReserveMoney(amount int64) error {
	if amount <= 0 {
		return nil
	}
	if amount > inv.money-inv.reservedMoney {
		return fmt.Errorf("reserve %d credits (available %d): %w", amount, inv.money-inv.reservedMoney, ErrInsufficientAvailable)
	}
	inv.reservedMoney += amount
	return nil
}

func (inv *Inventory) UnreserveMoney(amount int64) error {
	if amount <= 0 {
		return nil
	}
	if amount > inv.reservedMoney {
		return fmt.Errorf("unreserve %d credits (reserved %d): %w", amount, inv.reservedMoney, ErrInvariantViolation)
	}
	inv.reservedMoney -= amount
	return nil
}

// spendReservedMoney pays out of the reserved portion. Settlement uses it
// to move a buyer's committed cash to the seller.
func (inv *Inventory) spendReservedMoney(amount int64) error {
	if amount <= 0 {
		return nil
	}
	if amount > inv.reservedMoney {
		return fmt.Errorf("spend %d reserved credits (reserved %d): %w", amount, inv.reservedMoney, ErrInvariantViolation)
	}
	inv.reservedMoney -= amount
	inv.money -= amount
	return nil
}
