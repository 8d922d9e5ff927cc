package economy

import (
	"github.com/google/uuid"

	"github.com/tcgarvin/spacesim2/internal/catalog"
)

// Participant is an inventory-holding entity that can trade on a market:
// actors and ships both qualify. Markets only ever touch a participant
// through its inventory.
type Participant interface {
	Name() string
	Inventory() *Inventory
}

// Side distinguishes buy (bid) from sell (ask) orders.
type Side uint8

const (
	Buy Side = iota
	Sell
)

func (s Side) String() string {
	if s == Buy {
		return "buy"
	}
	return "sell"
}

// Order is an outstanding bid or ask. Orders persist across turns until
// filled or cancelled; partial fills reduce Remaining but never touch the
// (Turn, seq) timestamp, preserving time priority.
type Order struct {
	ID        uuid.UUID
	Owner     Participant
	Commodity *catalog.Commodity
	Side      Side
	Price     int64 // credits per unit
	Quantity  int   // as placed
	Remaining int
	Turn      int // turn the order was placed

	seq uint64 // arrival index within the market; FIFO tie-break
}

// before reports whether o has time priority over other (placed earlier).
func (o *Order) before(other *Order) bool {
	if o.Turn != other.Turn {
		return o.Turn < other.Turn
	}
	return o.seq < other.seq
}
