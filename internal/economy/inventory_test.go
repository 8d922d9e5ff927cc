package economy

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tcgarvin/spacesim2/internal/catalog"
)

func testCommodity(id string) *catalog.Commodity {
	return &catalog.Commodity{ID: id, Name: id, Transportable: true}
}

func TestInventoryAddRemove(t *testing.T) {
	inv := NewInventory()
	food := testCommodity("food")

	inv.Add(food, 5)
	require.Equal(t, 5, inv.Quantity(food))
	require.Equal(t, 5, inv.Available(food))
	require.True(t, inv.Has(food, 5))
	require.False(t, inv.Has(food, 6))

	require.NoError(t, inv.Remove(food, 3))
	require.Equal(t, 2, inv.Quantity(food))

	err := inv.Remove(food, 3)
	require.ErrorIs(t, err, ErrInsufficientQuantity)
	require.Equal(t, 2, inv.Quantity(food))
}

func TestInventoryAddNonPositiveIsNoOp(t *testing.T) {
	inv := NewInventory()
	food := testCommodity("food")

	inv.Add(food, 0)
	inv.Add(food, -4)
	require.Equal(t, 0, inv.Quantity(food))
	require.Empty(t, inv.Commodities())
}

func TestInventoryReservation(t *testing.T) {
	inv := NewInventory()
	food := testCommodity("food")
	inv.Add(food, 10)

	require.NoError(t, inv.Reserve(food, 6))
	require.Equal(t, 10, inv.Quantity(food))
	require.Equal(t, 4, inv.Available(food))
	require.Equal(t, 6, inv.Reserved(food))

	// Reserving past the available quantity fails and changes nothing.
	err := inv.Reserve(food, 5)
	require.ErrorIs(t, err, ErrInsufficientAvailable)
	require.Equal(t, 6, inv.Reserved(food))

	// Removing into the reserved portion is an invariant violation.
	err = inv.Remove(food, 5)
	require.ErrorIs(t, err, ErrInvariantViolation)
	require.Equal(t, 10, inv.Quantity(food))

	// The unreserved portion can still be removed.
	require.NoError(t, inv.Remove(food, 4))
	require.Equal(t, 6, inv.Quantity(food))
	require.Equal(t, 0, inv.Available(food))

	require.NoError(t, inv.Unreserve(food, 6))
	require.Equal(t, 6, inv.Available(food))

	err = inv.Unreserve(food, 1)
	require.ErrorIs(t, err, ErrInvariantViolation)
}

func TestInventoryMoneyReservation(t *testing.T) {
	inv := NewInventory()
	inv.AddMoney(100)

	require.NoError(t, inv.ReserveMoney(60))
	require.Equal(t, int64(100), inv.Money())
	require.Equal(t, int64(40), inv.AvailableMoney())
	require.Equal(t, int64(60), inv.ReservedMoney())

	err := inv.ReserveMoney(50)
	require.ErrorIs(t, err, ErrInsufficientAvailable)

	err = inv.RemoveMoney(50)
	require.ErrorIs(t, err, ErrInvariantViolation)

	require.NoError(t, inv.RemoveMoney(40))
	require.Equal(t, int64(60), inv.Money())
	require.Equal(t, int64(0), inv.AvailableMoney())

	require.NoError(t, inv.UnreserveMoney(60))
	require.Equal(t, int64(60), inv.AvailableMoney())
}

func TestInventoryTotalQuantityCountsReserved(t *testing.T) {
	inv := NewInventory()
	food := testCommodity("food")
	fuel := testCommodity("nova_fuel")

	inv.Add(food, 3)
	inv.Add(fuel, 4)
	require.NoError(t, inv.Reserve(fuel, 2))

	require.Equal(t, 7, inv.TotalQuantity())
	require.Len(t, inv.Commodities(), 2)
}
