package actors

import (
	"fmt"
	"math"

	"github.com/google/uuid"

	"github.com/tcgarvin/spacesim2/internal/economy"
	"github.com/tcgarvin/spacesim2/internal/world"
)

// ShipStatus tracks what a ship can do this turn.
type ShipStatus uint8

const (
	ShipDocked ShipStatus = iota
	ShipTraveling
	ShipNeedsMaintenance
)

func (s ShipStatus) String() string {
	switch s {
	case ShipDocked:
		return "docked"
	case ShipTraveling:
		return "traveling"
	default:
		return "needs_maintenance"
	}
}

// ShipBrain is the pluggable decision policy for a ship.
type ShipBrain interface {
	// DecideTradeActions places/cancels orders at the current planet.
	DecideTradeActions(ctx *Context, s *Ship)
	// DecideTravel picks a destination, or nil to stay docked.
	DecideTravel(ctx *Context, s *Ship) *world.Planet
}

// Travel tuning: fuel burns per distance, journeys take whole turns, and
// departure risks a maintenance grounding.
const (
	fuelPerDistance     = 10.0 // one fuel unit per 10 distance, rounded up
	turnsPerDistance    = 20.0 // one turn per 20 distance, minimum 1
	maintenanceChance   = 0.1
	maintenanceFuelCost = 5
)

// Ship is a trading vessel moving commodities between planetary markets.
// Its cargo hold is a full Inventory, so market reservations work on
// ships exactly as they do on actors.
type Ship struct {
	name  string
	cargo *economy.Inventory

	Planet      *world.Planet // current or origin planet while traveling
	Destination *world.Planet

	CargoCapacity  int
	FuelCapacity   int
	FuelEfficiency float64

	Status         ShipStatus
	TravelProgress float64
	TravelTurns    int

	Brain        ShipBrain
	ActiveOrders map[uuid.UUID]string
	LastAction   string
}

func NewShip(name string, planet *world.Planet, brain ShipBrain, cargoCapacity, fuelCapacity int, fuelEfficiency float64, initialMoney int64) *Ship {
	cargo := economy.NewInventory()
	cargo.AddMoney(initialMoney)
	return &Ship{
		name:           name,
		cargo:          cargo,
		Planet:         planet,
		CargoCapacity:  cargoCapacity,
		FuelCapacity:   fuelCapacity,
		FuelEfficiency: fuelEfficiency,
		Status:         ShipDocked,
		Brain:          brain,
		ActiveOrders:   make(map[uuid.UUID]string),
		LastAction:     "none",
	}
}

func (s *Ship) Name() string {
	return s.name
}

// Inventory returns the cargo hold; ships participate in markets through
// it like any other entity.
func (s *Ship) Inventory() *economy.Inventory {
	return s.cargo
}

// CargoSpace returns unreserved, uncommitted hold capacity.
func (s *Ship) CargoSpace() int {
	space := s.CargoCapacity - s.cargo.TotalQuantity()
	if space < 0 {
		return 0
	}
	return space
}

// FuelNeeded returns the fuel cost for a journey of the given distance,
// adjusted for the ship's efficiency.
func (s *Ship) FuelNeeded(distance float64) int {
	base := math.Ceil(distance / fuelPerDistance)
	return int(math.Ceil(base / s.FuelEfficiency))
}

// TakeTurn advances the ship one turn: progress a journey, work through
// grounding maintenance, or trade and maybe depart.
func (s *Ship) TakeTurn(ctx *Context) {
	switch s.Status {
	case ShipTraveling:
		s.updateJourney()
	case ShipNeedsMaintenance:
		s.performMaintenance(ctx)
	case ShipDocked:
		s.Brain.DecideTradeActions(ctx, s)
		if dest := s.Brain.DecideTravel(ctx, s); dest != nil {
			s.startJourney(ctx, dest)
		}
	}
}

func (s *Ship) startJourney(ctx *Context, dest *world.Planet) bool {
	if s.Status != ShipDocked || dest == s.Planet {
		return false
	}

	// Departure inspection.
	if ctx.Rng.Float() < maintenanceChance {
		s.Status = ShipNeedsMaintenance
		s.LastAction = "maintenance required before departure"
		return false
	}

	fuel := ctx.Catalog.Commodities.MustGet("nova_fuel")
	dist := world.Distance(s.Planet, dest)
	needed := s.FuelNeeded(dist)
	if s.cargo.Available(fuel) < needed {
		s.LastAction = fmt.Sprintf("insufficient fuel for journey (need %d)", needed)
		return false
	}

	// Departing strands any resting orders here, so pull them first.
	s.cancelAllOrders()

	if err := s.cargo.Remove(fuel, needed); err != nil {
		s.LastAction = fmt.Sprintf("fuel accounting error: %v", err)
		return false
	}

	s.TravelTurns = int(math.Max(1, math.Ceil(dist/turnsPerDistance)))
	s.TravelProgress = 0
	s.Destination = dest
	s.Status = ShipTraveling
	s.LastAction = fmt.Sprintf("departed for %s (%d turns)", dest.Name, s.TravelTurns)
	return true
}

func (s *Ship) updateJourney() {
	if s.Destination == nil {
		s.Status = ShipDocked
		return
	}
	s.TravelProgress += 1.0 / float64(s.TravelTurns)
	if s.TravelProgress >= 1.0 {
		s.Planet = s.Destination
		s.Destination = nil
		s.Status = ShipDocked
		s.TravelProgress = 0
		s.LastAction = fmt.Sprintf("arrived at %s", s.Planet.Name)
		return
	}
	remaining := int(math.Ceil((1.0 - s.TravelProgress) * float64(s.TravelTurns)))
	s.LastAction = fmt.Sprintf("en route to %s (%d turns remaining)", s.Destination.Name, remaining)
}

func (s *Ship) performMaintenance(ctx *Context) {
	fuel := ctx.Catalog.Commodities.MustGet("nova_fuel")
	if s.cargo.Available(fuel) < maintenanceFuelCost {
		s.LastAction = "cannot perform maintenance: insufficient fuel"
		return
	}
	if err := s.cargo.Remove(fuel, maintenanceFuelCost); err != nil {
		s.LastAction = fmt.Sprintf("maintenance accounting error: %v", err)
		return
	}
	s.Status = ShipDocked
	s.LastAction = fmt.Sprintf("performed maintenance using %d fuel", maintenanceFuelCost)
}

// cancelAllOrders pulls every resting order the ship has on its current
// planet's market.
func (s *Ship) cancelAllOrders() {
	market := s.Planet.Market
	buys, sells := market.OrdersFor(s)
	for _, o := range append(buys, sells...) {
		_ = market.Cancel(o)
		delete(s.ActiveOrders, o.ID)
	}
}

// ReachablePlanets returns planets the ship could reach on current fuel.
func (s *Ship) ReachablePlanets(ctx *Context) []*world.Planet {
	fuel := ctx.Catalog.Commodities.MustGet("nova_fuel")
	stock := s.cargo.Available(fuel)
	var out []*world.Planet
	for _, p := range ctx.Planets {
		if p == s.Planet {
			continue
		}
		if s.FuelNeeded(world.Distance(s.Planet, p)) <= stock {
			out = append(out, p)
		}
	}
	return out
}
