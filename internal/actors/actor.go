// Package actors provides the entity layer: actors and ships that hold
// inventories, consume through drives, and act through pluggable brains.
// Entities call into the economy/production core but their decision
// policy lives entirely in their Brain implementation.
package actors

import (
	"github.com/google/uuid"

	"github.com/tcgarvin/spacesim2/internal/catalog"
	"github.com/tcgarvin/spacesim2/internal/economy"
	"github.com/tcgarvin/spacesim2/internal/entropy"
	"github.com/tcgarvin/spacesim2/internal/world"
)

// Context carries the per-turn collaborators brains and commands need.
// Built by the scheduler once per turn.
type Context struct {
	Catalog *catalog.Catalog
	Planets []*world.Planet
	Turn    int
	Rng     entropy.Source
}

// Brain is the pluggable decision policy for an actor. The scheduler
// holds entities by this interface, never by concrete strategy type.
type Brain interface {
	// DecideEconomicAction picks the actor's single production/economic
	// action for the turn. A nil command means the actor sits idle.
	DecideEconomicAction(ctx *Context, a *Actor) Command
	// DecideMarketActions returns the actor's order placements and
	// cancellations for the turn.
	DecideMarketActions(ctx *Context, a *Actor) []Command
}

// Outcome classifies an actor's most recent economic action so the
// scheduler can tally turns without parsing display strings.
type Outcome uint8

const (
	OutcomeNone Outcome = iota
	OutcomeProduced
	OutcomeProductionFailed
)

// Actor is a simulated economic agent: one planet, one inventory, a set
// of skills, drives that consume goods each turn, and a brain.
type Actor struct {
	name string
	inv  *economy.Inventory

	Planet *world.Planet
	Skills catalog.SkillSet
	Brain  Brain
	Drives []Drive

	// ActiveOrders maps resting order IDs to a short description, so the
	// brain can cancel and re-quote without scanning the whole book.
	ActiveOrders map[uuid.UUID]string

	LastAction  string
	LastOutcome Outcome
}

func NewActor(name string, planet *world.Planet, brain Brain, initialMoney int64, skills catalog.SkillSet) *Actor {
	if skills == nil {
		skills = make(catalog.SkillSet)
	}
	inv := economy.NewInventory()
	inv.AddMoney(initialMoney)
	return &Actor{
		name:         name,
		inv:          inv,
		Planet:       planet,
		Brain:        brain,
		Skills:       skills,
		ActiveOrders: make(map[uuid.UUID]string),
		LastAction:   "none",
	}
}

func (a *Actor) Name() string {
	return a.name
}

func (a *Actor) Inventory() *economy.Inventory {
	return a.inv
}

// TickDrives runs every drive's consumption for the turn and returns the
// updated metrics in drive order.
func (a *Actor) TickDrives(rng entropy.Source) []DriveMetrics {
	out := make([]DriveMetrics, len(a.Drives))
	for i, d := range a.Drives {
		out[i] = d.Tick(a, rng)
	}
	return out
}
