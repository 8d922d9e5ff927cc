// Simulation ties together planets, actors and ships and runs them each turn.
package engine

import (
	"sort"
	"sync"

	"github.com/tcgarvin/spacesim2/internal/actors"
	"github.com/tcgarvin/spacesim2/internal/catalog"
	"github.com/tcgarvin/spacesim2/internal/entropy"
	"github.com/tcgarvin/spacesim2/internal/world"
)

// Simulation holds the complete world state and wires systems together.
type Simulation struct {
	Catalog *catalog.Catalog
	Planets []*world.Planet
	Actors  []*actors.Actor
	Ships   []*actors.Ship
	Turn    int

	// Actor lookups.
	PlanetIndex  map[string]*world.Planet
	PlanetActors map[string][]*actors.Actor

	rng *entropy.Seeded

	mu   sync.RWMutex
	snap *Snapshot
}

// NewSimulation creates a Simulation over a loaded catalog. The seed fixes
// the entire run: two simulations with the same seed and setup produce
// identical histories.
func NewSimulation(cat *catalog.Catalog, seed int64) *Simulation {
	return &Simulation{
		Catalog:      cat,
		PlanetIndex:  make(map[string]*world.Planet),
		PlanetActors: make(map[string][]*actors.Actor),
		rng:          entropy.NewSeeded(seed),
	}
}

// AddPlanet registers a planet and derives its resource attributes from
// its coordinates.
func (s *Simulation) AddPlanet(name string, x, y float64, gen *world.AttributeGen) *world.Planet {
	attrs := world.DefaultAttributes()
	if gen != nil {
		attrs = gen.At(x, y)
	}
	p := world.NewPlanet(name, x, y, attrs)
	s.Planets = append(s.Planets, p)
	s.PlanetIndex[name] = p
	return p
}

// AddActor registers an actor on its planet.
func (s *Simulation) AddActor(a *actors.Actor) {
	s.Actors = append(s.Actors, a)
	s.PlanetActors[a.Planet.Name] = append(s.PlanetActors[a.Planet.Name], a)
}

// AddShip registers a ship.
func (s *Simulation) AddShip(sh *actors.Ship) {
	s.Ships = append(s.Ships, sh)
}

// CurrentTurn returns the most recently completed turn number.
func (s *Simulation) CurrentTurn() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.Turn
}

// sortedPlanets returns planets in name order for deterministic
// settlement sweeps.
func (s *Simulation) sortedPlanets() []*world.Planet {
	out := make([]*world.Planet, len(s.Planets))
	copy(out, s.Planets)
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
