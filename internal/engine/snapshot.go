package engine

import (
	"github.com/tcgarvin/spacesim2/internal/economy"
	"github.com/tcgarvin/spacesim2/internal/world"
)

// Snapshot is an immutable view of the simulation after a completed turn,
// safe to serve while the next turn runs.
type Snapshot struct {
	Turn    int              `json:"turn"`
	Summary TurnSummary      `json:"summary"`
	Planets []PlanetSnapshot `json:"planets"`
	Actors  []ActorSnapshot  `json:"actors"`
	Ships   []ShipSnapshot   `json:"ships"`
	Trades  []TradeSnapshot  `json:"trades"`
}

// TradeSnapshot is one settled trade from the turn the snapshot covers.
type TradeSnapshot struct {
	Planet    string `json:"planet"`
	Commodity string `json:"commodity"`
	Buyer     string `json:"buyer"`
	Seller    string `json:"seller"`
	Quantity  int    `json:"quantity"`
	Price     int64  `json:"price"`
}

type PlanetSnapshot struct {
	Name       string                   `json:"name"`
	X          float64                  `json:"x"`
	Y          float64                  `json:"y"`
	OpenOrders int                      `json:"open_orders"`
	Quotes     map[string]QuoteSnapshot `json:"quotes"`
}

type QuoteSnapshot struct {
	Bid      int64   `json:"bid,omitempty"`
	Ask      int64   `json:"ask,omitempty"`
	AvgPrice float64 `json:"avg_price,omitempty"`
}

type ActorSnapshot struct {
	Name       string         `json:"name"`
	Planet     string         `json:"planet"`
	Money      int64          `json:"money"`
	LastAction string         `json:"last_action"`
	Goods      map[string]int `json:"goods"`
}

type ShipSnapshot struct {
	Name        string         `json:"name"`
	Status      string         `json:"status"`
	Planet      string         `json:"planet"`
	Destination string         `json:"destination,omitempty"`
	Money       int64          `json:"money"`
	Cargo       map[string]int `json:"cargo"`
	LastAction  string         `json:"last_action"`
}

// Snapshot returns the view of the last completed turn, or nil before the
// first turn has run.
func (s *Simulation) Snapshot() *Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap
}

func (s *Simulation) buildSnapshot(summary TurnSummary, trades []TradeSnapshot) *Snapshot {
	snap := &Snapshot{
		Turn:    summary.Turn,
		Summary: summary,
		Trades:  trades,
	}
	for _, p := range s.sortedPlanets() {
		snap.Planets = append(snap.Planets, s.snapshotPlanet(p))
	}
	for _, a := range s.Actors {
		snap.Actors = append(snap.Actors, ActorSnapshot{
			Name:       a.Name(),
			Planet:     a.Planet.Name,
			Money:      a.Inventory().Money(),
			LastAction: a.LastAction,
			Goods:      goodsMap(a),
		})
	}
	for _, sh := range s.Ships {
		ss := ShipSnapshot{
			Name:       sh.Name(),
			Status:     sh.Status.String(),
			Planet:     sh.Planet.Name,
			Money:      sh.Inventory().Money(),
			Cargo:      goodsMap(sh),
			LastAction: sh.LastAction,
		}
		if sh.Destination != nil {
			ss.Destination = sh.Destination.Name
		}
		snap.Ships = append(snap.Ships, ss)
	}
	return snap
}

func (s *Simulation) snapshotPlanet(p *world.Planet) PlanetSnapshot {
	ps := PlanetSnapshot{
		Name:       p.Name,
		X:          p.X,
		Y:          p.Y,
		OpenOrders: p.Market.OpenOrders(),
		Quotes:     make(map[string]QuoteSnapshot),
	}
	for _, c := range s.Catalog.Commodities.All() {
		var q QuoteSnapshot
		any := false
		if bid, ok := p.Market.BestBid(c); ok {
			q.Bid = bid
			any = true
		}
		if ask, ok := p.Market.BestAsk(c); ok {
			q.Ask = ask
			any = true
		}
		if avg, ok := p.Market.AvgPrice(c); ok {
			q.AvgPrice = avg
			any = true
		}
		if any {
			ps.Quotes[c.ID] = q
		}
	}
	return ps
}

func goodsMap(p economy.Participant) map[string]int {
	inv := p.Inventory()
	goods := make(map[string]int, len(inv.Commodities()))
	for _, c := range inv.Commodities() {
		goods[c.ID] = inv.Quantity(c)
	}
	return goods
}
