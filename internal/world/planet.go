// Package world holds the physical layer of the simulation: planets on a
// 2D star chart and their generated resource attributes.
package world

import (
	"math"

	"github.com/tcgarvin/spacesim2/internal/economy"
)

// Planet is one market venue in the simulation. The entities on a planet
// are tracked by the engine, not here.
type Planet struct {
	Name       string
	X, Y       float64
	Market     *economy.Market
	Attributes Attributes
}

func NewPlanet(name string, x, y float64, attrs Attributes) *Planet {
	return &Planet{
		Name:       name,
		X:          x,
		Y:          y,
		Market:     economy.NewMarket(),
		Attributes: attrs,
	}
}

// Distance between two planets on the star chart.
func Distance(a, b *Planet) float64 {
	dx := b.X - a.X
	dy := b.Y - a.Y
	return math.Sqrt(dx*dx + dy*dy)
}
