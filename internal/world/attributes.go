package world

import (
	opensimplex "github.com/ojrac/opensimplex-go"
)

// Attributes are per-planet resource availability ratings in [0, 1].
// 0 means the resource is absent, 0.5 average, 1 abundant. Brains consult
// these when choosing gathering work; a planet with no fuel ore is a bad
// place to prospect for fuel ore.
type Attributes struct {
	Biomass           float64
	Fiber             float64
	Wood              float64
	CommonMetalOre    float64
	NovaFuelOre       float64
	BuildingMaterials float64
}

// DefaultAttributes returns all-1.0 availability, no penalties anywhere.
func DefaultAttributes() Attributes {
	return Attributes{
		Biomass:           1.0,
		Fiber:             1.0,
		Wood:              1.0,
		CommonMetalOre:    1.0,
		NovaFuelOre:       1.0,
		BuildingMaterials: 1.0,
	}
}

// Availability returns the rating for a commodity ID, 1.0 for anything
// attributes don't track.
func (a Attributes) Availability(commodityID string) float64 {
	switch commodityID {
	case "biomass":
		return a.Biomass
	case "fiber":
		return a.Fiber
	case "wood":
		return a.Wood
	case "common_metal_ore":
		return a.CommonMetalOre
	case "nova_fuel_ore":
		return a.NovaFuelOre
	case "simple_building_materials":
		return a.BuildingMaterials
	default:
		return 1.0
	}
}

// AttributeGen samples planet attributes from independent noise layers
// over star-chart coordinates, so nearby planets get correlated geology
// and a run's universe is deterministic from its seed.
type AttributeGen struct {
	biomass  opensimplex.Noise
	fiber    opensimplex.Noise
	wood     opensimplex.Noise
	metal    opensimplex.Noise
	fuel     opensimplex.Noise
	building opensimplex.Noise
}

// Noise frequency across the chart. Planets tens of units apart land in
// distinct regions of each layer.
const attrNoiseFreq = 0.013

func NewAttributeGen(seed int64) *AttributeGen {
	return &AttributeGen{
		biomass:  opensimplex.NewNormalized(seed),
		fiber:    opensimplex.NewNormalized(seed + 1),
		wood:     opensimplex.NewNormalized(seed + 2),
		metal:    opensimplex.NewNormalized(seed + 3),
		fuel:     opensimplex.NewNormalized(seed + 4),
		building: opensimplex.NewNormalized(seed + 5),
	}
}

// At generates the attributes for a planet at chart position (x, y).
// Biomass keeps a floor (life finds a way), building materials are never
// fully absent, and fuel ore is pushed bimodal: strikes are rich, misses
// are near-barren.
func (g *AttributeGen) At(x, y float64) Attributes {
	nx, ny := x*attrNoiseFreq, y*attrNoiseFreq
	return Attributes{
		Biomass:           rescale(g.biomass.Eval2(nx, ny), 0.2, 1.0),
		Fiber:             g.fiber.Eval2(nx, ny),
		Wood:              g.wood.Eval2(nx, ny),
		CommonMetalOre:    g.metal.Eval2(nx, ny),
		NovaFuelOre:       bimodal(g.fuel.Eval2(nx, ny)),
		BuildingMaterials: rescale(g.building.Eval2(nx, ny), 0.3, 1.0),
	}
}

func rescale(v, lo, hi float64) float64 {
	return lo + v*(hi-lo)
}

// bimodal maps a normalized noise value into either a poor (0–0.3) or a
// rich (0.7–1.0) band.
func bimodal(v float64) float64 {
	if v < 0.5 {
		return v * 0.6 // 0–0.3
	}
	return 0.7 + (v-0.5)*0.6 // 0.7–1.0
}
