package engine

import (
	"fmt"

	"github.com/tcgarvin/spacesim2/internal/actors"
	"github.com/tcgarvin/spacesim2/internal/catalog"
	"github.com/tcgarvin/spacesim2/internal/world"
)

// Demo scenario layout. Planet coordinates are far enough apart that ship
// journeys take multiple turns.
var demoPlanets = []struct {
	name string
	x, y float64
}{
	{"Aldrin", 0, 0},
	{"Borman", 180, 40},
	{"Collins", 60, 240},
}

// Starting endowments for the demo population.
const (
	demoColonistMoney      = 100
	demoColonistFood       = 10
	demoIndustrialistMoney = 300
	demoMarketMakerMoney   = 1000
	demoShipMoney          = 500
	demoShipFuel           = 30
	demoShipCargoCapacity  = 60
	demoShipFuelCapacity   = 40
	demoShipFuelEfficiency = 1.0
	demoColonistsPerPlanet = 6
	demoMakerSpread        = 0.1
	demoMakerMaxPosition   = 40
)

// demoIndustries names a process and the tools its operator starts with.
var demoIndustries = []struct {
	processID string
	toolIDs   []string
}{
	{"make_food", nil},
	{"gather_fiber", nil},
	{"weave_cloth", nil},
	{"tailor_clothing", []string{"simple_tools"}},
	{"harvest_wood", nil},
	{"mine_common_metal_ore", nil},
	{"smelt_common_metal", nil},
	{"forge_tools", []string{"simple_tools"}},
	{"mine_nova_fuel_ore", nil},
	{"refine_nova_fuel", []string{"simple_tools"}},
	{"gather_building_materials", nil},
	{"assemble_structural_components", []string{"simple_tools"}},
}

var demoMakerCommodities = []string{"food", "cloth", "clothing", "nova_fuel"}

// NewDemoSimulation builds a small three-planet economy with colonists,
// industrialists, market makers and a trading ship per planet pair.
func NewDemoSimulation(cat *catalog.Catalog, seed int64) *Simulation {
	sim := NewSimulation(cat, seed)
	gen := world.NewAttributeGen(seed)

	for _, dp := range demoPlanets {
		sim.AddPlanet(dp.name, dp.x, dp.y, gen)
	}

	food := cat.Commodities.MustGet("food")
	fuel := cat.Commodities.MustGet("nova_fuel")

	for _, p := range sim.Planets {
		for i := 0; i < demoColonistsPerPlanet; i++ {
			a := actors.NewActor(
				fmt.Sprintf("%s-colonist-%d", p.Name, i+1),
				p, &actors.ColonistBrain{}, demoColonistMoney, catalog.SkillSet{},
			)
			a.Drives = actors.StandardDrives(cat.Commodities)
			a.Inventory().Add(food, demoColonistFood)
			sim.AddActor(a)
		}

		for _, ind := range demoIndustries {
			proc := cat.Processes.Get(ind.processID)
			if proc == nil {
				continue
			}
			a := actors.NewActor(
				fmt.Sprintf("%s-%s", p.Name, proc.ID),
				p, &actors.IndustrialistBrain{ProcessID: proc.ID}, demoIndustrialistMoney, catalog.SkillSet{},
			)
			a.Drives = actors.StandardDrives(cat.Commodities)
			a.Inventory().Add(food, demoColonistFood)
			for _, toolID := range ind.toolIDs {
				a.Inventory().Add(cat.Commodities.MustGet(toolID), 1)
			}
			sim.AddActor(a)
		}

		for _, cid := range demoMakerCommodities {
			if cat.Commodities.Get(cid) == nil {
				continue
			}
			a := actors.NewActor(
				fmt.Sprintf("%s-maker-%s", p.Name, cid),
				p, &actors.MarketMakerBrain{
					CommodityID: cid,
					Spread:      demoMakerSpread,
					MaxPosition: demoMakerMaxPosition,
				}, demoMarketMakerMoney, catalog.SkillSet{},
			)
			a.Drives = actors.StandardDrives(cat.Commodities)
			a.Inventory().Add(food, demoColonistFood)
			sim.AddActor(a)
		}
	}

	for i, p := range sim.Planets {
		sh := actors.NewShip(
			fmt.Sprintf("trader-%d", i+1),
			p, actors.NewTraderBrain("food"),
			demoShipCargoCapacity, demoShipFuelCapacity, demoShipFuelEfficiency,
			demoShipMoney,
		)
		sh.Inventory().Add(fuel, demoShipFuel)
		sim.AddShip(sh)
	}

	return sim
}
