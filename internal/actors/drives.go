package actors

import (
	"math"

	"github.com/tcgarvin/spacesim2/internal/catalog"
	"github.com/tcgarvin/spacesim2/internal/entropy"
)

// DriveMetrics are a drive's outputs for brain scoring, all in [0, 1].
// Health reflects whether the current turn's need was met, Debt is a
// decaying memory of missed needs, Buffer is normalized stockpile depth,
// Urgency is the drive's fixed weight.
type DriveMetrics struct {
	Health  float64
	Debt    float64
	Buffer  float64
	Urgency float64
}

// Drive models one modeled need: it consumes goods each turn and exposes
// metrics the brain scores against. Drives hold per-actor memory, so one
// instance belongs to exactly one actor.
type Drive interface {
	Name() string
	Tick(a *Actor, rng entropy.Source) DriveMetrics
	Metrics() DriveMetrics
}

func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}

// logNormRatio maps a stock level to [0,1] with diminishing returns:
// ln(1+min(x,cap)/target) / ln(1+cap/target).
func logNormRatio(x, target, cap float64) float64 {
	ratio := math.Min(math.Max(x, 0), cap) / target
	denom := math.Log1p(cap / target)
	if denom <= 0 {
		return 0
	}
	return clamp01(math.Log1p(ratio) / denom)
}

// FoodDrive: one unit of food eaten per turn, hard health hit when the
// pantry is empty.
type FoodDrive struct {
	food    *catalog.Commodity
	metrics DriveMetrics
}

const (
	foodPerTurn      = 1
	foodDebtDecay    = 0.8
	foodDebtPenalty  = 0.2
	foodPantryTarget = 7.0
	foodPantryMax    = 30.0
	foodDriveUrgency = 1.0
)

func NewFoodDrive(commodities *catalog.CommodityRegistry) *FoodDrive {
	return &FoodDrive{
		food:    commodities.MustGet("food"),
		metrics: DriveMetrics{Health: 1.0, Urgency: foodDriveUrgency},
	}
}

func (d *FoodDrive) Name() string { return "food" }

func (d *FoodDrive) Metrics() DriveMetrics { return d.metrics }

func (d *FoodDrive) Tick(a *Actor, rng entropy.Source) DriveMetrics {
	ate := a.Inventory().Remove(d.food, foodPerTurn) == nil

	pantryTurns := float64(a.Inventory().Available(d.food)) / foodPerTurn

	health := 0.0
	miss := foodDebtPenalty
	if ate {
		health = 1.0
		miss = 0
	}
	d.metrics = DriveMetrics{
		Health:  health,
		Debt:    clamp01(d.metrics.Debt*foodDebtDecay + miss),
		Buffer:  logNormRatio(pantryTurns, foodPantryTarget, foodPantryMax),
		Urgency: foodDriveUrgency,
	}
	return d.metrics
}

// ClothingDrive: wardrobe wears out stochastically, roughly one
// replacement event per sixty turns.
type ClothingDrive struct {
	clothing *catalog.Commodity
	metrics  DriveMetrics
}

const (
	clothingEventProb    = 1.0 / 60.0
	clothingDebtDecay    = 0.8
	clothingDebtPenalty  = 0.5
	clothingBufferTarget = 60.0
	clothingBufferMax    = 180.0
	clothingUrgency      = 1.0
)

func NewClothingDrive(commodities *catalog.CommodityRegistry) *ClothingDrive {
	return &ClothingDrive{
		clothing: commodities.MustGet("clothing"),
		metrics:  DriveMetrics{Health: 1.0, Urgency: clothingUrgency},
	}
}

func (d *ClothingDrive) Name() string { return "clothing" }

func (d *ClothingDrive) Metrics() DriveMetrics { return d.metrics }

func (d *ClothingDrive) Tick(a *Actor, rng entropy.Source) DriveMetrics {
	inv := a.Inventory()
	hasClothes := inv.Available(d.clothing) > 0

	if rng.Float() < clothingEventProb {
		_ = inv.Remove(d.clothing, 1) // a miss shows up as debt below
	}

	stock := float64(inv.Available(d.clothing))
	coverageTurns := stock / clothingEventProb

	health := 0.0
	miss := clothingDebtPenalty
	if hasClothes {
		health = 1.0
		miss = 0
	}
	d.metrics = DriveMetrics{
		Health:  health,
		Debt:    clamp01(d.metrics.Debt*clothingDebtDecay + miss),
		Buffer:  logNormRatio(coverageTurns, clothingBufferTarget, clothingBufferMax),
		Urgency: clothingUrgency,
	}
	return d.metrics
}

// ShelterDrive: occasional maintenance events consume a structural
// component; an unmet event leaves lasting debt.
type ShelterDrive struct {
	structural *catalog.Commodity
	metrics    DriveMetrics
}

const (
	shelterEventProb   = 0.01 * 0.5
	shelterDebtDecay   = 0.8
	shelterDebtPenalty = 0.2
	shelterUrgency     = 1.0
)

func NewShelterDrive(commodities *catalog.CommodityRegistry) *ShelterDrive {
	return &ShelterDrive{
		structural: commodities.MustGet("structural_component"),
		metrics:    DriveMetrics{Health: 1.0, Urgency: shelterUrgency},
	}
}

func (d *ShelterDrive) Name() string { return "shelter" }

func (d *ShelterDrive) Metrics() DriveMetrics { return d.metrics }

func (d *ShelterDrive) Tick(a *Actor, rng entropy.Source) DriveMetrics {
	inv := a.Inventory()

	health := 1.0
	debt := d.metrics.Debt
	if rng.Float() < shelterEventProb {
		maintained := inv.Remove(d.structural, 1) == nil
		debt *= shelterDebtDecay
		if !maintained {
			health = 0.0
			debt += shelterDebtPenalty
		}
	} else if inv.Available(d.structural) > 0 {
		debt *= shelterDebtDecay
	}

	coverageTurns := float64(inv.Available(d.structural)) / shelterEventProb
	bufferTarget := 1.0 / shelterEventProb

	d.metrics = DriveMetrics{
		Health:  health,
		Debt:    clamp01(debt),
		Buffer:  logNormRatio(coverageTurns, bufferTarget, 3*bufferTarget),
		Urgency: shelterUrgency,
	}
	return d.metrics
}

// StandardDrives builds the usual food/clothing/shelter set for a
// colonist.
func StandardDrives(commodities *catalog.CommodityRegistry) []Drive {
	return []Drive{
		NewFoodDrive(commodities),
		NewClothingDrive(commodities),
		NewShelterDrive(commodities),
	}
}
