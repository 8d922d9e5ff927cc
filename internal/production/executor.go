// Package production executes catalog processes against an inventory,
// with skill-modulated stochastic outcomes. All randomness flows through
// an injected entropy.Source so every branch is reachable in tests.
package production

import (
	"fmt"

	"github.com/tcgarvin/spacesim2/internal/catalog"
	"github.com/tcgarvin/spacesim2/internal/economy"
	"github.com/tcgarvin/spacesim2/internal/entropy"
)

// BlockedError reports unmet process preconditions: a missing input,
// tool, or facility. Expected and frequent; brains use it to pick a
// different action.
type BlockedError struct {
	Reason string
}

func (e *BlockedError) Error() string {
	return "process blocked: " + e.Reason
}

// Outcome of an execution attempt that got past preconditions.
type Outcome uint8

const (
	Succeeded Outcome = iota
	Failed
)

// Result reports what an execution actually did. Consumed and Produced
// hold the quantities moved, multiplier included; a failed attempt has
// Consumed set (wasted materials) and Produced empty.
type Result struct {
	Outcome           Outcome
	MultiplierApplied bool
	Consumed          map[*catalog.Commodity]int
	Produced          map[*catalog.Commodity]int
}

// Multiplier tuning: chance scales linearly above rating 1.0, and a hit
// doubles both consumption and output.
const (
	multiplierChancePerPoint = 0.5
	multiplierFactor         = 2
)

// Execute runs one production attempt. Preconditions are checked in
// order: inputs available (unreserved), then tools owned, then facilities
// owned. Any miss returns a BlockedError with no side effects.
//
// Past preconditions: success probability is 1.0 at rating >= 1.0, else
// the rating itself. A failed attempt consumes the recipe's inputs and
// produces nothing. On success, a second draw against
// (rating-1)*0.5 (capped at 1) doubles both inputs consumed and outputs
// produced, provided the doubled inputs are actually available.
func Execute(p *catalog.Process, inv *economy.Inventory, rating float64, rng entropy.Source) (Result, error) {
	if err := checkPreconditions(p, inv); err != nil {
		return Result{}, err
	}

	success := rating >= 1.0 || rng.Float() < rating

	if !success {
		consumed, err := consumeInputs(p, inv, 1)
		if err != nil {
			return Result{}, err
		}
		return Result{Outcome: Failed, Consumed: consumed}, nil
	}

	mult := 1
	if rating > 1.0 {
		chance := (rating - 1.0) * multiplierChancePerPoint
		if chance > 1.0 {
			chance = 1.0
		}
		if rng.Float() < chance && hasInputs(p, inv, multiplierFactor) {
			mult = multiplierFactor
		}
	}

	consumed, err := consumeInputs(p, inv, mult)
	if err != nil {
		return Result{}, err
	}

	produced := make(map[*catalog.Commodity]int, len(p.Outputs))
	for c, qty := range p.Outputs {
		inv.Add(c, qty*mult)
		produced[c] = qty * mult
	}

	return Result{
		Outcome:           Succeeded,
		MultiplierApplied: mult > 1,
		Consumed:          consumed,
		Produced:          produced,
	}, nil
}

func checkPreconditions(p *catalog.Process, inv *economy.Inventory) error {
	for c, qty := range p.Inputs {
		if inv.Available(c) < qty {
			return &BlockedError{Reason: fmt.Sprintf("input %s: need %d, have %d available", c.ID, qty, inv.Available(c))}
		}
	}
	for _, tool := range p.Tools {
		if inv.Quantity(tool) < 1 {
			return &BlockedError{Reason: fmt.Sprintf("missing tool %s", tool.ID)}
		}
	}
	for _, fac := range p.Facilities {
		if inv.Quantity(fac) < 1 {
			return &BlockedError{Reason: fmt.Sprintf("missing facility %s", fac.ID)}
		}
	}
	return nil
}

func hasInputs(p *catalog.Process, inv *economy.Inventory, mult int) bool {
	for c, qty := range p.Inputs {
		if inv.Available(c) < qty*mult {
			return false
		}
	}
	return true
}

func consumeInputs(p *catalog.Process, inv *economy.Inventory, mult int) (map[*catalog.Commodity]int, error) {
	consumed := make(map[*catalog.Commodity]int, len(p.Inputs))
	for c, qty := range p.Inputs {
		if err := inv.Remove(c, qty*mult); err != nil {
			// Preconditions already held; this is an accounting bug.
			return nil, fmt.Errorf("consume %s: %w", c.ID, err)
		}
		consumed[c] = qty * mult
	}
	return consumed, nil
}

// CanExecute reports whether the process would pass preconditions against
// the inventory right now. Brains use it to filter candidate actions.
func CanExecute(p *catalog.Process, inv *economy.Inventory) bool {
	return checkPreconditions(p, inv) == nil
}
