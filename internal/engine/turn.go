package engine

import (
	"errors"
	"log/slog"

	"github.com/tcgarvin/spacesim2/internal/actors"
	"github.com/tcgarvin/spacesim2/internal/production"
)

// TurnSummary aggregates what happened during one turn.
type TurnSummary struct {
	Turn              int   `json:"turn"`
	Trades            int   `json:"trades"`
	TradedValue       int64 `json:"traded_value"`
	Productions       int   `json:"productions"`
	FailedProductions int   `json:"failed_productions"`
	Blocked           int   `json:"blocked"`
	EntityErrors      int   `json:"entity_errors"`
}

// RunTurn advances the simulation by one turn: every actor acts in a
// freshly shuffled order, ships move and trade, then each planet's market
// settles. Orders placed this turn can match this turn; their fills are
// visible to deciders next turn.
func (s *Simulation) RunTurn() TurnSummary {
	s.mu.Lock()
	s.Turn++
	turn := s.Turn
	s.mu.Unlock()

	summary := TurnSummary{Turn: turn}
	ctx := &actors.Context{
		Catalog: s.Catalog,
		Planets: s.Planets,
		Turn:    turn,
		Rng:     s.rng,
	}

	// A fresh shuffle each turn keeps no actor permanently advantaged by
	// position in the action order.
	order := make([]*actors.Actor, len(s.Actors))
	copy(order, s.Actors)
	s.rng.Shuffle(len(order), func(i, j int) {
		order[i], order[j] = order[j], order[i]
	})
	for _, a := range order {
		s.runActor(ctx, a, &summary)
	}

	shipOrder := make([]*actors.Ship, len(s.Ships))
	copy(shipOrder, s.Ships)
	s.rng.Shuffle(len(shipOrder), func(i, j int) {
		shipOrder[i], shipOrder[j] = shipOrder[j], shipOrder[i]
	})
	for _, sh := range shipOrder {
		s.runShip(ctx, sh, &summary)
	}

	var trades []TradeSnapshot
	for _, p := range s.sortedPlanets() {
		txs, err := p.Market.Settle(turn)
		if err != nil {
			slog.Error("settlement failed", "planet", p.Name, "turn", turn, "error", err)
			summary.EntityErrors++
			continue
		}
		summary.Trades += len(txs)
		for _, tx := range txs {
			summary.TradedValue += tx.Price * int64(tx.Quantity)
			trades = append(trades, TradeSnapshot{
				Planet:    p.Name,
				Commodity: tx.Commodity.ID,
				Buyer:     tx.Buyer.Name(),
				Seller:    tx.Seller.Name(),
				Quantity:  tx.Quantity,
				Price:     tx.Price,
			})
		}
	}

	s.mu.Lock()
	s.snap = s.buildSnapshot(summary, trades)
	s.mu.Unlock()

	slog.Debug("turn complete",
		"turn", turn,
		"trades", summary.Trades,
		"traded_value", summary.TradedValue,
		"productions", summary.Productions,
		"failed", summary.FailedProductions,
		"blocked", summary.Blocked,
	)
	return summary
}

// runActor executes one actor's full turn. A panicking actor forfeits its
// turn; everyone else is unaffected.
func (s *Simulation) runActor(ctx *actors.Context, a *actors.Actor, summary *TurnSummary) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("actor panicked, skipping turn", "actor", a.Name(), "turn", ctx.Turn, "panic", r)
			summary.EntityErrors++
		}
	}()

	a.TickDrives(ctx.Rng)

	if cmd := a.Brain.DecideEconomicAction(ctx, a); cmd != nil {
		a.LastOutcome = actors.OutcomeNone
		err := cmd.Execute(ctx, a)
		var blocked *production.BlockedError
		switch {
		case err == nil:
			switch a.LastOutcome {
			case actors.OutcomeProduced:
				summary.Productions++
			case actors.OutcomeProductionFailed:
				summary.FailedProductions++
			}
		case errors.As(err, &blocked):
			summary.Blocked++
			a.LastAction = "blocked: " + blocked.Reason
		default:
			slog.Warn("economic action failed", "actor", a.Name(), "turn", ctx.Turn, "error", err)
			summary.EntityErrors++
		}
	}

	for _, cmd := range a.Brain.DecideMarketActions(ctx, a) {
		if err := cmd.Execute(ctx, a); err != nil {
			slog.Warn("market action failed", "actor", a.Name(), "turn", ctx.Turn, "error", err)
			summary.EntityErrors++
		}
	}
}

func (s *Simulation) runShip(ctx *actors.Context, sh *actors.Ship, summary *TurnSummary) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("ship panicked, skipping turn", "ship", sh.Name(), "turn", ctx.Turn, "panic", r)
			summary.EntityErrors++
		}
	}()
	sh.TakeTurn(ctx)
}
