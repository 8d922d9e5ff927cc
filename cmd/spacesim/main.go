// Command spacesim runs the interplanetary economy simulation.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/tcgarvin/spacesim2/internal/api"
	"github.com/tcgarvin/spacesim2/internal/catalog"
	"github.com/tcgarvin/spacesim2/internal/engine"
	"github.com/tcgarvin/spacesim2/internal/persistence"
)

var (
	flagTurns   int
	flagSeed    int64
	flagData    string
	flagDB      string
	flagAPIPort int
	flagAPIRate int
	flagVerbose bool
)

func main() {
	root := &cobra.Command{
		Use:   "spacesim",
		Short: "Turn-based interplanetary economy simulator",
	}

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Run the simulation",
		RunE:  runSimulation,
	}
	runCmd.Flags().IntVar(&flagTurns, "turns", 500, "number of turns to simulate (0 = run until interrupted)")
	runCmd.Flags().Int64Var(&flagSeed, "seed", 42, "random seed for the run")
	runCmd.Flags().StringVar(&flagData, "data", "data", "directory containing commodity, process and skill definitions")
	runCmd.Flags().StringVar(&flagDB, "db", "", "SQLite history database path (empty = no persistence)")
	runCmd.Flags().IntVar(&flagAPIPort, "api-port", 0, "HTTP API port (0 = disabled)")
	runCmd.Flags().IntVar(&flagAPIRate, "api-rate-limit", 120, "history endpoint requests per client per minute")
	runCmd.Flags().BoolVar(&flagVerbose, "verbose", false, "enable debug logging")
	root.AddCommand(runCmd)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func runSimulation(cmd *cobra.Command, args []string) error {
	level := slog.LevelInfo
	if flagVerbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	cat, err := catalog.Load(flagData)
	if err != nil {
		return fmt.Errorf("load catalog: %w", err)
	}
	slog.Info("catalog loaded",
		"commodities", cat.Commodities.Len(),
		"processes", len(cat.Processes.All()),
		"skills", len(cat.Skills.All()),
	)

	var db *persistence.DB
	if flagDB != "" {
		db, err = persistence.Open(flagDB)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer db.Close()
		slog.Info("database opened", "path", flagDB)
	}

	sim := engine.NewDemoSimulation(cat, flagSeed)
	slog.Info("simulation built",
		"seed", flagSeed,
		"planets", len(sim.Planets),
		"actors", len(sim.Actors),
		"ships", len(sim.Ships),
	)

	if flagAPIPort > 0 {
		server := &api.Server{Sim: sim, DB: db, Port: flagAPIPort, HistoryRate: flagAPIRate}
		server.Start()
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	start := time.Now()
	var total engine.TurnSummary

loop:
	for turn := 1; flagTurns == 0 || turn <= flagTurns; turn++ {
		select {
		case <-stop:
			slog.Info("interrupted", "turn", sim.CurrentTurn())
			break loop
		default:
		}

		summary := sim.RunTurn()
		total.Trades += summary.Trades
		total.TradedValue += summary.TradedValue
		total.Productions += summary.Productions
		total.FailedProductions += summary.FailedProductions
		total.Blocked += summary.Blocked
		total.EntityErrors += summary.EntityErrors

		if db != nil {
			if err := db.RecordTurn(sim.Snapshot()); err != nil {
				slog.Warn("failed to record turn", "turn", summary.Turn, "error", err)
			}
		}

		if summary.Turn%100 == 0 {
			slog.Info("progress",
				"turn", summary.Turn,
				"trades", summary.Trades,
				"traded_value", summary.TradedValue,
			)
		}
	}

	elapsed := time.Since(start)
	turns := sim.CurrentTurn()
	slog.Info("run complete",
		"turns", humanize.Comma(int64(turns)),
		"elapsed", elapsed.Round(time.Millisecond),
		"trades", humanize.Comma(int64(total.Trades)),
		"traded_value", humanize.Comma(total.TradedValue),
		"productions", humanize.Comma(int64(total.Productions)),
		"failed_productions", humanize.Comma(int64(total.FailedProductions)),
		"blocked", humanize.Comma(int64(total.Blocked)),
		"entity_errors", humanize.Comma(int64(total.EntityErrors)),
	)

	return nil
}
