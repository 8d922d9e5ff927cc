// Package persistence provides SQLite-based simulation history storage.
package persistence

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/tcgarvin/spacesim2/internal/engine"
)

// DB wraps a SQLite connection for simulation history persistence.
type DB struct {
	conn *sqlx.DB
}

// Open opens or creates a SQLite database at the given path.
func Open(path string) (*DB, error) {
	conn, err := sqlx.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return db, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS turn_stats (
		turn INTEGER PRIMARY KEY,
		trades INTEGER NOT NULL,
		traded_value INTEGER NOT NULL,
		productions INTEGER NOT NULL,
		failed_productions INTEGER NOT NULL,
		blocked INTEGER NOT NULL,
		entity_errors INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS transactions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		turn INTEGER NOT NULL,
		planet TEXT NOT NULL,
		commodity TEXT NOT NULL,
		buyer TEXT NOT NULL,
		seller TEXT NOT NULL,
		quantity INTEGER NOT NULL,
		price INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS market_quotes (
		turn INTEGER NOT NULL,
		planet TEXT NOT NULL,
		commodity TEXT NOT NULL,
		bid INTEGER,
		ask INTEGER,
		avg_price REAL,
		PRIMARY KEY (turn, planet, commodity)
	);

	CREATE TABLE IF NOT EXISTS actor_snapshots (
		turn INTEGER NOT NULL,
		name TEXT NOT NULL,
		planet TEXT NOT NULL,
		money INTEGER NOT NULL,
		last_action TEXT NOT NULL,
		goods_json TEXT NOT NULL,
		PRIMARY KEY (turn, name)
	);

	CREATE TABLE IF NOT EXISTS ship_snapshots (
		turn INTEGER NOT NULL,
		name TEXT NOT NULL,
		status TEXT NOT NULL,
		planet TEXT NOT NULL,
		destination TEXT,
		money INTEGER NOT NULL,
		cargo_json TEXT NOT NULL,
		last_action TEXT NOT NULL,
		PRIMARY KEY (turn, name)
	);

	CREATE TABLE IF NOT EXISTS sim_meta (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_transactions_turn ON transactions(turn);
	CREATE INDEX IF NOT EXISTS idx_transactions_commodity ON transactions(commodity, turn);
	CREATE INDEX IF NOT EXISTS idx_quotes_commodity ON market_quotes(commodity, turn);
	CREATE INDEX IF NOT EXISTS idx_actor_snapshots_name ON actor_snapshots(name, turn);
	`
	_, err := db.conn.Exec(schema)
	return err
}

// RecordTurn appends one completed turn's snapshot to the history tables.
func (db *DB) RecordTurn(snap *engine.Snapshot) error {
	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	s := snap.Summary
	if _, err := tx.Exec(`INSERT OR REPLACE INTO turn_stats
		(turn, trades, traded_value, productions, failed_productions, blocked, entity_errors)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		s.Turn, s.Trades, s.TradedValue, s.Productions, s.FailedProductions, s.Blocked, s.EntityErrors,
	); err != nil {
		return fmt.Errorf("insert turn stats: %w", err)
	}

	// Re-recording a turn replaces its trades rather than duplicating
	// them.
	if _, err := tx.Exec("DELETE FROM transactions WHERE turn = ?", snap.Turn); err != nil {
		return fmt.Errorf("clear transactions: %w", err)
	}
	for _, tr := range snap.Trades {
		if _, err := tx.Exec(`INSERT INTO transactions
			(turn, planet, commodity, buyer, seller, quantity, price)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			snap.Turn, tr.Planet, tr.Commodity, tr.Buyer, tr.Seller, tr.Quantity, tr.Price,
		); err != nil {
			return fmt.Errorf("insert transaction %s/%s: %w", tr.Planet, tr.Commodity, err)
		}
	}

	for _, p := range snap.Planets {
		for commodity, q := range p.Quotes {
			// A zero bid, ask or average means that side of the quote is
			// absent; store NULL so history queries skip it.
			var bid, ask, avg interface{}
			if q.Bid > 0 {
				bid = q.Bid
			}
			if q.Ask > 0 {
				ask = q.Ask
			}
			if q.AvgPrice > 0 {
				avg = q.AvgPrice
			}
			if _, err := tx.Exec(`INSERT OR REPLACE INTO market_quotes
				(turn, planet, commodity, bid, ask, avg_price)
				VALUES (?, ?, ?, ?, ?, ?)`,
				snap.Turn, p.Name, commodity, bid, ask, avg,
			); err != nil {
				return fmt.Errorf("insert quote %s/%s: %w", p.Name, commodity, err)
			}
		}
	}

	stmt, err := tx.Preparex(`INSERT OR REPLACE INTO actor_snapshots
		(turn, name, planet, money, last_action, goods_json)
		VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, a := range snap.Actors {
		goodsJSON, _ := json.Marshal(a.Goods)
		if _, err := stmt.Exec(snap.Turn, a.Name, a.Planet, a.Money, a.LastAction, string(goodsJSON)); err != nil {
			return fmt.Errorf("insert actor %s: %w", a.Name, err)
		}
	}

	for _, sh := range snap.Ships {
		cargoJSON, _ := json.Marshal(sh.Cargo)
		if _, err := tx.Exec(`INSERT OR REPLACE INTO ship_snapshots
			(turn, name, status, planet, destination, money, cargo_json, last_action)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			snap.Turn, sh.Name, sh.Status, sh.Planet, sh.Destination, sh.Money, string(cargoJSON), sh.LastAction,
		); err != nil {
			return fmt.Errorf("insert ship %s: %w", sh.Name, err)
		}
	}

	if _, err := tx.Exec(
		"INSERT OR REPLACE INTO sim_meta (key, value) VALUES ('last_turn', ?)",
		fmt.Sprintf("%d", snap.Turn),
	); err != nil {
		return fmt.Errorf("save meta: %w", err)
	}

	return tx.Commit()
}

// SaveMeta stores a key-value pair in simulation metadata.
func (db *DB) SaveMeta(key, value string) error {
	_, err := db.conn.Exec(
		"INSERT OR REPLACE INTO sim_meta (key, value) VALUES (?, ?)",
		key, value,
	)
	return err
}

// GetMeta retrieves a metadata value.
func (db *DB) GetMeta(key string) (string, error) {
	var value string
	err := db.conn.Get(&value, "SELECT value FROM sim_meta WHERE key = ?", key)
	return value, err
}

// TurnStats is one row of the per-turn aggregate history.
type TurnStats struct {
	Turn              int   `db:"turn"`
	Trades            int   `db:"trades"`
	TradedValue       int64 `db:"traded_value"`
	Productions       int   `db:"productions"`
	FailedProductions int   `db:"failed_productions"`
	Blocked           int   `db:"blocked"`
	EntityErrors      int   `db:"entity_errors"`
}

// RecentTurns returns the most recent N turn summaries, newest first.
func (db *DB) RecentTurns(limit int) ([]TurnStats, error) {
	var stats []TurnStats
	err := db.conn.Select(&stats,
		"SELECT * FROM turn_stats ORDER BY turn DESC LIMIT ?", limit)
	return stats, err
}

// TradeRow is one settled trade as stored in the history database.
type TradeRow struct {
	Turn      int    `db:"turn"`
	Planet    string `db:"planet"`
	Commodity string `db:"commodity"`
	Buyer     string `db:"buyer"`
	Seller    string `db:"seller"`
	Quantity  int    `db:"quantity"`
	Price     int64  `db:"price"`
}

// Transactions returns every trade settled on the given turn, in
// settlement order.
func (db *DB) Transactions(turn int) ([]TradeRow, error) {
	var rows []TradeRow
	err := db.conn.Select(&rows, `
		SELECT turn, planet, commodity, buyer, seller, quantity, price
		FROM transactions WHERE turn = ? ORDER BY id`, turn)
	return rows, err
}

// TradeHistory returns a commodity's trades across all planets, oldest
// first, capped at limit rows.
func (db *DB) TradeHistory(commodity string, limit int) ([]TradeRow, error) {
	var rows []TradeRow
	err := db.conn.Select(&rows, `
		SELECT turn, planet, commodity, buyer, seller, quantity, price
		FROM transactions WHERE commodity = ?
		ORDER BY id DESC LIMIT ?`, commodity, limit)
	if err != nil {
		return nil, err
	}
	for i, j := 0, len(rows)-1; i < j; i, j = i+1, j-1 {
		rows[i], rows[j] = rows[j], rows[i]
	}
	return rows, nil
}

// PriceHistory returns avg prices for a commodity on a planet, oldest first.
func (db *DB) PriceHistory(planet, commodity string, limit int) ([]float64, error) {
	var prices []float64
	err := db.conn.Select(&prices, `
		SELECT avg_price FROM market_quotes
		WHERE planet = ? AND commodity = ? AND avg_price IS NOT NULL
		ORDER BY turn DESC LIMIT ?`, planet, commodity, limit)
	if err != nil {
		return nil, err
	}
	for i, j := 0, len(prices)-1; i < j; i, j = i+1, j-1 {
		prices[i], prices[j] = prices[j], prices[i]
	}
	return prices, nil
}

// SaveRun records a full run's final state after the last turn.
func (db *DB) SaveRun(sim *engine.Simulation) error {
	snap := sim.Snapshot()
	if snap == nil {
		return nil
	}
	slog.Info("saving simulation state", "turn", snap.Turn, "actors", len(snap.Actors), "ships", len(snap.Ships))
	return db.RecordTurn(snap)
}
