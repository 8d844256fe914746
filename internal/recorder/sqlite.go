package recorder

import (
	"database/sql"
	"fmt"
	"log"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"StockBalancer/internal/model"
)

// SQLiteRecorder persists rebalance runs to a SQLite database.
type SQLiteRecorder struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL so `history` can read while `watch` writes.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Printf("[INFO] sqlite recorder opened: %s", dbPath)
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS rebalance_runs (
			id           TEXT PRIMARY KEY,
			timestamp    INTEGER NOT NULL,
			trigger_type TEXT,
			currency     TEXT,
			total_value  REAL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_ts ON rebalance_runs(timestamp)`,

		`CREATE TABLE IF NOT EXISTS rebalance_holdings (
			run_id           TEXT NOT NULL REFERENCES rebalance_runs(id),
			position         INTEGER NOT NULL,
			name             TEXT,
			quantity         REAL,
			price            REAL,
			value            REAL,
			current_fraction REAL,
			target_fraction  REAL,
			PRIMARY KEY (run_id, position)
		)`,

		`CREATE TABLE IF NOT EXISTS rebalance_actions (
			run_id   TEXT NOT NULL REFERENCES rebalance_runs(id),
			position INTEGER NOT NULL,
			stock    TEXT,
			action   TEXT,
			quantity INTEGER,
			PRIMARY KEY (run_id, position)
		)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

func (r *SQLiteRecorder) RecordRun(run *Run) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`INSERT INTO rebalance_runs
		(id, timestamp, trigger_type, currency, total_value)
		VALUES (?,?,?,?,?)`,
		run.ID, run.At.UnixMilli(), string(run.Trigger), run.Currency, run.TotalValue,
	); err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	for i, h := range run.Holdings {
		if _, err := tx.Exec(`INSERT INTO rebalance_holdings
			(run_id, position, name, quantity, price, value, current_fraction, target_fraction)
			VALUES (?,?,?,?,?,?,?,?)`,
			run.ID, i, h.Name, h.Quantity, h.Price, h.Value, h.CurrentFraction, h.TargetFraction,
		); err != nil {
			return fmt.Errorf("insert holding %s: %w", h.Name, err)
		}
	}

	for i, a := range run.Actions {
		if _, err := tx.Exec(`INSERT INTO rebalance_actions
			(run_id, position, stock, action, quantity)
			VALUES (?,?,?,?,?)`,
			run.ID, i, a.Stock, string(a.Action), a.Quantity,
		); err != nil {
			return fmt.Errorf("insert action %s: %w", a.Stock, err)
		}
	}

	return tx.Commit()
}

func (r *SQLiteRecorder) RecentRuns(limit int) ([]Run, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if limit <= 0 {
		limit = 10
	}
	rows, err := r.db.Query(`SELECT id, timestamp, trigger_type, currency, total_value
		FROM rebalance_runs ORDER BY timestamp DESC, rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	var runs []Run
	for rows.Next() {
		var (
			run     Run
			ts      int64
			trigger string
		)
		if err := rows.Scan(&run.ID, &ts, &trigger, &run.Currency, &run.TotalValue); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan run: %w", err)
		}
		run.At = time.UnixMilli(ts)
		run.Trigger = model.TriggerType(trigger)
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()

	for i := range runs {
		if err := r.loadDetails(&runs[i]); err != nil {
			return nil, err
		}
	}
	return runs, nil
}

func (r *SQLiteRecorder) loadDetails(run *Run) error {
	hrows, err := r.db.Query(`SELECT name, quantity, price, value, current_fraction, target_fraction
		FROM rebalance_holdings WHERE run_id = ? ORDER BY position`, run.ID)
	if err != nil {
		return fmt.Errorf("query holdings: %w", err)
	}
	defer hrows.Close()
	for hrows.Next() {
		var h model.Holding
		if err := hrows.Scan(&h.Name, &h.Quantity, &h.Price, &h.Value, &h.CurrentFraction, &h.TargetFraction); err != nil {
			return fmt.Errorf("scan holding: %w", err)
		}
		run.Holdings = append(run.Holdings, h)
	}
	if err := hrows.Err(); err != nil {
		return err
	}

	arows, err := r.db.Query(`SELECT stock, action, quantity
		FROM rebalance_actions WHERE run_id = ? ORDER BY position`, run.ID)
	if err != nil {
		return fmt.Errorf("query actions: %w", err)
	}
	defer arows.Close()
	for arows.Next() {
		var (
			a      model.RebalanceAction
			action string
		)
		if err := arows.Scan(&a.Stock, &action, &a.Quantity); err != nil {
			return fmt.Errorf("scan action: %w", err)
		}
		a.Action = model.Action(action)
		run.Actions = append(run.Actions, a)
	}
	return arows.Err()
}

func (r *SQLiteRecorder) Close() error {
	log.Println("[INFO] closing sqlite recorder")
	return r.db.Close()
}
