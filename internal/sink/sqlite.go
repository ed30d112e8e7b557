package sink

import (
	"database/sql"
	"fmt"
	"math"
	"time"

	_ "modernc.org/sqlite"

	"hf-selopt/internal/model"
	"hf-selopt/internal/scan"
)

// DB persists scan runs and their non-zero counter cells.
type DB struct {
	*sql.DB
}

func OpenDB(path string) (*DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS runs (
			run_id            TEXT PRIMARY KEY,
			read              BIGINT,
			processed         BIGINT,
			skipped           BIGINT,
			scans             BIGINT,
			complete          BOOLEAN,
			pt_edges          TEXT,
			created_at        TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		);
		CREATE TABLE IF NOT EXISTS counters (
			run_id            TEXT,
			name              TEXT,
			prong             INTEGER,
			class             TEXT,
			channel           TEXT,
			dimension         TEXT,
			pt_bin            INTEGER,
			threshold_index   INTEGER,
			count             BIGINT,
			FOREIGN KEY(run_id) REFERENCES runs(run_id)
		);
		CREATE INDEX IF NOT EXISTS counters_run ON counters(run_id, name);
	`)
	if err != nil {
		db.Close()
		return nil, err
	}

	return &DB{db}, nil
}

// SaveRun stores the run summary and every non-zero cell in one transaction.
func (db *DB) SaveRun(runID string, res *scan.Result) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	edges := fmt.Sprint(res.Store.Axis().Edges())
	if _, err := tx.Exec(
		`INSERT INTO runs (run_id, read, processed, skipped, scans, complete, pt_edges) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		runID, res.Stats.Read, res.Stats.Processed, res.Stats.TotalSkipped(), res.Stats.Scans, res.Complete, edges,
	); err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	stmt, err := tx.Prepare(`INSERT INTO counters (run_id, name, prong, class, channel, dimension, pt_bin, threshold_index, count) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, c := range res.Store.Snapshot() {
		if c.Count == 0 {
			continue
		}
		if c.Count > math.MaxInt64 {
			return fmt.Errorf("%s: count %d exceeds storage range", c.Name, c.Count)
		}
		dim := ""
		if !c.IsYield() {
			dim = c.Dimension.Key()
		}
		if _, err := stmt.Exec(
			runID, c.Name, int(c.Key.Prong), c.Key.Class.String(),
			model.ChannelName(c.Key.Prong, c.Key.Channel), dim, c.PtBin, c.Index, int64(c.Count),
		); err != nil {
			return fmt.Errorf("insert %s: %w", c.Name, err)
		}
	}
	return tx.Commit()
}

type RunInfo struct {
	ID        string
	Read      int64
	Processed int64
	Skipped   int64
	Scans     int64
	Complete  bool
	PtEdges   string
	CreatedAt time.Time
}

func (db *DB) ListRuns() ([]RunInfo, error) {
	rows, err := db.Query(`SELECT run_id, read, processed, skipped, scans, complete, pt_edges, created_at FROM runs ORDER BY created_at, run_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []RunInfo
	for rows.Next() {
		var r RunInfo
		if err := rows.Scan(&r.ID, &r.Read, &r.Processed, &r.Skipped, &r.Scans, &r.Complete, &r.PtEdges, &r.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// CounterRow is one stored cell. Dimension is empty for yield counters.
type CounterRow struct {
	Name           string
	Prong          int
	Class          string
	Channel        string
	Dimension      string
	PtBin          int
	ThresholdIndex int
	Count          int64
}

func (db *DB) LoadCounters(runID string) ([]CounterRow, error) {
	rows, err := db.Query(`SELECT name, prong, class, channel, dimension, pt_bin, threshold_index, count FROM counters WHERE run_id = ? ORDER BY rowid`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []CounterRow
	for rows.Next() {
		var r CounterRow
		if err := rows.Scan(&r.Name, &r.Prong, &r.Class, &r.Channel, &r.Dimension, &r.PtBin, &r.ThresholdIndex, &r.Count); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
