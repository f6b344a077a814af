// Package journal stores investment decisions and watchlists in a local
// SQLite database, and exports decisions as CSV.
package journal

import (
	"context"
	"database/sql"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	analyzer "github.com/aadhyanagar08/stock-risk-analyzer"
	"github.com/aadhyanagar08/stock-risk-analyzer/date"
)

// DB is the journal database handle.
type DB struct {
	db   *sql.DB
	path string
}

const schema = `
CREATE TABLE IF NOT EXISTS decisions (
	id            INTEGER PRIMARY KEY AUTOINCREMENT,
	date          TEXT NOT NULL,
	category      TEXT NOT NULL,
	tickers       TEXT NOT NULL,
	profile_name  TEXT NOT NULL,
	weights_json  TEXT NOT NULL,
	top_pick      TEXT NOT NULL,
	action        TEXT NOT NULL,
	note          TEXT NOT NULL DEFAULT '',
	snapshot_path TEXT NOT NULL DEFAULT ''
);
CREATE TABLE IF NOT EXISTS watchlists (
	name TEXT PRIMARY KEY
);
CREATE TABLE IF NOT EXISTS watchlist_tickers (
	watchlist TEXT NOT NULL REFERENCES watchlists(name) ON DELETE CASCADE ON UPDATE CASCADE,
	ticker    TEXT NOT NULL,
	UNIQUE (watchlist, ticker)
);
`

// Open opens or creates the journal database under dataDir.
func Open(dataDir string) (*DB, error) {
	if err := os.MkdirAll(dataDir, 0o750); err != nil {
		return nil, fmt.Errorf("creating data dir %q: %w", dataDir, err)
	}
	path := filepath.Join(dataDir, "journal.db")
	db, err := sql.Open("sqlite", path+"?mode=rwc")
	if err != nil {
		return nil, fmt.Errorf("opening journal db: %w", err)
	}
	// SQLite supports a single writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	ctx := context.Background()
	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling WAL: %w", err)
	}
	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating journal schema: %w", err)
	}
	return &DB{db: db, path: path}, nil
}

// Close closes the underlying database.
func (d *DB) Close() error { return d.db.Close() }

// Path returns the database file location.
func (d *DB) Path() string { return d.path }

// Decision is one journaled compare outcome.
type Decision struct {
	Date         date.Date
	Category     string
	Tickers      []string
	ProfileName  string
	WeightsJSON  string
	TopPick      string
	Action       analyzer.Action
	Note         string
	SnapshotPath string
}

// Append validates and stores a decision. Tickers and the top pick are
// normalized to uppercase; the date defaults to today.
func (d *DB) Append(ctx context.Context, dec Decision) error {
	if dec.Category == "" {
		return fmt.Errorf("decision category is required")
	}
	if len(dec.Tickers) == 0 {
		return fmt.Errorf("decision tickers are required")
	}
	if _, err := analyzer.ParseAction(string(dec.Action)); err != nil {
		return err
	}
	tickers := make([]string, 0, len(dec.Tickers))
	for _, t := range dec.Tickers {
		n, err := analyzer.NormalizeTicker(t)
		if err != nil {
			return err
		}
		tickers = append(tickers, n)
	}
	top, err := analyzer.NormalizeTicker(dec.TopPick)
	if err != nil {
		return fmt.Errorf("top pick: %w", err)
	}
	when := dec.Date
	if when.IsZero() {
		when = date.Today()
	}

	_, err = d.db.ExecContext(ctx, `
		INSERT INTO decisions (date, category, tickers, profile_name, weights_json, top_pick, action, note, snapshot_path)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		when.String(), dec.Category, strings.Join(tickers, ";"), dec.ProfileName,
		dec.WeightsJSON, top, string(dec.Action), dec.Note, dec.SnapshotPath)
	if err != nil {
		return fmt.Errorf("appending decision: %w", err)
	}
	return nil
}

// Decisions returns all decisions, oldest first.
func (d *DB) Decisions(ctx context.Context) ([]Decision, error) {
	rows, err := d.db.QueryContext(ctx, `
		SELECT date, category, tickers, profile_name, weights_json, top_pick, action, note, snapshot_path
		FROM decisions ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("listing decisions: %w", err)
	}
	defer rows.Close()

	var out []Decision
	for rows.Next() {
		var dec Decision
		var day, tickers, action string
		if err := rows.Scan(&day, &dec.Category, &tickers, &dec.ProfileName,
			&dec.WeightsJSON, &dec.TopPick, &action, &dec.Note, &dec.SnapshotPath); err != nil {
			return nil, err
		}
		dec.Date, err = date.Parse(day)
		if err != nil {
			return nil, fmt.Errorf("corrupt decision date %q: %w", day, err)
		}
		dec.Action = analyzer.Action(action)
		dec.Tickers = strings.Split(tickers, ";")
		out = append(out, dec)
	}
	return out, rows.Err()
}

// ExportCSV writes all decisions in the legacy decisions.csv format.
func (d *DB) ExportCSV(ctx context.Context, w io.Writer) error {
	decisions, err := d.Decisions(ctx)
	if err != nil {
		return err
	}
	cw := csv.NewWriter(w)
	header := []string{"date", "category", "tickers", "profile_name", "weights_json",
		"top_pick", "action", "note", "snapshot_path"}
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, dec := range decisions {
		rec := []string{
			dec.Date.String(), dec.Category, strings.Join(dec.Tickers, ";"),
			dec.ProfileName, dec.WeightsJSON, dec.TopPick, string(dec.Action),
			dec.Note, dec.SnapshotPath,
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
