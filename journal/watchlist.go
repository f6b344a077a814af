package journal

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	analyzer "github.com/aadhyanagar08/stock-risk-analyzer"
)

// Watchlists are named ticker sets, the categories a decision refers to.

// CreateWatchlist creates an empty watchlist.
func (d *DB) CreateWatchlist(ctx context.Context, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("watchlist name is required")
	}
	if _, err := d.db.ExecContext(ctx, `INSERT INTO watchlists (name) VALUES (?)`, name); err != nil {
		return fmt.Errorf("creating watchlist %q: %w", name, err)
	}
	return nil
}

// RenameWatchlist renames a watchlist; its tickers follow via the
// ON UPDATE CASCADE constraint.
func (d *DB) RenameWatchlist(ctx context.Context, oldName, newName string) error {
	newName = strings.TrimSpace(newName)
	if newName == "" {
		return fmt.Errorf("new watchlist name is required")
	}
	res, err := d.db.ExecContext(ctx, `UPDATE watchlists SET name = ? WHERE name = ?`, newName, oldName)
	if err != nil {
		return fmt.Errorf("renaming watchlist %q: %w", oldName, err)
	}
	return errIfMissing(res, oldName)
}

// DeleteWatchlist removes a watchlist and its tickers.
func (d *DB) DeleteWatchlist(ctx context.Context, name string) error {
	res, err := d.db.ExecContext(ctx, `DELETE FROM watchlists WHERE name = ?`, name)
	if err != nil {
		return fmt.Errorf("deleting watchlist %q: %w", name, err)
	}
	return errIfMissing(res, name)
}

// AddTickers adds tickers to a watchlist, ignoring duplicates.
func (d *DB) AddTickers(ctx context.Context, name string, tickers []string) error {
	if exists, err := d.watchlistExists(ctx, name); err != nil {
		return err
	} else if !exists {
		return fmt.Errorf("watchlist %q does not exist", name)
	}
	for _, t := range tickers {
		n, err := analyzer.NormalizeTicker(t)
		if err != nil {
			return err
		}
		_, err = d.db.ExecContext(ctx,
			`INSERT OR IGNORE INTO watchlist_tickers (watchlist, ticker) VALUES (?, ?)`, name, n)
		if err != nil {
			return fmt.Errorf("adding %s to watchlist %q: %w", n, name, err)
		}
	}
	return nil
}

// RemoveTickers removes tickers from a watchlist.
func (d *DB) RemoveTickers(ctx context.Context, name string, tickers []string) error {
	for _, t := range tickers {
		n, err := analyzer.NormalizeTicker(t)
		if err != nil {
			return err
		}
		_, err = d.db.ExecContext(ctx,
			`DELETE FROM watchlist_tickers WHERE watchlist = ? AND ticker = ?`, name, n)
		if err != nil {
			return fmt.Errorf("removing %s from watchlist %q: %w", n, name, err)
		}
	}
	return nil
}

// Watchlist returns the tickers of a watchlist, sorted.
func (d *DB) Watchlist(ctx context.Context, name string) ([]string, error) {
	if exists, err := d.watchlistExists(ctx, name); err != nil {
		return nil, err
	} else if !exists {
		return nil, fmt.Errorf("watchlist %q does not exist", name)
	}
	rows, err := d.db.QueryContext(ctx,
		`SELECT ticker FROM watchlist_tickers WHERE watchlist = ? ORDER BY ticker`, name)
	if err != nil {
		return nil, fmt.Errorf("reading watchlist %q: %w", name, err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var t string
		if err := rows.Scan(&t); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// Watchlists returns all watchlist names, sorted.
func (d *DB) Watchlists(ctx context.Context) ([]string, error) {
	rows, err := d.db.QueryContext(ctx, `SELECT name FROM watchlists ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("listing watchlists: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var n string
		if err := rows.Scan(&n); err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

func (d *DB) watchlistExists(ctx context.Context, name string) (bool, error) {
	var one int
	err := d.db.QueryRowContext(ctx, `SELECT 1 FROM watchlists WHERE name = ?`, name).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func errIfMissing(res sql.Result, name string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("watchlist %q does not exist", name)
	}
	return nil
}
