package storage

import (
	"context"
	"fmt"

	"github.com/runger/launcher/internal/history"
)

// LoadHistory returns the stored history items, most recent first. Rows
// with an unknown kind are skipped.
func (s *SQLiteStore) LoadHistory(ctx context.Context) ([]history.Item, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT kind, ref FROM history ORDER BY position ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	defer rows.Close()

	var items []history.Item
	for rows.Next() {
		var kind, ref string
		if err := rows.Scan(&kind, &ref); err != nil {
			return nil, fmt.Errorf("failed to scan history row: %w", err)
		}
		k, err := history.ParseKind(kind)
		if err != nil {
			continue
		}
		items = append(items, history.Item{Kind: k, Ref: ref})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read history: %w", err)
	}
	return items, nil
}

// SaveHistory replaces the stored history with items in one transaction.
func (s *SQLiteStore) SaveHistory(ctx context.Context, items []history.Item) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM history`); err != nil {
		return fmt.Errorf("failed to clear history: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT OR IGNORE INTO history (position, kind, ref) VALUES (?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare history insert: %w", err)
	}
	defer stmt.Close()

	for pos, it := range items {
		if _, err := stmt.ExecContext(ctx, pos, it.Kind.String(), it.Ref); err != nil {
			return fmt.Errorf("failed to insert history item: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit history: %w", err)
	}
	return nil
}
