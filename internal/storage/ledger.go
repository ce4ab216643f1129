package storage

import (
	"context"
	"fmt"
	"time"

	"news-herald/internal/model"
)

// Ledger records which fingerprints have been published.
type Ledger struct {
	db *DB
}

func NewLedger(db *DB) *Ledger {
	return &Ledger{db: db}
}

// Record marks fingerprint as published. It returns false, without error,
// when the fingerprint was already recorded.
func (l *Ledger) Record(ctx context.Context, fp, remoteID string) (bool, error) {
	res, err := l.db.conn.ExecContext(ctx, `
		INSERT INTO posts (fingerprint, remote_id, created_at)
		VALUES (?, ?, ?)
		ON CONFLICT(fingerprint) DO NOTHING
	`, fp, remoteID, time.Now().UTC().Unix())
	if err != nil {
		return false, fmt.Errorf("failed to record post: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read affected rows: %w", err)
	}
	return n == 1, nil
}

// Contains reports whether fingerprint has a publication record.
func (l *Ledger) Contains(ctx context.Context, fp string) (bool, error) {
	var one int
	err := l.db.conn.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM posts WHERE fingerprint = ?)`, fp).Scan(&one)
	if err != nil {
		return false, fmt.Errorf("failed to check post: %w", err)
	}
	return one == 1, nil
}

// List returns every publication record ordered by id ascending.
func (l *Ledger) List(ctx context.Context) ([]model.PublicationRecord, error) {
	rows, err := l.db.conn.QueryContext(ctx,
		`SELECT id, fingerprint, remote_id, created_at FROM posts ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}
	defer rows.Close()

	records := []model.PublicationRecord{}
	for rows.Next() {
		var r model.PublicationRecord
		var created int64
		if err := rows.Scan(&r.ID, &r.Fingerprint, &r.RemoteID, &created); err != nil {
			return nil, fmt.Errorf("failed to scan post row: %w", err)
		}
		r.CreatedAt = time.Unix(created, 0).UTC()
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating post rows: %w", err)
	}
	return records, nil
}

// Delete removes one record. It returns ErrNotFound for an unknown id.
func (l *Ledger) Delete(ctx context.Context, id int64) error {
	return deleteByID(ctx, l.db.conn, "posts", id)
}

// Clear removes every record and returns how many were removed.
func (l *Ledger) Clear(ctx context.Context) (int64, error) {
	return clearTable(ctx, l.db.conn, "posts")
}

func (l *Ledger) Count(ctx context.Context) (int, error) {
	return countRows(ctx, l.db.conn, "posts")
}
