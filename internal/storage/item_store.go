package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"news-herald/internal/fingerprint"
	"news-herald/internal/model"
)

const articleColumns = `id, title, summary, link, published_at, fingerprint, created_at`

// ItemStore persists ingested items keyed by fingerprint.
type ItemStore struct {
	db *DB
}

func NewItemStore(db *DB) *ItemStore {
	return &ItemStore{db: db}
}

// InsertIfNew stores the item unless its fingerprint is already known.
// It reports whether a row was added. The fingerprint is computed when empty.
func (s *ItemStore) InsertIfNew(ctx context.Context, it model.Item) (bool, error) {
	if it.Fingerprint == "" {
		it.Fingerprint = fingerprint.Of(it.Title, it.Summary)
	}
	res, err := s.db.conn.ExecContext(ctx, `
		INSERT INTO articles (title, summary, link, published_at, fingerprint, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(fingerprint) DO NOTHING
	`, it.Title, it.Summary, it.Link, it.PublishedAt, it.Fingerprint, time.Now().UTC().Unix())
	if err != nil {
		return false, fmt.Errorf("failed to insert article: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read affected rows: %w", err)
	}
	return n == 1, nil
}

// NextUnpublished returns the oldest item whose fingerprint has no
// publication record, or nil when every item has been published.
func (s *ItemStore) NextUnpublished(ctx context.Context) (*model.Item, error) {
	row := s.db.conn.QueryRowContext(ctx, `
		SELECT `+articleColumns+`
		FROM articles a
		WHERE NOT EXISTS (SELECT 1 FROM posts p WHERE p.fingerprint = a.fingerprint)
		ORDER BY a.id ASC
		LIMIT 1
	`)
	it, err := scanItem(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to select next unpublished article: %w", err)
	}
	return &it, nil
}

// List returns every item ordered by id ascending.
func (s *ItemStore) List(ctx context.Context) ([]model.Item, error) {
	return s.query(ctx, `SELECT `+articleColumns+` FROM articles ORDER BY id ASC`)
}

// ListRecent returns up to limit items, newest first.
func (s *ItemStore) ListRecent(ctx context.Context, limit int) ([]model.Item, error) {
	return s.query(ctx, `SELECT `+articleColumns+` FROM articles ORDER BY id DESC LIMIT ?`, limit)
}

// Delete removes one item. It returns ErrNotFound for an unknown id.
func (s *ItemStore) Delete(ctx context.Context, id int64) error {
	return deleteByID(ctx, s.db.conn, "articles", id)
}

// Clear removes every item and returns how many were removed.
func (s *ItemStore) Clear(ctx context.Context) (int64, error) {
	return clearTable(ctx, s.db.conn, "articles")
}

func (s *ItemStore) Count(ctx context.Context) (int, error) {
	return countRows(ctx, s.db.conn, "articles")
}

func (s *ItemStore) query(ctx context.Context, q string, args ...any) ([]model.Item, error) {
	rows, err := s.db.conn.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list articles: %w", err)
	}
	defer rows.Close()

	items := []model.Item{}
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan article row: %w", err)
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating article rows: %w", err)
	}
	return items, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanItem(sc scanner) (model.Item, error) {
	var it model.Item
	var created int64
	err := sc.Scan(&it.ID, &it.Title, &it.Summary, &it.Link, &it.PublishedAt, &it.Fingerprint, &created)
	if err != nil {
		return model.Item{}, err
	}
	it.CreatedAt = time.Unix(created, 0).UTC()
	return it, nil
}
