// Package admin implements the maintenance operations behind the list,
// delete and cleanup commands.
package admin

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"news-herald/internal/model"
	"news-herald/internal/storage"
)

// Table names an administrable table.
type Table string

const (
	Articles Table = "articles"
	Posts    Table = "posts"
)

// AllTables is the order tables are processed in when none is given.
var AllTables = []Table{Articles, Posts}

// ErrUnknownTable is returned for a table name other than articles or posts.
var ErrUnknownTable = errors.New("unknown table")

// ParseTable validates a table name.
func ParseTable(s string) (Table, error) {
	switch t := Table(strings.ToLower(strings.TrimSpace(s))); t {
	case Articles, Posts:
		return t, nil
	}
	return "", fmt.Errorf("%w %q (want articles or posts)", ErrUnknownTable, s)
}

// Tool operates on both tables of one database.
type Tool struct {
	items  *storage.ItemStore
	ledger *storage.Ledger
}

func New(db *storage.DB) *Tool {
	return &Tool{items: storage.NewItemStore(db), ledger: storage.NewLedger(db)}
}

// List returns every row of table.
func (t *Tool) List(ctx context.Context, table Table) (Listing, error) {
	switch table {
	case Articles:
		items, err := t.items.List(ctx)
		if err != nil {
			return Listing{}, err
		}
		return articleListing(items), nil
	case Posts:
		recs, err := t.ledger.List(ctx)
		if err != nil {
			return Listing{}, err
		}
		return postListing(recs), nil
	}
	return Listing{}, fmt.Errorf("%w %q", ErrUnknownTable, table)
}

// Delete removes one row by id. A missing row yields storage.ErrNotFound.
func (t *Tool) Delete(ctx context.Context, table Table, id int64) error {
	switch table {
	case Articles:
		return t.items.Delete(ctx, id)
	case Posts:
		return t.ledger.Delete(ctx, id)
	}
	return fmt.Errorf("%w %q", ErrUnknownTable, table)
}

// Cleanup empties the given tables, or both when none is given, and returns
// the number of rows removed per table.
func (t *Tool) Cleanup(ctx context.Context, tables ...Table) (map[Table]int64, error) {
	if len(tables) == 0 {
		tables = AllTables
	}
	removed := make(map[Table]int64, len(tables))
	for _, table := range tables {
		var (
			n   int64
			err error
		)
		switch table {
		case Articles:
			n, err = t.items.Clear(ctx)
		case Posts:
			n, err = t.ledger.Clear(ctx)
		default:
			err = fmt.Errorf("%w %q", ErrUnknownTable, table)
		}
		if err != nil {
			return removed, fmt.Errorf("cleanup %s: %w", table, err)
		}
		removed[table] = n
	}
	return removed, nil
}

// IsNotFound reports whether err means the row did not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, storage.ErrNotFound)
}

func articleListing(items []model.Item) Listing {
	l := Listing{
		Table:   Articles,
		Columns: []string{"ID", "TITLE", "SUMMARY", "LINK", "PUBLISHED", "FINGERPRINT"},
		Records: items,
	}
	for _, it := range items {
		l.Rows = append(l.Rows, []string{
			fmt.Sprint(it.ID), clip(it.Title, 60), clip(it.Summary, 60), it.Link, it.PublishedAt, clip(it.Fingerprint, 12),
		})
	}
	return l
}

func postListing(recs []model.PublicationRecord) Listing {
	l := Listing{
		Table:   Posts,
		Columns: []string{"ID", "FINGERPRINT", "REMOTE_ID", "CREATED_AT"},
		Records: recs,
	}
	for _, r := range recs {
		l.Rows = append(l.Rows, []string{
			fmt.Sprint(r.ID), r.Fingerprint, r.RemoteID, r.CreatedAt.Format("2006-01-02 15:04:05"),
		})
	}
	return l
}
