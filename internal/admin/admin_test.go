package admin

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"news-herald/internal/model"
	"news-herald/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func setup(t *testing.T) (*Tool, *storage.DB) {
	t.Helper()
	db, err := storage.OpenAndMigrate(filepath.Join(t.TempDir(), "admin.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	ctx := context.Background()
	items := storage.NewItemStore(db)
	for _, title := range []string{"first", "second"} {
		_, err := items.InsertIfNew(ctx, model.Item{Title: title, Summary: "s", Link: "https://e.com/" + title, PublishedAt: "2024-01-01"})
		require.NoError(t, err)
	}
	_, err = storage.NewLedger(db).Record(ctx, "abc", "remote-1")
	require.NoError(t, err)
	return New(db), db
}

func TestParseTable(t *testing.T) {
	tbl, err := ParseTable(" Articles ")
	require.NoError(t, err)
	assert.Equal(t, Articles, tbl)

	tbl, err = ParseTable("posts")
	require.NoError(t, err)
	assert.Equal(t, Posts, tbl)

	_, err = ParseTable("users")
	assert.ErrorIs(t, err, ErrUnknownTable)
}

func TestListArticlesAndPosts(t *testing.T) {
	tool, _ := setup(t)
	ctx := context.Background()

	l, err := tool.List(ctx, Articles)
	require.NoError(t, err)
	assert.Equal(t, 2, l.Len())
	assert.Equal(t, "first", l.Rows[0][1])

	l, err = tool.List(ctx, Posts)
	require.NoError(t, err)
	require.Equal(t, 1, l.Len())
	assert.Equal(t, "remote-1", l.Rows[0][2])
}

func TestDeleteRow(t *testing.T) {
	tool, _ := setup(t)
	ctx := context.Background()

	l, err := tool.List(ctx, Articles)
	require.NoError(t, err)
	id := l.Records.([]model.Item)[0].ID

	require.NoError(t, tool.Delete(ctx, Articles, id))
	err = tool.Delete(ctx, Articles, id)
	assert.True(t, IsNotFound(err))

	err = tool.Delete(ctx, Posts, 9999)
	assert.True(t, IsNotFound(err))

	err = tool.Delete(ctx, Table("users"), 1)
	assert.ErrorIs(t, err, ErrUnknownTable)
}

func TestCleanupBothThenListEmpty(t *testing.T) {
	tool, _ := setup(t)
	ctx := context.Background()

	removed, err := tool.Cleanup(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), removed[Articles])
	assert.Equal(t, int64(1), removed[Posts])

	for _, tbl := range AllTables {
		l, err := tool.List(ctx, tbl)
		require.NoError(t, err)
		assert.Zero(t, l.Len())
	}
}

func TestCleanupSingleTable(t *testing.T) {
	tool, _ := setup(t)
	ctx := context.Background()

	removed, err := tool.Cleanup(ctx, Posts)
	require.NoError(t, err)
	assert.Equal(t, map[Table]int64{Posts: 1}, removed)

	l, err := tool.List(ctx, Articles)
	require.NoError(t, err)
	assert.Equal(t, 2, l.Len())
}

func TestListingWrite(t *testing.T) {
	tool, _ := setup(t)
	l, err := tool.List(context.Background(), Articles)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, l.Write(&buf, FormatTable))
	assert.Contains(t, buf.String(), "TITLE")
	assert.Contains(t, buf.String(), "second")

	buf.Reset()
	require.NoError(t, l.Write(&buf, FormatJSON))
	var items []model.Item
	require.NoError(t, json.Unmarshal(buf.Bytes(), &items))
	assert.Len(t, items, 2)

	buf.Reset()
	require.NoError(t, l.Write(&buf, FormatYAML))
	var generic []map[string]any
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &generic))
	assert.Len(t, generic, 2)
	assert.Equal(t, "first", generic[0]["title"])

	assert.Error(t, l.Write(&buf, "xml"))
}

func TestListingWriteEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Listing{Table: Posts}.Write(&buf, ""))
	assert.Equal(t, "No rows in posts.\n", buf.String())
}
