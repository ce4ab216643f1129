package web

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"news-herald/internal/model"
	"news-herald/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRouter(t *testing.T) (*gin.Engine, *storage.ItemStore, *storage.Ledger) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	db, err := storage.OpenAndMigrate(filepath.Join(t.TempDir(), "web.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	items := storage.NewItemStore(db)
	ledger := storage.NewLedger(db)
	return NewRouter(NewHandler(items, ledger)), items, ledger
}

func seed(t *testing.T, items *storage.ItemStore, titles ...string) {
	t.Helper()
	for _, title := range titles {
		_, err := items.InsertIfNew(context.Background(), model.Item{
			Title: title, Summary: "about " + title, Link: "https://news.example/" + title, PublishedAt: "2024-05-01",
		})
		require.NoError(t, err)
	}
}

func get(r http.Handler, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	r.ServeHTTP(w, req)
	return w
}

func TestIndexNewestFirst(t *testing.T) {
	r, items, _ := newRouter(t)
	seed(t, items, "older", "newer")

	w := get(r, "/")
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "News Articles")
	assert.Contains(t, body, `href="https://news.example/newer"`)
	assert.Less(t, strings.Index(body, "newer"), strings.Index(body, "older"))
}

func TestIndexEscapesHTML(t *testing.T) {
	r, items, _ := newRouter(t)
	seed(t, items, "<script>x</script>")

	w := get(r, "/")
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "<script>x</script>")
}

func TestAPIArticlesAndPosts(t *testing.T) {
	r, items, ledger := newRouter(t)
	seed(t, items, "a", "b")
	it, err := items.NextUnpublished(context.Background())
	require.NoError(t, err)
	_, err = ledger.Record(context.Background(), it.Fingerprint, "r1")
	require.NoError(t, err)

	w := get(r, "/api/articles")
	require.Equal(t, http.StatusOK, w.Code)
	var arts struct {
		Articles []model.Item `json:"articles"`
		Count    int          `json:"count"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &arts))
	assert.Equal(t, 2, arts.Count)
	assert.Equal(t, "b", arts.Articles[0].Title)

	w = get(r, "/api/posts")
	require.Equal(t, http.StatusOK, w.Code)
	var posts struct {
		Posts []model.PublicationRecord `json:"posts"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &posts))
	require.Len(t, posts.Posts, 1)
	assert.Equal(t, "r1", posts.Posts[0].RemoteID)
}

func TestHealth(t *testing.T) {
	r, items, _ := newRouter(t)
	seed(t, items, "a")
	w := get(r, "/health")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok","articles":1,"posts":0}`, w.Body.String())
}
