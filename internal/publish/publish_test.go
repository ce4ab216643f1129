package publish

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"news-herald/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestXPublish(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/2/tweets", r.URL.Path)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "hello\n\nhttps://e.com", body["text"])
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"data":{"id":"1445880548472328192","text":"hello"}}`))
	}))
	defer srv.Close()

	id, err := NewX(srv.URL, "tok", 0).Publish(context.Background(), Post{Text: "hello\n\nhttps://e.com"})
	require.NoError(t, err)
	assert.Equal(t, "1445880548472328192", id)
}

func TestXErrorKinds(t *testing.T) {
	cases := map[int]Kind{
		http.StatusUnauthorized:        KindAuth,
		http.StatusForbidden:           KindAuth,
		http.StatusTooManyRequests:     KindRateLimit,
		http.StatusBadRequest:          KindValidation,
		http.StatusUnprocessableEntity: KindValidation,
		http.StatusBadGateway:          KindServer,
		http.StatusConflict:            KindUnknown,
	}
	for status, want := range cases {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(status)
			w.Write([]byte(`{"title":"nope"}`))
		}))
		_, err := NewX(srv.URL, "tok", 0).Publish(context.Background(), Post{Text: "x"})
		srv.Close()
		require.Error(t, err, "status %d", status)
		assert.Equal(t, want, KindOf(err), "status %d", status)
		var pe *Error
		require.ErrorAs(t, err, &pe)
		assert.Equal(t, status, pe.StatusCode)
		assert.Contains(t, pe.Body, "nope")
	}
}

func TestXMissingID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":{}}`))
	}))
	defer srv.Close()

	_, err := NewX(srv.URL, "tok", 0).Publish(context.Background(), Post{Text: "x"})
	assert.Error(t, err)
}

func TestQuailyCreateThenPublish(t *testing.T) {
	var calls []string
	var created map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls = append(calls, r.Method+" "+r.URL.Path)
		assert.Equal(t, "Bearer key", r.Header.Get("Authorization"))
		switch r.URL.Path {
		case "/lists/news/posts":
			require.NoError(t, json.NewDecoder(r.Body).Decode(&created))
			w.Write([]byte(`{"data":{"id":42}}`))
		case "/lists/news/posts/42/publish":
			w.Write([]byte(`{}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	c := NewQuaily(srv.URL+"/", "key", "news", 0)
	id, err := c.Publish(context.Background(), Post{Key: "0123456789abcdef", Title: "Title", Text: "Body"})
	require.NoError(t, err)
	assert.Equal(t, "42", id)
	assert.Equal(t, []string{"POST /lists/news/posts", "PUT /lists/news/posts/42/publish"}, calls)
	assert.Equal(t, "herald-0123456789ab", created["slug"])
	assert.Equal(t, "Title", created["title"])
	assert.Equal(t, "Body", created["content"])
}

func TestQuailyLargeNumericID(t *testing.T) {
	var publishPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			w.Write([]byte(`{"data":{"id":1234567}}`))
			return
		}
		publishPath = r.URL.Path
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	id, err := NewQuaily(srv.URL, "key", "chan", 0).Publish(context.Background(), Post{Key: "0123456789abcdef", Text: "Body"})
	require.NoError(t, err)
	assert.Equal(t, "1234567", id)
	assert.Equal(t, "/lists/chan/posts/1234567/publish", publishPath)
}

func TestIDOfFloat(t *testing.T) {
	assert.Equal(t, "98765432", idOf(map[string]any{"id": float64(98765432)}))
	assert.Equal(t, "abc", idOf(map[string]any{"id": "abc"}))
	assert.Equal(t, "", idOf(map[string]any{}))
}

func TestQuailyCreateFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := NewQuaily(srv.URL, "key", "news", 0).Publish(context.Background(), Post{Key: "k", Text: "t"})
	assert.Equal(t, KindServer, KindOf(err))
}

func TestDryRun(t *testing.T) {
	id, err := DryRun{Backend: "x"}.Publish(context.Background(), Post{Text: "t"})
	require.NoError(t, err)
	assert.Equal(t, DryRunID, id)
}

func TestNewSelectsBackend(t *testing.T) {
	p, err := New(config.PublishConfig{Backend: config.BackendX, DryRun: true})
	require.NoError(t, err)
	assert.IsType(t, DryRun{}, p)

	p, err = New(config.PublishConfig{Backend: config.BackendX, Timeout: "5s"})
	require.NoError(t, err)
	assert.IsType(t, &XClient{}, p)

	p, err = New(config.PublishConfig{Backend: config.BackendQuaily})
	require.NoError(t, err)
	assert.IsType(t, &QuailyClient{}, p)

	_, err = New(config.PublishConfig{Backend: "myspace"})
	assert.Error(t, err)
}

func TestKindOfPlainError(t *testing.T) {
	assert.Equal(t, KindUnknown, KindOf(context.DeadlineExceeded))
}
