package worker

import (
	"context"
	"errors"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"news-herald/internal/feed"
	"news-herald/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDB(t *testing.T) *storage.DB {
	t.Helper()
	db, err := storage.OpenAndMigrate(filepath.Join(t.TempDir(), "worker.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

type blockingWorker struct{ started atomic.Bool }

func (w *blockingWorker) Start(ctx context.Context) error {
	w.started.Store(true)
	<-ctx.Done()
	return nil
}

type failingWorker struct{}

func (failingWorker) Start(context.Context) error { return errors.New("listen: address in use") }

func TestManagerStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	w := &blockingWorker{}
	done := make(chan error, 1)
	go func() { done <- NewManager(w).Start(ctx) }()

	require.Eventually(t, w.started.Load, time.Second, 5*time.Millisecond)
	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("manager did not stop")
	}
}

func TestManagerReturnsWorkerError(t *testing.T) {
	err := NewManager(&blockingWorker{}, failingWorker{}).Start(context.Background())
	assert.EqualError(t, err, "listen: address in use")
}

func TestSchedulerRejectsBadSpec(t *testing.T) {
	_, err := NewScheduler(Job{Name: "fetch", Spec: "every now and then", Run: func(context.Context) {}})
	assert.Error(t, err)
}

func TestSchedulerStopsOnCancel(t *testing.T) {
	s, err := NewScheduler(
		Job{Name: "fetch", Spec: "@every 1h", Run: func(context.Context) {}},
		Job{Name: "post", Spec: "*/5 * * * *", Run: func(context.Context) {}},
	)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	assert.NoError(t, s.Start(ctx))
}

type fakeSource map[string][]feed.Entry

func (f fakeSource) Fetch(_ context.Context, url string) ([]feed.Entry, error) {
	entries, ok := f[url]
	if !ok {
		return nil, errors.New("HTTP error: 503 Service Unavailable")
	}
	return entries, nil
}

func entry(title, summary string) feed.Entry {
	return feed.Entry{Title: title, Summary: summary, Link: "https://news.example/" + title, PublishedAt: "2024-06-01T00:00:00Z"}
}
