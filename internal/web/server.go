// Package web serves a read-only view of the item store and ledger.
package web

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"time"

	"news-herald/internal/compose"
	"news-herald/internal/model"
	"news-herald/internal/storage"

	"github.com/gin-gonic/gin"
)

//go:embed templates/*.html
var templateFS embed.FS

// DefaultLimit caps how many articles one page or API call returns.
const DefaultLimit = 200

// Handler handles HTTP requests for the web view.
type Handler struct {
	items  *storage.ItemStore
	ledger *storage.Ledger
	limit  int
}

func NewHandler(items *storage.ItemStore, ledger *storage.Ledger) *Handler {
	return &Handler{items: items, ledger: ledger, limit: DefaultLimit}
}

// NewRouter creates the gin engine with all routes configured.
func NewRouter(h *Handler) *gin.Engine {
	r := gin.New()
	r.Use(gin.LoggerWithConfig(gin.LoggerConfig{
		Formatter: func(p gin.LogFormatterParams) string {
			return fmt.Sprintf("%s - [%s] \"%s %s %s %d %s\"\n",
				p.ClientIP,
				p.TimeStamp.Format(time.RFC3339),
				p.Method,
				p.Path,
				p.Request.Proto,
				p.StatusCode,
				p.Latency,
			)
		},
	}))
	r.Use(gin.Recovery())
	r.SetHTMLTemplate(template.Must(template.New("").ParseFS(templateFS, "templates/*.html")))

	r.GET("/", h.Index)
	r.GET("/health", h.Health)
	api := r.Group("/api")
	{
		api.GET("/articles", h.ListArticles)
		api.GET("/posts", h.ListPosts)
	}
	r.GET("/favicon.ico", func(c *gin.Context) { c.Status(http.StatusNoContent) })
	return r
}

type row struct {
	model.Item
	Link   string
	Posted bool
}

// Index renders the article table, newest first.
func (h *Handler) Index(c *gin.Context) {
	ctx := c.Request.Context()
	items, err := h.items.ListRecent(ctx, h.limit)
	if err != nil {
		slog.Error("web: list articles", "err", err)
		c.String(http.StatusInternalServerError, "failed to load articles")
		return
	}
	rows := make([]row, 0, len(items))
	published := 0
	for _, it := range items {
		posted, err := h.ledger.Contains(ctx, it.Fingerprint)
		if err != nil {
			slog.Error("web: ledger lookup", "fingerprint", it.Fingerprint, "err", err)
			c.String(http.StatusInternalServerError, "failed to load articles")
			return
		}
		if posted {
			published++
		}
		r := row{Item: it, Posted: posted}
		if compose.IsLink(it.Link) {
			r.Link = it.Link
		}
		rows = append(rows, r)
	}
	total, err := h.items.Count(ctx)
	if err != nil {
		total = len(items)
	}
	c.HTML(http.StatusOK, "index.html", gin.H{
		"Rows":      rows,
		"Total":     total,
		"Published": published,
	})
}

func (h *Handler) ListArticles(c *gin.Context) {
	items, err := h.items.ListRecent(c.Request.Context(), h.limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"articles": items, "count": len(items)})
}

func (h *Handler) ListPosts(c *gin.Context) {
	recs, err := h.ledger.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"posts": recs, "count": len(recs)})
}

func (h *Handler) Health(c *gin.Context) {
	ctx := c.Request.Context()
	articles, err := h.items.Count(ctx)
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy", "error": err.Error()})
		return
	}
	posts, err := h.ledger.Count(ctx)
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy", "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "articles": articles, "posts": posts})
}

// Server runs the router until its context is cancelled.
type Server struct {
	srv *http.Server
}

func NewServer(addr string, h *Handler) *Server {
	return &Server{srv: &http.Server{
		Addr:         addr,
		Handler:      NewRouter(h),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}}
}

func (s *Server) Start(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		slog.Info("web: listening", "addr", s.srv.Addr)
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()
	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		slog.Info("web: shutting down")
		return s.srv.Shutdown(shutdownCtx)
	}
}
