package server

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/poiesic/modelscout/core"
	"github.com/poiesic/modelscout/filter"
	"github.com/poiesic/modelscout/semantic"
)

const (
	// DefaultTopK is used when a request omits top_k.
	DefaultTopK = 10
	// MaxTopK caps how many rows one request can ask for.
	MaxTopK = 30

	shutdownTimeout = 10 * time.Second
)

// Retriever ranks catalog models for a query. *semantic.LocalRetriever
// implements it.
type Retriever interface {
	Retrieve(ctx context.Context, query string, filters core.SearchFilters, topK int) ([]core.ModelResult, error)
}

// Server serves semantic search over HTTP.
type Server struct {
	retriever Retriever
	loader    semantic.Loader
	engine    *gin.Engine
	logger    *slog.Logger
}

// Option configures a Server.
type Option func(*Server) error

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger.With("component", "server")
		return nil
	}
}

// New builds the gin engine and registers routes.
func New(retriever Retriever, loader semantic.Loader, opts ...Option) (*Server, error) {
	if retriever == nil {
		return nil, ErrRetrieverRequired
	}
	if loader == nil {
		return nil, ErrLoaderRequired
	}

	s := &Server{
		retriever: retriever,
		loader:    loader,
		logger:    slog.Default().With("component", "server"),
	}
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}

	engine := gin.New()
	engine.Use(gin.Recovery(), requestID(), accessLog(s.logger))
	engine.POST("/semantic_search", s.semanticSearch)
	engine.GET("/info", s.info)
	s.engine = engine

	return s, nil
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// ListenAndServe serves on addr until ctx is done, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	s.logger.Info("shutting down")
	return srv.Shutdown(shutdownCtx)
}

type searchRequest struct {
	Query         string   `json:"query"`
	TopK          *int     `json:"top_k"`
	MinParamCount *float64 `json:"min_param_count"`
	MaxParamCount *float64 `json:"max_param_count"`
}

func (s *Server) semanticSearch(c *gin.Context) {
	var req searchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	query := strings.TrimSpace(req.Query)
	if query == "" {
		c.JSON(http.StatusOK, []semantic.Row{})
		return
	}

	topK := DefaultTopK
	if req.TopK != nil {
		topK = clampTopK(*req.TopK)
	}

	results, err := s.retriever.Retrieve(c.Request.Context(), query, core.SearchFilters{}, topK)
	if err != nil {
		s.logger.Error("semantic search failed", "err", err)
		c.JSON(errorStatus(err), gin.H{"error": err.Error()})
		return
	}

	bounds := filter.Bounds{Min: req.MinParamCount, Max: req.MaxParamCount}
	rows := make([]semantic.Row, 0, len(results))
	for _, res := range results {
		if !bounds.Contains(res.Params) {
			continue
		}
		row := semantic.RowFromResult(res)
		row.Score = round4(row.Score)
		rows = append(rows, row)
	}
	c.JSON(http.StatusOK, rows)
}

func (s *Server) info(c *gin.Context) {
	snap, err := s.loader.Load(c.Request.Context())
	if err != nil {
		c.JSON(errorStatus(err), gin.H{"status": "loading", "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"models":  len(snap.Catalog),
		"records": len(snap.Records),
	})
}

func clampTopK(k int) int {
	return max(1, min(k, MaxTopK))
}

func round4(v float32) float32 {
	return float32(math.Round(float64(v)*1e4) / 1e4)
}

// errorStatus maps failures to HTTP statuses. Missing artifacts and a cold
// upstream are temporary, so clients see 503 and may retry.
func errorStatus(err error) int {
	var (
		dle *core.DataLoadError
		te  *core.TransportError
	)
	switch {
	case errors.Is(err, core.ErrConfiguration):
		return http.StatusInternalServerError
	case errors.Is(err, core.ErrBackendColdStart), errors.As(err, &dle):
		return http.StatusServiceUnavailable
	case errors.As(err, &te):
		return http.StatusBadGateway
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}
