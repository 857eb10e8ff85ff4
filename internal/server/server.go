// Package server exposes the audit pipeline over HTTP.
//
// The server mirrors the CLI behavior: one endpoint runs the standard
// analysis and renders a PDF, one runs the enhanced pass, and a
// download endpoint serves previously rendered reports by filename.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Baillie11/seo/internal/audit"
	"github.com/Baillie11/seo/internal/enhanced"
	"github.com/Baillie11/seo/internal/history"
	"github.com/Baillie11/seo/internal/pdf"
)

// defaultHistoryLimit is how many runs the history endpoint returns.
const defaultHistoryLimit = 20

// Server wires the audit pipeline into an HTTP API.
type Server struct {
	engine       *gin.Engine
	orchestrator *audit.Orchestrator
	coordinator  *enhanced.Coordinator
	renderer     *pdf.Renderer
	store        *history.Store
	reportsDir   string
	logger       *slog.Logger
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithHistory enables run persistence through the given store.
// Without a store the history endpoint returns an empty list.
func WithHistory(store *history.Store) Option {
	return func(s *Server) {
		s.store = store
	}
}

// New creates a Server around the given pipeline components.
// reportsDir must match the renderer's output directory; the download
// endpoint serves files from it.
func New(orchestrator *audit.Orchestrator, coordinator *enhanced.Coordinator, renderer *pdf.Renderer, reportsDir string, opts ...Option) *Server {
	s := &Server{
		orchestrator: orchestrator,
		coordinator:  coordinator,
		renderer:     renderer,
		reportsDir:   reportsDir,
		logger:       slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}

	engine := gin.New()
	engine.Use(s.recovery(), s.requestLog())
	s.engine = engine
	s.routes()

	return s
}

// routes registers all endpoints.
func (s *Server) routes() {
	s.engine.POST("/analyze", s.handleAnalyze)
	s.engine.GET("/download/:filename", s.handleDownload)

	api := s.engine.Group("/api")
	{
		api.GET("/health", s.handleHealth)
		api.POST("/enhanced-analysis", s.handleEnhanced)
		api.GET("/history", s.handleHistory)
		api.GET("/metrics-guide", s.handleMetricsGuide)
	}
}

// Run starts the server and blocks until the context is cancelled or
// the listener fails.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	s.logger.Info("server listening", slog.String("addr", addr))

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// Handler exposes the underlying engine, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// recovery turns panics into 500 responses instead of killing the
// process.
func (s *Server) recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				s.logger.Error("panic in handler",
					slog.Any("panic", r),
					slog.String("path", c.Request.URL.Path))
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
					"error": "An unexpected error occurred",
				})
			}
		}()
		c.Next()
	}
}

// requestLog logs one structured line per request.
func (s *Server) requestLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.Info("request",
			slog.String("method", c.Request.Method),
			slog.String("path", c.Request.URL.Path),
			slog.Int("status", c.Writer.Status()),
			slog.Duration("elapsed", time.Since(start)),
			slog.String("client", c.ClientIP()))
	}
}

// handleHealth reports liveness.
func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// handleDownload serves a rendered report by filename.
// The filename must resolve inside the reports directory; anything
// attempting to escape it is rejected before touching the filesystem.
func (s *Server) handleDownload(c *gin.Context) {
	filename := c.Param("filename")

	if filename == "" || filename == "." || filename == ".." || filename != filepath.Base(filename) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid filename"})
		return
	}

	path := filepath.Join(s.reportsDir, filename)
	if _, err := os.Stat(path); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Report not found"})
		return
	}

	c.FileAttachment(path, filename)
}

// handleHistory lists recent audit runs.
func (s *Server) handleHistory(c *gin.Context) {
	if s.store == nil {
		c.JSON(http.StatusOK, gin.H{"runs": []history.Run{}})
		return
	}

	runs, err := s.store.Recent(c.Request.Context(), defaultHistoryLimit)
	if err != nil {
		s.logger.Error("failed to load history", slog.Any("error", err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load history"})
		return
	}
	if runs == nil {
		runs = []history.Run{}
	}

	c.JSON(http.StatusOK, gin.H{"runs": runs})
}
