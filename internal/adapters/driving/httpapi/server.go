// Package httpapi serves extraction and stored results over a JSON REST API.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/custodia-labs/verdict-cli/internal/core/ports/driving"
	"github.com/custodia-labs/verdict-cli/internal/logger"
)

// maxBodyBytes caps request bodies; verdict texts are rarely above a few hundred KB.
const maxBodyBytes = 10 << 20

// ErrMissingService is returned when a required service is not provided.
var ErrMissingService = errors.New("httpapi: extraction and result services are required")

// Ports aggregates the driving ports the API calls.
type Ports struct {
	Extraction driving.ExtractionService
	Results    driving.ResultService
}

// Server is the REST API.
type Server struct {
	ports  Ports
	engine *gin.Engine
}

// NewServer builds the router.
func NewServer(ports Ports) (*Server, error) {
	if ports.Extraction == nil || ports.Results == nil {
		return nil, ErrMissingService
	}

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger())

	s := &Server{ports: ports, engine: r}
	s.routes()
	return s, nil
}

func (s *Server) routes() {
	s.engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "mode": s.ports.Extraction.Mode()})
	})

	api := s.engine.Group("/api/v1")
	api.POST("/extract", s.handleExtract)
	api.POST("/select", s.handleSelect)
	api.GET("/verdicts", s.handleListVerdicts)
	api.GET("/verdicts/:id", s.handleGetVerdict)
	api.GET("/stats", s.handleStats)
	api.GET("/report", s.handleReport)
	api.GET("/export", s.handleExport)
}

// Handler returns the router for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run listens on addr until ctx is cancelled.
func (s *Server) Run(ctx context.Context, addr string) error {
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		httpServer.Shutdown(shutdownCtx) //nolint:errcheck
	}()

	err := httpServer.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Debug("%s %s %d %s", c.Request.Method, c.Request.URL.Path, c.Writer.Status(), time.Since(start))
	}
}
