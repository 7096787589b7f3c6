// Package server exposes the pipeline over HTTP.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"content_repurposer/metrics"
	"content_repurposer/pipeline"
	"content_repurposer/publisher"
)

const (
	// DefaultMaxUploadBytes caps a multipart document upload.
	DefaultMaxUploadBytes = 10 << 20

	maxJSONBytes       = 4 << 20
	multipartOverhead  = 1 << 20
	multipartMaxMemory = 32 << 20
)

// Options configures a Server.
type Options struct {
	MaxUploadBytes int64
	Metrics        *metrics.Metrics
	Publisher      *publisher.Publisher
	Logger         *slog.Logger

	// HasGenerator is reported by /healthz.
	HasGenerator bool
}

type Server struct {
	pipeline  *pipeline.Pipeline
	publisher *publisher.Publisher
	metrics   *metrics.Metrics
	logger    *slog.Logger
	maxUpload int64
	hasGen    bool
	writer    JSONResponseWriter
}

func New(p *pipeline.Pipeline, opts Options) (*Server, error) {
	if p == nil {
		return nil, errors.New("pipeline required")
	}
	if opts.MaxUploadBytes <= 0 {
		opts.MaxUploadBytes = DefaultMaxUploadBytes
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Publisher == nil {
		opts.Publisher = publisher.New(opts.Logger)
	}
	return &Server{
		pipeline:  p,
		publisher: opts.Publisher,
		metrics:   opts.Metrics,
		logger:    opts.Logger,
		maxUpload: opts.MaxUploadBytes,
		hasGen:    opts.HasGenerator,
	}, nil
}

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(s.accessLog)
	r.Use(middleware.Recoverer)

	r.Post("/parse/document", s.handleParseDocument)
	r.Post("/parse/url", s.handleParseURL)
	r.Post("/transform", s.handleTransform)
	r.Post("/chat", s.handleChat)
	r.Post("/repurpose", s.handleRepurpose)
	r.Post("/export", s.handleExport)
	r.Get("/healthz", s.handleHealth)
	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics.Handler())
	}
	return r
}

// ListenAndServe serves until ctx is canceled, then drains in-flight
// requests for up to shutdownTimeout.
func (s *Server) ListenAndServe(ctx context.Context, addr string, shutdownTimeout time.Duration) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("server shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}
