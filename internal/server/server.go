// Package server exposes a document over HTTP.
//
// The server owns exactly one [document.Document]. Requests are serialized
// through a mutex, so the gesture state machine sees the same strictly
// ordered event stream it would get from a local pointer device.
package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/graphpad/pkg/document"
)

// Options configures a Server.
type Options struct {
	// AllowOverwrite lets /document/new and /document/open discard unsaved
	// changes without ?force=true.
	AllowOverwrite bool
	// MaxBody limits request bodies. Zero means 1 MiB.
	MaxBody int64
	// Logger defaults to log.Default().
	Logger *log.Logger
}

// Server serves one document.
type Server struct {
	mu     sync.Mutex
	doc    *document.Document
	opts   Options
	logger *log.Logger
	router chi.Router
}

// New returns a server editing doc.
func New(doc *document.Document, opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	if opts.MaxBody <= 0 {
		opts.MaxBody = 1 << 20
	}
	s := &Server{doc: doc, opts: opts, logger: opts.Logger}
	s.router = s.routes()
	return s
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(s.observe)
	r.Use(chimiddleware.RequestSize(s.opts.MaxBody))

	r.Get("/healthz", s.handleHealth)
	r.Get("/graph", s.handleGraph)
	r.Get("/render.{format}", s.handleRender)

	r.Group(func(r chi.Router) {
		r.Use(s.sameOrigin)
		r.Use(chimiddleware.AllowContentType("application/json"))
		r.Post("/events", s.handleEvents)
		r.Put("/pen", s.handlePen)
		r.Route("/document", func(r chi.Router) {
			r.Post("/new", s.handleNew)
			r.Post("/open", s.handleOpen)
			r.Post("/save", s.handleSave)
		})
		r.Delete("/nodes/{id}", s.handleDeleteNode)
	})
	return r
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(_ net.Listener) context.Context { return ctx },
	}

	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	s.logger.Info("listening", "addr", addr)

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	s.logger.Info("server stopped")
	return nil
}
