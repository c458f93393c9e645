// Package server wires the Kagi tools into an MCP server and runs it over
// stdio (the default) or streamable HTTP.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	apimiddleware "github.com/kagimcp/kagimcp/internal/api/middleware"
	"github.com/kagimcp/kagimcp/internal/domain/assistant"
	"github.com/kagimcp/kagimcp/internal/domain/search"
	"github.com/kagimcp/kagimcp/internal/domain/summarize"
	"github.com/kagimcp/kagimcp/internal/infra/eventbus"
	"github.com/kagimcp/kagimcp/internal/version"
)

// Server owns the MCP server and the tool services behind it.
type Server struct {
	engine     *assistant.Engine
	searchSvc  *search.Service
	sumSvc     *summarize.Service
	bus        eventbus.EventBus
	authSecret []byte
	log        *slog.Logger

	mcp *mcp.Server
}

// New builds the MCP server and registers the three tools. authSecret may be
// empty, which leaves the HTTP mode unguarded (stdio never uses it).
func New(engine *assistant.Engine, searchSvc *search.Service, sumSvc *summarize.Service, bus eventbus.EventBus, authSecret []byte, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}

	s := &Server{
		engine:     engine,
		searchSvc:  searchSvc,
		sumSvc:     sumSvc,
		bus:        bus,
		authSecret: authSecret,
		log:        log,
	}

	s.mcp = mcp.NewServer(&mcp.Implementation{
		Name:    "kagimcp",
		Title:   "Kagi Search",
		Version: version.Version,
	}, nil)
	s.registerTools()

	return s
}

// RunStdio serves MCP over stdin/stdout until ctx is done or the client
// disconnects. Nothing else in the process may write to stdout.
func (s *Server) RunStdio(ctx context.Context) error {
	s.log.Info("serving MCP over stdio")
	return s.mcp.Run(ctx, &mcp.StdioTransport{})
}

// RunHTTP serves MCP over streamable HTTP on addr, with a /health endpoint
// and, when an auth secret is configured, bearer-token protection on the
// /mcp route. Blocks until ctx is done, then shuts down gracefully.
func (s *Server) RunHTTP(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:    addr,
		Handler: s.Handler(),
		// Streamed responses stay open indefinitely, so no write timeout.
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("serving MCP over HTTP", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

// Handler returns the HTTP-mode handler; split out for tests.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`)) //nolint:errcheck
	})

	streamable := mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server { return s.mcp }, nil)
	r.Route("/mcp", func(r chi.Router) {
		if len(s.authSecret) > 0 {
			r.Use(apimiddleware.BearerAuth(s.authSecret))
		}
		r.Handle("/", streamable)
	})

	return r
}
