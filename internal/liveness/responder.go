// Package liveness implements the HTTP endpoint polled by the external uptime
// monitor. Every request is answered with 200 and a constant body; its only
// purpose is to keep the hosting platform from judging the process idle.
package liveness

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	apperrors "github.com/edgard/mrtutor/internal/errors"
	"github.com/edgard/mrtutor/internal/logger"
)

const readHeaderTimeout = 5 * time.Second

// Responder answers liveness probes on a fixed address.
type Responder struct {
	addr   string
	body   string
	logger *slog.Logger

	server    *http.Server
	done      chan error
	lastProbe atomic.Int64

	mu       sync.Mutex
	listener net.Listener
}

// New creates a responder that will bind addr and answer with body.
func New(addr, body string, log *slog.Logger) *Responder {
	if log == nil {
		log = logger.Discard()
	}
	r := &Responder{
		addr:   addr,
		body:   body,
		logger: log.With("component", "liveness"),
		done:   make(chan error, 1),
	}
	r.server = &http.Server{
		Handler:           r.routes(),
		ReadHeaderTimeout: readHeaderTimeout,
	}
	return r
}

func (r *Responder) routes() http.Handler {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Use(logger.HTTPMiddleware(r.logger))

	// No routing: every method on every path gets the same answer.
	router.NotFound(r.handleProbe)
	router.MethodNotAllowed(r.handleProbe)
	router.HandleFunc("/*", r.handleProbe)
	return router
}

func (r *Responder) handleProbe(w http.ResponseWriter, req *http.Request) {
	r.lastProbe.Store(time.Now().UnixNano())

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if req.Method == http.MethodHead {
		return
	}
	if _, err := io.WriteString(w, r.body); err != nil {
		r.logger.DebugContext(req.Context(), "Failed to write probe response", "error", err)
	}
}

// Start binds the listener and serves on a separate goroutine. The bind happens
// before Start returns, so a port conflict is reported here as a BindError and
// nothing is left running. Start does not retry or pick another port.
func (r *Responder) Start(ctx context.Context) error {
	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", r.addr)
	if err != nil {
		r.logger.Error("Failed to bind liveness listener", "addr", r.addr, "error", err)
		return apperrors.NewBindError(r.addr, err)
	}
	r.mu.Lock()
	r.listener = ln
	r.mu.Unlock()
	r.logger.Info("Liveness responder listening", "addr", ln.Addr().String())

	go func() {
		err := r.server.Serve(ln)
		if errors.Is(err, http.ErrServerClosed) {
			err = nil
		}
		if err != nil {
			r.logger.Error("Liveness responder stopped", "error", err)
		}
		r.done <- err
		close(r.done)
	}()
	return nil
}

// Addr returns the bound address once Start has succeeded, or the configured
// address before that.
func (r *Responder) Addr() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.listener == nil {
		return r.addr
	}
	return r.listener.Addr().String()
}

// Done is closed after the serve loop exits. A non-nil value is delivered first
// if serving failed for a reason other than Shutdown.
func (r *Responder) Done() <-chan error {
	return r.done
}

// LastProbe reports when the most recent request was answered. It is the zero
// time until the first probe arrives.
func (r *Responder) LastProbe() time.Time {
	ns := r.lastProbe.Load()
	if ns == 0 {
		return time.Time{}
	}
	return time.Unix(0, ns)
}

// Shutdown stops accepting probes and waits for in-flight ones to finish.
func (r *Responder) Shutdown(ctx context.Context) error {
	r.mu.Lock()
	started := r.listener != nil
	r.mu.Unlock()
	if !started {
		return nil
	}
	if err := r.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("liveness shutdown: %w", err)
	}
	r.logger.Info("Liveness responder stopped")
	return nil
}
