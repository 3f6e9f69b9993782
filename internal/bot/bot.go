// Package bot supervises the process: it brings up the liveness responder,
// then runs the Discord worker until shutdown.
package bot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/edgard/mrtutor/internal/logger"
)

const shutdownTimeout = 10 * time.Second

// Responder is the liveness endpoint the supervisor starts first.
type Responder interface {
	Start(ctx context.Context) error
	Addr() string
	Done() <-chan error
	Shutdown(ctx context.Context) error
}

// Worker is the blocking chat platform loop.
type Worker interface {
	Run(ctx context.Context) error
}

// Watchdog is an optional background checker with its own scheduler.
type Watchdog interface {
	Start() error
	Stop() error
}

// Bot wires the responder, worker and watchdog together.
type Bot struct {
	logger    *slog.Logger
	responder Responder
	worker    Worker
	watchdog  Watchdog
}

// NewBot creates a supervisor. watchdog may be nil.
func NewBot(log *slog.Logger, responder Responder, worker Worker, watchdog Watchdog) *Bot {
	if log == nil {
		log = logger.Discard()
	}
	return &Bot{
		logger:    log.With("component", "bot_orchestrator"),
		responder: responder,
		worker:    worker,
		watchdog:  watchdog,
	}
}

// Run starts the liveness responder and then blocks on the worker. A bind
// failure is returned before the worker is started. Run returns nil when ctx
// is cancelled and the components stop cleanly.
func (b *Bot) Run(ctx context.Context) error {
	b.logger.Info("Starting bot orchestrator...")

	if err := b.responder.Start(ctx); err != nil {
		return err
	}

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		b.logger.Info("Starting Discord worker...")
		if err := b.worker.Run(gCtx); err != nil {
			return fmt.Errorf("discord worker: %w", err)
		}
		if gCtx.Err() == nil {
			b.logger.Warn("Discord worker stopped unexpectedly without context cancellation.")
			return errors.New("discord worker stopped unexpectedly")
		}
		return nil
	})

	g.Go(func() error {
		select {
		case err := <-b.responder.Done():
			if err != nil {
				return fmt.Errorf("liveness responder: %w", err)
			}
			return errors.New("liveness responder stopped unexpectedly")
		case <-gCtx.Done():
		}

		b.logger.Info("Shutdown signal received, stopping liveness responder...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := b.responder.Shutdown(shutdownCtx); err != nil {
			b.logger.Error("Error stopping liveness responder", "error", err)
		}
		return nil
	})

	if b.watchdog != nil {
		g.Go(func() error {
			if err := b.watchdog.Start(); err != nil {
				b.logger.Error("Failed to start watchdog", "error", err)
				return fmt.Errorf("failed to start watchdog: %w", err)
			}

			<-gCtx.Done()
			if err := b.watchdog.Stop(); err != nil {
				b.logger.Error("Error stopping watchdog", "error", err)
			}
			return nil
		})
	}

	b.logger.Info("Bot orchestrator running. Waiting for shutdown signal or error...", "liveness_addr", b.responder.Addr())
	err := g.Wait()

	if err != nil && !errors.Is(err, context.Canceled) {
		b.logger.Error("Bot orchestrator stopped due to error", "error", err)
		return err
	}

	b.logger.Info("Bot orchestrator stopped gracefully.")
	return nil
}
