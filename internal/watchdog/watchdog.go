// Package watchdog notices when the external uptime monitor stops probing the
// liveness responder. It only logs; it never stops the process.
package watchdog

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"

	"github.com/edgard/mrtutor/internal/logger"
)

const jobName = "probe_watchdog"

// Prober reports when the last liveness probe was answered.
type Prober interface {
	LastProbe() time.Time
}

// Watchdog periodically compares the last probe time against a staleness threshold.
type Watchdog struct {
	prober     Prober
	interval   time.Duration
	staleAfter time.Duration
	logger     *slog.Logger
	now        func() time.Time

	lifecycle sync.Mutex
	scheduler gocron.Scheduler

	mu        sync.Mutex
	startedAt time.Time
	stale     bool
}

// New creates a watchdog that checks prober every interval.
func New(prober Prober, interval, staleAfter time.Duration, log *slog.Logger) *Watchdog {
	if log == nil {
		log = logger.Discard()
	}
	return &Watchdog{
		prober:     prober,
		interval:   interval,
		staleAfter: staleAfter,
		logger:     log.With("component", "watchdog"),
		now:        time.Now,
	}
}

// Start schedules the check and starts the scheduler.
func (w *Watchdog) Start() error {
	w.lifecycle.Lock()
	defer w.lifecycle.Unlock()

	if w.scheduler != nil {
		return fmt.Errorf("watchdog is already running")
	}

	s, err := gocron.NewScheduler()
	if err != nil {
		return fmt.Errorf("failed to create scheduler: %w", err)
	}

	_, err = s.NewJob(
		gocron.DurationJob(w.interval),
		gocron.NewTask(w.check),
		gocron.WithName(jobName),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		_ = s.Shutdown()
		return fmt.Errorf("failed to schedule %s: %w", jobName, err)
	}

	w.mu.Lock()
	w.startedAt = w.now()
	w.mu.Unlock()

	w.scheduler = s
	s.Start()
	w.logger.Info("Watchdog started", "interval", w.interval, "stale_after", w.staleAfter)
	return nil
}

// Stop shuts the scheduler down, waiting for a running check to complete.
func (w *Watchdog) Stop() error {
	w.lifecycle.Lock()
	defer w.lifecycle.Unlock()

	if w.scheduler == nil {
		return nil
	}
	err := w.scheduler.Shutdown()
	w.scheduler = nil
	if err != nil {
		w.logger.Error("Error during watchdog shutdown", "error", err)
		return err
	}
	w.logger.Info("Watchdog stopped.")
	return nil
}

// check logs once when probes go stale and once when they resume.
func (w *Watchdog) check() {
	w.mu.Lock()
	defer w.mu.Unlock()

	now := w.now()
	last := w.prober.LastProbe()
	since := last
	if since.IsZero() {
		since = w.startedAt
	}
	silence := now.Sub(since)

	switch {
	case silence > w.staleAfter && !w.stale:
		w.stale = true
		w.logger.Warn("No liveness probe received recently; the host may suspend this process",
			"last_probe", formatTime(last),
			"silence", silence.Round(time.Second),
			"stale_after", w.staleAfter)
	case silence <= w.staleAfter && w.stale:
		w.stale = false
		w.logger.Info("Liveness probes resumed", "last_probe", formatTime(last))
	}
}

// Stale reports whether the last check found probes missing.
func (w *Watchdog) Stale() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.stale
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "never"
	}
	return t.Format(time.RFC3339)
}
