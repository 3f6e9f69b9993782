// Package main contains the entrypoint for the Discord bot process.
package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/edgard/mrtutor/internal/bot"
	"github.com/edgard/mrtutor/internal/config"
	"github.com/edgard/mrtutor/internal/discord"
	apperrors "github.com/edgard/mrtutor/internal/errors"
	"github.com/edgard/mrtutor/internal/liveness"
	"github.com/edgard/mrtutor/internal/logger"
	"github.com/edgard/mrtutor/internal/watchdog"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	exitCode := run(ctx)
	stop() // Ensure context cancellation is signaled before exit
	os.Exit(exitCode)
}

// run loads configuration, starts the liveness responder and the Discord worker,
// and returns an exit code (0 for success, 1 for failure).
func run(ctx context.Context) int {
	envFile := flag.String("env", ".env", "Path to an optional dotenv file")
	flag.Parse()

	cfg, err := config.Load(*envFile)
	if err != nil {
		slog.Error("Failed to load configuration", "path", *envFile, "error", err)
		return 1
	}

	log := logger.NewLogger(cfg.Log.Level, cfg.Log.JSON)
	slog.SetDefault(log)
	log.Info("Logger initialized", "level", cfg.Log.Level, "json", cfg.Log.JSON)

	responder := liveness.New(cfg.Liveness.Addr(), cfg.Liveness.Body, log)
	worker := discord.NewWorker(discord.WorkerConfig{
		Token:         cfg.DiscordToken,
		AdminIDs:      cfg.AdminIDs,
		AdminRoleName: cfg.AdminRoleName,
	}, discord.DialDiscordgo, log)

	var wd bot.Watchdog
	if cfg.Watchdog.Enabled {
		wd = watchdog.New(responder, cfg.Watchdog.Interval, cfg.Watchdog.StaleAfter, log)
	}

	app := bot.NewBot(log, responder, worker, wd)

	log.Info("Starting bot...")
	runErr := app.Run(ctx)

	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		if apperrors.Code(runErr) == apperrors.CodeBind {
			log.Error("Liveness port is already in use; configure a different PORT", "addr", cfg.Liveness.Addr(), "error", runErr)
		} else {
			log.Error("Bot stopped due to error", "error", runErr, "code", apperrors.Code(runErr))
		}
		// Allow logs to flush before exiting on error
		time.Sleep(time.Second)
		return 1
	}

	log.Info("Bot stopped gracefully.")
	return 0
}
