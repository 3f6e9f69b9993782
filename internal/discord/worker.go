// Package discord runs the long-lived Discord gateway session that hosts the bot.
package discord

import (
	"context"
	"log/slog"

	"github.com/bwmarrin/discordgo"

	apperrors "github.com/edgard/mrtutor/internal/errors"
	"github.com/edgard/mrtutor/internal/logger"
)

// Intents requested on the gateway connection.
const Intents = discordgo.IntentsGuilds |
	discordgo.IntentsGuildMessages |
	discordgo.IntentsMessageContent |
	discordgo.IntentsGuildMembers

// Session is the subset of *discordgo.Session the worker drives.
type Session interface {
	Open() error
	Close() error
	AddHandler(handler any) func()
}

// Dialer creates a session authenticated with token. It must not connect.
type Dialer func(token string) (Session, error)

// DialDiscordgo is the production Dialer backed by discordgo.
func DialDiscordgo(token string) (Session, error) {
	s, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, err
	}
	s.Identify.Intents = Intents
	return s, nil
}

// WorkerConfig carries the opaque values the worker passes through.
type WorkerConfig struct {
	Token         string
	AdminIDs      []string
	AdminRoleName string
}

// Worker owns the gateway session for the lifetime of the process.
type Worker struct {
	cfg    WorkerConfig
	dial   Dialer
	logger *slog.Logger
}

// NewWorker creates a worker. A nil dialer falls back to DialDiscordgo.
func NewWorker(cfg WorkerConfig, dial Dialer, log *slog.Logger) *Worker {
	if dial == nil {
		dial = DialDiscordgo
	}
	if log == nil {
		log = logger.Discard()
	}
	return &Worker{
		cfg:    cfg,
		dial:   dial,
		logger: log.With("component", "discord_worker"),
	}
}

// Run dials the gateway exactly once with the configured token and blocks until
// ctx is cancelled. It does not reconnect on its own; discordgo resumes dropped
// gateway connections internally. Credential problems surface as a ConnectError
// from the initial open.
func (w *Worker) Run(ctx context.Context) error {
	w.logger.Info("Connecting to Discord gateway...")

	session, err := w.dial(w.cfg.Token)
	if err != nil {
		w.logger.Error("Failed to create Discord session", "error", err)
		return apperrors.NewConnectError("failed to create discord session", err)
	}

	session.AddHandler(w.onReady)

	if err := session.Open(); err != nil {
		w.logger.Error("Failed to open Discord gateway", "error", err)
		return apperrors.NewConnectError("failed to open discord gateway", err)
	}
	w.logger.Info("Discord gateway connected")

	<-ctx.Done()
	w.logger.Info("Shutdown signal received, closing Discord session...")

	if err := session.Close(); err != nil {
		w.logger.Error("Error closing Discord session", "error", err)
	} else {
		w.logger.Info("Discord session closed.")
	}
	return nil
}

func (w *Worker) onReady(_ *discordgo.Session, r *discordgo.Ready) {
	if r == nil || r.User == nil {
		w.logger.Warn("Ready event without user information")
		return
	}
	w.logger.Info("Logged in",
		"bot_username", r.User.Username,
		"bot_id", r.User.ID,
		"guilds", len(r.Guilds),
		"admin_ids", w.cfg.AdminIDs,
		"admin_role_name", w.cfg.AdminRoleName)
}
