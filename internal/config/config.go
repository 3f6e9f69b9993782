// Package config builds the process-wide configuration from the environment.
// The resulting Config is constructed once at startup and handed to every
// component; nothing else in the bot reads environment variables.
package config

import (
	"net"
	"strconv"
	"strings"
	"time"
)

// Config holds all settings for the bot process. Secrets are opaque strings
// validated only by the remote services that consume them.
type Config struct {
	DiscordToken  string   `mapstructure:"discord_token"`
	PoeAPIKey     string   `mapstructure:"poe_api_key"`
	AdminIDs      []string `mapstructure:"-"`
	AdminRoleName string   `mapstructure:"admin_role_name" validate:"required"`

	Liveness LivenessConfig `mapstructure:"liveness"`
	Watchdog WatchdogConfig `mapstructure:"watchdog"`
	Log      LogConfig      `mapstructure:"log"`
}

// LivenessConfig configures the HTTP responder polled by the external monitor.
type LivenessConfig struct {
	Host string `mapstructure:"host" validate:"omitempty,ip"`
	Port int    `mapstructure:"port" validate:"min=1,max=65535"`
	Body string `mapstructure:"body" validate:"required"`
}

// Addr returns the host:port the responder binds to.
func (c LivenessConfig) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// WatchdogConfig configures the probe-staleness watchdog.
type WatchdogConfig struct {
	Enabled    bool          `mapstructure:"enabled"`
	Interval   time.Duration `mapstructure:"interval"    validate:"min=1s"`
	StaleAfter time.Duration `mapstructure:"stale_after" validate:"gtefield=Interval"`
}

// LogConfig configures the slog handler.
type LogConfig struct {
	Level string `mapstructure:"level" validate:"oneof=debug info warn error"`
	JSON  bool   `mapstructure:"json"`
}

// ParseAdminIDs splits a comma-separated allowlist, trimming whitespace and
// dropping empty entries. Entries are kept verbatim otherwise.
func ParseAdminIDs(raw string) []string {
	var ids []string
	for _, part := range strings.Split(raw, ",") {
		if id := strings.TrimSpace(part); id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}
