package config

import "time"

// Default values for configuration
const (
	DefaultAdminRoleName = "Admin"

	DefaultLivenessHost = "0.0.0.0"
	DefaultLivenessPort = 8080
	DefaultLivenessBody = "Bot is alive!"

	// The external monitor polls at most every two minutes.
	DefaultWatchdogInterval   = time.Minute
	DefaultWatchdogStaleAfter = 5 * time.Minute

	DefaultLogLevel = "info"
	DefaultLogJSON  = true
)

// envKeys maps configuration keys to the environment variables that set them.
var envKeys = map[string]string{
	"discord_token":        "DISCORD_BOT_TOKEN",
	"poe_api_key":          "POE_API_KEY",
	"admin_ids":            "ADMIN_IDS",
	"admin_role_name":      "ADMIN_ROLE_NAME",
	"liveness.host":        "LIVENESS_HOST",
	"liveness.port":        "PORT",
	"liveness.body":        "LIVENESS_BODY",
	"watchdog.enabled":     "WATCHDOG_ENABLED",
	"watchdog.interval":    "WATCHDOG_INTERVAL",
	"watchdog.stale_after": "WATCHDOG_STALE_AFTER",
	"log.level":            "LOG_LEVEL",
	"log.json":             "LOG_JSON",
}

var defaults = map[string]any{
	"discord_token":        "",
	"poe_api_key":          "",
	"admin_ids":            "",
	"admin_role_name":      DefaultAdminRoleName,
	"liveness.host":        DefaultLivenessHost,
	"liveness.port":        DefaultLivenessPort,
	"liveness.body":        DefaultLivenessBody,
	"watchdog.enabled":     true,
	"watchdog.interval":    DefaultWatchdogInterval,
	"watchdog.stale_after": DefaultWatchdogStaleAfter,
	"log.level":            DefaultLogLevel,
	"log.json":             DefaultLogJSON,
}
