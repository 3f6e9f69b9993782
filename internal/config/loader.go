package config

import (
	"errors"
	"io/fs"
	"log/slog"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	apperrors "github.com/edgard/mrtutor/internal/errors"
)

// Load builds the configuration from, in increasing precedence:
//  1. Default values
//  2. The optional dotenv file at envFile (skipped when empty or missing)
//  3. Process environment variables
//
// Variables already present in the environment are never overwritten by the
// dotenv file.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			if !errors.Is(err, fs.ErrNotExist) {
				return nil, apperrors.NewConfigError("failed to read env file "+envFile, err)
			}
			slog.Debug("env file not found, using process environment only", "path", envFile)
		}
	}

	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	for key, env := range envKeys {
		if err := v.BindEnv(key, env); err != nil {
			return nil, apperrors.NewConfigError("failed to bind "+env, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, apperrors.NewConfigError("failed to parse config", err)
	}
	cfg.AdminIDs = ParseAdminIDs(v.GetString("admin_ids"))

	if err := validator.New().Struct(cfg); err != nil {
		return nil, apperrors.NewConfigError("invalid configuration", err)
	}

	slog.Info("configuration loaded",
		"liveness_addr", cfg.Liveness.Addr(),
		"discord_token_set", cfg.DiscordToken != "",
		"poe_api_key_set", cfg.PoeAPIKey != "",
		"admin_ids", len(cfg.AdminIDs),
		"admin_role_name", cfg.AdminRoleName,
		"log_level", cfg.Log.Level)

	return cfg, nil
}
