package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

const (
	envPrefix            = "COURTSERVER"
	envConfigDefaultPath = "COURTSERVER_CONFIG_DEFAULT_PATH"
	defaultConfigName    = "config.yaml"
)

// listKeys are replaced wholesale when the file sets them, so entries never
// inherit fields from the built-in defaults.
var listKeys = []string{"characters", "music", "areas", "credentials"}

// Load builds configuration from defaults, optional config file, env vars, and returns the resolved path.
// Precedence: defaults < config file < env vars < caller overrides.
func Load(logger *zerolog.Logger, explicitPath string) (Config, string, error) {
	cfg := Default()

	v := viper.New()
	v.SetConfigType("yaml")
	setDefaults(v, cfg)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	configPath := resolveConfigPath(explicitPath)
	v.SetConfigFile(configPath)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) || errors.Is(err, os.ErrNotExist) {
			if writeErr := writeDefaultConfig(configPath, cfg); writeErr != nil && logger != nil {
				logger.Warn().Err(writeErr).Str("path", configPath).Msg("failed to write default config")
			} else if logger != nil {
				logger.Info().Str("path", configPath).Msg("created default config")
			}
			// try reading again in case it was just written
			if readErr := v.ReadInConfig(); readErr != nil && logger != nil {
				logger.Warn().Err(readErr).Str("path", configPath).Msg("failed to read config after writing default")
			}
		} else {
			return cfg, configPath, fmt.Errorf("read config: %w", err)
		}
	}

	for _, key := range listKeys {
		if v.InConfig(key) {
			clearList(&cfg, key)
		}
	}
	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, configPath, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, configPath, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, configPath, nil
}

func setDefaults(v *viper.Viper, cfg Config) {
	v.SetDefault("addr", cfg.Addr)
	v.SetDefault("read_header_timeout", cfg.ReadHeaderTimeout)
	v.SetDefault("shutdown_timeout", cfg.ShutdownTimeout)
	v.SetDefault("log_level", cfg.LogLevel)
	v.SetDefault("hostname", cfg.Hostname)
	v.SetDefault("motd", cfg.MOTD)
	v.SetDefault("playerlimit", cfg.PlayerLimit)
	v.SetDefault("showname_max_length", cfg.ShownameMaxLength)
	v.SetDefault("spectator_name", cfg.SpectatorName)
	v.SetDefault("sneak_handicap", cfg.SneakHandicap)
	v.SetDefault("music_change_floodguard.times_per_interval", cfg.MusicFloodGuard.TimesPerInterval)
	v.SetDefault("music_change_floodguard.interval_length", cfg.MusicFloodGuard.IntervalLength)
	v.SetDefault("music_change_floodguard.mute_length", cfg.MusicFloodGuard.MuteLength)
	v.SetDefault("max_frames_per_second", cfg.MaxFramesPerSecond)
	v.SetDefault("legacy_sneak_dark_wording", cfg.LegacySneakDarkWording)
	v.SetDefault("identity_db_path", cfg.IdentityDBPath)
	v.SetDefault("jwt_secret", cfg.JWTSecret)
	v.SetDefault("jwt_issuer", cfg.JWTIssuer)
}

func clearList(cfg *Config, key string) {
	switch key {
	case "characters":
		cfg.Characters = nil
	case "music":
		cfg.Music = nil
	case "areas":
		cfg.Areas = nil
	case "credentials":
		cfg.Credentials = nil
	}
}

// Validate checks the values the world cannot start without.
func (c Config) Validate() error {
	if c.PlayerLimit <= 0 {
		return errors.New("playerlimit must be positive")
	}
	if c.MusicFloodGuard.TimesPerInterval <= 0 {
		return errors.New("music_change_floodguard.times_per_interval must be positive")
	}
	if len(c.Areas) == 0 {
		return errors.New("at least one area is required")
	}
	if len(c.Characters) == 0 {
		return errors.New("at least one character is required")
	}
	return nil
}

func resolveConfigPath(explicitPath string) string {
	if explicitPath != "" {
		return explicitPath
	}

	if base := os.Getenv(envConfigDefaultPath); base != "" {
		if err := os.MkdirAll(base, 0o755); err == nil {
			return filepath.Join(base, defaultConfigName)
		}
	}

	cwd, err := os.Getwd()
	if err != nil {
		return defaultConfigName
	}
	return filepath.Join(cwd, defaultConfigName)
}

func writeDefaultConfig(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}
