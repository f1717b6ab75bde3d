package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	// Discord configuration
	DiscordToken string `mapstructure:"discord_token"`
	OwnerID      string `mapstructure:"owner_id"`
	StatusText   string `mapstructure:"status_text"`

	// Command configuration
	DefaultPrefix  string `mapstructure:"default_prefix"`
	HelpWidth      int    `mapstructure:"help_width"`
	HelpPageLength int    `mapstructure:"help_page_length"`

	// Database configuration
	DatabaseURL  string `mapstructure:"database_url"`
	DatabaseName string `mapstructure:"database_name"`

	// NATS event forwarding, disabled when empty
	NATSURL string `mapstructure:"nats_url"`

	// osu! API credentials, the osu command is disabled without them
	OsuClientID     string `mapstructure:"osu_client_id"`
	OsuClientSecret string `mapstructure:"osu_client_secret"`
	OsuAPIURL       string `mapstructure:"osu_api_url"`
	OsuOAuthURL     string `mapstructure:"osu_oauth_url"`

	LogLevel        log.Level     `mapstructure:"log_level"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`

	// Environment
	Environment string `mapstructure:"environment"` // "development", "production" or "test"
}

const (
	DefaultPrefix          = "!"
	DefaultStatusText      = "in the cloud"
	DefaultHelpWidth       = 80
	DefaultHelpPageLength  = 2000
	DefaultShutdownTimeout = 10 * time.Second
	DefaultOsuAPIURL       = "https://osu.ppy.sh/api/v2"
	DefaultOsuOAuthURL     = "https://osu.ppy.sh/oauth/token"
)

// SetDefaults registers every key so environment variables are picked up
// on unmarshal
func SetDefaults(v *viper.Viper) {
	v.SetDefault("discord_token", "")
	v.SetDefault("owner_id", "")
	v.SetDefault("status_text", DefaultStatusText)
	v.SetDefault("default_prefix", DefaultPrefix)
	v.SetDefault("help_width", DefaultHelpWidth)
	v.SetDefault("help_page_length", DefaultHelpPageLength)
	v.SetDefault("database_url", "")
	v.SetDefault("database_name", "")
	v.SetDefault("nats_url", "")
	v.SetDefault("osu_client_id", "")
	v.SetDefault("osu_client_secret", "")
	v.SetDefault("osu_api_url", DefaultOsuAPIURL)
	v.SetDefault("osu_oauth_url", DefaultOsuOAuthURL)
	v.SetDefault("log_level", log.InfoLevel.String())
	v.SetDefault("shutdown_timeout", DefaultShutdownTimeout.String())
	v.SetDefault("environment", "development")

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
}

// LoadEnvFile loads variables from a .env file into the process environment.
// A missing default file is not an error.
func LoadEnvFile(path string) error {
	if path == "" {
		if err := godotenv.Load(); err != nil {
			log.Debug("No .env file found")
		}
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("failed to load env file %s: %w", path, err)
	}
	return nil
}

// Load unmarshals and validates the configuration held by v
func Load(v *viper.Viper) (*Config, error) {
	cfg := &Config{}
	err := v.Unmarshal(cfg, viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		LogLevelHookFunc(),
	)))
	if err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.DefaultPrefix == "" {
		return errors.New("DEFAULT_PREFIX must not be empty")
	}
	if c.HelpWidth <= 0 || c.HelpPageLength <= 0 {
		return errors.New("HELP_WIDTH and HELP_PAGE_LENGTH must be positive")
	}

	if c.Environment != "test" && c.DatabaseURL == "" {
		return errors.New("DATABASE_URL is required")
	}
	return nil
}

// ValidateBot checks the settings only the bot process needs, so migrations
// can run without a Discord token
func (c *Config) ValidateBot() error {
	if c.Environment != "test" && c.DiscordToken == "" {
		return errors.New("DISCORD_TOKEN is required")
	}
	return nil
}

// LogLevelHookFunc decodes level names such as "debug" into a logrus level
func LogLevelHookFunc() mapstructure.DecodeHookFuncType {
	levelType := reflect.TypeOf(log.InfoLevel)
	return func(f reflect.Type, t reflect.Type, data any) (any, error) {
		if f.Kind() != reflect.String || t != levelType {
			return data, nil
		}
		lvl, err := log.ParseLevel(data.(string))
		if err != nil {
			return nil, fmt.Errorf("invalid log level: %s", data)
		}
		return lvl, nil
	}
}
