package adapter

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/spf13/viper"
)

// DefaultServerURL is the production streaming backend
const DefaultServerURL = "https://mysounduk-service.com"

// Config holds all application configuration
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Player  PlayerConfig  `mapstructure:"player"`
	UI      UIConfig      `mapstructure:"ui"`
	Logging LoggingConfig `mapstructure:"logging"`
	Cache   CacheConfig   `mapstructure:"cache"`
}

// ServerConfig holds the backend location and the listener's credentials
type ServerConfig struct {
	URL      string `mapstructure:"url"`
	Token    string `mapstructure:"token"`   // Bearer token issued at login
	UserID   string `mapstructure:"user_id"`
	Username string `mapstructure:"username"` // Display name
	Email    string `mapstructure:"email"`    // Used for checkout receipts
}

// PlayerConfig holds audio engine tuning
type PlayerConfig struct {
	TickInterval time.Duration `mapstructure:"tick_interval"` // Position update period
	LoadTimeout  time.Duration `mapstructure:"load_timeout"`
	SampleRate   int           `mapstructure:"sample_rate"`
}

// UIConfig holds UI configuration
type UIConfig struct {
	Theme    string `mapstructure:"theme"`
	PageSize int    `mapstructure:"page_size"` // Rows fetched for recently played and song listings
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	File  string `mapstructure:"file"`
	Level string `mapstructure:"level"`
}

// CacheConfig holds catalog cache configuration
type CacheConfig struct {
	Dir         string        `mapstructure:"dir"`          // Empty keeps the cache in memory only
	PlaylistTTL time.Duration `mapstructure:"playlist_ttl"` // Personal playlists refetch after this age
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			URL: DefaultServerURL,
		},
		Player: PlayerConfig{
			TickInterval: 500 * time.Millisecond,
			LoadTimeout:  15 * time.Second,
			SampleRate:   44100,
		},
		UI: UIConfig{
			Theme:    "default",
			PageSize: 20,
		},
		Logging: LoggingConfig{
			File:  defaultLogPath(),
			Level: "INFO",
		},
		Cache: CacheConfig{
			Dir:         defaultCachePath(),
			PlaylistTTL: 30 * time.Second,
		},
	}
}

// defaultLogPath returns the default log file path for the current OS
func defaultLogPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "encore", "encore.log")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".local", "share", "encore", "encore.log")
	}
}

// defaultConfigPath returns the config directory, honoring ENCORE_CONFIG_DIR
func defaultConfigPath() string {
	if dir := os.Getenv("ENCORE_CONFIG_DIR"); dir != "" {
		return dir
	}
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "encore")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "encore")
	}
}

// defaultCachePath returns the default cache directory path for the current OS
func defaultCachePath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("LOCALAPPDATA"), "encore", "cache")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".local", "share", "encore", "cache")
	}
}

// LoadConfig loads configuration from file and environment
func LoadConfig() (*Config, error) {
	cfg := DefaultConfig()

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(defaultConfigPath())
	viper.AddConfigPath(".")

	// Environment variable overrides, e.g. ENCORE_SERVER_URL
	viper.SetEnvPrefix("ENCORE")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, use defaults
	}

	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}

	if cfg.Server.URL == "" {
		cfg.Server.URL = DefaultServerURL
	}

	return cfg, nil
}

// SaveConfig saves the current configuration to file
func SaveConfig(cfg *Config) error {
	viper.Set("server.url", cfg.Server.URL)
	viper.Set("server.token", cfg.Server.Token)
	viper.Set("server.user_id", cfg.Server.UserID)
	viper.Set("server.username", cfg.Server.Username)
	viper.Set("server.email", cfg.Server.Email)

	viper.Set("player.tick_interval", cfg.Player.TickInterval.String())
	viper.Set("player.load_timeout", cfg.Player.LoadTimeout.String())
	viper.Set("player.sample_rate", cfg.Player.SampleRate)

	viper.Set("ui.theme", cfg.UI.Theme)
	viper.Set("ui.page_size", cfg.UI.PageSize)

	viper.Set("logging.file", cfg.Logging.File)
	viper.Set("logging.level", cfg.Logging.Level)

	viper.Set("cache.dir", cfg.Cache.Dir)
	viper.Set("cache.playlist_ttl", cfg.Cache.PlaylistTTL.String())

	return writeConfig()
}

// ClearServerConfig removes the credentials while preserving other settings
func ClearServerConfig() error {
	viper.Set("server.token", "")
	viper.Set("server.user_id", "")
	viper.Set("server.username", "")
	viper.Set("server.email", "")

	return writeConfig()
}

func writeConfig() error {
	configPath := defaultConfigPath()
	if err := os.MkdirAll(configPath, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	configFile := filepath.Join(configPath, "config.yaml")
	if err := viper.WriteConfigAs(configFile); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// IsConfigured returns true if the server URL and token are set
func (c *Config) IsConfigured() bool {
	return c.Server.URL != "" && c.Server.Token != ""
}

// ClearCache removes all cached data under dir (the default cache path when empty)
func ClearCache(dir string) error {
	if dir == "" {
		dir = defaultCachePath()
	}
	if err := os.RemoveAll(dir); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to clear cache: %w", err)
	}
	return nil
}

// GetCachePath returns the default cache directory path
func GetCachePath() string {
	return defaultCachePath()
}
