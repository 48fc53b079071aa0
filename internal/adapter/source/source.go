package source

import (
	"fmt"
	"log/slog"

	"github.com/mmcdole/encore/internal/adapter"
	"github.com/mmcdole/encore/internal/adapter/source/mysound"
	"github.com/mmcdole/encore/internal/domain"
)

// Backend combines every repository the streaming service must implement.
type Backend interface {
	domain.LibraryRepository  // Catalog: albums, artists, charts, checkout
	domain.PlaylistRepository // Playlists: list, create, add, delete
	domain.PlaybackClient     // Play counts and likes
}

// SourceConfig contains the configuration needed to create a Backend
type SourceConfig struct {
	URL   string
	Token string
}

// NewClient creates a Backend for the configured server.
func NewClient(cfg *SourceConfig, logger *slog.Logger) (Backend, error) {
	if cfg == nil {
		return nil, fmt.Errorf("source config is nil")
	}

	if cfg.URL == "" {
		return nil, fmt.Errorf("server URL is required")
	}

	if cfg.Token == "" {
		return nil, fmt.Errorf("server token is required")
	}

	return mysound.NewClient(cfg.URL, cfg.Token, logger), nil
}

// NewClientFromConfig creates a Backend from the application config
func NewClientFromConfig(cfg *adapter.Config, logger *slog.Logger) (Backend, error) {
	return NewClient(&SourceConfig{
		URL:   cfg.Server.URL,
		Token: cfg.Server.Token,
	}, logger)
}
