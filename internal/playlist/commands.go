package playlist

import (
	"context"
	"log/slog"
	"time"

	"github.com/mmcdole/encore/internal/domain"
)

// DefaultTTL is how long a cached playlist listing is served without refetching
const DefaultTTL = 30 * time.Second

// Commands provides asynchronous operations (includes CRUD).
// Implements domain.PlaylistCommands.
type Commands struct {
	repo   domain.PlaylistRepository
	store  domain.Store
	logger *slog.Logger
	ttl    time.Duration
	now    func() time.Time
}

// NewCommands creates a new Commands instance. ttl <= 0 uses DefaultTTL.
func NewCommands(repo domain.PlaylistRepository, store domain.Store, ttl time.Duration, logger *slog.Logger) *Commands {
	if logger == nil {
		logger = slog.Default()
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Commands{repo: repo, store: store, logger: logger, ttl: ttl, now: time.Now}
}

// LoadPlaylists serves the cache while it is younger than the TTL
func (c *Commands) LoadPlaylists(ctx context.Context, kind domain.PlaylistKind) ([]*domain.Playlist, error) {
	if savedAt, ok := c.store.PlaylistsSavedAt(kind); ok && c.now().Sub(savedAt) < c.ttl {
		if playlists, ok := c.store.GetPlaylists(kind); ok {
			c.logger.Debug("cache fresh", "kind", kind, "count", len(playlists))
			return playlists, nil
		}
	}
	return c.FetchPlaylists(ctx, kind)
}

func (c *Commands) FetchPlaylists(ctx context.Context, kind domain.PlaylistKind) ([]*domain.Playlist, error) {
	playlists, err := c.repo.GetPlaylists(ctx, kind)
	if err != nil {
		c.logger.Error("failed to fetch playlists", "error", err, "kind", kind)
		return nil, err
	}
	if err := c.store.SavePlaylists(kind, playlists); err != nil {
		c.logger.Error("failed to save playlists", "error", err, "kind", kind)
	}
	c.logger.Debug("fetched playlists", "count", len(playlists), "kind", kind)
	return playlists, nil
}

func (c *Commands) FetchPlaylistTracks(ctx context.Context, playlistID string) ([]*domain.Track, error) {
	tracks, err := c.repo.GetPlaylistTracks(ctx, playlistID)
	if err != nil {
		c.logger.Error("failed to fetch playlist tracks", "error", err, "playlistID", playlistID)
		return nil, err
	}
	if err := c.store.SavePlaylistTracks(playlistID, tracks); err != nil {
		c.logger.Error("failed to save playlist tracks", "error", err, "playlistID", playlistID)
	}
	c.logger.Debug("fetched playlist tracks", "count", len(tracks), "playlistID", playlistID)
	return tracks, nil
}

func (c *Commands) CreatePlaylist(ctx context.Context, title, description string) (*domain.Playlist, error) {
	playlist, err := c.repo.CreatePlaylist(ctx, title, description)
	if err != nil {
		c.logger.Error("failed to create playlist", "error", err, "title", title)
		return nil, err
	}
	c.InvalidatePlaylists()
	c.logger.Info("created playlist", "title", title, "id", playlist.ID)
	return playlist, nil
}

func (c *Commands) AddToPlaylist(ctx context.Context, playlistID string, trackIDs []string) error {
	if err := c.repo.AddToPlaylist(ctx, playlistID, trackIDs); err != nil {
		c.logger.Error("failed to add to playlist", "error", err, "playlistID", playlistID)
		return err
	}
	c.InvalidatePlaylists()
	c.InvalidatePlaylistTracks(playlistID)
	c.logger.Info("added tracks to playlist", "playlistID", playlistID, "count", len(trackIDs))
	return nil
}

func (c *Commands) DeletePlaylist(ctx context.Context, playlistID string) error {
	if err := c.repo.DeletePlaylist(ctx, playlistID); err != nil {
		c.logger.Error("failed to delete playlist", "error", err, "playlistID", playlistID)
		return err
	}
	c.InvalidatePlaylists()
	c.InvalidatePlaylistTracks(playlistID)
	c.logger.Info("deleted playlist", "playlistID", playlistID)
	return nil
}

// GetPlaylistMembership checks the cached tracks of each personal playlist.
// Playlists whose tracks are not cached are reported as not containing it.
func (c *Commands) GetPlaylistMembership(ctx context.Context, trackID string) (map[string]bool, error) {
	playlists, err := c.LoadPlaylists(ctx, domain.PlaylistKindPersonal)
	if err != nil {
		return nil, err
	}

	membership := make(map[string]bool)
	for _, p := range playlists {
		tracks, ok := c.store.GetPlaylistTracks(p.ID)
		if !ok {
			continue
		}
		for _, t := range tracks {
			if t.ID == trackID {
				membership[p.ID] = true
				break
			}
		}
	}

	return membership, nil
}

func (c *Commands) InvalidatePlaylists() {
	c.store.InvalidatePlaylists()
}

func (c *Commands) InvalidatePlaylistTracks(playlistID string) {
	c.store.InvalidatePlaylistTracks(playlistID)
}
