package library

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/mmcdole/encore/internal/domain"
)

// recentlyPlayedLimit is how many history entries the dashboard shows
const recentlyPlayedLimit = 20

// Commands provides asynchronous operations that hit network.
// Implements domain.LibraryCommands.
type Commands struct {
	repo   domain.LibraryRepository
	store  domain.Store
	logger *slog.Logger
}

// NewCommands creates a new Commands instance.
func NewCommands(repo domain.LibraryRepository, store domain.Store, logger *slog.Logger) *Commands {
	if logger == nil {
		logger = slog.Default()
	}
	return &Commands{repo: repo, store: store, logger: logger}
}

// FetchDashboard loads the home screen sections concurrently. Recently
// played is best effort; any other section failing fails the dashboard.
func (c *Commands) FetchDashboard(ctx context.Context) (*domain.Dashboard, error) {
	var d domain.Dashboard
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		albums, err := c.FetchAlbums(gctx, domain.AlbumSectionTop)
		d.TopAlbums = albums
		return err
	})
	g.Go(func() error {
		artists, err := c.repo.GetTrendingArtists(gctx)
		if err != nil {
			c.logger.Error("failed to fetch trending artists", "error", err)
		}
		d.TrendingArtists = artists
		return err
	})
	g.Go(func() error {
		tracks, err := c.FetchCharts(gctx)
		d.Charts = tracks
		return err
	})
	g.Go(func() error {
		tracks, err := c.FetchRecentlyPlayed(gctx, recentlyPlayedLimit)
		if err != nil {
			c.logger.Warn("recently played unavailable", "error", err)
			return nil
		}
		d.RecentlyPlayed = tracks
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	c.logger.Debug("fetched dashboard",
		"albums", len(d.TopAlbums),
		"artists", len(d.TrendingArtists),
		"charts", len(d.Charts),
		"recent", len(d.RecentlyPlayed))
	return &d, nil
}

func (c *Commands) FetchAlbums(ctx context.Context, section domain.AlbumSection) ([]*domain.Album, error) {
	albums, err := c.repo.GetAlbums(ctx, section)
	if err != nil {
		c.logger.Error("failed to fetch albums", "error", err, "section", section)
		return nil, err
	}
	if err := c.store.SaveAlbums(section, albums); err != nil {
		c.logger.Error("failed to save albums", "error", err, "section", section)
	}
	c.logger.Debug("fetched albums", "count", len(albums), "section", section)
	return albums, nil
}

func (c *Commands) FetchAlbumTracks(ctx context.Context, albumID string) (*domain.AlbumTracks, error) {
	album, err := c.repo.GetAlbumTracks(ctx, albumID)
	if err != nil {
		c.logger.Error("failed to fetch album tracks", "error", err, "albumID", albumID)
		return nil, err
	}
	if err := c.store.SaveAlbumTracks(albumID, album); err != nil {
		c.logger.Error("failed to save album tracks", "error", err, "albumID", albumID)
	}
	c.logger.Debug("fetched album tracks", "count", len(album.Tracks), "albumID", albumID, "purchased", album.Purchased)
	return album, nil
}

func (c *Commands) FetchArtists(ctx context.Context) ([]*domain.Artist, error) {
	artists, err := c.repo.GetArtists(ctx)
	if err != nil {
		c.logger.Error("failed to fetch artists", "error", err)
		return nil, err
	}
	if err := c.store.SaveArtists(artists); err != nil {
		c.logger.Error("failed to save artists", "error", err)
	}
	c.logger.Debug("fetched artists", "count", len(artists))
	return artists, nil
}

func (c *Commands) FetchArtistTracks(ctx context.Context, artistID string) ([]*domain.Track, error) {
	tracks, err := c.repo.GetArtistTracks(ctx, artistID)
	if err != nil {
		c.logger.Error("failed to fetch artist tracks", "error", err, "artistID", artistID)
		return nil, err
	}
	if err := c.store.SaveArtistTracks(artistID, tracks); err != nil {
		c.logger.Error("failed to save artist tracks", "error", err, "artistID", artistID)
	}
	c.logger.Debug("fetched artist tracks", "count", len(tracks), "artistID", artistID)
	return tracks, nil
}

func (c *Commands) FetchArtistAlbums(ctx context.Context, artistID string) ([]*domain.Album, error) {
	albums, err := c.repo.GetArtistAlbums(ctx, artistID)
	if err != nil {
		c.logger.Error("failed to fetch artist albums", "error", err, "artistID", artistID)
		return nil, err
	}
	if err := c.store.SaveArtistAlbums(artistID, albums); err != nil {
		c.logger.Error("failed to save artist albums", "error", err, "artistID", artistID)
	}
	c.logger.Debug("fetched artist albums", "count", len(albums), "artistID", artistID)
	return albums, nil
}

// ToggleFollow flips the follow state and returns the new state
func (c *Commands) ToggleFollow(ctx context.Context, artistID string) (bool, error) {
	following, err := c.repo.IsFollowing(ctx, artistID)
	if err != nil {
		c.logger.Error("failed to check follow state", "error", err, "artistID", artistID)
		return false, err
	}

	if following {
		err = c.repo.UnfollowArtist(ctx, artistID)
	} else {
		err = c.repo.FollowArtist(ctx, artistID)
	}
	if err != nil {
		c.logger.Error("failed to toggle follow", "error", err, "artistID", artistID, "following", following)
		return following, err
	}

	// Follower counts changed
	c.store.InvalidateArtist(artistID)
	c.logger.Info("toggled follow", "artistID", artistID, "following", !following)
	return !following, nil
}

func (c *Commands) FetchCharts(ctx context.Context) ([]*domain.Track, error) {
	tracks, err := c.repo.GetCharts(ctx)
	if err != nil {
		c.logger.Error("failed to fetch charts", "error", err)
		return nil, err
	}
	if err := c.store.SaveCharts(tracks); err != nil {
		c.logger.Error("failed to save charts", "error", err)
	}
	c.logger.Debug("fetched charts", "count", len(tracks))
	return tracks, nil
}

func (c *Commands) FetchLikedTracks(ctx context.Context) ([]*domain.Track, error) {
	tracks, err := c.repo.GetLikedTracks(ctx)
	if err != nil {
		c.logger.Error("failed to fetch liked tracks", "error", err)
		return nil, err
	}
	if err := c.store.SaveLikedTracks(tracks); err != nil {
		c.logger.Error("failed to save liked tracks", "error", err)
	}
	c.logger.Debug("fetched liked tracks", "count", len(tracks))
	return tracks, nil
}

// FetchRecentlyPlayed is not cached; history changes with every play
func (c *Commands) FetchRecentlyPlayed(ctx context.Context, limit int) ([]*domain.Track, error) {
	tracks, err := c.repo.GetRecentlyPlayed(ctx, limit)
	if err != nil {
		return nil, err
	}
	c.logger.Debug("fetched recently played", "count", len(tracks))
	return tracks, nil
}

// Purchase starts a checkout for album. The cached album is dropped right
// away so the purchase flag is refetched once payment completes.
func (c *Commands) Purchase(ctx context.Context, album *domain.Album, email string) (*domain.Checkout, error) {
	if album == nil {
		return nil, domain.ErrItemNotFound
	}
	if album.Purchased {
		return nil, domain.ErrAlreadyPurchased
	}

	req := domain.CheckoutRequest{
		AlbumID:       album.ID,
		ArtistID:      album.ArtistID,
		Amount:        album.Price,
		Email:         email,
		TransactionID: uuid.NewString(),
	}
	checkout, err := c.repo.CreateCheckout(ctx, req)
	if err != nil {
		c.logger.Error("failed to create checkout", "error", err, "albumID", album.ID)
		return nil, err
	}

	c.store.InvalidateAlbum(album.ID)
	c.logger.Info("created checkout", "albumID", album.ID, "session", checkout.SessionID, "transaction", req.TransactionID)
	return checkout, nil
}

func (c *Commands) InvalidateAlbum(albumID string) {
	c.store.InvalidateAlbum(albumID)
	c.logger.Info("invalidated album cache", "albumID", albumID)
}

func (c *Commands) InvalidateArtist(artistID string) {
	c.store.InvalidateArtist(artistID)
	c.logger.Info("invalidated artist cache", "artistID", artistID)
}

func (c *Commands) InvalidateAll() {
	c.store.InvalidateAll()
	c.logger.Info("invalidated all cache")
}
