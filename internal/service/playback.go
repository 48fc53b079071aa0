package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/samber/lo"

	"github.com/mmcdole/encore/internal/domain"
	"github.com/mmcdole/encore/internal/player"
)

// recordTimeout bounds the fire-and-forget play count request
const recordTimeout = 10 * time.Second

// albumLookup is the cache read used to resolve entitlement for loose tracks
type albumLookup interface {
	GetCachedAlbumTracks(albumID string) (*domain.AlbumTracks, bool)
}

// PlaybackService starts playback by writing the player store. The engine
// observes the store and does the rest.
type PlaybackService struct {
	store  *player.Store
	client domain.PlaybackClient
	albums albumLookup
	logger *slog.Logger
}

// NewPlaybackService creates a new playback service
func NewPlaybackService(
	store *player.Store,
	client domain.PlaybackClient,
	albums albumLookup,
	logger *slog.Logger,
) *PlaybackService {
	if logger == nil {
		logger = slog.Default()
	}
	return &PlaybackService{
		store:  store,
		client: client,
		albums: albums,
		logger: logger,
	}
}

// PlayAlbumTrack queues the album's full-length tracks and starts at
// trackID. Entitlement is the album's purchase flag.
func (s *PlaybackService) PlayAlbumTrack(album *domain.AlbumTracks, trackID string) error {
	if album == nil {
		return domain.ErrEmptyQueue
	}
	queue := album.FullTracks()
	_, index, found := lo.FindIndexOf(queue, func(t *domain.Track) bool { return t.ID == trackID })
	if !found {
		index = 0
	}
	return s.play(queue, index, album.Purchased)
}

// PlayPlaylistTrack queues a playlist. Playlist playback is always entitled.
func (s *PlaybackService) PlayPlaylistTrack(tracks []*domain.Track, index int) error {
	return s.play(tracks, index, true)
}

// PlayTracks queues tracks from a loose listing (charts, liked, artist).
// Entitlement comes from the cached album of the starting track.
func (s *PlaybackService) PlayTracks(tracks []*domain.Track, index int) error {
	if len(tracks) == 0 {
		return domain.ErrEmptyQueue
	}
	index = lo.Clamp(index, 0, len(tracks)-1)
	return s.play(tracks, index, s.entitlementFor(tracks[index]))
}

// PlaySingle plays one track as a one-element queue
func (s *PlaybackService) PlaySingle(track *domain.Track, entitled bool) error {
	if track == nil {
		return domain.ErrEmptyQueue
	}
	return s.play([]*domain.Track{track}, 0, entitled)
}

// entitlementFor resolves whether a loose track may play past the preview.
// Tracks with no album have nothing to purchase. Tracks whose album is not
// cached play as previews until the album is opened.
func (s *PlaybackService) entitlementFor(t *domain.Track) bool {
	if t.AlbumID == "" {
		return true
	}
	if s.albums == nil {
		return false
	}
	album, ok := s.albums.GetCachedAlbumTracks(t.AlbumID)
	return ok && album.Purchased
}

func (s *PlaybackService) play(tracks []*domain.Track, index int, entitled bool) error {
	if len(tracks) == 0 {
		return domain.ErrEmptyQueue
	}
	index = lo.Clamp(index, 0, len(tracks)-1)

	queue := lo.Map(tracks, func(t *domain.Track, _ int) domain.Track { return *t })
	current := queue[index]

	// Entitlement lands in the same mutation as the track so the engine
	// never loads a track with the previous session's flag.
	s.store.Update(func(b *player.Batch) {
		b.SetPlaylist(queue)
		b.SetCurrentIndex(index)
		b.SetAlbumPurchaseStatus(entitled)
		b.SetCurrentSong(current)
		b.SetIsPlaying(true)
	})

	s.logger.Info("starting playback",
		"title", current.Title,
		"trackID", current.ID,
		"index", index,
		"queue", len(queue),
		"entitled", entitled)

	go s.recordPlay(current.ID)
	return nil
}

func (s *PlaybackService) recordPlay(trackID string) {
	if s.client == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), recordTimeout)
	defer cancel()
	if err := s.client.RecordPlay(ctx, trackID); err != nil {
		s.logger.Warn("failed to record play", "error", err, "trackID", trackID)
	}
}

// LikeService toggles likes and keeps the liked-tracks cache honest
type LikeService struct {
	client domain.PlaybackClient
	store  domain.Store
	logger *slog.Logger
}

// NewLikeService creates a new like service
func NewLikeService(client domain.PlaybackClient, store domain.Store, logger *slog.Logger) *LikeService {
	if logger == nil {
		logger = slog.Default()
	}
	return &LikeService{client: client, store: store, logger: logger}
}

// Like toggles the like on a track. The server flips the state.
func (s *LikeService) Like(ctx context.Context, trackID string) error {
	if err := s.client.LikeTrack(ctx, trackID); err != nil {
		s.logger.Error("failed to like track", "error", err, "trackID", trackID)
		return err
	}
	s.store.InvalidateLikedTracks()
	s.logger.Info("toggled like", "trackID", trackID)
	return nil
}
