package tui

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/mmcdole/encore/internal/domain"
	"github.com/mmcdole/encore/internal/player"
	"github.com/mmcdole/encore/internal/search"
	"github.com/mmcdole/encore/internal/service"
)

// fakeLibrary serves both the cached and the fetching side of the catalog
type fakeLibrary struct {
	albums      map[domain.AlbumSection][]*domain.Album
	albumTracks map[string]*domain.AlbumTracks
	charts      []*domain.Track
	cached      map[string]*domain.AlbumTracks
	purchased   []string
	purchaseErr error
	following   bool
}

func newFakeLibrary() *fakeLibrary {
	return &fakeLibrary{
		albums:      make(map[domain.AlbumSection][]*domain.Album),
		albumTracks: make(map[string]*domain.AlbumTracks),
		cached:      make(map[string]*domain.AlbumTracks),
	}
}

func (f *fakeLibrary) GetCachedAlbums(section domain.AlbumSection) ([]*domain.Album, bool) {
	return nil, false
}

func (f *fakeLibrary) GetCachedAlbumTracks(albumID string) (*domain.AlbumTracks, bool) {
	a, ok := f.cached[albumID]
	return a, ok
}

func (f *fakeLibrary) GetCachedArtists() ([]*domain.Artist, bool)           { return nil, false }
func (f *fakeLibrary) GetCachedArtistTracks(string) ([]*domain.Track, bool) { return nil, false }
func (f *fakeLibrary) GetCachedArtistAlbums(string) ([]*domain.Album, bool) { return nil, false }
func (f *fakeLibrary) GetCachedCharts() ([]*domain.Track, bool)             { return nil, false }
func (f *fakeLibrary) GetCachedLikedTracks() ([]*domain.Track, bool)        { return nil, false }

func (f *fakeLibrary) FetchArtists(context.Context) ([]*domain.Artist, error) {
	return nil, nil
}

func (f *fakeLibrary) FetchLikedTracks(context.Context) ([]*domain.Track, error) {
	return nil, nil
}

func (f *fakeLibrary) FetchDashboard(ctx context.Context) (*domain.Dashboard, error) {
	return &domain.Dashboard{TopAlbums: f.albums[domain.AlbumSectionTop], Charts: f.charts}, nil
}

func (f *fakeLibrary) FetchAlbums(ctx context.Context, section domain.AlbumSection) ([]*domain.Album, error) {
	return f.albums[section], nil
}

func (f *fakeLibrary) FetchAlbumTracks(ctx context.Context, albumID string) (*domain.AlbumTracks, error) {
	a, ok := f.albumTracks[albumID]
	if !ok {
		return nil, domain.ErrItemNotFound
	}
	f.cached[albumID] = a
	return a, nil
}

func (f *fakeLibrary) FetchArtistTracks(ctx context.Context, artistID string) ([]*domain.Track, error) {
	return nil, nil
}

func (f *fakeLibrary) FetchArtistAlbums(ctx context.Context, artistID string) ([]*domain.Album, error) {
	return nil, nil
}

func (f *fakeLibrary) ToggleFollow(ctx context.Context, artistID string) (bool, error) {
	f.following = !f.following
	return f.following, nil
}

func (f *fakeLibrary) FetchCharts(ctx context.Context) ([]*domain.Track, error) {
	return f.charts, nil
}

func (f *fakeLibrary) FetchRecentlyPlayed(ctx context.Context, limit int) ([]*domain.Track, error) {
	return nil, nil
}

func (f *fakeLibrary) Purchase(ctx context.Context, album *domain.Album, email string) (*domain.Checkout, error) {
	if f.purchaseErr != nil {
		return nil, f.purchaseErr
	}
	f.purchased = append(f.purchased, album.ID)
	return &domain.Checkout{AlbumID: album.ID, SessionID: "cs_1", URL: "https://example.com/pay/cs_1"}, nil
}

func (f *fakeLibrary) InvalidateAlbum(albumID string)   { delete(f.cached, albumID) }
func (f *fakeLibrary) InvalidateArtist(artistID string) {}
func (f *fakeLibrary) InvalidateAll()                   { f.cached = make(map[string]*domain.AlbumTracks) }

// fakePlaylists serves playlist listings and records mutations
type fakePlaylists struct {
	playlists map[domain.PlaylistKind][]*domain.Playlist
	tracks    map[string][]*domain.Track
	deleted   []string
	added     map[string][]string
}

func newFakePlaylists() *fakePlaylists {
	return &fakePlaylists{
		playlists: make(map[domain.PlaylistKind][]*domain.Playlist),
		tracks:    make(map[string][]*domain.Track),
		added:     make(map[string][]string),
	}
}

func (f *fakePlaylists) GetCachedPlaylists(kind domain.PlaylistKind) ([]*domain.Playlist, bool) {
	return nil, false
}

func (f *fakePlaylists) GetCachedPlaylistTracks(playlistID string) ([]*domain.Track, bool) {
	return nil, false
}

func (f *fakePlaylists) LoadPlaylists(ctx context.Context, kind domain.PlaylistKind) ([]*domain.Playlist, error) {
	return f.playlists[kind], nil
}

func (f *fakePlaylists) FetchPlaylists(ctx context.Context, kind domain.PlaylistKind) ([]*domain.Playlist, error) {
	return f.playlists[kind], nil
}

func (f *fakePlaylists) FetchPlaylistTracks(ctx context.Context, playlistID string) ([]*domain.Track, error) {
	return f.tracks[playlistID], nil
}

func (f *fakePlaylists) CreatePlaylist(ctx context.Context, title, description string) (*domain.Playlist, error) {
	return &domain.Playlist{ID: "new", Title: title, Kind: domain.PlaylistKindPersonal}, nil
}

func (f *fakePlaylists) AddToPlaylist(ctx context.Context, playlistID string, trackIDs []string) error {
	f.added[playlistID] = append(f.added[playlistID], trackIDs...)
	return nil
}

func (f *fakePlaylists) DeletePlaylist(ctx context.Context, playlistID string) error {
	f.deleted = append(f.deleted, playlistID)
	return nil
}

func (f *fakePlaylists) GetPlaylistMembership(ctx context.Context, trackID string) (map[string]bool, error) {
	return map[string]bool{}, nil
}

func (f *fakePlaylists) InvalidatePlaylists()            {}
func (f *fakePlaylists) InvalidatePlaylistTracks(string) {}

// fakePlayer records transport commands
type fakePlayer struct {
	status    player.Status
	toggles   int
	seeks     []time.Duration
	dismissed int
	skipped   int
}

func (f *fakePlayer) TogglePlay()                { f.toggles++ }
func (f *fakePlayer) SeekBy(delta time.Duration) { f.seeks = append(f.seeks, delta) }
func (f *fakePlayer) Status() player.Status      { return f.status }
func (f *fakePlayer) SkipPrevious() bool         { return false }

func (f *fakePlayer) SkipNext() bool {
	f.skipped++
	return true
}

func (f *fakePlayer) Dismiss() {
	f.dismissed++
	f.status.PromptVisible = false
}

type testEnv struct {
	lib       *fakeLibrary
	playlists *fakePlaylists
	player    *fakePlayer
	store     *player.Store
}

func newTestModel() (Model, *testEnv) {
	env := &testEnv{
		lib:       newFakeLibrary(),
		playlists: newFakePlaylists(),
		player:    &fakePlayer{},
		store:     player.NewStore(),
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	m := NewModel(Services{
		Library:      env.lib,
		LibraryCmds:  env.lib,
		Playlists:    env.playlists,
		PlaylistCmds: env.playlists,
		Search:       search.NewService(env.lib, env.playlists, logger),
		Playback:     service.NewPlaybackService(env.store, nil, env.lib, logger),
		Player:       env.player,
		Observer:     NewChannelObserver(4),
		Email:        "fan@example.com",
		Logger:       logger,
	})
	return m, env
}
