package domain

import "context"

// PlaylistQueries: Synchronous, cache-only reads.
type PlaylistQueries interface {
	GetCachedPlaylists(kind PlaylistKind) ([]*Playlist, bool)
	GetCachedPlaylistTracks(playlistID string) ([]*Track, bool)
}

// PlaylistCommands: Asynchronous operations (includes CRUD).
type PlaylistCommands interface {
	// LoadPlaylists returns cached playlists while they are fresh, fetching otherwise
	LoadPlaylists(ctx context.Context, kind PlaylistKind) ([]*Playlist, error)

	// Force fetch
	FetchPlaylists(ctx context.Context, kind PlaylistKind) ([]*Playlist, error)
	FetchPlaylistTracks(ctx context.Context, playlistID string) ([]*Track, error)

	// CRUD (each invalidates cache after success)
	CreatePlaylist(ctx context.Context, title, description string) (*Playlist, error)
	AddToPlaylist(ctx context.Context, playlistID string, trackIDs []string) error
	DeletePlaylist(ctx context.Context, playlistID string) error

	// GetPlaylistMembership reports which personal playlists already hold a track
	GetPlaylistMembership(ctx context.Context, trackID string) (map[string]bool, error)

	// Cache invalidation
	InvalidatePlaylists()
	InvalidatePlaylistTracks(playlistID string)
}
