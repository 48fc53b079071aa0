package domain

import "time"

// Store handles the local catalog cache (BoltDB + memory).
// TUI reads directly from Store for cache access.
type Store interface {
	// === Albums ===
	GetAlbums(section AlbumSection) ([]*Album, bool)
	SaveAlbums(section AlbumSection, albums []*Album) error

	GetAlbumTracks(albumID string) (*AlbumTracks, bool)
	SaveAlbumTracks(albumID string, album *AlbumTracks) error

	// === Artists ===
	GetArtists() ([]*Artist, bool)
	SaveArtists(artists []*Artist) error

	GetArtistTracks(artistID string) ([]*Track, bool)
	SaveArtistTracks(artistID string, tracks []*Track) error

	GetArtistAlbums(artistID string) ([]*Album, bool)
	SaveArtistAlbums(artistID string, albums []*Album) error

	// === Charts ===
	GetCharts() ([]*Track, bool)
	SaveCharts(tracks []*Track) error

	GetLikedTracks() ([]*Track, bool)
	SaveLikedTracks(tracks []*Track) error
	InvalidateLikedTracks()

	// === Playlists ===
	GetPlaylists(kind PlaylistKind) ([]*Playlist, bool)
	SavePlaylists(kind PlaylistKind, playlists []*Playlist) error
	PlaylistsSavedAt(kind PlaylistKind) (time.Time, bool)

	GetPlaylistTracks(playlistID string) ([]*Track, bool)
	SavePlaylistTracks(playlistID string, tracks []*Track) error

	// === Invalidation ===
	InvalidateAlbum(albumID string)
	InvalidateArtist(artistID string)
	InvalidatePlaylists()
	InvalidatePlaylistTracks(playlistID string)
	InvalidateAll()

	Close() error
}
