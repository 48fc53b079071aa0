package domain

import (
	"context"
)

// AlbumRepository provides access to albums and purchases
type AlbumRepository interface {
	// GetAlbums returns one of the server's album listings
	GetAlbums(ctx context.Context, section AlbumSection) ([]*Album, error)

	// GetAlbum returns album metadata
	GetAlbum(ctx context.Context, albumID string) (*Album, error)

	// GetAlbumTracks returns the album, its tracks and whether the listener owns it
	GetAlbumTracks(ctx context.Context, albumID string) (*AlbumTracks, error)

	// GetArtistAlbums returns all albums released by an artist
	GetArtistAlbums(ctx context.Context, artistID string) ([]*Album, error)

	// CreateCheckout starts a purchase and returns the checkout session
	CreateCheckout(ctx context.Context, req CheckoutRequest) (*Checkout, error)
}

// ArtistRepository provides access to artists and follow state
type ArtistRepository interface {
	GetArtists(ctx context.Context) ([]*Artist, error)
	GetTrendingArtists(ctx context.Context) ([]*Artist, error)
	GetArtistTracks(ctx context.Context, artistID string) ([]*Track, error)

	FollowArtist(ctx context.Context, artistID string) error
	UnfollowArtist(ctx context.Context, artistID string) error
	IsFollowing(ctx context.Context, artistID string) (bool, error)
}

// TrackRepository provides access to charts, likes and listening history
type TrackRepository interface {
	GetCharts(ctx context.Context) ([]*Track, error)
	GetRecentlyPlayed(ctx context.Context, limit int) ([]*Track, error)
	GetLikedTracks(ctx context.Context) ([]*Track, error)
}

// LibraryRepository is the catalog side of the backend
type LibraryRepository interface {
	AlbumRepository
	ArtistRepository
	TrackRepository
}

// PlaylistRepository provides access to playlist management operations
type PlaylistRepository interface {
	// GetPlaylists returns playlists of the given kind
	GetPlaylists(ctx context.Context, kind PlaylistKind) ([]*Playlist, error)

	// GetPlaylistTracks returns all tracks in a playlist
	GetPlaylistTracks(ctx context.Context, playlistID string) ([]*Track, error)

	// CreatePlaylist creates a new personal playlist
	CreatePlaylist(ctx context.Context, title, description string) (*Playlist, error)

	// AddToPlaylist adds tracks to an existing playlist
	AddToPlaylist(ctx context.Context, playlistID string, trackIDs []string) error

	// DeletePlaylist deletes a playlist
	DeletePlaylist(ctx context.Context, playlistID string) error
}

// AuthResult contains the result of a successful authentication
type AuthResult struct {
	Token string // Bearer token for API calls
	User  User
}

// AuthFlow defines the interactive login flow against the streaming backend.
type AuthFlow interface {
	// Run prompts for credentials and returns the issued token.
	Run(ctx context.Context, serverURL string) (*AuthResult, error)
}
