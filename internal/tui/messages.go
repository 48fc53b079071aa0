package tui

import (
	"github.com/mmcdole/encore/internal/domain"
	"github.com/mmcdole/encore/internal/player"
	"github.com/mmcdole/encore/internal/tui/components"
)

// Message types for the TUI

// ErrMsg represents an error
type ErrMsg struct {
	Err     error
	Context string
}

// Error implements the error interface
func (e ErrMsg) Error() string {
	if e.Context != "" {
		return e.Context + ": " + e.Err.Error()
	}
	return e.Err.Error()
}

// SectionErrMsg reports a failed section load so its spinner can stop
type SectionErrMsg struct {
	Section components.Section
	Err     error
}

// SectionLoadedMsg carries the listing behind a sidebar section
type SectionLoadedMsg struct {
	Section components.Section
	Items   []domain.ListItem
}

// AlbumTracksLoadedMsg carries an album with its tracks
type AlbumTracksLoadedMsg struct {
	AlbumID string
	Album   *domain.AlbumTracks
}

// ArtistDetailLoadedMsg carries an artist's albums and tracks
type ArtistDetailLoadedMsg struct {
	ArtistID string
	Albums   []*domain.Album
	Tracks   []*domain.Track
}

// PlaylistTracksLoadedMsg carries a playlist's tracks
type PlaylistTracksLoadedMsg struct {
	PlaylistID string
	Tracks     []*domain.Track
}

// PlaylistMembershipMsg opens the playlist modal for a track
type PlaylistMembershipMsg struct {
	Track      *domain.Track
	Playlists  []*domain.Playlist
	Membership map[string]bool
}

// PlaylistCreatedMsg signals a new playlist; AddTrack is added to it when set
type PlaylistCreatedMsg struct {
	Playlist *domain.Playlist
	AddTrack *domain.Track
}

// AddedToPlaylistsMsg signals a track was added to playlists
type AddedToPlaylistsMsg struct {
	Track *domain.Track
	Count int
}

// PlaylistDeletedMsg signals a playlist was deleted
type PlaylistDeletedMsg struct {
	PlaylistID string
	Title      string
}

// LikeToggledMsg signals the server flipped a track's like
type LikeToggledMsg struct {
	TrackID string
}

// FollowToggledMsg signals a follow state change
type FollowToggledMsg struct {
	Artist    *domain.Artist
	Following bool
}

// PurchaseAlbumMsg opens the purchase modal
type PurchaseAlbumMsg struct {
	Album  *domain.Album
	Reason string
}

// CheckoutCreatedMsg carries a pending checkout
type CheckoutCreatedMsg struct {
	Checkout *domain.Checkout
}

// CheckoutFailedMsg reports a failed checkout request
type CheckoutFailedMsg struct {
	Err error
}

// PlayerStatusMsg carries an engine snapshot
type PlayerStatusMsg struct {
	Status player.Status
}

// LogoutCompleteMsg signals credentials and cache were cleared
type LogoutCompleteMsg struct{}

// TickMsg is a general tick message for animations
type TickMsg struct{}

// ClearStatusMsg clears the status bar message
type ClearStatusMsg struct{}

// StatusMsg sets a temporary status message
type StatusMsg struct {
	Message string
	IsError bool
}
