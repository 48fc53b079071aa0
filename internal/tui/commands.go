package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mmcdole/encore/internal/domain"
	"github.com/mmcdole/encore/internal/service"
	"github.com/mmcdole/encore/internal/tui/components"
)

// Timeouts for async operations
const (
	fetchTimeout  = 30 * time.Second
	actionTimeout = 10 * time.Second
)

// Command factories for async operations

// LoadSectionCmd fetches the listing behind a sidebar section
func LoadSectionCmd(lib domain.LibraryCommands, pl domain.PlaylistCommands, sec components.Section, force bool) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()

		items, err := fetchSection(ctx, lib, pl, sec, force)
		if err != nil {
			return SectionErrMsg{Section: sec, Err: err}
		}
		return SectionLoadedMsg{Section: sec, Items: items}
	}
}

func fetchSection(ctx context.Context, lib domain.LibraryCommands, pl domain.PlaylistCommands, sec components.Section, force bool) ([]domain.ListItem, error) {
	switch sec.Kind {
	case components.SectionHome:
		d, err := lib.FetchDashboard(ctx)
		if err != nil {
			return nil, err
		}
		return dashboardItems(d), nil
	case components.SectionAlbums:
		albums, err := lib.FetchAlbums(ctx, sec.AlbumSection)
		return listItems(albums), err
	case components.SectionArtists:
		artists, err := lib.FetchArtists(ctx)
		return listItems(artists), err
	case components.SectionCharts:
		tracks, err := lib.FetchCharts(ctx)
		return listItems(tracks), err
	case components.SectionLiked:
		tracks, err := lib.FetchLikedTracks(ctx)
		return listItems(tracks), err
	case components.SectionPlaylists:
		if force {
			playlists, err := pl.FetchPlaylists(ctx, sec.PlaylistKind)
			return listItems(playlists), err
		}
		playlists, err := pl.LoadPlaylists(ctx, sec.PlaylistKind)
		return listItems(playlists), err
	}
	return nil, nil
}

// LoadAlbumTracksCmd fetches an album with its tracks
func LoadAlbumTracksCmd(lib domain.LibraryCommands, albumID string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()

		album, err := lib.FetchAlbumTracks(ctx, albumID)
		if err != nil {
			return ErrMsg{Err: err, Context: "loading album"}
		}
		return AlbumTracksLoadedMsg{AlbumID: albumID, Album: album}
	}
}

// LoadArtistDetailCmd fetches an artist's albums and tracks
func LoadArtistDetailCmd(lib domain.LibraryCommands, artistID string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()

		albums, err := lib.FetchArtistAlbums(ctx, artistID)
		if err != nil {
			return ErrMsg{Err: err, Context: "loading artist albums"}
		}
		tracks, err := lib.FetchArtistTracks(ctx, artistID)
		if err != nil {
			return ErrMsg{Err: err, Context: "loading artist tracks"}
		}
		return ArtistDetailLoadedMsg{ArtistID: artistID, Albums: albums, Tracks: tracks}
	}
}

// LoadPlaylistTracksCmd fetches a playlist's tracks
func LoadPlaylistTracksCmd(pl domain.PlaylistCommands, playlistID string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()

		tracks, err := pl.FetchPlaylistTracks(ctx, playlistID)
		if err != nil {
			return ErrMsg{Err: err, Context: "loading playlist"}
		}
		return PlaylistTracksLoadedMsg{PlaylistID: playlistID, Tracks: tracks}
	}
}

// LoadPlaylistMembershipCmd loads personal playlists and which of them hold track
func LoadPlaylistMembershipCmd(pl domain.PlaylistCommands, track *domain.Track) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()

		playlists, err := pl.LoadPlaylists(ctx, domain.PlaylistKindPersonal)
		if err != nil {
			return ErrMsg{Err: err, Context: "loading playlists"}
		}
		membership, err := pl.GetPlaylistMembership(ctx, track.ID)
		if err != nil {
			return ErrMsg{Err: err, Context: "checking playlists"}
		}
		return PlaylistMembershipMsg{Track: track, Playlists: playlists, Membership: membership}
	}
}

// CreatePlaylistCmd creates a personal playlist, optionally adding a track to it
func CreatePlaylistCmd(pl domain.PlaylistCommands, title string, addTrack *domain.Track) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), actionTimeout)
		defer cancel()

		playlist, err := pl.CreatePlaylist(ctx, title, "")
		if err != nil {
			return ErrMsg{Err: err, Context: "creating playlist"}
		}
		return PlaylistCreatedMsg{Playlist: playlist, AddTrack: addTrack}
	}
}

// AddToPlaylistsCmd adds a track to each playlist in order
func AddToPlaylistsCmd(pl domain.PlaylistCommands, track *domain.Track, playlistIDs []string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), actionTimeout)
		defer cancel()

		for _, id := range playlistIDs {
			if err := pl.AddToPlaylist(ctx, id, []string{track.ID}); err != nil {
				return ErrMsg{Err: err, Context: "adding to playlist"}
			}
		}
		return AddedToPlaylistsMsg{Track: track, Count: len(playlistIDs)}
	}
}

// DeletePlaylistCmd deletes a personal playlist
func DeletePlaylistCmd(pl domain.PlaylistCommands, playlist *domain.Playlist) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), actionTimeout)
		defer cancel()

		if err := pl.DeletePlaylist(ctx, playlist.ID); err != nil {
			return ErrMsg{Err: err, Context: "deleting playlist"}
		}
		return PlaylistDeletedMsg{PlaylistID: playlist.ID, Title: playlist.Title}
	}
}

// LikeCmd toggles the like on a track
func LikeCmd(svc *service.LikeService, trackID string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), actionTimeout)
		defer cancel()

		if err := svc.Like(ctx, trackID); err != nil {
			return ErrMsg{Err: err, Context: "liking track"}
		}
		return LikeToggledMsg{TrackID: trackID}
	}
}

// ToggleFollowCmd follows or unfollows an artist
func ToggleFollowCmd(lib domain.LibraryCommands, artist *domain.Artist) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), actionTimeout)
		defer cancel()

		following, err := lib.ToggleFollow(ctx, artist.ID)
		if err != nil {
			return ErrMsg{Err: err, Context: "following artist"}
		}
		return FollowToggledMsg{Artist: artist, Following: following}
	}
}

// LoadPurchaseAlbumCmd resolves album metadata for the purchase modal
func LoadPurchaseAlbumCmd(lib domain.LibraryCommands, albumID, reason string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()

		album, err := lib.FetchAlbumTracks(ctx, albumID)
		if err != nil {
			return ErrMsg{Err: err, Context: "loading album"}
		}
		a := album.Album
		a.Purchased = album.Purchased
		return PurchaseAlbumMsg{Album: &a, Reason: reason}
	}
}

// CheckoutCmd starts a purchase
func CheckoutCmd(lib domain.LibraryCommands, album *domain.Album, email string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()

		checkout, err := lib.Purchase(ctx, album, email)
		if err != nil {
			return CheckoutFailedMsg{Err: err}
		}
		return CheckoutCreatedMsg{Checkout: checkout}
	}
}

// LogoutCmd clears credentials and cached data
func LogoutCmd(svc *service.SessionService) tea.Cmd {
	return func() tea.Msg {
		if err := svc.Logout(); err != nil {
			return ErrMsg{Err: err, Context: "logging out"}
		}
		return LogoutCompleteMsg{}
	}
}

// TickCmd returns a command that sends a tick after a delay
func TickCmd(delay time.Duration) tea.Cmd {
	return tea.Tick(delay, func(t time.Time) tea.Msg {
		return TickMsg{}
	})
}

// ClearStatusCmd returns a command that clears status after a delay
func ClearStatusCmd(delay time.Duration) tea.Cmd {
	return tea.Tick(delay, func(t time.Time) tea.Msg {
		return ClearStatusMsg{}
	})
}
