package mysound

import (
	"strings"
	"time"

	"github.com/samber/lo"

	"github.com/mmcdole/encore/internal/domain"
)

// checkoutBaseURL is where checkout sessions are paid
const checkoutBaseURL = "https://checkout.stripe.com/pay/"

// resolveAsset turns a bare upload name into an absolute URL
func resolveAsset(assetBase, name string) string {
	if name == "" {
		return ""
	}
	if strings.HasPrefix(name, "http://") || strings.HasPrefix(name, "https://") {
		return name
	}
	return assetBase + "/uploads/songs/" + strings.TrimLeft(name, "/")
}

// MapSong converts a wire song to a domain track
func MapSong(d SongDTO, assetBase string) *domain.Track {
	artist := domain.ArtistRef{ID: string(d.ArtistID), Name: d.ArtistName}
	if d.Artist != nil {
		if artist.ID == "" {
			artist.ID = string(d.Artist.ID)
		}
		if artist.Name == "" {
			artist.Name = d.Artist.Name
		}
	}

	return &domain.Track{
		ID:          string(d.ID),
		Title:       d.Title,
		Artist:      artist,
		AlbumID:     string(d.AlbumID),
		Duration:    time.Duration(float64(d.Duration) * float64(time.Second)),
		MediaURL:    resolveAsset(assetBase, d.File),
		ArtworkURL:  resolveAsset(assetBase, d.CoverImage),
		Liked:       d.IsLiked,
		PlayCount:   d.PlayCount,
		Type:        domain.TrackType(d.Type),
		ReleaseDate: d.ReleaseDate,
		Lyrics:      d.Lyrics,
	}
}

// MapSongs converts a slice of wire songs
func MapSongs(dtos []SongDTO, assetBase string) []*domain.Track {
	return lo.Map(dtos, func(d SongDTO, _ int) *domain.Track {
		return MapSong(d, assetBase)
	})
}

// MapAlbum converts a wire album
func MapAlbum(d AlbumDTO, assetBase string) *domain.Album {
	return &domain.Album{
		ID:          string(d.ID),
		Title:       d.Name,
		Description: d.Description,
		ArtistID:    string(d.ArtistID),
		ArtistName:  d.ArtistName,
		ArtworkURL:  resolveAsset(assetBase, d.Image),
		Price:       float64(d.PriceUSD),
		ReleaseDate: lo.Ternary(d.ReleaseDate != "", d.ReleaseDate, d.CreatedAt),
		TrackCount:  d.SongsCount,
		Purchased:   d.IsPurchased,
	}
}

// MapAlbums converts a slice of wire albums
func MapAlbums(dtos []AlbumDTO, assetBase string) []*domain.Album {
	return lo.Map(dtos, func(d AlbumDTO, _ int) *domain.Album {
		return MapAlbum(d, assetBase)
	})
}

// MapAlbumSongs converts an album-with-songs response. purchased overrides
// the album's own flag when the response carries one.
func MapAlbumSongs(d AlbumSongsDTO, assetBase string) *domain.AlbumTracks {
	album := MapAlbum(d.AlbumDTO, assetBase)
	if d.IsPurchased != nil {
		album.Purchased = *d.IsPurchased
	}
	tracks := MapSongs(d.Songs, assetBase)
	if album.TrackCount == 0 {
		album.TrackCount = len(tracks)
	}
	for _, t := range tracks {
		if t.AlbumID == "" {
			t.AlbumID = album.ID
		}
	}

	return &domain.AlbumTracks{
		Album:     *album,
		Tracks:    tracks,
		Purchased: album.Purchased,
	}
}

// MapArtist converts a wire artist
func MapArtist(d ArtistDTO, assetBase string) *domain.Artist {
	return &domain.Artist{
		ID:        string(d.ID),
		Name:      d.Name,
		Bio:       d.Bio,
		ImageURL:  resolveAsset(assetBase, d.Image),
		Followers: d.FollowersCount,
		Instagram: d.Instagram,
		Facebook:  d.Facebook,
		Twitter:   d.Twitter,
		Link:      d.Link,
	}
}

// MapArtists converts a slice of wire artists
func MapArtists(dtos []ArtistDTO, assetBase string) []*domain.Artist {
	return lo.Map(dtos, func(d ArtistDTO, _ int) *domain.Artist {
		return MapArtist(d, assetBase)
	})
}

// MapPlaylist converts a wire playlist
func MapPlaylist(d PlaylistDTO, kind domain.PlaylistKind, assetBase string) *domain.Playlist {
	p := &domain.Playlist{
		ID:          string(d.ID),
		Title:       d.Name,
		Description: d.Description,
		ImageURL:    resolveAsset(assetBase, d.Image),
		TrackCount:  lo.Ternary(d.SongsCount > 0, d.SongsCount, len(d.Songs)),
		Kind:        kind,
	}
	if d.User != nil {
		p.OwnerName = d.User.Name
	}
	return p
}

// MapPlaylists converts a slice of wire playlists
func MapPlaylists(dtos []PlaylistDTO, kind domain.PlaylistKind, assetBase string) []*domain.Playlist {
	return lo.Map(dtos, func(d PlaylistDTO, _ int) *domain.Playlist {
		return MapPlaylist(d, kind, assetBase)
	})
}

// MapUser converts the authenticated account
func MapUser(d UserDTO) domain.User {
	return domain.User{
		ID:    string(d.ID),
		Name:  d.Name,
		Email: d.Email,
		Type:  d.UserType,
	}
}

// CheckoutURL returns the payment page for a checkout session
func CheckoutURL(sessionID string) string {
	return checkoutBaseURL + sessionID
}
