package domain

import (
	"fmt"
	"time"
)

// TrackType distinguishes full-length uploads from server-side preview cuts
type TrackType string

const (
	TrackTypeFull    TrackType = "full"
	TrackTypePreview TrackType = "preview"
)

// ArtistRef is the artist reference embedded in a track
type ArtistRef struct {
	ID   string
	Name string
}

// Track represents a playable song
type Track struct {
	ID          string        // Server-specific unique identifier
	Title       string        // Display title
	Artist      ArtistRef     // Performing artist
	AlbumID     string        // Parent album (empty for singles)
	Duration    time.Duration // Runtime reported by the catalog
	MediaURL    string        // Playable media locator
	ArtworkURL  string        // Cover image URL
	Liked       bool          // Whether the listener liked this track
	PlayCount   int           // Server-side play counter
	Type        TrackType     // "full" or "preview"
	ReleaseDate string        // As reported by the server (YYYY-MM-DD)
	Lyrics      string
}

// FormattedDuration returns the duration as m:ss
func (t Track) FormattedDuration() string {
	return FormatClock(t.Duration)
}

// IsFull reports whether the track is a full-length upload.
// Tracks without a type are treated as full.
func (t Track) IsFull() bool {
	return t.Type == "" || t.Type == TrackTypeFull
}

// ListItem interface implementation for Track

func (t *Track) GetID() string        { return t.ID }
func (t *Track) GetTitle() string     { return t.Title }
func (t *Track) GetSortTitle() string { return t.Title }
func (t *Track) GetItemType() string  { return "track" }
func (t *Track) CanDrillDown() bool   { return false }

func (t *Track) GetDescription() string {
	if t.Artist.Name == "" {
		return t.FormattedDuration()
	}
	return fmt.Sprintf("%s · %s", t.Artist.Name, t.FormattedDuration())
}

// Album represents an album release
type Album struct {
	ID          string
	Title       string
	Description string
	ArtistID    string
	ArtistName  string
	ArtworkURL  string
	Price       float64 // Purchase price in the store currency
	ReleaseDate string
	TrackCount  int
	Purchased   bool // Whether the current listener owns the album
}

// ListItem interface implementation for Album

func (a *Album) GetID() string        { return a.ID }
func (a *Album) GetTitle() string     { return a.Title }
func (a *Album) GetSortTitle() string { return a.Title }
func (a *Album) GetItemType() string  { return "album" }
func (a *Album) CanDrillDown() bool   { return true }

func (a *Album) GetDescription() string {
	if a.ArtistName != "" {
		return a.ArtistName
	}
	if a.TrackCount == 1 {
		return "1 track"
	}
	return fmt.Sprintf("%d tracks", a.TrackCount)
}

// AlbumTracks is an album together with its playable tracks and the
// listener's entitlement to it
type AlbumTracks struct {
	Album     Album
	Tracks    []*Track
	Purchased bool
}

// FullTracks returns only full-length tracks, in album order
func (a AlbumTracks) FullTracks() []*Track {
	full := make([]*Track, 0, len(a.Tracks))
	for _, t := range a.Tracks {
		if t.IsFull() {
			full = append(full, t)
		}
	}
	return full
}

// AlbumSection selects one of the server's album listings
type AlbumSection string

const (
	AlbumSectionAll      AlbumSection = "all"
	AlbumSectionNew      AlbumSection = "new"
	AlbumSectionTop      AlbumSection = "top"
	AlbumSectionTrending AlbumSection = "trending"
)

// Artist represents a performing artist
type Artist struct {
	ID        string
	Name      string
	Bio       string
	ImageURL  string
	Followers int
	Instagram string
	Facebook  string
	Twitter   string
	Link      string
}

// ListItem interface implementation for Artist

func (a *Artist) GetID() string        { return a.ID }
func (a *Artist) GetTitle() string     { return a.Name }
func (a *Artist) GetSortTitle() string { return a.Name }
func (a *Artist) GetItemType() string  { return "artist" }
func (a *Artist) CanDrillDown() bool   { return true }

func (a *Artist) GetDescription() string {
	if a.Followers == 1 {
		return "1 follower"
	}
	return fmt.Sprintf("%d followers", a.Followers)
}

// PlaylistKind selects a playlist listing
type PlaylistKind string

const (
	PlaylistKindPersonal  PlaylistKind = "personal"
	PlaylistKindCommunity PlaylistKind = "community"
	PlaylistKindPopular   PlaylistKind = "popular"
)

// Playlist represents a user or community playlist
type Playlist struct {
	ID          string
	Title       string
	Description string
	ImageURL    string
	TrackCount  int
	OwnerName   string
	Kind        PlaylistKind
}

// ListItem interface implementation for Playlist

func (p *Playlist) GetID() string        { return p.ID }
func (p *Playlist) GetTitle() string     { return p.Title }
func (p *Playlist) GetSortTitle() string { return p.Title }
func (p *Playlist) GetItemType() string  { return "playlist" }
func (p *Playlist) CanDrillDown() bool   { return true }

func (p *Playlist) GetDescription() string {
	if p.TrackCount == 1 {
		return "1 track"
	}
	return fmt.Sprintf("%d tracks", p.TrackCount)
}

// User is the authenticated listener
type User struct {
	ID    string
	Name  string
	Email string
	Type  string // "user" or "artist"
}

// CheckoutRequest describes an album purchase to start
type CheckoutRequest struct {
	AlbumID       string
	ArtistID      string
	Amount        float64
	Email         string
	TransactionID string // Client-generated idempotency key
}

// Checkout is a pending purchase created by the server
type Checkout struct {
	AlbumID   string
	SessionID string
	URL       string
}

// Dashboard bundles the home screen sections
type Dashboard struct {
	TopAlbums       []*Album
	TrendingArtists []*Artist
	Charts          []*Track
	RecentlyPlayed  []*Track
}

// FormatClock formats a duration as m:ss, truncating sub-second precision
func FormatClock(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	secs := int(d / time.Second)
	return fmt.Sprintf("%d:%02d", secs/60, secs%60)
}
