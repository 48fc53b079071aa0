package domain

// ListItem is the polymorphic interface for items that can be displayed in lists.
// Domain entities (Album, Artist, Track, Playlist) implement this interface directly.
type ListItem interface {
	// GetID returns the unique identifier for this item
	GetID() string

	// GetTitle returns the display title
	GetTitle() string

	// GetSortTitle returns the title used for alphabetical sorting
	GetSortTitle() string

	// GetDescription returns secondary info for display (e.g., artist name, "12 tracks")
	GetDescription() string

	// GetItemType returns the type identifier: "album", "artist", "track", "playlist"
	GetItemType() string

	// CanDrillDown returns true if this item can be drilled into (shows child content)
	CanDrillDown() bool
}
