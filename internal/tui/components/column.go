package components

// ColumnType identifies the type of content in a column
type ColumnType int

const (
	ColumnTypeAlbums ColumnType = iota
	ColumnTypeAlbumTracks
	ColumnTypeArtists
	ColumnTypeMixed // Mixed content (dashboard, artist albums + tracks)
	ColumnTypeTracks
	ColumnTypePlaylists
	ColumnTypePlaylistTracks
	ColumnTypeEmpty
)

// PlaysTracks reports whether enter on a track in this column starts playback
func (t ColumnType) PlaysTracks() bool {
	switch t {
	case ColumnTypeAlbumTracks, ColumnTypeMixed, ColumnTypeTracks, ColumnTypePlaylistTracks:
		return true
	}
	return false
}
