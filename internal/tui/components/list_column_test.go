package components

import (
	"testing"

	"github.com/mmcdole/encore/internal/domain"
)

func trackItems(titles ...string) []domain.ListItem {
	items := make([]domain.ListItem, len(titles))
	for i, title := range titles {
		items[i] = &domain.Track{ID: title, Title: title}
	}
	return items
}

func newFocusedColumn(items []domain.ListItem) *ListColumn {
	col := NewItemsColumn(ColumnTypeTracks, "Tracks", "", items)
	col.SetSize(60, 20)
	col.SetFocused(true)
	return col
}

func TestListColumnNavigation(t *testing.T) {
	col := newFocusedColumn(trackItems("one", "two", "three"))

	col.Update(runeKey("j"))
	col.Update(runeKey("j"))
	col.Update(runeKey("j"))
	if got := col.SelectedIndex(); got != 2 {
		t.Fatalf("cursor = %d, want 2 (clamped at end)", got)
	}

	col.Update(runeKey("g"))
	if got := col.SelectedIndex(); got != 0 {
		t.Fatalf("cursor after g = %d, want 0", got)
	}
}

func TestListColumnIgnoresKeysWhenUnfocused(t *testing.T) {
	col := newFocusedColumn(trackItems("one", "two"))
	col.SetFocused(false)

	col.Update(runeKey("j"))
	if got := col.SelectedIndex(); got != 0 {
		t.Fatalf("cursor = %d, want 0", got)
	}
}

func TestListColumnFilter(t *testing.T) {
	col := newFocusedColumn(trackItems("Blue Monday", "Red Light", "Blueprint"))

	col.ToggleFilter()
	if !col.IsFilterTyping() {
		t.Fatal("expected filter input to be focused")
	}
	for _, r := range "blue" {
		col.Update(runeKey(string(r)))
	}

	if got := col.ItemCount(); got != 2 {
		t.Fatalf("filtered count = %d, want 2", got)
	}
	for i := 0; i < col.ItemCount(); i++ {
		col.SetSelectedIndex(i)
		if col.SelectedItem().GetID() == "Red Light" {
			t.Fatal("Red Light should be filtered out")
		}
	}

	// Enter accepts the filter and keeps the results
	col.Update(enterKey)
	if col.IsFilterTyping() || !col.IsFiltering() {
		t.Fatal("expected filter to stay active with input blurred")
	}

	col.Update(escKey)
	if col.IsFiltering() || col.ItemCount() != 3 {
		t.Fatalf("esc should clear the filter, count = %d", col.ItemCount())
	}
}

func TestListColumnSetItemsKeepsSelection(t *testing.T) {
	col := newFocusedColumn(trackItems("a", "b", "c"))
	col.SetSelectedIndex(1)

	col.SetItems(trackItems("z", "a", "b", "c"))
	if got := col.SelectedItem().GetID(); got != "b" {
		t.Fatalf("selected = %q, want b", got)
	}

	col.SetItems(trackItems("x", "y"))
	if got := col.SelectedIndex(); got != 0 {
		t.Fatalf("cursor = %d, want 0 when the item is gone", got)
	}
}

func TestListColumnTracks(t *testing.T) {
	album := &domain.Album{ID: "al1", Title: "Album"}
	items := []domain.ListItem{
		album,
		&domain.Track{ID: "t1", Title: "First"},
		&domain.Track{ID: "t2", Title: "Second"},
	}
	col := NewItemsColumn(ColumnTypeMixed, "Artist", "ar1", items)
	col.SetSize(60, 20)
	col.SetSelectedIndex(2)

	tracks, index := col.Tracks()
	if len(tracks) != 2 {
		t.Fatalf("len(tracks) = %d, want 2", len(tracks))
	}
	if index != 1 || tracks[index].ID != "t2" {
		t.Fatalf("index = %d, want 1 pointing at t2", index)
	}
	if col.SelectedAlbum() != nil {
		t.Fatal("SelectedAlbum should be nil on a track row")
	}

	col.SetSelectedIndex(0)
	if col.SelectedAlbum() != album {
		t.Fatal("SelectedAlbum should return the album row")
	}
}

func TestColumnTypePlaysTracks(t *testing.T) {
	tests := []struct {
		colType ColumnType
		want    bool
	}{
		{ColumnTypeAlbums, false},
		{ColumnTypeAlbumTracks, true},
		{ColumnTypeArtists, false},
		{ColumnTypeMixed, true},
		{ColumnTypeTracks, true},
		{ColumnTypePlaylists, false},
		{ColumnTypePlaylistTracks, true},
	}
	for _, tt := range tests {
		if got := tt.colType.PlaysTracks(); got != tt.want {
			t.Errorf("ColumnType(%d).PlaysTracks() = %v, want %v", tt.colType, got, tt.want)
		}
	}
}
