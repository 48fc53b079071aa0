package tui

import (
	"strings"
	"testing"

	"github.com/mmcdole/encore/internal/domain"
	"github.com/mmcdole/encore/internal/tui/components"
)

func TestColumnStackPushPop(t *testing.T) {
	cs := NewColumnStack()
	root := components.NewItemsColumn(components.ColumnTypeAlbums, "Albums", "albums:top", []domain.ListItem{
		&domain.Album{ID: "a"}, &domain.Album{ID: "b"},
	})
	cs.Reset(root)

	child := components.NewItemsColumn(components.ColumnTypeAlbumTracks, "B", "b", nil)
	cs.Push(child, 1)

	if cs.Len() != 2 || cs.Top() != child || cs.Parent() != root {
		t.Fatal("push should put the child on top of root")
	}
	if root.IsFocused() || !child.IsFocused() {
		t.Fatal("focus should move to the pushed column")
	}

	popped, cursor := cs.Pop()
	if popped != child || cursor != 1 {
		t.Fatalf("Pop() = (%v, %d), want child and cursor 1", popped, cursor)
	}
	if !root.IsFocused() {
		t.Fatal("root should regain focus")
	}

	if popped, _ := cs.Pop(); popped != nil {
		t.Fatal("root column must not be popped")
	}
}

func TestColumnStackFind(t *testing.T) {
	cs := NewColumnStack()
	cs.Reset(components.NewItemsColumn(components.ColumnTypeMixed, "Home", "Home", nil))
	album := components.NewItemsColumn(components.ColumnTypeAlbumTracks, "Record", "al1", nil)
	cs.Push(album, 0)

	if got := cs.Find(components.ColumnTypeAlbumTracks, "al1"); got != album {
		t.Fatal("Find should locate the album column")
	}
	if got := cs.Find(components.ColumnTypePlaylistTracks, "al1"); got != nil {
		t.Fatal("Find must match the column type")
	}
}

func TestColumnStackSetNowPlaying(t *testing.T) {
	cs := NewColumnStack()
	track := &domain.Track{ID: "t1", Title: "Song"}
	col := components.NewItemsColumn(components.ColumnTypeTracks, "Charts", "Charts", []domain.ListItem{track})
	col.SetSize(40, 10)
	cs.Reset(col)

	cs.SetNowPlaying("t1", true)
	if view := col.View(); !strings.Contains(view, "▶") {
		t.Fatalf("view should mark the playing track: %q", view)
	}
}
