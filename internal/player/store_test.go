package player

import (
	"testing"

	"github.com/mmcdole/encore/internal/domain"
)

func TestStoreNotifiesObserversInOrder(t *testing.T) {
	store := NewStore()

	var calls []string
	store.Subscribe(func(c Change, st State) {
		calls = append(calls, "first")
		if !c.Has(ChangeTrack) {
			t.Errorf("change = %b, want track bit", c)
		}
		if st.CurrentTrack == nil || st.CurrentTrack.ID != "a" {
			t.Errorf("observer saw track %v before the write", st.CurrentTrack)
		}
	})
	store.Subscribe(func(Change, State) { calls = append(calls, "second") })

	store.SetCurrentSong(trackA)

	if len(calls) != 2 || calls[0] != "first" || calls[1] != "second" {
		t.Errorf("calls = %v, want [first second]", calls)
	}
}

func TestStoreUpdateNotifiesOnce(t *testing.T) {
	store := NewStore()

	var changes []Change
	store.Subscribe(func(c Change, _ State) { changes = append(changes, c) })

	store.Update(func(b *Batch) {
		b.SetPlaylist([]domain.Track{trackA, trackB})
		b.SetCurrentIndex(1)
		b.SetAlbumPurchaseStatus(true)
		b.SetCurrentSong(trackB)
		b.SetIsPlaying(true)
	})

	if len(changes) != 1 {
		t.Fatalf("notifications = %d, want 1", len(changes))
	}
	want := ChangeTrack | ChangeQueue | ChangeIndex | ChangePlaying | ChangeEntitlement
	if changes[0] != want {
		t.Errorf("change = %b, want %b", changes[0], want)
	}

	st := store.Snapshot()
	if st.CurrentTrack.ID != "b" || st.Index != 1 || !st.Entitled || !st.IsPlaying || len(st.Queue) != 2 {
		t.Errorf("snapshot = %+v", st)
	}
}

func TestStoreEmptyUpdateIsSilent(t *testing.T) {
	store := NewStore()
	called := false
	store.Subscribe(func(Change, State) { called = true })

	store.Update(func(*Batch) {})

	if called {
		t.Error("observer called for an empty update")
	}
}

func TestStoreSameTrackIsStillAChange(t *testing.T) {
	store := NewStore()

	store.SetCurrentSong(trackA)
	first := store.Snapshot().TrackGeneration
	store.SetCurrentSong(trackA)
	second := store.Snapshot().TrackGeneration

	if second != first+1 {
		t.Errorf("generation = %d after %d, want increment", second, first)
	}
}

func TestStoreUnsubscribe(t *testing.T) {
	store := NewStore()

	count := 0
	unsubscribe := store.Subscribe(func(Change, State) { count++ })
	store.SetIsPlaying(true)
	unsubscribe()
	store.SetIsPlaying(false)

	if count != 1 {
		t.Errorf("count = %d, want 1", count)
	}
}

func TestStoreSnapshotIsCopy(t *testing.T) {
	store := NewStore()
	store.SetPlaylist([]domain.Track{trackA, trackB})
	store.SetCurrentSong(trackA)

	st := store.Snapshot()
	st.Queue[0].Title = "changed"
	st.CurrentTrack.Title = "changed"

	again := store.Snapshot()
	if again.Queue[0].Title != trackA.Title {
		t.Error("queue mutation leaked into the store")
	}
	if again.CurrentTrack.Title != trackA.Title {
		t.Error("track mutation leaked into the store")
	}
}

func TestStoreObserverCanWrite(t *testing.T) {
	store := NewStore()

	store.Subscribe(func(c Change, st State) {
		if c.Has(ChangeTrack) {
			store.SetIsPlaying(true)
		}
	})
	store.SetCurrentSong(trackA)

	if !store.IsPlaying() {
		t.Error("write from observer was lost")
	}
}

func TestClampedIndex(t *testing.T) {
	tests := []struct {
		name  string
		queue []domain.Track
		index int
		want  int
	}{
		{"empty queue", nil, 3, 0},
		{"in range", []domain.Track{trackA, trackB}, 1, 1},
		{"negative", []domain.Track{trackA, trackB}, -1, 0},
		{"past end", []domain.Track{trackA, trackB}, 5, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := State{Queue: tt.queue, Index: tt.index}
			if got := st.ClampedIndex(); got != tt.want {
				t.Errorf("ClampedIndex() = %d, want %d", got, tt.want)
			}
		})
	}
}
