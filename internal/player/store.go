package player

import (
	"slices"
	"sync"

	"github.com/mmcdole/encore/internal/domain"
)

// Change is a bitmask naming the store fields written by a mutation
type Change uint8

const (
	ChangeTrack Change = 1 << iota
	ChangeQueue
	ChangeIndex
	ChangePlaying
	ChangeEntitlement
)

// Has reports whether every field in f was written
func (c Change) Has(f Change) bool {
	return c&f == f
}

// State is a point-in-time copy of the player store
type State struct {
	CurrentTrack *domain.Track // nil until a screen selects a track
	Queue        []domain.Track
	Index        int
	IsPlaying    bool // UI-facing play intent, reconciled by the engine
	Entitled     bool // Entitlement for the session about to start

	// TrackGeneration increments on every SetCurrentSong, so re-selecting the
	// same track still counts as a track change.
	TrackGeneration uint64

	fromEngine bool // set on notifications caused by the engine mirroring its play state
}

// ClampedIndex returns Index clamped to the queue bounds (0 for an empty queue)
func (s State) ClampedIndex() int {
	if len(s.Queue) == 0 {
		return 0
	}
	return min(max(s.Index, 0), len(s.Queue)-1)
}

// Observer receives the fields written and the state after the write
type Observer func(change Change, state State)

type subscription struct {
	id int
	fn Observer
}

// Store is the shared source of truth for what should be playing.
// Writes are last-write-wins and immediately visible to readers. Observers run
// synchronously on the writer's goroutine, after the store lock is released,
// in registration order.
type Store struct {
	mu     sync.RWMutex
	state  State
	subs   []subscription
	nextID int
}

// NewStore creates an empty player store
func NewStore() *Store {
	return &Store{}
}

// Batch collects writes that are applied and announced as one mutation
type Batch struct {
	change   Change
	track    domain.Track
	queue    []domain.Track
	index    int
	playing  bool
	entitled bool
	engine   bool
}

// SetCurrentSong replaces the active track
func (b *Batch) SetCurrentSong(track domain.Track) {
	b.track = track
	b.change |= ChangeTrack
}

// SetPlaylist replaces the queue used for next/previous navigation
func (b *Batch) SetPlaylist(tracks []domain.Track) {
	b.queue = slices.Clone(tracks)
	b.change |= ChangeQueue
}

// SetCurrentIndex sets the queue cursor
func (b *Batch) SetCurrentIndex(index int) {
	b.index = index
	b.change |= ChangeIndex
}

// SetIsPlaying sets the UI play/pause intent
func (b *Batch) SetIsPlaying(playing bool) {
	b.playing = playing
	b.change |= ChangePlaying
}

// SetAlbumPurchaseStatus sets the entitlement for the session about to start
func (b *Batch) SetAlbumPurchaseStatus(entitled bool) {
	b.entitled = entitled
	b.change |= ChangeEntitlement
}

// Update applies every write made by fn as a single mutation with one notification
func (s *Store) Update(fn func(b *Batch)) {
	var b Batch
	fn(&b)
	s.apply(&b)
}

// SetCurrentSong replaces the active track. The queue and index are untouched.
func (s *Store) SetCurrentSong(track domain.Track) {
	s.Update(func(b *Batch) { b.SetCurrentSong(track) })
}

// SetPlaylist replaces the ordered sequence of tracks
func (s *Store) SetPlaylist(tracks []domain.Track) {
	s.Update(func(b *Batch) { b.SetPlaylist(tracks) })
}

// SetCurrentIndex sets the cursor used by skip-forward/back
func (s *Store) SetCurrentIndex(index int) {
	s.Update(func(b *Batch) { b.SetCurrentIndex(index) })
}

// SetIsPlaying sets the UI-facing play/pause intent
func (s *Store) SetIsPlaying(playing bool) {
	s.Update(func(b *Batch) { b.SetIsPlaying(playing) })
}

// SetAlbumPurchaseStatus sets entitlement for the session about to start
func (s *Store) SetAlbumPurchaseStatus(entitled bool) {
	s.Update(func(b *Batch) { b.SetAlbumPurchaseStatus(entitled) })
}

func (s *Store) apply(b *Batch) {
	if b.change == 0 {
		return
	}

	s.mu.Lock()
	if b.change.Has(ChangeQueue) {
		s.state.Queue = b.queue
	}
	if b.change.Has(ChangeIndex) {
		s.state.Index = b.index
	}
	if b.change.Has(ChangePlaying) {
		s.state.IsPlaying = b.playing
	}
	if b.change.Has(ChangeEntitlement) {
		s.state.Entitled = b.entitled
	}
	if b.change.Has(ChangeTrack) {
		track := b.track
		s.state.CurrentTrack = &track
		s.state.TrackGeneration++
	}
	snapshot := s.snapshotLocked()
	snapshot.fromEngine = b.engine
	subs := slices.Clone(s.subs)
	s.mu.Unlock()

	for _, sub := range subs {
		sub.fn(b.change, snapshot)
	}
}

// Snapshot returns a copy of the current state
func (s *Store) Snapshot() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

func (s *Store) snapshotLocked() State {
	st := s.state
	st.Queue = slices.Clone(s.state.Queue)
	if s.state.CurrentTrack != nil {
		track := *s.state.CurrentTrack
		st.CurrentTrack = &track
	}
	return st
}

// CurrentTrack returns the active track, if any
func (s *Store) CurrentTrack() (domain.Track, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.state.CurrentTrack == nil {
		return domain.Track{}, false
	}
	return *s.state.CurrentTrack, true
}

// IsPlaying returns the UI play intent
func (s *Store) IsPlaying() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.IsPlaying
}

// Entitled returns the entitlement flag for the next session
func (s *Store) Entitled() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Entitled
}

// Subscribe registers an observer and returns a function that removes it
func (s *Store) Subscribe(fn Observer) func() {
	s.mu.Lock()
	s.nextID++
	id := s.nextID
	s.subs = append(s.subs, subscription{id: id, fn: fn})
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.subs = slices.DeleteFunc(s.subs, func(sub subscription) bool { return sub.id == id })
	}
}
