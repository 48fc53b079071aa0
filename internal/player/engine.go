// Package player implements in-process audio playback: the shared player
// store, the engine that owns the live decode handle, and the preview gate.
package player

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"github.com/mmcdole/encore/internal/domain"
)

// PlaybackState is the engine's position in its state machine
type PlaybackState int

const (
	StateIdle PlaybackState = iota
	StateLoading
	StatePlaying
	StatePaused
	StateBlocked // Preview cap reached, purchase prompt visible
)

func (s PlaybackState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoading:
		return "loading"
	case StatePlaying:
		return "playing"
	case StatePaused:
		return "paused"
	case StateBlocked:
		return "blocked"
	default:
		return "unknown"
	}
}

// Status is an immutable snapshot of the engine for rendering
type Status struct {
	Seq   uint64 // Increases with every notification; stale snapshots have a lower Seq
	State PlaybackState

	SessionID string
	Track     domain.Track
	HasTrack  bool
	Entitled  bool

	Position   time.Duration // Display position, clamped by the preview gate
	Duration   time.Duration
	AllowedMax time.Duration

	PromptVisible bool
	Index         int
	QueueLen      int
	Err           error // Last load failure, cleared on the next load
}

// Playing reports whether audio is (or is about to be) audible
func (s Status) Playing() bool {
	return s.State == StatePlaying
}

// EngineConfig tunes the engine
type EngineConfig struct {
	LoadTimeout time.Duration
}

const defaultLoadTimeout = 15 * time.Second

type session struct {
	id       string
	track    domain.Track
	entitled bool
	position time.Duration
	duration time.Duration
	startAt  time.Duration // Applied once the handle is acquired
	autoplay bool
	tripped  bool // Preview cap already reached during this load
}

type statusObserver struct {
	id int
	fn func(Status)
}

// effects run after the engine lock is released
type effects []func()

func (fx *effects) add(f func()) { *fx = append(*fx, f) }

func (fx effects) run() {
	for _, f := range fx {
		f()
	}
}

// Engine owns the single live decode handle and drives it from store changes.
// All state is guarded by mu; store writes and observer calls happen after mu
// is released.
type Engine struct {
	store       *Store
	fetcher     Fetcher
	logger      *slog.Logger
	loadTimeout time.Duration

	mu         sync.Mutex
	state      PlaybackState
	session    *session
	handle     Handle
	cancelLoad context.CancelFunc
	generation uint64 // Store track generation of the current session
	prompt     bool
	mirror     bool // Play intent the engine wants reflected in the store
	lastErr    error
	closed     bool
	seq        uint64
	observers  []statusObserver
	nextObsID  int

	unsubscribe func()
}

// NewEngine creates an engine and subscribes it to the store
func NewEngine(store *Store, fetcher Fetcher, cfg EngineConfig, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.LoadTimeout <= 0 {
		cfg.LoadTimeout = defaultLoadTimeout
	}

	e := &Engine{
		store:       store,
		fetcher:     fetcher,
		logger:      logger,
		loadTimeout: cfg.LoadTimeout,
	}
	e.unsubscribe = store.Subscribe(e.handleStoreChange)
	return e
}

// OnChange registers fn to receive a Status after every transition
func (e *Engine) OnChange(fn func(Status)) func() {
	e.mu.Lock()
	e.nextObsID++
	id := e.nextObsID
	e.observers = append(e.observers, statusObserver{id: id, fn: fn})
	e.mu.Unlock()

	return func() {
		e.mu.Lock()
		defer e.mu.Unlock()
		e.observers = slices.DeleteFunc(e.observers, func(o statusObserver) bool { return o.id == id })
	}
}

// Status returns the current engine snapshot
func (e *Engine) Status() Status {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.statusLocked()
}

// TogglePlay flips between playing and paused. With no handle it loads the
// current track; while blocked it dismisses the prompt and reloads from 0.
func (e *Engine) TogglePlay() {
	var fx effects
	e.mu.Lock()
	switch e.state {
	case StatePlaying:
		e.pauseLocked(&fx)
	case StateLoading:
		if e.session.autoplay {
			e.pauseLocked(&fx)
		} else {
			e.playLocked(&fx)
		}
	default:
		e.playLocked(&fx)
	}
	e.mu.Unlock()
	fx.run()
}

// Play resumes or starts playback of the current track
func (e *Engine) Play() {
	var fx effects
	e.mu.Lock()
	e.playLocked(&fx)
	e.mu.Unlock()
	fx.run()
}

// Pause pauses playback; a pending load will not autoplay
func (e *Engine) Pause() {
	var fx effects
	e.mu.Lock()
	e.pauseLocked(&fx)
	e.mu.Unlock()
	fx.run()
}

// Seek moves playback to pos. Unentitled sessions seeking past the preview
// cap are blocked instead of moved. Seeks are ignored while blocked.
func (e *Engine) Seek(pos time.Duration) {
	var fx effects
	e.mu.Lock()
	e.seekLocked(pos, &fx)
	e.mu.Unlock()
	fx.run()
}

// SeekBy moves playback relative to the current position
func (e *Engine) SeekBy(delta time.Duration) {
	var fx effects
	e.mu.Lock()
	var pos time.Duration
	if e.session != nil {
		pos = e.session.position
	}
	e.seekLocked(pos+delta, &fx)
	e.mu.Unlock()
	fx.run()
}

// Dismiss hides the purchase prompt and leaves the track idle at position 0
func (e *Engine) Dismiss() {
	var fx effects
	e.mu.Lock()
	if e.state == StateBlocked {
		e.dismissLocked(&fx)
	}
	e.mu.Unlock()
	fx.run()
}

// SkipNext advances the queue cursor. It is a no-op at the last index.
func (e *Engine) SkipNext() bool {
	return e.skip(1)
}

// SkipPrevious moves the queue cursor back. It is a no-op at index 0.
func (e *Engine) SkipPrevious() bool {
	return e.skip(-1)
}

// Close tears down the handle, cancels in-flight loads and unsubscribes
func (e *Engine) Close() {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return
	}
	e.closed = true
	e.teardownLocked()
	e.state = StateIdle
	unsubscribe := e.unsubscribe
	e.mu.Unlock()

	if unsubscribe != nil {
		unsubscribe()
	}
}

func (e *Engine) skip(delta int) bool {
	snap := e.store.Snapshot()
	if len(snap.Queue) == 0 {
		return false
	}
	target := snap.ClampedIndex() + delta
	if target < 0 || target >= len(snap.Queue) {
		return false
	}

	track := snap.Queue[target]
	e.store.Update(func(b *Batch) {
		b.SetCurrentIndex(target)
		b.SetCurrentSong(track)
	})
	return true
}

func (e *Engine) handleStoreChange(change Change, st State) {
	if change.Has(ChangeTrack) {
		e.trackChanged(st)
		return
	}
	if change.Has(ChangeEntitlement) {
		e.entitlementChanged(st)
	}
	if change.Has(ChangePlaying) && !st.fromEngine {
		if st.IsPlaying {
			e.Play()
		} else {
			e.Pause()
		}
	}
}

func (e *Engine) trackChanged(st State) {
	if st.CurrentTrack == nil {
		return
	}

	var fx effects
	e.mu.Lock()
	// Out-of-order notifications carry an older generation
	if e.closed || st.TrackGeneration <= e.generation {
		e.mu.Unlock()
		return
	}
	e.generation = st.TrackGeneration
	e.loadLocked(*st.CurrentTrack, st.Entitled, 0, true, &fx)
	e.mu.Unlock()
	fx.run()
}

// entitlementChanged applies a purchase status written after the track to
// the session that track started
func (e *Engine) entitlementChanged(st State) {
	var fx effects
	e.mu.Lock()
	s := e.session
	if e.closed || s == nil || st.TrackGeneration != e.generation || s.entitled == st.Entitled {
		e.mu.Unlock()
		return
	}
	s.entitled = st.Entitled

	e.logger.Debug("entitlement updated",
		"session", s.id,
		"track_id", s.track.ID,
		"entitled", s.entitled)

	if e.state == StatePlaying && !s.tripped && Exceeds(s.entitled, s.position) {
		e.blockLocked(&fx)
	} else {
		e.notifyLocked(&fx)
	}
	e.mu.Unlock()
	fx.run()
}

func (e *Engine) loadLocked(track domain.Track, entitled bool, startAt time.Duration, autoplay bool, fx *effects) {
	e.teardownLocked()

	s := &session{
		id:       uuid.NewString(),
		track:    track,
		entitled: entitled,
		position: startAt,
		duration: track.Duration,
		startAt:  startAt,
		autoplay: autoplay,
	}
	e.session = s
	e.state = StateLoading
	e.prompt = false
	e.lastErr = nil

	ctx, cancel := context.WithTimeout(context.Background(), e.loadTimeout)
	e.cancelLoad = cancel

	id := s.id
	events := Events{
		OnPosition: func(pos time.Duration) { e.handlePosition(id, pos) },
		OnComplete: func() { e.handleComplete(id) },
	}

	e.logger.Debug("loading track",
		"session", id,
		"track_id", track.ID,
		"entitled", entitled,
		"start_at", startAt)

	go e.acquire(ctx, cancel, id, track.MediaURL, events)

	e.mirrorLocked(autoplay, fx)
	e.notifyLocked(fx)
}

// reloadLocked restarts the current track, falling back to the store when
// nothing has been loaded yet
func (e *Engine) reloadLocked(startAt time.Duration, autoplay bool, fx *effects) {
	if s := e.session; s != nil {
		e.loadLocked(s.track, s.entitled, startAt, autoplay, fx)
		return
	}

	snap := e.store.Snapshot()
	if snap.CurrentTrack == nil {
		e.logger.Debug("play requested with no track selected")
		return
	}
	e.generation = snap.TrackGeneration
	e.loadLocked(*snap.CurrentTrack, snap.Entitled, startAt, autoplay, fx)
}

func (e *Engine) acquire(ctx context.Context, cancel context.CancelFunc, id, locator string, events Events) {
	defer cancel()

	handle, err := e.fetcher.Open(ctx, locator, events)

	var fx effects
	e.mu.Lock()
	if e.closed || e.session == nil || e.session.id != id || e.state != StateLoading {
		e.mu.Unlock()
		if handle != nil {
			_ = handle.Close()
		}
		e.logger.Debug("discarded stale load", "session", id)
		return
	}

	e.cancelLoad = nil
	if err != nil {
		e.failLoadLocked(err, &fx)
	} else {
		e.installLocked(handle, &fx)
	}
	e.mu.Unlock()
	fx.run()
}

func (e *Engine) installLocked(handle Handle, fx *effects) {
	s := e.session
	e.handle = handle

	if d := handle.Duration(); d > 0 {
		s.duration = d
	}

	if s.startAt > 0 {
		pos := s.startAt
		if s.duration > 0 {
			pos = lo.Clamp(pos, 0, s.duration)
		}
		if err := handle.Seek(pos); err != nil {
			e.logger.Warn("failed to apply start position", "session", s.id, "error", err)
			pos = 0
		}
		s.position = pos
		s.startAt = 0
	}

	if !s.autoplay {
		e.state = StatePaused
		e.mirrorLocked(false, fx)
		e.notifyLocked(fx)
		return
	}

	if err := handle.Play(); err != nil {
		e.failLoadLocked(fmt.Errorf("start playback: %w", err), fx)
		return
	}

	e.state = StatePlaying
	e.logger.Info("playing track",
		"session", s.id,
		"track_id", s.track.ID,
		"title", s.track.Title,
		"duration", s.duration)
	e.mirrorLocked(true, fx)
	e.notifyLocked(fx)
}

func (e *Engine) failLoadLocked(err error, fx *effects) {
	s := e.session
	e.logger.Error("failed to load track",
		"session", s.id,
		"track_id", s.track.ID,
		"error", err)

	e.teardownLocked()
	s.position = 0
	e.state = StateIdle
	e.lastErr = err
	e.mirrorLocked(false, fx)
	e.notifyLocked(fx)
}

func (e *Engine) playLocked(fx *effects) {
	switch e.state {
	case StatePlaying:
		return
	case StateLoading:
		e.session.autoplay = true
		e.mirrorLocked(true, fx)
		e.notifyLocked(fx)
		return
	case StateBlocked:
		e.dismissLocked(fx)
		e.reloadLocked(0, true, fx)
		return
	}

	if e.handle == nil {
		e.reloadLocked(0, true, fx)
		return
	}

	s := e.session
	if s.duration > 0 && s.position >= s.duration {
		if err := e.handle.Seek(0); err != nil {
			e.logger.Warn("failed to rewind, reloading", "session", s.id, "error", err)
			e.loadLocked(s.track, s.entitled, 0, true, fx)
			return
		}
		s.position = 0
	}

	if err := e.handle.Play(); err != nil {
		e.logger.Warn("failed to resume, reloading", "session", s.id, "error", err)
		e.loadLocked(s.track, s.entitled, s.position, true, fx)
		return
	}

	e.state = StatePlaying
	e.mirrorLocked(true, fx)
	e.notifyLocked(fx)
}

func (e *Engine) pauseLocked(fx *effects) {
	switch e.state {
	case StateLoading:
		e.session.autoplay = false
		e.mirrorLocked(false, fx)
		e.notifyLocked(fx)
	case StatePlaying:
		s := e.session
		if err := e.handle.Pause(); err != nil {
			e.logger.Warn("failed to pause, reloading", "session", s.id, "error", err)
			e.loadLocked(s.track, s.entitled, s.position, false, fx)
			return
		}
		e.state = StatePaused
		e.mirrorLocked(false, fx)
		e.notifyLocked(fx)
	}
}

func (e *Engine) seekLocked(pos time.Duration, fx *effects) {
	// The prompt stays up until it is dismissed or play reloads the track
	if e.state == StateBlocked {
		return
	}
	pos = max(pos, 0)

	s := e.session
	if s == nil {
		// Nothing loaded yet: adopt the store's track without loading it
		snap := e.store.Snapshot()
		if snap.CurrentTrack == nil {
			return
		}
		e.generation = snap.TrackGeneration
		s = &session{
			id:       uuid.NewString(),
			track:    *snap.CurrentTrack,
			entitled: snap.Entitled,
			duration: snap.CurrentTrack.Duration,
		}
		e.session = s
	}

	if !s.entitled && pos > PreviewCap {
		e.blockLocked(fx)
		return
	}
	if s.duration > 0 {
		pos = lo.Clamp(pos, 0, s.duration)
	}

	if e.handle == nil {
		if e.state == StateLoading {
			s.startAt = pos
			s.position = pos
			e.notifyLocked(fx)
			return
		}
		e.loadLocked(s.track, s.entitled, pos, true, fx)
		return
	}

	if err := e.handle.Seek(pos); err != nil {
		e.logger.Warn("failed to seek, reloading", "session", s.id, "position", pos, "error", err)
		e.loadLocked(s.track, s.entitled, pos, e.state == StatePlaying, fx)
		return
	}
	s.position = pos
	e.notifyLocked(fx)
}

func (e *Engine) blockLocked(fx *effects) {
	s := e.session
	e.teardownLocked()
	s.tripped = true
	s.position = 0
	e.state = StateBlocked
	e.prompt = true

	e.logger.Info("preview limit reached",
		"session", s.id,
		"track_id", s.track.ID)

	e.mirrorLocked(false, fx)
	e.notifyLocked(fx)
}

func (e *Engine) dismissLocked(fx *effects) {
	e.teardownLocked()
	e.prompt = false
	e.state = StateIdle
	if e.session != nil {
		e.session.position = 0
	}
	e.mirrorLocked(false, fx)
	e.notifyLocked(fx)
}

func (e *Engine) handlePosition(id string, pos time.Duration) {
	var fx effects
	e.mu.Lock()
	s := e.session
	if e.closed || s == nil || s.id != id || e.handle == nil {
		e.mu.Unlock()
		return
	}

	s.position = pos
	if e.state == StatePlaying && !s.tripped && Exceeds(s.entitled, pos) {
		e.blockLocked(&fx)
	} else {
		e.notifyLocked(&fx)
	}
	e.mu.Unlock()
	fx.run()
}

func (e *Engine) handleComplete(id string) {
	var fx effects
	e.mu.Lock()
	s := e.session
	if e.closed || s == nil || s.id != id || e.handle == nil {
		e.mu.Unlock()
		return
	}

	if s.duration > 0 {
		s.position = s.duration
	}
	e.state = StatePaused

	advanced := false
	if s.entitled {
		snap := e.store.Snapshot()
		next := snap.ClampedIndex() + 1
		if len(snap.Queue) > 0 && next < len(snap.Queue) {
			track := snap.Queue[next]
			fx.add(func() {
				e.store.Update(func(b *Batch) {
					b.SetCurrentIndex(next)
					b.SetCurrentSong(track)
				})
			})
			advanced = true
		}
	}

	if !advanced {
		// Hold at the end; a toggle rewinds
		e.mirrorLocked(false, &fx)
	}
	e.notifyLocked(&fx)
	e.mu.Unlock()
	fx.run()
}

func (e *Engine) teardownLocked() {
	if e.cancelLoad != nil {
		e.cancelLoad()
		e.cancelLoad = nil
	}
	if e.handle != nil {
		if err := e.handle.Close(); err != nil {
			e.logger.Warn("failed to close decode handle", "error", err)
		}
		e.handle = nil
	}
}

func (e *Engine) mirrorLocked(playing bool, fx *effects) {
	e.mirror = playing
	fx.add(e.syncStore)
}

// syncStore writes the engine's latest play intent into the store
func (e *Engine) syncStore() {
	e.mu.Lock()
	want, closed := e.mirror, e.closed
	e.mu.Unlock()

	if closed || e.store.IsPlaying() == want {
		return
	}
	e.store.Update(func(b *Batch) {
		b.SetIsPlaying(want)
		b.engine = true
	})
}

func (e *Engine) notifyLocked(fx *effects) {
	e.seq++
	st := e.statusLocked()
	if len(e.observers) == 0 {
		return
	}
	observers := slices.Clone(e.observers)
	fx.add(func() {
		for _, o := range observers {
			o.fn(st)
		}
	})
}

func (e *Engine) statusLocked() Status {
	snap := e.store.Snapshot()
	st := Status{
		Seq:           e.seq,
		State:         e.state,
		PromptVisible: e.prompt,
		Index:         snap.ClampedIndex(),
		QueueLen:      len(snap.Queue),
		Err:           e.lastErr,
	}
	if s := e.session; s != nil {
		st.SessionID = s.id
		st.Track = s.track
		st.HasTrack = true
		st.Entitled = s.entitled
		st.Duration = s.duration
		st.AllowedMax = AllowedMaxPosition(s.entitled, s.duration)
		st.Position = DisplayPosition(s.entitled, s.position)
		if s.duration > 0 {
			st.Position = min(st.Position, s.duration)
		}
	}
	return st
}
