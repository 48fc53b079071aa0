//go:build (linux && cgo) || windows || darwin

package player

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/speaker"
)

// AudioAvailable indicates whether audio playback is supported in this build.
const AudioAvailable = true

var errHandleClosed = errors.New("decode handle closed")

var (
	speakerOnce sync.Once
	speakerErr  error
)

func (f *BeepFetcher) output(stream beep.StreamSeekCloser, format beep.Format, events Events) (Handle, error) {
	speakerOnce.Do(func() {
		speakerErr = speaker.Init(f.sampleRate, f.sampleRate.N(time.Second/10))
	})
	if speakerErr != nil {
		_ = stream.Close()
		return nil, fmt.Errorf("init speaker: %w", speakerErr)
	}

	h := &beepHandle{
		stream:   stream,
		format:   format,
		events:   events,
		interval: f.tickInterval,
		stop:     make(chan struct{}),
		ctrl: &beep.Ctrl{
			Streamer: beep.Resample(4, format.SampleRate, f.sampleRate, stream),
			Paused:   true,
		},
	}
	h.enqueue()
	go h.tick()
	return h, nil
}

type beepHandle struct {
	mu       sync.Mutex
	stream   beep.StreamSeekCloser
	format   beep.Format
	ctrl     *beep.Ctrl
	events   Events
	interval time.Duration
	stop     chan struct{}
	ended    bool
	closed   bool
}

func (h *beepHandle) enqueue() {
	speaker.Play(beep.Seq(h.ctrl, beep.Callback(h.finished)))
}

// finished runs on the speaker goroutine with the speaker lock held
func (h *beepHandle) finished() {
	go func() {
		h.mu.Lock()
		if h.closed {
			h.mu.Unlock()
			return
		}
		h.ended = true
		h.mu.Unlock()

		if h.events.OnComplete != nil {
			h.events.OnComplete()
		}
	}()
}

func (h *beepHandle) Play() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return errHandleClosed
	}
	if h.ended {
		h.ended = false
		h.enqueue()
	}

	speaker.Lock()
	h.ctrl.Paused = false
	speaker.Unlock()
	return nil
}

func (h *beepHandle) Pause() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return errHandleClosed
	}

	speaker.Lock()
	h.ctrl.Paused = true
	speaker.Unlock()
	return nil
}

func (h *beepHandle) Seek(pos time.Duration) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return errHandleClosed
	}

	speaker.Lock()
	defer speaker.Unlock()

	n := min(max(h.format.SampleRate.N(pos), 0), h.stream.Len())
	return h.stream.Seek(n)
}

func (h *beepHandle) Duration() time.Duration {
	return h.format.SampleRate.D(h.stream.Len())
}

func (h *beepHandle) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return nil
	}
	h.closed = true
	close(h.stop)

	// Detaching the streamer lets the sequence finish and leave the mixer
	speaker.Lock()
	h.ctrl.Paused = true
	h.ctrl.Streamer = nil
	speaker.Unlock()

	return h.stream.Close()
}

func (h *beepHandle) tick() {
	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()

	for {
		select {
		case <-h.stop:
			return
		case <-ticker.C:
			h.mu.Lock()
			if h.closed {
				h.mu.Unlock()
				return
			}
			speaker.Lock()
			paused := h.ctrl.Paused
			pos := h.format.SampleRate.D(h.stream.Position())
			speaker.Unlock()
			ended := h.ended
			h.mu.Unlock()

			if !paused && !ended && h.events.OnPosition != nil {
				h.events.OnPosition(pos)
			}
		}
	}
}
