package player

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrNoTrack indicates a playback action with nothing selected
	ErrNoTrack = errors.New("no track selected")

	// ErrAudioUnavailable indicates the build has no audio output
	ErrAudioUnavailable = errors.New("audio output not available in this build")

	// ErrUnsupportedFormat indicates a media locator the decoder cannot handle
	ErrUnsupportedFormat = errors.New("unsupported audio format")
)

// Events are the callbacks a Handle fires while it plays.
// Callbacks may arrive on any goroutine and must not be invoked while the
// handle holds a lock that Play, Pause, Seek or Close also take.
type Events struct {
	// OnPosition is called periodically with the elapsed position
	OnPosition func(pos time.Duration)

	// OnComplete is called once when the media reaches its natural end
	OnComplete func()
}

// Handle is one loaded, decodable media stream
type Handle interface {
	Play() error
	Pause() error
	Seek(pos time.Duration) error

	// Duration is the authoritative length reported by the decoder (zero if unknown)
	Duration() time.Duration

	// Close stops output and releases the stream. It must not wait for
	// in-flight event callbacks.
	Close() error
}

// Fetcher acquires a Handle for a media locator
type Fetcher interface {
	Open(ctx context.Context, locator string, events Events) (Handle, error)
}
