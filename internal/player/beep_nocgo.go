//go:build !((linux && cgo) || windows || darwin)

package player

import (
	"github.com/gopxl/beep/v2"
)

// AudioAvailable indicates whether audio playback is supported in this build.
const AudioAvailable = false

func (f *BeepFetcher) output(stream beep.StreamSeekCloser, _ beep.Format, _ Events) (Handle, error) {
	_ = stream.Close()
	return nil, ErrAudioUnavailable
}
