package domain

import "context"

// PlaybackClient provides network operations tied to playback.
type PlaybackClient interface {
	RecordPlay(ctx context.Context, trackID string) error
	LikeTrack(ctx context.Context, trackID string) error
}
