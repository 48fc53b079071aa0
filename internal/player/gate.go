package player

import "time"

// PreviewCap is the playback ceiling for sessions without entitlement
const PreviewCap = 30 * time.Second

// AllowedMaxPosition returns the furthest position a session may reach.
// An unknown duration (zero) falls back to the cap for unentitled sessions.
func AllowedMaxPosition(entitled bool, duration time.Duration) time.Duration {
	if entitled {
		return duration
	}
	if duration <= 0 {
		return PreviewCap
	}
	return min(PreviewCap, duration)
}

// Exceeds reports whether pos has reached the preview cap of an unentitled session
func Exceeds(entitled bool, pos time.Duration) bool {
	return !entitled && pos >= PreviewCap
}

// DisplayPosition clamps pos for rendering the progress control
func DisplayPosition(entitled bool, pos time.Duration) time.Duration {
	if pos < 0 {
		return 0
	}
	if entitled {
		return pos
	}
	return min(pos, PreviewCap)
}
