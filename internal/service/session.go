package service

import "github.com/mmcdole/encore/internal/adapter"

// SessionService manages user session operations
type SessionService struct {
	cacheDir string
}

// NewSessionService creates a new SessionService for the given cache dir
func NewSessionService(cacheDir string) *SessionService {
	return &SessionService{cacheDir: cacheDir}
}

// Logout clears server credentials and cached data
func (s *SessionService) Logout() error {
	if err := adapter.ClearServerConfig(); err != nil {
		return err
	}

	if err := adapter.ClearCache(s.cacheDir); err != nil {
		return err
	}

	return nil
}
