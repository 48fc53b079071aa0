package source

import (
	"log/slog"

	"github.com/mmcdole/encore/internal/adapter/source/mysound"
	"github.com/mmcdole/encore/internal/domain"
)

// NewAuthFlow creates the interactive login flow: an email prompt followed
// by an unechoed password read, exchanged for a bearer token.
func NewAuthFlow(logger *slog.Logger) domain.AuthFlow {
	return mysound.NewAuthFlow(logger)
}
