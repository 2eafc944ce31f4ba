package notify

import (
	"slices"

	"github.com/Guliveer/twitch-chat-go/internal/model"
)

// baseNotifier provides shared boilerplate for all notification providers.
// Embed it in concrete notifier structs to avoid duplicating the filter logic.
type baseNotifier struct {
	name    string
	enabled bool
	kinds   []model.Kind
}

// Name returns the human-readable name of the notifier.
func (b *baseNotifier) Name() string { return b.name }

// IsEnabled reports whether this notifier is active.
func (b *baseNotifier) IsEnabled() bool { return b.enabled }

// ShouldNotify reports whether this notifier should fire for the given kind.
func (b *baseNotifier) ShouldNotify(kind model.Kind) bool {
	return slices.Contains(b.kinds, kind)
}
