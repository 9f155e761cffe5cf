package driven

import "github.com/ephemere-io/pickles/internal/core/domain"

// Observer receives pipeline events for logging or display.
type Observer interface {
	Notify(event domain.Event)
}

// SettingsValidator checks settings before they are used.
type SettingsValidator interface {
	Validate(settings *domain.Settings) error
}
