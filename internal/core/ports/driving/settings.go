package driving

import "github.com/custodia-labs/scholardocs/internal/core/domain"

// SettingsService manages application settings.
type SettingsService interface {
	// Get retrieves current application settings.
	Get() (*domain.AppSettings, error)

	// Save persists application settings.
	Save(settings *domain.AppSettings) error

	// SetLanguage updates the default interface language.
	SetLanguage(lang domain.Language) error

	// SetToolLimits updates the input and output ceilings.
	// Values above the portal limits are rejected.
	SetToolLimits(maxInputBytes, targetBytes int64) error

	// SetOutputDir updates where produced files are written.
	SetOutputDir(dir string) error

	// SetStorageBackend selects sqlite or memory storage.
	SetStorageBackend(backend domain.StorageBackend) error

	// SetDeclarationURL overrides the download link of a declaration form.
	// An empty url restores the built-in link.
	SetDeclarationURL(formID, url string) error

	// Validate checks the current settings.
	Validate() error

	// GetDefaults returns default settings.
	GetDefaults() domain.AppSettings
}
