package services

import (
	"fmt"
	"strings"
	"time"

	"github.com/custodia-labs/scholardocs/internal/core/domain"
	"github.com/custodia-labs/scholardocs/internal/core/ports/driven"
	"github.com/custodia-labs/scholardocs/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
const (
	keyLanguage      = "app.language"
	keyMaxInputBytes = "tools.max_input_bytes"
	keyTargetBytes   = "tools.target_bytes"
	keyOutputDir     = "tools.output_dir"
	keyReleaseGrace  = "tools.release_grace_seconds"
	keyStorage       = "storage.backend"
	keyDeclarations  = "declarations."
)

// SettingsOverrides are values that take precedence over the config file
// for the lifetime of the process. Zero values are ignored.
type SettingsOverrides struct {
	Language      domain.Language
	MaxInputBytes int64
	TargetBytes   int64
	OutputDir     string
	Storage       domain.StorageBackend
}

// SettingsOption configures a SettingsService.
type SettingsOption func(*SettingsService)

// WithOverrides applies process-level overrides, typically from the environment.
func WithOverrides(o SettingsOverrides) SettingsOption {
	return func(s *SettingsService) {
		s.overrides = o
	}
}

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
	overrides   SettingsOverrides
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore, opts ...SettingsOption) *SettingsService {
	s := &SettingsService{configStore: configStore}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Get retrieves current application settings.
// Limits above the portal ceilings are clamped.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	defaults := domain.DefaultAppSettings()

	settings := &domain.AppSettings{
		Language: s.getLanguage(defaults.Language),
		Tools: domain.ToolSettings{
			MaxInputBytes: clampLimit(s.getInt64(keyMaxInputBytes, defaults.Tools.MaxInputBytes), domain.MaxInputBytes),
			TargetBytes:   clampLimit(s.getInt64(keyTargetBytes, defaults.Tools.TargetBytes), domain.TargetOutputBytes),
			OutputDir:     s.configStore.GetString(keyOutputDir),
			ReleaseGrace:  s.getGrace(defaults.Tools.ReleaseGrace),
		},
		Storage:         s.getStorage(defaults.Storage),
		DeclarationURLs: s.getDeclarationURLs(),
	}
	s.applyOverrides(settings)

	return settings, nil
}

// Save persists application settings.
func (s *SettingsService) Save(settings *domain.AppSettings) error {
	if err := settings.Tools.Validate(); err != nil {
		return err
	}
	if err := s.configStore.Set(keyLanguage, settings.Language.String()); err != nil {
		return fmt.Errorf("save language: %w", err)
	}
	if err := s.configStore.Set(keyMaxInputBytes, settings.Tools.MaxInputBytes); err != nil {
		return fmt.Errorf("save max input bytes: %w", err)
	}
	if err := s.configStore.Set(keyTargetBytes, settings.Tools.TargetBytes); err != nil {
		return fmt.Errorf("save target bytes: %w", err)
	}
	if err := s.configStore.Set(keyOutputDir, settings.Tools.OutputDir); err != nil {
		return fmt.Errorf("save output dir: %w", err)
	}
	if err := s.configStore.Set(keyReleaseGrace, int64(settings.Tools.ReleaseGrace/time.Second)); err != nil {
		return fmt.Errorf("save release grace: %w", err)
	}
	if err := s.configStore.Set(keyStorage, settings.Storage.String()); err != nil {
		return fmt.Errorf("save storage backend: %w", err)
	}
	for id, url := range settings.DeclarationURLs {
		if err := s.SetDeclarationURL(id, url); err != nil {
			return err
		}
	}
	return nil
}

// SetLanguage updates the default interface language.
func (s *SettingsService) SetLanguage(lang domain.Language) error {
	if !lang.IsValid() {
		return fmt.Errorf("invalid language: %s", lang)
	}
	return s.configStore.Set(keyLanguage, lang.String())
}

// SetToolLimits updates the input and output ceilings.
func (s *SettingsService) SetToolLimits(maxInputBytes, targetBytes int64) error {
	limits := domain.ToolSettings{MaxInputBytes: maxInputBytes, TargetBytes: targetBytes}
	if err := limits.Validate(); err != nil {
		return err
	}
	if err := s.configStore.Set(keyMaxInputBytes, maxInputBytes); err != nil {
		return fmt.Errorf("save max input bytes: %w", err)
	}
	if err := s.configStore.Set(keyTargetBytes, targetBytes); err != nil {
		return fmt.Errorf("save target bytes: %w", err)
	}
	return nil
}

// SetOutputDir updates where produced files are written.
func (s *SettingsService) SetOutputDir(dir string) error {
	return s.configStore.Set(keyOutputDir, strings.TrimSpace(dir))
}

// SetStorageBackend selects sqlite or memory storage.
func (s *SettingsService) SetStorageBackend(backend domain.StorageBackend) error {
	if !backend.IsValid() {
		return fmt.Errorf("invalid storage backend: %s", backend)
	}
	return s.configStore.Set(keyStorage, backend.String())
}

// SetDeclarationURL overrides the download link of a declaration form.
func (s *SettingsService) SetDeclarationURL(formID, url string) error {
	if !isDeclarationID(formID) {
		return fmt.Errorf("%w: unknown declaration form %q", domain.ErrInvalidInput, formID)
	}
	url = strings.TrimSpace(url)
	if url == "" {
		return s.configStore.Delete(DeclarationURLKey(formID))
	}
	if !strings.HasPrefix(url, "https://") && !strings.HasPrefix(url, "http://") {
		return fmt.Errorf("%w: declaration url must be http(s): %s", domain.ErrInvalidInput, url)
	}
	return s.configStore.Set(DeclarationURLKey(formID), url)
}

// Validate checks the current settings.
func (s *SettingsService) Validate() error {
	settings, err := s.Get()
	if err != nil {
		return err
	}
	if !settings.Language.IsValid() {
		return fmt.Errorf("invalid language: %s", settings.Language)
	}
	if !settings.Storage.IsValid() {
		return fmt.Errorf("invalid storage backend: %s", settings.Storage)
	}
	return settings.Tools.Validate()
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

func (s *SettingsService) applyOverrides(settings *domain.AppSettings) {
	o := s.overrides
	if o.Language.IsValid() {
		settings.Language = o.Language
	}
	if o.MaxInputBytes > 0 {
		settings.Tools.MaxInputBytes = clampLimit(o.MaxInputBytes, domain.MaxInputBytes)
	}
	if o.TargetBytes > 0 {
		settings.Tools.TargetBytes = clampLimit(o.TargetBytes, domain.TargetOutputBytes)
	}
	if o.OutputDir != "" {
		settings.Tools.OutputDir = o.OutputDir
	}
	if o.Storage.IsValid() {
		settings.Storage = o.Storage
	}
}

func isDeclarationID(id string) bool {
	for _, known := range AllDeclarationIDs() {
		if id == known {
			return true
		}
	}
	return false
}

func clampLimit(v, ceiling int64) int64 {
	if v <= 0 || v > ceiling {
		return ceiling
	}
	return v
}

// Helper methods for reading config with defaults.

func (s *SettingsService) getInt64(key string, defaultVal int64) int64 {
	val := s.configStore.GetInt(key)
	if val == 0 {
		return defaultVal
	}
	return int64(val)
}

func (s *SettingsService) getGrace(defaultVal time.Duration) time.Duration {
	if _, exists := s.configStore.Get(keyReleaseGrace); !exists {
		return defaultVal
	}
	seconds := s.configStore.GetInt(keyReleaseGrace)
	if seconds < 0 {
		return defaultVal
	}
	return time.Duration(seconds) * time.Second
}

func (s *SettingsService) getLanguage(defaultVal domain.Language) domain.Language {
	lang := domain.Language(s.configStore.GetString(keyLanguage))
	if !lang.IsValid() {
		return defaultVal
	}
	return lang
}

func (s *SettingsService) getStorage(defaultVal domain.StorageBackend) domain.StorageBackend {
	backend := domain.StorageBackend(s.configStore.GetString(keyStorage))
	if !backend.IsValid() {
		return defaultVal
	}
	return backend
}

func (s *SettingsService) getDeclarationURLs() map[string]string {
	urls := make(map[string]string)
	for _, key := range s.configStore.Keys(keyDeclarations) {
		id := strings.TrimSuffix(strings.TrimPrefix(key, keyDeclarations), ".url")
		if url := s.configStore.GetString(key); url != "" && isDeclarationID(id) {
			urls[id] = url
		}
	}
	return urls
}
