package domain

import (
	"fmt"
	"time"
)

// Language is the interface language chosen by the student.
// Only the choice is stored; text lookup happens outside the core.
type Language string

// Available languages.
const (
	LanguageEnglish Language = "en"
	LanguageHindi   Language = "hi"
	LanguageMarathi Language = "mr"
)

// IsValid returns true if the language is recognised.
func (l Language) IsValid() bool {
	switch l {
	case LanguageEnglish, LanguageHindi, LanguageMarathi:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (l Language) String() string {
	return string(l)
}

// Description returns the language name in its own script.
func (l Language) Description() string {
	switch l {
	case LanguageEnglish:
		return "English"
	case LanguageHindi:
		return "हिंदी"
	case LanguageMarathi:
		return "मराठी"
	default:
		return unknownDescription
	}
}

// AllLanguages returns all available languages.
func AllLanguages() []Language {
	return []Language{LanguageEnglish, LanguageHindi, LanguageMarathi}
}

// StorageBackend selects where wizard state and job history are kept.
type StorageBackend string

// Available storage backends.
const (
	// StorageSQLite persists to ~/.scholardocs/data/state.db.
	StorageSQLite StorageBackend = "sqlite"

	// StorageMemory keeps everything for the lifetime of the process.
	StorageMemory StorageBackend = "memory"
)

// IsValid returns true if the backend is recognised.
func (b StorageBackend) IsValid() bool {
	return b == StorageSQLite || b == StorageMemory
}

// String returns the string representation.
func (b StorageBackend) String() string {
	return string(b)
}

// Description returns a human-readable description of the backend.
func (b StorageBackend) Description() string {
	switch b {
	case StorageSQLite:
		return "SQLite (persists between runs)"
	case StorageMemory:
		return "Memory (forgotten on exit)"
	default:
		return unknownDescription
	}
}

// AllStorageBackends returns all available storage backends.
func AllStorageBackends() []StorageBackend {
	return []StorageBackend{StorageSQLite, StorageMemory}
}

// ToolSettings holds document tool limits and output behaviour.
type ToolSettings struct {
	// MaxInputBytes is the total input ceiling for one job.
	MaxInputBytes int64

	// TargetBytes is the output ceiling imposed by the portal.
	TargetBytes int64

	// OutputDir is where produced files are written. Empty means the working directory.
	OutputDir string

	// ReleaseGrace is how long a produced file is kept in memory after download.
	ReleaseGrace time.Duration
}

// Validate checks the limits can only be lowered, never raised.
func (t ToolSettings) Validate() error {
	if t.MaxInputBytes <= 0 || t.MaxInputBytes > MaxInputBytes {
		return fmt.Errorf("%w: max input bytes must be in 1..%d", ErrInvalidInput, MaxInputBytes)
	}
	if t.TargetBytes <= 0 || t.TargetBytes > TargetOutputBytes {
		return fmt.Errorf("%w: target bytes must be in 1..%d", ErrInvalidInput, TargetOutputBytes)
	}
	if t.ReleaseGrace < 0 {
		return fmt.Errorf("%w: release grace must not be negative", ErrInvalidInput)
	}
	return nil
}

// AppSettings holds all application settings.
type AppSettings struct {
	// Language is the interface language.
	Language Language

	// Tools holds document tool limits.
	Tools ToolSettings

	// Storage selects the state and history backend.
	Storage StorageBackend

	// DeclarationURLs overrides the download link of a declaration form by ID.
	DeclarationURLs map[string]string
}

// DefaultAppSettings returns settings with sensible defaults.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		Language: LanguageEnglish,
		Tools: ToolSettings{
			MaxInputBytes: MaxInputBytes,
			TargetBytes:   TargetOutputBytes,
			ReleaseGrace:  DefaultReleaseGrace,
		},
		Storage:         StorageSQLite,
		DeclarationURLs: map[string]string{},
	}
}
