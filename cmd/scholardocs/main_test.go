package main

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/scholardocs/internal/config"
	"github.com/custodia-labs/scholardocs/internal/core/domain"
)

func TestWire_MemoryStorage(t *testing.T) {
	cfg := &config.Config{
		ConfigDir: t.TempDir(),
		DataDir:   t.TempDir(),
		Storage:   string(domain.StorageMemory),
		Language:  string(domain.LanguageMarathi),
	}

	svc, cleanup, err := wire(cfg)
	require.NoError(t, err)
	t.Cleanup(cleanup)

	require.NotNil(t, svc.Requirements)
	require.NotNil(t, svc.Tools)
	require.NotNil(t, svc.History)
	require.NotNil(t, svc.Settings)

	state, err := svc.Wizard.Current(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.LanguageMarathi, state.Language)
	assert.Equal(t, int64(230<<10), svc.Tools.Limits().TargetBytes)
}

func TestWire_SQLiteStorage(t *testing.T) {
	dataDir := t.TempDir()
	cfg := &config.Config{ConfigDir: t.TempDir(), DataDir: dataDir}

	svc, cleanup, err := wire(cfg)
	require.NoError(t, err)
	t.Cleanup(cleanup)

	_, err = svc.Wizard.SelectStream(context.Background(), domain.StreamEngineering)
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(dataDir, "state.db"))
}

func TestOpenStorage_BadDataDir(t *testing.T) {
	_, _, _, err := openStorage(domain.StorageSQLite, filepath.Join("/dev/null", "x"))

	assert.ErrorContains(t, err, "opening storage")
}
