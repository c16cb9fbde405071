// Command scholardocs lists the documents a student must upload for a
// scholarship application and prepares them for the portal.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/custodia-labs/scholardocs/cgo/heif"
	"github.com/custodia-labs/scholardocs/internal/adapters/driven/blob"
	"github.com/custodia-labs/scholardocs/internal/adapters/driven/config/file"
	"github.com/custodia-labs/scholardocs/internal/adapters/driven/pdf"
	"github.com/custodia-labs/scholardocs/internal/adapters/driven/raster"
	"github.com/custodia-labs/scholardocs/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/scholardocs/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/scholardocs/internal/adapters/driving/cli"
	"github.com/custodia-labs/scholardocs/internal/config"
	"github.com/custodia-labs/scholardocs/internal/core/domain"
	"github.com/custodia-labs/scholardocs/internal/core/ports/driven"
	"github.com/custodia-labs/scholardocs/internal/core/services"
	"github.com/custodia-labs/scholardocs/internal/logger"
)

// version is set at build time via -ldflags "-X main.version=...".
var version = ""

func main() {
	os.Exit(run())
}

func run() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "scholardocs: %v\n", err)
		return 1
	}
	logger.SetVerbose(cfg.Verbose)

	svc, cleanup, err := wire(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "scholardocs: %v\n", err)
		return 1
	}
	defer cleanup()

	cli.SetServices(svc)
	cli.SetVersion(version)

	if err := cli.Execute(ctx); err != nil {
		return 1
	}
	return 0
}

// wire builds every service from the config file, the environment and the
// chosen storage backend. cleanup releases the database and held outputs.
func wire(cfg *config.Config) (cli.Services, func(), error) {
	configStore, err := file.NewConfigStore(cfg.ConfigDir)
	if err != nil {
		return cli.Services{}, nil, fmt.Errorf("opening config: %w", err)
	}
	settings := services.NewSettingsService(configStore, services.WithOverrides(cfg.Overrides()))
	app, err := settings.Get()
	if err != nil {
		return cli.Services{}, nil, fmt.Errorf("reading settings: %w", err)
	}

	states, jobs, closeStorage, err := openStorage(app.Storage, cfg.DataDir)
	if err != nil {
		return cli.Services{}, nil, err
	}

	requirements, err := services.NewRequirementService(configStore, services.DefaultRequirementCacheSize)
	if err != nil {
		closeStorage()
		return cli.Services{}, nil, fmt.Errorf("creating requirement service: %w", err)
	}

	engine, err := pdf.NewEngine()
	if err != nil {
		closeStorage()
		return cli.Services{}, nil, fmt.Errorf("creating pdf engine: %w", err)
	}

	blobs := blob.NewStore()
	opts := []services.ToolOption{
		services.WithLimits(app.Tools),
		services.WithJobStore(jobs),
	}
	if heif.Available() {
		opts = append(opts, services.WithImageConverter(heif.New(0)))
	} else {
		logger.Debug("HEIC support not compiled in")
	}
	tools := services.NewToolService(engine, raster.NewEncoder(), blobs, requirements, opts...)

	cleanup := func() {
		if err := blobs.Close(); err != nil {
			logger.Warn("releasing outputs: %v", err)
		}
		closeStorage()
	}

	return cli.Services{
		Requirements: requirements,
		Wizard:       services.NewWizardService(states, app.Language),
		Tools:        tools,
		History:      services.NewHistoryService(jobs),
		Settings:     settings,
	}, cleanup, nil
}

// openStorage returns the wizard state and job history stores for backend.
func openStorage(backend domain.StorageBackend, dataDir string) (driven.StateStore, driven.JobStore, func(), error) {
	if backend == domain.StorageMemory {
		logger.Debug("using in-memory storage")
		return memory.NewStateStore(), memory.NewJobStore(), func() {}, nil
	}

	store, err := sqlite.NewStore(dataDir)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("opening storage: %w", err)
	}
	logger.Debug("using sqlite storage at %s", store.Path())
	return store.StateStore(), store.JobStore(), func() {
		if err := store.Close(); err != nil {
			logger.Warn("closing storage: %v", err)
		}
	}, nil
}
