package backend

import (
	"context"
	"fmt"

	"donations/internal/core"
	"donations/internal/dataset"
	applog "donations/internal/log"
	"donations/internal/prefs"
	"donations/internal/prefs/memory"
	"donations/internal/storage"
)

// DefaultFactory implements the Factory interface
type DefaultFactory struct {
	logger *applog.Logger
}

// NewFactory creates a new backend factory
func NewFactory(logger *applog.Logger) Factory {
	if logger == nil {
		logger = applog.FromContext(context.Background())
	}
	return &DefaultFactory{logger: logger.WithComponent(applog.ComponentBackend)}
}

// CreateBackend opens the configured dataset and preference store. The
// SQLite repository is opened once and shared when both use it.
func (f *DefaultFactory) CreateBackend(ctx context.Context, config Config) (*BackendResult, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	var repo *storage.SQLiteRepository
	if config.usesSQLite() {
		var err error
		repo, err = storage.NewSQLiteRepository(config.SQLiteDBPath)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize SQLite repository: %w", err)
		}
	}
	closeRepo := func() error {
		if repo == nil {
			return nil
		}
		return repo.Close()
	}

	ds, err := f.openDataset(ctx, config, repo)
	if err != nil {
		_ = closeRepo()
		return nil, err
	}

	var store prefs.Store = memory.New()
	if config.PrefsBackend == SQLitePrefs {
		store = repo
	}

	result := &BackendResult{
		Dataset:     ds,
		Preferences: store,
		Cleanup:     closeRepo,
	}
	if repo != nil {
		result.Health = repo
	}

	f.logger.InfoContext(ctx, "Initialized backend",
		"data_backend", config.DataBackend,
		"prefs_backend", config.PrefsBackend,
		applog.FieldRecords, ds.Len())

	return result, nil
}

func (f *DefaultFactory) openDataset(ctx context.Context, config Config, repo *storage.SQLiteRepository) (core.Dataset, error) {
	switch config.DataBackend {
	case MemoryBackend:
		return open(ctx, dataset.Embedded(), "embedded")
	case FileBackend:
		return open(ctx, dataset.File(config.DatasetFile), config.DatasetFile)
	case SQLiteBackend:
		if config.DatasetFile != "" {
			if err := f.importFile(ctx, config.DatasetFile, repo); err != nil {
				return core.Dataset{}, err
			}
		}
		return open(ctx, repo, "sqlite")
	default:
		return core.Dataset{}, fmt.Errorf("unsupported backend type: %s", config.DataBackend)
	}
}

// importFile replaces the stored months with the contents of path.
func (f *DefaultFactory) importFile(ctx context.Context, path string, repo *storage.SQLiteRepository) error {
	ds, err := open(ctx, dataset.File(path), path)
	if err != nil {
		return err
	}
	if err := repo.ReplaceRecords(ctx, ds.Records()); err != nil {
		return fmt.Errorf("import %s: %w", path, err)
	}
	f.logger.InfoContext(ctx, "Imported dataset file into SQLite",
		applog.FieldOperation, applog.OpImport,
		applog.FieldFilename, path,
		applog.FieldRecords, ds.Len())
	return nil
}

func open(ctx context.Context, src dataset.Source, name string) (core.Dataset, error) {
	ds, err := dataset.Open(ctx, src)
	if err != nil {
		return core.Dataset{}, fmt.Errorf("load dataset from %s: %w", name, err)
	}
	return ds, nil
}
