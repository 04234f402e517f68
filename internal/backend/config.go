package backend

import (
	"fmt"

	"donations/internal/config"
)

// FromAppConfig converts the application config to backend config
func FromAppConfig(appConfig *config.Config) (Config, error) {
	if appConfig == nil {
		return Config{}, fmt.Errorf("app config is nil")
	}

	cfg := Config{
		DataBackend:  BackendType(appConfig.DataBackend),
		DatasetFile:  appConfig.DatasetFile,
		PrefsBackend: PrefsType(appConfig.PrefsBackend),
		SQLiteDBPath: appConfig.SQLiteDBPath,
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate validates the backend configuration
func (c Config) Validate() error {
	if !c.DataBackend.IsValid() {
		return fmt.Errorf("invalid backend type: %s", c.DataBackend)
	}
	if !c.PrefsBackend.IsValid() {
		return fmt.Errorf("invalid preferences backend: %s", c.PrefsBackend)
	}
	if c.DataBackend == FileBackend && c.DatasetFile == "" {
		return fmt.Errorf("dataset file is required for file backend")
	}
	if c.usesSQLite() && c.SQLiteDBPath == "" {
		return fmt.Errorf("SQLite database path is required for sqlite backend")
	}
	return nil
}

func (c Config) usesSQLite() bool {
	return c.DataBackend == SQLiteBackend || c.PrefsBackend == SQLitePrefs
}
