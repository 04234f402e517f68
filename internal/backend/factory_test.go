package backend

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"donations/internal/config"
	"donations/internal/prefs/memory"
	"donations/internal/storage"
)

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr bool
	}{
		{"memory", Config{DataBackend: MemoryBackend, PrefsBackend: MemoryPrefs}, false},
		{"file without path", Config{DataBackend: FileBackend, PrefsBackend: MemoryPrefs}, true},
		{"sqlite prefs without path", Config{DataBackend: MemoryBackend, PrefsBackend: SQLitePrefs}, true},
		{"unknown data backend", Config{DataBackend: "sheets", PrefsBackend: MemoryPrefs}, true},
		{"unknown prefs backend", Config{DataBackend: MemoryBackend, PrefsBackend: "redis"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.config.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestFromAppConfig(t *testing.T) {
	if _, err := FromAppConfig(nil); err == nil {
		t.Fatal("expected error for nil config")
	}
	cfg, err := FromAppConfig(&config.Config{
		DataBackend:  "sqlite",
		PrefsBackend: "sqlite",
		SQLiteDBPath: "x.db",
	})
	if err != nil {
		t.Fatalf("FromAppConfig() error = %v", err)
	}
	if cfg.DataBackend != SQLiteBackend || cfg.PrefsBackend != SQLitePrefs || cfg.SQLiteDBPath != "x.db" {
		t.Fatalf("unexpected config %+v", cfg)
	}
}

func TestCreateBackend_Memory(t *testing.T) {
	result, err := NewFactory(nil).CreateBackend(context.Background(), Config{
		DataBackend:  MemoryBackend,
		PrefsBackend: MemoryPrefs,
	})
	if err != nil {
		t.Fatalf("CreateBackend() error = %v", err)
	}
	if result.Dataset.Len() != 12 {
		t.Fatalf("expected embedded demo data, got %d records", result.Dataset.Len())
	}
	if _, ok := result.Preferences.(*memory.Store); !ok {
		t.Fatalf("expected memory store, got %T", result.Preferences)
	}
	if result.Health != nil {
		t.Fatal("memory backend has nothing to ping")
	}
	if err := result.Cleanup(); err != nil {
		t.Fatalf("Cleanup() error = %v", err)
	}
}

func TestCreateBackend_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "donations.csv")
	if err := os.WriteFile(path, []byte("Month,Amount,Donors\nQ1,100,2\nQ2,250.5,3\n"), 0644); err != nil {
		t.Fatalf("write dataset: %v", err)
	}

	result, err := NewFactory(nil).CreateBackend(context.Background(), Config{
		DataBackend:  FileBackend,
		DatasetFile:  path,
		PrefsBackend: MemoryPrefs,
	})
	if err != nil {
		t.Fatalf("CreateBackend() error = %v", err)
	}
	records := result.Dataset.Records()
	if len(records) != 2 || records[1].Label != "Q2" || records[1].Amount.String() != "250.5" {
		t.Fatalf("unexpected records %+v", records)
	}
}

func TestCreateBackend_FileInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "donations.csv")
	if err := os.WriteFile(path, []byte("Month,Amount,Donors\nQ1,-5,2\n"), 0644); err != nil {
		t.Fatalf("write dataset: %v", err)
	}
	_, err := NewFactory(nil).CreateBackend(context.Background(), Config{
		DataBackend:  FileBackend,
		DatasetFile:  path,
		PrefsBackend: MemoryPrefs,
	})
	if err == nil {
		t.Fatal("expected validation error for negative amount")
	}
}

func TestCreateBackend_SQLiteSharesRepository(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "donations.db")

	result, err := NewFactory(nil).CreateBackend(context.Background(), Config{
		DataBackend:  SQLiteBackend,
		PrefsBackend: SQLitePrefs,
		SQLiteDBPath: dbPath,
	})
	if err != nil {
		t.Fatalf("CreateBackend() error = %v", err)
	}
	defer result.Cleanup()

	if result.Dataset.Len() != 12 {
		t.Fatalf("expected seeded months, got %d", result.Dataset.Len())
	}
	repo, ok := result.Preferences.(*storage.SQLiteRepository)
	if !ok {
		t.Fatalf("expected sqlite preferences, got %T", result.Preferences)
	}
	if result.Health != repo {
		t.Fatal("health check should use the shared repository")
	}
	if err := result.Health.Ping(context.Background()); err != nil {
		t.Fatalf("Ping() error = %v", err)
	}
}

func TestCreateBackend_SQLiteImportsDatasetFile(t *testing.T) {
	dir := t.TempDir()
	dataPath := filepath.Join(dir, "donations.yaml")
	yaml := "months:\n  - {month: W1, amount: \"10.25\", donors: 1}\n  - {month: W2, amount: \"20\", donors: 4}\n"
	if err := os.WriteFile(dataPath, []byte(yaml), 0644); err != nil {
		t.Fatalf("write dataset: %v", err)
	}
	dbPath := filepath.Join(dir, "donations.db")

	cfg := Config{
		DataBackend:  SQLiteBackend,
		DatasetFile:  dataPath,
		PrefsBackend: MemoryPrefs,
		SQLiteDBPath: dbPath,
	}
	result, err := NewFactory(nil).CreateBackend(context.Background(), cfg)
	if err != nil {
		t.Fatalf("CreateBackend() error = %v", err)
	}
	if err := result.Cleanup(); err != nil {
		t.Fatalf("Cleanup() error = %v", err)
	}

	// The import persists without the file.
	cfg.DatasetFile = ""
	result, err = NewFactory(nil).CreateBackend(context.Background(), cfg)
	if err != nil {
		t.Fatalf("reopen error = %v", err)
	}
	defer result.Cleanup()

	records := result.Dataset.Records()
	if len(records) != 2 || records[0].Label != "W1" || records[0].Amount.String() != "10.25" {
		t.Fatalf("unexpected records %+v", records)
	}
}
