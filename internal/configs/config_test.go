package configs

import (
	"errors"
	"os"
	"path/filepath"
	"rental-dashboard/internal/core/domain"
	"testing"

	"github.com/go-playground/assert/v2"
)

func writeEnv(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("failed to write env file: %v", err)
	}
	return path
}

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("STORE_DRIVER", "memory")

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.env"))
	assert.Equal(t, err, nil)
	assert.Equal(t, cfg.Store.Driver, StoreDriverMemory)
	assert.Equal(t, cfg.Store.Collection, "rental_posts")
	assert.Equal(t, cfg.Listings.Window, 50)
	assert.Equal(t, cfg.Listings.PageSize, 12)
	assert.Equal(t, cfg.Stats.HistoryLimit, 100)
	assert.Equal(t, cfg.Stats.RecentErrors, 5)
	assert.Equal(t, cfg.FluentBit.Enabled, false)
	assert.Equal(t, cfg.Tracing.Enabled, false)
	assert.Equal(t, cfg.Rest.AllowedOrigins, []string{"http://localhost:5173"})
}

func TestLoadConfig_AllowedOrigins(t *testing.T) {
	t.Setenv("STORE_DRIVER", "memory")
	t.Setenv("CORS_ALLOWED_ORIGINS", " https://dash.example , ,http://localhost:3000")

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.env"))
	assert.Equal(t, err, nil)
	assert.Equal(t, cfg.Rest.AllowedOrigins, []string{"https://dash.example", "http://localhost:3000"})
}

func TestLoadConfig_FromEnvFile(t *testing.T) {
	t.Setenv("STORE_DRIVER", "")
	os.Unsetenv("STORE_DRIVER")
	path := writeEnv(t, "STORE_DRIVER=sqlite\nSQLITE_PATH=/data/posts.db\nLISTINGS_PAGE_SIZE=24\nLISTINGS_WINDOW=-3\n")
	t.Cleanup(func() {
		os.Unsetenv("SQLITE_PATH")
		os.Unsetenv("LISTINGS_PAGE_SIZE")
		os.Unsetenv("LISTINGS_WINDOW")
	})

	cfg, err := LoadConfig(path)
	assert.Equal(t, err, nil)
	assert.Equal(t, cfg.Store.Driver, StoreDriverSQLite)
	assert.Equal(t, cfg.Store.SQLitePath, "/data/posts.db")
	assert.Equal(t, cfg.Listings.PageSize, 24)
	assert.Equal(t, cfg.Listings.Window, 50)
}

func TestLoadConfig_RecentErrorsIsCapped(t *testing.T) {
	t.Setenv("STORE_DRIVER", "memory")
	t.Setenv("STATS_RECENT_ERRORS", "20")

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.env"))
	assert.Equal(t, err, nil)
	assert.Equal(t, cfg.Stats.RecentErrors, 5)

	t.Setenv("STATS_RECENT_ERRORS", "3")
	cfg, err = LoadConfig(filepath.Join(t.TempDir(), "missing.env"))
	assert.Equal(t, err, nil)
	assert.Equal(t, cfg.Stats.RecentErrors, 3)
}

func TestLoadConfig_UnknownDriver(t *testing.T) {
	t.Setenv("STORE_DRIVER", "firestore")

	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.env"))
	assert.Equal(t, errors.Is(err, domain.ErrUnknownStoreDriver), true)
}

func TestLoadConfig_PostgresRequiresURL(t *testing.T) {
	t.Setenv("STORE_DRIVER", "postgres")
	t.Setenv("DATABASE_URL", "")

	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.env"))
	assert.NotEqual(t, err, nil)
}
