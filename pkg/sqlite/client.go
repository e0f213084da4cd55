package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"

	_ "github.com/mattn/go-sqlite3" // драйвер sqlite3
)

// Config хранит конфигурацию для открытия файла SQLite
type Config struct {
	Path string // например, "data/rental_posts.db"
	// ReadOnly открывает файл в режиме mode=ro: бот пишет, мы только читаем
	ReadOnly      bool
	BusyTimeoutMs int
}

// NewClient открывает базу и проверяет соединение
func NewClient(ctx context.Context, cfg Config) (*sql.DB, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("SQLITE_PATH configuration is required")
	}
	if cfg.BusyTimeoutMs <= 0 {
		cfg.BusyTimeoutMs = 5000
	}

	params := url.Values{}
	params.Set("_busy_timeout", fmt.Sprint(cfg.BusyTimeoutMs))
	if cfg.ReadOnly {
		params.Set("mode", "ro")
	}
	dsn := fmt.Sprintf("file:%s?%s", cfg.Path, params.Encode())

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("unable to ping sqlite database: %w", err)
	}

	return db, nil
}
