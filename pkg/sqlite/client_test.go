package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/go-playground/assert/v2"
)

func TestNewClient(t *testing.T) {
	_, err := NewClient(context.Background(), Config{})
	assert.NotEqual(t, err, nil)

	db, err := NewClient(context.Background(), Config{Path: filepath.Join(t.TempDir(), "posts.db")})
	assert.Equal(t, err, nil)
	defer db.Close()

	_, err = db.Exec(`CREATE TABLE rental_posts (id TEXT PRIMARY KEY, data TEXT)`)
	assert.Equal(t, err, nil)
}
