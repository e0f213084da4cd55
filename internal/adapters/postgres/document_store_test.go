package postgres_adapter

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/go-playground/assert/v2"
	"github.com/jackc/pgx/v5/pgconn"
)

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "nil", err: nil, want: false},
		{name: "deadline", err: context.DeadlineExceeded, want: true},
		{name: "canceled", err: context.Canceled, want: false},
		{name: "connection exception", err: &pgconn.PgError{Code: "08006"}, want: true},
		{name: "too many connections", err: &pgconn.PgError{Code: "53300"}, want: true},
		{name: "serialization failure", err: &pgconn.PgError{Code: "40001"}, want: true},
		{name: "admin shutdown", err: &pgconn.PgError{Code: "57P01"}, want: true},
		{name: "undefined table", err: &pgconn.PgError{Code: "42P01"}, want: false},
		{name: "invalid text representation", err: fmt.Errorf("scan: %w", &pgconn.PgError{Code: "22P02"}), want: false},
		{name: "network", err: errors.New("read tcp: connection reset by peer"), want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, IsRetryable(tt.err), tt.want)
		})
	}
}

func TestNewPostgresDocumentStore_NilPool(t *testing.T) {
	_, err := NewPostgresDocumentStore(nil)
	assert.NotEqual(t, err, nil)
}
