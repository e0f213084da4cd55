package sqlite_adapter

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"rental-dashboard/internal/adapters/sqldoc"
	"rental-dashboard/internal/contextkeys"
	"rental-dashboard/internal/core/domain"
	"rental-dashboard/internal/core/port"

	"github.com/mattn/go-sqlite3"
)

// SQLiteDocumentStore - коллекции в таблицах (id TEXT PRIMARY KEY, data TEXT с JSON).
type SQLiteDocumentStore struct {
	db *sql.DB
}

func NewSQLiteDocumentStore(db *sql.DB) (*SQLiteDocumentStore, error) {
	if db == nil {
		return nil, fmt.Errorf("sql.DB cannot be nil")
	}
	return &SQLiteDocumentStore{db: db}, nil
}

func (s *SQLiteDocumentStore) QueryCollection(ctx context.Context, query domain.DocumentQuery) ([]domain.Document, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	repoLogger := logger.WithFields(port.Fields{
		"component":  "SQLiteDocumentStore",
		"method":     "QueryCollection",
		"collection": query.Collection,
	})

	stmt, args, err := sqldoc.BuildSelect(sqldoc.SQLite{}, query)
	if err != nil {
		repoLogger.Error("Failed to build query", err, nil)
		return nil, domain.NewQueryError("build", query.Collection, false, err)
	}
	repoLogger.Debug("Executing query", port.Fields{"query": stmt, "args_count": len(args)})

	rows, err := s.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		repoLogger.Error("Failed to query documents", err, port.Fields{"query": stmt})
		return nil, domain.NewQueryError("query", query.Collection, IsRetryable(err), err)
	}
	defer rows.Close()

	docs := make([]domain.Document, 0)
	for rows.Next() {
		var (
			id  string
			raw sql.NullString
		)
		if err := rows.Scan(&id, &raw); err != nil {
			repoLogger.Error("Failed to scan document row", err, nil)
			return nil, domain.NewQueryError("scan", query.Collection, false, err)
		}

		fields := make(map[string]interface{})
		if raw.Valid && raw.String != "" {
			if err := json.Unmarshal([]byte(raw.String), &fields); err != nil {
				// битый JSON - это проблема данных, а не запроса: отдаем пустой документ
				repoLogger.Warn("Document data is not valid JSON", port.Fields{"document_id": id, "error": err.Error()})
				fields = make(map[string]interface{})
			}
		}
		docs = append(docs, domain.Document{ID: id, Fields: fields})
	}
	if err := rows.Err(); err != nil {
		repoLogger.Error("Error during documents iteration", err, nil)
		return nil, domain.NewQueryError("iterate", query.Collection, IsRetryable(err), err)
	}

	return docs, nil
}

func (s *SQLiteDocumentStore) Close() error {
	return s.db.Close()
}

// IsRetryable: занятая или заблокированная база - временная ситуация.
func IsRetryable(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.Code == sqlite3.ErrBusy || sqliteErr.Code == sqlite3.ErrLocked
	}
	return false
}
