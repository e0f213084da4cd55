package postgres_adapter

import (
	"context"
	"errors"
	"fmt"
	"rental-dashboard/internal/adapters/sqldoc"
	"rental-dashboard/internal/contextkeys"
	"rental-dashboard/internal/core/domain"
	"rental-dashboard/internal/core/port"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresDocumentStore - коллекции документов в таблицах (id TEXT PRIMARY KEY, data JSONB).
type PostgresDocumentStore struct {
	pool *pgxpool.Pool
}

func NewPostgresDocumentStore(pool *pgxpool.Pool) (*PostgresDocumentStore, error) {
	if pool == nil {
		return nil, fmt.Errorf("pgxpool.Pool cannot be nil")
	}
	return &PostgresDocumentStore{pool: pool}, nil
}

func (s *PostgresDocumentStore) QueryCollection(ctx context.Context, query domain.DocumentQuery) ([]domain.Document, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	repoLogger := logger.WithFields(port.Fields{
		"component":  "PostgresDocumentStore",
		"method":     "QueryCollection",
		"collection": query.Collection,
	})

	sql, args, err := sqldoc.BuildSelect(sqldoc.Postgres{}, query)
	if err != nil {
		repoLogger.Error("Failed to build query", err, nil)
		return nil, domain.NewQueryError("build", query.Collection, false, err)
	}
	repoLogger.Debug("Executing query", port.Fields{"query": sql, "args_count": len(args)})

	rows, err := s.pool.Query(ctx, sql, args...)
	if err != nil {
		repoLogger.Error("Failed to query documents", err, port.Fields{"query": sql})
		return nil, domain.NewQueryError("query", query.Collection, IsRetryable(err), err)
	}
	defer rows.Close()

	docs := make([]domain.Document, 0)
	for rows.Next() {
		var (
			id   string
			data map[string]interface{}
		)
		if err := rows.Scan(&id, &data); err != nil {
			repoLogger.Error("Failed to scan document row", err, nil)
			return nil, domain.NewQueryError("scan", query.Collection, false, err)
		}
		if data == nil {
			data = make(map[string]interface{})
		}
		docs = append(docs, domain.Document{ID: id, Fields: data})
	}
	if err := rows.Err(); err != nil {
		repoLogger.Error("Error during documents iteration", err, nil)
		return nil, domain.NewQueryError("iterate", query.Collection, IsRetryable(err), err)
	}

	repoLogger.Debug("Query finished", port.Fields{"documents": len(docs)})
	return docs, nil
}

// Close закрывает пул.
func (s *PostgresDocumentStore) Close() error {
	s.pool.Close()
	return nil
}

// IsRetryable решает, имеет ли смысл повторить запрос позже.
// Ошибки соединения и таймауты - да, отклоненный сервером запрос - нет.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) || pgconn.Timeout(err) || pgconn.SafeToRetry(err) {
		return true
	}

	var connErr *pgconn.ConnectError
	if errors.As(err, &connErr) {
		return true
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch {
		case len(pgErr.Code) >= 2 && pgErr.Code[:2] == "08": // connection_exception
			return true
		case len(pgErr.Code) >= 2 && pgErr.Code[:2] == "53": // insufficient_resources
			return true
		case pgErr.Code == "40001", pgErr.Code == "40P01": // serialization_failure, deadlock_detected
			return true
		case pgErr.Code == "57P01", pgErr.Code == "57P02", pgErr.Code == "57P03": // admin/crash shutdown, cannot_connect_now
			return true
		}
		return false
	}

	// без кода от сервера считаем, что это проблема сети
	return !errors.Is(err, context.Canceled)
}
