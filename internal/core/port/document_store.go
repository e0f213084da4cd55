package port

import (
	"context"
	"rental-dashboard/internal/core/domain"
)

// DocumentStorePort - интерфейс запросов к хранилищу документов.
// Любая ошибка хранилища возвращается как *domain.QueryError.
type DocumentStorePort interface {
	QueryCollection(ctx context.Context, query domain.DocumentQuery) ([]domain.Document, error)
	Close() error
}
