package usecase

import (
	"context"
	"errors"
	"rental-dashboard/internal/adapters/memory"
	"rental-dashboard/internal/core/domain"
	"time"
)

const testCollection = "rental_posts"

var errStoreDown = errors.New("connection refused")

// failingStore отвечает успешно первые okCalls запросов, затем возвращает QueryError.
type failingStore struct {
	okCalls int
	calls   int
	next    *memory.DocumentStore
}

func (s *failingStore) QueryCollection(ctx context.Context, query domain.DocumentQuery) ([]domain.Document, error) {
	s.calls++
	if s.calls > s.okCalls {
		return nil, domain.NewQueryError("query", query.Collection, true, errStoreDown)
	}
	return s.next.QueryCollection(ctx, query)
}

func (s *failingStore) Close() error { return nil }

type docOption func(fields map[string]interface{})

func failed(message, errorType string) docOption {
	return func(f map[string]interface{}) {
		f["processing_failed"] = true
		f["error_message"] = message
		if errorType != "" {
			f["error_type"] = errorType
		}
	}
}

func processingTime(seconds float64) docOption {
	return func(f map[string]interface{}) {
		f["processing_time"] = seconds
	}
}

func listing(location string, price float64, propertyType string) docOption {
	return func(f map[string]interface{}) {
		data := map[string]interface{}{
			"location":          location,
			"room_or_apartment": propertyType,
		}
		if price >= 0 {
			data["price"] = price
		}
		f["processed_data"] = data
	}
}

func newDoc(id string, at time.Time, opts ...docOption) domain.Document {
	fields := map[string]interface{}{
		"processed_at":      at.UTC().Format(time.RFC3339Nano),
		"processing_failed": false,
	}
	for _, opt := range opts {
		opt(fields)
	}
	return domain.Document{ID: id, Fields: fields}
}

func newStore(docs ...domain.Document) *memory.DocumentStore {
	return memory.NewDocumentStore(map[string][]domain.Document{testCollection: docs})
}

func postAt(id string, at time.Time, isFailed bool) domain.Post {
	return domain.Post{ID: id, ProcessedAt: at, ProcessingFailed: isFailed}
}
