package metrics

import (
	"context"
	"rental-dashboard/internal/adapters/memory"
	"rental-dashboard/internal/core/domain"
	"testing"

	"github.com/go-playground/assert/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestInstrumentedStore_RecordsOutcomes(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := NewStoreMetrics(reg, "test")
	assert.Equal(t, err, nil)

	inner := memory.NewDocumentStore(map[string][]domain.Document{
		"rental_posts": {
			{ID: "a", Fields: map[string]interface{}{"processing_failed": false}},
			{ID: "b", Fields: map[string]interface{}{"processing_failed": true}},
		},
	})
	store := NewInstrumentedStore(inner, m)

	docs, err := store.QueryCollection(context.Background(), domain.DocumentQuery{Collection: "rental_posts"})
	assert.Equal(t, err, nil)
	assert.Equal(t, len(docs), 2)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = store.QueryCollection(ctx, domain.DocumentQuery{Collection: "rental_posts"})
	assert.NotEqual(t, err, nil)

	_, err = store.QueryCollection(context.Background(), domain.DocumentQuery{Collection: "bad name"})
	assert.NotEqual(t, err, nil)

	assert.Equal(t, testutil.ToFloat64(m.documents.WithLabelValues("rental_posts")), 2.0)
	// ok, retryable_error и error - три серии гистограммы
	assert.Equal(t, testutil.CollectAndCount(m.queryDuration), 3)
	assert.Equal(t, store.Close(), nil)
}

func TestNewStoreMetrics_DoubleRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := NewStoreMetrics(reg, "test")
	assert.Equal(t, err, nil)

	_, err = NewStoreMetrics(reg, "test")
	assert.NotEqual(t, err, nil)
}
