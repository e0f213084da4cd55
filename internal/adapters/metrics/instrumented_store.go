package metrics

import (
	"context"
	"rental-dashboard/internal/contextkeys"
	"rental-dashboard/internal/core/domain"
	"rental-dashboard/internal/core/port"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "rental-dashboard/document-store"

// StoreMetrics - метрики запросов к хранилищу документов.
type StoreMetrics struct {
	queryDuration *prometheus.HistogramVec
	documents     *prometheus.CounterVec
}

// NewStoreMetrics регистрирует метрики в reg.
func NewStoreMetrics(reg prometheus.Registerer, namespace string) (*StoreMetrics, error) {
	m := &StoreMetrics{
		queryDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "store_query_duration_seconds",
			Help:      "Duration of document store queries.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"collection", "outcome"}),
		documents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "store_documents_returned_total",
			Help:      "Documents returned by document store queries.",
		}, []string{"collection"}),
	}

	for _, c := range []prometheus.Collector{m.queryDuration, m.documents} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// InstrumentedStore оборачивает DocumentStorePort метриками и спаном на каждый запрос.
type InstrumentedStore struct {
	next    port.DocumentStorePort
	metrics *StoreMetrics
	tracer  trace.Tracer
}

func NewInstrumentedStore(next port.DocumentStorePort, metrics *StoreMetrics) *InstrumentedStore {
	return &InstrumentedStore{
		next:    next,
		metrics: metrics,
		tracer:  otel.Tracer(tracerName),
	}
}

func (s *InstrumentedStore) QueryCollection(ctx context.Context, query domain.DocumentQuery) ([]domain.Document, error) {
	ctx, span := s.tracer.Start(ctx, "DocumentStore.QueryCollection", trace.WithAttributes(
		attribute.String("db.collection", query.Collection),
		attribute.Int("db.query.equals", len(query.Equals)),
		attribute.Int("db.query.ranges", len(query.Ranges)),
		attribute.Int("db.query.limit", query.Limit),
	))
	defer span.End()
	if traceID := contextkeys.TraceIDFromContext(ctx); traceID != "" {
		span.SetAttributes(attribute.String("app.trace_id", traceID))
	}

	start := time.Now()
	docs, err := s.next.QueryCollection(ctx, query)
	elapsed := time.Since(start).Seconds()

	outcome := "ok"
	if err != nil {
		outcome = "error"
		if qe, ok := domain.AsQueryError(err); ok && qe.Retryable {
			outcome = "retryable_error"
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetAttributes(attribute.Int("db.documents", len(docs)))
		s.metrics.documents.WithLabelValues(query.Collection).Add(float64(len(docs)))
	}
	s.metrics.queryDuration.WithLabelValues(query.Collection, outcome).Observe(elapsed)

	return docs, err
}

func (s *InstrumentedStore) Close() error {
	return s.next.Close()
}
