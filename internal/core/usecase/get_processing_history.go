package usecase

import (
	"context"
	"rental-dashboard/internal/contextkeys"
	"rental-dashboard/internal/core/domain"
	"rental-dashboard/internal/core/port"
	"sort"
	"time"
)

const (
	DefaultHistoryDays = 30
	MaxHistoryDays     = 365
)

// GetProcessingHistoryUseCase - количество постов по дням (UTC) для графика истории.
type GetProcessingHistoryUseCase struct {
	reader postReader
	now    func() time.Time
}

func NewGetProcessingHistoryUseCase(store port.DocumentStorePort, validator port.ShapeValidatorPort, collection string, now func() time.Time) *GetProcessingHistoryUseCase {
	if now == nil {
		now = time.Now
	}
	return &GetProcessingHistoryUseCase{
		reader: postReader{store: store, validator: validator, collection: collection},
		now:    now,
	}
}

func (uc *GetProcessingHistoryUseCase) Execute(ctx context.Context, days int) ([]domain.DailyCount, error) {
	if days <= 0 {
		days = DefaultHistoryDays
	}
	if days > MaxHistoryDays {
		days = MaxHistoryDays
	}

	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{
		"use_case": "GetProcessingHistory",
		"days":     days,
	})
	ucLogger.Info("Use case started", nil)

	today := uc.now().UTC().Truncate(24 * time.Hour)
	since := today.AddDate(0, 0, -(days - 1))

	posts, err := uc.reader.read(ctx, domain.DocumentQuery{
		Ranges: []domain.RangeFilter{{Field: domain.FieldProcessedAt, Op: domain.OpGTE, Value: since}},
		OrderBy: &domain.SortSpec{
			Field: domain.FieldProcessedAt,
			Kind:  domain.KindTime,
		},
	}, ucLogger)
	if err != nil {
		ucLogger.Error("Storage returned an error", err, nil)
		return nil, err
	}

	history := GroupByDay(posts)
	ucLogger.Info("Use case finished successfully", port.Fields{"days_with_posts": len(history)})
	return history, nil
}

// GroupByDay считает посты по календарным дням UTC; дни без постов не выводятся.
func GroupByDay(posts []domain.Post) []domain.DailyCount {
	byDay := make(map[string]*domain.DailyCount)
	for _, p := range posts {
		if !p.HasProcessedAt() {
			continue
		}
		day := p.ProcessedAt.UTC().Format(time.DateOnly)
		entry, ok := byDay[day]
		if !ok {
			entry = &domain.DailyCount{Date: day}
			byDay[day] = entry
		}
		entry.Total++
		if p.ProcessingFailed {
			entry.Failed++
		}
	}

	history := make([]domain.DailyCount, 0, len(byDay))
	for _, entry := range byDay {
		history = append(history, *entry)
	}
	sort.Slice(history, func(i, j int) bool {
		return history[i].Date < history[j].Date
	})
	return history
}
