package usecase

import (
	"context"
	"math"
	"rental-dashboard/internal/contextkeys"
	"rental-dashboard/internal/core/domain"
	"rental-dashboard/internal/core/port"
	"sort"
	"time"
)

// StatsLimits - размеры выборок для агрегатора.
type StatsLimits struct {
	HistoryPosts int // сколько последних постов раскладывать по часам
	RecentErrors int // длина ленты последних ошибок
}

type ComputeStatsUseCase struct {
	reader postReader
	limits StatsLimits
	now    func() time.Time
}

func NewComputeStatsUseCase(store port.DocumentStorePort, validator port.ShapeValidatorPort, collection string, limits StatsLimits, now func() time.Time) *ComputeStatsUseCase {
	if now == nil {
		now = time.Now
	}
	return &ComputeStatsUseCase{
		reader: postReader{store: store, validator: validator, collection: collection},
		limits: limits,
		now:    now,
	}
}

// Execute пересчитывает снимок статистики целиком.
// Ошибка любого запроса прерывает агрегацию: частичный снимок не возвращается.
func (uc *ComputeStatsUseCase) Execute(ctx context.Context) (*domain.StatsSnapshot, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{
		"use_case": "ComputeStats",
	})
	ucLogger.Info("Use case started", nil)

	now := uc.now().UTC()
	snapshot := &domain.StatsSnapshot{GeneratedAt: now}

	// --- 1. Все посты и неудачные ---
	all, err := uc.reader.read(ctx, domain.DocumentQuery{}, ucLogger)
	if err != nil {
		ucLogger.Error("Failed to fetch all posts", err, nil)
		return nil, err
	}
	failed, err := uc.reader.read(ctx, domain.DocumentQuery{
		Equals: []domain.EqualityFilter{{Field: domain.FieldProcessingFailed, Value: true}},
	}, ucLogger)
	if err != nil {
		ucLogger.Error("Failed to fetch failed posts", err, nil)
		return nil, err
	}

	snapshot.TotalPosts = len(all)
	snapshot.FailedPosts = len(failed)

	// --- 2. Процент успеха ---
	snapshot.SuccessRate = SuccessRate(snapshot.TotalPosts, snapshot.FailedPosts)

	// --- 3. Последние сутки и свежесть ---
	lastDay, err := uc.reader.read(ctx, domain.DocumentQuery{
		Ranges: []domain.RangeFilter{{
			Field: domain.FieldProcessedAt,
			Op:    domain.OpGTE,
			Value: now.Add(-24 * time.Hour),
		}},
		OrderBy: recentFirst(),
	}, ucLogger)
	if err != nil {
		ucLogger.Error("Failed to fetch posts for the last day", err, nil)
		return nil, err
	}
	snapshot.PostsLastDay = len(lastDay)
	if latest, ok := LatestPost(lastDay); ok {
		ts := latest.ProcessedAt
		snapshot.LastScrapeTime = &ts
		snapshot.ScrapeSuccess = !latest.ProcessingFailed
	}

	// --- 4. Среднее время обработки ---
	snapshot.AverageProcessingTime = AverageProcessingTime(all)

	// --- 5. Почасовая история ---
	recent, err := uc.reader.read(ctx, domain.DocumentQuery{
		OrderBy: recentFirst(),
		Limit:   uc.limits.HistoryPosts,
	}, ucLogger)
	if err != nil {
		ucLogger.Error("Failed to fetch recent posts", err, nil)
		return nil, err
	}
	snapshot.HourlySeries = BucketByHour(recent, snapshot.SuccessRate)

	// --- 6. Лента последних ошибок ---
	recentFailed, err := uc.reader.read(ctx, domain.DocumentQuery{
		Equals:  []domain.EqualityFilter{{Field: domain.FieldProcessingFailed, Value: true}},
		OrderBy: recentFirst(),
		Limit:   uc.limits.RecentErrors,
	}, ucLogger)
	if err != nil {
		ucLogger.Error("Failed to fetch recent errors", err, nil)
		return nil, err
	}
	snapshot.RecentErrors = RecentErrors(recentFailed, uc.limits.RecentErrors)

	ucLogger.Info("Use case finished successfully", port.Fields{
		"total_posts":    snapshot.TotalPosts,
		"failed_posts":   snapshot.FailedPosts,
		"posts_last_day": snapshot.PostsLastDay,
		"hourly_buckets": len(snapshot.HourlySeries),
	})
	return snapshot, nil
}

// SuccessRate - доля успешных постов в процентах, округленная до десятых. 0 для пустой коллекции.
func SuccessRate(total, failed int) float64 {
	if total <= 0 {
		return 0
	}
	return round1(float64(total-failed) / float64(total) * 100)
}

// AverageProcessingTime - среднее только по постам с измеренным временем.
func AverageProcessingTime(posts []domain.Post) float64 {
	var sum float64
	measured := 0
	for _, p := range posts {
		if p.ProcessingTimeSeconds == nil {
			continue
		}
		sum += *p.ProcessingTimeSeconds
		measured++
	}
	if measured == 0 {
		return 0
	}
	return round1(sum / float64(measured))
}

// LatestPost ищет пост с максимальным processed_at, не полагаясь на порядок выборки.
func LatestPost(posts []domain.Post) (domain.Post, bool) {
	var latest domain.Post
	found := false
	for _, p := range posts {
		if !p.HasProcessedAt() {
			continue
		}
		if !found || p.ProcessedAt.After(latest.ProcessedAt) ||
			(p.ProcessedAt.Equal(latest.ProcessedAt) && p.ID > latest.ID) {
			latest = p
			found = true
		}
	}
	return latest, found
}

// BucketByHour раскладывает посты по часам (UTC) в порядке возрастания.
// SuccessfulApprox считается по глобальному successRate, Successful - по флагам самих постов.
func BucketByHour(posts []domain.Post, successRate float64) []domain.HourlyBucket {
	byHour := make(map[time.Time]*domain.HourlyBucket)
	for _, p := range posts {
		if !p.HasProcessedAt() {
			continue
		}
		hour := p.ProcessedAt.UTC().Truncate(time.Hour)
		bucket, ok := byHour[hour]
		if !ok {
			bucket = &domain.HourlyBucket{Hour: hour}
			byHour[hour] = bucket
		}
		bucket.Total++
		if !p.ProcessingFailed {
			bucket.Successful++
		}
	}

	series := make([]domain.HourlyBucket, 0, len(byHour))
	for _, bucket := range byHour {
		total := float64(bucket.Total)
		bucket.SuccessfulApprox = round1(total - total*(100-successRate)/100)
		series = append(series, *bucket)
	}
	sort.Slice(series, func(i, j int) bool {
		return series[i].Hour.Before(series[j].Hour)
	})
	return series
}

// RecentErrors превращает неудачные посты в ленту ошибок, не длиннее limit, от новых к старым.
func RecentErrors(failed []domain.Post, limit int) []domain.RecentError {
	sorted := make([]domain.Post, 0, len(failed))
	for _, p := range failed {
		if p.ProcessingFailed {
			sorted = append(sorted, p)
		}
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		if !sorted[i].ProcessedAt.Equal(sorted[j].ProcessedAt) {
			return sorted[i].ProcessedAt.After(sorted[j].ProcessedAt)
		}
		return sorted[i].ID > sorted[j].ID
	})
	if limit >= 0 && len(sorted) > limit {
		sorted = sorted[:limit]
	}

	feed := make([]domain.RecentError, 0, len(sorted))
	for _, p := range sorted {
		feed = append(feed, domain.RecentError{
			ID:        p.ID,
			Message:   p.ErrorMessage,
			Timestamp: p.ProcessedAt,
			Severity:  domain.ParseSeverity(p.ErrorType),
			ErrorType: p.ErrorType,
		})
	}
	return feed
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
