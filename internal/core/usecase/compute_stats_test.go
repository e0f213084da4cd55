package usecase

import (
	"context"
	"fmt"
	"rental-dashboard/internal/core/domain"
	"testing"
	"time"

	"github.com/go-playground/assert/v2"
)

var statsNow = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func fixedNow() time.Time { return statsNow }

func defaultLimits() StatsLimits {
	return StatsLimits{HistoryPosts: 100, RecentErrors: 5}
}

func TestComputeStats_Snapshot(t *testing.T) {
	docs := make([]domain.Document, 0, 10)
	for i := 0; i < 10; i++ {
		at := statsNow.Add(-time.Duration(i+1) * 20 * time.Minute)
		opts := []docOption{processingTime(float64(i%3 + 1))}
		if i == 3 || i == 7 {
			opts = append(opts, failed(fmt.Sprintf("error %d", i), "warning"))
		}
		docs = append(docs, newDoc(fmt.Sprintf("p%d", i), at, opts...))
	}
	uc := NewComputeStatsUseCase(newStore(docs...), nil, testCollection, defaultLimits(), fixedNow)

	snapshot, err := uc.Execute(context.Background())
	assert.Equal(t, err, nil)

	assert.Equal(t, snapshot.TotalPosts, 10)
	assert.Equal(t, snapshot.FailedPosts, 2)
	assert.Equal(t, snapshot.SuccessRate, 80.0)
	assert.Equal(t, snapshot.PostsLastDay, 10)
	// времена 1,2,3,1,2,3,1,2,3,1 -> 19/10
	assert.Equal(t, snapshot.AverageProcessingTime, 1.9)
	assert.Equal(t, snapshot.LastScrapeTime.Equal(statsNow.Add(-20*time.Minute)), true)
	assert.Equal(t, snapshot.ScrapeSuccess, true)
	assert.Equal(t, snapshot.GeneratedAt.Equal(statsNow), true)

	assert.Equal(t, len(snapshot.RecentErrors), 2)
	assert.Equal(t, snapshot.RecentErrors[0].ID, "p3")
	assert.Equal(t, snapshot.RecentErrors[0].Severity, domain.SeverityWarning)
	assert.Equal(t, snapshot.RecentErrors[1].ID, "p7")

	total := 0
	for i, b := range snapshot.HourlySeries {
		total += b.Total
		if i > 0 {
			assert.Equal(t, snapshot.HourlySeries[i-1].Hour.Before(b.Hour), true)
		}
	}
	assert.Equal(t, total, 10)
}

func TestComputeStats_EmptyCollection(t *testing.T) {
	uc := NewComputeStatsUseCase(newStore(), nil, testCollection, defaultLimits(), fixedNow)

	snapshot, err := uc.Execute(context.Background())
	assert.Equal(t, err, nil)
	assert.Equal(t, snapshot.TotalPosts, 0)
	assert.Equal(t, snapshot.SuccessRate, 0.0)
	assert.Equal(t, snapshot.AverageProcessingTime, 0.0)
	assert.Equal(t, snapshot.LastScrapeTime == nil, true)
	assert.Equal(t, snapshot.Freshness(), domain.FreshnessNever)
	assert.Equal(t, len(snapshot.HourlySeries), 0)
	assert.Equal(t, len(snapshot.RecentErrors), 0)
}

func TestComputeStats_NoPostsInLastDay(t *testing.T) {
	store := newStore(
		newDoc("old-1", statsNow.Add(-48*time.Hour)),
		newDoc("old-2", statsNow.Add(-30*time.Hour), failed("boom", "")),
	)
	uc := NewComputeStatsUseCase(store, nil, testCollection, defaultLimits(), fixedNow)

	snapshot, err := uc.Execute(context.Background())
	assert.Equal(t, err, nil)
	assert.Equal(t, snapshot.TotalPosts, 2)
	assert.Equal(t, snapshot.PostsLastDay, 0)
	assert.Equal(t, snapshot.LastScrapeTime == nil, true)
	assert.Equal(t, snapshot.ScrapeSuccess, false)
	assert.Equal(t, snapshot.Freshness(), domain.FreshnessNever)
}

func TestComputeStats_LatestFailedPostMarksScrapeFailed(t *testing.T) {
	store := newStore(
		newDoc("ok", statsNow.Add(-2*time.Hour)),
		newDoc("bad", statsNow.Add(-10*time.Minute), failed("parse error", "error")),
	)
	uc := NewComputeStatsUseCase(store, nil, testCollection, defaultLimits(), fixedNow)

	snapshot, err := uc.Execute(context.Background())
	assert.Equal(t, err, nil)
	assert.Equal(t, snapshot.ScrapeSuccess, false)
	assert.Equal(t, snapshot.SuccessRate, 50.0)
}

func TestComputeStats_StoreFailureAborts(t *testing.T) {
	for okCalls := 0; okCalls < 5; okCalls++ {
		t.Run(fmt.Sprintf("fails_after_%d", okCalls), func(t *testing.T) {
			store := &failingStore{okCalls: okCalls, next: newStore(newDoc("p", statsNow.Add(-time.Hour)))}
			uc := NewComputeStatsUseCase(store, nil, testCollection, defaultLimits(), fixedNow)

			snapshot, err := uc.Execute(context.Background())
			assert.Equal(t, snapshot == nil, true)
			_, ok := domain.AsQueryError(err)
			assert.Equal(t, ok, true)
			// после первой ошибки запросов больше нет
			assert.Equal(t, store.calls, okCalls+1)
		})
	}
}

func TestComputeStats_NonFiniteProcessingTimeIsIgnored(t *testing.T) {
	bad := newDoc("nan", statsNow.Add(-10*time.Minute))
	bad.Fields["processing_time"] = "NaN"
	uc := NewComputeStatsUseCase(newStore(
		newDoc("ok", statsNow.Add(-20*time.Minute), processingTime(2.0)),
		bad,
	), nil, testCollection, defaultLimits(), fixedNow)

	snapshot, err := uc.Execute(context.Background())
	assert.Equal(t, err, nil)
	assert.Equal(t, snapshot.TotalPosts, 2)
	assert.Equal(t, snapshot.AverageProcessingTime, 2.0)
}

func TestSuccessRate(t *testing.T) {
	assert.Equal(t, SuccessRate(0, 0), 0.0)
	assert.Equal(t, SuccessRate(10, 2), 80.0)
	assert.Equal(t, SuccessRate(3, 1), 66.7)
	assert.Equal(t, SuccessRate(5, 5), 0.0)
}

func TestAverageProcessingTime_IgnoresAbsent(t *testing.T) {
	one, three := 1.0, 3.0
	posts := []domain.Post{
		{ID: "a", ProcessingTimeSeconds: &one},
		{ID: "b"},
		{ID: "c", ProcessingTimeSeconds: &three},
	}
	assert.Equal(t, AverageProcessingTime(posts), 2.0)
	assert.Equal(t, AverageProcessingTime([]domain.Post{{ID: "x"}}), 0.0)
}

func TestBucketByHour(t *testing.T) {
	day := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	posts := []domain.Post{
		postAt("c", day.Add(11*time.Hour+2*time.Minute), false),
		postAt("a", day.Add(10*time.Hour+15*time.Minute), false),
		postAt("b", day.Add(10*time.Hour+47*time.Minute), true),
		{ID: "no-time"},
	}

	series := BucketByHour(posts, 50)

	assert.Equal(t, len(series), 2)
	assert.Equal(t, series[0].Hour.Equal(day.Add(10*time.Hour)), true)
	assert.Equal(t, series[0].Total, 2)
	assert.Equal(t, series[0].Successful, 1)
	assert.Equal(t, series[0].SuccessfulApprox, 1.0)
	assert.Equal(t, series[1].Hour.Equal(day.Add(11*time.Hour)), true)
	assert.Equal(t, series[1].Total, 1)
	assert.Equal(t, series[1].SuccessfulApprox, 0.5)
}

func TestRecentErrors_LimitedAndNewestFirst(t *testing.T) {
	failedPosts := make([]domain.Post, 0, 7)
	for i := 0; i < 7; i++ {
		p := postAt(fmt.Sprintf("e%d", i), statsNow.Add(time.Duration(i)*time.Minute), true)
		p.ErrorMessage = "timeout"
		p.ErrorType = "info"
		failedPosts = append(failedPosts, p)
	}
	failedPosts = append(failedPosts, postAt("not-failed", statsNow.Add(time.Hour), false))

	feed := RecentErrors(failedPosts, 5)

	assert.Equal(t, len(feed), 5)
	assert.Equal(t, feed[0].ID, "e6")
	assert.Equal(t, feed[4].ID, "e2")
	for i := 1; i < len(feed); i++ {
		assert.Equal(t, feed[i-1].Timestamp.After(feed[i].Timestamp), true)
	}
	assert.Equal(t, feed[0].Severity, domain.SeverityInfo)
	assert.Equal(t, feed[0].Message, "timeout")
}

func TestLatestPost_TieBreaksByID(t *testing.T) {
	posts := []domain.Post{
		postAt("a", statsNow, false),
		postAt("b", statsNow, true),
		postAt("c", statsNow.Add(-time.Minute), false),
	}
	latest, ok := LatestPost(posts)
	assert.Equal(t, ok, true)
	assert.Equal(t, latest.ID, "b")

	_, ok = LatestPost(nil)
	assert.Equal(t, ok, false)
}
