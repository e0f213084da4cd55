package domain

import (
	"strings"
	"time"
)

// FreshnessNever показывается, если за последние сутки не было ни одного поста.
const FreshnessNever = "Never"

// Severity - тег важности ошибки в ленте последних ошибок.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// ParseSeverity сводит свободный error_type к закрытому набору тегов.
// Неизвестные и пустые значения считаются ошибкой.
func ParseSeverity(errorType string) Severity {
	switch Severity(strings.ToLower(strings.TrimSpace(errorType))) {
	case SeverityWarning:
		return SeverityWarning
	case SeverityInfo:
		return SeverityInfo
	default:
		return SeverityError
	}
}

// HourlyBucket - один час в истории обработки.
type HourlyBucket struct {
	Hour             time.Time
	Total            int
	SuccessfulApprox float64 // оценка по глобальному success rate
	Successful       int     // точное число успешных постов в этом часе
}

// RecentError - элемент ленты последних ошибок.
type RecentError struct {
	ID        string
	Message   string
	Timestamp time.Time
	Severity  Severity
	ErrorType string
}

// StatsSnapshot - операционная статистика, пересчитывается целиком на каждый запрос.
type StatsSnapshot struct {
	TotalPosts            int
	FailedPosts           int
	SuccessRate           float64
	AverageProcessingTime float64
	PostsLastDay          int
	LastScrapeTime        *time.Time
	ScrapeSuccess         bool
	HourlySeries          []HourlyBucket
	RecentErrors          []RecentError
	GeneratedAt           time.Time
}

// Freshness - подпись для "последнего скрейпа".
func (s StatsSnapshot) Freshness() string {
	if s.LastScrapeTime == nil {
		return FreshnessNever
	}
	return s.LastScrapeTime.UTC().Format(time.RFC3339)
}

// DailyCount - количество постов за календарный день (UTC).
type DailyCount struct {
	Date   string // YYYY-MM-DD
	Total  int
	Failed int
}
