package rest

import (
	"rental-dashboard/internal/core/domain"
	"time"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

// ProcessedDataResponse - извлеченные поля объявления.
type ProcessedDataResponse struct {
	Location      string   `json:"location"`
	Price         *float64 `json:"price"`
	NumberOfRooms *int     `json:"numberOfRooms"`
	PropertyType  string   `json:"propertyType"`
	Phone         string   `json:"phone,omitempty"`
}

// PostResponse - DTO для карточки объявления.
type PostResponse struct {
	ID                    string                 `json:"id"`
	Content               string                 `json:"content"`
	Link                  string                 `json:"link,omitempty"`
	ImagesLinks           []string               `json:"imagesLinks"`
	ProcessedAt           *time.Time             `json:"processedAt"`
	ProcessingFailed      bool                   `json:"processingFailed"`
	ProcessingTimeSeconds *float64               `json:"processingTimeSeconds,omitempty"`
	ErrorMessage          string                 `json:"errorMessage,omitempty"`
	ErrorType             string                 `json:"errorType,omitempty"`
	ProcessedData         *ProcessedDataResponse `json:"processedData"`
}

// ListingsResponse - страница галереи.
type ListingsResponse struct {
	Items         []PostResponse `json:"items"`
	Page          int            `json:"page"`
	PageCount     int            `json:"pageCount"`
	TotalFiltered int            `json:"totalFiltered"`
}

type HourlyBucketResponse struct {
	Hour             time.Time `json:"hour"`
	Total            int       `json:"total"`
	SuccessfulApprox float64   `json:"successfulApprox"`
	Successful       int       `json:"successful"`
}

type RecentErrorResponse struct {
	ID        string    `json:"id"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
	Severity  string    `json:"severity"`
	ErrorType string    `json:"errorType,omitempty"`
}

// StatsResponse - снимок операционной статистики.
type StatsResponse struct {
	TotalPosts            int                    `json:"totalPosts"`
	FailedPosts           int                    `json:"failedPosts"`
	SuccessRate           float64                `json:"successRate"`
	AverageProcessingTime float64                `json:"averageProcessingTime"`
	PostsLastDay          int                    `json:"postsLastDay"`
	LastScrapeTime        *time.Time             `json:"lastScrapeTime"`
	ScrapeSuccess         bool                   `json:"scrapeSuccess"`
	Freshness             string                 `json:"freshness"`
	HourlySeries          []HourlyBucketResponse `json:"hourlySeries"`
	RecentErrors          []RecentErrorResponse  `json:"recentErrors"`
	GeneratedAt           time.Time              `json:"generatedAt"`
}

type DailyCountResponse struct {
	Date   string `json:"date"`
	Total  int    `json:"total"`
	Failed int    `json:"failed"`
}

type ProcessingHistoryResponse struct {
	Days    int                  `json:"days"`
	History []DailyCountResponse `json:"history"`
}

type PriceRangeOptionResponse struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

type FilterOptionsResponse struct {
	PriceRanges   []PriceRangeOptionResponse `json:"priceRanges"`
	PropertyTypes []string                   `json:"propertyTypes"`
	MinPrice      *float64                   `json:"minPrice"`
	MaxPrice      *float64                   `json:"maxPrice"`
	Count         int                        `json:"count"`
}

func toPostResponse(p domain.Post) PostResponse {
	resp := PostResponse{
		ID:                    p.ID,
		Content:               p.Content,
		Link:                  p.Link,
		ImagesLinks:           p.ImagesLinks,
		ProcessingFailed:      p.ProcessingFailed,
		ProcessingTimeSeconds: p.ProcessingTimeSeconds,
		ErrorMessage:          p.ErrorMessage,
		ErrorType:             p.ErrorType,
	}
	if resp.ImagesLinks == nil {
		resp.ImagesLinks = []string{}
	}
	if p.HasProcessedAt() {
		ts := p.ProcessedAt
		resp.ProcessedAt = &ts
	}
	if pd := p.ProcessedData; pd != nil {
		resp.ProcessedData = &ProcessedDataResponse{
			Location:      pd.Location,
			Price:         pd.Price,
			NumberOfRooms: pd.NumberOfRooms,
			PropertyType:  pd.PropertyType,
			Phone:         pd.Phone,
		}
	}
	return resp
}

func toListingsResponse(page *domain.ListingPage) ListingsResponse {
	resp := ListingsResponse{
		Items:         make([]PostResponse, len(page.Items)),
		Page:          page.Page,
		PageCount:     page.PageCount,
		TotalFiltered: page.TotalFiltered,
	}
	for i, p := range page.Items {
		resp.Items[i] = toPostResponse(p)
	}
	return resp
}

func toStatsResponse(s *domain.StatsSnapshot) StatsResponse {
	resp := StatsResponse{
		TotalPosts:            s.TotalPosts,
		FailedPosts:           s.FailedPosts,
		SuccessRate:           s.SuccessRate,
		AverageProcessingTime: s.AverageProcessingTime,
		PostsLastDay:          s.PostsLastDay,
		LastScrapeTime:        s.LastScrapeTime,
		ScrapeSuccess:         s.ScrapeSuccess,
		Freshness:             s.Freshness(),
		HourlySeries:          make([]HourlyBucketResponse, len(s.HourlySeries)),
		RecentErrors:          make([]RecentErrorResponse, len(s.RecentErrors)),
		GeneratedAt:           s.GeneratedAt,
	}
	for i, b := range s.HourlySeries {
		resp.HourlySeries[i] = HourlyBucketResponse{
			Hour:             b.Hour,
			Total:            b.Total,
			SuccessfulApprox: b.SuccessfulApprox,
			Successful:       b.Successful,
		}
	}
	for i, e := range s.RecentErrors {
		resp.RecentErrors[i] = RecentErrorResponse{
			ID:        e.ID,
			Message:   e.Message,
			Timestamp: e.Timestamp,
			Severity:  string(e.Severity),
			ErrorType: e.ErrorType,
		}
	}
	return resp
}
