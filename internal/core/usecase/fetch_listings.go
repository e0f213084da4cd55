package usecase

import (
	"context"
	"rental-dashboard/internal/contextkeys"
	"rental-dashboard/internal/core/domain"
	"rental-dashboard/internal/core/port"
)

type FetchListingsUseCase struct {
	reader          postReader
	defaultWindow   int
	defaultPageSize int
}

func NewFetchListingsUseCase(store port.DocumentStorePort, validator port.ShapeValidatorPort, collection string, window, pageSize int) *FetchListingsUseCase {
	return &FetchListingsUseCase{
		reader:          postReader{store: store, validator: validator, collection: collection},
		defaultWindow:   window,
		defaultPageSize: pageSize,
	}
}

// FetchListings читает window самых свежих постов и фильтрует их в памяти.
// Кеша нет: каждый вызов заново читает хранилище.
func (uc *FetchListingsUseCase) FetchListings(ctx context.Context, window int, filters domain.ListingFilters) ([]domain.Post, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	if window <= 0 {
		window = uc.defaultWindow
	}

	posts, err := uc.reader.read(ctx, domain.DocumentQuery{
		OrderBy: recentFirst(),
		Limit:   window,
	}, logger)
	if err != nil {
		return nil, err
	}

	filtered := FilterListings(posts, filters)
	logger.Debug("Listings filtered", port.Fields{
		"fetched":  len(posts),
		"filtered": len(filtered),
	})
	return filtered, nil
}

func (uc *FetchListingsUseCase) Execute(ctx context.Context, req domain.ListingsRequest) (*domain.ListingPage, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	pageSize := req.PageSize
	if pageSize <= 0 {
		pageSize = uc.defaultPageSize
	}

	ucLogger := logger.WithFields(port.Fields{
		"use_case":      "FetchListings",
		"window":        req.Window,
		"page":          req.Page,
		"page_size":     pageSize,
		"property_type": req.Filters.PropertyType,
		"search":        req.Filters.Search,
	})
	if req.Filters.Price != nil {
		ucLogger = ucLogger.WithFields(port.Fields{"price_range": req.Filters.Price.String()})
	}

	ucLogger.Info("Use case started", nil)

	filtered, err := uc.FetchListings(contextkeys.ContextWithLogger(ctx, ucLogger), req.Window, req.Filters)
	if err != nil {
		ucLogger.Error("Storage returned an error", err, nil)
		return nil, err
	}

	page := Paginate(filtered, req.Page, pageSize)

	ucLogger.Info("Use case finished successfully", port.Fields{
		"total_filtered": page.TotalFiltered,
		"items_on_page":  len(page.Items),
		"page_count":     page.PageCount,
	})
	return &page, nil
}
