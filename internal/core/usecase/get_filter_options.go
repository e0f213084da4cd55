package usecase

import (
	"context"
	"rental-dashboard/internal/contextkeys"
	"rental-dashboard/internal/core/domain"
	"rental-dashboard/internal/core/port"
	"sort"
)

type GetFilterOptionsUseCase struct {
	reader postReader
	window int
}

func NewGetFilterOptionsUseCase(store port.DocumentStorePort, validator port.ShapeValidatorPort, collection string, window int) *GetFilterOptionsUseCase {
	return &GetFilterOptionsUseCase{
		reader: postReader{store: store, validator: validator, collection: collection},
		window: window,
	}
}

// Execute собирает варианты фильтров по тому же окну, что видит галерея.
func (uc *GetFilterOptionsUseCase) Execute(ctx context.Context) (*domain.FilterOptions, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{
		"use_case": "GetFilterOptions",
		"window":   uc.window,
	})
	ucLogger.Info("Use case started", nil)

	posts, err := uc.reader.read(ctx, domain.DocumentQuery{
		OrderBy: recentFirst(),
		Limit:   uc.window,
	}, ucLogger)
	if err != nil {
		ucLogger.Error("Storage returned an error", err, nil)
		return nil, err
	}

	options := &domain.FilterOptions{
		PriceRanges: domain.PriceRangePresets,
	}

	seenTypes := make(map[string]struct{})
	for _, p := range posts {
		if !p.IsListable() {
			continue
		}
		options.Count++

		if t := p.ProcessedData.PropertyType; t != "" {
			seenTypes[t] = struct{}{}
		}

		price, ok := p.Price()
		if !ok {
			continue
		}
		if options.MinPrice == nil || price < *options.MinPrice {
			v := price
			options.MinPrice = &v
		}
		if options.MaxPrice == nil || price > *options.MaxPrice {
			v := price
			options.MaxPrice = &v
		}
	}

	types := make([]string, 0, len(seenTypes))
	for t := range seenTypes {
		types = append(types, t)
	}
	sort.Strings(types)
	options.PropertyTypes = append([]string{domain.PropertyTypeAll}, types...)

	ucLogger.Info("Use case finished successfully", port.Fields{
		"listable":       options.Count,
		"property_types": len(types),
	})
	return options, nil
}
