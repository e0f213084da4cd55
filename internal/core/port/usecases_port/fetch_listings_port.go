package usecases_port

import (
	"context"
	"rental-dashboard/internal/core/domain"
)

type FetchListingsUseCase interface {
	Execute(ctx context.Context, req domain.ListingsRequest) (*domain.ListingPage, error)
}
