package usecases_port

import (
	"context"
	"rental-dashboard/internal/core/domain"
)

type ComputeStatsUseCase interface {
	Execute(ctx context.Context) (*domain.StatsSnapshot, error)
}
