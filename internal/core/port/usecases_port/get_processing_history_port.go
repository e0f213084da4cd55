package usecases_port

import (
	"context"
	"rental-dashboard/internal/core/domain"
)

type GetProcessingHistoryUseCase interface {
	Execute(ctx context.Context, days int) ([]domain.DailyCount, error)
}
