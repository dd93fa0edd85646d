package usecase

import (
	"context"
	"strings"

	"github.com/LavaJover/shvark-activity-service/internal/domain"
)

type ActivityUsecase interface {
	GetActivityStats(ctx context.Context, activityID string) (*domain.ActivityStats, error)
}

type DefaultActivityUsecase struct {
	ActivityRepo domain.ActivityRepository
}

func NewDefaultActivityUsecase(activityRepo domain.ActivityRepository) *DefaultActivityUsecase {
	return &DefaultActivityUsecase{ActivityRepo: activityRepo}
}

func (uc *DefaultActivityUsecase) GetActivityStats(ctx context.Context, activityID string) (*domain.ActivityStats, error) {
	if strings.TrimSpace(activityID) == "" {
		return nil, domain.ErrInvalidArgument
	}
	if _, err := uc.ActivityRepo.GetActivityByID(ctx, activityID); err != nil {
		return nil, err
	}
	return uc.ActivityRepo.GetActivityStats(ctx, activityID)
}
