package usecase

import (
	"context"
	"strings"

	"github.com/LavaJover/shvark-activity-service/internal/domain"
	"github.com/LavaJover/shvark-activity-service/internal/geo"
)

type StoreUsecase interface {
	NearbyStores(ctx context.Context, activityID string, lat, lng *float64, limit int) ([]*domain.NearbyStore, error)
}

type DefaultStoreUsecase struct {
	StoreRepo    domain.StoreRepository
	ActivityRepo domain.ActivityRepository
	DefaultLimit int
}

func NewDefaultStoreUsecase(storeRepo domain.StoreRepository, activityRepo domain.ActivityRepository, defaultLimit int) *DefaultStoreUsecase {
	if defaultLimit <= 0 || defaultLimit > MaxNearbyLimit {
		defaultLimit = DefaultNearbyLimit
	}
	return &DefaultStoreUsecase{
		StoreRepo:    storeRepo,
		ActivityRepo: activityRepo,
		DefaultLimit: defaultLimit,
	}
}

// NearbyStores returns the activity's participating stores. With a location
// they are ranked by distance; without one they keep the weight order.
func (uc *DefaultStoreUsecase) NearbyStores(ctx context.Context, activityID string, lat, lng *float64, limit int) ([]*domain.NearbyStore, error) {
	if strings.TrimSpace(activityID) == "" {
		return nil, domain.ErrInvalidArgument
	}
	if (lat == nil) != (lng == nil) {
		return nil, domain.ErrInvalidArgument
	}
	if lat != nil && !geo.ValidPoint(*lat, *lng) {
		return nil, domain.ErrInvalidArgument
	}

	if limit <= 0 {
		limit = uc.DefaultLimit
	}
	if limit > MaxNearbyLimit {
		limit = MaxNearbyLimit
	}

	if _, err := uc.ActivityRepo.GetActivityByID(ctx, activityID); err != nil {
		return nil, err
	}

	stores, err := uc.StoreRepo.GetStoresByActivityID(ctx, activityID)
	if err != nil {
		return nil, err
	}

	if lat == nil {
		return geo.Unranked(stores, limit), nil
	}
	return geo.RankByDistance(stores, *lat, *lng, limit), nil
}
