package repository

import (
	"context"

	"github.com/LavaJover/shvark-activity-service/internal/domain"
	"github.com/LavaJover/shvark-activity-service/internal/infrastructure/postgres/mappers"
	"github.com/LavaJover/shvark-activity-service/internal/infrastructure/postgres/models"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type DefaultActivityRepository struct {
	DB *gorm.DB
}

func NewDefaultActivityRepository(db *gorm.DB) *DefaultActivityRepository {
	return &DefaultActivityRepository{DB: db}
}

func (r *DefaultActivityRepository) GetActivityByID(ctx context.Context, activityID string) (*domain.Activity, error) {
	var model models.ActivityModel
	if err := r.DB.WithContext(ctx).First(&model, "id = ?", activityID).Error; err != nil {
		if isNotFound(err) {
			return nil, domain.ErrActivityNotFound
		}
		return nil, errors.Wrap(err, "get activity")
	}
	return mappers.ToDomainActivity(&model), nil
}

func (r *DefaultActivityRepository) GetGroupConfig(ctx context.Context, activityID string) (*domain.GroupConfig, error) {
	var model models.GroupConfigModel
	if err := r.DB.WithContext(ctx).First(&model, "activity_id = ?", activityID).Error; err != nil {
		if isNotFound(err) {
			return nil, domain.ErrGroupConfigMissing
		}
		return nil, errors.Wrap(err, "get group config")
	}
	return mappers.ToDomainGroupConfig(&model), nil
}

// GetPresaleConfig returns nil without error when the activity has no presale config.
func (r *DefaultActivityRepository) GetPresaleConfig(ctx context.Context, activityID string) (*domain.PresaleConfig, error) {
	var model models.PresaleConfigModel
	if err := r.DB.WithContext(ctx).First(&model, "activity_id = ?", activityID).Error; err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "get presale config")
	}
	return mappers.ToDomainPresaleConfig(&model), nil
}

func (r *DefaultActivityRepository) GetActivityStats(ctx context.Context, activityID string) (*domain.ActivityStats, error) {
	stats := &domain.ActivityStats{
		ActivityID: activityID,
		ByStore:    make(map[string]int64),
	}

	type statusAgg struct {
		Status domain.CouponStatus
		Total  int64
	}
	var byStatus []statusAgg
	if err := r.DB.WithContext(ctx).
		Model(&models.CouponModel{}).
		Select("status, COUNT(*) AS total").
		Where("activity_id = ?", activityID).
		Group("status").
		Scan(&byStatus).Error; err != nil {
		return nil, errors.Wrap(err, "coupon status agg")
	}
	for _, row := range byStatus {
		switch row.Status {
		case domain.CouponActive:
			stats.CouponsActive = row.Total
		case domain.CouponUsed:
			stats.CouponsUsed = row.Total
		case domain.CouponExpired:
			stats.CouponsExpired = row.Total
		}
	}

	type storeAgg struct {
		StoreID string
		Total   int64
	}
	var byStore []storeAgg
	if err := r.DB.WithContext(ctx).
		Model(&models.RedemptionModel{}).
		Select("store_id, COUNT(*) AS total").
		Where("activity_id = ? AND status = ?", activityID, domain.RedemptionVerified).
		Group("store_id").
		Scan(&byStore).Error; err != nil {
		return nil, errors.Wrap(err, "redemption store agg")
	}
	for _, row := range byStore {
		stats.ByStore[row.StoreID] = row.Total
		stats.RedemptionsTotal += row.Total
	}

	return stats, nil
}
