package repository

import (
	"context"

	"github.com/LavaJover/shvark-activity-service/internal/domain"
	"github.com/LavaJover/shvark-activity-service/internal/infrastructure/postgres/mappers"
	"github.com/LavaJover/shvark-activity-service/internal/infrastructure/postgres/models"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type DefaultStoreRepository struct {
	DB *gorm.DB
}

func NewDefaultStoreRepository(db *gorm.DB) *DefaultStoreRepository {
	return &DefaultStoreRepository{DB: db}
}

func (r *DefaultStoreRepository) GetStoresByActivityID(ctx context.Context, activityID string) ([]*domain.Store, error) {
	var list []models.StoreModel
	if err := r.DB.WithContext(ctx).
		Model(&models.StoreModel{}).
		Joins("JOIN activity_stores ON activity_stores.store_id = stores.id").
		Where("activity_stores.activity_id = ?", activityID).
		Where("stores.enabled = ? AND stores.status = ?", true, domain.StoreActive).
		Order("stores.weight DESC, stores.name ASC").
		Find(&list).Error; err != nil {
		return nil, errors.Wrap(err, "get activity stores")
	}

	stores := make([]*domain.Store, len(list))
	for i := range list {
		stores[i] = mappers.ToDomainStore(&list[i])
	}
	return stores, nil
}

// GetStoreIDsByActivityID returns the raw mapping regardless of store status.
func (r *DefaultStoreRepository) GetStoreIDsByActivityID(ctx context.Context, activityID string) ([]string, error) {
	var ids []string
	if err := r.DB.WithContext(ctx).
		Model(&models.ActivityStoreModel{}).
		Where("activity_id = ?", activityID).
		Pluck("store_id", &ids).Error; err != nil {
		return nil, errors.Wrap(err, "get activity store ids")
	}
	return ids, nil
}
