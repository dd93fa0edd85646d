package repository

import (
	"context"

	"github.com/LavaJover/shvark-activity-service/internal/domain"
	"github.com/LavaJover/shvark-activity-service/internal/infrastructure/postgres/mappers"
	"github.com/LavaJover/shvark-activity-service/internal/infrastructure/postgres/models"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type DefaultIdentityRepository struct {
	DB *gorm.DB
}

func NewDefaultIdentityRepository(db *gorm.DB) *DefaultIdentityRepository {
	return &DefaultIdentityRepository{DB: db}
}

func (r *DefaultIdentityRepository) GetUserByID(ctx context.Context, userID string) (*domain.User, error) {
	var model models.UserModel
	if err := r.DB.WithContext(ctx).First(&model, "id = ?", userID).Error; err != nil {
		if isNotFound(err) {
			return nil, domain.ErrUserNotFound
		}
		return nil, errors.Wrap(err, "get user")
	}
	return mappers.ToDomainUser(&model), nil
}

func (r *DefaultIdentityRepository) GetUserByLineID(ctx context.Context, lineUserID string) (*domain.User, error) {
	var model models.UserModel
	if err := r.DB.WithContext(ctx).First(&model, "line_user_id = ?", lineUserID).Error; err != nil {
		if isNotFound(err) {
			return nil, domain.ErrUserNotFound
		}
		return nil, errors.Wrap(err, "get user by line id")
	}
	return mappers.ToDomainUser(&model), nil
}

func (r *DefaultIdentityRepository) GetStaffAuthorization(ctx context.Context, storeID, userID string) (*domain.StoreStaffAuthorization, error) {
	var model models.StoreStaffModel
	if err := r.DB.WithContext(ctx).First(&model, "store_id = ? AND user_id = ?", storeID, userID).Error; err != nil {
		if isNotFound(err) {
			return nil, domain.ErrStoreUnauthorized
		}
		return nil, errors.Wrap(err, "get staff authorization")
	}
	return &domain.StoreStaffAuthorization{
		StoreID:   model.StoreID,
		UserID:    model.UserID,
		CanVerify: model.CanVerify,
	}, nil
}
