package repository

import (
	"context"
	"time"

	"github.com/LavaJover/shvark-activity-service/internal/domain"
	"github.com/LavaJover/shvark-activity-service/internal/infrastructure/postgres/mappers"
	"github.com/LavaJover/shvark-activity-service/internal/infrastructure/postgres/models"
	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type DefaultCouponRepository struct {
	DB *gorm.DB
}

func NewDefaultCouponRepository(db *gorm.DB) *DefaultCouponRepository {
	return &DefaultCouponRepository{DB: db}
}

// ClaimCoupon locks the activity row so concurrent claims for the same
// activity serialize on the limit and stock checks.
func (r *DefaultCouponRepository) ClaimCoupon(ctx context.Context, params domain.ClaimParams) (*domain.Coupon, error) {
	var created *models.CouponModel
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var activity models.ActivityModel
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&activity, "id = ?", params.ActivityID).Error; err != nil {
			if isNotFound(err) {
				return domain.ErrActivityNotFound
			}
			return errors.Wrap(err, "lock activity")
		}

		if activity.PerUserLimit > 0 {
			var owned int64
			if err := tx.Model(&models.CouponModel{}).
				Where("activity_id = ? AND user_id = ?", params.ActivityID, params.UserID).
				Where("status IN ?", []domain.CouponStatus{domain.CouponActive, domain.CouponUsed}).
				Count(&owned).Error; err != nil {
				return errors.Wrap(err, "count user coupons")
			}
			if owned >= activity.PerUserLimit {
				return domain.ErrLimitExceeded
			}
		}

		if activity.Quantity > 0 {
			var issued int64
			if err := tx.Model(&models.CouponModel{}).
				Where("activity_id = ?", params.ActivityID).
				Count(&issued).Error; err != nil {
				return errors.Wrap(err, "count issued coupons")
			}
			if issued >= activity.Quantity {
				return domain.ErrSoldOut
			}
		}

		model := &models.CouponModel{
			ID:         params.NewID(),
			ActivityID: params.ActivityID,
			UserID:     params.UserID,
			Code:       params.NewCode(),
			Status:     domain.CouponActive,
			ClaimedAt:  params.Now,
			ExpiresAt:  params.ExpiresAt,
		}
		if err := tx.Create(model).Error; err != nil {
			if isUniqueViolation(err) {
				return domain.ErrDuplicateCode
			}
			return errors.Wrap(err, "insert coupon")
		}
		created = model
		return nil
	})
	if err != nil {
		return nil, err
	}
	return mappers.ToDomainCoupon(created), nil
}

func (r *DefaultCouponRepository) GetCouponByID(ctx context.Context, couponID string) (*domain.Coupon, error) {
	var model models.CouponModel
	if err := r.DB.WithContext(ctx).First(&model, "id = ?", couponID).Error; err != nil {
		if isNotFound(err) {
			return nil, domain.ErrCouponNotFound
		}
		return nil, errors.Wrap(err, "get coupon by id")
	}
	return mappers.ToDomainCoupon(&model), nil
}

func (r *DefaultCouponRepository) GetCouponByCode(ctx context.Context, code string) (*domain.Coupon, error) {
	var model models.CouponModel
	if err := r.DB.WithContext(ctx).First(&model, "code = ?", code).Error; err != nil {
		if isNotFound(err) {
			return nil, domain.ErrCodeNotFound
		}
		return nil, errors.Wrap(err, "get coupon by code")
	}
	return mappers.ToDomainCoupon(&model), nil
}

func (r *DefaultCouponRepository) GetCouponsByUserID(ctx context.Context, userID string) ([]*domain.Coupon, error) {
	var list []models.CouponModel
	if err := r.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("claimed_at DESC").
		Find(&list).Error; err != nil {
		return nil, errors.Wrap(err, "get user coupons")
	}
	return mappers.ToDomainCoupons(list), nil
}

func (r *DefaultCouponRepository) MarkAllRead(ctx context.Context, userID string, at time.Time) (int64, error) {
	res := r.DB.WithContext(ctx).
		Model(&models.CouponModel{}).
		Where("user_id = ?", userID).
		Updates(map[string]interface{}{
			"is_read":        true,
			"last_viewed_at": at,
		})
	if res.Error != nil {
		return 0, errors.Wrap(res.Error, "mark coupons read")
	}
	return res.RowsAffected, nil
}

// ExpireCoupon moves one active coupon to expired once its expiry has passed.
// It reports false when nothing changed, which includes used coupons.
func (r *DefaultCouponRepository) ExpireCoupon(ctx context.Context, couponID string, now time.Time) (bool, error) {
	res := r.DB.WithContext(ctx).
		Model(&models.CouponModel{}).
		Where("id = ? AND status = ? AND expires_at <= ?", couponID, domain.CouponActive, now).
		Update("status", domain.CouponExpired)
	if res.Error != nil {
		return false, errors.Wrap(res.Error, "expire coupon")
	}
	return res.RowsAffected > 0, nil
}

func (r *DefaultCouponRepository) ExpireOverdueCoupons(ctx context.Context, now time.Time) (int64, error) {
	res := r.DB.WithContext(ctx).
		Model(&models.CouponModel{}).
		Where("status = ? AND expires_at <= ?", domain.CouponActive, now).
		Update("status", domain.CouponExpired)
	if res.Error != nil {
		return 0, errors.Wrap(res.Error, "expire overdue coupons")
	}
	return res.RowsAffected, nil
}
