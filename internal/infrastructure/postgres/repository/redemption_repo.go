package repository

import (
	"context"
	"time"

	"github.com/LavaJover/shvark-activity-service/internal/domain"
	"github.com/LavaJover/shvark-activity-service/internal/infrastructure/postgres/mappers"
	"github.com/LavaJover/shvark-activity-service/internal/infrastructure/postgres/models"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type DefaultRedemptionRepository struct {
	DB *gorm.DB
}

func NewDefaultRedemptionRepository(db *gorm.DB) *DefaultRedemptionRepository {
	return &DefaultRedemptionRepository{DB: db}
}

// RedeemCoupon flips the coupon from active to used with a status-guarded
// update and writes the redemption row in the same transaction. Zero affected
// rows means another request won the race.
func (r *DefaultRedemptionRepository) RedeemCoupon(ctx context.Context, params domain.RedeemParams) (*domain.Redemption, error) {
	var created *models.RedemptionModel
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.CouponModel{}).
			Where("id = ? AND status = ? AND expires_at > ?", params.CouponID, domain.CouponActive, params.Now).
			Updates(map[string]interface{}{
				"status":  domain.CouponUsed,
				"used_at": params.Now,
			})
		if res.Error != nil {
			return errors.Wrap(res.Error, "mark coupon used")
		}
		if res.RowsAffected == 0 {
			return domain.ErrAlreadyRedeemed
		}

		model := &models.RedemptionModel{
			ID:             params.RedemptionID,
			ActivityID:     params.ActivityID,
			StoreID:        params.StoreID,
			StaffID:        params.StaffID,
			CouponID:       params.CouponID,
			Code:           params.Code,
			Status:         domain.RedemptionVerified,
			RedemptionType: params.RedemptionType,
			VerifiedAt:     params.Now,
		}
		if err := tx.Create(model).Error; err != nil {
			if isUniqueViolation(err) {
				return domain.ErrAlreadyRedeemed
			}
			return errors.Wrap(err, "insert redemption")
		}
		created = model
		return nil
	})
	if err != nil {
		return nil, err
	}
	return mappers.ToDomainRedemption(created), nil
}

func (r *DefaultRedemptionRepository) GetRedemptionByID(ctx context.Context, redemptionID string) (*domain.Redemption, error) {
	var model models.RedemptionModel
	if err := r.DB.WithContext(ctx).First(&model, "id = ?", redemptionID).Error; err != nil {
		if isNotFound(err) {
			return nil, domain.ErrRedemptionNotFound
		}
		return nil, errors.Wrap(err, "get redemption")
	}
	return mappers.ToDomainRedemption(&model), nil
}

// CancelRedemption annotates a verified redemption as canceled. The coupon
// is left as used.
func (r *DefaultRedemptionRepository) CancelRedemption(ctx context.Context, redemptionID, reason string, at time.Time) (*domain.Redemption, error) {
	var model models.RedemptionModel
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.RedemptionModel{}).
			Where("id = ? AND status = ?", redemptionID, domain.RedemptionVerified).
			Updates(map[string]interface{}{
				"status":        domain.RedemptionCanceled,
				"cancel_reason": reason,
				"canceled_at":   at,
			})
		if res.Error != nil {
			return errors.Wrap(res.Error, "cancel redemption")
		}
		if err := tx.First(&model, "id = ?", redemptionID).Error; err != nil {
			if isNotFound(err) {
				return domain.ErrRedemptionNotFound
			}
			return errors.Wrap(err, "reload redemption")
		}
		if res.RowsAffected == 0 {
			return domain.ErrRedemptionAlreadyCanceled
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return mappers.ToDomainRedemption(&model), nil
}
