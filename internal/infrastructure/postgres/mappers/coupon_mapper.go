package mappers

import (
	"github.com/LavaJover/shvark-activity-service/internal/domain"
	"github.com/LavaJover/shvark-activity-service/internal/infrastructure/postgres/models"
)

func ToDomainCoupon(model *models.CouponModel) *domain.Coupon {
	coupon := &domain.Coupon{
		ID:           model.ID,
		ActivityID:   model.ActivityID,
		UserID:       model.UserID,
		Code:         model.Code,
		Status:       model.Status,
		ClaimedAt:    model.ClaimedAt,
		UsedAt:       model.UsedAt,
		ExpiresAt:    model.ExpiresAt,
		IsRead:       model.IsRead,
		LastViewedAt: model.LastViewedAt,
	}
	if model.GroupInstanceID != nil {
		coupon.GroupInstanceID = *model.GroupInstanceID
	}
	return coupon
}

func ToGORMCoupon(coupon *domain.Coupon) *models.CouponModel {
	model := &models.CouponModel{
		ID:           coupon.ID,
		ActivityID:   coupon.ActivityID,
		UserID:       coupon.UserID,
		Code:         coupon.Code,
		Status:       coupon.Status,
		ClaimedAt:    coupon.ClaimedAt,
		UsedAt:       coupon.UsedAt,
		ExpiresAt:    coupon.ExpiresAt,
		IsRead:       coupon.IsRead,
		LastViewedAt: coupon.LastViewedAt,
	}
	if coupon.GroupInstanceID != "" {
		instanceID := coupon.GroupInstanceID
		model.GroupInstanceID = &instanceID
	}
	return model
}

func ToDomainCoupons(list []models.CouponModel) []*domain.Coupon {
	coupons := make([]*domain.Coupon, len(list))
	for i := range list {
		coupons[i] = ToDomainCoupon(&list[i])
	}
	return coupons
}

func ToDomainRedemption(model *models.RedemptionModel) *domain.Redemption {
	return &domain.Redemption{
		ID:             model.ID,
		ActivityID:     model.ActivityID,
		StoreID:        model.StoreID,
		StaffID:        model.StaffID,
		CouponID:       model.CouponID,
		Code:           model.Code,
		Status:         model.Status,
		RedemptionType: model.RedemptionType,
		VerifiedAt:     model.VerifiedAt,
		CancelReason:   model.CancelReason,
		CanceledAt:     model.CanceledAt,
	}
}
