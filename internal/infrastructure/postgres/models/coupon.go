package models

import (
	"time"

	"github.com/LavaJover/shvark-activity-service/internal/domain"
)

type CouponModel struct {
	ID              string              `gorm:"primaryKey;type:uuid"`
	ActivityID      string              `gorm:"type:uuid;not null;index:idx_coupon_activity_user"`
	UserID          string              `gorm:"type:uuid;not null;index:idx_coupon_activity_user;index:idx_coupon_user"`
	GroupInstanceID *string             `gorm:"type:uuid;index"`
	Code            string              `gorm:"type:varchar(16);not null;uniqueIndex"`
	Status          domain.CouponStatus `gorm:"type:varchar(16);not null;index:idx_coupon_status_expires"`
	ClaimedAt       time.Time           `gorm:"not null"`
	UsedAt          *time.Time
	ExpiresAt       time.Time `gorm:"not null;index:idx_coupon_status_expires"`
	IsRead          bool      `gorm:"not null;default:false"`
	LastViewedAt    *time.Time
}

func (CouponModel) TableName() string {
	return "coupons"
}

type RedemptionModel struct {
	ID             string                  `gorm:"primaryKey;type:uuid"`
	ActivityID     string                  `gorm:"type:uuid;not null;index"`
	StoreID        string                  `gorm:"type:uuid;not null;index"`
	StaffID        string                  `gorm:"type:uuid;not null"`
	CouponID       string                  `gorm:"type:uuid;not null;uniqueIndex"`
	Code           string                  `gorm:"type:varchar(16);not null;index"`
	Status         domain.RedemptionStatus `gorm:"type:varchar(16);not null"`
	RedemptionType domain.RedemptionType   `gorm:"type:varchar(16);not null"`
	VerifiedAt     time.Time               `gorm:"not null"`
	CancelReason   string
	CanceledAt     *time.Time
}

func (RedemptionModel) TableName() string {
	return "redemptions"
}
