package domain

import (
	"context"
	"time"
)

type RedemptionStatus string

const (
	RedemptionVerified RedemptionStatus = "verified"
	RedemptionCanceled RedemptionStatus = "canceled"
)

type RedemptionType string

const (
	RedemptionQRScan RedemptionType = "qr_scan"
	RedemptionManual RedemptionType = "manual"
)

type Redemption struct {
	ID             string
	ActivityID     string
	StoreID        string
	StaffID        string
	CouponID       string
	Code           string
	Status         RedemptionStatus
	RedemptionType RedemptionType
	VerifiedAt     time.Time
	CancelReason   string
	CanceledAt     *time.Time
}

// RedeemParams describes the single active->used transition of one coupon.
type RedeemParams struct {
	RedemptionID   string
	CouponID       string
	ActivityID     string
	Code           string
	StoreID        string
	StaffID        string
	RedemptionType RedemptionType
	Now            time.Time
}

type RedemptionRepository interface {
	RedeemCoupon(ctx context.Context, params RedeemParams) (*Redemption, error)
	GetRedemptionByID(ctx context.Context, redemptionID string) (*Redemption, error)
	CancelRedemption(ctx context.Context, redemptionID, reason string, at time.Time) (*Redemption, error)
}
