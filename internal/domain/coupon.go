package domain

import (
	"context"
	"time"
)

type CouponStatus string

const (
	CouponActive  CouponStatus = "active"
	CouponUsed    CouponStatus = "used"
	CouponExpired CouponStatus = "expired"
)

type Coupon struct {
	ID              string
	ActivityID      string
	UserID          string
	GroupInstanceID string
	Code            string
	Status          CouponStatus
	ClaimedAt       time.Time
	UsedAt          *time.Time
	ExpiresAt       time.Time
	IsRead          bool
	LastViewedAt    *time.Time
}

// IsOverdue reports whether an active coupon has outlived its validity window.
func (c *Coupon) IsOverdue(now time.Time) bool {
	return c.Status == CouponActive && !now.Before(c.ExpiresAt)
}

// ClaimParams carries one claim attempt. Per-user limit and stock are read
// from the activity row while it is locked, not from the caller.
type ClaimParams struct {
	ActivityID string
	UserID     string
	ExpiresAt  time.Time
	Now        time.Time
	NewID      func() string
	NewCode    func() string
}

type CouponRepository interface {
	ClaimCoupon(ctx context.Context, params ClaimParams) (*Coupon, error)
	GetCouponByID(ctx context.Context, couponID string) (*Coupon, error)
	GetCouponByCode(ctx context.Context, code string) (*Coupon, error)
	GetCouponsByUserID(ctx context.Context, userID string) ([]*Coupon, error)
	MarkAllRead(ctx context.Context, userID string, at time.Time) (int64, error)
	ExpireCoupon(ctx context.Context, couponID string, now time.Time) (bool, error)
	ExpireOverdueCoupons(ctx context.Context, now time.Time) (int64, error)
}

// CodeGenerator yields candidate redemption codes. Collisions are possible and
// surface as ErrDuplicateCode from the repositories.
type CodeGenerator interface {
	NewCode() string
}
