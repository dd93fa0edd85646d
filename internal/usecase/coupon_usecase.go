package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/LavaJover/shvark-activity-service/internal/domain"
	"github.com/LavaJover/shvark-activity-service/internal/infrastructure/metrics"
	"github.com/google/uuid"
)

type CouponUsecase interface {
	ClaimCoupon(ctx context.Context, activityID, userID string) (*domain.Coupon, error)
	MarkRead(ctx context.Context, userID string) (int64, error)
	ExpireCoupon(ctx context.Context, couponID string) (*domain.Coupon, error)
	GetUserCoupons(ctx context.Context, userID string) ([]*domain.Coupon, error)
	ExpireOverdueCoupons(ctx context.Context) (int64, error)
}

type DefaultCouponUsecase struct {
	CouponRepo   domain.CouponRepository
	ActivityRepo domain.ActivityRepository
	Codes        domain.CodeGenerator
	Dispatcher   domain.NotificationDispatcher
	Metrics      *metrics.EngineMetrics
	CodeAttempts int
	Clock        func() time.Time
}

func NewDefaultCouponUsecase(
	couponRepo domain.CouponRepository,
	activityRepo domain.ActivityRepository,
	codes domain.CodeGenerator,
	dispatcher domain.NotificationDispatcher,
	engineMetrics *metrics.EngineMetrics,
	codeAttempts int,
) *DefaultCouponUsecase {
	return &DefaultCouponUsecase{
		CouponRepo:   couponRepo,
		ActivityRepo: activityRepo,
		Codes:        codes,
		Dispatcher:   dispatcher,
		Metrics:      engineMetrics,
		CodeAttempts: codeAttempts,
		Clock:        utcNow,
	}
}

func (uc *DefaultCouponUsecase) ClaimCoupon(ctx context.Context, activityID, userID string) (*domain.Coupon, error) {
	start := time.Now()
	coupon, err := uc.claimCoupon(ctx, activityID, userID)
	uc.recordClaim(time.Since(start), err)
	return coupon, err
}

func (uc *DefaultCouponUsecase) claimCoupon(ctx context.Context, activityID, userID string) (*domain.Coupon, error) {
	if strings.TrimSpace(activityID) == "" || strings.TrimSpace(userID) == "" {
		return nil, domain.ErrInvalidArgument
	}

	activity, err := uc.ActivityRepo.GetActivityByID(ctx, activityID)
	if err != nil {
		return nil, err
	}
	if activity.Type != domain.ActivityTypeCoupon {
		return nil, domain.ErrActivityTypeMismatch
	}

	now := uc.Clock()
	if !activity.IsClaimableAt(now) {
		return nil, domain.ErrActivityNotClaimable
	}

	var coupon *domain.Coupon
	err = withCodeRetry(uc.CodeAttempts, uc.recordCollision, func() error {
		var claimErr error
		coupon, claimErr = uc.CouponRepo.ClaimCoupon(ctx, domain.ClaimParams{
			ActivityID: activityID,
			UserID:     userID,
			ExpiresAt:  activity.EndAt,
			Now:        now,
			NewID:      uuid.NewString,
			NewCode:    uc.Codes.NewCode,
		})
		return claimErr
	})
	if err != nil {
		if errors.Is(err, domain.ErrCodeGenerationExhausted) {
			slog.Error("coupon claim exhausted code attempts", "activity_id", activityID, "user_id", userID)
		}
		return nil, err
	}

	dispatch(uc.Dispatcher, domain.Event{
		Type:       domain.EventCouponClaimed,
		ActivityID: activityID,
		UserIDs:    []string{userID},
		RefID:      coupon.ID,
		Attributes: map[string]string{"code": coupon.Code},
		OccurredAt: now,
	})

	return coupon, nil
}

func (uc *DefaultCouponUsecase) MarkRead(ctx context.Context, userID string) (int64, error) {
	if strings.TrimSpace(userID) == "" {
		return 0, domain.ErrInvalidArgument
	}
	return uc.CouponRepo.MarkAllRead(ctx, userID, uc.Clock())
}

// ExpireCoupon moves an overdue active coupon to expired and returns its
// current state. Calling it on a used, expired or still-valid coupon is a no-op.
func (uc *DefaultCouponUsecase) ExpireCoupon(ctx context.Context, couponID string) (*domain.Coupon, error) {
	if strings.TrimSpace(couponID) == "" {
		return nil, domain.ErrInvalidArgument
	}

	coupon, err := uc.CouponRepo.GetCouponByID(ctx, couponID)
	if err != nil {
		return nil, err
	}
	if !coupon.IsOverdue(uc.Clock()) {
		return coupon, nil
	}

	changed, err := uc.CouponRepo.ExpireCoupon(ctx, couponID, uc.Clock())
	if err != nil {
		return nil, err
	}
	if changed {
		uc.recordExpired(1)
	}
	return uc.CouponRepo.GetCouponByID(ctx, couponID)
}

// GetUserCoupons lists the user's coupons, expiring overdue ones on the way.
func (uc *DefaultCouponUsecase) GetUserCoupons(ctx context.Context, userID string) ([]*domain.Coupon, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, domain.ErrInvalidArgument
	}

	coupons, err := uc.CouponRepo.GetCouponsByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := uc.Clock()
	for i, c := range coupons {
		if !c.IsOverdue(now) {
			continue
		}
		changed, err := uc.CouponRepo.ExpireCoupon(ctx, c.ID, now)
		if err != nil {
			return nil, err
		}
		if changed {
			uc.recordExpired(1)
			c.Status = domain.CouponExpired
			continue
		}
		// lost a race with a redemption or another sweep
		fresh, err := uc.CouponRepo.GetCouponByID(ctx, c.ID)
		if err != nil {
			return nil, err
		}
		coupons[i] = fresh
	}
	return coupons, nil
}

func (uc *DefaultCouponUsecase) ExpireOverdueCoupons(ctx context.Context) (int64, error) {
	n, err := uc.CouponRepo.ExpireOverdueCoupons(ctx, uc.Clock())
	if err != nil {
		return 0, err
	}
	if n > 0 {
		uc.recordExpired(n)
		slog.Info("expired overdue coupons", "count", n)
	}
	return n, nil
}

func (uc *DefaultCouponUsecase) recordClaim(elapsed time.Duration, err error) {
	if uc.Metrics == nil {
		return
	}
	uc.Metrics.RecordDuration("claim_coupon", elapsed.Seconds(), err)
	if err != nil {
		uc.Metrics.RecordClaimRejected(reasonLabel(err))
		return
	}
	uc.Metrics.RecordCouponClaimed("claim")
}

func (uc *DefaultCouponUsecase) recordCollision() {
	if uc.Metrics == nil {
		return
	}
	uc.Metrics.RecordCodeCollision()
}

func (uc *DefaultCouponUsecase) recordExpired(n int64) {
	if uc.Metrics == nil {
		return
	}
	uc.Metrics.RecordCouponsExpired(n)
}
