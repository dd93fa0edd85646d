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

type RedemptionUsecase interface {
	RedeemByScan(ctx context.Context, code, staffLineID, storeID string) (*domain.Redemption, error)
	RedeemManual(ctx context.Context, code, storeID, staffID, lineUserID string) (*domain.Redemption, error)
	CancelRedemption(ctx context.Context, redemptionID, reason string) error
}

type DefaultRedemptionUsecase struct {
	RedemptionRepo domain.RedemptionRepository
	CouponRepo     domain.CouponRepository
	IdentityRepo   domain.IdentityRepository
	StoreRepo      domain.StoreRepository
	Dispatcher     domain.NotificationDispatcher
	Metrics        *metrics.EngineMetrics
	Clock          func() time.Time
}

func NewDefaultRedemptionUsecase(
	redemptionRepo domain.RedemptionRepository,
	couponRepo domain.CouponRepository,
	identityRepo domain.IdentityRepository,
	storeRepo domain.StoreRepository,
	dispatcher domain.NotificationDispatcher,
	engineMetrics *metrics.EngineMetrics,
) *DefaultRedemptionUsecase {
	return &DefaultRedemptionUsecase{
		RedemptionRepo: redemptionRepo,
		CouponRepo:     couponRepo,
		IdentityRepo:   identityRepo,
		StoreRepo:      storeRepo,
		Dispatcher:     dispatcher,
		Metrics:        engineMetrics,
		Clock:          utcNow,
	}
}

// RedeemByScan redeems a code scanned by staff identified by their LINE id.
func (uc *DefaultRedemptionUsecase) RedeemByScan(ctx context.Context, code, staffLineID, storeID string) (*domain.Redemption, error) {
	start := time.Now()
	redemption, err := uc.redeemByScan(ctx, code, staffLineID, storeID)
	uc.recordRedeem(time.Since(start), redemption, err)
	return redemption, err
}

func (uc *DefaultRedemptionUsecase) redeemByScan(ctx context.Context, code, staffLineID, storeID string) (*domain.Redemption, error) {
	if strings.TrimSpace(code) == "" || strings.TrimSpace(staffLineID) == "" || strings.TrimSpace(storeID) == "" {
		return nil, domain.ErrInvalidArgument
	}

	staff, err := uc.IdentityRepo.GetUserByLineID(ctx, staffLineID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrStaffUnauthorized
		}
		return nil, err
	}

	return uc.redeem(ctx, staff, normalizeCode(code), storeID, domain.RedemptionQRScan, "")
}

// RedeemManual redeems a code typed in by staff. When lineUserID is set the
// coupon must belong to that customer.
func (uc *DefaultRedemptionUsecase) RedeemManual(ctx context.Context, code, storeID, staffID, lineUserID string) (*domain.Redemption, error) {
	start := time.Now()
	redemption, err := uc.redeemManual(ctx, code, storeID, staffID, lineUserID)
	uc.recordRedeem(time.Since(start), redemption, err)
	return redemption, err
}

func (uc *DefaultRedemptionUsecase) redeemManual(ctx context.Context, code, storeID, staffID, lineUserID string) (*domain.Redemption, error) {
	if strings.TrimSpace(code) == "" || strings.TrimSpace(staffID) == "" || strings.TrimSpace(storeID) == "" {
		return nil, domain.ErrInvalidArgument
	}

	staff, err := uc.IdentityRepo.GetUserByID(ctx, staffID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrStaffUnauthorized
		}
		return nil, err
	}

	return uc.redeem(ctx, staff, normalizeCode(code), storeID, domain.RedemptionManual, strings.TrimSpace(lineUserID))
}

func (uc *DefaultRedemptionUsecase) redeem(
	ctx context.Context,
	staff *domain.User,
	code, storeID string,
	redemptionType domain.RedemptionType,
	ownerLineID string,
) (*domain.Redemption, error) {
	if staff.Role != domain.RoleStaff {
		return nil, domain.ErrStaffUnauthorized
	}

	auth, err := uc.IdentityRepo.GetStaffAuthorization(ctx, storeID, staff.ID)
	if err != nil {
		return nil, err
	}
	if !auth.CanVerify {
		return nil, domain.ErrStoreUnauthorized
	}

	coupon, err := uc.CouponRepo.GetCouponByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if coupon.Status != domain.CouponActive {
		return nil, domain.ErrCodeNotActive
	}

	now := uc.Clock()
	if coupon.IsOverdue(now) {
		if _, err := uc.CouponRepo.ExpireCoupon(ctx, coupon.ID, now); err != nil {
			slog.Error("failed to expire overdue coupon", "coupon_id", coupon.ID, "error", err)
		}
		return nil, domain.ErrCouponExpired
	}

	if ownerLineID != "" {
		owner, err := uc.IdentityRepo.GetUserByID(ctx, coupon.UserID)
		if err != nil {
			if errors.Is(err, domain.ErrUserNotFound) {
				return nil, domain.ErrCouponOwnerMismatch
			}
			return nil, err
		}
		if owner.LineUserID != ownerLineID {
			return nil, domain.ErrCouponOwnerMismatch
		}
	}

	storeIDs, err := uc.StoreRepo.GetStoreIDsByActivityID(ctx, coupon.ActivityID)
	if err != nil {
		return nil, err
	}
	if len(storeIDs) > 0 && !containsString(storeIDs, storeID) {
		return nil, domain.ErrStoreNotInActivity
	}

	redemption, err := uc.RedemptionRepo.RedeemCoupon(ctx, domain.RedeemParams{
		RedemptionID:   uuid.NewString(),
		CouponID:       coupon.ID,
		ActivityID:     coupon.ActivityID,
		Code:           coupon.Code,
		StoreID:        storeID,
		StaffID:        staff.ID,
		RedemptionType: redemptionType,
		Now:            now,
	})
	if err != nil {
		return nil, err
	}

	dispatch(uc.Dispatcher, domain.Event{
		Type:       domain.EventRedemptionSucceeded,
		ActivityID: coupon.ActivityID,
		UserIDs:    []string{coupon.UserID},
		RefID:      redemption.ID,
		Attributes: map[string]string{
			"code":     coupon.Code,
			"store_id": storeID,
			"type":     string(redemptionType),
		},
		OccurredAt: now,
	})

	return redemption, nil
}

// CancelRedemption voids a verified redemption. The coupon stays used.
func (uc *DefaultRedemptionUsecase) CancelRedemption(ctx context.Context, redemptionID, reason string) error {
	reason = strings.TrimSpace(reason)
	if strings.TrimSpace(redemptionID) == "" || reason == "" {
		return domain.ErrInvalidArgument
	}

	redemption, err := uc.RedemptionRepo.CancelRedemption(ctx, redemptionID, reason, uc.Clock())
	if err != nil {
		return err
	}

	slog.Info("redemption canceled", "redemption_id", redemption.ID, "coupon_id", redemption.CouponID, "reason", reason)
	if uc.Metrics != nil {
		uc.Metrics.RecordRedemptionCanceled()
	}
	return nil
}

func (uc *DefaultRedemptionUsecase) recordRedeem(elapsed time.Duration, redemption *domain.Redemption, err error) {
	if uc.Metrics == nil {
		return
	}
	uc.Metrics.RecordDuration("redeem", elapsed.Seconds(), err)
	if err != nil {
		uc.Metrics.RecordRedemptionRejected(reasonLabel(err))
		return
	}
	uc.Metrics.RecordRedemption(redemption.StoreID, string(redemption.RedemptionType))
}
