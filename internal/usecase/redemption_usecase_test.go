package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/LavaJover/shvark-activity-service/internal/domain"
	"github.com/LavaJover/shvark-activity-service/internal/infrastructure/postgres/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type redeemFixture struct {
	activity *models.ActivityModel
	store    *models.StoreModel
	staff    *models.UserModel
	customer *models.UserModel
	coupon   *domain.Coupon
}

func seedRedeem(t *testing.T, h *harness) *redeemFixture {
	t.Helper()
	f := &redeemFixture{}
	f.activity = h.fx.Activity(domain.ActivityTypeCoupon)
	f.store = h.fx.Store("siam", 13.7465, 100.5348, 0)
	h.fx.MapStore(f.activity.ID, f.store.ID)
	f.staff = h.fx.User("U-staff", domain.RoleStaff)
	h.fx.Staff(f.store.ID, f.staff.ID, true)
	f.customer = h.fx.User("U-customer", domain.RoleCustomer)
	f.coupon = h.fx.Coupon(f.activity.ID, f.customer.ID, "QRCODE23", domain.CouponActive, testNow.Add(24*time.Hour))
	return f
}

func TestRedeemByScan_Succeeds(t *testing.T) {
	h := newHarness(t)
	f := seedRedeem(t, h)

	redemption, err := h.redemptions.RedeemByScan(context.Background(), " qrcode23 ", "U-staff", f.store.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.RedemptionVerified, redemption.Status)
	assert.Equal(t, domain.RedemptionQRScan, redemption.RedemptionType)
	assert.Equal(t, f.staff.ID, redemption.StaffID)
	assert.Equal(t, f.coupon.ID, redemption.CouponID)

	var stored models.CouponModel
	require.NoError(t, h.db.First(&stored, "id = ?", f.coupon.ID).Error)
	assert.Equal(t, domain.CouponUsed, stored.Status)

	events := h.events.OfType(domain.EventRedemptionSucceeded)
	require.Len(t, events, 1)
	assert.Equal(t, []string{f.customer.ID}, events[0].UserIDs)
	assert.Equal(t, f.store.ID, events[0].Attributes["store_id"])
}

func TestRedeemByScan_Authorization(t *testing.T) {
	h := newHarness(t)
	f := seedRedeem(t, h)
	ctx := context.Background()

	_, err := h.redemptions.RedeemByScan(ctx, "QRCODE23", "U-unknown", f.store.ID)
	assert.ErrorIs(t, err, domain.ErrStaffUnauthorized)

	_, err = h.redemptions.RedeemByScan(ctx, "QRCODE23", "U-customer", f.store.ID)
	assert.ErrorIs(t, err, domain.ErrStaffUnauthorized)

	other := h.fx.Store("asok", 13.7370, 100.5603, 0)
	h.fx.MapStore(f.activity.ID, other.ID)
	_, err = h.redemptions.RedeemByScan(ctx, "QRCODE23", "U-staff", other.ID)
	assert.ErrorIs(t, err, domain.ErrStoreUnauthorized)

	readOnly := h.fx.User("U-trainee", domain.RoleStaff)
	h.fx.Staff(f.store.ID, readOnly.ID, false)
	_, err = h.redemptions.RedeemByScan(ctx, "QRCODE23", "U-trainee", f.store.ID)
	assert.ErrorIs(t, err, domain.ErrStoreUnauthorized)

	var stored models.CouponModel
	require.NoError(t, h.db.First(&stored, "id = ?", f.coupon.ID).Error)
	assert.Equal(t, domain.CouponActive, stored.Status)
	assert.Empty(t, h.events.Events())
}

func TestRedeemByScan_CodeStates(t *testing.T) {
	h := newHarness(t)
	f := seedRedeem(t, h)
	ctx := context.Background()

	_, err := h.redemptions.RedeemByScan(ctx, "NOPE2345", "U-staff", f.store.ID)
	assert.ErrorIs(t, err, domain.ErrCodeNotFound)

	_, err = h.redemptions.RedeemByScan(ctx, "QRCODE23", "U-staff", f.store.ID)
	require.NoError(t, err)

	_, err = h.redemptions.RedeemByScan(ctx, "QRCODE23", "U-staff", f.store.ID)
	assert.ErrorIs(t, err, domain.ErrCodeNotActive)

	overdue := h.fx.Coupon(f.activity.ID, f.customer.ID, "LATE2345", domain.CouponActive, testNow.Add(-time.Minute))
	_, err = h.redemptions.RedeemByScan(ctx, "LATE2345", "U-staff", f.store.ID)
	assert.ErrorIs(t, err, domain.ErrCouponExpired)

	var stored models.CouponModel
	require.NoError(t, h.db.First(&stored, "id = ?", overdue.ID).Error)
	assert.Equal(t, domain.CouponExpired, stored.Status)
}

func TestRedeemByScan_StoreNotInActivity(t *testing.T) {
	h := newHarness(t)
	f := seedRedeem(t, h)

	outside := h.fx.Store("outside", 18.7883, 98.9853, 0)
	h.fx.Staff(outside.ID, f.staff.ID, true)

	_, err := h.redemptions.RedeemByScan(context.Background(), "QRCODE23", "U-staff", outside.ID)
	assert.ErrorIs(t, err, domain.ErrStoreNotInActivity)
}

// Runs on the single-connection sqlite DB, so the single winner comes from
// the status-guarded update rather than row locking.
func TestRedeemByScan_ConcurrentSingleWinner(t *testing.T) {
	h := newHarness(t)
	f := seedRedeem(t, h)

	const attempts = 8
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		success int
		errs    []error
	)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := h.redemptions.RedeemByScan(context.Background(), "QRCODE23", "U-staff", f.store.ID)
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				success++
				return
			}
			errs = append(errs, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, success)
	require.Len(t, errs, attempts-1)
	for _, err := range errs {
		assert.True(t, errors.Is(err, domain.ErrAlreadyRedeemed) || errors.Is(err, domain.ErrCodeNotActive), "unexpected error: %v", err)
	}

	var redemptions int64
	require.NoError(t, h.db.Model(&models.RedemptionModel{}).Where("coupon_id = ?", f.coupon.ID).Count(&redemptions).Error)
	assert.EqualValues(t, 1, redemptions)
	assert.Len(t, h.events.OfType(domain.EventRedemptionSucceeded), 1)
}

func TestRedeemManual(t *testing.T) {
	h := newHarness(t)
	f := seedRedeem(t, h)
	ctx := context.Background()

	_, err := h.redemptions.RedeemManual(ctx, "QRCODE23", f.store.ID, f.staff.ID, "U-someone-else")
	assert.ErrorIs(t, err, domain.ErrCouponOwnerMismatch)

	_, err = h.redemptions.RedeemManual(ctx, "QRCODE23", f.store.ID, uuid.NewString(), "")
	assert.ErrorIs(t, err, domain.ErrStaffUnauthorized)

	redemption, err := h.redemptions.RedeemManual(ctx, "QRCODE23", f.store.ID, f.staff.ID, "U-customer")
	require.NoError(t, err)
	assert.Equal(t, domain.RedemptionManual, redemption.RedemptionType)

	_, err = h.redemptions.RedeemManual(ctx, "", f.store.ID, f.staff.ID, "")
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)
}

func TestCancelRedemption_KeepsCouponUsed(t *testing.T) {
	h := newHarness(t)
	f := seedRedeem(t, h)
	ctx := context.Background()

	redemption, err := h.redemptions.RedeemByScan(ctx, "QRCODE23", "U-staff", f.store.ID)
	require.NoError(t, err)

	assert.ErrorIs(t, h.redemptions.CancelRedemption(ctx, redemption.ID, "  "), domain.ErrInvalidArgument)
	require.NoError(t, h.redemptions.CancelRedemption(ctx, redemption.ID, "customer changed mind"))
	assert.ErrorIs(t, h.redemptions.CancelRedemption(ctx, redemption.ID, "again"), domain.ErrRedemptionAlreadyCanceled)

	var stored models.CouponModel
	require.NoError(t, h.db.First(&stored, "id = ?", f.coupon.ID).Error)
	assert.Equal(t, domain.CouponUsed, stored.Status)

	_, err = h.redemptions.RedeemByScan(ctx, "QRCODE23", "U-staff", f.store.ID)
	assert.ErrorIs(t, err, domain.ErrCodeNotActive)
}
