package repository

import (
	"context"
	"testing"
	"time"

	"github.com/LavaJover/shvark-activity-service/internal/domain"
	"github.com/LavaJover/shvark-activity-service/internal/infrastructure/postgres/models"
	"github.com/LavaJover/shvark-activity-service/internal/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

func claimParams(activityID, userID, code string) domain.ClaimParams {
	return domain.ClaimParams{
		ActivityID: activityID,
		UserID:     userID,
		ExpiresAt:  testNow.Add(48 * time.Hour),
		Now:        testNow,
		NewID:      uuid.NewString,
		NewCode:    func() string { return code },
	}
}

func TestCouponRepository_ClaimCoupon(t *testing.T) {
	db := testutil.NewTestDB(t)
	fx := testutil.NewFixtures(t, db, testNow)
	repo := NewDefaultCouponRepository(db)
	ctx := context.Background()

	activity := fx.Activity(domain.ActivityTypeCoupon, testutil.WithPerUserLimit(2), testutil.WithQuantity(3))
	userA, userB := uuid.NewString(), uuid.NewString()

	c1, err := repo.ClaimCoupon(ctx, claimParams(activity.ID, userA, "AAAA0001"))
	require.NoError(t, err)
	assert.Equal(t, domain.CouponActive, c1.Status)
	assert.Equal(t, "AAAA0001", c1.Code)
	assert.Empty(t, c1.GroupInstanceID)

	_, err = repo.ClaimCoupon(ctx, claimParams(activity.ID, userA, "AAAA0002"))
	require.NoError(t, err)

	_, err = repo.ClaimCoupon(ctx, claimParams(activity.ID, userA, "AAAA0003"))
	assert.ErrorIs(t, err, domain.ErrLimitExceeded)

	_, err = repo.ClaimCoupon(ctx, claimParams(activity.ID, userB, "AAAA0001"))
	assert.ErrorIs(t, err, domain.ErrDuplicateCode)

	_, err = repo.ClaimCoupon(ctx, claimParams(activity.ID, userB, "BBBB0001"))
	require.NoError(t, err)

	_, err = repo.ClaimCoupon(ctx, claimParams(activity.ID, userB, "BBBB0002"))
	assert.ErrorIs(t, err, domain.ErrSoldOut)

	var total int64
	require.NoError(t, db.Model(&models.CouponModel{}).Where("activity_id = ?", activity.ID).Count(&total).Error)
	assert.EqualValues(t, 3, total)
}

func TestCouponRepository_ClaimCoupon_ExpiredDoesNotCountTowardsLimit(t *testing.T) {
	db := testutil.NewTestDB(t)
	fx := testutil.NewFixtures(t, db, testNow)
	repo := NewDefaultCouponRepository(db)

	activity := fx.Activity(domain.ActivityTypeCoupon)
	user := uuid.NewString()
	fx.Coupon(activity.ID, user, "OLD00001", domain.CouponExpired, testNow.Add(-time.Hour))

	_, err := repo.ClaimCoupon(context.Background(), claimParams(activity.ID, user, "NEW00001"))
	require.NoError(t, err)
}

func TestCouponRepository_ClaimCoupon_ZeroPerUserLimitIsUnlimited(t *testing.T) {
	db := testutil.NewTestDB(t)
	fx := testutil.NewFixtures(t, db, testNow)
	repo := NewDefaultCouponRepository(db)
	ctx := context.Background()

	activity := fx.Activity(domain.ActivityTypeCoupon, testutil.WithPerUserLimit(0))

	var stored models.ActivityModel
	require.NoError(t, db.First(&stored, "id = ?", activity.ID).Error)
	assert.Zero(t, stored.PerUserLimit)

	user := uuid.NewString()
	for _, code := range []string{"FREE0001", "FREE0002", "FREE0003"} {
		_, err := repo.ClaimCoupon(ctx, claimParams(activity.ID, user, code))
		require.NoError(t, err)
	}

	var total int64
	require.NoError(t, db.Model(&models.CouponModel{}).Where("user_id = ?", user).Count(&total).Error)
	assert.EqualValues(t, 3, total)
}

func TestCouponRepository_ClaimCoupon_UnknownActivity(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewDefaultCouponRepository(db)

	_, err := repo.ClaimCoupon(context.Background(), claimParams(uuid.NewString(), uuid.NewString(), "XXXX0001"))
	assert.ErrorIs(t, err, domain.ErrActivityNotFound)
}

func TestCouponRepository_Lookups(t *testing.T) {
	db := testutil.NewTestDB(t)
	fx := testutil.NewFixtures(t, db, testNow)
	repo := NewDefaultCouponRepository(db)
	ctx := context.Background()

	activity := fx.Activity(domain.ActivityTypeCoupon)
	user := uuid.NewString()
	seeded := fx.Coupon(activity.ID, user, "LOOK0001", domain.CouponActive, testNow.Add(time.Hour))

	byID, err := repo.GetCouponByID(ctx, seeded.ID)
	require.NoError(t, err)
	assert.Equal(t, "LOOK0001", byID.Code)

	byCode, err := repo.GetCouponByCode(ctx, "LOOK0001")
	require.NoError(t, err)
	assert.Equal(t, seeded.ID, byCode.ID)

	_, err = repo.GetCouponByCode(ctx, "MISSING1")
	assert.ErrorIs(t, err, domain.ErrCodeNotFound)

	_, err = repo.GetCouponByID(ctx, uuid.NewString())
	assert.ErrorIs(t, err, domain.ErrCouponNotFound)

	list, err := repo.GetCouponsByUserID(ctx, user)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestCouponRepository_ExpireCoupon(t *testing.T) {
	db := testutil.NewTestDB(t)
	fx := testutil.NewFixtures(t, db, testNow)
	repo := NewDefaultCouponRepository(db)
	ctx := context.Background()

	activity := fx.Activity(domain.ActivityTypeCoupon)
	overdue := fx.Coupon(activity.ID, uuid.NewString(), "OVER0001", domain.CouponActive, testNow.Add(-time.Minute))
	valid := fx.Coupon(activity.ID, uuid.NewString(), "VALD0001", domain.CouponActive, testNow.Add(time.Hour))
	used := fx.Coupon(activity.ID, uuid.NewString(), "USED0001", domain.CouponUsed, testNow.Add(-time.Minute))

	changed, err := repo.ExpireCoupon(ctx, overdue.ID, testNow)
	require.NoError(t, err)
	assert.True(t, changed)

	changed, err = repo.ExpireCoupon(ctx, overdue.ID, testNow)
	require.NoError(t, err)
	assert.False(t, changed)

	changed, err = repo.ExpireCoupon(ctx, valid.ID, testNow)
	require.NoError(t, err)
	assert.False(t, changed)

	changed, err = repo.ExpireCoupon(ctx, used.ID, testNow)
	require.NoError(t, err)
	assert.False(t, changed)

	got, err := repo.GetCouponByID(ctx, used.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.CouponUsed, got.Status)

	// expiresAt == now is already expired, matching the redeem guard
	boundary := fx.Coupon(activity.ID, uuid.NewString(), "EDGE0001", domain.CouponActive, testNow)
	changed, err = repo.ExpireCoupon(ctx, boundary.ID, testNow)
	require.NoError(t, err)
	assert.True(t, changed)
}

func TestCouponRepository_ExpireOverdueCoupons(t *testing.T) {
	db := testutil.NewTestDB(t)
	fx := testutil.NewFixtures(t, db, testNow)
	repo := NewDefaultCouponRepository(db)

	activity := fx.Activity(domain.ActivityTypeCoupon)
	fx.Coupon(activity.ID, uuid.NewString(), "SWEP0001", domain.CouponActive, testNow.Add(-2*time.Hour))
	fx.Coupon(activity.ID, uuid.NewString(), "SWEP0002", domain.CouponActive, testNow)
	fx.Coupon(activity.ID, uuid.NewString(), "SWEP0003", domain.CouponActive, testNow.Add(time.Hour))

	n, err := repo.ExpireOverdueCoupons(context.Background(), testNow)
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	n, err = repo.ExpireOverdueCoupons(context.Background(), testNow)
	require.NoError(t, err)
	assert.EqualValues(t, 0, n)
}

func TestCouponRepository_MarkAllRead(t *testing.T) {
	db := testutil.NewTestDB(t)
	fx := testutil.NewFixtures(t, db, testNow)
	repo := NewDefaultCouponRepository(db)
	ctx := context.Background()

	activity := fx.Activity(domain.ActivityTypeCoupon)
	user := uuid.NewString()
	fx.Coupon(activity.ID, user, "READ0001", domain.CouponActive, testNow.Add(time.Hour))
	fx.Coupon(activity.ID, user, "READ0002", domain.CouponUsed, testNow.Add(time.Hour))
	fx.Coupon(activity.ID, uuid.NewString(), "READ0003", domain.CouponActive, testNow.Add(time.Hour))

	n, err := repo.MarkAllRead(ctx, user, testNow)
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	list, err := repo.GetCouponsByUserID(ctx, user)
	require.NoError(t, err)
	for _, c := range list {
		assert.True(t, c.IsRead)
		require.NotNil(t, c.LastViewedAt)
		assert.True(t, c.LastViewedAt.Equal(testNow))
	}
}
