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

func TestActivityRepository_Configs(t *testing.T) {
	db := testutil.NewTestDB(t)
	fx := testutil.NewFixtures(t, db, testNow)
	repo := NewDefaultActivityRepository(db)
	ctx := context.Background()

	group := fx.Activity(domain.ActivityTypeGroup, testutil.WithPerUserLimit(0))
	fx.GroupConfig(group.ID, 3, 24, 48, true)

	got, err := repo.GetActivityByID(ctx, group.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ActivityTypeGroup, got.Type)
	assert.Zero(t, got.PerUserLimit)

	cfg, err := repo.GetGroupConfig(ctx, group.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.NRequired)
	assert.True(t, cfg.AllowCrossStore)

	_, err = repo.GetGroupConfig(ctx, uuid.NewString())
	assert.ErrorIs(t, err, domain.ErrGroupConfigMissing)

	_, err = repo.GetActivityByID(ctx, uuid.NewString())
	assert.ErrorIs(t, err, domain.ErrActivityNotFound)

	presale, err := repo.GetPresaleConfig(ctx, group.ID)
	require.NoError(t, err)
	assert.Nil(t, presale)

	pickup := testNow.Add(72 * time.Hour)
	require.NoError(t, db.Create(&models.PresaleConfigModel{ActivityID: group.ID, DepositAmount: 50, PickupStartAt: &pickup}).Error)
	presale, err = repo.GetPresaleConfig(ctx, group.ID)
	require.NoError(t, err)
	require.NotNil(t, presale)
	assert.Equal(t, 50.0, presale.DepositAmount)
}

func TestActivityRepository_Stats(t *testing.T) {
	db := testutil.NewTestDB(t)
	fx := testutil.NewFixtures(t, db, testNow)
	repo := NewDefaultActivityRepository(db)
	redemptions := NewDefaultRedemptionRepository(db)
	ctx := context.Background()

	activity := fx.Activity(domain.ActivityTypeCoupon)
	siam := fx.Store("siam", 13.7465, 100.5348, 0)
	asok := fx.Store("asok", 13.7370, 100.5603, 0)

	c1 := fx.Coupon(activity.ID, uuid.NewString(), "STAT0001", domain.CouponActive, testNow.Add(time.Hour))
	c2 := fx.Coupon(activity.ID, uuid.NewString(), "STAT0002", domain.CouponActive, testNow.Add(time.Hour))
	c3 := fx.Coupon(activity.ID, uuid.NewString(), "STAT0003", domain.CouponActive, testNow.Add(time.Hour))
	fx.Coupon(activity.ID, uuid.NewString(), "STAT0004", domain.CouponActive, testNow.Add(time.Hour))
	fx.Coupon(activity.ID, uuid.NewString(), "STAT0005", domain.CouponExpired, testNow.Add(-time.Hour))

	_, err := redemptions.RedeemCoupon(ctx, redeemParams(c1, siam.ID))
	require.NoError(t, err)
	_, err = redemptions.RedeemCoupon(ctx, redeemParams(c2, siam.ID))
	require.NoError(t, err)
	r3, err := redemptions.RedeemCoupon(ctx, redeemParams(c3, asok.ID))
	require.NoError(t, err)
	_, err = redemptions.CancelRedemption(ctx, r3.ID, "test", testNow)
	require.NoError(t, err)

	stats, err := repo.GetActivityStats(ctx, activity.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, stats.CouponsActive)
	assert.EqualValues(t, 3, stats.CouponsUsed)
	assert.EqualValues(t, 1, stats.CouponsExpired)
	assert.EqualValues(t, 2, stats.RedemptionsTotal)
	assert.Equal(t, map[string]int64{siam.ID: 2}, stats.ByStore)
}

func TestStoreRepository_ActivityStores(t *testing.T) {
	db := testutil.NewTestDB(t)
	fx := testutil.NewFixtures(t, db, testNow)
	repo := NewDefaultStoreRepository(db)
	ctx := context.Background()

	activity := fx.Activity(domain.ActivityTypeCoupon)
	heavy := fx.Store("zeta", 13.70, 100.50, 10)
	alpha := fx.Store("alpha", 13.71, 100.51, 1)
	beta := fx.Store("beta", 13.72, 100.52, 1)
	disabled := fx.Store("off", 13.73, 100.53, 99)
	fx.DisableStore(disabled.ID)
	unmapped := fx.Store("elsewhere", 13.74, 100.54, 50)

	for _, s := range []*models.StoreModel{heavy, alpha, beta, disabled} {
		fx.MapStore(activity.ID, s.ID)
	}

	stores, err := repo.GetStoresByActivityID(ctx, activity.ID)
	require.NoError(t, err)
	require.Len(t, stores, 3)
	assert.Equal(t, []string{heavy.ID, alpha.ID, beta.ID}, []string{stores[0].ID, stores[1].ID, stores[2].ID})

	ids, err := repo.GetStoreIDsByActivityID(ctx, activity.ID)
	require.NoError(t, err)
	assert.Len(t, ids, 4)
	assert.Contains(t, ids, disabled.ID)
	assert.NotContains(t, ids, unmapped.ID)
}

func TestIdentityRepository(t *testing.T) {
	db := testutil.NewTestDB(t)
	fx := testutil.NewFixtures(t, db, testNow)
	repo := NewDefaultIdentityRepository(db)
	ctx := context.Background()

	staff := fx.User("U-staff", domain.RoleStaff)
	store := fx.Store("siam", 13.7465, 100.5348, 0)
	fx.Staff(store.ID, staff.ID, false)

	byLine, err := repo.GetUserByLineID(ctx, "U-staff")
	require.NoError(t, err)
	assert.Equal(t, staff.ID, byLine.ID)
	assert.Equal(t, domain.RoleStaff, byLine.Role)

	_, err = repo.GetUserByLineID(ctx, "U-nobody")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)

	_, err = repo.GetUserByID(ctx, uuid.NewString())
	assert.ErrorIs(t, err, domain.ErrUserNotFound)

	auth, err := repo.GetStaffAuthorization(ctx, store.ID, staff.ID)
	require.NoError(t, err)
	assert.False(t, auth.CanVerify)

	_, err = repo.GetStaffAuthorization(ctx, uuid.NewString(), staff.ID)
	assert.ErrorIs(t, err, domain.ErrStoreUnauthorized)
}
