package usecase

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/LavaJover/shvark-activity-service/internal/domain"
	"github.com/LavaJover/shvark-activity-service/internal/infrastructure/postgres/models"
	"github.com/LavaJover/shvark-activity-service/internal/testutil"
	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedGroupActivity(t *testing.T, h *harness, nRequired int, allowCrossStore bool) *models.ActivityModel {
	t.Helper()
	activity := h.fx.Activity(domain.ActivityTypeGroup)
	h.fx.GroupConfig(activity.ID, nRequired, 24, 48, allowCrossStore)
	return activity
}

func TestGroup_TwoPersonQuorum(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	activity := seedGroupActivity(t, h, 2, false)

	instance, err := h.groups.CreateGroupInstance(ctx, activity.ID, "leader", "")
	require.NoError(t, err)
	assert.Equal(t, domain.GroupPending, instance.Status)
	assert.True(t, instance.ExpireAt.Equal(testNow.Add(24*time.Hour)))

	member, err := h.groups.JoinGroup(ctx, instance.ID, "mia", "")
	require.NoError(t, err)
	assert.Equal(t, "mia", member.UserID)

	_, err = h.groups.JoinGroup(ctx, instance.ID, "noah", "")
	assert.ErrorIs(t, err, domain.ErrInstanceClosed)

	var coupons []models.CouponModel
	require.NoError(t, h.db.Where("group_instance_id = ?", instance.ID).Find(&coupons).Error)
	require.Len(t, coupons, 2)
	for _, c := range coupons {
		assert.Contains(t, []string{"leader", "mia"}, c.UserID)
		assert.True(t, c.ExpiresAt.Equal(testNow.Add(48*time.Hour)))
	}

	views, err := h.groups.GetGroupInstances(ctx, activity.ID)
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, domain.GroupSuccess, views[0].DerivedStatus)
	assert.Equal(t, 2, views[0].MemberCount)

	events := h.events.OfType(domain.EventGroupSucceeded)
	require.Len(t, events, 1)
	assert.ElementsMatch(t, []string{"leader", "mia"}, events[0].UserIDs)
	assert.Equal(t, 1.0, promtest.ToFloat64(h.metrics.GroupOutcomesTotal.WithLabelValues("success")))
}

// Runs on the single-connection sqlite DB: joins are serialized by the pool,
// not by the instance row lock.
func TestGroup_ConcurrentJoinsCommitOnce(t *testing.T) {
	h := newHarness(t)
	activity := seedGroupActivity(t, h, 3, false)

	instance, err := h.groups.CreateGroupInstance(context.Background(), activity.ID, "leader", "")
	require.NoError(t, err)

	var (
		wg     sync.WaitGroup
		mu     sync.Mutex
		joined int
		closed int
	)
	for i := 0; i < 3; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := h.groups.JoinGroup(context.Background(), instance.ID, fmt.Sprintf("member-%d", i), "")
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				joined++
			case assert.ErrorIs(t, err, domain.ErrInstanceClosed):
				closed++
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 2, joined)
	assert.Equal(t, 1, closed)

	var issued int64
	require.NoError(t, h.db.Model(&models.CouponModel{}).Where("group_instance_id = ?", instance.ID).Count(&issued).Error)
	assert.EqualValues(t, 3, issued)
	assert.Len(t, h.events.OfType(domain.EventGroupSucceeded), 1)
}

func TestGroup_JoinRejections(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	activity := seedGroupActivity(t, h, 3, false)
	storeA := h.fx.Store("a", 13.70, 100.50, 0)
	storeB := h.fx.Store("b", 13.71, 100.51, 0)
	h.fx.MapStore(activity.ID, storeA.ID)
	h.fx.MapStore(activity.ID, storeB.ID)

	instance, err := h.groups.CreateGroupInstance(ctx, activity.ID, "leader", storeA.ID)
	require.NoError(t, err)

	_, err = h.groups.JoinGroup(ctx, instance.ID, "leader", storeA.ID)
	assert.ErrorIs(t, err, domain.ErrAlreadyMember)

	_, err = h.groups.JoinGroup(ctx, instance.ID, "mia", storeB.ID)
	assert.ErrorIs(t, err, domain.ErrCrossStoreNotAllowed)

	_, err = h.groups.JoinGroup(ctx, instance.ID, "mia", storeA.ID)
	require.NoError(t, err)

	_, err = h.groups.JoinGroup(ctx, "missing", "mia", "")
	assert.ErrorIs(t, err, domain.ErrInstanceNotFound)

	_, err = h.groups.CreateGroupInstance(ctx, activity.ID, "other", "not-mapped")
	assert.ErrorIs(t, err, domain.ErrStoreNotInActivity)

	h.advance(25 * time.Hour)
	_, err = h.groups.JoinGroup(ctx, instance.ID, "late", storeA.ID)
	assert.ErrorIs(t, err, domain.ErrInstanceExpired)
}

func TestGroup_InvalidConfig(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	missing := h.fx.Activity(domain.ActivityTypeGroup)
	_, err := h.groups.CreateGroupInstance(ctx, missing.ID, "leader", "")
	assert.ErrorIs(t, err, domain.ErrGroupConfigMissing)

	solo := seedGroupActivity(t, h, 1, false)
	_, err = h.groups.CreateGroupInstance(ctx, solo.ID, "leader", "")
	assert.ErrorIs(t, err, domain.ErrGroupConfigMissing)

	coupon := h.fx.Activity(domain.ActivityTypeCoupon)
	_, err = h.groups.CreateGroupInstance(ctx, coupon.ID, "leader", "")
	assert.ErrorIs(t, err, domain.ErrActivityTypeMismatch)

	paused := h.fx.Activity(domain.ActivityTypeGroup, testutil.WithStatus(domain.ActivityPaused))
	h.fx.GroupConfig(paused.ID, 2, 24, 0, false)
	_, err = h.groups.CreateGroupInstance(ctx, paused.ID, "leader", "")
	assert.ErrorIs(t, err, domain.ErrActivityNotClaimable)
}

func TestGroup_FailExpiredInstances(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	activity := seedGroupActivity(t, h, 3, false)

	instance, err := h.groups.CreateGroupInstance(ctx, activity.ID, "leader", "")
	require.NoError(t, err)
	_, err = h.groups.JoinGroup(ctx, instance.ID, "mia", "")
	require.NoError(t, err)

	n, err := h.groups.FailExpiredInstances(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)

	h.advance(24 * time.Hour)

	views, err := h.groups.GetGroupInstances(ctx, activity.ID)
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, domain.GroupFailed, views[0].DerivedStatus)
	assert.Equal(t, domain.GroupPending, views[0].Instance.Status)

	n, err = h.groups.FailExpiredInstances(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	events := h.events.OfType(domain.EventGroupFailed)
	require.Len(t, events, 1)
	assert.ElementsMatch(t, []string{"leader", "mia"}, events[0].UserIDs)

	n, err = h.groups.FailExpiredInstances(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}
