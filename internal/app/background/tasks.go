package background

import (
	"context"
	"log/slog"
	"time"

	"github.com/LavaJover/shvark-activity-service/internal/usecase"
)

type BackgroundTasks struct {
	CouponUsecase       usecase.CouponUsecase
	GroupUsecase        usecase.GroupUsecase
	ExpirySweepInterval time.Duration
	GroupSweepInterval  time.Duration
}

func NewBackgroundTasks(couponUC usecase.CouponUsecase, groupUC usecase.GroupUsecase, expiryEvery, groupEvery time.Duration) *BackgroundTasks {
	if expiryEvery <= 0 {
		expiryEvery = time.Minute
	}
	if groupEvery <= 0 {
		groupEvery = 30 * time.Second
	}
	return &BackgroundTasks{
		CouponUsecase:       couponUC,
		GroupUsecase:        groupUC,
		ExpirySweepInterval: expiryEvery,
		GroupSweepInterval:  groupEvery,
	}
}

// StartAll runs the sweeps until ctx is canceled.
func (bt *BackgroundTasks) StartAll(ctx context.Context) {
	go bt.startCouponExpiry(ctx)
	go bt.startGroupFailure(ctx)
}

func (bt *BackgroundTasks) startCouponExpiry(ctx context.Context) {
	ticker := time.NewTicker(bt.ExpirySweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			bt.SweepCoupons(ctx)
		}
	}
}

func (bt *BackgroundTasks) startGroupFailure(ctx context.Context) {
	ticker := time.NewTicker(bt.GroupSweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			bt.SweepGroups(ctx)
		}
	}
}

func (bt *BackgroundTasks) SweepCoupons(ctx context.Context) {
	if _, err := bt.CouponUsecase.ExpireOverdueCoupons(ctx); err != nil {
		slog.Error("coupon expiry sweep failed", "error", err.Error())
	}
}

func (bt *BackgroundTasks) SweepGroups(ctx context.Context) {
	n, err := bt.GroupUsecase.FailExpiredInstances(ctx)
	if err != nil {
		slog.Error("group expiry sweep failed", "error", err.Error())
	}
	if n > 0 {
		slog.Info("group instances failed", "count", n)
	}
}
