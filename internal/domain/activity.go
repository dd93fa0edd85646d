package domain

import (
	"context"
	"time"
)

type ActivityType string

const (
	ActivityTypeCoupon    ActivityType = "coupon"
	ActivityTypeGroup     ActivityType = "group"
	ActivityTypePresale   ActivityType = "presale"
	ActivityTypeFranchise ActivityType = "franchise"
)

type ActivityStatus string

const (
	ActivityDraft     ActivityStatus = "draft"
	ActivityPublished ActivityStatus = "published"
	ActivityPaused    ActivityStatus = "paused"
	ActivityArchived  ActivityStatus = "archived"
)

type Activity struct {
	ID           string
	Type         ActivityType
	Title        string
	Price        float64
	ListPrice    float64
	Quantity     int64 // 0 means unlimited stock
	PerUserLimit int64 // 0 means unlimited per user
	StartAt      time.Time
	EndAt        time.Time
	Status       ActivityStatus
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsClaimableAt reports whether the activity accepts claims at the given moment.
func (a *Activity) IsClaimableAt(now time.Time) bool {
	if a.Status != ActivityPublished {
		return false
	}
	return !now.Before(a.StartAt) && !now.After(a.EndAt)
}

type GroupConfig struct {
	ActivityID      string
	NRequired       int
	TimeLimitHours  int
	UseValidHours   int
	AllowCrossStore bool
}

type PresaleConfig struct {
	ActivityID    string
	DepositAmount float64
	PickupStartAt *time.Time
	PickupEndAt   *time.Time
}

type ActivityStats struct {
	ActivityID       string
	CouponsActive    int64
	CouponsUsed      int64
	CouponsExpired   int64
	RedemptionsTotal int64
	ByStore          map[string]int64
}

type ActivityRepository interface {
	GetActivityByID(ctx context.Context, activityID string) (*Activity, error)
	GetGroupConfig(ctx context.Context, activityID string) (*GroupConfig, error)
	GetPresaleConfig(ctx context.Context, activityID string) (*PresaleConfig, error)
	GetActivityStats(ctx context.Context, activityID string) (*ActivityStats, error)
}
