package domain

import (
	"context"
	"time"
)

type GroupStatus string

const (
	GroupPending GroupStatus = "pending"
	GroupSuccess GroupStatus = "success"
	GroupFailed  GroupStatus = "failed"
)

type GroupInstance struct {
	ID           string
	ActivityID   string
	LeaderUserID string
	StoreID      string
	StartAt      time.Time
	ExpireAt     time.Time
	Status       GroupStatus
	SucceededAt  *time.Time
	FailedAt     *time.Time
}

type GroupMember struct {
	InstanceID string
	UserID     string
	StoreID    string
	JoinedAt   time.Time
}

// GroupInstanceView is an instance as shown to clients: stored row plus
// member count and the status derived at read time.
type GroupInstanceView struct {
	Instance      *GroupInstance
	MemberCount   int
	NRequired     int
	DerivedStatus GroupStatus
}

// DeriveGroupStatus is the read-path status of an instance. It never writes;
// the authoritative success commit happens only inside the join transaction.
func DeriveGroupStatus(instance *GroupInstance, memberCount, nRequired int, now time.Time) GroupStatus {
	switch {
	case instance.Status == GroupSuccess:
		return GroupSuccess
	case instance.Status == GroupFailed:
		return GroupFailed
	case !now.Before(instance.ExpireAt):
		return GroupFailed
	case nRequired > 0 && memberCount >= nRequired:
		return GroupSuccess
	default:
		return GroupPending
	}
}

// JoinParams carries one join attempt. NewID and NewCode are used for the
// member coupons issued when this join completes the group.
type JoinParams struct {
	InstanceID      string
	UserID          string
	StoreID         string
	AllowCrossStore bool
	NRequired       int
	UseValidHours   int
	ActivityEndAt   time.Time
	Now             time.Time
	NewID           func() string
	NewCode         func() string
}

type JoinResult struct {
	Member    *GroupMember
	Instance  *GroupInstance
	Completed bool // this join committed the success transition
	Coupons   []*Coupon
}

type GroupRepository interface {
	CreateInstance(ctx context.Context, instance *GroupInstance, leader *GroupMember) error
	JoinInstance(ctx context.Context, params JoinParams) (*JoinResult, error)
	GetInstanceByID(ctx context.Context, instanceID string) (*GroupInstance, error)
	GetInstancesByActivityID(ctx context.Context, activityID string) ([]*GroupInstance, map[string]int, error)
	GetMembers(ctx context.Context, instanceID string) ([]*GroupMember, error)
	FailExpiredInstances(ctx context.Context, now time.Time) ([]*GroupInstance, error)
}

// GroupCouponExpiry returns the earlier of successAt+useValidHours and the
// activity end. A non-positive useValidHours falls back to the activity end.
func GroupCouponExpiry(successAt time.Time, useValidHours int, activityEndAt time.Time) time.Time {
	if useValidHours <= 0 {
		return activityEndAt
	}
	expiresAt := successAt.Add(time.Duration(useValidHours) * time.Hour)
	if !activityEndAt.IsZero() && activityEndAt.Before(expiresAt) {
		return activityEndAt
	}
	return expiresAt
}
