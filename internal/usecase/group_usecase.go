package usecase

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/LavaJover/shvark-activity-service/internal/domain"
	"github.com/LavaJover/shvark-activity-service/internal/infrastructure/metrics"
	"github.com/google/uuid"
)

type GroupUsecase interface {
	CreateGroupInstance(ctx context.Context, activityID, leaderUserID, storeID string) (*domain.GroupInstance, error)
	JoinGroup(ctx context.Context, instanceID, userID, storeID string) (*domain.GroupMember, error)
	GetGroupInstances(ctx context.Context, activityID string) ([]*domain.GroupInstanceView, error)
	FailExpiredInstances(ctx context.Context) (int, error)
}

type DefaultGroupUsecase struct {
	GroupRepo    domain.GroupRepository
	ActivityRepo domain.ActivityRepository
	StoreRepo    domain.StoreRepository
	Codes        domain.CodeGenerator
	Dispatcher   domain.NotificationDispatcher
	Metrics      *metrics.EngineMetrics
	CodeAttempts int
	Clock        func() time.Time
}

func NewDefaultGroupUsecase(
	groupRepo domain.GroupRepository,
	activityRepo domain.ActivityRepository,
	storeRepo domain.StoreRepository,
	codes domain.CodeGenerator,
	dispatcher domain.NotificationDispatcher,
	engineMetrics *metrics.EngineMetrics,
	codeAttempts int,
) *DefaultGroupUsecase {
	return &DefaultGroupUsecase{
		GroupRepo:    groupRepo,
		ActivityRepo: activityRepo,
		StoreRepo:    storeRepo,
		Codes:        codes,
		Dispatcher:   dispatcher,
		Metrics:      engineMetrics,
		CodeAttempts: codeAttempts,
		Clock:        utcNow,
	}
}

func (uc *DefaultGroupUsecase) CreateGroupInstance(ctx context.Context, activityID, leaderUserID, storeID string) (*domain.GroupInstance, error) {
	if strings.TrimSpace(activityID) == "" || strings.TrimSpace(leaderUserID) == "" {
		return nil, domain.ErrInvalidArgument
	}

	activity, cfg, err := uc.loadGroupActivity(ctx, activityID)
	if err != nil {
		return nil, err
	}

	now := uc.Clock()
	if !activity.IsClaimableAt(now) {
		return nil, domain.ErrActivityNotClaimable
	}

	storeID = strings.TrimSpace(storeID)
	if storeID != "" {
		storeIDs, err := uc.StoreRepo.GetStoreIDsByActivityID(ctx, activityID)
		if err != nil {
			return nil, err
		}
		if !containsString(storeIDs, storeID) {
			return nil, domain.ErrStoreNotInActivity
		}
	}

	instance := &domain.GroupInstance{
		ID:           uuid.NewString(),
		ActivityID:   activityID,
		LeaderUserID: leaderUserID,
		StoreID:      storeID,
		StartAt:      now,
		ExpireAt:     now.Add(time.Duration(cfg.TimeLimitHours) * time.Hour),
		Status:       domain.GroupPending,
	}
	leader := &domain.GroupMember{
		InstanceID: instance.ID,
		UserID:     leaderUserID,
		StoreID:    storeID,
		JoinedAt:   now,
	}
	if err := uc.GroupRepo.CreateInstance(ctx, instance, leader); err != nil {
		return nil, err
	}

	if uc.Metrics != nil {
		uc.Metrics.RecordGroupCreated()
	}
	return instance, nil
}

// JoinGroup adds userID to the instance. The join that completes the quorum
// commits success and issues one coupon per member in the same transaction.
func (uc *DefaultGroupUsecase) JoinGroup(ctx context.Context, instanceID, userID, storeID string) (*domain.GroupMember, error) {
	if strings.TrimSpace(instanceID) == "" || strings.TrimSpace(userID) == "" {
		return nil, domain.ErrInvalidArgument
	}

	instance, err := uc.GroupRepo.GetInstanceByID(ctx, instanceID)
	if err != nil {
		return nil, err
	}
	activity, cfg, err := uc.loadGroupActivity(ctx, instance.ActivityID)
	if err != nil {
		return nil, err
	}

	now := uc.Clock()
	var result *domain.JoinResult
	err = withCodeRetry(uc.CodeAttempts, uc.recordCollision, func() error {
		var joinErr error
		result, joinErr = uc.GroupRepo.JoinInstance(ctx, domain.JoinParams{
			InstanceID:      instanceID,
			UserID:          userID,
			StoreID:         strings.TrimSpace(storeID),
			AllowCrossStore: cfg.AllowCrossStore,
			NRequired:       cfg.NRequired,
			UseValidHours:   cfg.UseValidHours,
			ActivityEndAt:   activity.EndAt,
			Now:             now,
			NewID:           uuid.NewString,
			NewCode:         uc.Codes.NewCode,
		})
		return joinErr
	})
	if err != nil {
		return nil, err
	}

	if uc.Metrics != nil {
		uc.Metrics.RecordGroupJoin()
	}

	if result.Completed {
		userIDs := make([]string, 0, len(result.Coupons))
		for _, c := range result.Coupons {
			userIDs = append(userIDs, c.UserID)
		}
		slog.Info("group formed", "instance_id", instanceID, "activity_id", activity.ID, "members", len(userIDs))

		if uc.Metrics != nil {
			uc.Metrics.RecordGroupOutcome(string(domain.GroupSuccess))
			uc.Metrics.RecordCouponsIssued("group", len(result.Coupons))
		}

		dispatch(uc.Dispatcher, domain.Event{
			Type:       domain.EventGroupSucceeded,
			ActivityID: activity.ID,
			UserIDs:    userIDs,
			RefID:      instanceID,
			OccurredAt: now,
		})
	}

	return result.Member, nil
}

func (uc *DefaultGroupUsecase) GetGroupInstances(ctx context.Context, activityID string) ([]*domain.GroupInstanceView, error) {
	if strings.TrimSpace(activityID) == "" {
		return nil, domain.ErrInvalidArgument
	}

	_, cfg, err := uc.loadGroupActivity(ctx, activityID)
	if err != nil {
		return nil, err
	}

	instances, counts, err := uc.GroupRepo.GetInstancesByActivityID(ctx, activityID)
	if err != nil {
		return nil, err
	}

	now := uc.Clock()
	views := make([]*domain.GroupInstanceView, 0, len(instances))
	for _, instance := range instances {
		count := counts[instance.ID]
		views = append(views, &domain.GroupInstanceView{
			Instance:      instance,
			MemberCount:   count,
			NRequired:     cfg.NRequired,
			DerivedStatus: domain.DeriveGroupStatus(instance, count, cfg.NRequired, now),
		})
	}
	return views, nil
}

// FailExpiredInstances commits failed for pending instances past their
// deadline and notifies their members.
func (uc *DefaultGroupUsecase) FailExpiredInstances(ctx context.Context) (int, error) {
	now := uc.Clock()
	failed, err := uc.GroupRepo.FailExpiredInstances(ctx, now)
	for _, instance := range failed {
		members, mErr := uc.GroupRepo.GetMembers(ctx, instance.ID)
		if mErr != nil {
			slog.Error("failed to load group members", "instance_id", instance.ID, "error", mErr)
			continue
		}
		userIDs := make([]string, len(members))
		for i, m := range members {
			userIDs[i] = m.UserID
		}

		if uc.Metrics != nil {
			uc.Metrics.RecordGroupOutcome(string(domain.GroupFailed))
		}
		dispatch(uc.Dispatcher, domain.Event{
			Type:       domain.EventGroupFailed,
			ActivityID: instance.ActivityID,
			UserIDs:    userIDs,
			RefID:      instance.ID,
			OccurredAt: now,
		})
	}
	return len(failed), err
}

func (uc *DefaultGroupUsecase) loadGroupActivity(ctx context.Context, activityID string) (*domain.Activity, *domain.GroupConfig, error) {
	activity, err := uc.ActivityRepo.GetActivityByID(ctx, activityID)
	if err != nil {
		return nil, nil, err
	}
	if activity.Type != domain.ActivityTypeGroup {
		return nil, nil, domain.ErrActivityTypeMismatch
	}
	cfg, err := uc.ActivityRepo.GetGroupConfig(ctx, activityID)
	if err != nil {
		return nil, nil, err
	}
	// a quorum of one would be met by the leader alone at creation
	if cfg.NRequired < 2 || cfg.TimeLimitHours <= 0 {
		return nil, nil, domain.ErrGroupConfigMissing
	}
	return activity, cfg, nil
}

func (uc *DefaultGroupUsecase) recordCollision() {
	if uc.Metrics == nil {
		return
	}
	uc.Metrics.RecordCodeCollision()
}
