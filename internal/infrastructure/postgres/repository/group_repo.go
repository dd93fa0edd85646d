package repository

import (
	"context"
	"time"

	"github.com/LavaJover/shvark-activity-service/internal/domain"
	"github.com/LavaJover/shvark-activity-service/internal/infrastructure/postgres/mappers"
	"github.com/LavaJover/shvark-activity-service/internal/infrastructure/postgres/models"
	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type DefaultGroupRepository struct {
	DB *gorm.DB
}

func NewDefaultGroupRepository(db *gorm.DB) *DefaultGroupRepository {
	return &DefaultGroupRepository{DB: db}
}

func (r *DefaultGroupRepository) CreateInstance(ctx context.Context, instance *domain.GroupInstance, leader *domain.GroupMember) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(mappers.ToGORMGroupInstance(instance)).Error; err != nil {
			return errors.Wrap(err, "insert group instance")
		}
		if err := tx.Create(mappers.ToGORMGroupMember(leader)).Error; err != nil {
			return errors.Wrap(err, "insert group leader")
		}
		return nil
	})
}

// JoinInstance inserts the member and re-evaluates quorum while holding the
// instance row lock. The pending->success update is status-guarded, so the
// member coupons are written by exactly one join.
func (r *DefaultGroupRepository) JoinInstance(ctx context.Context, params domain.JoinParams) (*domain.JoinResult, error) {
	result := &domain.JoinResult{}
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var instance models.GroupInstanceModel
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&instance, "id = ?", params.InstanceID).Error; err != nil {
			if isNotFound(err) {
				return domain.ErrInstanceNotFound
			}
			return errors.Wrap(err, "lock group instance")
		}

		switch instance.Status {
		case domain.GroupSuccess:
			return domain.ErrInstanceClosed
		case domain.GroupFailed:
			return domain.ErrInstanceExpired
		}
		if !params.Now.Before(instance.ExpireAt) {
			return domain.ErrInstanceExpired
		}

		var existing int64
		if err := tx.Model(&models.GroupMemberModel{}).
			Where("instance_id = ? AND user_id = ?", params.InstanceID, params.UserID).
			Count(&existing).Error; err != nil {
			return errors.Wrap(err, "check membership")
		}
		if existing > 0 {
			return domain.ErrAlreadyMember
		}

		if !params.AllowCrossStore && instance.StoreID != "" && params.StoreID != "" && instance.StoreID != params.StoreID {
			return domain.ErrCrossStoreNotAllowed
		}

		member := &models.GroupMemberModel{
			InstanceID: params.InstanceID,
			UserID:     params.UserID,
			StoreID:    params.StoreID,
			JoinedAt:   params.Now,
		}
		if err := tx.Create(member).Error; err != nil {
			if isUniqueViolation(err) {
				return domain.ErrAlreadyMember
			}
			return errors.Wrap(err, "insert group member")
		}
		result.Member = mappers.ToDomainGroupMember(member)

		var count int64
		if err := tx.Model(&models.GroupMemberModel{}).
			Where("instance_id = ?", params.InstanceID).
			Count(&count).Error; err != nil {
			return errors.Wrap(err, "count group members")
		}

		if params.NRequired > 0 && count >= int64(params.NRequired) {
			res := tx.Model(&models.GroupInstanceModel{}).
				Where("id = ? AND status = ?", params.InstanceID, domain.GroupPending).
				Updates(map[string]interface{}{
					"status":       domain.GroupSuccess,
					"succeeded_at": params.Now,
				})
			if res.Error != nil {
				return errors.Wrap(res.Error, "commit group success")
			}
			if res.RowsAffected == 1 {
				coupons, err := r.issueMemberCoupons(tx, &instance, params)
				if err != nil {
					return err
				}
				succeededAt := params.Now
				instance.Status = domain.GroupSuccess
				instance.SucceededAt = &succeededAt
				result.Completed = true
				result.Coupons = coupons
			}
		}

		result.Instance = mappers.ToDomainGroupInstance(&instance)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (r *DefaultGroupRepository) issueMemberCoupons(tx *gorm.DB, instance *models.GroupInstanceModel, params domain.JoinParams) ([]*domain.Coupon, error) {
	var members []models.GroupMemberModel
	if err := tx.Where("instance_id = ?", instance.ID).Order("joined_at ASC").Find(&members).Error; err != nil {
		return nil, errors.Wrap(err, "load group members")
	}

	expiresAt := domain.GroupCouponExpiry(params.Now, params.UseValidHours, params.ActivityEndAt)
	instanceID := instance.ID
	coupons := make([]*domain.Coupon, 0, len(members))
	for _, member := range members {
		model := &models.CouponModel{
			ID:              params.NewID(),
			ActivityID:      instance.ActivityID,
			UserID:          member.UserID,
			GroupInstanceID: &instanceID,
			Code:            params.NewCode(),
			Status:          domain.CouponActive,
			ClaimedAt:       params.Now,
			ExpiresAt:       expiresAt,
		}
		if err := tx.Create(model).Error; err != nil {
			if isUniqueViolation(err) {
				return nil, domain.ErrDuplicateCode
			}
			return nil, errors.Wrap(err, "insert member coupon")
		}
		coupons = append(coupons, mappers.ToDomainCoupon(model))
	}
	return coupons, nil
}

func (r *DefaultGroupRepository) GetInstanceByID(ctx context.Context, instanceID string) (*domain.GroupInstance, error) {
	var model models.GroupInstanceModel
	if err := r.DB.WithContext(ctx).First(&model, "id = ?", instanceID).Error; err != nil {
		if isNotFound(err) {
			return nil, domain.ErrInstanceNotFound
		}
		return nil, errors.Wrap(err, "get group instance")
	}
	return mappers.ToDomainGroupInstance(&model), nil
}

// GetInstancesByActivityID returns the activity's instances, newest first,
// together with member counts keyed by instance id.
func (r *DefaultGroupRepository) GetInstancesByActivityID(ctx context.Context, activityID string) ([]*domain.GroupInstance, map[string]int, error) {
	var list []models.GroupInstanceModel
	if err := r.DB.WithContext(ctx).
		Where("activity_id = ?", activityID).
		Order("start_at DESC").
		Find(&list).Error; err != nil {
		return nil, nil, errors.Wrap(err, "list group instances")
	}

	counts := make(map[string]int, len(list))
	if len(list) == 0 {
		return []*domain.GroupInstance{}, counts, nil
	}

	ids := make([]string, len(list))
	for i := range list {
		ids[i] = list[i].ID
	}

	type memberCount struct {
		InstanceID string
		Total      int
	}
	var rows []memberCount
	if err := r.DB.WithContext(ctx).
		Model(&models.GroupMemberModel{}).
		Select("instance_id, COUNT(*) AS total").
		Where("instance_id IN ?", ids).
		Group("instance_id").
		Scan(&rows).Error; err != nil {
		return nil, nil, errors.Wrap(err, "count members")
	}
	for _, row := range rows {
		counts[row.InstanceID] = row.Total
	}

	instances := make([]*domain.GroupInstance, len(list))
	for i := range list {
		instances[i] = mappers.ToDomainGroupInstance(&list[i])
	}
	return instances, counts, nil
}

func (r *DefaultGroupRepository) GetMembers(ctx context.Context, instanceID string) ([]*domain.GroupMember, error) {
	var list []models.GroupMemberModel
	if err := r.DB.WithContext(ctx).
		Where("instance_id = ?", instanceID).
		Order("joined_at ASC").
		Find(&list).Error; err != nil {
		return nil, errors.Wrap(err, "list group members")
	}
	members := make([]*domain.GroupMember, len(list))
	for i := range list {
		members[i] = mappers.ToDomainGroupMember(&list[i])
	}
	return members, nil
}

// FailExpiredInstances commits the failed status for pending instances whose
// formation window closed. Only rows this call actually moved are returned.
func (r *DefaultGroupRepository) FailExpiredInstances(ctx context.Context, now time.Time) ([]*domain.GroupInstance, error) {
	var candidates []models.GroupInstanceModel
	if err := r.DB.WithContext(ctx).
		Where("status = ? AND expire_at <= ?", domain.GroupPending, now).
		Find(&candidates).Error; err != nil {
		return nil, errors.Wrap(err, "find expired instances")
	}

	failed := make([]*domain.GroupInstance, 0, len(candidates))
	for i := range candidates {
		res := r.DB.WithContext(ctx).
			Model(&models.GroupInstanceModel{}).
			Where("id = ? AND status = ?", candidates[i].ID, domain.GroupPending).
			Updates(map[string]interface{}{
				"status":    domain.GroupFailed,
				"failed_at": now,
			})
		if res.Error != nil {
			return failed, errors.Wrapf(res.Error, "fail instance %s", candidates[i].ID)
		}
		if res.RowsAffected == 1 {
			failedAt := now
			candidates[i].Status = domain.GroupFailed
			candidates[i].FailedAt = &failedAt
			failed = append(failed, mappers.ToDomainGroupInstance(&candidates[i]))
		}
	}
	return failed, nil
}
