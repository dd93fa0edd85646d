package mappers

import (
	"github.com/LavaJover/shvark-activity-service/internal/domain"
	"github.com/LavaJover/shvark-activity-service/internal/infrastructure/postgres/models"
)

func ToDomainGroupInstance(model *models.GroupInstanceModel) *domain.GroupInstance {
	return &domain.GroupInstance{
		ID:           model.ID,
		ActivityID:   model.ActivityID,
		LeaderUserID: model.LeaderUserID,
		StoreID:      model.StoreID,
		StartAt:      model.StartAt,
		ExpireAt:     model.ExpireAt,
		Status:       model.Status,
		SucceededAt:  model.SucceededAt,
		FailedAt:     model.FailedAt,
	}
}

func ToGORMGroupInstance(instance *domain.GroupInstance) *models.GroupInstanceModel {
	return &models.GroupInstanceModel{
		ID:           instance.ID,
		ActivityID:   instance.ActivityID,
		LeaderUserID: instance.LeaderUserID,
		StoreID:      instance.StoreID,
		StartAt:      instance.StartAt,
		ExpireAt:     instance.ExpireAt,
		Status:       instance.Status,
		SucceededAt:  instance.SucceededAt,
		FailedAt:     instance.FailedAt,
	}
}

func ToDomainGroupMember(model *models.GroupMemberModel) *domain.GroupMember {
	return &domain.GroupMember{
		InstanceID: model.InstanceID,
		UserID:     model.UserID,
		StoreID:    model.StoreID,
		JoinedAt:   model.JoinedAt,
	}
}

func ToGORMGroupMember(member *domain.GroupMember) *models.GroupMemberModel {
	return &models.GroupMemberModel{
		InstanceID: member.InstanceID,
		UserID:     member.UserID,
		StoreID:    member.StoreID,
		JoinedAt:   member.JoinedAt,
	}
}

func ToDomainPresaleReservation(model *models.PresaleReservationModel) *domain.PresaleReservation {
	return &domain.PresaleReservation{
		ID:         model.ID,
		ActivityID: model.ActivityID,
		UserID:     model.UserID,
		Qty:        model.Qty,
		ReservedAt: model.ReservedAt,
	}
}
