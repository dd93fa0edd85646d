package mappers

import (
	"github.com/LavaJover/shvark-activity-service/internal/domain"
	"github.com/LavaJover/shvark-activity-service/internal/infrastructure/postgres/models"
)

func ToDomainActivity(model *models.ActivityModel) *domain.Activity {
	return &domain.Activity{
		ID:           model.ID,
		Type:         model.Type,
		Title:        model.Title,
		Price:        model.Price,
		ListPrice:    model.ListPrice,
		Quantity:     model.Quantity,
		PerUserLimit: model.PerUserLimit,
		StartAt:      model.StartAt,
		EndAt:        model.EndAt,
		Status:       model.Status,
		CreatedAt:    model.CreatedAt,
		UpdatedAt:    model.UpdatedAt,
	}
}

func ToDomainGroupConfig(model *models.GroupConfigModel) *domain.GroupConfig {
	return &domain.GroupConfig{
		ActivityID:      model.ActivityID,
		NRequired:       model.NRequired,
		TimeLimitHours:  model.TimeLimitHours,
		UseValidHours:   model.UseValidHours,
		AllowCrossStore: model.AllowCrossStore,
	}
}

func ToDomainPresaleConfig(model *models.PresaleConfigModel) *domain.PresaleConfig {
	return &domain.PresaleConfig{
		ActivityID:    model.ActivityID,
		DepositAmount: model.DepositAmount,
		PickupStartAt: model.PickupStartAt,
		PickupEndAt:   model.PickupEndAt,
	}
}

func ToDomainStore(model *models.StoreModel) *domain.Store {
	return &domain.Store{
		ID:      model.ID,
		CityID:  model.CityID,
		Name:    model.Name,
		Address: model.Address,
		Lat:     model.Lat,
		Lng:     model.Lng,
		PlaceID: model.PlaceID,
		Status:  model.Status,
		Enabled: model.Enabled,
		Weight:  model.Weight,
	}
}

func ToDomainUser(model *models.UserModel) *domain.User {
	return &domain.User{
		ID:          model.ID,
		LineUserID:  model.LineUserID,
		DisplayName: model.DisplayName,
		Role:        model.Role,
	}
}
