package repository

import (
	"context"

	"github.com/LavaJover/shvark-activity-service/internal/domain"
	"github.com/LavaJover/shvark-activity-service/internal/infrastructure/postgres/mappers"
	"github.com/LavaJover/shvark-activity-service/internal/infrastructure/postgres/models"
	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type DefaultPresaleRepository struct {
	DB *gorm.DB
}

func NewDefaultPresaleRepository(db *gorm.DB) *DefaultPresaleRepository {
	return &DefaultPresaleRepository{DB: db}
}

// Reserve holds the activity row lock across the uniqueness and stock checks.
// The (activity_id, user_id) unique index backs the uniqueness check.
func (r *DefaultPresaleRepository) Reserve(ctx context.Context, params domain.ReserveParams) (*domain.PresaleReservation, error) {
	var created *models.PresaleReservationModel
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var activity models.ActivityModel
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&activity, "id = ?", params.ActivityID).Error; err != nil {
			if isNotFound(err) {
				return domain.ErrActivityNotFound
			}
			return errors.Wrap(err, "lock activity")
		}

		var existing int64
		if err := tx.Model(&models.PresaleReservationModel{}).
			Where("activity_id = ? AND user_id = ?", params.ActivityID, params.UserID).
			Count(&existing).Error; err != nil {
			return errors.Wrap(err, "check reservation")
		}
		if existing > 0 {
			return domain.ErrAlreadyReserved
		}

		if params.Quantity > 0 {
			reserved, err := sumReserved(tx, params.ActivityID)
			if err != nil {
				return err
			}
			if reserved+params.Qty > params.Quantity {
				return domain.ErrSoldOut
			}
		}

		model := &models.PresaleReservationModel{
			ID:         params.ReservationID,
			ActivityID: params.ActivityID,
			UserID:     params.UserID,
			Qty:        params.Qty,
			ReservedAt: params.Now,
		}
		if err := tx.Create(model).Error; err != nil {
			if isUniqueViolation(err) {
				return domain.ErrAlreadyReserved
			}
			return errors.Wrap(err, "insert reservation")
		}
		created = model
		return nil
	})
	if err != nil {
		return nil, err
	}
	return mappers.ToDomainPresaleReservation(created), nil
}

func (r *DefaultPresaleRepository) GetReservedQuantity(ctx context.Context, activityID string) (int64, error) {
	return sumReserved(r.DB.WithContext(ctx), activityID)
}

func sumReserved(db *gorm.DB, activityID string) (int64, error) {
	var total int64
	if err := db.Model(&models.PresaleReservationModel{}).
		Select("COALESCE(SUM(qty), 0)").
		Where("activity_id = ?", activityID).
		Scan(&total).Error; err != nil {
		return 0, errors.Wrap(err, "sum reserved qty")
	}
	return total, nil
}
