package usecase

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/LavaJover/shvark-activity-service/internal/domain"
	"github.com/LavaJover/shvark-activity-service/internal/infrastructure/metrics"
	"github.com/google/uuid"
)

type PresaleUsecase interface {
	ReservePresale(ctx context.Context, activityID, userID string, qty int64) (*domain.PresaleReservation, error)
}

type DefaultPresaleUsecase struct {
	PresaleRepo  domain.PresaleRepository
	ActivityRepo domain.ActivityRepository
	Dispatcher   domain.NotificationDispatcher
	Metrics      *metrics.EngineMetrics
	Clock        func() time.Time
}

func NewDefaultPresaleUsecase(
	presaleRepo domain.PresaleRepository,
	activityRepo domain.ActivityRepository,
	dispatcher domain.NotificationDispatcher,
	engineMetrics *metrics.EngineMetrics,
) *DefaultPresaleUsecase {
	return &DefaultPresaleUsecase{
		PresaleRepo:  presaleRepo,
		ActivityRepo: activityRepo,
		Dispatcher:   dispatcher,
		Metrics:      engineMetrics,
		Clock:        utcNow,
	}
}

func (uc *DefaultPresaleUsecase) ReservePresale(ctx context.Context, activityID, userID string, qty int64) (*domain.PresaleReservation, error) {
	reservation, err := uc.reservePresale(ctx, activityID, userID, qty)
	if uc.Metrics != nil {
		if err != nil {
			uc.Metrics.RecordPresaleRejected(reasonLabel(err))
		} else {
			uc.Metrics.RecordPresaleReserved()
		}
	}
	return reservation, err
}

func (uc *DefaultPresaleUsecase) reservePresale(ctx context.Context, activityID, userID string, qty int64) (*domain.PresaleReservation, error) {
	if strings.TrimSpace(activityID) == "" || strings.TrimSpace(userID) == "" || qty <= 0 {
		return nil, domain.ErrInvalidArgument
	}

	activity, err := uc.ActivityRepo.GetActivityByID(ctx, activityID)
	if err != nil {
		return nil, err
	}
	if activity.Type != domain.ActivityTypePresale {
		return nil, domain.ErrActivityTypeMismatch
	}

	now := uc.Clock()
	if !activity.IsClaimableAt(now) {
		return nil, domain.ErrActivityNotClaimable
	}
	if activity.PerUserLimit > 0 && qty > activity.PerUserLimit {
		return nil, domain.ErrLimitExceeded
	}

	reservation, err := uc.PresaleRepo.Reserve(ctx, domain.ReserveParams{
		ReservationID: uuid.NewString(),
		ActivityID:    activityID,
		UserID:        userID,
		Qty:           qty,
		Quantity:      activity.Quantity,
		Now:           now,
	})
	if err != nil {
		return nil, err
	}

	dispatch(uc.Dispatcher, domain.Event{
		Type:       domain.EventPresaleReserved,
		ActivityID: activityID,
		UserIDs:    []string{userID},
		RefID:      reservation.ID,
		Attributes: map[string]string{"qty": strconv.FormatInt(qty, 10)},
		OccurredAt: now,
	})
	return reservation, nil
}
