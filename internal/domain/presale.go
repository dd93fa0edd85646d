package domain

import (
	"context"
	"time"
)

type PresaleReservation struct {
	ID         string
	ActivityID string
	UserID     string
	Qty        int64
	ReservedAt time.Time
}

type ReserveParams struct {
	ReservationID string
	ActivityID    string
	UserID        string
	Qty           int64
	Quantity      int64
	Now           time.Time
}

type PresaleRepository interface {
	Reserve(ctx context.Context, params ReserveParams) (*PresaleReservation, error)
	GetReservedQuantity(ctx context.Context, activityID string) (int64, error)
}
