package domain

import "context"

type StoreStatus string

const (
	StoreActive   StoreStatus = "active"
	StoreInactive StoreStatus = "inactive"
)

type Store struct {
	ID      string
	CityID  string
	Name    string
	Address string
	Lat     float64
	Lng     float64
	PlaceID string
	Status  StoreStatus
	Enabled bool
	Weight  int
}

type NearbyStore struct {
	Store      *Store
	DistanceKm *float64
	MapsURL    string
}

type StoreRepository interface {
	// GetStoresByActivityID returns the enabled, active stores mapped to the activity.
	GetStoresByActivityID(ctx context.Context, activityID string) ([]*Store, error)
	GetStoreIDsByActivityID(ctx context.Context, activityID string) ([]string, error)
}
