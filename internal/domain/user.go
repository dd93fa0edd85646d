package domain

import "context"

type UserRole string

const (
	RoleCustomer UserRole = "customer"
	RoleStaff    UserRole = "staff"
	RoleAdmin    UserRole = "admin"
)

type User struct {
	ID          string
	LineUserID  string
	DisplayName string
	Role        UserRole
}

type StoreStaffAuthorization struct {
	StoreID   string
	UserID    string
	CanVerify bool
}

type IdentityRepository interface {
	GetUserByID(ctx context.Context, userID string) (*User, error)
	GetUserByLineID(ctx context.Context, lineUserID string) (*User, error)
	// GetStaffAuthorization returns ErrStoreUnauthorized when the pair does not exist.
	GetStaffAuthorization(ctx context.Context, storeID, userID string) (*StoreStaffAuthorization, error)
}
