package models

import (
	"time"

	"github.com/LavaJover/shvark-activity-service/internal/domain"
	"gorm.io/gorm"
)

type StoreModel struct {
	ID        string             `gorm:"primaryKey;type:uuid"`
	CityID    string             `gorm:"type:varchar(64);index"`
	Name      string             `gorm:"not null"`
	Address   string
	Lat       float64
	Lng       float64
	PlaceID   string
	Status    domain.StoreStatus `gorm:"type:varchar(16);not null;default:'active'"`
	Enabled   bool               `gorm:"not null;default:true"`
	Weight    int                `gorm:"not null;default:0"`
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

func (StoreModel) TableName() string {
	return "stores"
}

type UserModel struct {
	ID          string          `gorm:"primaryKey;type:uuid"`
	LineUserID  string          `gorm:"type:varchar(64);uniqueIndex"`
	DisplayName string
	Role        domain.UserRole `gorm:"type:varchar(16);not null;default:'customer'"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (UserModel) TableName() string {
	return "users"
}

type StoreStaffModel struct {
	StoreID   string `gorm:"primaryKey;type:uuid"`
	UserID    string `gorm:"primaryKey;type:uuid;index"`
	CanVerify bool   `gorm:"not null;default:true"`
	CreatedAt time.Time
}

func (StoreStaffModel) TableName() string {
	return "store_staff"
}
