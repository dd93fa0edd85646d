package models

import (
	"time"

	"github.com/LavaJover/shvark-activity-service/internal/domain"
)

type ActivityModel struct {
	ID           string                `gorm:"primaryKey;type:uuid"`
	Type         domain.ActivityType   `gorm:"type:varchar(16);not null;index"`
	Title        string                `gorm:"not null"`
	Price        float64               `gorm:"type:decimal(10,2)"`
	ListPrice    float64               `gorm:"type:decimal(10,2)"`
	Quantity     int64                 `gorm:"not null;default:0"`
	PerUserLimit int64                 `gorm:"not null"`
	StartAt      time.Time             `gorm:"not null"`
	EndAt        time.Time             `gorm:"not null"`
	Status       domain.ActivityStatus `gorm:"type:varchar(16);not null;default:'draft';index"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (ActivityModel) TableName() string {
	return "activities"
}

type GroupConfigModel struct {
	ActivityID      string `gorm:"primaryKey;type:uuid"`
	NRequired       int    `gorm:"not null"`
	TimeLimitHours  int    `gorm:"not null"`
	UseValidHours   int    `gorm:"not null;default:0"`
	AllowCrossStore bool   `gorm:"not null;default:false"`
}

func (GroupConfigModel) TableName() string {
	return "group_configs"
}

type PresaleConfigModel struct {
	ActivityID    string  `gorm:"primaryKey;type:uuid"`
	DepositAmount float64 `gorm:"type:decimal(10,2)"`
	PickupStartAt *time.Time
	PickupEndAt   *time.Time
}

func (PresaleConfigModel) TableName() string {
	return "presale_configs"
}

type ActivityStoreModel struct {
	ActivityID string `gorm:"primaryKey;type:uuid"`
	StoreID    string `gorm:"primaryKey;type:uuid;index"`
}

func (ActivityStoreModel) TableName() string {
	return "activity_stores"
}
