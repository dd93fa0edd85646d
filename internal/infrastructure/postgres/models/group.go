package models

import (
	"time"

	"github.com/LavaJover/shvark-activity-service/internal/domain"
)

type GroupInstanceModel struct {
	ID           string             `gorm:"primaryKey;type:uuid"`
	ActivityID   string             `gorm:"type:uuid;not null;index"`
	LeaderUserID string             `gorm:"type:uuid;not null"`
	StoreID      string             `gorm:"type:varchar(64)"`
	StartAt      time.Time          `gorm:"not null"`
	ExpireAt     time.Time          `gorm:"not null;index:idx_group_status_expire"`
	Status       domain.GroupStatus `gorm:"type:varchar(16);not null;index:idx_group_status_expire"`
	SucceededAt  *time.Time
	FailedAt     *time.Time
}

func (GroupInstanceModel) TableName() string {
	return "group_instances"
}

type GroupMemberModel struct {
	InstanceID string    `gorm:"primaryKey;type:uuid"`
	UserID     string    `gorm:"primaryKey;type:uuid"`
	StoreID    string    `gorm:"type:varchar(64)"`
	JoinedAt   time.Time `gorm:"not null"`
}

func (GroupMemberModel) TableName() string {
	return "group_members"
}

type PresaleReservationModel struct {
	ID         string    `gorm:"primaryKey;type:uuid"`
	ActivityID string    `gorm:"type:uuid;not null;uniqueIndex:idx_presale_activity_user"`
	UserID     string    `gorm:"type:uuid;not null;uniqueIndex:idx_presale_activity_user"`
	Qty        int64     `gorm:"not null"`
	ReservedAt time.Time `gorm:"not null"`
}

func (PresaleReservationModel) TableName() string {
	return "presale_reservations"
}
