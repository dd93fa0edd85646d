package models

import "gorm.io/gorm"

// AutoMigrate creates every engine table. Production schemas are owned by the
// SQL migrations; this is used by local runs and tests.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&ActivityModel{},
		&GroupConfigModel{},
		&PresaleConfigModel{},
		&ActivityStoreModel{},
		&StoreModel{},
		&UserModel{},
		&StoreStaffModel{},
		&CouponModel{},
		&RedemptionModel{},
		&GroupInstanceModel{},
		&GroupMemberModel{},
		&PresaleReservationModel{},
	)
}
