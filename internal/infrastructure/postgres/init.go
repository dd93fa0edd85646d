package postgres

import (
	"time"

	"github.com/LavaJover/shvark-activity-service/internal/config"
	"github.com/pkg/errors"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// InitDB opens the activity database and pings it.
func InitDB(cfg *config.ActivityConfig) (*gorm.DB, error) {
	dsn := cfg.ActivityDB.Dsn
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Warn),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to init db")
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, errors.Wrap(err, "failed to get sql.DB")
	}
	if cfg.ActivityDB.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.ActivityDB.MaxOpenConns)
		sqlDB.SetMaxIdleConns(cfg.ActivityDB.MaxOpenConns / 2)
	}
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	return db, nil
}
