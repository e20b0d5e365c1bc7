package db

import (
	"context"
	"fmt"
	"strings"
	"time"

	"hackshare/internal/config"
	"hackshare/internal/hack"
	"hackshare/internal/logger"
	"hackshare/internal/user"
	"hackshare/internal/vote"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var DB *gorm.DB

// Dialector picks sqlite for DSNs prefixed with "sqlite:" and postgres
// otherwise.
func Dialector(dsn string) gorm.Dialector {
	if path, ok := strings.CutPrefix(dsn, "sqlite:"); ok {
		return sqlite.Open(path)
	}
	return postgres.Open(dsn)
}

func Open(dialector gorm.Dialector) (*gorm.DB, error) {
	gormLogger := gormlogger.Discard
	if logger.IsDebug() {
		gormLogger = gormlogger.Default.LogMode(gormlogger.Info)
	}
	db, err := gorm.Open(dialector, &gorm.Config{
		TranslateError: true,
		Logger:         gormLogger,
		NowFunc: func() time.Time {
			return time.Now().UTC().Truncate(time.Millisecond)
		},
	})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return db, nil
}

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&user.User{}, &hack.Hack{}, &vote.Vote{}); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

func Init(cfg *config.Config) error {
	db, err := Open(Dialector(cfg.Postgres.DSN))
	if err != nil {
		return err
	}
	if err := Migrate(db); err != nil {
		return err
	}
	DB = db
	logger.Info("Database connected and migrated")
	return nil
}

func Ping(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return sqlDB.PingContext(ctx)
}
