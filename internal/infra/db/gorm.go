package db

import (
	"log/slog"
	"time"

	"restaurant/internal/config"
	"restaurant/internal/domain/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Connect はDBに接続して *gorm.DB を返す。
func Connect(cfg config.Config) (*gorm.DB, error) {
	gdb, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(20)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	return gdb, nil
}

// 全テーブルのモデル（migrate とテストで共有）
func Models() []any {
	return []any{
		&model.User{},
		&model.Table{},
		&model.Dish{},
		&model.DishPrice{},
		&model.Cart{},
		&model.CartItem{},
		&model.Payment{},
		&model.Order{},
		&model.AuditLog{},
	}
}

func Migrate(gdb *gorm.DB, log *slog.Logger) error {
	if err := gdb.AutoMigrate(Models()...); err != nil {
		return err
	}
	log.Info("migration completed", slog.Int("tables", len(Models())))
	return nil
}
