package db

import (
	"context"
	"fmt"
	"time"

	"github.com/homeheartcreation/shop-backend/config"
	appLogger "github.com/homeheartcreation/shop-backend/pkg/logger"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

const pingTimeout = 3 * time.Second

// Initialize opens the connection pool. An unreachable database is logged but
// not fatal: the server keeps running and reports DEGRADED on /api/health.
func Initialize(cfg *config.DatabaseConfig) error {
	appLogger.Info("Connecting to database", map[string]interface{}{
		"host":     cfg.Host,
		"port":     cfg.Port,
		"database": cfg.DBName,
		"from_url": cfg.URL != "",
	})

	var err error
	DB, err = gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		Logger:               logger.Default.LogMode(logger.Silent),
		DisableAutomaticPing: true,
	})
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}

	sqlDB, err := DB.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}

	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	if err := Ping(ctx, DB); err != nil {
		appLogger.Error("Database unreachable, starting in degraded mode", err)
		return nil
	}

	appLogger.Info("Database connection established successfully", map[string]interface{}{
		"max_idle_conns": 10,
		"max_open_conns": 100,
	})
	return nil
}

// Ping reports whether the database behind gdb answers.
func Ping(ctx context.Context, gdb *gorm.DB) error {
	if gdb == nil {
		return fmt.Errorf("database not initialized")
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func Close() error {
	if DB == nil {
		return nil
	}
	sqlDB, err := DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func GetDB() *gorm.DB {
	return DB
}
