package database

import (
	"fmt"
	"time"

	"mon-auxiliaire/internal/models"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

const (
	maxAttempts  = 10
	retryBackoff = 2 * time.Second
)

func dialector(driver, dsn string) (gorm.Dialector, error) {
	switch driver {
	case DriverPostgres:
		return postgres.Open(dsn), nil
	case DriverSQLite:
		return sqlite.Open(dsn), nil
	default:
		return nil, fmt.Errorf("unsupported storage driver %q", driver)
	}
}

// Open se connecte à la base puis applique les migrations.
// PostgreSQL peut démarrer après l'API (docker compose), d'où les tentatives répétées.
func Open(driver, dsn string, log *zap.Logger) (*gorm.DB, error) {
	d, err := dialector(driver, dsn)
	if err != nil {
		return nil, err
	}

	cfg := &gorm.Config{Logger: logger.Default.LogMode(logger.Warn)}

	var db *gorm.DB
	for i := 1; i <= maxAttempts; i++ {
		log.Info("connecting to database",
			zap.String("driver", driver),
			zap.Int("attempt", i),
			zap.Int("max_attempts", maxAttempts),
		)

		db, err = gorm.Open(d, cfg)
		if err == nil {
			break
		}

		log.Warn("database connection failed", zap.Error(err))
		if driver == DriverSQLite || i == maxAttempts {
			break
		}
		time.Sleep(retryBackoff)
	}
	if err != nil {
		return nil, fmt.Errorf("connect to %s: %w", driver, err)
	}
	log.Info("connected to database", zap.String("driver", driver))

	if err := Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(models.All()...); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}
