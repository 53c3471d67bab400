package config

import (
	"Playroom/models/postgres"
	"database/sql"
	"fmt"
	"log"
	"os"
	"time"

	_ "github.com/lib/pq"
	"github.com/sirupsen/logrus"
	pgdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// ConnectGORM returns a GORM DB instance connected to PostgreSQL
func ConnectGORM() (*gorm.DB, error) {
	user := os.Getenv("POSTGRES_USER")
	password := os.Getenv("POSTGRES_PASSWORD")
	host := os.Getenv("POSTGRES_HOST")
	port := os.Getenv("POSTGRES_PORT")
	database := os.Getenv("POSTGRES_DATABASE")
	verbose := os.Getenv("VERBOSE_POSTGRES")

	// NOTE: gorm.io/driver/postgres is pinned to v1.4.0, newer versions break AutoMigrate
	// on existing tables (see https://github.com/pilinux/gorest/issues/167)
	dsn := fmt.Sprintf("postgresql://%s:%s@%s:%s/%s",
		user, password, host, port, database)
	if sslmode := os.Getenv("POSTGRES_SSLMODE"); sslmode != "" {
		dsn += "?sslmode=" + sslmode
	}

	sqlDB, err := sql.Open("postgres", dsn)
	if err != nil {
		logrus.WithError(err).Error("[POSTGRES] error opening connection")
		return nil, err
	}

	gormConfig := &gorm.Config{}
	if verbose == "true" {
		gormConfig.Logger = logger.New(
			log.New(os.Stdout, "\r\n", log.LstdFlags),
			logger.Config{
				SlowThreshold:             time.Second,
				LogLevel:                  logger.Info,
				IgnoreRecordNotFoundError: true,
				Colorful:                  true,
			},
		)
	} else {
		gormConfig.Logger = logger.Default.LogMode(logger.Silent)
	}

	db, err := gorm.Open(pgdriver.New(pgdriver.Config{
		Conn:                 sqlDB,
		PreferSimpleProtocol: true,
	}), gormConfig)
	if err != nil {
		logrus.WithError(err).Error("[POSTGRES] error connecting with GORM")
		return nil, err
	}

	if err := sqlDB.Ping(); err != nil {
		logrus.WithError(err).Error("[POSTGRES] ping failed")
		return nil, err
	}

	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	logrus.WithFields(logrus.Fields{"host": host, "database": database}).Info("[POSTGRES] connected with GORM")
	return db, nil
}

// MigrateDatabase migrates the GORM models to the PostgreSQL database
func MigrateDatabase(db *gorm.DB) error {
	err := db.AutoMigrate(
		postgres.GameRoom{},
		postgres.RoomPlayer{},
		postgres.PlayerGroup{},
		postgres.PlayerGroupMember{})
	if err != nil {
		return fmt.Errorf("auto migration failed: %w", err)
	}
	logrus.Info("[POSTGRES] database migrated")
	return nil
}
