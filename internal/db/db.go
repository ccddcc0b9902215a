package db

import (
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/workhive/workhive-api/internal/config"
	"github.com/workhive/workhive-api/internal/logger"
	"github.com/workhive/workhive-api/internal/models"
)

func NewDB(cfg *config.Config) *gorm.DB {
	db, err := gorm.Open(postgres.Open(cfg.DBUrl), &gorm.Config{
		PrepareStmt: true,
	})
	if err != nil {
		logger.Fatal("failed to connect database: " + err.Error())
	}

	sqlDB, err := db.DB()
	if err != nil {
		logger.Fatal("failed to get sql.DB: " + err.Error())
	}

	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetConnMaxIdleTime(10 * time.Minute)

	if err := db.AutoMigrate(
		&models.User{},
		&models.Service{},
		&models.Booking{},
		&models.Favorite{},
		&models.Rating{},
		&models.Report{},
		&models.Conversation{},
		&models.Message{},
		&models.Notification{},
	); err != nil {
		logger.Fatal("failed to migrate: " + err.Error())
	}

	return db
}
