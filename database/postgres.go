package database

import (
	"database/sql"
	"errors"
	"fintrack-backend/config"
	"fintrack-backend/models"
	"log"
	"strings"

	"github.com/lib/pq"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

func Connect() {
	sqlDB, err := sql.Open("postgres", config.AppConfig.DatabaseURL)
	if err != nil {
		log.Fatal("Failed to open database:", err)
	}
	sqlDB.SetMaxOpenConns(config.AppConfig.DBMaxOpenConns)

	DB, err = gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel(config.AppConfig.DBLogLevel)),
	})
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	log.Println("✅ Database connected successfully")

	if err := Migrate(DB); err != nil {
		log.Fatal("Failed to migrate database:", err)
	}

	log.Println("✅ Database migrated successfully")
}

// Migrate creates or updates the schema for every model.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Debt{},
		&models.Settlement{},
		&models.EMI{},
		&models.Installment{},
		&models.Category{},
		&models.Item{},
		&models.DailyExpense{},
		&models.ExpenseItem{},
		&models.Activity{},
	)
}

// IsUniqueViolation reports whether err is a Postgres unique constraint violation.
func IsUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	return errors.Is(err, gorm.ErrDuplicatedKey)
}

func logLevel(level string) logger.LogLevel {
	switch strings.ToLower(level) {
	case "silent":
		return logger.Silent
	case "error":
		return logger.Error
	case "info":
		return logger.Info
	default:
		return logger.Warn
	}
}
