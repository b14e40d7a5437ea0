package config

import (
	"fmt"
	"log"
	"os"

	"nutriguard/models"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

// LoadEnv reads .env if present; in containers the variables come from the
// environment directly, so a missing file is fine.
func LoadEnv() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, using process environment")
	}
}

func InitDB() {
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		os.Getenv("DB_HOST"),
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_NAME"),
		os.Getenv("DB_PORT"),
	)

	var err error
	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	err = DB.AutoMigrate(
		&models.User{},
		&models.Meal{},
		&models.MealItem{},
		&models.DailyGoal{},
		&models.DailyProgress{},
		&models.Alert{},
		&models.UserDevice{},
	)
	if err != nil {
		log.Fatalf("AutoMigrate failed: %v", err)
	}
}

// NewLogger builds the process-wide structured logger. GIN_MODE=release
// selects the production encoder.
func NewLogger() *zap.Logger {
	var (
		logger *zap.Logger
		err    error
	)
	if os.Getenv("GIN_MODE") == "release" {
		logger, err = zap.NewProduction()
	} else {
		logger, err = zap.NewDevelopment()
	}
	if err != nil {
		log.Fatalf("logger init failed: %v", err)
	}
	return logger
}
