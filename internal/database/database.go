package database

import (
	"fmt"

	"psymap-go/internal/config"
	logging "psymap-go/internal/logging"
	"psymap-go/internal/models"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

func Init(log *zap.Logger) {
	var err error
	dbConf := config.Conf.Database
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=UTC",
		dbConf.Host, dbConf.User, dbConf.Password, dbConf.DBName, dbConf.Port)

	// Create our custom GORM logger
	gormLogger := logging.NewGormZapLogger(log)
	gormLogger.LogLevel = logger.Warn

	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormLogger,
	})

	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}

	log.Info("Database connection established successfully.")
	runMigrations(log)
}

func runMigrations(log *zap.Logger) {
	// GORM's AutoMigrate will create tables, columns, foreign keys and the
	// tagged unique indexes. Supporting query indexes are handled separately.
	err := DB.AutoMigrate(
		&models.User{},
		&models.TestType{},
		&models.Question{},
		&models.Configuration{},
		&models.ConfigurationTest{},
		&models.AssessmentSession{},
		&models.UserResponse{},
		&models.AssessmentResult{},
	)
	if err != nil {
		log.Fatal("Failed to run database migrations", zap.Error(err))
	}
	log.Info("Database migrations completed successfully.")

	indexes := []string{
		// Maintenance scans filter on status + idle time.
		`CREATE INDEX IF NOT EXISTS idx_sessions_maintenance ON assessment_sessions (status, last_activity_at);`,
		// Question lookups for one test always filter active and order by position.
		`CREATE INDEX IF NOT EXISTS idx_questions_test_order ON questions (test_type_id, is_active, order_index);`,
	}
	for _, stmt := range indexes {
		if err := DB.Exec(stmt).Error; err != nil {
			log.Fatal("Failed to create custom index", zap.Error(err))
		}
	}
	log.Info("Custom indexes ensured successfully.")
}
