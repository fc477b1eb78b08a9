package storage

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/blueprintcu/modeler-backend/config"
	"github.com/blueprintcu/modeler-backend/models"
)

// NewDatabase opens the remote Postgres connection from config and migrates
// the persisted tables
func NewDatabase(c map[string]string) (*gorm.DB, error) {
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		config.GetString(c, "SUPABASE_DB_HOST", "localhost"),
		config.GetString(c, "SUPABASE_DB_USER", "postgres"),
		config.GetString(c, "SUPABASE_DB_PASSWORD", ""),
		config.GetString(c, "SUPABASE_DB_NAME", "postgres"),
		config.GetString(c, "SUPABASE_DB_PORT", "5432"),
		config.GetString(c, "SUPABASE_DB_SSLMODE", "require"),
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.AutoMigrate(&models.ProjectDocument{}, &models.ProjectPermission{}); err != nil {
		return nil, fmt.Errorf("failed to auto migrate: %w", err)
	}

	return db, nil
}
