package db

import (
	"fmt"

	"gorm.io/gorm"

	types "github.com/yungbote/changetrack/internal/domain/employee"
)

func AutoMigrateAll(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&types.Employee{},
		&types.Address{},
	); err != nil {
		return fmt.Errorf("automigrate: %w", err)
	}
	return nil
}
