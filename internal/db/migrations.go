package db

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/emert/crm-service/internal/model"
)

// Migrate keeps the schema in sync with the model set. One table per entity,
// foreign keys and cascades handled in the service layer.
func Migrate(database *gorm.DB) error {
	entities := []interface{}{
		&model.Client{},
		&model.Project{},
		&model.Requirement{},
		&model.Task{},
		&model.TaskTimeLog{},
		&model.Quote{},
		&model.QuoteItem{},
		&model.Document{},
		&model.ProjectUpdate{},
		&model.ProjectUpdateAttachment{},
		&model.Communication{},
	}
	for _, entity := range entities {
		if err := database.AutoMigrate(entity); err != nil {
			return fmt.Errorf("migrate %T: %w", entity, err)
		}
	}
	return nil
}
