package service

import (
	"context"
	"fmt"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/emert/crm-service/internal/db"
	"github.com/emert/crm-service/internal/model"
)

func setupTestDB(t *testing.T, name string) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	database, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.Migrate(database); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return database
}

func seedClient(t *testing.T, database *gorm.DB) model.Client {
	t.Helper()
	client := model.Client{
		CompanyName: "Acme Ltd",
		ContactName: "Jordan Miles",
		Email:       "jordan@acme.test",
	}
	if err := database.Create(&client).Error; err != nil {
		t.Fatalf("seed client: %v", err)
	}
	return client
}

func seedProject(t *testing.T, database *gorm.DB, clientID uint) model.Project {
	t.Helper()
	project := model.Project{
		ClientID:    clientID,
		Name:        "Website relaunch",
		Status:      model.ProjectStatusActive,
		ServiceType: "Web Development",
	}
	if err := database.Create(&project).Error; err != nil {
		t.Fatalf("seed project: %v", err)
	}
	return project
}

func testContext() context.Context {
	return context.Background()
}
