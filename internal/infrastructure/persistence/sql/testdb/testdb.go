// Package testdb opens throwaway SQLite databases with the full schema and
// seeds planning/catalog fixtures for persistence and lifecycle tests.
package testdb

import (
	"context"
	"path/filepath"
	"testing"

	"gorm.io/gorm"

	"kingjoe/internal/bootstrap/config"
	"kingjoe/internal/bootstrap/database"
	"kingjoe/internal/infrastructure/persistence/sql/model"
)

const (
	Product     = "PRD001"
	UserMaria   = uint64(1)
	UserJoao    = uint64(2)
	PhaseWeave  = "TEC01"
	PhaseSew    = "COS01"
	ResourceR01 = "R01"
	ResourceR02 = "R02"
)

// Open returns a migrated database in t.TempDir with foreign keys enforced.
func Open(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "kingjoe.sqlite")
	db, err := database.Open(context.Background(), config.DatabaseConfig{
		Driver: "sqlite",
		DSN:    dsn,
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("get sql db: %v", err)
	}
	t.Cleanup(func() {
		_ = sqlDB.Close()
	})

	models := append(model.ReferenceModels(), model.InspectionModels()...)
	if err := db.AutoMigrate(models...); err != nil {
		t.Fatalf("auto migrate: %v", err)
	}
	return db
}

// SeedCatalog inserts phases, resources, colors of Product and two users.
// Descriptions carry trailing padding like the fixed-width ERP columns.
func SeedCatalog(t *testing.T, db *gorm.DB) {
	t.Helper()

	rows := []any{
		&[]model.ProductionPhase{
			{PhaseCode: PhaseWeave, Description: "Tecelagem           "},
			{PhaseCode: PhaseSew, Description: "Costura             "},
		},
		&[]model.ProductiveResource{
			{ResourceCode: ResourceR01, Description: "Tear 01        "},
			{ResourceCode: ResourceR02, Description: "Maquina 02     "},
		},
		&[]model.ProductColor{
			{Product: Product, ColorCode: "AZ", Description: "Azul      "},
			{Product: Product, ColorCode: "VM", Description: "Vermelho  "},
			{Product: Product, ColorCode: "PT", Description: "Preto     "},
		},
		&[]model.User{
			{UserID: UserMaria, Username: "maria"},
			{UserID: UserJoao, Username: "joao"},
		},
	}
	for _, batch := range rows {
		if err := db.Create(batch).Error; err != nil {
			t.Fatalf("seed catalog: %v", err)
		}
	}
}

type ColorQty struct {
	Color    string
	Quantity int
}

type Task struct {
	Task      int
	Phase     string
	Resource  string
	InProcess int
	Colors    []ColorQty
}

// SeedOrder inserts the planning rows of one production order of Product.
func SeedOrder(t *testing.T, db *gorm.DB, orderCode string, tasks ...Task) {
	t.Helper()

	for _, task := range tasks {
		if err := db.Create(&model.ProductionTask{
			OrderCode:         orderCode,
			Task:              task.Task,
			PhaseCode:         task.Phase,
			ResourceCode:      task.Resource,
			QuantityInProcess: task.InProcess,
		}).Error; err != nil {
			t.Fatalf("seed task %d: %v", task.Task, err)
		}

		for _, c := range task.Colors {
			if err := db.Create(&model.ProductionTaskBalance{
				OrderCode: orderCode,
				Task:      task.Task,
				ColorCode: c.Color,
				Product:   Product,
				Quantity:  c.Quantity,
			}).Error; err != nil {
				t.Fatalf("seed balance %d/%s: %v", task.Task, c.Color, err)
			}
		}
	}
}

// SetLotStatus plays the shop-floor workflow that finishes lots.
func SetLotStatus(t *testing.T, db *gorm.DB, orderCode string, phase string, resource string, status string) {
	t.Helper()

	sub := db.Model(&model.InspectionOrder{}).Select("inspection_id").Where("order_code = ?", orderCode)
	result := db.Model(&model.InspectionLot{}).
		Where("inspection_id IN (?) AND phase_code = ? AND resource_code = ?", sub, phase, resource).
		Update("status", status)
	if result.Error != nil {
		t.Fatalf("set lot status: %v", result.Error)
	}
	if result.RowsAffected != 1 {
		t.Fatalf("set lot status affected %d rows", result.RowsAffected)
	}
}

// Count returns the number of rows of a model's table.
func Count(t *testing.T, db *gorm.DB, value any) int64 {
	t.Helper()

	var n int64
	if err := db.Model(value).Count(&n).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	return n
}
