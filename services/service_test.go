package services

import (
	"fmt"
	"testing"
	"time"

	"github.com/mneikoe/VP-FINANCE-FINAL-sub002/constants"
	"github.com/mneikoe/VP-FINANCE-FINAL-sub002/models"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestService(t *testing.T) (*TaskService, *gorm.DB) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.Employee{},
		&models.Entity{},
		&models.TaskTemplate{},
		&models.Assignment{},
		&models.IndividualTask{},
		&models.EntityStatusEntry{},
		&models.EntityTaskHistory{},
		&models.StatusUpdate{},
	)
	require.NoError(t, err)

	svc := NewTaskService(db, NewEmployeeDirectory(db), NewEntityDirectory(db), zap.NewNop(), t.TempDir())
	return svc, db
}

func seedEmployee(t *testing.T, db *gorm.DB, name, role string) models.Employee {
	t.Helper()
	emp := models.Employee{Name: name, Email: name + "@vp.example", Role: role}
	require.NoError(t, db.Create(&emp).Error)
	return emp
}

func seedEntity(t *testing.T, db *gorm.DB, name, status string) models.Entity {
	t.Helper()
	ent := models.Entity{Name: name, Status: status}
	require.NoError(t, db.Create(&ent).Error)
	return ent
}

func seedTemplate(t *testing.T, db *gorm.DB, archetype string) models.TaskTemplate {
	t.Helper()
	template := models.TaskTemplate{
		Name:          "KYC refresh",
		Sub:           "Compliance",
		Archetype:     archetype,
		Departments:   models.StringList{"rm"},
		EstimatedDays: 5,
		Priority:      constants.PriorityMedium,
		Status:        constants.TemplateStatusTemplate,
		Checklist: models.Checklist{
			{Text: "Collect PAN"},
			{Text: "Verify address"},
			{Text: "Upload documents"},
		},
	}
	require.NoError(t, db.Create(&template).Error)
	return template
}

func futureDate(days int) *time.Time {
	d := time.Now().AddDate(0, 0, days)
	return &d
}
