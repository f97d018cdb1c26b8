package services

import (
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// TaskService owns the assignment orchestration, status propagation and
// query surface of the task engine. Directory reads go through the
// collaborator interfaces; ledger writes share the service's DB handle
// so they can run inside one transaction.
type TaskService struct {
	db        *gorm.DB
	employees EmployeeDirectory
	entities  EntityDirectory
	log       *zap.Logger
	uploadDir string
}

func NewTaskService(db *gorm.DB, employees EmployeeDirectory, entities EntityDirectory, log *zap.Logger, uploadDir string) *TaskService {
	if log == nil {
		log = zap.NewNop()
	}
	return &TaskService{
		db:        db,
		employees: employees,
		entities:  entities,
		log:       log,
		uploadDir: uploadDir,
	}
}
