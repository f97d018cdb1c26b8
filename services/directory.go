package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/mneikoe/VP-FINANCE-FINAL-sub002/models"
	"gorm.io/gorm"
)

// EmployeeDirectory is the engine's view of employee records.
type EmployeeDirectory interface {
	FindByID(ctx context.Context, id uint) (*models.Employee, error)
}

// EntityDirectory is the engine's view of client/prospect records.
// FindWithStatus returns only the entities whose current funnel status
// matches; callers compare counts to detect drops.
type EntityDirectory interface {
	FindByID(ctx context.Context, id uint) (*models.Entity, error)
	FindWithStatus(ctx context.Context, ids []uint, status string) ([]models.Entity, error)
}

type gormEmployeeDirectory struct {
	db *gorm.DB
}

func NewEmployeeDirectory(db *gorm.DB) EmployeeDirectory {
	return &gormEmployeeDirectory{db: db}
}

func (d *gormEmployeeDirectory) FindByID(ctx context.Context, id uint) (*models.Employee, error) {
	var emp models.Employee
	if err := d.db.WithContext(ctx).First(&emp, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("employee %d: %w", id, ErrNotFound)
		}
		return nil, err
	}
	return &emp, nil
}

type gormEntityDirectory struct {
	db *gorm.DB
}

func NewEntityDirectory(db *gorm.DB) EntityDirectory {
	return &gormEntityDirectory{db: db}
}

func (d *gormEntityDirectory) FindByID(ctx context.Context, id uint) (*models.Entity, error) {
	var ent models.Entity
	if err := d.db.WithContext(ctx).First(&ent, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("entity %d: %w", id, ErrNotFound)
		}
		return nil, err
	}
	return &ent, nil
}

func (d *gormEntityDirectory) FindWithStatus(ctx context.Context, ids []uint, status string) ([]models.Entity, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var entities []models.Entity
	err := d.db.WithContext(ctx).
		Where("id IN ? AND status = ?", ids, status).
		Find(&entities).Error
	if err != nil {
		return nil, err
	}
	return entities, nil
}
