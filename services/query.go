package services

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/mneikoe/VP-FINANCE-FINAL-sub002/constants"
	"github.com/mneikoe/VP-FINANCE-FINAL-sub002/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const defaultPageSize = 10

type TaskPage struct {
	Tasks      []models.TaskTemplate `json:"tasks"`
	Total      int64                 `json:"total"`
	Page       int                   `json:"page"`
	Limit      int                   `json:"limit"`
	TotalPages int                   `json:"total_pages"`
}

// GetAllTasks lists templates filtered by archetype and lifecycle
// status (defaulting to unassigned templates), with a free-text match
// over name, sub and department.
func (s *TaskService) GetAllTasks(ctx context.Context, archetype, status, search string, page, limit int) (*TaskPage, error) {
	if status == "" {
		status = constants.TemplateStatusTemplate
	}
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultPageSize
	}

	q := s.db.WithContext(ctx).Model(&models.TaskTemplate{}).Where("status = ?", status)
	if archetype != "" {
		q = q.Where("archetype = ?", archetype)
	}
	if search != "" {
		pattern := "%" + search + "%"
		q = q.Where("name LIKE ? OR sub LIKE ? OR departments LIKE ?", pattern, pattern, pattern)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, err
	}

	var tasks []models.TaskTemplate
	err := q.Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&tasks).Error
	if err != nil {
		return nil, err
	}

	totalPages := int((total + int64(limit) - 1) / int64(limit))
	return &TaskPage{Tasks: tasks, Total: total, Page: page, Limit: limit, TotalPages: totalPages}, nil
}

type EntitySummary struct {
	ID     uint   `json:"id"`
	Name   string `json:"name"`
	Status string `json:"status"`
}

// AssignedTaskView is an individual task enriched with resolved entity
// summaries and checklist counters for the employee's work list.
type AssignedTaskView struct {
	models.IndividualTask
	Clients            []EntitySummary `json:"clients"`
	Prospects          []EntitySummary `json:"prospects"`
	ChecklistCount     int             `json:"checklist_count"`
	CompletedChecklist int             `json:"completed_checklist"`
}

// GetAssignedTasks returns the employee's open individual tasks.
func (s *TaskService) GetAssignedTasks(ctx context.Context, employeeID uint) ([]AssignedTaskView, error) {
	if employeeID == 0 {
		return nil, fmt.Errorf("employee is required: %w", ErrValidation)
	}

	var tasks []models.IndividualTask
	err := s.db.WithContext(ctx).
		Preload("EntityStatuses").
		Where("employee_id = ? AND status IN ?", employeeID, []string{
			constants.IndividualStatusAssigned,
			constants.IndividualStatusInProgress,
			constants.AssignmentStatusPending,
		}).
		Order("due_date ASC").
		Find(&tasks).Error
	if err != nil {
		return nil, err
	}

	views := make([]AssignedTaskView, 0, len(tasks))
	for _, task := range tasks {
		view := AssignedTaskView{
			IndividualTask:     task,
			Clients:            s.entitySummaries(ctx, task.AssignedClients),
			Prospects:          s.entitySummaries(ctx, task.AssignedProspects),
			ChecklistCount:     len(task.Checklist),
			CompletedChecklist: task.Checklist.CompletedCount(),
		}
		views = append(views, view)
	}
	return views, nil
}

func (s *TaskService) entitySummaries(ctx context.Context, ids models.UintList) []EntitySummary {
	summaries := make([]EntitySummary, 0, len(ids))
	for _, id := range ids {
		ent, err := s.entities.FindByID(ctx, id)
		if err != nil {
			// Entity deleted since assignment; the work list still
			// renders without it.
			s.log.Warn("linked entity missing", zap.Uint("entity_id", id), zap.Error(err))
			continue
		}
		summaries = append(summaries, EntitySummary{ID: ent.ID, Name: ent.Name, Status: ent.Status})
	}
	return summaries
}

type HistoryFilter struct {
	TaskID uint
	Status string
	From   *time.Time
	To     *time.Time
	Page   int
	Limit  int
}

type HistoryCounters struct {
	Total      int64 `json:"total"`
	Completed  int64 `json:"completed"`
	Pending    int64 `json:"pending"`
	InProgress int64 `json:"in_progress"`
	Cancelled  int64 `json:"cancelled"`
	Overdue    int64 `json:"overdue"`
}

type HistoryPage struct {
	Records  []models.EntityTaskHistory `json:"records"`
	Counters HistoryCounters            `json:"counters"`
	Total    int64                      `json:"total"`
	Page     int                        `json:"page"`
	Limit    int                        `json:"limit"`
}

// GetEntityTaskHistory returns an entity's ledger records, most recent
// first, with aggregate counters. Overdue is computed, not stored: due
// date passed and status not completed.
func (s *TaskService) GetEntityTaskHistory(ctx context.Context, entityID uint, f HistoryFilter) (*HistoryPage, error) {
	if entityID == 0 {
		return nil, fmt.Errorf("entity is required: %w", ErrValidation)
	}
	if _, err := s.entities.FindByID(ctx, entityID); err != nil {
		return nil, err
	}
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 {
		f.Limit = defaultPageSize
	}

	base := s.db.WithContext(ctx).Model(&models.EntityTaskHistory{}).Where("entity_id = ?", entityID)
	if f.TaskID != 0 {
		base = base.Where("individual_task_id = ?", f.TaskID)
	}
	if f.From != nil {
		base = base.Where("updated_at >= ?", *f.From)
	}
	if f.To != nil {
		base = base.Where("updated_at <= ?", *f.To)
	}

	counters := HistoryCounters{}
	type statusCount struct {
		CurrentStatus string
		N             int64
	}
	var rows []statusCount
	err := base.Session(&gorm.Session{}).
		Select("current_status, COUNT(*) AS n").
		Group("current_status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		counters.Total += row.N
		switch row.CurrentStatus {
		case constants.EntityStatusCompleted:
			counters.Completed += row.N
		case constants.EntityStatusPending:
			counters.Pending += row.N
		case constants.EntityStatusInProgress:
			counters.InProgress += row.N
		case constants.EntityStatusCancelled:
			counters.Cancelled += row.N
		}
	}
	err = base.Session(&gorm.Session{}).
		Where("due_date IS NOT NULL AND due_date < ? AND current_status <> ?",
			time.Now(), constants.EntityStatusCompleted).
		Count(&counters.Overdue).Error
	if err != nil {
		return nil, err
	}

	filtered := base.Session(&gorm.Session{})
	if f.Status != "" {
		filtered = filtered.Where("current_status = ?", f.Status)
	}

	var total int64
	if err := filtered.Count(&total).Error; err != nil {
		return nil, err
	}

	var records []models.EntityTaskHistory
	err = filtered.
		Preload("StatusUpdates", func(db *gorm.DB) *gorm.DB {
			return db.Order("status_updates.created_at DESC")
		}).
		Order("updated_at DESC").
		Offset((f.Page - 1) * f.Limit).
		Limit(f.Limit).
		Find(&records).Error
	if err != nil {
		return nil, err
	}

	return &HistoryPage{
		Records:  records,
		Counters: counters,
		Total:    total,
		Page:     f.Page,
		Limit:    f.Limit,
	}, nil
}

// DeleteTask removes a template and cascades to every dependent record.
// Attachment files are cleaned up best-effort after the rows are gone:
// a missing or locked file is logged, never fatal.
func (s *TaskService) DeleteTask(ctx context.Context, templateID uint) error {
	var template models.TaskTemplate
	if err := s.db.WithContext(ctx).First(&template, templateID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("template %d: %w", templateID, ErrNotFound)
		}
		return err
	}

	var orphanFiles models.FileList

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var tasks []models.IndividualTask
		if err := tx.Where("task_template_id = ?", templateID).Find(&tasks).Error; err != nil {
			return err
		}

		taskIDs := make([]uint, 0, len(tasks))
		for _, task := range tasks {
			taskIDs = append(taskIDs, task.ID)
		}

		if len(taskIDs) > 0 {
			var entries []models.EntityStatusEntry
			if err := tx.Where("individual_task_id IN ?", taskIDs).Find(&entries).Error; err != nil {
				return err
			}
			for _, entry := range entries {
				orphanFiles = append(orphanFiles, entry.Files...)
			}

			var histories []models.EntityTaskHistory
			if err := tx.Where("individual_task_id IN ?", taskIDs).Find(&histories).Error; err != nil {
				return err
			}
			historyIDs := make([]uint, 0, len(histories))
			for _, h := range histories {
				historyIDs = append(historyIDs, h.ID)
			}

			if len(historyIDs) > 0 {
				var updates []models.StatusUpdate
				if err := tx.Where("entity_task_history_id IN ?", historyIDs).Find(&updates).Error; err != nil {
					return err
				}
				for _, u := range updates {
					orphanFiles = append(orphanFiles, u.Files...)
				}
				if err := tx.Where("entity_task_history_id IN ?", historyIDs).
					Delete(&models.StatusUpdate{}).Error; err != nil {
					return err
				}
			}

			if err := tx.Where("individual_task_id IN ?", taskIDs).
				Delete(&models.EntityTaskHistory{}).Error; err != nil {
				return err
			}
			if err := tx.Where("individual_task_id IN ?", taskIDs).
				Delete(&models.EntityStatusEntry{}).Error; err != nil {
				return err
			}
			if err := tx.Where("task_template_id = ?", templateID).
				Delete(&models.IndividualTask{}).Error; err != nil {
				return err
			}
		}

		if err := tx.Where("task_template_id = ?", templateID).
			Delete(&models.Assignment{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.TaskTemplate{}, templateID).Error
	})
	if err != nil {
		return err
	}

	for _, file := range orphanFiles {
		path := filepath.Join(s.uploadDir, file.Filename)
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			s.log.Warn("attachment cleanup failed",
				zap.String("path", path), zap.Error(err))
		}
	}
	return nil
}
