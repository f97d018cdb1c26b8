package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/mneikoe/VP-FINANCE-FINAL-sub002/constants"
	"github.com/mneikoe/VP-FINANCE-FINAL-sub002/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// TaskProgress is a read-model convenience for caller-side display; it
// is recomputed on every update and never persisted separately.
type TaskProgress struct {
	Completed  int `json:"completed"`
	Total      int `json:"total"`
	Percentage int `json:"percentage"`
}

type StatusUpdateResult struct {
	EntityType   string       `json:"entity_type"`
	Status       string       `json:"status"`
	TaskProgress TaskProgress `json:"task_progress"`
}

// UpdateEntityTaskStatus applies a status change for one (task, entity)
// pair: it replaces the task-side entity status entry in place, appends
// an audit entry to the entity-side ledger, and rolls the task's own
// status up to completed once every linked entity is completed. Both
// documents are written in one transaction so the mirrors cannot
// diverge under concurrent writers.
func (s *TaskService) UpdateEntityTaskStatus(
	ctx context.Context,
	taskID, entityID uint,
	status, remarks string,
	updaterID uint,
	files models.FileList,
) (*StatusUpdateResult, error) {
	if updaterID == 0 {
		return nil, ErrMissingUpdater
	}
	if !constants.ValidEntityStatus(status) {
		return nil, fmt.Errorf("invalid entity status %q: %w", status, ErrValidation)
	}

	var task models.IndividualTask
	if err := s.db.WithContext(ctx).First(&task, taskID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("individual task %d: %w", taskID, ErrNotFound)
		}
		return nil, err
	}

	var entityType string
	switch {
	case task.AssignedClients.Contains(entityID):
		entityType = constants.EntityStageClient
	case task.AssignedProspects.Contains(entityID):
		entityType = constants.EntityStageProspect
	default:
		return nil, fmt.Errorf("entity %d on task %d: %w", entityID, taskID, ErrEntityNotAssigned)
	}

	now := time.Now()
	var progress TaskProgress

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Task side: replace the live entry if the entity already has
		// one, append otherwise.
		var entry models.EntityStatusEntry
		err := tx.Where("individual_task_id = ? AND entity_id = ?", task.ID, entityID).
			First(&entry).Error
		switch {
		case err == nil:
			if entry.Status != status && entry.UpdatedAt.After(now.Add(-time.Second)) {
				// Another writer touched this pair within the last
				// second; the audit trail keeps both, only the live
				// entry is replaced.
				s.log.Warn("concurrent status update on same task/entity pair",
					zap.Uint("task_id", task.ID),
					zap.Uint("entity_id", entityID),
					zap.String("previous", entry.Status),
					zap.String("new", status))
			}
			entry.Status = status
			entry.Remarks = remarks
			entry.UpdatedByID = updaterID
			entry.UpdatedAt = now
			entry.Files = files
			if err := tx.Save(&entry).Error; err != nil {
				return err
			}
		case errors.Is(err, gorm.ErrRecordNotFound):
			entry = models.EntityStatusEntry{
				IndividualTaskID: task.ID,
				EntityID:         entityID,
				EntityType:       entityType,
				Status:           status,
				Remarks:          remarks,
				UpdatedByID:      updaterID,
				UpdatedAt:        now,
				Files:            files,
			}
			if err := tx.Create(&entry).Error; err != nil {
				return err
			}
		default:
			return err
		}

		// Entity side: append to the ledger, re-seeding the record if
		// this pair predates assignment-time seeding.
		history, _, err := findOrCreateHistory(tx, entityID, &task)
		if err != nil {
			return err
		}
		update := models.StatusUpdate{
			EntityTaskHistoryID: history.ID,
			Status:              status,
			Remarks:             remarks,
			UpdatedByID:         updaterID,
			CreatedAt:           now,
			Files:               files,
		}
		if err := tx.Create(&update).Error; err != nil {
			return err
		}
		history.CurrentStatus = status
		if status == constants.EntityStatusCompleted {
			history.CompletedAt = &now
		} else {
			history.CompletedAt = nil
		}
		if err := tx.Save(history).Error; err != nil {
			return err
		}

		// Rollup: every linked entity must individually reach
		// completed before the task itself does. Re-read the task row
		// inside the transaction so a concurrent writer's rollup is
		// never overwritten with a stale copy.
		if err := tx.First(&task, task.ID).Error; err != nil {
			return err
		}
		total := len(task.AssignedClients) + len(task.AssignedProspects)
		var completed int64
		err = tx.Model(&models.EntityStatusEntry{}).
			Where("individual_task_id = ? AND status = ?", task.ID, constants.EntityStatusCompleted).
			Count(&completed).Error
		if err != nil {
			return err
		}

		progress = TaskProgress{
			Completed: int(completed),
			Total:     total,
		}
		if total > 0 {
			progress.Percentage = int(math.Round(float64(completed) / float64(total) * 100))
		}

		// The originating assignment record follows the task.
		if total > 0 && int(completed) == total {
			if task.Status != constants.IndividualStatusCompleted {
				task.Status = constants.IndividualStatusCompleted
				task.CompletedAt = &now
			}
			if task.AssignmentID != 0 {
				err := tx.Model(&models.Assignment{}).
					Where("id = ?", task.AssignmentID).
					Updates(map[string]any{
						"status":       constants.AssignmentStatusCompleted,
						"completed_at": now,
					}).Error
				if err != nil {
					return err
				}
			}
		} else {
			if task.Status == constants.IndividualStatusAssigned {
				task.Status = constants.IndividualStatusInProgress
			}
			if task.AssignmentID != 0 {
				err := tx.Model(&models.Assignment{}).
					Where("id = ? AND status = ?", task.AssignmentID, constants.AssignmentStatusPending).
					Update("status", constants.AssignmentStatusInProgress).Error
				if err != nil {
					return err
				}
			}
		}
		return tx.Save(&task).Error
	})
	if err != nil {
		return nil, err
	}

	return &StatusUpdateResult{
		EntityType:   entityType,
		Status:       status,
		TaskProgress: progress,
	}, nil
}
