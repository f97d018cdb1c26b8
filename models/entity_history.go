package models

import "time"

// EntityTaskHistory is the entity-owned ledger for one task ever linked
// to it. The composite unique index guarantees a single record per
// (entity, task) pair no matter which code path seeds it.
type EntityTaskHistory struct {
	ID               uint       `gorm:"primaryKey" json:"id"`
	EntityID         uint       `gorm:"uniqueIndex:idx_entity_task" json:"entity_id"`
	IndividualTaskID uint       `gorm:"uniqueIndex:idx_entity_task" json:"individual_task_id"`
	TaskName         string     `json:"task_name"`
	DueDate          *time.Time `json:"due_date"`

	// Mirror of the latest status update; written only in the same
	// transaction as the append it mirrors.
	CurrentStatus string     `gorm:"default:'pending'" json:"current_status"`
	CompletedAt   *time.Time `json:"completed_at"`

	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	StatusUpdates []StatusUpdate `json:"status_updates,omitempty"`
}

// StatusUpdate is one append-only audit entry. Rows are never updated
// or deleted outside a full task cascade.
type StatusUpdate struct {
	ID                  uint      `gorm:"primaryKey" json:"id"`
	EntityTaskHistoryID uint      `gorm:"index" json:"entity_task_history_id"`
	Status              string    `json:"status"`
	Remarks             string    `json:"remarks"`
	UpdatedByID         uint      `json:"updated_by_id"`
	CreatedAt           time.Time `json:"created_at"`
	Files               FileList  `gorm:"type:text" json:"files"`
}
