package models

import "time"

// IndividualTask is the materialized, employee-owned instance of a
// template. Descriptive fields are snapshotted at assignment time, not
// live-linked: later template edits do not reach already-assigned work.
type IndividualTask struct {
	ID             uint `gorm:"primaryKey" json:"id"`
	TaskTemplateID uint `gorm:"index" json:"task_template_id"`
	AssignmentID   uint `gorm:"index" json:"assignment_id"`
	EmployeeID     uint `gorm:"index" json:"employee_id"`

	Name          string        `json:"name"`
	Sub           string        `json:"sub"`
	Description   string        `gorm:"type:text" json:"description"`
	Checklist     Checklist     `gorm:"type:text" json:"checklist"`
	FormChecklist FormChecklist `gorm:"type:text" json:"form_checklist"`
	EstimatedDays int           `json:"estimated_days"`
	Archetype     string        `gorm:"index" json:"archetype"`
	Status        string        `gorm:"default:'assigned';index" json:"status"`

	// Assignment details block.
	Priority          string     `json:"priority"`
	Remarks           string     `json:"remarks"`
	DueDate           *time.Time `json:"due_date"`
	AssignedByID      uint       `json:"assigned_by_id"`
	AssignedAt        time.Time  `json:"assigned_at"`
	AssignedClients   UintList   `gorm:"type:text" json:"assigned_clients"`
	AssignedProspects UintList   `gorm:"type:text" json:"assigned_prospects"`
	ClientRemark      string     `json:"client_remark"`
	ProspectRemark    string     `json:"prospect_remark"`

	CompletedAt *time.Time `json:"completed_at"`
	CreatedByID uint       `json:"created_by_id"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`

	EntityStatuses []EntityStatusEntry `json:"entity_statuses,omitempty"`
}

// EntityStatusEntry is the task's own view of one linked entity's
// progress. The composite unique index keeps at most one live entry per
// (task, entity) pair: re-updates replace in place.
type EntityStatusEntry struct {
	ID               uint      `gorm:"primaryKey" json:"id"`
	IndividualTaskID uint      `gorm:"uniqueIndex:idx_task_entity" json:"individual_task_id"`
	EntityID         uint      `gorm:"uniqueIndex:idx_task_entity" json:"entity_id"`
	EntityType       string    `json:"entity_type"`
	Status           string    `json:"status"`
	Remarks          string    `json:"remarks"`
	UpdatedByID      uint      `json:"updated_by_id"`
	UpdatedAt        time.Time `json:"updated_at"`
	Files            FileList  `gorm:"type:text" json:"files"`
}
