package models

import "time"

// TaskTemplate is a reusable task definition for a department/category.
// It is never deleted while individual tasks reference it; DeleteTask
// removes dependents first.
type TaskTemplate struct {
	ID            uint          `gorm:"primaryKey" json:"id"`
	Name          string        `json:"name"`
	Sub           string        `json:"sub"`
	Category      string        `json:"category"`
	Archetype     string        `gorm:"index" json:"archetype"`
	Departments   StringList    `gorm:"type:text" json:"departments"`
	EstimatedDays int           `json:"estimated_days"`
	Priority      string        `gorm:"default:'medium'" json:"priority"`
	Description   string        `gorm:"type:text" json:"description"`
	ImageURL      string        `json:"image_url"`
	Checklist     Checklist     `gorm:"type:text" json:"checklist"`
	FormChecklist FormChecklist `gorm:"type:text" json:"form_checklist"`
	Status        string        `gorm:"default:'template';index" json:"status"`

	// Denormalized union of every assignment's validated entity sets.
	AssignedClients   UintList `gorm:"type:text" json:"assigned_clients"`
	AssignedProspects UintList `gorm:"type:text" json:"assigned_prospects"`

	CreatedByID uint         `json:"created_by_id"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
	Assignments []Assignment `json:"assignments,omitempty"`
}

// Assignment is one act of assigning a template to one employee.
type Assignment struct {
	ID             uint       `gorm:"primaryKey" json:"id"`
	TaskTemplateID uint       `gorm:"index" json:"task_template_id"`
	EmployeeID     uint       `gorm:"index" json:"employee_id"`
	EmployeeRole   string     `json:"employee_role"`
	AssignedByID   uint       `json:"assigned_by_id"`
	AssignedAt     time.Time  `json:"assigned_at"`
	Priority       string     `json:"priority"`
	Remarks        string     `json:"remarks"`
	DueDate        *time.Time `json:"due_date"`
	Status         string     `gorm:"default:'pending'" json:"status"`
	CompletedAt    *time.Time `json:"completed_at"`

	AssignedClients   UintList `gorm:"type:text" json:"assigned_clients"`
	AssignedProspects UintList `gorm:"type:text" json:"assigned_prospects"`
	ClientRemark      string   `json:"client_remark"`
	ProspectRemark    string   `json:"prospect_remark"`
}
