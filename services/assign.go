package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mneikoe/VP-FINANCE-FINAL-sub002/constants"
	"github.com/mneikoe/VP-FINANCE-FINAL-sub002/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// archetypeRule drives the per-archetype fan-out cardinality. Composite
// templates fan out to many employees in one call; marketing and
// service assignments bind exactly one.
type archetypeRule struct {
	fanOut bool
}

var archetypeRules = map[string]archetypeRule{
	constants.ArchetypeComposite: {fanOut: true},
	constants.ArchetypeMarketing: {fanOut: false},
	constants.ArchetypeService:   {fanOut: false},
}

// AssignmentItem is one requested (employee, role) binding.
type AssignmentItem struct {
	EmployeeID   uint       `json:"employee_id"`
	EmployeeRole string     `json:"employee_role"`
	Priority     string     `json:"priority"`
	Remarks      string     `json:"remarks"`
	DueDate      *time.Time `json:"due_date"`
}

// AssignmentRequest carries everything one assign call needs.
type AssignmentRequest struct {
	TemplateID     uint             `json:"template_id"`
	Items          []AssignmentItem `json:"assignments"`
	AssignerID     uint             `json:"assigner_id"`
	Clients        []uint           `json:"clients"`
	Prospects      []uint           `json:"prospects"`
	ClientRemark   string           `json:"client_remark"`
	ProspectRemark string           `json:"prospect_remark"`
}

// AssignmentResult reports the partial-success outcome: which subset
// succeeded and why each failure occurred, never a bare boolean.
type AssignmentResult struct {
	Template          *models.TaskTemplate `json:"template"`
	Assignments       []models.Assignment  `json:"assignments"`
	IndividualTaskIDs []uint               `json:"individual_task_ids"`
	AssignedClients   ValidatedSet         `json:"assigned_clients"`
	AssignedProspects ValidatedSet         `json:"assigned_prospects"`
	Errors            []string             `json:"errors,omitempty"`
}

// AssignComposite fans a composite template out to many employees.
func (s *TaskService) AssignComposite(ctx context.Context, req AssignmentRequest) (*AssignmentResult, error) {
	return s.assign(ctx, constants.ArchetypeComposite, req)
}

// AssignMarketing binds a marketing template to exactly one employee.
func (s *TaskService) AssignMarketing(ctx context.Context, req AssignmentRequest) (*AssignmentResult, error) {
	return s.assign(ctx, constants.ArchetypeMarketing, req)
}

// AssignService binds a service template to exactly one employee.
func (s *TaskService) AssignService(ctx context.Context, req AssignmentRequest) (*AssignmentResult, error) {
	return s.assign(ctx, constants.ArchetypeService, req)
}

func (s *TaskService) assign(ctx context.Context, archetype string, req AssignmentRequest) (*AssignmentResult, error) {
	if req.TemplateID == 0 || req.AssignerID == 0 || len(req.Items) == 0 {
		return nil, fmt.Errorf("template, assigner and assignments are required: %w", ErrValidation)
	}
	rule, ok := archetypeRules[archetype]
	if !ok {
		return nil, fmt.Errorf("unknown archetype %q: %w", archetype, ErrValidation)
	}
	if !rule.fanOut && len(req.Items) != 1 {
		return nil, fmt.Errorf("%s tasks take exactly one assignment, got %d: %w",
			archetype, len(req.Items), ErrValidation)
	}

	var template models.TaskTemplate
	if err := s.db.WithContext(ctx).First(&template, req.TemplateID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("template %d: %w", req.TemplateID, ErrNotFound)
		}
		return nil, err
	}
	if template.Archetype != archetype {
		return nil, fmt.Errorf("template %d is %s, not %s: %w",
			template.ID, template.Archetype, archetype, ErrValidation)
	}

	clients, err := s.validateEntities(ctx, req.Clients, constants.EntityStageClient)
	if err != nil {
		return nil, err
	}
	prospects, err := s.validateEntities(ctx, req.Prospects, constants.EntityStageProspect)
	if err != nil {
		return nil, err
	}

	// Per-item validation: collect errors instead of aborting the call.
	var itemErrs []string
	valid := make([]AssignmentItem, 0, len(req.Items))
	for _, item := range req.Items {
		emp, err := s.employees.FindByID(ctx, item.EmployeeID)
		if err != nil {
			itemErrs = append(itemErrs, fmt.Sprintf("employee %d: not found", item.EmployeeID))
			continue
		}
		if emp.Role != item.EmployeeRole {
			itemErrs = append(itemErrs, fmt.Sprintf(
				"employee %d (%s): role is %q, assignment expects %q",
				emp.ID, emp.Name, emp.Role, item.EmployeeRole))
			continue
		}
		if item.Priority != "" && !constants.ValidPriority(item.Priority) {
			itemErrs = append(itemErrs, fmt.Sprintf(
				"employee %d: invalid priority %q", item.EmployeeID, item.Priority))
			continue
		}
		valid = append(valid, item)
	}
	if len(valid) == 0 {
		return nil, &NoValidAssignmentsError{Errors: itemErrs}
	}

	result := &AssignmentResult{
		AssignedClients:   clients,
		AssignedProspects: prospects,
		Errors:            itemErrs,
	}

	// Fan out sequentially. A failed employee does not roll back the
	// instances already created for earlier employees in the same call.
	for _, item := range valid {
		assignment, taskID, err := s.createAssignment(ctx, &template, item, req, clients.Accepted, prospects.Accepted)
		if err != nil {
			s.log.Error("assignment fan-out item failed",
				zap.Uint("template_id", template.ID),
				zap.Uint("employee_id", item.EmployeeID),
				zap.Error(err))
			result.Errors = append(result.Errors,
				fmt.Sprintf("employee %d: %v", item.EmployeeID, err))
			continue
		}
		result.Assignments = append(result.Assignments, *assignment)
		result.IndividualTaskIDs = append(result.IndividualTaskIDs, taskID)
	}

	if len(result.Assignments) > 0 {
		template.AssignedClients = template.AssignedClients.Merge(clients.Accepted)
		template.AssignedProspects = template.AssignedProspects.Merge(prospects.Accepted)
		if template.Status == constants.TemplateStatusTemplate {
			template.Status = constants.TemplateStatusAssigned
		}
		if err := s.db.WithContext(ctx).Save(&template).Error; err != nil {
			return nil, err
		}
	}

	result.Template = &template
	return result, nil
}

// createAssignment runs one fan-out step in its own transaction: the
// assignment record, the individual task snapshot and the per-entity
// history seeds commit or fail together.
func (s *TaskService) createAssignment(
	ctx context.Context,
	template *models.TaskTemplate,
	item AssignmentItem,
	req AssignmentRequest,
	clients, prospects []uint,
) (*models.Assignment, uint, error) {
	now := time.Now()

	priority := item.Priority
	if priority == "" {
		priority = template.Priority
	}
	dueDate := item.DueDate
	if dueDate == nil {
		d := now.AddDate(0, 0, template.EstimatedDays)
		dueDate = &d
	}

	assignment := models.Assignment{
		TaskTemplateID:    template.ID,
		EmployeeID:        item.EmployeeID,
		EmployeeRole:      item.EmployeeRole,
		AssignedByID:      req.AssignerID,
		AssignedAt:        now,
		Priority:          priority,
		Remarks:           item.Remarks,
		DueDate:           dueDate,
		Status:            constants.AssignmentStatusPending,
		AssignedClients:   models.UintList(clients),
		AssignedProspects: models.UintList(prospects),
		ClientRemark:      req.ClientRemark,
		ProspectRemark:    req.ProspectRemark,
	}

	var taskID uint
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&assignment).Error; err != nil {
			return err
		}

		task := models.IndividualTask{
			TaskTemplateID:    template.ID,
			AssignmentID:      assignment.ID,
			EmployeeID:        item.EmployeeID,
			Name:              template.Name,
			Sub:               template.Sub,
			Description:       template.Description,
			Checklist:         template.Checklist,
			FormChecklist:     template.FormChecklist,
			EstimatedDays:     template.EstimatedDays,
			Archetype:         template.Archetype,
			Status:            constants.IndividualStatusAssigned,
			Priority:          priority,
			Remarks:           item.Remarks,
			DueDate:           dueDate,
			AssignedByID:      req.AssignerID,
			AssignedAt:        now,
			AssignedClients:   models.UintList(clients),
			AssignedProspects: models.UintList(prospects),
			ClientRemark:      req.ClientRemark,
			ProspectRemark:    req.ProspectRemark,
			CreatedByID:       req.AssignerID,
		}
		if err := tx.Create(&task).Error; err != nil {
			return err
		}
		taskID = task.ID

		for _, entityID := range clients {
			if err := s.seedHistory(tx, entityID, &task, req.AssignerID); err != nil {
				return err
			}
		}
		for _, entityID := range prospects {
			if err := s.seedHistory(tx, entityID, &task, req.AssignerID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, 0, err
	}
	return &assignment, taskID, nil
}

// seedHistory creates the (entity, task) ledger record if absent and
// appends the initial pending audit entry.
func (s *TaskService) seedHistory(tx *gorm.DB, entityID uint, task *models.IndividualTask, assignerID uint) error {
	history, created, err := findOrCreateHistory(tx, entityID, task)
	if err != nil {
		return err
	}
	if !created {
		// Already seeded by an earlier path; the unique index keeps the
		// record single, nothing more to do.
		return nil
	}
	seed := models.StatusUpdate{
		EntityTaskHistoryID: history.ID,
		Status:              constants.EntityStatusPending,
		Remarks:             "Task assigned",
		UpdatedByID:         assignerID,
		CreatedAt:           time.Now(),
	}
	return tx.Create(&seed).Error
}

// findOrCreateHistory resolves the single ledger record for an
// (entity, task) pair. The composite unique index makes the create
// race-safe: a concurrent insert surfaces as a conflict, not a
// duplicate row.
func findOrCreateHistory(tx *gorm.DB, entityID uint, task *models.IndividualTask) (*models.EntityTaskHistory, bool, error) {
	var history models.EntityTaskHistory
	err := tx.Where("entity_id = ? AND individual_task_id = ?", entityID, task.ID).
		First(&history).Error
	if err == nil {
		return &history, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, err
	}

	history = models.EntityTaskHistory{
		EntityID:         entityID,
		IndividualTaskID: task.ID,
		TaskName:         task.Name,
		DueDate:          task.DueDate,
		CurrentStatus:    constants.EntityStatusPending,
	}
	if err := tx.Create(&history).Error; err != nil {
		return nil, false, err
	}
	return &history, true, nil
}
