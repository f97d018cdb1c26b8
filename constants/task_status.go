package constants

// Template lifecycle statuses.
const (
	TemplateStatusTemplate   = "template"
	TemplateStatusAssigned   = "assigned"
	TemplateStatusInProgress = "in-progress"
	TemplateStatusCompleted  = "completed"
	TemplateStatusCancelled  = "cancelled"
)

// Per-assignment statuses.
const (
	AssignmentStatusPending    = "pending"
	AssignmentStatusInProgress = "in-progress"
	AssignmentStatusCompleted  = "completed"
	AssignmentStatusOverdue    = "overdue"
)

// Individual task lifecycle statuses.
const (
	IndividualStatusAssigned   = "assigned"
	IndividualStatusInProgress = "in-progress"
	IndividualStatusCompleted  = "completed"
	IndividualStatusCancelled  = "cancelled"
	IndividualStatusOverdue    = "overdue"
)

// Entity-level statuses. Narrower than the task enums: overdue is computed
// from due dates, never stored at entity granularity.
const (
	EntityStatusPending    = "pending"
	EntityStatusInProgress = "in-progress"
	EntityStatusCompleted  = "completed"
	EntityStatusCancelled  = "cancelled"
)

// Task archetypes.
const (
	ArchetypeComposite  = "composite"
	ArchetypeMarketing  = "marketing"
	ArchetypeService    = "service"
	ArchetypeIndividual = "individual"
)

// Priorities.
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
	PriorityUrgent = "urgent"
)

// Entity funnel stages.
const (
	EntityStageSuspect  = "suspect"
	EntityStageProspect = "prospect"
	EntityStageClient   = "client"
)

const RoleAdmin = "admin"

func ValidEntityStatus(s string) bool {
	switch s {
	case EntityStatusPending, EntityStatusInProgress, EntityStatusCompleted, EntityStatusCancelled:
		return true
	}
	return false
}

func ValidPriority(p string) bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}
