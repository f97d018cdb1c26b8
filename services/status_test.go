package services

import (
	"context"
	"testing"

	"github.com/mneikoe/VP-FINANCE-FINAL-sub002/constants"
	"github.com/mneikoe/VP-FINANCE-FINAL-sub002/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// assignOne fans a composite template out to a single employee with the
// given linked entities and returns the created individual task id.
func assignOne(t *testing.T, svc *TaskService, admin, rm models.Employee, templateID uint, clients, prospects []uint) uint {
	t.Helper()
	result, err := svc.AssignComposite(context.Background(), AssignmentRequest{
		TemplateID: templateID,
		AssignerID: admin.ID,
		Items:      []AssignmentItem{{EmployeeID: rm.ID, EmployeeRole: rm.Role}},
		Clients:    clients,
		Prospects:  prospects,
	})
	require.NoError(t, err)
	require.Len(t, result.IndividualTaskIDs, 1)
	return result.IndividualTaskIDs[0]
}

func TestUpdateEntityTaskStatus_MissingUpdater(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.UpdateEntityTaskStatus(context.Background(), 1, 1,
		constants.EntityStatusCompleted, "", 0, nil)
	assert.ErrorIs(t, err, ErrMissingUpdater)
}

func TestUpdateEntityTaskStatus_EntityNotAssigned(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()

	admin := seedEmployee(t, db, "admin", constants.RoleAdmin)
	rm := seedEmployee(t, db, "rm1", "rm")
	template := seedTemplate(t, db, constants.ArchetypeComposite)
	client := seedEntity(t, db, "Acme", constants.EntityStageClient)
	outsider := seedEntity(t, db, "Outsider", constants.EntityStageClient)

	taskID := assignOne(t, svc, admin, rm, template.ID, []uint{client.ID}, nil)

	var entriesBefore, updatesBefore int64
	require.NoError(t, db.Model(&models.EntityStatusEntry{}).Count(&entriesBefore).Error)
	require.NoError(t, db.Model(&models.StatusUpdate{}).Count(&updatesBefore).Error)

	_, err := svc.UpdateEntityTaskStatus(ctx, taskID, outsider.ID,
		constants.EntityStatusCompleted, "", rm.ID, nil)
	assert.ErrorIs(t, err, ErrEntityNotAssigned)

	// No side effects on either store.
	var entriesAfter, updatesAfter int64
	require.NoError(t, db.Model(&models.EntityStatusEntry{}).Count(&entriesAfter).Error)
	require.NoError(t, db.Model(&models.StatusUpdate{}).Count(&updatesAfter).Error)
	assert.Equal(t, entriesBefore, entriesAfter)
	assert.Equal(t, updatesBefore, updatesAfter)
}

func TestUpdateEntityTaskStatus_InvalidStatus(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.UpdateEntityTaskStatus(context.Background(), 1, 1, "overdue", "", 1, nil)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestUpdateEntityTaskStatus_RollupToCompleted(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()

	admin := seedEmployee(t, db, "admin", constants.RoleAdmin)
	rm := seedEmployee(t, db, "rm1", "rm")
	template := seedTemplate(t, db, constants.ArchetypeComposite)
	c1 := seedEntity(t, db, "Acme", constants.EntityStageClient)
	c2 := seedEntity(t, db, "Globex", constants.EntityStageClient)

	taskID := assignOne(t, svc, admin, rm, template.ID, []uint{c1.ID, c2.ID}, nil)

	result, err := svc.UpdateEntityTaskStatus(ctx, taskID, c1.ID,
		constants.EntityStatusCompleted, "done", rm.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, constants.EntityStageClient, result.EntityType)
	assert.Equal(t, 1, result.TaskProgress.Completed)
	assert.Equal(t, 2, result.TaskProgress.Total)
	assert.Equal(t, 50, result.TaskProgress.Percentage)

	// First update moves the task off "assigned" but not to completed.
	var task models.IndividualTask
	require.NoError(t, db.First(&task, taskID).Error)
	assert.Equal(t, constants.IndividualStatusInProgress, task.Status)
	assert.Nil(t, task.CompletedAt)

	result, err = svc.UpdateEntityTaskStatus(ctx, taskID, c2.ID,
		constants.EntityStatusCompleted, "done", rm.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, 100, result.TaskProgress.Percentage)

	require.NoError(t, db.First(&task, taskID).Error)
	assert.Equal(t, constants.IndividualStatusCompleted, task.Status)
	require.NotNil(t, task.CompletedAt)
}

func TestUpdateEntityTaskStatus_IdempotentCompletion(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()

	admin := seedEmployee(t, db, "admin", constants.RoleAdmin)
	rm := seedEmployee(t, db, "rm1", "rm")
	template := seedTemplate(t, db, constants.ArchetypeComposite)
	c1 := seedEntity(t, db, "Acme", constants.EntityStageClient)
	c2 := seedEntity(t, db, "Globex", constants.EntityStageClient)

	taskID := assignOne(t, svc, admin, rm, template.ID, []uint{c1.ID, c2.ID}, nil)

	first, err := svc.UpdateEntityTaskStatus(ctx, taskID, c1.ID,
		constants.EntityStatusCompleted, "", rm.ID, nil)
	require.NoError(t, err)
	second, err := svc.UpdateEntityTaskStatus(ctx, taskID, c1.ID,
		constants.EntityStatusCompleted, "", rm.ID, nil)
	require.NoError(t, err)

	// Completing the same entity twice counts once.
	assert.Equal(t, first.TaskProgress.Completed, second.TaskProgress.Completed)

	// The live entry was replaced in place, never duplicated.
	var entryCount int64
	require.NoError(t, db.Model(&models.EntityStatusEntry{}).
		Where("individual_task_id = ? AND entity_id = ?", taskID, c1.ID).
		Count(&entryCount).Error)
	assert.EqualValues(t, 1, entryCount)

	// The audit side kept every write: seed + two updates.
	var history models.EntityTaskHistory
	require.NoError(t, db.Where("entity_id = ? AND individual_task_id = ?", c1.ID, taskID).
		First(&history).Error)
	var auditCount int64
	require.NoError(t, db.Model(&models.StatusUpdate{}).
		Where("entity_task_history_id = ?", history.ID).
		Count(&auditCount).Error)
	assert.EqualValues(t, 3, auditCount)
}

func TestUpdateEntityTaskStatus_SingleHistoryRecordPerPair(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()

	admin := seedEmployee(t, db, "admin", constants.RoleAdmin)
	rm := seedEmployee(t, db, "rm1", "rm")
	template := seedTemplate(t, db, constants.ArchetypeComposite)
	prospect := seedEntity(t, db, "Maybe", constants.EntityStageProspect)

	taskID := assignOne(t, svc, admin, rm, template.ID, nil, []uint{prospect.ID})

	// Assignment seeding and the update path both touch the same pair;
	// the store keeps exactly one record.
	_, err := svc.UpdateEntityTaskStatus(ctx, taskID, prospect.ID,
		constants.EntityStatusInProgress, "calling", rm.ID, nil)
	require.NoError(t, err)

	var historyCount int64
	require.NoError(t, db.Model(&models.EntityTaskHistory{}).
		Where("entity_id = ? AND individual_task_id = ?", prospect.ID, taskID).
		Count(&historyCount).Error)
	assert.EqualValues(t, 1, historyCount)

	var history models.EntityTaskHistory
	require.NoError(t, db.Where("entity_id = ? AND individual_task_id = ?", prospect.ID, taskID).
		First(&history).Error)
	assert.Equal(t, constants.EntityStatusInProgress, history.CurrentStatus)
}

func TestUpdateEntityTaskStatus_ReseedsMissingHistory(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()

	admin := seedEmployee(t, db, "admin", constants.RoleAdmin)
	rm := seedEmployee(t, db, "rm1", "rm")
	template := seedTemplate(t, db, constants.ArchetypeComposite)
	client := seedEntity(t, db, "Acme", constants.EntityStageClient)

	taskID := assignOne(t, svc, admin, rm, template.ID, []uint{client.ID}, nil)

	// Simulate pre-engine data that was assigned before history seeding
	// existed.
	require.NoError(t, db.Where("entity_id = ? AND individual_task_id = ?", client.ID, taskID).
		Delete(&models.EntityTaskHistory{}).Error)

	_, err := svc.UpdateEntityTaskStatus(ctx, taskID, client.ID,
		constants.EntityStatusCompleted, "", rm.ID, nil)
	require.NoError(t, err)

	var historyCount int64
	require.NoError(t, db.Model(&models.EntityTaskHistory{}).
		Where("entity_id = ? AND individual_task_id = ?", client.ID, taskID).
		Count(&historyCount).Error)
	assert.EqualValues(t, 1, historyCount)
}

func TestUpdateEntityTaskStatus_FilesRecordedBothSides(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()

	admin := seedEmployee(t, db, "admin", constants.RoleAdmin)
	rm := seedEmployee(t, db, "rm1", "rm")
	template := seedTemplate(t, db, constants.ArchetypeComposite)
	client := seedEntity(t, db, "Acme", constants.EntityStageClient)

	taskID := assignOne(t, svc, admin, rm, template.ID, []uint{client.ID}, nil)

	files := models.FileList{{Filename: "a1b2.pdf", OriginalName: "agreement.pdf"}}
	_, err := svc.UpdateEntityTaskStatus(ctx, taskID, client.ID,
		constants.EntityStatusInProgress, "signed copy attached", rm.ID, files)
	require.NoError(t, err)

	var entry models.EntityStatusEntry
	require.NoError(t, db.Where("individual_task_id = ? AND entity_id = ?", taskID, client.ID).
		First(&entry).Error)
	require.Len(t, entry.Files, 1)
	assert.Equal(t, "agreement.pdf", entry.Files[0].OriginalName)

	var updates []models.StatusUpdate
	require.NoError(t, db.Order("id").Find(&updates).Error)
	require.NotEmpty(t, updates)
	last := updates[len(updates)-1]
	require.Len(t, last.Files, 1)
	assert.Equal(t, "a1b2.pdf", last.Files[0].Filename)
}

func TestUpdateEntityTaskStatus_AdvancesAssignment(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()

	admin := seedEmployee(t, db, "admin", constants.RoleAdmin)
	rm := seedEmployee(t, db, "rm1", "rm")
	template := seedTemplate(t, db, constants.ArchetypeComposite)
	c1 := seedEntity(t, db, "Acme", constants.EntityStageClient)
	c2 := seedEntity(t, db, "Globex", constants.EntityStageClient)

	taskID := assignOne(t, svc, admin, rm, template.ID, []uint{c1.ID, c2.ID}, nil)

	var task models.IndividualTask
	require.NoError(t, db.First(&task, taskID).Error)
	require.NotZero(t, task.AssignmentID)

	// The first update moves the originating assignment off pending.
	_, err := svc.UpdateEntityTaskStatus(ctx, taskID, c1.ID,
		constants.EntityStatusInProgress, "", rm.ID, nil)
	require.NoError(t, err)

	var assignment models.Assignment
	require.NoError(t, db.First(&assignment, task.AssignmentID).Error)
	assert.Equal(t, constants.AssignmentStatusInProgress, assignment.Status)
	assert.Nil(t, assignment.CompletedAt)

	// Completing every linked entity completes the assignment too.
	_, err = svc.UpdateEntityTaskStatus(ctx, taskID, c1.ID,
		constants.EntityStatusCompleted, "", rm.ID, nil)
	require.NoError(t, err)
	_, err = svc.UpdateEntityTaskStatus(ctx, taskID, c2.ID,
		constants.EntityStatusCompleted, "", rm.ID, nil)
	require.NoError(t, err)

	require.NoError(t, db.First(&assignment, task.AssignmentID).Error)
	assert.Equal(t, constants.AssignmentStatusCompleted, assignment.Status)
	require.NotNil(t, assignment.CompletedAt)
}

func TestUpdateEntityTaskStatus_CompletedTaskStaysCompleted(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()

	admin := seedEmployee(t, db, "admin", constants.RoleAdmin)
	rm := seedEmployee(t, db, "rm1", "rm")
	template := seedTemplate(t, db, constants.ArchetypeComposite)
	c1 := seedEntity(t, db, "Acme", constants.EntityStageClient)
	c2 := seedEntity(t, db, "Globex", constants.EntityStageClient)

	taskID := assignOne(t, svc, admin, rm, template.ID, []uint{c1.ID, c2.ID}, nil)

	for _, entityID := range []uint{c1.ID, c2.ID} {
		_, err := svc.UpdateEntityTaskStatus(ctx, taskID, entityID,
			constants.EntityStatusCompleted, "", rm.ID, nil)
		require.NoError(t, err)
	}

	// A later entity-level correction never regresses the rolled-up
	// task automatically.
	result, err := svc.UpdateEntityTaskStatus(ctx, taskID, c1.ID,
		constants.EntityStatusInProgress, "re-opened", rm.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, result.TaskProgress.Completed)

	var task models.IndividualTask
	require.NoError(t, db.First(&task, taskID).Error)
	assert.Equal(t, constants.IndividualStatusCompleted, task.Status)
	require.NotNil(t, task.CompletedAt)
}
