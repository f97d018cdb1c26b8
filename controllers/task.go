package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mneikoe/VP-FINANCE-FINAL-sub002/constants"
	"github.com/mneikoe/VP-FINANCE-FINAL-sub002/middleware"
	"github.com/mneikoe/VP-FINANCE-FINAL-sub002/models"
	"github.com/mneikoe/VP-FINANCE-FINAL-sub002/services"
	"gorm.io/gorm"
)

type TaskController struct {
	DB      *gorm.DB
	Service *services.TaskService
}

func (tc *TaskController) CreateTask(c *gin.Context) {
	var task models.TaskTemplate

	if err := c.BindJSON(&task); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if len(task.Departments) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "at least one department is required"})
		return
	}

	task.Status = constants.TemplateStatusTemplate
	task.CreatedByID = middleware.EmployeeID(c)

	if err := tc.DB.Create(&task).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, task)
}

func (tc *TaskController) GetTasks(c *gin.Context) {
	page, err := tc.Service.GetAllTasks(
		c.Request.Context(),
		c.Query("archetype"),
		c.Query("status"),
		c.Query("search"),
		queryInt(c, "page", 1),
		queryInt(c, "limit", 10),
	)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, page)
}

func (tc *TaskController) GetTask(c *gin.Context) {
	id := c.Param("id")

	var task models.TaskTemplate

	if err := tc.DB.Preload("Assignments").First(&task, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
		return
	}

	c.JSON(http.StatusOK, task)
}

func (tc *TaskController) UpdateTask(c *gin.Context) {
	id := c.Param("id")

	var task models.TaskTemplate

	if err := tc.DB.First(&task, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
		return
	}

	var input struct {
		Name          string               `json:"name"`
		Sub           string               `json:"sub"`
		Category      string               `json:"category"`
		Departments   models.StringList    `json:"departments"`
		EstimatedDays *int                 `json:"estimated_days"`
		Priority      string               `json:"priority"`
		Description   string               `json:"description"`
		ImageURL      string               `json:"image_url"`
		Checklist     models.Checklist     `json:"checklist"`
		FormChecklist models.FormChecklist `json:"form_checklist"`
		Status        string               `json:"status"`
	}

	if err := c.BindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if input.Departments != nil {
		if len(input.Departments) == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "at least one department is required"})
			return
		}
		task.Departments = input.Departments
	}
	if input.Name != "" {
		task.Name = input.Name
	}
	if input.Sub != "" {
		task.Sub = input.Sub
	}
	if input.Category != "" {
		task.Category = input.Category
	}
	if input.EstimatedDays != nil {
		task.EstimatedDays = *input.EstimatedDays
	}
	if input.Priority != "" {
		if !constants.ValidPriority(input.Priority) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid priority"})
			return
		}
		task.Priority = input.Priority
	}
	if input.Description != "" {
		task.Description = input.Description
	}
	if input.ImageURL != "" {
		task.ImageURL = input.ImageURL
	}
	if input.Checklist != nil {
		task.Checklist = input.Checklist
	}
	if input.FormChecklist != nil {
		task.FormChecklist = input.FormChecklist
	}
	if input.Status != "" {
		// A template never returns to "template" once assignments exist.
		var assignmentCount int64
		tc.DB.Model(&models.Assignment{}).Where("task_template_id = ?", task.ID).Count(&assignmentCount)
		if input.Status != constants.TemplateStatusTemplate || assignmentCount == 0 {
			task.Status = input.Status
		}
	}

	tc.DB.Save(&task)

	c.JSON(http.StatusOK, task)
}

func (tc *TaskController) DeleteTask(c *gin.Context) {
	id, ok := paramUint(c, "id")
	if !ok {
		return
	}

	if err := tc.Service.DeleteTask(c.Request.Context(), id); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Deleted"})
}
