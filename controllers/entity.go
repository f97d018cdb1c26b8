package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mneikoe/VP-FINANCE-FINAL-sub002/models"
	"github.com/mneikoe/VP-FINANCE-FINAL-sub002/services"
	"gorm.io/gorm"
)

// EntityController is the thin edge over the entity collaborator: basic
// record intake plus the task-history read surface the engine exposes.
type EntityController struct {
	DB      *gorm.DB
	Service *services.TaskService
}

func (ec *EntityController) CreateEntity(c *gin.Context) {
	var entity models.Entity

	if err := c.BindJSON(&entity); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := ec.DB.Create(&entity).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, entity)
}

func (ec *EntityController) GetEntities(c *gin.Context) {
	q := ec.DB
	if status := c.Query("status"); status != "" {
		q = q.Where("status = ?", status)
	}

	var entities []models.Entity
	q.Find(&entities)

	c.JSON(http.StatusOK, entities)
}

func (ec *EntityController) GetTaskHistory(c *gin.Context) {
	entityID, ok := paramUint(c, "id")
	if !ok {
		return
	}

	filter := services.HistoryFilter{
		Status: c.Query("status"),
		Page:   queryInt(c, "page", 1),
		Limit:  queryInt(c, "limit", 10),
	}
	if taskID := queryInt(c, "task_id", 0); taskID > 0 {
		filter.TaskID = uint(taskID)
	}
	if from := c.Query("from"); from != "" {
		if t, err := time.Parse(time.RFC3339, from); err == nil {
			filter.From = &t
		}
	}
	if to := c.Query("to"); to != "" {
		if t, err := time.Parse(time.RFC3339, to); err == nil {
			filter.To = &t
		}
	}

	page, err := ec.Service.GetEntityTaskHistory(c.Request.Context(), entityID, filter)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, page)
}
