package controllers

import (
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/mneikoe/VP-FINANCE-FINAL-sub002/middleware"
	"github.com/mneikoe/VP-FINANCE-FINAL-sub002/models"
	"github.com/mneikoe/VP-FINANCE-FINAL-sub002/services"
)

// StatusController handles per-entity status updates on individual
// tasks, including multipart attachment intake.
type StatusController struct {
	Service   *services.TaskService
	UploadDir string
}

func (sc *StatusController) UpdateEntityStatus(c *gin.Context) {
	taskID, ok := paramUint(c, "id")
	if !ok {
		return
	}
	entityID, ok := paramUint(c, "entityId")
	if !ok {
		return
	}

	var status, remarks string
	var files models.FileList

	if strings.HasPrefix(c.ContentType(), "multipart/form-data") {
		status = c.PostForm("status")
		remarks = c.PostForm("remarks")

		form, err := c.MultipartForm()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		for _, fh := range form.File["files"] {
			stored := uuid.NewString() + filepath.Ext(fh.Filename)
			if err := c.SaveUploadedFile(fh, filepath.Join(sc.UploadDir, stored)); err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "file upload failed"})
				return
			}
			files = append(files, models.FileRef{
				Filename:     stored,
				OriginalName: fh.Filename,
				UploadedAt:   time.Now(),
			})
		}
	} else {
		var body struct {
			Status  string          `json:"status"`
			Remarks string          `json:"remarks"`
			Files   models.FileList `json:"files"`
		}
		if err := c.BindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		status = body.Status
		remarks = body.Remarks
		files = body.Files
	}

	result, err := sc.Service.UpdateEntityTaskStatus(
		c.Request.Context(),
		taskID, entityID,
		status, remarks,
		middleware.EmployeeID(c),
		files,
	)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
