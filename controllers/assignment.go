package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mneikoe/VP-FINANCE-FINAL-sub002/middleware"
	"github.com/mneikoe/VP-FINANCE-FINAL-sub002/services"
)

type AssignmentController struct {
	Service *services.TaskService
}

type assignBody struct {
	Assignments    []services.AssignmentItem `json:"assignments"`
	Clients        []uint                    `json:"clients"`
	Prospects      []uint                    `json:"prospects"`
	ClientRemark   string                    `json:"client_remark"`
	ProspectRemark string                    `json:"prospect_remark"`
}

func (ac *AssignmentController) assignRequest(c *gin.Context) (services.AssignmentRequest, bool) {
	templateID, ok := paramUint(c, "id")
	if !ok {
		return services.AssignmentRequest{}, false
	}

	var body assignBody
	if err := c.BindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return services.AssignmentRequest{}, false
	}

	return services.AssignmentRequest{
		TemplateID:     templateID,
		Items:          body.Assignments,
		AssignerID:     middleware.EmployeeID(c),
		Clients:        body.Clients,
		Prospects:      body.Prospects,
		ClientRemark:   body.ClientRemark,
		ProspectRemark: body.ProspectRemark,
	}, true
}

func (ac *AssignmentController) AssignComposite(c *gin.Context) {
	req, ok := ac.assignRequest(c)
	if !ok {
		return
	}

	result, err := ac.Service.AssignComposite(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (ac *AssignmentController) AssignMarketing(c *gin.Context) {
	req, ok := ac.assignRequest(c)
	if !ok {
		return
	}

	result, err := ac.Service.AssignMarketing(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (ac *AssignmentController) AssignService(c *gin.Context) {
	req, ok := ac.assignRequest(c)
	if !ok {
		return
	}

	result, err := ac.Service.AssignService(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// MyTasks returns the authenticated employee's open individual tasks.
func (ac *AssignmentController) MyTasks(c *gin.Context) {
	tasks, err := ac.Service.GetAssignedTasks(c.Request.Context(), middleware.EmployeeID(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"tasks": tasks, "count": len(tasks)})
}
