package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mneikoe/VP-FINANCE-FINAL-sub002/models"
	"gorm.io/gorm"
)

type EmployeeController struct {
	DB *gorm.DB
}

func (ec *EmployeeController) GetEmployees(c *gin.Context) {
	var employees []models.Employee
	ec.DB.Find(&employees)
	for i := range employees {
		employees[i].Password = ""
	}
	c.JSON(http.StatusOK, employees)
}

func (ec *EmployeeController) UpdateEmployee(c *gin.Context) {
	id := c.Param("id")
	var emp models.Employee

	if err := ec.DB.First(&emp, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Employee not found"})
		return
	}

	var input struct {
		Role       string `json:"role"`
		Department string `json:"department"`
	}

	if err := c.BindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if input.Role != "" {
		emp.Role = input.Role
	}
	if input.Department != "" {
		emp.Department = input.Department
	}

	ec.DB.Save(&emp)

	emp.Password = ""
	c.JSON(http.StatusOK, emp)
}
