package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mneikoe/VP-FINANCE-FINAL-sub002/models"
	"github.com/mneikoe/VP-FINANCE-FINAL-sub002/utils"
	"gorm.io/gorm"
)

type AuthController struct {
	DB *gorm.DB
}

func (ac *AuthController) Register(c *gin.Context) {
	var emp models.Employee

	if err := c.BindJSON(&emp); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	hashed, err := utils.HashPassword(emp.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not hash password"})
		return
	}
	emp.Password = hashed

	if err := ac.DB.Create(&emp).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Employee registered",
	})
}

func (ac *AuthController) Login(c *gin.Context) {
	var input models.Employee
	var emp models.Employee

	if err := c.BindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := ac.DB.
		Where("email = ?", input.Email).
		First(&emp).Error; err != nil {

		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	if !utils.CheckPassword(input.Password, emp.Password) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	token, _ := utils.GenerateJWT(emp)

	c.JSON(http.StatusOK, gin.H{
		"token": token,
	})
}
