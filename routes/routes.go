package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/mneikoe/VP-FINANCE-FINAL-sub002/config"
	"github.com/mneikoe/VP-FINANCE-FINAL-sub002/constants"
	"github.com/mneikoe/VP-FINANCE-FINAL-sub002/controllers"
	"github.com/mneikoe/VP-FINANCE-FINAL-sub002/middleware"
	"github.com/mneikoe/VP-FINANCE-FINAL-sub002/services"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func SetupRouter(db *gorm.DB, logger *zap.Logger, cfg *config.Config) *gin.Engine {
	r := gin.Default()

	employees := services.NewEmployeeDirectory(db)
	entities := services.NewEntityDirectory(db)
	taskService := services.NewTaskService(db, employees, entities, logger, cfg.UploadDir)

	authController := controllers.AuthController{DB: db}
	employeeController := controllers.EmployeeController{DB: db}
	entityController := controllers.EntityController{DB: db, Service: taskService}
	taskController := controllers.TaskController{DB: db, Service: taskService}
	assignmentController := controllers.AssignmentController{Service: taskService}
	statusController := controllers.StatusController{Service: taskService, UploadDir: cfg.UploadDir}

	r.POST("/register", authController.Register)
	r.POST("/login", authController.Login)

	auth := r.Group("/")
	auth.Use(middleware.AuthMiddleware())

	auth.GET("/employees", middleware.RoleMiddleware(constants.RoleAdmin), employeeController.GetEmployees)
	auth.PUT("/employees/:id", middleware.RoleMiddleware(constants.RoleAdmin), employeeController.UpdateEmployee)

	auth.POST("/entities", entityController.CreateEntity)
	auth.GET("/entities", entityController.GetEntities)
	auth.GET("/entities/:id/task-history", entityController.GetTaskHistory)

	auth.POST("/tasks", taskController.CreateTask)
	auth.GET("/tasks", taskController.GetTasks)
	auth.GET("/tasks/:id", taskController.GetTask)
	auth.PUT("/tasks/:id", taskController.UpdateTask)
	auth.DELETE("/tasks/:id", taskController.DeleteTask)

	auth.POST("/tasks/:id/assign", assignmentController.AssignComposite)
	auth.POST("/tasks/:id/assign-marketing", assignmentController.AssignMarketing)
	auth.POST("/tasks/:id/assign-service", assignmentController.AssignService)

	auth.GET("/my-tasks", assignmentController.MyTasks)
	auth.PUT("/individual-tasks/:id/entities/:entityId/status", statusController.UpdateEntityStatus)

	return r
}
