package routes

import (
	"projector-crm-sync/controllers"
	"projector-crm-sync/middleware"
	"projector-crm-sync/models"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(router *gin.Engine) {
	v1 := router.Group("/api/v1")
	{
		// Public routes
		public := v1.Group("")
		{
			public.POST("/login", controllers.Login)

			public.GET("/health", func(c *gin.Context) {
				c.JSON(200, gin.H{
					"status":  "ok",
					"message": "CRM sync API is running",
				})
			})
		}

		// Admin routes
		admin := v1.Group("/admin")
		admin.Use(middleware.AuthMiddleware(), middleware.RequireRole(models.UserRoleAdmin))
		{
			imports := admin.Group("/imports")
			{
				imports.POST("", controllers.AdminRunImport)
				imports.GET("/status", controllers.AdminGetImportStatus)
				imports.GET("/runs", controllers.AdminListImportRuns)
				imports.GET("/runs/:id", controllers.AdminGetImportRun)
			}
		}
	}
}
