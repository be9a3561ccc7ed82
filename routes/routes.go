package routes

import (
	"instalapro-backend/config"
	"instalapro-backend/controllers"
	"instalapro-backend/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func SetupRouter() *gin.Engine {
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins: []string{
			"http://localhost:3000",
		},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))

	r.Use(config.PerformanceLogger())

	auth := r.Group("/auth")
	{
		auth.POST("/admin/login", controllers.LoginAdmin)
		auth.POST("/installer/login", controllers.LoginInstaller)
	}

	api := r.Group("/api")
	api.Use(utils.AuthMiddleware())
	{
		// Admin-managed resources
		admins := api.Group("/admins", utils.RequireAdmin())
		{
			admins.POST("", controllers.CreateAdmin)
			admins.GET("", controllers.GetAdmins)
			admins.PUT("/:id", controllers.UpdateAdmin)
			admins.DELETE("/:id", controllers.DeleteAdmin)
		}

		installers := api.Group("/installers", utils.RequireAdmin())
		{
			installers.POST("", controllers.CreateInstaller)
			installers.GET("", controllers.GetInstallers)
			installers.PUT("/:id", controllers.UpdateInstaller)
			installers.DELETE("/:id", controllers.DeleteInstaller)
		}

		stores := api.Group("/stores", utils.RequireAdmin())
		{
			stores.POST("", controllers.CreateStore)
			stores.GET("", controllers.GetStores)
			stores.PUT("/:id", controllers.UpdateStore)
			stores.DELETE("/:id", controllers.DeleteStore)
		}

		services := api.Group("/services")
		{
			services.POST("", utils.RequireAdmin(), controllers.CreateService)
			services.GET("", controllers.GetServices)
			services.PUT("/:id", utils.RequireAdmin(), controllers.UpdateService)
			services.DELETE("/:id", utils.RequireAdmin(), controllers.CancelService)
			services.PATCH("/:id/restore", utils.RequireAdmin(), controllers.RestoreService)
		}

		// Schedule routes serve both roles; scoping happens inside
		schedules := api.Group("/schedules")
		{
			schedules.POST("", controllers.CreateSchedule)
			schedules.GET("", controllers.GetSchedules)
			schedules.PUT("/:id", controllers.UpdateSchedule)
			schedules.DELETE("/:id", controllers.DeleteSchedule)
		}

		receipts := api.Group("/receipts")
		{
			receipts.POST("", controllers.CreateReceipt)
			receipts.GET("/:serviceId", controllers.GetReceipt)
		}
	}

	return r
}
