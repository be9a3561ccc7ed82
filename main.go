package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"instalapro-backend/config"
	"instalapro-backend/controllers"
	"instalapro-backend/models"
	"instalapro-backend/routes"
	"instalapro-backend/services"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func init() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}
	config.ConnectDB()

	config.DB.AutoMigrate(
		&models.Store{},
		&models.Admin{},
		&models.Installer{},
		&models.Service{},
		&models.JobDetail{},
		&models.ScheduleEntry{},
		&models.Receipt{},
	)
}

func main() {
	storageClient, err := config.NewStorageClient(context.Background())
	if err != nil {
		log.Fatalf("Failed to create storage client: %v", err)
	}

	dialer := config.NewMailDialer()
	mailer := services.NewSMTPMailer(dialer)
	fileStore := services.NewGCSFileStore(storageClient, config.StorageBucket())
	controllers.SetReceiptService(services.NewReceiptService(config.DB, fileStore, mailer))

	services.NewReminderService(config.DB, dialer).StartScheduler()

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	r := routes.SetupRouter()
	printRoutes(r)
	r.Run(":" + port)
}

func printRoutes(r *gin.Engine) {
	routes := r.Routes()
	for _, route := range routes {
		fmt.Printf("%-6s %s\n", route.Method, route.Path)
	}
}
