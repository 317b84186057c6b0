package main

import (
	"log"
	"net/http"
	"time"

	"complyready-backend/api-service/handlers"
	"complyready-backend/api-service/middleware"
	"complyready-backend/shared/config"
	"complyready-backend/shared/database"
	"complyready-backend/shared/utils/cache"

	_ "complyready-backend/docs"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// @title ComplyReady API
// @version 1.0
// @description Compliance readiness assessment backend: AI-generated questionnaires, weighted scoring, remediation tracking.

// @contact.name API Support
// @contact.email support@complyready.com

// @license.name Apache 2.0
// @license.url http://www.apache.org/licenses/LICENSE-2.0.html

// @host localhost:8080
// @BasePath /api
// @schemes http https

// @tag.name organizations
// @tag.description Organization profile operations

// @tag.name assessments
// @tag.description Assessment lifecycle operations

// @tag.name reports
// @tag.description Compliance report operations

// @tag.name actions
// @tag.description Remediation action operations

// @tag.name dashboard
// @tag.description Aggregated posture dashboard

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the JWT token.

func main() {
	// Load configuration
	config.LoadConfig()
	cfg := config.GetConfig()

	// Initialize database
	if err := database.InitDatabase(); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer database.CloseDatabase()

	// Initialize cache manager (dashboard caching degrades gracefully without it)
	if err := cache.InitCacheManager(); err != nil {
		log.Printf("⚠️ Redis unavailable, dashboard caching disabled: %v", err)
	}

	// Rate limiters
	rateLimiter := middleware.NewRateLimiter(5 * time.Minute) // Cleanup every 5 minutes
	apiRateConfig := middleware.NewAPIRateLimitConfig()
	generateRateConfig := middleware.NewGenerateRateLimitConfig()

	router := gin.Default()

	// CORS for the frontend origin
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{cfg.FrontendURL}
	corsConfig.AllowHeaders = append(corsConfig.AllowHeaders, "Authorization")
	router.Use(cors.New(corsConfig))

	// Global per-IP rate limiting
	router.Use(rateLimiter.RateLimitMiddleware(apiRateConfig))

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": "api",
		})
	})

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Authenticated API routes
	api := router.Group("/api")
	api.Use(middleware.AuthMiddleware())
	{
		// Organization routes
		api.POST("/organizations", handlers.CreateOrganization)
		api.GET("/organizations/me", handlers.GetMyOrganization)
		api.PATCH("/organizations", handlers.UpdateOrganization)

		// Assessment routes
		api.POST("/assessments",
			rateLimiter.UserRateLimitMiddleware(generateRateConfig),
			handlers.StartAssessment)
		api.GET("/assessments/:id", handlers.GetAssessment)
		api.POST("/assessments/answer", handlers.RecordAnswer)
		api.POST("/assessments/:id/submit", handlers.SubmitAssessment)

		// Report routes
		api.GET("/reports", handlers.ListReports)
		api.GET("/reports/latest", handlers.GetLatestReport)
		api.GET("/reports/:assessmentId", handlers.GetReportByAssessment)

		// Remediation action routes
		api.GET("/actions", handlers.ListActions)
		api.GET("/actions/:id", handlers.GetAction)
		api.POST("/actions/:id/status", handlers.UpdateActionStatus)

		// Dashboard
		api.GET("/dashboard", handlers.GetDashboard)

		// WebSocket score events
		api.GET("/ws", handlers.HandleWebSocket)
	}

	log.Printf("API Service starting on port %s...", cfg.ServerPort)
	if err := router.Run(":" + cfg.ServerPort); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
