package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/seminar-service/internal/auth"
	"github.com/SAP-F-2025/seminar-service/internal/models"
	"github.com/SAP-F-2025/seminar-service/internal/repositories"
	"github.com/SAP-F-2025/seminar-service/internal/services"
	"github.com/SAP-F-2025/seminar-service/internal/utils"
)

type HandlerManager struct {
	authHandler    *AuthHandler
	topicHandler   *TopicHandler
	reportHandler  *ReportHandler
	userHandler    *UserHandler
	authMiddleware *TokenAuthMiddleware
	repo           repositories.Repository
}

func NewHandlerManager(
	serviceManager services.ServiceManager,
	tokens *auth.TokenIssuer,
	repo repositories.Repository,
	logger utils.Logger,
) *HandlerManager {
	return &HandlerManager{
		authHandler:    NewAuthHandler(serviceManager.Auth(), logger),
		topicHandler:   NewTopicHandler(serviceManager.Topic(), logger),
		reportHandler:  NewReportHandler(serviceManager.Report(), serviceManager.Export(), logger),
		userHandler:    NewUserHandler(serviceManager.User(), serviceManager.Export(), logger),
		authMiddleware: NewTokenAuthMiddleware(tokens, repo.User()),
		repo:           repo,
	}
}

// SetupRoutes sets up all API routes
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	router.GET("/health", hm.healthCheck)

	api := router.Group("/api")

	api.GET("/test", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "API is working"})
	})

	// Auth routes - no token required except /me
	authRoutes := api.Group("/auth")
	{
		authRoutes.POST("/register", hm.authHandler.Register)
		authRoutes.POST("/verify-otp", hm.authHandler.VerifyOTP)
		authRoutes.POST("/resend-otp", hm.authHandler.ResendOTP)
		authRoutes.POST("/login", hm.authHandler.Login)
		authRoutes.POST("/forgot-password", hm.authHandler.ForgotPassword)
		authRoutes.POST("/verify-reset-otp", hm.authHandler.VerifyResetOTP)
		authRoutes.POST("/resend-reset-otp", hm.authHandler.ResendResetOTP)
		authRoutes.POST("/reset-password", hm.authHandler.ResetPassword)

		authRoutes.GET("/me", hm.authMiddleware.AuthMiddleware(), hm.authHandler.Me)
	}

	// Topic routes
	topics := api.Group("/topics")
	topics.Use(hm.authMiddleware.AuthMiddleware())
	{
		topics.POST("", hm.authMiddleware.RequireRoleMiddleware(models.RoleStudent), hm.topicHandler.CreateTopic)
		topics.GET("", hm.topicHandler.ListTopics)
		topics.GET("/:id", hm.topicHandler.GetTopic)
		topics.PUT("/:id", hm.topicHandler.UpdateTopic)
		topics.DELETE("/:id", hm.topicHandler.DeleteTopic)
	}

	// Report routes
	reports := api.Group("/reports")
	reports.Use(hm.authMiddleware.AuthMiddleware())
	{
		reports.POST("", hm.authMiddleware.RequireRoleMiddleware(models.RoleStudent), hm.reportHandler.CreateReport)
		reports.GET("", hm.reportHandler.ListReports)
		reports.GET("/export", hm.authMiddleware.RequireRoleMiddleware(models.RoleTeacher, models.RoleAdmin), hm.reportHandler.ExportReports)
		reports.GET("/:id", hm.reportHandler.GetReport)
		reports.GET("/:id/download", hm.reportHandler.DownloadReport)
		reports.PUT("/:id", hm.reportHandler.UpdateReport)
		reports.DELETE("/:id", hm.reportHandler.DeleteReport)
	}

	// User routes
	users := api.Group("/users")
	users.Use(hm.authMiddleware.AuthMiddleware())
	{
		users.GET("", hm.authMiddleware.RequireRoleMiddleware(models.RoleTeacher, models.RoleAdmin), hm.userHandler.ListUsers)
		users.GET("/export", hm.authMiddleware.RequireRoleMiddleware(models.RoleAdmin), hm.userHandler.ExportUsers)
		users.GET("/:id", hm.userHandler.GetUser)
		users.PUT("/:id", hm.userHandler.UpdateUser)
		users.DELETE("/:id", hm.authMiddleware.RequireRoleMiddleware(models.RoleAdmin), hm.userHandler.DeleteUser)
	}
}

func (hm *HandlerManager) healthCheck(c *gin.Context) {
	status := http.StatusOK
	dbStatus := "up"
	if err := hm.repo.Ping(c.Request.Context()); err != nil {
		status = http.StatusServiceUnavailable
		dbStatus = "down"
	}

	c.JSON(status, gin.H{
		"status":    dbStatus,
		"service":   "seminar-service",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
