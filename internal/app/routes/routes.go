package routes

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jdiamond4/CourseSearch/internal/app/controllers"
	"github.com/jdiamond4/CourseSearch/internal/app/models/dto"
	"github.com/jdiamond4/CourseSearch/internal/db"
	"github.com/jdiamond4/CourseSearch/internal/middleware"
	"github.com/jdiamond4/CourseSearch/internal/pkg/auth"
	"github.com/jdiamond4/CourseSearch/internal/pkg/websocket"
)

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	authController *controllers.AuthController,
	catalogController *controllers.CatalogController,
	syncController *controllers.SyncController,
	wsHandler *websocket.Handler,
	authMiddleware *middleware.AuthMiddleware,
	database *db.PostgresDB,
) {
	// API version group
	v1 := router.Group("/api/v1")

	// --- Public catalog routes ---
	v1.GET("/terms", catalogController.GetTerms)
	v1.GET("/terms/:termCode/subjects", catalogController.GetTermSubjects)
	v1.GET("/subjects", catalogController.GetSubjectDirectory)

	courses := v1.Group("/courses")
	{
		courses.GET("", catalogController.GetCourses)
		courses.GET("/:termCode/:subject/:catalogNumber", catalogController.GetCourseByKey)
	}

	// --- Public auth routes ---
	authRoutes := v1.Group("/auth")
	{
		authRoutes.POST("/login", authController.Login)
	}

	// --- Admin routes ---
	admin := v1.Group("/admin")
	admin.Use(authMiddleware.JWTAuth())
	admin.Use(authMiddleware.RoleRequired(auth.RoleAdmin))
	{
		syncs := admin.Group("/syncs")
		{
			syncs.POST("", syncController.CreateSync)
			syncs.GET("", syncController.ListSyncRuns)
			syncs.GET("/ws", wsHandler.HandleConnection)
			syncs.GET("/:id", syncController.GetSyncRun)
		}
	}

	// Health check endpoint (public)
	v1.GET("/health", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		dbStatus := "up"
		status := "ok"
		code := 200
		if err := database.Pool.Ping(ctx); err != nil {
			dbStatus = "down"
			status = "degraded"
			code = 503
		}

		c.JSON(code, dto.APIResponse{
			Data:      dto.HealthResponse{Status: status, Database: dbStatus},
			Timestamp: time.Now(),
		})
	})

	// Swagger routes are set up in bootstrap.go already
}
