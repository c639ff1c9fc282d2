package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/skillforge/skillforge-backend/internal/handlers"
	"github.com/skillforge/skillforge-backend/internal/middleware"
)

type RouterConfig struct {
	AuthHandler    *handlers.AuthHandler
	AuthMiddleware *middleware.AuthMiddleware
	UserHandler    *handlers.UserHandler
	RoadmapHandler *handlers.RoadmapHandler
	QuizHandler    *handlers.QuizHandler
	AllowOrigins   []string
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()

	origins := cfg.AllowOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000", "http://localhost:5173"}
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With", "X-Refresh-Token"},
		AllowCredentials: true,
	}))

	// Public
	router.GET("/healthcheck", handlers.HealthCheck)
	router.POST("/register", cfg.AuthHandler.Register)
	router.POST("/login", cfg.AuthHandler.Login)
	router.POST("/refresh", cfg.AuthMiddleware.WithRefreshToken(), cfg.AuthHandler.Refresh)

	// Protected
	protected := router.Group("/")
	protected.Use(cfg.AuthMiddleware.RequireAuth())
	protected.POST("/logout", cfg.AuthHandler.Logout)

	protected.GET("/user", cfg.UserHandler.GetMe)
	protected.PUT("/user/profile", cfg.UserHandler.UpdateProfile)
	protected.PUT("/user/password", cfg.UserHandler.ChangePassword)

	protected.POST("/quiz/questions", cfg.QuizHandler.GenerateQuestions)

	protected.POST("/roadmaps", cfg.RoadmapHandler.Generate)
	protected.GET("/roadmaps", cfg.RoadmapHandler.List)
	protected.GET("/roadmaps/:id", cfg.RoadmapHandler.Get)
	protected.DELETE("/roadmaps/:id", cfg.RoadmapHandler.Delete)
	protected.POST("/roadmaps/:id/nodes/:nodeId/toggle", cfg.RoadmapHandler.ToggleNode)

	return router
}
