package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/sanadlabs/sanad-backend/internal/handlers"
	"github.com/sanadlabs/sanad-backend/internal/middleware"
)

type RouterConfig struct {
	AllowedOrigins []string

	AuthMiddleware *middleware.AuthMiddleware

	AuthHandler       *handlers.AuthHandler
	UserHandler       *handlers.UserHandler
	NarrationHandler  *handlers.NarrationHandler
	DiscussionHandler *handlers.DiscussionHandler
	SavedHandler      *handlers.SavedHandler
	QuizHandler       *handlers.QuizHandler
	AIHandler         *handlers.AIHandler
	ProgressHandler   *handlers.ProgressHandler
	QuotaHandler      *handlers.QuotaHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()
	router.Use(otelgin.Middleware("sanad-backend"))

	origins := cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000", "http://localhost:5173"}
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))

	// Public
	router.GET("/healthcheck", handlers.HealthCheck)
	api := router.Group("/api")
	{
		api.POST("/register", cfg.AuthHandler.Register)
		api.POST("/login", cfg.AuthHandler.Login)
		api.POST("/refresh", cfg.AuthHandler.Refresh)

		api.GET("/collections", cfg.NarrationHandler.ListCollections)
		api.GET("/collections/:collectionID/narrations", cfg.NarrationHandler.ListNarrations)
		api.GET("/narrations/search", cfg.NarrationHandler.Search)
		api.GET("/narrations/:narrationID", cfg.NarrationHandler.GetNarration)
		api.GET("/narrations/:narrationID/posts", cfg.DiscussionHandler.ListPosts)
	}

	// Protected
	protected := router.Group("/api")
	protected.Use(cfg.AuthMiddleware.RequireAuth())
	{
		protected.POST("/logout", cfg.AuthHandler.Logout)

		protected.GET("/user", cfg.UserHandler.GetMe)
		protected.PUT("/user/subscription", cfg.UserHandler.UpdateSubscriptionTier)

		protected.POST("/narrations/:narrationID/posts", cfg.DiscussionHandler.CreatePost)
		protected.POST("/posts/:postID/report", cfg.DiscussionHandler.ReportPost)

		protected.GET("/saved", cfg.SavedHandler.List)
		protected.POST("/narrations/:narrationID/save", cfg.SavedHandler.Save)
		protected.DELETE("/narrations/:narrationID/save", cfg.SavedHandler.Unsave)

		protected.GET("/quiz/start", cfg.QuizHandler.Start)
		protected.POST("/quiz/submit", cfg.QuizHandler.Submit)

		protected.POST("/ai/ask", cfg.AIHandler.Ask)

		protected.GET("/progress", cfg.ProgressHandler.Summary)
		protected.POST("/achievements/seen", cfg.ProgressHandler.MarkAchievementsSeen)

		protected.GET("/quota", cfg.QuotaHandler.Status)
	}

	return router
}
