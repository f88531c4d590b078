package routes

import (
	"net/http"
	"time"

	"baradari/internal/config"
	"baradari/internal/handlers"
	"baradari/internal/metrics"
	"baradari/internal/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"
)

func Setup(cfg config.Config) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(metrics.GinMiddleware())
	router.Use(middleware.RateLimit(rate.Every(time.Second/20), 40))

	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "Accept", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Public routes
	router.POST("/api/signup", handlers.Signup)
	router.POST("/api/login", handlers.Login)
	router.POST("/api/navigate", handlers.Navigate)
	router.GET("/api/vapid-public-key", handlers.GetVAPIDPublicKey)

	protected := router.Group("/api")
	protected.Use(middleware.JWTAuth(cfg.JWTSecret))

	// Session
	protected.POST("/logout", handlers.Logout)

	// Profile
	protected.POST("/profile", handlers.CreateProfile)
	protected.GET("/me", handlers.GetMyProfile)
	protected.PUT("/me", handlers.UpdateMyProfile)
	protected.PUT("/me/status", handlers.UpdateStatus)
	protected.PUT("/me/email", handlers.ChangeEmail)
	protected.PUT("/me/password", handlers.ChangePassword)
	protected.PUT("/me/token", handlers.SaveDeviceToken)
	protected.GET("/users", handlers.ListContacts)
	protected.GET("/user/:id", handlers.GetUser)

	// App lock
	protected.POST("/app-lock", handlers.SetAppLock)
	protected.POST("/app-lock/verify", handlers.VerifyAppLock)
	protected.DELETE("/app-lock", handlers.DisableAppLock)

	// Chats
	protected.POST("/chats", handlers.ResolveChat)
	protected.GET("/chats", handlers.GetChatList)
	protected.GET("/chats/:id", handlers.GetChat)

	// Messages
	protected.POST("/message", handlers.SendMessage)
	protected.GET("/messages/:chatId", handlers.GetMessages)
	protected.POST("/messages/:chatId/seen", handlers.MarkSeen)

	// Push subscriptions
	protected.POST("/subscribe", handlers.SubscribePush)
	protected.DELETE("/subscribe", handlers.Unsubscribe)

	// Dashboard
	protected.GET("/dashboard/summary", handlers.DashboardSummary)
	protected.GET("/dashboard/activity", handlers.DashboardActivity)

	router.NoRoute(func(c *gin.Context) {
		if len(c.Request.URL.Path) >= 4 && c.Request.URL.Path[:4] == "/api" {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "endpoint not found",
				"path":  c.Request.URL.Path,
			})
			return
		}
		c.Next()
	})

	return router
}
