package routes

import (
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/yash-yadav1804/Social-Media-Platform/database"
	"github.com/yash-yadav1804/Social-Media-Platform/friends"
	"github.com/yash-yadav1804/Social-Media-Platform/handlers"
	"github.com/yash-yadav1804/Social-Media-Platform/middleware"
)

// SetupRouter wires middleware and handlers. The database must be connected
// before this is called.
func SetupRouter() *gin.Engine {
	router := gin.Default()

	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000", "http://127.0.0.1:3000", "http://localhost:5173"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "Accept", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	engine := friends.NewEngine(friends.NewMongoStore(
		database.Client,
		database.Users,
		database.FriendRequests,
		database.Friendships,
	))
	friendHandler := handlers.NewFriendHandler(engine)
	userHandler := handlers.NewUserHandler(engine)

	// Auth endpoints are public but rate limited.
	auth := router.Group("/api/auth")
	auth.Use(middleware.RateLimit(20, time.Minute))
	auth.POST("/register", handlers.Register)
	auth.POST("/login", handlers.Login)
	auth.GET("/google/url", handlers.GetGoogleAuthURL)
	auth.POST("/google", handlers.GoogleAuthWithCredential)
	auth.GET("/me", middleware.JWTAuthMiddleware(), handlers.Me)

	protected := router.Group("/api")
	protected.Use(middleware.JWTAuthMiddleware())

	users := protected.Group("/users")
	users.GET("/search", userHandler.Search)
	users.GET("/profile/:userId", userHandler.Profile)
	users.PUT("/profile", userHandler.UpdateProfile)

	friendRoutes := protected.Group("/friends")
	friendRoutes.POST("/request/:userId", friendHandler.SendRequest)
	friendRoutes.GET("/requests", friendHandler.ListIncoming)
	friendRoutes.PUT("/accept/:requestId", friendHandler.Accept)
	friendRoutes.PUT("/decline/:requestId", friendHandler.Decline)
	friendRoutes.GET("", friendHandler.ListFriends)
	friendRoutes.DELETE("/:friendId", friendHandler.Remove)
	friendRoutes.GET("/status/:userId", friendHandler.Status)

	posts := protected.Group("/posts")
	posts.POST("", handlers.CreatePost)
	posts.GET("", handlers.GetPosts)
	posts.POST("/:id/like", handlers.ToggleLike)
	posts.POST("/:id/comments", handlers.AddComment)
	posts.DELETE("/:id", handlers.DeletePost)

	push := protected.Group("/push")
	push.GET("/vapid-public-key", handlers.GetVapidPublicKey)
	push.POST("/subscribe", handlers.SubscribePush)

	router.NoRoute(func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, "/api") {
			c.JSON(404, gin.H{
				"error": "Endpoint not found",
				"path":  c.Request.URL.Path,
			})
			return
		}
		c.Next()
	})

	return router
}
