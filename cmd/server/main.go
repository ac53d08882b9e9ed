package main

import (
	"log"

	"github.com/fitsync/fitsync/internal/config"
	"github.com/fitsync/fitsync/internal/constants"
	"github.com/fitsync/fitsync/internal/database"
	"github.com/fitsync/fitsync/internal/handlers"
	"github.com/fitsync/fitsync/internal/middleware"
	"github.com/fitsync/fitsync/internal/repository"
	"github.com/fitsync/fitsync/internal/services"
	"github.com/gin-contrib/sessions"
	redisStore "github.com/gin-contrib/sessions/redis"
	"github.com/gin-gonic/gin"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Set Gin mode
	gin.SetMode(cfg.GinMode)

	// Connect to database
	if err := database.Connect(cfg); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run migrations
	if err := database.Migrate(); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Initialize Gin router
	r := gin.Default()

	// Setup session middleware with Redis
	redisAddr := cfg.RedisHost + ":" + cfg.RedisPort
	store, err := redisStore.NewStore(
		10,        // Redis pool size
		"tcp",     // network type
		redisAddr, // Redis address from config
		"",        // username (empty for default user)
		"",        // password (empty = no password)
		[]byte(cfg.SessionSecret), // authentication key
	)
	if err != nil {
		log.Fatalf("Failed to create Redis store: %v", err)
	}
	// Configure session options based on environment
	isProduction := cfg.GinMode == "release"
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7, // 7 days
		HttpOnly: true,
		Secure:   isProduction, // true in production (HTTPS), false in development
		SameSite: 2,            // SameSite=Lax (1=Strict, 2=Lax, 3=None)
	})
	r.Use(sessions.Sessions(constants.SessionCookieName, store))

	// Initialize repositories
	db := database.GetDB()
	userRepo := repository.NewUserRepository(db)
	connRepo := repository.NewConnectionRepository(db)
	workoutRepo := repository.NewWorkoutRepository(db)
	adminRepo := repository.NewAdminRepository(db)

	// Initialize services
	resolver := services.NewVisibilityResolver(connRepo)
	authService := services.NewAuthService(userRepo)
	connectionService := services.NewConnectionService(connRepo, userRepo, workoutRepo)
	workoutService := services.NewWorkoutService(workoutRepo, resolver)
	adminService := services.NewAdminService(userRepo, workoutRepo, connRepo, adminRepo)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService, cfg.AdminPassword)
	connectionHandler := handlers.NewConnectionHandler(connectionService)
	workoutHandler := handlers.NewWorkoutHandler(workoutService)
	adminHandler := handlers.NewAdminHandler(adminService)

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"message": "FitSync API is running",
		})
	})

	// API routes
	api := r.Group("/api")
	{
		// Auth routes (public)
		auth := api.Group("/auth")
		{
			auth.POST("/signup", authHandler.Signup)
			auth.POST("/login", authHandler.Login)
			auth.POST("/admin-login", authHandler.AdminLogin)
			auth.POST("/logout", authHandler.Logout)
			auth.GET("/me", middleware.RequireAuth(), authHandler.GetCurrentUser)
		}

		// Connection routes (protected)
		connections := api.Group("/connections")
		connections.Use(middleware.RequireAuth())
		{
			connections.GET("", connectionHandler.ListConnections)
			connections.GET("/stats", connectionHandler.ConnectionStats)
			connections.GET("/lookup", connectionHandler.LookupUser)
			connections.GET("/:id", connectionHandler.GetConnection)
			connections.POST("", connectionHandler.CreateConnection)
			connections.PUT("/:id", connectionHandler.UpdateConnection)
			connections.DELETE("/:id", connectionHandler.DeleteConnection)
		}

		// Workout routes (protected)
		workouts := api.Group("/workouts")
		workouts.Use(middleware.RequireAuth())
		{
			workouts.GET("", workoutHandler.ListWorkouts)
			workouts.GET("/stats", workoutHandler.WorkoutStats)
			workouts.GET("/:id", workoutHandler.GetWorkout)
			workouts.POST("", workoutHandler.CreateWorkout)
			workouts.PUT("/:id", workoutHandler.UpdateWorkout)
			workouts.DELETE("/:id", workoutHandler.DeleteWorkout)
		}

		// Admin routes (protected by admin flag)
		admin := api.Group("/admin")
		admin.Use(middleware.RequireAdmin())
		{
			admin.GET("/users", adminHandler.ListUsers)
			admin.DELETE("/users/:id", adminHandler.DeleteUser)
			admin.GET("/stats", adminHandler.Overview)
			admin.GET("/workouts", adminHandler.ListWorkouts)
			admin.GET("/connections", adminHandler.ListConnections)
		}
	}

	// Start server
	log.Printf("Server starting on :%s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
