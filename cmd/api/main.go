package main

import (
	"log"
	"os"
	"time"

	"github.com/chachabrian/transitly-backend/internal/database"
	"github.com/chachabrian/transitly-backend/internal/handlers"
	"github.com/chachabrian/transitly-backend/internal/middleware"
	"github.com/chachabrian/transitly-backend/internal/services"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Fatal("Error loading .env file")
	}

	// Initialize database with better error handling
	db, err := database.InitDB()
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	// Get underlying SQL DB instance
	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("Failed to get database instance: %v", err)
	}

	// Configure connection pool
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	if err := database.RunMigrations(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	if err := database.SeedSampleData(db); err != nil {
		log.Printf("Sample data warning: %v", err)
	}

	// Initialize Redis
	if err := services.InitRedis(); err != nil {
		log.Fatalf("Failed to initialize Redis: %v", err)
	}

	// Initialize Storage (S3 or local fallback) for synthesized audio
	if err := services.InitStorage(); err != nil {
		log.Fatalf("Failed to initialize storage: %v", err)
	}

	// Initialize WebSocket hub
	hub := services.NewHub()
	go hub.Run()

	// Voice assistant: speech clients, playback workers, intent rules
	speech := services.NewSpeechClient()
	playback := services.NewPlaybackPool(speech)
	playback.Run()
	assistant := services.NewAssistant(services.NewAssistantStore(db), speech, playback)

	bookingService := services.NewBookingService(db)

	// Initialize router
	r := gin.Default()
	r.Use(middleware.RequestLogger())

	// Configure CORS
	config := cors.DefaultConfig()
	config.AllowOrigins = []string{"*"}
	config.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization"}
	r.Use(cors.New(config))

	// Serve synthesized audio when running on local storage
	r.Static("/static", "./static")

	// Routes
	api := r.Group("/api")
	{
		// Public routes
		auth := api.Group("/auth")
		{
			auth.POST("/register", handlers.Register(db))
			auth.POST("/login", handlers.Login(db))
		}

		// WebSocket connection for live seat availability
		api.GET("/ws", middleware.AuthMiddleware(), handlers.WebSocketHandler(hub))

		// Protected routes
		protected := api.Group("/")
		protected.Use(middleware.AuthMiddleware())
		{
			protected.POST("/auth/logout", handlers.Logout())

			// User routes
			users := protected.Group("/users")
			{
				users.GET("/profile", handlers.GetProfile(db))
				users.PUT("/profile", handlers.UpdateProfile(db))
			}

			// Route and schedule lookup
			routes := protected.Group("/routes")
			{
				routes.GET("", handlers.GetRoutes(db))
				routes.GET("/search", handlers.SearchRoutes(db))
				routes.GET("/:id/schedule", handlers.GetRouteSchedule(db))
			}

			// Bookings routes
			bookings := protected.Group("/bookings")
			{
				bookings.POST("", handlers.CreateBooking(db, bookingService, hub))
				bookings.GET("", handlers.GetMyBookings(db))
				bookings.GET("/:id", handlers.GetBooking(db))
				bookings.POST("/:id/cancel", handlers.CancelBooking(db, bookingService, hub))
				bookings.POST("/:id/pay", handlers.PayBooking(db, bookingService))
			}

			// Dashboard
			dashboard := protected.Group("/dashboard")
			{
				dashboard.GET("", handlers.GetDashboard(db))
				dashboard.GET("/stats", handlers.GetDashboardStats(db))
			}

			// Voice assistant
			voice := protected.Group("/voice")
			{
				voice.POST("/listen", handlers.ListenCommand(assistant))
				voice.POST("/command", handlers.ProcessCommand(assistant))
				voice.POST("/speak", handlers.SpeakText(assistant))
				voice.GET("/history", handlers.GetCommandHistory(db))
			}

			// Admin routes
			admin := protected.Group("/admin")
			admin.Use(middleware.AdminMiddleware())
			{
				admin.POST("/routes", handlers.AddRoute(db))
				admin.POST("/vehicles", handlers.AddVehicle(db))
				admin.POST("/schedules", handlers.AddSchedule(db))
			}
		}
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	if err := r.Run(":" + port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
