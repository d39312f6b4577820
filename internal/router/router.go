package router

import (
	"log"

	"firebase.google.com/go/v4/auth"
	"firebase.google.com/go/v4/messaging"
	"github.com/boxerly/backend/internal/chat"
	"github.com/boxerly/backend/internal/handlers"
	"github.com/boxerly/backend/internal/middleware"
	"github.com/boxerly/backend/internal/models"
	"github.com/boxerly/backend/internal/notify"
	"github.com/boxerly/backend/internal/repositories"
	"github.com/boxerly/backend/internal/ws"
	"github.com/boxerly/backend/pkg/storage"
	"github.com/labstack/echo/v4"
	eMiddleware "github.com/labstack/echo/v4/middleware"
	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"
)

// SetupMiddleware configures global Echo middleware
func SetupMiddleware(e *echo.Echo) {
	e.Use(eMiddleware.Recover())
	e.Use(eMiddleware.CORS())
	log.Println("Global middleware configured.")
}

// SetupRoutes configures all application routes and injects dependencies
func SetupRoutes(e *echo.Echo, pgdb *gorm.DB, mgDB *mongo.Database, firebaseAuthClient *auth.Client, messagingClient *messaging.Client, hub *ws.Hub, storageService *storage.Service) {
	// AutoMigrate PostgreSQL models
	err := pgdb.AutoMigrate(
		&models.User{},
		&models.Gym{},
		&models.Follow{},
		&models.Notification{},
		&models.RefreshToken{},
	)
	if err != nil {
		log.Fatalf("Failed to auto migrate models: %v", err)
	}
	log.Println("PostgreSQL auto-migrations completed for all models.")

	// Health check - always accessible
	e.GET("/health", handlers.HealthCheck)

	// --- Initialize Repositories ---
	userRepo := repositories.NewPostgresUserRepository(pgdb)
	gymRepo := repositories.NewPostgresGymRepository(pgdb)
	followRepo := repositories.NewPostgresFollowRepository(pgdb)
	notificationRepo := repositories.NewPostgresNotificationRepository(pgdb)
	refreshRepo := repositories.NewPostgresRefreshTokenRepository(pgdb)
	combatRepo := repositories.NewMongoCombatRepository(mgDB)
	ratingRepo := repositories.NewMongoRatingRepository(mgDB)
	chatRepo := repositories.NewMongoChatRepository(mgDB)

	// --- Cross-cutting services ---
	notifier := notify.NewNotifier(messagingClient, followRepo, notificationRepo, hub)
	chatService := chat.NewService(combatRepo, chatRepo, hub)

	// --- Unprotected routes for authentication ---
	authGroup := e.Group("/api/v1/auth")
	authHandler := handlers.NewAuthHandler(userRepo, gymRepo, refreshRepo, firebaseAuthClient)
	authHandler.RegisterAuthRoutes(authGroup)
	log.Println("Auth routes configured.")

	// --- Real-time gateway (token authenticated via query parameter) ---
	wsHandler := handlers.NewWSHandler(hub, chatService, combatRepo)
	wsHandler.RegisterWSRoutes(e)
	log.Println("Websocket gateway configured.")

	// --- Protected routes (require JWT authentication) ---
	api := e.Group("/api/v1")
	api.Use(middleware.JWTAuthMiddleware())
	log.Println("JWT authentication middleware applied to /api/v1 group.")

	// User profile routes
	userHandler := handlers.NewUserHandler(userRepo)
	userHandler.RegisterProfileRoutes(api)
	log.Println("User profile routes configured.")

	// Gym routes
	gymHandler := handlers.NewGymHandler(gymRepo)
	gymHandler.RegisterGymRoutes(api)
	log.Println("Gym routes configured.")

	// Follow routes
	followHandler := handlers.NewFollowHandler(followRepo, userRepo, notifier)
	followHandler.RegisterFollowRoutes(api)
	log.Println("Follow routes configured.")

	// Combat routes
	combatHandler := handlers.NewCombatHandler(combatRepo, userRepo, gymRepo, notifier)
	combatHandler.RegisterCombatRoutes(api)
	log.Println("Combat routes configured.")

	// Statistics routes
	statsHandler := handlers.NewStatsHandler(combatRepo, ratingRepo)
	statsHandler.RegisterStatsRoutes(api)
	log.Println("Statistics routes configured.")

	// Rating routes
	ratingHandler := handlers.NewRatingHandler(ratingRepo, combatRepo, notifier)
	ratingHandler.RegisterRatingRoutes(api)
	log.Println("Rating routes configured.")

	// Chat routes
	chatHandler := handlers.NewChatHandler(chatRepo, chatService)
	chatHandler.RegisterChatRoutes(api)
	log.Println("Chat routes configured.")

	// Notification routes
	notificationHandler := handlers.NewNotificationHandler(notificationRepo)
	notificationHandler.RegisterNotificationRoutes(api)
	log.Println("Notification routes configured.")

	// Upload routes
	uploadHandler := handlers.NewUploadHandler(storageService)
	uploadHandler.RegisterUploadRoutes(api)
	log.Println("Upload routes configured.")

	log.Println("All routes configured.")
}
