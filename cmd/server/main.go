package main

import (
	"context"
	"log"

	"github.com/boxerly/backend/internal/router"
	"github.com/boxerly/backend/internal/ws"
	"github.com/boxerly/backend/pkg/config"
	"github.com/boxerly/backend/pkg/firebase"
	"github.com/boxerly/backend/pkg/storage"
	"github.com/boxerly/backend/validators"
	"github.com/labstack/echo/v4"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database connections
	db, err := config.InitDB()
	if err != nil {
		log.Fatalf("Failed to initialize databases: %v", err)
	}
	defer db.CloseDB() // Ensure database connections are closed when main exits

	// Initialize Firebase. Push delivery is best-effort, so a missing
	// credentials file downgrades to a warning instead of killing the server.
	ctx := context.Background()
	firebaseApp, err := firebase.InitFirebase(ctx, cfg.FirebaseCredentialsPath)
	if err != nil {
		log.Printf("Firebase unavailable, continuing without OAuth login and push: %v", err)
		firebaseApp = &firebase.App{}
	}

	// Initialize object storage for presigned media uploads
	storageService, err := storage.NewService(ctx, cfg.S3Bucket, cfg.AWSRegion)
	if err != nil {
		log.Printf("Object storage unavailable, continuing without media uploads: %v", err)
		storageService = nil
	}

	// Connection registry for the real-time gateway
	hub := ws.NewHub()

	// Create Echo instance
	e := echo.New()

	// Setup global middleware
	router.SetupMiddleware(e)

	// Setup routes and dependencies
	router.SetupRoutes(e, db.Postgres, db.Mongo.Database(cfg.MongoDBName), firebaseApp.AuthClient, firebaseApp.MessagingClient, hub, storageService)

	// Validator
	e.Validator = validators.NewValidator()

	// Start server
	e.Logger.Fatal(e.Start(":" + cfg.Port))
}
