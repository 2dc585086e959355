package main

import (
	"fmt"
	"log"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/keydeck/keydeck/pkg/keydeck/auth"
	"github.com/keydeck/keydeck/pkg/keydeck/config"
	"github.com/keydeck/keydeck/pkg/keydeck/database"
	"github.com/keydeck/keydeck/pkg/keydeck/keys"
	"github.com/keydeck/keydeck/pkg/keydeck/models"
)

// @title Keydeck API
// @version 1.0
// @description A credential manager for named third-party API keys.

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:5000
// @BasePath /api

// @securityDefinitions.apikey TokenAuth
// @in header
// @name x-auth-token
// @description Signed bearer token issued by /auth/register or /auth/login

func main() {
	// Load .env if present; real environments set variables directly
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if cfg.JWTSecret == "defaultsecret" {
		log.Println("WARNING: using the default JWT secret - set JWT_SECRET in production")
	}

	// Connect to database
	db, err := database.Connect(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run auto-migrations
	if err := models.AutoMigrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Database migrations completed")

	tokens := auth.NewTokenService(cfg.JWTSecret, cfg.TokenTTL)

	// Set up Gin router
	r := gin.Default()

	// CORS: the UI is served from a different origin and authenticates via
	// the custom token header
	corsConfig := cors.DefaultConfig()
	if origins := cfg.GetCORSAllowedOrigins(); len(origins) > 0 {
		corsConfig.AllowOrigins = origins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowHeaders = append(corsConfig.AllowHeaders, auth.TokenHeader)
	r.Use(cors.New(corsConfig))

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status": "ok",
		})
	})

	// API routes
	api := r.Group("/api")
	{
		api.GET("/health", func(c *gin.Context) {
			c.JSON(200, gin.H{
				"status":  "ok",
				"service": "keydeck",
			})
		})

		// Auth routes (register and login are public, /me is protected)
		authHandler := auth.NewHandler(db, tokens)
		authHandler.RegisterRoutes(api.Group("/auth"))

		// Key routes (all protected)
		keysHandler := keys.NewHandler(db)
		keysHandler.RegisterRoutes(api.Group("/keys", auth.Middleware(tokens)))
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	log.Printf("Starting keydeck server on %s", addr)
	if err := r.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
