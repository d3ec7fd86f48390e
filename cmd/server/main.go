package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"

	"github.com/kisaansetu/mandi-api/internal/auth"
	"github.com/kisaansetu/mandi-api/internal/bidding"
	"github.com/kisaansetu/mandi-api/internal/database"
	"github.com/kisaansetu/mandi-api/internal/grading"
	"github.com/kisaansetu/mandi-api/internal/listings"
	"github.com/kisaansetu/mandi-api/pkg/middleware"

	"github.com/gin-gonic/gin"
)

// init configures the application logging based on environment settings
// In development mode, it enables pretty printing with timestamps
// Debug logging can be enabled via DEBUG environment variable
func init() {
	// Configure pretty logging for development
	if os.Getenv("ENV") != "production" {
		output := zerolog.ConsoleWriter{
			Out:        os.Stdout,
			TimeFormat: time.RFC3339,
		}
		zlog.Logger = zerolog.New(output).With().Timestamp().Logger()
	}

	// Set global log level
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if os.Getenv("DEBUG") == "true" {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
}

// main initializes and runs the marketplace API server with graceful
// shutdown support
func main() {
	// Initialize database
	db, err := database.NewDatabase(os.Getenv("DB_PATH"))
	if err != nil {
		zlog.Fatal().Err(err).Msg("Failed to initialize database")
	}

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		jwtSecret = "mandi-secret-key"
	}

	// Initialize router
	router := gin.Default()

	// Initialize services and handlers
	authService := auth.NewService(db, jwtSecret)
	authHandlers := auth.NewGinHandlers(authService)

	// The remote grader is used when a grading service is configured,
	// otherwise grades are mocked
	var grader grading.Grader = grading.NewMockGrader()
	if gradingURL := os.Getenv("GRADING_URL"); gradingURL != "" {
		grader = grading.NewRemoteGrader(gradingURL)
	}

	listingService := listings.NewService(db, grader)
	listingHandlers := listings.NewGinHandlers(listingService)

	biddingService := bidding.NewService(db, bidding.Config{
		SerializePerListing: os.Getenv("SERIALIZE_BIDS") == "true",
	})
	biddingHandlers := bidding.NewGinHandlers(biddingService)

	// Setup middleware
	router.Use(middleware.RateLimit())

	// Setup API routes
	setupRoutes(router, jwtSecret, authHandlers, listingHandlers, biddingHandlers)

	// Get port from env otherwise it's 8080
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	// Create server
	srv := &http.Server{
		Addr:    ":" + port,
		Handler: router,
	}

	// Graceful shutdown setup
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zlog.Fatal().Err(err).Msg("listen")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	zlog.Info().Msg("Shutting down server...")

	// Give outstanding operations 5 seconds to complete
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zlog.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	zlog.Info().Msg("Server exiting")
}

// setupRoutes configures all API endpoints and their handlers.
// Routes are grouped by functionality:
// - Auth routes: signup and login are public, profile requires a JWT
// - Listing routes: browsing is public, mutations require a JWT
// - Bid routes: placing and listing own bids require a JWT
// - Internal routes: aggregate repair, protected by internal auth
func setupRoutes(
	router *gin.Engine,
	jwtSecret string,
	authHandlers *auth.GinHandlers,
	listingHandlers *listings.GinHandlers,
	biddingHandlers *bidding.GinHandlers,
) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "OK", "timestamp": time.Now()})
	})

	v1 := router.Group("/api/v1")
	{
		// Auth routes
		authGroup := v1.Group("/auth")
		{
			authGroup.POST("/signup", authHandlers.SignupHandler())
			authGroup.POST("/login", authHandlers.LoginHandler())
			authGroup.GET("/profile", middleware.JWTAuth(jwtSecret), authHandlers.ProfileHandler())
		}

		// Listing routes
		listingGroup := v1.Group("/listings")
		{
			listingGroup.GET("", listingHandlers.GetListingsHandler())
			listingGroup.GET("/:listing_id", listingHandlers.GetListingHandler())

			protected := listingGroup.Group("")
			protected.Use(middleware.JWTAuth(jwtSecret))
			{
				protected.POST("", listingHandlers.CreateListingHandler())
				protected.GET("/farmer/my-listings", listingHandlers.GetFarmerListingsHandler())
				protected.PUT("/:listing_id", listingHandlers.UpdateListingHandler())
				protected.DELETE("/:listing_id", listingHandlers.DeleteListingHandler())
			}
		}

		// Bid routes
		bidGroup := v1.Group("/bids")
		{
			bidGroup.GET("/listing/:listing_id/bids", biddingHandlers.ListingBidsHandler())
			bidGroup.GET("/listing/:listing_id/highest", biddingHandlers.HighestBidHandler())

			protected := bidGroup.Group("")
			protected.Use(middleware.JWTAuth(jwtSecret))
			{
				protected.POST("", biddingHandlers.PlaceBidHandler())
				protected.GET("/my/bids", biddingHandlers.MyBidsHandler())
			}
		}

		// Internal routes (should be protected by internal network)
		internal := v1.Group("/internal")
		internal.Use(middleware.InternalAuth(jwtSecret))
		{
			internal.POST("/listings/:listing_id/recompute", biddingHandlers.RecomputeHandler())
		}
	}
}
