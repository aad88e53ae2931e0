package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"DateSpark-App/internal/domain/repository"
	"DateSpark-App/internal/domain/service"
	"DateSpark-App/internal/handler"
	"DateSpark-App/internal/infrastructure/database"
	fsinfra "DateSpark-App/internal/infrastructure/firestore"
	"DateSpark-App/internal/infrastructure/maps"
	repoimpl "DateSpark-App/internal/repository"
	"DateSpark-App/internal/usecase"
)

func main() {
	if err := godotenv.Load(); err != nil {
		fmt.Println("Warning: .env file not found, using system environment variables")
	}

	ctx := context.Background()

	// The curated idea bank is loaded once at startup; everything downstream
	// receives the immutable bank, never a hidden global.
	ideaBank, err := service.NewIdeaBank()
	if err != nil {
		log.Fatalf("Failed to load curated idea bank: %v", err)
	}
	log.Printf("✅ curated idea bank loaded (%d ideas)", ideaBank.Size())

	venuesRepo, cleanup, err := buildVenuesRepository(ctx)
	if err != nil {
		log.Fatalf("Failed to initialize venue store: %v", err)
	}
	defer cleanup()

	var detailsRepo repository.PlaceDetailsRepository
	if apiKey := os.Getenv("GOOGLE_MAPS_API_KEY"); apiKey != "" {
		detailsRepo = maps.NewGooglePlacesProvider(apiKey)
		log.Printf("✅ Google Places enrichment enabled")
	} else {
		log.Printf("⚠️ GOOGLE_MAPS_API_KEY not set, address enrichment disabled")
	}

	planService := service.NewPlanGenerationService(venuesRepo, detailsRepo, ideaBank)
	planUseCase := usecase.NewPlanGenerationUseCase(planService)
	planHandler := handler.NewPlanHandler(planUseCase)

	router := gin.Default()
	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "healthy", "service": "DateSpark-App"})
	})
	router.POST("/plans/generate", planHandler.PostGeneratePlan)
	router.GET("/plans/moods", planHandler.GetMoods)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	fmt.Printf("DateSpark-App server starting on :%s...\n", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

// buildVenuesRepository selects the venue store backend via VENUE_STORE:
// "firestore" (default), "postgres", or "supabase".
func buildVenuesRepository(ctx context.Context) (repository.VenuesRepository, func(), error) {
	switch os.Getenv("VENUE_STORE") {
	case "postgres":
		client, err := database.NewPostgreSQLClient()
		if err != nil {
			return nil, nil, err
		}
		if err := client.HealthCheck(); err != nil {
			client.Close()
			return nil, nil, fmt.Errorf("PostgreSQL health check failed: %w", err)
		}
		log.Printf("✅ venue store: PostgreSQL/PostGIS")
		return repoimpl.NewPostgresVenuesRepository(client), func() { client.Close() }, nil

	case "supabase":
		client, err := database.NewSupabaseClient()
		if err != nil {
			return nil, nil, err
		}
		if err := client.HealthCheck(); err != nil {
			return nil, nil, fmt.Errorf("Supabase health check failed: %w", err)
		}
		log.Printf("✅ venue store: Supabase")
		return repoimpl.NewSupabaseVenuesRepository(client), func() {}, nil

	default:
		projectID := os.Getenv("FIRESTORE_PROJECT_ID")
		if projectID == "" {
			return nil, nil, fmt.Errorf("FIRESTORE_PROJECT_ID environment variable is not set")
		}
		client, err := fsinfra.NewFirestoreClient(ctx, projectID)
		if err != nil {
			return nil, nil, err
		}
		log.Printf("✅ venue store: Firestore")
		return repoimpl.NewFirestoreVenuesRepository(client), func() { client.Close() }, nil
	}
}
