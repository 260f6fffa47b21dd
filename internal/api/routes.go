package api

import (
	"os"
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ptcgp/data-api/internal/api/handlers"
	"github.com/ptcgp/data-api/internal/data"
	"github.com/ptcgp/data-api/internal/metrics"
	"github.com/ptcgp/data-api/internal/middleware"
	"github.com/ptcgp/data-api/internal/store"
)

// SetupRouter wires the full HTTP surface: public card/set/event reads and
// the API-key-gated write endpoints for users, decks and groups.
func SetupRouter(dataset *data.Dataset, images data.ImageResolver, stores store.Stores) *gin.Engine {
	router := gin.Default()

	// CORS configuration - allow origins from environment or allow all
	config := cors.DefaultConfig()
	if corsOrigins := os.Getenv("CORS_ALLOWED_ORIGINS"); corsOrigins != "" {
		config.AllowOrigins = strings.Split(corsOrigins, ",")
	} else {
		config.AllowAllOrigins = true
	}
	config.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	config.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "X-API-Key"}
	router.Use(cors.New(config))

	router.Use(metrics.HTTPMetrics())

	// Initialize handlers
	cardHandler := handlers.NewCardHandler(dataset, images)
	metaHandler := handlers.NewMetaHandler(dataset)
	userHandler := handlers.NewUserHandler(stores)

	// Card routes
	router.GET("/cards", cardHandler.GetCards)
	router.GET("/cards/search", cardHandler.SearchCards)
	router.GET("/cards/:id", cardHandler.GetCard)

	// Metadata routes
	router.GET("/sets", metaHandler.GetSets)
	router.GET("/sets/:id", metaHandler.GetSet)
	router.GET("/events", metaHandler.GetEvents)
	router.GET("/tournaments", metaHandler.GetTournaments)

	// User, trade, deck and group routes; writes require the API key
	router.GET("/users/:id", userHandler.GetUser)
	router.GET("/trades/matches", userHandler.TradeMatches)
	router.GET("/decks", userHandler.ListDecks)
	router.GET("/decks/:id", userHandler.GetDeck)
	router.GET("/groups/:id", userHandler.GetGroup)

	authorized := router.Group("", middleware.APIKeyAuth())
	{
		authorized.POST("/users/:id/have", userHandler.SetHave)
		authorized.POST("/users/:id/want", userHandler.SetWant)
		authorized.POST("/decks", userHandler.CreateDeck)
		authorized.POST("/decks/:id/vote", userHandler.VoteDeck)
		authorized.POST("/groups", userHandler.CreateGroup)
		authorized.POST("/groups/:id/join", userHandler.JoinGroup)
	}

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// Prometheus metrics
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return router
}
