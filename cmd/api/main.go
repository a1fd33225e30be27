package main

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/skillhubapp/skillhub-api/internal/config"
	dbpkg "github.com/skillhubapp/skillhub-api/internal/db"
	"github.com/skillhubapp/skillhub-api/internal/events"
	"github.com/skillhubapp/skillhub-api/internal/middleware"
	"github.com/skillhubapp/skillhub-api/internal/routes"
)

func main() {

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	db := dbpkg.NewDB(cfg)

	publisher, err := events.NewPublisher(cfg.AMQPUrl, cfg.AMQPExchange)
	if err != nil {
		// Lifecycle events are best effort; the API runs without them.
		log.Printf("event publisher disabled: %v", err)
		publisher = nil
	}
	defer publisher.Close()

	r := gin.Default()

	r.Use(middleware.CORSMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	routes.RegisterRoutes(r, db, cfg, publisher)

	log.Printf("Server running on %s", cfg.Addr())
	if err := r.Run(cfg.Addr()); err != nil {
		log.Fatalf("failed to start server: %v", err)
	}
}
