package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/balamurugesan03/Kotbilling/controllers"
	"github.com/balamurugesan03/Kotbilling/database"
	middleware "github.com/balamurugesan03/Kotbilling/middleware"
	routes "github.com/balamurugesan03/Kotbilling/routes"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func main() {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8000"
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := database.EnsureIndexes(ctx); err != nil {
		log.Fatalf("Error creating indexes: %v", err)
	}

	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	corsOrigin := os.Getenv("CORS_ORIGIN")
	if corsOrigin == "" {
		corsOrigin = "http://localhost:9000"
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{corsOrigin},
		AllowMethods:     []string{"POST", "GET", "PATCH", "DELETE", "PUT", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "token"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "ws_clients": controllers.Hub.ClientCount()})
	})

	// Platform webhooks authenticate by signature, auth routes issue the
	// tokens; both stay outside the token wall.
	routes.AuthRoutes(router)
	routes.AggregatorWebhookRoutes(router)
	router.GET("/ws", controllers.Hub.Handler())

	router.Use(middleware.Authentication())
	routes.UserRoutes(router)
	routes.MenuRoutes(router)
	routes.TableRoutes(router)
	routes.OrderRoutes(router)
	routes.InventoryRoutes(router)
	routes.DashboardRoutes(router)
	routes.AggregatorRoutes(router)

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"message": "Page not found"})
	})

	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Error starting server: %v", err)
	}
}
