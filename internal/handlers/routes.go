package handlers

import (
	"fmt"
	"log"
	"strings"

	"github.com/chachabrian/transitly-backend/internal/models"
	"github.com/chachabrian/transitly-backend/internal/services"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// GetRoutes lists every route in the network
func GetRoutes(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var routes []models.Route
		if err := db.Find(&routes).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to fetch routes"})
			return
		}

		c.JSON(200, routes)
	}
}

// SearchRoutes finds routes by case-insensitive substring match on source
// and destination. Both parameters are required; searches are cached in
// Redis for a few minutes.
func SearchRoutes(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		source := strings.TrimSpace(c.Query("source"))
		destination := strings.TrimSpace(c.Query("destination"))

		if source == "" || destination == "" {
			c.JSON(400, gin.H{"error": "Please enter both source and destination"})
			return
		}

		if cached, err := services.GetCachedRouteSearch(c.Request.Context(), source, destination); err == nil {
			respondRouteSearch(c, source, destination, cached)
			return
		}

		var routes []models.Route
		if err := db.
			Where("LOWER(source) LIKE LOWER(?)", "%"+source+"%").
			Where("LOWER(destination) LIKE LOWER(?)", "%"+destination+"%").
			Find(&routes).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to search routes"})
			return
		}

		if err := services.CacheRouteSearch(c.Request.Context(), source, destination, routes); err != nil {
			log.Printf("Failed to cache route search: %v", err)
		}

		respondRouteSearch(c, source, destination, routes)
	}
}

func respondRouteSearch(c *gin.Context, source, destination string, routes []models.Route) {
	if len(routes) == 0 {
		c.JSON(200, gin.H{
			"message": fmt.Sprintf("No routes found from %s to %s", source, destination),
			"routes":  []models.Route{},
		})
		return
	}
	c.JSON(200, gin.H{"routes": routes})
}
