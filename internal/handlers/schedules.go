package handlers

import (
	"github.com/chachabrian/transitly-backend/internal/models"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// GetRouteSchedule returns the timetable for one route: scheduled departures
// only, earliest first.
func GetRouteSchedule(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		routeID := c.Param("id")

		var route models.Route
		if err := db.First(&route, routeID).Error; err != nil {
			c.JSON(404, gin.H{"error": "Route not found"})
			return
		}

		var schedules []models.Schedule
		if err := db.Preload("Vehicle").
			Where("route_id = ? AND status = ?", route.ID, models.ScheduleStatusScheduled).
			Order("departure_time ASC").
			Find(&schedules).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to fetch schedules"})
			return
		}

		c.JSON(200, gin.H{
			"route":     route,
			"schedules": schedules,
		})
	}
}
