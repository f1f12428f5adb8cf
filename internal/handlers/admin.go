package handlers

import (
	"log"
	"time"

	"github.com/chachabrian/transitly-backend/internal/models"
	"github.com/chachabrian/transitly-backend/internal/services"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// AddRoute creates a route (admin only)
func AddRoute(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input struct {
			RouteName   string  `json:"routeName" binding:"required"`
			Source      string  `json:"source" binding:"required"`
			Destination string  `json:"destination" binding:"required"`
			Distance    float64 `json:"distance" binding:"required,gt=0"`
			Duration    int     `json:"duration" binding:"required,gt=0"`
			Fare        float64 `json:"fare" binding:"required,gt=0"`
		}

		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		route := models.Route{
			RouteName:   input.RouteName,
			Source:      input.Source,
			Destination: input.Destination,
			Distance:    input.Distance,
			Duration:    input.Duration,
			Fare:        input.Fare,
		}

		if err := db.Create(&route).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to create route"})
			return
		}

		// Cached searches may now be missing this route
		if err := services.InvalidateRouteSearches(c.Request.Context()); err != nil {
			log.Printf("Failed to invalidate route search cache: %v", err)
		}

		c.JSON(201, gin.H{"message": "Route added successfully", "route": route})
	}
}

// AddVehicle registers a vehicle (admin only)
func AddVehicle(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input struct {
			VehicleNumber string `json:"vehicleNumber" binding:"required"`
			VehicleType   string `json:"vehicleType" binding:"required"`
			Capacity      int    `json:"capacity" binding:"required,gt=0"`
		}

		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		vehicle := models.Vehicle{
			VehicleNumber: input.VehicleNumber,
			VehicleType:   input.VehicleType,
			Capacity:      input.Capacity,
			Status:        string(models.VehicleStatusAvailable),
		}

		if err := db.Create(&vehicle).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to create vehicle"})
			return
		}

		c.JSON(201, gin.H{"message": "Vehicle added successfully", "vehicle": vehicle})
	}
}

// AddSchedule creates a departure for a (vehicle, route) pair (admin only).
// Arrival is derived from the route duration and the seat counter starts at
// the vehicle's capacity.
func AddSchedule(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input struct {
			VehicleID     uint      `json:"vehicleId" binding:"required"`
			RouteID       uint      `json:"routeId" binding:"required"`
			DepartureTime time.Time `json:"departureTime" binding:"required"`
		}

		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		if input.DepartureTime.Before(time.Now()) {
			c.JSON(400, gin.H{"error": "Departure time must be in the future"})
			return
		}

		var route models.Route
		if err := db.First(&route, input.RouteID).Error; err != nil {
			c.JSON(404, gin.H{"error": "Route not found"})
			return
		}

		var vehicle models.Vehicle
		if err := db.First(&vehicle, input.VehicleID).Error; err != nil {
			c.JSON(404, gin.H{"error": "Vehicle not found"})
			return
		}

		schedule := models.Schedule{
			VehicleID:      vehicle.ID,
			RouteID:        route.ID,
			DepartureTime:  input.DepartureTime,
			ArrivalTime:    input.DepartureTime.Add(time.Duration(route.Duration) * time.Minute),
			AvailableSeats: vehicle.Capacity,
			Status:         string(models.ScheduleStatusScheduled),
		}

		if err := db.Create(&schedule).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to create schedule"})
			return
		}

		c.JSON(201, gin.H{"message": "Schedule added successfully", "schedule": schedule})
	}
}
