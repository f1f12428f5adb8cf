package database

import (
	"log"
	"time"

	"github.com/chachabrian/transitly-backend/internal/models"
	"gorm.io/gorm"
)

// SeedSampleData loads the demo routes, vehicles and schedules. It is a
// no-op once any route or vehicle exists so restarts don't duplicate data.
func SeedSampleData(db *gorm.DB) error {
	var routeCount, vehicleCount int64
	if err := db.Model(&models.Route{}).Count(&routeCount).Error; err != nil {
		return err
	}
	if err := db.Model(&models.Vehicle{}).Count(&vehicleCount).Error; err != nil {
		return err
	}
	if routeCount > 0 || vehicleCount > 0 {
		log.Println("Sample data already exists. Skipping creation.")
		return nil
	}

	routes := []models.Route{
		{RouteName: "Visakhapatnam to Hyderabad", Source: "Visakhapatnam", Destination: "Hyderabad", Distance: 600, Duration: 480, Fare: 500},
		{RouteName: "Hyderabad to Vijayawada", Source: "Hyderabad", Destination: "Vijayawada", Distance: 275, Duration: 240, Fare: 300},
		{RouteName: "Vijayawada to Chennai", Source: "Vijayawada", Destination: "Chennai", Distance: 430, Duration: 360, Fare: 400},
		{RouteName: "Visakhapatnam to Vijayawada", Source: "Visakhapatnam", Destination: "Vijayawada", Distance: 350, Duration: 300, Fare: 350},
	}
	vehicles := []models.Vehicle{
		{VehicleNumber: "AP39Z1234", VehicleType: "Bus", Capacity: 40, Status: string(models.VehicleStatusAvailable)},
		{VehicleNumber: "AP39Z5678", VehicleType: "Bus", Capacity: 50, Status: string(models.VehicleStatusAvailable)},
		{VehicleNumber: "AP39Z9012", VehicleType: "Mini Bus", Capacity: 25, Status: string(models.VehicleStatusAvailable)},
		{VehicleNumber: "AP39Z3456", VehicleType: "Bus", Capacity: 45, Status: string(models.VehicleStatusAvailable)},
	}

	if err := db.Create(&routes).Error; err != nil {
		return err
	}
	if err := db.Create(&vehicles).Error; err != nil {
		return err
	}

	// Five departures per (route, vehicle) pairing over the next two days
	baseTime := time.Now().Truncate(time.Hour)
	baseTime = time.Date(baseTime.Year(), baseTime.Month(), baseTime.Day(), 6, 0, 0, 0, baseTime.Location())

	var schedules []models.Schedule
	for i, route := range routes {
		vehicle := vehicles[i]
		departureTimes := []time.Time{
			baseTime,
			baseTime.Add(6 * time.Hour),
			baseTime.Add(12 * time.Hour),
			baseTime.Add(24 * time.Hour),
			baseTime.Add(30 * time.Hour),
		}
		for _, depTime := range departureTimes {
			schedules = append(schedules, models.Schedule{
				VehicleID:      vehicle.ID,
				RouteID:        route.ID,
				DepartureTime:  depTime,
				ArrivalTime:    depTime.Add(time.Duration(route.Duration) * time.Minute),
				AvailableSeats: vehicle.Capacity,
				Status:         string(models.ScheduleStatusScheduled),
			})
		}
	}

	if err := db.Create(&schedules).Error; err != nil {
		return err
	}

	log.Println("Sample data created successfully!")
	return nil
}
