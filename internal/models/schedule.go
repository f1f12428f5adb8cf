package models

import (
	"time"

	"gorm.io/gorm"
)

type ScheduleStatus string

const (
	ScheduleStatusScheduled ScheduleStatus = "Scheduled"
	ScheduleStatusCancelled ScheduleStatus = "Cancelled"
)

// Schedule is one departure of a vehicle on a route. AvailableSeats starts
// at the vehicle's capacity and must stay within [0, capacity]; confirmed
// bookings decrement it and cancellations restore it.
type Schedule struct {
	gorm.Model
	VehicleID      uint      `json:"vehicleId" gorm:"not null"`
	Vehicle        Vehicle   `json:"vehicle"`
	RouteID        uint      `json:"routeId" gorm:"not null"`
	Route          Route     `json:"route"`
	DepartureTime  time.Time `json:"departureTime" gorm:"not null"`
	ArrivalTime    time.Time `json:"arrivalTime" gorm:"not null"`
	AvailableSeats int       `json:"availableSeats" gorm:"not null"`
	Status         string    `json:"status" gorm:"not null;default:'Scheduled'"`
}
