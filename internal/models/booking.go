package models

import (
	"time"

	"gorm.io/gorm"
)

type BookingStatus string

const (
	BookingStatusConfirmed BookingStatus = "Confirmed"
	BookingStatusPaid      BookingStatus = "Paid"
	BookingStatusCancelled BookingStatus = "Cancelled"
)

// Booking ties a user to seats on one schedule. Rows are never deleted;
// cancellation is a status transition that hands the seats back.
type Booking struct {
	gorm.Model
	UserID           uint          `json:"userId" gorm:"not null"`
	User             User          `json:"-"`
	ScheduleID       uint          `json:"scheduleId" gorm:"not null"`
	Schedule         Schedule      `json:"schedule"`
	BookingTime      time.Time     `json:"bookingTime" gorm:"not null"`
	SeatsBooked      int           `json:"seatsBooked" gorm:"not null;default:1"`
	TotalFare        float64       `json:"totalFare" gorm:"not null"`
	Status           BookingStatus `json:"status" gorm:"not null;default:'Confirmed'"`
	BookingReference string        `json:"bookingReference" gorm:"unique"`
}
