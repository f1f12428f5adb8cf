package handlers

import (
	"errors"
	"fmt"
	"log"
	"strconv"

	"github.com/chachabrian/transitly-backend/internal/models"
	"github.com/chachabrian/transitly-backend/internal/services"
	"github.com/chachabrian/transitly-backend/pkg/utils"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// CreateBooking reserves seats on a schedule for the logged-in user
func CreateBooking(db *gorm.DB, bookings *services.BookingService, hub *services.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		userId := c.GetUint("userId")

		var input struct {
			ScheduleID uint `json:"scheduleId" binding:"required"`
			Seats      int  `json:"seats" binding:"required"`
		}

		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		booking, err := bookings.Book(c.Request.Context(), input.ScheduleID, userId, input.Seats)
		if err != nil {
			switch {
			case errors.Is(err, services.ErrInvalidSeatCount):
				c.JSON(400, gin.H{"error": "Invalid number of seats"})
			case errors.Is(err, services.ErrScheduleNotFound):
				c.JSON(404, gin.H{"error": "Schedule not found"})
			case errors.Is(err, services.ErrInsufficientSeats):
				c.JSON(400, gin.H{"error": seatAvailabilityMessage(db, input.ScheduleID)})
			default:
				c.JSON(500, gin.H{"error": "Failed to create booking"})
			}
			return
		}

		var schedule models.Schedule
		if err := db.Preload("Route").First(&schedule, booking.ScheduleID).Error; err == nil {
			hub.BroadcastScheduleUpdate(schedule.ID, schedule.AvailableSeats)
			booking.Schedule = schedule

			// Confirmation is best-effort and never blocks the response
			go notifyBookingConfirmed(db, booking, schedule.Route.RouteName)
		}
		hub.NotifyBookingStatus(userId, booking.ID, string(booking.Status))

		c.JSON(201, gin.H{
			"message": fmt.Sprintf("Ticket booked successfully! Reference: %s", booking.BookingReference),
			"booking": booking,
		})
	}
}

// GetMyBookings lists the user's bookings, newest first
func GetMyBookings(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userId := c.GetUint("userId")

		var bookings []models.Booking
		if err := db.Where("user_id = ?", userId).
			Preload("Schedule").
			Preload("Schedule.Route").
			Preload("Schedule.Vehicle").
			Order("booking_time DESC").
			Find(&bookings).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to fetch bookings"})
			return
		}

		c.JSON(200, bookings)
	}
}

// GetBooking retrieves one booking owned by the user
func GetBooking(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		bookingId := c.Param("id")
		userId := c.GetUint("userId")

		var booking models.Booking
		if err := db.Where("id = ? AND user_id = ?", bookingId, userId).
			Preload("Schedule").
			Preload("Schedule.Route").
			Preload("Schedule.Vehicle").
			First(&booking).Error; err != nil {
			c.JSON(404, gin.H{"error": "Booking not found"})
			return
		}

		c.JSON(200, booking)
	}
}

// CancelBooking cancels a booking and releases its seats. A second cancel
// of the same booking is a no-op that reports the existing state.
func CancelBooking(db *gorm.DB, bookings *services.BookingService, hub *services.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		userId := c.GetUint("userId")
		bookingId, err := strconv.ParseUint(c.Param("id"), 10, 32)
		if err != nil {
			c.JSON(400, gin.H{"error": "Invalid booking id"})
			return
		}

		booking, err := bookings.Cancel(c.Request.Context(), uint(bookingId), userId)
		if err != nil {
			switch {
			case errors.Is(err, services.ErrAlreadyCancelled):
				c.JSON(200, gin.H{
					"message": "Booking is already cancelled",
					"booking": booking,
				})
			case errors.Is(err, services.ErrBookingNotFound):
				c.JSON(404, gin.H{"error": "Booking not found"})
			default:
				c.JSON(500, gin.H{"error": "Failed to cancel booking"})
			}
			return
		}

		var schedule models.Schedule
		if err := db.First(&schedule, booking.ScheduleID).Error; err == nil {
			hub.BroadcastScheduleUpdate(schedule.ID, schedule.AvailableSeats)
		}
		hub.NotifyBookingStatus(userId, booking.ID, string(booking.Status))

		go notifyBookingCancelled(db, booking)

		c.JSON(200, gin.H{
			"message": "Booking cancelled successfully",
			"booking": booking,
		})
	}
}

// PayBooking marks a booking as paid. The provider integration is a sandbox
// stub; no verification happens here.
func PayBooking(db *gorm.DB, bookings *services.BookingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userId := c.GetUint("userId")
		bookingId, err := strconv.ParseUint(c.Param("id"), 10, 32)
		if err != nil {
			c.JSON(400, gin.H{"error": "Invalid booking id"})
			return
		}

		booking, err := bookings.Pay(c.Request.Context(), uint(bookingId), userId)
		if err != nil {
			if errors.Is(err, services.ErrBookingNotFound) {
				c.JSON(404, gin.H{"error": "Booking not found"})
			} else {
				c.JSON(500, gin.H{"error": "Failed to process payment"})
			}
			return
		}

		go func() {
			var user models.User
			if err := db.First(&user, booking.UserID).Error; err != nil {
				return
			}
			if err := utils.SendPaymentReceivedEmail(user.Email, booking.BookingReference, booking.TotalFare); err != nil {
				log.Printf("Failed to send payment email: %v", err)
			}
		}()

		c.JSON(200, gin.H{
			"message": "Payment successful! Booking confirmed.",
			"booking": booking,
		})
	}
}

func seatAvailabilityMessage(db *gorm.DB, scheduleID uint) string {
	var schedule models.Schedule
	if err := db.First(&schedule, scheduleID).Error; err != nil {
		return "Not enough seats available"
	}
	return fmt.Sprintf("Only %d seats available", schedule.AvailableSeats)
}

func notifyBookingConfirmed(db *gorm.DB, booking *models.Booking, routeName string) {
	var user models.User
	if err := db.First(&user, booking.UserID).Error; err != nil {
		return
	}
	if err := utils.SendBookingConfirmationEmail(user.Email, booking.BookingReference, routeName, booking.SeatsBooked, booking.TotalFare); err != nil {
		log.Printf("Failed to send booking confirmation email: %v", err)
	}
	if user.PhoneNumber != "" {
		if err := utils.SendBookingConfirmationSMS(user.PhoneNumber, booking.BookingReference, routeName); err != nil {
			log.Printf("Failed to send booking confirmation SMS: %v", err)
		}
	}
}

func notifyBookingCancelled(db *gorm.DB, booking *models.Booking) {
	var user models.User
	if err := db.First(&user, booking.UserID).Error; err != nil {
		return
	}
	if err := utils.SendBookingCancelledEmail(user.Email, booking.BookingReference); err != nil {
		log.Printf("Failed to send cancellation email: %v", err)
	}
	if user.PhoneNumber != "" {
		if err := utils.SendBookingCancelledSMS(user.PhoneNumber, booking.BookingReference); err != nil {
			log.Printf("Failed to send cancellation SMS: %v", err)
		}
	}
}
