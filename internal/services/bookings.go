package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/chachabrian/transitly-backend/internal/models"
	"github.com/chachabrian/transitly-backend/pkg/utils"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	// ErrInvalidSeatCount rejects non-positive seat requests.
	ErrInvalidSeatCount = errors.New("invalid number of seats")
	// ErrInsufficientSeats means the schedule cannot cover the request.
	ErrInsufficientSeats = errors.New("not enough seats available")
	// ErrScheduleNotFound means the schedule id does not exist.
	ErrScheduleNotFound = errors.New("schedule not found")
	// ErrBookingNotFound means no booking with that id belongs to the user.
	ErrBookingNotFound = errors.New("booking not found")
	// ErrAlreadyCancelled marks the idempotent second cancellation.
	ErrAlreadyCancelled = errors.New("booking is already cancelled")
)

// BookingService implements the reservation workflow: booking, cancellation
// and the payment status transition. Each operation runs in one transaction
// so the ledger row and the seat counter always move together.
type BookingService struct {
	DB *gorm.DB
}

func NewBookingService(db *gorm.DB) *BookingService {
	return &BookingService{DB: db}
}

// Book reserves seats on a schedule for a user. The seat decrement is a
// conditional update keyed on the current availability, so two concurrent
// bookings cannot oversubscribe a schedule; the loser of such a race gets
// ErrInsufficientSeats just like a plainly overfull request.
func (s *BookingService) Book(ctx context.Context, scheduleID, userID uint, seats int) (*models.Booking, error) {
	if seats <= 0 {
		return nil, ErrInvalidSeatCount
	}

	var booking models.Booking
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var schedule models.Schedule
		if err := tx.Preload("Route").First(&schedule, scheduleID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrScheduleNotFound
			}
			return err
		}

		if seats > schedule.AvailableSeats {
			return ErrInsufficientSeats
		}

		result := tx.Model(&models.Schedule{}).
			Where("id = ? AND available_seats >= ?", scheduleID, seats).
			UpdateColumn("available_seats", gorm.Expr("available_seats - ?", seats))
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			// Someone else took the seats between the read and the update
			return ErrInsufficientSeats
		}

		booking = models.Booking{
			UserID:           userID,
			ScheduleID:       scheduleID,
			BookingTime:      time.Now(),
			SeatsBooked:      seats,
			TotalFare:        schedule.Route.Fare * float64(seats),
			Status:           models.BookingStatusConfirmed,
			BookingReference: utils.GenerateBookingReference(),
		}
		if err := tx.Omit(clause.Associations).Create(&booking).Error; err != nil {
			return fmt.Errorf("failed to create booking: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

// Cancel marks a booking cancelled and restores its seats to the schedule.
// Cancelling an already-cancelled booking reports ErrAlreadyCancelled and
// changes nothing, so repeated requests cannot double-credit seats.
func (s *BookingService) Cancel(ctx context.Context, bookingID, userID uint) (*models.Booking, error) {
	var booking models.Booking
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ? AND user_id = ?", bookingID, userID).First(&booking).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrBookingNotFound
			}
			return err
		}

		if booking.Status == models.BookingStatusCancelled {
			return ErrAlreadyCancelled
		}

		if err := tx.Model(&models.Booking{}).
			Where("id = ?", booking.ID).
			Update("status", models.BookingStatusCancelled).Error; err != nil {
			return err
		}
		booking.Status = models.BookingStatusCancelled

		result := tx.Model(&models.Schedule{}).
			Where("id = ?", booking.ScheduleID).
			UpdateColumn("available_seats", gorm.Expr("available_seats + ?", booking.SeatsBooked))
		return result.Error
	})
	if err != nil {
		if errors.Is(err, ErrAlreadyCancelled) {
			return &booking, err
		}
		return nil, err
	}
	return &booking, nil
}

// Pay flips a booking to Paid. There is no payment verification behind this;
// the provider integration is a sandbox stub and the transition is
// unconditional for any booking the user owns.
func (s *BookingService) Pay(ctx context.Context, bookingID, userID uint) (*models.Booking, error) {
	var booking models.Booking
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ? AND user_id = ?", bookingID, userID).First(&booking).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrBookingNotFound
			}
			return err
		}

		if err := tx.Model(&models.Booking{}).
			Where("id = ?", booking.ID).
			Update("status", models.BookingStatusPaid).Error; err != nil {
			return err
		}
		booking.Status = models.BookingStatusPaid
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &booking, nil
}
