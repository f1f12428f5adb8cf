package services

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/chachabrian/transitly-backend/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	gdb, err := gorm.Open(postgres.New(postgres.Config{Conn: db}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("gorm open error: %v", err)
	}
	return gdb, mock
}

func scheduleRows(id, routeID, available int) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "vehicle_id", "route_id", "available_seats", "status"}).
		AddRow(id, 1, routeID, available, "Scheduled")
}

func routeRows(id int, fare float64) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "route_name", "source", "destination", "fare"}).
		AddRow(id, "Visakhapatnam to Hyderabad", "Visakhapatnam", "Hyderabad", fare)
}

func TestBookComputesFareAndDecrementsSeats(t *testing.T) {
	gdb, mock := newMockDB(t)
	svc := NewBookingService(gdb)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "schedules"`).
		WillReturnRows(scheduleRows(10, 3, 40))
	mock.ExpectQuery(`SELECT \* FROM "routes"`).
		WillReturnRows(routeRows(3, 500))
	mock.ExpectExec(`UPDATE "schedules" SET "available_seats"=available_seats - `).
		WithArgs(2, 10, 2).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`INSERT INTO "bookings"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectCommit()

	booking, err := svc.Book(context.Background(), 10, 7, 2)
	if err != nil {
		t.Fatalf("book error: %v", err)
	}

	if booking.TotalFare != 1000 {
		t.Errorf("total fare = %v, want 1000", booking.TotalFare)
	}
	if booking.SeatsBooked != 2 {
		t.Errorf("seats booked = %d, want 2", booking.SeatsBooked)
	}
	if booking.Status != models.BookingStatusConfirmed {
		t.Errorf("status = %s, want Confirmed", booking.Status)
	}
	if len(booking.BookingReference) != 8 {
		t.Errorf("reference %q does not have 8 characters", booking.BookingReference)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestBookRejectsNonPositiveSeats(t *testing.T) {
	gdb, mock := newMockDB(t)
	svc := NewBookingService(gdb)

	for _, seats := range []int{0, -3} {
		if _, err := svc.Book(context.Background(), 10, 7, seats); !errors.Is(err, ErrInvalidSeatCount) {
			t.Errorf("Book with %d seats returned %v, want ErrInvalidSeatCount", seats, err)
		}
	}

	// Validation fails before any SQL is issued
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unexpected SQL: %v", err)
	}
}

func TestBookRejectsOversizedRequest(t *testing.T) {
	gdb, mock := newMockDB(t)
	svc := NewBookingService(gdb)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "schedules"`).
		WillReturnRows(scheduleRows(10, 3, 5))
	mock.ExpectQuery(`SELECT \* FROM "routes"`).
		WillReturnRows(routeRows(3, 500))
	mock.ExpectRollback()

	if _, err := svc.Book(context.Background(), 10, 7, 6); !errors.Is(err, ErrInsufficientSeats) {
		t.Fatalf("Book returned %v, want ErrInsufficientSeats", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestBookLostRaceReportsInsufficientSeats(t *testing.T) {
	gdb, mock := newMockDB(t)
	svc := NewBookingService(gdb)

	// The read sees enough seats but the guarded decrement finds them gone
	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "schedules"`).
		WillReturnRows(scheduleRows(10, 3, 5))
	mock.ExpectQuery(`SELECT \* FROM "routes"`).
		WillReturnRows(routeRows(3, 500))
	mock.ExpectExec(`UPDATE "schedules" SET "available_seats"=available_seats - `).
		WithArgs(3, 10, 3).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	if _, err := svc.Book(context.Background(), 10, 7, 3); !errors.Is(err, ErrInsufficientSeats) {
		t.Fatalf("Book returned %v, want ErrInsufficientSeats", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestBookUnknownSchedule(t *testing.T) {
	gdb, mock := newMockDB(t)
	svc := NewBookingService(gdb)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "schedules"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectRollback()

	if _, err := svc.Book(context.Background(), 99, 7, 1); !errors.Is(err, ErrScheduleNotFound) {
		t.Fatalf("Book returned %v, want ErrScheduleNotFound", err)
	}
}

func bookingRows(id, scheduleID, seats int, status string) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "user_id", "schedule_id", "seats_booked", "total_fare", "status", "booking_reference"}).
		AddRow(id, 7, scheduleID, seats, 1000.0, status, "AB12CD34")
}

func TestCancelRestoresSeats(t *testing.T) {
	gdb, mock := newMockDB(t)
	svc := NewBookingService(gdb)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "bookings"`).
		WillReturnRows(bookingRows(1, 10, 2, "Confirmed"))
	mock.ExpectExec(`UPDATE "bookings" SET`).
		WithArgs("Cancelled", sqlmock.AnyArg(), 1).
		WillReturnResult(sqlmock.NewResult(0, 1))
	// Exactly the booked seat count goes back onto the schedule
	mock.ExpectExec(`UPDATE "schedules" SET "available_seats"=available_seats \+ `).
		WithArgs(2, 10).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	booking, err := svc.Cancel(context.Background(), 1, 7)
	if err != nil {
		t.Fatalf("cancel error: %v", err)
	}
	if booking.Status != models.BookingStatusCancelled {
		t.Errorf("status = %s, want Cancelled", booking.Status)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCancelAlreadyCancelledIsIdempotent(t *testing.T) {
	gdb, mock := newMockDB(t)
	svc := NewBookingService(gdb)

	// No update statements may run: a second cancel must not double-credit
	// the schedule's seat counter.
	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "bookings"`).
		WillReturnRows(bookingRows(1, 10, 2, "Cancelled"))
	mock.ExpectRollback()

	booking, err := svc.Cancel(context.Background(), 1, 7)
	if !errors.Is(err, ErrAlreadyCancelled) {
		t.Fatalf("Cancel returned %v, want ErrAlreadyCancelled", err)
	}
	if booking == nil || booking.Status != models.BookingStatusCancelled {
		t.Fatalf("expected the existing cancelled booking back, got %+v", booking)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCancelUnknownBooking(t *testing.T) {
	gdb, mock := newMockDB(t)
	svc := NewBookingService(gdb)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "bookings"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectRollback()

	if _, err := svc.Cancel(context.Background(), 1, 7); !errors.Is(err, ErrBookingNotFound) {
		t.Fatalf("Cancel returned %v, want ErrBookingNotFound", err)
	}
}

func TestPayTouchesOnlyBookingStatus(t *testing.T) {
	gdb, mock := newMockDB(t)
	svc := NewBookingService(gdb)

	// A single UPDATE against bookings; the schedules table is never touched
	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "bookings"`).
		WillReturnRows(bookingRows(1, 10, 2, "Confirmed"))
	mock.ExpectExec(`UPDATE "bookings" SET`).
		WithArgs("Paid", sqlmock.AnyArg(), 1).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	booking, err := svc.Pay(context.Background(), 1, 7)
	if err != nil {
		t.Fatalf("pay error: %v", err)
	}
	if booking.Status != models.BookingStatusPaid {
		t.Errorf("status = %s, want Paid", booking.Status)
	}
	if booking.SeatsBooked != 2 || booking.TotalFare != 1000 {
		t.Errorf("payment must not alter seats or fare: %+v", booking)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
