package booking

import (
	"context"

	"astrodesk/models"
	bookingRepo "astrodesk/database/repository/booking"

	"go.uber.org/zap"
)

// Consultations run on the hour between these bounds, inclusive.
const (
	FirstHour = 9
	LastHour  = 17
)

// DateLayout is the calendar-day format used on the wire and in the store.
const DateLayout = "2006-01-02"

// BookingService answers availability and takes whole-day bookings.
type BookingService interface {
	CheckAvailability(ctx context.Context, date string) ([]int, error)
	CreateBooking(ctx context.Context, req models.BookingRequest) (*models.BookingConfirmation, error)
}

// Notifier receives a booking once it is stored.
type Notifier interface {
	BookingCreated(ctx context.Context, b models.Booking)
}

// DefaultBookingService implements BookingService.
type DefaultBookingService struct {
	Repo     bookingRepo.BookingRepository
	Notifier Notifier
	Logger   *zap.Logger
}

func NewDefaultBookingService(repo bookingRepo.BookingRepository, notifier Notifier, logger *zap.Logger) *DefaultBookingService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DefaultBookingService{Repo: repo, Notifier: notifier, Logger: logger}
}
