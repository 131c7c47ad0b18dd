package booking

import (
	"context"
	"errors"
	"strings"
	"time"

	"astrodesk/database"
	"astrodesk/models"
	"astrodesk/utils"

	"go.uber.org/zap"
)

const (
	msgHourOutOfRange = "Hour must be between 9 and 17"
	msgDayBooked      = "This day is already fully booked"
	msgInvalidDate    = "Date must be formatted as YYYY-MM-DD"
)

func allHours() []int {
	hours := make([]int, 0, LastHour-FirstHour+1)
	for h := FirstHour; h <= LastHour; h++ {
		hours = append(hours, h)
	}
	return hours
}

func validDate(date string) bool {
	_, err := time.Parse(DateLayout, date)
	return err == nil
}

// CheckAvailability returns every hour of the day when it is free and none otherwise.
// The date is an opaque key here; only CreateBooking insists on YYYY-MM-DD.
func (s *DefaultBookingService) CheckAvailability(ctx context.Context, date string) ([]int, error) {
	date = strings.TrimSpace(date)
	taken, err := s.Repo.ExistsOnDate(ctx, date)
	if err != nil {
		return nil, utils.Upstream("Failed to check availability", err)
	}
	if taken {
		return []int{}, nil
	}
	return allHours(), nil
}

// CreateBooking stores a booking for a free day and then notifies both parties.
func (s *DefaultBookingService) CreateBooking(ctx context.Context, req models.BookingRequest) (*models.BookingConfirmation, error) {
	if req.Hour < FirstHour || req.Hour > LastHour {
		return nil, utils.InvalidInput(msgHourOutOfRange)
	}
	date := strings.TrimSpace(req.Date)
	if !validDate(date) {
		return nil, utils.InvalidInput(msgInvalidDate)
	}

	taken, err := s.Repo.ExistsOnDate(ctx, date)
	if err != nil {
		return nil, utils.Upstream("Failed to check availability", err)
	}
	if taken {
		return nil, utils.Conflict(msgDayBooked)
	}

	booking := &models.Booking{
		Date:  date,
		Hour:  req.Hour,
		Name:  strings.TrimSpace(req.Name),
		Email: strings.TrimSpace(req.Email),
		Phone: strings.TrimSpace(req.Phone),
		Notes: strings.TrimSpace(req.Notes),
	}
	id, err := s.Repo.CreateForDate(ctx, booking)
	if err != nil {
		if errors.Is(err, database.ErrDuplicate) {
			// Another request took the day between the check and the write.
			s.Logger.Info("Booking lost race for date", zap.String("date", date))
			return nil, utils.Conflict(msgDayBooked)
		}
		return nil, utils.Upstream("Failed to save booking", err)
	}

	s.Logger.Info("Booking created", zap.String("booking_id", id), zap.String("date", date), zap.Int("hour", booking.Hour))
	if s.Notifier != nil {
		s.Notifier.BookingCreated(ctx, *booking)
	}

	return &models.BookingConfirmation{BookingID: id, Date: date, Hour: booking.Hour}, nil
}
