package bookingRepo

import (
	"context"
	"errors"
	"time"

	"astrodesk/database"
	"astrodesk/models"

	"github.com/google/uuid"
)

const collectionName = "bookings"

// BookingRepository persists consultation bookings.
type BookingRepository interface {
	// ExistsOnDate reports whether any booking holds date.
	ExistsOnDate(ctx context.Context, date string) (bool, error)
	// CreateForDate stores booking unless the day is already taken, in which case it
	// returns database.ErrDuplicate.
	CreateForDate(ctx context.Context, booking *models.Booking) (string, error)
	// ListByDate has no HTTP route; tests use it to count what a date holds.
	ListByDate(ctx context.Context, date string) ([]models.Booking, error)
	EnsureIndexes(ctx context.Context) error
}

type bookingRepo struct {
	coll database.Collection[models.Booking]
}

// NewBookingRepo returns a BookingRepository on the given backend.
func NewBookingRepo(b database.Backend) BookingRepository {
	return &bookingRepo{coll: database.NewCollection[models.Booking](b, collectionName)}
}

func (r *bookingRepo) ExistsOnDate(ctx context.Context, date string) (bool, error) {
	docs, err := r.coll.FindEqual(ctx, "date", date, 1)
	if err != nil {
		return false, err
	}
	return len(docs) > 0, nil
}

func (r *bookingRepo) CreateForDate(ctx context.Context, booking *models.Booking) (string, error) {
	if booking.ID == "" {
		booking.ID = uuid.New().String()
	}
	if booking.CreatedAt.IsZero() {
		booking.CreatedAt = time.Now().UTC()
	}
	if err := r.coll.CreateIfAbsent(ctx, booking.ID, *booking, "date", booking.Date); err != nil {
		if errors.Is(err, database.ErrDuplicate) {
			return "", database.ErrDuplicate
		}
		return "", err
	}
	return booking.ID, nil
}

func (r *bookingRepo) ListByDate(ctx context.Context, date string) ([]models.Booking, error) {
	return r.coll.FindEqual(ctx, "date", date, 0)
}

// EnsureIndexes makes the store reject a second booking for the same day.
func (r *bookingRepo) EnsureIndexes(ctx context.Context) error {
	return r.coll.EnsureUnique(ctx, "date")
}
