package booking

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"astrodesk/database"
	bookingRepo "astrodesk/database/repository/booking"
	"astrodesk/models"
	"astrodesk/services/mail"
	"astrodesk/services/mail/mocks"
	"astrodesk/services/notification"
	"astrodesk/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap/zaptest"
)

type recordingNotifier struct {
	mu       sync.Mutex
	bookings []models.Booking
}

func (n *recordingNotifier) BookingCreated(_ context.Context, b models.Booking) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.bookings = append(n.bookings, b)
}

type failingRepo struct {
	bookingRepo.BookingRepository
	err error
}

func (r failingRepo) ExistsOnDate(context.Context, string) (bool, error) { return false, r.err }

func newService(t *testing.T) (*DefaultBookingService, bookingRepo.BookingRepository, *recordingNotifier) {
	t.Helper()
	repo := bookingRepo.NewBookingRepo(database.NewMemoryBackend())
	n := &recordingNotifier{}
	return NewDefaultBookingService(repo, n, zaptest.NewLogger(t)), repo, n
}

func validRequest(date string, hour int) models.BookingRequest {
	return models.BookingRequest{
		Date:  date,
		Hour:  hour,
		Name:  "Ana",
		Email: "ana@example.com",
		Phone: "600000000",
	}
}

func TestCheckAvailability(t *testing.T) {
	svc, _, _ := newService(t)
	ctx := context.Background()

	hours, err := svc.CheckAvailability(ctx, "2025-06-01")
	require.NoError(t, err)
	assert.Equal(t, []int{9, 10, 11, 12, 13, 14, 15, 16, 17}, hours)

	_, err = svc.CreateBooking(ctx, validRequest("2025-06-01", 11))
	require.NoError(t, err)

	hours, err = svc.CheckAvailability(ctx, "2025-06-01")
	require.NoError(t, err)
	assert.NotNil(t, hours)
	assert.Empty(t, hours)

	hours, err = svc.CheckAvailability(ctx, "2025-06-02")
	require.NoError(t, err)
	assert.Len(t, hours, 9)
}

func TestCheckAvailabilityAcceptsAnyDateKey(t *testing.T) {
	svc, _, _ := newService(t)
	for _, date := range []string{"2025-6-1", "01/06/2025", "tomorrow"} {
		hours, err := svc.CheckAvailability(context.Background(), date)
		require.NoError(t, err, date)
		assert.Equal(t, []int{9, 10, 11, 12, 13, 14, 15, 16, 17}, hours, date)
	}
}

func TestCreateBookingRejectsMalformedDate(t *testing.T) {
	svc, repo, n := newService(t)
	_, err := svc.CreateBooking(context.Background(), validRequest("2025-6-1", 10))
	assert.True(t, utils.IsKind(err, utils.KindInvalidInput))

	taken, err := repo.ExistsOnDate(context.Background(), "2025-6-1")
	require.NoError(t, err)
	assert.False(t, taken)
	assert.Empty(t, n.bookings)
}

func TestCheckAvailabilityStoreFailure(t *testing.T) {
	svc := NewDefaultBookingService(failingRepo{err: errors.New("connection reset")}, nil, nil)
	_, err := svc.CheckAvailability(context.Background(), "2025-06-01")
	require.Error(t, err)
	assert.Equal(t, 500, utils.StatusCode(err))
}

func TestCreateBookingHourBounds(t *testing.T) {
	tests := []struct {
		hour    int
		wantErr bool
	}{
		{8, true},
		{9, false},
		{17, false},
		{18, true},
		{0, true},
	}
	for _, tt := range tests {
		svc, repo, n := newService(t)
		date := "2025-07-01"

		conf, err := svc.CreateBooking(context.Background(), validRequest(date, tt.hour))
		taken, lookupErr := repo.ExistsOnDate(context.Background(), date)
		require.NoError(t, lookupErr)

		if tt.wantErr {
			require.Error(t, err, "hour %d", tt.hour)
			assert.True(t, utils.IsKind(err, utils.KindInvalidInput))
			assert.Equal(t, "Hour must be between 9 and 17", utils.PublicMessage(err))
			assert.False(t, taken, "nothing written for hour %d", tt.hour)
			assert.Empty(t, n.bookings)
			continue
		}
		require.NoError(t, err, "hour %d", tt.hour)
		assert.Equal(t, tt.hour, conf.Hour)
		assert.NotEmpty(t, conf.BookingID)
		assert.True(t, taken)
		require.Len(t, n.bookings, 1)
		assert.Equal(t, conf.BookingID, n.bookings[0].ID)
		assert.False(t, n.bookings[0].CreatedAt.IsZero())
	}
}

func TestCreateBookingSecondOnSameDayConflicts(t *testing.T) {
	svc, repo, n := newService(t)
	ctx := context.Background()

	_, err := svc.CreateBooking(ctx, validRequest("2025-06-01", 10))
	require.NoError(t, err)

	_, err = svc.CreateBooking(ctx, validRequest("2025-06-01", 15))
	require.Error(t, err)
	assert.True(t, utils.IsKind(err, utils.KindConflict))
	assert.Equal(t, 400, utils.StatusCode(err))
	assert.Equal(t, "This day is already fully booked", utils.PublicMessage(err))

	stored, err := repo.ListByDate(ctx, "2025-06-01")
	require.NoError(t, err)
	assert.Len(t, stored, 1)
	assert.Len(t, n.bookings, 1)
}

func TestCreateBookingConcurrentSameDay(t *testing.T) {
	svc, repo, _ := newService(t)
	ctx := context.Background()

	const workers = 12
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
		conflicts int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(hour int) {
			defer wg.Done()
			_, err := svc.CreateBooking(ctx, validRequest("2025-08-08", hour))
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				successes++
			case utils.IsKind(err, utils.KindConflict):
				conflicts++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}(FirstHour + i%9)
	}
	wg.Wait()

	assert.Equal(t, 1, successes)
	assert.Equal(t, workers-1, conflicts)

	stored, err := repo.ListByDate(ctx, "2025-08-08")
	require.NoError(t, err)
	assert.Len(t, stored, 1)
}

func TestCreateBookingWithoutNotifier(t *testing.T) {
	repo := bookingRepo.NewBookingRepo(database.NewMemoryBackend())
	svc := NewDefaultBookingService(repo, nil, nil)
	_, err := svc.CreateBooking(context.Background(), validRequest("2025-06-03", 9))
	assert.NoError(t, err)
}

func TestCreateBookingSucceedsWhenRelayIsDown(t *testing.T) {
	ctrl := gomock.NewController(t)
	sender := mocks.NewMockSender(ctrl)
	sender.EXPECT().
		Send(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(errors.New("dial tcp 10.0.0.1:587: connection refused"))

	n, err := notification.NewDefaultNotificationService(
		mail.NewComposer("Reading", "admin@example.com"), sender, time.Second, zaptest.NewLogger(t),
	)
	require.NoError(t, err)

	repo := bookingRepo.NewBookingRepo(database.NewMemoryBackend())
	svc := NewDefaultBookingService(repo, n, zaptest.NewLogger(t))

	ctx := context.Background()
	conf, err := svc.CreateBooking(ctx, validRequest("2025-09-09", 15))
	require.NoError(t, err)
	assert.NotEmpty(t, conf.BookingID)

	n.Close()

	taken, err := repo.ExistsOnDate(ctx, "2025-09-09")
	require.NoError(t, err)
	assert.True(t, taken)
}
