package bookings

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KakraGeek/staykasa-booking-service/internal/domain"
	bookingRepo "github.com/KakraGeek/staykasa-booking-service/internal/infra/storage/booking"
	propertyRepo "github.com/KakraGeek/staykasa-booking-service/internal/infra/storage/property"
	"github.com/KakraGeek/staykasa-booking-service/internal/service/bookings/models"
)

// Fakes

type fakeBookingRepo struct {
	mu       sync.Mutex
	bookings map[int64]*domain.Booking
}

func newFakeBookingRepo(bookings ...*domain.Booking) *fakeBookingRepo {
	m := make(map[int64]*domain.Booking, len(bookings))
	for _, b := range bookings {
		m[b.ID] = b
	}
	return &fakeBookingRepo{bookings: m}
}

func (f *fakeBookingRepo) GetByID(_ context.Context, id int64) (*domain.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	b, ok := f.bookings[id]
	if !ok {
		return nil, bookingRepo.ErrBookingNotFound
	}
	copied := *b
	return &copied, nil
}

func (f *fakeBookingRepo) GetByGuestID(_ context.Context, guestID int64, status *domain.BookingStatus) ([]*domain.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var result []*domain.Booking
	for _, b := range f.bookings {
		if b.GuestID != guestID {
			continue
		}
		if status != nil && b.Status != *status {
			continue
		}
		copied := *b
		result = append(result, &copied)
	}
	return result, nil
}

func (f *fakeBookingRepo) GetByPropertyWithFilter(_ context.Context, filter domain.PropertyBookingsFilter) ([]*domain.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var result []*domain.Booking
	for _, b := range f.bookings {
		if b.PropertyID != filter.PropertyID {
			continue
		}
		if !filter.IncludeInactive && b.IsTerminal() && filter.Status == nil {
			continue
		}
		if filter.Status != nil && b.Status != *filter.Status {
			continue
		}
		copied := *b
		result = append(result, &copied)
	}
	return result, nil
}

func (f *fakeBookingRepo) UpdateStatus(_ context.Context, id int64, status domain.BookingStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	b, ok := f.bookings[id]
	if !ok {
		return bookingRepo.ErrBookingNotFound
	}
	b.Status = status
	b.UpdatedAt = time.Now()
	return nil
}

func (f *fakeBookingRepo) Cancel(_ context.Context, id int64, reason string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	b, ok := f.bookings[id]
	if !ok {
		return bookingRepo.ErrBookingNotFound
	}
	now := time.Now()
	b.Status = domain.StatusCancelled
	b.CancelledAt = &now
	if reason != "" {
		b.CancellationReason = &reason
	}
	b.UpdatedAt = now
	return nil
}

func (f *fakeBookingRepo) CompleteElapsed(_ context.Context, before time.Time) ([]*domain.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var completed []*domain.Booking
	for _, b := range f.bookings {
		if b.Status == domain.StatusConfirmed && !b.CheckOut.After(before) {
			b.Status = domain.StatusCompleted
			copied := *b
			completed = append(completed, &copied)
		}
	}
	return completed, nil
}

type fakePropertyRepo struct {
	properties map[int64]*domain.Property
}

func (f *fakePropertyRepo) GetByID(_ context.Context, id int64) (*domain.Property, error) {
	p, ok := f.properties[id]
	if !ok {
		return nil, propertyRepo.ErrPropertyNotFound
	}
	return p, nil
}

type fakeNotifier struct{}

func (fakeNotifier) Notify(_ context.Context, _ []int64, _ string, _ interface{}) error {
	return nil
}

type fixedTime struct {
	now time.Time
}

func (f *fixedTime) Now() time.Time {
	return f.now
}

type nopLogger struct{}

func (nopLogger) Info(format string, v ...interface{})  {}
func (nopLogger) Warn(format string, v ...interface{})  {}
func (nopLogger) Error(format string, v ...interface{}) {}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Fixture

const (
	guestID = int64(10)
	hostID  = int64(5)
	adminID = int64(1)
)

func testProperty() *domain.Property {
	return &domain.Property{ID: 1, OwnerID: hostID, MaxGuests: 4, IsActive: true}
}

func testBooking(id int64, status domain.BookingStatus) *domain.Booking {
	return &domain.Booking{
		ID:         id,
		Reference:  "ref-1",
		PropertyID: 1,
		GuestID:    guestID,
		CheckIn:    date(2026, 3, 1),
		CheckOut:   date(2026, 3, 4),
		Guests:     2,
		TotalPrice: 1351.50,
		Status:     status,
	}
}

func newTestService(bookings ...*domain.Booking) (*Service, *fakeBookingRepo) {
	repo := newFakeBookingRepo(bookings...)
	svc := NewService(
		repo,
		&fakePropertyRepo{properties: map[int64]*domain.Property{1: testProperty()}},
		fakeNotifier{},
		nopLogger{},
	)
	// Фиксируем "сегодня" после даты выезда тестового бронирования
	svc.timeProvider = &fixedTime{now: date(2026, 3, 10)}
	return svc, repo
}

func transition(actorID int64, role string, target string) *models.TransitionRequest {
	return &models.TransitionRequest{
		ActorID:      actorID,
		ActorRole:    role,
		TargetStatus: target,
	}
}

// Transition tests

func TestTransition_HostConfirmsPending(t *testing.T) {
	svc, _ := newTestService(testBooking(1, domain.StatusPending))

	resp, err := svc.Transition(context.Background(), 1, transition(hostID, "host", "confirmed"))
	require.NoError(t, err)
	assert.Equal(t, "confirmed", resp.Status)
}

func TestTransition_AdminConfirmsPending(t *testing.T) {
	svc, _ := newTestService(testBooking(1, domain.StatusPending))

	resp, err := svc.Transition(context.Background(), 1, transition(adminID, "admin", "confirmed"))
	require.NoError(t, err)
	assert.Equal(t, "confirmed", resp.Status)
}

func TestTransition_GuestMayNotConfirm(t *testing.T) {
	svc, _ := newTestService(testBooking(1, domain.StatusPending))

	_, err := svc.Transition(context.Background(), 1, transition(guestID, "guest", "confirmed"))
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestTransition_ForeignHostMayNotConfirm(t *testing.T) {
	svc, _ := newTestService(testBooking(1, domain.StatusPending))

	_, err := svc.Transition(context.Background(), 1, transition(999, "host", "confirmed"))
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestTransition_GuestCancelsOwnBooking(t *testing.T) {
	svc, repo := newTestService(testBooking(1, domain.StatusConfirmed))

	reason := "plans changed"
	req := transition(guestID, "guest", "cancelled")
	req.Reason = &reason

	resp, err := svc.Transition(context.Background(), 1, req)
	require.NoError(t, err)
	assert.Equal(t, "cancelled", resp.Status)
	require.NotNil(t, resp.CancellationReason)
	assert.Equal(t, "plans changed", *resp.CancellationReason)
	assert.NotNil(t, resp.CancelledAt)

	stored, err := repo.GetByID(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCancelled, stored.Status)
}

func TestTransition_GuestMayNotCancelForeignBooking(t *testing.T) {
	svc, _ := newTestService(testBooking(1, domain.StatusConfirmed))

	_, err := svc.Transition(context.Background(), 1, transition(777, "guest", "cancelled"))
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestTransition_HostCancelsPendingBooking(t *testing.T) {
	svc, _ := newTestService(testBooking(1, domain.StatusPending))

	resp, err := svc.Transition(context.Background(), 1, transition(hostID, "host", "cancelled"))
	require.NoError(t, err)
	assert.Equal(t, "cancelled", resp.Status)
}

func TestTransition_SystemCompletesElapsedBooking(t *testing.T) {
	svc, _ := newTestService(testBooking(1, domain.StatusConfirmed))

	resp, err := svc.Transition(context.Background(), 1, transition(1, "system", "completed"))
	require.NoError(t, err)
	assert.Equal(t, "completed", resp.Status)
}

func TestTransition_CompleteBeforeCheckoutRejected(t *testing.T) {
	svc, _ := newTestService(testBooking(1, domain.StatusConfirmed))
	svc.timeProvider = &fixedTime{now: date(2026, 3, 2)}

	_, err := svc.Transition(context.Background(), 1, transition(1, "system", "completed"))
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestTransition_GuestMayNotComplete(t *testing.T) {
	svc, _ := newTestService(testBooking(1, domain.StatusConfirmed))

	_, err := svc.Transition(context.Background(), 1, transition(guestID, "guest", "completed"))
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestTransition_TerminalStatusesAreFinal(t *testing.T) {
	tests := []struct {
		name   string
		status domain.BookingStatus
		target string
	}{
		{"cancelled to confirmed", domain.StatusCancelled, "confirmed"},
		{"cancelled to completed", domain.StatusCancelled, "completed"},
		{"completed to cancelled", domain.StatusCompleted, "cancelled"},
		{"completed to confirmed", domain.StatusCompleted, "confirmed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _ := newTestService(testBooking(1, tt.status))

			_, err := svc.Transition(context.Background(), 1, transition(adminID, "admin", tt.target))
			assert.ErrorIs(t, err, ErrInvalidTransition)
		})
	}
}

func TestTransition_PendingMayNotBeCompleted(t *testing.T) {
	svc, _ := newTestService(testBooking(1, domain.StatusPending))

	_, err := svc.Transition(context.Background(), 1, transition(adminID, "admin", "completed"))
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestTransition_ConfirmedMayNotBeConfirmedAgain(t *testing.T) {
	svc, _ := newTestService(testBooking(1, domain.StatusConfirmed))

	_, err := svc.Transition(context.Background(), 1, transition(hostID, "host", "confirmed"))
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestTransition_PendingIsNotATarget(t *testing.T) {
	svc, _ := newTestService(testBooking(1, domain.StatusConfirmed))

	_, err := svc.Transition(context.Background(), 1, transition(adminID, "admin", "pending"))
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestTransition_UnknownStatusRejected(t *testing.T) {
	svc, _ := newTestService(testBooking(1, domain.StatusConfirmed))

	_, err := svc.Transition(context.Background(), 1, transition(adminID, "admin", "archived"))
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestTransition_BookingNotFound(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.Transition(context.Background(), 42, transition(adminID, "admin", "cancelled"))
	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestTransition_InvalidActor(t *testing.T) {
	svc, _ := newTestService(testBooking(1, domain.StatusPending))

	_, err := svc.Transition(context.Background(), 1, transition(0, "guest", "cancelled"))
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.Transition(context.Background(), 1, transition(guestID, "owner", "cancelled"))
	assert.ErrorIs(t, err, ErrInvalidInput)
}

// Read access tests

func TestGetByID_GuestSeesOwnBooking(t *testing.T) {
	svc, _ := newTestService(testBooking(1, domain.StatusConfirmed))

	resp, err := svc.GetByID(context.Background(), 1, domain.Actor{ID: guestID, Role: domain.RoleGuest})
	require.NoError(t, err)
	assert.Equal(t, int64(1), resp.ID)
	assert.Equal(t, 3, resp.Nights)
}

func TestGetByID_GuestMayNotSeeForeignBooking(t *testing.T) {
	svc, _ := newTestService(testBooking(1, domain.StatusConfirmed))

	_, err := svc.GetByID(context.Background(), 1, domain.Actor{ID: 777, Role: domain.RoleGuest})
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestGetByID_HostSeesBookingOfOwnProperty(t *testing.T) {
	svc, _ := newTestService(testBooking(1, domain.StatusConfirmed))

	_, err := svc.GetByID(context.Background(), 1, domain.Actor{ID: hostID, Role: domain.RoleHost})
	assert.NoError(t, err)
}

func TestGetByID_ForeignHostDenied(t *testing.T) {
	svc, _ := newTestService(testBooking(1, domain.StatusConfirmed))

	_, err := svc.GetByID(context.Background(), 1, domain.Actor{ID: 999, Role: domain.RoleHost})
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestGetByID_AdminSeesAnyBooking(t *testing.T) {
	svc, _ := newTestService(testBooking(1, domain.StatusConfirmed))

	_, err := svc.GetByID(context.Background(), 1, domain.Actor{ID: adminID, Role: domain.RoleAdmin})
	assert.NoError(t, err)
}

// List tests

func TestGetGuestBookings_SelfAccess(t *testing.T) {
	b1 := testBooking(1, domain.StatusConfirmed)
	b2 := testBooking(2, domain.StatusCancelled)
	svc, _ := newTestService(b1, b2)

	resp, err := svc.GetGuestBookings(context.Background(), &models.GetGuestBookingsRequest{
		GuestID:   guestID,
		ActorID:   guestID,
		ActorRole: "guest",
	})
	require.NoError(t, err)
	assert.Len(t, resp.Bookings, 2)
}

func TestGetGuestBookings_StatusFilter(t *testing.T) {
	b1 := testBooking(1, domain.StatusConfirmed)
	b2 := testBooking(2, domain.StatusCancelled)
	svc, _ := newTestService(b1, b2)

	status := "confirmed"
	resp, err := svc.GetGuestBookings(context.Background(), &models.GetGuestBookingsRequest{
		GuestID:   guestID,
		ActorID:   guestID,
		ActorRole: "guest",
		Status:    &status,
	})
	require.NoError(t, err)
	require.Len(t, resp.Bookings, 1)
	assert.Equal(t, "confirmed", resp.Bookings[0].Status)
}

func TestGetGuestBookings_ForeignGuestDenied(t *testing.T) {
	svc, _ := newTestService(testBooking(1, domain.StatusConfirmed))

	_, err := svc.GetGuestBookings(context.Background(), &models.GetGuestBookingsRequest{
		GuestID:   guestID,
		ActorID:   777,
		ActorRole: "guest",
	})
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestGetPropertyBookings_OwnerAccess(t *testing.T) {
	svc, _ := newTestService(testBooking(1, domain.StatusConfirmed))

	resp, err := svc.GetPropertyBookings(context.Background(), &models.GetPropertyBookingsRequest{
		PropertyID: 1,
		ActorID:    hostID,
		ActorRole:  "host",
	})
	require.NoError(t, err)
	assert.Len(t, resp.Bookings, 1)
}

func TestGetPropertyBookings_ForeignHostDenied(t *testing.T) {
	svc, _ := newTestService(testBooking(1, domain.StatusConfirmed))

	_, err := svc.GetPropertyBookings(context.Background(), &models.GetPropertyBookingsRequest{
		PropertyID: 1,
		ActorID:    999,
		ActorRole:  "host",
	})
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestGetPropertyBookings_GuestDenied(t *testing.T) {
	svc, _ := newTestService(testBooking(1, domain.StatusConfirmed))

	_, err := svc.GetPropertyBookings(context.Background(), &models.GetPropertyBookingsRequest{
		PropertyID: 1,
		ActorID:    guestID,
		ActorRole:  "guest",
	})
	assert.ErrorIs(t, err, ErrForbidden)
}

// Background sweep tests

func TestCompleteElapsed(t *testing.T) {
	elapsed := testBooking(1, domain.StatusConfirmed)

	future := testBooking(2, domain.StatusConfirmed)
	future.CheckIn = date(2026, 4, 1)
	future.CheckOut = date(2026, 4, 5)

	pending := testBooking(3, domain.StatusPending)

	svc, repo := newTestService(elapsed, future, pending)

	count, err := svc.CompleteElapsed(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	stored, err := repo.GetByID(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCompleted, stored.Status)

	// Будущее confirmed и pending не тронуты
	stored, err = repo.GetByID(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusConfirmed, stored.Status)

	stored, err = repo.GetByID(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, stored.Status)
}

func TestCompleteElapsed_NothingToComplete(t *testing.T) {
	svc, _ := newTestService()

	count, err := svc.CompleteElapsed(context.Background())
	require.NoError(t, err)
	assert.Zero(t, count)
}
